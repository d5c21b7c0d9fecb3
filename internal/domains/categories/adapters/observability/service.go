package observability

import (
	"context"
	"log/slog"

	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/metric"
	"go.opentelemetry.io/otel/trace"

	"github.com/finprodb/shop-api/internal/domains/categories/domain"
	"github.com/finprodb/shop-api/internal/domains/categories/ports"
	platformobs "github.com/finprodb/shop-api/internal/platform/observability"
	"github.com/finprodb/shop-api/internal/platform/storage"
	"github.com/finprodb/shop-api/internal/shared/pagination"
)

const tracerName = "github.com/finprodb/shop-api/internal/domains/categories/adapters/observability/service"

// Service decorates the category service with tracing, logging, and metrics.
type Service struct {
	inner ports.Service
	platformobs.Decorator
	mutations metric.Int64Counter
}

func New(inner ports.Service, opts ...platformobs.Option) ports.Service {
	d := platformobs.NewDecorator(tracerName, opts...)
	return &Service{
		inner:     inner,
		Decorator: d,
		mutations: d.Counter("categories.service.mutations", "Number of category writes"),
	}
}

func (s *Service) ListPublic(ctx context.Context, page pagination.Request) (pagination.Page[*domain.Category], error) {
	ctx, span := s.Tracer.Start(ctx, "CategoryService.ListPublic", trace.WithAttributes(attribute.Int("page.number", page.Page)))
	defer span.End()
	return s.inner.ListPublic(ctx, page)
}

func (s *Service) ListAdmin(ctx context.Context, page pagination.Request) (pagination.Page[*domain.Category], error) {
	ctx, span := s.Tracer.Start(ctx, "CategoryService.ListAdmin", trace.WithAttributes(attribute.Int("page.number", page.Page)))
	defer span.End()
	return s.inner.ListAdmin(ctx, page)
}

func (s *Service) Get(ctx context.Context, id int64) (*domain.Category, error) {
	ctx, span := s.Tracer.Start(ctx, "CategoryService.Get", trace.WithAttributes(attribute.Int64("category.id", id)))
	defer span.End()
	return s.inner.Get(ctx, id)
}

func (s *Service) Create(ctx context.Context, input ports.CategoryInput) (*domain.Category, error) {
	ctx, span := s.Tracer.Start(ctx, "CategoryService.Create", trace.WithAttributes(attribute.String("category.name", input.Name)))
	defer span.End()
	result, err := s.inner.Create(ctx, input)
	if err != nil {
		return nil, s.HandleError(ctx, span, err, "failed to create category", slog.String("name", input.Name))
	}
	platformobs.Add(ctx, s.mutations)
	s.LogInfo(ctx, "category created", slog.Int64("categoryId", result.ID))
	return result, nil
}

func (s *Service) Update(ctx context.Context, id int64, input ports.CategoryInput) (*domain.Category, error) {
	ctx, span := s.Tracer.Start(ctx, "CategoryService.Update", trace.WithAttributes(attribute.Int64("category.id", id)))
	defer span.End()
	result, err := s.inner.Update(ctx, id, input)
	if err != nil {
		return nil, s.HandleError(ctx, span, err, "failed to update category", slog.Int64("categoryId", id))
	}
	platformobs.Add(ctx, s.mutations)
	return result, nil
}

func (s *Service) Delete(ctx context.Context, id int64) error {
	ctx, span := s.Tracer.Start(ctx, "CategoryService.Delete", trace.WithAttributes(attribute.Int64("category.id", id)))
	defer span.End()
	if err := s.inner.Delete(ctx, id); err != nil {
		return s.HandleError(ctx, span, err, "failed to delete category", slog.Int64("categoryId", id))
	}
	platformobs.Add(ctx, s.mutations)
	s.LogInfo(ctx, "category deleted", slog.Int64("categoryId", id))
	return nil
}

func (s *Service) UploadImage(ctx context.Context, id int64, upload *storage.Upload) (*domain.Category, error) {
	ctx, span := s.Tracer.Start(ctx, "CategoryService.UploadImage", trace.WithAttributes(attribute.Int64("category.id", id)))
	defer span.End()
	result, err := s.inner.UploadImage(ctx, id, upload)
	if err != nil {
		return nil, s.HandleError(ctx, span, err, "failed to upload category image", slog.Int64("categoryId", id))
	}
	platformobs.Add(ctx, s.mutations)
	return result, nil
}

var _ ports.Service = (*Service)(nil)
