package observability

import (
	"context"
	"log/slog"

	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/metric"
	"go.opentelemetry.io/otel/trace"

	"github.com/finprodb/shop-api/internal/domains/products/domain"
	"github.com/finprodb/shop-api/internal/domains/products/ports"
	platformobs "github.com/finprodb/shop-api/internal/platform/observability"
	"github.com/finprodb/shop-api/internal/platform/storage"
	"github.com/finprodb/shop-api/internal/shared/pagination"
)

const tracerName = "github.com/finprodb/shop-api/internal/domains/products/adapters/observability/service"

// Service decorates the product service with tracing, logging, and metrics.
type Service struct {
	inner ports.Service
	platformobs.Decorator
	mutations      metric.Int64Counter
	stockDecrement metric.Int64Counter
}

func New(inner ports.Service, opts ...platformobs.Option) ports.Service {
	d := platformobs.NewDecorator(tracerName, opts...)
	return &Service{
		inner:          inner,
		Decorator:      d,
		mutations:      d.Counter("products.service.mutations", "Number of product writes"),
		stockDecrement: d.Counter("products.service.stock_decrements", "Number of stock decrements applied"),
	}
}

func (s *Service) ListPublic(ctx context.Context, filter ports.ListFilter) (pagination.Page[*domain.Product], error) {
	attrs := []attribute.KeyValue{attribute.Int("page.number", filter.Page.Page), attribute.String("products.query", filter.Query)}
	if filter.CategoryID != nil {
		attrs = append(attrs, attribute.Int64("category.id", *filter.CategoryID))
	}
	ctx, span := s.Tracer.Start(ctx, "ProductService.ListPublic", trace.WithAttributes(attrs...))
	defer span.End()
	result, err := s.inner.ListPublic(ctx, filter)
	if err != nil {
		return result, s.HandleError(ctx, span, err, "failed to list products")
	}
	return result, nil
}

func (s *Service) GetPublic(ctx context.Context, id int64) (*domain.Product, error) {
	ctx, span := s.Tracer.Start(ctx, "ProductService.GetPublic", trace.WithAttributes(attribute.Int64("product.id", id)))
	defer span.End()
	return s.inner.GetPublic(ctx, id)
}

func (s *Service) ListAdmin(ctx context.Context, page pagination.Request) (pagination.Page[*domain.Product], error) {
	ctx, span := s.Tracer.Start(ctx, "ProductService.ListAdmin", trace.WithAttributes(attribute.Int("page.number", page.Page)))
	defer span.End()
	return s.inner.ListAdmin(ctx, page)
}

func (s *Service) Get(ctx context.Context, id int64) (*domain.Product, error) {
	ctx, span := s.Tracer.Start(ctx, "ProductService.Get", trace.WithAttributes(attribute.Int64("product.id", id)))
	defer span.End()
	return s.inner.Get(ctx, id)
}

func (s *Service) Lookup(ctx context.Context, id int64) (*domain.Product, error) {
	ctx, span := s.Tracer.Start(ctx, "ProductService.Lookup", trace.WithAttributes(attribute.Int64("product.id", id)))
	defer span.End()
	return s.inner.Lookup(ctx, id)
}

func (s *Service) Create(ctx context.Context, details domain.Details) (*domain.Product, error) {
	ctx, span := s.Tracer.Start(ctx, "ProductService.Create", trace.WithAttributes(attribute.String("product.name", details.Name)))
	defer span.End()
	result, err := s.inner.Create(ctx, details)
	if err != nil {
		return nil, s.HandleError(ctx, span, err, "failed to create product", slog.String("name", details.Name))
	}
	platformobs.Add(ctx, s.mutations)
	s.LogInfo(ctx, "product created", slog.Int64("productId", result.ID))
	return result, nil
}

func (s *Service) Update(ctx context.Context, id int64, details domain.Details) (*domain.Product, error) {
	ctx, span := s.Tracer.Start(ctx, "ProductService.Update", trace.WithAttributes(attribute.Int64("product.id", id)))
	defer span.End()
	result, err := s.inner.Update(ctx, id, details)
	if err != nil {
		return nil, s.HandleError(ctx, span, err, "failed to update product", slog.Int64("productId", id))
	}
	platformobs.Add(ctx, s.mutations)
	return result, nil
}

func (s *Service) Delete(ctx context.Context, id int64) error {
	ctx, span := s.Tracer.Start(ctx, "ProductService.Delete", trace.WithAttributes(attribute.Int64("product.id", id)))
	defer span.End()
	if err := s.inner.Delete(ctx, id); err != nil {
		return s.HandleError(ctx, span, err, "failed to delete product", slog.Int64("productId", id))
	}
	platformobs.Add(ctx, s.mutations)
	s.LogInfo(ctx, "product deleted", slog.Int64("productId", id))
	return nil
}

func (s *Service) UploadImage(ctx context.Context, id int64, upload *storage.Upload) (*domain.Product, error) {
	ctx, span := s.Tracer.Start(ctx, "ProductService.UploadImage", trace.WithAttributes(attribute.Int64("product.id", id)))
	defer span.End()
	result, err := s.inner.UploadImage(ctx, id, upload)
	if err != nil {
		return nil, s.HandleError(ctx, span, err, "failed to upload product image", slog.Int64("productId", id))
	}
	platformobs.Add(ctx, s.mutations)
	return result, nil
}

func (s *Service) DecrementStock(ctx context.Context, id int64, qty int) error {
	ctx, span := s.Tracer.Start(ctx, "ProductService.DecrementStock", trace.WithAttributes(
		attribute.Int64("product.id", id),
		attribute.Int("product.quantity", qty),
	))
	defer span.End()
	if err := s.inner.DecrementStock(ctx, id, qty); err != nil {
		return s.HandleError(ctx, span, err, "failed to decrement stock", slog.Int64("productId", id), slog.Int("quantity", qty))
	}
	platformobs.Add(ctx, s.stockDecrement)
	return nil
}

var _ ports.Service = (*Service)(nil)
