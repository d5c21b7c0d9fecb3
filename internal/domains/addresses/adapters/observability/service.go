package observability

import (
	"context"
	"log/slog"

	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/trace"

	"github.com/finprodb/shop-api/internal/domains/addresses/domain"
	"github.com/finprodb/shop-api/internal/domains/addresses/ports"
	platformobs "github.com/finprodb/shop-api/internal/platform/observability"
)

const tracerName = "github.com/finprodb/shop-api/internal/domains/addresses/adapters/observability/service"

// Service decorates the address service with tracing and logging.
type Service struct {
	inner ports.Service
	platformobs.Decorator
}

func New(inner ports.Service, opts ...platformobs.Option) ports.Service {
	return &Service{inner: inner, Decorator: platformobs.NewDecorator(tracerName, opts...)}
}

func (s *Service) List(ctx context.Context, userID int64) ([]*domain.Address, error) {
	ctx, span := s.Tracer.Start(ctx, "AddressService.List", trace.WithAttributes(attribute.Int64("user.id", userID)))
	defer span.End()
	return s.inner.List(ctx, userID)
}

func (s *Service) Get(ctx context.Context, userID, id int64) (*domain.Address, error) {
	ctx, span := s.Tracer.Start(ctx, "AddressService.Get", trace.WithAttributes(attribute.Int64("address.id", id)))
	defer span.End()
	return s.inner.Get(ctx, userID, id)
}

func (s *Service) Default(ctx context.Context, userID int64) (*domain.Address, error) {
	ctx, span := s.Tracer.Start(ctx, "AddressService.Default", trace.WithAttributes(attribute.Int64("user.id", userID)))
	defer span.End()
	return s.inner.Default(ctx, userID)
}

func (s *Service) Create(ctx context.Context, userID int64, fields *domain.Fields) (*domain.Address, error) {
	ctx, span := s.Tracer.Start(ctx, "AddressService.Create", trace.WithAttributes(attribute.Int64("user.id", userID)))
	defer span.End()
	address, err := s.inner.Create(ctx, userID, fields)
	if err != nil {
		return nil, s.HandleError(ctx, span, err, "failed to create address", slog.Int64("userId", userID))
	}
	return address, nil
}

func (s *Service) Update(ctx context.Context, userID, id int64, fields *domain.Fields) (*domain.Address, error) {
	ctx, span := s.Tracer.Start(ctx, "AddressService.Update", trace.WithAttributes(attribute.Int64("address.id", id)))
	defer span.End()
	address, err := s.inner.Update(ctx, userID, id, fields)
	if err != nil {
		return nil, s.HandleError(ctx, span, err, "failed to update address", slog.Int64("addressId", id))
	}
	return address, nil
}

func (s *Service) Delete(ctx context.Context, userID, id int64) error {
	ctx, span := s.Tracer.Start(ctx, "AddressService.Delete", trace.WithAttributes(attribute.Int64("address.id", id)))
	defer span.End()
	if err := s.inner.Delete(ctx, userID, id); err != nil {
		return s.HandleError(ctx, span, err, "failed to delete address", slog.Int64("addressId", id))
	}
	return nil
}

func (s *Service) SetDefault(ctx context.Context, userID, id int64) (*domain.Address, error) {
	ctx, span := s.Tracer.Start(ctx, "AddressService.SetDefault", trace.WithAttributes(attribute.Int64("address.id", id)))
	defer span.End()
	address, err := s.inner.SetDefault(ctx, userID, id)
	if err != nil {
		return nil, s.HandleError(ctx, span, err, "failed to set default address", slog.Int64("addressId", id))
	}
	return address, nil
}

var _ ports.Service = (*Service)(nil)
