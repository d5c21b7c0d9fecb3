package observability

import (
	"context"
	"log/slog"

	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/metric"
	"go.opentelemetry.io/otel/trace"

	"github.com/finprodb/shop-api/internal/domains/orders/domain"
	"github.com/finprodb/shop-api/internal/domains/orders/ports"
	platformobs "github.com/finprodb/shop-api/internal/platform/observability"
	"github.com/finprodb/shop-api/internal/shared/pagination"
)

const adminTracerName = "github.com/finprodb/shop-api/internal/domains/orders/adapters/observability/admin"

// AdminService decorates order moderation.
type AdminService struct {
	inner ports.AdminService
	platformobs.Decorator
	decisions metric.Int64Counter
}

func NewAdmin(inner ports.AdminService, opts ...platformobs.Option) ports.AdminService {
	d := platformobs.NewDecorator(adminTracerName, opts...)
	return &AdminService{
		inner:     inner,
		Decorator: d,
		decisions: d.Counter("orders.admin.transitions", "Number of admin driven order transitions"),
	}
}

func (s *AdminService) List(ctx context.Context, status *domain.Status, page pagination.Request) (pagination.Page[*ports.AdminView], error) {
	attrs := []attribute.KeyValue{attribute.Int("page.number", page.Page)}
	if status != nil {
		attrs = append(attrs, attribute.String("order.status", string(*status)))
	}
	ctx, span := s.Tracer.Start(ctx, "OrderAdminService.List", trace.WithAttributes(attrs...))
	defer span.End()
	result, err := s.inner.List(ctx, status, page)
	if err != nil {
		return result, s.HandleError(ctx, span, err, "failed to list orders")
	}
	return result, nil
}

func (s *AdminService) Get(ctx context.Context, orderID int64) (*ports.AdminView, error) {
	ctx, span := s.Tracer.Start(ctx, "OrderAdminService.Get", trace.WithAttributes(attribute.Int64("order.id", orderID)))
	defer span.End()
	return s.inner.Get(ctx, orderID)
}

func (s *AdminService) Approve(ctx context.Context, orderID, adminID int64) (*ports.AdminView, error) {
	return s.transition(ctx, "Approve", orderID, func(ctx context.Context) (*ports.AdminView, error) {
		return s.inner.Approve(ctx, orderID, adminID)
	})
}

func (s *AdminService) Reject(ctx context.Context, orderID, adminID int64) (*ports.AdminView, error) {
	return s.transition(ctx, "Reject", orderID, func(ctx context.Context) (*ports.AdminView, error) {
		return s.inner.Reject(ctx, orderID, adminID)
	})
}

func (s *AdminService) StartDelivery(ctx context.Context, orderID int64) (*ports.AdminView, error) {
	return s.transition(ctx, "StartDelivery", orderID, func(ctx context.Context) (*ports.AdminView, error) {
		return s.inner.StartDelivery(ctx, orderID)
	})
}

func (s *AdminService) MarkDelivered(ctx context.Context, orderID int64) (*ports.AdminView, error) {
	return s.transition(ctx, "MarkDelivered", orderID, func(ctx context.Context) (*ports.AdminView, error) {
		return s.inner.MarkDelivered(ctx, orderID)
	})
}

func (s *AdminService) transition(ctx context.Context, op string, orderID int64, call func(context.Context) (*ports.AdminView, error)) (*ports.AdminView, error) {
	ctx, span := s.Tracer.Start(ctx, "OrderAdminService."+op, trace.WithAttributes(attribute.Int64("order.id", orderID)))
	defer span.End()
	view, err := call(ctx)
	if err != nil {
		return nil, s.HandleError(ctx, span, err, "order transition failed", slog.String("op", op), slog.Int64("orderId", orderID))
	}
	if s.decisions != nil {
		s.decisions.Add(ctx, 1, metric.WithAttributes(attribute.String("op", op)))
	}
	s.LogInfo(ctx, "order transitioned", slog.String("op", op), slog.Int64("orderId", orderID), slog.String("status", string(view.Order.Status)))
	return view, nil
}

func (s *AdminService) Summary(ctx context.Context) (*ports.Summary, error) {
	ctx, span := s.Tracer.Start(ctx, "OrderAdminService.Summary")
	defer span.End()
	summary, err := s.inner.Summary(ctx)
	if err != nil {
		return nil, s.HandleError(ctx, span, err, "failed to build summary")
	}
	return summary, nil
}

var _ ports.AdminService = (*AdminService)(nil)
