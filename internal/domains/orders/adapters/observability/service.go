package observability

import (
	"context"
	"log/slog"
	"time"

	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/metric"
	"go.opentelemetry.io/otel/trace"

	"github.com/finprodb/shop-api/internal/domains/orders/domain"
	"github.com/finprodb/shop-api/internal/domains/orders/ports"
	platformobs "github.com/finprodb/shop-api/internal/platform/observability"
)

const tracerName = "github.com/finprodb/shop-api/internal/domains/orders/adapters/observability/service"

// Service decorates the order service with tracing, logging, and metrics.
type Service struct {
	inner ports.Service
	platformobs.Decorator
	placed    metric.Int64Counter
	paid      metric.Int64Counter
	cancelled metric.Int64Counter
	completed metric.Int64Counter
}

func New(inner ports.Service, opts ...platformobs.Option) ports.Service {
	d := platformobs.NewDecorator(tracerName, opts...)
	return &Service{
		inner:     inner,
		Decorator: d,
		placed:    d.Counter("orders.service.placed", "Number of orders placed"),
		paid:      d.Counter("orders.service.payment_successes", "Number of payment successes applied"),
		cancelled: d.Counter("orders.service.cancelled", "Number of orders cancelled"),
		completed: d.Counter("orders.service.completed", "Number of orders confirmed by customers"),
	}
}

func (s *Service) Checkout(ctx context.Context, input ports.CheckoutInput) (*domain.Order, error) {
	ctx, span := s.Tracer.Start(ctx, "OrderService.Checkout", trace.WithAttributes(attribute.Int64("user.id", input.UserID)))
	defer span.End()
	order, err := s.inner.Checkout(ctx, input)
	if err != nil {
		return nil, s.HandleError(ctx, span, err, "checkout failed", slog.Int64("userId", input.UserID))
	}
	s.recordPlaced(ctx, span, order)
	return order, nil
}

func (s *Service) PlaceOrder(ctx context.Context, input ports.CheckoutInput) (*domain.Order, error) {
	ctx, span := s.Tracer.Start(ctx, "OrderService.PlaceOrder", trace.WithAttributes(attribute.Int64("user.id", input.UserID)))
	defer span.End()
	order, err := s.inner.PlaceOrder(ctx, input)
	if err != nil {
		return nil, s.HandleError(ctx, span, err, "failed to place order", slog.Int64("userId", input.UserID))
	}
	s.recordPlaced(ctx, span, order)
	return order, nil
}

func (s *Service) recordPlaced(ctx context.Context, span trace.Span, order *domain.Order) {
	span.SetAttributes(attribute.String("order.code", order.Code))
	platformobs.Add(ctx, s.placed)
	s.LogInfo(ctx, "order placed", slog.String("orderCode", order.Code), slog.String("total", order.TotalAmount.String()))
}

func (s *Service) PublishPlaced(ctx context.Context, order *domain.Order) error {
	ctx, span := s.Tracer.Start(ctx, "OrderService.PublishPlaced")
	defer span.End()
	if err := s.inner.PublishPlaced(ctx, order); err != nil {
		return s.HandleError(ctx, span, err, "failed to publish order placed")
	}
	return nil
}

func (s *Service) List(ctx context.Context, userID int64) ([]*domain.Order, error) {
	ctx, span := s.Tracer.Start(ctx, "OrderService.List", trace.WithAttributes(attribute.Int64("user.id", userID)))
	defer span.End()
	orders, err := s.inner.List(ctx, userID)
	if err != nil {
		return nil, s.HandleError(ctx, span, err, "failed to list orders", slog.Int64("userId", userID))
	}
	return orders, nil
}

func (s *Service) Get(ctx context.Context, userID, orderID int64) (*domain.Order, error) {
	ctx, span := s.Tracer.Start(ctx, "OrderService.Get", trace.WithAttributes(attribute.Int64("order.id", orderID)))
	defer span.End()
	return s.inner.Get(ctx, userID, orderID)
}

func (s *Service) GetByCode(ctx context.Context, userID int64, code string) (*domain.Order, error) {
	ctx, span := s.Tracer.Start(ctx, "OrderService.GetByCode", trace.WithAttributes(attribute.String("order.code", code)))
	defer span.End()
	return s.inner.GetByCode(ctx, userID, code)
}

func (s *Service) ConfirmReceived(ctx context.Context, userID, orderID int64) (*domain.Order, error) {
	ctx, span := s.Tracer.Start(ctx, "OrderService.ConfirmReceived", trace.WithAttributes(attribute.Int64("order.id", orderID)))
	defer span.End()
	order, err := s.inner.ConfirmReceived(ctx, userID, orderID)
	if err != nil {
		return nil, s.HandleError(ctx, span, err, "failed to confirm order", slog.Int64("orderId", orderID))
	}
	platformobs.Add(ctx, s.completed)
	return order, nil
}

func (s *Service) FindByCode(ctx context.Context, code string) (*domain.Order, error) {
	ctx, span := s.Tracer.Start(ctx, "OrderService.FindByCode", trace.WithAttributes(attribute.String("order.code", code)))
	defer span.End()
	return s.inner.FindByCode(ctx, code)
}

func (s *Service) ApplyPaymentSuccess(ctx context.Context, orderID int64) (*domain.Order, error) {
	ctx, span := s.Tracer.Start(ctx, "OrderService.ApplyPaymentSuccess", trace.WithAttributes(attribute.Int64("order.id", orderID)))
	defer span.End()
	order, err := s.inner.ApplyPaymentSuccess(ctx, orderID)
	if err != nil {
		return nil, s.HandleError(ctx, span, err, "failed to apply payment success", slog.Int64("orderId", orderID))
	}
	span.SetAttributes(attribute.String("order.status", string(order.Status)))
	platformobs.Add(ctx, s.paid)
	return order, nil
}

func (s *Service) ApplyPaymentFailure(ctx context.Context, orderID int64) (*domain.Order, error) {
	ctx, span := s.Tracer.Start(ctx, "OrderService.ApplyPaymentFailure", trace.WithAttributes(attribute.Int64("order.id", orderID)))
	defer span.End()
	order, err := s.inner.ApplyPaymentFailure(ctx, orderID)
	if err != nil {
		return nil, s.HandleError(ctx, span, err, "failed to apply payment failure", slog.Int64("orderId", orderID))
	}
	return order, nil
}

func (s *Service) SweepUnpaid(ctx context.Context, olderThan time.Duration) (int, error) {
	ctx, span := s.Tracer.Start(ctx, "OrderService.SweepUnpaid", trace.WithAttributes(attribute.String("sweep.older_than", olderThan.String())))
	defer span.End()
	n, err := s.inner.SweepUnpaid(ctx, olderThan)
	if n > 0 && s.cancelled != nil {
		s.cancelled.Add(ctx, int64(n), metric.WithAttributes(attribute.String("reason", "unpaid")))
	}
	span.SetAttributes(attribute.Int("sweep.cancelled", n))
	if err != nil {
		return n, s.HandleError(ctx, span, err, "unpaid order sweep failed", slog.Int("cancelled", n))
	}
	if n > 0 {
		s.LogInfo(ctx, "unpaid orders cancelled", slog.Int("cancelled", n))
	}
	return n, nil
}

var _ ports.Service = (*Service)(nil)
