package observability

import (
	"context"
	"log/slog"

	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/metric"
	"go.opentelemetry.io/otel/trace"

	"github.com/finprodb/shop-api/internal/domains/payments/domain"
	"github.com/finprodb/shop-api/internal/domains/payments/ports"
	platformobs "github.com/finprodb/shop-api/internal/platform/observability"
)

const tracerName = "github.com/finprodb/shop-api/internal/domains/payments/adapters/observability/service"

// Service decorates the payment service with tracing, logging, and metrics.
type Service struct {
	inner ports.Service
	platformobs.Decorator
	snaps         metric.Int64Counter
	notifications metric.Int64Counter
	rejected      metric.Int64Counter
}

func New(inner ports.Service, opts ...platformobs.Option) ports.Service {
	d := platformobs.NewDecorator(tracerName, opts...)
	return &Service{
		inner:         inner,
		Decorator:     d,
		snaps:         d.Counter("payments.service.snap_created", "Number of Snap checkouts handed out"),
		notifications: d.Counter("payments.service.notifications", "Number of gateway notifications applied"),
		rejected:      d.Counter("payments.service.notifications_rejected", "Number of gateway notifications rejected"),
	}
}

func (s *Service) CreateSnap(ctx context.Context, userID, orderID int64) (*ports.SnapResult, error) {
	ctx, span := s.Tracer.Start(ctx, "PaymentService.CreateSnap", trace.WithAttributes(
		attribute.Int64("user.id", userID),
		attribute.Int64("order.id", orderID),
	))
	defer span.End()
	result, err := s.inner.CreateSnap(ctx, userID, orderID)
	if err != nil {
		return nil, s.HandleError(ctx, span, err, "failed to create snap transaction", slog.Int64("orderId", orderID))
	}
	span.SetAttributes(attribute.Int64("payment.id", result.PaymentID))
	platformobs.Add(ctx, s.snaps)
	return result, nil
}

func (s *Service) HandleNotification(ctx context.Context, n domain.Notification) (*ports.NotificationResult, error) {
	ctx, span := s.Tracer.Start(ctx, "PaymentService.HandleNotification")
	defer span.End()
	if n.OrderID != nil {
		span.SetAttributes(attribute.String("order.code", *n.OrderID))
	}
	result, err := s.inner.HandleNotification(ctx, n)
	if err != nil {
		platformobs.Add(ctx, s.rejected)
		return nil, s.HandleError(ctx, span, err, "midtrans notification rejected")
	}
	span.SetAttributes(attribute.String("payment.status", result.PaymentStatus))
	if s.notifications != nil {
		s.notifications.Add(ctx, 1, metric.WithAttributes(attribute.String("payment.status", result.PaymentStatus)))
	}
	return result, nil
}

func (s *Service) LatestStatus(ctx context.Context, orderID int64) (string, error) {
	ctx, span := s.Tracer.Start(ctx, "PaymentService.LatestStatus", trace.WithAttributes(attribute.Int64("order.id", orderID)))
	defer span.End()
	return s.inner.LatestStatus(ctx, orderID)
}

var _ ports.Service = (*Service)(nil)
