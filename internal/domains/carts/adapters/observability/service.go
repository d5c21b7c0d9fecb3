package observability

import (
	"context"
	"log/slog"

	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/metric"
	"go.opentelemetry.io/otel/trace"

	"github.com/finprodb/shop-api/internal/domains/carts/ports"
	platformobs "github.com/finprodb/shop-api/internal/platform/observability"
)

const tracerName = "github.com/finprodb/shop-api/internal/domains/carts/adapters/observability/service"

// Service decorates the cart service with tracing, logging, and metrics.
type Service struct {
	inner ports.Service
	platformobs.Decorator
	itemsAdded metric.Int64Counter
}

func New(inner ports.Service, opts ...platformobs.Option) ports.Service {
	d := platformobs.NewDecorator(tracerName, opts...)
	return &Service{
		inner:      inner,
		Decorator:  d,
		itemsAdded: d.Counter("carts.service.items_added", "Number of add-to-cart calls"),
	}
}

func (s *Service) Lines(ctx context.Context, userID int64) ([]ports.Line, error) {
	ctx, span := s.Tracer.Start(ctx, "CartService.Lines", trace.WithAttributes(attribute.Int64("user.id", userID)))
	defer span.End()
	lines, err := s.inner.Lines(ctx, userID)
	if err != nil {
		return nil, s.HandleError(ctx, span, err, "failed to load cart", slog.Int64("userId", userID))
	}
	span.SetAttributes(attribute.Int("cart.lines", len(lines)))
	return lines, nil
}

func (s *Service) AddItem(ctx context.Context, userID, productID int64, qty int) (*ports.Line, error) {
	ctx, span := s.Tracer.Start(ctx, "CartService.AddItem", trace.WithAttributes(
		attribute.Int64("user.id", userID),
		attribute.Int64("product.id", productID),
		attribute.Int("cart.quantity", qty),
	))
	defer span.End()
	line, err := s.inner.AddItem(ctx, userID, productID, qty)
	if err != nil {
		return nil, s.HandleError(ctx, span, err, "failed to add cart item", slog.Int64("productId", productID))
	}
	platformobs.Add(ctx, s.itemsAdded)
	return line, nil
}

func (s *Service) UpdateQuantity(ctx context.Context, userID, itemID int64, qty int) (*ports.Line, error) {
	ctx, span := s.Tracer.Start(ctx, "CartService.UpdateQuantity", trace.WithAttributes(attribute.Int64("cart.item_id", itemID)))
	defer span.End()
	line, err := s.inner.UpdateQuantity(ctx, userID, itemID, qty)
	if err != nil {
		return nil, s.HandleError(ctx, span, err, "failed to update cart item", slog.Int64("cartItemId", itemID))
	}
	return line, nil
}

func (s *Service) RemoveItem(ctx context.Context, userID, itemID int64) error {
	ctx, span := s.Tracer.Start(ctx, "CartService.RemoveItem", trace.WithAttributes(attribute.Int64("cart.item_id", itemID)))
	defer span.End()
	if err := s.inner.RemoveItem(ctx, userID, itemID); err != nil {
		return s.HandleError(ctx, span, err, "failed to remove cart item", slog.Int64("cartItemId", itemID))
	}
	return nil
}

func (s *Service) Clear(ctx context.Context, userID int64) error {
	ctx, span := s.Tracer.Start(ctx, "CartService.Clear", trace.WithAttributes(attribute.Int64("user.id", userID)))
	defer span.End()
	if err := s.inner.Clear(ctx, userID); err != nil {
		return s.HandleError(ctx, span, err, "failed to clear cart", slog.Int64("userId", userID))
	}
	return nil
}

var _ ports.Service = (*Service)(nil)
