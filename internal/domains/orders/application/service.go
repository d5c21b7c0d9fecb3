package application

import (
	"context"
	"errors"
	"log/slog"
	"strings"
	"time"

	addressports "github.com/finprodb/shop-api/internal/domains/addresses/ports"
	"github.com/finprodb/shop-api/internal/domains/orders/domain"
	"github.com/finprodb/shop-api/internal/domains/orders/ports"
)

// Service implements customer order use cases.
type Service struct {
	repo      ports.Repository
	carts     ports.CartSource
	addresses ports.AddressBook
	stock     ports.StockAdjuster
	events    ports.EventPublisher
	logger    *slog.Logger
	now       func() time.Time
}

// Option customises the service.
type Option func(*Service)

func WithEventPublisher(p ports.EventPublisher) Option {
	return func(s *Service) {
		if p != nil {
			s.events = p
		}
	}
}

func WithLogger(logger *slog.Logger) Option {
	return func(s *Service) {
		if logger != nil {
			s.logger = logger
		}
	}
}

func WithClock(now func() time.Time) Option {
	return func(s *Service) {
		if now != nil {
			s.now = now
		}
	}
}

func NewService(repo ports.Repository, carts ports.CartSource, addresses ports.AddressBook, stock ports.StockAdjuster, opts ...Option) *Service {
	s := &Service{
		repo:      repo,
		carts:     carts,
		addresses: addresses,
		stock:     stock,
		events:    noopPublisher{},
		logger:    slog.Default(),
		now:       time.Now,
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

func (s *Service) Checkout(ctx context.Context, input ports.CheckoutInput) (*domain.Order, error) {
	order, err := s.PlaceOrder(ctx, input)
	if err != nil {
		return nil, err
	}
	if err := s.PublishPlaced(ctx, order); err != nil {
		s.logger.WarnContext(ctx, "order placed event not published", slog.String("orderCode", order.Code), slog.Any("error", err))
	}
	return order, nil
}

// PlaceOrder turns the cart into a PENDING_PAYMENT order and empties the cart.
// With a CheckoutKey, a retry after a partial failure returns the order the
// first attempt stored and only finishes clearing the cart.
func (s *Service) PlaceOrder(ctx context.Context, input ports.CheckoutInput) (*domain.Order, error) {
	if input.CheckoutKey != "" {
		existing, err := s.repo.GetByCheckoutKey(ctx, input.CheckoutKey)
		switch {
		case err == nil:
			if existing.UserID != input.UserID {
				return nil, errors.New("checkout key belongs to another user")
			}
			if err := s.carts.Clear(ctx, input.UserID); err != nil {
				return nil, err
			}
			return existing, nil
		case !errors.Is(err, ports.ErrNotFound):
			return nil, err
		}
	}
	lines, err := s.carts.Lines(ctx, input.UserID)
	if err != nil {
		return nil, err
	}
	if len(lines) == 0 {
		return nil, mapError(domain.ErrCartEmpty)
	}
	shipping, err := s.resolveShipping(ctx, input)
	if err != nil {
		return nil, err
	}
	orderLines := make([]domain.Line, 0, len(lines))
	for _, line := range lines {
		if line.Product == nil || !line.Product.IsPurchasable() {
			return nil, mapError(domain.ErrProductInactive)
		}
		orderLines = append(orderLines, domain.Line{
			ProductID:   line.Product.ID,
			ProductName: line.Product.Name,
			Price:       line.Product.Price,
			Quantity:    line.Item.Quantity,
		})
	}
	now := s.now()
	order, err := domain.NewOrder(input.UserID, domain.NewOrderCode(now), shipping, orderLines, now)
	if err != nil {
		return nil, mapError(err)
	}
	order.CheckoutKey = input.CheckoutKey
	created, err := s.repo.Create(ctx, order)
	if err != nil {
		return nil, err
	}
	if err := s.carts.Clear(ctx, input.UserID); err != nil {
		return nil, err
	}
	return created, nil
}

func (s *Service) PublishPlaced(ctx context.Context, order *domain.Order) error {
	if order == nil {
		return errors.New("order is nil")
	}
	return s.events.Publish(ctx, domain.Placed(order, s.now()))
}

func (s *Service) List(ctx context.Context, userID int64) ([]*domain.Order, error) {
	return s.repo.ListByUser(ctx, userID)
}

func (s *Service) Get(ctx context.Context, userID, orderID int64) (*domain.Order, error) {
	order, err := s.repo.Get(ctx, orderID)
	if err != nil {
		return nil, err
	}
	if order.UserID != userID {
		return nil, ports.ErrNotFound
	}
	return order, nil
}

func (s *Service) GetByCode(ctx context.Context, userID int64, code string) (*domain.Order, error) {
	order, err := s.repo.GetByCode(ctx, code)
	if err != nil {
		return nil, err
	}
	if order.UserID != userID {
		return nil, ports.ErrNotFound
	}
	return order, nil
}

func (s *Service) ConfirmReceived(ctx context.Context, userID, orderID int64) (*domain.Order, error) {
	order, err := s.Get(ctx, userID, orderID)
	if err != nil {
		return nil, err
	}
	if err := order.ConfirmReceived(s.now()); err != nil {
		return nil, mapError(err)
	}
	return s.save(ctx, order)
}

func (s *Service) FindByCode(ctx context.Context, code string) (*domain.Order, error) {
	return s.repo.GetByCode(ctx, code)
}

// ApplyPaymentSuccess marks a pending order PAID and lowers stock once per item.
// Orders in any other state are returned unchanged.
func (s *Service) ApplyPaymentSuccess(ctx context.Context, orderID int64) (*domain.Order, error) {
	order, err := s.repo.Get(ctx, orderID)
	if err != nil {
		return nil, err
	}
	if !order.MarkPaid(s.now()) {
		return order, nil
	}
	saved, err := s.save(ctx, order)
	if err != nil {
		return nil, err
	}
	for _, item := range saved.Items {
		if err := s.stock.DecrementStock(ctx, item.ProductID, item.Quantity); err != nil {
			return nil, err
		}
	}
	return saved, nil
}

// ApplyPaymentFailure cancels a pending order. Other states are left untouched.
func (s *Service) ApplyPaymentFailure(ctx context.Context, orderID int64) (*domain.Order, error) {
	order, err := s.repo.Get(ctx, orderID)
	if err != nil {
		return nil, err
	}
	if !order.Cancel(s.now()) {
		return order, nil
	}
	return s.save(ctx, order)
}

// SweepUnpaid cancels PENDING_PAYMENT orders created more than olderThan ago.
func (s *Service) SweepUnpaid(ctx context.Context, olderThan time.Duration) (int, error) {
	if olderThan <= 0 {
		return 0, errors.New("sweep threshold must be positive")
	}
	now := s.now()
	pending, err := s.repo.ListPendingBefore(ctx, now.Add(-olderThan))
	if err != nil {
		return 0, err
	}
	cancelled := 0
	for _, order := range pending {
		if err := ctx.Err(); err != nil {
			return cancelled, err
		}
		if !order.Cancel(now) {
			continue
		}
		if _, err := s.save(ctx, order); err != nil {
			return cancelled, err
		}
		cancelled++
	}
	return cancelled, nil
}

func (s *Service) resolveShipping(ctx context.Context, input ports.CheckoutInput) (domain.Shipping, error) {
	if input.AddressID != nil {
		address, err := s.addresses.Get(ctx, input.UserID, *input.AddressID)
		if err != nil {
			return domain.Shipping{}, err
		}
		return domain.Shipping{Address: address.AddressLine, Phone: address.Phone}, nil
	}
	address, err := s.addresses.Default(ctx, input.UserID)
	if err == nil {
		return domain.Shipping{Address: address.AddressLine, Phone: address.Phone}, nil
	}
	if !errors.Is(err, addressports.ErrNotFound) {
		return domain.Shipping{}, err
	}
	var shipping domain.Shipping
	if input.ShippingAddress != nil {
		shipping.Address = strings.TrimSpace(*input.ShippingAddress)
	}
	if input.ShippingPhone != nil {
		shipping.Phone = strings.TrimSpace(*input.ShippingPhone)
	}
	return shipping, nil
}

// save persists lifecycle changes and publishes the transition events.
func (s *Service) save(ctx context.Context, order *domain.Order) (*domain.Order, error) {
	events := order.Events()
	saved, err := s.repo.Save(ctx, order)
	if err != nil {
		return nil, err
	}
	order.ClearEvents()
	if len(events) > 0 {
		if err := s.events.Publish(ctx, events...); err != nil {
			s.logger.WarnContext(ctx, "order events not published", slog.String("orderCode", saved.Code), slog.Any("error", err))
		}
	}
	return saved, nil
}

type noopPublisher struct{}

func (noopPublisher) Publish(context.Context, ...domain.Event) error { return nil }

var _ ports.Service = (*Service)(nil)
