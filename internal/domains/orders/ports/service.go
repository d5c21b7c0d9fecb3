package ports

import (
	"context"
	"time"

	"github.com/shopspring/decimal"

	"github.com/finprodb/shop-api/internal/domains/orders/domain"
	userdomain "github.com/finprodb/shop-api/internal/domains/users/domain"
	"github.com/finprodb/shop-api/internal/shared/pagination"
)

// CheckoutInput selects the shipping destination. AddressID wins over the
// default address, which wins over the raw fields. A non-empty CheckoutKey
// makes repeated placements of the same checkout return the first order.
type CheckoutInput struct {
	UserID          int64   `json:"userId"`
	AddressID       *int64  `json:"addressId,omitempty"`
	ShippingAddress *string `json:"shippingAddress,omitempty"`
	ShippingPhone   *string `json:"shippingPhone,omitempty"`
	CheckoutKey     string  `json:"checkoutKey,omitempty"`
}

// Service exposes customer order use cases plus the payment-driven transitions.
type Service interface {
	Checkout(ctx context.Context, input CheckoutInput) (*domain.Order, error)
	// PlaceOrder is Checkout without event publication.
	PlaceOrder(ctx context.Context, input CheckoutInput) (*domain.Order, error)
	PublishPlaced(ctx context.Context, order *domain.Order) error
	List(ctx context.Context, userID int64) ([]*domain.Order, error)
	Get(ctx context.Context, userID, orderID int64) (*domain.Order, error)
	GetByCode(ctx context.Context, userID int64, code string) (*domain.Order, error)
	ConfirmReceived(ctx context.Context, userID, orderID int64) (*domain.Order, error)

	FindByCode(ctx context.Context, code string) (*domain.Order, error)
	ApplyPaymentSuccess(ctx context.Context, orderID int64) (*domain.Order, error)
	ApplyPaymentFailure(ctx context.Context, orderID int64) (*domain.Order, error)
	SweepUnpaid(ctx context.Context, olderThan time.Duration) (int, error)
}

// AdminView is an order decorated for the admin console.
type AdminView struct {
	Order         *domain.Order
	Customer      *userdomain.User
	ApprovedBy    *userdomain.User
	PaymentStatus string
	WithItems     bool
}

// Summary aggregates the admin dashboard counters.
type Summary struct {
	TotalOrders          int64           `json:"totalOrders"`
	PendingPaymentOrders int64           `json:"pendingPaymentOrders"`
	PaidOrders           int64           `json:"paidOrders"`
	CancelledOrders      int64           `json:"cancelledOrders"`
	PaidRevenue          decimal.Decimal `json:"paidRevenue"`
	TotalUserRoleUser    int64           `json:"totalUserRoleUser"`
}

// AdminService exposes order moderation.
type AdminService interface {
	List(ctx context.Context, status *domain.Status, page pagination.Request) (pagination.Page[*AdminView], error)
	Get(ctx context.Context, orderID int64) (*AdminView, error)
	Approve(ctx context.Context, orderID, adminID int64) (*AdminView, error)
	Reject(ctx context.Context, orderID, adminID int64) (*AdminView, error)
	StartDelivery(ctx context.Context, orderID int64) (*AdminView, error)
	MarkDelivered(ctx context.Context, orderID int64) (*AdminView, error)
	Summary(ctx context.Context) (*Summary, error)
}
