package ports

import (
	"context"

	orderdomain "github.com/finprodb/shop-api/internal/domains/orders/domain"
	"github.com/finprodb/shop-api/internal/domains/payments/domain"
	userdomain "github.com/finprodb/shop-api/internal/domains/users/domain"
)

// OrderGateway is the slice of the order service payments drives.
type OrderGateway interface {
	Get(ctx context.Context, userID, orderID int64) (*orderdomain.Order, error)
	FindByCode(ctx context.Context, code string) (*orderdomain.Order, error)
	ApplyPaymentSuccess(ctx context.Context, orderID int64) (*orderdomain.Order, error)
	ApplyPaymentFailure(ctx context.Context, orderID int64) (*orderdomain.Order, error)
}

// CustomerDirectory resolves the payer shown on the Snap page.
type CustomerDirectory interface {
	GetByID(ctx context.Context, id int64) (*userdomain.User, error)
}

// SnapResult is returned when a Snap checkout is opened or reused.
type SnapResult struct {
	PaymentID   int64  `json:"paymentId"`
	OrderID     int64  `json:"orderId"`
	OrderCode   string `json:"orderCode"`
	SnapToken   string `json:"snapToken"`
	RedirectURL string `json:"redirectUrl"`
}

// NotificationResult summarises a processed gateway notification.
type NotificationResult struct {
	OrderCode     string `json:"orderCode"`
	OrderStatus   string `json:"orderStatus"`
	PaymentStatus string `json:"paymentStatus"`
}

// Service exposes payment use cases.
type Service interface {
	CreateSnap(ctx context.Context, userID, orderID int64) (*SnapResult, error)
	HandleNotification(ctx context.Context, n domain.Notification) (*NotificationResult, error)
	LatestStatus(ctx context.Context, orderID int64) (string, error)
}
