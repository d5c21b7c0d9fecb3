package orders

import (
	"context"
	"errors"

	"go.temporal.io/sdk/activity"
	"go.temporal.io/sdk/temporal"

	addressports "github.com/finprodb/shop-api/internal/domains/addresses/ports"
	orderapp "github.com/finprodb/shop-api/internal/domains/orders/application"
	"github.com/finprodb/shop-api/internal/domains/orders/domain"
	orderports "github.com/finprodb/shop-api/internal/domains/orders/ports"
)

const (
	// PlaceOrderActivityName turns a cart into a pending order.
	PlaceOrderActivityName = "orders.activities.PlaceOrder"
	// PublishOrderPlacedActivityName announces a stored order on the event bus.
	PublishOrderPlacedActivityName = "orders.activities.PublishOrderPlaced"

	// RejectedErrorType marks checkout failures caused by the request itself.
	RejectedErrorType = "orders.CheckoutRejected"
)

// Activities groups checkout activities.
type Activities struct {
	orders orderports.Service
}

func NewActivities(orders orderports.Service) *Activities {
	return &Activities{orders: orders}
}

// PlaceOrder runs the checkout use case. Business rejections are returned as
// non-retryable application errors carrying the user-facing message. Every
// attempt of one workflow run shares a checkout key, so a retry returns the
// order an earlier attempt stored.
func (a *Activities) PlaceOrder(ctx context.Context, input orderports.CheckoutInput) (*domain.Order, error) {
	logger := activity.GetLogger(ctx)
	if a == nil || a.orders == nil {
		logger.Error("place order activity not initialized", "userId", input.UserID)
		return nil, errors.New("place order activity not initialized")
	}
	if input.CheckoutKey == "" {
		execution := activity.GetInfo(ctx).WorkflowExecution
		input.CheckoutKey = CheckoutKey(execution.ID, execution.RunID)
	}
	logger.Info("PlaceOrder activity started", "userId", input.UserID)
	order, err := a.orders.PlaceOrder(ctx, input)
	if err != nil {
		if errors.Is(err, orderapp.ErrInvalidInput) || errors.Is(err, addressports.ErrNotFound) {
			logger.Info("PlaceOrder rejected", "userId", input.UserID, "reason", err.Error())
			return nil, temporal.NewNonRetryableApplicationError(rejectionMessage(err), RejectedErrorType, err)
		}
		logger.Error("PlaceOrder activity failed", "userId", input.UserID, "error", err)
		return nil, err
	}
	logger.Info("PlaceOrder activity completed", "orderId", order.ID, "orderCode", order.Code)
	return order, nil
}

// CheckoutKey derives the order idempotency key from a workflow execution.
func CheckoutKey(workflowID, runID string) string {
	return workflowID + "/" + runID
}

// PublishOrderPlaced emits the order placed event.
func (a *Activities) PublishOrderPlaced(ctx context.Context, order *domain.Order) error {
	logger := activity.GetLogger(ctx)
	if a == nil || a.orders == nil {
		return errors.New("publish order activity not initialized")
	}
	if order == nil {
		return temporal.NewNonRetryableApplicationError("order is nil", "orders.InvalidInput", nil)
	}
	if err := a.orders.PublishPlaced(ctx, order); err != nil {
		logger.Warn("PublishOrderPlaced failed", "orderCode", order.Code, "error", err)
		return err
	}
	logger.Info("PublishOrderPlaced completed", "orderCode", order.Code)
	return nil
}

// rejectionMessage returns the innermost sentinel message, e.g. "Cart is empty".
func rejectionMessage(err error) string {
	for _, sentinel := range RejectionSentinels {
		if errors.Is(err, sentinel) {
			return sentinel.Error()
		}
	}
	return err.Error()
}

// RejectionSentinels lists the errors a checkout rejection can carry.
var RejectionSentinels = []error{
	domain.ErrCartEmpty,
	domain.ErrProductInactive,
	domain.ErrInvalidItemQuantity,
	addressports.ErrNotFound,
}
