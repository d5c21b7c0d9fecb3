package sequences

import (
	"time"

	"go.temporal.io/sdk/temporal"
	"go.temporal.io/sdk/workflow"

	"github.com/finprodb/shop-api/internal/domains/orders/domain"
	orderports "github.com/finprodb/shop-api/internal/domains/orders/ports"
	orderactivities "github.com/finprodb/shop-api/internal/platform/temporal/activities/orders"
)

// RunCheckoutSequence places the order, then publishes the placed event.
// A publish failure is logged and does not fail the checkout.
func RunCheckoutSequence(ctx workflow.Context, input orderports.CheckoutInput) (*domain.Order, error) {
	logger := workflow.GetLogger(ctx)
	logger.Info("checkout sequence started", "userId", input.UserID)

	placeCtx := workflow.WithActivityOptions(ctx, workflow.ActivityOptions{
		StartToCloseTimeout: 30 * time.Second,
		RetryPolicy: &temporal.RetryPolicy{
			InitialInterval:    time.Second,
			BackoffCoefficient: 2.0,
			MaximumInterval:    10 * time.Second,
			MaximumAttempts:    3,
		},
	})
	var order domain.Order
	if err := workflow.ExecuteActivity(placeCtx, orderactivities.PlaceOrderActivityName, input).Get(ctx, &order); err != nil {
		logger.Error("checkout sequence failed", "userId", input.UserID, "error", err)
		return nil, err
	}

	publishCtx := workflow.WithActivityOptions(ctx, workflow.ActivityOptions{
		StartToCloseTimeout: 15 * time.Second,
		RetryPolicy: &temporal.RetryPolicy{
			InitialInterval:    2 * time.Second,
			BackoffCoefficient: 2.0,
			MaximumInterval:    30 * time.Second,
			MaximumAttempts:    5,
		},
	})
	if err := workflow.ExecuteActivity(publishCtx, orderactivities.PublishOrderPlacedActivityName, &order).Get(ctx, nil); err != nil {
		logger.Warn("order placed event not published", "orderCode", order.Code, "error", err)
	}
	logger.Info("checkout sequence completed", "orderId", order.ID, "orderCode", order.Code)
	return &order, nil
}
