package orders

import (
	"go.temporal.io/sdk/workflow"

	"github.com/finprodb/shop-api/internal/domains/orders/domain"
	orderports "github.com/finprodb/shop-api/internal/domains/orders/ports"
	"github.com/finprodb/shop-api/internal/platform/temporal/sequences"
)

const (
	// CheckoutWorkflowName is the registered workflow type.
	CheckoutWorkflowName = "orders.workflows.Checkout"
	// CheckoutTaskQueue is polled by cmd/worker.
	CheckoutTaskQueue = "ORDER_CHECKOUT"
)

type CheckoutWorkflowInput struct {
	Command orderports.CheckoutInput
	TraceID string
}

// CheckoutWorkflow converts a cart into an order durably.
func CheckoutWorkflow(ctx workflow.Context, input CheckoutWorkflowInput) (*domain.Order, error) {
	logger := workflow.GetLogger(ctx)
	logger.Info("CheckoutWorkflow started", withTraceID(input.TraceID, "userId", input.Command.UserID)...)
	order, err := sequences.RunCheckoutSequence(ctx, input.Command)
	if err != nil {
		logger.Error("CheckoutWorkflow failed", withTraceID(input.TraceID, "userId", input.Command.UserID, "error", err)...)
		return nil, err
	}
	logger.Info("CheckoutWorkflow completed", withTraceID(input.TraceID, "orderId", order.ID)...)
	return order, nil
}

func withTraceID(traceID string, keyvals ...interface{}) []interface{} {
	if traceID == "" {
		return keyvals
	}
	return append(keyvals, "traceId", traceID)
}
