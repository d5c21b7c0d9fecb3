package ports

import (
	"context"

	"github.com/finprodb/shop-api/internal/domains/orders/domain"
)

// WorkflowOrchestrator runs checkout as a durable workflow.
type WorkflowOrchestrator interface {
	Checkout(ctx context.Context, input CheckoutInput) (*domain.Order, error)
}
