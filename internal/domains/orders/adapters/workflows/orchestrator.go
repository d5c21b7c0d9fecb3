package workflows

import (
	"context"
	"errors"
	"fmt"
	"time"

	oteltrace "go.opentelemetry.io/otel/trace"
	"go.temporal.io/sdk/client"
	"go.temporal.io/sdk/temporal"

	addressports "github.com/finprodb/shop-api/internal/domains/addresses/ports"
	orderapp "github.com/finprodb/shop-api/internal/domains/orders/application"
	"github.com/finprodb/shop-api/internal/domains/orders/domain"
	"github.com/finprodb/shop-api/internal/domains/orders/ports"
	orderactivities "github.com/finprodb/shop-api/internal/platform/temporal/activities/orders"
	orderworkflows "github.com/finprodb/shop-api/internal/platform/temporal/workflows/orders"
)

var (
	_ ports.WorkflowOrchestrator = (*TemporalCheckout)(nil)
	_ ports.WorkflowOrchestrator = (*InlineCheckout)(nil)
)

// TemporalCheckout runs checkout on a Temporal cluster and waits for the result.
type TemporalCheckout struct {
	client    client.Client
	taskQueue string
}

func NewTemporalCheckout(c client.Client) *TemporalCheckout {
	return &TemporalCheckout{client: c, taskQueue: orderworkflows.CheckoutTaskQueue}
}

func (o *TemporalCheckout) Checkout(ctx context.Context, input ports.CheckoutInput) (*domain.Order, error) {
	if o == nil || o.client == nil {
		return nil, errors.New("temporal checkout not configured")
	}
	traceComponent := workflowTraceComponent(ctx)
	options := client.StartWorkflowOptions{
		ID:        fmt.Sprintf("checkout-%d-%s", input.UserID, traceComponent),
		TaskQueue: o.taskQueue,
	}
	run, err := o.client.ExecuteWorkflow(
		ctx,
		options,
		orderworkflows.CheckoutWorkflow,
		orderworkflows.CheckoutWorkflowInput{Command: input, TraceID: traceComponent},
	)
	if err != nil {
		return nil, err
	}
	var order domain.Order
	if err := run.Get(ctx, &order); err != nil {
		return nil, restoreRejection(err)
	}
	return &order, nil
}

// restoreRejection maps a non-retryable checkout rejection back onto the
// sentinel error the HTTP layer understands.
func restoreRejection(err error) error {
	var appErr *temporal.ApplicationError
	if !errors.As(err, &appErr) || appErr.Type() != orderactivities.RejectedErrorType {
		return err
	}
	for _, sentinel := range orderactivities.RejectionSentinels {
		if appErr.Message() != sentinel.Error() {
			continue
		}
		if errors.Is(sentinel, addressports.ErrNotFound) {
			return sentinel
		}
		return fmt.Errorf("%w: %w", orderapp.ErrInvalidInput, sentinel)
	}
	return fmt.Errorf("%w: %s", orderapp.ErrInvalidInput, appErr.Message())
}

// InlineCheckout runs checkout in-process when Temporal is unavailable.
type InlineCheckout struct {
	service ports.Service
}

func NewInlineCheckout(service ports.Service) *InlineCheckout {
	return &InlineCheckout{service: service}
}

func (o *InlineCheckout) Checkout(ctx context.Context, input ports.CheckoutInput) (*domain.Order, error) {
	if o == nil || o.service == nil {
		return nil, errors.New("inline checkout not configured")
	}
	return o.service.Checkout(ctx, input)
}

func workflowTraceComponent(ctx context.Context) string {
	if traceID := workflowTraceID(ctx); traceID != "" {
		return traceID
	}
	return fmt.Sprintf("fallback-%d", time.Now().UnixNano())
}

func workflowTraceID(ctx context.Context) string {
	spanCtx := oteltrace.SpanFromContext(ctx).SpanContext()
	if !spanCtx.IsValid() {
		return ""
	}
	return spanCtx.TraceID().String()
}
