package orders

import (
	"context"
	"errors"
	"sync"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/require"
	"go.temporal.io/sdk/activity"
	"go.temporal.io/sdk/workflow"

	addressdomain "github.com/finprodb/shop-api/internal/domains/addresses/domain"
	addressports "github.com/finprodb/shop-api/internal/domains/addresses/ports"
	cartdomain "github.com/finprodb/shop-api/internal/domains/carts/domain"
	cartports "github.com/finprodb/shop-api/internal/domains/carts/ports"
	"github.com/finprodb/shop-api/internal/domains/orders/adapters/memory"
	orderapp "github.com/finprodb/shop-api/internal/domains/orders/application"
	"github.com/finprodb/shop-api/internal/domains/orders/domain"
	orderports "github.com/finprodb/shop-api/internal/domains/orders/ports"
	productdomain "github.com/finprodb/shop-api/internal/domains/products/domain"
	orderactivities "github.com/finprodb/shop-api/internal/platform/temporal/activities/orders"
)

// flakyCart fails the first Clear after the order has been stored.
type flakyCart struct {
	mu       sync.Mutex
	lines    []cartports.Line
	failures int
	clears   int
}

func (c *flakyCart) Lines(context.Context, int64) ([]cartports.Line, error) {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.lines, nil
}

func (c *flakyCart) Clear(context.Context, int64) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.failures > 0 {
		c.failures--
		return errors.New("cart store unavailable")
	}
	c.clears++
	c.lines = nil
	return nil
}

type noAddresses struct{}

func (noAddresses) Get(context.Context, int64, int64) (*addressdomain.Address, error) {
	return nil, addressports.ErrNotFound
}

func (noAddresses) Default(context.Context, int64) (*addressdomain.Address, error) {
	return nil, addressports.ErrNotFound
}

type noStock struct{}

func (noStock) DecrementStock(context.Context, int64, int) error { return nil }

func (s *CheckoutWorkflowSuite) TestRetriedPlacementKeepsSingleOrder() {
	repo := memory.NewRepository()
	cart := &flakyCart{
		failures: 1,
		lines: []cartports.Line{{
			Item:    &cartdomain.CartItem{ProductID: 10, Quantity: 2},
			Product: &productdomain.Product{ID: 10, Name: "Kopi", Price: decimal.NewFromInt(15000), Active: true},
		}},
	}
	activities := orderactivities.NewActivities(orderapp.NewService(repo, cart, noAddresses{}, noStock{}))

	env := s.NewTestWorkflowEnvironment()
	env.RegisterWorkflowWithOptions(CheckoutWorkflow, workflow.RegisterOptions{Name: CheckoutWorkflowName})
	env.RegisterActivityWithOptions(activities.PlaceOrder, activity.RegisterOptions{Name: orderactivities.PlaceOrderActivityName})
	env.RegisterActivityWithOptions(activities.PublishOrderPlaced, activity.RegisterOptions{Name: orderactivities.PublishOrderPlacedActivityName})

	env.ExecuteWorkflow(CheckoutWorkflowName, CheckoutWorkflowInput{Command: orderports.CheckoutInput{UserID: 3}})

	require.True(s.T(), env.IsWorkflowCompleted())
	require.NoError(s.T(), env.GetWorkflowError())
	var order domain.Order
	require.NoError(s.T(), env.GetWorkflowResult(&order))

	stored, err := repo.ListByUser(context.Background(), 3)
	require.NoError(s.T(), err)
	require.Len(s.T(), stored, 1)
	s.Equal(order.ID, stored[0].ID)
	s.NotEmpty(stored[0].CheckoutKey)
	s.Equal(1, cart.clears)
	s.Empty(cart.lines)
}
