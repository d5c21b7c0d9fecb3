package shopserver

import (
	"context"
	"net/http"

	"github.com/gin-gonic/gin"

	ordermapper "github.com/finprodb/shop-api/internal/domains/orders/adapters/http/mapper"
	orderdomain "github.com/finprodb/shop-api/internal/domains/orders/domain"
	orderports "github.com/finprodb/shop-api/internal/domains/orders/ports"
)

// OrderAPI wires HTTP transport with the order service and checkout workflow.
type OrderAPI struct {
	service   orderports.Service
	workflows orderports.WorkflowOrchestrator
}

// NewOrderAPI creates an OrderAPI. A nil orchestrator runs checkout inline.
func NewOrderAPI(service orderports.Service, workflows orderports.WorkflowOrchestrator) OrderAPI {
	return OrderAPI{service: service, workflows: workflows}
}

// Post /api/orders/checkout
// Turn the cart into a PENDING_PAYMENT order; the body is optional
func (api *OrderAPI) Checkout(c *gin.Context) {
	principal, ok := requirePrincipal(c)
	if !ok {
		return
	}
	var payload ordermapper.CheckoutRequest
	present, ok := bindOptionalJSON(c, &payload)
	if !ok {
		return
	}
	var request *ordermapper.CheckoutRequest
	if present {
		request = &payload
	}
	order, err := api.checkout(c.Request.Context(), request.ToInput(principal.UserID))
	if err != nil {
		respondServiceError(c, err)
		return
	}
	c.JSON(http.StatusOK, ordermapper.ToCheckoutResponse(order))
}

func (api *OrderAPI) checkout(ctx context.Context, input orderports.CheckoutInput) (*orderdomain.Order, error) {
	if api.workflows != nil {
		return api.workflows.Checkout(ctx, input)
	}
	return api.service.Checkout(ctx, input)
}

// Get /api/orders
// The caller's orders with items, newest first
func (api *OrderAPI) ListOrders(c *gin.Context) {
	principal, ok := requirePrincipal(c)
	if !ok {
		return
	}
	orders, err := api.service.List(c.Request.Context(), principal.UserID)
	if err != nil {
		respondServiceError(c, err)
		return
	}
	c.JSON(http.StatusOK, ordermapper.FromDomainList(orders))
}

// Get /api/orders/:id
func (api *OrderAPI) GetOrder(c *gin.Context) {
	principal, ok := requirePrincipal(c)
	if !ok {
		return
	}
	id, ok := parseIDParam(c, "id")
	if !ok {
		return
	}
	order, err := api.service.Get(c.Request.Context(), principal.UserID, id)
	api.write(c, order, err)
}

// Get /api/orders/by-code/:code
func (api *OrderAPI) GetOrderByCode(c *gin.Context) {
	principal, ok := requirePrincipal(c)
	if !ok {
		return
	}
	order, err := api.service.GetByCode(c.Request.Context(), principal.UserID, c.Param("code"))
	api.write(c, order, err)
}

// Post /api/orders/:id/confirm-received
// Complete a delivered order
func (api *OrderAPI) ConfirmReceived(c *gin.Context) {
	principal, ok := requirePrincipal(c)
	if !ok {
		return
	}
	id, ok := parseIDParam(c, "id")
	if !ok {
		return
	}
	order, err := api.service.ConfirmReceived(c.Request.Context(), principal.UserID, id)
	api.write(c, order, err)
}

func (api *OrderAPI) write(c *gin.Context, order *orderdomain.Order, err error) {
	if err != nil {
		respondServiceError(c, err)
		return
	}
	c.JSON(http.StatusOK, ordermapper.FromDomain(order))
}
