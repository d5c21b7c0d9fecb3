package shopserver

import (
	"context"
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"

	ordermapper "github.com/finprodb/shop-api/internal/domains/orders/adapters/http/mapper"
	orderdomain "github.com/finprodb/shop-api/internal/domains/orders/domain"
	orderports "github.com/finprodb/shop-api/internal/domains/orders/ports"
	usermapper "github.com/finprodb/shop-api/internal/domains/users/adapters/http/mapper"
	userports "github.com/finprodb/shop-api/internal/domains/users/ports"
	apierrors "github.com/finprodb/shop-api/internal/shared/errors"
	"github.com/finprodb/shop-api/internal/shared/pagination"
)

// AdminAPI serves order moderation, the dashboard summary and the user list.
type AdminAPI struct {
	orders orderports.AdminService
	users  userports.Service
}

// NewAdminAPI creates an AdminAPI.
func NewAdminAPI(orders orderports.AdminService, users userports.Service) AdminAPI {
	return AdminAPI{orders: orders, users: users}
}

// Get /api/admin/orders
// Paged orders without items, optionally filtered by ?status
func (api *AdminAPI) ListOrders(c *gin.Context) {
	page, ok := parsePageParams(c)
	if !ok {
		return
	}
	var status *orderdomain.Status
	if raw := strings.TrimSpace(c.Query("status")); raw != "" {
		parsed, err := orderdomain.ParseStatus(raw)
		if err != nil {
			respondProblem(c, apierrors.NewValidationProblem("status", "is invalid", nil))
			return
		}
		status = &parsed
	}
	result, err := api.orders.List(c.Request.Context(), status, page)
	if err != nil {
		respondServiceError(c, err)
		return
	}
	c.JSON(http.StatusOK, pagination.Map(result, ordermapper.FromAdminView))
}

// Get /api/admin/orders/:id
// Order with items, customer and payment status
func (api *AdminAPI) GetOrder(c *gin.Context) {
	api.orderAction(c, func(ctx context.Context, orderID int64, _ Principal) (*orderports.AdminView, error) {
		return api.orders.Get(ctx, orderID)
	})
}

// Post /api/admin/orders/:id/approve
func (api *AdminAPI) ApproveOrder(c *gin.Context) {
	api.orderAction(c, func(ctx context.Context, orderID int64, admin Principal) (*orderports.AdminView, error) {
		return api.orders.Approve(ctx, orderID, admin.UserID)
	})
}

// Post /api/admin/orders/:id/reject
func (api *AdminAPI) RejectOrder(c *gin.Context) {
	api.orderAction(c, func(ctx context.Context, orderID int64, admin Principal) (*orderports.AdminView, error) {
		return api.orders.Reject(ctx, orderID, admin.UserID)
	})
}

// Post /api/admin/orders/:id/deliver
func (api *AdminAPI) StartDelivery(c *gin.Context) {
	api.orderAction(c, func(ctx context.Context, orderID int64, _ Principal) (*orderports.AdminView, error) {
		return api.orders.StartDelivery(ctx, orderID)
	})
}

// Post /api/admin/orders/:id/delivered
func (api *AdminAPI) MarkDelivered(c *gin.Context) {
	api.orderAction(c, func(ctx context.Context, orderID int64, _ Principal) (*orderports.AdminView, error) {
		return api.orders.MarkDelivered(ctx, orderID)
	})
}

func (api *AdminAPI) orderAction(c *gin.Context, action func(context.Context, int64, Principal) (*orderports.AdminView, error)) {
	admin, ok := requirePrincipal(c)
	if !ok {
		return
	}
	orderID, ok := parseIDParam(c, "id")
	if !ok {
		return
	}
	view, err := action(c.Request.Context(), orderID, admin)
	if err != nil {
		respondServiceError(c, err)
		return
	}
	c.JSON(http.StatusOK, ordermapper.FromAdminView(view))
}

// Get /api/admin/summary
// Dashboard counters and paid revenue
func (api *AdminAPI) Summary(c *gin.Context) {
	summary, err := api.orders.Summary(c.Request.Context())
	if err != nil {
		respondServiceError(c, err)
		return
	}
	c.JSON(http.StatusOK, summary)
}

// Get /api/admin/users
func (api *AdminAPI) ListUsers(c *gin.Context) {
	page, ok := parsePageParams(c)
	if !ok {
		return
	}
	result, err := api.users.ListUsers(c.Request.Context(), page)
	if err != nil {
		respondServiceError(c, err)
		return
	}
	c.JSON(http.StatusOK, pagination.Map(result, usermapper.FromDomainProfile))
}
