package shopserver

import (
	"net/http"

	"github.com/gin-gonic/gin"

	cartmapper "github.com/finprodb/shop-api/internal/domains/carts/adapters/http/mapper"
	cartports "github.com/finprodb/shop-api/internal/domains/carts/ports"
)

// CartAPI serves the signed-in user's cart.
type CartAPI struct {
	service cartports.Service
}

// NewCartAPI creates a CartAPI backed by the cart service.
func NewCartAPI(service cartports.Service) CartAPI {
	return CartAPI{service: service}
}

// Get /api/cart
func (api *CartAPI) GetCart(c *gin.Context) {
	principal, ok := requirePrincipal(c)
	if !ok {
		return
	}
	lines, err := api.service.Lines(c.Request.Context(), principal.UserID)
	if err != nil {
		respondServiceError(c, err)
		return
	}
	c.JSON(http.StatusOK, cartmapper.FromLines(lines))
}

// Post /api/cart/items
// Add a product, accumulating onto an existing line
func (api *CartAPI) AddItem(c *gin.Context) {
	principal, ok := requirePrincipal(c)
	if !ok {
		return
	}
	var payload cartmapper.AddItemRequest
	if err := c.ShouldBindJSON(&payload); err != nil {
		respondBindError(c, err)
		return
	}
	line, err := api.service.AddItem(c.Request.Context(), principal.UserID, *payload.ProductID, payload.Quantity)
	if err != nil {
		respondServiceError(c, err)
		return
	}
	c.JSON(http.StatusOK, cartmapper.FromLine(*line))
}

// Patch /api/cart/items/:id
func (api *CartAPI) UpdateItem(c *gin.Context) {
	principal, ok := requirePrincipal(c)
	if !ok {
		return
	}
	itemID, ok := parseIDParam(c, "id")
	if !ok {
		return
	}
	var payload cartmapper.UpdateItemRequest
	if err := c.ShouldBindJSON(&payload); err != nil {
		respondBindError(c, err)
		return
	}
	line, err := api.service.UpdateQuantity(c.Request.Context(), principal.UserID, itemID, payload.Quantity)
	if err != nil {
		respondServiceError(c, err)
		return
	}
	c.JSON(http.StatusOK, cartmapper.FromLine(*line))
}

// Delete /api/cart/items/:id
func (api *CartAPI) RemoveItem(c *gin.Context) {
	principal, ok := requirePrincipal(c)
	if !ok {
		return
	}
	itemID, ok := parseIDParam(c, "id")
	if !ok {
		return
	}
	if err := api.service.RemoveItem(c.Request.Context(), principal.UserID, itemID); err != nil {
		respondServiceError(c, err)
		return
	}
	c.Status(http.StatusNoContent)
}

// Delete /api/cart
func (api *CartAPI) ClearCart(c *gin.Context) {
	principal, ok := requirePrincipal(c)
	if !ok {
		return
	}
	if err := api.service.Clear(c.Request.Context(), principal.UserID); err != nil {
		respondServiceError(c, err)
		return
	}
	c.Status(http.StatusNoContent)
}
