package shopserver

import (
	"net/http"

	"github.com/gin-gonic/gin"

	addressmapper "github.com/finprodb/shop-api/internal/domains/addresses/adapters/http/mapper"
	addressports "github.com/finprodb/shop-api/internal/domains/addresses/ports"
)

// AddressAPI serves the signed-in user's address book.
type AddressAPI struct {
	service addressports.Service
}

// NewAddressAPI creates an AddressAPI backed by the address service.
func NewAddressAPI(service addressports.Service) AddressAPI {
	return AddressAPI{service: service}
}

// Get /api/addresses
// Addresses, newest first
func (api *AddressAPI) ListAddresses(c *gin.Context) {
	principal, ok := requirePrincipal(c)
	if !ok {
		return
	}
	addresses, err := api.service.List(c.Request.Context(), principal.UserID)
	if err != nil {
		respondServiceError(c, err)
		return
	}
	c.JSON(http.StatusOK, addressmapper.FromDomainList(addresses))
}

// Post /api/addresses
func (api *AddressAPI) CreateAddress(c *gin.Context) {
	principal, ok := requirePrincipal(c)
	if !ok {
		return
	}
	payload, ok := bindAddress(c)
	if !ok {
		return
	}
	address, err := api.service.Create(c.Request.Context(), principal.UserID, addressmapper.ToFields(payload))
	if err != nil {
		respondServiceError(c, err)
		return
	}
	c.JSON(http.StatusOK, addressmapper.FromDomain(address))
}

// Put /api/addresses/:id
// Apply non-blank fields
func (api *AddressAPI) UpdateAddress(c *gin.Context) {
	principal, ok := requirePrincipal(c)
	if !ok {
		return
	}
	id, ok := parseIDParam(c, "id")
	if !ok {
		return
	}
	payload, ok := bindAddress(c)
	if !ok {
		return
	}
	address, err := api.service.Update(c.Request.Context(), principal.UserID, id, addressmapper.ToFields(payload))
	if err != nil {
		respondServiceError(c, err)
		return
	}
	c.JSON(http.StatusOK, addressmapper.FromDomain(address))
}

// Delete /api/addresses/:id
func (api *AddressAPI) DeleteAddress(c *gin.Context) {
	principal, ok := requirePrincipal(c)
	if !ok {
		return
	}
	id, ok := parseIDParam(c, "id")
	if !ok {
		return
	}
	if err := api.service.Delete(c.Request.Context(), principal.UserID, id); err != nil {
		respondServiceError(c, err)
		return
	}
	c.Status(http.StatusNoContent)
}

// Post /api/addresses/:id/default
func (api *AddressAPI) SetDefaultAddress(c *gin.Context) {
	principal, ok := requirePrincipal(c)
	if !ok {
		return
	}
	id, ok := parseIDParam(c, "id")
	if !ok {
		return
	}
	address, err := api.service.SetDefault(c.Request.Context(), principal.UserID, id)
	if err != nil {
		respondServiceError(c, err)
		return
	}
	c.JSON(http.StatusOK, addressmapper.FromDomain(address))
}

// bindAddress returns nil for an absent body so the service reports "Invalid request".
func bindAddress(c *gin.Context) (*addressmapper.AddressRequest, bool) {
	var payload addressmapper.AddressRequest
	present, ok := bindOptionalJSON(c, &payload)
	if !ok || !present {
		return nil, ok
	}
	return &payload, true
}
