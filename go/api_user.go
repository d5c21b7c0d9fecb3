package shopserver

import (
	"net/http"

	"github.com/gin-gonic/gin"

	userhttpmapper "github.com/finprodb/shop-api/internal/domains/users/adapters/http/mapper"
	userports "github.com/finprodb/shop-api/internal/domains/users/ports"
)

// AuthAPI serves sign-up and login.
type AuthAPI struct {
	service userports.Service
}

// NewAuthAPI creates an AuthAPI backed by the account service.
func NewAuthAPI(service userports.Service) AuthAPI {
	return AuthAPI{service: service}
}

// Post /api/auth/register
// Create an account and return a bearer token
func (api *AuthAPI) Register(c *gin.Context) {
	var payload userhttpmapper.RegisterRequest
	if err := c.ShouldBindJSON(&payload); err != nil {
		respondBindError(c, err)
		return
	}
	result, err := api.service.Register(c.Request.Context(), userhttpmapper.ToRegisterInput(payload))
	if err != nil {
		respondServiceError(c, err)
		return
	}
	c.JSON(http.StatusOK, userhttpmapper.FromAuthResult(result))
}

// Post /api/auth/login
// Exchange a username or email plus password for a bearer token
func (api *AuthAPI) Login(c *gin.Context) {
	var payload userhttpmapper.LoginRequest
	if err := c.ShouldBindJSON(&payload); err != nil {
		respondBindError(c, err)
		return
	}
	result, err := api.service.Login(c.Request.Context(), payload.Identifier, payload.Password)
	if err != nil {
		respondServiceError(c, err)
		return
	}
	c.JSON(http.StatusOK, userhttpmapper.FromAuthResult(result))
}

// MeAPI serves the signed-in user's profile.
type MeAPI struct {
	service userports.Service
}

// NewMeAPI creates a MeAPI backed by the account service.
func NewMeAPI(service userports.Service) MeAPI {
	return MeAPI{service: service}
}

// Get /api/me
// Current user profile
func (api *MeAPI) GetMe(c *gin.Context) {
	principal, ok := requirePrincipal(c)
	if !ok {
		return
	}
	user, err := api.service.Me(c.Request.Context(), principal.UserID)
	if err != nil {
		respondServiceError(c, err)
		return
	}
	c.JSON(http.StatusOK, userhttpmapper.FromDomainProfile(user))
}

// Put /api/me
// Update name, username or email
func (api *MeAPI) UpdateMe(c *gin.Context) {
	principal, ok := requirePrincipal(c)
	if !ok {
		return
	}
	var payload userhttpmapper.UpdateMeRequest
	present, ok := bindOptionalJSON(c, &payload)
	if !ok {
		return
	}
	var update *userports.ProfileUpdate
	if present {
		update = userhttpmapper.ToProfileUpdate(&payload)
	}
	user, err := api.service.UpdateMe(c.Request.Context(), principal.UserID, update)
	if err != nil {
		respondServiceError(c, err)
		return
	}
	c.JSON(http.StatusOK, userhttpmapper.FromDomainProfile(user))
}
