package shopserver

import (
	"net/http"

	"github.com/gin-gonic/gin"
)

// Access is the authorization level a route requires.
type Access int

const (
	// AccessPublic routes need no token.
	AccessPublic Access = iota
	// AccessCredentials routes are public but rate limited per client IP.
	AccessCredentials
	// AccessUser routes need a valid bearer token.
	AccessUser
	// AccessAdmin routes need a bearer token for an ADMIN account.
	AccessAdmin
)

// Route is the information for every URI.
type Route struct {
	// Name is the name of this Route.
	Name string
	// Method is the string for the HTTP method. ex) GET, POST etc..
	Method string
	// Pattern is the pattern of the URI.
	Pattern string
	// Access selects the middleware guarding the route.
	Access Access
	// HandlerFunc is the handler function of this route.
	HandlerFunc gin.HandlerFunc
}

// ApiHandleFunctions bundles the handlers and guards mounted by the router.
type ApiHandleFunctions struct {
	AuthAPI     AuthAPI
	MeAPI       MeAPI
	CategoryAPI CategoryAPI
	ProductAPI  ProductAPI
	CartAPI     CartAPI
	AddressAPI  AddressAPI
	OrderAPI    OrderAPI
	PaymentAPI  PaymentAPI
	AdminAPI    AdminAPI

	// Guard authenticates bearer tokens. Protected routes answer 401 when nil.
	Guard *Guard
	// Throttle limits the credential endpoints; nil disables limiting.
	Throttle gin.HandlerFunc
}

// NewRouter returns a new router.
func NewRouter(handleFunctions ApiHandleFunctions) *gin.Engine {
	return NewRouterWithGinEngine(gin.Default(), handleFunctions)
}

// NewRouterWithGinEngine adds routes to an existing gin engine. Engine-wide
// middleware must already be installed since gin copies the chain per route.
func NewRouterWithGinEngine(router *gin.Engine, handleFunctions ApiHandleFunctions) *gin.Engine {
	for _, route := range getRoutes(handleFunctions) {
		if route.HandlerFunc == nil {
			route.HandlerFunc = DefaultHandleFunc
		}
		chain := append(handleFunctions.guards(route.Access), route.HandlerFunc)
		switch route.Method {
		case http.MethodGet:
			router.GET(route.Pattern, chain...)
		case http.MethodPost:
			router.POST(route.Pattern, chain...)
		case http.MethodPut:
			router.PUT(route.Pattern, chain...)
		case http.MethodPatch:
			router.PATCH(route.Pattern, chain...)
		case http.MethodDelete:
			router.DELETE(route.Pattern, chain...)
		}
	}
	return router
}

func (h ApiHandleFunctions) guards(access Access) []gin.HandlerFunc {
	switch access {
	case AccessCredentials:
		if h.Throttle != nil {
			return []gin.HandlerFunc{h.Throttle}
		}
		return nil
	case AccessUser:
		return []gin.HandlerFunc{h.Guard.RequireUser}
	case AccessAdmin:
		return []gin.HandlerFunc{h.Guard.RequireUser, RequireAdmin}
	default:
		return nil
	}
}

// DefaultHandleFunc answers routes that have no handler wired.
func DefaultHandleFunc(c *gin.Context) {
	c.String(http.StatusNotImplemented, "501 not implemented")
}

func getRoutes(handleFunctions ApiHandleFunctions) []Route {
	return []Route{
		{"Register", http.MethodPost, "/api/auth/register", AccessCredentials, handleFunctions.AuthAPI.Register},
		{"Login", http.MethodPost, "/api/auth/login", AccessCredentials, handleFunctions.AuthAPI.Login},

		{"GetMe", http.MethodGet, "/api/me", AccessUser, handleFunctions.MeAPI.GetMe},
		{"UpdateMe", http.MethodPut, "/api/me", AccessUser, handleFunctions.MeAPI.UpdateMe},

		{"ListCategories", http.MethodGet, "/api/categories", AccessPublic, handleFunctions.CategoryAPI.ListCategories},
		{"GetCategory", http.MethodGet, "/api/categories/:id", AccessPublic, handleFunctions.CategoryAPI.GetCategory},
		{"ListProducts", http.MethodGet, "/api/products", AccessPublic, handleFunctions.ProductAPI.ListProducts},
		{"GetProduct", http.MethodGet, "/api/products/:id", AccessPublic, handleFunctions.ProductAPI.GetProduct},

		{"GetCart", http.MethodGet, "/api/cart", AccessUser, handleFunctions.CartAPI.GetCart},
		{"AddCartItem", http.MethodPost, "/api/cart/items", AccessUser, handleFunctions.CartAPI.AddItem},
		{"UpdateCartItem", http.MethodPatch, "/api/cart/items/:id", AccessUser, handleFunctions.CartAPI.UpdateItem},
		{"RemoveCartItem", http.MethodDelete, "/api/cart/items/:id", AccessUser, handleFunctions.CartAPI.RemoveItem},
		{"ClearCart", http.MethodDelete, "/api/cart", AccessUser, handleFunctions.CartAPI.ClearCart},

		{"ListAddresses", http.MethodGet, "/api/addresses", AccessUser, handleFunctions.AddressAPI.ListAddresses},
		{"CreateAddress", http.MethodPost, "/api/addresses", AccessUser, handleFunctions.AddressAPI.CreateAddress},
		{"UpdateAddress", http.MethodPut, "/api/addresses/:id", AccessUser, handleFunctions.AddressAPI.UpdateAddress},
		{"DeleteAddress", http.MethodDelete, "/api/addresses/:id", AccessUser, handleFunctions.AddressAPI.DeleteAddress},
		{"SetDefaultAddress", http.MethodPost, "/api/addresses/:id/default", AccessUser, handleFunctions.AddressAPI.SetDefaultAddress},

		{"Checkout", http.MethodPost, "/api/orders/checkout", AccessUser, handleFunctions.OrderAPI.Checkout},
		{"ListOrders", http.MethodGet, "/api/orders", AccessUser, handleFunctions.OrderAPI.ListOrders},
		{"GetOrderByCode", http.MethodGet, "/api/orders/by-code/:code", AccessUser, handleFunctions.OrderAPI.GetOrderByCode},
		{"GetOrder", http.MethodGet, "/api/orders/:id", AccessUser, handleFunctions.OrderAPI.GetOrder},
		{"ConfirmReceived", http.MethodPost, "/api/orders/:id/confirm-received", AccessUser, handleFunctions.OrderAPI.ConfirmReceived},

		{"CreateSnap", http.MethodPost, "/api/payments/midtrans/snap/:orderId", AccessUser, handleFunctions.PaymentAPI.CreateSnap},
		{"MidtransNotification", http.MethodPost, "/api/payments/midtrans/notification", AccessPublic, handleFunctions.PaymentAPI.Notification},

		{"AdminListOrders", http.MethodGet, "/api/admin/orders", AccessAdmin, handleFunctions.AdminAPI.ListOrders},
		{"AdminGetOrder", http.MethodGet, "/api/admin/orders/:id", AccessAdmin, handleFunctions.AdminAPI.GetOrder},
		{"AdminApproveOrder", http.MethodPost, "/api/admin/orders/:id/approve", AccessAdmin, handleFunctions.AdminAPI.ApproveOrder},
		{"AdminRejectOrder", http.MethodPost, "/api/admin/orders/:id/reject", AccessAdmin, handleFunctions.AdminAPI.RejectOrder},
		{"AdminStartDelivery", http.MethodPost, "/api/admin/orders/:id/deliver", AccessAdmin, handleFunctions.AdminAPI.StartDelivery},
		{"AdminMarkDelivered", http.MethodPost, "/api/admin/orders/:id/delivered", AccessAdmin, handleFunctions.AdminAPI.MarkDelivered},
		{"AdminSummary", http.MethodGet, "/api/admin/summary", AccessAdmin, handleFunctions.AdminAPI.Summary},
		{"AdminListUsers", http.MethodGet, "/api/admin/users", AccessAdmin, handleFunctions.AdminAPI.ListUsers},

		{"AdminListCategories", http.MethodGet, "/api/admin/categories", AccessAdmin, handleFunctions.CategoryAPI.AdminListCategories},
		{"AdminGetCategory", http.MethodGet, "/api/admin/categories/:id", AccessAdmin, handleFunctions.CategoryAPI.AdminGetCategory},
		{"AdminCreateCategory", http.MethodPost, "/api/admin/categories", AccessAdmin, handleFunctions.CategoryAPI.CreateCategory},
		{"AdminUpdateCategory", http.MethodPut, "/api/admin/categories/:id", AccessAdmin, handleFunctions.CategoryAPI.UpdateCategory},
		{"AdminUploadCategoryImage", http.MethodPost, "/api/admin/categories/:id/image", AccessAdmin, handleFunctions.CategoryAPI.UploadCategoryImage},
		{"AdminDeleteCategory", http.MethodDelete, "/api/admin/categories/:id", AccessAdmin, handleFunctions.CategoryAPI.DeleteCategory},

		{"AdminListProducts", http.MethodGet, "/api/admin/products", AccessAdmin, handleFunctions.ProductAPI.AdminListProducts},
		{"AdminGetProduct", http.MethodGet, "/api/admin/products/:id", AccessAdmin, handleFunctions.ProductAPI.AdminGetProduct},
		{"AdminCreateProduct", http.MethodPost, "/api/admin/products", AccessAdmin, handleFunctions.ProductAPI.CreateProduct},
		{"AdminUpdateProduct", http.MethodPut, "/api/admin/products/:id", AccessAdmin, handleFunctions.ProductAPI.UpdateProduct},
		{"AdminUploadProductImage", http.MethodPost, "/api/admin/products/:id/image", AccessAdmin, handleFunctions.ProductAPI.UploadProductImage},
		{"AdminDeleteProduct", http.MethodDelete, "/api/admin/products/:id", AccessAdmin, handleFunctions.ProductAPI.DeleteProduct},
	}
}

// NewSupportRoutes mounts the health probe, the uploaded image files and,
// when given, the Prometheus scrape endpoint.
func NewSupportRoutes(router *gin.Engine, uploadsRoot string, metrics http.Handler) *gin.Engine {
	router.GET("/healthz", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"status": "ok"})
	})
	if uploadsRoot != "" {
		router.Static("/uploads", uploadsRoot)
	}
	if metrics != nil {
		router.GET("/metrics", gin.WrapH(metrics))
	}
	return router
}
