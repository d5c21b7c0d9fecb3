package shopserver

import (
	"errors"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	cartports "github.com/finprodb/shop-api/internal/domains/carts/ports"
	paymentdomain "github.com/finprodb/shop-api/internal/domains/payments/domain"
)

func TestAuthRegisterValidationReportsFirstField(t *testing.T) {
	srv := newTestServer(t, nil)

	rec := srv.do(http.MethodPost, "/api/auth/register", "", map[string]string{
		"name":     "Budi",
		"username": "budi",
		"email":    "not-an-email",
		"password": "secret123",
	})

	require.Equal(t, http.StatusBadRequest, rec.Code)
	assert.Equal(t, "email must be a well-formed email address", message(t, rec))
}

func TestAuthRegisterRejectsDuplicateUsername(t *testing.T) {
	srv := newTestServer(t, nil)
	srv.register("budi")

	rec := srv.do(http.MethodPost, "/api/auth/register", "", map[string]string{
		"name":     "Other",
		"username": "budi",
		"email":    "other@mail.com",
		"password": "secret123",
	})

	require.Equal(t, http.StatusBadRequest, rec.Code)
	assert.Equal(t, "Username already used", message(t, rec))
}

func TestAuthLoginWithWrongPassword(t *testing.T) {
	srv := newTestServer(t, nil)
	srv.register("budi")

	rec := srv.do(http.MethodPost, "/api/auth/login", "", map[string]string{"identifier": "budi@mail.com", "password": "nope"})

	require.Equal(t, http.StatusBadRequest, rec.Code)
	assert.Equal(t, "Invalid credentials", message(t, rec))
}

func TestMeRequiresBearerToken(t *testing.T) {
	srv := newTestServer(t, nil)

	rec := srv.do(http.MethodGet, "/api/me", "", nil)
	require.Equal(t, http.StatusUnauthorized, rec.Code)
	assert.Equal(t, "Unauthorized", message(t, rec))

	rec = srv.do(http.MethodGet, "/api/me", "garbage", nil)
	require.Equal(t, http.StatusUnauthorized, rec.Code)
}

func TestMeRoundTrip(t *testing.T) {
	srv := newTestServer(t, nil)
	token := srv.register("budi")

	rec := srv.do(http.MethodPut, "/api/me", token, map[string]string{"name": "Budi Santoso", "username": "  "})
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())

	rec = srv.do(http.MethodGet, "/api/me", token, nil)
	require.Equal(t, http.StatusOK, rec.Code)
	profile := decode[map[string]any](t, rec)
	assert.Equal(t, "Budi Santoso", profile["name"])
	assert.Equal(t, "budi", profile["username"])
	assert.Equal(t, "USER", profile["role"])
}

func TestUpdateMeWithoutBodyIsInvalid(t *testing.T) {
	srv := newTestServer(t, nil)
	token := srv.register("budi")

	rec := srv.do(http.MethodPut, "/api/me", token, nil)

	require.Equal(t, http.StatusBadRequest, rec.Code)
	assert.Equal(t, "Invalid request", message(t, rec))
}

func TestAdminRoutesRejectCustomers(t *testing.T) {
	srv := newTestServer(t, nil)
	token := srv.register("budi")

	rec := srv.do(http.MethodGet, "/api/admin/summary", token, nil)
	require.Equal(t, http.StatusForbidden, rec.Code)
	assert.Equal(t, "Forbidden", message(t, rec))

	rec = srv.do(http.MethodGet, "/api/admin/summary", "", nil)
	require.Equal(t, http.StatusUnauthorized, rec.Code)
}

func TestCatalogNotFoundIs404(t *testing.T) {
	srv := newTestServer(t, nil)

	rec := srv.do(http.MethodGet, "/api/products/999", "", nil)
	require.Equal(t, http.StatusNotFound, rec.Code)
	assert.Equal(t, "Product not found", message(t, rec))

	rec = srv.do(http.MethodGet, "/api/categories/999", "", nil)
	require.Equal(t, http.StatusNotFound, rec.Code)
	assert.Equal(t, "Category not found", message(t, rec))

	rec = srv.do(http.MethodGet, "/api/products/abc", "", nil)
	require.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestAdminCatalogLifecycle(t *testing.T) {
	srv := newTestServer(t, nil)
	admin := srv.login("admin", "admin12345")

	rec := srv.do(http.MethodPost, "/api/admin/categories", admin, map[string]string{"name": "Shoes"})
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())
	categoryID := int64(decode[map[string]any](t, rec)["id"].(float64))

	rec = srv.do(http.MethodPost, "/api/admin/products", admin, map[string]any{
		"name": "Runner", "price": 15000, "stock": 5, "categoryId": categoryID,
	})
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())
	product := decode[map[string]any](t, rec)
	productID := int64(product["id"].(float64))
	assert.Equal(t, 15000.0, product["price"])
	assert.Equal(t, true, product["active"])

	rec = srv.do(http.MethodGet, fmt.Sprintf("/api/products?q=%s&categoryId=%d", "RUN", categoryID), "", nil)
	require.Equal(t, http.StatusOK, rec.Code)
	page := decode[map[string]any](t, rec)
	assert.Equal(t, 1.0, page["totalElements"])

	rec = srv.upload(fmt.Sprintf("/api/admin/products/%d/image", productID), admin, "notes.txt", "text/plain", []byte("hello"))
	require.Equal(t, http.StatusBadRequest, rec.Code)
	assert.Equal(t, "File must be an image", message(t, rec))

	rec = srv.upload(fmt.Sprintf("/api/admin/products/%d/image", productID), admin, "runner.png", "image/png", []byte("png"))
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())
	assert.Regexp(t, fmt.Sprintf(`^/uploads/products/product-%d-\d+\.png$`, productID), decode[map[string]any](t, rec)["imagePath"])

	rec = srv.do(http.MethodDelete, fmt.Sprintf("/api/admin/products/%d", productID), admin, nil)
	require.Equal(t, http.StatusNoContent, rec.Code)

	rec = srv.do(http.MethodGet, fmt.Sprintf("/api/products/%d", productID), "", nil)
	require.Equal(t, http.StatusNotFound, rec.Code)

	rec = srv.do(http.MethodDelete, fmt.Sprintf("/api/admin/categories/%d", categoryID+100), admin, nil)
	require.Equal(t, http.StatusNotFound, rec.Code)
}

func TestAdminProductValidation(t *testing.T) {
	srv := newTestServer(t, nil)
	admin := srv.login("admin", "admin12345")

	rec := srv.do(http.MethodPost, "/api/admin/products", admin, map[string]any{"name": "Runner", "stock": 1})

	require.Equal(t, http.StatusBadRequest, rec.Code)
	assert.Equal(t, "price must not be null", message(t, rec))
}

func TestCheckoutWithEmptyCart(t *testing.T) {
	srv := newTestServer(t, nil)
	token := srv.register("budi")

	rec := srv.do(http.MethodPost, "/api/orders/checkout", token, nil)

	require.Equal(t, http.StatusBadRequest, rec.Code)
	assert.Equal(t, "Cart is empty", message(t, rec))
}

func TestCartItemOwnedByAnotherUserIsForbidden(t *testing.T) {
	srv := newTestServer(t, nil)
	admin := srv.login("admin", "admin12345")
	productID := createProduct(t, srv, admin, 10000, 3)
	owner := srv.register("budi")
	intruder := srv.register("siti")

	rec := srv.do(http.MethodPost, "/api/cart/items", owner, map[string]any{"productId": productID, "quantity": 1})
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())
	itemID := int64(decode[map[string]any](t, rec)["id"].(float64))

	rec = srv.do(http.MethodPatch, fmt.Sprintf("/api/cart/items/%d", itemID), intruder, map[string]any{"quantity": 2})
	require.Equal(t, http.StatusBadRequest, rec.Code)
	assert.Equal(t, "Forbidden", message(t, rec))

	rec = srv.do(http.MethodPatch, fmt.Sprintf("/api/cart/items/%d", itemID), owner, map[string]any{"quantity": 0})
	require.Equal(t, http.StatusBadRequest, rec.Code)
	assert.Equal(t, "quantity must be greater than or equal to 1", message(t, rec))
}

func TestOrderLifecycleThroughPaymentAndAdmin(t *testing.T) {
	srv := newTestServer(t, nil)
	admin := srv.login("admin", "admin12345")
	productID := createProduct(t, srv, admin, 15000, 5)
	token := srv.register("budi")

	rec := srv.do(http.MethodPost, "/api/addresses", token, map[string]any{
		"label": "Home", "recipientName": "Budi", "addressLine": "Jl. Merdeka 1", "phone": "0811",
	})
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())
	assert.Equal(t, true, decode[map[string]any](t, rec)["isDefault"])

	rec = srv.do(http.MethodPost, "/api/cart/items", token, map[string]any{"productId": productID, "quantity": 2})
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())

	rec = srv.do(http.MethodPost, "/api/orders/checkout", token, nil)
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())
	checkout := decode[map[string]any](t, rec)
	orderID := int64(checkout["orderId"].(float64))
	orderCode := checkout["orderCode"].(string)
	assert.Equal(t, "PENDING_PAYMENT", checkout["status"])
	assert.Equal(t, 30000.0, checkout["totalAmount"])
	assert.Equal(t, "Jl. Merdeka 1", checkout["shippingAddress"])

	rec = srv.do(http.MethodGet, "/api/cart", token, nil)
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "[]", rec.Body.String())

	rec = srv.do(http.MethodPost, fmt.Sprintf("/api/payments/midtrans/snap/%d", orderID), token, nil)
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())
	assert.Equal(t, "snap-token", decode[map[string]any](t, rec)["snapToken"])
	require.Len(t, srv.snap.requests, 1)
	assert.Equal(t, orderCode, srv.snap.requests[0].TransactionDetails.OrderID)

	rec = srv.do(http.MethodPost, "/api/payments/midtrans/notification", "", map[string]any{
		"order_id":           orderCode,
		"status_code":        "200",
		"gross_amount":       "30000.00",
		"transaction_status": "settlement",
		"signature_key":      paymentdomain.Signature(orderCode, "200", "30000.00", testServerKey),
	})
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())
	notification := decode[map[string]any](t, rec)
	assert.Equal(t, "PAID", notification["orderStatus"])
	assert.Equal(t, "SUCCESS", notification["paymentStatus"])

	rec = srv.do(http.MethodGet, fmt.Sprintf("/api/admin/products/%d", productID), admin, nil)
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, 3.0, decode[map[string]any](t, rec)["stock"])

	rec = srv.do(http.MethodPost, fmt.Sprintf("/api/orders/%d/confirm-received", orderID), token, nil)
	require.Equal(t, http.StatusBadRequest, rec.Code)
	assert.Equal(t, "Order is not delivered yet", message(t, rec))

	rec = srv.do(http.MethodPost, fmt.Sprintf("/api/admin/orders/%d/deliver", orderID), admin, nil)
	require.Equal(t, http.StatusBadRequest, rec.Code)
	assert.Equal(t, "Order is not ready for delivery", message(t, rec))

	rec = srv.do(http.MethodPost, fmt.Sprintf("/api/admin/orders/%d/approve", orderID), admin, nil)
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())
	approved := decode[map[string]any](t, rec)
	assert.Equal(t, "DELIVERING", approved["status"])
	assert.Equal(t, "APPROVED", approved["approvalStatus"])
	assert.Equal(t, "SUCCESS", approved["paymentStatus"])
	assert.NotEmpty(t, approved["courierPlate"])

	rec = srv.do(http.MethodPost, fmt.Sprintf("/api/admin/orders/%d/reject", orderID), admin, nil)
	require.Equal(t, http.StatusBadRequest, rec.Code)

	rec = srv.do(http.MethodPost, fmt.Sprintf("/api/admin/orders/%d/delivered", orderID), admin, nil)
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())

	rec = srv.do(http.MethodPost, fmt.Sprintf("/api/orders/%d/confirm-received", orderID), token, nil)
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())
	assert.Equal(t, "COMPLETED", decode[map[string]any](t, rec)["status"])

	rec = srv.do(http.MethodGet, "/api/orders/by-code/"+orderCode, token, nil)
	require.Equal(t, http.StatusOK, rec.Code)

	rec = srv.do(http.MethodGet, "/api/admin/summary", admin, nil)
	require.Equal(t, http.StatusOK, rec.Code)
	summary := decode[map[string]any](t, rec)
	assert.Equal(t, 1.0, summary["totalOrders"])
	assert.Equal(t, 1.0, summary["totalUserRoleUser"])
}

func TestOrderOfAnotherUserIsNotFound(t *testing.T) {
	srv := newTestServer(t, nil)
	admin := srv.login("admin", "admin12345")
	productID := createProduct(t, srv, admin, 5000, 1)
	owner := srv.register("budi")
	other := srv.register("siti")

	rec := srv.do(http.MethodPost, "/api/cart/items", owner, map[string]any{"productId": productID, "quantity": 1})
	require.Equal(t, http.StatusOK, rec.Code)
	rec = srv.do(http.MethodPost, "/api/orders/checkout", owner, map[string]any{"shippingAddress": "Jl. Sudirman", "shippingPhone": "0812"})
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())
	orderID := int64(decode[map[string]any](t, rec)["orderId"].(float64))

	rec = srv.do(http.MethodGet, fmt.Sprintf("/api/orders/%d", orderID), other, nil)
	require.Equal(t, http.StatusBadRequest, rec.Code)
	assert.Equal(t, "Order not found", message(t, rec))
}

func TestNotificationWithBadSignature(t *testing.T) {
	srv := newTestServer(t, nil)

	rec := srv.do(http.MethodPost, "/api/payments/midtrans/notification", "", map[string]any{
		"order_id":      "ORD-1",
		"status_code":   "200",
		"gross_amount":  "1000.00",
		"signature_key": "bogus",
	})

	require.Equal(t, http.StatusBadRequest, rec.Code)
	assert.Equal(t, "Invalid signature", message(t, rec))
}

func TestCredentialRoutesAreThrottled(t *testing.T) {
	limiter := NewRateLimiter(0.001, 1, 0, 0)
	srv := newTestServer(t, limiter.Middleware(nil))
	body := map[string]string{"identifier": "admin", "password": "admin12345"}

	first := srv.do(http.MethodPost, "/api/auth/login", "", body)
	require.Equal(t, http.StatusOK, first.Code)

	second := srv.do(http.MethodPost, "/api/auth/login", "", body)
	require.Equal(t, http.StatusTooManyRequests, second.Code)

	rec := srv.do(http.MethodGet, "/api/products", "", nil)
	require.Equal(t, http.StatusOK, rec.Code)
}

func TestPreflightIsAnsweredByCORS(t *testing.T) {
	srv := newTestServer(t, nil)
	req := httptest.NewRequest(http.MethodOptions, "/api/cart", nil)
	req.Header.Set("Origin", "http://localhost:3000")
	rec := httptest.NewRecorder()

	srv.router.ServeHTTP(rec, req)

	require.Equal(t, http.StatusNoContent, rec.Code)
	assert.Equal(t, "http://localhost:3000", rec.Header().Get("Access-Control-Allow-Origin"))
	assert.Equal(t, "true", rec.Header().Get("Access-Control-Allow-Credentials"))
}

func TestCORSRejectsUnknownOrigin(t *testing.T) {
	srv := newTestServer(t, nil)
	req := httptest.NewRequest(http.MethodGet, "/api/products", nil)
	req.Header.Set("Origin", "http://evil.example.com")
	rec := httptest.NewRecorder()

	srv.router.ServeHTTP(rec, req)

	assert.Equal(t, http.StatusForbidden, rec.Code)
	assert.Empty(t, rec.Header().Get("Access-Control-Allow-Origin"))
}

func TestRateLimiterForgetsIdleClients(t *testing.T) {
	limiter := NewRateLimiter(0.001, 1, 2, 30*time.Millisecond)

	assert.True(t, limiter.limiter("10.0.0.1").Allow())
	assert.False(t, limiter.limiter("10.0.0.1").Allow())

	limiter.limiter("10.0.0.2")
	limiter.limiter("10.0.0.3")
	assert.LessOrEqual(t, limiter.Tracked(), 2)

	assert.Eventually(t, func() bool { return limiter.Tracked() == 0 }, time.Second, 10*time.Millisecond)
	assert.True(t, limiter.limiter("10.0.0.1").Allow())
}

func TestRequestIDIsEchoed(t *testing.T) {
	srv := newTestServer(t, nil)
	req := httptest.NewRequest(http.MethodGet, "/healthz", nil)
	req.Header.Set(RequestIDHeader, "req-42")
	rec := httptest.NewRecorder()

	srv.router.ServeHTTP(rec, req)

	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "req-42", rec.Header().Get(RequestIDHeader))
}

func TestInnermostMessage(t *testing.T) {
	wrapped := fmt.Errorf("%w: %w", errors.New("invalid cart input"), cartports.ErrForbidden)
	assert.Equal(t, "Forbidden", innermostMessage(wrapped))
	assert.Equal(t, "Forbidden", innermostMessage(fmt.Errorf("load item: %w", wrapped)))
	assert.Equal(t, "plain", innermostMessage(errors.New("plain")))
}

func TestUnwiredRouteAnswers501(t *testing.T) {
	gin.SetMode(gin.TestMode)
	router := gin.New()
	router.GET("/x", DefaultHandleFunc)
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/x", nil))
	assert.Equal(t, http.StatusNotImplemented, rec.Code)
}

func createProduct(t *testing.T, srv *testServer, admin string, price, stock int) int64 {
	t.Helper()
	rec := srv.do(http.MethodPost, "/api/admin/products", admin, map[string]any{"name": "Item", "price": price, "stock": stock})
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())
	return int64(decode[map[string]any](t, rec)["id"].(float64))
}
