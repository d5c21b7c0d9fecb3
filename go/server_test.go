package shopserver

import (
	"bytes"
	"context"
	"encoding/json"
	"io"
	"mime/multipart"
	"net/http"
	"net/http/httptest"
	"net/textproto"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"

	addressmemory "github.com/finprodb/shop-api/internal/domains/addresses/adapters/memory"
	addressapp "github.com/finprodb/shop-api/internal/domains/addresses/application"
	cartmemory "github.com/finprodb/shop-api/internal/domains/carts/adapters/memory"
	cartapp "github.com/finprodb/shop-api/internal/domains/carts/application"
	categorymemory "github.com/finprodb/shop-api/internal/domains/categories/adapters/memory"
	categoryapp "github.com/finprodb/shop-api/internal/domains/categories/application"
	ordermemory "github.com/finprodb/shop-api/internal/domains/orders/adapters/memory"
	orderapp "github.com/finprodb/shop-api/internal/domains/orders/application"
	paymentmemory "github.com/finprodb/shop-api/internal/domains/payments/adapters/memory"
	paymentapp "github.com/finprodb/shop-api/internal/domains/payments/application"
	paymentports "github.com/finprodb/shop-api/internal/domains/payments/ports"
	productmemory "github.com/finprodb/shop-api/internal/domains/products/adapters/memory"
	productapp "github.com/finprodb/shop-api/internal/domains/products/application"
	usermemory "github.com/finprodb/shop-api/internal/domains/users/adapters/memory"
	"github.com/finprodb/shop-api/internal/domains/users/adapters/security"
	userapp "github.com/finprodb/shop-api/internal/domains/users/application"
	userports "github.com/finprodb/shop-api/internal/domains/users/ports"
	"github.com/finprodb/shop-api/internal/platform/storage"
)

const testServerKey = "SB-Mid-server-test"

type stubSnap struct {
	requests []paymentports.SnapRequest
}

func (s *stubSnap) CreateTransaction(_ context.Context, req paymentports.SnapRequest) (*paymentports.SnapResponse, error) {
	s.requests = append(s.requests, req)
	return &paymentports.SnapResponse{Token: "snap-token", RedirectURL: "https://app.sandbox.midtrans.com/snap/v4/redirection/snap-token"}, nil
}

type testServer struct {
	t      *testing.T
	router *gin.Engine
	snap   *stubSnap
}

func newTestServer(t *testing.T, throttle gin.HandlerFunc) *testServer {
	t.Helper()
	gin.SetMode(gin.TestMode)

	issuer, err := security.NewJWTIssuer("test-secret-that-is-long-enough-for-hs256", time.Hour)
	require.NoError(t, err)
	users := userapp.NewService(usermemory.NewRepository(), security.NewBcryptHasher(bcrypt.MinCost), issuer)
	_, err = users.EnsureAdmin(context.Background(), userports.BootstrapAdmin{
		Enabled:  true,
		Username: "admin",
		Email:    "admin@mail.com",
		Name:     "Admin",
		Password: "admin12345",
	})
	require.NoError(t, err)

	images := storage.NewLocalImageStore(t.TempDir(), "/uploads")
	categories := categoryapp.NewService(categorymemory.NewRepository(), images)
	products := productapp.NewService(productmemory.NewRepository(), categories, images)
	carts := cartapp.NewService(cartmemory.NewRepository(), products)
	addresses := addressapp.NewService(addressmemory.NewRepository())
	orders := orderapp.NewService(ordermemory.NewRepository(), carts, addresses, products)
	snap := &stubSnap{}
	payments := paymentapp.NewService(paymentmemory.NewRepository(), orders, users, snap, paymentapp.Config{ServerKey: testServerKey})
	admin := orderapp.NewAdminService(orders, users, orderapp.WithPaymentStatus(payments))

	router := gin.New()
	router.Use(CORS(DefaultCORSConfig()), RequestID())
	NewRouterWithGinEngine(router, ApiHandleFunctions{
		AuthAPI:     NewAuthAPI(users),
		MeAPI:       NewMeAPI(users),
		CategoryAPI: NewCategoryAPI(categories),
		ProductAPI:  NewProductAPI(products),
		CartAPI:     NewCartAPI(carts),
		AddressAPI:  NewAddressAPI(addresses),
		OrderAPI:    NewOrderAPI(orders, nil),
		PaymentAPI:  NewPaymentAPI(payments),
		AdminAPI:    NewAdminAPI(admin, users),
		Guard:       NewGuard(users, nil),
		Throttle:    throttle,
	})
	NewSupportRoutes(router, "", nil)
	return &testServer{t: t, router: router, snap: snap}
}

func (s *testServer) do(method, path, token string, body any) *httptest.ResponseRecorder {
	s.t.Helper()
	var reader io.Reader
	if body != nil {
		raw, err := json.Marshal(body)
		require.NoError(s.t, err)
		reader = bytes.NewReader(raw)
	}
	req := httptest.NewRequest(method, path, reader)
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}
	rec := httptest.NewRecorder()
	s.router.ServeHTTP(rec, req)
	return rec
}

func (s *testServer) upload(path, token, filename, contentType string, content []byte) *httptest.ResponseRecorder {
	s.t.Helper()
	var buf bytes.Buffer
	writer := multipart.NewWriter(&buf)
	header := textproto.MIMEHeader{}
	header.Set("Content-Disposition", `form-data; name="file"; filename="`+filename+`"`)
	header.Set("Content-Type", contentType)
	part, err := writer.CreatePart(header)
	require.NoError(s.t, err)
	_, err = part.Write(content)
	require.NoError(s.t, err)
	require.NoError(s.t, writer.Close())

	req := httptest.NewRequest(http.MethodPost, path, &buf)
	req.Header.Set("Content-Type", writer.FormDataContentType())
	req.Header.Set("Authorization", "Bearer "+token)
	rec := httptest.NewRecorder()
	s.router.ServeHTTP(rec, req)
	return rec
}

func (s *testServer) login(identifier, password string) string {
	s.t.Helper()
	rec := s.do(http.MethodPost, "/api/auth/login", "", map[string]string{"identifier": identifier, "password": password})
	require.Equal(s.t, http.StatusOK, rec.Code, rec.Body.String())
	return decode[map[string]any](s.t, rec)["token"].(string)
}

func (s *testServer) register(username string) string {
	s.t.Helper()
	rec := s.do(http.MethodPost, "/api/auth/register", "", map[string]string{
		"name":     "Customer " + username,
		"username": username,
		"email":    username + "@mail.com",
		"password": "secret123",
	})
	require.Equal(s.t, http.StatusOK, rec.Code, rec.Body.String())
	return decode[map[string]any](s.t, rec)["token"].(string)
}

func decode[T any](t *testing.T, rec *httptest.ResponseRecorder) T {
	t.Helper()
	var out T
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &out), rec.Body.String())
	return out
}

func message(t *testing.T, rec *httptest.ResponseRecorder) string {
	t.Helper()
	body := decode[map[string]any](t, rec)
	msg, _ := body["message"].(string)
	return msg
}
