//go:build pact
// +build pact

package provider_test

import (
	"context"
	"errors"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"sync/atomic"
	"testing"
	"time"

	pacttest "github.com/finprodb/shop-api/test/pact"

	"github.com/gin-gonic/gin"
	"github.com/pact-foundation/pact-go/v2/models"
	pactprovider "github.com/pact-foundation/pact-go/v2/provider"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/require"

	"github.com/finprodb/shop-api/internal/app/api"
	categoryports "github.com/finprodb/shop-api/internal/domains/categories/ports"
	orderworkflows "github.com/finprodb/shop-api/internal/domains/orders/adapters/workflows"
	productdomain "github.com/finprodb/shop-api/internal/domains/products/domain"
)

func TestShopProviderPact(t *testing.T) {
	gin.SetMode(gin.TestMode)

	app := newContractProviderApp(t)
	pactFile := filepath.ToSlash(pacttest.PactFile(t))
	if _, err := os.Stat(pactFile); errors.Is(err, os.ErrNotExist) {
		t.Fatalf("pact file not found at %s - run the pact consumer tests first", pactFile)
	} else {
		require.NoError(t, err)
	}

	reset := func(setup bool, _ models.ProviderState) (models.ProviderStateResponse, error) {
		app.reset(t)
		return nil, nil
	}
	verifier := pactprovider.NewVerifier()
	err := verifier.VerifyProvider(t, pactprovider.VerifyRequest{
		ProviderBaseURL: app.server.URL,
		Provider:        pacttest.ProviderName,
		PactFiles:       []string{pactFile},
		StateHandlers: models.StateHandlers{
			pacttest.StateCatalogBaseline: reset,
			pacttest.StateProductMissing:  reset,
			pacttest.StateNoSuchAccount:   reset,
			pacttest.StateProductExists: func(setup bool, _ models.ProviderState) (models.ProviderStateResponse, error) {
				app.reset(t)
				if setup {
					app.seedProduct(t)
				}
				return nil, nil
			},
		},
	})
	require.NoError(t, err)
}

// contractProviderApp rebuilds the whole in-memory service graph per state
// so auto-assigned ids start from 1 again.
type contractProviderApp struct {
	cfg      api.Config
	handler  atomic.Pointer[http.Handler]
	services *api.Container
	server   *httptest.Server
}

func newContractProviderApp(t testing.TB) *contractProviderApp {
	t.Helper()
	app := &contractProviderApp{cfg: api.Config{
		Server:   api.ServerConfig{Port: "0"},
		JWT:      api.JWTConfig{Secret: "pact-provider-secret-with-enough-length", ExpirationMinutes: 60},
		Midtrans: api.MidtransConfig{Timeout: 5 * time.Second},
		App:      api.AppConfig{FrontendBaseURL: "http://localhost:3000"},
		Uploads:  api.UploadsConfig{Dir: t.TempDir()},
	}}
	app.reset(t)
	app.server = httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		(*app.handler.Load()).ServeHTTP(w, r)
	}))
	t.Cleanup(app.server.Close)
	return app
}

func (a *contractProviderApp) reset(t testing.TB) {
	t.Helper()
	services, cleanup, err := api.Build(context.Background(), a.cfg, nil)
	require.NoError(t, err)
	t.Cleanup(cleanup)
	logger := slog.New(slog.NewTextHandler(io.Discard, nil))
	var router http.Handler = api.NewRouter(a.cfg, services, orderworkflows.NewInlineCheckout(services.Orders), nil, logger)
	a.services = services
	a.handler.Store(&router)
}

func (a *contractProviderApp) seedProduct(t testing.TB) {
	t.Helper()
	ctx := context.Background()
	category, err := a.services.Categories.Create(ctx, categoryports.CategoryInput{Name: pacttest.ExampleCategoryName})
	require.NoError(t, err)
	price := decimal.RequireFromString(pacttest.ExampleProductPrice)
	active := true
	_, err = a.services.Products.Create(ctx, productdomain.Details{
		Name:        pacttest.ExampleProductName,
		Description: "Contract test shoe",
		Price:       &price,
		Stock:       pacttest.ExampleProductStock,
		Active:      &active,
		CategoryID:  &category.ID,
	})
	require.NoError(t, err)
}
