package metrics

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestMiddlewareCountsByRouteTemplate(t *testing.T) {
	gin.SetMode(gin.TestMode)
	m := NewServerMetrics("test")
	router := gin.New()
	router.Use(m.Middleware())
	router.GET("/api/products/:id", func(c *gin.Context) { c.Status(http.StatusOK) })

	for _, path := range []string{"/api/products/1", "/api/products/2"} {
		rec := httptest.NewRecorder()
		router.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, path, nil))
		require.Equal(t, http.StatusOK, rec.Code)
	}

	assert.Equal(t, 2.0, testutil.ToFloat64(m.Requests.WithLabelValues(http.MethodGet, "/api/products/:id", "200")))
}

func TestHandlerExposesRequestCounter(t *testing.T) {
	m := NewServerMetrics("test")
	m.Requests.WithLabelValues(http.MethodGet, "/healthz", "200").Inc()

	rec := httptest.NewRecorder()
	m.Handler().ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/metrics", nil))

	require.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), "shop_test_http_requests_total")
}
