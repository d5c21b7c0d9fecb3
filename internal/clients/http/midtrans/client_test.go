package midtrans

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"sync/atomic"
	"testing"
	"time"

	"github.com/sony/gobreaker/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/finprodb/shop-api/internal/domains/payments/ports"
)

func sampleRequest() ports.SnapRequest {
	return ports.SnapRequest{
		TransactionDetails: ports.TransactionDetails{OrderID: "ORD-1-abcdef1234", GrossAmount: 30000},
		CustomerDetails:    ports.CustomerDetails{FirstName: "Budi", Email: "budi@example.com"},
		ItemDetails:        []ports.ItemDetail{{ID: "10", Price: 15000, Quantity: 2, Name: "Kopi"}},
		CreditCard:         ports.CreditCard{Secure: true},
		Callbacks:          ports.Callbacks{Finish: "http://localhost:3000/payment/finish"},
	}
}

func TestCreateTransaction(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, http.MethodPost, r.Method)
		assert.Equal(t, "/snap/v1/transactions", r.URL.Path)
		assert.Equal(t, "Basic U0ItTWlkLXNlcnZlci14eXo6", r.Header.Get("Authorization"))
		assert.Equal(t, "application/json", r.Header.Get("Accept"))

		var payload map[string]any
		require.NoError(t, json.NewDecoder(r.Body).Decode(&payload))
		details := payload["transaction_details"].(map[string]any)
		assert.Equal(t, "ORD-1-abcdef1234", details["order_id"])
		assert.EqualValues(t, 30000, details["gross_amount"])
		customer := payload["customer_details"].(map[string]any)
		assert.Equal(t, "Budi", customer["first_name"])
		assert.NotContains(t, customer, "phone")
		assert.Equal(t, true, payload["credit_card"].(map[string]any)["secure"])
		items := payload["item_details"].([]any)
		require.Len(t, items, 1)
		assert.EqualValues(t, 2, items[0].(map[string]any)["quantity"])
		assert.Equal(t, "http://localhost:3000/payment/finish", payload["callbacks"].(map[string]any)["finish"])

		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusCreated)
		_, _ = w.Write([]byte(`{"token":"snap-token","redirect_url":"https://app.sandbox.midtrans.com/snap/v2/vtweb/snap-token"}`))
	}))
	defer srv.Close()

	client, err := NewClient(Config{ServerKey: "SB-Mid-server-xyz", BaseURL: srv.URL}, srv.Client())
	require.NoError(t, err)

	resp, err := client.CreateTransaction(context.Background(), sampleRequest())
	require.NoError(t, err)
	assert.Equal(t, "snap-token", resp.Token)
	assert.Contains(t, resp.RedirectURL, "snap-token")
}

func TestCreateTransaction_APIError(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusUnauthorized)
		_, _ = w.Write([]byte(`{"error_messages":["Access denied due to unauthorized transaction"]}`))
	}))
	defer srv.Close()

	client, err := NewClient(Config{ServerKey: "bad", BaseURL: srv.URL}, srv.Client())
	require.NoError(t, err)

	_, err = client.CreateTransaction(context.Background(), sampleRequest())
	var apiErr *APIError
	require.ErrorAs(t, err, &apiErr)
	assert.Equal(t, http.StatusUnauthorized, apiErr.StatusCode)
	assert.Contains(t, err.Error(), "unauthorized transaction")
}

func TestCreateTransaction_BreakerOpensOnServerErrors(t *testing.T) {
	var calls atomic.Int32
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		calls.Add(1)
		w.WriteHeader(http.StatusBadGateway)
	}))
	defer srv.Close()

	client, err := NewClient(Config{ServerKey: "k", BaseURL: srv.URL}, srv.Client(), WithBreakerSettings(gobreaker.Settings{
		Timeout:     time.Minute,
		ReadyToTrip: func(c gobreaker.Counts) bool { return c.ConsecutiveFailures >= 2 },
	}))
	require.NoError(t, err)

	for i := 0; i < 2; i++ {
		_, err = client.CreateTransaction(context.Background(), sampleRequest())
		require.Error(t, err)
	}
	_, err = client.CreateTransaction(context.Background(), sampleRequest())
	assert.ErrorIs(t, err, ports.ErrGatewayUnavailable)
	assert.Equal(t, int32(2), calls.Load())
}

func TestBaseURL(t *testing.T) {
	assert.Equal(t, "https://app.midtrans.com", BaseURL(true))
	assert.Equal(t, "https://app.sandbox.midtrans.com", BaseURL(false))
}
