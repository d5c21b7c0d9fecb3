package midtrans

import (
	"bytes"
	"context"
	"encoding/base64"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"strings"
	"time"

	midtransgo "github.com/midtrans/midtrans-go"
	"github.com/midtrans/midtrans-go/snap"
	"github.com/sony/gobreaker/v2"

	"github.com/finprodb/shop-api/internal/domains/payments/ports"
)

const (
	ProductionBaseURL = "https://app.midtrans.com"
	SandboxBaseURL    = "https://app.sandbox.midtrans.com"

	snapTransactionsPath = "/snap/v1/transactions"
)

// BaseURL picks the Snap host for the environment.
func BaseURL(production bool) string {
	if production {
		return ProductionBaseURL
	}
	return SandboxBaseURL
}

// APIError is a non-2xx answer from Snap.
type APIError struct {
	StatusCode int
	Messages   []string
}

func (e *APIError) Error() string {
	if len(e.Messages) == 0 {
		return fmt.Sprintf("midtrans snap returned status %d", e.StatusCode)
	}
	return fmt.Sprintf("midtrans snap returned status %d: %s", e.StatusCode, strings.Join(e.Messages, "; "))
}

// Config selects the merchant account and host.
type Config struct {
	ServerKey  string
	Production bool
	// BaseURL overrides the host derived from Production.
	BaseURL string
}

// Client calls the Snap API behind a circuit breaker.
type Client struct {
	baseURL    string
	serverKey  string
	httpClient *http.Client
	breaker    *gobreaker.CircuitBreaker[*ports.SnapResponse]
	logger     *slog.Logger
}

type Option func(*clientOptions)

type clientOptions struct {
	logger   *slog.Logger
	settings gobreaker.Settings
}

func WithLogger(logger *slog.Logger) Option {
	return func(o *clientOptions) {
		if logger != nil {
			o.logger = logger
		}
	}
}

// WithBreakerSettings replaces the default breaker tuning. Name and
// IsSuccessful are always set by the client.
func WithBreakerSettings(settings gobreaker.Settings) Option {
	return func(o *clientOptions) { o.settings = settings }
}

func NewClient(cfg Config, httpClient *http.Client, opts ...Option) (*Client, error) {
	baseURL := strings.TrimRight(strings.TrimSpace(cfg.BaseURL), "/")
	if baseURL == "" {
		baseURL = BaseURL(cfg.Production)
	}
	if httpClient == nil {
		httpClient = &http.Client{Timeout: 10 * time.Second}
	}
	o := clientOptions{
		logger: slog.Default(),
		settings: gobreaker.Settings{
			MaxRequests: 1,
			Interval:    time.Minute,
			Timeout:     30 * time.Second,
			ReadyToTrip: func(counts gobreaker.Counts) bool {
				return counts.ConsecutiveFailures >= 5
			},
		},
	}
	for _, opt := range opts {
		opt(&o)
	}
	c := &Client{
		baseURL:    baseURL,
		serverKey:  cfg.ServerKey,
		httpClient: httpClient,
		logger:     o.logger,
	}
	settings := o.settings
	settings.Name = "midtrans-snap"
	settings.IsSuccessful = breakerSuccess
	settings.OnStateChange = func(name string, from, to gobreaker.State) {
		c.logger.Warn("circuit breaker state changed",
			slog.String("breaker", name),
			slog.String("from", from.String()),
			slog.String("to", to.String()),
		)
	}
	c.breaker = gobreaker.NewCircuitBreaker[*ports.SnapResponse](settings)
	return c, nil
}

// CreateTransaction opens a Snap transaction and returns its token.
func (c *Client) CreateTransaction(ctx context.Context, req ports.SnapRequest) (*ports.SnapResponse, error) {
	if c == nil || c.httpClient == nil {
		return nil, errors.New("midtrans client not configured")
	}
	resp, err := c.breaker.Execute(func() (*ports.SnapResponse, error) {
		return c.post(ctx, req)
	})
	if errors.Is(err, gobreaker.ErrOpenState) || errors.Is(err, gobreaker.ErrTooManyRequests) {
		return nil, fmt.Errorf("%w: %w", ports.ErrGatewayUnavailable, err)
	}
	return resp, err
}

func (c *Client) post(ctx context.Context, payload ports.SnapRequest) (*ports.SnapResponse, error) {
	body, err := json.Marshal(toSnapRequest(payload))
	if err != nil {
		return nil, fmt.Errorf("encode snap payload: %w", err)
	}
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+snapTransactionsPath, bytes.NewReader(body))
	if err != nil {
		return nil, err
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Accept", "application/json")
	req.Header.Set("Authorization", BasicAuth(c.serverKey))

	res, err := c.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("call midtrans snap: %w", err)
	}
	defer res.Body.Close()
	raw, err := io.ReadAll(io.LimitReader(res.Body, 1<<20))
	if err != nil {
		return nil, fmt.Errorf("read midtrans snap response: %w", err)
	}
	if res.StatusCode < 200 || res.StatusCode >= 300 {
		apiErr := &APIError{StatusCode: res.StatusCode}
		var failure snap.Response
		if json.Unmarshal(raw, &failure) == nil {
			apiErr.Messages = failure.ErrorMessages
		}
		return nil, apiErr
	}
	var out snap.Response
	if err := json.Unmarshal(raw, &out); err != nil {
		return nil, fmt.Errorf("decode midtrans snap response: %w", err)
	}
	return &ports.SnapResponse{Token: out.Token, RedirectURL: out.RedirectURL}, nil
}

// toSnapRequest maps the payment payload onto the Snap SDK request body.
func toSnapRequest(req ports.SnapRequest) *snap.Request {
	items := make([]midtransgo.ItemDetails, 0, len(req.ItemDetails))
	for _, item := range req.ItemDetails {
		items = append(items, midtransgo.ItemDetails{
			ID:    item.ID,
			Name:  item.Name,
			Price: item.Price,
			Qty:   int32(item.Quantity),
		})
	}
	out := &snap.Request{
		TransactionDetails: midtransgo.TransactionDetails{
			OrderID:  req.TransactionDetails.OrderID,
			GrossAmt: req.TransactionDetails.GrossAmount,
		},
		CustomerDetail: &midtransgo.CustomerDetails{
			FName: req.CustomerDetails.FirstName,
			Email: req.CustomerDetails.Email,
			Phone: req.CustomerDetails.Phone,
		},
		Items:      &items,
		CreditCard: &snap.CreditCardDetails{Secure: req.CreditCard.Secure},
	}
	if req.Callbacks.Finish != "" {
		out.Callbacks = &snap.Callbacks{Finish: req.Callbacks.Finish}
	}
	return out
}

// BasicAuth renders the server key as a Basic credential with an empty password.
func BasicAuth(serverKey string) string {
	return "Basic " + base64.StdEncoding.EncodeToString([]byte(serverKey+":"))
}

// breakerSuccess keeps client-side rejections from tripping the breaker.
func breakerSuccess(err error) bool {
	if err == nil {
		return true
	}
	var apiErr *APIError
	return errors.As(err, &apiErr) && apiErr.StatusCode < http.StatusInternalServerError
}

var _ ports.SnapGateway = (*Client)(nil)
