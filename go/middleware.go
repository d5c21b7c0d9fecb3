package shopserver

import (
	"context"
	"errors"
	"log/slog"
	"slices"
	"strings"
	"sync"
	"time"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/hashicorp/golang-lru/v2/expirable"
	"golang.org/x/time/rate"

	userdomain "github.com/finprodb/shop-api/internal/domains/users/domain"
	apierrors "github.com/finprodb/shop-api/internal/shared/errors"
)

const (
	// RequestIDHeader carries the correlation id in and out.
	RequestIDHeader = "X-Request-ID"

	requestIDKey = "requestId"
	principalKey = "principal"
)

// Principal is the authenticated caller placed on the gin context.
type Principal struct {
	UserID   int64
	Username string
	Role     userdomain.Role
}

// IsAdmin reports whether the caller holds the ADMIN role.
func (p Principal) IsAdmin() bool { return p.Role == userdomain.RoleAdmin }

// TokenAuthenticator resolves bearer tokens to accounts.
type TokenAuthenticator interface {
	Authenticate(ctx context.Context, token string) (*userdomain.User, error)
}

// Guard authenticates bearer tokens against the account service.
type Guard struct {
	users  TokenAuthenticator
	logger *slog.Logger
}

// NewGuard wires the token guard.
func NewGuard(users TokenAuthenticator, logger *slog.Logger) *Guard {
	if logger == nil {
		logger = slog.Default()
	}
	return &Guard{users: users, logger: logger}
}

// RequireUser rejects requests without a valid bearer token.
func (g *Guard) RequireUser(c *gin.Context) {
	if g == nil || g.users == nil {
		respondProblem(c, apierrors.ErrUnauthorized)
		return
	}
	token, ok := bearerToken(c.GetHeader("Authorization"))
	if !ok {
		respondProblem(c, apierrors.ErrUnauthorized)
		return
	}
	user, err := g.users.Authenticate(c.Request.Context(), token)
	if err != nil {
		if !isAuthFailure(err) {
			g.logger.WarnContext(c.Request.Context(), "token authentication failed", slog.String("error", err.Error()))
		}
		respondProblem(c, apierrors.ErrUnauthorized)
		return
	}
	c.Set(principalKey, Principal{UserID: user.ID, Username: user.Username, Role: user.Role})
	c.Next()
}

// RequireAdmin must run after RequireUser.
func RequireAdmin(c *gin.Context) {
	principal, ok := currentPrincipal(c)
	if !ok {
		respondProblem(c, apierrors.ErrUnauthorized)
		return
	}
	if !principal.IsAdmin() {
		respondProblem(c, apierrors.ErrForbidden)
		return
	}
	c.Next()
}

func currentPrincipal(c *gin.Context) (Principal, bool) {
	value, ok := c.Get(principalKey)
	if !ok {
		return Principal{}, false
	}
	principal, ok := value.(Principal)
	return principal, ok
}

// requirePrincipal writes a 401 when the route was mounted without a guard.
func requirePrincipal(c *gin.Context) (Principal, bool) {
	principal, ok := currentPrincipal(c)
	if !ok {
		respondProblem(c, apierrors.ErrUnauthorized)
	}
	return principal, ok
}

func bearerToken(header string) (string, bool) {
	const prefix = "Bearer "
	if len(header) <= len(prefix) || !strings.EqualFold(header[:len(prefix)], prefix) {
		return "", false
	}
	token := strings.TrimSpace(header[len(prefix):])
	return token, token != ""
}

func isAuthFailure(err error) bool {
	return errors.Is(err, errAuthentication)
}

// RequestID propagates or mints the X-Request-ID header.
func RequestID() gin.HandlerFunc {
	return func(c *gin.Context) {
		requestID := c.GetHeader(RequestIDHeader)
		if requestID == "" {
			requestID = uuid.NewString()
		}
		c.Set(requestIDKey, requestID)
		c.Header(RequestIDHeader, requestID)
		c.Next()
	}
}

// CORSConfig lists what browsers may send cross-origin.
type CORSConfig struct {
	AllowOrigins     []string
	AllowMethods     []string
	AllowHeaders     []string
	ExposeHeaders    []string
	AllowCredentials bool
	MaxAge           time.Duration
}

// DefaultCORSConfig allows the storefront dev server.
func DefaultCORSConfig() CORSConfig {
	return CORSConfig{
		AllowOrigins:     []string{"http://localhost:3000"},
		AllowMethods:     []string{"GET", "POST", "PUT", "PATCH", "DELETE", "OPTIONS"},
		AllowHeaders:     []string{"Authorization", "Content-Type", RequestIDHeader},
		ExposeHeaders:    []string{RequestIDHeader},
		AllowCredentials: true,
		MaxAge:           time.Hour,
	}
}

// CORS answers preflights before the guards run. A "*" origin allows any
// origin.
func CORS(cfg CORSConfig) gin.HandlerFunc {
	corsCfg := cors.Config{
		AllowMethods:     cfg.AllowMethods,
		AllowHeaders:     cfg.AllowHeaders,
		ExposeHeaders:    cfg.ExposeHeaders,
		AllowCredentials: cfg.AllowCredentials,
		MaxAge:           cfg.MaxAge,
	}
	if slices.Contains(cfg.AllowOrigins, "*") {
		corsCfg.AllowOriginFunc = func(string) bool { return true }
	} else {
		corsCfg.AllowOrigins = cfg.AllowOrigins
	}
	return cors.New(corsCfg)
}

const (
	defaultMaxClients = 10000
	defaultClientTTL  = 10 * time.Minute
)

// RateLimiter hands out one token bucket per client IP. Buckets of clients
// idle longer than the TTL are dropped, and at most maxClients are kept.
type RateLimiter struct {
	mu      sync.Mutex
	clients *expirable.LRU[string, *rate.Limiter]
	rate    rate.Limit
	burst   int
}

// NewRateLimiter creates a limiter refilling perSecond tokens up to burst.
// Non-positive maxClients or ttl fall back to 10000 clients and 10 minutes.
func NewRateLimiter(perSecond float64, burst, maxClients int, ttl time.Duration) *RateLimiter {
	if maxClients <= 0 {
		maxClients = defaultMaxClients
	}
	if ttl <= 0 {
		ttl = defaultClientTTL
	}
	return &RateLimiter{
		clients: expirable.NewLRU[string, *rate.Limiter](maxClients, nil, ttl),
		rate:    rate.Limit(perSecond),
		burst:   burst,
	}
}

func (rl *RateLimiter) limiter(ip string) *rate.Limiter {
	rl.mu.Lock()
	defer rl.mu.Unlock()
	if limiter, ok := rl.clients.Get(ip); ok {
		return limiter
	}
	limiter := rate.NewLimiter(rl.rate, rl.burst)
	rl.clients.Add(ip, limiter)
	return limiter
}

// Tracked reports how many client buckets are held.
func (rl *RateLimiter) Tracked() int {
	return rl.clients.Len()
}

// Middleware rejects callers that exhausted their bucket with 429.
func (rl *RateLimiter) Middleware(logger *slog.Logger) gin.HandlerFunc {
	if logger == nil {
		logger = slog.Default()
	}
	return func(c *gin.Context) {
		ip := c.ClientIP()
		if !rl.limiter(ip).Allow() {
			requestID, _ := c.Get(requestIDKey)
			logger.WarnContext(c.Request.Context(), "rate limit exceeded",
				slog.Any("requestId", requestID),
				slog.String("clientIp", ip),
				slog.String("path", c.Request.URL.Path))
			respondProblem(c, apierrors.ErrTooManyRequests.WithDetail("Too many requests, please try again later"))
			return
		}
		c.Next()
	}
}
