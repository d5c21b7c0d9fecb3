package ports

import (
	"errors"
	"time"

	"github.com/finprodb/shop-api/internal/domains/users/domain"
)

var ErrInvalidToken = errors.New("invalid or expired token")

// PasswordHasher hashes and verifies account passwords.
type PasswordHasher interface {
	Hash(password string) (string, error)
	Matches(hash, password string) bool
}

// Claims are the identity facts carried by an access token.
type Claims struct {
	Subject   string
	UserID    int64
	Role      domain.Role
	ExpiresAt time.Time
}

// TokenIssuer signs and verifies access tokens.
type TokenIssuer interface {
	Issue(user *domain.User) (string, error)
	Parse(token string) (*Claims, error)
}
