package ports

import (
	"context"

	"github.com/finprodb/shop-api/internal/domains/users/domain"
	"github.com/finprodb/shop-api/internal/shared/pagination"
)

// RegisterInput carries a self-service sign-up.
type RegisterInput struct {
	Name     string
	Username string
	Email    string
	Password string
}

// AuthResult is returned by register and login.
type AuthResult struct {
	Token     string
	TokenType string
	User      *domain.User
}

// ProfileUpdate holds optional profile changes; nil or blank fields are ignored.
type ProfileUpdate struct {
	Name     *string
	Username *string
	Email    *string
}

// BootstrapAdmin describes the admin account created at startup.
type BootstrapAdmin struct {
	Enabled  bool
	Username string
	Email    string
	Name     string
	Password string
}

// Service exposes account use cases to adapters.
type Service interface {
	Register(ctx context.Context, input RegisterInput) (*AuthResult, error)
	Login(ctx context.Context, identifier, password string) (*AuthResult, error)
	Authenticate(ctx context.Context, token string) (*domain.User, error)
	Me(ctx context.Context, userID int64) (*domain.User, error)
	UpdateMe(ctx context.Context, userID int64, update *ProfileUpdate) (*domain.User, error)
	GetByID(ctx context.Context, userID int64) (*domain.User, error)
	ListUsers(ctx context.Context, page pagination.Request) (pagination.Page[*domain.User], error)
	CountByRole(ctx context.Context, role domain.Role) (int64, error)
	EnsureAdmin(ctx context.Context, cfg BootstrapAdmin) (bool, error)
}
