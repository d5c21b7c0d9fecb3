package ports

import (
	"context"
	"errors"

	"github.com/finprodb/shop-api/internal/domains/users/domain"
	"github.com/finprodb/shop-api/internal/shared/pagination"
)

var ErrNotFound = errors.New("user not found")

// Repository persists accounts. Username and email are unique.
type Repository interface {
	Create(ctx context.Context, user *domain.User) (*domain.User, error)
	Update(ctx context.Context, user *domain.User) (*domain.User, error)
	GetByID(ctx context.Context, id int64) (*domain.User, error)
	GetByUsername(ctx context.Context, username string) (*domain.User, error)
	// GetByLogin matches the identifier against username first, then email.
	GetByLogin(ctx context.Context, identifier string) (*domain.User, error)
	ExistsByUsername(ctx context.Context, username string) (bool, error)
	ExistsByEmail(ctx context.Context, email string) (bool, error)
	List(ctx context.Context, page pagination.Request) ([]*domain.User, int64, error)
	CountByRole(ctx context.Context, role domain.Role) (int64, error)
}
