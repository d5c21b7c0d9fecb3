package ports

import (
	"context"
	"errors"

	"github.com/finprodb/shop-api/internal/domains/addresses/domain"
)

var ErrNotFound = errors.New("Address not found")

// Repository persists address books.
type Repository interface {
	Save(ctx context.Context, address *domain.Address) (*domain.Address, error)
	// GetOwned returns ErrNotFound when the address belongs to another user.
	GetOwned(ctx context.Context, userID, id int64) (*domain.Address, error)
	// ListByUser orders by creation time, newest first.
	ListByUser(ctx context.Context, userID int64) ([]*domain.Address, error)
	CountByUser(ctx context.Context, userID int64) (int64, error)
	Delete(ctx context.Context, userID, id int64) error
	// MarkDefault sets the flag on id and clears it on every other address of the user.
	MarkDefault(ctx context.Context, userID, id int64) error
}
