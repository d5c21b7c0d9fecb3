package memory

import (
	"context"
	"errors"
	"sort"
	"sync"
	"time"

	"github.com/finprodb/shop-api/internal/domains/addresses/domain"
	"github.com/finprodb/shop-api/internal/domains/addresses/ports"
)

var _ ports.Repository = (*Repository)(nil)

// Repository is an in-memory address store.
type Repository struct {
	mu        sync.RWMutex
	addresses map[int64]*domain.Address
	nextID    int64
}

func NewRepository() *Repository {
	return &Repository{addresses: map[int64]*domain.Address{}}
}

func (r *Repository) Save(_ context.Context, address *domain.Address) (*domain.Address, error) {
	if address == nil {
		return nil, errors.New("address is nil")
	}
	clone := *address
	r.mu.Lock()
	defer r.mu.Unlock()
	now := time.Now().UTC()
	if clone.ID == 0 {
		r.nextID++
		clone.ID = r.nextID
		clone.CreatedAt = now
	} else if existing, ok := r.addresses[clone.ID]; ok && existing.UserID == clone.UserID {
		clone.CreatedAt = existing.CreatedAt
	} else {
		return nil, ports.ErrNotFound
	}
	clone.UpdatedAt = now
	r.addresses[clone.ID] = &clone
	out := clone
	return &out, nil
}

func (r *Repository) GetOwned(_ context.Context, userID, id int64) (*domain.Address, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	address, ok := r.addresses[id]
	if !ok || address.UserID != userID {
		return nil, ports.ErrNotFound
	}
	clone := *address
	return &clone, nil
}

func (r *Repository) ListByUser(_ context.Context, userID int64) ([]*domain.Address, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	out := make([]*domain.Address, 0)
	for _, address := range r.addresses {
		if address.UserID == userID {
			clone := *address
			out = append(out, &clone)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID > out[j].ID })
	return out, nil
}

func (r *Repository) CountByUser(_ context.Context, userID int64) (int64, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	var count int64
	for _, address := range r.addresses {
		if address.UserID == userID {
			count++
		}
	}
	return count, nil
}

func (r *Repository) Delete(_ context.Context, userID, id int64) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	address, ok := r.addresses[id]
	if !ok || address.UserID != userID {
		return ports.ErrNotFound
	}
	delete(r.addresses, id)
	return nil
}

func (r *Repository) MarkDefault(_ context.Context, userID, id int64) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	target, ok := r.addresses[id]
	if !ok || target.UserID != userID {
		return ports.ErrNotFound
	}
	now := time.Now().UTC()
	for _, address := range r.addresses {
		if address.UserID != userID {
			continue
		}
		isDefault := address.ID == id
		if address.IsDefault != isDefault {
			address.IsDefault = isDefault
			address.UpdatedAt = now
		}
	}
	return nil
}
