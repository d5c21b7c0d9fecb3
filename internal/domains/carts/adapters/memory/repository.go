package memory

import (
	"context"
	"errors"
	"sort"
	"sync"
	"time"

	"github.com/finprodb/shop-api/internal/domains/carts/domain"
	"github.com/finprodb/shop-api/internal/domains/carts/ports"
)

var _ ports.Repository = (*Repository)(nil)

// Repository is an in-memory cart store.
type Repository struct {
	mu     sync.RWMutex
	items  map[int64]*domain.CartItem
	nextID int64
}

func NewRepository() *Repository {
	return &Repository{items: map[int64]*domain.CartItem{}}
}

func (r *Repository) Save(_ context.Context, item *domain.CartItem) (*domain.CartItem, error) {
	if item == nil {
		return nil, errors.New("cart item is nil")
	}
	clone := *item
	r.mu.Lock()
	defer r.mu.Unlock()
	now := time.Now().UTC()
	if clone.ID == 0 {
		for _, existing := range r.items {
			if existing.UserID == clone.UserID && existing.ProductID == clone.ProductID {
				return nil, errors.New("cart line already exists for product")
			}
		}
		r.nextID++
		clone.ID = r.nextID
		clone.CreatedAt = now
	} else if existing, ok := r.items[clone.ID]; ok {
		clone.CreatedAt = existing.CreatedAt
	} else {
		return nil, ports.ErrNotFound
	}
	clone.UpdatedAt = now
	r.items[clone.ID] = &clone
	out := clone
	return &out, nil
}

func (r *Repository) Get(_ context.Context, id int64) (*domain.CartItem, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	item, ok := r.items[id]
	if !ok {
		return nil, ports.ErrNotFound
	}
	clone := *item
	return &clone, nil
}

func (r *Repository) FindByUserAndProduct(_ context.Context, userID, productID int64) (*domain.CartItem, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	for _, item := range r.items {
		if item.UserID == userID && item.ProductID == productID {
			clone := *item
			return &clone, nil
		}
	}
	return nil, ports.ErrNotFound
}

func (r *Repository) ListByUser(_ context.Context, userID int64) ([]*domain.CartItem, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	out := make([]*domain.CartItem, 0)
	for _, item := range r.items {
		if item.UserID == userID {
			clone := *item
			out = append(out, &clone)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	return out, nil
}

func (r *Repository) Delete(_ context.Context, id int64) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if _, ok := r.items[id]; !ok {
		return ports.ErrNotFound
	}
	delete(r.items, id)
	return nil
}

func (r *Repository) DeleteByUser(_ context.Context, userID int64) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	for id, item := range r.items {
		if item.UserID == userID {
			delete(r.items, id)
		}
	}
	return nil
}
