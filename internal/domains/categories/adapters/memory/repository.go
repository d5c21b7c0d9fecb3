package memory

import (
	"context"
	"errors"
	"sort"
	"sync"
	"time"

	"github.com/finprodb/shop-api/internal/domains/categories/domain"
	"github.com/finprodb/shop-api/internal/domains/categories/ports"
	"github.com/finprodb/shop-api/internal/shared/pagination"
)

var _ ports.Repository = (*Repository)(nil)

// Repository is an in-memory category store.
type Repository struct {
	mu         sync.RWMutex
	categories map[int64]*domain.Category
	nextID     int64
}

func NewRepository() *Repository {
	return &Repository{categories: map[int64]*domain.Category{}}
}

func (r *Repository) Save(_ context.Context, category *domain.Category) (*domain.Category, error) {
	if category == nil {
		return nil, errors.New("category is nil")
	}
	clone := *category
	r.mu.Lock()
	defer r.mu.Unlock()
	now := time.Now().UTC()
	if clone.ID == 0 {
		r.nextID++
		clone.ID = r.nextID
		clone.CreatedAt = now
	} else if existing, ok := r.categories[clone.ID]; ok {
		clone.CreatedAt = existing.CreatedAt
	} else {
		return nil, ports.ErrNotFound
	}
	clone.UpdatedAt = now
	r.categories[clone.ID] = &clone
	out := clone
	return &out, nil
}

func (r *Repository) GetActive(_ context.Context, id int64) (*domain.Category, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	category, ok := r.categories[id]
	if !ok || category.Deleted {
		return nil, ports.ErrNotFound
	}
	clone := *category
	return &clone, nil
}

func (r *Repository) ListActive(_ context.Context, page pagination.Request, newestFirst bool) ([]*domain.Category, int64, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	active := make([]*domain.Category, 0, len(r.categories))
	for _, category := range r.categories {
		if category.Deleted {
			continue
		}
		clone := *category
		active = append(active, &clone)
	}
	sort.Slice(active, func(i, j int) bool {
		if newestFirst {
			return active[i].ID > active[j].ID
		}
		return active[i].ID < active[j].ID
	})
	start, end := page.Window(len(active))
	return active[start:end], int64(len(active)), nil
}
