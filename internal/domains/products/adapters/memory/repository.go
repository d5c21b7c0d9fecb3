package memory

import (
	"context"
	"errors"
	"sort"
	"strings"
	"sync"
	"time"

	"github.com/finprodb/shop-api/internal/domains/products/domain"
	"github.com/finprodb/shop-api/internal/domains/products/ports"
	"github.com/finprodb/shop-api/internal/shared/pagination"
)

var _ ports.Repository = (*Repository)(nil)

// Repository is an in-memory product store.
type Repository struct {
	mu       sync.RWMutex
	products map[int64]*domain.Product
	nextID   int64
}

func NewRepository() *Repository {
	return &Repository{products: map[int64]*domain.Product{}}
}

func (r *Repository) Save(_ context.Context, product *domain.Product) (*domain.Product, error) {
	if product == nil {
		return nil, errors.New("product is nil")
	}
	clone := cloneProduct(product)
	r.mu.Lock()
	defer r.mu.Unlock()
	now := time.Now().UTC()
	if clone.ID == 0 {
		r.nextID++
		clone.ID = r.nextID
		clone.CreatedAt = now
	} else if existing, ok := r.products[clone.ID]; ok {
		clone.CreatedAt = existing.CreatedAt
	} else {
		return nil, ports.ErrNotFound
	}
	clone.UpdatedAt = now
	r.products[clone.ID] = clone
	return cloneProduct(clone), nil
}

func (r *Repository) Get(_ context.Context, id int64) (*domain.Product, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	product, ok := r.products[id]
	if !ok {
		return nil, ports.ErrNotFound
	}
	return cloneProduct(product), nil
}

func (r *Repository) GetActive(_ context.Context, id int64) (*domain.Product, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	product, ok := r.products[id]
	if !ok || product.IsDeleted() {
		return nil, ports.ErrNotFound
	}
	return cloneProduct(product), nil
}

func (r *Repository) ListPublic(_ context.Context, filter ports.ListFilter) ([]*domain.Product, int64, error) {
	query := strings.ToLower(filter.Query)
	return r.list(filter.Page, func(p *domain.Product) bool {
		if !p.IsPurchasable() {
			return false
		}
		if filter.CategoryID != nil && (p.CategoryID == nil || *p.CategoryID != *filter.CategoryID) {
			return false
		}
		return query == "" || strings.Contains(strings.ToLower(p.Name), query)
	})
}

func (r *Repository) ListAdmin(_ context.Context, page pagination.Request) ([]*domain.Product, int64, error) {
	return r.list(page, func(p *domain.Product) bool { return !p.IsDeleted() })
}

func (r *Repository) DecrementStock(_ context.Context, id int64, qty int) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	product, ok := r.products[id]
	if !ok {
		return ports.ErrNotFound
	}
	if err := product.DecrementStock(qty); err != nil {
		return err
	}
	product.UpdatedAt = time.Now().UTC()
	return nil
}

func (r *Repository) list(page pagination.Request, keep func(*domain.Product) bool) ([]*domain.Product, int64, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	matched := make([]*domain.Product, 0, len(r.products))
	for _, product := range r.products {
		if keep(product) {
			matched = append(matched, cloneProduct(product))
		}
	}
	// ids grow with creation time
	sort.Slice(matched, func(i, j int) bool { return matched[i].ID > matched[j].ID })
	start, end := page.Window(len(matched))
	return matched[start:end], int64(len(matched)), nil
}

func cloneProduct(p *domain.Product) *domain.Product {
	clone := *p
	if p.CategoryID != nil {
		id := *p.CategoryID
		clone.CategoryID = &id
	}
	if p.DeletedAt != nil {
		at := *p.DeletedAt
		clone.DeletedAt = &at
	}
	return &clone
}
