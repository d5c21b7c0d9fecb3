package memory

import (
	"context"
	"errors"
	"sort"
	"sync"
	"time"

	"github.com/shopspring/decimal"

	"github.com/finprodb/shop-api/internal/domains/orders/domain"
	"github.com/finprodb/shop-api/internal/domains/orders/ports"
	"github.com/finprodb/shop-api/internal/shared/pagination"
)

var _ ports.Repository = (*Repository)(nil)

// Repository is an in-memory order store.
type Repository struct {
	mu         sync.RWMutex
	orders     map[int64]*domain.Order
	nextID     int64
	nextItemID int64
}

func NewRepository() *Repository {
	return &Repository{orders: map[int64]*domain.Order{}}
}

func (r *Repository) Create(_ context.Context, order *domain.Order) (*domain.Order, error) {
	if order == nil {
		return nil, errors.New("order is nil")
	}
	clone := cloneOrder(order, true)
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, existing := range r.orders {
		if existing.Code == clone.Code {
			return nil, errors.New("order code already exists")
		}
		if clone.CheckoutKey != "" && existing.CheckoutKey == clone.CheckoutKey {
			return nil, errors.New("checkout key already used")
		}
	}
	now := time.Now().UTC()
	r.nextID++
	clone.ID = r.nextID
	if clone.CreatedAt.IsZero() {
		clone.CreatedAt = now
	}
	clone.UpdatedAt = now
	for i := range clone.Items {
		r.nextItemID++
		clone.Items[i].ID = r.nextItemID
		clone.Items[i].OrderID = clone.ID
	}
	r.orders[clone.ID] = clone
	return cloneOrder(clone, true), nil
}

func (r *Repository) Save(_ context.Context, order *domain.Order) (*domain.Order, error) {
	if order == nil {
		return nil, errors.New("order is nil")
	}
	r.mu.Lock()
	defer r.mu.Unlock()
	existing, ok := r.orders[order.ID]
	if !ok {
		return nil, ports.ErrNotFound
	}
	updated := cloneOrder(order, false)
	updated.Items = existing.Items
	updated.Code = existing.Code
	updated.UserID = existing.UserID
	updated.CheckoutKey = existing.CheckoutKey
	updated.CreatedAt = existing.CreatedAt
	updated.UpdatedAt = time.Now().UTC()
	r.orders[order.ID] = updated
	return cloneOrder(updated, true), nil
}

func (r *Repository) Get(_ context.Context, id int64) (*domain.Order, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	order, ok := r.orders[id]
	if !ok {
		return nil, ports.ErrNotFound
	}
	return cloneOrder(order, true), nil
}

func (r *Repository) GetByCode(_ context.Context, code string) (*domain.Order, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	for _, order := range r.orders {
		if order.Code == code {
			return cloneOrder(order, true), nil
		}
	}
	return nil, ports.ErrNotFound
}

func (r *Repository) GetByCheckoutKey(_ context.Context, key string) (*domain.Order, error) {
	if key == "" {
		return nil, ports.ErrNotFound
	}
	r.mu.RLock()
	defer r.mu.RUnlock()
	for _, order := range r.orders {
		if order.CheckoutKey == key {
			return cloneOrder(order, true), nil
		}
	}
	return nil, ports.ErrNotFound
}

func (r *Repository) ListByUser(_ context.Context, userID int64) ([]*domain.Order, error) {
	return r.filter(func(o *domain.Order) bool { return o.UserID == userID }, true), nil
}

func (r *Repository) List(_ context.Context, status *domain.Status, page pagination.Request) ([]*domain.Order, int64, error) {
	matched := r.filter(func(o *domain.Order) bool { return status == nil || o.Status == *status }, false)
	start, end := page.Window(len(matched))
	return matched[start:end], int64(len(matched)), nil
}

func (r *Repository) Count(_ context.Context, status *domain.Status) (int64, error) {
	return int64(len(r.filter(func(o *domain.Order) bool { return status == nil || o.Status == *status }, false))), nil
}

func (r *Repository) SumTotal(_ context.Context, status domain.Status) (decimal.Decimal, error) {
	total := decimal.Zero
	for _, o := range r.filter(func(o *domain.Order) bool { return o.Status == status }, false) {
		total = total.Add(o.TotalAmount)
	}
	return total, nil
}

func (r *Repository) ListPendingBefore(_ context.Context, cutoff time.Time) ([]*domain.Order, error) {
	return r.filter(func(o *domain.Order) bool {
		return o.Status == domain.StatusPendingPayment && o.CreatedAt.Before(cutoff)
	}, true), nil
}

// filter returns matches newest first.
func (r *Repository) filter(keep func(*domain.Order) bool, withItems bool) []*domain.Order {
	r.mu.RLock()
	defer r.mu.RUnlock()
	out := make([]*domain.Order, 0)
	for _, order := range r.orders {
		if keep(order) {
			out = append(out, cloneOrder(order, withItems))
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID > out[j].ID })
	return out
}

func cloneOrder(o *domain.Order, withItems bool) *domain.Order {
	clone := &domain.Order{
		ID:              o.ID,
		UserID:          o.UserID,
		Code:            o.Code,
		Status:          o.Status,
		Approval:        o.Approval,
		CheckoutKey:     o.CheckoutKey,
		ApprovedAt:      cloneTime(o.ApprovedAt),
		RejectedAt:      cloneTime(o.RejectedAt),
		TotalAmount:     o.TotalAmount,
		ShippingAddress: o.ShippingAddress,
		ShippingPhone:   o.ShippingPhone,
		CourierPhone:    o.CourierPhone,
		CourierPlate:    o.CourierPlate,
		CreatedAt:       o.CreatedAt,
		UpdatedAt:       o.UpdatedAt,
	}
	if o.ApprovedBy != nil {
		id := *o.ApprovedBy
		clone.ApprovedBy = &id
	}
	if withItems {
		clone.Items = append([]domain.Item(nil), o.Items...)
	}
	return clone
}

func cloneTime(t *time.Time) *time.Time {
	if t == nil {
		return nil
	}
	v := *t
	return &v
}
