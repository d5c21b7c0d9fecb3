package memory

import (
	"context"
	"errors"
	"sync"
	"time"

	"github.com/finprodb/shop-api/internal/domains/payments/domain"
	"github.com/finprodb/shop-api/internal/domains/payments/ports"
)

var _ ports.Repository = (*Repository)(nil)

// Repository keeps payment transactions in memory.
type Repository struct {
	mu     sync.RWMutex
	txs    map[int64]*domain.Transaction
	nextID int64
}

func NewRepository() *Repository {
	return &Repository{txs: map[int64]*domain.Transaction{}}
}

func (r *Repository) Create(_ context.Context, tx *domain.Transaction) (*domain.Transaction, error) {
	if tx == nil {
		return nil, errors.New("payment transaction is nil")
	}
	clone := cloneTx(tx)
	r.mu.Lock()
	defer r.mu.Unlock()
	now := time.Now().UTC()
	r.nextID++
	clone.ID = r.nextID
	if clone.CreatedAt.IsZero() {
		clone.CreatedAt = now
	}
	clone.UpdatedAt = now
	r.txs[clone.ID] = clone
	return cloneTx(clone), nil
}

func (r *Repository) Save(_ context.Context, tx *domain.Transaction) (*domain.Transaction, error) {
	if tx == nil {
		return nil, errors.New("payment transaction is nil")
	}
	r.mu.Lock()
	defer r.mu.Unlock()
	existing, ok := r.txs[tx.ID]
	if !ok {
		return nil, ports.ErrNotFound
	}
	clone := cloneTx(tx)
	clone.OrderID = existing.OrderID
	clone.CreatedAt = existing.CreatedAt
	clone.UpdatedAt = time.Now().UTC()
	r.txs[clone.ID] = clone
	return cloneTx(clone), nil
}

func (r *Repository) Latest(_ context.Context, orderID int64) (*domain.Transaction, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	var latest *domain.Transaction
	for _, tx := range r.txs {
		if tx.OrderID != orderID {
			continue
		}
		if latest == nil || tx.CreatedAt.After(latest.CreatedAt) ||
			(tx.CreatedAt.Equal(latest.CreatedAt) && tx.ID > latest.ID) {
			latest = tx
		}
	}
	if latest == nil {
		return nil, ports.ErrNotFound
	}
	return cloneTx(latest), nil
}

func cloneTx(tx *domain.Transaction) *domain.Transaction {
	clone := *tx
	clone.StatusHistory = append([]string(nil), tx.StatusHistory...)
	return &clone
}
