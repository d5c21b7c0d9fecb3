package postgres

import (
	"context"
	"errors"
	"time"

	"github.com/lib/pq"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"

	"github.com/finprodb/shop-api/internal/domains/payments/domain"
	"github.com/finprodb/shop-api/internal/domains/payments/ports"
)

var _ ports.Repository = (*Repository)(nil)

// Repository persists payment transactions in PostgreSQL using GORM.
type Repository struct {
	db *gorm.DB
}

func NewRepository(db *gorm.DB) *Repository {
	return &Repository{db: db}
}

type transactionRecord struct {
	ID                   int64           `gorm:"primaryKey;column:id"`
	OrderID              int64           `gorm:"column:order_id;not null;index:idx_payment_tx_order_created,priority:1"`
	Provider             string          `gorm:"column:provider;type:varchar(32);not null"`
	Status               string          `gorm:"column:status;type:varchar(32);not null"`
	GrossAmount          decimal.Decimal `gorm:"column:gross_amount;type:numeric(19,2);not null"`
	SnapToken            *string         `gorm:"column:snap_token"`
	RedirectURL          *string         `gorm:"column:redirect_url"`
	LastNotificationJSON *string         `gorm:"column:last_notification_json;type:text"`
	StatusHistory        pq.StringArray  `gorm:"column:status_history;type:text[]"`
	CreatedAt            time.Time       `gorm:"column:created_at;not null;index:idx_payment_tx_order_created,priority:2"`
	UpdatedAt            time.Time       `gorm:"column:updated_at;not null"`
}

func (transactionRecord) TableName() string { return "payment_transactions" }

func (r *Repository) Create(ctx context.Context, tx *domain.Transaction) (*domain.Transaction, error) {
	if err := r.ensureDB(); err != nil {
		return nil, err
	}
	if tx == nil {
		return nil, errors.New("payment transaction is nil")
	}
	record := toRecord(tx)
	record.ID = 0
	if err := r.db.WithContext(ctx).Create(&record).Error; err != nil {
		return nil, err
	}
	return record.toDomain(), nil
}

func (r *Repository) Save(ctx context.Context, tx *domain.Transaction) (*domain.Transaction, error) {
	if err := r.ensureDB(); err != nil {
		return nil, err
	}
	if tx == nil {
		return nil, errors.New("payment transaction is nil")
	}
	record := toRecord(tx)
	result := r.db.WithContext(ctx).Model(&transactionRecord{}).Where("id = ?", record.ID).Updates(map[string]any{
		"status":                 record.Status,
		"gross_amount":           record.GrossAmount,
		"snap_token":             record.SnapToken,
		"redirect_url":           record.RedirectURL,
		"last_notification_json": record.LastNotificationJSON,
		"status_history":         record.StatusHistory,
		"updated_at":             time.Now().UTC(),
	})
	if result.Error != nil {
		return nil, result.Error
	}
	if result.RowsAffected == 0 {
		return nil, ports.ErrNotFound
	}
	var saved transactionRecord
	if err := r.db.WithContext(ctx).First(&saved, "id = ?", record.ID).Error; err != nil {
		return nil, err
	}
	return saved.toDomain(), nil
}

func (r *Repository) Latest(ctx context.Context, orderID int64) (*domain.Transaction, error) {
	if err := r.ensureDB(); err != nil {
		return nil, err
	}
	var record transactionRecord
	err := r.db.WithContext(ctx).
		Where("order_id = ?", orderID).
		Order("created_at DESC").Order("id DESC").
		First(&record).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ports.ErrNotFound
		}
		return nil, err
	}
	return record.toDomain(), nil
}

func (r *Repository) ensureDB() error {
	if r == nil || r.db == nil {
		return errors.New("postgres payment repository not configured")
	}
	return nil
}

func toRecord(tx *domain.Transaction) transactionRecord {
	return transactionRecord{
		ID:                   tx.ID,
		OrderID:              tx.OrderID,
		Provider:             string(tx.Provider),
		Status:               string(tx.Status),
		GrossAmount:          tx.GrossAmount,
		SnapToken:            optional(tx.SnapToken),
		RedirectURL:          optional(tx.RedirectURL),
		LastNotificationJSON: optional(tx.LastNotificationJSON),
		StatusHistory:        pq.StringArray(tx.StatusHistory),
		CreatedAt:            tx.CreatedAt,
	}
}

func (r transactionRecord) toDomain() *domain.Transaction {
	return &domain.Transaction{
		ID:                   r.ID,
		OrderID:              r.OrderID,
		Provider:             domain.Provider(r.Provider),
		Status:               domain.Status(r.Status),
		GrossAmount:          r.GrossAmount,
		SnapToken:            value(r.SnapToken),
		RedirectURL:          value(r.RedirectURL),
		LastNotificationJSON: value(r.LastNotificationJSON),
		StatusHistory:        []string(r.StatusHistory),
		CreatedAt:            r.CreatedAt,
		UpdatedAt:            r.UpdatedAt,
	}
}

func optional(s string) *string {
	if s == "" {
		return nil
	}
	return &s
}

func value(s *string) string {
	if s == nil {
		return ""
	}
	return *s
}
