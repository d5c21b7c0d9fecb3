package postgres

import (
	"context"
	"errors"
	"time"

	"gorm.io/gorm"

	"github.com/finprodb/shop-api/internal/domains/addresses/domain"
	"github.com/finprodb/shop-api/internal/domains/addresses/ports"
)

var _ ports.Repository = (*Repository)(nil)

// Repository persists addresses in PostgreSQL using GORM.
type Repository struct {
	db *gorm.DB
}

func NewRepository(db *gorm.DB) *Repository {
	return &Repository{db: db}
}

type addressRecord struct {
	ID            int64     `gorm:"primaryKey;column:id"`
	UserID        int64     `gorm:"column:user_id;not null;index"`
	Label         string    `gorm:"column:label;not null"`
	RecipientName string    `gorm:"column:recipient_name"`
	AddressLine   string    `gorm:"column:address_line;type:text;not null"`
	Phone         string    `gorm:"column:phone;not null"`
	IsDefault     bool      `gorm:"column:is_default;not null;default:false"`
	CreatedAt     time.Time `gorm:"column:created_at"`
	UpdatedAt     time.Time `gorm:"column:updated_at"`
}

func (addressRecord) TableName() string { return "addresses" }

func (r *Repository) Save(ctx context.Context, address *domain.Address) (*domain.Address, error) {
	if err := r.ensureDB(); err != nil {
		return nil, err
	}
	if address == nil {
		return nil, errors.New("address is nil")
	}
	record := toRecord(address)
	if record.ID == 0 {
		if err := r.db.WithContext(ctx).Create(&record).Error; err != nil {
			return nil, err
		}
		return record.toDomain(), nil
	}
	result := r.db.WithContext(ctx).Model(&addressRecord{}).
		Where("id = ? AND user_id = ?", record.ID, record.UserID).
		Updates(map[string]any{
			"label":          record.Label,
			"recipient_name": record.RecipientName,
			"address_line":   record.AddressLine,
			"phone":          record.Phone,
			"is_default":     record.IsDefault,
			"updated_at":     time.Now().UTC(),
		})
	if result.Error != nil {
		return nil, result.Error
	}
	if result.RowsAffected == 0 {
		return nil, ports.ErrNotFound
	}
	return r.GetOwned(ctx, record.UserID, record.ID)
}

func (r *Repository) GetOwned(ctx context.Context, userID, id int64) (*domain.Address, error) {
	if err := r.ensureDB(); err != nil {
		return nil, err
	}
	var record addressRecord
	if err := r.db.WithContext(ctx).First(&record, "id = ? AND user_id = ?", id, userID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ports.ErrNotFound
		}
		return nil, err
	}
	return record.toDomain(), nil
}

func (r *Repository) ListByUser(ctx context.Context, userID int64) ([]*domain.Address, error) {
	if err := r.ensureDB(); err != nil {
		return nil, err
	}
	var records []addressRecord
	if err := r.db.WithContext(ctx).Where("user_id = ?", userID).Order("created_at DESC, id DESC").Find(&records).Error; err != nil {
		return nil, err
	}
	out := make([]*domain.Address, 0, len(records))
	for i := range records {
		out = append(out, records[i].toDomain())
	}
	return out, nil
}

func (r *Repository) CountByUser(ctx context.Context, userID int64) (int64, error) {
	if err := r.ensureDB(); err != nil {
		return 0, err
	}
	var count int64
	err := r.db.WithContext(ctx).Model(&addressRecord{}).Where("user_id = ?", userID).Count(&count).Error
	return count, err
}

func (r *Repository) Delete(ctx context.Context, userID, id int64) error {
	if err := r.ensureDB(); err != nil {
		return err
	}
	result := r.db.WithContext(ctx).Delete(&addressRecord{}, "id = ? AND user_id = ?", id, userID)
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return ports.ErrNotFound
	}
	return nil
}

// MarkDefault checks ownership, then rewrites every flag of the user in one UPDATE.
func (r *Repository) MarkDefault(ctx context.Context, userID, id int64) error {
	if err := r.ensureDB(); err != nil {
		return err
	}
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var count int64
		if err := tx.Model(&addressRecord{}).Where("id = ? AND user_id = ?", id, userID).Count(&count).Error; err != nil {
			return err
		}
		if count == 0 {
			return ports.ErrNotFound
		}
		return tx.Model(&addressRecord{}).
			Where("user_id = ?", userID).
			Updates(map[string]any{
				"is_default": gorm.Expr("id = ?", id),
				"updated_at": time.Now().UTC(),
			}).Error
	})
}

func (r *Repository) ensureDB() error {
	if r == nil || r.db == nil {
		return errors.New("postgres address repository not configured")
	}
	return nil
}

func toRecord(a *domain.Address) addressRecord {
	return addressRecord{
		ID:            a.ID,
		UserID:        a.UserID,
		Label:         a.Label,
		RecipientName: a.RecipientName,
		AddressLine:   a.AddressLine,
		Phone:         a.Phone,
		IsDefault:     a.IsDefault,
		CreatedAt:     a.CreatedAt,
		UpdatedAt:     a.UpdatedAt,
	}
}

func (r addressRecord) toDomain() *domain.Address {
	return &domain.Address{
		ID:            r.ID,
		UserID:        r.UserID,
		Label:         r.Label,
		RecipientName: r.RecipientName,
		AddressLine:   r.AddressLine,
		Phone:         r.Phone,
		IsDefault:     r.IsDefault,
		CreatedAt:     r.CreatedAt,
		UpdatedAt:     r.UpdatedAt,
	}
}
