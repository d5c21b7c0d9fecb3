package postgres

import (
	"context"
	"errors"
	"time"

	"gorm.io/gorm"

	"github.com/finprodb/shop-api/internal/domains/carts/domain"
	"github.com/finprodb/shop-api/internal/domains/carts/ports"
)

var _ ports.Repository = (*Repository)(nil)

// Repository persists cart lines in PostgreSQL using GORM.
type Repository struct {
	db *gorm.DB
}

func NewRepository(db *gorm.DB) *Repository {
	return &Repository{db: db}
}

type cartItemRecord struct {
	ID        int64     `gorm:"primaryKey;column:id"`
	UserID    int64     `gorm:"column:user_id;not null;uniqueIndex:uk_cart_user_product"`
	ProductID int64     `gorm:"column:product_id;not null;uniqueIndex:uk_cart_user_product"`
	Quantity  int       `gorm:"column:quantity;not null"`
	CreatedAt time.Time `gorm:"column:created_at"`
	UpdatedAt time.Time `gorm:"column:updated_at"`
}

func (cartItemRecord) TableName() string { return "cart_items" }

func (r *Repository) Save(ctx context.Context, item *domain.CartItem) (*domain.CartItem, error) {
	if err := r.ensureDB(); err != nil {
		return nil, err
	}
	if item == nil {
		return nil, errors.New("cart item is nil")
	}
	record := toRecord(item)
	if record.ID == 0 {
		if err := r.db.WithContext(ctx).Create(&record).Error; err != nil {
			return nil, err
		}
		return record.toDomain(), nil
	}
	result := r.db.WithContext(ctx).Model(&cartItemRecord{}).Where("id = ?", record.ID).Updates(map[string]any{
		"quantity":   record.Quantity,
		"updated_at": time.Now().UTC(),
	})
	if result.Error != nil {
		return nil, result.Error
	}
	if result.RowsAffected == 0 {
		return nil, ports.ErrNotFound
	}
	return r.Get(ctx, record.ID)
}

func (r *Repository) Get(ctx context.Context, id int64) (*domain.CartItem, error) {
	if err := r.ensureDB(); err != nil {
		return nil, err
	}
	return r.first(ctx, "id = ?", id)
}

func (r *Repository) FindByUserAndProduct(ctx context.Context, userID, productID int64) (*domain.CartItem, error) {
	if err := r.ensureDB(); err != nil {
		return nil, err
	}
	return r.first(ctx, "user_id = ? AND product_id = ?", userID, productID)
}

func (r *Repository) ListByUser(ctx context.Context, userID int64) ([]*domain.CartItem, error) {
	if err := r.ensureDB(); err != nil {
		return nil, err
	}
	var records []cartItemRecord
	if err := r.db.WithContext(ctx).Where("user_id = ?", userID).Order("id ASC").Find(&records).Error; err != nil {
		return nil, err
	}
	items := make([]*domain.CartItem, 0, len(records))
	for i := range records {
		items = append(items, records[i].toDomain())
	}
	return items, nil
}

func (r *Repository) Delete(ctx context.Context, id int64) error {
	if err := r.ensureDB(); err != nil {
		return err
	}
	result := r.db.WithContext(ctx).Delete(&cartItemRecord{}, "id = ?", id)
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return ports.ErrNotFound
	}
	return nil
}

func (r *Repository) DeleteByUser(ctx context.Context, userID int64) error {
	if err := r.ensureDB(); err != nil {
		return err
	}
	return r.db.WithContext(ctx).Delete(&cartItemRecord{}, "user_id = ?", userID).Error
}

func (r *Repository) first(ctx context.Context, query string, args ...any) (*domain.CartItem, error) {
	var record cartItemRecord
	if err := r.db.WithContext(ctx).Where(query, args...).First(&record).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ports.ErrNotFound
		}
		return nil, err
	}
	return record.toDomain(), nil
}

func (r *Repository) ensureDB() error {
	if r == nil || r.db == nil {
		return errors.New("postgres cart repository not configured")
	}
	return nil
}

func toRecord(item *domain.CartItem) cartItemRecord {
	return cartItemRecord{
		ID:        item.ID,
		UserID:    item.UserID,
		ProductID: item.ProductID,
		Quantity:  item.Quantity,
		CreatedAt: item.CreatedAt,
		UpdatedAt: item.UpdatedAt,
	}
}

func (r cartItemRecord) toDomain() *domain.CartItem {
	return &domain.CartItem{
		ID:        r.ID,
		UserID:    r.UserID,
		ProductID: r.ProductID,
		Quantity:  r.Quantity,
		CreatedAt: r.CreatedAt,
		UpdatedAt: r.UpdatedAt,
	}
}
