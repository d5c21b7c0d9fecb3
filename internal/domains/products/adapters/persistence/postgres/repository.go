package postgres

import (
	"context"
	"errors"
	"strings"
	"time"

	"github.com/shopspring/decimal"
	"gorm.io/gorm"

	"github.com/finprodb/shop-api/internal/domains/products/domain"
	"github.com/finprodb/shop-api/internal/domains/products/ports"
	"github.com/finprodb/shop-api/internal/shared/pagination"
)

var _ ports.Repository = (*Repository)(nil)

// Repository persists products in PostgreSQL using GORM.
type Repository struct {
	db *gorm.DB
}

func NewRepository(db *gorm.DB) *Repository {
	return &Repository{db: db}
}

type productRecord struct {
	ID          int64           `gorm:"primaryKey;column:id"`
	Name        string          `gorm:"column:name;not null;index"`
	Description string          `gorm:"column:description;type:text"`
	Price       decimal.Decimal `gorm:"column:price;type:numeric(19,2);not null"`
	Stock       int             `gorm:"column:stock;not null"`
	Active      bool            `gorm:"column:active;not null;default:true"`
	ImagePath   string          `gorm:"column:image_path"`
	CategoryID  *int64          `gorm:"column:category_id;index"`
	DeletedAt   *time.Time      `gorm:"column:deleted_at;index"`
	CreatedAt   time.Time       `gorm:"column:created_at;index"`
	UpdatedAt   time.Time       `gorm:"column:updated_at"`
}

func (productRecord) TableName() string { return "products" }

func (r *Repository) Save(ctx context.Context, product *domain.Product) (*domain.Product, error) {
	if err := r.ensureDB(); err != nil {
		return nil, err
	}
	if product == nil {
		return nil, errors.New("product is nil")
	}
	record := toRecord(product)
	if record.ID == 0 {
		if err := r.db.WithContext(ctx).Create(&record).Error; err != nil {
			return nil, err
		}
		return record.toDomain(), nil
	}
	result := r.db.WithContext(ctx).Model(&productRecord{}).Where("id = ?", record.ID).Updates(map[string]any{
		"name":        record.Name,
		"description": record.Description,
		"price":       record.Price,
		"stock":       record.Stock,
		"active":      record.Active,
		"image_path":  record.ImagePath,
		"category_id": record.CategoryID,
		"deleted_at":  record.DeletedAt,
		"updated_at":  time.Now().UTC(),
	})
	if result.Error != nil {
		return nil, result.Error
	}
	if result.RowsAffected == 0 {
		return nil, ports.ErrNotFound
	}
	var saved productRecord
	if err := r.db.WithContext(ctx).First(&saved, "id = ?", record.ID).Error; err != nil {
		return nil, err
	}
	return saved.toDomain(), nil
}

func (r *Repository) Get(ctx context.Context, id int64) (*domain.Product, error) {
	if err := r.ensureDB(); err != nil {
		return nil, err
	}
	var record productRecord
	if err := r.db.WithContext(ctx).First(&record, "id = ?", id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ports.ErrNotFound
		}
		return nil, err
	}
	return record.toDomain(), nil
}

func (r *Repository) GetActive(ctx context.Context, id int64) (*domain.Product, error) {
	if err := r.ensureDB(); err != nil {
		return nil, err
	}
	var record productRecord
	if err := r.db.WithContext(ctx).First(&record, "id = ? AND deleted_at IS NULL", id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ports.ErrNotFound
		}
		return nil, err
	}
	return record.toDomain(), nil
}

func (r *Repository) ListPublic(ctx context.Context, filter ports.ListFilter) ([]*domain.Product, int64, error) {
	if err := r.ensureDB(); err != nil {
		return nil, 0, err
	}
	scope := func(tx *gorm.DB) *gorm.DB {
		tx = tx.Where("active = ? AND deleted_at IS NULL", true)
		if filter.CategoryID != nil {
			tx = tx.Where("category_id = ?", *filter.CategoryID)
		}
		if filter.Query != "" {
			tx = tx.Where("LOWER(name) LIKE ?", "%"+escapeLike(filter.Query)+"%")
		}
		return tx
	}
	return r.page(ctx, scope, filter.Page)
}

func (r *Repository) ListAdmin(ctx context.Context, page pagination.Request) ([]*domain.Product, int64, error) {
	if err := r.ensureDB(); err != nil {
		return nil, 0, err
	}
	return r.page(ctx, func(tx *gorm.DB) *gorm.DB { return tx.Where("deleted_at IS NULL") }, page)
}

// DecrementStock subtracts qty in a single statement, clamping at zero.
func (r *Repository) DecrementStock(ctx context.Context, id int64, qty int) error {
	if err := r.ensureDB(); err != nil {
		return err
	}
	result := r.db.WithContext(ctx).Model(&productRecord{}).Where("id = ?", id).Updates(map[string]any{
		"stock":      gorm.Expr("GREATEST(stock - ?, 0)", qty),
		"updated_at": time.Now().UTC(),
	})
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return ports.ErrNotFound
	}
	return nil
}

func (r *Repository) page(ctx context.Context, scope func(*gorm.DB) *gorm.DB, page pagination.Request) ([]*domain.Product, int64, error) {
	var total int64
	if err := r.db.WithContext(ctx).Model(&productRecord{}).Scopes(scope).Count(&total).Error; err != nil {
		return nil, 0, err
	}
	var records []productRecord
	if err := r.db.WithContext(ctx).
		Scopes(scope).
		Order("created_at DESC, id DESC").
		Offset(page.Offset()).
		Limit(page.Size).
		Find(&records).Error; err != nil {
		return nil, 0, err
	}
	products := make([]*domain.Product, 0, len(records))
	for i := range records {
		products = append(products, records[i].toDomain())
	}
	return products, total, nil
}

func (r *Repository) ensureDB() error {
	if r == nil || r.db == nil {
		return errors.New("postgres product repository not configured")
	}
	return nil
}

func escapeLike(q string) string {
	return likeEscaper.Replace(strings.ToLower(q))
}

var likeEscaper = strings.NewReplacer(`\`, `\\`, "%", `\%`, "_", `\_`)

func toRecord(p *domain.Product) productRecord {
	return productRecord{
		ID:          p.ID,
		Name:        p.Name,
		Description: p.Description,
		Price:       p.Price,
		Stock:       p.Stock,
		Active:      p.Active,
		ImagePath:   p.ImagePath,
		CategoryID:  p.CategoryID,
		DeletedAt:   p.DeletedAt,
		CreatedAt:   p.CreatedAt,
		UpdatedAt:   p.UpdatedAt,
	}
}

func (r productRecord) toDomain() *domain.Product {
	return &domain.Product{
		ID:          r.ID,
		Name:        r.Name,
		Description: r.Description,
		Price:       r.Price,
		Stock:       r.Stock,
		Active:      r.Active,
		ImagePath:   r.ImagePath,
		CategoryID:  r.CategoryID,
		DeletedAt:   r.DeletedAt,
		CreatedAt:   r.CreatedAt,
		UpdatedAt:   r.UpdatedAt,
	}
}
