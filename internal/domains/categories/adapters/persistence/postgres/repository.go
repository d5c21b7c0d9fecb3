package postgres

import (
	"context"
	"errors"
	"time"

	"gorm.io/gorm"

	"github.com/finprodb/shop-api/internal/domains/categories/domain"
	"github.com/finprodb/shop-api/internal/domains/categories/ports"
	"github.com/finprodb/shop-api/internal/shared/pagination"
)

var _ ports.Repository = (*Repository)(nil)

// Repository persists categories in PostgreSQL using GORM.
type Repository struct {
	db *gorm.DB
}

func NewRepository(db *gorm.DB) *Repository {
	return &Repository{db: db}
}

type categoryRecord struct {
	ID          int64     `gorm:"primaryKey;column:id"`
	Name        string    `gorm:"column:name;not null"`
	Description string    `gorm:"column:description;type:text"`
	ImagePath   string    `gorm:"column:image_path"`
	IsDeleted   bool      `gorm:"column:is_deleted;not null;default:false;index"`
	CreatedAt   time.Time `gorm:"column:created_at;index"`
	UpdatedAt   time.Time `gorm:"column:updated_at"`
}

func (categoryRecord) TableName() string { return "categories" }

// Save inserts new categories and overwrites existing ones by id.
func (r *Repository) Save(ctx context.Context, category *domain.Category) (*domain.Category, error) {
	if err := r.ensureDB(); err != nil {
		return nil, err
	}
	if category == nil {
		return nil, errors.New("category is nil")
	}
	record := toRecord(category)
	if record.ID == 0 {
		if err := r.db.WithContext(ctx).Create(&record).Error; err != nil {
			return nil, err
		}
		return record.toDomain(), nil
	}
	result := r.db.WithContext(ctx).Model(&categoryRecord{}).Where("id = ?", record.ID).Updates(map[string]any{
		"name":        record.Name,
		"description": record.Description,
		"image_path":  record.ImagePath,
		"is_deleted":  record.IsDeleted,
		"updated_at":  time.Now().UTC(),
	})
	if result.Error != nil {
		return nil, result.Error
	}
	if result.RowsAffected == 0 {
		return nil, ports.ErrNotFound
	}
	var saved categoryRecord
	if err := r.db.WithContext(ctx).First(&saved, "id = ?", record.ID).Error; err != nil {
		return nil, err
	}
	return saved.toDomain(), nil
}

func (r *Repository) GetActive(ctx context.Context, id int64) (*domain.Category, error) {
	if err := r.ensureDB(); err != nil {
		return nil, err
	}
	var record categoryRecord
	if err := r.db.WithContext(ctx).First(&record, "id = ? AND is_deleted = ?", id, false).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ports.ErrNotFound
		}
		return nil, err
	}
	return record.toDomain(), nil
}

func (r *Repository) ListActive(ctx context.Context, page pagination.Request, newestFirst bool) ([]*domain.Category, int64, error) {
	if err := r.ensureDB(); err != nil {
		return nil, 0, err
	}
	base := r.db.WithContext(ctx).Model(&categoryRecord{}).Where("is_deleted = ?", false)
	var total int64
	if err := base.Count(&total).Error; err != nil {
		return nil, 0, err
	}
	order := "id ASC"
	if newestFirst {
		order = "created_at DESC, id DESC"
	}
	var records []categoryRecord
	if err := r.db.WithContext(ctx).
		Where("is_deleted = ?", false).
		Order(order).
		Offset(page.Offset()).
		Limit(page.Size).
		Find(&records).Error; err != nil {
		return nil, 0, err
	}
	categories := make([]*domain.Category, 0, len(records))
	for i := range records {
		categories = append(categories, records[i].toDomain())
	}
	return categories, total, nil
}

func (r *Repository) ensureDB() error {
	if r == nil || r.db == nil {
		return errors.New("postgres category repository not configured")
	}
	return nil
}

func toRecord(c *domain.Category) categoryRecord {
	return categoryRecord{
		ID:          c.ID,
		Name:        c.Name,
		Description: c.Description,
		ImagePath:   c.ImagePath,
		IsDeleted:   c.Deleted,
		CreatedAt:   c.CreatedAt,
		UpdatedAt:   c.UpdatedAt,
	}
}

func (r categoryRecord) toDomain() *domain.Category {
	return &domain.Category{
		ID:          r.ID,
		Name:        r.Name,
		Description: r.Description,
		ImagePath:   r.ImagePath,
		Deleted:     r.IsDeleted,
		CreatedAt:   r.CreatedAt,
		UpdatedAt:   r.UpdatedAt,
	}
}
