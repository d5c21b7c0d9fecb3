package postgres

import (
	"context"
	"errors"
	"strings"
	"time"

	"gorm.io/gorm"

	"github.com/finprodb/shop-api/internal/domains/users/domain"
	"github.com/finprodb/shop-api/internal/domains/users/ports"
	"github.com/finprodb/shop-api/internal/shared/pagination"
)

var _ ports.Repository = (*Repository)(nil)

// Repository persists accounts in PostgreSQL using GORM.
type Repository struct {
	db *gorm.DB
}

// NewRepository wires a PostgreSQL-backed repository. Caller manages DB lifecycle and migrations.
func NewRepository(db *gorm.DB) *Repository {
	return &Repository{db: db}
}

type userRecord struct {
	ID           int64     `gorm:"primaryKey;column:id"`
	Name         string    `gorm:"column:name;not null"`
	Username     string    `gorm:"column:username;uniqueIndex;not null"`
	Email        string    `gorm:"column:email;uniqueIndex;not null"`
	PasswordHash string    `gorm:"column:password_hash;not null"`
	Role         string    `gorm:"column:role;type:varchar(16);index;not null"`
	CreatedAt    time.Time `gorm:"column:created_at"`
	UpdatedAt    time.Time `gorm:"column:updated_at"`
}

func (userRecord) TableName() string { return "users" }

func (r *Repository) Create(ctx context.Context, user *domain.User) (*domain.User, error) {
	if err := r.ensureDB(); err != nil {
		return nil, err
	}
	if user == nil {
		return nil, errors.New("user is nil")
	}
	if err := user.Validate(); err != nil {
		return nil, err
	}
	record := toRecord(user)
	record.ID = 0
	if err := r.db.WithContext(ctx).Create(&record).Error; err != nil {
		return nil, translateUniqueViolation(err)
	}
	return record.toDomain(), nil
}

func (r *Repository) Update(ctx context.Context, user *domain.User) (*domain.User, error) {
	if err := r.ensureDB(); err != nil {
		return nil, err
	}
	if user == nil {
		return nil, errors.New("user is nil")
	}
	if err := user.Validate(); err != nil {
		return nil, err
	}
	record := toRecord(user)
	result := r.db.WithContext(ctx).Model(&userRecord{}).Where("id = ?", user.ID).Updates(map[string]any{
		"name":          record.Name,
		"username":      record.Username,
		"email":         record.Email,
		"password_hash": record.PasswordHash,
		"role":          record.Role,
		"updated_at":    time.Now().UTC(),
	})
	if result.Error != nil {
		return nil, translateUniqueViolation(result.Error)
	}
	if result.RowsAffected == 0 {
		return nil, ports.ErrNotFound
	}
	return r.GetByID(ctx, user.ID)
}

func (r *Repository) GetByID(ctx context.Context, id int64) (*domain.User, error) {
	return r.first(ctx, "id = ?", id)
}

func (r *Repository) GetByUsername(ctx context.Context, username string) (*domain.User, error) {
	return r.first(ctx, "username = ?", strings.TrimSpace(username))
}

func (r *Repository) GetByLogin(ctx context.Context, identifier string) (*domain.User, error) {
	identifier = strings.TrimSpace(identifier)
	user, err := r.first(ctx, "username = ?", identifier)
	if err == nil || !errors.Is(err, ports.ErrNotFound) {
		return user, err
	}
	return r.first(ctx, "email = ?", identifier)
}

func (r *Repository) ExistsByUsername(ctx context.Context, username string) (bool, error) {
	return r.exists(ctx, "username = ?", strings.TrimSpace(username))
}

func (r *Repository) ExistsByEmail(ctx context.Context, email string) (bool, error) {
	return r.exists(ctx, "email = ?", strings.TrimSpace(email))
}

func (r *Repository) List(ctx context.Context, page pagination.Request) ([]*domain.User, int64, error) {
	if err := r.ensureDB(); err != nil {
		return nil, 0, err
	}
	var total int64
	if err := r.db.WithContext(ctx).Model(&userRecord{}).Count(&total).Error; err != nil {
		return nil, 0, err
	}
	var records []userRecord
	if err := r.db.WithContext(ctx).
		Order("id ASC").
		Offset(page.Offset()).
		Limit(page.Size).
		Find(&records).Error; err != nil {
		return nil, 0, err
	}
	users := make([]*domain.User, 0, len(records))
	for i := range records {
		users = append(users, records[i].toDomain())
	}
	return users, total, nil
}

func (r *Repository) CountByRole(ctx context.Context, role domain.Role) (int64, error) {
	if err := r.ensureDB(); err != nil {
		return 0, err
	}
	var count int64
	err := r.db.WithContext(ctx).Model(&userRecord{}).Where("role = ?", string(role)).Count(&count).Error
	return count, err
}

func (r *Repository) first(ctx context.Context, query string, arg any) (*domain.User, error) {
	if err := r.ensureDB(); err != nil {
		return nil, err
	}
	var record userRecord
	if err := r.db.WithContext(ctx).First(&record, query, arg).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ports.ErrNotFound
		}
		return nil, err
	}
	return record.toDomain(), nil
}

func (r *Repository) exists(ctx context.Context, query string, arg any) (bool, error) {
	if err := r.ensureDB(); err != nil {
		return false, err
	}
	var count int64
	if err := r.db.WithContext(ctx).Model(&userRecord{}).Where(query, arg).Count(&count).Error; err != nil {
		return false, err
	}
	return count > 0, nil
}

func (r *Repository) ensureDB() error {
	if r == nil || r.db == nil {
		return errors.New("postgres user repository not configured")
	}
	return nil
}

func translateUniqueViolation(err error) error {
	if !errors.Is(err, gorm.ErrDuplicatedKey) && !strings.Contains(err.Error(), "23505") {
		return err
	}
	if strings.Contains(err.Error(), "email") {
		return domain.ErrEmailTaken
	}
	return domain.ErrUsernameTaken
}

func toRecord(user *domain.User) userRecord {
	return userRecord{
		ID:           user.ID,
		Name:         user.Name,
		Username:     user.Username,
		Email:        user.Email,
		PasswordHash: user.PasswordHash,
		Role:         string(user.Role),
		CreatedAt:    user.CreatedAt,
		UpdatedAt:    user.UpdatedAt,
	}
}

func (r userRecord) toDomain() *domain.User {
	role, err := domain.ParseRole(r.Role)
	if err != nil {
		role = domain.RoleUser
	}
	return &domain.User{
		ID:           r.ID,
		Name:         r.Name,
		Username:     r.Username,
		Email:        r.Email,
		PasswordHash: r.PasswordHash,
		Role:         role,
		CreatedAt:    r.CreatedAt,
		UpdatedAt:    r.UpdatedAt,
	}
}
