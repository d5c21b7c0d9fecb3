package postgres

import (
	"context"
	"errors"
	"time"

	"github.com/shopspring/decimal"
	"gorm.io/gorm"

	"github.com/finprodb/shop-api/internal/domains/orders/domain"
	"github.com/finprodb/shop-api/internal/domains/orders/ports"
	"github.com/finprodb/shop-api/internal/shared/pagination"
)

var _ ports.Repository = (*Repository)(nil)

// Repository persists orders in PostgreSQL using GORM.
type Repository struct {
	db *gorm.DB
}

func NewRepository(db *gorm.DB) *Repository {
	return &Repository{db: db}
}

// orderRecord maps the order aggregate to the orders table.
type orderRecord struct {
	ID              int64           `gorm:"primaryKey;column:id"`
	UserID          int64           `gorm:"column:user_id;not null;index"`
	OrderCode       string          `gorm:"column:order_code;type:varchar(64);not null;uniqueIndex"`
	Status          string          `gorm:"column:status;type:varchar(32);not null;index:idx_orders_status_created"`
	ApprovalStatus  *string         `gorm:"column:approval_status;type:varchar(16)"`
	CheckoutKey     *string         `gorm:"column:checkout_key;type:varchar(255);uniqueIndex"`
	ApprovedAt      *time.Time      `gorm:"column:approved_at"`
	RejectedAt      *time.Time      `gorm:"column:rejected_at"`
	ApprovedBy      *int64          `gorm:"column:approved_by"`
	TotalAmount     decimal.Decimal `gorm:"column:total_amount;type:numeric(19,2);not null"`
	ShippingAddress string          `gorm:"column:shipping_address;type:text"`
	ShippingPhone   string          `gorm:"column:shipping_phone"`
	CourierPhone    string          `gorm:"column:courier_phone"`
	CourierPlate    string          `gorm:"column:courier_plate"`
	CreatedAt       time.Time       `gorm:"column:created_at;index:idx_orders_status_created"`
	UpdatedAt       time.Time       `gorm:"column:updated_at"`
}

func (orderRecord) TableName() string { return "orders" }

type orderItemRecord struct {
	ID          int64           `gorm:"primaryKey;column:id"`
	OrderID     int64           `gorm:"column:order_id;not null;index"`
	ProductID   int64           `gorm:"column:product_id;not null"`
	ProductName string          `gorm:"column:product_name"`
	Quantity    int             `gorm:"column:quantity;not null"`
	Price       decimal.Decimal `gorm:"column:price;type:numeric(19,2);not null"`
	Subtotal    decimal.Decimal `gorm:"column:subtotal;type:numeric(19,2);not null"`
}

func (orderItemRecord) TableName() string { return "order_items" }

// Create inserts the order header and items in one transaction.
func (r *Repository) Create(ctx context.Context, order *domain.Order) (*domain.Order, error) {
	if err := r.ensureDB(); err != nil {
		return nil, err
	}
	if order == nil {
		return nil, errors.New("order is nil")
	}
	record := toRecord(order)
	items := make([]orderItemRecord, 0, len(order.Items))
	err := r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Create(&record).Error; err != nil {
			return err
		}
		for _, item := range order.Items {
			items = append(items, toItemRecord(record.ID, item))
		}
		if len(items) == 0 {
			return nil
		}
		return tx.Create(&items).Error
	})
	if err != nil {
		return nil, err
	}
	return record.toDomain(items), nil
}

// Save writes the lifecycle columns of an existing order.
func (r *Repository) Save(ctx context.Context, order *domain.Order) (*domain.Order, error) {
	if err := r.ensureDB(); err != nil {
		return nil, err
	}
	if order == nil {
		return nil, errors.New("order is nil")
	}
	record := toRecord(order)
	result := r.db.WithContext(ctx).Model(&orderRecord{}).Where("id = ?", record.ID).Updates(map[string]any{
		"status":          record.Status,
		"approval_status": record.ApprovalStatus,
		"approved_at":     record.ApprovedAt,
		"rejected_at":     record.RejectedAt,
		"approved_by":     record.ApprovedBy,
		"courier_phone":   record.CourierPhone,
		"courier_plate":   record.CourierPlate,
		"updated_at":      time.Now().UTC(),
	})
	if result.Error != nil {
		return nil, result.Error
	}
	if result.RowsAffected == 0 {
		return nil, ports.ErrNotFound
	}
	return r.Get(ctx, record.ID)
}

func (r *Repository) Get(ctx context.Context, id int64) (*domain.Order, error) {
	if err := r.ensureDB(); err != nil {
		return nil, err
	}
	return r.first(ctx, "id = ?", id)
}

func (r *Repository) GetByCode(ctx context.Context, code string) (*domain.Order, error) {
	if err := r.ensureDB(); err != nil {
		return nil, err
	}
	return r.first(ctx, "order_code = ?", code)
}

// GetByCheckoutKey finds the order a checkout run already created.
func (r *Repository) GetByCheckoutKey(ctx context.Context, key string) (*domain.Order, error) {
	if err := r.ensureDB(); err != nil {
		return nil, err
	}
	if key == "" {
		return nil, ports.ErrNotFound
	}
	return r.first(ctx, "checkout_key = ?", key)
}

func (r *Repository) ListByUser(ctx context.Context, userID int64) ([]*domain.Order, error) {
	if err := r.ensureDB(); err != nil {
		return nil, err
	}
	var records []orderRecord
	if err := r.db.WithContext(ctx).Where("user_id = ?", userID).Order("created_at DESC, id DESC").Find(&records).Error; err != nil {
		return nil, err
	}
	return r.withItems(ctx, records)
}

func (r *Repository) List(ctx context.Context, status *domain.Status, page pagination.Request) ([]*domain.Order, int64, error) {
	if err := r.ensureDB(); err != nil {
		return nil, 0, err
	}
	scope := statusScope(status)
	var total int64
	if err := r.db.WithContext(ctx).Model(&orderRecord{}).Scopes(scope).Count(&total).Error; err != nil {
		return nil, 0, err
	}
	var records []orderRecord
	if err := r.db.WithContext(ctx).
		Scopes(scope).
		Order("created_at DESC, id DESC").
		Offset(page.Offset()).
		Limit(page.Size).
		Find(&records).Error; err != nil {
		return nil, 0, err
	}
	orders := make([]*domain.Order, 0, len(records))
	for i := range records {
		orders = append(orders, records[i].toDomain(nil))
	}
	return orders, total, nil
}

func (r *Repository) Count(ctx context.Context, status *domain.Status) (int64, error) {
	if err := r.ensureDB(); err != nil {
		return 0, err
	}
	var total int64
	err := r.db.WithContext(ctx).Model(&orderRecord{}).Scopes(statusScope(status)).Count(&total).Error
	return total, err
}

func (r *Repository) SumTotal(ctx context.Context, status domain.Status) (decimal.Decimal, error) {
	if err := r.ensureDB(); err != nil {
		return decimal.Zero, err
	}
	var sum decimal.NullDecimal
	if err := r.db.WithContext(ctx).Model(&orderRecord{}).
		Select("SUM(total_amount)").
		Where("status = ?", string(status)).
		Scan(&sum).Error; err != nil {
		return decimal.Zero, err
	}
	if !sum.Valid {
		return decimal.Zero, nil
	}
	return sum.Decimal, nil
}

func (r *Repository) ListPendingBefore(ctx context.Context, cutoff time.Time) ([]*domain.Order, error) {
	if err := r.ensureDB(); err != nil {
		return nil, err
	}
	var records []orderRecord
	if err := r.db.WithContext(ctx).
		Where("status = ? AND created_at < ?", string(domain.StatusPendingPayment), cutoff).
		Order("created_at ASC").
		Find(&records).Error; err != nil {
		return nil, err
	}
	return r.withItems(ctx, records)
}

func (r *Repository) first(ctx context.Context, query string, args ...any) (*domain.Order, error) {
	var record orderRecord
	if err := r.db.WithContext(ctx).Where(query, args...).First(&record).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ports.ErrNotFound
		}
		return nil, err
	}
	orders, err := r.withItems(ctx, []orderRecord{record})
	if err != nil {
		return nil, err
	}
	return orders[0], nil
}

// withItems loads the items of every record with a single query.
func (r *Repository) withItems(ctx context.Context, records []orderRecord) ([]*domain.Order, error) {
	if len(records) == 0 {
		return []*domain.Order{}, nil
	}
	ids := make([]int64, 0, len(records))
	for _, rec := range records {
		ids = append(ids, rec.ID)
	}
	var items []orderItemRecord
	if err := r.db.WithContext(ctx).Where("order_id IN ?", ids).Order("id ASC").Find(&items).Error; err != nil {
		return nil, err
	}
	byOrder := make(map[int64][]orderItemRecord, len(records))
	for _, item := range items {
		byOrder[item.OrderID] = append(byOrder[item.OrderID], item)
	}
	orders := make([]*domain.Order, 0, len(records))
	for i := range records {
		orders = append(orders, records[i].toDomain(byOrder[records[i].ID]))
	}
	return orders, nil
}

func statusScope(status *domain.Status) func(*gorm.DB) *gorm.DB {
	return func(tx *gorm.DB) *gorm.DB {
		if status == nil {
			return tx
		}
		return tx.Where("status = ?", string(*status))
	}
}

func (r *Repository) ensureDB() error {
	if r == nil || r.db == nil {
		return errors.New("postgres order repository not configured")
	}
	return nil
}

func toRecord(o *domain.Order) orderRecord {
	record := orderRecord{
		ID:              o.ID,
		UserID:          o.UserID,
		OrderCode:       o.Code,
		Status:          string(o.Status),
		ApprovedAt:      o.ApprovedAt,
		RejectedAt:      o.RejectedAt,
		ApprovedBy:      o.ApprovedBy,
		TotalAmount:     o.TotalAmount,
		ShippingAddress: o.ShippingAddress,
		ShippingPhone:   o.ShippingPhone,
		CourierPhone:    o.CourierPhone,
		CourierPlate:    o.CourierPlate,
		CreatedAt:       o.CreatedAt,
		UpdatedAt:       o.UpdatedAt,
	}
	if o.Approval != "" {
		approval := string(o.Approval)
		record.ApprovalStatus = &approval
	}
	if o.CheckoutKey != "" {
		key := o.CheckoutKey
		record.CheckoutKey = &key
	}
	return record
}

func toItemRecord(orderID int64, item domain.Item) orderItemRecord {
	return orderItemRecord{
		OrderID:     orderID,
		ProductID:   item.ProductID,
		ProductName: item.ProductName,
		Quantity:    item.Quantity,
		Price:       item.Price,
		Subtotal:    item.Subtotal,
	}
}

func (r orderRecord) toDomain(items []orderItemRecord) *domain.Order {
	order := &domain.Order{
		ID:              r.ID,
		UserID:          r.UserID,
		Code:            r.OrderCode,
		Status:          domain.Status(r.Status),
		ApprovedAt:      r.ApprovedAt,
		RejectedAt:      r.RejectedAt,
		ApprovedBy:      r.ApprovedBy,
		TotalAmount:     r.TotalAmount,
		ShippingAddress: r.ShippingAddress,
		ShippingPhone:   r.ShippingPhone,
		CourierPhone:    r.CourierPhone,
		CourierPlate:    r.CourierPlate,
		CreatedAt:       r.CreatedAt,
		UpdatedAt:       r.UpdatedAt,
	}
	if r.ApprovalStatus != nil {
		order.Approval = domain.ApprovalStatus(*r.ApprovalStatus)
	}
	if r.CheckoutKey != nil {
		order.CheckoutKey = *r.CheckoutKey
	}
	for _, item := range items {
		order.Items = append(order.Items, domain.Item{
			ID:          item.ID,
			OrderID:     item.OrderID,
			ProductID:   item.ProductID,
			ProductName: item.ProductName,
			Quantity:    item.Quantity,
			Price:       item.Price,
			Subtotal:    item.Subtotal,
		})
	}
	return order
}
