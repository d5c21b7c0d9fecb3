package migrations

import (
	"time"

	"github.com/lib/pq"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

// Run applies the shop schema. Adapters never migrate on their own.
func Run(db *gorm.DB) error {
	if db == nil {
		return nil
	}
	return db.AutoMigrate(
		&userRecord{},
		&categoryRecord{},
		&productRecord{},
		&cartItemRecord{},
		&addressRecord{},
		&orderRecord{},
		&orderItemRecord{},
		&paymentTransactionRecord{},
	)
}

// User schema mirrors the users Postgres adapter.
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

// Cart lines are unique per (user, product).
type cartItemRecord struct {
	ID        int64     `gorm:"primaryKey;column:id"`
	UserID    int64     `gorm:"column:user_id;not null;uniqueIndex:uk_cart_user_product"`
	ProductID int64     `gorm:"column:product_id;not null;uniqueIndex:uk_cart_user_product"`
	Quantity  int       `gorm:"column:quantity;not null"`
	CreatedAt time.Time `gorm:"column:created_at"`
	UpdatedAt time.Time `gorm:"column:updated_at"`
}

func (cartItemRecord) TableName() string { return "cart_items" }

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

// Order schema mirrors the orders Postgres adapter.
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

// Payment transactions keep their status trail in a text[] column.
type paymentTransactionRecord struct {
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

func (paymentTransactionRecord) TableName() string { return "payment_transactions" }
