package ports

import (
	"context"

	"github.com/shopspring/decimal"

	"github.com/finprodb/shop-api/internal/domains/carts/domain"
	productdomain "github.com/finprodb/shop-api/internal/domains/products/domain"
)

// ProductCatalog resolves the products referenced by cart lines.
type ProductCatalog interface {
	Get(ctx context.Context, id int64) (*productdomain.Product, error)
	Lookup(ctx context.Context, id int64) (*productdomain.Product, error)
}

// Line is a cart item joined with its product.
type Line struct {
	Item    *domain.CartItem
	Product *productdomain.Product
}

// Subtotal is price times quantity.
func (l Line) Subtotal() decimal.Decimal {
	if l.Product == nil || l.Item == nil {
		return decimal.Zero
	}
	return l.Product.Price.Mul(decimal.NewFromInt(int64(l.Item.Quantity)))
}

// Service exposes cart use cases for the signed-in user.
type Service interface {
	Lines(ctx context.Context, userID int64) ([]Line, error)
	AddItem(ctx context.Context, userID, productID int64, qty int) (*Line, error)
	UpdateQuantity(ctx context.Context, userID, itemID int64, qty int) (*Line, error)
	RemoveItem(ctx context.Context, userID, itemID int64) error
	Clear(ctx context.Context, userID int64) error
}
