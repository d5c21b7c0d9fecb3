package domain

import (
	"errors"
	"time"
)

var ErrInvalidQuantity = errors.New("quantity must be greater than or equal to 1")

// CartItem is one product line in a user's cart. A user holds at most one
// line per product.
type CartItem struct {
	ID        int64
	UserID    int64
	ProductID int64
	Quantity  int
	CreatedAt time.Time
	UpdatedAt time.Time
}

func NewCartItem(userID, productID int64) *CartItem {
	return &CartItem{UserID: userID, ProductID: productID}
}

// Add accumulates qty onto the line.
func (c *CartItem) Add(qty int) error {
	if qty < 1 {
		return ErrInvalidQuantity
	}
	c.Quantity += qty
	return nil
}

// SetQuantity replaces the line quantity.
func (c *CartItem) SetQuantity(qty int) error {
	if qty < 1 {
		return ErrInvalidQuantity
	}
	c.Quantity = qty
	return nil
}

func (c *CartItem) OwnedBy(userID int64) bool {
	return c.UserID == userID
}
