package domain

import (
	"errors"
	"strings"
	"time"

	"github.com/shopspring/decimal"
)

var (
	ErrNameRequired  = errors.New("name must not be blank")
	ErrPriceRequired = errors.New("price must not be null")
	ErrNegativePrice = errors.New("price must be greater than or equal to 0")
	ErrNegativeStock = errors.New("stock must be greater than or equal to 0")
	ErrInvalidAmount = errors.New("quantity must be positive")
)

// Details is the editable part of a product.
type Details struct {
	Name        string
	Description string
	Price       *decimal.Decimal
	Stock       int
	Active      *bool
	CategoryID  *int64
}

// Product is a sellable catalog entry. DeletedAt marks a soft delete.
type Product struct {
	ID          int64
	Name        string
	Description string
	Price       decimal.Decimal
	Stock       int
	Active      bool
	ImagePath   string
	CategoryID  *int64
	DeletedAt   *time.Time
	CreatedAt   time.Time
	UpdatedAt   time.Time
}

// NewProduct builds an active product from details.
func NewProduct(details Details) (*Product, error) {
	p := &Product{Active: true}
	if err := p.Revise(details); err != nil {
		return nil, err
	}
	return p, nil
}

// Revise overwrites every editable field. Active is kept when details.Active is nil,
// and a nil CategoryID detaches the product from its category.
func (p *Product) Revise(details Details) error {
	name := strings.TrimSpace(details.Name)
	if name == "" {
		return ErrNameRequired
	}
	if details.Price == nil {
		return ErrPriceRequired
	}
	if details.Price.IsNegative() {
		return ErrNegativePrice
	}
	if details.Stock < 0 {
		return ErrNegativeStock
	}
	p.Name = name
	p.Description = details.Description
	p.Price = *details.Price
	p.Stock = details.Stock
	if details.Active != nil {
		p.Active = *details.Active
	}
	if details.CategoryID != nil {
		id := *details.CategoryID
		p.CategoryID = &id
	} else {
		p.CategoryID = nil
	}
	return nil
}

func (p *Product) AttachImage(path string) {
	p.ImagePath = path
}

func (p *Product) SoftDelete(at time.Time) {
	at = at.UTC()
	p.DeletedAt = &at
}

func (p *Product) IsDeleted() bool {
	return p.DeletedAt != nil
}

// IsPurchasable reports whether the product can be added to carts and orders.
func (p *Product) IsPurchasable() bool {
	return p.Active && !p.IsDeleted()
}

// DecrementStock removes qty units, never going below zero.
func (p *Product) DecrementStock(qty int) error {
	if qty <= 0 {
		return ErrInvalidAmount
	}
	p.Stock -= qty
	if p.Stock < 0 {
		p.Stock = 0
	}
	return nil
}
