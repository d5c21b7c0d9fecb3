package mapper

import (
	"time"

	"github.com/shopspring/decimal"

	"github.com/finprodb/shop-api/internal/domains/products/domain"
)

// Product is the transport view of a catalog product.
type Product struct {
	ID          int64           `json:"id"`
	Name        string          `json:"name"`
	Description string          `json:"description"`
	Price       decimal.Decimal `json:"price"`
	Stock       int             `json:"stock"`
	Active      bool            `json:"active"`
	ImagePath   *string         `json:"imagePath"`
	CategoryID  *int64          `json:"categoryId"`
	CreatedAt   time.Time       `json:"createdAt"`
	UpdatedAt   time.Time       `json:"updatedAt"`
}

// ProductRequest is the admin create/update payload.
type ProductRequest struct {
	Name        string           `json:"name" binding:"required"`
	Description string           `json:"description"`
	Price       *decimal.Decimal `json:"price" binding:"required"`
	Stock       *int             `json:"stock" binding:"required,min=0"`
	Active      *bool            `json:"active"`
	CategoryID  *int64           `json:"categoryId"`
}

func ToDetails(req ProductRequest) domain.Details {
	details := domain.Details{
		Name:        req.Name,
		Description: req.Description,
		Price:       req.Price,
		Active:      req.Active,
		CategoryID:  req.CategoryID,
	}
	if req.Stock != nil {
		details.Stock = *req.Stock
	}
	return details
}

func FromDomain(p *domain.Product) Product {
	if p == nil {
		return Product{}
	}
	out := Product{
		ID:          p.ID,
		Name:        p.Name,
		Description: p.Description,
		Price:       p.Price,
		Stock:       p.Stock,
		Active:      p.Active,
		CategoryID:  p.CategoryID,
		CreatedAt:   p.CreatedAt,
		UpdatedAt:   p.UpdatedAt,
	}
	if p.ImagePath != "" {
		path := p.ImagePath
		out.ImagePath = &path
	}
	return out
}
