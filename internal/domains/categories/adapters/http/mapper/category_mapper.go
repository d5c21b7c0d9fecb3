package mapper

import (
	"time"

	"github.com/finprodb/shop-api/internal/domains/categories/domain"
	"github.com/finprodb/shop-api/internal/domains/categories/ports"
)

// Category is the transport view of a catalog category.
type Category struct {
	ID          int64     `json:"id"`
	Name        string    `json:"name"`
	Description string    `json:"description"`
	ImagePath   *string   `json:"imagePath"`
	IsDeleted   bool      `json:"isDeleted"`
	CreatedAt   time.Time `json:"createdAt"`
	UpdatedAt   time.Time `json:"updatedAt"`
}

// CategoryRequest is the admin create/update payload.
type CategoryRequest struct {
	Name        string `json:"name" binding:"required"`
	Description string `json:"description"`
}

func ToInput(req CategoryRequest) ports.CategoryInput {
	return ports.CategoryInput{Name: req.Name, Description: req.Description}
}

func FromDomain(c *domain.Category) Category {
	if c == nil {
		return Category{}
	}
	out := Category{
		ID:          c.ID,
		Name:        c.Name,
		Description: c.Description,
		IsDeleted:   c.Deleted,
		CreatedAt:   c.CreatedAt,
		UpdatedAt:   c.UpdatedAt,
	}
	if c.ImagePath != "" {
		path := c.ImagePath
		out.ImagePath = &path
	}
	return out
}
