package domain

import (
	"errors"
	"strings"
	"time"
)

var ErrNameRequired = errors.New("name must not be blank")

// Category groups products in the catalog. Deleted categories stay in storage.
type Category struct {
	ID          int64
	Name        string
	Description string
	ImagePath   string
	Deleted     bool
	CreatedAt   time.Time
	UpdatedAt   time.Time
}

// NewCategory builds a category with a required name.
func NewCategory(name, description string) (*Category, error) {
	c := &Category{}
	if err := c.Revise(name, description); err != nil {
		return nil, err
	}
	return c, nil
}

// Revise replaces name and description.
func (c *Category) Revise(name, description string) error {
	name = strings.TrimSpace(name)
	if name == "" {
		return ErrNameRequired
	}
	c.Name = name
	c.Description = strings.TrimSpace(description)
	return nil
}

// AttachImage records the public path of the category image.
func (c *Category) AttachImage(path string) {
	c.ImagePath = path
}

// SoftDelete hides the category from every listing.
func (c *Category) SoftDelete() {
	c.Deleted = true
}
