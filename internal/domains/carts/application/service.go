package application

import (
	"context"
	"errors"
	"fmt"

	"github.com/finprodb/shop-api/internal/domains/carts/domain"
	"github.com/finprodb/shop-api/internal/domains/carts/ports"
	productports "github.com/finprodb/shop-api/internal/domains/products/ports"
)

// ErrInvalidInput signals a rejected cart request.
var ErrInvalidInput = errors.New("invalid cart input")

// Service implements cart use cases.
type Service struct {
	repo     ports.Repository
	products ports.ProductCatalog
}

func NewService(repo ports.Repository, products ports.ProductCatalog) *Service {
	return &Service{repo: repo, products: products}
}

// Lines returns the user's cart. Lines whose product row is gone entirely are skipped.
func (s *Service) Lines(ctx context.Context, userID int64) ([]ports.Line, error) {
	items, err := s.repo.ListByUser(ctx, userID)
	if err != nil {
		return nil, err
	}
	lines := make([]ports.Line, 0, len(items))
	for _, item := range items {
		product, err := s.products.Lookup(ctx, item.ProductID)
		if err != nil {
			if errors.Is(err, productports.ErrNotFound) {
				continue
			}
			return nil, err
		}
		lines = append(lines, ports.Line{Item: item, Product: product})
	}
	return lines, nil
}

func (s *Service) AddItem(ctx context.Context, userID, productID int64, qty int) (*ports.Line, error) {
	product, err := s.products.Get(ctx, productID)
	if err != nil {
		if errors.Is(err, productports.ErrNotFound) {
			return nil, ports.ErrProductNotFound
		}
		return nil, err
	}
	if !product.Active {
		return nil, ports.ErrProductInactive
	}
	item, err := s.repo.FindByUserAndProduct(ctx, userID, productID)
	if errors.Is(err, ports.ErrNotFound) {
		item = domain.NewCartItem(userID, productID)
	} else if err != nil {
		return nil, err
	}
	if err := item.Add(qty); err != nil {
		return nil, mapError(err)
	}
	saved, err := s.repo.Save(ctx, item)
	if err != nil {
		return nil, err
	}
	return &ports.Line{Item: saved, Product: product}, nil
}

func (s *Service) UpdateQuantity(ctx context.Context, userID, itemID int64, qty int) (*ports.Line, error) {
	item, err := s.owned(ctx, userID, itemID)
	if err != nil {
		return nil, err
	}
	if err := item.SetQuantity(qty); err != nil {
		return nil, mapError(err)
	}
	saved, err := s.repo.Save(ctx, item)
	if err != nil {
		return nil, err
	}
	product, err := s.products.Lookup(ctx, saved.ProductID)
	if err != nil {
		return nil, err
	}
	return &ports.Line{Item: saved, Product: product}, nil
}

func (s *Service) RemoveItem(ctx context.Context, userID, itemID int64) error {
	item, err := s.owned(ctx, userID, itemID)
	if err != nil {
		return err
	}
	return s.repo.Delete(ctx, item.ID)
}

func (s *Service) Clear(ctx context.Context, userID int64) error {
	return s.repo.DeleteByUser(ctx, userID)
}

func (s *Service) owned(ctx context.Context, userID, itemID int64) (*domain.CartItem, error) {
	item, err := s.repo.Get(ctx, itemID)
	if err != nil {
		return nil, err
	}
	if !item.OwnedBy(userID) {
		return nil, ports.ErrForbidden
	}
	return item, nil
}

func mapError(err error) error {
	if errors.Is(err, domain.ErrInvalidQuantity) {
		return fmt.Errorf("%w: %w", ErrInvalidInput, err)
	}
	return err
}

var _ ports.Service = (*Service)(nil)
