package application

import (
	"context"
	"errors"
	"fmt"

	"github.com/finprodb/shop-api/internal/domains/addresses/domain"
	"github.com/finprodb/shop-api/internal/domains/addresses/ports"
)

// ErrInvalidInput signals a rejected address payload.
var ErrInvalidInput = errors.New("invalid address input")

// Service implements address book use cases. A user with any address has
// exactly one default.
type Service struct {
	repo ports.Repository
}

func NewService(repo ports.Repository) *Service {
	return &Service{repo: repo}
}

func (s *Service) List(ctx context.Context, userID int64) ([]*domain.Address, error) {
	return s.repo.ListByUser(ctx, userID)
}

func (s *Service) Get(ctx context.Context, userID, id int64) (*domain.Address, error) {
	return s.repo.GetOwned(ctx, userID, id)
}

func (s *Service) Default(ctx context.Context, userID int64) (*domain.Address, error) {
	addresses, err := s.repo.ListByUser(ctx, userID)
	if err != nil {
		return nil, err
	}
	for _, a := range addresses {
		if a.IsDefault {
			return a, nil
		}
	}
	return nil, ports.ErrNotFound
}

func (s *Service) Create(ctx context.Context, userID int64, fields *domain.Fields) (*domain.Address, error) {
	address, err := domain.NewAddress(userID, fields)
	if err != nil {
		return nil, mapError(err)
	}
	count, err := s.repo.CountByUser(ctx, userID)
	if err != nil {
		return nil, err
	}
	makeDefault := fields.WantsDefault() || count == 0
	address.IsDefault = makeDefault
	saved, err := s.repo.Save(ctx, address)
	if err != nil {
		return nil, err
	}
	if makeDefault {
		if err := s.repo.MarkDefault(ctx, userID, saved.ID); err != nil {
			return nil, err
		}
	}
	return saved, nil
}

func (s *Service) Update(ctx context.Context, userID, id int64, fields *domain.Fields) (*domain.Address, error) {
	address, err := s.repo.GetOwned(ctx, userID, id)
	if err != nil {
		return nil, err
	}
	if err := address.Apply(fields); err != nil {
		return nil, mapError(err)
	}
	if fields.WantsDefault() {
		address.IsDefault = true
	}
	saved, err := s.repo.Save(ctx, address)
	if err != nil {
		return nil, err
	}
	if fields.WantsDefault() {
		if err := s.repo.MarkDefault(ctx, userID, saved.ID); err != nil {
			return nil, err
		}
	}
	return saved, nil
}

// Delete removes the address and promotes the newest remaining one when the
// default was removed.
func (s *Service) Delete(ctx context.Context, userID, id int64) error {
	address, err := s.repo.GetOwned(ctx, userID, id)
	if err != nil {
		return err
	}
	if err := s.repo.Delete(ctx, userID, address.ID); err != nil {
		return err
	}
	if !address.IsDefault {
		return nil
	}
	remaining, err := s.repo.ListByUser(ctx, userID)
	if err != nil {
		return err
	}
	if len(remaining) == 0 {
		return nil
	}
	return s.repo.MarkDefault(ctx, userID, remaining[0].ID)
}

func (s *Service) SetDefault(ctx context.Context, userID, id int64) (*domain.Address, error) {
	address, err := s.repo.GetOwned(ctx, userID, id)
	if err != nil {
		return nil, err
	}
	if err := s.repo.MarkDefault(ctx, userID, address.ID); err != nil {
		return nil, err
	}
	return s.repo.GetOwned(ctx, userID, id)
}

func mapError(err error) error {
	switch {
	case errors.Is(err, domain.ErrInvalidRequest),
		errors.Is(err, domain.ErrLabelRequired),
		errors.Is(err, domain.ErrAddressLineRequired),
		errors.Is(err, domain.ErrPhoneRequired):
		return fmt.Errorf("%w: %w", ErrInvalidInput, err)
	default:
		return err
	}
}

var _ ports.Service = (*Service)(nil)
