package application

import (
	"context"
	"errors"
	"fmt"

	"github.com/finprodb/shop-api/internal/domains/categories/domain"
	"github.com/finprodb/shop-api/internal/domains/categories/ports"
	"github.com/finprodb/shop-api/internal/platform/storage"
	"github.com/finprodb/shop-api/internal/shared/pagination"
)

// ErrInvalidInput signals a rejected category payload or upload.
var ErrInvalidInput = errors.New("invalid category input")

// Service implements category use cases.
type Service struct {
	repo   ports.Repository
	images storage.ImageStore
}

func NewService(repo ports.Repository, images storage.ImageStore) *Service {
	return &Service{repo: repo, images: images}
}

func (s *Service) ListPublic(ctx context.Context, page pagination.Request) (pagination.Page[*domain.Category], error) {
	return s.list(ctx, page, false)
}

func (s *Service) ListAdmin(ctx context.Context, page pagination.Request) (pagination.Page[*domain.Category], error) {
	return s.list(ctx, page, true)
}

func (s *Service) Get(ctx context.Context, id int64) (*domain.Category, error) {
	return s.repo.GetActive(ctx, id)
}

func (s *Service) Create(ctx context.Context, input ports.CategoryInput) (*domain.Category, error) {
	category, err := domain.NewCategory(input.Name, input.Description)
	if err != nil {
		return nil, mapError(err)
	}
	return s.repo.Save(ctx, category)
}

func (s *Service) Update(ctx context.Context, id int64, input ports.CategoryInput) (*domain.Category, error) {
	category, err := s.repo.GetActive(ctx, id)
	if err != nil {
		return nil, err
	}
	if err := category.Revise(input.Name, input.Description); err != nil {
		return nil, mapError(err)
	}
	return s.repo.Save(ctx, category)
}

func (s *Service) Delete(ctx context.Context, id int64) error {
	category, err := s.repo.GetActive(ctx, id)
	if err != nil {
		return err
	}
	category.SoftDelete()
	_, err = s.repo.Save(ctx, category)
	return err
}

func (s *Service) UploadImage(ctx context.Context, id int64, upload *storage.Upload) (*domain.Category, error) {
	if err := upload.Validate(); err != nil {
		return nil, mapError(err)
	}
	category, err := s.repo.GetActive(ctx, id)
	if err != nil {
		return nil, err
	}
	if s.images == nil {
		return nil, errors.New("image store not configured")
	}
	publicPath, err := s.images.Save(ctx, storage.KindCategory, category.ID, upload)
	if err != nil {
		return nil, mapError(err)
	}
	category.AttachImage(publicPath)
	return s.repo.Save(ctx, category)
}

func (s *Service) list(ctx context.Context, page pagination.Request, newestFirst bool) (pagination.Page[*domain.Category], error) {
	page = pagination.Normalize(page.Page, page.Size)
	items, total, err := s.repo.ListActive(ctx, page, newestFirst)
	if err != nil {
		return pagination.Page[*domain.Category]{}, err
	}
	return pagination.New(items, page, total), nil
}

func mapError(err error) error {
	if errors.Is(err, domain.ErrNameRequired) ||
		errors.Is(err, storage.ErrFileRequired) ||
		errors.Is(err, storage.ErrNotAnImage) {
		return fmt.Errorf("%w: %w", ErrInvalidInput, err)
	}
	return err
}

var _ ports.Service = (*Service)(nil)
