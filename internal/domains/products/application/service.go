package application

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strconv"
	"strings"
	"time"

	"golang.org/x/sync/singleflight"

	categoryports "github.com/finprodb/shop-api/internal/domains/categories/ports"
	"github.com/finprodb/shop-api/internal/domains/products/domain"
	"github.com/finprodb/shop-api/internal/domains/products/ports"
	"github.com/finprodb/shop-api/internal/platform/storage"
	"github.com/finprodb/shop-api/internal/shared/pagination"
)

// ErrInvalidInput signals a rejected product payload or upload.
var ErrInvalidInput = errors.New("invalid product input")

// Service implements product use cases.
type Service struct {
	repo       ports.Repository
	categories ports.CategoryLookup
	images     storage.ImageStore
	cache      ports.Cache
	logger     *slog.Logger
	sfg        singleflight.Group
	now        func() time.Time
}

// Option customises the service.
type Option func(*Service)

// WithCache serves public lookups through cache.
func WithCache(cache ports.Cache) Option {
	return func(s *Service) {
		if cache != nil {
			s.cache = cache
		}
	}
}

func WithLogger(logger *slog.Logger) Option {
	return func(s *Service) {
		if logger != nil {
			s.logger = logger
		}
	}
}

func NewService(repo ports.Repository, categories ports.CategoryLookup, images storage.ImageStore, opts ...Option) *Service {
	s := &Service{
		repo:       repo,
		categories: categories,
		images:     images,
		cache:      noopCache{},
		logger:     slog.Default(),
		now:        time.Now,
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

func (s *Service) ListPublic(ctx context.Context, filter ports.ListFilter) (pagination.Page[*domain.Product], error) {
	filter.Page = pagination.Normalize(filter.Page.Page, filter.Page.Size)
	filter.Query = strings.TrimSpace(filter.Query)
	items, total, err := s.repo.ListPublic(ctx, filter)
	if err != nil {
		return pagination.Page[*domain.Product]{}, err
	}
	return pagination.New(items, filter.Page, total), nil
}

// GetPublic returns a purchasable product, collapsing concurrent cache misses
// for the same id into one repository read.
func (s *Service) GetPublic(ctx context.Context, id int64) (*domain.Product, error) {
	v, err, _ := s.sfg.Do(strconv.FormatInt(id, 10), func() (interface{}, error) {
		cached, err := s.cache.Get(ctx, id)
		if err == nil {
			return cached, nil
		}
		if !errors.Is(err, ports.ErrCacheMiss) {
			s.logger.WarnContext(ctx, "product cache get failed", slog.Int64("productId", id), slog.Any("error", err))
		}
		product, err := s.repo.GetActive(ctx, id)
		if err != nil {
			return nil, err
		}
		if !product.IsPurchasable() {
			return nil, ports.ErrNotFound
		}
		if err := s.cache.Set(ctx, product); err != nil {
			s.logger.WarnContext(ctx, "product cache set failed", slog.Int64("productId", id), slog.Any("error", err))
		}
		return product, nil
	})
	if err != nil {
		return nil, err
	}
	product := *v.(*domain.Product)
	return &product, nil
}

func (s *Service) ListAdmin(ctx context.Context, page pagination.Request) (pagination.Page[*domain.Product], error) {
	page = pagination.Normalize(page.Page, page.Size)
	items, total, err := s.repo.ListAdmin(ctx, page)
	if err != nil {
		return pagination.Page[*domain.Product]{}, err
	}
	return pagination.New(items, page, total), nil
}

func (s *Service) Get(ctx context.Context, id int64) (*domain.Product, error) {
	return s.repo.GetActive(ctx, id)
}

func (s *Service) Lookup(ctx context.Context, id int64) (*domain.Product, error) {
	return s.repo.Get(ctx, id)
}

func (s *Service) Create(ctx context.Context, details domain.Details) (*domain.Product, error) {
	product, err := domain.NewProduct(details)
	if err != nil {
		return nil, mapError(err)
	}
	if err := s.checkCategory(ctx, details.CategoryID); err != nil {
		return nil, err
	}
	return s.repo.Save(ctx, product)
}

func (s *Service) Update(ctx context.Context, id int64, details domain.Details) (*domain.Product, error) {
	product, err := s.repo.GetActive(ctx, id)
	if err != nil {
		return nil, err
	}
	if err := product.Revise(details); err != nil {
		return nil, mapError(err)
	}
	if err := s.checkCategory(ctx, details.CategoryID); err != nil {
		return nil, err
	}
	saved, err := s.repo.Save(ctx, product)
	if err != nil {
		return nil, err
	}
	s.evict(ctx, id)
	return saved, nil
}

func (s *Service) Delete(ctx context.Context, id int64) error {
	product, err := s.repo.GetActive(ctx, id)
	if err != nil {
		return err
	}
	product.SoftDelete(s.now())
	if _, err := s.repo.Save(ctx, product); err != nil {
		return err
	}
	s.evict(ctx, id)
	return nil
}

func (s *Service) UploadImage(ctx context.Context, id int64, upload *storage.Upload) (*domain.Product, error) {
	if err := upload.Validate(); err != nil {
		return nil, mapError(err)
	}
	product, err := s.repo.GetActive(ctx, id)
	if err != nil {
		return nil, err
	}
	if s.images == nil {
		return nil, errors.New("image store not configured")
	}
	publicPath, err := s.images.Save(ctx, storage.KindProduct, product.ID, upload)
	if err != nil {
		return nil, mapError(err)
	}
	product.AttachImage(publicPath)
	saved, err := s.repo.Save(ctx, product)
	if err != nil {
		return nil, err
	}
	s.evict(ctx, id)
	return saved, nil
}

// DecrementStock lowers stock after a settled payment. Missing products are ignored.
func (s *Service) DecrementStock(ctx context.Context, id int64, qty int) error {
	if qty <= 0 {
		return nil
	}
	if err := s.repo.DecrementStock(ctx, id, qty); err != nil {
		if errors.Is(err, ports.ErrNotFound) {
			return nil
		}
		return err
	}
	s.evict(ctx, id)
	return nil
}

func (s *Service) checkCategory(ctx context.Context, categoryID *int64) error {
	if categoryID == nil {
		return nil
	}
	if s.categories == nil {
		return ports.ErrCategoryNotFound
	}
	if _, err := s.categories.Get(ctx, *categoryID); err != nil {
		if errors.Is(err, categoryports.ErrNotFound) {
			return ports.ErrCategoryNotFound
		}
		return err
	}
	return nil
}

func (s *Service) evict(ctx context.Context, id int64) {
	if err := s.cache.Delete(ctx, id); err != nil {
		s.logger.WarnContext(ctx, "product cache delete failed", slog.Int64("productId", id), slog.Any("error", err))
	}
}

func mapError(err error) error {
	switch {
	case errors.Is(err, domain.ErrNameRequired),
		errors.Is(err, domain.ErrPriceRequired),
		errors.Is(err, domain.ErrNegativePrice),
		errors.Is(err, domain.ErrNegativeStock),
		errors.Is(err, storage.ErrFileRequired),
		errors.Is(err, storage.ErrNotAnImage):
		return fmt.Errorf("%w: %w", ErrInvalidInput, err)
	default:
		return err
	}
}

type noopCache struct{}

func (noopCache) Get(context.Context, int64) (*domain.Product, error) { return nil, ports.ErrCacheMiss }
func (noopCache) Set(context.Context, *domain.Product) error          { return nil }
func (noopCache) Delete(context.Context, int64) error                 { return nil }

var _ ports.Service = (*Service)(nil)
