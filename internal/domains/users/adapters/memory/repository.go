package memory

import (
	"context"
	"errors"
	"sort"
	"strings"
	"sync"
	"time"

	"github.com/finprodb/shop-api/internal/domains/users/domain"
	"github.com/finprodb/shop-api/internal/domains/users/ports"
	"github.com/finprodb/shop-api/internal/shared/pagination"
)

var _ ports.Repository = (*Repository)(nil)

// Repository keeps accounts in memory for local runs and tests.
type Repository struct {
	mu     sync.RWMutex
	users  map[int64]*domain.User
	nextID int64
}

func NewRepository() *Repository {
	return &Repository{users: map[int64]*domain.User{}}
}

func (r *Repository) Create(_ context.Context, user *domain.User) (*domain.User, error) {
	if user == nil {
		return nil, errors.New("user is nil")
	}
	clone := *user
	if err := clone.Validate(); err != nil {
		return nil, err
	}
	r.mu.Lock()
	defer r.mu.Unlock()
	if err := r.checkUniqueLocked(&clone); err != nil {
		return nil, err
	}
	r.nextID++
	clone.ID = r.nextID
	now := time.Now().UTC()
	clone.CreatedAt, clone.UpdatedAt = now, now
	r.users[clone.ID] = &clone
	out := clone
	return &out, nil
}

func (r *Repository) Update(_ context.Context, user *domain.User) (*domain.User, error) {
	if user == nil {
		return nil, errors.New("user is nil")
	}
	clone := *user
	if err := clone.Validate(); err != nil {
		return nil, err
	}
	r.mu.Lock()
	defer r.mu.Unlock()
	existing, ok := r.users[clone.ID]
	if !ok {
		return nil, ports.ErrNotFound
	}
	if err := r.checkUniqueLocked(&clone); err != nil {
		return nil, err
	}
	clone.CreatedAt = existing.CreatedAt
	clone.UpdatedAt = time.Now().UTC()
	r.users[clone.ID] = &clone
	out := clone
	return &out, nil
}

func (r *Repository) GetByID(_ context.Context, id int64) (*domain.User, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	user, ok := r.users[id]
	if !ok {
		return nil, ports.ErrNotFound
	}
	clone := *user
	return &clone, nil
}

func (r *Repository) GetByUsername(_ context.Context, username string) (*domain.User, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return r.findLocked(func(u *domain.User) bool { return u.Username == strings.TrimSpace(username) })
}

func (r *Repository) GetByLogin(_ context.Context, identifier string) (*domain.User, error) {
	identifier = strings.TrimSpace(identifier)
	r.mu.RLock()
	defer r.mu.RUnlock()
	if user, err := r.findLocked(func(u *domain.User) bool { return u.Username == identifier }); err == nil {
		return user, nil
	}
	return r.findLocked(func(u *domain.User) bool { return u.Email == identifier })
}

func (r *Repository) ExistsByUsername(ctx context.Context, username string) (bool, error) {
	_, err := r.GetByUsername(ctx, username)
	return existence(err)
}

func (r *Repository) ExistsByEmail(_ context.Context, email string) (bool, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	_, err := r.findLocked(func(u *domain.User) bool { return u.Email == strings.TrimSpace(email) })
	return existence(err)
}

func (r *Repository) List(_ context.Context, page pagination.Request) ([]*domain.User, int64, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	all := make([]*domain.User, 0, len(r.users))
	for _, user := range r.users {
		clone := *user
		all = append(all, &clone)
	}
	sort.Slice(all, func(i, j int) bool { return all[i].ID < all[j].ID })
	start, end := page.Window(len(all))
	return all[start:end], int64(len(all)), nil
}

func (r *Repository) CountByRole(_ context.Context, role domain.Role) (int64, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	var count int64
	for _, user := range r.users {
		if user.Role == role {
			count++
		}
	}
	return count, nil
}

func (r *Repository) findLocked(match func(*domain.User) bool) (*domain.User, error) {
	for _, user := range r.users {
		if match(user) {
			clone := *user
			return &clone, nil
		}
	}
	return nil, ports.ErrNotFound
}

func (r *Repository) checkUniqueLocked(candidate *domain.User) error {
	for id, user := range r.users {
		if id == candidate.ID {
			continue
		}
		if user.Username == candidate.Username {
			return domain.ErrUsernameTaken
		}
		if user.Email == candidate.Email {
			return domain.ErrEmailTaken
		}
	}
	return nil
}

func existence(err error) (bool, error) {
	if err == nil {
		return true, nil
	}
	if errors.Is(err, ports.ErrNotFound) {
		return false, nil
	}
	return false, err
}
