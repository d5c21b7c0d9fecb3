package application

import (
	"context"
	"errors"
	"strings"

	"github.com/finprodb/shop-api/internal/domains/users/domain"
	"github.com/finprodb/shop-api/internal/domains/users/ports"
	"github.com/finprodb/shop-api/internal/shared/pagination"
)

const tokenTypeBearer = "Bearer"

// Service exposes account bounded context use cases.
type Service struct {
	repo   ports.Repository
	hasher ports.PasswordHasher
	tokens ports.TokenIssuer
}

func NewService(repo ports.Repository, hasher ports.PasswordHasher, tokens ports.TokenIssuer) *Service {
	return &Service{repo: repo, hasher: hasher, tokens: tokens}
}

func (s *Service) Register(ctx context.Context, input ports.RegisterInput) (*ports.AuthResult, error) {
	if strings.TrimSpace(input.Password) == "" {
		return nil, mapError(domain.ErrPasswordRequired)
	}
	if err := s.ensureUnique(ctx, input.Username, input.Email); err != nil {
		return nil, mapError(err)
	}
	hash, err := s.hasher.Hash(input.Password)
	if err != nil {
		return nil, err
	}
	user, err := domain.NewUser(input.Name, input.Username, input.Email, hash, domain.RoleUser)
	if err != nil {
		return nil, mapError(err)
	}
	saved, err := s.repo.Create(ctx, user)
	if err != nil {
		return nil, mapError(err)
	}
	return s.issue(saved)
}

func (s *Service) Login(ctx context.Context, identifier, password string) (*ports.AuthResult, error) {
	identifier = strings.TrimSpace(identifier)
	if identifier == "" || password == "" {
		return nil, mapError(domain.ErrInvalidCredential)
	}
	user, err := s.repo.GetByLogin(ctx, identifier)
	if err != nil {
		if errors.Is(err, ports.ErrNotFound) {
			return nil, mapError(domain.ErrInvalidCredential)
		}
		return nil, err
	}
	if !s.hasher.Matches(user.PasswordHash, password) {
		return nil, mapError(domain.ErrInvalidCredential)
	}
	return s.issue(user)
}

// Authenticate resolves a bearer token to the current account.
func (s *Service) Authenticate(ctx context.Context, token string) (*domain.User, error) {
	claims, err := s.tokens.Parse(strings.TrimSpace(token))
	if err != nil {
		return nil, mapError(ports.ErrInvalidToken)
	}
	user, err := s.repo.GetByUsername(ctx, claims.Subject)
	if err != nil {
		if errors.Is(err, ports.ErrNotFound) {
			return nil, mapError(ports.ErrInvalidToken)
		}
		return nil, err
	}
	return user, nil
}

func (s *Service) Me(ctx context.Context, userID int64) (*domain.User, error) {
	return s.GetByID(ctx, userID)
}

func (s *Service) UpdateMe(ctx context.Context, userID int64, update *ports.ProfileUpdate) (*domain.User, error) {
	if update == nil {
		return nil, mapError(domain.ErrInvalidRequest)
	}
	user, err := s.repo.GetByID(ctx, userID)
	if err != nil {
		return nil, mapError(err)
	}
	if name := trimmed(update.Name); name != "" {
		if err := user.Rename(name); err != nil {
			return nil, mapError(err)
		}
	}
	if username := trimmed(update.Username); username != "" && username != user.Username {
		taken, err := s.repo.ExistsByUsername(ctx, username)
		if err != nil {
			return nil, err
		}
		if taken {
			return nil, mapError(domain.ErrUsernameTaken)
		}
		if err := user.ChangeUsername(username); err != nil {
			return nil, mapError(err)
		}
	}
	if email := trimmed(update.Email); email != "" && email != user.Email {
		taken, err := s.repo.ExistsByEmail(ctx, email)
		if err != nil {
			return nil, err
		}
		if taken {
			return nil, mapError(domain.ErrEmailTaken)
		}
		if err := user.ChangeEmail(email); err != nil {
			return nil, mapError(err)
		}
	}
	saved, err := s.repo.Update(ctx, user)
	if err != nil {
		return nil, mapError(err)
	}
	return saved, nil
}

func (s *Service) GetByID(ctx context.Context, userID int64) (*domain.User, error) {
	user, err := s.repo.GetByID(ctx, userID)
	if err != nil {
		return nil, mapError(err)
	}
	return user, nil
}

func (s *Service) ListUsers(ctx context.Context, page pagination.Request) (pagination.Page[*domain.User], error) {
	page = pagination.Normalize(page.Page, page.Size)
	users, total, err := s.repo.List(ctx, page)
	if err != nil {
		return pagination.Page[*domain.User]{}, err
	}
	return pagination.New(users, page, total), nil
}

func (s *Service) CountByRole(ctx context.Context, role domain.Role) (int64, error) {
	return s.repo.CountByRole(ctx, role)
}

// EnsureAdmin creates the bootstrap admin account unless its username or email is already taken.
func (s *Service) EnsureAdmin(ctx context.Context, cfg ports.BootstrapAdmin) (bool, error) {
	if !cfg.Enabled {
		return false, nil
	}
	usernameTaken, err := s.repo.ExistsByUsername(ctx, cfg.Username)
	if err != nil {
		return false, err
	}
	emailTaken, err := s.repo.ExistsByEmail(ctx, cfg.Email)
	if err != nil {
		return false, err
	}
	if usernameTaken || emailTaken {
		return false, nil
	}
	hash, err := s.hasher.Hash(cfg.Password)
	if err != nil {
		return false, err
	}
	admin, err := domain.NewUser(cfg.Name, cfg.Username, cfg.Email, hash, domain.RoleAdmin)
	if err != nil {
		return false, mapError(err)
	}
	if _, err := s.repo.Create(ctx, admin); err != nil {
		return false, err
	}
	return true, nil
}

func (s *Service) ensureUnique(ctx context.Context, username, email string) error {
	taken, err := s.repo.ExistsByUsername(ctx, strings.TrimSpace(username))
	if err != nil {
		return err
	}
	if taken {
		return domain.ErrUsernameTaken
	}
	taken, err = s.repo.ExistsByEmail(ctx, strings.TrimSpace(email))
	if err != nil {
		return err
	}
	if taken {
		return domain.ErrEmailTaken
	}
	return nil
}

func (s *Service) issue(user *domain.User) (*ports.AuthResult, error) {
	token, err := s.tokens.Issue(user)
	if err != nil {
		return nil, err
	}
	return &ports.AuthResult{Token: token, TokenType: tokenTypeBearer, User: user}, nil
}

func trimmed(value *string) string {
	if value == nil {
		return ""
	}
	return strings.TrimSpace(*value)
}

var _ ports.Service = (*Service)(nil)
