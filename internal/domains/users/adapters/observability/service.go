package observability

import (
	"context"
	"log/slog"

	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/metric"
	"go.opentelemetry.io/otel/trace"

	userdomain "github.com/finprodb/shop-api/internal/domains/users/domain"
	userports "github.com/finprodb/shop-api/internal/domains/users/ports"
	platformobs "github.com/finprodb/shop-api/internal/platform/observability"
	"github.com/finprodb/shop-api/internal/shared/pagination"
)

const tracerName = "github.com/finprodb/shop-api/internal/domains/users/adapters/observability/service"

// Service decorates the account service with tracing, logging, and metrics.
type Service struct {
	inner userports.Service
	platformobs.Decorator
	registrations metric.Int64Counter
	logins        metric.Int64Counter
	loginFailures metric.Int64Counter
	profileEdits  metric.Int64Counter
}

// New wraps the core account service.
func New(inner userports.Service, opts ...platformobs.Option) userports.Service {
	d := platformobs.NewDecorator(tracerName, opts...)
	return &Service{
		inner:         inner,
		Decorator:     d,
		registrations: d.Counter("users.service.registrations", "Number of accounts registered"),
		logins:        d.Counter("users.service.logins", "Number of successful logins"),
		loginFailures: d.Counter("users.service.login_failures", "Number of rejected logins"),
		profileEdits:  d.Counter("users.service.profile_updates", "Number of profile updates"),
	}
}

func (s *Service) Register(ctx context.Context, input userports.RegisterInput) (*userports.AuthResult, error) {
	ctx, span := s.Tracer.Start(ctx, "UserService.Register", trace.WithAttributes(attribute.String("user.username", input.Username)))
	defer span.End()
	result, err := s.inner.Register(ctx, input)
	if err != nil {
		return nil, s.HandleError(ctx, span, err, "failed to register user", slog.String("username", input.Username))
	}
	platformobs.Add(ctx, s.registrations)
	s.LogInfo(ctx, "user registered", slog.Int64("userId", result.User.ID))
	return result, nil
}

func (s *Service) Login(ctx context.Context, identifier, password string) (*userports.AuthResult, error) {
	ctx, span := s.Tracer.Start(ctx, "UserService.Login")
	defer span.End()
	result, err := s.inner.Login(ctx, identifier, password)
	if err != nil {
		platformobs.Add(ctx, s.loginFailures)
		return nil, s.HandleError(ctx, span, err, "login failed")
	}
	span.SetAttributes(attribute.Int64("user.id", result.User.ID))
	platformobs.Add(ctx, s.logins)
	return result, nil
}

func (s *Service) Authenticate(ctx context.Context, token string) (*userdomain.User, error) {
	ctx, span := s.Tracer.Start(ctx, "UserService.Authenticate")
	defer span.End()
	return s.inner.Authenticate(ctx, token)
}

func (s *Service) Me(ctx context.Context, userID int64) (*userdomain.User, error) {
	ctx, span := s.Tracer.Start(ctx, "UserService.Me", trace.WithAttributes(attribute.Int64("user.id", userID)))
	defer span.End()
	return s.inner.Me(ctx, userID)
}

func (s *Service) UpdateMe(ctx context.Context, userID int64, update *userports.ProfileUpdate) (*userdomain.User, error) {
	ctx, span := s.Tracer.Start(ctx, "UserService.UpdateMe", trace.WithAttributes(attribute.Int64("user.id", userID)))
	defer span.End()
	result, err := s.inner.UpdateMe(ctx, userID, update)
	if err != nil {
		return nil, s.HandleError(ctx, span, err, "failed to update profile", slog.Int64("userId", userID))
	}
	platformobs.Add(ctx, s.profileEdits)
	return result, nil
}

func (s *Service) GetByID(ctx context.Context, userID int64) (*userdomain.User, error) {
	ctx, span := s.Tracer.Start(ctx, "UserService.GetByID", trace.WithAttributes(attribute.Int64("user.id", userID)))
	defer span.End()
	return s.inner.GetByID(ctx, userID)
}

func (s *Service) ListUsers(ctx context.Context, page pagination.Request) (pagination.Page[*userdomain.User], error) {
	ctx, span := s.Tracer.Start(ctx, "UserService.ListUsers", trace.WithAttributes(attribute.Int("page.number", page.Page)))
	defer span.End()
	result, err := s.inner.ListUsers(ctx, page)
	if err != nil {
		return result, s.HandleError(ctx, span, err, "failed to list users")
	}
	return result, nil
}

func (s *Service) CountByRole(ctx context.Context, role userdomain.Role) (int64, error) {
	ctx, span := s.Tracer.Start(ctx, "UserService.CountByRole", trace.WithAttributes(attribute.String("user.role", string(role))))
	defer span.End()
	return s.inner.CountByRole(ctx, role)
}

func (s *Service) EnsureAdmin(ctx context.Context, cfg userports.BootstrapAdmin) (bool, error) {
	ctx, span := s.Tracer.Start(ctx, "UserService.EnsureAdmin", trace.WithAttributes(attribute.String("user.username", cfg.Username)))
	defer span.End()
	created, err := s.inner.EnsureAdmin(ctx, cfg)
	if err != nil {
		return false, s.HandleError(ctx, span, err, "admin bootstrap failed", slog.String("username", cfg.Username))
	}
	if created {
		s.LogInfo(ctx, "bootstrap admin created", slog.String("username", cfg.Username))
	}
	return created, nil
}

var _ userports.Service = (*Service)(nil)
