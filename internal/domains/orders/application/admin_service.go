package application

import (
	"context"
	"errors"

	"github.com/shopspring/decimal"

	"github.com/finprodb/shop-api/internal/domains/orders/domain"
	"github.com/finprodb/shop-api/internal/domains/orders/ports"
	userdomain "github.com/finprodb/shop-api/internal/domains/users/domain"
	userports "github.com/finprodb/shop-api/internal/domains/users/ports"
	"github.com/finprodb/shop-api/internal/shared/pagination"
)

// AdminService implements order moderation for the admin console.
type AdminService struct {
	orders   *Service
	users    ports.UserDirectory
	payments ports.PaymentStatusLookup
	courier  domain.CourierAssigner
}

// AdminOption customises the admin service.
type AdminOption func(*AdminService)

// WithPaymentStatus enables the paymentStatus column.
func WithPaymentStatus(lookup ports.PaymentStatusLookup) AdminOption {
	return func(s *AdminService) {
		s.payments = lookup
	}
}

func WithCourier(courier domain.CourierAssigner) AdminOption {
	return func(s *AdminService) {
		if courier != nil {
			s.courier = courier
		}
	}
}

func NewAdminService(orders *Service, users ports.UserDirectory, opts ...AdminOption) *AdminService {
	s := &AdminService{orders: orders, users: users, courier: domain.RandomCourier{}}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

func (s *AdminService) List(ctx context.Context, status *domain.Status, page pagination.Request) (pagination.Page[*ports.AdminView], error) {
	page = pagination.Normalize(page.Page, page.Size)
	orders, total, err := s.orders.repo.List(ctx, status, page)
	if err != nil {
		return pagination.Page[*ports.AdminView]{}, err
	}
	views := make([]*ports.AdminView, 0, len(orders))
	for _, order := range orders {
		view, err := s.view(ctx, order, false)
		if err != nil {
			return pagination.Page[*ports.AdminView]{}, err
		}
		views = append(views, view)
	}
	return pagination.New(views, page, total), nil
}

func (s *AdminService) Get(ctx context.Context, orderID int64) (*ports.AdminView, error) {
	order, err := s.orders.repo.Get(ctx, orderID)
	if err != nil {
		return nil, err
	}
	return s.view(ctx, order, true)
}

func (s *AdminService) Approve(ctx context.Context, orderID, adminID int64) (*ports.AdminView, error) {
	return s.mutate(ctx, orderID, func(o *domain.Order) error {
		return o.Approve(adminID, s.courier, s.orders.now())
	})
}

func (s *AdminService) Reject(ctx context.Context, orderID, adminID int64) (*ports.AdminView, error) {
	return s.mutate(ctx, orderID, func(o *domain.Order) error {
		return o.Reject(adminID, s.orders.now())
	})
}

func (s *AdminService) StartDelivery(ctx context.Context, orderID int64) (*ports.AdminView, error) {
	order, err := s.orders.repo.Get(ctx, orderID)
	if err != nil {
		return nil, err
	}
	changed, err := order.StartDelivery(s.courier, s.orders.now())
	if err != nil {
		return nil, mapError(err)
	}
	if changed {
		if order, err = s.orders.save(ctx, order); err != nil {
			return nil, err
		}
	}
	return s.view(ctx, order, true)
}

func (s *AdminService) MarkDelivered(ctx context.Context, orderID int64) (*ports.AdminView, error) {
	return s.mutate(ctx, orderID, func(o *domain.Order) error {
		return o.MarkDelivered(s.orders.now())
	})
}

func (s *AdminService) Summary(ctx context.Context) (*ports.Summary, error) {
	repo := s.orders.repo
	summary := &ports.Summary{PaidRevenue: decimal.Zero}
	var err error
	if summary.TotalOrders, err = repo.Count(ctx, nil); err != nil {
		return nil, err
	}
	counts := []struct {
		status domain.Status
		dst    *int64
	}{
		{domain.StatusPendingPayment, &summary.PendingPaymentOrders},
		{domain.StatusPaid, &summary.PaidOrders},
		{domain.StatusCancelled, &summary.CancelledOrders},
	}
	for _, c := range counts {
		status := c.status
		if *c.dst, err = repo.Count(ctx, &status); err != nil {
			return nil, err
		}
	}
	if summary.PaidRevenue, err = repo.SumTotal(ctx, domain.StatusPaid); err != nil {
		return nil, err
	}
	if s.users != nil {
		if summary.TotalUserRoleUser, err = s.users.CountByRole(ctx, userdomain.RoleUser); err != nil {
			return nil, err
		}
	}
	return summary, nil
}

func (s *AdminService) mutate(ctx context.Context, orderID int64, apply func(*domain.Order) error) (*ports.AdminView, error) {
	order, err := s.orders.repo.Get(ctx, orderID)
	if err != nil {
		return nil, err
	}
	if err := apply(order); err != nil {
		return nil, mapError(err)
	}
	saved, err := s.orders.save(ctx, order)
	if err != nil {
		return nil, err
	}
	return s.view(ctx, saved, true)
}

func (s *AdminService) view(ctx context.Context, order *domain.Order, withItems bool) (*ports.AdminView, error) {
	view := &ports.AdminView{Order: order, WithItems: withItems}
	if s.users != nil {
		customer, err := s.lookupUser(ctx, order.UserID)
		if err != nil {
			return nil, err
		}
		view.Customer = customer
		if order.ApprovedBy != nil {
			approver, err := s.lookupUser(ctx, *order.ApprovedBy)
			if err != nil {
				return nil, err
			}
			view.ApprovedBy = approver
		}
	}
	if s.payments != nil {
		status, err := s.payments.LatestStatus(ctx, order.ID)
		if err != nil {
			return nil, err
		}
		view.PaymentStatus = status
	}
	return view, nil
}

func (s *AdminService) lookupUser(ctx context.Context, id int64) (*userdomain.User, error) {
	user, err := s.users.GetByID(ctx, id)
	if errors.Is(err, userports.ErrNotFound) {
		return nil, nil
	}
	return user, err
}

var _ ports.AdminService = (*AdminService)(nil)
