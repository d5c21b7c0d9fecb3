package application

import (
	"context"
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	cartports "github.com/finprodb/shop-api/internal/domains/carts/ports"
	"github.com/finprodb/shop-api/internal/domains/orders/domain"
	"github.com/finprodb/shop-api/internal/domains/orders/ports"
	userdomain "github.com/finprodb/shop-api/internal/domains/users/domain"
	userports "github.com/finprodb/shop-api/internal/domains/users/ports"
	"github.com/finprodb/shop-api/internal/shared/pagination"
)

type fakeUsers map[int64]*userdomain.User

func (f fakeUsers) GetByID(_ context.Context, id int64) (*userdomain.User, error) {
	if u, ok := f[id]; ok {
		return u, nil
	}
	return nil, userports.ErrNotFound
}

func (f fakeUsers) CountByRole(_ context.Context, role userdomain.Role) (int64, error) {
	var n int64
	for _, u := range f {
		if u.Role == role {
			n++
		}
	}
	return n, nil
}

type fakePayments map[int64]string

func (f fakePayments) LatestStatus(_ context.Context, orderID int64) (string, error) {
	return f[orderID], nil
}

type stubCourier struct{}

func (stubCourier) Phone() string { return "081111111111" }
func (stubCourier) Plate() string { return "D 4321 AB" }

func newAdminFixture(t *testing.T) (*fixture, *AdminService, *domain.Order) {
	t.Helper()
	f := newFixture()
	users := fakeUsers{
		1: {ID: 1, Username: "budi", Email: "budi@example.com", Role: userdomain.RoleUser},
		9: {ID: 9, Username: "admin", Email: "admin@example.com", Role: userdomain.RoleAdmin},
	}
	f.carts.lines[1] = []cartports.Line{line(product(10, "Kopi", "2500", true), 2)}
	order, err := f.svc.PlaceOrder(context.Background(), ports.CheckoutInput{UserID: 1})
	require.NoError(t, err)
	admin := NewAdminService(f.svc, users, WithPaymentStatus(fakePayments{order.ID: "SUCCESS"}), WithCourier(stubCourier{}))
	return f, admin, order
}

func TestAdminApproveFlow(t *testing.T) {
	f, admin, order := newAdminFixture(t)
	ctx := context.Background()

	_, err := admin.Approve(ctx, order.ID, 9)
	assert.ErrorIs(t, err, domain.ErrNotReadyForApproval)

	_, err = f.svc.ApplyPaymentSuccess(ctx, order.ID)
	require.NoError(t, err)

	view, err := admin.Get(ctx, order.ID)
	require.NoError(t, err)
	assert.Equal(t, domain.ApprovalPending, view.Order.Approval)

	view, err = admin.Approve(ctx, order.ID, 9)
	require.NoError(t, err)
	assert.Equal(t, domain.StatusDelivering, view.Order.Status)
	assert.Equal(t, "admin", view.ApprovedBy.Username)
	assert.Equal(t, "budi", view.Customer.Username)
	assert.Equal(t, "SUCCESS", view.PaymentStatus)
	assert.Equal(t, "081111111111", view.Order.CourierPhone)
	assert.True(t, view.WithItems)

	view, err = admin.StartDelivery(ctx, order.ID)
	require.NoError(t, err)
	assert.Equal(t, domain.StatusDelivering, view.Order.Status)

	view, err = admin.MarkDelivered(ctx, order.ID)
	require.NoError(t, err)
	assert.Equal(t, domain.StatusDelivered, view.Order.Status)

	done, err := f.svc.ConfirmReceived(ctx, 1, order.ID)
	require.NoError(t, err)
	assert.Equal(t, domain.StatusCompleted, done.Status)
}

func TestAdminRejectAndDeliveryGuard(t *testing.T) {
	f, admin, order := newAdminFixture(t)
	ctx := context.Background()
	_, err := f.svc.ApplyPaymentSuccess(ctx, order.ID)
	require.NoError(t, err)

	view, err := admin.Reject(ctx, order.ID, 9)
	require.NoError(t, err)
	assert.Equal(t, domain.StatusRejected, view.Order.Status)

	_, err = admin.StartDelivery(ctx, order.ID)
	assert.ErrorIs(t, err, ErrInvalidInput)
	assert.ErrorIs(t, err, domain.ErrNotReadyForDelivery)

	_, err = admin.Get(ctx, 404)
	assert.ErrorIs(t, err, ports.ErrNotFound)
}

func TestAdminStartDeliveryRequiresApproval(t *testing.T) {
	f, admin, order := newAdminFixture(t)
	ctx := context.Background()
	_, err := f.svc.ApplyPaymentSuccess(ctx, order.ID)
	require.NoError(t, err)

	_, err = admin.StartDelivery(ctx, order.ID)
	assert.ErrorIs(t, err, ErrInvalidInput)
	assert.ErrorIs(t, err, domain.ErrNotReadyForDelivery)

	view, err := admin.Get(ctx, order.ID)
	require.NoError(t, err)
	assert.Equal(t, domain.StatusPaid, view.Order.Status)
	assert.Equal(t, domain.ApprovalPending, view.Order.Approval)
	assert.Nil(t, view.ApprovedBy)
}

func TestAdminListAndSummary(t *testing.T) {
	f, admin, order := newAdminFixture(t)
	ctx := context.Background()
	f.carts.lines[1] = []cartports.Line{line(product(11, "Teh", "1000", true), 1)}
	second, err := f.svc.PlaceOrder(ctx, ports.CheckoutInput{UserID: 1})
	require.NoError(t, err)
	_, err = f.svc.ApplyPaymentSuccess(ctx, order.ID)
	require.NoError(t, err)
	_, err = f.svc.ApplyPaymentFailure(ctx, second.ID)
	require.NoError(t, err)

	page, err := admin.List(ctx, nil, pagination.Request{Page: 0, Size: 10})
	require.NoError(t, err)
	require.Len(t, page.Content, 2)
	assert.Equal(t, second.ID, page.Content[0].Order.ID)
	assert.False(t, page.Content[0].WithItems)

	paid := domain.StatusPaid
	page, err = admin.List(ctx, &paid, pagination.Request{Page: 0, Size: 10})
	require.NoError(t, err)
	require.Len(t, page.Content, 1)
	assert.Equal(t, order.ID, page.Content[0].Order.ID)

	summary, err := admin.Summary(ctx)
	require.NoError(t, err)
	assert.Equal(t, int64(2), summary.TotalOrders)
	assert.Equal(t, int64(1), summary.PaidOrders)
	assert.Equal(t, int64(1), summary.CancelledOrders)
	assert.Equal(t, int64(0), summary.PendingPaymentOrders)
	assert.True(t, decimal.NewFromInt(5000).Equal(summary.PaidRevenue))
	assert.Equal(t, int64(1), summary.TotalUserRoleUser)
}
