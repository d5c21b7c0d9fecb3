package application

import (
	"context"
	"errors"
	"fmt"
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	orderdomain "github.com/finprodb/shop-api/internal/domains/orders/domain"
	orderports "github.com/finprodb/shop-api/internal/domains/orders/ports"
	"github.com/finprodb/shop-api/internal/domains/payments/adapters/memory"
	"github.com/finprodb/shop-api/internal/domains/payments/domain"
	"github.com/finprodb/shop-api/internal/domains/payments/ports"
	userdomain "github.com/finprodb/shop-api/internal/domains/users/domain"
	userports "github.com/finprodb/shop-api/internal/domains/users/ports"
)

const testServerKey = "SB-Mid-server-key"

type fakeOrders struct {
	orders map[int64]*orderdomain.Order
}

func (f *fakeOrders) Get(_ context.Context, userID, orderID int64) (*orderdomain.Order, error) {
	o, ok := f.orders[orderID]
	if !ok || o.UserID != userID {
		return nil, orderports.ErrNotFound
	}
	return o, nil
}

func (f *fakeOrders) FindByCode(_ context.Context, code string) (*orderdomain.Order, error) {
	for _, o := range f.orders {
		if o.Code == code {
			return o, nil
		}
	}
	return nil, orderports.ErrNotFound
}

func (f *fakeOrders) ApplyPaymentSuccess(_ context.Context, orderID int64) (*orderdomain.Order, error) {
	o := f.orders[orderID]
	o.MarkPaid(time.Now())
	return o, nil
}

func (f *fakeOrders) ApplyPaymentFailure(_ context.Context, orderID int64) (*orderdomain.Order, error) {
	o := f.orders[orderID]
	o.Cancel(time.Now())
	return o, nil
}

type fakeCustomers map[int64]*userdomain.User

func (f fakeCustomers) GetByID(_ context.Context, id int64) (*userdomain.User, error) {
	if u, ok := f[id]; ok {
		return u, nil
	}
	return nil, userports.ErrNotFound
}

type mockSnap struct{ mock.Mock }

func (m *mockSnap) CreateTransaction(ctx context.Context, req ports.SnapRequest) (*ports.SnapResponse, error) {
	args := m.Called(ctx, req)
	resp, _ := args.Get(0).(*ports.SnapResponse)
	return resp, args.Error(1)
}

type fixture struct {
	svc    *Service
	repo   *memory.Repository
	orders *fakeOrders
	snap   *mockSnap
	clock  time.Time
}

func newFixture(serverKey string) *fixture {
	order := &orderdomain.Order{
		ID:          11,
		UserID:      1,
		Code:        "ORD-1700000000000-abcdef1234",
		Status:      orderdomain.StatusPendingPayment,
		TotalAmount: decimal.RequireFromString("30000.75"),
		Items: []orderdomain.Item{
			{ProductID: 5, ProductName: "Kopi", Quantity: 2, Price: decimal.RequireFromString("15000.375")},
		},
	}
	f := &fixture{
		repo:   memory.NewRepository(),
		orders: &fakeOrders{orders: map[int64]*orderdomain.Order{order.ID: order}},
		snap:   &mockSnap{},
		clock:  time.Date(2025, 6, 1, 8, 0, 0, 0, time.UTC),
	}
	customers := fakeCustomers{1: {ID: 1, Name: "Budi", Email: "budi@example.com"}}
	f.svc = NewService(f.repo, f.orders, customers, f.snap,
		Config{ServerKey: serverKey, FrontendBaseURL: "https://shop.example/"},
		WithClock(func() time.Time { return f.clock }),
	)
	return f
}

func TestCreateSnap(t *testing.T) {
	f := newFixture(testServerKey)
	f.snap.On("CreateTransaction", mock.Anything, mock.MatchedBy(func(req ports.SnapRequest) bool {
		return req.TransactionDetails.OrderID == "ORD-1700000000000-abcdef1234" &&
			req.TransactionDetails.GrossAmount == 30000 &&
			req.CustomerDetails.FirstName == "Budi" &&
			req.ItemDetails[0].ID == "5" && req.ItemDetails[0].Price == 15000 &&
			req.Callbacks.Finish == "https://shop.example/payment/finish"
	})).Return(&ports.SnapResponse{Token: "tok-1", RedirectURL: "https://snap/tok-1"}, nil).Once()

	res, err := f.svc.CreateSnap(context.Background(), 1, 11)
	require.NoError(t, err)
	assert.Equal(t, "tok-1", res.SnapToken)
	assert.Equal(t, int64(11), res.OrderID)

	status, err := f.svc.LatestStatus(context.Background(), 11)
	require.NoError(t, err)
	assert.Equal(t, "PENDING", status)

	f.clock = f.clock.Add(10 * time.Second)
	again, err := f.svc.CreateSnap(context.Background(), 1, 11)
	require.NoError(t, err)
	assert.Equal(t, res.PaymentID, again.PaymentID)

	f.clock = f.clock.Add(time.Minute)
	f.snap.On("CreateTransaction", mock.Anything, mock.Anything).
		Return(&ports.SnapResponse{Token: "tok-2", RedirectURL: "https://snap/tok-2"}, nil).Once()
	fresh, err := f.svc.CreateSnap(context.Background(), 1, 11)
	require.NoError(t, err)
	assert.NotEqual(t, res.PaymentID, fresh.PaymentID)
	assert.Equal(t, "tok-2", fresh.SnapToken)
	f.snap.AssertExpectations(t)
}

func TestCreateSnapRejections(t *testing.T) {
	_, err := newFixture(" ").svc.CreateSnap(context.Background(), 1, 11)
	assert.ErrorIs(t, err, ErrInvalidInput)
	assert.ErrorIs(t, err, domain.ErrServerKeyMissing)

	f := newFixture(testServerKey)
	_, err = f.svc.CreateSnap(context.Background(), 2, 11)
	assert.ErrorIs(t, err, orderports.ErrNotFound)

	f.orders.orders[11].Status = orderdomain.StatusPaid
	_, err = f.svc.CreateSnap(context.Background(), 1, 11)
	assert.ErrorIs(t, err, domain.ErrOrderNotPending)

	status, err := f.svc.LatestStatus(context.Background(), 11)
	require.NoError(t, err)
	assert.Empty(t, status)
}

func TestCreateSnapGatewayFailure(t *testing.T) {
	f := newFixture(testServerKey)
	f.snap.On("CreateTransaction", mock.Anything, mock.Anything).Return(nil, errors.New("timeout"))
	_, err := f.svc.CreateSnap(context.Background(), 1, 11)
	require.Error(t, err)

	status, _ := f.svc.LatestStatus(context.Background(), 11)
	assert.Equal(t, "CREATED", status)
}

func notification(t *testing.T, code, txStatus, serverKey string) domain.Notification {
	t.Helper()
	sig := domain.Signature(code, "200", "30000.75", serverKey)
	body := fmt.Sprintf(`{"order_id":%q,"status_code":"200","gross_amount":"30000.75","signature_key":%q,"transaction_status":%q}`, code, sig, txStatus)
	n, err := domain.ParseNotification([]byte(body))
	require.NoError(t, err)
	return n
}

func TestHandleNotificationSettlement(t *testing.T) {
	f := newFixture(testServerKey)
	n := notification(t, "ORD-1700000000000-abcdef1234", "settlement", testServerKey)

	res, err := f.svc.HandleNotification(context.Background(), n)
	require.NoError(t, err)
	assert.Equal(t, "PAID", res.OrderStatus)
	assert.Equal(t, "SUCCESS", res.PaymentStatus)

	tx, err := f.repo.Latest(context.Background(), 11)
	require.NoError(t, err)
	assert.Equal(t, n.Raw, tx.LastNotificationJSON)
	assert.Equal(t, domain.StatusSuccess, tx.Status)
}

func TestHandleNotificationFailureAndPending(t *testing.T) {
	f := newFixture(testServerKey)
	res, err := f.svc.HandleNotification(context.Background(), notification(t, "ORD-1700000000000-abcdef1234", "pending", testServerKey))
	require.NoError(t, err)
	assert.Equal(t, "PENDING_PAYMENT", res.OrderStatus)
	assert.Equal(t, "PENDING", res.PaymentStatus)

	res, err = f.svc.HandleNotification(context.Background(), notification(t, "ORD-1700000000000-abcdef1234", "expire", testServerKey))
	require.NoError(t, err)
	assert.Equal(t, "CANCELLED", res.OrderStatus)
	assert.Equal(t, "FAILED", res.PaymentStatus)
}

func TestHandleNotificationRejections(t *testing.T) {
	f := newFixture(testServerKey)

	_, err := f.svc.HandleNotification(context.Background(), domain.Notification{})
	assert.ErrorIs(t, err, domain.ErrMissingOrderID)

	_, err = f.svc.HandleNotification(context.Background(), notification(t, "ORD-1700000000000-abcdef1234", "settlement", "forged"))
	assert.ErrorIs(t, err, ErrInvalidInput)
	assert.ErrorIs(t, err, domain.ErrInvalidSignature)

	_, err = f.svc.HandleNotification(context.Background(), notification(t, "ORD-unknown", "settlement", testServerKey))
	assert.ErrorIs(t, err, orderports.ErrNotFound)
}
