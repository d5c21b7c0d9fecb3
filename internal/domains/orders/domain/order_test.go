package domain

import (
	"strings"
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fixedCourier struct{}

func (fixedCourier) Phone() string { return "081234567890" }
func (fixedCourier) Plate() string { return "B 1234 XY" }

var now = time.Date(2025, 3, 1, 10, 0, 0, 0, time.UTC)

func paidOrder(t *testing.T) *Order {
	t.Helper()
	o, err := NewOrder(7, "ORD-1-abc", Shipping{Address: "Jl. Merdeka 1", Phone: "0812"}, []Line{
		{ProductID: 1, ProductName: "Kopi", Price: decimal.RequireFromString("12000.50"), Quantity: 2},
		{ProductID: 2, ProductName: "Teh", Price: decimal.NewFromInt(8000), Quantity: 1},
	}, now)
	require.NoError(t, err)
	require.True(t, o.MarkPaid(now))
	o.ClearEvents()
	return o
}

func TestNewOrderTotals(t *testing.T) {
	o := paidOrder(t)
	assert.True(t, decimal.RequireFromString("32001").Equal(o.TotalAmount))
	assert.True(t, decimal.RequireFromString("24001").Equal(o.Items[0].Subtotal))
	assert.Equal(t, ApprovalPending, o.Approval)
	assert.Equal(t, ApprovalPending, o.EffectiveApproval())

	_, err := NewOrder(1, "x", Shipping{}, nil, now)
	assert.ErrorIs(t, err, ErrCartEmpty)
	_, err = NewOrder(1, "x", Shipping{}, []Line{{ProductID: 1, Quantity: 0}}, now)
	assert.ErrorIs(t, err, ErrInvalidItemQuantity)
}

func TestApproveAssignsCourierAndDelivers(t *testing.T) {
	o := paidOrder(t)
	require.NoError(t, o.Approve(99, fixedCourier{}, now))

	assert.Equal(t, StatusDelivering, o.Status)
	assert.Equal(t, ApprovalApproved, o.Approval)
	assert.Equal(t, int64(99), *o.ApprovedBy)
	assert.NotNil(t, o.ApprovedAt)
	assert.Nil(t, o.RejectedAt)
	assert.Equal(t, "081234567890", o.CourierPhone)
	assert.Equal(t, "B 1234 XY", o.CourierPlate)

	events := o.Events()
	require.Len(t, events, 1)
	changed := events[0].(OrderStatusChanged)
	assert.Equal(t, StatusPaid, changed.From)
	assert.Equal(t, StatusDelivering, changed.To)

	assert.ErrorIs(t, o.Approve(99, fixedCourier{}, now), ErrNotReadyForApproval)
}

func TestRejectOnlyFromPaid(t *testing.T) {
	o := paidOrder(t)
	require.NoError(t, o.Reject(5, now))
	assert.Equal(t, StatusRejected, o.Status)
	assert.Equal(t, ApprovalRejected, o.Approval)
	assert.Nil(t, o.ApprovedAt)
	assert.ErrorIs(t, o.Reject(5, now), ErrNotReadyForRejection)

	decided := paidOrder(t)
	decided.Approval = ApprovalApproved
	assert.ErrorIs(t, decided.Approve(1, nil, now), ErrAlreadyDecided)
	assert.ErrorIs(t, decided.Reject(1, now), ErrAlreadyDecided)
}

func TestStartDelivery(t *testing.T) {
	pending := paidOrder(t)
	assert.Equal(t, ApprovalPending, pending.Approval)
	_, err := pending.StartDelivery(fixedCourier{}, now)
	assert.ErrorIs(t, err, ErrNotReadyForDelivery)
	assert.Equal(t, StatusPaid, pending.Status)
	assert.Nil(t, pending.ApprovedBy)

	o := paidOrder(t)
	o.Approval = ApprovalApproved
	o.CourierPhone = "0899"
	changed, err := o.StartDelivery(fixedCourier{}, now)
	require.NoError(t, err)
	assert.True(t, changed)
	assert.Equal(t, StatusDelivering, o.Status)
	assert.Equal(t, "0899", o.CourierPhone)
	assert.Equal(t, "B 1234 XY", o.CourierPlate)

	changed, err = o.StartDelivery(fixedCourier{}, now)
	require.NoError(t, err)
	assert.False(t, changed)

	rejected := paidOrder(t)
	rejected.Approval = ApprovalRejected
	_, err = rejected.StartDelivery(fixedCourier{}, now)
	assert.ErrorIs(t, err, ErrNotReadyForDelivery)

	legacy := paidOrder(t)
	legacy.Approval = ""
	changed, err = legacy.StartDelivery(fixedCourier{}, now)
	require.NoError(t, err)
	assert.True(t, changed)
}

func TestDeliveryToCompletion(t *testing.T) {
	o := paidOrder(t)
	assert.ErrorIs(t, o.MarkDelivered(now), ErrNotDelivering)
	assert.ErrorIs(t, o.ConfirmReceived(now), ErrNotDelivered)

	require.NoError(t, o.Approve(1, fixedCourier{}, now))
	require.NoError(t, o.MarkDelivered(now))
	require.NoError(t, o.ConfirmReceived(now))
	assert.Equal(t, StatusCompleted, o.Status)
}

func TestPaymentTransitionsOnlyFromPending(t *testing.T) {
	o := paidOrder(t)
	assert.False(t, o.MarkPaid(now))
	assert.False(t, o.Cancel(now))
	assert.Empty(t, o.Events())

	pending, err := NewOrder(1, "c", Shipping{}, []Line{{ProductID: 1, Price: decimal.NewFromInt(1), Quantity: 1}}, now)
	require.NoError(t, err)
	assert.True(t, pending.Cancel(now))
	assert.Equal(t, StatusCancelled, pending.Status)
}

func TestParseStatus(t *testing.T) {
	s, err := ParseStatus(" paid ")
	require.NoError(t, err)
	assert.Equal(t, StatusPaid, s)
	_, err = ParseStatus("SHIPPED")
	assert.ErrorIs(t, err, ErrUnknownStatus)
}

func TestCodesAndCourier(t *testing.T) {
	code := NewOrderCode(now)
	parts := strings.Split(code, "-")
	require.Len(t, parts, 3)
	assert.Equal(t, "ORD", parts[0])
	assert.Len(t, parts[2], 10)

	var c RandomCourier
	phone := c.Phone()
	assert.True(t, strings.HasPrefix(phone, "08"))
	assert.Len(t, phone, 11)
	assert.Regexp(t, `^[BDFLN] \d{4} [A-Z]{2}$`, c.Plate())
}
