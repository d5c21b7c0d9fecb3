package domain

import (
	"errors"
	"strings"
	"time"

	"github.com/shopspring/decimal"
)

// Status is the order lifecycle state.
type Status string

const (
	StatusPendingPayment Status = "PENDING_PAYMENT"
	StatusPaid           Status = "PAID"
	// StatusProcessing is reserved and never entered by any transition.
	StatusProcessing Status = "PROCESSING"
	StatusDelivering Status = "DELIVERING"
	StatusDelivered  Status = "DELIVERED"
	StatusCompleted  Status = "COMPLETED"
	StatusRejected   Status = "REJECTED"
	StatusCancelled  Status = "CANCELLED"
)

var allStatuses = []Status{
	StatusPendingPayment, StatusPaid, StatusProcessing, StatusDelivering,
	StatusDelivered, StatusCompleted, StatusRejected, StatusCancelled,
}

// ParseStatus accepts the upper-case status name.
func ParseStatus(raw string) (Status, error) {
	candidate := Status(strings.ToUpper(strings.TrimSpace(raw)))
	for _, s := range allStatuses {
		if s == candidate {
			return s, nil
		}
	}
	return "", ErrUnknownStatus
}

// ApprovalStatus records the admin decision on a paid order. New orders start
// PENDING; the zero value only appears on rows written before the column
// existed.
type ApprovalStatus string

const (
	ApprovalPending  ApprovalStatus = "PENDING"
	ApprovalApproved ApprovalStatus = "APPROVED"
	ApprovalRejected ApprovalStatus = "REJECTED"
)

var (
	ErrUnknownStatus        = errors.New("unknown order status")
	ErrCartEmpty            = errors.New("Cart is empty")
	ErrProductInactive      = errors.New("Some product is inactive")
	ErrNotDelivered         = errors.New("Order is not delivered yet")
	ErrNotReadyForApproval  = errors.New("Order is not ready for approval")
	ErrNotReadyForRejection = errors.New("Order is not ready for rejection")
	ErrAlreadyDecided       = errors.New("Order is already decided")
	ErrNotReadyForDelivery  = errors.New("Order is not ready for delivery")
	ErrNotDelivering        = errors.New("Order is not delivering")
	ErrInvalidItemQuantity  = errors.New("quantity must be positive")
)

// Item is a product line frozen at checkout time.
type Item struct {
	ID          int64
	OrderID     int64
	ProductID   int64
	ProductName string
	Quantity    int
	Price       decimal.Decimal
	Subtotal    decimal.Decimal
}

// Line is a checkout input line.
type Line struct {
	ProductID   int64
	ProductName string
	Price       decimal.Decimal
	Quantity    int
}

// Shipping is the destination copied onto the order.
type Shipping struct {
	Address string
	Phone   string
}

// CourierAssigner produces courier contact details for deliveries.
type CourierAssigner interface {
	Phone() string
	Plate() string
}

// Order is the purchase aggregate.
type Order struct {
	ID       int64
	UserID   int64
	Code     string
	Status   Status
	Approval ApprovalStatus
	// CheckoutKey identifies the checkout run that created the order.
	CheckoutKey     string
	ApprovedAt      *time.Time
	RejectedAt      *time.Time
	ApprovedBy      *int64
	TotalAmount     decimal.Decimal
	ShippingAddress string
	ShippingPhone   string
	CourierPhone    string
	CourierPlate    string
	Items           []Item
	CreatedAt       time.Time
	UpdatedAt       time.Time

	events []Event
}

// NewOrder prices the lines and opens the order in PENDING_PAYMENT.
func NewOrder(userID int64, code string, shipping Shipping, lines []Line, now time.Time) (*Order, error) {
	if len(lines) == 0 {
		return nil, ErrCartEmpty
	}
	o := &Order{
		UserID:          userID,
		Code:            code,
		Status:          StatusPendingPayment,
		Approval:        ApprovalPending,
		ShippingAddress: shipping.Address,
		ShippingPhone:   shipping.Phone,
		TotalAmount:     decimal.Zero,
	}
	for _, line := range lines {
		if line.Quantity <= 0 {
			return nil, ErrInvalidItemQuantity
		}
		subtotal := line.Price.Mul(decimal.NewFromInt(int64(line.Quantity)))
		o.Items = append(o.Items, Item{
			ProductID:   line.ProductID,
			ProductName: line.ProductName,
			Quantity:    line.Quantity,
			Price:       line.Price,
			Subtotal:    subtotal,
		})
		o.TotalAmount = o.TotalAmount.Add(subtotal)
	}
	o.CreatedAt = now.UTC()
	return o, nil
}

// EffectiveApproval returns PENDING when no decision was recorded.
func (o *Order) EffectiveApproval() ApprovalStatus {
	if o.Approval == "" {
		return ApprovalPending
	}
	return o.Approval
}

func (o *Order) decided() bool {
	return o.Approval == ApprovalApproved || o.Approval == ApprovalRejected
}

// ConfirmReceived completes a delivered order.
func (o *Order) ConfirmReceived(now time.Time) error {
	if o.Status != StatusDelivered {
		return ErrNotDelivered
	}
	o.transition(StatusCompleted, now)
	return nil
}

// Approve accepts a paid order and hands it to the courier.
func (o *Order) Approve(adminID int64, courier CourierAssigner, now time.Time) error {
	if o.Status != StatusPaid {
		return ErrNotReadyForApproval
	}
	if o.decided() {
		return ErrAlreadyDecided
	}
	at := now.UTC()
	o.Approval = ApprovalApproved
	o.ApprovedAt = &at
	o.RejectedAt = nil
	o.ApprovedBy = &adminID
	o.assignCourier(courier)
	o.transition(StatusDelivering, now)
	return nil
}

// Reject refuses a paid order.
func (o *Order) Reject(adminID int64, now time.Time) error {
	if o.Status != StatusPaid {
		return ErrNotReadyForRejection
	}
	if o.decided() {
		return ErrAlreadyDecided
	}
	at := now.UTC()
	o.Approval = ApprovalRejected
	o.RejectedAt = &at
	o.ApprovedAt = nil
	o.ApprovedBy = &adminID
	o.transition(StatusRejected, now)
	return nil
}

// StartDelivery moves a paid, approved order to DELIVERING. Rows with no
// recorded approval predate the column and are let through. It reports false
// when the order was already delivering.
func (o *Order) StartDelivery(courier CourierAssigner, now time.Time) (bool, error) {
	if o.Status == StatusDelivering {
		return false, nil
	}
	if o.Status != StatusPaid || (o.Approval != "" && o.Approval != ApprovalApproved) {
		return false, ErrNotReadyForDelivery
	}
	o.transition(StatusDelivering, now)
	o.assignCourier(courier)
	return true, nil
}

// MarkDelivered records the courier drop-off.
func (o *Order) MarkDelivered(now time.Time) error {
	if o.Status != StatusDelivering {
		return ErrNotDelivering
	}
	o.transition(StatusDelivered, now)
	return nil
}

// MarkPaid settles a pending order. Any other state is left untouched.
func (o *Order) MarkPaid(now time.Time) bool {
	if o.Status != StatusPendingPayment {
		return false
	}
	o.transition(StatusPaid, now)
	return true
}

// Cancel closes a pending order after a failed or abandoned payment.
func (o *Order) Cancel(now time.Time) bool {
	if o.Status != StatusPendingPayment {
		return false
	}
	o.transition(StatusCancelled, now)
	return true
}

func (o *Order) assignCourier(courier CourierAssigner) {
	if courier == nil {
		return
	}
	if strings.TrimSpace(o.CourierPhone) == "" {
		o.CourierPhone = courier.Phone()
	}
	if strings.TrimSpace(o.CourierPlate) == "" {
		o.CourierPlate = courier.Plate()
	}
}

func (o *Order) transition(to Status, now time.Time) {
	from := o.Status
	o.Status = to
	o.record(OrderStatusChanged{
		BaseEvent: BaseEvent{Timestamp: now},
		OrderID:   o.ID,
		OrderCode: o.Code,
		From:      from,
		To:        to,
	})
}

func (o *Order) record(e Event) {
	o.events = append(o.events, e)
}

// Events returns the events raised since the last ClearEvents.
func (o *Order) Events() []Event {
	return append([]Event(nil), o.events...)
}

func (o *Order) ClearEvents() {
	o.events = nil
}
