package domain

import (
	"time"

	"github.com/shopspring/decimal"
)

// Event is raised by the order aggregate.
type Event interface {
	EventName() string
	OccurredAt() time.Time
}

type BaseEvent struct {
	Timestamp time.Time
}

func (e BaseEvent) OccurredAt() time.Time {
	return e.Timestamp
}

// OrderPlaced is published once per checkout, after the order is stored.
type OrderPlaced struct {
	BaseEvent
	OrderID     int64
	UserID      int64
	OrderCode   string
	TotalAmount decimal.Decimal
	Items       []Item
}

func (e OrderPlaced) EventName() string {
	return "orders.order.placed"
}

// OrderStatusChanged is raised by every lifecycle transition.
type OrderStatusChanged struct {
	BaseEvent
	OrderID   int64
	OrderCode string
	From      Status
	To        Status
}

func (e OrderStatusChanged) EventName() string {
	return "orders.order.status_changed"
}

// Placed builds the OrderPlaced event for a stored order.
func Placed(o *Order, now time.Time) OrderPlaced {
	return OrderPlaced{
		BaseEvent:   BaseEvent{Timestamp: now},
		OrderID:     o.ID,
		UserID:      o.UserID,
		OrderCode:   o.Code,
		TotalAmount: o.TotalAmount,
		Items:       append([]Item(nil), o.Items...),
	}
}
