package mapper

import (
	"time"

	"github.com/shopspring/decimal"

	"github.com/finprodb/shop-api/internal/domains/orders/domain"
	"github.com/finprodb/shop-api/internal/domains/orders/ports"
)

// CheckoutRequest is optional; every field may be omitted.
type CheckoutRequest struct {
	AddressID       *int64  `json:"addressId"`
	ShippingAddress *string `json:"shippingAddress"`
	ShippingPhone   *string `json:"shippingPhone"`
}

func (r *CheckoutRequest) ToInput(userID int64) ports.CheckoutInput {
	input := ports.CheckoutInput{UserID: userID}
	if r == nil {
		return input
	}
	input.AddressID = r.AddressID
	input.ShippingAddress = r.ShippingAddress
	input.ShippingPhone = r.ShippingPhone
	return input
}

type OrderItem struct {
	ProductID   int64           `json:"productId"`
	ProductName string          `json:"productName"`
	Quantity    int             `json:"quantity"`
	Price       decimal.Decimal `json:"price"`
	Subtotal    decimal.Decimal `json:"subtotal"`
}

type CheckoutResponse struct {
	OrderID         int64           `json:"orderId"`
	OrderCode       string          `json:"orderCode"`
	Status          string          `json:"status"`
	TotalAmount     decimal.Decimal `json:"totalAmount"`
	ShippingAddress *string         `json:"shippingAddress"`
	ShippingPhone   *string         `json:"shippingPhone"`
	Items           []OrderItem     `json:"items"`
}

type Order struct {
	ID              int64           `json:"id"`
	OrderCode       string          `json:"orderCode"`
	Status          string          `json:"status"`
	TotalAmount     decimal.Decimal `json:"totalAmount"`
	ShippingAddress *string         `json:"shippingAddress"`
	ShippingPhone   *string         `json:"shippingPhone"`
	CourierPhone    *string         `json:"courierPhone"`
	CourierPlate    *string         `json:"courierPlate"`
	CreatedAt       time.Time       `json:"createdAt"`
	Items           []OrderItem     `json:"items"`
}

// AdminOrder flattens the customer and approver onto the order row.
type AdminOrder struct {
	ID                 int64           `json:"id"`
	OrderCode          string          `json:"orderCode"`
	Status             string          `json:"status"`
	ApprovalStatus     string          `json:"approvalStatus"`
	ApprovedAt         *time.Time      `json:"approvedAt"`
	RejectedAt         *time.Time      `json:"rejectedAt"`
	ApprovedByUserID   *int64          `json:"approvedByUserId"`
	ApprovedByUsername *string         `json:"approvedByUsername"`
	TotalAmount        decimal.Decimal `json:"totalAmount"`
	CreatedAt          time.Time       `json:"createdAt"`
	ShippingAddress    *string         `json:"shippingAddress"`
	ShippingPhone      *string         `json:"shippingPhone"`
	CourierPhone       *string         `json:"courierPhone"`
	CourierPlate       *string         `json:"courierPlate"`
	UserID             int64           `json:"userId"`
	Username           *string         `json:"username"`
	Email              *string         `json:"email"`
	PaymentStatus      *string         `json:"paymentStatus"`
	Items              []OrderItem     `json:"items,omitempty"`
}

func ToCheckoutResponse(o *domain.Order) CheckoutResponse {
	return CheckoutResponse{
		OrderID:         o.ID,
		OrderCode:       o.Code,
		Status:          string(o.Status),
		TotalAmount:     o.TotalAmount,
		ShippingAddress: nullable(o.ShippingAddress),
		ShippingPhone:   nullable(o.ShippingPhone),
		Items:           fromItems(o.Items),
	}
}

func FromDomain(o *domain.Order) Order {
	return Order{
		ID:              o.ID,
		OrderCode:       o.Code,
		Status:          string(o.Status),
		TotalAmount:     o.TotalAmount,
		ShippingAddress: nullable(o.ShippingAddress),
		ShippingPhone:   nullable(o.ShippingPhone),
		CourierPhone:    nullable(o.CourierPhone),
		CourierPlate:    nullable(o.CourierPlate),
		CreatedAt:       o.CreatedAt,
		Items:           fromItems(o.Items),
	}
}

func FromDomainList(orders []*domain.Order) []Order {
	out := make([]Order, 0, len(orders))
	for _, o := range orders {
		out = append(out, FromDomain(o))
	}
	return out
}

func FromAdminView(v *ports.AdminView) AdminOrder {
	o := v.Order
	out := AdminOrder{
		ID:               o.ID,
		OrderCode:        o.Code,
		Status:           string(o.Status),
		ApprovalStatus:   string(o.EffectiveApproval()),
		ApprovedAt:       o.ApprovedAt,
		RejectedAt:       o.RejectedAt,
		ApprovedByUserID: o.ApprovedBy,
		TotalAmount:      o.TotalAmount,
		CreatedAt:        o.CreatedAt,
		ShippingAddress:  nullable(o.ShippingAddress),
		ShippingPhone:    nullable(o.ShippingPhone),
		CourierPhone:     nullable(o.CourierPhone),
		CourierPlate:     nullable(o.CourierPlate),
		UserID:           o.UserID,
		PaymentStatus:    nullable(v.PaymentStatus),
	}
	if v.Customer != nil {
		out.Username = &v.Customer.Username
		out.Email = &v.Customer.Email
	}
	if v.ApprovedBy != nil {
		out.ApprovedByUsername = &v.ApprovedBy.Username
	}
	if v.WithItems {
		out.Items = fromItems(o.Items)
	}
	return out
}

func fromItems(items []domain.Item) []OrderItem {
	out := make([]OrderItem, 0, len(items))
	for _, it := range items {
		out = append(out, OrderItem{
			ProductID:   it.ProductID,
			ProductName: it.ProductName,
			Quantity:    it.Quantity,
			Price:       it.Price,
			Subtotal:    it.Subtotal,
		})
	}
	return out
}

func nullable(s string) *string {
	if s == "" {
		return nil
	}
	return &s
}
