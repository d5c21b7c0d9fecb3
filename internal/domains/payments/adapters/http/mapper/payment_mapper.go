package mapper

import "github.com/finprodb/shop-api/internal/domains/payments/ports"

type SnapCreateResponse struct {
	PaymentID   int64   `json:"paymentId"`
	OrderID     int64   `json:"orderId"`
	OrderCode   string  `json:"orderCode"`
	SnapToken   *string `json:"snapToken"`
	RedirectURL *string `json:"redirectUrl"`
}

type NotificationResponse struct {
	OrderCode     string `json:"orderCode"`
	OrderStatus   string `json:"orderStatus"`
	PaymentStatus string `json:"paymentStatus"`
}

func FromSnapResult(r *ports.SnapResult) SnapCreateResponse {
	out := SnapCreateResponse{PaymentID: r.PaymentID, OrderID: r.OrderID, OrderCode: r.OrderCode}
	if r.SnapToken != "" {
		out.SnapToken = &r.SnapToken
	}
	if r.RedirectURL != "" {
		out.RedirectURL = &r.RedirectURL
	}
	return out
}

func FromNotificationResult(r *ports.NotificationResult) NotificationResponse {
	return NotificationResponse{OrderCode: r.OrderCode, OrderStatus: r.OrderStatus, PaymentStatus: r.PaymentStatus}
}
