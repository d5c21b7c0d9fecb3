package ports

import (
	"context"
	"errors"
)

// ErrGatewayUnavailable is returned while the gateway circuit is open.
var ErrGatewayUnavailable = errors.New("payment gateway unavailable")

// SnapRequest is the Snap transaction payload.
type SnapRequest struct {
	TransactionDetails TransactionDetails `json:"transaction_details"`
	CustomerDetails    CustomerDetails    `json:"customer_details"`
	ItemDetails        []ItemDetail       `json:"item_details"`
	CreditCard         CreditCard         `json:"credit_card"`
	Callbacks          Callbacks          `json:"callbacks"`
}

type TransactionDetails struct {
	OrderID     string `json:"order_id"`
	GrossAmount int64  `json:"gross_amount"`
}

type CustomerDetails struct {
	FirstName string `json:"first_name"`
	Email     string `json:"email"`
	Phone     string `json:"phone"`
}

type ItemDetail struct {
	ID       string `json:"id"`
	Price    int64  `json:"price"`
	Quantity int    `json:"quantity"`
	Name     string `json:"name"`
}

type CreditCard struct {
	Secure bool `json:"secure"`
}

type Callbacks struct {
	Finish string `json:"finish"`
}

// SnapResponse carries the checkout handle returned by Snap.
type SnapResponse struct {
	Token       string `json:"token"`
	RedirectURL string `json:"redirect_url"`
}

// SnapGateway opens Snap transactions.
type SnapGateway interface {
	CreateTransaction(ctx context.Context, req SnapRequest) (*SnapResponse, error)
}
