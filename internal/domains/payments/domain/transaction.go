package domain

import (
	"fmt"
	"strings"
	"time"

	"github.com/shopspring/decimal"
)

// Provider names the payment gateway behind a transaction.
type Provider string

const ProviderMidtrans Provider = "MIDTRANS"

// Status is the gateway-side state of a payment attempt.
type Status string

const (
	StatusCreated Status = "CREATED"
	StatusPending Status = "PENDING"
	StatusSuccess Status = "SUCCESS"
	StatusFailed  Status = "FAILED"
)

// SnapReuseWindow bounds how long a pending Snap token is handed out again.
const SnapReuseWindow = 30 * time.Second

// Transaction is one payment attempt against an order.
type Transaction struct {
	ID                   int64
	OrderID              int64
	Provider             Provider
	Status               Status
	GrossAmount          decimal.Decimal
	SnapToken            string
	RedirectURL          string
	LastNotificationJSON string
	// StatusHistory holds "<STATUS>@<RFC3339>" entries, oldest first.
	StatusHistory []string
	CreatedAt     time.Time
	UpdatedAt     time.Time
}

// NewTransaction opens a Midtrans transaction in the given status.
func NewTransaction(orderID int64, amount decimal.Decimal, status Status, now time.Time) *Transaction {
	tx := &Transaction{
		OrderID:     orderID,
		Provider:    ProviderMidtrans,
		GrossAmount: amount,
		CreatedAt:   now.UTC(),
	}
	tx.SetStatus(status, now)
	return tx
}

// SetStatus moves the transaction and appends to the history when the status changes.
func (t *Transaction) SetStatus(status Status, now time.Time) {
	if t.Status == status && len(t.StatusHistory) > 0 {
		return
	}
	t.Status = status
	t.StatusHistory = append(t.StatusHistory, fmt.Sprintf("%s@%s", status, now.UTC().Format(time.RFC3339)))
}

// AttachSnap stores the Snap checkout handle and marks the payment pending.
func (t *Transaction) AttachSnap(token, redirectURL string, now time.Time) {
	t.SnapToken = token
	t.RedirectURL = redirectURL
	t.SetStatus(StatusPending, now)
}

// Reusable reports whether the Snap token can be returned again instead of
// opening a new transaction. The age is counted in whole seconds.
func (t *Transaction) Reusable(now time.Time) bool {
	if t == nil || t.Provider != ProviderMidtrans || t.Status != StatusPending {
		return false
	}
	if strings.TrimSpace(t.SnapToken) == "" || strings.TrimSpace(t.RedirectURL) == "" || t.CreatedAt.IsZero() {
		return false
	}
	return now.Sub(t.CreatedAt).Truncate(time.Second) <= SnapReuseWindow
}
