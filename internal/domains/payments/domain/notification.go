package domain

import (
	"bytes"
	"crypto/sha512"
	"encoding/hex"
	"encoding/json"
	"errors"
	"fmt"
	"strconv"
)

var (
	ErrServerKeyMissing = errors.New("MIDTRANS_SERVER_KEY is not set")
	ErrOrderNotPending  = errors.New("Order is not pending payment")
	ErrMissingOrderID   = errors.New("Missing order_id")
	ErrInvalidSignature = errors.New("Invalid signature")
	ErrMalformedBody    = errors.New("Invalid request")
)

// Notification is a Midtrans HTTP notification. Absent members are nil.
type Notification struct {
	OrderID           *string
	StatusCode        *string
	GrossAmount       *string
	SignatureKey      *string
	TransactionStatus *string
	FraudStatus       *string
	// Raw is the body as received.
	Raw string
}

// ParseNotification reads the members Midtrans signs and classifies on.
// Numbers keep their literal text so signatures match what the gateway hashed.
func ParseNotification(body []byte) (Notification, error) {
	dec := json.NewDecoder(bytes.NewReader(body))
	dec.UseNumber()
	var fields map[string]any
	if err := dec.Decode(&fields); err != nil {
		return Notification{}, fmt.Errorf("%w: %v", ErrMalformedBody, err)
	}
	n := Notification{Raw: string(body)}
	if v, ok := fields["order_id"].(string); ok {
		n.OrderID = &v
	}
	n.StatusCode = member(fields, "status_code")
	n.GrossAmount = member(fields, "gross_amount")
	n.SignatureKey = member(fields, "signature_key")
	n.TransactionStatus = member(fields, "transaction_status")
	n.FraudStatus = member(fields, "fraud_status")
	return n, nil
}

func member(fields map[string]any, key string) *string {
	raw, ok := fields[key]
	if !ok || raw == nil {
		return nil
	}
	var s string
	switch v := raw.(type) {
	case string:
		s = v
	case json.Number:
		s = v.String()
	case bool:
		s = strconv.FormatBool(v)
	default:
		s = fmt.Sprint(v)
	}
	return &s
}

// Signature computes sha512hex(order_id + status_code + gross_amount + serverKey).
func Signature(orderID, statusCode, grossAmount, serverKey string) string {
	sum := sha512.Sum512([]byte(orderID + statusCode + grossAmount + serverKey))
	return hex.EncodeToString(sum[:])
}

// VerifySignature rejects notifications missing any signed member.
func (n Notification) VerifySignature(serverKey string) bool {
	if n.OrderID == nil || n.StatusCode == nil || n.GrossAmount == nil || n.SignatureKey == nil {
		return false
	}
	return Signature(*n.OrderID, *n.StatusCode, *n.GrossAmount, serverKey) == *n.SignatureKey
}

// Outcome maps the gateway statuses onto a payment status.
func (n Notification) Outcome() Status {
	status := deref(n.TransactionStatus)
	switch status {
	case "settlement":
		return StatusSuccess
	case "capture":
		if n.FraudStatus == nil || *n.FraudStatus == "accept" {
			return StatusSuccess
		}
		return StatusPending
	case "cancel", "deny", "expire":
		return StatusFailed
	default:
		return StatusPending
	}
}

func deref(s *string) string {
	if s == nil {
		return ""
	}
	return *s
}
