package domain

import (
	"errors"
	"strings"
	"time"
)

var (
	ErrInvalidRequest      = errors.New("Invalid request")
	ErrLabelRequired       = errors.New("Label is required")
	ErrAddressLineRequired = errors.New("Address is required")
	ErrPhoneRequired       = errors.New("Phone is required")
)

// Address is an entry in a user's shipping address book.
type Address struct {
	ID            int64
	UserID        int64
	Label         string
	RecipientName string
	AddressLine   string
	Phone         string
	IsDefault     bool
	CreatedAt     time.Time
	UpdatedAt     time.Time
}

// Fields carries an address payload. Nil pointers mean "not provided".
type Fields struct {
	Label         *string
	RecipientName *string
	AddressLine   *string
	Phone         *string
	IsDefault     *bool
}

// NewAddress validates the required fields in the order label, address line, phone.
func NewAddress(userID int64, f *Fields) (*Address, error) {
	if f == nil {
		return nil, ErrInvalidRequest
	}
	if isBlank(f.Label) {
		return nil, ErrLabelRequired
	}
	if isBlank(f.AddressLine) {
		return nil, ErrAddressLineRequired
	}
	if isBlank(f.Phone) {
		return nil, ErrPhoneRequired
	}
	a := &Address{
		UserID:      userID,
		Label:       *f.Label,
		AddressLine: *f.AddressLine,
		Phone:       *f.Phone,
	}
	if f.RecipientName != nil {
		a.RecipientName = *f.RecipientName
	}
	return a, nil
}

// Apply copies non-blank fields. RecipientName is applied whenever present.
func (a *Address) Apply(f *Fields) error {
	if f == nil {
		return ErrInvalidRequest
	}
	if !isBlank(f.Label) {
		a.Label = *f.Label
	}
	if f.RecipientName != nil {
		a.RecipientName = *f.RecipientName
	}
	if !isBlank(f.AddressLine) {
		a.AddressLine = *f.AddressLine
	}
	if !isBlank(f.Phone) {
		a.Phone = *f.Phone
	}
	return nil
}

// WantsDefault reports whether the payload asks for the default flag.
func (f *Fields) WantsDefault() bool {
	return f != nil && f.IsDefault != nil && *f.IsDefault
}

func isBlank(v *string) bool {
	return v == nil || strings.TrimSpace(*v) == ""
}
