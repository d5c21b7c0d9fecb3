package domain

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func str(v string) *string { return &v }

func TestNewAddressValidationOrder(t *testing.T) {
	_, err := NewAddress(1, nil)
	assert.ErrorIs(t, err, ErrInvalidRequest)

	_, err = NewAddress(1, &Fields{AddressLine: str("x"), Phone: str("1")})
	assert.ErrorIs(t, err, ErrLabelRequired)

	_, err = NewAddress(1, &Fields{Label: str("Home"), Phone: str(" ")})
	assert.ErrorIs(t, err, ErrAddressLineRequired)

	_, err = NewAddress(1, &Fields{Label: str("Home"), AddressLine: str("Jl. Merdeka 1")})
	assert.ErrorIs(t, err, ErrPhoneRequired)

	a, err := NewAddress(1, &Fields{Label: str("Home"), AddressLine: str("Jl. Merdeka 1"), Phone: str("0812")})
	require.NoError(t, err)
	assert.Equal(t, "Home", a.Label)
	assert.Empty(t, a.RecipientName)
}

func TestApplySkipsBlankFields(t *testing.T) {
	a := &Address{Label: "Home", RecipientName: "Ana", AddressLine: "Street", Phone: "1"}
	require.NoError(t, a.Apply(&Fields{Label: str(""), RecipientName: str(""), Phone: str("2")}))
	assert.Equal(t, "Home", a.Label)
	assert.Empty(t, a.RecipientName)
	assert.Equal(t, "Street", a.AddressLine)
	assert.Equal(t, "2", a.Phone)
}
