package application

import (
	"errors"
	"fmt"

	"github.com/finprodb/shop-api/internal/domains/payments/domain"
)

// ErrInvalidInput wraps payment business-rule violations.
var ErrInvalidInput = errors.New("invalid payment operation")

func mapError(err error) error {
	switch {
	case errors.Is(err, domain.ErrServerKeyMissing),
		errors.Is(err, domain.ErrOrderNotPending),
		errors.Is(err, domain.ErrMissingOrderID),
		errors.Is(err, domain.ErrInvalidSignature),
		errors.Is(err, domain.ErrMalformedBody):
		return fmt.Errorf("%w: %w", ErrInvalidInput, err)
	default:
		return err
	}
}
