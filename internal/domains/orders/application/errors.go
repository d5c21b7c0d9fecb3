package application

import (
	"errors"
	"fmt"

	"github.com/finprodb/shop-api/internal/domains/orders/domain"
)

// ErrInvalidInput wraps order business-rule violations.
var ErrInvalidInput = errors.New("invalid order operation")

func mapError(err error) error {
	switch {
	case errors.Is(err, domain.ErrCartEmpty),
		errors.Is(err, domain.ErrProductInactive),
		errors.Is(err, domain.ErrNotDelivered),
		errors.Is(err, domain.ErrNotReadyForApproval),
		errors.Is(err, domain.ErrNotReadyForRejection),
		errors.Is(err, domain.ErrAlreadyDecided),
		errors.Is(err, domain.ErrNotReadyForDelivery),
		errors.Is(err, domain.ErrNotDelivering),
		errors.Is(err, domain.ErrInvalidItemQuantity):
		return fmt.Errorf("%w: %w", ErrInvalidInput, err)
	default:
		return err
	}
}
