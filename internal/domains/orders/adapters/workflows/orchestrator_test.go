package workflows

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"go.temporal.io/sdk/temporal"

	addressports "github.com/finprodb/shop-api/internal/domains/addresses/ports"
	orderapp "github.com/finprodb/shop-api/internal/domains/orders/application"
	"github.com/finprodb/shop-api/internal/domains/orders/domain"
	orderactivities "github.com/finprodb/shop-api/internal/platform/temporal/activities/orders"
)

func TestRestoreRejection(t *testing.T) {
	cartEmpty := temporal.NewNonRetryableApplicationError("Cart is empty", orderactivities.RejectedErrorType, nil)
	err := restoreRejection(cartEmpty)
	assert.ErrorIs(t, err, orderapp.ErrInvalidInput)
	assert.ErrorIs(t, err, domain.ErrCartEmpty)

	noAddress := temporal.NewNonRetryableApplicationError("Address not found", orderactivities.RejectedErrorType, nil)
	assert.ErrorIs(t, restoreRejection(noAddress), addressports.ErrNotFound)

	other := errors.New("boom")
	assert.Same(t, other, restoreRejection(other))

	transient := temporal.NewApplicationError("db down", "other")
	assert.Equal(t, transient, restoreRejection(transient))
}
