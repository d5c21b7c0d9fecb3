package application

import (
	"errors"
	"fmt"

	"github.com/finprodb/shop-api/internal/domains/users/domain"
	"github.com/finprodb/shop-api/internal/domains/users/ports"
)

var (
	// ErrInvalidInput signals the request violated an account rule.
	ErrInvalidInput = errors.New("invalid user input")
	// ErrAuthentication wraps bearer token failures.
	ErrAuthentication = errors.New("authentication failed")
	// ErrNotFound wraps missing accounts.
	ErrNotFound = errors.New("user lookup failed")
)

func mapError(err error) error {
	if err == nil {
		return nil
	}
	if errors.Is(err, domain.ErrNameRequired) ||
		errors.Is(err, domain.ErrUsernameRequired) ||
		errors.Is(err, domain.ErrEmailRequired) ||
		errors.Is(err, domain.ErrInvalidEmail) ||
		errors.Is(err, domain.ErrPasswordRequired) ||
		errors.Is(err, domain.ErrUsernameTaken) ||
		errors.Is(err, domain.ErrEmailTaken) ||
		errors.Is(err, domain.ErrInvalidCredential) ||
		errors.Is(err, domain.ErrInvalidRequest) ||
		errors.Is(err, domain.ErrUnknownRole) {
		return fmt.Errorf("%w: %w", ErrInvalidInput, err)
	}
	if errors.Is(err, ports.ErrInvalidToken) {
		return fmt.Errorf("%w: %w", ErrAuthentication, err)
	}
	if errors.Is(err, ports.ErrNotFound) {
		return fmt.Errorf("%w: %w", ErrNotFound, err)
	}
	return err
}
