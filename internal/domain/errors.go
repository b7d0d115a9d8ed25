package domain

import (
	"context"
	"errors"
)

var (
	// ErrNotFound signals a missing resource.
	ErrNotFound = errors.New("not found")
	// ErrInvalidProduct signals a product that fails validation.
	ErrInvalidProduct = errors.New("invalid product")
	// ErrInvalidQuery signals malformed query parameters.
	ErrInvalidQuery = errors.New("invalid query")
	// ErrCatalogUnavailable signals that the catalog snapshot could not be obtained.
	ErrCatalogUnavailable = errors.New("catalog unavailable")
	// ErrReadOnlyCatalog signals a write against a catalog source that does not accept writes.
	ErrReadOnlyCatalog = errors.New("catalog is read-only")
)

// UnavailableError is a provider failure. Its message is the provider's own;
// it matches both ErrCatalogUnavailable and the wrapped error.
type UnavailableError struct {
	Err error
}

func (e *UnavailableError) Error() string { return e.Err.Error() }

// Unwrap exposes the sentinel and the provider error to errors.Is/As.
func (e *UnavailableError) Unwrap() []error { return []error{ErrCatalogUnavailable, e.Err} }

// CatalogUnavailable marks err as a provider failure. Cancellation and
// deadline errors belong to the caller and are returned as is.
func CatalogUnavailable(err error) error {
	if err == nil || errors.Is(err, context.Canceled) || errors.Is(err, context.DeadlineExceeded) {
		return err
	}
	return &UnavailableError{Err: err}
}
