package domain

import (
	"context"
	"errors"
	"fmt"
	"testing"
)

func TestCatalogUnavailable(t *testing.T) {
	if CatalogUnavailable(nil) != nil {
		t.Error("nil should stay nil")
	}

	for _, ctxErr := range []error{context.Canceled, context.DeadlineExceeded, fmt.Errorf("fetch: %w", context.Canceled)} {
		if got := CatalogUnavailable(ctxErr); got != ctxErr {
			t.Errorf("CatalogUnavailable(%v) = %v, want it unchanged", ctxErr, got)
		}
	}

	cause := errors.New("status 503")
	err := CatalogUnavailable(cause)
	if err.Error() != "status 503" {
		t.Errorf("message = %q, want the provider's own", err.Error())
	}
	if !errors.Is(err, ErrCatalogUnavailable) || !errors.Is(err, cause) {
		t.Errorf("err = %v, want it to match both the sentinel and the cause", err)
	}
	var ue *UnavailableError
	if !errors.As(err, &ue) || ue.Err != cause {
		t.Errorf("errors.As = %v", ue)
	}
}
