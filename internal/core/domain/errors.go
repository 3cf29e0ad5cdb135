package domain

import (
	"errors"
	"fmt"
)

var (
	// ErrPermissionDenied is returned when location permission was refused.
	// Callers fall back to the next origin silently.
	ErrPermissionDenied = errors.New("location permission denied")

	// ErrNoMatch means a geocode lookup matched nothing. It is an expected
	// outcome, not a failure.
	ErrNoMatch = errors.New("no match")

	// ErrUnknownCategory is returned for a category name with no tag mapping.
	ErrUnknownCategory = errors.New("unknown category")
)

// ProviderError is a non-2xx response or transport failure from the places API.
type ProviderError struct {
	Op         string // search, autocomplete, reverse, city
	StatusCode int    // 0 for transport failures
	Status     string
	Err        error
}

func (e *ProviderError) Error() string {
	if e.StatusCode != 0 {
		return fmt.Sprintf("places provider %s: %s", e.Op, e.Status)
	}
	return fmt.Sprintf("places provider %s: %v", e.Op, e.Err)
}

func (e *ProviderError) Unwrap() error { return e.Err }

// IsProviderError reports whether err wraps a *ProviderError.
func IsProviderError(err error) bool {
	var pe *ProviderError
	return errors.As(err, &pe)
}
