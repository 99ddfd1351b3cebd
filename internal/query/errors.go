package query

import (
	"errors"
	"fmt"
)

// ErrNetwork is the sentinel wrapped by every NetworkError.
var ErrNetwork = errors.New("course API request failed")

// NetworkError describes a failed remote call: transport failure, a non-2xx
// status, or a body that could not be decoded.
type NetworkError struct {
	// Op is the client operation ("pagination" or "count").
	Op string

	// URL is the endpoint that was called.
	URL string

	// StatusCode is the HTTP status, or 0 when no response arrived.
	StatusCode int

	// Err is the underlying cause, if any.
	Err error
}

func (e *NetworkError) Error() string {
	switch {
	case e.StatusCode != 0 && e.Err != nil:
		return fmt.Sprintf("%s %s: HTTP %d: %v", e.Op, e.URL, e.StatusCode, e.Err)
	case e.StatusCode != 0:
		return fmt.Sprintf("%s %s: HTTP %d", e.Op, e.URL, e.StatusCode)
	default:
		return fmt.Sprintf("%s %s: %v", e.Op, e.URL, e.Err)
	}
}

// Unwrap exposes both ErrNetwork and the underlying cause to errors.Is.
func (e *NetworkError) Unwrap() []error {
	if e.Err == nil {
		return []error{ErrNetwork}
	}
	return []error{ErrNetwork, e.Err}
}
