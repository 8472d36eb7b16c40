package api

import (
	"errors"
	"fmt"
)

// Sentinel errors for use with errors.Is().
var (
	// ErrUnauthorized is returned when the server rejects the bearer token.
	ErrUnauthorized = errors.New("unauthorized")

	// ErrNetwork is returned when no HTTP response was received at all.
	ErrNetwork = errors.New("network error")
)

// Error is the normalized failure shape every pipeline call resolves to.
// Status carries the HTTP status code (500 for transport failures) and
// Message the best human-readable explanation extracted from the response.
type Error struct {
	Status  int
	Message string
	Cause   error
}

func (e *Error) Error() string {
	if e.Cause != nil {
		return fmt.Sprintf("api error %d: %s: %v", e.Status, e.Message, e.Cause)
	}
	return fmt.Sprintf("api error %d: %s", e.Status, e.Message)
}

func (e *Error) Unwrap() error {
	return e.Cause
}

// Is supports errors.Is(err, ErrUnauthorized) and errors.Is(err, ErrNetwork).
func (e *Error) Is(target error) bool {
	switch target {
	case ErrUnauthorized:
		return e.Status == 401
	case ErrNetwork:
		return e.Cause != nil && errors.Is(e.Cause, ErrNetwork)
	default:
		return false
	}
}

// networkError builds the normalized transport-failure error.
func networkError(cause error) *Error {
	return &Error{
		Status:  500,
		Message: "Network error",
		Cause:   fmt.Errorf("%w: %v", ErrNetwork, cause),
	}
}
