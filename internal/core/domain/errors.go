package domain

import (
	"errors"
	"fmt"
)

var (
	// ErrInvalidArgument marks structural failures: nil arguments, malformed ids,
	// negative stock. Callers are not expected to recover from it.
	ErrInvalidArgument = errors.New("invalid argument")
	ErrNotFound        = errors.New("not found")
)

// NewInvalidArgument wraps ErrInvalidArgument with a formatted reason.
func NewInvalidArgument(format string, args ...any) error {
	return fmt.Errorf("%w: %s", ErrInvalidArgument, fmt.Sprintf(format, args...))
}

// IsInvalidArgument reports whether err is a structural failure.
func IsInvalidArgument(err error) bool {
	return errors.Is(err, ErrInvalidArgument)
}
