// Package apperror defines the error taxonomy shared by services, the REST
// controllers and the chat gateway. Every sentinel maps to a user-visible
// outcome; anything else is treated as a storage/internal failure.
package apperror

import (
	"errors"
	"fmt"
)

var (
	// ErrNotConnected is the authorization gate: the two users have no
	// accepted connection between them.
	ErrNotConnected = errors.New("users are not connected")

	// ErrNotFound signals an unknown user, request or record id.
	ErrNotFound = errors.New("not found")

	// ErrValidation signals malformed or rejected input (empty message
	// body, malformed id, duplicate request).
	ErrValidation = errors.New("validation failed")

	// ErrForbidden signals an operation on a record the caller does not own.
	ErrForbidden = errors.New("forbidden")

	// ErrUnauthorized signals missing or bad credentials.
	ErrUnauthorized = errors.New("unauthorized")
)

// Wrap attaches a human-readable reason to one of the sentinels while keeping
// errors.Is matching intact.
func Wrap(sentinel error, reason string) error {
	return fmt.Errorf("%w: %s", sentinel, reason)
}

func Wrapf(sentinel error, format string, args ...interface{}) error {
	return fmt.Errorf("%w: "+format, append([]interface{}{sentinel}, args...)...)
}

// IsUserFacing reports whether the error belongs to the taxonomy above and is
// safe to echo back to the client verbatim.
func IsUserFacing(err error) bool {
	return errors.Is(err, ErrNotConnected) ||
		errors.Is(err, ErrNotFound) ||
		errors.Is(err, ErrValidation) ||
		errors.Is(err, ErrForbidden) ||
		errors.Is(err, ErrUnauthorized)
}
