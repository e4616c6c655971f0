package errors

import (
	"errors"
	"fmt"
)

// Common error types for the booking client
var (
	// Session errors
	ErrUnauthorized      = errors.New("unauthorized")
	ErrSessionExpired    = errors.New("session expired")
	ErrNoRefreshToken    = errors.New("no refresh token")
	ErrInvalidToken      = errors.New("invalid token")
	ErrStorageKeyInvalid = errors.New("storage key must be 32 bytes")

	// Navigation errors
	ErrRouteNotFound = errors.New("route not found")

	// General errors
	ErrNotFound     = errors.New("not found")
	ErrInvalidInput = errors.New("invalid input")
	ErrInternal     = errors.New("internal error")
)

// Wrapf wraps an error with context using fmt.Errorf
func Wrapf(err error, format string, args ...interface{}) error {
	if err == nil {
		return nil
	}
	return fmt.Errorf(format+": %w", append(args, err)...)
}
