// Package domain defines domain-level errors for the auth feature.
package domain

import "errors"

// Domain errors for authentication operations.
// These errors represent business logic failures and should be handled appropriately by upper layers.
var (
	// ErrInvalidCredentials indicates that the provided credentials are incorrect.
	// This is returned during login when email or password is invalid.
	ErrInvalidCredentials = errors.New("invalid email or password")
)
