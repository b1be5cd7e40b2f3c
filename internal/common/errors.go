// Package common defines shared constants and sentinel errors used across
// the vault layers. Callers should use errors.Is to match these values.
package common

import "errors"

var (
	// Key / cipher errors. Both imply data integrity risk and are never
	// swallowed.
	ErrKeyUnavailable   = errors.New("encryption key unavailable")
	ErrDecryptionFailed = errors.New("decryption failed")

	// Repository-level errors.
	ErrorNotFound    = errors.New("not found")
	ErrAlreadyExists = errors.New("already exists")
	ErrStorage       = errors.New("storage error")
	ErrVaultInUse    = errors.New("vault is in use by another process")

	// Caller-supplied parameters violate a constraint. The wrapping error
	// names the constraint.
	ErrInvalidOptions = errors.New("invalid options")
	ErrInvalidInput   = errors.New("invalid input")

	// Auth / session errors.
	ErrorUnauthorized  = errors.New("unauthorized")
	ErrNoActiveSession = errors.New("no active session")
	ErrSessionExpired  = errors.New("session expired")
)
