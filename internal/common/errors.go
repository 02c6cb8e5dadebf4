// Package common defines sentinel errors shared by the gateway, the store and
// the transport layers. Callers should use errors.Is to match these values.
package common

import "errors"

var (
	// Gateway errors.
	ErrGatewayUnavailable = errors.New("remote backend not configured")
	ErrSchemaMismatch     = errors.New("remote schema mismatch")

	// Repository-level errors.
	ErrNotFound = errors.New("not found")

	// Validation errors for entity input.
	ErrValidation = errors.New("validation error")

	// Auth errors.
	ErrUnauthorized = errors.New("unauthorized")
	ErrInvalidToken = errors.New("invalid token")
	ErrTokenExpired = errors.New("token expired")
)

// SchemaMismatchCode is the machine-readable code reported to clients when the
// remote schema is out of date. Clients treat it as retryable via refresh.
const SchemaMismatchCode = "schema_mismatch"
