// Package common defines shared constants and sentinel errors used across
// the server, its repositories and the admin CLI. Callers should use
// errors.Is to match these values.
package common

import "errors"

var (
	// Repository-level errors.
	ErrorNotFound          = errors.New("not found")
	ErrConstraintViolation = errors.New("constraint violation")

	// Service-level errors (generic/internal flow control).
	ErrorInternal   = errors.New("internal error")
	ErrorValidation = errors.New("validation error")

	// Auth errors.
	ErrInvalidCredentials = errors.New("invalid credentials")
	ErrInvalidToken       = errors.New("invalid token")
	ErrTokenExpired       = errors.New("token expired")
	ErrLoginRequired      = errors.New("login required")
	ErrForgeryCheckFailed = errors.New("forgery check failed")

	// Association errors.
	ErrPartialReconciliation = errors.New("partial reconciliation failure")
)
