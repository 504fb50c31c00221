// Package common defines shared constants and sentinel errors used across
// client and server layers of Mijn Dossier. Callers should use errors.Is to
// match these values.
package common

import "errors"

var (
	// Repository-level errors.
	ErrorNotFound = errors.New("not found")

	// Service-level errors (generic/internal flow control).
	ErrorInternal     = errors.New("internal error")
	ErrorUnauthorized = errors.New("unauthorized")

	// Validation / item-specific errors.
	ErrorValidation      = errors.New("validation error")
	ErrorIncorrectFolder = errors.New("folder does not exist")

	// Auth errors (invalid or malformed token).
	ErrInvalidToken = errors.New("invalid token")

	// Token lifecycle errors.
	ErrTokenExpired        = errors.New("token expired")
	ErrLoginCodeExpired    = errors.New("login code expired")
	ErrRefreshTokenExpired = errors.New("refresh token expired")
)
