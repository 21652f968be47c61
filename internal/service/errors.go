// Package service provides business logic services for FileDepot.
package service

import "errors"

// Common service errors.
var (
	// Registration errors
	ErrMissingEmail    = errors.New("missing email")
	ErrMissingPassword = errors.New("missing password")

	// Upload errors
	ErrMissingName = errors.New("missing name")
	ErrMissingType = errors.New("missing type")
	ErrMissingData = errors.New("missing data")

	// Auth errors
	ErrUnauthorized = errors.New("unauthorized")

	// General errors
	ErrInternalError = errors.New("internal server error")
)
