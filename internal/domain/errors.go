// Package domain contains the core business entities for FileDepot.
package domain

import (
	"errors"
	"fmt"
)

// Domain errors - these represent business rule violations.
// They are distinct from infrastructure errors (database, network, etc.).

var (
	// ===========================================
	// User Errors
	// ===========================================

	// ErrUserNotFound indicates the requested user does not exist.
	ErrUserNotFound = errors.New("user not found")

	// ErrUserAlreadyExists indicates a user with the same email exists.
	ErrUserAlreadyExists = errors.New("user already exists")

	// ErrInvalidCredentials indicates authentication failed.
	// Callers must not distinguish an unknown email from a wrong password.
	ErrInvalidCredentials = errors.New("invalid credentials")

	// ===========================================
	// File Entry Errors
	// ===========================================

	// ErrFileNotFound indicates the entry does not exist, or the caller
	// has no visibility into it. The two cases are deliberately conflated
	// so private entries are never disclosed to non-owners.
	ErrFileNotFound = errors.New("file not found")

	// ErrParentNotFound indicates the referenced parent does not exist.
	ErrParentNotFound = errors.New("parent not found")

	// ErrParentNotFolder indicates the referenced parent is not a folder.
	ErrParentNotFolder = errors.New("parent is not a folder")

	// ErrFolderHasNoContent indicates a folder was read as content.
	ErrFolderHasNoContent = errors.New("a folder doesn't have content")

	// ===========================================
	// Storage Errors
	// ===========================================

	// ErrContentNotFound indicates the blob (or a requested size variant)
	// is absent from durable storage.
	ErrContentNotFound = errors.New("content not found")
)

// DomainError wraps a domain error with additional context.
type DomainError struct {
	// Err is the underlying domain error.
	Err error

	// Message provides additional context.
	Message string

	// Resource identifies the affected resource (e.g., entry ID, email).
	Resource string
}

// Error implements the error interface.
func (e *DomainError) Error() string {
	if e.Resource != "" {
		return fmt.Sprintf("%s: %s (%s)", e.Err.Error(), e.Message, e.Resource)
	}
	if e.Message != "" {
		return fmt.Sprintf("%s: %s", e.Err.Error(), e.Message)
	}
	return e.Err.Error()
}

// Unwrap returns the underlying error for errors.Is/errors.As.
func (e *DomainError) Unwrap() error {
	return e.Err
}

// NewDomainError creates a new DomainError with context.
func NewDomainError(err error, message, resource string) *DomainError {
	return &DomainError{
		Err:      err,
		Message:  message,
		Resource: resource,
	}
}
