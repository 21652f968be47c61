// Package repository defines data access interfaces for FileDepot.
// These interfaces abstract database operations, allowing for different
// implementations (SQLite, PostgreSQL, in-memory for testing) while keeping
// the service layer clean.
package repository

import (
	"context"

	"github.com/filedepot/filedepot/internal/domain"
)

// =============================================================================
// User Repository
// =============================================================================

// UserRepository defines the interface for user data access.
type UserRepository interface {
	// Create creates a new user. Returns domain.ErrUserAlreadyExists
	// if the email is taken.
	Create(ctx context.Context, user *domain.User) error

	// GetByID retrieves a user by ID.
	GetByID(ctx context.Context, id int64) (*domain.User, error)

	// GetByEmail retrieves a user by email.
	GetByEmail(ctx context.Context, email string) (*domain.User, error)

	// ExistsByEmail checks if a user with the given email exists.
	ExistsByEmail(ctx context.Context, email string) (bool, error)

	// Count returns the total number of users.
	Count(ctx context.Context) (int64, error)
}

// =============================================================================
// File Repository
// =============================================================================

// FileRepository defines the interface for file catalog access.
type FileRepository interface {
	// Create persists a new catalog entry. The entry's ID must be set
	// by the caller before insertion.
	Create(ctx context.Context, entry *domain.FileEntry) error

	// GetByID retrieves an entry by ID regardless of owner.
	GetByID(ctx context.Context, id string) (*domain.FileEntry, error)

	// GetByIDAndOwner retrieves an entry only if it belongs to the owner.
	GetByIDAndOwner(ctx context.Context, id string, ownerID int64) (*domain.FileEntry, error)

	// ListByOwnerAndParent returns the owner's entries under a parent,
	// ordered by insertion, windowed by limit/offset.
	ListByOwnerAndParent(ctx context.Context, ownerID int64, parentID string, limit, offset int) ([]*domain.FileEntry, error)

	// SetVisibility flips the public flag of an owner's entry and
	// returns the updated entry. Returns domain.ErrFileNotFound if the
	// entry is absent or owned by someone else.
	SetVisibility(ctx context.Context, id string, ownerID int64, isPublic bool) (*domain.FileEntry, error)

	// Count returns the total number of catalog entries.
	Count(ctx context.Context) (int64, error)
}

// =============================================================================
// Health
// =============================================================================

// DatabaseHealth is an interface for database health checks.
type DatabaseHealth interface {
	Ping(ctx context.Context) error
	Close() error
}
