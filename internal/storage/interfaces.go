// Package storage defines interfaces for blob storage backends.
// The storage layer is responsible for persisting and retrieving raw file
// content; each stored object is addressed by the path returned at write time.
package storage

import (
	"context"
	"io"
)

// Backend defines the interface for storage backends.
// Implementations can include local filesystem, NAS, S3, or other storage
// systems. The interface is designed to be stateless and support horizontal
// scaling.
type Backend interface {
	// Write stores content under the given name, creating the containing
	// directory if needed (idempotent), and returns the concrete storage
	// path. That path becomes the catalog entry's content reference.
	Write(ctx context.Context, name string, data []byte) (path string, err error)

	// Open retrieves content by its storage path.
	// Returns a ReadCloser that must be closed after use.
	// Returns domain.ErrContentNotFound if nothing is stored at the path.
	Open(ctx context.Context, path string) (io.ReadCloser, error)

	// Exists checks if content is stored at the given path.
	Exists(ctx context.Context, path string) (bool, error)
}
