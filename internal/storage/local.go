package storage

import (
	"context"
	"fmt"
	"io"
	"os"
	"path/filepath"

	"github.com/rs/zerolog"

	"github.com/filedepot/filedepot/internal/domain"
)

// Local is a filesystem storage backend. All content lives in a flat
// directory; names are caller-supplied (the catalog uses fresh UUIDs, so
// collisions are not a concern here).
type Local struct {
	dataDir string
	logger  zerolog.Logger
}

// NewLocal creates a filesystem backend rooted at dataDir.
func NewLocal(dataDir string, logger zerolog.Logger) *Local {
	return &Local{
		dataDir: dataDir,
		logger:  logger.With().Str("component", "storage").Logger(),
	}
}

// Write stores content under dataDir/name and returns the full path.
// The data directory is created if it does not exist yet.
func (l *Local) Write(ctx context.Context, name string, data []byte) (string, error) {
	if err := os.MkdirAll(l.dataDir, 0o755); err != nil {
		return "", fmt.Errorf("failed to create data directory: %w", err)
	}

	path := filepath.Join(l.dataDir, name)
	if err := os.WriteFile(path, data, 0o644); err != nil {
		return "", fmt.Errorf("failed to write content: %w", err)
	}

	l.logger.Debug().Str("path", path).Int("bytes", len(data)).Msg("content written")
	return path, nil
}

// Open retrieves content by its storage path.
func (l *Local) Open(ctx context.Context, path string) (io.ReadCloser, error) {
	f, err := os.Open(path)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, domain.ErrContentNotFound
		}
		return nil, fmt.Errorf("failed to open content: %w", err)
	}
	return f, nil
}

// Exists checks if content is stored at the given path.
func (l *Local) Exists(ctx context.Context, path string) (bool, error) {
	_, err := os.Stat(path)
	if err != nil {
		if os.IsNotExist(err) {
			return false, nil
		}
		return false, fmt.Errorf("failed to stat content: %w", err)
	}
	return true, nil
}

// Ensure Local implements Backend.
var _ Backend = (*Local)(nil)
