package sqlite

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"github.com/filedepot/filedepot/internal/domain"
	"github.com/filedepot/filedepot/internal/repository"
)

// fileRepository implements repository.FileRepository for SQLite.
type fileRepository struct {
	db *DB
}

// NewFileRepository creates a new SQLite file repository.
func NewFileRepository(db *DB) repository.FileRepository {
	return &fileRepository{db: db}
}

const fileColumns = `id, owner_id, name, kind, is_public, parent_id, local_path, created_at`

// timeLayout keeps a fixed-width fractional second so that the TEXT column
// sorts chronologically.
const timeLayout = "2006-01-02T15:04:05.000000000Z07:00"

// Create persists a new catalog entry.
func (r *fileRepository) Create(ctx context.Context, entry *domain.FileEntry) error {
	query := `
		INSERT INTO files (id, owner_id, name, kind, is_public, parent_id, local_path, created_at)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?)
	`

	_, err := r.db.ExecContext(ctx, query,
		entry.ID,
		entry.OwnerID,
		entry.Name,
		string(entry.Kind),
		boolToInt(entry.IsPublic),
		entry.ParentID,
		entry.LocalPath,
		entry.CreatedAt.UTC().Format(timeLayout),
	)
	if err != nil {
		return fmt.Errorf("failed to create file entry: %w", err)
	}

	return nil
}

// GetByID retrieves an entry by ID regardless of owner.
func (r *fileRepository) GetByID(ctx context.Context, id string) (*domain.FileEntry, error) {
	query := `SELECT ` + fileColumns + ` FROM files WHERE id = ?`

	entry, err := scanFileEntry(r.db.QueryRowContext(ctx, query, id))
	if err != nil {
		if isNoRows(err) {
			return nil, domain.ErrFileNotFound
		}
		return nil, fmt.Errorf("failed to get file entry: %w", err)
	}
	return entry, nil
}

// GetByIDAndOwner retrieves an entry only if it belongs to the owner.
func (r *fileRepository) GetByIDAndOwner(ctx context.Context, id string, ownerID int64) (*domain.FileEntry, error) {
	query := `SELECT ` + fileColumns + ` FROM files WHERE id = ? AND owner_id = ?`

	entry, err := scanFileEntry(r.db.QueryRowContext(ctx, query, id, ownerID))
	if err != nil {
		if isNoRows(err) {
			return nil, domain.ErrFileNotFound
		}
		return nil, fmt.Errorf("failed to get file entry: %w", err)
	}
	return entry, nil
}

// ListByOwnerAndParent returns the owner's entries under a parent in insertion order.
func (r *fileRepository) ListByOwnerAndParent(ctx context.Context, ownerID int64, parentID string, limit, offset int) ([]*domain.FileEntry, error) {
	query := `
		SELECT ` + fileColumns + `
		FROM files
		WHERE owner_id = ? AND parent_id = ?
		ORDER BY created_at ASC, id ASC
		LIMIT ? OFFSET ?
	`

	rows, err := r.db.QueryContext(ctx, query, ownerID, parentID, limit, offset)
	if err != nil {
		return nil, fmt.Errorf("failed to list file entries: %w", err)
	}
	defer rows.Close()

	entries := make([]*domain.FileEntry, 0)
	for rows.Next() {
		entry, err := scanFileEntry(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan file entry: %w", err)
		}
		entries = append(entries, entry)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating file entries: %w", err)
	}

	return entries, nil
}

// SetVisibility flips the public flag of an owner's entry.
func (r *fileRepository) SetVisibility(ctx context.Context, id string, ownerID int64, isPublic bool) (*domain.FileEntry, error) {
	query := `UPDATE files SET is_public = ? WHERE id = ? AND owner_id = ?`

	result, err := r.db.ExecContext(ctx, query, boolToInt(isPublic), id, ownerID)
	if err != nil {
		return nil, fmt.Errorf("failed to update visibility: %w", err)
	}

	rowsAffected, _ := result.RowsAffected()
	if rowsAffected == 0 {
		return nil, domain.ErrFileNotFound
	}

	return r.GetByIDAndOwner(ctx, id, ownerID)
}

// Count returns the total number of catalog entries.
func (r *fileRepository) Count(ctx context.Context) (int64, error) {
	var count int64
	err := r.db.QueryRowContext(ctx, `SELECT COUNT(*) FROM files`).Scan(&count)
	if err != nil {
		return 0, fmt.Errorf("failed to count file entries: %w", err)
	}
	return count, nil
}

// rowScanner abstracts *sql.Row and *sql.Rows for shared scanning.
type rowScanner interface {
	Scan(dest ...interface{}) error
}

func scanFileEntry(row rowScanner) (*domain.FileEntry, error) {
	entry := &domain.FileEntry{}
	var kind string
	var isPublic int
	var createdAt string

	err := row.Scan(
		&entry.ID,
		&entry.OwnerID,
		&entry.Name,
		&kind,
		&isPublic,
		&entry.ParentID,
		&entry.LocalPath,
		&createdAt,
	)
	if err != nil {
		return nil, err
	}

	entry.Kind = domain.FileKind(kind)
	entry.IsPublic = isPublic != 0
	entry.CreatedAt, _ = time.Parse(timeLayout, createdAt)

	return entry, nil
}

// boolToInt converts a boolean to an integer (SQLite doesn't have native boolean).
func boolToInt(b bool) int {
	if b {
		return 1
	}
	return 0
}

// Ensure fileRepository implements repository.FileRepository.
var (
	_ repository.FileRepository = (*fileRepository)(nil)
	_ rowScanner                = (*sql.Row)(nil)
	_ rowScanner                = (*sql.Rows)(nil)
)
