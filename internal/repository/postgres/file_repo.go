package postgres

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"

	"github.com/filedepot/filedepot/internal/domain"
	"github.com/filedepot/filedepot/internal/repository"
)

// fileRepository implements repository.FileRepository for PostgreSQL.
type fileRepository struct {
	db *DB
}

// NewFileRepository creates a new PostgreSQL file repository.
func NewFileRepository(db *DB) repository.FileRepository {
	return &fileRepository{db: db}
}

const fileColumns = `id, owner_id, name, kind, is_public, parent_id, local_path, created_at`

// Create persists a new catalog entry.
func (r *fileRepository) Create(ctx context.Context, entry *domain.FileEntry) error {
	query := `
		INSERT INTO files (id, owner_id, name, kind, is_public, parent_id, local_path, created_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8)
	`

	_, err := r.db.Pool.Exec(ctx, query,
		entry.ID,
		entry.OwnerID,
		entry.Name,
		string(entry.Kind),
		entry.IsPublic,
		entry.ParentID,
		entry.LocalPath,
		entry.CreatedAt,
	)
	if err != nil {
		return fmt.Errorf("failed to create file entry: %w", err)
	}

	return nil
}

// GetByID retrieves an entry by ID regardless of owner.
func (r *fileRepository) GetByID(ctx context.Context, id string) (*domain.FileEntry, error) {
	query := `SELECT ` + fileColumns + ` FROM files WHERE id = $1`
	return r.scanOne(r.db.Pool.QueryRow(ctx, query, id))
}

// GetByIDAndOwner retrieves an entry only if it belongs to the owner.
func (r *fileRepository) GetByIDAndOwner(ctx context.Context, id string, ownerID int64) (*domain.FileEntry, error) {
	query := `SELECT ` + fileColumns + ` FROM files WHERE id = $1 AND owner_id = $2`
	return r.scanOne(r.db.Pool.QueryRow(ctx, query, id, ownerID))
}

// ListByOwnerAndParent returns the owner's entries under a parent in insertion order.
func (r *fileRepository) ListByOwnerAndParent(ctx context.Context, ownerID int64, parentID string, limit, offset int) ([]*domain.FileEntry, error) {
	query := `
		SELECT ` + fileColumns + `
		FROM files
		WHERE owner_id = $1 AND parent_id = $2
		ORDER BY created_at ASC, id ASC
		LIMIT $3 OFFSET $4
	`

	rows, err := r.db.Pool.Query(ctx, query, ownerID, parentID, limit, offset)
	if err != nil {
		return nil, fmt.Errorf("failed to list file entries: %w", err)
	}
	defer rows.Close()

	entries := make([]*domain.FileEntry, 0)
	for rows.Next() {
		entry := &domain.FileEntry{}
		var kind string
		if err := rows.Scan(
			&entry.ID,
			&entry.OwnerID,
			&entry.Name,
			&kind,
			&entry.IsPublic,
			&entry.ParentID,
			&entry.LocalPath,
			&entry.CreatedAt,
		); err != nil {
			return nil, fmt.Errorf("failed to scan file entry: %w", err)
		}
		entry.Kind = domain.FileKind(kind)
		entries = append(entries, entry)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating file entries: %w", err)
	}

	return entries, nil
}

// SetVisibility flips the public flag of an owner's entry.
func (r *fileRepository) SetVisibility(ctx context.Context, id string, ownerID int64, isPublic bool) (*domain.FileEntry, error) {
	query := `
		UPDATE files SET is_public = $1
		WHERE id = $2 AND owner_id = $3
		RETURNING ` + fileColumns

	return r.scanOne(r.db.Pool.QueryRow(ctx, query, isPublic, id, ownerID))
}

// Count returns the total number of catalog entries.
func (r *fileRepository) Count(ctx context.Context) (int64, error) {
	var count int64
	err := r.db.Pool.QueryRow(ctx, `SELECT COUNT(*) FROM files`).Scan(&count)
	if err != nil {
		return 0, fmt.Errorf("failed to count file entries: %w", err)
	}
	return count, nil
}

func (r *fileRepository) scanOne(row pgx.Row) (*domain.FileEntry, error) {
	entry := &domain.FileEntry{}
	var kind string

	err := row.Scan(
		&entry.ID,
		&entry.OwnerID,
		&entry.Name,
		&kind,
		&entry.IsPublic,
		&entry.ParentID,
		&entry.LocalPath,
		&entry.CreatedAt,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, domain.ErrFileNotFound
		}
		return nil, fmt.Errorf("failed to get file entry: %w", err)
	}

	entry.Kind = domain.FileKind(kind)
	return entry, nil
}

// Ensure fileRepository implements repository.FileRepository.
var _ repository.FileRepository = (*fileRepository)(nil)
