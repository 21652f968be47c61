package service

import (
	"context"
	"encoding/base64"
	"errors"
	"fmt"
	"io"
	"mime"
	"path/filepath"

	"github.com/google/uuid"
	"github.com/rs/zerolog"

	"github.com/filedepot/filedepot/internal/domain"
	"github.com/filedepot/filedepot/internal/jobs"
	"github.com/filedepot/filedepot/internal/repository"
	"github.com/filedepot/filedepot/internal/storage"
)

// PageSize is the fixed number of entries per listing page.
const PageSize = 20

// defaultContentType is served when the entry name has no known extension.
const defaultContentType = "text/plain; charset=utf-8"

// FileService handles catalog entries and their content.
type FileService struct {
	fileRepo repository.FileRepository
	storage  storage.Backend
	enqueuer jobs.Enqueuer
	logger   zerolog.Logger
}

// NewFileService creates a new FileService.
func NewFileService(
	fileRepo repository.FileRepository,
	storage storage.Backend,
	enqueuer jobs.Enqueuer,
	logger zerolog.Logger,
) *FileService {
	return &FileService{
		fileRepo: fileRepo,
		storage:  storage,
		enqueuer: enqueuer,
		logger:   logger.With().Str("service", "file").Logger(),
	}
}

// =============================================================================
// Input/Output Structs
// =============================================================================

// CreateFileInput contains the data needed to create a catalog entry.
type CreateFileInput struct {
	OwnerID  int64
	Name     string
	Kind     domain.FileKind
	ParentID string // empty means root
	IsPublic bool
	Data     string // base64-encoded content; unused for folders
}

// ReadContentOutput carries an entry's content stream and its media type.
type ReadContentOutput struct {
	Body        io.ReadCloser
	ContentType string
}

// =============================================================================
// Operations
// =============================================================================

// Create validates and persists a new catalog entry. For files and images
// the decoded content is written to durable storage before the entry is
// inserted, so a cataloged entry always has readable content. Every content
// upload enqueues a processing job; enqueue failures are logged, never
// rolled back.
func (s *FileService) Create(ctx context.Context, input CreateFileInput) (*domain.FileEntry, error) {
	if input.Name == "" {
		return nil, ErrMissingName
	}
	if !input.Kind.IsValid() {
		return nil, ErrMissingType
	}
	if input.Kind.RequiresContent() && input.Data == "" {
		return nil, ErrMissingData
	}

	if input.ParentID != "" && input.ParentID != domain.RootParentID {
		parent, err := s.fileRepo.GetByID(ctx, input.ParentID)
		if err != nil {
			if errors.Is(err, domain.ErrFileNotFound) {
				return nil, domain.NewDomainError(domain.ErrParentNotFound, "no such entry", input.ParentID)
			}
			return nil, fmt.Errorf("failed to get parent: %w", err)
		}
		if !parent.IsFolder() {
			return nil, domain.NewDomainError(domain.ErrParentNotFolder, string(parent.Kind), input.ParentID)
		}
	}

	entry := domain.NewFileEntry(input.OwnerID, input.Name, input.Kind, input.IsPublic, input.ParentID)
	entry.ID = uuid.New().String()

	if input.Kind.RequiresContent() {
		data, err := base64.StdEncoding.DecodeString(input.Data)
		if err != nil {
			return nil, ErrMissingData
		}

		path, err := s.storage.Write(ctx, uuid.New().String(), data)
		if err != nil {
			return nil, fmt.Errorf("failed to store content: %w", err)
		}
		entry.LocalPath = path
	}

	if err := s.fileRepo.Create(ctx, entry); err != nil {
		return nil, fmt.Errorf("failed to create entry: %w", err)
	}

	// Every content upload gets a processing job; the worker decides what
	// (if anything) to derive from it.
	if entry.Kind.RequiresContent() {
		if err := s.enqueuer.EnqueueThumbnail(ctx, entry.OwnerID, entry.ID); err != nil {
			s.logger.Error().Err(err).Str("file_id", entry.ID).Msg("failed to enqueue thumbnail job")
		}
	}

	s.logger.Info().
		Str("file_id", entry.ID).
		Int64("owner_id", entry.OwnerID).
		Str("kind", string(entry.Kind)).
		Msg("entry created")
	return entry, nil
}

// Get retrieves an entry owned by the given user. Entries the user does not
// own are reported as absent.
func (s *FileService) Get(ctx context.Context, ownerID int64, id string) (*domain.FileEntry, error) {
	return s.fileRepo.GetByIDAndOwner(ctx, id, ownerID)
}

// List returns one page of the owner's entries under a parent. Pages are
// zero-based and fixed at PageSize entries; negative pages read as page 0
// and a page past the end is empty, never an error. The parent is not
// checked for existence: an unknown parent simply lists nothing.
func (s *FileService) List(ctx context.Context, ownerID int64, parentID string, page int) ([]*domain.FileEntry, error) {
	if parentID == "" {
		parentID = domain.RootParentID
	}
	if page < 0 {
		page = 0
	}

	entries, err := s.fileRepo.ListByOwnerAndParent(ctx, ownerID, parentID, PageSize, page*PageSize)
	if err != nil {
		return nil, fmt.Errorf("failed to list entries: %w", err)
	}
	if entries == nil {
		entries = []*domain.FileEntry{}
	}
	return entries, nil
}

// SetVisibility flips an owned entry's public flag and returns the updated
// entry. The operation is idempotent.
func (s *FileService) SetVisibility(ctx context.Context, ownerID int64, id string, isPublic bool) (*domain.FileEntry, error) {
	entry, err := s.fileRepo.SetVisibility(ctx, id, ownerID, isPublic)
	if err != nil {
		return nil, err
	}

	s.logger.Info().
		Str("file_id", entry.ID).
		Bool("is_public", entry.IsPublic).
		Msg("visibility changed")
	return entry, nil
}

// ReadContent opens an entry's content, optionally a resized variant.
// Access requires the entry to be public or owned by the requester;
// requesterID is 0 for unauthenticated reads. Private entries look exactly
// like missing ones to non-owners. A requested variant that has not been
// generated yet reads as absent content; there is no fallback to the
// original.
func (s *FileService) ReadContent(ctx context.Context, requesterID int64, id string, size int) (*ReadContentOutput, error) {
	entry, err := s.fileRepo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}

	if !entry.IsPublic && entry.OwnerID != requesterID {
		return nil, domain.ErrFileNotFound
	}

	if entry.IsFolder() {
		return nil, domain.ErrFolderHasNoContent
	}

	body, err := s.storage.Open(ctx, storage.VariantPath(entry.LocalPath, size))
	if err != nil {
		return nil, err
	}

	contentType := mime.TypeByExtension(filepath.Ext(entry.Name))
	if contentType == "" {
		contentType = defaultContentType
	}

	return &ReadContentOutput{Body: body, ContentType: contentType}, nil
}

// Count returns the total number of catalog entries.
func (s *FileService) Count(ctx context.Context) (int64, error) {
	return s.fileRepo.Count(ctx)
}
