package domain

import (
	"time"
)

// FileKind identifies what a catalog entry represents.
type FileKind string

const (
	// KindFolder is a container entry. Folders never carry content.
	KindFolder FileKind = "folder"

	// KindFile is a plain file with stored content.
	KindFile FileKind = "file"

	// KindImage is an image file. Uploads of this kind trigger
	// asynchronous thumbnail generation.
	KindImage FileKind = "image"
)

// IsValid reports whether the kind is one of the recognized kinds.
func (k FileKind) IsValid() bool {
	switch k {
	case KindFolder, KindFile, KindImage:
		return true
	}
	return false
}

// RequiresContent reports whether entries of this kind carry stored content.
func (k FileKind) RequiresContent() bool {
	return k == KindFile || k == KindImage
}

// RootParentID is the sentinel for entries at the top of the hierarchy.
// Entry IDs are v4 UUIDs, so the literal "0" can never collide with a
// generated ID.
const RootParentID = "0"

// FileEntry is a catalog record for a folder, a plain file, or an image.
type FileEntry struct {
	// ID is the catalog-assigned identifier (v4 UUID).
	ID string `json:"id"`

	// OwnerID identifies the user who created the entry.
	// Ownership is immutable after creation.
	OwnerID int64 `json:"userId"`

	// Name is the display name of the entry. Must be non-empty.
	Name string `json:"name"`

	// Kind is one of folder, file, or image.
	Kind FileKind `json:"type"`

	// IsPublic controls read access to the entry's content.
	// Entries are private at creation and toggled only by the owner.
	IsPublic bool `json:"isPublic"`

	// ParentID is RootParentID or the ID of an existing folder entry.
	ParentID string `json:"parentId"`

	// LocalPath is the durable storage path of the content.
	// Empty for folders. Never exposed in API responses.
	LocalPath string `json:"-"`

	// CreatedAt orders entries for listing.
	CreatedAt time.Time `json:"-"`
}

// NewFileEntry creates a catalog entry with defaults applied.
func NewFileEntry(ownerID int64, name string, kind FileKind, isPublic bool, parentID string) *FileEntry {
	if parentID == "" {
		parentID = RootParentID
	}
	return &FileEntry{
		OwnerID:   ownerID,
		Name:      name,
		Kind:      kind,
		IsPublic:  isPublic,
		ParentID:  parentID,
		CreatedAt: time.Now().UTC(),
	}
}

// IsFolder reports whether the entry is a folder.
func (f *FileEntry) IsFolder() bool {
	return f.Kind == KindFolder
}
