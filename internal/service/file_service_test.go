package service

import (
	"context"
	"encoding/base64"
	"io"
	"strings"
	"testing"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"github.com/filedepot/filedepot/internal/domain"
)

func newTestFileService() (*FileService, *mockFileRepository, *mockStorageBackend, *mockEnqueuer) {
	fileRepo := &mockFileRepository{}
	backend := &mockStorageBackend{}
	enqueuer := &mockEnqueuer{}
	svc := NewFileService(fileRepo, backend, enqueuer, zerolog.Nop())
	return svc, fileRepo, backend, enqueuer
}

func b64(s string) string {
	return base64.StdEncoding.EncodeToString([]byte(s))
}

func TestFileService_Create(t *testing.T) {
	folder := &domain.FileEntry{
		ID:      "parent-folder",
		OwnerID: 1,
		Name:    "images",
		Kind:    domain.KindFolder,
	}

	tests := []struct {
		name    string
		input   CreateFileInput
		setup   func(*mockFileRepository, *mockStorageBackend, *mockEnqueuer)
		wantErr error
	}{
		{
			name:  "folder at root",
			input: CreateFileInput{OwnerID: 1, Name: "images", Kind: domain.KindFolder},
			setup: func(fileRepo *mockFileRepository, backend *mockStorageBackend, enqueuer *mockEnqueuer) {
				fileRepo.On("Create", mock.Anything, mock.AnythingOfType("*domain.FileEntry")).Return(nil)
			},
			wantErr: nil,
		},
		{
			name: "file under folder",
			input: CreateFileInput{
				OwnerID:  1,
				Name:     "notes.txt",
				Kind:     domain.KindFile,
				ParentID: "parent-folder",
				Data:     b64("Hello Webstack!"),
			},
			setup: func(fileRepo *mockFileRepository, backend *mockStorageBackend, enqueuer *mockEnqueuer) {
				fileRepo.On("GetByID", mock.Anything, "parent-folder").Return(folder, nil)
				backend.On("Write", mock.Anything, mock.AnythingOfType("string"), []byte("Hello Webstack!")).
					Return("/tmp/files_manager/blob", nil)
				fileRepo.On("Create", mock.Anything, mock.AnythingOfType("*domain.FileEntry")).Return(nil)
				enqueuer.On("EnqueueThumbnail", mock.Anything, int64(1), mock.AnythingOfType("string")).Return(nil)
			},
			wantErr: nil,
		},
		{
			name: "image enqueues thumbnail job",
			input: CreateFileInput{
				OwnerID: 1,
				Name:    "cat.png",
				Kind:    domain.KindImage,
				Data:    b64("png-bytes"),
			},
			setup: func(fileRepo *mockFileRepository, backend *mockStorageBackend, enqueuer *mockEnqueuer) {
				backend.On("Write", mock.Anything, mock.AnythingOfType("string"), []byte("png-bytes")).
					Return("/tmp/files_manager/blob", nil)
				fileRepo.On("Create", mock.Anything, mock.AnythingOfType("*domain.FileEntry")).Return(nil)
				enqueuer.On("EnqueueThumbnail", mock.Anything, int64(1), mock.AnythingOfType("string")).Return(nil)
			},
			wantErr: nil,
		},
		{
			name:    "missing name",
			input:   CreateFileInput{OwnerID: 1, Kind: domain.KindFile, Data: b64("x")},
			setup:   func(*mockFileRepository, *mockStorageBackend, *mockEnqueuer) {},
			wantErr: ErrMissingName,
		},
		{
			name:    "missing type",
			input:   CreateFileInput{OwnerID: 1, Name: "notes.txt", Kind: "archive", Data: b64("x")},
			setup:   func(*mockFileRepository, *mockStorageBackend, *mockEnqueuer) {},
			wantErr: ErrMissingType,
		},
		{
			name:    "missing data for file",
			input:   CreateFileInput{OwnerID: 1, Name: "notes.txt", Kind: domain.KindFile},
			setup:   func(*mockFileRepository, *mockStorageBackend, *mockEnqueuer) {},
			wantErr: ErrMissingData,
		},
		{
			name:  "parent not found",
			input: CreateFileInput{OwnerID: 1, Name: "notes.txt", Kind: domain.KindFile, ParentID: "ghost", Data: b64("x")},
			setup: func(fileRepo *mockFileRepository, backend *mockStorageBackend, enqueuer *mockEnqueuer) {
				fileRepo.On("GetByID", mock.Anything, "ghost").Return(nil, domain.ErrFileNotFound)
			},
			wantErr: domain.ErrParentNotFound,
		},
		{
			name:  "parent is not a folder",
			input: CreateFileInput{OwnerID: 1, Name: "notes.txt", Kind: domain.KindFile, ParentID: "plain-file", Data: b64("x")},
			setup: func(fileRepo *mockFileRepository, backend *mockStorageBackend, enqueuer *mockEnqueuer) {
				fileRepo.On("GetByID", mock.Anything, "plain-file").
					Return(&domain.FileEntry{ID: "plain-file", Kind: domain.KindFile}, nil)
			},
			wantErr: domain.ErrParentNotFolder,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			svc, fileRepo, backend, enqueuer := newTestFileService()
			tt.setup(fileRepo, backend, enqueuer)

			entry, err := svc.Create(context.Background(), tt.input)

			if tt.wantErr != nil {
				require.ErrorIs(t, err, tt.wantErr)
			} else {
				require.NoError(t, err)
				require.NotEmpty(t, entry.ID)
				require.Equal(t, tt.input.OwnerID, entry.OwnerID)
				if tt.input.ParentID == "" {
					require.Equal(t, domain.RootParentID, entry.ParentID)
				}
				if tt.input.Kind.RequiresContent() {
					require.NotEmpty(t, entry.LocalPath)
				} else {
					require.Empty(t, entry.LocalPath)
				}
			}

			mock.AssertExpectationsForObjects(t, fileRepo, backend, enqueuer)
		})
	}
}

func TestFileService_Create_EnqueueFailureDoesNotFail(t *testing.T) {
	svc, fileRepo, backend, enqueuer := newTestFileService()
	backend.On("Write", mock.Anything, mock.AnythingOfType("string"), mock.Anything).
		Return("/tmp/files_manager/blob", nil)
	fileRepo.On("Create", mock.Anything, mock.AnythingOfType("*domain.FileEntry")).Return(nil)
	enqueuer.On("EnqueueThumbnail", mock.Anything, int64(1), mock.AnythingOfType("string")).
		Return(context.DeadlineExceeded)

	entry, err := svc.Create(context.Background(), CreateFileInput{
		OwnerID: 1,
		Name:    "cat.png",
		Kind:    domain.KindImage,
		Data:    b64("png-bytes"),
	})
	require.NoError(t, err)
	require.NotEmpty(t, entry.ID)
}

func TestFileService_List(t *testing.T) {
	entries := []*domain.FileEntry{
		{ID: "a", OwnerID: 1},
		{ID: "b", OwnerID: 1},
	}

	tests := []struct {
		name       string
		parentID   string
		page       int
		wantParent string
		wantOffset int
	}{
		{name: "first page at root", parentID: "", page: 0, wantParent: domain.RootParentID, wantOffset: 0},
		{name: "second page", parentID: "folder-1", page: 1, wantParent: "folder-1", wantOffset: PageSize},
		{name: "negative page reads as zero", parentID: "", page: -3, wantParent: domain.RootParentID, wantOffset: 0},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			svc, fileRepo, _, _ := newTestFileService()
			fileRepo.On("ListByOwnerAndParent", mock.Anything, int64(1), tt.wantParent, PageSize, tt.wantOffset).
				Return(entries, nil)

			got, err := svc.List(context.Background(), 1, tt.parentID, tt.page)
			require.NoError(t, err)
			require.Len(t, got, 2)
			fileRepo.AssertExpectations(t)
		})
	}
}

func TestFileService_ListEmptyPageIsNotAnError(t *testing.T) {
	svc, fileRepo, _, _ := newTestFileService()
	fileRepo.On("ListByOwnerAndParent", mock.Anything, int64(1), domain.RootParentID, PageSize, 100*PageSize).
		Return(nil, nil)

	got, err := svc.List(context.Background(), 1, "", 100)
	require.NoError(t, err)
	require.NotNil(t, got)
	require.Empty(t, got)
}

func TestFileService_SetVisibility(t *testing.T) {
	svc, fileRepo, _, _ := newTestFileService()
	updated := &domain.FileEntry{ID: "x", OwnerID: 1, IsPublic: true}
	fileRepo.On("SetVisibility", mock.Anything, "x", int64(1), true).Return(updated, nil)

	entry, err := svc.SetVisibility(context.Background(), 1, "x", true)
	require.NoError(t, err)
	require.True(t, entry.IsPublic)

	fileRepo.On("SetVisibility", mock.Anything, "ghost", int64(1), false).
		Return(nil, domain.ErrFileNotFound)
	_, err = svc.SetVisibility(context.Background(), 1, "ghost", false)
	require.ErrorIs(t, err, domain.ErrFileNotFound)
}

func TestFileService_ReadContent(t *testing.T) {
	private := &domain.FileEntry{
		ID: "priv", OwnerID: 1, Name: "notes.txt",
		Kind: domain.KindFile, LocalPath: "/data/priv",
	}
	public := &domain.FileEntry{
		ID: "pub", OwnerID: 1, Name: "cat.png",
		Kind: domain.KindImage, IsPublic: true, LocalPath: "/data/pub",
	}
	folder := &domain.FileEntry{
		ID: "dir", OwnerID: 1, Name: "images",
		Kind: domain.KindFolder, IsPublic: true,
	}

	tests := []struct {
		name        string
		requesterID int64
		fileID      string
		size        int
		setup       func(*mockFileRepository, *mockStorageBackend)
		wantType    string
		wantErr     error
	}{
		{
			name:        "owner reads private file",
			requesterID: 1,
			fileID:      "priv",
			setup: func(fileRepo *mockFileRepository, backend *mockStorageBackend) {
				fileRepo.On("GetByID", mock.Anything, "priv").Return(private, nil)
				backend.On("Open", mock.Anything, "/data/priv").
					Return(io.NopCloser(strings.NewReader("Hello")), nil)
			},
			wantType: "text/plain; charset=utf-8",
		},
		{
			name:        "anonymous reads public image",
			requesterID: 0,
			fileID:      "pub",
			setup: func(fileRepo *mockFileRepository, backend *mockStorageBackend) {
				fileRepo.On("GetByID", mock.Anything, "pub").Return(public, nil)
				backend.On("Open", mock.Anything, "/data/pub").
					Return(io.NopCloser(strings.NewReader("png")), nil)
			},
			wantType: "image/png",
		},
		{
			name:        "variant path is derived from size",
			requesterID: 1,
			fileID:      "pub",
			size:        250,
			setup: func(fileRepo *mockFileRepository, backend *mockStorageBackend) {
				fileRepo.On("GetByID", mock.Anything, "pub").Return(public, nil)
				backend.On("Open", mock.Anything, "/data/pub_250").
					Return(io.NopCloser(strings.NewReader("png")), nil)
			},
			wantType: "image/png",
		},
		{
			name:        "missing variant is absent content",
			requesterID: 1,
			fileID:      "pub",
			size:        100,
			setup: func(fileRepo *mockFileRepository, backend *mockStorageBackend) {
				fileRepo.On("GetByID", mock.Anything, "pub").Return(public, nil)
				backend.On("Open", mock.Anything, "/data/pub_100").
					Return(nil, domain.ErrContentNotFound)
			},
			wantErr: domain.ErrContentNotFound,
		},
		{
			name:        "stranger cannot read private file",
			requesterID: 2,
			fileID:      "priv",
			setup: func(fileRepo *mockFileRepository, backend *mockStorageBackend) {
				fileRepo.On("GetByID", mock.Anything, "priv").Return(private, nil)
			},
			wantErr: domain.ErrFileNotFound,
		},
		{
			name:        "anonymous cannot read private file",
			requesterID: 0,
			fileID:      "priv",
			setup: func(fileRepo *mockFileRepository, backend *mockStorageBackend) {
				fileRepo.On("GetByID", mock.Anything, "priv").Return(private, nil)
			},
			wantErr: domain.ErrFileNotFound,
		},
		{
			name:        "folder has no content",
			requesterID: 1,
			fileID:      "dir",
			setup: func(fileRepo *mockFileRepository, backend *mockStorageBackend) {
				fileRepo.On("GetByID", mock.Anything, "dir").Return(folder, nil)
			},
			wantErr: domain.ErrFolderHasNoContent,
		},
		{
			name:        "unknown entry",
			requesterID: 1,
			fileID:      "ghost",
			setup: func(fileRepo *mockFileRepository, backend *mockStorageBackend) {
				fileRepo.On("GetByID", mock.Anything, "ghost").Return(nil, domain.ErrFileNotFound)
			},
			wantErr: domain.ErrFileNotFound,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			svc, fileRepo, backend, _ := newTestFileService()
			tt.setup(fileRepo, backend)

			out, err := svc.ReadContent(context.Background(), tt.requesterID, tt.fileID, tt.size)

			if tt.wantErr != nil {
				require.ErrorIs(t, err, tt.wantErr)
			} else {
				require.NoError(t, err)
				require.Equal(t, tt.wantType, out.ContentType)
				out.Body.Close()
			}

			mock.AssertExpectationsForObjects(t, fileRepo, backend)
		})
	}
}
