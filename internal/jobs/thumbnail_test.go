package jobs

import (
	"bytes"
	"context"
	"errors"
	"image"
	"image/color"
	"image/png"
	"testing"

	"github.com/hibiken/asynq"
	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/filedepot/filedepot/internal/domain"
	"github.com/filedepot/filedepot/internal/storage"
)

// mockFileRepo implements repository.FileRepository for worker tests.
type mockFileRepo struct {
	entries map[string]*domain.FileEntry
}

func newMockFileRepo() *mockFileRepo {
	return &mockFileRepo{entries: make(map[string]*domain.FileEntry)}
}

func (m *mockFileRepo) Create(ctx context.Context, entry *domain.FileEntry) error {
	m.entries[entry.ID] = entry
	return nil
}

func (m *mockFileRepo) GetByID(ctx context.Context, id string) (*domain.FileEntry, error) {
	entry, ok := m.entries[id]
	if !ok {
		return nil, domain.ErrFileNotFound
	}
	return entry, nil
}

func (m *mockFileRepo) GetByIDAndOwner(ctx context.Context, id string, ownerID int64) (*domain.FileEntry, error) {
	entry, ok := m.entries[id]
	if !ok || entry.OwnerID != ownerID {
		return nil, domain.ErrFileNotFound
	}
	return entry, nil
}

func (m *mockFileRepo) ListByOwnerAndParent(ctx context.Context, ownerID int64, parentID string, limit, offset int) ([]*domain.FileEntry, error) {
	return nil, nil
}

func (m *mockFileRepo) SetVisibility(ctx context.Context, id string, ownerID int64, isPublic bool) (*domain.FileEntry, error) {
	return nil, domain.ErrFileNotFound
}

func (m *mockFileRepo) Count(ctx context.Context) (int64, error) {
	return int64(len(m.entries)), nil
}

func encodeTestPNG(t *testing.T, w, h int) []byte {
	t.Helper()
	img := image.NewRGBA(image.Rect(0, 0, w, h))
	for y := 0; y < h; y++ {
		for x := 0; x < w; x++ {
			img.Set(x, y, color.RGBA{R: uint8(x), G: uint8(y), B: 100, A: 255})
		}
	}
	var buf bytes.Buffer
	require.NoError(t, png.Encode(&buf, img))
	return buf.Bytes()
}

func TestThumbnailHandlerGeneratesVariants(t *testing.T) {
	ctx := context.Background()
	backend := storage.NewLocal(t.TempDir(), zerolog.Nop())

	path, err := backend.Write(ctx, "original", encodeTestPNG(t, 600, 300))
	require.NoError(t, err)

	repo := newMockFileRepo()
	entry := &domain.FileEntry{
		ID:        "entry-1",
		OwnerID:   7,
		Name:      "photo.png",
		Kind:      domain.KindImage,
		ParentID:  domain.RootParentID,
		LocalPath: path,
	}
	require.NoError(t, repo.Create(ctx, entry))

	handler := &ThumbnailHandler{
		fileRepo: repo,
		storage:  backend,
		sizes:    []int{500, 250, 100},
		logger:   zerolog.Nop(),
	}

	task, err := NewThumbnailTask(ThumbnailPayload{UserID: 7, FileID: "entry-1"})
	require.NoError(t, err)
	require.NoError(t, handler.Handle(ctx, task))

	for _, size := range []int{500, 250, 100} {
		exists, err := backend.Exists(ctx, storage.VariantPath(path, size))
		require.NoError(t, err)
		assert.True(t, exists, "variant %d should exist", size)

		rc, err := backend.Open(ctx, storage.VariantPath(path, size))
		require.NoError(t, err)
		variant, _, err := image.Decode(rc)
		rc.Close()
		require.NoError(t, err)
		assert.Equal(t, size, variant.Bounds().Dx())
		assert.Equal(t, size/2, variant.Bounds().Dy())
	}
}

func TestThumbnailHandlerSkipsNonImages(t *testing.T) {
	ctx := context.Background()
	backend := storage.NewLocal(t.TempDir(), zerolog.Nop())

	repo := newMockFileRepo()
	require.NoError(t, repo.Create(ctx, &domain.FileEntry{
		ID:        "doc-1",
		OwnerID:   7,
		Kind:      domain.KindFile,
		LocalPath: "/nowhere",
	}))

	handler := &ThumbnailHandler{
		fileRepo: repo,
		storage:  backend,
		sizes:    []int{500},
		logger:   zerolog.Nop(),
	}

	task, err := NewThumbnailTask(ThumbnailPayload{UserID: 7, FileID: "doc-1"})
	require.NoError(t, err)
	assert.NoError(t, handler.Handle(ctx, task))
}

func TestThumbnailHandlerUnknownFile(t *testing.T) {
	handler := &ThumbnailHandler{
		fileRepo: newMockFileRepo(),
		storage:  storage.NewLocal(t.TempDir(), zerolog.Nop()),
		sizes:    []int{500},
		logger:   zerolog.Nop(),
	}

	task, err := NewThumbnailTask(ThumbnailPayload{UserID: 1, FileID: "missing"})
	require.NoError(t, err)

	err = handler.Handle(context.Background(), task)
	assert.True(t, errors.Is(err, asynq.SkipRetry))
}

func TestThumbnailHandlerWrongOwner(t *testing.T) {
	ctx := context.Background()
	repo := newMockFileRepo()
	require.NoError(t, repo.Create(ctx, &domain.FileEntry{
		ID:      "entry-1",
		OwnerID: 7,
		Kind:    domain.KindImage,
	}))

	handler := &ThumbnailHandler{
		fileRepo: repo,
		storage:  storage.NewLocal(t.TempDir(), zerolog.Nop()),
		sizes:    []int{500},
		logger:   zerolog.Nop(),
	}

	task, err := NewThumbnailTask(ThumbnailPayload{UserID: 99, FileID: "entry-1"})
	require.NoError(t, err)

	err = handler.Handle(ctx, task)
	assert.True(t, errors.Is(err, asynq.SkipRetry))
}

func TestResizeToWidthKeepsSmallImages(t *testing.T) {
	src := image.NewRGBA(image.Rect(0, 0, 80, 40))
	out := resizeToWidth(src, 500)
	assert.Equal(t, 80, out.Bounds().Dx())
	assert.Equal(t, 40, out.Bounds().Dy())
}
