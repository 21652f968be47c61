package sqlite

import (
	"context"
	"fmt"
	"testing"
	"time"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/filedepot/filedepot/internal/domain"
)

func newTestDB(t *testing.T) *DB {
	t.Helper()
	db, err := NewDB(context.Background(), DefaultConfig(":memory:"), zerolog.Nop())
	require.NoError(t, err)
	t.Cleanup(func() { db.Close() })
	require.NoError(t, db.Migrate(context.Background()))
	return db
}

func TestUserRepository_CreateAndGet(t *testing.T) {
	ctx := context.Background()
	repo := NewUserRepository(newTestDB(t))

	user := domain.NewUser("bob@dylan.com", "hash")
	require.NoError(t, repo.Create(ctx, user))
	require.NotZero(t, user.ID)

	got, err := repo.GetByEmail(ctx, "bob@dylan.com")
	require.NoError(t, err)
	assert.Equal(t, user.ID, got.ID)
	assert.Equal(t, "hash", got.PasswordHash)

	// Email is unique.
	err = repo.Create(ctx, domain.NewUser("bob@dylan.com", "other"))
	assert.ErrorIs(t, err, domain.ErrUserAlreadyExists)

	_, err = repo.GetByEmail(ctx, "nobody@dylan.com")
	assert.ErrorIs(t, err, domain.ErrUserNotFound)
}

func TestFileRepository_ListOrderingAndWindow(t *testing.T) {
	ctx := context.Background()
	repo := NewFileRepository(newTestDB(t))

	base := time.Now().UTC()
	for i := 0; i < 5; i++ {
		entry := domain.NewFileEntry(1, fmt.Sprintf("doc-%d", i), domain.KindFile, false, "")
		entry.ID = fmt.Sprintf("id-%d", i)
		entry.CreatedAt = base.Add(time.Duration(i) * time.Second)
		require.NoError(t, repo.Create(ctx, entry))
	}
	// Another owner's entry never shows up in the listing.
	other := domain.NewFileEntry(2, "other", domain.KindFile, false, "")
	other.ID = "other-id"
	require.NoError(t, repo.Create(ctx, other))

	entries, err := repo.ListByOwnerAndParent(ctx, 1, domain.RootParentID, 3, 0)
	require.NoError(t, err)
	require.Len(t, entries, 3)
	assert.Equal(t, "id-0", entries[0].ID)
	assert.Equal(t, "id-2", entries[2].ID)

	entries, err = repo.ListByOwnerAndParent(ctx, 1, domain.RootParentID, 3, 3)
	require.NoError(t, err)
	require.Len(t, entries, 2)
	assert.Equal(t, "id-3", entries[0].ID)

	entries, err = repo.ListByOwnerAndParent(ctx, 1, domain.RootParentID, 3, 30)
	require.NoError(t, err)
	assert.Empty(t, entries)
}

func TestFileRepository_SetVisibility(t *testing.T) {
	ctx := context.Background()
	repo := NewFileRepository(newTestDB(t))

	entry := domain.NewFileEntry(1, "notes.txt", domain.KindFile, false, "")
	entry.ID = "entry-1"
	require.NoError(t, repo.Create(ctx, entry))

	updated, err := repo.SetVisibility(ctx, "entry-1", 1, true)
	require.NoError(t, err)
	assert.True(t, updated.IsPublic)

	// Idempotent.
	updated, err = repo.SetVisibility(ctx, "entry-1", 1, true)
	require.NoError(t, err)
	assert.True(t, updated.IsPublic)

	// Wrong owner looks like a missing entry.
	_, err = repo.SetVisibility(ctx, "entry-1", 2, false)
	assert.ErrorIs(t, err, domain.ErrFileNotFound)

	_, err = repo.GetByIDAndOwner(ctx, "entry-1", 2)
	assert.ErrorIs(t, err, domain.ErrFileNotFound)
}
