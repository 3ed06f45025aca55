package store_test

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/bookwormapp/bookworm-server/internal/domain"
	"github.com/bookwormapp/bookworm-server/internal/store"
)

func TestStore_Entries_NaturalKeyUniqueness(t *testing.T) {
	s, cleanup := setupTestStore(t)
	defer cleanup()
	ctx := context.Background()

	now := time.Now()
	first, _ := domain.NewShelfEntry("entry-1", "user-1", "book-1", domain.ShelfWantToRead, 0, 300, now)
	require.NoError(t, s.Entries.Create(ctx, first.ID, first))

	// A second entry for the same (user, book) must be rejected even with
	// a fresh entry ID.
	second, _ := domain.NewShelfEntry("entry-2", "user-1", "book-1", domain.ShelfRead, 0, 300, now)
	err := s.Entries.Create(ctx, second.ID, second)
	require.ErrorIs(t, err, store.ErrAlreadyExists)

	// Original left untouched.
	got, err := s.FindEntry(ctx, "user-1", "book-1")
	require.NoError(t, err)
	assert.Equal(t, "entry-1", got.ID)
	assert.Equal(t, domain.ShelfWantToRead, got.Shelf)
	assert.Equal(t, 0, got.PagesRead)
}

func TestStore_Entries_SameBookDifferentUsers(t *testing.T) {
	s, cleanup := setupTestStore(t)
	defer cleanup()
	ctx := context.Background()

	now := time.Now()
	mine, _ := domain.NewShelfEntry("entry-1", "user-1", "book-1", domain.ShelfRead, 300, 300, now)
	theirs, _ := domain.NewShelfEntry("entry-2", "user-2", "book-1", domain.ShelfWantToRead, 0, 300, now)

	require.NoError(t, s.Entries.Create(ctx, mine.ID, mine))
	require.NoError(t, s.Entries.Create(ctx, theirs.ID, theirs))
}

func TestStore_FindEntry_NotFound(t *testing.T) {
	s, cleanup := setupTestStore(t)
	defer cleanup()

	_, err := s.FindEntry(context.Background(), "user-1", "book-missing")
	require.ErrorIs(t, err, store.ErrNotFound)
}

func TestStore_ListEntries_FiltersByUserNewestFirst(t *testing.T) {
	s, cleanup := setupTestStore(t)
	defer cleanup()
	ctx := context.Background()

	base := time.Date(2026, 1, 1, 0, 0, 0, 0, time.UTC)
	for i, bookID := range []string{"book-1", "book-2", "book-3"} {
		entry, _ := domain.NewShelfEntry("entry-"+bookID, "user-1", bookID, domain.ShelfWantToRead, 0, 100, base.AddDate(0, 0, i))
		require.NoError(t, s.Entries.Create(ctx, entry.ID, entry))
	}
	other, _ := domain.NewShelfEntry("entry-other", "user-2", "book-1", domain.ShelfRead, 100, 100, base)
	require.NoError(t, s.Entries.Create(ctx, other.ID, other))

	entries, err := s.ListEntries(ctx, "user-1")
	require.NoError(t, err)
	require.Len(t, entries, 3)
	assert.Equal(t, "book-3", entries[0].BookID) // Newest first
	assert.Equal(t, "book-1", entries[2].BookID)
}
