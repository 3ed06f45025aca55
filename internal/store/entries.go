package store

import (
	"context"
	"fmt"
	"slices"

	"github.com/bookwormapp/bookworm-server/internal/domain"
)

// userBookKey builds the natural-key index value for a shelf entry.
func userBookKey(userID, bookID string) string {
	return userID + ":" + bookID
}

// initEntries initializes the Entries entity on the store.
// The user_book index enforces the one-entry-per-(user, book) invariant:
// a duplicate insert conflicts inside the Create transaction and surfaces
// as ErrAlreadyExists, leaving the original entry untouched.
func (s *Store) initEntries() {
	s.Entries = NewEntity[domain.ShelfEntry](s, "entry:").
		WithIndex("user_book", func(e *domain.ShelfEntry) []string {
			return []string{userBookKey(e.UserID, e.BookID)}
		})
}

// FindEntry looks up a user's entry for a book by natural key.
// Returns ErrNotFound if the user has not shelved the book.
func (s *Store) FindEntry(ctx context.Context, userID, bookID string) (*domain.ShelfEntry, error) {
	return s.Entries.GetByIndex(ctx, "user_book", userBookKey(userID, bookID))
}

// ListEntries returns all of a user's shelf entries, newest first.
func (s *Store) ListEntries(ctx context.Context, userID string) ([]*domain.ShelfEntry, error) {
	var entries []*domain.ShelfEntry
	for entry, err := range s.Entries.List(ctx) {
		if err != nil {
			return nil, fmt.Errorf("listing entries: %w", err)
		}
		if entry.UserID == userID {
			entries = append(entries, entry)
		}
	}

	slices.SortFunc(entries, func(a, b *domain.ShelfEntry) int {
		return b.CreatedAt.Compare(a.CreatedAt)
	})

	return entries, nil
}
