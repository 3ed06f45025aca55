package store

import (
	"context"
	"fmt"
	"slices"
	"strings"

	"github.com/bookwormapp/bookworm-server/internal/domain"
	"github.com/bookwormapp/bookworm-server/internal/util"
)

// initBooks initializes the Books entity on the store.
// The catalog side exists so the engine, seeder and tests have a real
// GetBook to consume; catalog mutation stays outside the engine.
func (s *Store) initBooks() {
	s.Books = NewEntity[domain.Book](s, "book:")
}

// initGenres initializes the Genres entity on the store.
// Slug lookups normalize input, so "Science Fiction" and
// "science-fiction" resolve to the same genre.
func (s *Store) initGenres() {
	s.Genres = NewEntity[domain.Genre](s, "genre:").
		WithIndexTransform("slug",
			func(g *domain.Genre) []string {
				return []string{util.NormalizeGenreSlug(g.Slug)}
			},
			util.NormalizeGenreSlug,
		)
}

// GetBook retrieves a book from the catalog.
// Returns ErrNotFound if the book does not exist.
func (s *Store) GetBook(ctx context.Context, bookID string) (*domain.Book, error) {
	return s.Books.Get(ctx, bookID)
}

// ListBooks returns the full catalog sorted by title.
func (s *Store) ListBooks(ctx context.Context) ([]*domain.Book, error) {
	var books []*domain.Book
	for book, err := range s.Books.List(ctx) {
		if err != nil {
			return nil, fmt.Errorf("listing books: %w", err)
		}
		books = append(books, book)
	}

	slices.SortFunc(books, func(a, b *domain.Book) int {
		return strings.Compare(a.Title, b.Title)
	})

	return books, nil
}

// GetGenreBySlug retrieves a genre by its slug.
func (s *Store) GetGenreBySlug(ctx context.Context, slug string) (*domain.Genre, error) {
	return s.Genres.GetByIndex(ctx, "slug", slug)
}
