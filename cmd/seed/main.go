// Package main provides a tool to seed the database with demo library data.
//
// This creates a small catalog of books and genres, shelves them for a demo
// user, records progress over the past two weeks and sets a reading goal, to
// test stats and streak features.
//
// Usage:
//
//	go run ./cmd/seed --data-path ~/BookWorm/data
//	DATA_PATH=~/BookWorm/data go run ./cmd/seed --user user-demo
package main

import (
	"context"
	"flag"
	"fmt"
	"math/rand"
	"os"
	"time"

	"github.com/samber/do/v2"

	"github.com/bookwormapp/bookworm-server/internal/di"
	"github.com/bookwormapp/bookworm-server/internal/di/providers"
	"github.com/bookwormapp/bookworm-server/internal/domain"
	"github.com/bookwormapp/bookworm-server/internal/logger"
	"github.com/bookwormapp/bookworm-server/internal/service"
	"github.com/bookwormapp/bookworm-server/internal/store"
)

// Registered on the default FlagSet so config.LoadConfig's flag.Parse picks
// it up alongside the config flags. main must not call flag.Parse itself.
var userID = flag.String("user", "user-demo", "User ID to seed the library for")

type seedBook struct {
	id     string
	title  string
	author string
	genre  domain.GenreRef
	pages  int
}

func main() {
	// Bootstrap config, logger, store, bus and services through the
	// container; seeding runs against the same wiring as the server.
	injector := di.NewContainer()
	if err := di.Bootstrap(injector); err != nil {
		fmt.Fprintf(os.Stderr, "Failed to bootstrap: %v\n", err)
		os.Exit(1)
	}

	log := do.MustInvoke[*logger.Logger](injector)
	storeHandle := do.MustInvoke[*providers.StoreHandle](injector)
	shelves := do.MustInvoke[*service.ShelfService](injector)
	goals := do.MustInvoke[*service.GoalService](injector)
	stats := do.MustInvoke[*service.StatsService](injector)

	ctx := context.Background()

	fantasy := domain.GenreRef{ID: "genre-fantasy", Name: "Fantasy", Slug: "fantasy"}
	mystery := domain.GenreRef{ID: "genre-mystery", Name: "Mystery", Slug: "mystery"}
	scifi := domain.GenreRef{ID: "genre-scifi", Name: "Science Fiction", Slug: "science-fiction"}

	catalog := []seedBook{
		{"book-hollow-crown", "The Hollow Crown", "Mara Voss", fantasy, 412},
		{"book-glass-orchard", "The Glass Orchard", "Mara Voss", fantasy, 356},
		{"book-quiet-harbor", "A Quiet Harbor", "Felix Tran", mystery, 288},
		{"book-ninth-signal", "The Ninth Signal", "Ida Okafor", scifi, 504},
		{"book-paper-tides", "Paper Tides", "Felix Tran", mystery, 320},
		{"book-last-meridian", "The Last Meridian", "Ida Okafor", scifi, 368},
	}

	seedCatalog(ctx, storeHandle.Store, catalog)

	now := time.Now()
	rng := rand.New(rand.NewSource(now.UnixNano()))

	fmt.Printf("\nSeeding library for user: %s\n", *userID)

	// Two finished earlier this year, one in progress, rest on the want list.
	finishBook(ctx, log, shelves, *userID, catalog[0], now.AddDate(0, -3, 0))
	finishBook(ctx, log, shelves, *userID, catalog[2], now.AddDate(0, -1, -4))

	reading, err := shelves.AddToShelf(ctx, service.AddToShelfInput{
		UserID: *userID,
		BookID: catalog[3].id,
		Shelf:  domain.ShelfCurrentlyReading,
	}, now.AddDate(0, 0, -13))
	if err != nil {
		log.Fatalf("Failed to start %s: %v", catalog[3].title, err)
	}

	for _, b := range catalog[4:] {
		if _, err := shelves.AddToShelf(ctx, service.AddToShelfInput{
			UserID: *userID,
			BookID: b.id,
			Shelf:  domain.ShelfWantToRead,
		}, now); err != nil {
			log.Fatalf("Failed to shelve %s: %v", b.title, err)
		}
	}

	// Progress updates over the past two weeks. Today and yesterday always
	// get one so the seeded user has an active streak.
	pages := 0
	updates := 0
	for day := 13; day >= 0; day-- {
		if day > 1 && rng.Float32() > 0.8 {
			continue
		}
		pages = min(pages+20+rng.Intn(40), catalog[3].pages-10)
		at := now.AddDate(0, 0, -day)
		if _, err := shelves.UpdateProgress(ctx, reading.ID, pages, at); err != nil {
			log.Fatalf("Failed to update progress: %v", err)
		}
		updates++
	}
	fmt.Printf("  Recorded %d progress updates on %q\n", updates, catalog[3].title)

	seedRatings(ctx, log, storeHandle.Store, *userID, now)

	if _, err := goals.UpsertGoal(ctx, *userID, now.Year(), 12, now); err != nil {
		log.Fatalf("Failed to set goal: %v", err)
	}
	fmt.Printf("  Set %d reading goal: 12 books\n", now.Year())

	snapshot, err := stats.GetReadingStats(ctx, *userID, now)
	if err != nil {
		log.Fatalf("Failed to compute stats: %v", err)
	}

	fmt.Println("\nSeeded library snapshot:")
	fmt.Printf("  Books read:        %d (%d this year)\n", snapshot.TotalBooksRead, snapshot.BooksReadThisYear)
	fmt.Printf("  Currently reading: %d\n", snapshot.CurrentlyReading)
	fmt.Printf("  Want to read:      %d\n", snapshot.WantToRead)
	fmt.Printf("  Reading streak:    %d days\n", snapshot.ReadingStreak)
	fmt.Printf("  Average rating:    %s\n", snapshot.AverageRating)
	if snapshot.Goal != nil {
		fmt.Printf("  Goal progress:     %d/%d (%.0f%%)\n",
			snapshot.Goal.Completed, snapshot.Goal.Target, snapshot.Goal.Percent)
	}

	// Drains the bus and closes the store.
	if err := injector.Shutdown(); err != nil {
		log.Error("Shutdown error", "error", err)
	}
}

func seedCatalog(ctx context.Context, s *store.Store, catalog []seedBook) {
	seen := map[string]domain.GenreRef{}
	for _, b := range catalog {
		seen[b.genre.ID] = b.genre
	}
	for _, ref := range seen {
		genre := &domain.Genre{ID: ref.ID, Name: ref.Name, Slug: ref.Slug}
		if err := s.Genres.Create(ctx, genre.ID, genre); err != nil {
			fmt.Printf("  Genre %s already present, skipping\n", ref.Name)
		}
	}

	for _, b := range catalog {
		book := &domain.Book{
			ID:         b.id,
			Title:      b.title,
			Author:     b.author,
			Genre:      b.genre,
			TotalPages: b.pages,
		}
		if err := s.Books.Create(ctx, book.ID, book); err != nil {
			fmt.Printf("  Book %q already present, skipping\n", b.title)
			continue
		}
		fmt.Printf("  Added %q (%d pages)\n", b.title, b.pages)
	}
}

func finishBook(ctx context.Context, log *logger.Logger, shelves *service.ShelfService, userID string, b seedBook, at time.Time) {
	if _, err := shelves.AddToShelf(ctx, service.AddToShelfInput{
		UserID: userID,
		BookID: b.id,
		Shelf:  domain.ShelfRead,
	}, at); err != nil {
		log.Fatalf("Failed to finish %s: %v", b.title, err)
	}
	fmt.Printf("  Finished %q on %s\n", b.title, at.Format("2006-01-02"))
}

func seedRatings(ctx context.Context, log *logger.Logger, s *store.Store, userID string, now time.Time) {
	ratings := []*domain.Rating{
		{ID: "rating-hollow-crown", UserID: userID, BookID: "book-hollow-crown", Value: 5, CreatedAt: now.AddDate(0, -3, 0)},
		{ID: "rating-quiet-harbor", UserID: userID, BookID: "book-quiet-harbor", Value: 4, CreatedAt: now.AddDate(0, -1, -4)},
	}
	for _, r := range ratings {
		if err := s.SaveRating(ctx, r); err != nil {
			log.Fatalf("Failed to save rating: %v", err)
		}
	}
	fmt.Printf("  Saved %d ratings\n", len(ratings))
}
