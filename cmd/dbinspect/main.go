// Package main dumps a user's library state from a database path.
//
// Usage:
//
//	go run ./cmd/dbinspect --data-path ~/BookWorm/data
//	DATA_PATH=~/BookWorm/data go run ./cmd/dbinspect --user user-demo
package main

import (
	"encoding/json/v2"
	"flag"
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/dgraph-io/badger/v4"
	"github.com/samber/do/v2"

	"github.com/bookwormapp/bookworm-server/internal/config"
	"github.com/bookwormapp/bookworm-server/internal/di"
	"github.com/bookwormapp/bookworm-server/internal/domain"
	"github.com/bookwormapp/bookworm-server/internal/logger"
)

// Registered on the default FlagSet so config.LoadConfig's flag.Parse picks
// it up alongside the config flags. main must not call flag.Parse itself.
var userID = flag.String("user", "user-demo", "User ID to inspect")

func main() {
	// Resolve config and logger through the container. The store provider
	// is left uninvoked: inspection opens the database read-only itself.
	injector := di.NewContainer()

	cfg, err := do.Invoke[*config.Config](injector)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Failed to load config: %v\n", err)
		os.Exit(1)
	}
	log := do.MustInvoke[*logger.Logger](injector)

	opts := badger.DefaultOptions(cfg.Store.DataPath).
		WithReadOnly(true).
		WithLogger(nil)

	db, err := badger.Open(opts)
	if err != nil {
		log.Fatalf("Failed to open database: %v", err)
	}
	defer db.Close()

	fmt.Println("=== Library Inspection ===")
	fmt.Printf("User: %s\n\n", *userID)

	entries := dumpEntries(db, log, *userID)
	dumpGoal(db, log, *userID, entries)
	dumpRatings(db, log, *userID)
	dumpActivity(db, log, *userID)
}

func dumpEntries(db *badger.DB, log *logger.Logger, userID string) []domain.ShelfEntry {
	var entries []domain.ShelfEntry
	counts := map[domain.Shelf]int{}

	err := db.View(func(txn *badger.Txn) error {
		opts := badger.DefaultIteratorOptions
		opts.Prefix = []byte("entry:")
		it := txn.NewIterator(opts)
		defer it.Close()

		for it.Seek(opts.Prefix); it.ValidForPrefix(opts.Prefix); it.Next() {
			// Skip index keys
			if strings.HasPrefix(string(it.Item().Key()), "entry:idx:") {
				continue
			}
			var entry domain.ShelfEntry
			err := it.Item().Value(func(val []byte) error {
				return json.Unmarshal(val, &entry)
			})
			if err != nil {
				return err
			}
			if entry.UserID != userID {
				continue
			}
			entries = append(entries, entry)
			counts[entry.Shelf]++
		}
		return nil
	})
	if err != nil {
		log.Fatalf("Failed to read entries: %v", err)
	}

	fmt.Printf("Shelf entries: %d (reading: %d, want: %d, read: %d)\n",
		len(entries),
		counts[domain.ShelfCurrentlyReading],
		counts[domain.ShelfWantToRead],
		counts[domain.ShelfRead])

	for _, e := range entries {
		fmt.Printf("  [%s] book=%s pages=%d (%d%%)", e.Shelf, e.BookID, e.PagesRead, e.Percentage)
		if e.StartedAt != nil {
			fmt.Printf(" started=%s", e.StartedAt.Format("2006-01-02"))
		}
		if e.FinishedAt != nil {
			fmt.Printf(" finished=%s", e.FinishedAt.Format("2006-01-02"))
		}
		fmt.Println()
	}
	fmt.Println()

	return entries
}

func dumpGoal(db *badger.DB, log *logger.Logger, userID string, entries []domain.ShelfEntry) {
	year := time.Now().Year()
	completed := 0
	for _, e := range entries {
		if e.Shelf == domain.ShelfRead && e.FinishedAt != nil && e.FinishedAt.Year() == year {
			completed++
		}
	}

	var goal *domain.ReadingGoal
	err := db.View(func(txn *badger.Txn) error {
		opts := badger.DefaultIteratorOptions
		opts.Prefix = []byte("goal:")
		it := txn.NewIterator(opts)
		defer it.Close()

		for it.Seek(opts.Prefix); it.ValidForPrefix(opts.Prefix); it.Next() {
			if strings.HasPrefix(string(it.Item().Key()), "goal:idx:") {
				continue
			}
			var g domain.ReadingGoal
			err := it.Item().Value(func(val []byte) error {
				return json.Unmarshal(val, &g)
			})
			if err != nil {
				return err
			}
			if g.UserID == userID && g.Year == year {
				goal = &g
				return nil
			}
		}
		return nil
	})
	if err != nil {
		log.Fatalf("Failed to read goals: %v", err)
	}

	if goal == nil {
		fmt.Printf("Goal %d: not set (%d books finished)\n\n", year, completed)
		return
	}
	if goal.TargetBooks <= 0 {
		fmt.Printf("Goal %d: INVALID target %d\n\n", year, goal.TargetBooks)
		return
	}

	progress := domain.NewGoalProgress(goal.TargetBooks, completed)
	fmt.Printf("Goal %d: %d/%d books (%.0f%%, achieved=%v)\n\n",
		year, progress.Completed, progress.Target, progress.Percent, progress.Achieved)
}

func dumpRatings(db *badger.DB, log *logger.Logger, userID string) {
	var ratings []domain.Rating

	prefix := []byte("rating:" + userID + ":")
	err := db.View(func(txn *badger.Txn) error {
		opts := badger.DefaultIteratorOptions
		opts.Prefix = prefix
		it := txn.NewIterator(opts)
		defer it.Close()

		for it.Seek(prefix); it.ValidForPrefix(prefix); it.Next() {
			var r domain.Rating
			err := it.Item().Value(func(val []byte) error {
				return json.Unmarshal(val, &r)
			})
			if err != nil {
				return err
			}
			ratings = append(ratings, r)
		}
		return nil
	})
	if err != nil {
		log.Fatalf("Failed to read ratings: %v", err)
	}

	fmt.Printf("Ratings: %d (average: %s)\n", len(ratings), domain.FormatAverageRating(ratings))
	for _, r := range ratings {
		fmt.Printf("  book=%s value=%d\n", r.BookID, r.Value)
	}
	fmt.Println()
}

func dumpActivity(db *badger.DB, log *logger.Logger, userID string) {
	active := map[time.Time]bool{}
	days := 0

	prefix := []byte("actday:" + userID + ":")
	err := db.View(func(txn *badger.Txn) error {
		opts := badger.DefaultIteratorOptions
		opts.Prefix = prefix
		it := txn.NewIterator(opts)
		defer it.Close()

		for it.Seek(prefix); it.ValidForPrefix(prefix); it.Next() {
			var day domain.ActivityDay
			err := it.Item().Value(func(val []byte) error {
				return json.Unmarshal(val, &day)
			})
			if err != nil {
				return err
			}
			days++
			if day.HasQualifying() {
				active[day.Date] = true
			}
		}
		return nil
	})
	if err != nil {
		log.Fatalf("Failed to read activity: %v", err)
	}

	streak := domain.CalculateStreak(active, time.Now())
	fmt.Printf("Activity days: %d (qualifying: %d, current streak: %d)\n", days, len(active), streak)
}
