package service

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/bookwormapp/bookworm-server/internal/domain"
	domainerrors "github.com/bookwormapp/bookworm-server/internal/errors"
	"github.com/bookwormapp/bookworm-server/internal/store"
)

// StatsService computes the derived reading-statistics snapshot for a
// user's library. Nothing here is persisted; every call aggregates from
// the entries, ratings, activity days and goal currently in the store.
type StatsService struct {
	store             *store.Store
	activity          *ActivityService
	logger            *slog.Logger
	defaultGoalTarget int
}

// NewStatsService creates a new stats service. defaultGoalTarget is used
// for users who have not set a goal for the year; non-positive values
// fall back to the domain default.
func NewStatsService(store *store.Store, activity *ActivityService, logger *slog.Logger, defaultGoalTarget int) *StatsService {
	if defaultGoalTarget <= 0 {
		defaultGoalTarget = domain.DefaultGoalTarget
	}
	return &StatsService{
		store:             store,
		activity:          activity,
		logger:            logger,
		defaultGoalTarget: defaultGoalTarget,
	}
}

// GetReadingStats aggregates the user's library into a stats snapshot.
// Calendar bucketing (this year, monthly) uses now's location.
func (s *StatsService) GetReadingStats(ctx context.Context, userID string, now time.Time) (*domain.ReadingStats, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	entries, err := s.store.ListEntries(ctx, userID)
	if err != nil {
		return nil, fmt.Errorf("list entries: %w", err)
	}

	stats := &domain.ReadingStats{
		GenreBreakdown: make(map[string]int),
	}

	for _, entry := range entries {
		switch entry.Shelf {
		case domain.ShelfCurrentlyReading:
			stats.CurrentlyReading++
		case domain.ShelfWantToRead:
			stats.WantToRead++
		case domain.ShelfRead:
			s.aggregateFinished(ctx, entry, stats, now)
		}
	}

	stats.FavoriteGenre = favoriteGenre(stats.GenreBreakdown)

	ratings, err := s.store.ListUserRatings(ctx, userID)
	if err != nil {
		return nil, fmt.Errorf("list ratings: %w", err)
	}
	stats.AverageRating = domain.FormatAverageRating(ratings)

	streak, err := s.calculateStreak(ctx, userID, now)
	if err != nil {
		return nil, err
	}
	stats.ReadingStreak = streak

	goal, err := s.goalProgress(ctx, userID, now.Year(), stats.BooksReadThisYear)
	if err != nil {
		return nil, err
	}
	stats.Goal = goal

	return stats, nil
}

// aggregateFinished folds one finished entry into the counters. A missing
// book record costs its page and genre contributions but never fails the
// whole snapshot.
func (s *StatsService) aggregateFinished(ctx context.Context, entry *domain.ShelfEntry, stats *domain.ReadingStats, now time.Time) {
	stats.TotalBooksRead++

	if entry.FinishedAt != nil {
		finished := entry.FinishedAt.In(now.Location())
		if finished.Year() == now.Year() {
			stats.BooksReadThisYear++
			stats.MonthlyReading[finished.Month()-1]++
		}
	}

	book, err := s.store.GetBook(ctx, entry.BookID)
	if err != nil {
		s.logger.Warn("book missing during stats aggregation",
			"entry_id", entry.ID,
			"book_id", entry.BookID,
			"error", err,
		)
		return
	}

	stats.TotalPages += book.TotalPages
	if book.Genre.Name != "" {
		stats.GenreBreakdown[book.Genre.Name]++
	}
}

func (s *StatsService) calculateStreak(ctx context.Context, userID string, now time.Time) (int, error) {
	// Zero since means the full activity history; streaks can be long.
	active, err := s.activity.QualifyingDays(ctx, userID, time.Time{})
	if err != nil {
		return 0, fmt.Errorf("qualifying days: %w", err)
	}
	return domain.CalculateStreak(active, now), nil
}

// goalProgress computes the user's progress against this year's goal,
// falling back to the configured default target when no goal is stored.
// A stored non-positive target makes the goal unusable and is surfaced
// as an InvalidGoal failure.
func (s *StatsService) goalProgress(ctx context.Context, userID string, year, completed int) (*domain.GoalProgress, error) {
	target := s.defaultGoalTarget

	goal, err := s.store.GetGoal(ctx, userID, year)
	switch {
	case err == nil:
		target = goal.TargetBooks
	case !errors.Is(err, store.ErrNotFound):
		return nil, fmt.Errorf("get goal: %w", err)
	}

	if target <= 0 {
		return nil, domainerrors.InvalidGoalf("goal target for %d must be positive, got %d", year, target)
	}

	progress := domain.NewGoalProgress(target, completed)
	return &progress, nil
}

// favoriteGenre picks the genre with the most finished books. Ties break
// alphabetically so the result is stable.
func favoriteGenre(breakdown map[string]int) string {
	var best string
	bestCount := 0
	for genre, count := range breakdown {
		if count > bestCount || (count == bestCount && (best == "" || genre < best)) {
			best = genre
			bestCount = count
		}
	}
	return best
}
