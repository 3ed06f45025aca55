// Package service orchestrates the library engine's operations over the
// store, with validation, structured logging and domain-event emission.
package service

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/bookwormapp/bookworm-server/internal/domain"
	"github.com/bookwormapp/bookworm-server/internal/store"
)

// ActivityService maintains the append-only day-level activity log that
// streak computation consumes.
type ActivityService struct {
	store  *store.Store
	logger *slog.Logger
}

// NewActivityService creates a new activity service.
func NewActivityService(store *store.Store, logger *slog.Logger) *ActivityService {
	return &ActivityService{
		store:  store,
		logger: logger,
	}
}

// Record notes an activity kind for the user on the day containing `at`.
func (s *ActivityService) Record(ctx context.Context, userID string, kind domain.ActivityType, at time.Time) error {
	if err := s.store.RecordActivityDay(ctx, userID, kind, at); err != nil {
		return fmt.Errorf("record activity day: %w", err)
	}

	s.logger.Debug("activity recorded",
		"user_id", userID,
		"kind", string(kind),
		"day", domain.DayOf(at).Format("2006-01-02"),
	)
	return nil
}

// QualifyingDays returns the set of days on or after `since` with at least
// one streak-qualifying activity.
func (s *ActivityService) QualifyingDays(ctx context.Context, userID string, since time.Time) (map[time.Time]bool, error) {
	days, err := s.store.ListActivityDays(ctx, userID, since)
	if err != nil {
		return nil, fmt.Errorf("list activity days: %w", err)
	}

	qualifying := make(map[time.Time]bool, len(days))
	for i := range days {
		if days[i].HasQualifying() {
			qualifying[days[i].Date] = true
		}
	}
	return qualifying, nil
}
