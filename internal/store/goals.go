package store

import (
	"context"
	"errors"
	"fmt"
	"strconv"

	"github.com/dgraph-io/badger/v4"

	"github.com/bookwormapp/bookworm-server/internal/domain"
)

// userYearKey builds the natural-key index value for a reading goal.
func userYearKey(userID string, year int) string {
	return userID + ":" + strconv.Itoa(year)
}

// initGoals initializes the Goals entity on the store.
// One goal per (user, year).
func (s *Store) initGoals() {
	s.Goals = NewEntity[domain.ReadingGoal](s, "goal:").
		WithIndex("user_year", func(g *domain.ReadingGoal) []string {
			return []string{userYearKey(g.UserID, g.Year)}
		})
}

// GetGoal looks up a user's goal for a calendar year.
// Returns ErrNotFound if no goal has been set.
func (s *Store) GetGoal(ctx context.Context, userID string, year int) (*domain.ReadingGoal, error) {
	return s.Goals.GetByIndex(ctx, "user_year", userYearKey(userID, year))
}

// UpsertGoal creates or replaces a user's goal for a year.
// The goal must carry an ID for the create path; on update the existing
// ID and CreatedAt are preserved. The lookup and the write are separate
// transactions, so a first-time upsert that loses a race with a concurrent
// creator retries as an update against the winner's record.
func (s *Store) UpsertGoal(ctx context.Context, goal *domain.ReadingGoal) error {
	for {
		if err := ctx.Err(); err != nil {
			return err
		}

		existing, err := s.GetGoal(ctx, goal.UserID, goal.Year)
		if errors.Is(err, ErrNotFound) {
			createErr := s.Goals.Create(ctx, goal.ID, goal)
			if createErr == nil {
				return nil
			}
			if errors.Is(createErr, ErrAlreadyExists) || errors.Is(createErr, badger.ErrConflict) {
				// A concurrent creator won the user_year index; retry as
				// an update of their record.
				continue
			}
			return fmt.Errorf("creating goal: %w", createErr)
		}
		if err != nil {
			return fmt.Errorf("looking up goal: %w", err)
		}

		goal.ID = existing.ID
		goal.CreatedAt = existing.CreatedAt
		updateErr := s.Goals.Update(ctx, existing.ID, goal)
		if updateErr == nil {
			return nil
		}
		if errors.Is(updateErr, badger.ErrConflict) {
			continue
		}
		return fmt.Errorf("updating goal: %w", updateErr)
	}
}
