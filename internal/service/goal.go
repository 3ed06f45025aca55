package service

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/bookwormapp/bookworm-server/internal/domain"
	domainerrors "github.com/bookwormapp/bookworm-server/internal/errors"
	"github.com/bookwormapp/bookworm-server/internal/id"
	"github.com/bookwormapp/bookworm-server/internal/store"
)

// GoalService manages per-user annual reading goals. A goal is a plain
// stored target; progress against it is computed by the stats aggregator.
type GoalService struct {
	store  *store.Store
	logger *slog.Logger
}

// NewGoalService creates a new goal service.
func NewGoalService(store *store.Store, logger *slog.Logger) *GoalService {
	return &GoalService{
		store:  store,
		logger: logger,
	}
}

// GetGoal returns the user's goal for a year, or NotFound if none is set.
func (s *GoalService) GetGoal(ctx context.Context, userID string, year int) (*domain.ReadingGoal, error) {
	goal, err := s.store.GetGoal(ctx, userID, year)
	if err != nil {
		if errors.Is(err, store.ErrNotFound) {
			return nil, domainerrors.NotFoundf("no reading goal for %d", year)
		}
		return nil, fmt.Errorf("get goal: %w", err)
	}
	return goal, nil
}

// UpsertGoal sets the user's target for a year, creating or replacing the
// stored goal. Non-positive targets are stored as-is; progress computation
// rejects them at read time.
func (s *GoalService) UpsertGoal(ctx context.Context, userID string, year, targetBooks int, now time.Time) (*domain.ReadingGoal, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	if userID == "" {
		return nil, domainerrors.Validation("user ID is required")
	}

	if targetBooks <= 0 {
		s.logger.Warn("storing non-positive goal target",
			"user_id", userID,
			"year", year,
			"target", targetBooks,
		)
	}

	goalID, err := id.Generate("goal")
	if err != nil {
		return nil, fmt.Errorf("generate goal ID: %w", err)
	}

	goal := &domain.ReadingGoal{
		ID:          goalID,
		UserID:      userID,
		Year:        year,
		TargetBooks: targetBooks,
		CreatedAt:   now,
		UpdatedAt:   now,
	}

	if err := s.store.UpsertGoal(ctx, goal); err != nil {
		return nil, fmt.Errorf("upsert goal: %w", err)
	}

	s.logger.Info("reading goal set",
		"user_id", userID,
		"year", year,
		"target", targetBooks,
	)

	return goal, nil
}
