package service

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/bookwormapp/bookworm-server/internal/domain"
	domainerrors "github.com/bookwormapp/bookworm-server/internal/errors"
	"github.com/bookwormapp/bookworm-server/internal/events"
	"github.com/bookwormapp/bookworm-server/internal/id"
	"github.com/bookwormapp/bookworm-server/internal/store"
	"github.com/bookwormapp/bookworm-server/internal/validation"
)

// EventPublisher publishes domain events raised by mutations.
// ShelfService uses this rather than the bus type directly so tests can
// capture emissions.
type EventPublisher interface {
	Publish(event events.Event)
}

// ShelfActivityRecorder records day-level activity for streak computation.
// This avoids a circular dependency between ShelfService and ActivityService.
type ShelfActivityRecorder interface {
	Record(ctx context.Context, userID string, kind domain.ActivityType, at time.Time) error
}

// ShelfService enforces the shelf state machine and the one-entry-per-book
// invariant. Every successful mutation raises exactly one domain event.
type ShelfService struct {
	store            *store.Store
	publisher        EventPublisher
	validator        *validation.Validator
	logger           *slog.Logger
	activityRecorder ShelfActivityRecorder
}

// NewShelfService creates a new shelf service.
func NewShelfService(store *store.Store, publisher EventPublisher, logger *slog.Logger) *ShelfService {
	return &ShelfService{
		store:     store,
		publisher: publisher,
		validator: validation.New(),
		logger:    logger,
	}
}

// SetActivityRecorder sets the recorder for day-level activity.
// This is set after construction to avoid circular dependencies.
func (s *ShelfService) SetActivityRecorder(recorder ShelfActivityRecorder) {
	s.activityRecorder = recorder
}

// AddToShelfInput is the request to shelve a book for the first time.
type AddToShelfInput struct {
	UserID string       `json:"userId" validate:"required"`
	BookID string       `json:"bookId" validate:"required"`
	Shelf  domain.Shelf `json:"shelf" validate:"required,oneof=want_to_read currently_reading read"`
	// InitialPagesRead is clamped into [0, totalPages], never rejected.
	InitialPagesRead int `json:"initialPagesRead"`
}

// AddToShelf creates a shelf entry for a (user, book) pair that has none.
// Returns DuplicateEntry if the pair is already shelved; the existing
// entry is left untouched. Creation directly into CurrentlyReading or
// Read applies the same transition rules as ChangeShelf.
func (s *ShelfService) AddToShelf(ctx context.Context, in AddToShelfInput, now time.Time) (*domain.ShelfEntry, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	if err := s.validator.Validate(in); err != nil {
		return nil, err
	}

	book, err := s.store.GetBook(ctx, in.BookID)
	if err != nil {
		if errors.Is(err, store.ErrNotFound) {
			return nil, domainerrors.NotFoundf("book %s not found", in.BookID)
		}
		return nil, fmt.Errorf("get book: %w", err)
	}

	entryID, err := id.Generate("entry")
	if err != nil {
		return nil, fmt.Errorf("generate entry ID: %w", err)
	}

	entry, clamped := domain.NewShelfEntry(entryID, in.UserID, in.BookID, in.Shelf, in.InitialPagesRead, book.TotalPages, now)
	if clamped {
		s.logger.Warn("initial pages read out of range, clamped",
			"user_id", in.UserID,
			"book_id", in.BookID,
			"requested", in.InitialPagesRead,
			"stored", entry.PagesRead,
		)
	}

	// The store's unique index makes check-then-insert atomic: a concurrent
	// duplicate surfaces here as ErrAlreadyExists.
	if err := s.store.Entries.Create(ctx, entry.ID, entry); err != nil {
		if errors.Is(err, store.ErrAlreadyExists) {
			return nil, domainerrors.DuplicateEntryf("book %s is already on a shelf", in.BookID)
		}
		return nil, fmt.Errorf("create entry: %w", err)
	}

	s.logger.Info("book shelved",
		"entry_id", entry.ID,
		"user_id", in.UserID,
		"book_id", in.BookID,
		"shelf", string(in.Shelf),
	)

	s.publisher.Publish(events.NewShelfChangedEvent(entry, "", in.Shelf, now))
	s.recordShelfActivity(ctx, in.UserID, in.Shelf, now)

	return entry, nil
}

// ChangeShelf moves an entry to a shelf. Moving to the current shelf is a
// no-op beyond recomputing the percentage. Entering CurrentlyReading sets
// StartedAt on first entry; entering Read forces full completion and
// sets or overwrites FinishedAt.
func (s *ShelfService) ChangeShelf(ctx context.Context, entryID string, newShelf domain.Shelf, now time.Time) (*domain.ShelfEntry, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	if !newShelf.Valid() {
		return nil, domainerrors.Validationf("unknown shelf %q", string(newShelf))
	}

	entry, book, err := s.resolveEntry(ctx, entryID)
	if err != nil {
		return nil, err
	}

	fromShelf := entry.Shelf
	entry.ApplyShelf(newShelf, book.TotalPages, now)

	if err := s.store.Entries.Update(ctx, entry.ID, entry); err != nil {
		return nil, fmt.Errorf("update entry: %w", err)
	}

	s.logger.Info("shelf changed",
		"entry_id", entry.ID,
		"user_id", entry.UserID,
		"from", string(fromShelf),
		"to", string(newShelf),
	)

	s.publisher.Publish(events.NewShelfChangedEvent(entry, fromShelf, newShelf, now))
	s.recordShelfActivity(ctx, entry.UserID, newShelf, now)

	return entry, nil
}

// UpdateProgress records a new pages-read value for an entry. Out-of-range
// values are clamped and logged, never rejected.
func (s *ShelfService) UpdateProgress(ctx context.Context, entryID string, pagesRead int, now time.Time) (*domain.ShelfEntry, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	entry, book, err := s.resolveEntry(ctx, entryID)
	if err != nil {
		return nil, err
	}

	clamped := entry.ApplyProgress(pagesRead, book.TotalPages, now)
	if clamped {
		s.logger.Warn("pages read out of range, clamped",
			"entry_id", entry.ID,
			"user_id", entry.UserID,
			"requested", pagesRead,
			"stored", entry.PagesRead,
			"total_pages", book.TotalPages,
		)
	}

	if err := s.store.Entries.Update(ctx, entry.ID, entry); err != nil {
		return nil, fmt.Errorf("update entry: %w", err)
	}

	s.publisher.Publish(events.NewProgressUpdatedEvent(entry, clamped, now))
	s.recordActivity(ctx, entry.UserID, domain.ActivityProgressUpdated, now)

	return entry, nil
}

// GetEntry retrieves an entry by ID.
func (s *ShelfService) GetEntry(ctx context.Context, entryID string) (*domain.ShelfEntry, error) {
	entry, err := s.store.Entries.Get(ctx, entryID)
	if err != nil {
		if errors.Is(err, store.ErrNotFound) {
			return nil, domainerrors.NotFoundf("entry %s not found", entryID)
		}
		return nil, fmt.Errorf("get entry: %w", err)
	}
	return entry, nil
}

// ListEntries returns all of a user's shelf entries, newest first.
func (s *ShelfService) ListEntries(ctx context.Context, userID string) ([]*domain.ShelfEntry, error) {
	entries, err := s.store.ListEntries(ctx, userID)
	if err != nil {
		return nil, fmt.Errorf("list entries: %w", err)
	}
	return entries, nil
}

// resolveEntry loads an entry and its book for mutation.
// An unresolvable entry ID is an InvalidEntry failure.
func (s *ShelfService) resolveEntry(ctx context.Context, entryID string) (*domain.ShelfEntry, *domain.Book, error) {
	entry, err := s.store.Entries.Get(ctx, entryID)
	if err != nil {
		if errors.Is(err, store.ErrNotFound) {
			return nil, nil, domainerrors.InvalidEntryf("entry %s cannot be resolved", entryID)
		}
		return nil, nil, fmt.Errorf("get entry: %w", err)
	}

	book, err := s.store.GetBook(ctx, entry.BookID)
	if err != nil {
		if errors.Is(err, store.ErrNotFound) {
			return nil, nil, domainerrors.NotFoundf("book %s not found", entry.BookID)
		}
		return nil, nil, fmt.Errorf("get book: %w", err)
	}

	return entry, book, nil
}

// recordShelfActivity maps a destination shelf to its activity kind.
func (s *ShelfService) recordShelfActivity(ctx context.Context, userID string, shelf domain.Shelf, now time.Time) {
	var kind domain.ActivityType
	switch shelf {
	case domain.ShelfCurrentlyReading:
		kind = domain.ActivityStartedBook
	case domain.ShelfRead:
		kind = domain.ActivityFinishedBook
	default:
		kind = domain.ActivityShelvedBook
	}
	s.recordActivity(ctx, userID, kind, now)
}

func (s *ShelfService) recordActivity(ctx context.Context, userID string, kind domain.ActivityType, now time.Time) {
	if s.activityRecorder == nil {
		return
	}
	if err := s.activityRecorder.Record(ctx, userID, kind, now); err != nil {
		s.logger.Warn("failed to record activity",
			"user_id", userID,
			"kind", string(kind),
			"error", err,
		)
	}
}
