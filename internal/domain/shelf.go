package domain

import (
	"math"
	"time"
)

// Shelf represents one of the three user-chosen categories for a book.
type Shelf string

// Shelf constants. The set is closed: every transition site handles
// exactly these three values.
const (
	ShelfWantToRead       Shelf = "want_to_read"
	ShelfCurrentlyReading Shelf = "currently_reading"
	ShelfRead             Shelf = "read"
)

// Valid returns true if the shelf is a recognized value.
func (s Shelf) Valid() bool {
	switch s {
	case ShelfWantToRead, ShelfCurrentlyReading, ShelfRead:
		return true
	default:
		return false
	}
}

// ShelfEntry links one user to one book with shelf state and progress.
// A user has at most one entry per book; the store enforces the
// (UserID, BookID) natural key atomically.
type ShelfEntry struct {
	CreatedAt  time.Time  `json:"created_at"`
	UpdatedAt  time.Time  `json:"updated_at"`
	StartedAt  *time.Time `json:"started_at,omitempty"`  // First entry into CurrentlyReading; never cleared
	FinishedAt *time.Time `json:"finished_at,omitempty"` // Set on each entry into Read; re-finishing overwrites
	ID         string     `json:"id"`
	UserID     string     `json:"user_id"`
	BookID     string     `json:"book_id"`
	Shelf      Shelf      `json:"shelf"`
	PagesRead  int        `json:"pages_read"`
	Percentage int        `json:"percentage"` // Derived from PagesRead, never set independently
	Notes      string     `json:"notes,omitempty"`
}

// NewShelfEntry creates an entry for a book being shelved for the first time.
// Creation into CurrentlyReading or Read applies the same timestamp and
// completion rules as a shelf transition. Returns true if initialPages was
// clamped into range.
func NewShelfEntry(entryID, userID, bookID string, shelf Shelf, initialPages, totalPages int, now time.Time) (*ShelfEntry, bool) {
	e := &ShelfEntry{
		CreatedAt: now,
		UpdatedAt: now,
		ID:        entryID,
		UserID:    userID,
		BookID:    bookID,
		Shelf:     shelf,
	}

	pages, clamped := ClampPages(initialPages, totalPages)
	e.PagesRead = pages
	e.Percentage = ComputePercentage(pages, totalPages)

	switch shelf {
	case ShelfCurrentlyReading:
		e.StartedAt = &now
	case ShelfRead:
		e.finish(totalPages, now)
	}

	return e, clamped
}

// ApplyShelf moves the entry to newShelf, applying the transition rules:
// entering CurrentlyReading sets StartedAt if unset; entering Read forces
// full completion and sets or overwrites FinishedAt. Setting the current
// shelf again is a no-op beyond recomputing the percentage, so repeated
// calls never disturb StartedAt or FinishedAt.
func (e *ShelfEntry) ApplyShelf(newShelf Shelf, totalPages int, now time.Time) {
	if e.Shelf == newShelf {
		e.Percentage = ComputePercentage(e.PagesRead, totalPages)
		return
	}

	e.Shelf = newShelf
	e.UpdatedAt = now

	switch newShelf {
	case ShelfCurrentlyReading:
		if e.StartedAt == nil {
			e.StartedAt = &now
		}
		e.Percentage = ComputePercentage(e.PagesRead, totalPages)
	case ShelfRead:
		e.finish(totalPages, now)
	default:
		e.Percentage = ComputePercentage(e.PagesRead, totalPages)
	}
}

// ApplyProgress records a new pages-read value, clamping it into
// [0, totalPages] and recomputing the percentage. Returns true if the
// input was out of range and had to be clamped.
func (e *ShelfEntry) ApplyProgress(pagesRead, totalPages int, now time.Time) bool {
	pages, clamped := ClampPages(pagesRead, totalPages)
	e.PagesRead = pages
	e.Percentage = ComputePercentage(pages, totalPages)
	e.UpdatedAt = now
	return clamped
}

// finish marks the book fully read. Finishing implies full completion
// regardless of prior progress.
func (e *ShelfEntry) finish(totalPages int, now time.Time) {
	e.PagesRead = totalPages
	e.Percentage = ComputePercentage(totalPages, totalPages)
	e.FinishedAt = &now
}

// ClampPages clamps pages into [0, totalPages] and reports whether the
// input was out of range.
func ClampPages(pages, totalPages int) (int, bool) {
	if pages < 0 {
		return 0, true
	}
	if pages > totalPages {
		return totalPages, true
	}
	return pages, false
}

// ComputePercentage derives the completion percentage from a page count.
// Rounds half up to the nearest integer and clamps to [0, 100]. A book
// with zero total pages is always at 0%.
func ComputePercentage(pagesRead, totalPages int) int {
	if totalPages <= 0 {
		return 0
	}
	pct := int(math.Round(float64(pagesRead) / float64(totalPages) * 100))
	if pct < 0 {
		return 0
	}
	if pct > 100 {
		return 100
	}
	return pct
}
