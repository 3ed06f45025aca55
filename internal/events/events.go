// Package events implements the in-process domain event bus for library mutations.
package events

import (
	"time"

	"github.com/google/uuid"

	"github.com/bookwormapp/bookworm-server/internal/domain"
)

// Every successful shelf mutation raises exactly one event. The activity
// feed and recommendation collaborators consume these; the engine never
// persists them.

// EventType represents the type of domain event.
type EventType string

const (
	// EventShelfChanged represents a book being added to a shelf or moved
	// between shelves.
	EventShelfChanged EventType = "shelf.changed"
	// EventProgressUpdated represents a pages-read update on a shelf entry.
	EventProgressUpdated EventType = "progress.updated"
)

// Event is the envelope published on the bus.
type Event struct {
	Timestamp time.Time `json:"timestamp"`
	Data      any       `json:"data"` // Event-specific payload
	ID        string    `json:"id"`   // Unique envelope ID
	Type      EventType `json:"type"`

	// UserID scopes delivery: subscribers with a user filter only receive
	// matching events. Empty means "deliver to all".
	UserID string `json:"-"`
}

// ShelfChangedData is the payload for shelf.changed events.
type ShelfChangedData struct {
	Entry     *domain.ShelfEntry `json:"entry"`
	FromShelf domain.Shelf       `json:"from_shelf,omitempty"` // Empty on first shelving
	ToShelf   domain.Shelf       `json:"to_shelf"`
}

// ProgressUpdatedData is the payload for progress.updated events.
type ProgressUpdatedData struct {
	Entry     *domain.ShelfEntry `json:"entry"`
	PagesRead int                `json:"pages_read"`
	Clamped   bool               `json:"clamped"`
}

// NewShelfChangedEvent builds a shelf.changed event for an entry.
func NewShelfChangedEvent(entry *domain.ShelfEntry, from, to domain.Shelf, now time.Time) Event {
	return Event{
		ID:        uuid.Must(uuid.NewV7()).String(),
		Type:      EventShelfChanged,
		Timestamp: now,
		UserID:    entry.UserID,
		Data: ShelfChangedData{
			Entry:     entry,
			FromShelf: from,
			ToShelf:   to,
		},
	}
}

// NewProgressUpdatedEvent builds a progress.updated event for an entry.
func NewProgressUpdatedEvent(entry *domain.ShelfEntry, clamped bool, now time.Time) Event {
	return Event{
		ID:        uuid.Must(uuid.NewV7()).String(),
		Type:      EventProgressUpdated,
		Timestamp: now,
		UserID:    entry.UserID,
		Data: ProgressUpdatedData{
			Entry:     entry,
			PagesRead: entry.PagesRead,
			Clamped:   clamped,
		},
	}
}
