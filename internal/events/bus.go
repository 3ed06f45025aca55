package events

import (
	"context"
	"log/slog"
	"sync"
	"time"

	"github.com/bookwormapp/bookworm-server/internal/id"
)

// Subscriber represents a consumer attached to the bus.
type Subscriber struct {
	SubscribedAt time.Time
	EventChan    chan Event
	Done         chan struct{}
	ID           string
	// UserID filters delivery: only events for this user are delivered.
	// Empty string means "receive all".
	UserID string
}

// Bus is the in-process domain event bus. Services publish mutation
// events; activity-feed and recommendation style consumers subscribe.
type Bus struct {
	subscribers map[string]*Subscriber
	events      chan Event
	logger      *slog.Logger
	wg          sync.WaitGroup
	mu          sync.RWMutex

	// Shutdown state - protected by shutdownMu
	shutdownMu sync.RWMutex
	shutdown   bool
}

// NewBus creates a bus with the given publish buffer size.
func NewBus(logger *slog.Logger, bufferSize int) *Bus {
	if bufferSize <= 0 {
		bufferSize = 64
	}
	return &Bus{
		subscribers: make(map[string]*Subscriber),
		events:      make(chan Event, bufferSize),
		logger:      logger,
	}
}

// Start begins the dispatch loop.
// This should be called once at startup in a goroutine.
func (b *Bus) Start(ctx context.Context) {
	b.wg.Add(1)
	defer b.wg.Done()

	b.logger.Info("event bus starting")

	for {
		select {
		case event, ok := <-b.events:
			if !ok {
				// Shutdown closed the channel; its drain owns the rest.
				return
			}
			b.dispatch(event)

		case <-ctx.Done():
			b.logger.Info("event bus stopping")
			b.closeAllSubscribers()
			return
		}
	}
}

// Shutdown gracefully shuts down the bus.
// It stops accepting new events, drains remaining events, and closes all subscribers.
func (b *Bus) Shutdown(ctx context.Context) error {
	b.logger.Info("event bus shutdown initiated")

	// Mark as shutdown AND close channel atomically while holding lock.
	// This prevents a race with Publish() which holds the read lock during send.
	b.shutdownMu.Lock()
	b.shutdown = true
	close(b.events)
	b.shutdownMu.Unlock()

	// Drain remaining events with context timeout.
	done := make(chan struct{})
	go func() {
		for event := range b.events {
			b.dispatch(event)
		}
		close(done)
	}()

	select {
	case <-done:
		b.logger.Info("events drained successfully")
	case <-ctx.Done():
		b.logger.Warn("event drain timeout, some events may be lost")
	}

	b.wg.Wait()

	b.closeAllSubscribers()

	b.logger.Info("event bus shutdown complete")
	return nil
}

// dispatch sends an event to attached subscribers, filtered by user.
func (b *Bus) dispatch(event Event) {
	var delivered, dropped, filtered int

	b.mu.RLock()
	defer b.mu.RUnlock()

	for _, sub := range b.subscribers {
		// Filter by user when the subscriber is user-scoped.
		if sub.UserID != "" && event.UserID != "" && sub.UserID != event.UserID {
			filtered++
			continue
		}

		// Non-blocking send (drop if subscriber is slow/stuck).
		select {
		case sub.EventChan <- event:
			delivered++
		default:
			dropped++
			b.logger.Warn("dropped event for slow subscriber",
				slog.String("subscriber_id", sub.ID),
				slog.String("event_type", string(event.Type)))
		}
	}

	b.logger.Debug("event dispatched",
		slog.String("event_type", string(event.Type)),
		slog.Group("stats",
			slog.Int("delivered", delivered),
			slog.Int("filtered", filtered),
			slog.Int("dropped", dropped)))
}

// Subscribe attaches a new consumer and returns the subscriber object.
// The userID filters delivery to one user's events; empty means "all".
func (b *Bus) Subscribe(userID string) (*Subscriber, error) {
	subID, err := id.Generate("sub")
	if err != nil {
		return nil, err
	}

	sub := &Subscriber{
		ID:           subID,
		UserID:       userID,
		EventChan:    make(chan Event, 100), // Buffer 100 events per subscriber
		Done:         make(chan struct{}),
		SubscribedAt: time.Now(),
	}

	b.mu.Lock()
	b.subscribers[sub.ID] = sub
	total := len(b.subscribers)
	b.mu.Unlock()

	b.logger.Info("event subscriber attached",
		slog.String("subscriber_id", subID),
		slog.String("user_id", userID),
		slog.Int("total_subscribers", total))
	return sub, nil
}

// Unsubscribe detaches a subscriber and closes its channels.
func (b *Bus) Unsubscribe(subID string) {
	b.mu.Lock()
	sub, ok := b.subscribers[subID]
	if !ok {
		b.mu.Unlock()
		return
	}
	delete(b.subscribers, subID)
	total := len(b.subscribers)
	b.mu.Unlock()

	close(sub.Done)
	close(sub.EventChan)

	b.logger.Info("event subscriber detached",
		slog.String("subscriber_id", subID),
		slog.Duration("duration", time.Since(sub.SubscribedAt)),
		slog.Int("total_subscribers", total))
}

// Publish queues an event for dispatch to subscribers.
func (b *Bus) Publish(event Event) {
	// Hold the read lock through the entire send operation.
	// This prevents a race with Shutdown() which holds the write lock when closing the channel.
	b.shutdownMu.RLock()
	defer b.shutdownMu.RUnlock()

	if b.shutdown {
		// Silently drop events after shutdown - this is expected during shutdown
		return
	}

	select {
	case b.events <- event:
		// Event queued for dispatch.
	default:
		// Channel full, log and drop.
		b.logger.Error("event channel full, dropping event",
			slog.String("event_type", string(event.Type)))
	}
}

func (b *Bus) closeAllSubscribers() {
	b.mu.Lock()
	defer b.mu.Unlock()

	for subID, sub := range b.subscribers {
		close(sub.Done)
		close(sub.EventChan)
		delete(b.subscribers, subID)
	}
}
