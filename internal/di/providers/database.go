package providers

import (
	"context"

	"github.com/samber/do/v2"

	"github.com/bookwormapp/bookworm-server/internal/config"
	"github.com/bookwormapp/bookworm-server/internal/events"
	"github.com/bookwormapp/bookworm-server/internal/logger"
	"github.com/bookwormapp/bookworm-server/internal/store"
)

// EventBusHandle wraps the event bus with its context for lifecycle management.
type EventBusHandle struct {
	*events.Bus
	cancel context.CancelFunc
}

// Shutdown implements do.Shutdownable.
func (h *EventBusHandle) Shutdown() error {
	h.cancel()
	ctx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()
	return h.Bus.Shutdown(ctx)
}

// ProvideEventBus provides the in-process domain event bus.
func ProvideEventBus(i do.Injector) (*EventBusHandle, error) {
	cfg := do.MustInvoke[*config.Config](i)
	log := do.MustInvoke[*logger.Logger](i)

	bus := events.NewBus(log.Logger, cfg.Events.BufferSize)

	// Start in background
	ctx, cancel := context.WithCancel(context.Background())
	go bus.Start(ctx)

	log.Info("Event bus started", "buffer_size", cfg.Events.BufferSize)

	return &EventBusHandle{
		Bus:    bus,
		cancel: cancel,
	}, nil
}

// StoreHandle wraps the store with shutdown capability.
type StoreHandle struct {
	*store.Store
	cancelGC context.CancelFunc
}

// Shutdown implements do.Shutdownable.
func (h *StoreHandle) Shutdown() error {
	h.cancelGC()
	return h.Close()
}

// ProvideStore provides the database store.
func ProvideStore(i do.Injector) (*StoreHandle, error) {
	cfg := do.MustInvoke[*config.Config](i)
	log := do.MustInvoke[*logger.Logger](i)

	db, err := store.New(store.Options{
		Path:       cfg.Store.DataPath,
		SyncWrites: cfg.Store.SyncWrites,
	}, log.Logger)
	if err != nil {
		return nil, err
	}

	log.Info("Database initialized", "path", cfg.Store.DataPath)

	gcCtx, cancelGC := context.WithCancel(context.Background())
	go db.RunGC(gcCtx, cfg.Store.GCInterval)

	return &StoreHandle{
		Store:    db,
		cancelGC: cancelGC,
	}, nil
}
