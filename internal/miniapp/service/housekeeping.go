package service

import (
	"context"
	"log/slog"
	"time"

	"github.com/Dev-JBA/JBAAI-WEB-VIEW/internal/miniapp/store"
)

// Pruner forgets in-memory state that was not touched since before.
type Pruner interface {
	Prune(before time.Time) int
}

// HousekeepingService periodically deletes expired sessions, consumed tokens
// and remembered transactions, and prunes idle tabs from the gate.
type HousekeepingService struct {
	Store    store.Store
	Gate     Pruner
	Logger   *slog.Logger
	Interval time.Duration

	// IdleAfter is how long an idle tab stays in memory.
	IdleAfter time.Duration

	// Internal channels for lifecycle management
	stopCh chan struct{}
	doneCh chan struct{}
}

// NewHousekeepingService creates a new housekeeping service with the given interval.
// If interval is 0 or negative, defaults to 1 hour.
func NewHousekeepingService(st store.Store, gate Pruner, logger *slog.Logger, interval time.Duration) *HousekeepingService {
	if interval <= 0 {
		interval = 1 * time.Hour
	}

	return &HousekeepingService{
		Store:     st,
		Gate:      gate,
		Logger:    logger,
		Interval:  interval,
		IdleAfter: 12 * time.Hour,
		stopCh:    make(chan struct{}),
		doneCh:    make(chan struct{}),
	}
}

// Start begins the background worker. Call Stop to shut it down.
func (s *HousekeepingService) Start() {
	go s.run()
	s.Logger.Info("housekeeping service started", "interval", s.Interval)
}

// Stop blocks until the worker has finished any in-progress cleanup.
func (s *HousekeepingService) Stop() {
	close(s.stopCh)
	<-s.doneCh
	s.Logger.Info("housekeeping service stopped")
}

func (s *HousekeepingService) run() {
	defer close(s.doneCh)

	ticker := time.NewTicker(s.Interval)
	defer ticker.Stop()

	s.Cleanup(context.Background())

	for {
		select {
		case <-ticker.C:
			s.Cleanup(context.Background())
		case <-s.stopCh:
			return
		}
	}
}

// Cleanup runs one pass. Each step is independent, a failure in one does
// not stop the others.
func (s *HousekeepingService) Cleanup(ctx context.Context) {
	s.Logger.Debug("starting housekeeping cleanup")

	steps := []struct {
		name string
		fn   func(context.Context) (int64, error)
	}{
		{"tab sessions", s.Store.TabSessions().DeleteExpiredTabSessions},
		{"consumed tokens", s.Store.ConsumedTokens().DeleteExpiredConsumedTokens},
		{"last transactions", s.Store.Transactions().DeleteExpiredTransactions},
	}

	var total int64
	for _, step := range steps {
		n, err := step.fn(ctx)
		if err != nil {
			s.Logger.Error("failed to delete expired rows", "table", step.name, "error", err)
			continue
		}
		total += n
	}

	pruned := 0
	if s.Gate != nil {
		pruned = s.Gate.Prune(time.Now().Add(-s.IdleAfter))
	}

	s.Logger.Info("housekeeping cleanup completed", "deleted", total, "pruned_tabs", pruned)
}
