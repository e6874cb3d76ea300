package scheduler

import (
	"context"
	"time"

	"tidewatch/internal/logger"
	"tidewatch/internal/session"
)

// SessionSweeper handles periodic cleanup of expired in-memory sessions.
// The memory store already expires sessions lazily on read; the sweeper
// reclaims the ones nobody reads again.
type SessionSweeper struct {
	store    *session.MemoryStore
	logger   logger.Logger
	interval time.Duration
	stopCh   chan struct{}
}

// NewSessionSweeper creates a new session sweeper
func NewSessionSweeper(store *session.MemoryStore, log logger.Logger, interval time.Duration) *SessionSweeper {
	return &SessionSweeper{
		store:    store,
		logger:   log,
		interval: interval,
		stopCh:   make(chan struct{}),
	}
}

// Start begins the periodic sweep process
func (sw *SessionSweeper) Start(ctx context.Context) {
	// Run immediately on start
	sw.Sweep()

	// Start periodic sweeps
	ticker := time.NewTicker(sw.interval)
	go func() {
		defer ticker.Stop()
		for {
			select {
			case <-ticker.C:
				sw.Sweep()
			case <-sw.stopCh:
				return
			case <-ctx.Done():
				return
			}
		}
	}()
}

// Stop stops the sweeper
func (sw *SessionSweeper) Stop() {
	close(sw.stopCh)
}

// Sweep removes every expired session from the store
func (sw *SessionSweeper) Sweep() {
	removed := sw.store.Sweep()
	if removed > 0 {
		sw.logger.Info("swept expired sessions",
			logger.Int("removed", removed))
	} else {
		sw.logger.Debug("no expired sessions to sweep")
	}
}
