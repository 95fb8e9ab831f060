package scheduler

import (
	"context"
	"sync"
	"time"

	"github.com/genrejinn/genrejinn/internal/logger"
)

// DefaultAutosaveInterval is the period between automatic full saves.
const DefaultAutosaveInterval = 30 * time.Second

// Saver persists the full in-memory annotation state.
type Saver interface {
	Save(ctx context.Context)
}

// Autosaver periodically saves the annotation store. All saves, user
// triggered or tick triggered, should go through Save so that two writes
// never overlap.
type Autosaver struct {
	saver    Saver
	logger   logger.Logger
	interval time.Duration
	stopCh   chan struct{}
	mu       sync.Mutex
}

// NewAutosaver creates an autosaver.
func NewAutosaver(saver Saver, log logger.Logger, interval time.Duration) *Autosaver {
	if interval <= 0 {
		interval = DefaultAutosaveInterval
	}
	return &Autosaver{
		saver:    saver,
		logger:   log,
		interval: interval,
		stopCh:   make(chan struct{}),
	}
}

// Start begins the periodic save loop.
func (a *Autosaver) Start(ctx context.Context) {
	ticker := time.NewTicker(a.interval)
	go func() {
		defer ticker.Stop()
		for {
			select {
			case <-ticker.C:
				a.Save(ctx)
			case <-a.stopCh:
				return
			case <-ctx.Done():
				return
			}
		}
	}()
}

// Stop stops the autosaver. A final save is the caller's responsibility.
func (a *Autosaver) Stop() {
	close(a.stopCh)
}

// Save persists the store unless another save is already running, in
// which case the call is skipped; the next tick covers it.
func (a *Autosaver) Save(ctx context.Context) {
	if !a.mu.TryLock() {
		a.logger.Debug("save already in progress, skipping")
		return
	}
	defer a.mu.Unlock()

	start := time.Now()
	a.saver.Save(ctx)
	a.logger.Debug("autosave completed",
		logger.Duration("duration", time.Since(start)))
}
