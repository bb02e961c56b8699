package scheduler

import (
	"context"
	"time"

	"github.com/MrSnakeDoc/sniplink/internal/logger"
)

// Sweeper drops expired cache entries.
type Sweeper interface {
	Sweep() int
}

// CacheSweeper periodically removes expired entries from the in-memory cache
type CacheSweeper struct {
	cache    Sweeper
	logger   logger.Logger
	interval time.Duration
	stopCh   chan struct{}
}

// NewCacheSweeper creates a new cache sweeper
func NewCacheSweeper(cache Sweeper, log logger.Logger, interval time.Duration) *CacheSweeper {
	return &CacheSweeper{
		cache:    cache,
		logger:   log,
		interval: interval,
		stopCh:   make(chan struct{}),
	}
}

// Start begins the periodic sweep
func (cs *CacheSweeper) Start(ctx context.Context) {
	ticker := time.NewTicker(cs.interval)
	go func() {
		defer ticker.Stop()
		for {
			select {
			case <-ticker.C:
				cs.Sweep()
			case <-cs.stopCh:
				return
			case <-ctx.Done():
				return
			}
		}
	}()
}

// Stop stops the sweeper
func (cs *CacheSweeper) Stop() {
	close(cs.stopCh)
}

// Sweep runs one pass and returns how many entries were removed.
func (cs *CacheSweeper) Sweep() int {
	removed := cs.cache.Sweep()
	if removed > 0 {
		cs.logger.Debug("cache sweep completed", logger.Int("removed", removed))
	}
	return removed
}
