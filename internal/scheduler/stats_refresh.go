package scheduler

import (
	"context"
	"fmt"
	"time"

	"github.com/robfig/cron/v3"

	"github.com/MrSnakeDoc/sniplink/internal/logger"
	"github.com/MrSnakeDoc/sniplink/internal/metrics"
)

// StatsSource is the part of the store the refresher reads.
type StatsSource interface {
	Totals(ctx context.Context) (links, clicks int64, err error)
}

// StatsRefresher copies store totals into the metrics gauges on a cron schedule
type StatsRefresher struct {
	source   StatsSource
	metrics  *metrics.Metrics
	logger   logger.Logger
	schedule string
	timeout  time.Duration
	cron     *cron.Cron
}

// NewStatsRefresher creates a refresher running on schedule (standard cron
// spec or descriptors such as "@every 1m").
func NewStatsRefresher(source StatsSource, m *metrics.Metrics, log logger.Logger, schedule string) *StatsRefresher {
	return &StatsRefresher{
		source:   source,
		metrics:  m,
		logger:   log,
		schedule: schedule,
		timeout:  10 * time.Second,
		cron:     cron.New(),
	}
}

// Start refreshes once, then registers the job and starts the cron runner.
func (sr *StatsRefresher) Start(ctx context.Context) error {
	if err := sr.Refresh(ctx); err != nil {
		sr.logger.Warn("initial stats refresh failed", logger.Error(err))
	}

	if _, err := sr.cron.AddFunc(sr.schedule, func() {
		if ctx.Err() != nil {
			return
		}
		if err := sr.Refresh(ctx); err != nil {
			sr.logger.Error("stats refresh failed", logger.Error(err))
		}
	}); err != nil {
		return fmt.Errorf("invalid stats schedule %q: %w", sr.schedule, err)
	}

	sr.cron.Start()
	return nil
}

// Stop stops the cron runner and waits for a running job to finish.
func (sr *StatsRefresher) Stop() {
	<-sr.cron.Stop().Done()
}

// Refresh reads the totals once and updates the gauges.
func (sr *StatsRefresher) Refresh(ctx context.Context) error {
	ctx, cancel := context.WithTimeout(ctx, sr.timeout)
	defer cancel()

	links, clicks, err := sr.source.Totals(ctx)
	if err != nil {
		return fmt.Errorf("failed to read stats: %w", err)
	}
	sr.metrics.SetTotals(links, clicks)

	sr.logger.Debug("stats refreshed",
		logger.Int64("links", links),
		logger.Int64("clicks", clicks))
	return nil
}
