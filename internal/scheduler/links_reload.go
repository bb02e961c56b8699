package scheduler

import (
	"context"
	"errors"
	"fmt"
	"slices"
	"sync"
	"time"

	"github.com/MrSnakeDoc/sniplink/internal/domain"
	"github.com/MrSnakeDoc/sniplink/internal/logger"
	"github.com/MrSnakeDoc/sniplink/internal/metrics"
	"github.com/MrSnakeDoc/sniplink/internal/sources/linkfile"
)

// ReloadResult summarizes one pass over the links file.
type ReloadResult struct {
	At        time.Time `json:"at"`
	Declared  int       `json:"declared"`
	Created   int       `json:"created"`
	Updated   int       `json:"updated"`
	Unchanged int       `json:"unchanged"`
	Skipped   int       `json:"skipped"` // inactive codes, invalid entries, failed writes
	Error     string    `json:"error,omitempty"`
}

// LinksReloader keeps the store in sync with the declared links file
type LinksReloader struct {
	loader        *linkfile.Loader
	mapper        *linkfile.Mapper
	repo          domain.LinkRepository
	shortener     *domain.Shortener
	cache         domain.LinkCache
	metrics       *metrics.Metrics
	logger        logger.Logger
	interval      time.Duration
	now           func() time.Time
	stopCh        chan struct{}
	manualTrigger chan struct{}

	mu   sync.RWMutex
	last *ReloadResult
}

// NewLinksReloader creates a new links file reloader
func NewLinksReloader(
	linksFile string,
	repo domain.LinkRepository,
	shortener *domain.Shortener,
	cache domain.LinkCache,
	m *metrics.Metrics,
	log logger.Logger,
	interval time.Duration,
	manualTrigger chan struct{},
) *LinksReloader {
	if cache == nil {
		cache = domain.NopCache{}
	}
	return &LinksReloader{
		loader:        linkfile.NewLoader(linksFile),
		mapper:        linkfile.NewMapper(),
		repo:          repo,
		shortener:     shortener,
		cache:         cache,
		metrics:       m,
		logger:        log,
		interval:      interval,
		now:           time.Now,
		stopCh:        make(chan struct{}),
		manualTrigger: manualTrigger,
	}
}

// Start begins the periodic reload process
func (lr *LinksReloader) Start(ctx context.Context) error {
	// Load immediately on start
	if _, err := lr.Reload(ctx); err != nil {
		return fmt.Errorf("initial links reload failed: %w", err)
	}

	// Start periodic reload
	ticker := time.NewTicker(lr.interval)
	go func() {
		defer ticker.Stop()
		for {
			select {
			case <-ticker.C:
				if _, err := lr.Reload(ctx); err != nil {
					lr.logger.Error("failed to reload links file",
						logger.Error(err))
				}
			case <-lr.manualTrigger:
				lr.logger.Info("manual links reload triggered")
				if _, err := lr.Reload(ctx); err != nil {
					lr.logger.Error("failed to reload links file",
						logger.Error(err))
				}
			case <-lr.stopCh:
				return
			case <-ctx.Done():
				return
			}
		}
	}()

	return nil
}

// Stop stops the reloader
func (lr *LinksReloader) Stop() {
	close(lr.stopCh)
}

// LastResult returns the outcome of the latest reload, or nil before the first one.
func (lr *LinksReloader) LastResult() *ReloadResult {
	lr.mu.RLock()
	defer lr.mu.RUnlock()
	if lr.last == nil {
		return nil
	}
	r := *lr.last
	return &r
}

// Reload reads the links file and applies it: unknown codes are created,
// active links are updated, deactivated codes are left alone.
// Only file-level failures are returned; bad entries are logged and skipped.
func (lr *LinksReloader) Reload(ctx context.Context) (*ReloadResult, error) {
	lr.logger.Info("reloading links file", logger.String("file", lr.loader.Path()))
	result := &ReloadResult{At: lr.now()}

	file, err := lr.loader.Load()
	if err != nil {
		result.Error = err.Error()
		lr.record(result)
		return result, fmt.Errorf("failed to load links: %w", err)
	}

	declared, mapErr := lr.mapper.Map(file)
	if mapErr != nil {
		lr.logger.Warn("invalid entries in links file", logger.Error(mapErr))
		result.Skipped += len(file) - len(declared)
	}
	result.Declared = len(declared)

	for _, d := range declared {
		lr.apply(ctx, d, result)
	}

	lr.logger.Info("links file applied",
		logger.Int("declared", result.Declared),
		logger.Int("created", result.Created),
		logger.Int("updated", result.Updated),
		logger.Int("unchanged", result.Unchanged),
		logger.Int("skipped", result.Skipped))

	lr.record(result)
	return result, nil
}

func (lr *LinksReloader) apply(ctx context.Context, d linkfile.Declared, result *ReloadResult) {
	link, err := lr.repo.FindLinkByCode(ctx, d.Code)
	switch {
	case errors.Is(err, domain.ErrNotFound):
		if _, err := lr.shortener.Shorten(ctx, d.Request()); err != nil {
			lr.logger.Warn("failed to create declared link",
				logger.String("code", d.Code), logger.Error(err))
			result.Skipped++
			return
		}
		if lr.metrics != nil {
			lr.metrics.LinkCreated(true)
		}
		result.Created++

	case err != nil:
		lr.logger.Warn("failed to look up declared link",
			logger.String("code", d.Code), logger.Error(err))
		result.Skipped++

	case !link.IsActive():
		lr.logger.Debug("declared code belongs to a deleted link, skipping",
			logger.String("code", d.Code))
		result.Skipped++

	case matches(link, d):
		result.Unchanged++

	default:
		if _, err := lr.repo.UpdateLink(ctx, d.Code, d.Patch()); err != nil {
			lr.logger.Warn("failed to update declared link",
				logger.String("code", d.Code), logger.Error(err))
			result.Skipped++
			return
		}
		lr.cache.Invalidate(ctx, d.Code)
		result.Updated++
	}
}

func (lr *LinksReloader) record(result *ReloadResult) {
	lr.mu.Lock()
	lr.last = result
	lr.mu.Unlock()
}

// matches reports whether link already holds what d declares.
func matches(link *domain.Link, d linkfile.Declared) bool {
	if link.LongURL != d.URL || link.Title != d.Title || link.ExpiresAt != d.ExpiresAt {
		return false
	}
	names := make([]string, 0, len(link.Tags))
	for _, t := range link.Tags {
		names = append(names, t.Name)
	}
	want := slices.Clone(d.Tags)
	slices.Sort(names)
	slices.Sort(want)
	return slices.Equal(names, want)
}
