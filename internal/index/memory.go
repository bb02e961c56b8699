package index

import (
	"context"
	"sync"
	"time"

	"github.com/MrSnakeDoc/sniplink/internal/domain"
)

var _ domain.LinkCache = (*MemoryIndex)(nil)

type entry struct {
	link    domain.Link
	expires time.Time
}

// MemoryIndex provides in-process lookup for links by code.
// It acts as the redirect cache when Redis is not configured.
type MemoryIndex struct {
	mu         sync.RWMutex
	links      map[string]entry // code -> link snapshot
	ttl        time.Duration
	maxEntries int
	now        func() time.Time
	hits       int64
	misses     int64
}

// NewMemoryIndex creates an index whose entries live for ttl.
// maxEntries <= 0 means unbounded.
func NewMemoryIndex(ttl time.Duration, maxEntries int) *MemoryIndex {
	return &MemoryIndex{
		links:      make(map[string]entry),
		ttl:        ttl,
		maxEntries: maxEntries,
		now:        time.Now,
	}
}

// Get returns a copy of the cached link for code.
func (idx *MemoryIndex) Get(_ context.Context, code string) (*domain.Link, bool) {
	idx.mu.RLock()
	e, ok := idx.links[code]
	idx.mu.RUnlock()

	if !ok || idx.now().After(e.expires) {
		idx.mu.Lock()
		idx.misses++
		idx.mu.Unlock()
		return nil, false
	}

	idx.mu.Lock()
	idx.hits++
	idx.mu.Unlock()

	link := e.link
	return &link, true
}

// Set stores a snapshot of link.
func (idx *MemoryIndex) Set(_ context.Context, link *domain.Link) {
	if link == nil {
		return
	}
	idx.mu.Lock()
	defer idx.mu.Unlock()

	now := idx.now()
	if idx.maxEntries > 0 && len(idx.links) >= idx.maxEntries {
		idx.sweepLocked(now)
		// still full after sweeping: start over
		if len(idx.links) >= idx.maxEntries {
			idx.links = make(map[string]entry)
		}
	}
	idx.links[link.Code] = entry{link: *link, expires: now.Add(idx.ttl)}
}

// Invalidate removes code from the index.
func (idx *MemoryIndex) Invalidate(_ context.Context, code string) {
	idx.mu.Lock()
	defer idx.mu.Unlock()

	delete(idx.links, code)
}

// Sweep removes expired entries and returns how many were dropped.
func (idx *MemoryIndex) Sweep() int {
	idx.mu.Lock()
	defer idx.mu.Unlock()

	return idx.sweepLocked(idx.now())
}

func (idx *MemoryIndex) sweepLocked(now time.Time) int {
	removed := 0
	for code, e := range idx.links {
		if now.After(e.expires) {
			delete(idx.links, code)
			removed++
		}
	}
	return removed
}

// Count returns the number of cached links, expired or not.
func (idx *MemoryIndex) Count() int {
	idx.mu.RLock()
	defer idx.mu.RUnlock()

	return len(idx.links)
}

// Stats returns the hit and miss counters.
func (idx *MemoryIndex) Stats() (hits, misses int64) {
	idx.mu.RLock()
	defer idx.mu.RUnlock()

	return idx.hits, idx.misses
}
