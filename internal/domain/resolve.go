package domain

import (
	"context"
	"errors"
	"fmt"
	"time"
)

// MaxUserAgentLength is the number of characters of a User-Agent kept on a click.
const MaxUserAgentLength = 500

// Resolution is the outcome of a successful redirect lookup.
type Resolution struct {
	Link      *Link
	LongURL   string
	Permanent bool
}

// Resolver runs the redirect flow: lookup, active check, expiry check,
// click recording, then redirect.
type Resolver struct {
	store LinkStore
	cache LinkCache
	now   func() time.Time
}

// NewResolver builds a Resolver. cache may be nil.
func NewResolver(store LinkStore, cache LinkCache, now func() time.Time) *Resolver {
	if cache == nil {
		cache = NopCache{}
	}
	if now == nil {
		now = time.Now
	}
	return &Resolver{store: store, cache: cache, now: now}
}

// Resolve returns the redirect target for code and records one click.
// Expired links return ErrExpired and record nothing.
func (r *Resolver) Resolve(ctx context.Context, code, referrer, userAgent string) (*Resolution, error) {
	link, err := r.lookup(ctx, code)
	if err != nil {
		return nil, err
	}
	if !link.IsActive() {
		return nil, ErrNotFound
	}

	now := FormatTimestamp(r.now())
	if link.IsExpired(now) {
		return nil, ErrExpired
	}

	click := Click{
		LinkID:    link.ID,
		ClickedAt: now,
		Referrer:  referrer,
		UserAgent: truncateRunes(userAgent, MaxUserAgentLength),
	}
	if err := r.store.RecordClick(ctx, click); err != nil {
		if errors.Is(err, ErrNotFound) {
			// cached snapshot outlived a delete
			r.cache.Invalidate(ctx, code)
			return nil, ErrNotFound
		}
		return nil, fmt.Errorf("record click for %q: %w", code, err)
	}

	return &Resolution{Link: link, LongURL: link.LongURL, Permanent: true}, nil
}

func (r *Resolver) lookup(ctx context.Context, code string) (*Link, error) {
	if link, ok := r.cache.Get(ctx, code); ok {
		return link, nil
	}
	link, err := r.store.FindLinkByCode(ctx, code)
	if err != nil {
		if errors.Is(err, ErrNotFound) {
			return nil, ErrNotFound
		}
		return nil, fmt.Errorf("lookup %q: %w", code, err)
	}
	r.cache.Set(ctx, link)
	return link, nil
}

func truncateRunes(s string, n int) string {
	if len(s) <= n {
		return s
	}
	runes := []rune(s)
	if len(runes) <= n {
		return s
	}
	return string(runes[:n])
}
