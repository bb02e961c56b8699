package domain

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"
)

// ShortenRequest is the input of the shorten flow.
type ShortenRequest struct {
	URL        string
	CustomCode string
	Title      string
	ExpiresAt  string
	Tags       []string
}

// Shortener creates links, choosing or validating their codes.
type Shortener struct {
	store LinkStore
	now   func() time.Time
}

// NewShortener builds a Shortener. now defaults to time.Now.
func NewShortener(store LinkStore, now func() time.Time) *Shortener {
	if now == nil {
		now = time.Now
	}
	return &Shortener{store: store, now: now}
}

// Shorten validates req and persists a new active link.
//
// A custom code is used verbatim or rejected with ErrCodeConflict.
// A generated code that collides is regenerated with a fresh salt,
// at most MaxGenerateAttempts times.
func (s *Shortener) Shorten(ctx context.Context, req ShortenRequest) (*Link, error) {
	longURL := trimmed(req.URL)
	if err := ValidateURL(longURL); err != nil {
		return nil, err
	}
	expiresAt, err := ParseExpiry(req.ExpiresAt)
	if err != nil {
		return nil, err
	}

	link := &Link{
		LongURL:   longURL,
		Title:     trimmed(req.Title),
		ExpiresAt: expiresAt,
		Status:    StatusActive,
	}
	for _, name := range NormalizeTags(req.Tags) {
		link.Tags = append(link.Tags, Tag{Name: name})
	}

	if custom := trimmed(req.CustomCode); custom != "" {
		return s.createCustom(ctx, link, custom)
	}
	return s.createGenerated(ctx, link)
}

func (s *Shortener) createCustom(ctx context.Context, link *Link, code string) (*Link, error) {
	if err := ValidateCustomCode(code); err != nil {
		return nil, err
	}
	exists, err := s.store.CodeExists(ctx, code)
	if err != nil {
		return nil, fmt.Errorf("check code %q: %w", code, err)
	}
	if exists {
		return nil, ErrCodeConflict
	}

	link.Code = code
	link.CreatedAt = FormatTimestamp(s.now())
	if err := s.store.CreateLink(ctx, link); err != nil {
		if errors.Is(err, ErrCodeConflict) {
			return nil, ErrCodeConflict
		}
		return nil, fmt.Errorf("create link: %w", err)
	}
	return link, nil
}

func (s *Shortener) createGenerated(ctx context.Context, link *Link) (*Link, error) {
	for attempt := 0; attempt < MaxGenerateAttempts; attempt++ {
		now := s.now()
		code := GenerateCode(link.LongURL, NanoSalt(now))

		exists, err := s.store.CodeExists(ctx, code)
		if err != nil {
			return nil, fmt.Errorf("check code %q: %w", code, err)
		}
		if exists {
			continue
		}

		link.Code = code
		link.CreatedAt = FormatTimestamp(now)
		err = s.store.CreateLink(ctx, link)
		if err == nil {
			return link, nil
		}
		// lost a race with a concurrent insert
		if errors.Is(err, ErrCodeConflict) {
			continue
		}
		return nil, fmt.Errorf("create link: %w", err)
	}
	return nil, ErrExhaustedRetries
}

func trimmed(s string) string { return strings.TrimSpace(s) }

func lowerTrimmed(s string) string { return strings.ToLower(strings.TrimSpace(s)) }
