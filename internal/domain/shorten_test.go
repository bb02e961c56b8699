package domain

import (
	"context"
	"errors"
	"regexp"
	"testing"
	"time"
)

// steppingClock returns a clock that advances one nanosecond per call.
func steppingClock(start time.Time) func() time.Time {
	cur := start
	return func() time.Time {
		t := cur
		cur = cur.Add(time.Nanosecond)
		return t
	}
}

func fixedClock(t time.Time) func() time.Time {
	return func() time.Time { return t }
}

func TestShortenGenerated(t *testing.T) {
	store := newFakeStore()
	s := NewShortener(store, fixedClock(time.Unix(0, 1700000000000000000)))

	link, err := s.Shorten(context.Background(), ShortenRequest{URL: "  https://example.com  "})
	if err != nil {
		t.Fatalf("Shorten() error = %v", err)
	}
	if link.Code != "98db19" {
		t.Errorf("Shorten() code = %v, want %v", link.Code, "98db19")
	}
	if !regexp.MustCompile(`^[0-9a-f]{6}$`).MatchString(link.Code) {
		t.Errorf("Shorten() code = %q, want 6 hex chars", link.Code)
	}
	if link.LongURL != "https://example.com" {
		t.Errorf("Shorten() long url = %q, want trimmed", link.LongURL)
	}
	if link.Clicks != 0 || !link.IsActive() {
		t.Errorf("Shorten() = clicks %d active %v, want 0 and true", link.Clicks, link.IsActive())
	}
	if link.ExpiresAt != "" {
		t.Errorf("Shorten() expires_at = %q, want empty", link.ExpiresAt)
	}
	if link.CreatedAt != "2023-11-14T22:13:20.000000" {
		t.Errorf("Shorten() created_at = %q", link.CreatedAt)
	}
	if link.ID == 0 {
		t.Error("Shorten() did not assign an ID")
	}
}

func TestShortenCustomCode(t *testing.T) {
	store := newFakeStore()
	s := NewShortener(store, nil)
	ctx := context.Background()

	link, err := s.Shorten(ctx, ShortenRequest{
		URL:        "https://example.com/docs",
		CustomCode: "MyDocs",
		Title:      " Docs ",
		ExpiresAt:  "2030-01-01",
		Tags:       []string{"Work", " work ", "go"},
	})
	if err != nil {
		t.Fatalf("Shorten() error = %v", err)
	}
	if link.Code != "MyDocs" {
		t.Errorf("Shorten() code = %v, want MyDocs", link.Code)
	}
	if link.Title != "Docs" {
		t.Errorf("Shorten() title = %q, want %q", link.Title, "Docs")
	}
	if link.ExpiresAt != "2030-01-01T00:00:00.000000" {
		t.Errorf("Shorten() expires_at = %q", link.ExpiresAt)
	}
	if len(link.Tags) != 2 || link.Tags[0].Name != "work" || link.Tags[1].Name != "go" {
		t.Errorf("Shorten() tags = %+v, want [work go]", link.Tags)
	}

	got, err := store.FindLinkByCode(ctx, "MyDocs")
	if err != nil || got.LongURL != "https://example.com/docs" {
		t.Errorf("FindLinkByCode() = %+v, %v", got, err)
	}

	_, err = s.Shorten(ctx, ShortenRequest{URL: "https://other.example.com", CustomCode: "MyDocs"})
	if !errors.Is(err, ErrCodeConflict) {
		t.Errorf("Shorten() duplicate custom code error = %v, want %v", err, ErrCodeConflict)
	}
	if got, _ := store.FindLinkByCode(ctx, "MyDocs"); got.LongURL != "https://example.com/docs" {
		t.Errorf("conflicting shorten overwrote the original link: %q", got.LongURL)
	}
}

func TestShortenCustomCodeReservedByInactiveLink(t *testing.T) {
	store := newFakeStore(&Link{Code: "gone", LongURL: "https://old.example.com", Status: StatusInactive})
	s := NewShortener(store, nil)

	_, err := s.Shorten(context.Background(), ShortenRequest{URL: "https://new.example.com", CustomCode: "gone"})
	if !errors.Is(err, ErrCodeConflict) {
		t.Errorf("Shorten() error = %v, want %v", err, ErrCodeConflict)
	}
}

func TestShortenValidation(t *testing.T) {
	tests := []struct {
		name string
		req  ShortenRequest
	}{
		{"missing url", ShortenRequest{}},
		{"bad scheme", ShortenRequest{URL: "ftp://example.com"}},
		{"short custom code", ShortenRequest{URL: "https://example.com", CustomCode: "ab"}},
		{"symbol in custom code", ShortenRequest{URL: "https://example.com", CustomCode: "a-b-c"}},
		{"bad expiry", ShortenRequest{URL: "https://example.com", ExpiresAt: "soon"}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			store := newFakeStore()
			_, err := NewShortener(store, nil).Shorten(context.Background(), tt.req)
			if !IsValidation(err) {
				t.Errorf("Shorten() error = %v, want ValidationError", err)
			}
			if len(store.links) != 0 {
				t.Errorf("Shorten() stored %d links on invalid input", len(store.links))
			}
		})
	}
}

func TestShortenRegeneratesOnCollision(t *testing.T) {
	// "98db19" is the code for the first clock reading; the retry uses the next nanosecond.
	store := newFakeStore(&Link{Code: "98db19", LongURL: "https://taken.example.com"})
	s := NewShortener(store, steppingClock(time.Unix(0, 1700000000000000000)))

	link, err := s.Shorten(context.Background(), ShortenRequest{URL: "https://example.com"})
	if err != nil {
		t.Fatalf("Shorten() error = %v", err)
	}
	if link.Code != "7c09aa" {
		t.Errorf("Shorten() code = %v, want %v", link.Code, "7c09aa")
	}
	if got, _ := store.FindLinkByCode(context.Background(), "98db19"); got.LongURL != "https://taken.example.com" {
		t.Errorf("existing link was modified: %q", got.LongURL)
	}
}

func TestShortenRetriesInsertRace(t *testing.T) {
	store := newFakeStore()
	store.createErr = ErrCodeConflict
	s := NewShortener(store, steppingClock(time.Unix(0, 1700000000000000000)))

	link, err := s.Shorten(context.Background(), ShortenRequest{URL: "https://example.com"})
	if err != nil {
		t.Fatalf("Shorten() error = %v", err)
	}
	if link.Code != "7c09aa" {
		t.Errorf("Shorten() code = %v, want %v", link.Code, "7c09aa")
	}
}

func TestShortenExhaustsRetries(t *testing.T) {
	// a frozen clock makes every attempt produce the same, already taken, code
	store := newFakeStore(&Link{Code: "98db19", LongURL: "https://taken.example.com"})
	s := NewShortener(store, fixedClock(time.Unix(0, 1700000000000000000)))

	_, err := s.Shorten(context.Background(), ShortenRequest{URL: "https://example.com"})
	if !errors.Is(err, ErrExhaustedRetries) {
		t.Errorf("Shorten() error = %v, want %v", err, ErrExhaustedRetries)
	}
}

func TestShortenStoreFailure(t *testing.T) {
	store := newFakeStore()
	boom := errors.New("disk full")
	store.createErr = boom

	_, err := NewShortener(store, nil).Shorten(context.Background(), ShortenRequest{URL: "https://example.com"})
	if !errors.Is(err, boom) {
		t.Errorf("Shorten() error = %v, want wrapped %v", err, boom)
	}
}
