package domain

// Status is the soft-delete state of a Link.
type Status string

const (
	StatusActive   Status = "active"
	StatusInactive Status = "inactive"
)

// Link represents a short code mapped to a long URL.
//
// A Link is uniquely identified by its Code. Codes are never reused,
// even after the link is deactivated.
type Link struct {
	// ─────────────────────────────
	// Identity (immutable)
	// ─────────────────────────────

	// ID is the store-assigned numeric identifier.
	ID int64 `json:"id"`

	// Code is the short alphanumeric path segment.
	// Example: 3f9a1c
	Code string `json:"code"`

	// CreatedAt is a fixed-width UTC timestamp (see FormatTimestamp).
	CreatedAt string `json:"created_at"`

	// ─────────────────────────────
	// Editable fields
	// ─────────────────────────────

	LongURL string `json:"long_url"`
	Title   string `json:"title,omitempty"`

	// ExpiresAt is empty when the link never expires.
	// It is compared lexicographically with the current timestamp.
	ExpiresAt string `json:"expires_at,omitempty"`

	Tags []Tag `json:"tags,omitempty"`

	// ─────────────────────────────
	// Counters & lifecycle
	// ─────────────────────────────

	// Clicks only ever grows, one per recorded Click.
	Clicks int64 `json:"clicks"`

	// Status marks a link as soft-deleted. Links are never removed.
	Status Status `json:"status"`
}

// IsActive reports whether the link can still be resolved.
func (l *Link) IsActive() bool {
	return l.Status != StatusInactive
}

// IsExpired reports whether the link expired before now.
// now must be a timestamp produced by FormatTimestamp.
func (l *Link) IsExpired(now string) bool {
	return l.ExpiresAt != "" && l.ExpiresAt < now
}

// Click is one recorded redirect. Clicks are immutable once written.
type Click struct {
	LinkID    int64
	ClickedAt string
	Referrer  string
	UserAgent string
}

// Tag is a lower-cased label attached to links.
type Tag struct {
	ID        int64  `json:"id"`
	Name      string `json:"name"`
	LinkCount int64  `json:"link_count,omitempty"`
}
