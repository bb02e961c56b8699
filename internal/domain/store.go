package domain

import "context"

// LinkStore is the persistence surface used by the shorten and redirect flows.
type LinkStore interface {
	// FindLinkByCode returns the link for code regardless of status,
	// or ErrNotFound.
	FindLinkByCode(ctx context.Context, code string) (*Link, error)

	// CodeExists reports whether any link (active or not) owns code.
	CodeExists(ctx context.Context, code string) (bool, error)

	// CreateLink inserts link with its tags and assigns link.ID.
	// It returns ErrCodeConflict when the code is already taken.
	CreateLink(ctx context.Context, link *Link) error

	// RecordClick appends the click and increments the owning link's
	// counter as a single atomic unit.
	RecordClick(ctx context.Context, click Click) error
}

// LinkRepository is the full store used by the admin API.
type LinkRepository interface {
	LinkStore

	UpdateLink(ctx context.Context, code string, patch LinkPatch) (*Link, error)
	DeactivateLink(ctx context.Context, code string) error
	ListLinks(ctx context.Context, f ListFilter) ([]*Link, int, error)
	ClickBreakdown(ctx context.Context, linkID int64, since string) (*ClickBreakdown, error)
	ListTags(ctx context.Context) ([]Tag, error)
	Stats(ctx context.Context, since string) (*Stats, error)
	Ping(ctx context.Context) error
}

// LinkCache is an optional lookup cache in front of the store.
// Implementations are best effort: a miss or failure falls back to the store.
type LinkCache interface {
	Get(ctx context.Context, code string) (*Link, bool)
	Set(ctx context.Context, link *Link)
	Invalidate(ctx context.Context, code string)
}

// NopCache never caches anything.
type NopCache struct{}

func (NopCache) Get(context.Context, string) (*Link, bool) { return nil, false }
func (NopCache) Set(context.Context, *Link)                {}
func (NopCache) Invalidate(context.Context, string)        {}

// LinkPatch holds the optional fields of a partial update. Nil means unchanged.
type LinkPatch struct {
	URL       *string
	Title     *string
	ExpiresAt *string
	Tags      *[]string
}

// Normalize validates the patch and rewrites its fields into stored form.
func (p LinkPatch) Normalize() (LinkPatch, error) {
	if p.URL != nil {
		u := trimmed(*p.URL)
		if err := ValidateURL(u); err != nil {
			return p, err
		}
		p.URL = &u
	}
	if p.Title != nil {
		t := trimmed(*p.Title)
		p.Title = &t
	}
	if p.ExpiresAt != nil {
		e, err := ParseExpiry(*p.ExpiresAt)
		if err != nil {
			return p, err
		}
		p.ExpiresAt = &e
	}
	if p.Tags != nil {
		tags := NormalizeTags(*p.Tags)
		p.Tags = &tags
	}
	return p, nil
}

const (
	DefaultPerPage = 20
	MaxPerPage     = 100
)

// ListFilter selects active links for the admin listing.
type ListFilter struct {
	Page    int
	PerPage int
	Query   string // matched against code, URL and title
	Tag     string
}

// Normalize clamps paging values and canonicalizes the tag.
func (f ListFilter) Normalize() ListFilter {
	if f.Page < 1 {
		f.Page = 1
	}
	if f.PerPage < 1 {
		f.PerPage = DefaultPerPage
	}
	if f.PerPage > MaxPerPage {
		f.PerPage = MaxPerPage
	}
	f.Query = trimmed(f.Query)
	f.Tag = lowerTrimmed(f.Tag)
	return f
}

// Offset is the number of rows to skip for the current page.
func (f ListFilter) Offset() int {
	return (f.Page - 1) * f.PerPage
}

// ClickBreakdown is the raw aggregation of one link's clicks over a window.
type ClickBreakdown struct {
	PerDay      map[string]int64 // YYYY-MM-DD -> clicks
	PerReferrer map[string]int64 // raw Referer -> clicks
	PerAgent    map[string]int64 // raw User-Agent -> clicks
}

// Stats summarizes active links.
type Stats struct {
	TotalLinks  int64   `json:"total_links"`
	TotalClicks int64   `json:"total_clicks"`
	Clicks7d    int64   `json:"clicks_7d"`
	TopLinks    []*Link `json:"top_links"`
}
