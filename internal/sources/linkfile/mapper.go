package linkfile

import (
	"errors"
	"fmt"
	"strings"

	"github.com/MrSnakeDoc/sniplink/internal/domain"
)

// Declared is a validated entry ready to be applied to the store.
type Declared struct {
	Code      string
	URL       string
	Title     string
	Tags      []string
	ExpiresAt string // stored form, "" for never
}

// Request converts d into a shorten request with d.Code as custom code.
func (d Declared) Request() domain.ShortenRequest {
	return domain.ShortenRequest{
		URL:        d.URL,
		CustomCode: d.Code,
		Title:      d.Title,
		ExpiresAt:  d.ExpiresAt,
		Tags:       d.Tags,
	}
}

// Patch converts d into a full update of an existing link.
func (d Declared) Patch() domain.LinkPatch {
	url, title, expires, tags := d.URL, d.Title, d.ExpiresAt, d.Tags
	if tags == nil {
		tags = []string{}
	}
	return domain.LinkPatch{URL: &url, Title: &title, ExpiresAt: &expires, Tags: &tags}
}

// Mapper validates file entries.
type Mapper struct{}

// NewMapper creates a new links file mapper
func NewMapper() *Mapper {
	return &Mapper{}
}

// Map validates every entry. Invalid or duplicated entries are skipped and
// reported in the joined error; valid ones are still returned.
func (m *Mapper) Map(file File) ([]Declared, error) {
	declared := make([]Declared, 0, len(file))
	seen := make(map[string]bool, len(file))
	var errs []error

	for i, entry := range file {
		code := strings.TrimSpace(entry.Code)
		if err := domain.ValidateCustomCode(code); err != nil {
			errs = append(errs, fmt.Errorf("entry %d: %w", i, err))
			continue
		}
		if seen[code] {
			errs = append(errs, fmt.Errorf("entry %d: duplicate code %q", i, code))
			continue
		}

		url := strings.TrimSpace(entry.URL)
		if err := domain.ValidateURL(url); err != nil {
			errs = append(errs, fmt.Errorf("entry %d (%s): %w", i, code, err))
			continue
		}
		expires, err := domain.ParseExpiry(entry.ExpiresAt)
		if err != nil {
			errs = append(errs, fmt.Errorf("entry %d (%s): %w", i, code, err))
			continue
		}

		seen[code] = true
		declared = append(declared, Declared{
			Code:      code,
			URL:       url,
			Title:     strings.TrimSpace(entry.Title),
			Tags:      domain.NormalizeTags(entry.Tags),
			ExpiresAt: expires,
		})
	}

	return declared, errors.Join(errs...)
}
