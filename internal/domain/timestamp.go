package domain

import (
	"strings"
	"time"
)

// TimestampLayout is the storage format for every timestamp.
// Fixed width and no offset, so string order equals time order.
const TimestampLayout = "2006-01-02T15:04:05.000000"

// FormatTimestamp renders t in UTC using TimestampLayout.
func FormatTimestamp(t time.Time) string {
	return t.UTC().Format(TimestampLayout)
}

// accepted expiry inputs, tried in order
var expiryLayouts = []string{
	time.RFC3339Nano,
	TimestampLayout,
	"2006-01-02T15:04:05",
	"2006-01-02T15:04",
	"2006-01-02 15:04:05",
	"2006-01-02 15:04",
	"2006-01-02",
}

// ParseExpiry normalizes a user-supplied expiry into TimestampLayout.
// Inputs without an offset are taken as UTC. An empty input means no expiry.
func ParseExpiry(raw string) (string, error) {
	raw = strings.TrimSpace(raw)
	if raw == "" {
		return "", nil
	}
	for _, layout := range expiryLayouts {
		if t, err := time.Parse(layout, raw); err == nil {
			return FormatTimestamp(t), nil
		}
	}
	return "", invalid("expires_at", "unrecognized date format")
}
