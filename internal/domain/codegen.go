package domain

import (
	"crypto/sha256"
	"encoding/hex"
	"regexp"
	"strconv"
	"strings"
	"time"
)

const (
	// GeneratedCodeLength is the number of hex characters kept from the digest.
	GeneratedCodeLength = 6

	// MaxGenerateAttempts bounds regeneration after collisions.
	MaxGenerateAttempts = 5
)

var customCodePattern = regexp.MustCompile(`^[A-Za-z0-9]{3,20}$`)

// GenerateCode derives a short code from url and salt.
// The same (url, salt) pair always yields the same code.
func GenerateCode(url, salt string) string {
	sum := sha256.Sum256([]byte(url + salt))
	return hex.EncodeToString(sum[:])[:GeneratedCodeLength]
}

// NanoSalt turns a clock reading into a salt string.
func NanoSalt(t time.Time) string {
	return strconv.FormatInt(t.UnixNano(), 10)
}

// ValidateCustomCode checks a user-chosen code against the allowed alphabet and length.
func ValidateCustomCode(code string) error {
	if !customCodePattern.MatchString(code) {
		return invalid("custom_code", "must be 3-20 alphanumeric characters")
	}
	return nil
}

// ValidateURL accepts only absolute http(s) URLs.
func ValidateURL(url string) error {
	if url == "" {
		return invalid("url", "is required")
	}
	if !strings.HasPrefix(url, "http://") && !strings.HasPrefix(url, "https://") {
		return invalid("url", "must start with http:// or https://")
	}
	return nil
}

// NormalizeTags trims, lower-cases and de-duplicates tag names, keeping first-seen order.
func NormalizeTags(names []string) []string {
	out := make([]string, 0, len(names))
	seen := make(map[string]bool, len(names))
	for _, n := range names {
		n = strings.ToLower(strings.TrimSpace(n))
		if n == "" || seen[n] {
			continue
		}
		seen[n] = true
		out = append(out, n)
	}
	return out
}
