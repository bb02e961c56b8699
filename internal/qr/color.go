package qr

import (
	"encoding/hex"
	"fmt"
	"strings"
)

// RGB is an 8-bit-per-channel colour.
type RGB struct{ R, G, B uint8 }

var (
	Black = RGB{0, 0, 0}
	White = RGB{255, 255, 255}
)

// ParseHex parses "rrggbb", with or without a leading '#'.
func ParseHex(s string) (RGB, error) {
	s = strings.TrimPrefix(strings.TrimSpace(s), "#")
	if len(s) != 6 {
		return RGB{}, fmt.Errorf("invalid colour %q: want 6 hex digits", s)
	}
	b, err := hex.DecodeString(s)
	if err != nil {
		return RGB{}, fmt.Errorf("invalid colour %q: %w", s, err)
	}
	return RGB{b[0], b[1], b[2]}, nil
}
