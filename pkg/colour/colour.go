// Package colour converts between #RRGGBB colours and the packed
// aabbggrr hex strings KML uses for style colours.
package colour

import (
	"fmt"
	"strings"

	"github.com/lucasb-eyer/go-colorful"
)

const (
	DefaultHex    = "#FF0000"
	DefaultPacked = "ff0000ff"
)

// HexToPacked converts "#rgb" or "#rrggbb" (the # is optional) to an opaque
// KML colour. Anything else yields DefaultPacked.
func HexToPacked(hex string) string {
	c, ok := parseHex(hex)
	if !ok {
		return DefaultPacked
	}
	r, g, b := c.RGB255()
	return fmt.Sprintf("ff%02x%02x%02x", b, g, r)
}

// PackedToHex converts a KML aabbggrr colour to "#rrggbb", dropping alpha.
// Channel text is copied as found, so case is preserved.
func PackedToHex(packed string) string {
	p := strings.TrimSpace(packed)
	if len(p) < 8 || !isHex(p[2:8]) {
		return DefaultHex
	}
	return "#" + p[6:8] + p[4:6] + p[2:4]
}

// Normalise returns the lower case "#rrggbb" form of a 3 or 6 digit colour.
func Normalise(hex string) (string, bool) {
	c, ok := parseHex(hex)
	if !ok {
		return "", false
	}
	return c.Hex(), true
}

func parseHex(hex string) (colorful.Color, bool) {
	h := strings.TrimPrefix(strings.TrimSpace(hex), "#")
	if len(h) == 3 {
		h = string([]byte{h[0], h[0], h[1], h[1], h[2], h[2]})
	}
	if len(h) != 6 || !isHex(h) {
		return colorful.Color{}, false
	}
	c, err := colorful.Hex("#" + h)
	if err != nil {
		return colorful.Color{}, false
	}
	return c, true
}

func isHex(s string) bool {
	for i := 0; i < len(s); i++ {
		c := s[i]
		if !(c >= '0' && c <= '9' || c >= 'a' && c <= 'f' || c >= 'A' && c <= 'F') {
			return false
		}
	}
	return true
}
