package types

import (
	"bytes"

	"golang.org/x/text/encoding/unicode"
	"golang.org/x/text/transform"
)

const (
	IS_UNKNOWN = -1
	IS_KML     = 1
	IS_KMZ     = 2
)

// DetectFileType sniffs the leading bytes of an input file. A UTF-8 or UTF-16
// byte order mark is honoured.
func DetectFileType(dat []byte) int {
	sig := dat
	if len(sig) > 512 {
		sig = sig[:512]
	}
	if u, _, err := transform.Bytes(unicode.BOMOverride(transform.Nop), sig); err == nil {
		sig = u
	}
	switch {
	case bytes.HasPrefix(sig, []byte("PK\003\004")):
		return IS_KMZ
	case bytes.Contains(sig, []byte("<kml")):
		return IS_KML
	case bytes.HasPrefix(bytes.TrimSpace(sig), []byte("<?xml")):
		return IS_KML
	}
	return IS_UNKNOWN
}
