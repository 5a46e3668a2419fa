package anchor

import (
	"regexp"
	"strconv"
	"strings"

	"github.com/gabriel-vasile/mimetype"
)

// MaxSeedLength bounds a sanitized seed.
const MaxSeedLength = 120

// DefaultExtension is used when an image's format cannot be determined.
const DefaultExtension = "jpg"

var unsafeSeedChars = regexp.MustCompile(`[^A-Za-z0-9_.\-]+`)

// SanitizeSeed trims s, replaces each run of characters outside
// [A-Za-z0-9_.-] with one underscore and truncates to MaxSeedLength.
func SanitizeSeed(s string) string {
	s = unsafeSeedChars.ReplaceAllString(strings.TrimSpace(s), "_")
	if len(s) > MaxSeedLength {
		s = s[:MaxSeedLength]
	}
	return s
}

// seedValue renders a cell value as seed text; ok is false for empty values.
func seedValue(v any) (string, bool) {
	var s string
	switch val := v.(type) {
	case nil:
		return "", false
	case string:
		s = val
	case int64:
		s = strconv.FormatInt(val, 10)
	case int:
		s = strconv.Itoa(val)
	case float64:
		s = strconv.FormatFloat(val, 'f', -1, 64)
	default:
		return "", false
	}
	if strings.TrimSpace(s) == "" {
		return "", false
	}
	return s, true
}

// imageExtension normalizes a declared format; jpeg becomes jpg. When the
// format is missing the payload is sniffed, and DefaultExtension is the last
// resort.
func imageExtension(format string, data []byte) string {
	ext := strings.ToLower(strings.TrimPrefix(strings.TrimSpace(format), "."))
	if ext == "" && len(data) > 0 {
		if mt := mimetype.Detect(data); strings.HasPrefix(mt.String(), "image/") {
			ext = strings.TrimPrefix(mt.Extension(), ".")
		}
	}
	switch ext {
	case "":
		return DefaultExtension
	case "jpeg":
		return "jpg"
	}
	return ext
}
