package engine

import (
	"strings"

	"github.com/anatolykoptev/go-kit/strutil"
)

// TruncateRunes caps s at limit runes, appending suffix if truncated.
// Pass suffix="" for no suffix. Safe for UTF-8 (Cyrillic, CJK, emoji).
func TruncateRunes(s string, limit int, suffix string) string {
	return strutil.TruncateWith(s, limit, suffix)
}

// DatePart returns the date portion of an ISO 8601 timestamp
// ("2021-04-02T17:00:00Z" → "2021-04-02"). Non-timestamps pass through.
func DatePart(s string) string {
	date, _, _ := strings.Cut(s, "T")
	return date
}
