package sanitizer

import (
	"strings"
	"time"
	"unicode"
)

// timestampLocalLayout is ISO 8601 without a zone offset, the form
// agents commonly emit after resolving a relative date.
const timestampLocalLayout = "2006-01-02T15:04:05"

type Strategy func(string) string

// TrimAndNormalize trims the input and collapses internal whitespace
// runs to single spaces.
func TrimAndNormalize(s string) string {
	s = strings.TrimSpace(s)
	if s == "" {
		return ""
	}

	var result strings.Builder
	var lastWasSpace bool
	for _, r := range s {
		if unicode.IsSpace(r) {
			if !lastWasSpace {
				result.WriteRune(' ')
				lastWasSpace = true
			}
		} else {
			result.WriteRune(r)
			lastWasSpace = false
		}
	}
	return result.String()
}

func NormalizeName(name string) string {
	return TrimAndNormalize(name)
}

// NormalizeEmail is the canonical form used for identity matching:
// trimmed and lowercased.
func NormalizeEmail(email string) string {
	return strings.ToLower(strings.TrimSpace(email))
}

// NormalizeSlug lowercases and replaces whitespace runs with hyphens.
func NormalizeSlug(s string) string {
	s = strings.ToLower(TrimAndNormalize(s))
	return strings.ReplaceAll(s, " ", "-")
}

// ParseTimestamp accepts an RFC 3339 instant or an offset-less ISO 8601
// local time; offset-less values are interpreted in loc.
func ParseTimestamp(value string, loc *time.Location) (time.Time, error) {
	value = strings.TrimSpace(value)
	if t, err := time.Parse(time.RFC3339, value); err == nil {
		return t, nil
	}
	return time.ParseInLocation(timestampLocalLayout, value, loc)
}

// SanitizeSlice applies a strategy to each element, dropping empties
// and duplicates while preserving first-seen order.
func SanitizeSlice(values []string, strategy Strategy) []string {
	seen := make(map[string]struct{})
	out := []string{}

	for _, v := range values {
		s := strategy(v)
		if s == "" {
			continue
		}
		if _, ok := seen[s]; ok {
			continue
		}
		seen[s] = struct{}{}
		out = append(out, s)
	}
	return out
}
