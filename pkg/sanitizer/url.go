package sanitizer

import (
	"net/url"
	"strings"
)

// SanitizeURL normalizes a meeting URL: scheme defaulted to https,
// host lowercased, trailing slashes trimmed. Returns "" for anything
// that does not parse as an absolute URL.
func SanitizeURL(input string) string {
	s := strings.TrimSpace(input)
	if s == "" {
		return ""
	}

	if !strings.HasPrefix(s, "http://") && !strings.HasPrefix(s, "https://") {
		s = "https://" + s
	}

	u, err := url.Parse(s)
	if err != nil || u.Host == "" {
		return ""
	}

	u.Host = strings.ToLower(u.Host)
	u.Path = strings.TrimSuffix(u.Path, "/")
	return u.String()
}
