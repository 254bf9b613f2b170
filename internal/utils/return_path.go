package utils

import (
	"net/url"
	"strings"
)

// SanitizeReturnPath validates a return path that round-tripped through a
// query parameter. Only same-origin relative paths are trusted; anything with
// a scheme, a host or a protocol-relative prefix falls back to the given
// default so the login redirect cannot be abused as an open redirect.
func SanitizeReturnPath(raw string, fallback string) string {
	if raw == "" {
		return fallback
	}
	parsed, err := url.Parse(raw)
	if err != nil {
		return fallback
	}
	if parsed.IsAbs() || parsed.Host != "" {
		return fallback
	}
	if !strings.HasPrefix(parsed.Path, "/") || strings.HasPrefix(parsed.Path, "//") || strings.HasPrefix(parsed.Path, "/\\") {
		return fallback
	}
	return parsed.String()
}
