package snapshot

import (
	"net/url"
	"regexp"
	"strings"
)

var keyStrip = regexp.MustCompile(`[^A-Za-z0-9_-]+`)

// CleanKey normalizes a raw identity value to the key charset:
// uppercase, everything outside [A-Z0-9_-] removed.
func CleanKey(raw string) string {
	return strings.ToUpper(keyStrip.ReplaceAllString(strings.TrimSpace(raw), ""))
}

// ResolveKey derives the stable per-product key for a row, independent
// of promotional text changes. Strategies in order: the explicit ID
// column value, a source-specific URL query parameter, a source-specific
// URL path pattern, and finally the normalized display name. Returns ""
// when nothing resolves; such rows cannot be grouped and are dropped.
func ResolveKey(spec Spec, idValue, rawURL, name string) string {
	if key := CleanKey(idValue); key != "" {
		return key
	}
	if key := CleanKey(keyFromURL(spec, rawURL)); key != "" {
		return key
	}
	return CleanKey(name)
}

func keyFromURL(spec Spec, rawURL string) string {
	if rawURL == "" {
		return ""
	}
	if spec.QueryParam != "" {
		if u, err := url.Parse(rawURL); err == nil {
			if v := u.Query().Get(spec.QueryParam); v != "" {
				return v
			}
		}
	}
	if spec.PathPattern != nil {
		if m := spec.PathPattern.FindStringSubmatch(rawURL); m != nil {
			return m[1]
		}
	}
	return ""
}
