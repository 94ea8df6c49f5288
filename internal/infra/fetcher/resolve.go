package fetcher

import "strings"

// googleNewsHost is excluded from redirect-resolution: its URLs front an
// interstitial/consent page rather than a true 3xx, so following redirects
// through it just lands back on a Google-hosted wrapper page. Callers get
// the original URL back unchanged and extract from whatever Google serves.
const googleNewsHost = "news.google.com"

// resolveSpecialCase reports whether host needs no redirect resolution.
func resolveSpecialCase(host string) bool {
	return strings.EqualFold(host, googleNewsHost)
}
