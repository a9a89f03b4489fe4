package domain

import "regexp"

// watchURLPattern accepts canonical watch-page URLs only. Short links
// (youtu.be), the mobile domain, and playlist-only links are rejected on
// purpose; callers wanting broader acceptance must normalize first.
var watchURLPattern = regexp.MustCompile(`^(?:https?://)?(?:www\.)?youtube\.com/watch\?v=([\w-]+)(?:&\S*)?$`)

// IsValidWatchURL reports whether url is an acceptable watch-page URL.
func IsValidWatchURL(url string) bool {
	return watchURLPattern.MatchString(url)
}

// WatchURLVideoID extracts the v= token from a URL accepted by
// IsValidWatchURL. Returns "" for anything the validator rejects.
func WatchURLVideoID(url string) string {
	m := watchURLPattern.FindStringSubmatch(url)
	if m == nil {
		return ""
	}
	return m[1]
}
