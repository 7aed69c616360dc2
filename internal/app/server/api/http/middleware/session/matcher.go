package session

import (
	"path"
	"strings"
)

// skipPrefixes are paths served straight from disk; running the session
// interceptor on them would rotate tokens on every <img> fetch.
var skipPrefixes = []string{
	"/static/",
	"/assets/",
}

var imageExtensions = map[string]struct{}{
	".png":  {},
	".jpg":  {},
	".jpeg": {},
	".gif":  {},
	".svg":  {},
	".ico":  {},
	".webp": {},
}

// intercepts reports whether the session interceptor runs for a path.
func intercepts(p string) bool {
	if p == "/favicon.ico" {
		return false
	}
	for _, prefix := range skipPrefixes {
		if strings.HasPrefix(p, prefix) {
			return false
		}
	}
	if _, img := imageExtensions[strings.ToLower(path.Ext(p))]; img {
		return false
	}
	return true
}

// redirectsToLogin reports whether an unauthenticated request to a path
// gets a login redirect. API calls answer with a status code instead,
// and the auth surface must stay reachable to sign in at all.
func redirectsToLogin(p string) bool {
	if strings.HasPrefix(p, "/api/") {
		return false
	}
	if strings.HasPrefix(p, "/auth/") {
		return false
	}
	if p == "/login" {
		return false
	}
	return true
}
