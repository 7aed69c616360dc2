package hub

import (
	"net/http"
	"time"
)

// Cookie names of the session credential envelope. The two values are
// rotated together: a refresh either produces a complete new pair or
// leaves the previous pair intact.
const (
	AccessCookie  = "markd-access-token"
	RefreshCookie = "markd-refresh-token"
)

const refreshCookieTTL = 30 * 24 * time.Hour

// CredentialStore is the request-scoped cookie jar the client reads the
// session envelope from and writes rotations back to. Attributes on the
// written cookies (validity, path, SameSite, Secure) pass through
// untouched.
//
// Implementations invoked from a context that cannot mutate response
// headers must let WriteAll succeed silently; the edge interceptor on the
// next request takes care of durable rotation.
type CredentialStore interface {
	ReadAll() []*http.Cookie
	WriteAll(cookies []*http.Cookie)
}

// StaticStore serves a fixed cookie set and drops writes. It backs
// render-only contexts and tests.
type StaticStore struct {
	cookies []*http.Cookie
}

func NewStaticStore(cookies []*http.Cookie) *StaticStore {
	return &StaticStore{cookies: cookies}
}

func (s *StaticStore) ReadAll() []*http.Cookie { return s.cookies }

func (s *StaticStore) WriteAll([]*http.Cookie) {}

// envelopeCookies builds the cookie pair for a token set.
func envelopeCookies(accessToken, refreshToken string, expiresIn int64, secure bool) []*http.Cookie {
	return []*http.Cookie{
		{
			Name:     AccessCookie,
			Value:    accessToken,
			Path:     "/",
			MaxAge:   int(expiresIn),
			HttpOnly: true,
			Secure:   secure,
			SameSite: http.SameSiteLaxMode,
		},
		{
			Name:     RefreshCookie,
			Value:    refreshToken,
			Path:     "/",
			MaxAge:   int(refreshCookieTTL.Seconds()),
			HttpOnly: true,
			Secure:   secure,
			SameSite: http.SameSiteLaxMode,
		},
	}
}

// clearedCookies expires both envelope cookies.
func clearedCookies(secure bool) []*http.Cookie {
	cleared := envelopeCookies("", "", 0, secure)
	for _, c := range cleared {
		c.MaxAge = -1
	}
	return cleared
}
