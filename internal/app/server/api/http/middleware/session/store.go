package session

import (
	"net/http"
)

// requestStore adapts one in-flight HTTP exchange to hub.CredentialStore.
// Reads come from the request's Cookie header; writes go to the response
// as Set-Cookie AND back onto the request header, so handlers running
// after a rotation observe the new envelope, not the stale one.
type requestStore struct {
	r *http.Request
	w http.ResponseWriter
}

func newRequestStore(w http.ResponseWriter, r *http.Request) *requestStore {
	return &requestStore{r: r, w: w}
}

func (s *requestStore) ReadAll() []*http.Cookie {
	return s.r.Cookies()
}

func (s *requestStore) WriteAll(cookies []*http.Cookie) {
	for _, c := range cookies {
		http.SetCookie(s.w, c)
	}
	s.rewriteRequest(cookies)
}

// rewriteRequest folds written cookies into the request's Cookie header.
func (s *requestStore) rewriteRequest(written []*http.Cookie) {
	merged := make(map[string]string)
	for _, c := range s.r.Cookies() {
		merged[c.Name] = c.Value
	}
	for _, c := range written {
		if c.MaxAge < 0 {
			delete(merged, c.Name)
			continue
		}
		merged[c.Name] = c.Value
	}

	s.r.Header.Del("Cookie")
	for name, value := range merged {
		s.r.AddCookie(&http.Cookie{Name: name, Value: value})
	}
}
