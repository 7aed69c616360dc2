package auth

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"markd/internal/app/server/api/http/middleware/session"
	"markd/internal/hub"
	"markd/internal/utils/logger"
)

// callbackChain mounts the handler behind the session interceptor, the
// way it runs in production.
func callbackChain(t *testing.T, hubURL string, local bool) http.Handler {
	t.Helper()
	log := logger.New(logger.EnvLocal)
	h := NewHandler(log, local)
	mw := session.New(hub.Config{BaseURL: hubURL, APIKey: "anon"}, log).Middleware()
	mux := http.NewServeMux()
	mux.HandleFunc("/auth/callback", h.Callback)
	mux.HandleFunc("/auth/logout", h.Logout)
	return mw(mux)
}

func exchangeHub(t *testing.T, wantCode string) *httptest.Server {
	t.Helper()
	return httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		switch r.URL.Path {
		case "/auth/v1/token":
			var body map[string]string
			require.NoError(t, json.NewDecoder(r.Body).Decode(&body))
			if body["grant_type"] != "authorization_code" || body["code"] != wantCode {
				w.WriteHeader(http.StatusUnauthorized)
				json.NewEncoder(w).Encode(map[string]string{"error": "invalid code"})
				return
			}
			json.NewEncoder(w).Encode(map[string]any{
				"access_token":  "access-new",
				"refresh_token": "refresh-new",
				"expires_in":    3600,
				"user":          map[string]string{"id": "u-1", "email": "a@b.c"},
			})
		case "/auth/v1/logout":
			w.WriteHeader(http.StatusNoContent)
		default:
			w.WriteHeader(http.StatusNotFound)
		}
	}))
}

func TestCallback_ExchangesCodeAndSetsEnvelope(t *testing.T) {
	srv := exchangeHub(t, "code-1")
	defer srv.Close()

	h := callbackChain(t, srv.URL, true)

	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/auth/callback?code=code-1&next=/", nil))

	assert.Equal(t, http.StatusFound, rec.Code)
	assert.Equal(t, "/", rec.Header().Get("Location"))

	byName := map[string]string{}
	for _, c := range rec.Result().Cookies() {
		byName[c.Name] = c.Value
	}
	assert.Equal(t, "access-new", byName[hub.AccessCookie])
	assert.Equal(t, "refresh-new", byName[hub.RefreshCookie])
}

func TestCallback_InvalidCodeRedirectsWithError(t *testing.T) {
	srv := exchangeHub(t, "code-1")
	defer srv.Close()

	h := callbackChain(t, srv.URL, true)

	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/auth/callback?code=wrong", nil))

	assert.Equal(t, http.StatusFound, rec.Code)
	assert.Equal(t, loginErrorURL, rec.Header().Get("Location"))
	assert.Empty(t, rec.Result().Cookies(), "failed exchange must not set an envelope")
}

func TestCallback_MissingCode(t *testing.T) {
	h := callbackChain(t, "http://hub.invalid", true)

	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/auth/callback", nil))

	assert.Equal(t, http.StatusFound, rec.Code)
	assert.Equal(t, loginErrorURL, rec.Header().Get("Location"))
}

func TestCallback_ForwardedHost(t *testing.T) {
	srv := exchangeHub(t, "code-1")
	defer srv.Close()

	h := callbackChain(t, srv.URL, false)

	req := httptest.NewRequest(http.MethodGet, "/auth/callback?code=code-1&next=/reading", nil)
	req.Header.Set("X-Forwarded-Host", "markd.example.com")

	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, req)

	assert.Equal(t, "https://markd.example.com/reading", rec.Header().Get("Location"))
}

func TestLogout_ClearsEnvelope(t *testing.T) {
	srv := exchangeHub(t, "unused")
	defer srv.Close()

	h := callbackChain(t, srv.URL, true)

	req := httptest.NewRequest(http.MethodPost, "/auth/logout", nil)
	req.AddCookie(&http.Cookie{Name: hub.AccessCookie, Value: "access-1"})
	req.AddCookie(&http.Cookie{Name: hub.RefreshCookie, Value: "refresh-1"})

	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, req)

	assert.Equal(t, http.StatusFound, rec.Code)
	assert.Equal(t, "/login", rec.Header().Get("Location"))

	for _, c := range rec.Result().Cookies() {
		if c.Name == hub.AccessCookie || c.Name == hub.RefreshCookie {
			assert.Less(t, c.MaxAge, 0, "envelope cookie must be expired")
		}
	}
}

func TestSanitizeNext(t *testing.T) {
	tests := []struct {
		in   string
		want string
	}{
		{in: "", want: "/"},
		{in: "/reading", want: "/reading"},
		{in: "//evil.example", want: "/"},
		{in: "https://evil.example", want: "/"},
		{in: "/\\evil", want: "/"},
	}

	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			assert.Equal(t, tt.want, sanitizeNext(tt.in))
		})
	}
}
