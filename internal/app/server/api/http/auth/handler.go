// Package auth carries the browser-facing auth surface: the identity
// provider callback and sign-out. These endpoints speak redirects, not
// JSON, so they sit on the mux directly instead of going through the
// API layer.
package auth

import (
	"log/slog"
	"net/http"
	"strings"

	"markd/internal/app/server/api/http/middleware/session"
)

const loginErrorURL = "/login?error=auth_callback_failed"

type Handler struct {
	log *slog.Logger
	// local disables forwarded-host rewriting; in local development the
	// edge is reached directly and the request host is the real one.
	local bool
}

func NewHandler(log *slog.Logger, local bool) *Handler {
	return &Handler{
		log:   log.With(slog.String("component", "auth_handler")),
		local: local,
	}
}

// Callback finishes the login flow: it trades the one-time code from
// the identity provider for a session envelope and sends the browser
// on to its destination. Any failure lands on the login screen with an
// error marker instead of a broken session.
func (h *Handler) Callback(w http.ResponseWriter, r *http.Request) {
	client, ok := session.ClientFrom(r.Context())
	if !ok {
		http.Redirect(w, r, loginErrorURL, http.StatusFound)
		return
	}

	code := r.URL.Query().Get("code")
	if code == "" {
		h.log.Warn("callback without code")
		http.Redirect(w, r, loginErrorURL, http.StatusFound)
		return
	}

	if _, err := client.ExchangeCode(r.Context(), code); err != nil {
		h.log.Error("code exchange failed", slog.String("error", err.Error()))
		http.Redirect(w, r, loginErrorURL, http.StatusFound)
		return
	}

	http.Redirect(w, r, h.destination(r), http.StatusFound)
}

// Logout revokes the session and clears the envelope. Safe to call
// without a session.
func (h *Handler) Logout(w http.ResponseWriter, r *http.Request) {
	if client, ok := session.ClientFrom(r.Context()); ok {
		if err := client.SignOut(r.Context()); err != nil {
			h.log.Error("sign-out failed", slog.String("error", err.Error()))
		}
	}
	http.Redirect(w, r, "/login", http.StatusFound)
}

// destination resolves the post-login landing URL. Behind a proxy the
// browser's host arrives in X-Forwarded-Host and the redirect must use
// it, or the user lands on the internal hostname.
func (h *Handler) destination(r *http.Request) string {
	next := sanitizeNext(r.URL.Query().Get("next"))
	if h.local {
		return next
	}
	if forwarded := r.Header.Get("X-Forwarded-Host"); forwarded != "" {
		return "https://" + forwarded + next
	}
	return next
}

// sanitizeNext confines the next parameter to a local path. Anything
// that could leave the site, including scheme-relative "//host" forms,
// collapses to the root.
func sanitizeNext(next string) string {
	if next == "" || !strings.HasPrefix(next, "/") || strings.HasPrefix(next, "//") {
		return "/"
	}
	if strings.ContainsAny(next, "\\") {
		return "/"
	}
	return next
}
