// Package page renders the server-side HTML screens. The dashboard gets
// its initial bookmark list here; live updates after that come over the
// change feed consumed by the client, not by re-rendering.
package page

import (
	"embed"
	"html/template"
	"log/slog"
	"net/http"
	"net/url"

	bookmarkAPI "markd/internal/app/server/api/http/bookmark"
	"markd/internal/app/server/api/http/middleware/session"
	"markd/internal/domain/bookmark"
	"markd/internal/hub"
)

//go:embed templates/*.html
var templateFS embed.FS

type Handler struct {
	log       *slog.Logger
	templates *template.Template
	// authorizeURL is the identity provider's login screen, already
	// carrying the redirect back to this edge.
	authorizeURL string
}

func NewHandler(log *slog.Logger, hubURL, callbackURL string) *Handler {
	authorize := hubURL + "/auth/v1/authorize?" + url.Values{
		"redirect_uri": {callbackURL},
	}.Encode()

	return &Handler{
		log:          log.With(slog.String("component", "page_handler")),
		templates:    template.Must(template.ParseFS(templateFS, "templates/*.html")),
		authorizeURL: authorize,
	}
}

type dashboardData struct {
	Principal *hub.Principal
	Bookmarks []bookmark.Bookmark
}

// Dashboard renders the bookmark list for the signed-in user. The
// interceptor redirects anonymous visitors before this runs; the check
// here only covers misconfigured mounting.
func (h *Handler) Dashboard(w http.ResponseWriter, r *http.Request) {
	principal, ok := session.PrincipalFrom(r.Context())
	if !ok {
		http.Redirect(w, r, "/login", http.StatusFound)
		return
	}
	client, ok := session.ClientFrom(r.Context())
	if !ok {
		http.Redirect(w, r, "/login", http.StatusFound)
		return
	}

	data := dashboardData{
		Principal: principal,
		Bookmarks: bookmarkAPI.Load(r.Context(), client, principal.ID, h.log),
	}
	if err := h.templates.ExecuteTemplate(w, "dashboard.html", data); err != nil {
		h.log.Error("dashboard render failed", slog.String("error", err.Error()))
	}
}

type loginData struct {
	AuthorizeURL string
	Error        string
}

// Login renders the sign-in screen. Already signed-in visitors go
// straight to the dashboard.
func (h *Handler) Login(w http.ResponseWriter, r *http.Request) {
	if _, ok := session.PrincipalFrom(r.Context()); ok {
		http.Redirect(w, r, "/", http.StatusFound)
		return
	}

	data := loginData{AuthorizeURL: h.authorizeURL}
	if r.URL.Query().Get("error") == "auth_callback_failed" {
		data.Error = "Sign-in failed. Please try again."
	}
	if err := h.templates.ExecuteTemplate(w, "login.html", data); err != nil {
		h.log.Error("login render failed", slog.String("error", err.Error()))
	}
}
