// Package api assembles the edge HTTP surface.
//
// Three kinds of routes share one mux: the JSON API under /api, the
// browser auth endpoints under /auth, and the HTML pages. All of them
// sit behind the session interceptor, which keeps the credential
// envelope fresh and decides how an anonymous request is turned away.
package api

import (
	"log/slog"

	"github.com/danielgtaylor/huma/v2"
	"github.com/danielgtaylor/huma/v2/adapters/humachi"
	"github.com/go-chi/chi/v5"

	authAPI "markd/internal/app/server/api/http/auth"
	bookmarkAPI "markd/internal/app/server/api/http/bookmark"
	healthAPI "markd/internal/app/server/api/http/health"
	"markd/internal/app/server/api/http/middleware/logger"
	"markd/internal/app/server/api/http/middleware/session"
	pageAPI "markd/internal/app/server/api/http/page"
	"markd/internal/app/server/config"
	"markd/internal/hub"
)

// wireError is the JSON error shape of the edge API. Every failure,
// validation or upstream, comes back as {"error": "..."}.
type wireError struct {
	status  int
	Message string `json:"error"`
}

func (e *wireError) Error() string  { return e.Message }
func (e *wireError) GetStatus() int { return e.status }

func init() {
	huma.NewError = func(status int, message string, _ ...error) huma.StatusError {
		return &wireError{status: status, Message: message}
	}
}

// New builds the edge mux with every route mounted.
func New(cfg *config.Config, log *slog.Logger) *chi.Mux {
	hubCfg := hub.Config{
		BaseURL:       cfg.Hub.URL,
		APIKey:        cfg.Hub.AnonKey,
		SecureCookies: cfg.SecureCookies(),
	}

	mux := chi.NewMux()
	mux.Use(session.New(hubCfg, log).Middleware())

	humaConfig := huma.DefaultConfig("markd edge API", "1.0.0")
	API := humachi.New(mux, humaConfig)

	loggerMW := logger.New(log)
	healthAPI.NewHandler(log, huma.Middlewares{loggerMW.Middleware()}).SetupRoutes(API)
	bookmarkAPI.NewHandler(log, huma.Middlewares{loggerMW.Middleware()}).SetupRoutes(API)

	local := cfg.Env == config.EnvLocal
	authHandler := authAPI.NewHandler(log, local)
	mux.Get("/auth/callback", authHandler.Callback)
	mux.Post("/auth/logout", authHandler.Logout)

	pageHandler := pageAPI.NewHandler(log, cfg.Hub.URL, cfg.Server.PublicURL+"/auth/callback")
	mux.Get("/", pageHandler.Dashboard)
	mux.Get("/login", pageHandler.Login)

	return mux
}
