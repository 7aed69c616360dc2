// Package api assembles the hub's HTTP surface: the token and user
// endpoints under /auth/v1, the bookmarks collection under /rest/v1,
// the change stream under /realtime/v1 and the hosted sign-in form.
package api

import (
	"log/slog"

	"github.com/danielgtaylor/huma/v2"
	"github.com/danielgtaylor/huma/v2/adapters/humachi"
	"github.com/go-chi/chi/v5"

	authAPI "markd/internal/app/hub/api/http/auth"
	"markd/internal/app/hub/api/http/middleware/apikey"
	authMW "markd/internal/app/hub/api/http/middleware/auth"
	"markd/internal/app/hub/api/http/middleware/logger"
	realtimeAPI "markd/internal/app/hub/api/http/realtime"
	restAPI "markd/internal/app/hub/api/http/rest"
	"markd/internal/app/hub/broker"
	"markd/internal/app/hub/config"
	"markd/internal/app/hub/token"
	"markd/internal/domain/bookmark"
	"markd/internal/domain/session"
	"markd/internal/domain/user"
	"markd/internal/infrastructure/storage/postgres"
)

// wireError is the JSON error shape shared by every hub endpoint.
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

// New builds the hub mux with every endpoint mounted.
func New(storage *postgres.Storage, cfg *config.Config, log *slog.Logger) *chi.Mux {
	mux := chi.NewMux()

	humaConfig := huma.DefaultConfig("markd hub API", "1.0.0")
	humaConfig.Components.SecuritySchemes = map[string]*huma.SecurityScheme{
		"bearer": {Type: "http", Scheme: "bearer"},
	}
	API := humachi.New(mux, humaConfig)

	minter := token.NewMinter(cfg.Auth.JWTSecret)
	guard := apikey.New(cfg.Auth.AnonKey, log)
	loggerMW := logger.New(log)
	bearerMW := authMW.New(minter, log)

	userRepo := postgres.NewUserRepository(storage, log)
	userService := user.NewService(userRepo, log)

	sessionRepo := postgres.NewSessionRepository(storage, log)
	sessionService := session.NewService(sessionRepo, log)

	events := broker.New(log)
	bookmarkRepo := postgres.NewBookmarkRepository(storage, log)
	bookmarkService := bookmark.NewService(bookmarkRepo, events, log)

	public := huma.Middlewares{loggerMW.Middleware(), guard.Middleware()}
	protected := huma.Middlewares{loggerMW.Middleware(), guard.Middleware(), bearerMW.Middleware()}

	authHandler := authAPI.NewHandler(userService, sessionService, minter, log, public, protected)
	authHandler.SetupRoutes(API)
	restAPI.NewHandler(bookmarkService, log, protected).SetupRoutes(API)

	// The sign-in form is opened by a browser, so it carries neither the
	// API key nor a bearer token.
	mux.Get("/auth/v1/authorize", authHandler.AuthorizeForm)
	mux.Post("/auth/v1/authorize", authHandler.Authorize)

	realtimeHandler := realtimeAPI.NewHandler(events, minter, guard, log)
	mux.Get("/realtime/v1/changes", realtimeHandler.Changes)

	return mux
}
