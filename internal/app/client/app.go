package client

import (
	"context"
	"fmt"
	"log/slog"

	"markd/internal/app/client/config"
	"markd/internal/domain/bookmark"
	"markd/internal/hub"
	"markd/internal/liveview"
)

// App is the terminal client. It talks to the bookmark hub directly,
// holding its credential envelope in a file-backed store so every command
// runs against the same rotating session.
type App struct {
	cfg   *config.Config
	log   *slog.Logger
	store *FileStore
	hub   *hub.Client
}

func New(cfg *config.Config, log *slog.Logger) (*App, error) {
	store, err := NewFileStore(cfg.StatePath)
	if err != nil {
		return nil, err
	}

	hubClient := hub.New(hub.Config{
		BaseURL: cfg.HubURL,
		APIKey:  cfg.AnonKey,
	}, store)

	return &App{
		cfg:   cfg,
		log:   log.With(slog.String("component", "client")),
		store: store,
		hub:   hubClient,
	}, nil
}

// Login signs in with email and password and persists the envelope.
func (a *App) Login(ctx context.Context, email, password string) (*hub.Principal, error) {
	principal, err := a.hub.SignInWithPassword(ctx, email, password)
	if err != nil {
		return nil, err
	}
	a.log.Debug("signed in", slog.String("user_id", principal.ID))
	return principal, nil
}

// Logout revokes the session on the hub and clears the local envelope.
func (a *App) Logout(ctx context.Context) error {
	if !a.store.HasSession() {
		return nil
	}
	return a.hub.SignOut(ctx)
}

// Whoami resolves the signed-in principal, rotating the envelope if the
// access token has expired.
func (a *App) Whoami(ctx context.Context) (*hub.Principal, error) {
	return a.hub.CurrentPrincipal(ctx)
}

// List returns the principal's bookmarks, newest first.
func (a *App) List(ctx context.Context) ([]bookmark.Bookmark, error) {
	principal, err := a.hub.CurrentPrincipal(ctx)
	if err != nil {
		return nil, err
	}

	var bookmarks []bookmark.Bookmark
	err = a.hub.From("bookmarks").
		Eq("owner_id", principal.ID).
		Order("created_at", true).
		Select(ctx, &bookmarks)
	if err != nil {
		return nil, err
	}
	return bookmarks, nil
}

type insertRow struct {
	OwnerID string `json:"owner_id"`
	URL     string `json:"url"`
	Title   string `json:"title"`
}

// Add validates and saves a new bookmark.
func (a *App) Add(ctx context.Context, url, title string) (*bookmark.Bookmark, error) {
	insert, err := bookmark.ValidateInsert(bookmark.Insert{URL: url, Title: title})
	if err != nil {
		return nil, err
	}

	principal, err := a.hub.CurrentPrincipal(ctx)
	if err != nil {
		return nil, err
	}

	var saved bookmark.Bookmark
	row := insertRow{OwnerID: principal.ID, URL: insert.URL, Title: insert.Title}
	if err := a.hub.From("bookmarks").Insert(ctx, row, &saved); err != nil {
		return nil, err
	}
	return &saved, nil
}

// Remove deletes a bookmark by id. Deleting an id that is already gone
// is not an error.
func (a *App) Remove(ctx context.Context, id string) error {
	if id == "" {
		return fmt.Errorf("bookmark id is required")
	}

	principal, err := a.hub.CurrentPrincipal(ctx)
	if err != nil {
		return err
	}

	return a.hub.From("bookmarks").
		Eq("id", id).
		Eq("owner_id", principal.ID).
		Delete(ctx)
}

// Watch loads the current bookmark list, subscribes to the live change
// feed and returns a session that keeps the two reconciled. The caller
// owns the session and must Close it.
func (a *App) Watch(ctx context.Context) (*liveview.Session, error) {
	principal, err := a.hub.CurrentPrincipal(ctx)
	if err != nil {
		return nil, err
	}

	seed, err := a.List(ctx)
	if err != nil {
		return nil, err
	}

	sub, err := a.hub.Subscribe(ctx, hub.ChannelForUser(principal.ID))
	if err != nil {
		return nil, err
	}

	return liveview.NewSession(liveview.NewView(seed), sub), nil
}
