package bookmark

import (
	"context"
	"errors"
	"log/slog"

	"github.com/danielgtaylor/huma/v2"

	"markd/internal/app/server/api/http/middleware/session"
	"markd/internal/domain/bookmark"
	"markd/internal/hub"
)

type Handler struct {
	log        *slog.Logger
	middleware huma.Middlewares
}

func NewHandler(log *slog.Logger, mws huma.Middlewares) *Handler {
	return &Handler{
		log:        log.With(slog.String("component", "bookmark_handler")),
		middleware: mws,
	}
}

func (h *Handler) SetupRoutes(api huma.API) {
	huma.Register(api, h.listOp(), h.list)
	huma.Register(api, h.createOp(), h.create)
	huma.Register(api, h.deleteOp(), h.delete)
}

// session resolves the caller from the interceptor's context. Both the
// client and the principal must be present; a missing client means the
// route was somehow mounted outside the interceptor, which must fail
// closed rather than run unauthenticated.
func (h *Handler) session(ctx context.Context) (*hub.Client, *hub.Principal, error) {
	client, ok := session.ClientFrom(ctx)
	if !ok {
		return nil, nil, huma.Error401Unauthorized("Unauthorized")
	}
	principal, ok := session.PrincipalFrom(ctx)
	if !ok {
		return nil, nil, huma.Error401Unauthorized("Unauthorized")
	}
	return client, principal, nil
}

// storeMessage puts the hub's own error text on the wire. Transport
// failures carry no store message and fall back to a generic one.
func storeMessage(err error, fallback string) string {
	var he *hub.Error
	if errors.As(err, &he) && he.Kind == hub.KindBackend && he.Message != "" {
		return he.Message
	}
	return fallback
}

func (h *Handler) list(ctx context.Context, _ *struct{}) (*listOutput, error) {
	client, principal, err := h.session(ctx)
	if err != nil {
		return nil, err
	}

	return &listOutput{
		Body: listResponse{Bookmarks: Load(ctx, client, principal.ID, h.log)},
	}, nil
}

func (h *Handler) create(ctx context.Context, input *createInput) (*createOutput, error) {
	client, principal, err := h.session(ctx)
	if err != nil {
		return nil, err
	}

	insert, err := bookmark.ValidateInsert(bookmark.Insert{URL: input.Body.URL, Title: input.Body.Title})
	if err != nil {
		return nil, huma.Error400BadRequest(err.Error())
	}

	var created bookmark.Bookmark
	err = client.From("bookmarks").Insert(ctx, insertRow{
		OwnerID: principal.ID,
		URL:     insert.URL,
		Title:   insert.Title,
	}, &created)
	if err != nil {
		if hub.IsUnauthenticated(err) {
			return nil, huma.Error401Unauthorized("Unauthorized")
		}
		h.log.Error("bookmark insert failed", slog.String("error", err.Error()))
		return nil, huma.Error500InternalServerError(storeMessage(err, "could not save bookmark"))
	}

	return &createOutput{Body: createResponse{Bookmark: created}}, nil
}

func (h *Handler) delete(ctx context.Context, input *deleteInput) (*deleteOutput, error) {
	client, principal, err := h.session(ctx)
	if err != nil {
		return nil, err
	}

	if input.ID == "" {
		return nil, huma.Error400BadRequest("bookmark id is required")
	}

	// Owner filter narrows on top of the hub's own row policy. Deleting
	// an id that is already gone still succeeds; the operation is
	// idempotent from the caller's viewpoint.
	err = client.From("bookmarks").
		Eq("id", input.ID).
		Eq("owner_id", principal.ID).
		Delete(ctx)
	if err != nil {
		if hub.IsUnauthenticated(err) {
			return nil, huma.Error401Unauthorized("Unauthorized")
		}
		h.log.Error("bookmark delete failed",
			slog.String("id", input.ID),
			slog.String("error", err.Error()),
		)
		return nil, huma.Error500InternalServerError(storeMessage(err, "could not delete bookmark"))
	}

	return &deleteOutput{Body: deleteResponse{Success: true}}, nil
}
