package rest

import (
	"context"
	"errors"
	"log/slog"

	"github.com/danielgtaylor/huma/v2"

	"markd/internal/app/hub/api/http/middleware/auth"
	"markd/internal/domain/bookmark"
)

// Handler serves the bookmarks collection. Row scoping is enforced by
// token subject, never by request filters: whatever owner_id a caller
// sends, they only ever touch their own rows.
type Handler struct {
	service    bookmark.Servicer
	log        *slog.Logger
	middleware huma.Middlewares
}

func NewHandler(service bookmark.Servicer, log *slog.Logger, mws huma.Middlewares) *Handler {
	return &Handler{
		service:    service,
		log:        log.With(slog.String("component", "rest_handler")),
		middleware: mws,
	}
}

func (h *Handler) SetupRoutes(api huma.API) {
	huma.Register(api, h.listOp(), h.list)
	huma.Register(api, h.insertOp(), h.insert)
	huma.Register(api, h.deleteOp(), h.delete)
}

func (h *Handler) list(ctx context.Context, input *listInput) (*listOutput, error) {
	userID, ok := auth.GetUserID(ctx)
	if !ok {
		return nil, huma.Error401Unauthorized("Unauthorized")
	}

	rows, err := h.service.List(ctx, userID)
	if err != nil {
		h.log.Error("list failed", slog.String("error", err.Error()))
		return nil, huma.Error500InternalServerError("could not list bookmarks")
	}

	if input.Order == "created_at.asc" {
		for i, j := 0, len(rows)-1; i < j; i, j = i+1, j-1 {
			rows[i], rows[j] = rows[j], rows[i]
		}
	}

	return &listOutput{Body: rows}, nil
}

func (h *Handler) insert(ctx context.Context, input *insertInput) (*insertOutput, error) {
	userID, ok := auth.GetUserID(ctx)
	if !ok {
		return nil, huma.Error401Unauthorized("Unauthorized")
	}

	if input.Body.OwnerID != "" && input.Body.OwnerID != userID {
		return nil, huma.Error403Forbidden("owner_id does not match token subject")
	}

	created, err := h.service.Create(ctx, userID, bookmark.Insert{
		URL:   input.Body.URL,
		Title: input.Body.Title,
	})
	if err != nil {
		if errors.Is(err, bookmark.ErrFieldsMissing) ||
			errors.Is(err, bookmark.ErrInvalidURL) ||
			errors.Is(err, bookmark.ErrTitleTooLong) {
			return nil, huma.Error400BadRequest(err.Error())
		}
		h.log.Error("insert failed", slog.String("error", err.Error()))
		return nil, huma.Error500InternalServerError("could not insert bookmark")
	}

	return &insertOutput{Body: *created}, nil
}

func (h *Handler) delete(ctx context.Context, input *deleteInput) (*deleteOutput, error) {
	userID, ok := auth.GetUserID(ctx)
	if !ok {
		return nil, huma.Error401Unauthorized("Unauthorized")
	}

	if input.ID == "" {
		return nil, huma.Error400BadRequest("id filter is required")
	}

	if err := h.service.Delete(ctx, userID, input.ID); err != nil {
		h.log.Error("delete failed",
			slog.String("id", input.ID),
			slog.String("error", err.Error()),
		)
		return nil, huma.Error500InternalServerError("could not delete bookmark")
	}

	return &deleteOutput{}, nil
}
