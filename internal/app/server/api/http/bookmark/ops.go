package bookmark

import (
	"net/http"

	"github.com/danielgtaylor/huma/v2"
)

func (h *Handler) listOp() huma.Operation {
	return huma.Operation{
		OperationID: "bookmarks-list",
		Method:      http.MethodGet,
		Path:        "/api/bookmarks",
		Summary:     "List the caller's bookmarks, newest first",
		Tags:        []string{"bookmarks"},
		Middlewares: h.middleware,
	}
}

func (h *Handler) createOp() huma.Operation {
	return huma.Operation{
		OperationID:   "bookmarks-create",
		Method:        http.MethodPost,
		Path:          "/api/bookmarks",
		DefaultStatus: http.StatusCreated,
		Summary:       "Save a bookmark",
		Tags:          []string{"bookmarks"},
		Middlewares:   h.middleware,
	}
}

func (h *Handler) deleteOp() huma.Operation {
	return huma.Operation{
		OperationID: "bookmarks-delete",
		Method:      http.MethodDelete,
		Path:        "/api/bookmarks",
		Summary:     "Delete a bookmark by id",
		Tags:        []string{"bookmarks"},
		Middlewares: h.middleware,
	}
}
