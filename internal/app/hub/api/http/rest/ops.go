package rest

import (
	"net/http"

	"github.com/danielgtaylor/huma/v2"
)

func (h *Handler) listOp() huma.Operation {
	return huma.Operation{
		OperationID: "rest-bookmarks-list",
		Method:      http.MethodGet,
		Path:        "/rest/v1/bookmarks",
		Summary:     "List the caller's bookmarks",
		Tags:        []string{"rest"},
		Security:    []map[string][]string{{"bearer": {}}},
		Middlewares: h.middleware,
	}
}

func (h *Handler) insertOp() huma.Operation {
	return huma.Operation{
		OperationID:   "rest-bookmarks-insert",
		Method:        http.MethodPost,
		Path:          "/rest/v1/bookmarks",
		DefaultStatus: http.StatusCreated,
		Summary:       "Insert a bookmark row",
		Tags:          []string{"rest"},
		Security:      []map[string][]string{{"bearer": {}}},
		Middlewares:   h.middleware,
	}
}

func (h *Handler) deleteOp() huma.Operation {
	return huma.Operation{
		OperationID:   "rest-bookmarks-delete",
		Method:        http.MethodDelete,
		Path:          "/rest/v1/bookmarks",
		DefaultStatus: http.StatusNoContent,
		Summary:       "Delete bookmark rows by filter",
		Tags:          []string{"rest"},
		Security:      []map[string][]string{{"bearer": {}}},
		Middlewares:   h.middleware,
	}
}
