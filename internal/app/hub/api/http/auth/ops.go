package auth

import (
	"net/http"

	"github.com/danielgtaylor/huma/v2"
)

func (h *Handler) tokenOp() huma.Operation {
	return huma.Operation{
		OperationID: "auth-token",
		Method:      http.MethodPost,
		Path:        "/auth/v1/token",
		Summary:     "Exchange a grant for a session",
		Description: "Supports authorization_code, refresh_token and password grants.",
		Tags:        []string{"auth"},
		Middlewares: h.public,
	}
}

func (h *Handler) userOp() huma.Operation {
	return huma.Operation{
		OperationID: "auth-user",
		Method:      http.MethodGet,
		Path:        "/auth/v1/user",
		Summary:     "Resolve the bearer token to its user",
		Tags:        []string{"auth"},
		Security:    []map[string][]string{{"bearer": {}}},
		Middlewares: h.protected,
	}
}

func (h *Handler) logoutOp() huma.Operation {
	return huma.Operation{
		OperationID:   "auth-logout",
		Method:        http.MethodPost,
		Path:          "/auth/v1/logout",
		DefaultStatus: http.StatusNoContent,
		Summary:       "Revoke the caller's refresh sessions",
		Tags:          []string{"auth"},
		Security:      []map[string][]string{{"bearer": {}}},
		Middlewares:   h.protected,
	}
}
