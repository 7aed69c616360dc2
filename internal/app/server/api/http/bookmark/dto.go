package bookmark

import (
	"markd/internal/domain/bookmark"
)

type createInput struct {
	Body createRequest
}

// createRequest leaves both fields optional at the schema level; the
// handler validates and answers 400, keeping one error shape for every
// bad request.
type createRequest struct {
	URL   string `json:"url,omitempty" doc:"Absolute URL to save"`
	Title string `json:"title,omitempty" doc:"Display title"`
}

type createOutput struct {
	Body createResponse
}

// createResponse wraps the inserted row, parallel to the {"error": ...}
// and {"success": ...} shapes of the rest of the surface.
type createResponse struct {
	Bookmark bookmark.Bookmark `json:"bookmark"`
}

type deleteInput struct {
	ID string `query:"id" doc:"Bookmark id to delete"`
}

type deleteOutput struct {
	Body deleteResponse
}

type deleteResponse struct {
	Success bool `json:"success"`
}

type listOutput struct {
	Body listResponse
}

type listResponse struct {
	Bookmarks []bookmark.Bookmark `json:"bookmarks"`
}

// insertRow is the row shape sent to the hub. The hub rejects rows whose
// owner differs from the bearer token's subject.
type insertRow struct {
	OwnerID string `json:"owner_id"`
	URL     string `json:"url"`
	Title   string `json:"title"`
}
