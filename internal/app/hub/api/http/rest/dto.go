package rest

import (
	"markd/internal/domain/bookmark"
)

type listInput struct {
	OwnerID string `query:"owner_id" doc:"Ignored for scoping; rows are always the caller's"`
	Order   string `query:"order" doc:"created_at.desc (default) or created_at.asc"`
}

type listOutput struct {
	Body []bookmark.Bookmark
}

type insertInput struct {
	Body insertRequest
}

type insertRequest struct {
	OwnerID string `json:"owner_id,omitempty"`
	URL     string `json:"url,omitempty"`
	Title   string `json:"title,omitempty"`
}

type insertOutput struct {
	Body bookmark.Bookmark
}

type deleteInput struct {
	ID      string `query:"id"`
	OwnerID string `query:"owner_id" doc:"Ignored for scoping; rows are always the caller's"`
}

type deleteOutput struct{}
