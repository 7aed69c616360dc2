package bookmark

import "context"

type Repository interface {
	Create(ctx context.Context, ownerID string, in Insert) (*Bookmark, error)
	ListByOwner(ctx context.Context, ownerID string) ([]Bookmark, error)
	Delete(ctx context.Context, ownerID, id string) (bool, error)
}
