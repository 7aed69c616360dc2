package postgres

import (
	"context"
	"log/slog"

	"github.com/google/uuid"

	"markd/internal/domain/bookmark"
)

type BookmarkRepository struct {
	db  *Storage
	log *slog.Logger
}

func NewBookmarkRepository(db *Storage, log *slog.Logger) *BookmarkRepository {
	return &BookmarkRepository{
		db:  db,
		log: log,
	}
}

func (r *BookmarkRepository) Create(ctx context.Context, ownerID string, in bookmark.Insert) (*bookmark.Bookmark, error) {
	b := bookmark.Bookmark{
		ID:      uuid.NewString(),
		OwnerID: ownerID,
		URL:     in.URL,
		Title:   in.Title,
	}

	err := r.db.Pool().QueryRow(ctx,
		`INSERT INTO bookmarks (id, owner_id, url, title)
         VALUES ($1, $2, $3, $4)
         RETURNING created_at`,
		b.ID, b.OwnerID, b.URL, b.Title).Scan(&b.CreatedAt)
	if err != nil {
		return nil, err
	}

	return &b, nil
}

func (r *BookmarkRepository) ListByOwner(ctx context.Context, ownerID string) ([]bookmark.Bookmark, error) {
	rows, err := r.db.Pool().Query(ctx,
		`SELECT id, owner_id, url, title, created_at
         FROM bookmarks
         WHERE owner_id = $1
         ORDER BY created_at DESC`,
		ownerID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	list := make([]bookmark.Bookmark, 0)
	for rows.Next() {
		var b bookmark.Bookmark
		if err := rows.Scan(&b.ID, &b.OwnerID, &b.URL, &b.Title, &b.CreatedAt); err != nil {
			return nil, err
		}
		list = append(list, b)
	}
	return list, rows.Err()
}

func (r *BookmarkRepository) Delete(ctx context.Context, ownerID, id string) (bool, error) {
	tag, err := r.db.Pool().Exec(ctx,
		`DELETE FROM bookmarks WHERE owner_id = $1 AND id = $2`,
		ownerID, id)
	if err != nil {
		return false, err
	}
	return tag.RowsAffected() > 0, nil
}
