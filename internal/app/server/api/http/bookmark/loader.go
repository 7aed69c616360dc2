package bookmark

import (
	"context"
	"log/slog"

	"markd/internal/domain/bookmark"
	"markd/internal/hub"
)

// Load fetches the caller's bookmarks newest first. A hub failure
// degrades to an empty list so the screen still renders; the live feed
// fills the gap once the hub recovers.
func Load(ctx context.Context, client *hub.Client, ownerID string, log *slog.Logger) []bookmark.Bookmark {
	var rows []bookmark.Bookmark
	err := client.From("bookmarks").
		Eq("owner_id", ownerID).
		Order("created_at", true).
		Select(ctx, &rows)
	if err != nil {
		log.Error("bookmark load failed", slog.String("error", err.Error()))
		return []bookmark.Bookmark{}
	}
	if rows == nil {
		rows = []bookmark.Bookmark{}
	}
	return rows
}
