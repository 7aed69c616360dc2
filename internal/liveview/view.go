// Package liveview maintains an in-memory bookmark list that tracks a
// change feed. Each view belongs to a single session; two sessions over
// the same account hold independent views that converge through the
// shared feed, not through each other.
package liveview

import (
	"sync"

	"markd/internal/domain/bookmark"
)

// View is a newest-first bookmark list safe for concurrent use.
type View struct {
	mu    sync.Mutex
	order []string
	byID  map[string]bookmark.Bookmark
}

// NewView seeds a view from a full load. Duplicate ids in the snapshot
// collapse to their first occurrence.
func NewView(initial []bookmark.Bookmark) *View {
	v := &View{byID: make(map[string]bookmark.Bookmark, len(initial))}
	for _, b := range initial {
		if _, seen := v.byID[b.ID]; seen {
			continue
		}
		v.order = append(v.order, b.ID)
		v.byID[b.ID] = b
	}
	return v
}

// Insert prepends a bookmark and reports whether the view changed. An id
// already present leaves the view untouched, so replaying the feed entry
// for a locally created bookmark is harmless.
func (v *View) Insert(b bookmark.Bookmark) bool {
	v.mu.Lock()
	defer v.mu.Unlock()

	if _, seen := v.byID[b.ID]; seen {
		return false
	}
	v.order = append([]string{b.ID}, v.order...)
	v.byID[b.ID] = b
	return true
}

// Remove deletes by id and reports whether the view changed. Removing an
// absent id is a no-op, so a locally applied delete and its feed echo
// land on the same state.
func (v *View) Remove(id string) bool {
	v.mu.Lock()
	defer v.mu.Unlock()

	if _, seen := v.byID[id]; !seen {
		return false
	}
	delete(v.byID, id)
	for i, existing := range v.order {
		if existing == id {
			v.order = append(v.order[:i], v.order[i+1:]...)
			break
		}
	}
	return true
}

// Bookmarks returns a point-in-time copy in display order.
func (v *View) Bookmarks() []bookmark.Bookmark {
	v.mu.Lock()
	defer v.mu.Unlock()

	out := make([]bookmark.Bookmark, 0, len(v.order))
	for _, id := range v.order {
		out = append(out, v.byID[id])
	}
	return out
}

func (v *View) Len() int {
	v.mu.Lock()
	defer v.mu.Unlock()
	return len(v.order)
}
