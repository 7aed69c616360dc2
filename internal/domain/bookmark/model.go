package bookmark

import "time"

// Bookmark is a single saved (URL, title) pair. Ownership is immutable:
// records are created by one mutation and destroyed by one mutation, there
// are no in-place updates.
type Bookmark struct {
	ID        string    `json:"id"`
	OwnerID   string    `json:"owner_id"`
	URL       string    `json:"url"`
	Title     string    `json:"title"`
	CreatedAt time.Time `json:"created_at"`
}

// Insert is the client-supplied part of a new bookmark. The server fills
// id, owner_id and created_at.
type Insert struct {
	URL   string `json:"url"`
	Title string `json:"title"`
}
