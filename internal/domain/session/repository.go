package session

import (
	"context"
	"time"
)

type Repository interface {
	Create(ctx context.Context, userID, tokenHash string, expiresAt time.Time) error

	// Rotate atomically revokes the session identified by oldHash and
	// creates a replacement. It returns the session's user id. The swap
	// must be all-or-nothing: a failed rotation leaves the old session
	// valid.
	Rotate(ctx context.Context, oldHash, newHash string, expiresAt time.Time) (string, error)

	Revoke(ctx context.Context, tokenHash string) error
	RevokeAllForUser(ctx context.Context, userID string) error

	CreateCode(ctx context.Context, codeHash, userID, redirectURI string, expiresAt time.Time) error

	// ConsumeCode deletes the code and returns its user id. A code can be
	// consumed exactly once.
	ConsumeCode(ctx context.Context, codeHash string) (string, error)
}
