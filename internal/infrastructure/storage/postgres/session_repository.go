package postgres

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/jackc/pgx/v5"
)

type SessionRepository struct {
	db  *Storage
	log *slog.Logger
}

func NewSessionRepository(db *Storage, log *slog.Logger) *SessionRepository {
	return &SessionRepository{
		db:  db,
		log: log,
	}
}

func (r *SessionRepository) Create(ctx context.Context, userID, tokenHash string, expiresAt time.Time) error {
	_, err := r.db.Pool().Exec(ctx,
		`INSERT INTO refresh_sessions (user_id, token_hash, expires_at)
         VALUES ($1, $2, $3)`,
		userID, tokenHash, expiresAt)
	return err
}

// Rotate swaps a live session for a new one in a single transaction.
// A hash that matches no live session aborts the swap, which is how a
// reused refresh token gets rejected.
func (r *SessionRepository) Rotate(ctx context.Context, oldHash, newHash string, expiresAt time.Time) (string, error) {
	tx, err := r.db.Pool().Begin(ctx)
	if err != nil {
		return "", fmt.Errorf("begin rotate: %w", err)
	}
	defer tx.Rollback(ctx)

	var userID string
	err = tx.QueryRow(ctx,
		`DELETE FROM refresh_sessions
         WHERE token_hash = $1 AND expires_at > NOW()
         RETURNING user_id`,
		oldHash).Scan(&userID)
	if errors.Is(err, pgx.ErrNoRows) {
		return "", fmt.Errorf("no live session for token")
	}
	if err != nil {
		return "", err
	}

	_, err = tx.Exec(ctx,
		`INSERT INTO refresh_sessions (user_id, token_hash, expires_at)
         VALUES ($1, $2, $3)`,
		userID, newHash, expiresAt)
	if err != nil {
		return "", err
	}

	if err := tx.Commit(ctx); err != nil {
		return "", fmt.Errorf("commit rotate: %w", err)
	}
	return userID, nil
}

func (r *SessionRepository) Revoke(ctx context.Context, tokenHash string) error {
	_, err := r.db.Pool().Exec(ctx,
		`DELETE FROM refresh_sessions WHERE token_hash = $1`, tokenHash)
	return err
}

func (r *SessionRepository) RevokeAllForUser(ctx context.Context, userID string) error {
	_, err := r.db.Pool().Exec(ctx,
		`DELETE FROM refresh_sessions WHERE user_id = $1`, userID)
	return err
}

func (r *SessionRepository) CreateCode(ctx context.Context, codeHash, userID, redirectURI string, expiresAt time.Time) error {
	_, err := r.db.Pool().Exec(ctx,
		`INSERT INTO auth_codes (code_hash, user_id, redirect_uri, expires_at)
         VALUES ($1, $2, $3, $4)`,
		codeHash, userID, redirectURI, expiresAt)
	return err
}

// ConsumeCode deletes the code in the same statement that reads it, so
// a second exchange of the same code finds nothing.
func (r *SessionRepository) ConsumeCode(ctx context.Context, codeHash string) (string, error) {
	var userID string
	err := r.db.Pool().QueryRow(ctx,
		`DELETE FROM auth_codes
         WHERE code_hash = $1 AND expires_at > NOW()
         RETURNING user_id`,
		codeHash).Scan(&userID)
	if errors.Is(err, pgx.ErrNoRows) {
		return "", fmt.Errorf("no live code")
	}
	return userID, err
}
