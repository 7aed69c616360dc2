package session

import (
	"context"
	"crypto/rand"
	"crypto/sha256"
	"encoding/base64"
	"encoding/hex"
	"errors"
	"fmt"
	"log/slog"
	"time"
)

const (
	refreshTokenTTL = 30 * 24 * time.Hour
	authCodeTTL     = 5 * time.Minute
)

var ErrInvalidToken = errors.New("invalid or expired token")

type Servicer interface {
	Issue(ctx context.Context, userID string) (string, error)
	Rotate(ctx context.Context, refreshToken string) (userID, newToken string, err error)
	Revoke(ctx context.Context, refreshToken string) error
	RevokeAll(ctx context.Context, userID string) error
	IssueCode(ctx context.Context, userID, redirectURI string) (string, error)
	ConsumeCode(ctx context.Context, code string) (string, error)
}

type Service struct {
	repo Repository
	log  *slog.Logger
}

func NewService(repo Repository, log *slog.Logger) *Service {
	return &Service{
		repo: repo,
		log:  log.With(slog.String("component", "session_service")),
	}
}

// Issue creates a refresh session for the user and returns the opaque
// token. Only the token's sha256 hash is stored.
func (s *Service) Issue(ctx context.Context, userID string) (string, error) {
	token, err := newToken()
	if err != nil {
		return "", err
	}

	if err := s.repo.Create(ctx, userID, hashToken(token), time.Now().Add(refreshTokenTTL)); err != nil {
		return "", fmt.Errorf("save session: %w", err)
	}

	return token, nil
}

// Rotate exchanges a refresh token for a fresh one, revoking the old
// session in the same step. Either both sides of the swap happen or
// neither does.
func (s *Service) Rotate(ctx context.Context, refreshToken string) (string, string, error) {
	newTok, err := newToken()
	if err != nil {
		return "", "", err
	}

	userID, err := s.repo.Rotate(ctx, hashToken(refreshToken), hashToken(newTok), time.Now().Add(refreshTokenTTL))
	if err != nil {
		return "", "", ErrInvalidToken
	}

	return userID, newTok, nil
}

func (s *Service) Revoke(ctx context.Context, refreshToken string) error {
	return s.repo.Revoke(ctx, hashToken(refreshToken))
}

// RevokeAll drops every refresh session the user holds. Sign-out carries
// only the access token, so revocation is keyed by user rather than by
// one session.
func (s *Service) RevokeAll(ctx context.Context, userID string) error {
	return s.repo.RevokeAllForUser(ctx, userID)
}

// IssueCode mints the one-time authorization code handed back to the app
// on the sign-in redirect.
func (s *Service) IssueCode(ctx context.Context, userID, redirectURI string) (string, error) {
	code, err := newToken()
	if err != nil {
		return "", err
	}

	if err := s.repo.CreateCode(ctx, hashToken(code), userID, redirectURI, time.Now().Add(authCodeTTL)); err != nil {
		return "", fmt.Errorf("save auth code: %w", err)
	}

	return code, nil
}

func (s *Service) ConsumeCode(ctx context.Context, code string) (string, error) {
	userID, err := s.repo.ConsumeCode(ctx, hashToken(code))
	if err != nil {
		return "", ErrInvalidToken
	}
	return userID, nil
}

func newToken() (string, error) {
	buf := make([]byte, 32)
	if _, err := rand.Read(buf); err != nil {
		return "", fmt.Errorf("generate token: %w", err)
	}
	return base64.RawURLEncoding.EncodeToString(buf), nil
}

func hashToken(token string) string {
	sum := sha256.Sum256([]byte(token))
	return hex.EncodeToString(sum[:])
}
