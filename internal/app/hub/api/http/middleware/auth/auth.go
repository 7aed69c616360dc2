package auth

import (
	"context"
	"encoding/json"
	"log/slog"
	"net/http"

	"github.com/danielgtaylor/huma/v2"

	"markd/internal/app/hub/token"
)

type contextKey string

const claimsKey contextKey = "claims"

type Auth struct {
	minter *token.Minter
	log    *slog.Logger
}

func New(minter *token.Minter, log *slog.Logger) *Auth {
	return &Auth{
		minter: minter,
		log:    log.With(slog.String("component", "auth_middleware")),
	}
}

// Middleware verifies the bearer access token and stores its claims on
// the request context.
func (a *Auth) Middleware() func(huma.Context, func(huma.Context)) {
	return func(ctx huma.Context, next func(huma.Context)) {
		header := ctx.Header("Authorization")
		if len(header) < 7 || header[:7] != "Bearer " {
			writeUnauthorized(ctx)
			return
		}

		claims, err := a.minter.Verify(header[7:])
		if err != nil {
			a.log.Debug("token rejected", slog.String("error", err.Error()))
			writeUnauthorized(ctx)
			return
		}

		newCtx := context.WithValue(ctx.Context(), claimsKey, claims)
		next(huma.WithContext(ctx, newCtx))
	}
}

func writeUnauthorized(ctx huma.Context) {
	ctx.SetStatus(http.StatusUnauthorized)
	ctx.SetHeader("Content-Type", "application/json")
	json.NewEncoder(ctx.BodyWriter()).Encode(map[string]string{
		"error": "Unauthorized",
	})
}

// WithClaims places verified claims on a context the way the middleware
// does.
func WithClaims(ctx context.Context, claims *token.Claims) context.Context {
	return context.WithValue(ctx, claimsKey, claims)
}

func ClaimsFrom(ctx context.Context) (*token.Claims, bool) {
	claims, ok := ctx.Value(claimsKey).(*token.Claims)
	return claims, ok
}

func GetUserID(ctx context.Context) (string, bool) {
	claims, ok := ClaimsFrom(ctx)
	if !ok {
		return "", false
	}
	return claims.Subject, true
}
