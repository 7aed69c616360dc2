package apikey

import (
	"encoding/json"
	"log/slog"
	"net/http"

	"github.com/danielgtaylor/huma/v2"
)

// Guard rejects API calls that lack the deployment's public API key.
// An empty configured key disables the check, which is the local
// development default.
type Guard struct {
	key string
	log *slog.Logger
}

func New(key string, log *slog.Logger) *Guard {
	return &Guard{
		key: key,
		log: log.With(slog.String("component", "apikey_guard")),
	}
}

func (g *Guard) Middleware() func(huma.Context, func(huma.Context)) {
	return func(ctx huma.Context, next func(huma.Context)) {
		if g.key != "" && ctx.Header("apikey") != g.key {
			ctx.SetStatus(http.StatusUnauthorized)
			ctx.SetHeader("Content-Type", "application/json")
			json.NewEncoder(ctx.BodyWriter()).Encode(map[string]string{
				"error": "invalid api key",
			})
			return
		}
		next(ctx)
	}
}

// Check is the plain-HTTP variant for endpoints outside the API layer.
func (g *Guard) Check(r *http.Request) bool {
	return g.key == "" || r.Header.Get("apikey") == g.key
}
