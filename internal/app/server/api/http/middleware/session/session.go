// Package session is the edge interceptor that keeps the credential
// envelope fresh. It runs before any handler on matched paths, rotates
// an expiring envelope exactly once per request, and decides whether an
// unauthenticated request is redirected or passed through.
package session

import (
	"context"
	"log/slog"
	"net/http"

	"markd/internal/hub"
)

type contextKey string

const (
	clientKey    contextKey = "hubClient"
	principalKey contextKey = "principal"
)

type Refresher struct {
	cfg hub.Config
	log *slog.Logger
}

func New(cfg hub.Config, log *slog.Logger) *Refresher {
	return &Refresher{
		cfg: cfg,
		log: log.With(slog.String("component", "session_refresher")),
	}
}

// Middleware wires the interceptor into a chi chain.
//
// The hub client is constructed per request and resolving the principal
// is its first and only call before handlers run; rotated cookies land
// on both the response and the request, so everything downstream sees
// the fresh envelope.
func (rf *Refresher) Middleware() func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			if !intercepts(r.URL.Path) {
				next.ServeHTTP(w, r)
				return
			}

			client := hub.New(rf.cfg, newRequestStore(w, r))
			ctx := context.WithValue(r.Context(), clientKey, client)

			principal, err := client.CurrentPrincipal(ctx)
			if err != nil {
				if hub.KindOf(err) == hub.KindNetwork {
					rf.log.Error("hub unreachable during session refresh",
						slog.String("path", r.URL.Path),
						slog.String("error", err.Error()),
					)
				}
				if redirectsToLogin(r.URL.Path) {
					http.Redirect(w, r, "/login", http.StatusFound)
					return
				}
				next.ServeHTTP(w, r.WithContext(ctx))
				return
			}

			ctx = context.WithValue(ctx, principalKey, principal)
			next.ServeHTTP(w, r.WithContext(ctx))
		})
	}
}

// WithClient places a hub client on the context the way the interceptor
// does. Handlers mounted outside the interceptor (and tests) use it.
func WithClient(ctx context.Context, client *hub.Client) context.Context {
	return context.WithValue(ctx, clientKey, client)
}

// WithPrincipal places an authenticated principal on the context.
func WithPrincipal(ctx context.Context, p *hub.Principal) context.Context {
	return context.WithValue(ctx, principalKey, p)
}

// ClientFrom returns the request-scoped hub client placed by the
// interceptor. Absent only on paths the matcher skips.
func ClientFrom(ctx context.Context) (*hub.Client, bool) {
	client, ok := ctx.Value(clientKey).(*hub.Client)
	return client, ok
}

// PrincipalFrom returns the authenticated principal, if any.
func PrincipalFrom(ctx context.Context) (*hub.Principal, bool) {
	p, ok := ctx.Value(principalKey).(*hub.Principal)
	return p, ok
}
