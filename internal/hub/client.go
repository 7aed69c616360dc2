package hub

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"time"

	"github.com/golang-jwt/jwt/v5"
)

// accessExpiryMargin is subtracted from the access token's lifetime when
// deciding whether to rotate. Covers clock skew and request latency.
const accessExpiryMargin = 30 * time.Second

// Config identifies the hub deployment a client talks to.
type Config struct {
	// BaseURL of the identity+data service, without trailing slash.
	BaseURL string
	// APIKey is the public (anonymous) API key sent with every request.
	APIKey string
	// SecureCookies marks written envelope cookies Secure. Off for local
	// development over plain HTTP.
	SecureCookies bool
	// HTTPClient overrides the transport. Defaults to a 10s-timeout client.
	HTTPClient *http.Client
}

// Principal is the authenticated identity derived from a valid session
// envelope. Recomputed per request, never persisted by the core.
type Principal struct {
	ID       string       `json:"id"`
	Email    string       `json:"email"`
	Metadata UserMetadata `json:"user_metadata"`
}

type UserMetadata struct {
	FullName  string `json:"full_name"`
	AvatarURL string `json:"avatar_url"`
}

// DisplayName returns the best human-readable name for the principal.
func (p *Principal) DisplayName() string {
	if p.Metadata.FullName != "" {
		return p.Metadata.FullName
	}
	return p.Email
}

type tokenResponse struct {
	AccessToken  string     `json:"access_token"`
	RefreshToken string     `json:"refresh_token"`
	ExpiresIn    int64      `json:"expires_in"`
	User         *Principal `json:"user"`
}

// Client is a request-scoped client over the hub, wired to a credential
// store for envelope persistence. Construct one per request; the client
// keeps no state between requests beyond what lives in the store.
type Client struct {
	cfg   Config
	store CredentialStore
	http  *http.Client

	refreshed bool
}

// New binds a client to a credential store. See Client.
func New(cfg Config, store CredentialStore) *Client {
	httpClient := cfg.HTTPClient
	if httpClient == nil {
		httpClient = &http.Client{Timeout: 10 * time.Second}
	}
	return &Client{cfg: cfg, store: store, http: httpClient}
}

// CurrentPrincipal resolves the session envelope to a principal,
// rotating an expiring envelope as a side effect.
//
// Contract: this must be the first call on a freshly constructed client,
// with no intervening operations. The call is what performs credential
// rotation, and anything executed before it would observe stale
// credentials.
//
// A hub network failure is reported as KindNetwork; the gate treats it
// the same as an absent principal, because a stale envelope and an
// invalid one are indistinguishable from its viewpoint.
func (c *Client) CurrentPrincipal(ctx context.Context) (*Principal, error) {
	access, refresh := c.envelope()
	if access == "" && refresh == "" {
		return nil, newError(KindUnauthenticated, "no session envelope")
	}

	if refresh != "" && accessExpired(access) {
		tok, err := c.refreshGrant(ctx, refresh)
		if err != nil {
			if KindOf(err) == KindNetwork {
				return nil, err
			}
			return nil, newError(KindUnauthenticated, "session refresh rejected")
		}
		c.writeEnvelope(tok)
		access = tok.AccessToken
		c.refreshed = true
	}

	p, err := c.fetchUser(ctx, access)
	if err == nil {
		return p, nil
	}

	// The access token may have been revoked server-side before its
	// nominal expiry; one refresh attempt covers that.
	if KindOf(err) == KindUnauthenticated && refresh != "" && !c.refreshed {
		tok, rerr := c.refreshGrant(ctx, refresh)
		if rerr != nil {
			return nil, newError(KindUnauthenticated, "session refresh rejected")
		}
		c.writeEnvelope(tok)
		c.refreshed = true
		return c.fetchUser(ctx, tok.AccessToken)
	}

	return nil, err
}

// ExchangeCode trades the one-time authorization code from the identity
// provider redirect for a durable session and persists the envelope.
func (c *Client) ExchangeCode(ctx context.Context, code string) (*Principal, error) {
	tok, err := c.tokenGrant(ctx, map[string]string{
		"grant_type": "authorization_code",
		"code":       code,
	})
	if err != nil {
		return nil, err
	}
	c.writeEnvelope(tok)
	return tok.User, nil
}

// SignInWithPassword authenticates directly with email and password and
// persists the envelope. Used by the CLI and local development; the
// browser flow goes through the authorize redirect instead.
func (c *Client) SignInWithPassword(ctx context.Context, email, password string) (*Principal, error) {
	tok, err := c.tokenGrant(ctx, map[string]string{
		"grant_type": "password",
		"email":      email,
		"password":   password,
	})
	if err != nil {
		return nil, err
	}
	c.writeEnvelope(tok)
	return tok.User, nil
}

// SignOut revokes the session hub-side and clears the envelope. The
// envelope is cleared even when revocation fails; a lingering hub-side
// session expires on its own.
func (c *Client) SignOut(ctx context.Context) error {
	access, _ := c.envelope()
	var err error
	if access != "" {
		err = c.do(ctx, http.MethodPost, "/auth/v1/logout", access, nil, nil)
	}
	c.store.WriteAll(clearedCookies(c.cfg.SecureCookies))
	if err != nil && KindOf(err) != KindUnauthenticated {
		return err
	}
	return nil
}

func (c *Client) refreshGrant(ctx context.Context, refresh string) (*tokenResponse, error) {
	return c.tokenGrant(ctx, map[string]string{
		"grant_type":    "refresh_token",
		"refresh_token": refresh,
	})
}

func (c *Client) tokenGrant(ctx context.Context, body map[string]string) (*tokenResponse, error) {
	var tok tokenResponse
	if err := c.do(ctx, http.MethodPost, "/auth/v1/token", "", body, &tok); err != nil {
		return nil, err
	}
	if tok.AccessToken == "" || tok.RefreshToken == "" {
		return nil, newError(KindProtocol, "token response missing tokens")
	}
	return &tok, nil
}

func (c *Client) fetchUser(ctx context.Context, access string) (*Principal, error) {
	if access == "" {
		return nil, newError(KindUnauthenticated, "no access token")
	}
	var p Principal
	if err := c.do(ctx, http.MethodGet, "/auth/v1/user", access, nil, &p); err != nil {
		return nil, err
	}
	if p.ID == "" {
		return nil, newError(KindProtocol, "user response missing id")
	}
	return &p, nil
}

// envelope reads the current cookie pair from the store.
func (c *Client) envelope() (access, refresh string) {
	for _, cookie := range c.store.ReadAll() {
		switch cookie.Name {
		case AccessCookie:
			access = cookie.Value
		case RefreshCookie:
			refresh = cookie.Value
		}
	}
	return access, refresh
}

func (c *Client) writeEnvelope(tok *tokenResponse) {
	c.store.WriteAll(envelopeCookies(tok.AccessToken, tok.RefreshToken, tok.ExpiresIn, c.cfg.SecureCookies))
}

// accessExpired reports whether the access token is missing, malformed,
// or within the expiry margin. The token is not verified here; the hub
// is the authority, this only decides whether rotation is worth trying.
func accessExpired(access string) bool {
	if access == "" {
		return true
	}
	var claims jwt.RegisteredClaims
	if _, _, err := jwt.NewParser().ParseUnverified(access, &claims); err != nil {
		return true
	}
	if claims.ExpiresAt == nil {
		return false
	}
	return time.Now().Add(accessExpiryMargin).After(claims.ExpiresAt.Time)
}

// do performs one hub request. Every failure comes back as an *Error.
func (c *Client) do(ctx context.Context, method, path, access string, body, out any) error {
	var reader io.Reader
	if body != nil {
		payload, err := json.Marshal(body)
		if err != nil {
			return newError(KindProtocol, fmt.Sprintf("marshal request: %v", err))
		}
		reader = bytes.NewReader(payload)
	}

	req, err := http.NewRequestWithContext(ctx, method, c.cfg.BaseURL+path, reader)
	if err != nil {
		return newError(KindProtocol, fmt.Sprintf("build request: %v", err))
	}
	req.Header.Set("apikey", c.cfg.APIKey)
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	if access != "" {
		req.Header.Set("Authorization", "Bearer "+access)
	}

	resp, err := c.http.Do(req)
	if err != nil {
		return newError(KindNetwork, err.Error())
	}
	defer resp.Body.Close()

	if resp.StatusCode == http.StatusUnauthorized || resp.StatusCode == http.StatusForbidden {
		return newError(KindUnauthenticated, readErrorMessage(resp))
	}
	if resp.StatusCode >= 400 {
		return newError(KindBackend, readErrorMessage(resp))
	}

	if out != nil {
		if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
			return newError(KindProtocol, fmt.Sprintf("decode response: %v", err))
		}
	}
	return nil
}

// readErrorMessage extracts {"error": "..."} from an error response,
// falling back to the raw body.
func readErrorMessage(resp *http.Response) string {
	raw, _ := io.ReadAll(io.LimitReader(resp.Body, 4096))

	var wire struct {
		Error string `json:"error"`
	}
	if json.Unmarshal(raw, &wire) == nil && wire.Error != "" {
		return wire.Error
	}
	if len(raw) > 0 {
		return string(raw)
	}
	return resp.Status
}
