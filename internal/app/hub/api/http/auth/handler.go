package auth

import (
	"context"
	"errors"
	"log/slog"

	"github.com/danielgtaylor/huma/v2"

	authMW "markd/internal/app/hub/api/http/middleware/auth"
	"markd/internal/app/hub/token"
	"markd/internal/domain/session"
	"markd/internal/domain/user"
)

type Handler struct {
	users    user.Servicer
	sessions session.Servicer
	minter   *token.Minter
	log      *slog.Logger

	public    huma.Middlewares
	protected huma.Middlewares
}

func NewHandler(users user.Servicer, sessions session.Servicer, minter *token.Minter,
	log *slog.Logger, public, protected huma.Middlewares) *Handler {
	return &Handler{
		users:     users,
		sessions:  sessions,
		minter:    minter,
		log:       log.With(slog.String("component", "auth_handler")),
		public:    public,
		protected: protected,
	}
}

func (h *Handler) SetupRoutes(api huma.API) {
	huma.Register(api, h.tokenOp(), h.token)
	huma.Register(api, h.userOp(), h.user)
	huma.Register(api, h.logoutOp(), h.logout)
}

func (h *Handler) token(ctx context.Context, input *tokenInput) (*tokenOutput, error) {
	switch input.Body.GrantType {
	case "authorization_code":
		return h.codeGrant(ctx, input.Body)
	case "refresh_token":
		return h.refreshGrant(ctx, input.Body)
	case "password":
		return h.passwordGrant(ctx, input.Body)
	default:
		return nil, huma.Error400BadRequest("unsupported grant_type")
	}
}

func (h *Handler) codeGrant(ctx context.Context, req tokenRequest) (*tokenOutput, error) {
	if req.Code == "" {
		return nil, huma.Error400BadRequest("code is required")
	}

	userID, err := h.sessions.ConsumeCode(ctx, req.Code)
	if err != nil {
		return nil, huma.Error401Unauthorized("invalid or expired code")
	}

	return h.issueSession(ctx, userID)
}

func (h *Handler) refreshGrant(ctx context.Context, req tokenRequest) (*tokenOutput, error) {
	if req.RefreshToken == "" {
		return nil, huma.Error400BadRequest("refresh_token is required")
	}

	userID, newToken, err := h.sessions.Rotate(ctx, req.RefreshToken)
	if err != nil {
		return nil, huma.Error401Unauthorized("invalid or expired refresh token")
	}

	u, err := h.users.Get(ctx, userID)
	if err != nil {
		return nil, huma.Error500InternalServerError("could not load user")
	}

	return h.respond(u, newToken)
}

func (h *Handler) passwordGrant(ctx context.Context, req tokenRequest) (*tokenOutput, error) {
	if req.Email == "" || req.Password == "" {
		return nil, huma.Error400BadRequest("email and password are required")
	}

	u, err := h.users.Authenticate(ctx, req.Email, req.Password)
	if err != nil {
		if errors.Is(err, user.ErrInvalidAuth) {
			return nil, huma.Error401Unauthorized("invalid credentials")
		}
		return nil, huma.Error500InternalServerError("authentication failed")
	}

	refresh, err := h.sessions.Issue(ctx, u.ID)
	if err != nil {
		return nil, huma.Error500InternalServerError("could not create session")
	}

	return h.respond(u, refresh)
}

// issueSession builds a full token pair for an already verified user id.
func (h *Handler) issueSession(ctx context.Context, userID string) (*tokenOutput, error) {
	u, err := h.users.Get(ctx, userID)
	if err != nil {
		return nil, huma.Error500InternalServerError("could not load user")
	}

	refresh, err := h.sessions.Issue(ctx, u.ID)
	if err != nil {
		return nil, huma.Error500InternalServerError("could not create session")
	}

	return h.respond(u, refresh)
}

func (h *Handler) respond(u user.User, refresh string) (*tokenOutput, error) {
	access, err := h.minter.Mint(u)
	if err != nil {
		return nil, huma.Error500InternalServerError("could not mint token")
	}

	return &tokenOutput{
		Body: tokenResponse{
			AccessToken:  access,
			RefreshToken: refresh,
			TokenType:    "bearer",
			ExpiresIn:    int64(token.AccessTokenTTL.Seconds()),
			User:         toUserResponse(u),
		},
	}, nil
}

func (h *Handler) user(ctx context.Context, _ *struct{}) (*userOutput, error) {
	userID, ok := authMW.GetUserID(ctx)
	if !ok {
		return nil, huma.Error401Unauthorized("Unauthorized")
	}

	u, err := h.users.Get(ctx, userID)
	if err != nil {
		// The token outlived the account.
		return nil, huma.Error401Unauthorized("Unauthorized")
	}

	return &userOutput{Body: toUserResponse(u)}, nil
}

func (h *Handler) logout(ctx context.Context, _ *struct{}) (*logoutOutput, error) {
	userID, ok := authMW.GetUserID(ctx)
	if !ok {
		return nil, huma.Error401Unauthorized("Unauthorized")
	}

	if err := h.sessions.RevokeAll(ctx, userID); err != nil {
		return nil, huma.Error500InternalServerError("could not revoke sessions")
	}
	return &logoutOutput{}, nil
}

func toUserResponse(u user.User) userResponse {
	return userResponse{
		ID:    u.ID,
		Email: u.Email,
		Metadata: userMetadata{
			FullName:  u.FullName,
			AvatarURL: u.AvatarURL,
		},
	}
}
