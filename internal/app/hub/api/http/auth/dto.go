package auth

type tokenInput struct {
	Body tokenRequest
}

// tokenRequest covers all three grants. Fields stay optional at the
// schema level; the handler checks the ones its grant needs and answers
// 400 with the shared error shape.
type tokenRequest struct {
	GrantType    string `json:"grant_type,omitempty" doc:"authorization_code, refresh_token or password"`
	Code         string `json:"code,omitempty"`
	RefreshToken string `json:"refresh_token,omitempty"`
	Email        string `json:"email,omitempty"`
	Password     string `json:"password,omitempty"`
}

type tokenOutput struct {
	Body tokenResponse
}

type tokenResponse struct {
	AccessToken  string       `json:"access_token"`
	RefreshToken string       `json:"refresh_token"`
	TokenType    string       `json:"token_type"`
	ExpiresIn    int64        `json:"expires_in"`
	User         userResponse `json:"user"`
}

type userOutput struct {
	Body userResponse
}

type userResponse struct {
	ID       string       `json:"id"`
	Email    string       `json:"email"`
	Metadata userMetadata `json:"user_metadata"`
}

type userMetadata struct {
	FullName  string `json:"full_name"`
	AvatarURL string `json:"avatar_url"`
}

type logoutOutput struct{}
