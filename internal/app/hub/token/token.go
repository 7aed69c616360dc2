// Package token mints and verifies the hub's access tokens. Tokens are
// HS256 JWTs carrying the user's id as subject plus the profile fields
// the edge shows without a second lookup.
package token

import (
	"errors"
	"time"

	"github.com/golang-jwt/jwt/v5"

	"markd/internal/domain/user"
)

const AccessTokenTTL = time.Hour

var ErrInvalidToken = errors.New("invalid access token")

type Metadata struct {
	FullName  string `json:"full_name"`
	AvatarURL string `json:"avatar_url"`
}

type Claims struct {
	jwt.RegisteredClaims
	Email    string   `json:"email"`
	Metadata Metadata `json:"user_metadata"`
}

type Minter struct {
	secret []byte
}

func NewMinter(secret string) *Minter {
	return &Minter{secret: []byte(secret)}
}

// Mint signs an access token for the user.
func (m *Minter) Mint(u user.User) (string, error) {
	now := time.Now()
	claims := Claims{
		RegisteredClaims: jwt.RegisteredClaims{
			Subject:   u.ID,
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(now.Add(AccessTokenTTL)),
		},
		Email: u.Email,
		Metadata: Metadata{
			FullName:  u.FullName,
			AvatarURL: u.AvatarURL,
		},
	}
	return jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString(m.secret)
}

// Verify checks the signature and expiry and returns the claims.
func (m *Minter) Verify(tokenString string) (*Claims, error) {
	var claims Claims
	tok, err := jwt.ParseWithClaims(tokenString, &claims, func(t *jwt.Token) (any, error) {
		if _, ok := t.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, ErrInvalidToken
		}
		return m.secret, nil
	})
	if err != nil || !tok.Valid || claims.Subject == "" {
		return nil, ErrInvalidToken
	}
	return &claims, nil
}
