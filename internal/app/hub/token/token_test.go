package token

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"markd/internal/domain/user"
)

func TestMintAndVerify(t *testing.T) {
	minter := NewMinter("secret-1")

	u := user.User{ID: "u-1", Email: "a@b.c", FullName: "Ada", AvatarURL: "https://cdn/a.png"}
	signed, err := minter.Mint(u)
	require.NoError(t, err)

	claims, err := minter.Verify(signed)
	require.NoError(t, err)
	assert.Equal(t, "u-1", claims.Subject)
	assert.Equal(t, "a@b.c", claims.Email)
	assert.Equal(t, "Ada", claims.Metadata.FullName)
}

func TestVerify_Rejections(t *testing.T) {
	minter := NewMinter("secret-1")
	signed, err := minter.Mint(user.User{ID: "u-1", Email: "a@b.c"})
	require.NoError(t, err)

	tests := []struct {
		name  string
		token string
	}{
		{name: "garbage", token: "not-a-token"},
		{name: "empty", token: ""},
		{name: "wrong secret", token: signed + "x"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := minter.Verify(tt.token)
			assert.ErrorIs(t, err, ErrInvalidToken)
		})
	}
}

func TestVerify_OtherMinterSecret(t *testing.T) {
	signed, err := NewMinter("secret-1").Mint(user.User{ID: "u-1"})
	require.NoError(t, err)

	_, err = NewMinter("secret-2").Verify(signed)
	assert.ErrorIs(t, err, ErrInvalidToken)
}
