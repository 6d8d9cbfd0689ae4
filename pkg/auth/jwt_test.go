package auth

import (
	"testing"

	"github.com/antisocialnet/antisocialnet/internal/config"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func init() {
	config.Set(&config.Config{
		JWT: config.JWTConfig{
			SecretKey:            "test-secret",
			AccessExpireSeconds:  3600,
			RefreshExpireSeconds: 7200,
			ResetExpireSeconds:   3600,
			Issuer:               "test",
		},
	})
}

func TestTokenPairRoundtrip(t *testing.T) {
	pair, err := GenerateTokenPair(42, true)
	require.NoError(t, err)
	require.NotEmpty(t, pair.AccessToken)
	require.NotEmpty(t, pair.RefreshToken)

	claims, err := ParseToken(pair.AccessToken)
	require.NoError(t, err)
	assert.EqualValues(t, 42, claims.UserID)
	assert.True(t, claims.IsAdmin)
	assert.Equal(t, AccessToken, claims.Type)

	refresh, err := ParseToken(pair.RefreshToken)
	require.NoError(t, err)
	assert.Equal(t, RefreshToken, refresh.Type)
}

func TestParseTokenRejectsGarbage(t *testing.T) {
	_, err := ParseToken("not.a.token")
	assert.Error(t, err)
}

func TestResetTokenOnlyForReset(t *testing.T) {
	token, err := GenerateResetToken(7)
	require.NoError(t, err)

	userID, err := ParseResetToken(token)
	require.NoError(t, err)
	assert.EqualValues(t, 7, userID)

	// 访问令牌不能当重置令牌用
	pair, err := GenerateTokenPair(7, false)
	require.NoError(t, err)
	_, err = ParseResetToken(pair.AccessToken)
	assert.ErrorIs(t, err, ErrWrongTokenType)
}

func TestTokenWrongKeyRejected(t *testing.T) {
	pair, err := GenerateTokenPair(1, false)
	require.NoError(t, err)

	old := config.GetConfig()
	config.Set(&config.Config{JWT: config.JWTConfig{
		SecretKey: "another-secret", AccessExpireSeconds: 3600,
		RefreshExpireSeconds: 7200, ResetExpireSeconds: 3600, Issuer: "test",
	}})
	defer config.Set(old)

	_, err = ParseToken(pair.AccessToken)
	assert.Error(t, err)
}
