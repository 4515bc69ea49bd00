package jwt

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const testSecret = "test-secret"

func TestAccessTokenRoundTrip(t *testing.T) {
	token, err := GenerateAccessToken(42, "Ada", "ada@example.com", true, testSecret, 5)
	require.NoError(t, err)

	claims, err := ValidateAccessToken(token, testSecret)
	require.NoError(t, err)

	assert.Equal(t, uint(42), claims.UserID)
	assert.Equal(t, "Ada", claims.Name)
	assert.Equal(t, "ada@example.com", claims.Email)
	assert.True(t, claims.Verified)
	assert.Equal(t, "simple-invoice", claims.Issuer)
}

func TestValidateAccessTokenWrongSecret(t *testing.T) {
	token, err := GenerateAccessToken(1, "Ada", "ada@example.com", true, testSecret, 5)
	require.NoError(t, err)

	_, err = ValidateAccessToken(token, "other-secret")
	assert.ErrorIs(t, err, ErrTokenInvalid)
}

func TestValidateAccessTokenExpired(t *testing.T) {
	token, err := GenerateAccessToken(1, "Ada", "ada@example.com", true, testSecret, -1)
	require.NoError(t, err)

	_, err = ValidateAccessToken(token, testSecret)
	assert.ErrorIs(t, err, ErrTokenExpired)
}

func TestParseAccessTokenAllowExpired(t *testing.T) {
	// Expired tokens still parse as long as the signature holds
	token, err := GenerateAccessToken(7, "Ada", "ada@example.com", true, testSecret, -1)
	require.NoError(t, err)

	claims, err := ParseAccessTokenAllowExpired(token, testSecret)
	require.NoError(t, err)
	assert.Equal(t, uint(7), claims.UserID)

	// A bad signature is still rejected
	_, err = ParseAccessTokenAllowExpired(token, "other-secret")
	assert.ErrorIs(t, err, ErrTokenInvalid)
}

func TestRefreshTokenRoundTrip(t *testing.T) {
	token, err := GenerateRefreshToken(42, "token-id-1", testSecret, 7)
	require.NoError(t, err)

	claims, err := ValidateRefreshToken(token, testSecret)
	require.NoError(t, err)

	assert.Equal(t, uint(42), claims.UserID)
	assert.Equal(t, "token-id-1", claims.TokenID)
}

func TestValidateRefreshTokenExpired(t *testing.T) {
	token, err := GenerateRefreshToken(1, "token-id-1", testSecret, -1)
	require.NoError(t, err)

	_, err = ValidateRefreshToken(token, testSecret)
	assert.ErrorIs(t, err, ErrTokenExpired)
}

func TestTokensUseDistinctSecrets(t *testing.T) {
	refresh, err := GenerateRefreshToken(1, "token-id-1", "refresh-secret", 7)
	require.NoError(t, err)

	// A refresh token never validates as an access token
	_, err = ValidateAccessToken(refresh, testSecret)
	assert.Error(t, err)
}

func TestGarbageToken(t *testing.T) {
	_, err := ValidateAccessToken("not-a-jwt", testSecret)
	assert.ErrorIs(t, err, ErrTokenInvalid)

	_, err = ValidateRefreshToken("not-a-jwt", testSecret)
	assert.ErrorIs(t, err, ErrTokenInvalid)

	_, err = ParseAccessTokenAllowExpired("not-a-jwt", testSecret)
	assert.ErrorIs(t, err, ErrTokenInvalid)
}
