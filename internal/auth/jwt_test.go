package auth

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestTokenRoundTrip(t *testing.T) {
	secret := []byte("test-secret")

	token, err := GenerateToken(secret, 42, time.Hour)
	require.NoError(t, err)
	require.NotEmpty(t, token)

	userID, err := ValidateToken(secret, token)
	require.NoError(t, err)
	assert.Equal(t, int64(42), userID)
}

func TestValidateTokenWrongSecret(t *testing.T) {
	token, err := GenerateToken([]byte("secret-a"), 42, time.Hour)
	require.NoError(t, err)

	_, err = ValidateToken([]byte("secret-b"), token)
	assert.Error(t, err)
}

func TestValidateTokenExpired(t *testing.T) {
	secret := []byte("test-secret")

	token, err := GenerateToken(secret, 42, -time.Minute)
	require.NoError(t, err)

	_, err = ValidateToken(secret, token)
	assert.Error(t, err)
}

func TestValidateTokenGarbage(t *testing.T) {
	_, err := ValidateToken([]byte("test-secret"), "not.a.token")
	assert.Error(t, err)
}
