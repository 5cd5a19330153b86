package auth

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var secretKey = []byte("test-secret")

func TestGenerateToken_RoundTrip(t *testing.T) {
	token, err := GenerateToken("device-1", secretKey, time.Hour)
	require.NoError(t, err)
	require.NotEmpty(t, token)

	userID, err := GetUserIDFromToken(token, secretKey)
	require.NoError(t, err)
	assert.Equal(t, "device-1", userID)
}

func TestGetUserIDFromToken_WrongSecret(t *testing.T) {
	token, err := GenerateToken("device-1", secretKey, time.Hour)
	require.NoError(t, err)

	_, err = GetUserIDFromToken(token, []byte("other-secret"))
	assert.Error(t, err)
}

func TestGetUserIDFromToken_Expired(t *testing.T) {
	token, err := GenerateToken("device-1", secretKey, -time.Minute)
	require.NoError(t, err)

	_, err = GetUserIDFromToken(token, secretKey)
	assert.Error(t, err)
}

func TestGetUserIDFromToken_Garbage(t *testing.T) {
	_, err := GetUserIDFromToken("not-a-token", secretKey)
	assert.Error(t, err)
}
