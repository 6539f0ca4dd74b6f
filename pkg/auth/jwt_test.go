package auth

import (
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func testConfig() Config {
	return Config{
		Secret:        "access-secret",
		RefreshSecret: "refresh-secret",
		Expiry:        time.Hour,
		RefreshExpiry: 24 * time.Hour,
	}
}

func TestGenerateAndValidateAccessToken(t *testing.T) {
	svc := NewJWTService(testConfig())
	userID := uuid.New()

	token, err := svc.GenerateAccessToken(userID, "ama@example.com", "patient")
	require.NoError(t, err)
	require.NotEmpty(t, token)

	claims, err := svc.ValidateToken(token)
	require.NoError(t, err)
	assert.Equal(t, userID, claims.UserID)
	assert.Equal(t, "ama@example.com", claims.Email)
	assert.Equal(t, "patient", claims.UserType)
}

func TestValidateTokenRejectsGarbage(t *testing.T) {
	svc := NewJWTService(testConfig())

	_, err := svc.ValidateToken("not-a-token")
	assert.Error(t, err)
}

func TestAccessTokenRejectedAsRefreshToken(t *testing.T) {
	svc := NewJWTService(testConfig())

	token, err := svc.GenerateAccessToken(uuid.New(), "ama@example.com", "patient")
	require.NoError(t, err)

	// Signed with a different secret, so it must not validate as refresh.
	_, err = svc.ValidateRefreshToken(token)
	assert.Error(t, err)
}

func TestExpiredTokenRejected(t *testing.T) {
	cfg := testConfig()
	cfg.Expiry = -time.Minute
	svc := NewJWTService(cfg)

	token, err := svc.GenerateAccessToken(uuid.New(), "ama@example.com", "patient")
	require.NoError(t, err)

	_, err = svc.ValidateToken(token)
	assert.Error(t, err)
}
