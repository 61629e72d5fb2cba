package services

import (
	"testing"
	"time"

	"golang.org/x/crypto/bcrypt"

	"github.com/iwen-conf/DormDB/internal/config"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func authConfig() *config.Config {
	return &config.Config{
		AdminPassword: "hunter2",
		JWTSecret:     "test-secret",
		JWTExpiration: time.Hour,
	}
}

func TestLoginPlaintext(t *testing.T) {
	svc := NewAuthService(authConfig())

	token, err := svc.Login("hunter2")
	require.NoError(t, err)
	assert.NotEmpty(t, token)

	_, err = svc.Login("wrong")
	assert.ErrorIs(t, err, ErrBadCredentials)
}

func TestLoginBcryptTakesPrecedence(t *testing.T) {
	hash, err := bcrypt.GenerateFromPassword([]byte("s3cure"), bcrypt.MinCost)
	require.NoError(t, err)

	cfg := authConfig()
	cfg.AdminPasswordHash = string(hash)
	svc := NewAuthService(cfg)

	_, err = svc.Login("s3cure")
	assert.NoError(t, err)

	// The plaintext fallback is ignored once a hash is set.
	_, err = svc.Login("hunter2")
	assert.ErrorIs(t, err, ErrBadCredentials)
}

func TestLoginDisabledWithoutPassword(t *testing.T) {
	cfg := authConfig()
	cfg.AdminPassword = ""
	svc := NewAuthService(cfg)

	_, err := svc.Login("anything")
	assert.ErrorIs(t, err, ErrLoginDisabled)
}

func TestValidateToken(t *testing.T) {
	svc := NewAuthService(authConfig())

	token, err := svc.Login("hunter2")
	require.NoError(t, err)

	claims, err := svc.ValidateToken(token)
	require.NoError(t, err)
	assert.Equal(t, "admin", claims.Role)
	assert.NotEmpty(t, claims.SessionID)
}

func TestValidateTokenRejectsWrongSecret(t *testing.T) {
	svc := NewAuthService(authConfig())
	token, err := svc.Login("hunter2")
	require.NoError(t, err)

	other := authConfig()
	other.JWTSecret = "different"
	_, err = NewAuthService(other).ValidateToken(token)
	assert.Error(t, err)
}

func TestValidateTokenRejectsGarbage(t *testing.T) {
	svc := NewAuthService(authConfig())

	_, err := svc.ValidateToken("not-a-token")
	assert.Error(t, err)
}
