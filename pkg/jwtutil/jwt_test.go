package jwtutil

import (
	"testing"
	"time"

	"github.com/rivacortez/management-demo/pkg/config"

	"github.com/golang-jwt/jwt/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestGenerateAndValidate(t *testing.T) {
	util := NewJWTUtil(&config.JWTConfig{SigningKey: "test-key", ExpirationHours: 1})

	token, err := util.GenerateToken("admin@example.com", 7, "admin")
	require.NoError(t, err)

	claims, err := util.ValidateToken(token)
	require.NoError(t, err)
	assert.Equal(t, "admin@example.com", claims.Email)
	assert.Equal(t, uint(7), claims.UserID)
	assert.Equal(t, "admin", claims.Role)
}

func TestValidateRejectsOtherKey(t *testing.T) {
	signer := NewJWTUtil(&config.JWTConfig{SigningKey: "one", ExpirationHours: 1})
	verifier := NewJWTUtil(&config.JWTConfig{SigningKey: "two", ExpirationHours: 1})

	token, err := signer.GenerateToken("a@example.com", 1, "")
	require.NoError(t, err)

	_, err = verifier.ValidateToken(token)
	assert.Error(t, err)
}

func TestValidateRejectsExpiredToken(t *testing.T) {
	util := NewJWTUtil(&config.JWTConfig{SigningKey: "test-key", ExpirationHours: 1})
	issued := time.Date(2024, 1, 1, 12, 0, 0, 0, time.UTC)
	util.now = func() time.Time { return issued }

	token, err := util.GenerateToken("a@example.com", 1, "")
	require.NoError(t, err)

	util.now = func() time.Time { return issued.Add(2 * time.Hour) }
	_, err = util.ValidateToken(token)
	assert.ErrorIs(t, err, jwt.ErrTokenExpired)
}

func TestMissingConfig(t *testing.T) {
	util := NewJWTUtil(nil)

	_, err := util.GenerateToken("a@example.com", 1, "")
	assert.Error(t, err)
	_, err = util.ValidateToken("x.y.z")
	assert.Error(t, err)
}
