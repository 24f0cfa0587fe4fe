package handler

import (
	"context"
	"net/http"
	"testing"

	"github.com/rivacortez/management-demo/internal/auth"
	"github.com/rivacortez/management-demo/internal/repository"
	"github.com/rivacortez/management-demo/pkg/config"
	"github.com/rivacortez/management-demo/pkg/jwtutil"

	"github.com/labstack/echo/v4"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSignIn(t *testing.T) {
	s := newTestServer(t)
	jwt := jwtutil.NewJWTUtil(&config.JWTConfig{SigningKey: "test-key", ExpirationHours: 1})
	svc := auth.NewService(repository.NewUserRepository(s.db), jwt)
	_, err := svc.SeedAdmin(context.Background(), "admin@example.com", "s3cret")
	require.NoError(t, err)
	NewAuthHandler(svc).RegisterRoutes(s.e.Group("/auth"))

	rec := s.do(http.MethodPost, "/auth/sign-in", echo.Map{"email": "admin@example.com", "password": "s3cret"})
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())
	var body struct {
		Token string `json:"token"`
	}
	decode(t, rec, &body)
	claims, err := jwt.ValidateToken(body.Token)
	require.NoError(t, err)
	assert.Equal(t, "admin@example.com", claims.Email)
	assert.Equal(t, auth.RoleAdmin, claims.Role)

	rec = s.do(http.MethodPost, "/auth/sign-in", echo.Map{"email": "admin@example.com", "password": "wrong"})
	assert.Equal(t, http.StatusUnauthorized, rec.Code)
	assert.Equal(t, "invalid credentials", errorMessage(t, rec))

	rec = s.do(http.MethodPost, "/auth/sign-in", echo.Map{"email": "admin"})
	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestHealthCheck(t *testing.T) {
	s := newTestServer(t)
	s.e.GET("/health", NewHealthHandler("management-service", s.db).HealthCheck)

	rec := s.do(http.MethodGet, "/health", nil)
	require.Equal(t, http.StatusOK, rec.Code)
	var body map[string]string
	decode(t, rec, &body)
	assert.Equal(t, "healthy", body["status"])
	assert.Equal(t, "up", body["database"])
}
