package handler

import (
	"errors"
	"net/http"

	"github.com/rivacortez/management-demo/internal/auth"
	"github.com/rivacortez/management-demo/pkg/logger"
	"github.com/rivacortez/management-demo/prometheus"

	"github.com/labstack/echo/v4"
	"go.uber.org/zap"
)

// SignInRequest is the body of POST /auth/sign-in
type SignInRequest struct {
	Email    string `json:"email" validate:"required,email"`
	Password string `json:"password" validate:"required"`
}

// AuthHandler signs users in
type AuthHandler struct {
	auth *auth.Service
}

// NewAuthHandler creates an auth handler
func NewAuthHandler(auth *auth.Service) *AuthHandler {
	return &AuthHandler{auth: auth}
}

// RegisterRoutes mounts the sign-in route
func (h *AuthHandler) RegisterRoutes(g *echo.Group) {
	g.POST("/sign-in", h.SignIn)
}

// SignIn exchanges email and password for a bearer token
func (h *AuthHandler) SignIn(c echo.Context) error {
	log := logger.FromContext(c)

	var req SignInRequest
	if ok, err := bindAndValidate(c, &req); !ok {
		return err
	}

	token, user, err := h.auth.SignIn(c.Request().Context(), req.Email, req.Password)
	if errors.Is(err, auth.ErrInvalidCredentials) {
		log.Warn("Sign-in rejected", zap.String("email", req.Email))
		prometheus.RecordAuthAttempt(false)
		return c.JSON(http.StatusUnauthorized, echo.Map{"error": "invalid credentials"})
	}
	if err != nil {
		log.Error("Sign-in failed", zap.String("email", req.Email), zap.Error(err))
		prometheus.RecordAuthAttempt(false)
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "token error"})
	}

	prometheus.RecordAuthAttempt(true)
	log.Info("User signed in", zap.Uint("user_id", user.ID), zap.String("email", user.Email))
	return c.JSON(http.StatusOK, echo.Map{
		"token": token,
		"user":  user,
	})
}
