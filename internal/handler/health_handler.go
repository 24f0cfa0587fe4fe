package handler

import (
	"net/http"

	"github.com/rivacortez/management-demo/pkg/logger"

	"github.com/labstack/echo/v4"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

// HealthHandler reports service liveness and database reachability
type HealthHandler struct {
	service string
	db      *gorm.DB
}

// NewHealthHandler creates a health handler
func NewHealthHandler(service string, db *gorm.DB) *HealthHandler {
	return &HealthHandler{service: service, db: db}
}

// HealthCheck handles the health check endpoint
func (h *HealthHandler) HealthCheck(c echo.Context) error {
	status := http.StatusOK
	body := echo.Map{
		"status":   "healthy",
		"service":  h.service,
		"database": "up",
	}

	sqlDB, err := h.db.DB()
	if err == nil {
		err = sqlDB.PingContext(c.Request().Context())
	}
	if err != nil {
		logger.FromContext(c).Error("Database ping failed", zap.Error(err))
		status = http.StatusServiceUnavailable
		body["status"] = "unhealthy"
		body["database"] = "down"
	}

	return c.JSON(status, body)
}
