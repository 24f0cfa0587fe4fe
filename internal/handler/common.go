package handler

import (
	"errors"
	"fmt"
	"net/http"
	"strconv"

	"github.com/rivacortez/management-demo/internal/purchasing"
	"github.com/rivacortez/management-demo/internal/repository"
	"github.com/rivacortez/management-demo/pkg/logger"

	"github.com/labstack/echo/v4"
	"go.uber.org/zap"
)

const maxPageLimit = 100

// ListResponse wraps one page of a listing
type ListResponse struct {
	Data  interface{} `json:"data"`
	Total int64       `json:"total"`
	Page  int         `json:"page"`
	Limit int         `json:"limit"`
}

// parseID reads a positive numeric path parameter
func parseID(c echo.Context, name string) (uint, error) {
	id, err := strconv.ParseUint(c.Param(name), 10, 32)
	if err != nil || id == 0 {
		return 0, fmt.Errorf("invalid %s", name)
	}
	return uint(id), nil
}

// pageFromQuery reads the 1-based page and limit query parameters
func pageFromQuery(c echo.Context) (repository.Page, int, int) {
	page, err := strconv.Atoi(c.QueryParam("page"))
	if err != nil || page < 1 {
		page = 1
	}
	limit, err := strconv.Atoi(c.QueryParam("limit"))
	if err != nil || limit < 1 {
		limit = 20
	}
	if limit > maxPageLimit {
		limit = maxPageLimit
	}
	return repository.Page{Limit: limit, Offset: (page - 1) * limit}, page, limit
}

// bindAndValidate binds the request body and runs the echo validator.
// When it reports false the 400 response has already been written.
func bindAndValidate(c echo.Context, req interface{}) (bool, error) {
	if err := c.Bind(req); err != nil {
		logger.FromContext(c).Warn("Invalid request data", zap.Error(err))
		return false, c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid request data"})
	}
	if err := c.Validate(req); err != nil {
		logger.FromContext(c).Warn("Request validation failed", zap.Error(err))
		msg := err.Error()
		var he *echo.HTTPError
		if errors.As(err, &he) {
			msg = fmt.Sprint(he.Message)
		}
		return false, c.JSON(http.StatusBadRequest, echo.Map{"error": msg})
	}
	return true, nil
}

func badRequest(c echo.Context, msg string) error {
	logger.FromContext(c).Warn("Bad request", zap.String("reason", msg))
	return c.JSON(http.StatusBadRequest, echo.Map{"error": msg})
}

// respondError maps domain errors to status codes. entity names what the request was about.
func respondError(c echo.Context, err error, entity string) error {
	log := logger.FromContext(c)

	switch {
	case errors.Is(err, repository.ErrNotFound), errors.Is(err, purchasing.ErrItemNotFound):
		log.Warn("Not found", zap.String("entity", entity), zap.Error(err))
		return c.JSON(http.StatusNotFound, echo.Map{"error": entity + " not found"})
	case errors.Is(err, repository.ErrConflict):
		log.Warn("Conflict", zap.String("entity", entity), zap.Error(err))
		return c.JSON(http.StatusConflict, echo.Map{"error": entity + " already exists"})
	case errors.Is(err, purchasing.ErrInvalidQuantity):
		log.Warn("Invalid quantity", zap.Error(err))
		return c.JSON(http.StatusBadRequest, echo.Map{"error": err.Error()})
	case errors.Is(err, purchasing.ErrOrderNotEditable),
		errors.Is(err, purchasing.ErrInvalidTransition),
		errors.Is(err, purchasing.ErrProductNotOffered):
		log.Warn("Rejected by order rules", zap.Error(err))
		return c.JSON(http.StatusUnprocessableEntity, echo.Map{"error": err.Error()})
	default:
		log.Error("Request failed", zap.String("entity", entity), zap.Error(err))
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "failed to process " + entity})
	}
}
