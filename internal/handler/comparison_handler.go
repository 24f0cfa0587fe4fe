package handler

import (
	"net/http"

	"github.com/rivacortez/management-demo/internal/comparison"
	"github.com/rivacortez/management-demo/pkg/logger"

	"github.com/labstack/echo/v4"
	"go.uber.org/zap"
)

// ComparisonHandler serves the supplier comparison of a product
type ComparisonHandler struct {
	comparisons *comparison.Service
}

// NewComparisonHandler creates a comparison handler
func NewComparisonHandler(comparisons *comparison.Service) *ComparisonHandler {
	return &ComparisonHandler{comparisons: comparisons}
}

// RegisterRoutes mounts the comparison routes
func (h *ComparisonHandler) RegisterRoutes(g *echo.Group) {
	g.GET("/products/:id", h.CompareProduct)
}

// CompareProduct ranks the suppliers of a product.
// sort is cost_price, lead_time_days or recommendation_score; order is asc or desc.
func (h *ComparisonHandler) CompareProduct(c echo.Context) error {
	id, err := parseID(c, "id")
	if err != nil {
		return badRequest(c, err.Error())
	}
	field, err := comparison.ParseSortField(c.QueryParam("sort"))
	if err != nil {
		return badRequest(c, err.Error())
	}
	dir, err := comparison.ParseDirection(c.QueryParam("order"), field)
	if err != nil {
		return badRequest(c, err.Error())
	}

	result, err := h.comparisons.Compare(c.Request().Context(), id, field, dir)
	if err != nil {
		return respondError(c, err, "product")
	}

	fields := []zap.Field{zap.Uint("product_id", id), zap.Int("offers", len(result.Offers))}
	if result.Recommended != nil {
		fields = append(fields,
			zap.Uint("recommended_supplier_id", result.Recommended.SupplierID),
			zap.Float64("score", result.Recommended.RecommendationScore))
	}
	logger.FromContext(c).Debug("Suppliers compared", fields...)
	return c.JSON(http.StatusOK, result)
}
