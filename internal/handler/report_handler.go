package handler

import (
	"bytes"
	"fmt"
	"net/http"
	"time"

	"github.com/rivacortez/management-demo/internal/report"
	"github.com/rivacortez/management-demo/pkg/logger"

	"github.com/labstack/echo/v4"
	"go.uber.org/zap"
)

const xlsxMIME = "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet"

// ReportHandler serves spreadsheet exports
type ReportHandler struct {
	reports *report.Generator
	now     func() time.Time
}

// NewReportHandler creates a report handler
func NewReportHandler(reports *report.Generator) *ReportHandler {
	return &ReportHandler{reports: reports, now: time.Now}
}

// RegisterRoutes mounts the report routes
func (h *ReportHandler) RegisterRoutes(g *echo.Group) {
	g.GET("/product-suppliers.xlsx", h.ProductSuppliers)
}

// ProductSuppliers downloads every supplier offer with its score as a workbook
func (h *ReportHandler) ProductSuppliers(c echo.Context) error {
	log := logger.FromContext(c)

	var buf bytes.Buffer
	if err := h.reports.Write(c.Request().Context(), &buf); err != nil {
		log.Error("Failed to build product supplier report", zap.Error(err))
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "failed to build report"})
	}

	filename := fmt.Sprintf("product-suppliers-%s.xlsx", h.now().Format(dateLayout))
	c.Response().Header().Set(echo.HeaderContentDisposition, fmt.Sprintf("attachment; filename=%q", filename))
	log.Info("Product supplier report generated", zap.Int("bytes", buf.Len()))
	return c.Blob(http.StatusOK, xlsxMIME, buf.Bytes())
}
