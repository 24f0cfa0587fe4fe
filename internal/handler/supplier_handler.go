package handler

import (
	"net/http"

	"github.com/rivacortez/management-demo/internal/model"
	"github.com/rivacortez/management-demo/internal/repository"
	"github.com/rivacortez/management-demo/pkg/logger"
	"github.com/rivacortez/management-demo/prometheus"

	"github.com/labstack/echo/v4"
	"go.uber.org/zap"
)

// SupplierRequest defines the structure for supplier creation/update requests
type SupplierRequest struct {
	SupplierName string `json:"supplier_name" validate:"required,max=150"`
	ContactName  string `json:"contact_name" validate:"max=100"`
	ContactEmail string `json:"contact_email" validate:"omitempty,email,max=100"`
	ContactPhone string `json:"contact_phone" validate:"max=30"`
	Address      string `json:"address"`
	PaymentTerms string `json:"payment_terms" validate:"max=100"`
	Notes        string `json:"notes"`
}

func (r SupplierRequest) apply(s *model.Supplier) {
	s.SupplierName = r.SupplierName
	s.ContactName = r.ContactName
	s.ContactEmail = r.ContactEmail
	s.ContactPhone = r.ContactPhone
	s.Address = r.Address
	s.PaymentTerms = r.PaymentTerms
	s.Notes = r.Notes
}

// SupplierHandler serves suppliers
type SupplierHandler struct {
	suppliers *repository.SupplierRepository
}

// NewSupplierHandler creates a supplier handler
func NewSupplierHandler(suppliers *repository.SupplierRepository) *SupplierHandler {
	return &SupplierHandler{suppliers: suppliers}
}

// RegisterRoutes mounts the supplier routes
func (h *SupplierHandler) RegisterRoutes(g *echo.Group) {
	g.GET("", h.ListSuppliers)
	g.POST("", h.CreateSupplier)
	g.GET("/:id", h.GetSupplier)
	g.PUT("/:id", h.UpdateSupplier)
	g.DELETE("/:id", h.DeleteSupplier)
	g.GET("/:id/products", h.ListSuppliedProducts)
}

// ListSuppliers lists suppliers with search (q), address and payment_terms filters
func (h *SupplierHandler) ListSuppliers(c echo.Context) error {
	page, pageNum, limit := pageFromQuery(c)

	suppliers, total, err := h.suppliers.List(c.Request().Context(), repository.SupplierFilter{
		Query:        c.QueryParam("q"),
		Address:      c.QueryParam("address"),
		PaymentTerms: c.QueryParam("payment_terms"),
		Page:         page,
	})
	if err != nil {
		return respondError(c, err, "supplier")
	}
	prometheus.RecordCatalogOperation("supplier", "list")
	return c.JSON(http.StatusOK, ListResponse{Data: suppliers, Total: total, Page: pageNum, Limit: limit})
}

// GetSupplier returns one supplier
func (h *SupplierHandler) GetSupplier(c echo.Context) error {
	id, err := parseID(c, "id")
	if err != nil {
		return badRequest(c, err.Error())
	}

	supplier, err := h.suppliers.Get(c.Request().Context(), id)
	if err != nil {
		return respondError(c, err, "supplier")
	}
	prometheus.RecordCatalogOperation("supplier", "get")
	return c.JSON(http.StatusOK, supplier)
}

// CreateSupplier creates a supplier
func (h *SupplierHandler) CreateSupplier(c echo.Context) error {
	log := logger.FromContext(c)

	var req SupplierRequest
	if ok, err := bindAndValidate(c, &req); !ok {
		return err
	}

	var supplier model.Supplier
	req.apply(&supplier)
	if err := h.suppliers.Create(c.Request().Context(), &supplier); err != nil {
		return respondError(c, err, "supplier")
	}

	log.Info("Supplier created successfully",
		zap.Uint("id", supplier.ID),
		zap.String("name", supplier.SupplierName))
	prometheus.RecordCatalogOperation("supplier", "create")
	return c.JSON(http.StatusCreated, supplier)
}

// UpdateSupplier replaces a supplier's fields
func (h *SupplierHandler) UpdateSupplier(c echo.Context) error {
	log := logger.FromContext(c)

	id, err := parseID(c, "id")
	if err != nil {
		return badRequest(c, err.Error())
	}
	var req SupplierRequest
	if ok, err := bindAndValidate(c, &req); !ok {
		return err
	}

	ctx := c.Request().Context()
	supplier, err := h.suppliers.Get(ctx, id)
	if err != nil {
		return respondError(c, err, "supplier")
	}
	req.apply(supplier)
	if err := h.suppliers.Update(ctx, supplier); err != nil {
		return respondError(c, err, "supplier")
	}

	log.Info("Supplier updated successfully", zap.Uint("id", supplier.ID))
	prometheus.RecordCatalogOperation("supplier", "update")
	return c.JSON(http.StatusOK, supplier)
}

// DeleteSupplier soft-deletes a supplier and its offers
func (h *SupplierHandler) DeleteSupplier(c echo.Context) error {
	log := logger.FromContext(c)

	id, err := parseID(c, "id")
	if err != nil {
		return badRequest(c, err.Error())
	}
	if err := h.suppliers.Delete(c.Request().Context(), id); err != nil {
		return respondError(c, err, "supplier")
	}

	log.Info("Supplier deleted successfully", zap.Uint("id", id))
	prometheus.RecordCatalogOperation("supplier", "delete")
	return c.NoContent(http.StatusNoContent)
}

// ListSuppliedProducts lists what a supplier offers, with product names
func (h *SupplierHandler) ListSuppliedProducts(c echo.Context) error {
	id, err := parseID(c, "id")
	if err != nil {
		return badRequest(c, err.Error())
	}

	products, err := h.suppliers.SuppliedProducts(c.Request().Context(), id)
	if err != nil {
		return respondError(c, err, "supplier")
	}
	prometheus.RecordCatalogOperation("supplier", "list_products")
	return c.JSON(http.StatusOK, products)
}
