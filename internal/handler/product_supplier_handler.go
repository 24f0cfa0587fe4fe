package handler

import (
	"net/http"
	"strconv"

	"github.com/rivacortez/management-demo/internal/model"
	"github.com/rivacortez/management-demo/internal/repository"
	"github.com/rivacortez/management-demo/pkg/logger"
	"github.com/rivacortez/management-demo/prometheus"

	"github.com/labstack/echo/v4"
	"github.com/shopspring/decimal"
	"go.uber.org/zap"
)

// OfferRequest defines the structure for creating a supplier offer
type OfferRequest struct {
	ProductID        uint            `json:"product_id" validate:"required"`
	SupplierID       uint            `json:"supplier_id" validate:"required"`
	CostPrice        decimal.Decimal `json:"cost_price"`
	LeadTimeDays     int             `json:"lead_time_days" validate:"gt=0"`
	SpecialAgreement *string         `json:"special_agreement"`
}

// OfferTermsRequest defines the structure for updating a supplier offer
type OfferTermsRequest struct {
	CostPrice        decimal.Decimal `json:"cost_price"`
	LeadTimeDays     int             `json:"lead_time_days" validate:"gt=0"`
	SpecialAgreement *string         `json:"special_agreement"`
}

// ProductSupplierHandler serves the product-supplier links
type ProductSupplierHandler struct {
	offers *repository.ProductSupplierRepository
}

// NewProductSupplierHandler creates a product-supplier handler
func NewProductSupplierHandler(offers *repository.ProductSupplierRepository) *ProductSupplierHandler {
	return &ProductSupplierHandler{offers: offers}
}

// RegisterRoutes mounts the product-supplier routes
func (h *ProductSupplierHandler) RegisterRoutes(g *echo.Group) {
	g.GET("", h.ListOffers)
	g.POST("", h.CreateOffer)
	g.GET("/:productId/:supplierId", h.GetOffer)
	g.PUT("/:productId/:supplierId", h.UpdateOffer)
	g.DELETE("/:productId/:supplierId", h.DeleteOffer)
}

// ListOffers lists offers filtered by product_id, supplier_id and a name search
func (h *ProductSupplierHandler) ListOffers(c echo.Context) error {
	page, pageNum, limit := pageFromQuery(c)

	filter := repository.OfferFilter{Query: c.QueryParam("q"), Page: page}
	for name, target := range map[string]*uint{"product_id": &filter.ProductID, "supplier_id": &filter.SupplierID} {
		raw := c.QueryParam(name)
		if raw == "" {
			continue
		}
		id, err := strconv.ParseUint(raw, 10, 32)
		if err != nil {
			return badRequest(c, "invalid "+name)
		}
		*target = uint(id)
	}

	offers, total, err := h.offers.List(c.Request().Context(), filter)
	if err != nil {
		return respondError(c, err, "offer")
	}
	prometheus.RecordCatalogOperation("offer", "list")
	return c.JSON(http.StatusOK, ListResponse{Data: offers, Total: total, Page: pageNum, Limit: limit})
}

// GetOffer returns one supplier's terms for one product
func (h *ProductSupplierHandler) GetOffer(c echo.Context) error {
	productID, supplierID, err := offerKey(c)
	if err != nil {
		return badRequest(c, err.Error())
	}

	offer, err := h.offers.Get(c.Request().Context(), productID, supplierID)
	if err != nil {
		return respondError(c, err, "offer")
	}
	prometheus.RecordCatalogOperation("offer", "get")
	return c.JSON(http.StatusOK, offer)
}

// CreateOffer links a supplier to a product
func (h *ProductSupplierHandler) CreateOffer(c echo.Context) error {
	log := logger.FromContext(c)

	var req OfferRequest
	if ok, err := bindAndValidate(c, &req); !ok {
		return err
	}
	if !req.CostPrice.IsPositive() {
		return badRequest(c, "cost_price must be greater than 0")
	}

	offer := model.ProductSupplier{
		ProductID:        req.ProductID,
		SupplierID:       req.SupplierID,
		CostPrice:        req.CostPrice,
		LeadTimeDays:     req.LeadTimeDays,
		SpecialAgreement: req.SpecialAgreement,
	}
	if err := h.offers.Create(c.Request().Context(), &offer); err != nil {
		return respondError(c, err, "offer")
	}

	prometheus.RecordCatalogOperation("offer", "create")
	log.Info("Supplier offer created",
		zap.Uint("product_id", offer.ProductID),
		zap.Uint("supplier_id", offer.SupplierID),
		zap.String("cost_price", offer.CostPrice.StringFixed(2)))
	return c.JSON(http.StatusCreated, offer)
}

// UpdateOffer changes the cost, lead time and special agreement of an offer
func (h *ProductSupplierHandler) UpdateOffer(c echo.Context) error {
	log := logger.FromContext(c)

	productID, supplierID, err := offerKey(c)
	if err != nil {
		return badRequest(c, err.Error())
	}
	var req OfferTermsRequest
	if ok, err := bindAndValidate(c, &req); !ok {
		return err
	}
	if !req.CostPrice.IsPositive() {
		return badRequest(c, "cost_price must be greater than 0")
	}

	offer := model.ProductSupplier{
		ProductID:        productID,
		SupplierID:       supplierID,
		CostPrice:        req.CostPrice,
		LeadTimeDays:     req.LeadTimeDays,
		SpecialAgreement: req.SpecialAgreement,
	}
	ctx := c.Request().Context()
	if err := h.offers.Update(ctx, &offer); err != nil {
		return respondError(c, err, "offer")
	}
	updated, err := h.offers.Get(ctx, productID, supplierID)
	if err != nil {
		return respondError(c, err, "offer")
	}

	prometheus.RecordCatalogOperation("offer", "update")
	log.Info("Supplier offer updated", zap.Uint("product_id", productID), zap.Uint("supplier_id", supplierID))
	return c.JSON(http.StatusOK, updated)
}

// DeleteOffer removes an offer
func (h *ProductSupplierHandler) DeleteOffer(c echo.Context) error {
	log := logger.FromContext(c)

	productID, supplierID, err := offerKey(c)
	if err != nil {
		return badRequest(c, err.Error())
	}
	if err := h.offers.Delete(c.Request().Context(), productID, supplierID); err != nil {
		return respondError(c, err, "offer")
	}

	prometheus.RecordCatalogOperation("offer", "delete")
	log.Info("Supplier offer deleted", zap.Uint("product_id", productID), zap.Uint("supplier_id", supplierID))
	return c.NoContent(http.StatusNoContent)
}

func offerKey(c echo.Context) (uint, uint, error) {
	productID, err := parseID(c, "productId")
	if err != nil {
		return 0, 0, err
	}
	supplierID, err := parseID(c, "supplierId")
	if err != nil {
		return 0, 0, err
	}
	return productID, supplierID, nil
}
