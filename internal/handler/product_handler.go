package handler

import (
	"net/http"

	"github.com/rivacortez/management-demo/internal/model"
	"github.com/rivacortez/management-demo/internal/repository"
	"github.com/rivacortez/management-demo/pkg/logger"
	"github.com/rivacortez/management-demo/prometheus"

	"github.com/labstack/echo/v4"
	"github.com/shopspring/decimal"
	"go.uber.org/zap"
)

// ProductRequest defines the structure for product creation/update requests
type ProductRequest struct {
	Name        string          `json:"name" validate:"required,max=255"`
	Description string          `json:"description"`
	Price       decimal.Decimal `json:"price"`
	Stock       int             `json:"stock" validate:"gte=0"`
	CoverImages []string        `json:"cover_image" validate:"dive,url"`
}

// ProductCategoriesRequest replaces the categories of a product
type ProductCategoriesRequest struct {
	CategoryIDs []uint `json:"category_ids"`
}

// ProductHandler serves the product catalog
type ProductHandler struct {
	products *repository.ProductRepository
	images   ImageStore
}

// NewProductHandler creates a product handler
func NewProductHandler(products *repository.ProductRepository, images ImageStore) *ProductHandler {
	return &ProductHandler{products: products, images: images}
}

// RegisterRoutes mounts the product routes
func (h *ProductHandler) RegisterRoutes(g *echo.Group) {
	g.GET("", h.ListProducts)
	g.POST("", h.CreateProduct)
	g.GET("/:id", h.GetProduct)
	g.PUT("/:id", h.UpdateProduct)
	g.DELETE("/:id", h.DeleteProduct)
	g.PUT("/:id/categories", h.SetProductCategories)
}

// ListProducts handles retrieving products with optional name search
func (h *ProductHandler) ListProducts(c echo.Context) error {
	page, pageNum, limit := pageFromQuery(c)

	products, total, err := h.products.List(c.Request().Context(), c.QueryParam("q"), page)
	if err != nil {
		return respondError(c, err, "product")
	}
	prometheus.RecordCatalogOperation("product", "list")
	return c.JSON(http.StatusOK, ListResponse{Data: products, Total: total, Page: pageNum, Limit: limit})
}

// GetProduct handles retrieving a single product by ID
func (h *ProductHandler) GetProduct(c echo.Context) error {
	id, err := parseID(c, "id")
	if err != nil {
		return badRequest(c, err.Error())
	}

	product, err := h.products.Get(c.Request().Context(), id)
	if err != nil {
		return respondError(c, err, "product")
	}
	prometheus.RecordCatalogOperation("product", "get")
	return c.JSON(http.StatusOK, product)
}

// CreateProduct handles product creation
func (h *ProductHandler) CreateProduct(c echo.Context) error {
	log := logger.FromContext(c)

	var req ProductRequest
	if ok, err := bindAndValidate(c, &req); !ok {
		return err
	}
	if req.Price.IsNegative() {
		return badRequest(c, "price must not be negative")
	}

	product := model.Product{
		Name:        req.Name,
		Description: req.Description,
		Price:       req.Price,
		Stock:       req.Stock,
		CoverImages: req.CoverImages,
	}
	if err := h.products.Create(c.Request().Context(), &product); err != nil {
		return respondError(c, err, "product")
	}

	log.Info("Product created successfully", zap.Uint("id", product.ID), zap.String("name", product.Name))
	prometheus.RecordCatalogOperation("product", "create")
	return c.JSON(http.StatusCreated, product)
}

// UpdateProduct replaces a product's fields. Cover images no longer listed are removed from storage.
func (h *ProductHandler) UpdateProduct(c echo.Context) error {
	log := logger.FromContext(c)

	id, err := parseID(c, "id")
	if err != nil {
		return badRequest(c, err.Error())
	}
	var req ProductRequest
	if ok, err := bindAndValidate(c, &req); !ok {
		return err
	}
	if req.Price.IsNegative() {
		return badRequest(c, "price must not be negative")
	}

	ctx := c.Request().Context()
	product, err := h.products.Get(ctx, id)
	if err != nil {
		return respondError(c, err, "product")
	}
	dropped := droppedURLs(product.CoverImages, req.CoverImages)

	product.Name = req.Name
	product.Description = req.Description
	product.Price = req.Price
	product.Stock = req.Stock
	product.CoverImages = req.CoverImages
	if err := h.products.Update(ctx, product); err != nil {
		return respondError(c, err, "product")
	}
	removeImages(ctx, h.images, dropped...)

	log.Info("Product updated successfully", zap.Uint("id", product.ID), zap.Int("removed_images", len(dropped)))
	prometheus.RecordCatalogOperation("product", "update")
	return c.JSON(http.StatusOK, product)
}

// DeleteProduct soft-deletes a product and removes its cover images
func (h *ProductHandler) DeleteProduct(c echo.Context) error {
	log := logger.FromContext(c)

	id, err := parseID(c, "id")
	if err != nil {
		return badRequest(c, err.Error())
	}

	ctx := c.Request().Context()
	product, err := h.products.Get(ctx, id)
	if err != nil {
		return respondError(c, err, "product")
	}
	if err := h.products.Delete(ctx, id); err != nil {
		return respondError(c, err, "product")
	}
	removeImages(ctx, h.images, product.CoverImages...)

	log.Info("Product deleted successfully", zap.Uint("id", id))
	prometheus.RecordCatalogOperation("product", "delete")
	return c.NoContent(http.StatusNoContent)
}

// SetProductCategories replaces the categories linked to a product
func (h *ProductHandler) SetProductCategories(c echo.Context) error {
	id, err := parseID(c, "id")
	if err != nil {
		return badRequest(c, err.Error())
	}
	var req ProductCategoriesRequest
	if ok, err := bindAndValidate(c, &req); !ok {
		return err
	}

	product, err := h.products.SetCategories(c.Request().Context(), id, req.CategoryIDs)
	if err != nil {
		return respondError(c, err, "product")
	}
	prometheus.RecordCatalogOperation("product", "set_categories")
	return c.JSON(http.StatusOK, product)
}
