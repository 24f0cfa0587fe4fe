package handler

import (
	"net/http"
	"strconv"

	"github.com/rivacortez/management-demo/internal/model"
	"github.com/rivacortez/management-demo/internal/repository"
	"github.com/rivacortez/management-demo/pkg/logger"
	"github.com/rivacortez/management-demo/prometheus"

	"github.com/labstack/echo/v4"
	"go.uber.org/zap"
)

// CategoryRequest defines the structure for category creation/update requests
type CategoryRequest struct {
	CategoryName string `json:"category_name" validate:"required,max=100"`
	CategorySlug string `json:"category_slug" validate:"omitempty,max=120"`
	MainImage    string `json:"main_image" validate:"omitempty,url"`
	Status       *bool  `json:"status"`
}

// CategoryHandler serves product categories
type CategoryHandler struct {
	categories *repository.CategoryRepository
	images     ImageStore
}

// NewCategoryHandler creates a category handler
func NewCategoryHandler(categories *repository.CategoryRepository, images ImageStore) *CategoryHandler {
	return &CategoryHandler{categories: categories, images: images}
}

// RegisterRoutes mounts the category routes
func (h *CategoryHandler) RegisterRoutes(g *echo.Group) {
	g.GET("", h.ListCategories)
	g.POST("", h.CreateCategory)
	g.GET("/:id", h.GetCategory)
	g.PUT("/:id", h.UpdateCategory)
	g.DELETE("/:id", h.DeleteCategory)
}

// ListCategories lists categories, optionally only active or inactive ones
func (h *CategoryHandler) ListCategories(c echo.Context) error {
	page, pageNum, limit := pageFromQuery(c)

	var status *bool
	if raw := c.QueryParam("status"); raw != "" {
		v, err := strconv.ParseBool(raw)
		if err != nil {
			return badRequest(c, "invalid status")
		}
		status = &v
	}

	categories, total, err := h.categories.List(c.Request().Context(), status, page)
	if err != nil {
		return respondError(c, err, "category")
	}
	prometheus.RecordCatalogOperation("category", "list")
	return c.JSON(http.StatusOK, ListResponse{Data: categories, Total: total, Page: pageNum, Limit: limit})
}

// GetCategory returns one category
func (h *CategoryHandler) GetCategory(c echo.Context) error {
	id, err := parseID(c, "id")
	if err != nil {
		return badRequest(c, err.Error())
	}

	category, err := h.categories.Get(c.Request().Context(), id)
	if err != nil {
		return respondError(c, err, "category")
	}
	prometheus.RecordCatalogOperation("category", "get")
	return c.JSON(http.StatusOK, category)
}

// CreateCategory creates a category. Status defaults to active.
func (h *CategoryHandler) CreateCategory(c echo.Context) error {
	log := logger.FromContext(c)

	var req CategoryRequest
	if ok, err := bindAndValidate(c, &req); !ok {
		return err
	}

	category := model.Category{
		CategoryName: req.CategoryName,
		CategorySlug: req.CategorySlug,
		MainImage:    req.MainImage,
		Status:       req.Status == nil || *req.Status,
	}
	if err := h.categories.Create(c.Request().Context(), &category); err != nil {
		return respondError(c, err, "category")
	}

	log.Info("Category created successfully", zap.Uint("id", category.ID), zap.String("slug", category.CategorySlug))
	prometheus.RecordCatalogOperation("category", "create")
	return c.JSON(http.StatusCreated, category)
}

// UpdateCategory replaces a category's fields and removes a replaced main image
func (h *CategoryHandler) UpdateCategory(c echo.Context) error {
	log := logger.FromContext(c)

	id, err := parseID(c, "id")
	if err != nil {
		return badRequest(c, err.Error())
	}
	var req CategoryRequest
	if ok, err := bindAndValidate(c, &req); !ok {
		return err
	}

	ctx := c.Request().Context()
	category, err := h.categories.Get(ctx, id)
	if err != nil {
		return respondError(c, err, "category")
	}
	oldImage := category.MainImage

	category.CategoryName = req.CategoryName
	category.CategorySlug = req.CategorySlug
	category.MainImage = req.MainImage
	if req.Status != nil {
		category.Status = *req.Status
	}
	if err := h.categories.Update(ctx, category); err != nil {
		return respondError(c, err, "category")
	}
	if oldImage != "" && oldImage != category.MainImage {
		removeImages(ctx, h.images, oldImage)
	}

	log.Info("Category updated successfully", zap.Uint("id", category.ID))
	prometheus.RecordCatalogOperation("category", "update")
	return c.JSON(http.StatusOK, category)
}

// DeleteCategory soft-deletes a category and removes its main image
func (h *CategoryHandler) DeleteCategory(c echo.Context) error {
	log := logger.FromContext(c)

	id, err := parseID(c, "id")
	if err != nil {
		return badRequest(c, err.Error())
	}

	ctx := c.Request().Context()
	category, err := h.categories.Get(ctx, id)
	if err != nil {
		return respondError(c, err, "category")
	}
	if err := h.categories.Delete(ctx, id); err != nil {
		return respondError(c, err, "category")
	}
	if category.MainImage != "" {
		removeImages(ctx, h.images, category.MainImage)
	}

	log.Info("Category deleted successfully", zap.Uint("id", id))
	prometheus.RecordCatalogOperation("category", "delete")
	return c.NoContent(http.StatusNoContent)
}
