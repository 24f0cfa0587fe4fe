package handler

import (
	"errors"
	"io"
	"net/http"
	"strings"

	"github.com/rivacortez/management-demo/pkg/logger"
	"github.com/rivacortez/management-demo/pkg/storage"

	"github.com/gabriel-vasile/mimetype"
	"github.com/labstack/echo/v4"
	"go.uber.org/zap"
)

// ImageHandler uploads and deletes catalog images in object storage
type ImageHandler struct {
	images   ImageStore
	maxBytes int64
}

// NewImageHandler creates an image handler accepting uploads up to maxBytes
func NewImageHandler(images ImageStore, maxBytes int64) *ImageHandler {
	return &ImageHandler{images: images, maxBytes: maxBytes}
}

// RegisterRoutes mounts the image routes
func (h *ImageHandler) RegisterRoutes(g *echo.Group) {
	g.POST("", h.UploadImage)
	g.DELETE("", h.DeleteImage)
}

// UploadImage stores the multipart "file" field. Only image content is accepted,
// judged by the bytes rather than the declared type.
func (h *ImageHandler) UploadImage(c echo.Context) error {
	log := logger.FromContext(c)

	fh, err := c.FormFile("file")
	if err != nil {
		return badRequest(c, "file is required")
	}
	if h.maxBytes > 0 && fh.Size > h.maxBytes {
		log.Warn("Image too large", zap.String("name", fh.Filename), zap.Int64("size", fh.Size))
		return c.JSON(http.StatusRequestEntityTooLarge, echo.Map{"error": "file too large"})
	}

	src, err := fh.Open()
	if err != nil {
		log.Error("Failed to open upload", zap.Error(err))
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "failed to read file"})
	}
	defer src.Close()

	limit := h.maxBytes
	if limit <= 0 {
		limit = fh.Size
	}
	data, err := io.ReadAll(io.LimitReader(src, limit+1))
	if err != nil {
		log.Error("Failed to read upload", zap.Error(err))
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "failed to read file"})
	}
	if int64(len(data)) > limit {
		return c.JSON(http.StatusRequestEntityTooLarge, echo.Map{"error": "file too large"})
	}

	mtype := mimetype.Detect(data)
	if !strings.HasPrefix(mtype.String(), "image/") {
		log.Warn("Rejected non-image upload", zap.String("name", fh.Filename), zap.String("mime", mtype.String()))
		return c.JSON(http.StatusUnsupportedMediaType, echo.Map{"error": "only image files are allowed"})
	}

	key, url, err := h.images.Upload(c.Request().Context(), fh.Filename, mtype.String(), data)
	if err != nil {
		return storageError(c, err)
	}

	log.Info("Image uploaded", zap.String("key", key), zap.String("mime", mtype.String()), zap.Int("bytes", len(data)))
	return c.JSON(http.StatusCreated, echo.Map{
		"path": key,
		"url":  url,
	})
}

// DeleteImage removes the object named by the path query parameter, a key or a public URL
func (h *ImageHandler) DeleteImage(c echo.Context) error {
	raw := c.QueryParam("path")
	if raw == "" {
		return badRequest(c, "path is required")
	}
	key, ok := h.images.KeyFromURL(raw)
	if !ok {
		if strings.Contains(raw, "://") {
			return badRequest(c, "path does not belong to the image bucket")
		}
		key = strings.TrimPrefix(raw, "/")
	}

	if err := h.images.Delete(c.Request().Context(), key); err != nil {
		return storageError(c, err)
	}

	logger.FromContext(c).Info("Image deleted", zap.String("key", key))
	return c.NoContent(http.StatusNoContent)
}

func storageError(c echo.Context, err error) error {
	if errors.Is(err, storage.ErrNotConfigured) {
		logger.FromContext(c).Warn("Object storage not configured")
		return c.JSON(http.StatusServiceUnavailable, echo.Map{"error": "image storage is not available"})
	}
	logger.FromContext(c).Error("Object storage request failed", zap.Error(err))
	return c.JSON(http.StatusBadGateway, echo.Map{"error": "image storage request failed"})
}
