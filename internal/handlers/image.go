package handlers

import (
	"net/http"
	"strconv"
	"strings"

	"github.com/atelierhq/atelier-api/internal/middleware"
	"github.com/atelierhq/atelier-api/internal/models"
	"github.com/atelierhq/atelier-api/internal/services"
	"github.com/atelierhq/atelier-api/pkg/dto"
	"github.com/google/uuid"
	"github.com/labstack/echo/v4"
)

type ImageHandler struct {
	images ImageServiceInterface
}

func NewImageHandler(images ImageServiceInterface) *ImageHandler {
	return &ImageHandler{images: images}
}

// List returns a page of image metadata. Admins see their tenant's assets;
// the operator context (no tenant) sees everything.
func (h *ImageHandler) List(c echo.Context) error {
	scope := middleware.GetScope(c)

	params := services.ListImagesParams{
		Folder: c.QueryParam("folder"),
	}
	if scope.Tenant != nil {
		params.TenantID = &scope.Tenant.ID
	}
	if params.Folder != "" && !models.ValidFolder(params.Folder) {
		return c.JSON(http.StatusBadRequest, dto.ErrorResponse{Error: "invalid folder"})
	}
	if tags := c.QueryParam("tags"); tags != "" {
		params.Tags = strings.Split(tags, ",")
	}
	if page, err := strconv.Atoi(c.QueryParam("page")); err == nil {
		params.Page = page
	}
	if limit, err := strconv.Atoi(c.QueryParam("limit")); err == nil {
		params.Limit = limit
	}

	list, err := h.images.List(c.Request().Context(), params)
	if err != nil {
		return c.JSON(http.StatusInternalServerError, dto.ErrorResponse{Error: "failed to list images"})
	}
	return c.JSON(http.StatusOK, list)
}

// GetByURL looks a metadata record up by its delivery URL; the admin panel
// uses it to recover details for an embedded asset. Returns null when
// unknown.
func (h *ImageHandler) GetByURL(c echo.Context) error {
	url := c.QueryParam("url")
	if url == "" {
		return c.JSON(http.StatusBadRequest, dto.ErrorResponse{Error: "url is required"})
	}

	image, err := h.images.GetByURL(c.Request().Context(), url)
	if err != nil {
		return c.JSON(http.StatusInternalServerError, dto.ErrorResponse{Error: "failed to get image"})
	}
	if image != nil && !visibleInScope(image, middleware.GetScope(c)) {
		image = nil
	}
	return c.JSON(http.StatusOK, echo.Map{"image": image})
}

// Update edits the mutable metadata: alt text and tags.
func (h *ImageHandler) Update(c echo.Context) error {
	ctx := c.Request().Context()
	scope := middleware.GetScope(c)

	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		return c.JSON(http.StatusBadRequest, dto.ErrorResponse{Error: "invalid image id"})
	}

	var req dto.UpdateImageRequest
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, dto.ErrorResponse{Error: "invalid request body"})
	}

	existing, err := h.images.GetByID(ctx, id)
	if err != nil {
		return c.JSON(http.StatusInternalServerError, dto.ErrorResponse{Error: "failed to update image"})
	}
	if existing == nil || !visibleInScope(existing, scope) {
		return c.JSON(http.StatusNotFound, dto.ErrorResponse{Error: "image not found"})
	}

	image, err := h.images.Update(ctx, id, services.UpdateImageParams{
		AltText: req.AltText,
		Tags:    req.Tags,
	})
	if err != nil {
		return c.JSON(http.StatusInternalServerError, dto.ErrorResponse{Error: "failed to update image"})
	}
	if image == nil {
		return c.JSON(http.StatusNotFound, dto.ErrorResponse{Error: "image not found"})
	}
	return c.JSON(http.StatusOK, image)
}

// Delete removes the metadata record only; the hosted binary stays on the
// media host. The upload delete removes both.
func (h *ImageHandler) Delete(c echo.Context) error {
	ctx := c.Request().Context()
	scope := middleware.GetScope(c)

	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		return c.JSON(http.StatusBadRequest, dto.ErrorResponse{Error: "invalid image id"})
	}

	existing, err := h.images.GetByID(ctx, id)
	if err != nil {
		return c.JSON(http.StatusInternalServerError, dto.ErrorResponse{Error: "failed to delete image"})
	}
	if existing == nil || !visibleInScope(existing, scope) {
		return c.JSON(http.StatusNotFound, dto.ErrorResponse{Error: "image not found"})
	}

	deleted, err := h.images.Delete(ctx, id)
	if err != nil {
		return c.JSON(http.StatusInternalServerError, dto.ErrorResponse{Error: "failed to delete image"})
	}
	if !deleted {
		return c.JSON(http.StatusNotFound, dto.ErrorResponse{Error: "image not found"})
	}
	return c.JSON(http.StatusOK, dto.DeleteResponse{Success: true})
}

// Stats reports the tenant's media footprint; an operator context without a
// tenant gets zeros rather than a platform-wide aggregate.
func (h *ImageHandler) Stats(c echo.Context) error {
	scope := middleware.GetScope(c)
	if scope.Tenant == nil {
		return c.JSON(http.StatusOK, dto.ImageStatsResponse{})
	}

	stats, err := h.images.Stats(c.Request().Context(), scope.Tenant.ID)
	if err != nil {
		return c.JSON(http.StatusInternalServerError, dto.ErrorResponse{Error: "failed to get stats"})
	}
	return c.JSON(http.StatusOK, dto.ImageStatsResponse{
		Count:      stats.Count,
		TotalBytes: stats.TotalBytes,
	})
}

// visibleInScope hides other tenants' assets from a tenant-scoped request.
// The operator context (no resolved tenant) sees everything.
func visibleInScope(image *models.Image, scope *middleware.Scope) bool {
	if scope.Tenant == nil {
		return true
	}
	return image.TenantID != nil && *image.TenantID == scope.Tenant.ID
}
