package handlers

import (
	"net/http"

	"github.com/atelierhq/atelier-api/internal/logger"
	"github.com/atelierhq/atelier-api/internal/media"
	"github.com/atelierhq/atelier-api/internal/middleware"
	"github.com/atelierhq/atelier-api/internal/models"
	"github.com/atelierhq/atelier-api/internal/services"
	"github.com/atelierhq/atelier-api/pkg/dto"
	"github.com/google/uuid"
	"github.com/labstack/echo/v4"
	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"
)

// maxBatchUpload caps a multi-file request.
const maxBatchUpload = 20

type UploadHandler struct {
	media  MediaClientInterface
	images ImageServiceInterface
}

func NewUploadHandler(mediaClient MediaClientInterface, images ImageServiceInterface) *UploadHandler {
	return &UploadHandler{media: mediaClient, images: images}
}

// Upload pushes one image to the media host and records its metadata.
func (h *UploadHandler) Upload(c echo.Context) error {
	var req dto.UploadRequest
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, dto.ErrorResponse{Error: "invalid request body"})
	}
	if req.File == "" {
		return c.JSON(http.StatusBadRequest, dto.ErrorResponse{Error: "file is required"})
	}
	if !models.ValidFolder(req.Folder) {
		return c.JSON(http.StatusBadRequest, dto.ErrorResponse{Error: "invalid folder"})
	}
	if !h.media.Configured() {
		return c.JSON(http.StatusServiceUnavailable, dto.ErrorResponse{Error: "media host not configured"})
	}

	image, err := h.uploadOne(c, req.File, req.Folder, req.AltText, req.Tags)
	if err != nil {
		logger.FromContext(c).Error("upload failed", zap.Error(err))
		middleware.RecordUpload("failure")
		return c.JSON(http.StatusInternalServerError, dto.ErrorResponse{Error: "upload failed"})
	}

	middleware.RecordUpload("success")
	return c.JSON(http.StatusCreated, image)
}

// UploadMultiple pushes a batch concurrently, preserving request order in
// the response.
func (h *UploadHandler) UploadMultiple(c echo.Context) error {
	var req dto.UploadMultipleRequest
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, dto.ErrorResponse{Error: "invalid request body"})
	}
	if len(req.Images) == 0 {
		return c.JSON(http.StatusBadRequest, dto.ErrorResponse{Error: "images are required"})
	}
	if len(req.Images) > maxBatchUpload {
		return c.JSON(http.StatusBadRequest, dto.ErrorResponse{Error: "too many images"})
	}
	for _, entry := range req.Images {
		if entry.File == "" {
			return c.JSON(http.StatusBadRequest, dto.ErrorResponse{Error: "file is required"})
		}
	}
	if !models.ValidFolder(req.Folder) {
		return c.JSON(http.StatusBadRequest, dto.ErrorResponse{Error: "invalid folder"})
	}
	if !h.media.Configured() {
		return c.JSON(http.StatusServiceUnavailable, dto.ErrorResponse{Error: "media host not configured"})
	}

	images := make([]*models.Image, len(req.Images))
	g, _ := errgroup.WithContext(c.Request().Context())
	g.SetLimit(4)
	for i, entry := range req.Images {
		g.Go(func() error {
			image, err := h.uploadOne(c, entry.File, req.Folder, entry.AltText, req.Tags)
			if err != nil {
				return err
			}
			images[i] = image
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		logger.FromContext(c).Error("batch upload failed", zap.Error(err))
		middleware.RecordUpload("failure")
		return c.JSON(http.StatusInternalServerError, dto.ErrorResponse{Error: "upload failed"})
	}

	middleware.RecordUpload("success")
	return c.JSON(http.StatusCreated, images)
}

func (h *UploadHandler) uploadOne(c echo.Context, file, folder, altText string, tags []string) (*models.Image, error) {
	ctx := c.Request().Context()
	scope := middleware.GetScope(c)

	var tenantID *uuid.UUID
	var slug string
	if scope.Tenant != nil {
		tenantID = &scope.Tenant.ID
		slug = scope.Tenant.Slug
	}

	result, err := h.media.Upload(ctx, file, media.Folder(slug, folder))
	if err != nil {
		return nil, err
	}

	params := services.CreateImageParams{
		TenantID: tenantID,
		PublicID: result.PublicID,
		URL:      result.SecureURL,
		Folder:   folder,
		AltText:  altText,
		Tags:     tags,
	}
	if result.Width > 0 {
		params.Width = &result.Width
	}
	if result.Height > 0 {
		params.Height = &result.Height
	}
	if result.Bytes > 0 {
		params.Bytes = &result.Bytes
	}
	if result.Format != "" {
		params.Format = &result.Format
	}

	return h.images.Create(ctx, params)
}

// Delete removes the asset from the media host first, then its metadata. A
// record identified by either id or delivery URL.
func (h *UploadHandler) Delete(c echo.Context) error {
	ctx := c.Request().Context()
	scope := middleware.GetScope(c)

	var req dto.DeleteImageRequest
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, dto.ErrorResponse{Error: "invalid request body"})
	}

	var image *models.Image
	var err error
	switch {
	case req.ID != "":
		id, parseErr := uuid.Parse(req.ID)
		if parseErr != nil {
			return c.JSON(http.StatusBadRequest, dto.ErrorResponse{Error: "invalid image id"})
		}
		image, err = h.images.GetByID(ctx, id)
	case req.URL != "":
		image, err = h.images.GetByURL(ctx, req.URL)
		if err == nil && image == nil {
			// A transformed delivery URL won't match the stored one verbatim;
			// fall back to the public id embedded in its path.
			if publicID := media.ExtractPublicID(req.URL); publicID != "" {
				image, err = h.images.GetByPublicID(ctx, publicID)
			}
		}
	default:
		return c.JSON(http.StatusBadRequest, dto.ErrorResponse{Error: "id or url is required"})
	}
	if err != nil {
		return c.JSON(http.StatusInternalServerError, dto.ErrorResponse{Error: "failed to delete image"})
	}
	if image == nil || !visibleInScope(image, scope) {
		return c.JSON(http.StatusNotFound, dto.ErrorResponse{Error: "image not found"})
	}

	// The host copy goes first; metadata survives a failed destroy so the
	// asset stays discoverable for a retry.
	destroyed, err := h.media.Destroy(ctx, image.PublicID)
	if err != nil {
		logger.FromContext(c).Error("media destroy failed",
			zap.String("public_id", image.PublicID), zap.Error(err))
		return c.JSON(http.StatusInternalServerError, dto.ErrorResponse{Error: "failed to delete image"})
	}
	if !destroyed {
		logger.FromContext(c).Warn("asset already gone from media host",
			zap.String("public_id", image.PublicID))
	}

	if _, err := h.images.Delete(ctx, image.ID); err != nil {
		return c.JSON(http.StatusInternalServerError, dto.ErrorResponse{Error: "failed to delete image"})
	}
	return c.JSON(http.StatusOK, dto.DeleteResponse{Success: true})
}

// ListHosted returns the media host's own view of a folder, for reconciling
// stored metadata against what actually exists.
func (h *UploadHandler) ListHosted(c echo.Context) error {
	folder := c.QueryParam("folder")
	if !models.ValidFolder(folder) {
		return c.JSON(http.StatusBadRequest, dto.ErrorResponse{Error: "invalid folder"})
	}
	if !h.media.Configured() {
		return c.JSON(http.StatusServiceUnavailable, dto.ErrorResponse{Error: "media host not configured"})
	}

	var slug string
	if tenant := middleware.GetScope(c).Tenant; tenant != nil {
		slug = tenant.Slug
	}

	resources, err := h.media.ListByFolder(c.Request().Context(), media.Folder(slug, folder))
	if err != nil {
		return c.JSON(http.StatusInternalServerError, dto.ErrorResponse{Error: "failed to list assets"})
	}
	return c.JSON(http.StatusOK, echo.Map{"resources": resources})
}
