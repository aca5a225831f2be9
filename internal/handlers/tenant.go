package handlers

import (
	"net/http"

	"github.com/atelierhq/atelier-api/internal/middleware"
	"github.com/atelierhq/atelier-api/internal/services"
	"github.com/atelierhq/atelier-api/pkg/dto"
	"github.com/google/uuid"
	"github.com/labstack/echo/v4"
)

type TenantHandler struct {
	tenants TenantServiceInterface
}

func NewTenantHandler(tenants TenantServiceInterface) *TenantHandler {
	return &TenantHandler{tenants: tenants}
}

// GetCurrent exposes the context resolved for this request's domain: the
// tenant (or null) and whether the domain is an operator one. Public: the
// storefront needs branding before anyone signs in.
func (h *TenantHandler) GetCurrent(c echo.Context) error {
	scope := middleware.GetScope(c)
	return c.JSON(http.StatusOK, echo.Map{
		"tenant":              scope.Tenant,
		"isSuperAdminContext": scope.IsSuperAdmin,
	})
}

func (h *TenantHandler) List(c echo.Context) error {
	tenants, err := h.tenants.List(c.Request().Context())
	if err != nil {
		return c.JSON(http.StatusInternalServerError, dto.ErrorResponse{Error: "failed to list tenants"})
	}
	return c.JSON(http.StatusOK, tenants)
}

func (h *TenantHandler) ListActive(c echo.Context) error {
	tenants, err := h.tenants.ListActive(c.Request().Context())
	if err != nil {
		return c.JSON(http.StatusInternalServerError, dto.ErrorResponse{Error: "failed to list tenants"})
	}
	return c.JSON(http.StatusOK, tenants)
}

func (h *TenantHandler) GetByID(c echo.Context) error {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		return c.JSON(http.StatusBadRequest, dto.ErrorResponse{Error: "invalid tenant id"})
	}

	tenant, err := h.tenants.GetByID(c.Request().Context(), id)
	if err != nil {
		return c.JSON(http.StatusInternalServerError, dto.ErrorResponse{Error: "failed to get tenant"})
	}
	if tenant == nil {
		return c.JSON(http.StatusNotFound, dto.ErrorResponse{Error: "tenant not found"})
	}
	return c.JSON(http.StatusOK, tenant)
}

func (h *TenantHandler) Create(c echo.Context) error {
	ctx := c.Request().Context()

	var req dto.CreateTenantRequest
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, dto.ErrorResponse{Error: "invalid request body"})
	}
	if req.Name == "" || req.Slug == "" || len(req.Domains) == 0 || req.PrimaryDomain == "" {
		return c.JSON(http.StatusBadRequest, dto.ErrorResponse{Error: "name, slug, domains and primaryDomain are required"})
	}

	// Availability pre-checks give friendly 409s; the unique constraints
	// remain the real enforcement under concurrent creates.
	available, err := h.tenants.IsSlugAvailable(ctx, req.Slug, nil)
	if err != nil {
		return c.JSON(http.StatusInternalServerError, dto.ErrorResponse{Error: "failed to create tenant"})
	}
	if !available {
		return c.JSON(http.StatusConflict, dto.ErrorResponse{Error: "slug already in use"})
	}
	for _, domain := range req.Domains {
		available, err := h.tenants.IsDomainAvailable(ctx, domain, nil)
		if err != nil {
			return c.JSON(http.StatusInternalServerError, dto.ErrorResponse{Error: "failed to create tenant"})
		}
		if !available {
			return c.JSON(http.StatusConflict, dto.ErrorResponse{Error: "domain already in use: " + domain})
		}
	}

	tenant, err := h.tenants.Create(ctx, services.CreateTenantParams{
		Name:               req.Name,
		Slug:               req.Slug,
		Domains:            req.Domains,
		PrimaryDomain:      req.PrimaryDomain,
		ContactEmail:       req.ContactEmail,
		LogoURL:            req.LogoURL,
		BrandColor:         req.BrandColor,
		AllowedAdminEmails: req.AllowedAdminEmails,
	})
	if err != nil {
		return c.JSON(http.StatusInternalServerError, dto.ErrorResponse{Error: "failed to create tenant"})
	}
	return c.JSON(http.StatusCreated, tenant)
}

func (h *TenantHandler) Update(c echo.Context) error {
	ctx := c.Request().Context()

	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		return c.JSON(http.StatusBadRequest, dto.ErrorResponse{Error: "invalid tenant id"})
	}

	var req dto.UpdateTenantRequest
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, dto.ErrorResponse{Error: "invalid request body"})
	}

	for _, domain := range req.Domains {
		available, err := h.tenants.IsDomainAvailable(ctx, domain, &id)
		if err != nil {
			return c.JSON(http.StatusInternalServerError, dto.ErrorResponse{Error: "failed to update tenant"})
		}
		if !available {
			return c.JSON(http.StatusConflict, dto.ErrorResponse{Error: "domain already in use: " + domain})
		}
	}

	tenant, err := h.tenants.Update(ctx, id, services.UpdateTenantParams{
		Name:               req.Name,
		Domains:            req.Domains,
		PrimaryDomain:      req.PrimaryDomain,
		ContactEmail:       req.ContactEmail,
		LogoURL:            req.LogoURL,
		BrandColor:         req.BrandColor,
		IsActive:           req.IsActive,
		AllowedAdminEmails: req.AllowedAdminEmails,
	})
	if err != nil {
		return c.JSON(http.StatusInternalServerError, dto.ErrorResponse{Error: "failed to update tenant"})
	}
	if tenant == nil {
		return c.JSON(http.StatusNotFound, dto.ErrorResponse{Error: "tenant not found"})
	}
	return c.JSON(http.StatusOK, tenant)
}

func (h *TenantHandler) Delete(c echo.Context) error {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		return c.JSON(http.StatusBadRequest, dto.ErrorResponse{Error: "invalid tenant id"})
	}

	deleted, err := h.tenants.Delete(c.Request().Context(), id)
	if err != nil {
		return c.JSON(http.StatusInternalServerError, dto.ErrorResponse{Error: "failed to delete tenant"})
	}
	if !deleted {
		return c.JSON(http.StatusNotFound, dto.ErrorResponse{Error: "tenant not found"})
	}
	return c.JSON(http.StatusOK, dto.DeleteResponse{Success: true})
}

// CheckSlug reports whether a slug is free, optionally excluding the tenant
// being edited via the exclude query parameter.
func (h *TenantHandler) CheckSlug(c echo.Context) error {
	slug := c.QueryParam("slug")
	if slug == "" {
		return c.JSON(http.StatusBadRequest, dto.ErrorResponse{Error: "slug is required"})
	}

	excludeID, err := parseExcludeID(c.QueryParam("exclude"))
	if err != nil {
		return c.JSON(http.StatusBadRequest, dto.ErrorResponse{Error: "invalid exclude id"})
	}

	available, err := h.tenants.IsSlugAvailable(c.Request().Context(), slug, excludeID)
	if err != nil {
		return c.JSON(http.StatusInternalServerError, dto.ErrorResponse{Error: "failed to check slug"})
	}
	return c.JSON(http.StatusOK, dto.AvailabilityResponse{Available: available})
}

func (h *TenantHandler) CheckDomain(c echo.Context) error {
	domain := c.QueryParam("domain")
	if domain == "" {
		return c.JSON(http.StatusBadRequest, dto.ErrorResponse{Error: "domain is required"})
	}

	excludeID, err := parseExcludeID(c.QueryParam("exclude"))
	if err != nil {
		return c.JSON(http.StatusBadRequest, dto.ErrorResponse{Error: "invalid exclude id"})
	}

	available, err := h.tenants.IsDomainAvailable(c.Request().Context(), domain, excludeID)
	if err != nil {
		return c.JSON(http.StatusInternalServerError, dto.ErrorResponse{Error: "failed to check domain"})
	}
	return c.JSON(http.StatusOK, dto.AvailabilityResponse{Available: available})
}

func parseExcludeID(raw string) (*uuid.UUID, error) {
	if raw == "" {
		return nil, nil
	}
	id, err := uuid.Parse(raw)
	if err != nil {
		return nil, err
	}
	return &id, nil
}
