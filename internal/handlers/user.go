package handlers

import (
	"net/http"

	"github.com/atelierhq/atelier-api/internal/middleware"
	"github.com/atelierhq/atelier-api/internal/models"
	"github.com/atelierhq/atelier-api/pkg/dto"
	"github.com/google/uuid"
	"github.com/labstack/echo/v4"
)

type UserHandler struct {
	users UserServiceInterface
}

func NewUserHandler(users UserServiceInterface) *UserHandler {
	return &UserHandler{users: users}
}

func (h *UserHandler) List(c echo.Context) error {
	users, err := h.users.List(c.Request().Context())
	if err != nil {
		return c.JSON(http.StatusInternalServerError, dto.ErrorResponse{Error: "failed to list users"})
	}
	return c.JSON(http.StatusOK, users)
}

// ListByTenant lists the operators of one tenant. Super admins may name any
// tenant via the tenantId query parameter; admins are pinned to the resolved
// tenant.
func (h *UserHandler) ListByTenant(c echo.Context) error {
	scope := middleware.GetScope(c)

	var tenantID uuid.UUID
	if raw := c.QueryParam("tenantId"); raw != "" && scope.User.Role == models.RoleSuperAdmin {
		id, err := uuid.Parse(raw)
		if err != nil {
			return c.JSON(http.StatusBadRequest, dto.ErrorResponse{Error: "invalid tenant id"})
		}
		tenantID = id
	} else if scope.Tenant != nil {
		tenantID = scope.Tenant.ID
	} else {
		return c.JSON(http.StatusBadRequest, dto.ErrorResponse{Error: "no tenant in scope"})
	}

	users, err := h.users.ListByTenant(c.Request().Context(), tenantID)
	if err != nil {
		return c.JSON(http.StatusInternalServerError, dto.ErrorResponse{Error: "failed to list users"})
	}
	return c.JSON(http.StatusOK, users)
}

func (h *UserHandler) UpdateRole(c echo.Context) error {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		return c.JSON(http.StatusBadRequest, dto.ErrorResponse{Error: "invalid user id"})
	}

	var req dto.UpdateRoleRequest
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, dto.ErrorResponse{Error: "invalid request body"})
	}
	role := models.Role(req.Role)
	if !role.Valid() {
		return c.JSON(http.StatusBadRequest, dto.ErrorResponse{Error: "invalid role"})
	}

	user, err := h.users.UpdateRole(c.Request().Context(), id, role)
	if err != nil {
		return c.JSON(http.StatusInternalServerError, dto.ErrorResponse{Error: "failed to update role"})
	}
	if user == nil {
		return c.JSON(http.StatusNotFound, dto.ErrorResponse{Error: "user not found"})
	}
	return c.JSON(http.StatusOK, user)
}

func (h *UserHandler) AssignToTenant(c echo.Context) error {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		return c.JSON(http.StatusBadRequest, dto.ErrorResponse{Error: "invalid user id"})
	}

	var req dto.AssignTenantRequest
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, dto.ErrorResponse{Error: "invalid request body"})
	}
	tenantID, err := uuid.Parse(req.TenantID)
	if err != nil {
		return c.JSON(http.StatusBadRequest, dto.ErrorResponse{Error: "invalid tenant id"})
	}

	user, err := h.users.AssignToTenant(c.Request().Context(), id, tenantID)
	if err != nil {
		return c.JSON(http.StatusInternalServerError, dto.ErrorResponse{Error: "failed to assign user"})
	}
	if user == nil {
		return c.JSON(http.StatusNotFound, dto.ErrorResponse{Error: "user not found"})
	}
	return c.JSON(http.StatusOK, user)
}

func (h *UserHandler) Delete(c echo.Context) error {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		return c.JSON(http.StatusBadRequest, dto.ErrorResponse{Error: "invalid user id"})
	}

	// Nobody deletes their own account from the back office.
	if middleware.GetScope(c).User.ID == id {
		return c.JSON(http.StatusBadRequest, dto.ErrorResponse{Error: "cannot delete yourself"})
	}

	deleted, err := h.users.Delete(c.Request().Context(), id)
	if err != nil {
		return c.JSON(http.StatusInternalServerError, dto.ErrorResponse{Error: "failed to delete user"})
	}
	if !deleted {
		return c.JSON(http.StatusNotFound, dto.ErrorResponse{Error: "user not found"})
	}
	return c.JSON(http.StatusOK, dto.DeleteResponse{Success: true})
}
