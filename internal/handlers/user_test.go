package handlers

import (
	"net/http"
	"testing"

	"github.com/atelierhq/atelier-api/internal/middleware"
	"github.com/atelierhq/atelier-api/internal/models"
	"github.com/atelierhq/atelier-api/pkg/dto"
	"github.com/atelierhq/atelier-api/tests/testutil"
	"github.com/google/uuid"
	"github.com/labstack/echo/v4"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
)

func newUserApp(tenants *testutil.MockTenantService, users *testutil.MockUserService) *echo.Echo {
	handler := NewUserHandler(users)
	e := newScopedApp(tenants, users, nil)

	e.GET("/api/v1/users", handler.List, middleware.RequireSuperAdmin)
	e.GET("/api/v1/users/by-tenant", handler.ListByTenant, middleware.RequireTenantAdmin)
	e.PATCH("/api/v1/users/:id/role", handler.UpdateRole, middleware.RequireSuperAdmin)
	e.PATCH("/api/v1/users/:id/tenant", handler.AssignToTenant, middleware.RequireSuperAdmin)
	e.DELETE("/api/v1/users/:id", handler.Delete, middleware.RequireSuperAdmin)
	return e
}

func TestUserHandler_List(t *testing.T) {
	tenants := new(testutil.MockTenantService)
	users := new(testutil.MockUserService)
	users.On("List", mock.Anything).Return([]models.User{
		{ID: uuid.New(), Email: "a@example.com"},
		{ID: uuid.New(), Email: "b@example.com"},
	}, nil)

	e := newUserApp(tenants, users)
	rec := superAdminClient(t, e, users).Get("/api/v1/users")

	assert.Equal(t, http.StatusOK, rec.Code)
	var resp []models.User
	testutil.DecodeJSON(t, rec, &resp)
	assert.Len(t, resp, 2)
}

func TestUserHandler_List_ForbiddenForAdmin(t *testing.T) {
	tenants := new(testutil.MockTenantService)
	users := new(testutil.MockUserService)

	e := newUserApp(tenants, users)
	cookie := signIn(t, users, &models.User{ID: uuid.New(), Role: models.RoleAdmin})
	rec := testutil.NewHTTPTestClient(t, e).WithCookie(cookie).Get("/api/v1/users")

	assert.Equal(t, http.StatusForbidden, rec.Code)
}

func TestUserHandler_ListByTenant_AdminPinnedToOwnTenant(t *testing.T) {
	tenants := new(testutil.MockTenantService)
	users := new(testutil.MockUserService)

	tenantID := uuid.New()
	tenant := &models.Tenant{ID: tenantID, Slug: "river-house"}
	tenants.On("GetByDomain", mock.Anything, "riverhouse.com").Return(tenant, nil)
	users.On("ListByTenant", mock.Anything, tenantID).Return([]models.User{
		{ID: uuid.New(), TenantID: &tenantID},
	}, nil)

	e := newUserApp(tenants, users)
	admin := &models.User{ID: uuid.New(), Role: models.RoleAdmin, TenantID: &tenantID}
	cookie := signIn(t, users, admin)

	// The tenantId override is ignored for plain admins.
	rec := testutil.NewHTTPTestClient(t, e).
		WithCookie(cookie).
		WithHeader("Origin", "https://riverhouse.com").
		Get("/api/v1/users/by-tenant?tenantId=" + uuid.New().String())

	assert.Equal(t, http.StatusOK, rec.Code)
	users.AssertCalled(t, "ListByTenant", mock.Anything, tenantID)
}

func TestUserHandler_ListByTenant_SuperAdminOverride(t *testing.T) {
	tenants := new(testutil.MockTenantService)
	users := new(testutil.MockUserService)

	otherTenant := uuid.New()
	users.On("ListByTenant", mock.Anything, otherTenant).Return([]models.User{}, nil)

	e := newUserApp(tenants, users)
	rec := superAdminClient(t, e, users).Get("/api/v1/users/by-tenant?tenantId=" + otherTenant.String())

	assert.Equal(t, http.StatusOK, rec.Code)
	users.AssertCalled(t, "ListByTenant", mock.Anything, otherTenant)
}

func TestUserHandler_ListByTenant_NoTenantInScope(t *testing.T) {
	tenants := new(testutil.MockTenantService)
	users := new(testutil.MockUserService)

	e := newUserApp(tenants, users)
	rec := superAdminClient(t, e, users).Get("/api/v1/users/by-tenant")

	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestUserHandler_UpdateRole(t *testing.T) {
	tenants := new(testutil.MockTenantService)
	users := new(testutil.MockUserService)

	target := uuid.New()
	promoted := &models.User{ID: target, Role: models.RoleSuperAdmin}
	users.On("UpdateRole", mock.Anything, target, models.RoleSuperAdmin).Return(promoted, nil)

	e := newUserApp(tenants, users)
	rec := superAdminClient(t, e, users).Patch("/api/v1/users/"+target.String()+"/role",
		dto.UpdateRoleRequest{Role: "super_admin"})

	assert.Equal(t, http.StatusOK, rec.Code)
	users.AssertExpectations(t)
}

func TestUserHandler_UpdateRole_InvalidRole(t *testing.T) {
	tenants := new(testutil.MockTenantService)
	users := new(testutil.MockUserService)

	e := newUserApp(tenants, users)
	rec := superAdminClient(t, e, users).Patch("/api/v1/users/"+uuid.New().String()+"/role",
		dto.UpdateRoleRequest{Role: "emperor"})

	assert.Equal(t, http.StatusBadRequest, rec.Code)
	assert.Contains(t, rec.Body.String(), "invalid role")
	users.AssertNotCalled(t, "UpdateRole", mock.Anything, mock.Anything, mock.Anything)
}

func TestUserHandler_AssignToTenant(t *testing.T) {
	tenants := new(testutil.MockTenantService)
	users := new(testutil.MockUserService)

	target := uuid.New()
	tenantID := uuid.New()
	users.On("AssignToTenant", mock.Anything, target, tenantID).
		Return(&models.User{ID: target, TenantID: &tenantID}, nil)

	e := newUserApp(tenants, users)
	rec := superAdminClient(t, e, users).Patch("/api/v1/users/"+target.String()+"/tenant",
		dto.AssignTenantRequest{TenantID: tenantID.String()})

	assert.Equal(t, http.StatusOK, rec.Code)
	users.AssertExpectations(t)
}

func TestUserHandler_Delete_Self(t *testing.T) {
	tenants := new(testutil.MockTenantService)
	users := new(testutil.MockUserService)

	self := &models.User{ID: uuid.New(), Role: models.RoleSuperAdmin}
	cookie := signIn(t, users, self)

	e := newUserApp(tenants, users)
	rec := testutil.NewHTTPTestClient(t, e).WithCookie(cookie).
		Delete("/api/v1/users/"+self.ID.String(), nil)

	assert.Equal(t, http.StatusBadRequest, rec.Code)
	assert.Contains(t, rec.Body.String(), "cannot delete yourself")
	users.AssertNotCalled(t, "Delete", mock.Anything, mock.Anything)
}

func TestUserHandler_Delete_NotFound(t *testing.T) {
	tenants := new(testutil.MockTenantService)
	users := new(testutil.MockUserService)

	target := uuid.New()
	users.On("Delete", mock.Anything, target).Return(false, nil)

	e := newUserApp(tenants, users)
	rec := superAdminClient(t, e, users).Delete("/api/v1/users/"+target.String(), nil)

	assert.Equal(t, http.StatusNotFound, rec.Code)
}
