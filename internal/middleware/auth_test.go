package middleware

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/atelierhq/atelier-api/internal/models"
	"github.com/atelierhq/atelier-api/internal/services"
	"github.com/google/uuid"
	"github.com/labstack/echo/v4"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type stubVerifier struct {
	claims *services.SessionClaims
}

func (s *stubVerifier) Verify(string) *services.SessionClaims { return s.claims }

type stubUserGetter struct {
	user *models.User
	err  error
}

func (s *stubUserGetter) GetByID(context.Context, uuid.UUID) (*models.User, error) {
	return s.user, s.err
}

func newAuthContext(t *testing.T, cookie string) (echo.Context, *httptest.ResponseRecorder) {
	t.Helper()

	e := echo.New()
	req := httptest.NewRequest(http.MethodGet, "/", nil)
	if cookie != "" {
		req.AddCookie(&http.Cookie{Name: CookieName, Value: cookie})
	}
	rec := httptest.NewRecorder()
	return e.NewContext(req, rec), rec
}

func okHandler(c echo.Context) error {
	return c.NoContent(http.StatusOK)
}

func TestSetSessionCookie(t *testing.T) {
	c, rec := newAuthContext(t, "")

	SetSessionCookie(c, "token-value", 7*24*time.Hour)

	cookies := rec.Result().Cookies()
	require.Len(t, cookies, 1)
	cookie := cookies[0]
	assert.Equal(t, CookieName, cookie.Name)
	assert.Equal(t, "token-value", cookie.Value)
	assert.True(t, cookie.HttpOnly)
	assert.True(t, cookie.Secure)
	assert.Equal(t, http.SameSiteNoneMode, cookie.SameSite)
	assert.Equal(t, int((7 * 24 * time.Hour).Seconds()), cookie.MaxAge)
}

func TestClearSessionCookie(t *testing.T) {
	c, rec := newAuthContext(t, "")

	ClearSessionCookie(c)

	cookies := rec.Result().Cookies()
	require.Len(t, cookies, 1)
	assert.Empty(t, cookies[0].Value)
	assert.Negative(t, cookies[0].MaxAge)
}

func TestSession_LoadsUser(t *testing.T) {
	userID := uuid.New()
	user := &models.User{ID: userID, Role: models.RoleAdmin}
	mw := Session(
		&stubVerifier{claims: &services.SessionClaims{UserID: userID, Role: models.RoleAdmin}},
		&stubUserGetter{user: user},
	)

	c, _ := newAuthContext(t, "valid-token")
	require.NoError(t, mw(okHandler)(c))

	assert.Equal(t, user, GetScope(c).User)
}

func TestSession_NoCookie(t *testing.T) {
	mw := Session(&stubVerifier{}, &stubUserGetter{})

	c, _ := newAuthContext(t, "")
	require.NoError(t, mw(okHandler)(c))

	assert.Nil(t, GetScope(c).User)
}

func TestSession_InvalidToken(t *testing.T) {
	mw := Session(&stubVerifier{claims: nil}, &stubUserGetter{user: &models.User{}})

	c, _ := newAuthContext(t, "garbage")
	require.NoError(t, mw(okHandler)(c))

	assert.Nil(t, GetScope(c).User)
}

func TestSession_DeletedUser(t *testing.T) {
	userID := uuid.New()
	mw := Session(
		&stubVerifier{claims: &services.SessionClaims{UserID: userID}},
		&stubUserGetter{user: nil},
	)

	c, _ := newAuthContext(t, "valid-token")
	require.NoError(t, mw(okHandler)(c))

	assert.Nil(t, GetScope(c).User)
}

func scopedContext(t *testing.T, scope *Scope) (echo.Context, *httptest.ResponseRecorder) {
	t.Helper()

	c, rec := newAuthContext(t, "")
	c.Set(scopeKey, scope)
	return c, rec
}

func TestGuards(t *testing.T) {
	tenantA := uuid.New()
	tenantB := uuid.New()

	anonymous := &Scope{}
	adminOfA := func(tenant *uuid.UUID) *Scope {
		return &Scope{
			User:   &models.User{ID: uuid.New(), Role: models.RoleAdmin, TenantID: &tenantA},
			Tenant: tenantFor(tenant),
		}
	}
	superAdmin := func(tenant *uuid.UUID) *Scope {
		return &Scope{
			User:   &models.User{ID: uuid.New(), Role: models.RoleSuperAdmin},
			Tenant: tenantFor(tenant),
		}
	}

	tests := []struct {
		name  string
		guard echo.MiddlewareFunc
		scope *Scope
		want  int
	}{
		{"authenticated rejects anonymous", RequireAuthenticated, anonymous, http.StatusUnauthorized},
		{"authenticated admits admin", RequireAuthenticated, adminOfA(nil), http.StatusOK},

		{"admin rejects anonymous", RequireAdmin, anonymous, http.StatusUnauthorized},
		{"admin admits admin", RequireAdmin, adminOfA(nil), http.StatusOK},
		{"admin admits super admin", RequireAdmin, superAdmin(nil), http.StatusOK},

		{"tenant admin rejects anonymous", RequireTenantAdmin, anonymous, http.StatusUnauthorized},
		{"tenant admin admits admin on own tenant", RequireTenantAdmin, adminOfA(&tenantA), http.StatusOK},
		{"tenant admin rejects admin on another tenant", RequireTenantAdmin, adminOfA(&tenantB), http.StatusForbidden},
		{"tenant admin rejects admin with no resolved tenant", RequireTenantAdmin, adminOfA(nil), http.StatusForbidden},
		{"tenant admin admits super admin anywhere", RequireTenantAdmin, superAdmin(&tenantB), http.StatusOK},
		{"tenant admin admits super admin with no tenant", RequireTenantAdmin, superAdmin(nil), http.StatusOK},

		{"super admin rejects anonymous", RequireSuperAdmin, anonymous, http.StatusUnauthorized},
		{"super admin rejects admin", RequireSuperAdmin, adminOfA(nil), http.StatusForbidden},
		{"super admin admits super admin", RequireSuperAdmin, superAdmin(nil), http.StatusOK},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			c, rec := scopedContext(t, tt.scope)
			require.NoError(t, tt.guard(okHandler)(c))
			assert.Equal(t, tt.want, rec.Code)
		})
	}
}

func tenantFor(id *uuid.UUID) *models.Tenant {
	if id == nil {
		return nil
	}
	return &models.Tenant{ID: *id}
}

func TestRequireTenantAdmin_UnassignedAdmin(t *testing.T) {
	tenant := uuid.New()
	scope := &Scope{
		User:   &models.User{ID: uuid.New(), Role: models.RoleAdmin, TenantID: nil},
		Tenant: &models.Tenant{ID: tenant},
	}

	c, rec := scopedContext(t, scope)
	require.NoError(t, RequireTenantAdmin(okHandler)(c))
	assert.Equal(t, http.StatusForbidden, rec.Code)
}
