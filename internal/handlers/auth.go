package handlers

import (
	"net/http"

	"github.com/atelierhq/atelier-api/internal/logger"
	"github.com/atelierhq/atelier-api/internal/middleware"
	"github.com/atelierhq/atelier-api/internal/models"
	"github.com/atelierhq/atelier-api/internal/oauth"
	"github.com/atelierhq/atelier-api/internal/services"
	"github.com/atelierhq/atelier-api/pkg/dto"
	"github.com/google/uuid"
	"github.com/labstack/echo/v4"
	"go.uber.org/zap"
)

type AuthHandler struct {
	provider    IdentityProviderInterface
	users       UserServiceInterface
	tenants     TenantServiceInterface
	sessions    SessionServiceInterface
	frontendURL string
}

func NewAuthHandler(provider IdentityProviderInterface, users UserServiceInterface,
	tenants TenantServiceInterface, sessions SessionServiceInterface, frontendURL string) *AuthHandler {
	return &AuthHandler{
		provider:    provider,
		users:       users,
		tenants:     tenants,
		sessions:    sessions,
		frontendURL: frontendURL,
	}
}

// Login starts the delegated sign-in. The originating tenant domain rides
// along in the state parameter so the callback can route the user back.
func (h *AuthHandler) Login(c echo.Context) error {
	domain := c.QueryParam("tenant_domain")
	if domain == "" {
		if tenant := middleware.GetScope(c).Tenant; tenant != nil {
			domain = tenant.PrimaryDomain
		}
	}

	state, err := oauth.EncodeState(domain)
	if err != nil {
		return c.JSON(http.StatusInternalServerError, dto.ErrorResponse{Error: "failed to start login"})
	}
	return c.Redirect(http.StatusFound, h.provider.ConsentURL(state))
}

// Callback finishes the sign-in: exchange the code, verify the identity,
// apply the tenant's admin allow-list, establish the session cookie, and
// send the browser back to the admin panel.
func (h *AuthHandler) Callback(c echo.Context) error {
	ctx := c.Request().Context()
	log := logger.FromContext(c)

	var domain string
	if state, err := oauth.DecodeState(c.QueryParam("state")); err == nil {
		domain = state.Domain
	}
	redirectBase := h.frontendURL
	if domain != "" {
		redirectBase = "https://" + domain
	}

	loginError := func(code string) error {
		middleware.RecordLogin("failure")
		return c.Redirect(http.StatusFound, redirectBase+"/admin/login?error="+code)
	}

	if errCode := c.QueryParam("error"); errCode != "" {
		log.Warn("sign-in denied upstream", zap.String("error", errCode))
		return loginError("access_denied")
	}
	code := c.QueryParam("code")
	if code == "" {
		return loginError("missing_code")
	}

	identity, err := h.provider.Exchange(ctx, code)
	if err != nil {
		log.Warn("code exchange failed", zap.Error(err))
		return loginError("invalid_token")
	}

	var tenant *models.Tenant
	if domain != "" {
		tenant, err = h.tenants.GetByDomain(ctx, domain)
		if err != nil {
			log.Error("tenant lookup failed", zap.String("domain", domain), zap.Error(err))
			return loginError("auth_error")
		}
	}

	if tenant != nil && len(tenant.Settings.AllowedAdminEmails) > 0 &&
		!containsString(tenant.Settings.AllowedAdminEmails, identity.Email) {
		log.Warn("email not on tenant allow-list",
			zap.String("email", identity.Email), zap.String("tenant", tenant.Slug))
		middleware.RecordLogin("rejected")
		return c.Redirect(http.StatusFound, redirectBase+"/admin/unauthorized")
	}

	var tenantID *uuid.UUID
	if tenant != nil {
		tenantID = &tenant.ID
	}
	user, err := h.users.FindOrCreate(ctx, services.ExternalIdentity{
		GoogleID: identity.GoogleID,
		Email:    identity.Email,
		Name:     identity.Name,
		Picture:  identity.Picture,
		Claims:   identity.Claims,
	}, tenantID)
	if err != nil {
		log.Error("find-or-create failed", zap.Error(err))
		return loginError("auth_error")
	}

	token, err := h.sessions.Generate(user.ID, user.Role, user.TenantID)
	if err != nil {
		log.Error("session token generation failed", zap.Error(err))
		return loginError("auth_error")
	}
	middleware.SetSessionCookie(c, token, h.sessions.Expiry())
	middleware.RecordLogin("success")

	log.Info("user signed in",
		zap.String("user_id", user.ID.String()), zap.String("role", string(user.Role)))

	if user.Role == models.RoleAdmin || user.Role == models.RoleSuperAdmin {
		return c.Redirect(http.StatusFound, redirectBase+"/admin")
	}
	return c.Redirect(http.StatusFound, redirectBase+"/admin/unauthorized")
}

// Me returns the session user, or null for anonymous requests.
func (h *AuthHandler) Me(c echo.Context) error {
	return c.JSON(http.StatusOK, dto.MeResponse{User: middleware.GetScope(c).User})
}

func (h *AuthHandler) Logout(c echo.Context) error {
	middleware.ClearSessionCookie(c)
	return c.JSON(http.StatusOK, dto.LogoutResponse{Success: true})
}

func (h *AuthHandler) Status(c echo.Context) error {
	resp := dto.StatusResponse{}
	if user := middleware.GetScope(c).User; user != nil {
		resp.Authenticated = true
		resp.Role = string(user.Role)
	}
	return c.JSON(http.StatusOK, resp)
}

func containsString(list []string, value string) bool {
	for _, item := range list {
		if item == value {
			return true
		}
	}
	return false
}
