package middleware

import (
	"context"
	"net/http"
	"time"

	"github.com/atelierhq/atelier-api/internal/logger"
	"github.com/atelierhq/atelier-api/internal/models"
	"github.com/atelierhq/atelier-api/internal/services"
	"github.com/google/uuid"
	"github.com/labstack/echo/v4"
	"go.uber.org/zap"
)

const CookieName = "auth_token"

// SetSessionCookie writes the session token. The admin panel is served from
// a different origin than the API, so the cookie must be cross-site capable.
func SetSessionCookie(c echo.Context, token string, maxAge time.Duration) {
	c.SetCookie(&http.Cookie{
		Name:     CookieName,
		Value:    token,
		Path:     "/",
		MaxAge:   int(maxAge.Seconds()),
		HttpOnly: true,
		Secure:   true,
		SameSite: http.SameSiteNoneMode,
	})
}

func ClearSessionCookie(c echo.Context) {
	c.SetCookie(&http.Cookie{
		Name:     CookieName,
		Value:    "",
		Path:     "/",
		MaxAge:   -1,
		HttpOnly: true,
		Secure:   true,
		SameSite: http.SameSiteNoneMode,
	})
}

// SessionVerifier validates a session token, returning nil claims for any
// invalid token.
type SessionVerifier interface {
	Verify(token string) *services.SessionClaims
}

// UserGetter is the slice of the user service session loading needs.
type UserGetter interface {
	GetByID(ctx context.Context, id uuid.UUID) (*models.User, error)
}

// Session loads the authenticated user into the request scope from the
// session cookie. A missing, invalid, or stale cookie leaves the scope
// anonymous; guards downstream decide whether that is acceptable.
func Session(sessions SessionVerifier, users UserGetter) echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			cookie, err := c.Cookie(CookieName)
			if err != nil || cookie.Value == "" {
				return next(c)
			}

			claims := sessions.Verify(cookie.Value)
			if claims == nil {
				return next(c)
			}

			user, err := users.GetByID(c.Request().Context(), claims.UserID)
			if err != nil {
				logger.FromContext(c).Error("session user lookup failed",
					zap.String("user_id", claims.UserID.String()), zap.Error(err))
				return next(c)
			}

			GetScope(c).User = user
			return next(c)
		}
	}
}

// RequireAuthenticated rejects anonymous requests.
func RequireAuthenticated(next echo.HandlerFunc) echo.HandlerFunc {
	return func(c echo.Context) error {
		if GetScope(c).User == nil {
			return c.JSON(http.StatusUnauthorized, echo.Map{"error": "unauthorized"})
		}
		return next(c)
	}
}

// RequireAdmin rejects anonymous requests and users below admin.
func RequireAdmin(next echo.HandlerFunc) echo.HandlerFunc {
	return func(c echo.Context) error {
		user := GetScope(c).User
		if user == nil {
			return c.JSON(http.StatusUnauthorized, echo.Map{"error": "unauthorized"})
		}
		if user.Role != models.RoleAdmin && user.Role != models.RoleSuperAdmin {
			return c.JSON(http.StatusForbidden, echo.Map{"error": "forbidden"})
		}
		return next(c)
	}
}

// RequireTenantAdmin admits super admins anywhere, and admins only on their
// own tenant's resolved domain.
func RequireTenantAdmin(next echo.HandlerFunc) echo.HandlerFunc {
	return func(c echo.Context) error {
		scope := GetScope(c)
		if scope.User == nil {
			return c.JSON(http.StatusUnauthorized, echo.Map{"error": "unauthorized"})
		}
		if scope.User.Role == models.RoleSuperAdmin {
			return next(c)
		}
		if scope.User.Role != models.RoleAdmin {
			return c.JSON(http.StatusForbidden, echo.Map{"error": "forbidden"})
		}
		if scope.Tenant == nil || scope.User.TenantID == nil || *scope.User.TenantID != scope.Tenant.ID {
			return c.JSON(http.StatusForbidden, echo.Map{"error": "forbidden"})
		}
		return next(c)
	}
}

// RequireSuperAdmin admits platform operators only.
func RequireSuperAdmin(next echo.HandlerFunc) echo.HandlerFunc {
	return func(c echo.Context) error {
		user := GetScope(c).User
		if user == nil {
			return c.JSON(http.StatusUnauthorized, echo.Map{"error": "unauthorized"})
		}
		if user.Role != models.RoleSuperAdmin {
			return c.JSON(http.StatusForbidden, echo.Map{"error": "forbidden"})
		}
		return next(c)
	}
}
