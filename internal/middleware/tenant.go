package middleware

import (
	"context"
	"strings"

	"github.com/atelierhq/atelier-api/internal/logger"
	"github.com/atelierhq/atelier-api/internal/models"
	"github.com/labstack/echo/v4"
	"go.uber.org/zap"
)

const scopeKey = "scope"

// Scope is the per-request authorization context. It is resolved exactly
// once, before any handler runs, and every authorization decision downstream
// reads from it.
type Scope struct {
	// Tenant is the active tenant matching the request domain, or nil.
	Tenant *models.Tenant
	// User is the authenticated session user, or nil.
	User *models.User
	// IsSuperAdmin marks requests arriving on a platform-operator domain.
	// It describes the DOMAIN, not the user's role.
	IsSuperAdmin bool
}

// GetScope returns the request scope, creating an empty one if no resolver
// ran (only the case in tests).
func GetScope(c echo.Context) *Scope {
	if scope, ok := c.Get(scopeKey).(*Scope); ok {
		return scope
	}
	scope := &Scope{}
	c.Set(scopeKey, scope)
	return scope
}

// TenantGetter is the slice of the tenant service the resolver needs.
type TenantGetter interface {
	GetByDomain(ctx context.Context, domain string) (*models.Tenant, error)
}

// ResolveTenant determines the request's tenant context from the Origin
// header (falling back to Host). Platform-operator domains short-circuit the
// tenant lookup. An unrecognized domain yields an empty scope, never an
// error.
func ResolveTenant(tenants TenantGetter, superAdminDomains []string) echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			scope := &Scope{}
			c.Set(scopeKey, scope)

			domain := requestDomain(c)
			if domain == "" {
				return next(c)
			}

			if isSuperAdminDomain(domain, superAdminDomains) {
				scope.IsSuperAdmin = true
				return next(c)
			}

			tenant, err := tenants.GetByDomain(c.Request().Context(), domain)
			if err != nil {
				logger.FromContext(c).Error("tenant resolution failed",
					zap.String("domain", domain), zap.Error(err))
				return next(c)
			}
			scope.Tenant = tenant
			return next(c)
		}
	}
}

// requestDomain prefers the Origin header (scheme stripped) and falls back
// to the Host header for same-origin or non-browser requests.
func requestDomain(c echo.Context) string {
	origin := c.Request().Header.Get("Origin")
	if origin != "" {
		origin = strings.TrimPrefix(origin, "https://")
		origin = strings.TrimPrefix(origin, "http://")
		return origin
	}
	return c.Request().Host
}

func isSuperAdminDomain(domain string, superAdminDomains []string) bool {
	for _, d := range superAdminDomains {
		if strings.HasPrefix(domain, d) {
			return true
		}
	}
	return false
}
