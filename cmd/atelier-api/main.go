package main

import (
	"context"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"strings"
	"syscall"
	"time"

	"github.com/atelierhq/atelier-api/internal/config"
	"github.com/atelierhq/atelier-api/internal/database"
	"github.com/atelierhq/atelier-api/internal/handlers"
	"github.com/atelierhq/atelier-api/internal/logger"
	"github.com/atelierhq/atelier-api/internal/media"
	appmw "github.com/atelierhq/atelier-api/internal/middleware"
	"github.com/atelierhq/atelier-api/internal/oauth"
	"github.com/atelierhq/atelier-api/internal/services"
	"github.com/labstack/echo/v4"
	echomw "github.com/labstack/echo/v4/middleware"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"go.uber.org/zap"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		fmt.Fprintf(os.Stderr, "failed to load config: %v\n", err)
		os.Exit(1)
	}

	log := logger.Init(cfg.Env)
	defer func() { _ = log.Sync() }()

	ctx := context.Background()

	db, err := database.New(ctx, cfg.DatabaseURL)
	if err != nil {
		log.Fatal("failed to connect to database", zap.Error(err))
	}
	defer db.Close()

	if err := db.Migrate(ctx); err != nil {
		log.Fatal("failed to run migrations", zap.Error(err))
	}

	tenantService := services.NewTenantService(db)
	userService := services.NewUserService(db, cfg.SuperAdmin.Emails)
	imageService := services.NewImageService(db)
	sessionService := services.NewJWTService(cfg.JWTSecret, cfg.SessionExpiry)

	mediaClient := media.NewClient(cfg.Media)
	provider := oauth.NewIdentityProvider(cfg.AuthService, cfg.BackendURL+"/api/auth/callback")

	authHandler := handlers.NewAuthHandler(provider, userService, tenantService, sessionService, cfg.FrontendURL)
	tenantHandler := handlers.NewTenantHandler(tenantService)
	userHandler := handlers.NewUserHandler(userService)
	imageHandler := handlers.NewImageHandler(imageService)
	uploadHandler := handlers.NewUploadHandler(mediaClient, imageService)

	e := echo.New()
	e.HideBanner = true
	e.HidePort = true

	e.Use(echomw.Recover())
	e.Use(echomw.CORSWithConfig(echomw.CORSConfig{
		AllowOriginFunc:  allowOrigin(cfg, tenantService),
		AllowMethods:     []string{http.MethodGet, http.MethodPost, http.MethodPatch, http.MethodDelete, http.MethodOptions},
		AllowHeaders:     []string{echo.HeaderOrigin, echo.HeaderContentType, echo.HeaderAccept},
		AllowCredentials: true,
		MaxAge:           86400,
	}))
	e.Use(appmw.RequestID)
	e.Use(appmw.RequestLogger)
	e.Use(appmw.Metrics)
	e.Use(appmw.ResolveTenant(tenantService, cfg.SuperAdmin.Domains))
	e.Use(appmw.Session(sessionService, userService))

	e.GET("/health", func(c echo.Context) error {
		return c.JSON(http.StatusOK, echo.Map{"status": "ok"})
	})
	e.GET("/metrics", echo.WrapHandler(promhttp.Handler()))

	auth := e.Group("/api/auth")
	auth.GET("/google", authHandler.Login)
	auth.GET("/callback", authHandler.Callback)
	auth.GET("/me", authHandler.Me)
	auth.GET("/status", authHandler.Status)
	auth.POST("/logout", authHandler.Logout)

	api := e.Group("/api/v1")

	api.GET("/tenants/current", tenantHandler.GetCurrent)
	api.GET("/tenants/active", tenantHandler.ListActive, appmw.RequireSuperAdmin)
	api.GET("/tenants/check-slug", tenantHandler.CheckSlug, appmw.RequireSuperAdmin)
	api.GET("/tenants/check-domain", tenantHandler.CheckDomain, appmw.RequireSuperAdmin)
	api.GET("/tenants", tenantHandler.List, appmw.RequireSuperAdmin)
	api.POST("/tenants", tenantHandler.Create, appmw.RequireSuperAdmin)
	api.GET("/tenants/:id", tenantHandler.GetByID, appmw.RequireSuperAdmin)
	api.PATCH("/tenants/:id", tenantHandler.Update, appmw.RequireSuperAdmin)
	api.DELETE("/tenants/:id", tenantHandler.Delete, appmw.RequireSuperAdmin)

	api.GET("/users", userHandler.List, appmw.RequireSuperAdmin)
	api.GET("/users/by-tenant", userHandler.ListByTenant, appmw.RequireTenantAdmin)
	api.PATCH("/users/:id/role", userHandler.UpdateRole, appmw.RequireSuperAdmin)
	api.PATCH("/users/:id/tenant", userHandler.AssignToTenant, appmw.RequireSuperAdmin)
	api.DELETE("/users/:id", userHandler.Delete, appmw.RequireSuperAdmin)

	api.GET("/images", imageHandler.List, appmw.RequireTenantAdmin)
	api.GET("/images/by-url", imageHandler.GetByURL, appmw.RequireTenantAdmin)
	api.GET("/images/stats", imageHandler.Stats, appmw.RequireTenantAdmin)
	api.PATCH("/images/:id", imageHandler.Update, appmw.RequireTenantAdmin)
	api.DELETE("/images/:id", imageHandler.Delete, appmw.RequireTenantAdmin)

	api.POST("/upload", uploadHandler.Upload, appmw.RequireTenantAdmin)
	api.POST("/upload/multiple", uploadHandler.UploadMultiple, appmw.RequireTenantAdmin)
	api.POST("/upload/delete", uploadHandler.Delete, appmw.RequireTenantAdmin)
	api.GET("/upload/hosted", uploadHandler.ListHosted, appmw.RequireTenantAdmin)

	go func() {
		addr := ":" + cfg.Port
		log.Info("server starting", zap.String("addr", addr), zap.String("env", cfg.Env))
		if err := e.Start(addr); err != nil && err != http.ErrServerClosed {
			log.Fatal("server failed", zap.Error(err))
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	log.Info("shutting down server")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := e.Shutdown(shutdownCtx); err != nil {
		log.Error("shutdown failed", zap.Error(err))
	}
}

// allowOrigin admits the operator admin domains, every active tenant domain,
// and localhost during development. Cookies ride on these requests, so the
// wildcard origin is never acceptable.
func allowOrigin(cfg *config.Config, tenants *services.TenantService) func(origin string) (bool, error) {
	return func(origin string) (bool, error) {
		host := strings.TrimPrefix(strings.TrimPrefix(origin, "https://"), "http://")

		if !cfg.IsProduction() && strings.HasPrefix(host, "localhost") {
			return true, nil
		}
		for _, domain := range cfg.SuperAdmin.Domains {
			if strings.HasPrefix(host, domain) {
				return true, nil
			}
		}

		ctx, cancel := context.WithTimeout(context.Background(), 3*time.Second)
		defer cancel()
		tenant, err := tenants.GetByDomain(ctx, host)
		if err != nil {
			return false, nil
		}
		return tenant != nil, nil
	}
}
