package handlers

import (
	"context"
	"time"

	"github.com/atelierhq/atelier-api/internal/media"
	"github.com/atelierhq/atelier-api/internal/models"
	"github.com/atelierhq/atelier-api/internal/oauth"
	"github.com/atelierhq/atelier-api/internal/services"
	"github.com/google/uuid"
)

// TenantServiceInterface defines the methods used by handlers from TenantService
type TenantServiceInterface interface {
	GetByID(ctx context.Context, id uuid.UUID) (*models.Tenant, error)
	GetByDomain(ctx context.Context, domain string) (*models.Tenant, error)
	List(ctx context.Context) ([]models.Tenant, error)
	ListActive(ctx context.Context) ([]models.Tenant, error)
	Create(ctx context.Context, params services.CreateTenantParams) (*models.Tenant, error)
	Update(ctx context.Context, id uuid.UUID, params services.UpdateTenantParams) (*models.Tenant, error)
	Delete(ctx context.Context, id uuid.UUID) (bool, error)
	IsDomainAvailable(ctx context.Context, domain string, excludeID *uuid.UUID) (bool, error)
	IsSlugAvailable(ctx context.Context, slug string, excludeID *uuid.UUID) (bool, error)
}

// UserServiceInterface defines the methods used by handlers from UserService
type UserServiceInterface interface {
	GetByID(ctx context.Context, id uuid.UUID) (*models.User, error)
	FindOrCreate(ctx context.Context, identity services.ExternalIdentity, tenantID *uuid.UUID) (*models.User, error)
	List(ctx context.Context) ([]models.User, error)
	ListByTenant(ctx context.Context, tenantID uuid.UUID) ([]models.User, error)
	UpdateRole(ctx context.Context, id uuid.UUID, role models.Role) (*models.User, error)
	AssignToTenant(ctx context.Context, id, tenantID uuid.UUID) (*models.User, error)
	Delete(ctx context.Context, id uuid.UUID) (bool, error)
}

// ImageServiceInterface defines the methods used by handlers from ImageService
type ImageServiceInterface interface {
	GetByID(ctx context.Context, id uuid.UUID) (*models.Image, error)
	GetByPublicID(ctx context.Context, publicID string) (*models.Image, error)
	GetByURL(ctx context.Context, url string) (*models.Image, error)
	Create(ctx context.Context, params services.CreateImageParams) (*models.Image, error)
	List(ctx context.Context, params services.ListImagesParams) (*services.ImageList, error)
	Update(ctx context.Context, id uuid.UUID, params services.UpdateImageParams) (*models.Image, error)
	Delete(ctx context.Context, id uuid.UUID) (bool, error)
	Stats(ctx context.Context, tenantID uuid.UUID) (*services.ImageStats, error)
}

// SessionServiceInterface defines the methods used by handlers from JWTService
type SessionServiceInterface interface {
	Generate(userID uuid.UUID, role models.Role, tenantID *uuid.UUID) (string, error)
	Expiry() time.Duration
}

// IdentityProviderInterface defines the delegated sign-in flow used by the auth handler
type IdentityProviderInterface interface {
	ConsentURL(state string) string
	Exchange(ctx context.Context, code string) (*oauth.Identity, error)
}

// MediaClientInterface defines the media host operations used by the upload handler
type MediaClientInterface interface {
	Configured() bool
	Upload(ctx context.Context, file, folder string) (*media.UploadResult, error)
	Destroy(ctx context.Context, publicID string) (bool, error)
	ListByFolder(ctx context.Context, folder string) ([]media.UploadResult, error)
}
