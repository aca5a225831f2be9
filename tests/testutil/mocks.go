package testutil

import (
	"context"
	"time"

	"github.com/atelierhq/atelier-api/internal/media"
	"github.com/atelierhq/atelier-api/internal/models"
	"github.com/atelierhq/atelier-api/internal/oauth"
	"github.com/atelierhq/atelier-api/internal/services"
	"github.com/google/uuid"
	"github.com/stretchr/testify/mock"
)

// MockTenantService mocks the TenantService
type MockTenantService struct {
	mock.Mock
}

func (m *MockTenantService) GetByID(ctx context.Context, id uuid.UUID) (*models.Tenant, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.Tenant), args.Error(1)
}

func (m *MockTenantService) GetByDomain(ctx context.Context, domain string) (*models.Tenant, error) {
	args := m.Called(ctx, domain)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.Tenant), args.Error(1)
}

func (m *MockTenantService) List(ctx context.Context) ([]models.Tenant, error) {
	args := m.Called(ctx)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]models.Tenant), args.Error(1)
}

func (m *MockTenantService) ListActive(ctx context.Context) ([]models.Tenant, error) {
	args := m.Called(ctx)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]models.Tenant), args.Error(1)
}

func (m *MockTenantService) Create(ctx context.Context, params services.CreateTenantParams) (*models.Tenant, error) {
	args := m.Called(ctx, params)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.Tenant), args.Error(1)
}

func (m *MockTenantService) Update(ctx context.Context, id uuid.UUID, params services.UpdateTenantParams) (*models.Tenant, error) {
	args := m.Called(ctx, id, params)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.Tenant), args.Error(1)
}

func (m *MockTenantService) Delete(ctx context.Context, id uuid.UUID) (bool, error) {
	args := m.Called(ctx, id)
	return args.Bool(0), args.Error(1)
}

func (m *MockTenantService) IsDomainAvailable(ctx context.Context, domain string, excludeID *uuid.UUID) (bool, error) {
	args := m.Called(ctx, domain, excludeID)
	return args.Bool(0), args.Error(1)
}

func (m *MockTenantService) IsSlugAvailable(ctx context.Context, slug string, excludeID *uuid.UUID) (bool, error) {
	args := m.Called(ctx, slug, excludeID)
	return args.Bool(0), args.Error(1)
}

// MockUserService mocks the UserService
type MockUserService struct {
	mock.Mock
}

func (m *MockUserService) GetByID(ctx context.Context, id uuid.UUID) (*models.User, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.User), args.Error(1)
}

func (m *MockUserService) FindOrCreate(ctx context.Context, identity services.ExternalIdentity, tenantID *uuid.UUID) (*models.User, error) {
	args := m.Called(ctx, identity, tenantID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.User), args.Error(1)
}

func (m *MockUserService) List(ctx context.Context) ([]models.User, error) {
	args := m.Called(ctx)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]models.User), args.Error(1)
}

func (m *MockUserService) ListByTenant(ctx context.Context, tenantID uuid.UUID) ([]models.User, error) {
	args := m.Called(ctx, tenantID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]models.User), args.Error(1)
}

func (m *MockUserService) UpdateRole(ctx context.Context, id uuid.UUID, role models.Role) (*models.User, error) {
	args := m.Called(ctx, id, role)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.User), args.Error(1)
}

func (m *MockUserService) AssignToTenant(ctx context.Context, id, tenantID uuid.UUID) (*models.User, error) {
	args := m.Called(ctx, id, tenantID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.User), args.Error(1)
}

func (m *MockUserService) Delete(ctx context.Context, id uuid.UUID) (bool, error) {
	args := m.Called(ctx, id)
	return args.Bool(0), args.Error(1)
}

// MockImageService mocks the ImageService
type MockImageService struct {
	mock.Mock
}

func (m *MockImageService) GetByID(ctx context.Context, id uuid.UUID) (*models.Image, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.Image), args.Error(1)
}

func (m *MockImageService) GetByPublicID(ctx context.Context, publicID string) (*models.Image, error) {
	args := m.Called(ctx, publicID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.Image), args.Error(1)
}

func (m *MockImageService) GetByURL(ctx context.Context, url string) (*models.Image, error) {
	args := m.Called(ctx, url)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.Image), args.Error(1)
}

func (m *MockImageService) Create(ctx context.Context, params services.CreateImageParams) (*models.Image, error) {
	args := m.Called(ctx, params)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.Image), args.Error(1)
}

func (m *MockImageService) List(ctx context.Context, params services.ListImagesParams) (*services.ImageList, error) {
	args := m.Called(ctx, params)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*services.ImageList), args.Error(1)
}

func (m *MockImageService) Update(ctx context.Context, id uuid.UUID, params services.UpdateImageParams) (*models.Image, error) {
	args := m.Called(ctx, id, params)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.Image), args.Error(1)
}

func (m *MockImageService) Delete(ctx context.Context, id uuid.UUID) (bool, error) {
	args := m.Called(ctx, id)
	return args.Bool(0), args.Error(1)
}

func (m *MockImageService) Stats(ctx context.Context, tenantID uuid.UUID) (*services.ImageStats, error) {
	args := m.Called(ctx, tenantID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*services.ImageStats), args.Error(1)
}

// MockIdentityProvider mocks the delegated sign-in provider
type MockIdentityProvider struct {
	mock.Mock
}

func (m *MockIdentityProvider) ConsentURL(state string) string {
	args := m.Called(state)
	return args.String(0)
}

func (m *MockIdentityProvider) Exchange(ctx context.Context, code string) (*oauth.Identity, error) {
	args := m.Called(ctx, code)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*oauth.Identity), args.Error(1)
}

// MockSessionService mocks the JWTService
type MockSessionService struct {
	mock.Mock
}

func (m *MockSessionService) Generate(userID uuid.UUID, role models.Role, tenantID *uuid.UUID) (string, error) {
	args := m.Called(userID, role, tenantID)
	return args.String(0), args.Error(1)
}

func (m *MockSessionService) Expiry() time.Duration {
	args := m.Called()
	return args.Get(0).(time.Duration)
}

// MockMediaClient mocks the media host client
type MockMediaClient struct {
	mock.Mock
}

func (m *MockMediaClient) Configured() bool {
	args := m.Called()
	return args.Bool(0)
}

func (m *MockMediaClient) Upload(ctx context.Context, file, folder string) (*media.UploadResult, error) {
	args := m.Called(ctx, file, folder)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*media.UploadResult), args.Error(1)
}

func (m *MockMediaClient) Destroy(ctx context.Context, publicID string) (bool, error) {
	args := m.Called(ctx, publicID)
	return args.Bool(0), args.Error(1)
}

func (m *MockMediaClient) ListByFolder(ctx context.Context, folder string) ([]media.UploadResult, error) {
	args := m.Called(ctx, folder)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]media.UploadResult), args.Error(1)
}
