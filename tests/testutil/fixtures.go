package testutil

import (
	"context"
	"encoding/json"
	"fmt"
	"testing"

	"github.com/atelierhq/atelier-api/internal/database"
	"github.com/atelierhq/atelier-api/internal/models"
	"github.com/atelierhq/atelier-api/internal/services"
	"github.com/google/uuid"
)

// Fixtures provides factory methods for creating test data
type Fixtures struct {
	db      *database.DB
	counter int
}

// NewFixtures creates a new fixtures factory
func NewFixtures(db *database.DB) *Fixtures {
	return &Fixtures{db: db}
}

// CreateTenant creates a test tenant with default values
func (f *Fixtures) CreateTenant(t *testing.T, opts ...TenantOption) *models.Tenant {
	t.Helper()
	f.counter++

	tenant := &models.Tenant{
		Name:          fmt.Sprintf("Test Studio %d", f.counter),
		Slug:          fmt.Sprintf("test-studio-%d", f.counter),
		Domains:       []string{fmt.Sprintf("studio%d.example.com", f.counter)},
		PrimaryDomain: fmt.Sprintf("studio%d.example.com", f.counter),
		BrandColor:    models.DefaultBrandColor,
		ContactEmail:  fmt.Sprintf("owner%d@example.com", f.counter),
		IsActive:      true,
		Settings:      models.TenantSettings{AllowedAdminEmails: []string{}},
	}

	for _, opt := range opts {
		opt(tenant)
	}

	ctx := context.Background()
	err := f.db.Pool.QueryRow(ctx, `
		INSERT INTO tenants (name, slug, domains, primary_domain, logo_url, brand_color, contact_email, is_active, allowed_admin_emails)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9)
		RETURNING id, created_at, updated_at
	`, tenant.Name, tenant.Slug, tenant.Domains, tenant.PrimaryDomain, tenant.LogoURL,
		tenant.BrandColor, tenant.ContactEmail, tenant.IsActive, tenant.Settings.AllowedAdminEmails).Scan(
		&tenant.ID, &tenant.CreatedAt, &tenant.UpdatedAt,
	)
	if err != nil {
		t.Fatalf("failed to create tenant: %v", err)
	}

	return tenant
}

// TenantOption configures a test tenant
type TenantOption func(*models.Tenant)

// WithSlug sets the tenant's slug
func WithSlug(slug string) TenantOption {
	return func(tn *models.Tenant) {
		tn.Slug = slug
	}
}

// WithDomains sets the tenant's domains; the first becomes primary
func WithDomains(domains ...string) TenantOption {
	return func(tn *models.Tenant) {
		tn.Domains = domains
		tn.PrimaryDomain = domains[0]
	}
}

// WithAllowedAdminEmails restricts which identities may sign in
func WithAllowedAdminEmails(emails ...string) TenantOption {
	return func(tn *models.Tenant) {
		tn.Settings.AllowedAdminEmails = emails
	}
}

// Inactive marks the tenant as deactivated
func Inactive() TenantOption {
	return func(tn *models.Tenant) {
		tn.IsActive = false
	}
}

// CreateUser creates a test user with default values
func (f *Fixtures) CreateUser(t *testing.T, opts ...UserOption) *models.User {
	t.Helper()
	f.counter++

	user := &models.User{
		GoogleID:       fmt.Sprintf("google-%d", f.counter),
		Email:          fmt.Sprintf("user%d@example.com", f.counter),
		Name:           fmt.Sprintf("Test User %d", f.counter),
		Role:           models.RoleAdmin,
		ExternalClaims: json.RawMessage(`{}`),
	}

	for _, opt := range opts {
		opt(user)
	}

	ctx := context.Background()
	err := f.db.Pool.QueryRow(ctx, `
		INSERT INTO users (google_id, email, name, picture, role, tenant_id, external_claims)
		VALUES ($1, $2, $3, $4, $5, $6, $7)
		RETURNING id, last_login_at, created_at, updated_at
	`, user.GoogleID, user.Email, user.Name, user.Picture, user.Role, user.TenantID, user.ExternalClaims).Scan(
		&user.ID, &user.LastLoginAt, &user.CreatedAt, &user.UpdatedAt,
	)
	if err != nil {
		t.Fatalf("failed to create user: %v", err)
	}

	return user
}

// UserOption configures a test user
type UserOption func(*models.User)

// WithEmail sets the user's email
func WithEmail(email string) UserOption {
	return func(u *models.User) {
		u.Email = email
	}
}

// WithRole sets the user's role
func WithRole(role models.Role) UserOption {
	return func(u *models.User) {
		u.Role = role
	}
}

// WithTenant assigns the user to a tenant
func WithTenant(tenant *models.Tenant) UserOption {
	return func(u *models.User) {
		u.TenantID = &tenant.ID
	}
}

// CreateImage creates a test image metadata record
func (f *Fixtures) CreateImage(t *testing.T, tenantID *uuid.UUID, opts ...ImageOption) *models.Image {
	t.Helper()
	f.counter++

	slug := "super-admin"
	if tenantID != nil {
		slug = "tenant"
	}
	img := &models.Image{
		TenantID: tenantID,
		PublicID: fmt.Sprintf("atelier/%s/projects/img-%d", slug, f.counter),
		URL:      fmt.Sprintf("https://res.example.com/img-%d.jpg", f.counter),
		Folder:   models.FolderProjects,
		Tags:     []string{},
	}

	for _, opt := range opts {
		opt(img)
	}

	ctx := context.Background()
	err := f.db.Pool.QueryRow(ctx, `
		INSERT INTO images (tenant_id, public_id, url, folder, alt_text, tags, width, height, bytes, format)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10)
		RETURNING id, created_at, updated_at
	`, img.TenantID, img.PublicID, img.URL, img.Folder, img.AltText, img.Tags,
		img.Width, img.Height, img.Bytes, img.Format).Scan(
		&img.ID, &img.CreatedAt, &img.UpdatedAt,
	)
	if err != nil {
		t.Fatalf("failed to create image: %v", err)
	}

	return img
}

// ImageOption configures a test image
type ImageOption func(*models.Image)

// InFolder places the image in the given folder
func InFolder(folder string) ImageOption {
	return func(i *models.Image) {
		i.Folder = folder
	}
}

// WithTags sets the image's tags
func WithTags(tags ...string) ImageOption {
	return func(i *models.Image) {
		i.Tags = tags
	}
}

// WithBytes sets the image's stored size
func WithBytes(n int64) ImageOption {
	return func(i *models.Image) {
		i.Bytes = &n
	}
}

// Identity builds a verified federated identity for find-or-create tests
func Identity(googleID, email string) services.ExternalIdentity {
	return services.ExternalIdentity{
		GoogleID: googleID,
		Email:    email,
		Name:     "Test User",
		Picture:  "https://example.com/avatar.png",
		Claims:   json.RawMessage(fmt.Sprintf(`{"sub":%q,"email":%q}`, googleID, email)),
	}
}
