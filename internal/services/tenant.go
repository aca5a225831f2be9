package services

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/atelierhq/atelier-api/internal/database"
	"github.com/atelierhq/atelier-api/internal/models"
	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
)

const tenantColumns = `id, name, slug, domains, primary_domain, logo_url, brand_color,
	contact_email, is_active, allowed_admin_emails, created_at, updated_at`

type TenantService struct {
	db *database.DB
}

func NewTenantService(db *database.DB) *TenantService {
	return &TenantService{db: db}
}

type CreateTenantParams struct {
	Name               string
	Slug               string
	Domains            []string
	PrimaryDomain      string
	ContactEmail       string
	LogoURL            string
	BrandColor         string
	AllowedAdminEmails []string
}

type UpdateTenantParams struct {
	Name               *string
	Domains            []string
	PrimaryDomain      *string
	ContactEmail       *string
	LogoURL            *string
	BrandColor         *string
	IsActive           *bool
	AllowedAdminEmails []string
}

func scanTenant(row pgx.Row) (*models.Tenant, error) {
	var t models.Tenant
	err := row.Scan(
		&t.ID, &t.Name, &t.Slug, &t.Domains, &t.PrimaryDomain, &t.LogoURL,
		&t.BrandColor, &t.ContactEmail, &t.IsActive, &t.Settings.AllowedAdminEmails,
		&t.CreatedAt, &t.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}
	return &t, nil
}

func (s *TenantService) GetByID(ctx context.Context, id uuid.UUID) (*models.Tenant, error) {
	tenant, err := scanTenant(s.db.Pool.QueryRow(ctx, `
		SELECT `+tenantColumns+` FROM tenants WHERE id = $1
	`, id))
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, nil
	}
	return tenant, err
}

func (s *TenantService) GetBySlug(ctx context.Context, slug string) (*models.Tenant, error) {
	tenant, err := scanTenant(s.db.Pool.QueryRow(ctx, `
		SELECT `+tenantColumns+` FROM tenants WHERE slug = $1
	`, slug))
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, nil
	}
	return tenant, err
}

// GetByDomain resolves an active tenant from a request domain. The domain is
// matched both as received and with any port suffix stripped.
func (s *TenantService) GetByDomain(ctx context.Context, domain string) (*models.Tenant, error) {
	cleanDomain := strings.SplitN(domain, ":", 2)[0]
	tenant, err := scanTenant(s.db.Pool.QueryRow(ctx, `
		SELECT `+tenantColumns+` FROM tenants
		WHERE is_active AND ($1 = ANY(domains) OR $2 = ANY(domains))
		LIMIT 1
	`, domain, cleanDomain))
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, nil
	}
	return tenant, err
}

func (s *TenantService) List(ctx context.Context) ([]models.Tenant, error) {
	rows, err := s.db.Pool.Query(ctx, `
		SELECT `+tenantColumns+` FROM tenants ORDER BY created_at DESC
	`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	return collectTenants(rows)
}

func (s *TenantService) ListActive(ctx context.Context) ([]models.Tenant, error) {
	rows, err := s.db.Pool.Query(ctx, `
		SELECT `+tenantColumns+` FROM tenants WHERE is_active ORDER BY name
	`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	return collectTenants(rows)
}

func collectTenants(rows pgx.Rows) ([]models.Tenant, error) {
	var tenants []models.Tenant
	for rows.Next() {
		tenant, err := scanTenant(rows)
		if err != nil {
			return nil, err
		}
		tenants = append(tenants, *tenant)
	}
	return tenants, rows.Err()
}

func (s *TenantService) Create(ctx context.Context, params CreateTenantParams) (*models.Tenant, error) {
	brandColor := params.BrandColor
	if brandColor == "" {
		brandColor = models.DefaultBrandColor
	}
	allowedEmails := params.AllowedAdminEmails
	if allowedEmails == nil {
		allowedEmails = []string{}
	}

	tenant, err := scanTenant(s.db.Pool.QueryRow(ctx, `
		INSERT INTO tenants (name, slug, domains, primary_domain, logo_url, brand_color, contact_email, is_active, allowed_admin_emails)
		VALUES ($1, $2, $3, $4, $5, $6, $7, TRUE, $8)
		RETURNING `+tenantColumns+`
	`, params.Name, params.Slug, params.Domains, params.PrimaryDomain,
		params.LogoURL, brandColor, params.ContactEmail, allowedEmails))
	if err != nil {
		return nil, fmt.Errorf("failed to create tenant: %w", err)
	}
	return tenant, nil
}

// Update applies a partial update; nil fields are left untouched.
func (s *TenantService) Update(ctx context.Context, id uuid.UUID, params UpdateTenantParams) (*models.Tenant, error) {
	sets := []string{"updated_at = NOW()"}
	args := []any{}
	arg := func(v any) string {
		args = append(args, v)
		return fmt.Sprintf("$%d", len(args))
	}

	if params.Name != nil {
		sets = append(sets, "name = "+arg(*params.Name))
	}
	if params.Domains != nil {
		sets = append(sets, "domains = "+arg(params.Domains))
	}
	if params.PrimaryDomain != nil {
		sets = append(sets, "primary_domain = "+arg(*params.PrimaryDomain))
	}
	if params.ContactEmail != nil {
		sets = append(sets, "contact_email = "+arg(*params.ContactEmail))
	}
	if params.LogoURL != nil {
		sets = append(sets, "logo_url = "+arg(*params.LogoURL))
	}
	if params.BrandColor != nil {
		sets = append(sets, "brand_color = "+arg(*params.BrandColor))
	}
	if params.IsActive != nil {
		sets = append(sets, "is_active = "+arg(*params.IsActive))
	}
	if params.AllowedAdminEmails != nil {
		sets = append(sets, "allowed_admin_emails = "+arg(params.AllowedAdminEmails))
	}

	query := fmt.Sprintf(`
		UPDATE tenants SET %s WHERE id = %s
		RETURNING `+tenantColumns, strings.Join(sets, ", "), arg(id))

	tenant, err := scanTenant(s.db.Pool.QueryRow(ctx, query, args...))
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, nil
	}
	return tenant, err
}

// Delete removes a tenant outright. It reports whether a matching record
// existed.
func (s *TenantService) Delete(ctx context.Context, id uuid.UUID) (bool, error) {
	tag, err := s.db.Pool.Exec(ctx, `DELETE FROM tenants WHERE id = $1`, id)
	if err != nil {
		return false, err
	}
	return tag.RowsAffected() > 0, nil
}

// IsDomainAvailable reports whether no other tenant claims the domain.
// excludeID skips the tenant being edited so it doesn't conflict with itself.
func (s *TenantService) IsDomainAvailable(ctx context.Context, domain string, excludeID *uuid.UUID) (bool, error) {
	var exists bool
	var err error
	if excludeID != nil {
		err = s.db.Pool.QueryRow(ctx, `
			SELECT EXISTS(SELECT 1 FROM tenants WHERE $1 = ANY(domains) AND id <> $2)
		`, domain, *excludeID).Scan(&exists)
	} else {
		err = s.db.Pool.QueryRow(ctx, `
			SELECT EXISTS(SELECT 1 FROM tenants WHERE $1 = ANY(domains))
		`, domain).Scan(&exists)
	}
	if err != nil {
		return false, err
	}
	return !exists, nil
}

func (s *TenantService) IsSlugAvailable(ctx context.Context, slug string, excludeID *uuid.UUID) (bool, error) {
	var exists bool
	var err error
	if excludeID != nil {
		err = s.db.Pool.QueryRow(ctx, `
			SELECT EXISTS(SELECT 1 FROM tenants WHERE slug = $1 AND id <> $2)
		`, slug, *excludeID).Scan(&exists)
	} else {
		err = s.db.Pool.QueryRow(ctx, `
			SELECT EXISTS(SELECT 1 FROM tenants WHERE slug = $1)
		`, slug).Scan(&exists)
	}
	if err != nil {
		return false, err
	}
	return !exists, nil
}
