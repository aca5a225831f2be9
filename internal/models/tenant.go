package models

import (
	"time"

	"github.com/google/uuid"
)

// DefaultBrandColor is applied when a tenant is created without branding.
const DefaultBrandColor = "#d4af37"

// Tenant is one customer site, resolved from the set of domains it serves.
type Tenant struct {
	ID            uuid.UUID      `json:"id"`
	Name          string         `json:"name"`
	Slug          string         `json:"slug"`
	Domains       []string       `json:"domains"`
	PrimaryDomain string         `json:"primaryDomain"`
	LogoURL       string         `json:"logoUrl"`
	BrandColor    string         `json:"brandColor"`
	ContactEmail  string         `json:"contactEmail"`
	IsActive      bool           `json:"isActive"`
	Settings      TenantSettings `json:"settings"`
	CreatedAt     time.Time      `json:"createdAt"`
	UpdatedAt     time.Time      `json:"updatedAt"`
}

type TenantSettings struct {
	// AllowedAdminEmails restricts which identities may sign in to this
	// tenant's back office. Empty means no restriction.
	AllowedAdminEmails []string `json:"allowedAdminEmails"`
}
