package dto

type CreateTenantRequest struct {
	Name               string   `json:"name"`
	Slug               string   `json:"slug"`
	Domains            []string `json:"domains"`
	PrimaryDomain      string   `json:"primaryDomain"`
	ContactEmail       string   `json:"contactEmail"`
	LogoURL            string   `json:"logoUrl"`
	BrandColor         string   `json:"brandColor"`
	AllowedAdminEmails []string `json:"allowedAdminEmails"`
}

// UpdateTenantRequest is a partial update; absent fields stay untouched.
type UpdateTenantRequest struct {
	Name               *string  `json:"name"`
	Domains            []string `json:"domains"`
	PrimaryDomain      *string  `json:"primaryDomain"`
	ContactEmail       *string  `json:"contactEmail"`
	LogoURL            *string  `json:"logoUrl"`
	BrandColor         *string  `json:"brandColor"`
	IsActive           *bool    `json:"isActive"`
	AllowedAdminEmails []string `json:"allowedAdminEmails"`
}

type AvailabilityResponse struct {
	Available bool `json:"available"`
}

type DeleteResponse struct {
	Success bool `json:"success"`
}
