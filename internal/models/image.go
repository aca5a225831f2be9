package models

import (
	"time"

	"github.com/google/uuid"
)

// Image folders form a fixed taxonomy; the storage layer enforces it with a
// CHECK constraint.
const (
	FolderProjects = "projects"
	FolderBlog     = "blog"
	FolderGeneral  = "general"
	FolderGallery  = "gallery"
)

func ValidFolder(folder string) bool {
	switch folder {
	case FolderProjects, FolderBlog, FolderGeneral, FolderGallery:
		return true
	}
	return false
}

// Image is the metadata record for an asset whose binary lives on the
// external media host. A nil TenantID marks a global (super-admin) asset.
type Image struct {
	ID        uuid.UUID  `json:"id"`
	TenantID  *uuid.UUID `json:"tenantId,omitempty"`
	PublicID  string     `json:"publicId"`
	URL       string     `json:"url"`
	Folder    string     `json:"folder"`
	AltText   string     `json:"altText"`
	Tags      []string   `json:"tags"`
	Width     *int       `json:"width,omitempty"`
	Height    *int       `json:"height,omitempty"`
	Bytes     *int64     `json:"bytes,omitempty"`
	Format    *string    `json:"format,omitempty"`
	CreatedAt time.Time  `json:"createdAt"`
	UpdatedAt time.Time  `json:"updatedAt"`
}
