package models

import (
	"encoding/json"
	"time"

	"github.com/google/uuid"
)

// Role is the closed set of operator roles the platform recognizes.
type Role string

const (
	RoleAdmin      Role = "admin"
	RoleSuperAdmin Role = "super_admin"
)

func (r Role) Valid() bool {
	switch r {
	case RoleAdmin, RoleSuperAdmin:
		return true
	}
	return false
}

// User is an authenticated back-office operator. Users are only ever created
// through the federated login flow (find-or-create), never registered directly.
type User struct {
	ID             uuid.UUID       `json:"id"`
	GoogleID       string          `json:"-"`
	Email          string          `json:"email"`
	Name           string          `json:"name"`
	Picture        string          `json:"picture"`
	Role           Role            `json:"role"`
	TenantID       *uuid.UUID      `json:"tenantId,omitempty"`
	ExternalClaims json.RawMessage `json:"-"`
	LastLoginAt    time.Time       `json:"lastLoginAt"`
	CreatedAt      time.Time       `json:"createdAt"`
	UpdatedAt      time.Time       `json:"updatedAt"`
}
