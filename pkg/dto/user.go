package dto

type UpdateRoleRequest struct {
	Role string `json:"role"`
}

type AssignTenantRequest struct {
	TenantID string `json:"tenantId"`
}
