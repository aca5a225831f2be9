package dto

import "github.com/atelierhq/atelier-api/internal/models"

type MeResponse struct {
	User *models.User `json:"user"`
}

type StatusResponse struct {
	Authenticated bool   `json:"authenticated"`
	Role          string `json:"role,omitempty"`
}

type LogoutResponse struct {
	Success bool `json:"success"`
}

type MessageResponse struct {
	Message string `json:"message"`
}

type ErrorResponse struct {
	Error string `json:"error"`
}
