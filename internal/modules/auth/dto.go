package auth

import (
	"time"

	"ticketadmin/internal/domain"
)

type RegisterRequest struct {
	Name             string `json:"name" binding:"required,min=2,max=255"`
	FirstName        string `json:"first_name" binding:"omitempty,max=255"`
	LastName         string `json:"last_name" binding:"omitempty,max=255"`
	CompanyName      string `json:"company_name" binding:"omitempty,max=255"`
	Email            string `json:"email" binding:"required,email,max=255"`
	Password         string `json:"password" binding:"required,min=8,max=72"`
	OrganizationType string `json:"organization_type" binding:"required,oneof=individual corporate company non-profit event-organizer"`
}

type LoginRequest struct {
	Email    string `json:"email" binding:"required,email"`
	Password string `json:"password" binding:"required"`
}

type LoginResult struct {
	User      *domain.User
	Token     string
	ExpiresAt time.Time
}

type LoginResponse struct {
	Token     string       `json:"token"`
	TokenType string       `json:"token_type"`
	ExpiresAt time.Time    `json:"expires_at"`
	User      *domain.User `json:"user"`
}

// MeResponse is the principal as the frontend needs it: who, which roles, what it may do.
type MeResponse struct {
	User        *domain.User     `json:"user"`
	Roles       []string         `json:"roles"`
	TeamRole    *domain.TeamRole `json:"team_role,omitempty"`
	Permissions []string         `json:"permissions"`
	SuperAdmin  bool             `json:"super_admin"`
}
