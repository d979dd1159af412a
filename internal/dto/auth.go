package dto

import (
	"time"

	"github.com/stitchdesk/tailor_shop_app/internal/core/domain"
)

// LoginRequest carries login credentials. Identifier is an email for most
// roles and a short username for stitchers.
type LoginRequest struct {
	Identifier string `json:"identifier" binding:"required"`
	Password   string `json:"password" binding:"required"`
}

// LoginResponse returns the issued access token and the authenticated user.
type LoginResponse struct {
	Token       string       `json:"token"`
	TokenExpiry time.Time    `json:"tokenExpiry"`
	User        UserResponse `json:"user"`
}

// RegisterRequest is the self-service signup payload. Only customer and
// tailor accounts can be created this way; production staff are provisioned
// by their tailor or admin.
type RegisterRequest struct {
	FullName         string      `json:"fullName" binding:"required"`
	Email            string      `json:"email" binding:"required,email"`
	Phone            string      `json:"phone"`
	Password         string      `json:"password" binding:"required,min=8"`
	Role             domain.Role `json:"role" binding:"required,oneof=CUSTOMER TAILOR"`
	OrganizationSlug string      `json:"organizationSlug" binding:"required"`
}

// RefreshResponse returns a re-issued access token.
type RefreshResponse struct {
	Token       string    `json:"token"`
	TokenExpiry time.Time `json:"tokenExpiry"`
}
