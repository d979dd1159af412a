package dto

import (
	"time"

	"github.com/stitchdesk/tailor_shop_app/internal/core/domain"
)

// CreateUserRequest defines data for provisioning an account on behalf of
// someone else (superadmin creating tailors, tailors creating stitchers and
// customers).
type CreateUserRequest struct {
	Role     domain.Role `json:"role" binding:"required,oneof=ADMIN TAILOR CUSTOMER STITCHER"`
	FullName string      `json:"fullName" binding:"required"`
	Email    string      `json:"email" binding:"omitempty,email"`
	Phone    string      `json:"phone"`
	Username string      `json:"username"` // Required for stitchers; login name
	Password string      `json:"password" binding:"required,min=8"`
	// OrganizationID is required when a superadmin provisions into a tenant;
	// tailors and admins always provision into their own organization.
	OrganizationID string `json:"organizationID"`
}

// UpdateUserRequest defines the data allowed for updating a profile.
// Using pointers to differentiate between omitted fields and zero-value fields.
type UpdateUserRequest struct {
	FullName *string `json:"fullName"`
	Phone    *string `json:"phone"`
}

// SetUserActiveRequest toggles the soft-deactivation flag.
type SetUserActiveRequest struct {
	IsActive *bool `json:"isActive" binding:"required"`
}

// ListUsersParams defines query parameters for listing users.
type ListUsersParams struct {
	Role   string `form:"role"`
	Limit  int    `form:"limit,default=20"`
	Offset int    `form:"offset,default=0"`
}

// UserResponse defines data returned for a user.
type UserResponse struct {
	UserID         string      `json:"userID"`
	Role           domain.Role `json:"role"`
	OrganizationID *string     `json:"organizationID,omitempty"`
	FullName       string      `json:"fullName"`
	Email          string      `json:"email"`
	Phone          string      `json:"phone"`
	Username       string      `json:"username,omitempty"`
	IsActive       bool        `json:"isActive"`
	CreatedAt      time.Time   `json:"createdAt"`
}

// ToUserResponse converts domain.User to DTO.
func ToUserResponse(u *domain.User) UserResponse {
	return UserResponse{
		UserID:         u.UserID,
		Role:           u.Role,
		OrganizationID: u.OrganizationID,
		FullName:       u.FullName,
		Email:          u.Email,
		Phone:          u.Phone,
		Username:       u.Username,
		IsActive:       u.IsActive,
		CreatedAt:      u.CreatedAt,
	}
}

// ListUsersResponse wraps the list of users.
type ListUsersResponse struct {
	Users []UserResponse `json:"users"`
}

// ToListUsersResponse converts a slice of domain.User to ListUsersResponse DTO.
func ToListUsersResponse(users []domain.User) ListUsersResponse {
	userResponses := make([]UserResponse, len(users))
	for i, user := range users {
		userResponses[i] = ToUserResponse(&user)
	}
	return ListUsersResponse{Users: userResponses}
}
