package dto

import (
	"time"

	"github.com/stitchdesk/tailor_shop_app/internal/core/domain"
)

// CreateOrganizationRequest defines data for creating a new organization.
// Superadmin only.
type CreateOrganizationRequest struct {
	Name             string                  `json:"name" binding:"required"`
	Slug             string                  `json:"slug" binding:"required,lowercase"`
	SubscriptionPlan domain.SubscriptionPlan `json:"subscriptionPlan" binding:"omitempty,oneof=FREE STANDARD PREMIUM"`
}

// UpdateOrganizationRequest defines mutable organization fields.
type UpdateOrganizationRequest struct {
	Name             *string                  `json:"name"`
	SubscriptionPlan *domain.SubscriptionPlan `json:"subscriptionPlan" binding:"omitempty,oneof=FREE STANDARD PREMIUM"`
	IsActive         *bool                    `json:"isActive"`
}

// OrganizationResponse defines data returned for an organization.
type OrganizationResponse struct {
	OrganizationID   string                  `json:"organizationID"`
	Name             string                  `json:"name"`
	Slug             string                  `json:"slug"`
	SubscriptionPlan domain.SubscriptionPlan `json:"subscriptionPlan"`
	IsActive         bool                    `json:"isActive"`
	CreatedAt        time.Time               `json:"createdAt"`
	CreatedBy        string                  `json:"createdBy"`
}

// ToOrganizationResponse converts domain.Organization to DTO.
func ToOrganizationResponse(o *domain.Organization) OrganizationResponse {
	return OrganizationResponse{
		OrganizationID:   o.OrganizationID,
		Name:             o.Name,
		Slug:             o.Slug,
		SubscriptionPlan: o.SubscriptionPlan,
		IsActive:         o.IsActive,
		CreatedAt:        o.CreatedAt,
		CreatedBy:        o.CreatedBy,
	}
}

// ListOrganizationsResponse wraps a list of organizations.
type ListOrganizationsResponse struct {
	Organizations []OrganizationResponse `json:"organizations"`
}

// ToListOrganizationsResponse converts a slice of domain.Organization to DTO.
func ToListOrganizationsResponse(orgs []domain.Organization) ListOrganizationsResponse {
	list := make([]OrganizationResponse, len(orgs))
	for i, o := range orgs {
		list[i] = ToOrganizationResponse(&o)
	}
	return ListOrganizationsResponse{Organizations: list}
}
