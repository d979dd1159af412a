package repositories

import (
	"context"

	"github.com/stitchdesk/tailor_shop_app/internal/core/domain"
)

// OrganizationReader defines read operations for organization data.
type OrganizationReader interface {
	// FindOrganizationByID retrieves a specific organization by its ID.
	FindOrganizationByID(ctx context.Context, organizationID string) (*domain.Organization, error)

	// FindOrganizationBySlug retrieves an organization by its URL-safe slug.
	FindOrganizationBySlug(ctx context.Context, slug string) (*domain.Organization, error)

	// ListOrganizations retrieves all organizations, newest first.
	ListOrganizations(ctx context.Context, limit, offset int) ([]domain.Organization, error)
}

// OrganizationWriter defines write operations for organization data.
type OrganizationWriter interface {
	// SaveOrganization persists a new organization.
	SaveOrganization(ctx context.Context, org domain.Organization) error

	// UpdateOrganization replaces mutable fields (name, plan, active flag).
	UpdateOrganization(ctx context.Context, org domain.Organization) error
}

// OrganizationRepositoryFacade combines all organization-related repository interfaces.
type OrganizationRepositoryFacade interface {
	OrganizationReader
	OrganizationWriter
}
