package services

import (
	"context"

	"github.com/stitchdesk/tailor_shop_app/internal/core/domain"
	"github.com/stitchdesk/tailor_shop_app/internal/dto"
)

// OrganizationReaderSvc defines read operations for organizations.
type OrganizationReaderSvc interface {
	// GetOrganizationByID retrieves an organization by id.
	GetOrganizationByID(ctx context.Context, organizationID string) (*domain.Organization, error)

	// GetOrganizationBySlug retrieves an organization by its URL-safe slug.
	GetOrganizationBySlug(ctx context.Context, slug string) (*domain.Organization, error)

	// ListOrganizations retrieves all organizations. Superadmin only.
	ListOrganizations(ctx context.Context, caller *domain.User, limit, offset int) ([]domain.Organization, error)
}

// OrganizationManagerSvc defines tenant lifecycle operations. Superadmin only.
type OrganizationManagerSvc interface {
	// CreateOrganization creates a new tenant.
	CreateOrganization(ctx context.Context, caller *domain.User, req dto.CreateOrganizationRequest) (*domain.Organization, error)

	// UpdateOrganization mutates name, plan or active flag.
	UpdateOrganization(ctx context.Context, caller *domain.User, organizationID string, req dto.UpdateOrganizationRequest) (*domain.Organization, error)
}

// OrganizationSvcFacade combines all organization service interfaces.
type OrganizationSvcFacade interface {
	OrganizationReaderSvc
	OrganizationManagerSvc
}
