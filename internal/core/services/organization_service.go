package services

import (
	"context"
	"errors"
	"log/slog"
	"regexp"
	"time"

	"github.com/google/uuid"

	"github.com/stitchdesk/tailor_shop_app/internal/apperrors"
	"github.com/stitchdesk/tailor_shop_app/internal/core/domain"
	portsrepo "github.com/stitchdesk/tailor_shop_app/internal/core/ports/repositories"
	portssvc "github.com/stitchdesk/tailor_shop_app/internal/core/ports/services"
	"github.com/stitchdesk/tailor_shop_app/internal/dto"
)

// slugPattern is the allowed shape of a tenant slug: lowercase alphanumerics
// separated by single hyphens.
var slugPattern = regexp.MustCompile(`^[a-z0-9]+(-[a-z0-9]+)*$`)

// organizationService implements the OrganizationSvcFacade interface
type organizationService struct {
	BaseService
	organizationRepo portsrepo.OrganizationRepositoryFacade
}

// NewOrganizationService creates a new organization service with the provided dependencies
func NewOrganizationService(organizationRepo portsrepo.OrganizationRepositoryFacade) portssvc.OrganizationSvcFacade {
	return &organizationService{organizationRepo: organizationRepo}
}

// Ensure organizationService implements the OrganizationSvcFacade interface
var _ portssvc.OrganizationSvcFacade = (*organizationService)(nil)

// GetOrganizationByID retrieves an organization by its ID
func (s *organizationService) GetOrganizationByID(ctx context.Context, organizationID string) (*domain.Organization, error) {
	org, err := s.organizationRepo.FindOrganizationByID(ctx, organizationID)
	if err != nil {
		if !errors.Is(err, apperrors.ErrNotFound) {
			s.LogError(ctx, err, "Failed to find organization by ID",
				slog.String("organization_id", organizationID))
		}
		return nil, err
	}
	return org, nil
}

// GetOrganizationBySlug retrieves an organization by its URL-safe slug
func (s *organizationService) GetOrganizationBySlug(ctx context.Context, slug string) (*domain.Organization, error) {
	org, err := s.organizationRepo.FindOrganizationBySlug(ctx, slug)
	if err != nil {
		if !errors.Is(err, apperrors.ErrNotFound) {
			s.LogError(ctx, err, "Failed to find organization by slug",
				slog.String("slug", slug))
		}
		return nil, err
	}
	return org, nil
}

// ListOrganizations retrieves all organizations. Superadmin only.
func (s *organizationService) ListOrganizations(ctx context.Context, caller *domain.User, limit, offset int) ([]domain.Organization, error) {
	if caller.Role != domain.RoleSuperadmin {
		return nil, apperrors.NewForbiddenError("only superadmins may list organizations")
	}
	orgs, err := s.organizationRepo.ListOrganizations(ctx, limit, offset)
	if err != nil {
		s.LogError(ctx, err, "Failed to list organizations")
		return nil, err
	}
	if orgs == nil {
		return []domain.Organization{}, nil
	}
	return orgs, nil
}

// CreateOrganization creates a new tenant. Superadmin only.
func (s *organizationService) CreateOrganization(ctx context.Context, caller *domain.User, req dto.CreateOrganizationRequest) (*domain.Organization, error) {
	if caller.Role != domain.RoleSuperadmin {
		return nil, apperrors.NewForbiddenError("only superadmins may create organizations")
	}
	if !slugPattern.MatchString(req.Slug) {
		return nil, apperrors.NewValidationFailedError("slug must be lowercase alphanumerics separated by hyphens")
	}

	plan := req.SubscriptionPlan
	if plan == "" {
		plan = domain.PlanFree
	}

	now := time.Now()
	org := domain.Organization{
		OrganizationID:   uuid.NewString(),
		Name:             req.Name,
		Slug:             req.Slug,
		SubscriptionPlan: plan,
		IsActive:         true,
		AuditFields: domain.AuditFields{
			CreatedAt:     now,
			CreatedBy:     caller.UserID,
			LastUpdatedAt: now,
			LastUpdatedBy: caller.UserID,
		},
	}

	if err := s.organizationRepo.SaveOrganization(ctx, org); err != nil {
		s.LogError(ctx, err, "Failed to save organization",
			slog.String("slug", req.Slug))
		return nil, err
	}

	s.LogInfo(ctx, "Organization created",
		slog.String("organization_id", org.OrganizationID),
		slog.String("slug", org.Slug))
	return &org, nil
}

// UpdateOrganization mutates name, plan or active flag. Superadmin only.
func (s *organizationService) UpdateOrganization(ctx context.Context, caller *domain.User, organizationID string, req dto.UpdateOrganizationRequest) (*domain.Organization, error) {
	if caller.Role != domain.RoleSuperadmin {
		return nil, apperrors.NewForbiddenError("only superadmins may update organizations")
	}

	org, err := s.organizationRepo.FindOrganizationByID(ctx, organizationID)
	if err != nil {
		return nil, err
	}

	if req.Name != nil {
		org.Name = *req.Name
	}
	if req.SubscriptionPlan != nil {
		org.SubscriptionPlan = *req.SubscriptionPlan
	}
	if req.IsActive != nil {
		org.IsActive = *req.IsActive
	}
	org.LastUpdatedAt = time.Now()
	org.LastUpdatedBy = caller.UserID

	if err := s.organizationRepo.UpdateOrganization(ctx, *org); err != nil {
		s.LogError(ctx, err, "Failed to update organization",
			slog.String("organization_id", organizationID))
		return nil, err
	}
	return org, nil
}
