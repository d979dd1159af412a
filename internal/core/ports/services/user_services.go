package services

import (
	"context"

	"github.com/stitchdesk/tailor_shop_app/internal/core/domain"
	"github.com/stitchdesk/tailor_shop_app/internal/dto"
)

// UserReaderSvc defines read operations on accounts.
type UserReaderSvc interface {
	// GetUserByID retrieves a user profile by id.
	GetUserByID(ctx context.Context, userID string) (*domain.User, error)

	// ListUsers retrieves users visible to the caller (their organization),
	// optionally filtered by role.
	ListUsers(ctx context.Context, caller *domain.User, params dto.ListUsersParams) ([]domain.User, error)
}

// UserProvisionerSvc defines account creation: the two-step
// credential-then-profile flow with compensating cleanup.
type UserProvisionerSvc interface {
	// CreateAccount provisions an account of the requested role on behalf of
	// the caller. The caller's role must grant authority over the target role.
	CreateAccount(ctx context.Context, caller *domain.User, req dto.CreateUserRequest) (*domain.User, error)

	// RegisterSelfService creates a customer or tailor account from the
	// public signup flow, joining the organization identified by slug.
	RegisterSelfService(ctx context.Context, req dto.RegisterRequest) (*domain.User, error)

	// FindOrCreateGoogleUser resolves a Google sign-in to an account,
	// provisioning a customer account on first login.
	FindOrCreateGoogleUser(ctx context.Context, info domain.GoogleUserInfo, organizationSlug string) (*domain.User, error)
}

// UserManagerSvc defines mutation of existing accounts.
type UserManagerSvc interface {
	// UpdateUser applies a self-service or staff profile edit.
	UpdateUser(ctx context.Context, caller *domain.User, userID string, req dto.UpdateUserRequest) (*domain.User, error)

	// SetUserActive soft-deactivates or reactivates an account.
	SetUserActive(ctx context.Context, caller *domain.User, userID string, isActive bool) error
}

// UserAuthenticatorSvc verifies login credentials.
type UserAuthenticatorSvc interface {
	// Authenticate resolves the identifier (email, or stitcher username) and
	// verifies the password, returning the account on success.
	Authenticate(ctx context.Context, identifier, password string) (*domain.User, error)
}

// UserSvcFacade combines all user service interfaces.
type UserSvcFacade interface {
	UserReaderSvc
	UserProvisionerSvc
	UserManagerSvc
	UserAuthenticatorSvc
}
