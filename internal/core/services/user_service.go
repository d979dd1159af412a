package services

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/stitchdesk/tailor_shop_app/internal/apperrors"
	"github.com/stitchdesk/tailor_shop_app/internal/core/domain"
	portsrepo "github.com/stitchdesk/tailor_shop_app/internal/core/ports/repositories"
	portssvc "github.com/stitchdesk/tailor_shop_app/internal/core/ports/services"
	"github.com/stitchdesk/tailor_shop_app/internal/dto"
	"github.com/stitchdesk/tailor_shop_app/internal/utils"
)

// userService implements the UserSvcFacade interface
type userService struct {
	BaseService
	userRepo         portsrepo.UserRepositoryFacade
	credentialRepo   portsrepo.CredentialRepositoryFacade
	organizationRepo portsrepo.OrganizationReader

	// Stitchers log in with a username; their credential rows still need an
	// email, synthesized under this domain.
	internalEmailDomain string
}

// NewUserService creates a new user service with the provided dependencies
func NewUserService(
	userRepo portsrepo.UserRepositoryFacade,
	credentialRepo portsrepo.CredentialRepositoryFacade,
	organizationRepo portsrepo.OrganizationReader,
	internalEmailDomain string,
) portssvc.UserSvcFacade {
	return &userService{
		userRepo:            userRepo,
		credentialRepo:      credentialRepo,
		organizationRepo:    organizationRepo,
		internalEmailDomain: internalEmailDomain,
	}
}

// Ensure userService implements the UserSvcFacade interface
var _ portssvc.UserSvcFacade = (*userService)(nil)

// GetUserByID retrieves a user by their ID
func (s *userService) GetUserByID(ctx context.Context, userID string) (*domain.User, error) {
	user, err := s.userRepo.FindUserByID(ctx, userID)
	if err != nil {
		if !errors.Is(err, apperrors.ErrNotFound) {
			s.LogError(ctx, err, "Failed to find user by ID",
				slog.String("user_id", userID))
		}
		return nil, err
	}
	return user, nil
}

// ListUsers retrieves the users of the caller's organization, optionally
// filtered by role. Superadmins are tenant-less and use the organization
// endpoints instead.
func (s *userService) ListUsers(ctx context.Context, caller *domain.User, params dto.ListUsersParams) ([]domain.User, error) {
	if caller.OrganizationID == nil {
		return nil, apperrors.NewForbiddenError("caller is not scoped to an organization")
	}

	var roleFilter *domain.Role
	if params.Role != "" {
		role := domain.Role(strings.ToUpper(params.Role))
		if !role.Valid() {
			return nil, apperrors.NewValidationFailedError("unknown role filter: " + params.Role)
		}
		roleFilter = &role
	}

	users, err := s.userRepo.ListUsersByOrganization(ctx, *caller.OrganizationID, roleFilter, params.Limit, params.Offset)
	if err != nil {
		s.LogError(ctx, err, "Failed to list users",
			slog.String("organization_id", *caller.OrganizationID))
		return nil, err
	}
	if users == nil {
		return []domain.User{}, nil
	}
	return users, nil
}

// CreateAccount provisions a new account on behalf of the caller. The flow is
// two independent writes: the credential first, the profile row second. When
// the profile write fails the credential is deleted as a compensating action
// so a retry with the same email does not hit a duplicate.
func (s *userService) CreateAccount(ctx context.Context, caller *domain.User, req dto.CreateUserRequest) (*domain.User, error) {
	if !caller.Role.CanProvision(req.Role) {
		return nil, apperrors.NewForbiddenError(fmt.Sprintf("role %s may not create %s accounts", caller.Role, req.Role))
	}

	organizationID, err := s.resolveTargetOrganization(ctx, caller, req.OrganizationID)
	if err != nil {
		return nil, err
	}

	email := strings.ToLower(strings.TrimSpace(req.Email))
	username := strings.ToLower(strings.TrimSpace(req.Username))
	emailConfirmed := false

	if req.Role == domain.RoleStitcher {
		// Stitchers have no inbox to confirm: the login name is a username
		// and the credential email is synthesized and pre-confirmed.
		if username == "" {
			return nil, apperrors.NewValidationFailedError("username is required for stitcher accounts")
		}
		email = username + "@" + s.internalEmailDomain
		emailConfirmed = true
	} else if email == "" {
		return nil, apperrors.NewValidationFailedError("email is required for " + string(req.Role) + " accounts")
	}

	user, err := s.provisionAccount(ctx, provisionParams{
		role:           req.Role,
		organizationID: &organizationID,
		fullName:       req.FullName,
		email:          email,
		phone:          req.Phone,
		username:       username,
		password:       req.Password,
		emailConfirmed: emailConfirmed,
		createdBy:      caller.UserID,
	})
	if err != nil {
		return nil, err
	}

	s.LogInfo(ctx, "Account provisioned",
		slog.String("user_id", user.UserID),
		slog.String("role", string(user.Role)),
		slog.String("created_by", caller.UserID))
	return user, nil
}

// RegisterSelfService creates a customer or tailor account from the public
// signup flow, joining the organization identified by slug.
func (s *userService) RegisterSelfService(ctx context.Context, req dto.RegisterRequest) (*domain.User, error) {
	org, err := s.organizationRepo.FindOrganizationBySlug(ctx, req.OrganizationSlug)
	if err != nil {
		if errors.Is(err, apperrors.ErrNotFound) {
			return nil, apperrors.NewValidationFailedError("unknown organization: " + req.OrganizationSlug)
		}
		return nil, err
	}
	if !org.IsActive {
		return nil, apperrors.NewForbiddenError("organization " + req.OrganizationSlug + " is not accepting signups")
	}

	user, err := s.provisionAccount(ctx, provisionParams{
		role:           req.Role,
		organizationID: &org.OrganizationID,
		fullName:       req.FullName,
		email:          strings.ToLower(strings.TrimSpace(req.Email)),
		phone:          req.Phone,
		password:       req.Password,
		createdBy:      "", // self-registration; filled with the new user id
	})
	if err != nil {
		return nil, err
	}

	s.LogInfo(ctx, "Self-service account registered",
		slog.String("user_id", user.UserID),
		slog.String("role", string(user.Role)),
		slog.String("organization_id", org.OrganizationID))
	return user, nil
}

// FindOrCreateGoogleUser resolves a Google sign-in to an account,
// provisioning a customer account on first login.
func (s *userService) FindOrCreateGoogleUser(ctx context.Context, info domain.GoogleUserInfo, organizationSlug string) (*domain.User, error) {
	cred, err := s.credentialRepo.FindCredentialByProviderDetails(ctx, "google", info.ProviderUserID)
	if err == nil {
		return s.GetUserByID(ctx, cred.UserID)
	}
	if !errors.Is(err, apperrors.ErrNotFound) {
		return nil, err
	}

	email := strings.ToLower(strings.TrimSpace(info.Email))
	if _, err := s.credentialRepo.FindCredentialByEmail(ctx, email); err == nil {
		return nil, apperrors.NewConflictError("an account with email " + email + " already exists; sign in with your password instead")
	} else if !errors.Is(err, apperrors.ErrNotFound) {
		return nil, err
	}

	org, err := s.organizationRepo.FindOrganizationBySlug(ctx, organizationSlug)
	if err != nil {
		if errors.Is(err, apperrors.ErrNotFound) {
			return nil, apperrors.NewValidationFailedError("unknown organization: " + organizationSlug)
		}
		return nil, err
	}

	// No usable password for provider-backed accounts; store a random one.
	randomPassword, err := utils.GenerateSecureRandomString(32)
	if err != nil {
		return nil, apperrors.NewAppError(500, "failed to generate placeholder password", err)
	}

	providerUserID := info.ProviderUserID
	user, err := s.provisionAccount(ctx, provisionParams{
		role:           domain.RoleCustomer,
		organizationID: &org.OrganizationID,
		fullName:       info.Name,
		email:          email,
		password:       randomPassword,
		emailConfirmed: info.EmailVerified,
		authProvider:   "google",
		providerUserID: &providerUserID,
		createdBy:      "",
	})
	if err != nil {
		return nil, err
	}

	s.LogInfo(ctx, "Google account provisioned",
		slog.String("user_id", user.UserID),
		slog.String("organization_id", org.OrganizationID))
	return user, nil
}

// provisionParams collects the inputs of the shared two-step provisioning flow.
type provisionParams struct {
	role           domain.Role
	organizationID *string
	fullName       string
	email          string
	phone          string
	username       string
	password       string
	emailConfirmed bool
	authProvider   string
	providerUserID *string
	createdBy      string
}

// provisionAccount runs the credential-then-profile flow. The two stores are
// written independently, so each failure message names the step that failed
// and a profile failure triggers a best-effort credential delete.
func (s *userService) provisionAccount(ctx context.Context, p provisionParams) (*domain.User, error) {
	now := time.Now()
	userID := uuid.NewString()
	if p.createdBy == "" {
		p.createdBy = userID
	}
	if p.authProvider == "" {
		p.authProvider = "local"
	}

	passwordHash, err := utils.HashPassword(p.password)
	if err != nil {
		s.LogError(ctx, err, "Failed to hash password")
		return nil, apperrors.NewAppError(500, "account creation failed: could not hash password", err)
	}

	cred := domain.Credential{
		UserID:         userID,
		Email:          p.email,
		PasswordHash:   passwordHash,
		EmailConfirmed: p.emailConfirmed,
		AuthProvider:   p.authProvider,
		ProviderUserID: p.providerUserID,
		CreatedAt:      now,
	}
	if err := s.credentialRepo.SaveCredential(ctx, cred); err != nil {
		s.LogError(ctx, err, "Credential creation failed",
			slog.String("user_id", userID))
		return nil, fmt.Errorf("credential creation failed: %w", err)
	}

	user := domain.User{
		UserID:         userID,
		Role:           p.role,
		OrganizationID: p.organizationID,
		FullName:       p.fullName,
		Email:          p.email,
		Phone:          p.phone,
		Username:       p.username,
		IsActive:       true,
		AuditFields: domain.AuditFields{
			CreatedAt:     now,
			CreatedBy:     p.createdBy,
			LastUpdatedAt: now,
			LastUpdatedBy: p.createdBy,
		},
	}
	if err := s.userRepo.SaveUser(ctx, user); err != nil {
		s.LogError(ctx, err, "Profile creation failed, rolling back credential",
			slog.String("user_id", userID))
		if delErr := s.credentialRepo.DeleteCredential(ctx, userID); delErr != nil {
			// The orphaned credential blocks re-registration with this email
			// until cleaned up, so make the failure loud.
			s.LogError(ctx, delErr, "Compensating credential delete failed",
				slog.String("user_id", userID),
				slog.String("email", p.email))
		}
		return nil, fmt.Errorf("profile creation failed: %w", err)
	}

	return &user, nil
}

// resolveTargetOrganization decides which tenant the new account joins.
// Superadmins must name one; everyone else provisions into their own.
func (s *userService) resolveTargetOrganization(ctx context.Context, caller *domain.User, requestedOrgID string) (string, error) {
	if caller.Role == domain.RoleSuperadmin {
		if requestedOrgID == "" {
			return "", apperrors.NewValidationFailedError("organizationID is required when provisioning as superadmin")
		}
		org, err := s.organizationRepo.FindOrganizationByID(ctx, requestedOrgID)
		if err != nil {
			if errors.Is(err, apperrors.ErrNotFound) {
				return "", apperrors.NewValidationFailedError("unknown organization: " + requestedOrgID)
			}
			return "", err
		}
		return org.OrganizationID, nil
	}

	if caller.OrganizationID == nil {
		return "", apperrors.NewForbiddenError("caller is not scoped to an organization")
	}
	if requestedOrgID != "" && requestedOrgID != *caller.OrganizationID {
		return "", apperrors.NewForbiddenError("cannot provision accounts into another organization")
	}
	return *caller.OrganizationID, nil
}

// UpdateUser applies a profile edit. Users edit themselves; superadmins and
// same-organization admins and tailors edit anyone in reach.
func (s *userService) UpdateUser(ctx context.Context, caller *domain.User, userID string, req dto.UpdateUserRequest) (*domain.User, error) {
	user, err := s.userRepo.FindUserByID(ctx, userID)
	if err != nil {
		return nil, err
	}
	if err := s.authorizeManage(caller, user); err != nil {
		return nil, err
	}

	if req.FullName != nil {
		user.FullName = *req.FullName
	}
	if req.Phone != nil {
		user.Phone = *req.Phone
	}
	user.LastUpdatedAt = time.Now()
	user.LastUpdatedBy = caller.UserID

	if err := s.userRepo.UpdateUser(ctx, *user); err != nil {
		s.LogError(ctx, err, "Failed to update user",
			slog.String("user_id", userID))
		return nil, err
	}
	return user, nil
}

// SetUserActive soft-deactivates or reactivates an account. Deactivated
// accounts fail authentication and the role gate.
func (s *userService) SetUserActive(ctx context.Context, caller *domain.User, userID string, isActive bool) error {
	if caller.UserID == userID {
		return apperrors.NewForbiddenError("cannot change the active flag on your own account")
	}
	user, err := s.userRepo.FindUserByID(ctx, userID)
	if err != nil {
		return err
	}
	if err := s.authorizeManage(caller, user); err != nil {
		return err
	}

	if err := s.userRepo.SetUserActive(ctx, userID, isActive, caller.UserID); err != nil {
		s.LogError(ctx, err, "Failed to set user active flag",
			slog.String("user_id", userID),
			slog.Bool("is_active", isActive))
		return err
	}
	s.LogInfo(ctx, "User active flag changed",
		slog.String("user_id", userID),
		slog.Bool("is_active", isActive))
	return nil
}

// authorizeManage checks whether caller may mutate target's account.
func (s *userService) authorizeManage(caller *domain.User, target *domain.User) error {
	if caller.UserID == target.UserID {
		return nil
	}
	if caller.Role == domain.RoleSuperadmin {
		return nil
	}
	if (caller.Role == domain.RoleAdmin || caller.Role == domain.RoleTailor) &&
		target.OrganizationID != nil && caller.BelongsTo(*target.OrganizationID) {
		return nil
	}
	return apperrors.NewForbiddenError("not allowed to manage this account")
}

// Authenticate resolves the identifier and verifies the password. The
// identifier is an email for most roles and a short username for stitchers.
func (s *userService) Authenticate(ctx context.Context, identifier, password string) (*domain.User, error) {
	identifier = strings.ToLower(strings.TrimSpace(identifier))

	var cred *domain.Credential
	var err error
	if strings.Contains(identifier, "@") {
		cred, err = s.credentialRepo.FindCredentialByEmail(ctx, identifier)
	} else {
		var user *domain.User
		user, err = s.userRepo.FindUserByUsername(ctx, identifier)
		if err == nil {
			cred, err = s.credentialRepo.FindCredentialByUserID(ctx, user.UserID)
		}
	}
	if err != nil {
		if errors.Is(err, apperrors.ErrNotFound) {
			// Same message as a bad password: do not reveal which part failed.
			return nil, apperrors.NewAppError(401, "invalid credentials", apperrors.ErrUnauthorized)
		}
		return nil, err
	}

	if !utils.CheckPasswordHash(password, cred.PasswordHash) {
		return nil, apperrors.NewAppError(401, "invalid credentials", apperrors.ErrUnauthorized)
	}

	user, err := s.userRepo.FindUserByID(ctx, cred.UserID)
	if err != nil {
		return nil, err
	}
	if !user.IsActive {
		return nil, apperrors.NewForbiddenError("account is deactivated")
	}
	return user, nil
}
