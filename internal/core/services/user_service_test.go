package services_test

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/suite"
	"golang.org/x/crypto/bcrypt"

	"github.com/stitchdesk/tailor_shop_app/internal/apperrors"
	"github.com/stitchdesk/tailor_shop_app/internal/core/domain"
	portssvc "github.com/stitchdesk/tailor_shop_app/internal/core/ports/services"
	"github.com/stitchdesk/tailor_shop_app/internal/core/services"
	"github.com/stitchdesk/tailor_shop_app/internal/dto"
)

const testInternalEmailDomain = "stitcher.tailorshop.internal"

// --- Mock UserRepository ---
type MockUserRepository struct {
	mock.Mock
}

func (m *MockUserRepository) FindUserByID(ctx context.Context, userID string) (*domain.User, error) {
	args := m.Called(ctx, userID)
	var user *domain.User
	if args.Get(0) != nil {
		user = args.Get(0).(*domain.User)
	}
	return user, args.Error(1)
}

func (m *MockUserRepository) FindUserByUsername(ctx context.Context, username string) (*domain.User, error) {
	args := m.Called(ctx, username)
	var user *domain.User
	if args.Get(0) != nil {
		user = args.Get(0).(*domain.User)
	}
	return user, args.Error(1)
}

func (m *MockUserRepository) FindUserByEmail(ctx context.Context, email string) (*domain.User, error) {
	args := m.Called(ctx, email)
	var user *domain.User
	if args.Get(0) != nil {
		user = args.Get(0).(*domain.User)
	}
	return user, args.Error(1)
}

func (m *MockUserRepository) ListUsersByOrganization(ctx context.Context, organizationID string, role *domain.Role, limit, offset int) ([]domain.User, error) {
	args := m.Called(ctx, organizationID, role, limit, offset)
	var users []domain.User
	if args.Get(0) != nil {
		users = args.Get(0).([]domain.User)
	}
	return users, args.Error(1)
}

func (m *MockUserRepository) SaveUser(ctx context.Context, user domain.User) error {
	args := m.Called(ctx, user)
	return args.Error(0)
}

func (m *MockUserRepository) UpdateUser(ctx context.Context, user domain.User) error {
	args := m.Called(ctx, user)
	return args.Error(0)
}

func (m *MockUserRepository) SetUserActive(ctx context.Context, userID string, isActive bool, updatedBy string) error {
	args := m.Called(ctx, userID, isActive, updatedBy)
	return args.Error(0)
}

func (m *MockUserRepository) MarkUserDeleted(ctx context.Context, userID string, deletedAt time.Time, deleterUserID string) error {
	args := m.Called(ctx, userID, deletedAt, deleterUserID)
	return args.Error(0)
}

// --- Mock CredentialRepository ---
type MockCredentialRepository struct {
	mock.Mock
}

func (m *MockCredentialRepository) FindCredentialByUserID(ctx context.Context, userID string) (*domain.Credential, error) {
	args := m.Called(ctx, userID)
	var cred *domain.Credential
	if args.Get(0) != nil {
		cred = args.Get(0).(*domain.Credential)
	}
	return cred, args.Error(1)
}

func (m *MockCredentialRepository) FindCredentialByEmail(ctx context.Context, email string) (*domain.Credential, error) {
	args := m.Called(ctx, email)
	var cred *domain.Credential
	if args.Get(0) != nil {
		cred = args.Get(0).(*domain.Credential)
	}
	return cred, args.Error(1)
}

func (m *MockCredentialRepository) FindCredentialByProviderDetails(ctx context.Context, authProvider, providerUserID string) (*domain.Credential, error) {
	args := m.Called(ctx, authProvider, providerUserID)
	var cred *domain.Credential
	if args.Get(0) != nil {
		cred = args.Get(0).(*domain.Credential)
	}
	return cred, args.Error(1)
}

func (m *MockCredentialRepository) SaveCredential(ctx context.Context, cred domain.Credential) error {
	args := m.Called(ctx, cred)
	return args.Error(0)
}

func (m *MockCredentialRepository) DeleteCredential(ctx context.Context, userID string) error {
	args := m.Called(ctx, userID)
	return args.Error(0)
}

func (m *MockCredentialRepository) UpdatePassword(ctx context.Context, userID string, passwordHash string) error {
	args := m.Called(ctx, userID, passwordHash)
	return args.Error(0)
}

func (m *MockCredentialRepository) UpdateRefreshToken(ctx context.Context, userID string, refreshTokenHash string, refreshTokenExpiryTime time.Time) error {
	args := m.Called(ctx, userID, refreshTokenHash, refreshTokenExpiryTime)
	return args.Error(0)
}

func (m *MockCredentialRepository) ClearRefreshToken(ctx context.Context, userID string) error {
	args := m.Called(ctx, userID)
	return args.Error(0)
}

// --- Mock OrganizationRepository ---
type MockOrganizationRepository struct {
	mock.Mock
}

func (m *MockOrganizationRepository) FindOrganizationByID(ctx context.Context, organizationID string) (*domain.Organization, error) {
	args := m.Called(ctx, organizationID)
	var org *domain.Organization
	if args.Get(0) != nil {
		org = args.Get(0).(*domain.Organization)
	}
	return org, args.Error(1)
}

func (m *MockOrganizationRepository) FindOrganizationBySlug(ctx context.Context, slug string) (*domain.Organization, error) {
	args := m.Called(ctx, slug)
	var org *domain.Organization
	if args.Get(0) != nil {
		org = args.Get(0).(*domain.Organization)
	}
	return org, args.Error(1)
}

func (m *MockOrganizationRepository) ListOrganizations(ctx context.Context, limit, offset int) ([]domain.Organization, error) {
	args := m.Called(ctx, limit, offset)
	var orgs []domain.Organization
	if args.Get(0) != nil {
		orgs = args.Get(0).([]domain.Organization)
	}
	return orgs, args.Error(1)
}

func (m *MockOrganizationRepository) SaveOrganization(ctx context.Context, org domain.Organization) error {
	args := m.Called(ctx, org)
	return args.Error(0)
}

func (m *MockOrganizationRepository) UpdateOrganization(ctx context.Context, org domain.Organization) error {
	args := m.Called(ctx, org)
	return args.Error(0)
}

// --- Test Suite ---
type UserServiceTestSuite struct {
	suite.Suite
	mockUserRepo *MockUserRepository
	mockCredRepo *MockCredentialRepository
	mockOrgRepo  *MockOrganizationRepository
	service      portssvc.UserSvcFacade

	orgID  string
	tailor *domain.User
}

func (suite *UserServiceTestSuite) SetupTest() {
	suite.mockUserRepo = new(MockUserRepository)
	suite.mockCredRepo = new(MockCredentialRepository)
	suite.mockOrgRepo = new(MockOrganizationRepository)
	suite.service = services.NewUserService(suite.mockUserRepo, suite.mockCredRepo, suite.mockOrgRepo, testInternalEmailDomain)

	suite.orgID = "org-1"
	orgID := suite.orgID
	suite.tailor = &domain.User{
		UserID:         "tailor-1",
		Role:           domain.RoleTailor,
		OrganizationID: &orgID,
		IsActive:       true,
	}
}

func TestUserServiceTestSuite(t *testing.T) {
	suite.Run(t, new(UserServiceTestSuite))
}

func (suite *UserServiceTestSuite) TestCreateAccount_StitcherGetsSynthesizedEmail() {
	ctx := context.Background()

	var savedCred domain.Credential
	suite.mockCredRepo.On("SaveCredential", ctx, mock.MatchedBy(func(c domain.Credential) bool {
		savedCred = c
		return c.Email == "nadia@"+testInternalEmailDomain && c.EmailConfirmed
	})).Return(nil).Once()

	suite.mockUserRepo.On("SaveUser", ctx, mock.MatchedBy(func(u domain.User) bool {
		return u.Role == domain.RoleStitcher &&
			u.Username == "nadia" &&
			u.OrganizationID != nil && *u.OrganizationID == suite.orgID &&
			u.IsActive &&
			u.CreatedBy == suite.tailor.UserID
	})).Return(nil).Once()

	user, err := suite.service.CreateAccount(ctx, suite.tailor, dto.CreateUserRequest{
		Role:     domain.RoleStitcher,
		FullName: "Nadia",
		Username: "Nadia",
		Password: "supersecret",
	})

	assert.NoError(suite.T(), err)
	assert.NotNil(suite.T(), user)
	assert.Equal(suite.T(), savedCred.UserID, user.UserID)
	assert.Equal(suite.T(), "nadia@"+testInternalEmailDomain, user.Email)
	suite.mockCredRepo.AssertExpectations(suite.T())
	suite.mockUserRepo.AssertExpectations(suite.T())
}

func (suite *UserServiceTestSuite) TestCreateAccount_StitcherRequiresUsername() {
	ctx := context.Background()

	user, err := suite.service.CreateAccount(ctx, suite.tailor, dto.CreateUserRequest{
		Role:     domain.RoleStitcher,
		FullName: "Nadia",
		Password: "supersecret",
	})

	assert.Nil(suite.T(), user)
	assert.ErrorIs(suite.T(), err, apperrors.ErrValidation)
	suite.mockCredRepo.AssertNotCalled(suite.T(), "SaveCredential", mock.Anything, mock.Anything)
}

func (suite *UserServiceTestSuite) TestCreateAccount_RoleAuthorityEnforced() {
	ctx := context.Background()

	// A tailor cannot mint another tailor.
	_, err := suite.service.CreateAccount(ctx, suite.tailor, dto.CreateUserRequest{
		Role:     domain.RoleTailor,
		FullName: "Rival",
		Email:    "rival@example.com",
		Password: "supersecret",
	})
	assert.ErrorIs(suite.T(), err, apperrors.ErrForbidden)

	// A customer cannot provision anyone.
	orgID := suite.orgID
	customer := &domain.User{UserID: "cust-1", Role: domain.RoleCustomer, OrganizationID: &orgID, IsActive: true}
	_, err = suite.service.CreateAccount(ctx, customer, dto.CreateUserRequest{
		Role:     domain.RoleCustomer,
		FullName: "Friend",
		Email:    "friend@example.com",
		Password: "supersecret",
	})
	assert.ErrorIs(suite.T(), err, apperrors.ErrForbidden)
}

func (suite *UserServiceTestSuite) TestCreateAccount_CredentialFailureNamesTheStep() {
	ctx := context.Background()

	suite.mockCredRepo.On("SaveCredential", ctx, mock.AnythingOfType("domain.Credential")).
		Return(apperrors.NewConflictError("an account with email taken@example.com already exists")).Once()

	user, err := suite.service.CreateAccount(ctx, suite.tailor, dto.CreateUserRequest{
		Role:     domain.RoleCustomer,
		FullName: "Taken",
		Email:    "taken@example.com",
		Password: "supersecret",
	})

	assert.Nil(suite.T(), user)
	assert.ErrorContains(suite.T(), err, "credential creation failed")
	assert.ErrorIs(suite.T(), err, apperrors.ErrDuplicate)
	// No profile write, no compensation needed.
	suite.mockUserRepo.AssertNotCalled(suite.T(), "SaveUser", mock.Anything, mock.Anything)
	suite.mockCredRepo.AssertNotCalled(suite.T(), "DeleteCredential", mock.Anything, mock.Anything)
}

func (suite *UserServiceTestSuite) TestCreateAccount_ProfileFailureRollsBackCredential() {
	ctx := context.Background()
	profileErr := errors.New("connection reset")

	var credUserID string
	suite.mockCredRepo.On("SaveCredential", ctx, mock.MatchedBy(func(c domain.Credential) bool {
		credUserID = c.UserID
		return true
	})).Return(nil).Once()
	suite.mockUserRepo.On("SaveUser", ctx, mock.AnythingOfType("domain.User")).Return(profileErr).Once()
	suite.mockCredRepo.On("DeleteCredential", ctx, mock.MatchedBy(func(id string) bool {
		return id == credUserID
	})).Return(nil).Once()

	user, err := suite.service.CreateAccount(ctx, suite.tailor, dto.CreateUserRequest{
		Role:     domain.RoleCustomer,
		FullName: "Unlucky",
		Email:    "unlucky@example.com",
		Password: "supersecret",
	})

	assert.Nil(suite.T(), user)
	assert.ErrorContains(suite.T(), err, "profile creation failed")
	suite.mockCredRepo.AssertExpectations(suite.T())
	suite.mockUserRepo.AssertExpectations(suite.T())
}

func (suite *UserServiceTestSuite) TestRegisterSelfService_UnknownSlugRejected() {
	ctx := context.Background()

	suite.mockOrgRepo.On("FindOrganizationBySlug", ctx, "nope").Return(nil, apperrors.ErrNotFound).Once()

	user, err := suite.service.RegisterSelfService(ctx, dto.RegisterRequest{
		FullName:         "Walkin",
		Email:            "walkin@example.com",
		Password:         "supersecret",
		Role:             domain.RoleCustomer,
		OrganizationSlug: "nope",
	})

	assert.Nil(suite.T(), user)
	assert.ErrorIs(suite.T(), err, apperrors.ErrValidation)
}

func (suite *UserServiceTestSuite) TestAuthenticate_StitcherByUsername() {
	ctx := context.Background()
	hash, err := bcrypt.GenerateFromPassword([]byte("supersecret"), bcrypt.MinCost)
	assert.NoError(suite.T(), err)

	orgID := suite.orgID
	stitcher := &domain.User{
		UserID:         "stitcher-1",
		Role:           domain.RoleStitcher,
		OrganizationID: &orgID,
		Username:       "nadia",
		IsActive:       true,
	}
	cred := &domain.Credential{UserID: "stitcher-1", PasswordHash: string(hash)}

	suite.mockUserRepo.On("FindUserByUsername", ctx, "nadia").Return(stitcher, nil).Twice()
	suite.mockCredRepo.On("FindCredentialByUserID", ctx, "stitcher-1").Return(cred, nil).Twice()
	suite.mockUserRepo.On("FindUserByID", ctx, "stitcher-1").Return(stitcher, nil).Once()

	got, err := suite.service.Authenticate(ctx, "nadia", "supersecret")
	assert.NoError(suite.T(), err)
	assert.Equal(suite.T(), "stitcher-1", got.UserID)

	_, err = suite.service.Authenticate(ctx, "nadia", "wrongpassword")
	assert.ErrorIs(suite.T(), err, apperrors.ErrUnauthorized)
}

func (suite *UserServiceTestSuite) TestAuthenticate_DeactivatedAccountRejected() {
	ctx := context.Background()
	hash, err := bcrypt.GenerateFromPassword([]byte("supersecret"), bcrypt.MinCost)
	assert.NoError(suite.T(), err)

	orgID := suite.orgID
	user := &domain.User{UserID: "u-1", Role: domain.RoleCustomer, OrganizationID: &orgID, IsActive: false}
	cred := &domain.Credential{UserID: "u-1", Email: "gone@example.com", PasswordHash: string(hash)}

	suite.mockCredRepo.On("FindCredentialByEmail", ctx, "gone@example.com").Return(cred, nil).Once()
	suite.mockUserRepo.On("FindUserByID", ctx, "u-1").Return(user, nil).Once()

	_, err = suite.service.Authenticate(ctx, "gone@example.com", "supersecret")
	assert.ErrorIs(suite.T(), err, apperrors.ErrForbidden)
}

func (suite *UserServiceTestSuite) TestSetUserActive_CannotDeactivateSelf() {
	ctx := context.Background()
	err := suite.service.SetUserActive(ctx, suite.tailor, suite.tailor.UserID, false)
	assert.ErrorIs(suite.T(), err, apperrors.ErrForbidden)
}
