package services_test

import (
	"context"
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/suite"

	"github.com/stitchdesk/tailor_shop_app/internal/apperrors"
	"github.com/stitchdesk/tailor_shop_app/internal/core/domain"
	portssvc "github.com/stitchdesk/tailor_shop_app/internal/core/ports/services"
	"github.com/stitchdesk/tailor_shop_app/internal/core/services"
	"github.com/stitchdesk/tailor_shop_app/internal/dto"
)

// --- Mock AssignmentRepository ---
type MockAssignmentRepository struct {
	mock.Mock
}

func (m *MockAssignmentRepository) FindAssignmentByID(ctx context.Context, assignmentID string) (*domain.WorkAssignment, error) {
	args := m.Called(ctx, assignmentID)
	var assignment *domain.WorkAssignment
	if args.Get(0) != nil {
		assignment = args.Get(0).(*domain.WorkAssignment)
	}
	return assignment, args.Error(1)
}

func (m *MockAssignmentRepository) FindAssignmentByOrderRowID(ctx context.Context, orderRowID string) (*domain.WorkAssignment, error) {
	args := m.Called(ctx, orderRowID)
	var assignment *domain.WorkAssignment
	if args.Get(0) != nil {
		assignment = args.Get(0).(*domain.WorkAssignment)
	}
	return assignment, args.Error(1)
}

func (m *MockAssignmentRepository) ListAssignmentsByStitcher(ctx context.Context, stitcherID string, limit, offset int) ([]domain.WorkAssignment, error) {
	args := m.Called(ctx, stitcherID, limit, offset)
	var assignments []domain.WorkAssignment
	if args.Get(0) != nil {
		assignments = args.Get(0).([]domain.WorkAssignment)
	}
	return assignments, args.Error(1)
}

func (m *MockAssignmentRepository) GetStitcherStats(ctx context.Context, stitcherID string) (*domain.StitcherStats, error) {
	args := m.Called(ctx, stitcherID)
	var stats *domain.StitcherStats
	if args.Get(0) != nil {
		stats = args.Get(0).(*domain.StitcherStats)
	}
	return stats, args.Error(1)
}

func (m *MockAssignmentRepository) GetTailorStitcherStats(ctx context.Context, tailorID string) ([]domain.StitcherStats, error) {
	args := m.Called(ctx, tailorID)
	var stats []domain.StitcherStats
	if args.Get(0) != nil {
		stats = args.Get(0).([]domain.StitcherStats)
	}
	return stats, args.Error(1)
}

func (m *MockAssignmentRepository) SaveAssignment(ctx context.Context, assignment domain.WorkAssignment) error {
	args := m.Called(ctx, assignment)
	return args.Error(0)
}

func (m *MockAssignmentRepository) UpdateAssignment(ctx context.Context, assignment domain.WorkAssignment) error {
	args := m.Called(ctx, assignment)
	return args.Error(0)
}

// --- Test Suite ---
type AssignmentServiceTestSuite struct {
	suite.Suite
	mockAssignmentRepo *MockAssignmentRepository
	mockOrderRepo      *MockOrderRepository
	mockUserRepo       *MockUserRepository
	service            portssvc.AssignmentSvcFacade

	orgID    string
	tailor   *domain.User
	stitcher *domain.User
}

func (suite *AssignmentServiceTestSuite) SetupTest() {
	suite.mockAssignmentRepo = new(MockAssignmentRepository)
	suite.mockOrderRepo = new(MockOrderRepository)
	suite.mockUserRepo = new(MockUserRepository)
	suite.service = services.NewAssignmentService(suite.mockAssignmentRepo, suite.mockOrderRepo, suite.mockUserRepo)

	suite.orgID = "org-1"
	orgID := suite.orgID
	suite.tailor = &domain.User{UserID: "tailor-1", Role: domain.RoleTailor, OrganizationID: &orgID, IsActive: true}
	suite.stitcher = &domain.User{UserID: "stitcher-1", Role: domain.RoleStitcher, OrganizationID: &orgID, IsActive: true}
}

func TestAssignmentServiceTestSuite(t *testing.T) {
	suite.Run(t, new(AssignmentServiceTestSuite))
}

func (suite *AssignmentServiceTestSuite) inStitchingOrder() *domain.Order {
	return &domain.Order{
		ID:             "row-1",
		OrderID:        "TS-0001",
		CustomerID:     "cust-1",
		OrganizationID: suite.orgID,
		Status:         domain.OrderInStitching,
		TotalAmount:    decimal.NewFromInt(100),
	}
}

func (suite *AssignmentServiceTestSuite) assignedAssignment() *domain.WorkAssignment {
	return &domain.WorkAssignment{
		AssignmentID:   "as-1",
		OrderRowID:     "row-1",
		OrganizationID: suite.orgID,
		StitcherID:     suite.stitcher.UserID,
		TailorID:       suite.tailor.UserID,
		Status:         domain.AssignmentAssigned,
		AssignedAt:     time.Now().Add(-time.Hour),
	}
}

func (suite *AssignmentServiceTestSuite) TestAssignWork_CreatesAssignmentAndDenormalizes() {
	ctx := context.Background()
	order := suite.inStitchingOrder()

	suite.mockOrderRepo.On("FindOrderByRowID", ctx, order.ID).Return(order, nil).Once()
	suite.mockUserRepo.On("FindUserByID", ctx, suite.stitcher.UserID).Return(suite.stitcher, nil).Once()
	suite.mockAssignmentRepo.On("FindAssignmentByOrderRowID", ctx, order.ID).Return(nil, apperrors.ErrNotFound).Once()
	suite.mockAssignmentRepo.On("SaveAssignment", ctx, mock.MatchedBy(func(a domain.WorkAssignment) bool {
		return a.OrderRowID == order.ID &&
			a.StitcherID == suite.stitcher.UserID &&
			a.TailorID == suite.tailor.UserID &&
			a.Status == domain.AssignmentAssigned &&
			a.ProgressPercentage == 0
	})).Return(nil).Once()
	suite.mockOrderRepo.On("SetOrderStitcher", ctx, order.ID, suite.stitcher.UserID, suite.tailor.UserID, suite.tailor.UserID).Return(nil).Once()

	hours := 8.0
	assignment, err := suite.service.AssignWork(ctx, suite.tailor, dto.AssignWorkRequest{
		OrderRowID:     order.ID,
		StitcherID:     suite.stitcher.UserID,
		EstimatedHours: &hours,
	})

	assert.NoError(suite.T(), err)
	assert.Equal(suite.T(), domain.AssignmentAssigned, assignment.Status)
	suite.mockAssignmentRepo.AssertExpectations(suite.T())
	suite.mockOrderRepo.AssertExpectations(suite.T())
}

func (suite *AssignmentServiceTestSuite) TestAssignWork_ExistingAssignmentReassignedInPlace() {
	ctx := context.Background()
	order := suite.inStitchingOrder()
	existing := suite.assignedAssignment()
	existing.Status = domain.AssignmentInProgress
	existing.ProgressPercentage = 40
	started := time.Now().Add(-30 * time.Minute)
	existing.StartedAt = &started

	orgID := suite.orgID
	newStitcher := &domain.User{UserID: "stitcher-2", Role: domain.RoleStitcher, OrganizationID: &orgID, IsActive: true}

	suite.mockOrderRepo.On("FindOrderByRowID", ctx, order.ID).Return(order, nil).Once()
	suite.mockUserRepo.On("FindUserByID", ctx, newStitcher.UserID).Return(newStitcher, nil).Once()
	suite.mockAssignmentRepo.On("FindAssignmentByOrderRowID", ctx, order.ID).Return(existing, nil).Once()
	suite.mockAssignmentRepo.On("UpdateAssignment", ctx, mock.MatchedBy(func(a domain.WorkAssignment) bool {
		return a.AssignmentID == existing.AssignmentID &&
			a.StitcherID == newStitcher.UserID &&
			a.Status == domain.AssignmentAssigned &&
			a.ProgressPercentage == 0 &&
			a.StartedAt == nil
	})).Return(nil).Once()
	suite.mockOrderRepo.On("SetOrderStitcher", ctx, order.ID, newStitcher.UserID, suite.tailor.UserID, suite.tailor.UserID).Return(nil).Once()

	assignment, err := suite.service.AssignWork(ctx, suite.tailor, dto.AssignWorkRequest{
		OrderRowID: order.ID,
		StitcherID: newStitcher.UserID,
	})

	assert.NoError(suite.T(), err)
	assert.Equal(suite.T(), existing.AssignmentID, assignment.AssignmentID)
	suite.mockAssignmentRepo.AssertExpectations(suite.T())
}

func (suite *AssignmentServiceTestSuite) TestAssignWork_NonStitcherRejected() {
	ctx := context.Background()
	order := suite.inStitchingOrder()

	orgID := suite.orgID
	suite.mockOrderRepo.On("FindOrderByRowID", ctx, order.ID).Return(order, nil).Once()
	suite.mockUserRepo.On("FindUserByID", ctx, "cust-1").
		Return(&domain.User{UserID: "cust-1", Role: domain.RoleCustomer, OrganizationID: &orgID, IsActive: true}, nil).Once()

	_, err := suite.service.AssignWork(ctx, suite.tailor, dto.AssignWorkRequest{
		OrderRowID: order.ID,
		StitcherID: "cust-1",
	})
	assert.ErrorIs(suite.T(), err, apperrors.ErrValidation)
}

// The full production loop: assign, first progress, finish, tailor review.
func (suite *AssignmentServiceTestSuite) TestProgressLifecycle() {
	ctx := context.Background()
	assignment := suite.assignedAssignment()

	suite.mockAssignmentRepo.On("FindAssignmentByID", ctx, assignment.AssignmentID).Return(assignment, nil).Times(3)
	suite.mockAssignmentRepo.On("UpdateAssignment", ctx, mock.AnythingOfType("domain.WorkAssignment")).Return(nil).Times(3)

	// First progress report moves the assignment into production.
	progress := 25
	updated, err := suite.service.UpdateProgress(ctx, suite.stitcher, assignment.AssignmentID, dto.UpdateProgressRequest{Progress: &progress, Notes: "cut and pinned"})
	assert.NoError(suite.T(), err)
	assert.Equal(suite.T(), domain.AssignmentInProgress, updated.Status)
	assert.NotNil(suite.T(), updated.StartedAt)
	firstStart := *updated.StartedAt

	// Reaching 100 completes the assignment without tailor involvement.
	progress = 100
	updated, err = suite.service.UpdateProgress(ctx, suite.stitcher, assignment.AssignmentID, dto.UpdateProgressRequest{Progress: &progress})
	assert.NoError(suite.T(), err)
	assert.Equal(suite.T(), domain.AssignmentCompleted, updated.Status)
	assert.NotNil(suite.T(), updated.CompletedAt)
	assert.Equal(suite.T(), firstStart, *updated.StartedAt, "started_at must not move on later reports")

	// The tailor records the review afterwards.
	hours := 9.5
	rating := 4
	updated, err = suite.service.CompleteAssignment(ctx, suite.tailor, assignment.AssignmentID, dto.CompleteAssignmentRequest{
		ActualHours:   &hours,
		QualityRating: &rating,
		QualityNotes:  "clean seams",
	})
	assert.NoError(suite.T(), err)
	assert.Equal(suite.T(), 100, updated.ProgressPercentage)
	assert.Equal(suite.T(), 4, *updated.QualityRating)
	suite.mockAssignmentRepo.AssertExpectations(suite.T())
}

func (suite *AssignmentServiceTestSuite) TestUpdateProgress_OnlyAssignedStitcher() {
	ctx := context.Background()
	assignment := suite.assignedAssignment()

	orgID := suite.orgID
	otherStitcher := &domain.User{UserID: "stitcher-9", Role: domain.RoleStitcher, OrganizationID: &orgID, IsActive: true}
	progress := 10

	// A different stitcher must not even learn the assignment exists.
	suite.mockAssignmentRepo.On("FindAssignmentByID", ctx, assignment.AssignmentID).Return(assignment, nil).Times(2)
	_, err := suite.service.UpdateProgress(ctx, otherStitcher, assignment.AssignmentID, dto.UpdateProgressRequest{Progress: &progress})
	assert.ErrorIs(suite.T(), err, apperrors.ErrNotFound)

	// The tailor has the completion override, not the progress endpoint.
	_, err = suite.service.UpdateProgress(ctx, suite.tailor, assignment.AssignmentID, dto.UpdateProgressRequest{Progress: &progress})
	assert.ErrorIs(suite.T(), err, apperrors.ErrForbidden)
}

func (suite *AssignmentServiceTestSuite) TestUpdateProgress_TerminalAssignmentRejected() {
	ctx := context.Background()
	assignment := suite.assignedAssignment()
	assignment.Status = domain.AssignmentCancelled

	suite.mockAssignmentRepo.On("FindAssignmentByID", ctx, assignment.AssignmentID).Return(assignment, nil).Once()

	progress := 50
	_, err := suite.service.UpdateProgress(ctx, suite.stitcher, assignment.AssignmentID, dto.UpdateProgressRequest{Progress: &progress})
	assert.ErrorIs(suite.T(), err, apperrors.ErrValidation)
	suite.mockAssignmentRepo.AssertNotCalled(suite.T(), "UpdateAssignment", mock.Anything, mock.Anything)
}

func (suite *AssignmentServiceTestSuite) TestReassignWork_KeepsReviewHistory() {
	ctx := context.Background()
	assignment := suite.assignedAssignment()
	assignment.Status = domain.AssignmentCompleted
	assignment.ProgressPercentage = 100
	completed := time.Now().Add(-10 * time.Minute)
	assignment.CompletedAt = &completed
	rating := 2
	assignment.QualityRating = &rating

	orgID := suite.orgID
	newStitcher := &domain.User{UserID: "stitcher-2", Role: domain.RoleStitcher, OrganizationID: &orgID, IsActive: true}

	suite.mockAssignmentRepo.On("FindAssignmentByID", ctx, assignment.AssignmentID).Return(assignment, nil).Once()
	suite.mockUserRepo.On("FindUserByID", ctx, newStitcher.UserID).Return(newStitcher, nil).Once()
	suite.mockAssignmentRepo.On("UpdateAssignment", ctx, mock.MatchedBy(func(a domain.WorkAssignment) bool {
		return a.StitcherID == newStitcher.UserID &&
			a.Status == domain.AssignmentAssigned &&
			a.ProgressPercentage == 0 &&
			a.StartedAt == nil &&
			a.CompletedAt != nil && // prior cycle history stays
			a.QualityRating != nil
	})).Return(nil).Once()
	suite.mockOrderRepo.On("SetOrderStitcher", ctx, assignment.OrderRowID, newStitcher.UserID, suite.tailor.UserID, suite.tailor.UserID).Return(nil).Once()

	updated, err := suite.service.ReassignWork(ctx, suite.tailor, assignment.AssignmentID, newStitcher.UserID)
	assert.NoError(suite.T(), err)
	assert.Equal(suite.T(), newStitcher.UserID, updated.StitcherID)
	suite.mockAssignmentRepo.AssertExpectations(suite.T())
}

func (suite *AssignmentServiceTestSuite) TestListMyAssignments_StitchersOnly() {
	ctx := context.Background()

	suite.mockAssignmentRepo.On("ListAssignmentsByStitcher", ctx, suite.stitcher.UserID, 20, 0).Return([]domain.WorkAssignment{*suite.assignedAssignment()}, nil).Once()

	assignments, err := suite.service.ListMyAssignments(ctx, suite.stitcher, dto.ListAssignmentsParams{Limit: 20})
	assert.NoError(suite.T(), err)
	assert.Len(suite.T(), assignments, 1)

	_, err = suite.service.ListMyAssignments(ctx, suite.tailor, dto.ListAssignmentsParams{})
	assert.ErrorIs(suite.T(), err, apperrors.ErrForbidden)
}

func (suite *AssignmentServiceTestSuite) TestGetTailorStitcherStats() {
	ctx := context.Background()
	avg := 4.5
	suite.mockAssignmentRepo.On("GetTailorStitcherStats", ctx, suite.tailor.UserID).Return([]domain.StitcherStats{
		{StitcherID: suite.stitcher.UserID, TotalAssigned: 12, Completed: 10, AvgQualityRating: &avg, TotalActualHours: 96},
	}, nil).Once()

	stats, err := suite.service.GetTailorStitcherStats(ctx, suite.tailor)
	assert.NoError(suite.T(), err)
	assert.Len(suite.T(), stats, 1)
	assert.Equal(suite.T(), 10, stats[0].Completed)
}
