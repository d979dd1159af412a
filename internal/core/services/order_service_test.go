package services_test

import (
	"context"
	"fmt"
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/suite"

	"github.com/stitchdesk/tailor_shop_app/internal/apperrors"
	"github.com/stitchdesk/tailor_shop_app/internal/core/domain"
	portsrepo "github.com/stitchdesk/tailor_shop_app/internal/core/ports/repositories"
	portssvc "github.com/stitchdesk/tailor_shop_app/internal/core/ports/services"
	"github.com/stitchdesk/tailor_shop_app/internal/core/services"
	"github.com/stitchdesk/tailor_shop_app/internal/dto"
)

// --- Mock OrderRepository ---
type MockOrderRepository struct {
	mock.Mock
}

func (m *MockOrderRepository) FindOrderByRowID(ctx context.Context, orderRowID string) (*domain.Order, error) {
	args := m.Called(ctx, orderRowID)
	var order *domain.Order
	if args.Get(0) != nil {
		order = args.Get(0).(*domain.Order)
	}
	return order, args.Error(1)
}

func (m *MockOrderRepository) FindOrderByOrderID(ctx context.Context, organizationID, orderID string) (*domain.Order, error) {
	args := m.Called(ctx, organizationID, orderID)
	var order *domain.Order
	if args.Get(0) != nil {
		order = args.Get(0).(*domain.Order)
	}
	return order, args.Error(1)
}

func (m *MockOrderRepository) ListOrders(ctx context.Context, organizationID string, filter portsrepo.OrderFilter, createdBefore *time.Time, limit int) ([]domain.Order, error) {
	args := m.Called(ctx, organizationID, filter, createdBefore, limit)
	var orders []domain.Order
	if args.Get(0) != nil {
		orders = args.Get(0).([]domain.Order)
	}
	return orders, args.Error(1)
}

func (m *MockOrderRepository) FindMeasurement(ctx context.Context, orderRowID string) (*domain.OrderMeasurement, error) {
	args := m.Called(ctx, orderRowID)
	var measurement *domain.OrderMeasurement
	if args.Get(0) != nil {
		measurement = args.Get(0).(*domain.OrderMeasurement)
	}
	return measurement, args.Error(1)
}

func (m *MockOrderRepository) ListExtraCharges(ctx context.Context, orderRowID string) ([]domain.OrderExtraCharge, error) {
	args := m.Called(ctx, orderRowID)
	var charges []domain.OrderExtraCharge
	if args.Get(0) != nil {
		charges = args.Get(0).([]domain.OrderExtraCharge)
	}
	return charges, args.Error(1)
}

func (m *MockOrderRepository) NextOrderSequence(ctx context.Context, organizationID string) (int64, error) {
	args := m.Called(ctx, organizationID)
	return args.Get(0).(int64), args.Error(1)
}

func (m *MockOrderRepository) SaveOrder(ctx context.Context, order domain.Order) error {
	args := m.Called(ctx, order)
	return args.Error(0)
}

func (m *MockOrderRepository) UpdateOrderDetails(ctx context.Context, order domain.Order) error {
	args := m.Called(ctx, order)
	return args.Error(0)
}

func (m *MockOrderRepository) UpdateOrderStatus(ctx context.Context, orderRowID string, status domain.OrderStatus, updatedBy string) error {
	args := m.Called(ctx, orderRowID, status, updatedBy)
	return args.Error(0)
}

func (m *MockOrderRepository) SetOrderStitcher(ctx context.Context, orderRowID string, stitcherID, tailorID, updatedBy string) error {
	args := m.Called(ctx, orderRowID, stitcherID, tailorID, updatedBy)
	return args.Error(0)
}

func (m *MockOrderRepository) SetDesignReferenceURL(ctx context.Context, orderRowID string, url string, updatedBy string) error {
	args := m.Called(ctx, orderRowID, url, updatedBy)
	return args.Error(0)
}

func (m *MockOrderRepository) UpsertMeasurement(ctx context.Context, measurement domain.OrderMeasurement) error {
	args := m.Called(ctx, measurement)
	return args.Error(0)
}

func (m *MockOrderRepository) AddExtraCharge(ctx context.Context, charge domain.OrderExtraCharge) error {
	args := m.Called(ctx, charge)
	return args.Error(0)
}

// --- Test Suite ---
type OrderServiceTestSuite struct {
	suite.Suite
	mockOrderRepo *MockOrderRepository
	mockUserRepo  *MockUserRepository
	service       portssvc.OrderSvcFacade

	orgID    string
	tailor   *domain.User
	customer *domain.User
}

func (suite *OrderServiceTestSuite) SetupTest() {
	suite.mockOrderRepo = new(MockOrderRepository)
	suite.mockUserRepo = new(MockUserRepository)
	suite.service = services.NewOrderService(suite.mockOrderRepo, suite.mockUserRepo)

	suite.orgID = "org-1"
	orgID := suite.orgID
	suite.tailor = &domain.User{UserID: "tailor-1", Role: domain.RoleTailor, OrganizationID: &orgID, IsActive: true}
	suite.customer = &domain.User{UserID: "cust-1", Role: domain.RoleCustomer, OrganizationID: &orgID, IsActive: true}
}

func TestOrderServiceTestSuite(t *testing.T) {
	suite.Run(t, new(OrderServiceTestSuite))
}

func (suite *OrderServiceTestSuite) pendingOrder() *domain.Order {
	return &domain.Order{
		ID:             "row-1",
		OrderID:        "TS-0007",
		CustomerID:     suite.customer.UserID,
		OrganizationID: suite.orgID,
		Status:         domain.OrderPending,
		TotalAmount:    decimal.NewFromInt(100),
		AdvanceAmount:  decimal.NewFromInt(50),
	}
}

func (suite *OrderServiceTestSuite) TestCreateOrder_MintsSequencedOrderID() {
	ctx := context.Background()

	suite.mockUserRepo.On("FindUserByID", ctx, suite.customer.UserID).Return(suite.customer, nil).Once()
	suite.mockOrderRepo.On("NextOrderSequence", ctx, suite.orgID).Return(int64(7), nil).Once()
	suite.mockOrderRepo.On("SaveOrder", ctx, mock.MatchedBy(func(o domain.Order) bool {
		return o.OrderID == "TS-0007" &&
			o.Status == domain.OrderPending &&
			o.TailorID != nil && *o.TailorID == suite.tailor.UserID
	})).Return(nil).Once()
	suite.mockOrderRepo.On("UpsertMeasurement", ctx, mock.MatchedBy(func(m domain.OrderMeasurement) bool {
		return m.Chest != nil && *m.Chest == 40.5
	})).Return(nil).Once()

	chest := 40.5
	order, err := suite.service.CreateOrder(ctx, suite.tailor, dto.CreateOrderRequest{
		CustomerID:    suite.customer.UserID,
		Category:      "MENS",
		ClothingType:  "Thobe",
		Quantity:      1,
		TotalAmount:   decimal.NewFromInt(100),
		AdvanceAmount: decimal.NewFromInt(50),
		Measurements:  &dto.MeasurementPayload{Chest: &chest},
	})

	assert.NoError(suite.T(), err)
	assert.Equal(suite.T(), "TS-0007", order.OrderID)
	suite.mockOrderRepo.AssertExpectations(suite.T())
}

func (suite *OrderServiceTestSuite) TestCreateOrder_CustomerOrdersForSelfOnly() {
	ctx := context.Background()

	_, err := suite.service.CreateOrder(ctx, suite.customer, dto.CreateOrderRequest{
		CustomerID:   "someone-else",
		Category:     "MENS",
		ClothingType: "Thobe",
		Quantity:     1,
	})
	assert.ErrorIs(suite.T(), err, apperrors.ErrForbidden)
}

func (suite *OrderServiceTestSuite) TestCreateOrder_AdvanceCannotExceedTotal() {
	ctx := context.Background()

	suite.mockUserRepo.On("FindUserByID", ctx, suite.customer.UserID).Return(suite.customer, nil).Once()

	_, err := suite.service.CreateOrder(ctx, suite.tailor, dto.CreateOrderRequest{
		CustomerID:    suite.customer.UserID,
		Category:      "MENS",
		ClothingType:  "Thobe",
		Quantity:      1,
		TotalAmount:   decimal.NewFromInt(50),
		AdvanceAmount: decimal.NewFromInt(100),
	})
	assert.ErrorIs(suite.T(), err, apperrors.ErrValidation)
	suite.mockOrderRepo.AssertNotCalled(suite.T(), "NextOrderSequence", mock.Anything, mock.Anything)
}

func (suite *OrderServiceTestSuite) TestUpdateOrder_RejectedOncePastPending() {
	ctx := context.Background()
	order := suite.pendingOrder()
	order.Status = domain.OrderInStitching

	suite.mockOrderRepo.On("FindOrderByRowID", ctx, order.ID).Return(order, nil).Once()

	color := "navy"
	_, err := suite.service.UpdateOrder(ctx, suite.tailor, order.ID, dto.UpdateOrderRequest{Color: &color})
	assert.ErrorIs(suite.T(), err, apperrors.ErrValidation)
	assert.ErrorContains(suite.T(), err, "pending")
	suite.mockOrderRepo.AssertNotCalled(suite.T(), "UpdateOrderDetails", mock.Anything, mock.Anything)
}

func (suite *OrderServiceTestSuite) TestTransitionOrder_TableEnforced() {
	ctx := context.Background()

	testCases := []struct {
		from    domain.OrderStatus
		to      domain.OrderStatus
		allowed bool
	}{
		{domain.OrderPending, domain.OrderInStitching, true},
		{domain.OrderPending, domain.OrderCompleted, false},
		{domain.OrderInStitching, domain.OrderCompleted, true},
		{domain.OrderInStitching, domain.OrderDelivered, false},
		{domain.OrderCompleted, domain.OrderDelivered, true},
		{domain.OrderCompleted, domain.OrderCompletedNotPicked, true},
		{domain.OrderCompletedNotPicked, domain.OrderDelivered, true},
		{domain.OrderDelivered, domain.OrderCancelled, false},
		{domain.OrderCancelled, domain.OrderPending, false},
	}

	for i, tc := range testCases {
		order := suite.pendingOrder()
		order.ID = fmt.Sprintf("row-%d", i)
		order.Status = tc.from
		suite.mockOrderRepo.On("FindOrderByRowID", ctx, order.ID).Return(order, nil).Once()
		if tc.allowed {
			suite.mockOrderRepo.On("UpdateOrderStatus", ctx, order.ID, tc.to, suite.tailor.UserID).Return(nil).Once()
		}

		updated, err := suite.service.TransitionOrder(ctx, suite.tailor, order.ID, tc.to)
		if tc.allowed {
			assert.NoError(suite.T(), err, "%s -> %s", tc.from, tc.to)
			assert.Equal(suite.T(), tc.to, updated.Status)
		} else {
			assert.ErrorIs(suite.T(), err, apperrors.ErrValidation, "%s -> %s", tc.from, tc.to)
		}
	}
	suite.mockOrderRepo.AssertExpectations(suite.T())
}

func (suite *OrderServiceTestSuite) TestTransitionOrder_CustomerMayOnlyCancelPending() {
	ctx := context.Background()

	order := suite.pendingOrder()
	suite.mockOrderRepo.On("FindOrderByRowID", ctx, order.ID).Return(order, nil).Times(3)

	// Cancelling a pending order is allowed.
	suite.mockOrderRepo.On("UpdateOrderStatus", ctx, order.ID, domain.OrderCancelled, suite.customer.UserID).Return(nil).Once()
	_, err := suite.service.TransitionOrder(ctx, suite.customer, order.ID, domain.OrderCancelled)
	assert.NoError(suite.T(), err)

	// Any other transition is not.
	_, err = suite.service.TransitionOrder(ctx, suite.customer, order.ID, domain.OrderInStitching)
	assert.ErrorIs(suite.T(), err, apperrors.ErrForbidden)

	// Nor cancelling once production started.
	order.Status = domain.OrderInStitching
	_, err = suite.service.TransitionOrder(ctx, suite.customer, order.ID, domain.OrderCancelled)
	assert.ErrorIs(suite.T(), err, apperrors.ErrValidation)
}

func (suite *OrderServiceTestSuite) TestTransitionOrder_CrossTenantLooksLikeMissing() {
	ctx := context.Background()
	order := suite.pendingOrder()
	order.OrganizationID = "other-org"

	suite.mockOrderRepo.On("FindOrderByRowID", ctx, order.ID).Return(order, nil).Once()

	_, err := suite.service.TransitionOrder(ctx, suite.tailor, order.ID, domain.OrderInStitching)
	assert.ErrorIs(suite.T(), err, apperrors.ErrNotFound)
}

func (suite *OrderServiceTestSuite) TestAddExtraCharge_AppendsToLedger() {
	ctx := context.Background()
	order := suite.pendingOrder()
	order.Status = domain.OrderInStitching

	suite.mockOrderRepo.On("FindOrderByRowID", ctx, order.ID).Return(order, nil).Once()
	suite.mockOrderRepo.On("AddExtraCharge", ctx, mock.MatchedBy(func(c domain.OrderExtraCharge) bool {
		return c.OrderRowID == order.ID && c.Amount.Equal(decimal.NewFromInt(35)) && c.CreatedBy == suite.tailor.UserID
	})).Return(nil).Once()

	charge, err := suite.service.AddExtraCharge(ctx, suite.tailor, order.ID, dto.AddExtraChargeRequest{
		Amount:      decimal.NewFromInt(35),
		Description: "urgent delivery",
	})
	assert.NoError(suite.T(), err)
	assert.NotEmpty(suite.T(), charge.ChargeID)

	// Payable reflects the ledger: 100 total + 35 charge - 50 advance.
	payable := order.PayableAmount([]domain.OrderExtraCharge{*charge})
	assert.True(suite.T(), payable.Equal(decimal.NewFromInt(85)), "payable = %s", payable)
}

func (suite *OrderServiceTestSuite) TestAddExtraCharge_CustomerForbidden() {
	ctx := context.Background()
	_, err := suite.service.AddExtraCharge(ctx, suite.customer, "row-1", dto.AddExtraChargeRequest{
		Amount:      decimal.NewFromInt(10),
		Description: "anything",
	})
	assert.ErrorIs(suite.T(), err, apperrors.ErrForbidden)
}

func (suite *OrderServiceTestSuite) TestListOrders_CustomerScopedToOwnOrders() {
	ctx := context.Background()

	suite.mockOrderRepo.On("ListOrders", ctx, suite.orgID, mock.MatchedBy(func(f portsrepo.OrderFilter) bool {
		return f.CustomerID != nil && *f.CustomerID == suite.customer.UserID
	}), (*time.Time)(nil), 20).Return([]domain.Order{}, nil).Once()

	_, nextToken, err := suite.service.ListOrders(ctx, suite.customer, dto.ListOrdersParams{Limit: 20})
	assert.NoError(suite.T(), err)
	assert.Empty(suite.T(), nextToken)
	suite.mockOrderRepo.AssertExpectations(suite.T())
}

func (suite *OrderServiceTestSuite) TestListOrders_FullPageYieldsNextToken() {
	ctx := context.Background()

	now := time.Now()
	page := make([]domain.Order, 2)
	for i := range page {
		page[i] = *suite.pendingOrder()
		page[i].CreatedAt = now.Add(-time.Duration(i) * time.Hour)
	}
	suite.mockOrderRepo.On("ListOrders", ctx, suite.orgID, mock.Anything, (*time.Time)(nil), 2).Return(page, nil).Once()

	orders, nextToken, err := suite.service.ListOrders(ctx, suite.tailor, dto.ListOrdersParams{Limit: 2})
	assert.NoError(suite.T(), err)
	assert.Len(suite.T(), orders, 2)
	assert.NotEmpty(suite.T(), nextToken)
}
