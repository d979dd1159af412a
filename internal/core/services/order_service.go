package services

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/stitchdesk/tailor_shop_app/internal/apperrors"
	"github.com/stitchdesk/tailor_shop_app/internal/core/domain"
	portsrepo "github.com/stitchdesk/tailor_shop_app/internal/core/ports/repositories"
	portssvc "github.com/stitchdesk/tailor_shop_app/internal/core/ports/services"
	"github.com/stitchdesk/tailor_shop_app/internal/dto"
	"github.com/stitchdesk/tailor_shop_app/internal/utils/pagination"
)

// orderIDFormat mints the human-readable order id from the per-organization
// sequence, e.g. "TS-0007".
const orderIDFormat = "TS-%04d"

// orderService implements the OrderSvcFacade interface
type orderService struct {
	BaseService
	orderRepo portsrepo.OrderRepositoryFacade
	userRepo  portsrepo.UserReader
}

// NewOrderService creates a new order service with the provided dependencies
func NewOrderService(
	orderRepo portsrepo.OrderRepositoryFacade,
	userRepo portsrepo.UserReader,
) portssvc.OrderSvcFacade {
	return &orderService{
		orderRepo: orderRepo,
		userRepo:  userRepo,
	}
}

// Ensure orderService implements the OrderSvcFacade interface
var _ portssvc.OrderSvcFacade = (*orderService)(nil)

// CreateOrder places a new order in state pending. Customers order for
// themselves; tailors and admins order on a customer's behalf.
func (s *orderService) CreateOrder(ctx context.Context, caller *domain.User, req dto.CreateOrderRequest) (*domain.Order, error) {
	if caller.OrganizationID == nil {
		return nil, apperrors.NewForbiddenError("caller is not scoped to an organization")
	}
	organizationID := *caller.OrganizationID

	customerID, err := s.resolveCustomer(ctx, caller, organizationID, req.CustomerID)
	if err != nil {
		return nil, err
	}

	if err := validateAmounts(req.TotalAmount, req.AdvanceAmount); err != nil {
		return nil, err
	}

	seq, err := s.orderRepo.NextOrderSequence(ctx, organizationID)
	if err != nil {
		s.LogError(ctx, err, "Failed to mint order sequence",
			slog.String("organization_id", organizationID))
		return nil, err
	}

	now := time.Now()
	order := domain.Order{
		ID:                     uuid.NewString(),
		OrderID:                fmt.Sprintf(orderIDFormat, seq),
		CustomerID:             customerID,
		OrganizationID:         organizationID,
		Category:               req.Category,
		ClothingType:           req.ClothingType,
		FabricType:             req.FabricType,
		Color:                  req.Color,
		Quantity:               req.Quantity,
		StitchingStyle:         req.StitchingStyle,
		Status:                 domain.OrderPending,
		ExpectedCompletionDate: req.ExpectedCompletionDate,
		TotalAmount:            req.TotalAmount,
		AdvanceAmount:          req.AdvanceAmount,
		AuditFields: domain.AuditFields{
			CreatedAt:     now,
			CreatedBy:     caller.UserID,
			LastUpdatedAt: now,
			LastUpdatedBy: caller.UserID,
		},
	}
	if caller.Role == domain.RoleTailor {
		tailorID := caller.UserID
		order.TailorID = &tailorID
	}

	if err := s.orderRepo.SaveOrder(ctx, order); err != nil {
		s.LogError(ctx, err, "Failed to save order",
			slog.String("order_id", order.OrderID))
		return nil, err
	}

	if req.Measurements != nil {
		if err := s.orderRepo.UpsertMeasurement(ctx, measurementFromPayload(order.ID, req.Measurements, now)); err != nil {
			s.LogError(ctx, err, "Failed to record measurements for new order",
				slog.String("order_row_id", order.ID))
			return nil, err
		}
	}

	s.LogInfo(ctx, "Order created",
		slog.String("order_id", order.OrderID),
		slog.String("organization_id", organizationID),
		slog.String("customer_id", customerID))
	return &order, nil
}

// GetOrderDetail retrieves an order with measurement and charge ledger,
// enforcing tenant and role visibility.
func (s *orderService) GetOrderDetail(ctx context.Context, caller *domain.User, orderRowID string) (*portssvc.OrderDetail, error) {
	order, err := s.loadVisibleOrder(ctx, caller, orderRowID)
	if err != nil {
		return nil, err
	}

	detail := &portssvc.OrderDetail{Order: *order}

	measurement, err := s.orderRepo.FindMeasurement(ctx, order.ID)
	if err != nil && !errors.Is(err, apperrors.ErrNotFound) {
		return nil, err
	}
	detail.Measurement = measurement

	charges, err := s.orderRepo.ListExtraCharges(ctx, order.ID)
	if err != nil {
		return nil, err
	}
	detail.ExtraCharges = charges

	return detail, nil
}

// ListOrders retrieves the caller-visible orders. Customers only ever see
// their own; tailors and admins see the whole organization.
func (s *orderService) ListOrders(ctx context.Context, caller *domain.User, params dto.ListOrdersParams) ([]domain.Order, string, error) {
	if caller.OrganizationID == nil {
		return nil, "", apperrors.NewForbiddenError("caller is not scoped to an organization")
	}

	filter := portsrepo.OrderFilter{}
	if caller.Role == domain.RoleCustomer {
		customerID := caller.UserID
		filter.CustomerID = &customerID
	} else if params.CustomerID != "" {
		customerID := params.CustomerID
		filter.CustomerID = &customerID
	}
	if params.Status != "" {
		status := domain.OrderStatus(strings.ToUpper(params.Status))
		if !status.Valid() {
			return nil, "", apperrors.NewValidationFailedError("unknown order status filter: " + params.Status)
		}
		filter.Status = &status
	}

	var createdBefore *time.Time
	if params.NextToken != "" {
		cursor, err := pagination.DecodeDateBasedToken(params.NextToken)
		if err != nil {
			return nil, "", apperrors.NewValidationFailedError("invalid pagination token")
		}
		createdBefore = &cursor
	}

	limit := params.Limit
	if limit <= 0 {
		limit = 20
	}

	orders, err := s.orderRepo.ListOrders(ctx, *caller.OrganizationID, filter, createdBefore, limit)
	if err != nil {
		s.LogError(ctx, err, "Failed to list orders",
			slog.String("organization_id", *caller.OrganizationID))
		return nil, "", err
	}
	if orders == nil {
		orders = []domain.Order{}
	}

	nextToken := ""
	if len(orders) == limit {
		nextToken = pagination.EncodeDateBasedToken(orders[len(orders)-1].CreatedAt)
	}
	return orders, nextToken, nil
}

// UpdateOrder replaces descriptive fields and measurements. Only pending
// orders are editable; the check lives here so every call path gets it.
func (s *orderService) UpdateOrder(ctx context.Context, caller *domain.User, orderRowID string, req dto.UpdateOrderRequest) (*domain.Order, error) {
	order, err := s.loadVisibleOrder(ctx, caller, orderRowID)
	if err != nil {
		return nil, err
	}
	if !order.IsEditable() {
		return nil, apperrors.NewValidationFailedError("order " + order.OrderID + " is " + string(order.Status) + " and can only be edited while pending")
	}

	if req.Category != nil {
		order.Category = *req.Category
	}
	if req.ClothingType != nil {
		order.ClothingType = *req.ClothingType
	}
	if req.FabricType != nil {
		order.FabricType = *req.FabricType
	}
	if req.Color != nil {
		order.Color = *req.Color
	}
	if req.Quantity != nil {
		order.Quantity = *req.Quantity
	}
	if req.StitchingStyle != nil {
		order.StitchingStyle = *req.StitchingStyle
	}
	if req.ExpectedCompletionDate != nil {
		order.ExpectedCompletionDate = req.ExpectedCompletionDate
	}
	if req.TotalAmount != nil {
		order.TotalAmount = *req.TotalAmount
	}
	if req.AdvanceAmount != nil {
		order.AdvanceAmount = *req.AdvanceAmount
	}
	if err := validateAmounts(order.TotalAmount, order.AdvanceAmount); err != nil {
		return nil, err
	}

	now := time.Now()
	order.LastUpdatedAt = now
	order.LastUpdatedBy = caller.UserID

	if err := s.orderRepo.UpdateOrderDetails(ctx, *order); err != nil {
		s.LogError(ctx, err, "Failed to update order",
			slog.String("order_row_id", orderRowID))
		return nil, err
	}

	if req.Measurements != nil {
		if err := s.orderRepo.UpsertMeasurement(ctx, measurementFromPayload(order.ID, req.Measurements, now)); err != nil {
			s.LogError(ctx, err, "Failed to replace measurements",
				slog.String("order_row_id", orderRowID))
			return nil, err
		}
	}

	return order, nil
}

// TransitionOrder advances the lifecycle state, validating the transition
// table and the acting role. Customers may only cancel their own pending
// orders; production transitions belong to tailors and admins.
func (s *orderService) TransitionOrder(ctx context.Context, caller *domain.User, orderRowID string, next domain.OrderStatus) (*domain.Order, error) {
	if !next.Valid() {
		return nil, apperrors.NewValidationFailedError("unknown order status: " + string(next))
	}

	order, err := s.loadVisibleOrder(ctx, caller, orderRowID)
	if err != nil {
		return nil, err
	}

	if caller.Role == domain.RoleCustomer {
		if next != domain.OrderCancelled {
			return nil, apperrors.NewForbiddenError("customers may only cancel orders")
		}
		if order.Status != domain.OrderPending {
			return nil, apperrors.NewValidationFailedError("order " + order.OrderID + " is already in production and cannot be cancelled by the customer")
		}
	}

	if !order.Status.CanTransitionTo(next) {
		return nil, apperrors.NewValidationFailedError(fmt.Sprintf("order %s cannot move from %s to %s", order.OrderID, order.Status, next))
	}

	if err := s.orderRepo.UpdateOrderStatus(ctx, order.ID, next, caller.UserID); err != nil {
		s.LogError(ctx, err, "Failed to transition order",
			slog.String("order_row_id", orderRowID),
			slog.String("next_status", string(next)))
		return nil, err
	}

	s.LogInfo(ctx, "Order transitioned",
		slog.String("order_id", order.OrderID),
		slog.String("from", string(order.Status)),
		slog.String("to", string(next)))
	order.Status = next
	order.LastUpdatedBy = caller.UserID
	order.LastUpdatedAt = time.Now()
	return order, nil
}

// AddExtraCharge appends a charge to the order's ledger. The ledger is
// append-only: entries are never edited or removed.
func (s *orderService) AddExtraCharge(ctx context.Context, caller *domain.User, orderRowID string, req dto.AddExtraChargeRequest) (*domain.OrderExtraCharge, error) {
	if caller.Role != domain.RoleTailor && caller.Role != domain.RoleAdmin {
		return nil, apperrors.NewForbiddenError("only tailors and admins may add charges")
	}
	order, err := s.loadVisibleOrder(ctx, caller, orderRowID)
	if err != nil {
		return nil, err
	}
	if order.Status.IsTerminal() {
		return nil, apperrors.NewValidationFailedError("order " + order.OrderID + " is " + string(order.Status) + " and no longer accepts charges")
	}
	if req.Amount.LessThanOrEqual(decimal.Zero) {
		return nil, apperrors.NewValidationFailedError("charge amount must be positive")
	}

	charge := domain.OrderExtraCharge{
		ChargeID:    uuid.NewString(),
		OrderRowID:  order.ID,
		Amount:      req.Amount,
		Description: req.Description,
		CreatedAt:   time.Now(),
		CreatedBy:   caller.UserID,
	}
	if err := s.orderRepo.AddExtraCharge(ctx, charge); err != nil {
		s.LogError(ctx, err, "Failed to add extra charge",
			slog.String("order_row_id", orderRowID))
		return nil, err
	}
	return &charge, nil
}

// AttachDesignReference stores the blob URL of an uploaded design reference.
func (s *orderService) AttachDesignReference(ctx context.Context, caller *domain.User, orderRowID string, url string) error {
	if caller.Role != domain.RoleTailor && caller.Role != domain.RoleAdmin {
		return apperrors.NewForbiddenError("only tailors and admins may attach design references")
	}
	order, err := s.loadVisibleOrder(ctx, caller, orderRowID)
	if err != nil {
		return err
	}
	if err := s.orderRepo.SetDesignReferenceURL(ctx, order.ID, url, caller.UserID); err != nil {
		s.LogError(ctx, err, "Failed to attach design reference",
			slog.String("order_row_id", orderRowID))
		return err
	}
	return nil
}

// loadVisibleOrder fetches the order and enforces tenant and role visibility:
// callers see only their organization's orders and customers only their own.
func (s *orderService) loadVisibleOrder(ctx context.Context, caller *domain.User, orderRowID string) (*domain.Order, error) {
	order, err := s.orderRepo.FindOrderByRowID(ctx, orderRowID)
	if err != nil {
		return nil, err
	}
	if !caller.BelongsTo(order.OrganizationID) {
		// Cross-tenant reads must look like the order does not exist.
		return nil, apperrors.ErrNotFound
	}
	if caller.Role == domain.RoleCustomer && order.CustomerID != caller.UserID {
		return nil, apperrors.ErrNotFound
	}
	return order, nil
}

// resolveCustomer decides whose order this is. Customers order for
// themselves; tailors and admins must name an existing customer of the
// organization.
func (s *orderService) resolveCustomer(ctx context.Context, caller *domain.User, organizationID, requestedCustomerID string) (string, error) {
	if caller.Role == domain.RoleCustomer {
		if requestedCustomerID != "" && requestedCustomerID != caller.UserID {
			return "", apperrors.NewForbiddenError("customers may only place orders for themselves")
		}
		return caller.UserID, nil
	}

	if requestedCustomerID == "" {
		return "", apperrors.NewValidationFailedError("customerID is required when placing an order on a customer's behalf")
	}
	customer, err := s.userRepo.FindUserByID(ctx, requestedCustomerID)
	if err != nil {
		if errors.Is(err, apperrors.ErrNotFound) {
			return "", apperrors.NewValidationFailedError("unknown customer: " + requestedCustomerID)
		}
		return "", err
	}
	if customer.Role != domain.RoleCustomer || !customer.BelongsTo(organizationID) {
		return "", apperrors.NewValidationFailedError("user " + requestedCustomerID + " is not a customer of this organization")
	}
	return customer.UserID, nil
}

func validateAmounts(total, advance decimal.Decimal) error {
	if total.IsNegative() || advance.IsNegative() {
		return apperrors.NewValidationFailedError("amounts cannot be negative")
	}
	if advance.GreaterThan(total) {
		return apperrors.NewValidationFailedError("advance cannot exceed the total amount")
	}
	return nil
}

func measurementFromPayload(orderRowID string, p *dto.MeasurementPayload, now time.Time) domain.OrderMeasurement {
	return domain.OrderMeasurement{
		OrderRowID: orderRowID,
		Chest:      p.Chest,
		Waist:      p.Waist,
		Hips:       p.Hips,
		Shoulder:   p.Shoulder,
		SleeveLen:  p.SleeveLen,
		ShirtLen:   p.ShirtLen,
		TrouserLen: p.TrouserLen,
		Neck:       p.Neck,
		Inseam:     p.Inseam,
		Notes:      p.Notes,
		UpdatedAt:  now,
	}
}
