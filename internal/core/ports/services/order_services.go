package services

import (
	"context"

	"github.com/stitchdesk/tailor_shop_app/internal/core/domain"
	"github.com/stitchdesk/tailor_shop_app/internal/dto"
)

// OrderDetail bundles an order with its satellites for read paths.
type OrderDetail struct {
	Order        domain.Order
	Measurement  *domain.OrderMeasurement
	ExtraCharges []domain.OrderExtraCharge
}

// OrderReaderSvc defines read operations for orders.
type OrderReaderSvc interface {
	// GetOrderDetail retrieves an order with measurement and charge ledger,
	// enforcing tenant and role visibility.
	GetOrderDetail(ctx context.Context, caller *domain.User, orderRowID string) (*OrderDetail, error)

	// ListOrders retrieves the caller-visible orders matching the params.
	// Customers only ever see their own orders. The returned token, when
	// non-empty, fetches the next page.
	ListOrders(ctx context.Context, caller *domain.User, params dto.ListOrdersParams) ([]domain.Order, string, error)
}

// OrderWriterSvc defines the order lifecycle operations.
type OrderWriterSvc interface {
	// CreateOrder places a new order in state pending, minting a unique
	// human-readable order id and recording measurements when given.
	CreateOrder(ctx context.Context, caller *domain.User, req dto.CreateOrderRequest) (*domain.Order, error)

	// UpdateOrder replaces descriptive fields and measurements. Permitted
	// only while the order is pending; enforced here, not at the call site.
	UpdateOrder(ctx context.Context, caller *domain.User, orderRowID string, req dto.UpdateOrderRequest) (*domain.Order, error)

	// TransitionOrder advances the lifecycle state, validating the transition
	// table and the acting role.
	TransitionOrder(ctx context.Context, caller *domain.User, orderRowID string, next domain.OrderStatus) (*domain.Order, error)

	// AddExtraCharge appends a charge to the order's ledger.
	AddExtraCharge(ctx context.Context, caller *domain.User, orderRowID string, req dto.AddExtraChargeRequest) (*domain.OrderExtraCharge, error)

	// AttachDesignReference stores the blob URL of an uploaded design reference.
	AttachDesignReference(ctx context.Context, caller *domain.User, orderRowID string, url string) error
}

// OrderSvcFacade combines all order service interfaces.
type OrderSvcFacade interface {
	OrderReaderSvc
	OrderWriterSvc
}
