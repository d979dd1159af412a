package repositories

import (
	"context"
	"time"

	"github.com/stitchdesk/tailor_shop_app/internal/core/domain"
)

// OrderFilter narrows order listings. Nil fields are ignored.
type OrderFilter struct {
	CustomerID *string
	TailorID   *string
	Status     *domain.OrderStatus
}

// OrderReader defines read operations for orders and their satellites.
type OrderReader interface {
	// FindOrderByRowID retrieves an order by its primary key.
	FindOrderByRowID(ctx context.Context, orderRowID string) (*domain.Order, error)

	// FindOrderByOrderID retrieves an order by its human-readable id within an
	// organization.
	FindOrderByOrderID(ctx context.Context, organizationID, orderID string) (*domain.Order, error)

	// ListOrders retrieves orders of an organization matching the filter,
	// newest first. createdBefore is the cursor for keyset pagination; nil
	// starts from the newest order.
	ListOrders(ctx context.Context, organizationID string, filter OrderFilter, createdBefore *time.Time, limit int) ([]domain.Order, error)

	// FindMeasurement retrieves the measurement set of an order, or
	// apperrors.ErrNotFound when none was recorded.
	FindMeasurement(ctx context.Context, orderRowID string) (*domain.OrderMeasurement, error)

	// ListExtraCharges returns the append-only charge ledger of an order,
	// oldest first.
	ListExtraCharges(ctx context.Context, orderRowID string) ([]domain.OrderExtraCharge, error)
}

// OrderWriter defines write operations for orders and their satellites.
type OrderWriter interface {
	// NextOrderSequence atomically advances and returns the per-organization
	// order counter used to mint human-readable order ids.
	NextOrderSequence(ctx context.Context, organizationID string) (int64, error)

	// SaveOrder persists a new order row.
	SaveOrder(ctx context.Context, order domain.Order) error

	// UpdateOrderDetails replaces the descriptive and financial fields of a
	// pending order.
	UpdateOrderDetails(ctx context.Context, order domain.Order) error

	// UpdateOrderStatus advances the stored lifecycle state.
	UpdateOrderStatus(ctx context.Context, orderRowID string, status domain.OrderStatus, updatedBy string) error

	// SetOrderStitcher denormalizes the assigned stitcher (and tailor) onto
	// the order row.
	SetOrderStitcher(ctx context.Context, orderRowID string, stitcherID, tailorID, updatedBy string) error

	// SetDesignReferenceURL stores the blob URL of an uploaded design reference.
	SetDesignReferenceURL(ctx context.Context, orderRowID string, url string, updatedBy string) error

	// UpsertMeasurement fully replaces the measurement set keyed by the
	// order's row id.
	UpsertMeasurement(ctx context.Context, m domain.OrderMeasurement) error

	// AddExtraCharge appends a charge to the order's ledger. Charges are never
	// edited or deleted.
	AddExtraCharge(ctx context.Context, charge domain.OrderExtraCharge) error
}

// OrderRepositoryFacade combines all order-related repository interfaces.
type OrderRepositoryFacade interface {
	OrderReader
	OrderWriter
}
