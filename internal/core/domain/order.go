package domain

import (
	"time"

	"github.com/shopspring/decimal"
)

// OrderStatus is the stored lifecycle state of an order.
//
// "Late" is intentionally not a stored status: an order is late when its
// expected completion date has passed and production has not finished, which
// is a read-time classification (see Order.IsLate). The stored states only
// advance through the transitions in orderTransitions.
type OrderStatus string

const (
	OrderPending            OrderStatus = "PENDING"
	OrderInStitching        OrderStatus = "IN_STITCHING"
	OrderCompleted          OrderStatus = "COMPLETED"
	OrderCompletedNotPicked OrderStatus = "COMPLETED_NOT_PICKED"
	OrderDelivered          OrderStatus = "DELIVERED"
	OrderCancelled          OrderStatus = "CANCELLED"
)

// Valid reports whether s is a storable order status.
func (s OrderStatus) Valid() bool {
	switch s {
	case OrderPending, OrderInStitching, OrderCompleted, OrderCompletedNotPicked, OrderDelivered, OrderCancelled:
		return true
	}
	return false
}

var orderTransitions = map[OrderStatus][]OrderStatus{
	OrderPending:            {OrderInStitching, OrderCancelled},
	OrderInStitching:        {OrderCompleted, OrderCancelled},
	OrderCompleted:          {OrderDelivered, OrderCompletedNotPicked},
	OrderCompletedNotPicked: {OrderDelivered},
}

// CanTransitionTo reports whether the status may advance to next.
func (s OrderStatus) CanTransitionTo(next OrderStatus) bool {
	for _, allowed := range orderTransitions[s] {
		if allowed == next {
			return true
		}
	}
	return false
}

// IsTerminal reports whether no further transitions are possible.
func (s OrderStatus) IsTerminal() bool {
	return len(orderTransitions[s]) == 0
}

// Order represents a customer's clothing order.
type Order struct {
	ID                     string          `json:"id"`      // Primary key (UUID)
	OrderID                string          `json:"orderID"` // Human readable, e.g. "TS-0007", unique per organization
	CustomerID             string          `json:"customerID"`
	TailorID               *string         `json:"tailorID"` // Nil until a tailor takes the order
	StitcherID             *string         `json:"stitcherID"`
	OrganizationID         string          `json:"organizationID"`
	Category               string          `json:"category"`
	ClothingType           string          `json:"clothingType"`
	FabricType             string          `json:"fabricType"`
	Color                  string          `json:"color"`
	Quantity               int             `json:"quantity"`
	StitchingStyle         string          `json:"stitchingStyle"`
	Status                 OrderStatus     `json:"status"`
	ExpectedCompletionDate *time.Time      `json:"expectedCompletionDate"`
	TotalAmount            decimal.Decimal `json:"totalAmount"`
	AdvanceAmount          decimal.Decimal `json:"advanceAmount"`
	DesignReferenceURL     string          `json:"designReferenceURL"`
	AuditFields
}

// IsLate reports whether the order has passed its expected completion date
// without production finishing. Completed, delivered and cancelled orders are
// never late.
func (o *Order) IsLate(now time.Time) bool {
	if o.ExpectedCompletionDate == nil {
		return false
	}
	switch o.Status {
	case OrderPending, OrderInStitching:
		return now.After(*o.ExpectedCompletionDate)
	}
	return false
}

// IsEditable reports whether descriptive fields and measurements may still be
// replaced. Editing an order already in production is disallowed.
func (o *Order) IsEditable() bool {
	return o.Status == OrderPending
}

// PayableAmount returns total + extra charges - advance.
func (o *Order) PayableAmount(charges []OrderExtraCharge) decimal.Decimal {
	payable := o.TotalAmount
	for _, c := range charges {
		payable = payable.Add(c.Amount)
	}
	return payable.Sub(o.AdvanceAmount)
}

// OrderMeasurement is the one-to-one measurement set of an order, fully
// replaced on edit (upsert keyed by the order's row id).
type OrderMeasurement struct {
	OrderRowID string    `json:"orderRowID"` // FK -> orders.id, unique
	Chest      *float64  `json:"chest"`
	Waist      *float64  `json:"waist"`
	Hips       *float64  `json:"hips"`
	Shoulder   *float64  `json:"shoulder"`
	SleeveLen  *float64  `json:"sleeveLength"`
	ShirtLen   *float64  `json:"shirtLength"`
	TrouserLen *float64  `json:"trouserLength"`
	Neck       *float64  `json:"neck"`
	Inseam     *float64  `json:"inseam"`
	Notes      string    `json:"notes"`
	UpdatedAt  time.Time `json:"updatedAt"`
}

// OrderExtraCharge is an append-only ledger entry against an order.
type OrderExtraCharge struct {
	ChargeID    string          `json:"chargeID"`
	OrderRowID  string          `json:"orderRowID"` // FK -> orders.id
	Amount      decimal.Decimal `json:"amount"`
	Description string          `json:"description"`
	CreatedAt   time.Time       `json:"createdAt"`
	CreatedBy   string          `json:"createdBy"`
}
