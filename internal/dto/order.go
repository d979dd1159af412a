package dto

import (
	"time"

	"github.com/shopspring/decimal"

	"github.com/stitchdesk/tailor_shop_app/internal/core/domain"
)

// MeasurementPayload is the flat measurement set recorded with an order.
// Fields are pointers so an edit can clear values the tailor removed.
type MeasurementPayload struct {
	Chest      *float64 `json:"chest"`
	Waist      *float64 `json:"waist"`
	Hips       *float64 `json:"hips"`
	Shoulder   *float64 `json:"shoulder"`
	SleeveLen  *float64 `json:"sleeveLength"`
	ShirtLen   *float64 `json:"shirtLength"`
	TrouserLen *float64 `json:"trouserLength"`
	Neck       *float64 `json:"neck"`
	Inseam     *float64 `json:"inseam"`
	Notes      string   `json:"notes"`
}

// CreateOrderRequest defines data for placing a new order.
type CreateOrderRequest struct {
	// CustomerID is set by tailors placing an order on a customer's behalf;
	// customers placing their own order leave it empty.
	CustomerID             string              `json:"customerID"`
	Category               string              `json:"category" binding:"required"`
	ClothingType           string              `json:"clothingType" binding:"required"`
	FabricType             string              `json:"fabricType"`
	Color                  string              `json:"color"`
	Quantity               int                 `json:"quantity" binding:"required,min=1"`
	StitchingStyle         string              `json:"stitchingStyle"`
	ExpectedCompletionDate *time.Time          `json:"expectedCompletionDate"`
	TotalAmount            decimal.Decimal     `json:"totalAmount"`
	AdvanceAmount          decimal.Decimal     `json:"advanceAmount"`
	Measurements           *MeasurementPayload `json:"measurements"`
}

// UpdateOrderRequest replaces descriptive fields of a pending order and fully
// upserts the measurement set when provided.
type UpdateOrderRequest struct {
	Category               *string             `json:"category"`
	ClothingType           *string             `json:"clothingType"`
	FabricType             *string             `json:"fabricType"`
	Color                  *string             `json:"color"`
	Quantity               *int                `json:"quantity" binding:"omitempty,min=1"`
	StitchingStyle         *string             `json:"stitchingStyle"`
	ExpectedCompletionDate *time.Time          `json:"expectedCompletionDate"`
	TotalAmount            *decimal.Decimal    `json:"totalAmount"`
	AdvanceAmount          *decimal.Decimal    `json:"advanceAmount"`
	Measurements           *MeasurementPayload `json:"measurements"`
}

// TransitionOrderRequest advances the order lifecycle.
type TransitionOrderRequest struct {
	Status domain.OrderStatus `json:"status" binding:"required,oneof=IN_STITCHING COMPLETED COMPLETED_NOT_PICKED DELIVERED CANCELLED"`
}

// AddExtraChargeRequest appends a charge to the order's ledger.
type AddExtraChargeRequest struct {
	Amount      decimal.Decimal `json:"amount" binding:"required"`
	Description string          `json:"description" binding:"required"`
}

// ListOrdersParams defines query parameters for listing orders. NextToken is
// an opaque created_at cursor returned by a previous page.
type ListOrdersParams struct {
	CustomerID string `form:"customer_id"`
	Status     string `form:"status"`
	Limit      int    `form:"limit,default=20"`
	NextToken  string `form:"next_token"`
}

// OrderResponse defines data returned for an order. IsLate is derived at read
// time from the expected completion date, never stored.
type OrderResponse struct {
	ID                     string               `json:"id"`
	OrderID                string               `json:"orderID"`
	CustomerID             string               `json:"customerID"`
	TailorID               *string              `json:"tailorID,omitempty"`
	StitcherID             *string              `json:"stitcherID,omitempty"`
	OrganizationID         string               `json:"organizationID"`
	Category               string               `json:"category"`
	ClothingType           string               `json:"clothingType"`
	FabricType             string               `json:"fabricType"`
	Color                  string               `json:"color"`
	Quantity               int                  `json:"quantity"`
	StitchingStyle         string               `json:"stitchingStyle"`
	Status                 domain.OrderStatus   `json:"status"`
	IsLate                 bool                 `json:"isLate"`
	ExpectedCompletionDate *time.Time           `json:"expectedCompletionDate,omitempty"`
	TotalAmount            decimal.Decimal      `json:"totalAmount"`
	AdvanceAmount          decimal.Decimal      `json:"advanceAmount"`
	PayableAmount          decimal.Decimal      `json:"payableAmount"`
	DesignReferenceURL     string               `json:"designReferenceURL,omitempty"`
	Measurements           *MeasurementPayload  `json:"measurements,omitempty"`
	ExtraCharges           []ExtraChargeResponse `json:"extraCharges,omitempty"`
	CreatedAt              time.Time            `json:"createdAt"`
}

// ExtraChargeResponse defines data returned for one ledger entry.
type ExtraChargeResponse struct {
	ChargeID    string          `json:"chargeID"`
	Amount      decimal.Decimal `json:"amount"`
	Description string          `json:"description"`
	CreatedAt   time.Time       `json:"createdAt"`
}

// ToExtraChargeResponse converts domain.OrderExtraCharge to DTO.
func ToExtraChargeResponse(c *domain.OrderExtraCharge) ExtraChargeResponse {
	return ExtraChargeResponse{
		ChargeID:    c.ChargeID,
		Amount:      c.Amount,
		Description: c.Description,
		CreatedAt:   c.CreatedAt,
	}
}

// ToMeasurementPayload converts domain.OrderMeasurement to DTO.
func ToMeasurementPayload(m *domain.OrderMeasurement) *MeasurementPayload {
	if m == nil {
		return nil
	}
	return &MeasurementPayload{
		Chest:      m.Chest,
		Waist:      m.Waist,
		Hips:       m.Hips,
		Shoulder:   m.Shoulder,
		SleeveLen:  m.SleeveLen,
		ShirtLen:   m.ShirtLen,
		TrouserLen: m.TrouserLen,
		Neck:       m.Neck,
		Inseam:     m.Inseam,
		Notes:      m.Notes,
	}
}

// ToOrderResponse converts a domain order plus its satellites to DTO.
func ToOrderResponse(o *domain.Order, measurement *domain.OrderMeasurement, charges []domain.OrderExtraCharge, now time.Time) OrderResponse {
	chargeResponses := make([]ExtraChargeResponse, len(charges))
	for i, c := range charges {
		chargeResponses[i] = ToExtraChargeResponse(&c)
	}
	return OrderResponse{
		ID:                     o.ID,
		OrderID:                o.OrderID,
		CustomerID:             o.CustomerID,
		TailorID:               o.TailorID,
		StitcherID:             o.StitcherID,
		OrganizationID:         o.OrganizationID,
		Category:               o.Category,
		ClothingType:           o.ClothingType,
		FabricType:             o.FabricType,
		Color:                  o.Color,
		Quantity:               o.Quantity,
		StitchingStyle:         o.StitchingStyle,
		Status:                 o.Status,
		IsLate:                 o.IsLate(now),
		ExpectedCompletionDate: o.ExpectedCompletionDate,
		TotalAmount:            o.TotalAmount,
		AdvanceAmount:          o.AdvanceAmount,
		PayableAmount:          o.PayableAmount(charges),
		DesignReferenceURL:     o.DesignReferenceURL,
		Measurements:           ToMeasurementPayload(measurement),
		ExtraCharges:           chargeResponses,
		CreatedAt:              o.CreatedAt,
	}
}

// ListOrdersResponse wraps a list of orders. NextToken is set when another
// page may exist.
type ListOrdersResponse struct {
	Orders    []OrderResponse `json:"orders"`
	NextToken string          `json:"nextToken,omitempty"`
}
