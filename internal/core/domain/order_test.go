package domain_test

import (
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"

	"github.com/stitchdesk/tailor_shop_app/internal/core/domain"
)

func timePtr(t time.Time) *time.Time { return &t }

func TestOrderStatus_CanTransitionTo(t *testing.T) {
	tests := []struct {
		name string
		from domain.OrderStatus
		to   domain.OrderStatus
		want bool
	}{
		{"pending to in_stitching", domain.OrderPending, domain.OrderInStitching, true},
		{"pending to cancelled", domain.OrderPending, domain.OrderCancelled, true},
		{"pending to completed skips production", domain.OrderPending, domain.OrderCompleted, false},
		{"in_stitching to completed", domain.OrderInStitching, domain.OrderCompleted, true},
		{"in_stitching to cancelled", domain.OrderInStitching, domain.OrderCancelled, true},
		{"in_stitching back to pending", domain.OrderInStitching, domain.OrderPending, false},
		{"completed to delivered", domain.OrderCompleted, domain.OrderDelivered, true},
		{"completed to not picked", domain.OrderCompleted, domain.OrderCompletedNotPicked, true},
		{"completed to cancelled", domain.OrderCompleted, domain.OrderCancelled, false},
		{"not picked to delivered", domain.OrderCompletedNotPicked, domain.OrderDelivered, true},
		{"delivered is terminal", domain.OrderDelivered, domain.OrderCompleted, false},
		{"cancelled is terminal", domain.OrderCancelled, domain.OrderPending, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, tt.from.CanTransitionTo(tt.to))
		})
	}
}

func TestOrderStatus_IsTerminal(t *testing.T) {
	assert.True(t, domain.OrderDelivered.IsTerminal())
	assert.True(t, domain.OrderCancelled.IsTerminal())
	assert.False(t, domain.OrderPending.IsTerminal())
	assert.False(t, domain.OrderCompleted.IsTerminal())
	assert.False(t, domain.OrderCompletedNotPicked.IsTerminal())
}

func TestOrder_IsLate(t *testing.T) {
	now := time.Date(2025, 6, 15, 12, 0, 0, 0, time.UTC)
	past := now.Add(-48 * time.Hour)
	future := now.Add(48 * time.Hour)

	tests := []struct {
		name     string
		status   domain.OrderStatus
		expected *time.Time
		want     bool
	}{
		{"pending past date", domain.OrderPending, timePtr(past), true},
		{"in_stitching past date", domain.OrderInStitching, timePtr(past), true},
		{"pending future date", domain.OrderPending, timePtr(future), false},
		{"completed past date is not late", domain.OrderCompleted, timePtr(past), false},
		{"delivered past date is not late", domain.OrderDelivered, timePtr(past), false},
		{"cancelled past date is not late", domain.OrderCancelled, timePtr(past), false},
		{"no expected date", domain.OrderInStitching, nil, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			o := domain.Order{Status: tt.status, ExpectedCompletionDate: tt.expected}
			assert.Equal(t, tt.want, o.IsLate(now))
		})
	}
}

func TestOrder_IsEditable(t *testing.T) {
	assert.True(t, (&domain.Order{Status: domain.OrderPending}).IsEditable())
	assert.False(t, (&domain.Order{Status: domain.OrderInStitching}).IsEditable())
	assert.False(t, (&domain.Order{Status: domain.OrderCompleted}).IsEditable())
}

func TestOrder_PayableAmount(t *testing.T) {
	o := domain.Order{
		TotalAmount:   decimal.NewFromInt(100),
		AdvanceAmount: decimal.NewFromInt(50),
	}
	charges := []domain.OrderExtraCharge{
		{Amount: decimal.NewFromInt(20), Description: "Embroidery"},
		{Amount: decimal.NewFromInt(15), Description: "Express delivery"},
	}

	// 100 + 35 - 50 = 85
	assert.True(t, decimal.NewFromInt(85).Equal(o.PayableAmount(charges)))

	// No extra charges
	assert.True(t, decimal.NewFromInt(50).Equal(o.PayableAmount(nil)))
}
