package dto

import (
	"time"

	"github.com/stitchdesk/tailor_shop_app/internal/core/domain"
)

// AssignWorkRequest creates (or replaces, for an order that already has one)
// a work assignment.
type AssignWorkRequest struct {
	OrderRowID     string   `json:"orderRowID" binding:"required"`
	StitcherID     string   `json:"stitcherID" binding:"required"`
	EstimatedHours *float64 `json:"estimatedHours" binding:"omitempty,gt=0"`
	Notes          string   `json:"notes"`
}

// UpdateProgressRequest logs stitcher progress on an assignment.
type UpdateProgressRequest struct {
	Progress *int   `json:"progress" binding:"required,min=0,max=100"`
	Notes    string `json:"notes"`
}

// CompleteAssignmentRequest is the tailor's completion override with the
// post-production review.
type CompleteAssignmentRequest struct {
	ActualHours   *float64 `json:"actualHours" binding:"omitempty,gt=0"`
	QualityRating *int     `json:"qualityRating" binding:"omitempty,min=1,max=5"`
	QualityNotes  string   `json:"qualityNotes"`
}

// ReassignWorkRequest moves the assignment to a new stitcher.
type ReassignWorkRequest struct {
	StitcherID string `json:"stitcherID" binding:"required"`
}

// AssignmentResponse defines data returned for a work assignment.
type AssignmentResponse struct {
	AssignmentID       string                  `json:"assignmentID"`
	OrderRowID         string                  `json:"orderRowID"`
	OrganizationID     string                  `json:"organizationID"`
	StitcherID         string                  `json:"stitcherID"`
	TailorID           string                  `json:"tailorID"`
	Status             domain.AssignmentStatus `json:"status"`
	ProgressPercentage int                     `json:"progressPercentage"`
	EstimatedHours     *float64                `json:"estimatedHours,omitempty"`
	ActualHours        *float64                `json:"actualHours,omitempty"`
	QualityRating      *int                    `json:"qualityRating,omitempty"`
	AssignmentNotes    string                  `json:"assignmentNotes,omitempty"`
	ProgressNotes      string                  `json:"progressNotes,omitempty"`
	QualityNotes       string                  `json:"qualityNotes,omitempty"`
	AssignedAt         time.Time               `json:"assignedAt"`
	StartedAt          *time.Time              `json:"startedAt,omitempty"`
	CompletedAt        *time.Time              `json:"completedAt,omitempty"`
}

// ToAssignmentResponse converts domain.WorkAssignment to DTO.
func ToAssignmentResponse(w *domain.WorkAssignment) AssignmentResponse {
	return AssignmentResponse{
		AssignmentID:       w.AssignmentID,
		OrderRowID:         w.OrderRowID,
		OrganizationID:     w.OrganizationID,
		StitcherID:         w.StitcherID,
		TailorID:           w.TailorID,
		Status:             w.Status,
		ProgressPercentage: w.ProgressPercentage,
		EstimatedHours:     w.EstimatedHours,
		ActualHours:        w.ActualHours,
		QualityRating:      w.QualityRating,
		AssignmentNotes:    w.AssignmentNotes,
		ProgressNotes:      w.ProgressNotes,
		QualityNotes:       w.QualityNotes,
		AssignedAt:         w.AssignedAt,
		StartedAt:          w.StartedAt,
		CompletedAt:        w.CompletedAt,
	}
}

// ListAssignmentsParams defines query parameters for listing assignments.
type ListAssignmentsParams struct {
	Limit  int `form:"limit,default=20"`
	Offset int `form:"offset,default=0"`
}

// ListAssignmentsResponse wraps a list of assignments.
type ListAssignmentsResponse struct {
	Assignments []AssignmentResponse `json:"assignments"`
}

// ToListAssignmentsResponse converts a slice of domain.WorkAssignment to DTO.
func ToListAssignmentsResponse(ws []domain.WorkAssignment) ListAssignmentsResponse {
	list := make([]AssignmentResponse, len(ws))
	for i, w := range ws {
		list[i] = ToAssignmentResponse(&w)
	}
	return ListAssignmentsResponse{Assignments: list}
}

// StitcherStatsResponse wraps per-stitcher aggregates.
type StitcherStatsResponse struct {
	Stats []domain.StitcherStats `json:"stats"`
}
