package domain

import (
	"fmt"
	"time"
)

// AssignmentStatus is the sub-state machine tracking a stitcher's progress on
// one order, independent of the order's own status field.
type AssignmentStatus string

const (
	AssignmentAssigned   AssignmentStatus = "ASSIGNED"
	AssignmentInProgress AssignmentStatus = "IN_PROGRESS"
	AssignmentCompleted  AssignmentStatus = "COMPLETED"
	AssignmentOnHold     AssignmentStatus = "ON_HOLD"
	AssignmentCancelled  AssignmentStatus = "CANCELLED"
)

// Valid reports whether s is a known assignment status.
func (s AssignmentStatus) Valid() bool {
	switch s {
	case AssignmentAssigned, AssignmentInProgress, AssignmentCompleted, AssignmentOnHold, AssignmentCancelled:
		return true
	}
	return false
}

// IsTerminal reports whether the assignment has finished or been cancelled.
func (s AssignmentStatus) IsTerminal() bool {
	return s == AssignmentCompleted || s == AssignmentCancelled
}

// WorkAssignment links one order to one stitcher under one tailor. At most
// one active assignment exists per order; reassignment updates in place.
type WorkAssignment struct {
	AssignmentID       string           `json:"assignmentID"`
	OrderRowID         string           `json:"orderRowID"` // FK -> orders.id
	OrganizationID     string           `json:"organizationID"`
	StitcherID         string           `json:"stitcherID"`
	TailorID           string           `json:"tailorID"` // = assigned_by
	Status             AssignmentStatus `json:"status"`
	ProgressPercentage int              `json:"progressPercentage"` // 0..100
	EstimatedHours     *float64         `json:"estimatedHours"`
	ActualHours        *float64         `json:"actualHours"`
	QualityRating      *int             `json:"qualityRating"` // 1..5, set on completion review
	AssignmentNotes    string           `json:"assignmentNotes"`
	ProgressNotes      string           `json:"progressNotes"`
	QualityNotes       string           `json:"qualityNotes"`
	AssignedAt         time.Time        `json:"assignedAt"`
	StartedAt          *time.Time       `json:"startedAt"`
	CompletedAt        *time.Time       `json:"completedAt"`
	AuditFields
}

// ApplyProgress advances the stitcher-driven progress value and derives the
// status side effects. The guards compare against the previously stored value
// so that re-applying the same progress is idempotent: started_at and
// completed_at are set at most once per assignment cycle.
func (w *WorkAssignment) ApplyProgress(progress int, notes string, now time.Time) error {
	if progress < 0 || progress > 100 {
		return fmt.Errorf("progress must be between 0 and 100, got %d", progress)
	}
	if w.Status.IsTerminal() {
		return fmt.Errorf("assignment is %s and no longer accepts progress", w.Status)
	}

	prev := w.ProgressPercentage
	w.ProgressPercentage = progress
	if notes != "" {
		w.ProgressNotes = notes
	}

	if prev == 0 && progress > 0 && w.StartedAt == nil {
		started := now
		w.StartedAt = &started
	}

	switch {
	case progress == 100:
		if w.Status != AssignmentCompleted {
			completed := now
			w.CompletedAt = &completed
		}
		w.Status = AssignmentCompleted
	case progress > 0:
		w.Status = AssignmentInProgress
	}
	return nil
}

// ForceComplete is the tailor override: completed at 100% regardless of the
// stitcher-reported progress, recording actual hours and a quality review.
func (w *WorkAssignment) ForceComplete(actualHours *float64, qualityRating *int, qualityNotes string, now time.Time) error {
	if qualityRating != nil && (*qualityRating < 1 || *qualityRating > 5) {
		return fmt.Errorf("quality rating must be between 1 and 5, got %d", *qualityRating)
	}
	w.Status = AssignmentCompleted
	w.ProgressPercentage = 100
	completed := now
	w.CompletedAt = &completed
	if w.StartedAt == nil {
		started := now
		w.StartedAt = &started
	}
	if actualHours != nil {
		w.ActualHours = actualHours
	}
	if qualityRating != nil {
		w.QualityRating = qualityRating
	}
	if qualityNotes != "" {
		w.QualityNotes = qualityNotes
	}
	return nil
}

// Reassign restarts the cycle under a new stitcher. History fields from a
// prior cycle (completed_at, quality rating) are deliberately left in place.
func (w *WorkAssignment) Reassign(newStitcherID, tailorID string, now time.Time) {
	w.StitcherID = newStitcherID
	w.TailorID = tailorID
	w.Status = AssignmentAssigned
	w.ProgressPercentage = 0
	w.StartedAt = nil
	w.AssignedAt = now
}

// StitcherStats is the read-side aggregation over a stitcher's assignments.
type StitcherStats struct {
	StitcherID       string   `json:"stitcherID"`
	StitcherName     string   `json:"stitcherName,omitempty"`
	TotalAssigned    int      `json:"totalAssigned"`
	InProgress       int      `json:"inProgress"`
	Completed        int      `json:"completed"`
	OnHold           int      `json:"onHold"`
	Cancelled        int      `json:"cancelled"`
	AvgQualityRating *float64 `json:"avgQualityRating"` // Nil when no rated assignments exist
	TotalActualHours float64  `json:"totalActualHours"`
}
