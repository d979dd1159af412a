package services

import (
	"context"

	"github.com/stitchdesk/tailor_shop_app/internal/core/domain"
	"github.com/stitchdesk/tailor_shop_app/internal/dto"
)

// AssignmentReaderSvc defines read operations for work assignments.
type AssignmentReaderSvc interface {
	// GetAssignment retrieves an assignment, enforcing tenant visibility.
	GetAssignment(ctx context.Context, caller *domain.User, assignmentID string) (*domain.WorkAssignment, error)

	// ListMyAssignments retrieves the calling stitcher's assignments.
	ListMyAssignments(ctx context.Context, caller *domain.User, params dto.ListAssignmentsParams) ([]domain.WorkAssignment, error)

	// GetStitcherStats aggregates one stitcher's assignment history.
	GetStitcherStats(ctx context.Context, caller *domain.User, stitcherID string) (*domain.StitcherStats, error)

	// GetTailorStitcherStats aggregates per-stitcher stats for every stitcher
	// the calling tailor has assigned work to.
	GetTailorStitcherStats(ctx context.Context, caller *domain.User) ([]domain.StitcherStats, error)
}

// AssignmentWriterSvc defines the work-assignment sub-state machine operations.
type AssignmentWriterSvc interface {
	// AssignWork links an order to a stitcher under the calling tailor. An
	// order with an existing assignment is reassigned in place rather than
	// given a duplicate.
	AssignWork(ctx context.Context, caller *domain.User, req dto.AssignWorkRequest) (*domain.WorkAssignment, error)

	// UpdateProgress logs stitcher progress, deriving started_at/completed_at
	// and the status from the previous stored value (idempotent).
	UpdateProgress(ctx context.Context, caller *domain.User, assignmentID string, req dto.UpdateProgressRequest) (*domain.WorkAssignment, error)

	// CompleteAssignment is the tailor override: force-completes at 100% with
	// actual hours and a quality review.
	CompleteAssignment(ctx context.Context, caller *domain.User, assignmentID string, req dto.CompleteAssignmentRequest) (*domain.WorkAssignment, error)

	// ReassignWork restarts the cycle under a new stitcher.
	ReassignWork(ctx context.Context, caller *domain.User, assignmentID string, newStitcherID string) (*domain.WorkAssignment, error)
}

// AssignmentSvcFacade combines all assignment service interfaces.
type AssignmentSvcFacade interface {
	AssignmentReaderSvc
	AssignmentWriterSvc
}
