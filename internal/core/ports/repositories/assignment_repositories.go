package repositories

import (
	"context"

	"github.com/stitchdesk/tailor_shop_app/internal/core/domain"
)

// AssignmentReader defines read operations for work assignments.
type AssignmentReader interface {
	// FindAssignmentByID retrieves an assignment by its primary key.
	FindAssignmentByID(ctx context.Context, assignmentID string) (*domain.WorkAssignment, error)

	// FindAssignmentByOrderRowID retrieves the (at most one) assignment of an
	// order, or apperrors.ErrNotFound.
	FindAssignmentByOrderRowID(ctx context.Context, orderRowID string) (*domain.WorkAssignment, error)

	// ListAssignmentsByStitcher retrieves a stitcher's assignments, newest first.
	ListAssignmentsByStitcher(ctx context.Context, stitcherID string, limit, offset int) ([]domain.WorkAssignment, error)

	// GetStitcherStats aggregates one stitcher's assignments: counts by
	// status, average quality rating over rated rows, total actual hours.
	GetStitcherStats(ctx context.Context, stitcherID string) (*domain.StitcherStats, error)

	// GetTailorStitcherStats aggregates per-stitcher stats across every
	// stitcher the tailor has assigned work to.
	GetTailorStitcherStats(ctx context.Context, tailorID string) ([]domain.StitcherStats, error)
}

// AssignmentWriter defines write operations for work assignments.
type AssignmentWriter interface {
	// SaveAssignment persists a new assignment.
	SaveAssignment(ctx context.Context, assignment domain.WorkAssignment) error

	// UpdateAssignment replaces the mutable state of an assignment (status,
	// progress, timestamps, review fields, stitcher).
	UpdateAssignment(ctx context.Context, assignment domain.WorkAssignment) error
}

// AssignmentRepositoryFacade combines all assignment-related repository interfaces.
type AssignmentRepositoryFacade interface {
	AssignmentReader
	AssignmentWriter
}
