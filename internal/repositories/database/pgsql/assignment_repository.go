package pgsql

import (
	"context"
	"errors"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/stitchdesk/tailor_shop_app/internal/apperrors"
	"github.com/stitchdesk/tailor_shop_app/internal/core/domain"
	portsrepo "github.com/stitchdesk/tailor_shop_app/internal/core/ports/repositories"
)

type PgxAssignmentRepository struct {
	BaseRepository
}

// newPgxAssignmentRepository creates a new repository for work assignments.
func newPgxAssignmentRepository(pool *pgxpool.Pool) portsrepo.AssignmentRepositoryFacade {
	return &PgxAssignmentRepository{
		BaseRepository: BaseRepository{Pool: pool},
	}
}

// Ensure PgxAssignmentRepository implements portsrepo.AssignmentRepositoryFacade
var _ portsrepo.AssignmentRepositoryFacade = (*PgxAssignmentRepository)(nil)

var FULL_ASSIGNMENT_SELECT_QUERY = `
SELECT
	a.assignment_id, a.order_row_id, a.organization_id, a.stitcher_id, a.tailor_id,
	a.status, a.progress_percentage, a.estimated_hours, a.actual_hours,
	a.quality_rating, a.assignment_notes, a.progress_notes, a.quality_notes,
	a.assigned_at, a.started_at, a.completed_at,
	a.created_at, a.created_by, a.last_updated_at, a.last_updated_by
FROM work_assignments a
`

// statsSelect aggregates one row per stitcher over their assignments.
var statsSelect = `
SELECT
	a.stitcher_id,
	COALESCE(u.full_name, '') AS stitcher_name,
	COUNT(*)::int AS total_assigned,
	COUNT(*) FILTER (WHERE a.status = 'IN_PROGRESS')::int AS in_progress,
	COUNT(*) FILTER (WHERE a.status = 'COMPLETED')::int AS completed,
	COUNT(*) FILTER (WHERE a.status = 'ON_HOLD')::int AS on_hold,
	COUNT(*) FILTER (WHERE a.status = 'CANCELLED')::int AS cancelled,
	AVG(a.quality_rating)::float8 AS avg_quality_rating,
	COALESCE(SUM(a.actual_hours), 0)::float8 AS total_actual_hours
FROM work_assignments a
LEFT JOIN users u ON u.user_id = a.stitcher_id
`

func (r *PgxAssignmentRepository) getAssignments(ctx context.Context, filterQuery string, args ...any) ([]domain.WorkAssignment, error) {
	query := FULL_ASSIGNMENT_SELECT_QUERY + filterQuery
	rows, err := r.Pool.Query(ctx, query, args...)
	if err != nil {
		return nil, apperrors.NewAppError(500, "failed to query assignments", err)
	}
	defer rows.Close()
	assignments, err := pgx.CollectRows(rows, pgx.RowToStructByName[domain.WorkAssignment])
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return []domain.WorkAssignment{}, nil
		}
		return nil, apperrors.NewAppError(500, "failed to collect assignment rows", err)
	}
	return assignments, nil
}

func (r *PgxAssignmentRepository) SaveAssignment(ctx context.Context, assignment domain.WorkAssignment) error {
	query := `
		INSERT INTO work_assignments (
			assignment_id, order_row_id, organization_id, stitcher_id, tailor_id,
			status, progress_percentage, estimated_hours, actual_hours,
			quality_rating, assignment_notes, progress_notes, quality_notes,
			assigned_at, started_at, completed_at,
			created_at, created_by, last_updated_at, last_updated_by
		)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14, $15, $16, $17, $18, $19, $20);
	`
	_, err := r.Pool.Exec(ctx, query,
		assignment.AssignmentID,
		assignment.OrderRowID,
		assignment.OrganizationID,
		assignment.StitcherID,
		assignment.TailorID,
		assignment.Status,
		assignment.ProgressPercentage,
		assignment.EstimatedHours,
		assignment.ActualHours,
		assignment.QualityRating,
		assignment.AssignmentNotes,
		assignment.ProgressNotes,
		assignment.QualityNotes,
		assignment.AssignedAt,
		assignment.StartedAt,
		assignment.CompletedAt,
		assignment.CreatedAt,
		assignment.CreatedBy,
		assignment.LastUpdatedAt,
		assignment.LastUpdatedBy,
	)
	if err != nil {
		var pgErr *pgconn.PgError
		if errors.As(err, &pgErr) {
			if pgErr.Code == "23505" { // unique_violation
				return apperrors.NewConflictError("order already has an assignment")
			}
			if pgErr.Code == "23503" { // foreign_key_violation
				return apperrors.NewValidationFailedError("referenced order, stitcher or tailor does not exist")
			}
		}
		return apperrors.NewAppError(500, "failed to save assignment "+assignment.AssignmentID, err)
	}
	return nil
}

func (r *PgxAssignmentRepository) FindAssignmentByID(ctx context.Context, assignmentID string) (*domain.WorkAssignment, error) {
	query := `WHERE a.assignment_id = $1`
	assignments, err := r.getAssignments(ctx, query, assignmentID)
	if err != nil {
		return nil, err
	}
	if len(assignments) == 0 {
		return nil, apperrors.ErrNotFound
	}
	return &assignments[0], nil
}

func (r *PgxAssignmentRepository) FindAssignmentByOrderRowID(ctx context.Context, orderRowID string) (*domain.WorkAssignment, error) {
	query := `WHERE a.order_row_id = $1`
	assignments, err := r.getAssignments(ctx, query, orderRowID)
	if err != nil {
		return nil, err
	}
	if len(assignments) == 0 {
		return nil, apperrors.ErrNotFound
	}
	return &assignments[0], nil
}

func (r *PgxAssignmentRepository) ListAssignmentsByStitcher(ctx context.Context, stitcherID string, limit, offset int) ([]domain.WorkAssignment, error) {
	if limit <= 0 {
		limit = 20
	}
	if offset < 0 {
		offset = 0
	}
	query := `WHERE a.stitcher_id = $1 ORDER BY a.assigned_at DESC LIMIT $2 OFFSET $3`
	return r.getAssignments(ctx, query, stitcherID, limit, offset)
}

func (r *PgxAssignmentRepository) UpdateAssignment(ctx context.Context, assignment domain.WorkAssignment) error {
	query := `
		UPDATE work_assignments
		SET stitcher_id = $1, tailor_id = $2, status = $3, progress_percentage = $4,
			estimated_hours = $5, actual_hours = $6, quality_rating = $7,
			assignment_notes = $8, progress_notes = $9, quality_notes = $10,
			assigned_at = $11, started_at = $12, completed_at = $13,
			last_updated_at = $14, last_updated_by = $15
		WHERE assignment_id = $16;
	`
	cmdTag, err := r.Pool.Exec(ctx, query,
		assignment.StitcherID,
		assignment.TailorID,
		assignment.Status,
		assignment.ProgressPercentage,
		assignment.EstimatedHours,
		assignment.ActualHours,
		assignment.QualityRating,
		assignment.AssignmentNotes,
		assignment.ProgressNotes,
		assignment.QualityNotes,
		assignment.AssignedAt,
		assignment.StartedAt,
		assignment.CompletedAt,
		assignment.LastUpdatedAt,
		assignment.LastUpdatedBy,
		assignment.AssignmentID,
	)
	if err != nil {
		return apperrors.NewAppError(500, "failed to update assignment "+assignment.AssignmentID, err)
	}
	if cmdTag.RowsAffected() == 0 {
		return apperrors.ErrNotFound
	}
	return nil
}

func (r *PgxAssignmentRepository) GetStitcherStats(ctx context.Context, stitcherID string) (*domain.StitcherStats, error) {
	query := statsSelect + `
		WHERE a.stitcher_id = $1
		GROUP BY a.stitcher_id, u.full_name;
	`
	rows, err := r.Pool.Query(ctx, query, stitcherID)
	if err != nil {
		return nil, apperrors.NewAppError(500, "failed to query stitcher stats", err)
	}
	defer rows.Close()
	stats, err := pgx.CollectOneRow(rows, pgx.RowToStructByName[domain.StitcherStats])
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			// No assignments yet: every counter is zero.
			return &domain.StitcherStats{StitcherID: stitcherID}, nil
		}
		return nil, apperrors.NewAppError(500, "failed to collect stitcher stats row", err)
	}
	return &stats, nil
}

func (r *PgxAssignmentRepository) GetTailorStitcherStats(ctx context.Context, tailorID string) ([]domain.StitcherStats, error) {
	query := statsSelect + `
		WHERE a.tailor_id = $1
		GROUP BY a.stitcher_id, u.full_name
		ORDER BY completed DESC, a.stitcher_id;
	`
	rows, err := r.Pool.Query(ctx, query, tailorID)
	if err != nil {
		return nil, apperrors.NewAppError(500, "failed to query tailor stitcher stats", err)
	}
	defer rows.Close()
	stats, err := pgx.CollectRows(rows, pgx.RowToStructByName[domain.StitcherStats])
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return []domain.StitcherStats{}, nil
		}
		return nil, apperrors.NewAppError(500, "failed to collect tailor stitcher stats rows", err)
	}
	return stats, nil
}
