package services

import (
	"context"
	"errors"
	"log/slog"
	"time"

	"github.com/google/uuid"

	"github.com/stitchdesk/tailor_shop_app/internal/apperrors"
	"github.com/stitchdesk/tailor_shop_app/internal/core/domain"
	portsrepo "github.com/stitchdesk/tailor_shop_app/internal/core/ports/repositories"
	portssvc "github.com/stitchdesk/tailor_shop_app/internal/core/ports/services"
	"github.com/stitchdesk/tailor_shop_app/internal/dto"
)

// assignmentService implements the AssignmentSvcFacade interface
type assignmentService struct {
	BaseService
	assignmentRepo portsrepo.AssignmentRepositoryFacade
	orderRepo      portsrepo.OrderRepositoryFacade
	userRepo       portsrepo.UserReader
}

// NewAssignmentService creates a new assignment service with the provided dependencies
func NewAssignmentService(
	assignmentRepo portsrepo.AssignmentRepositoryFacade,
	orderRepo portsrepo.OrderRepositoryFacade,
	userRepo portsrepo.UserReader,
) portssvc.AssignmentSvcFacade {
	return &assignmentService{
		assignmentRepo: assignmentRepo,
		orderRepo:      orderRepo,
		userRepo:       userRepo,
	}
}

// Ensure assignmentService implements the AssignmentSvcFacade interface
var _ portssvc.AssignmentSvcFacade = (*assignmentService)(nil)

// AssignWork links an order to a stitcher under the calling tailor. An order
// that already has an assignment is reassigned in place; an order never
// carries two assignment rows.
func (s *assignmentService) AssignWork(ctx context.Context, caller *domain.User, req dto.AssignWorkRequest) (*domain.WorkAssignment, error) {
	if err := requireTailorOrAdmin(caller); err != nil {
		return nil, err
	}

	order, err := s.orderRepo.FindOrderByRowID(ctx, req.OrderRowID)
	if err != nil {
		return nil, err
	}
	if !caller.BelongsTo(order.OrganizationID) {
		return nil, apperrors.ErrNotFound
	}
	if order.Status.IsTerminal() {
		return nil, apperrors.NewValidationFailedError("order " + order.OrderID + " is " + string(order.Status) + " and cannot be assigned")
	}

	if err := s.verifyStitcher(ctx, req.StitcherID, order.OrganizationID); err != nil {
		return nil, err
	}

	now := time.Now()
	existing, err := s.assignmentRepo.FindAssignmentByOrderRowID(ctx, req.OrderRowID)
	if err != nil && !errors.Is(err, apperrors.ErrNotFound) {
		return nil, err
	}

	var assignment *domain.WorkAssignment
	if existing != nil {
		existing.Reassign(req.StitcherID, caller.UserID, now)
		if req.EstimatedHours != nil {
			existing.EstimatedHours = req.EstimatedHours
		}
		if req.Notes != "" {
			existing.AssignmentNotes = req.Notes
		}
		existing.LastUpdatedAt = now
		existing.LastUpdatedBy = caller.UserID
		if err := s.assignmentRepo.UpdateAssignment(ctx, *existing); err != nil {
			s.LogError(ctx, err, "Failed to reassign existing assignment",
				slog.String("assignment_id", existing.AssignmentID))
			return nil, err
		}
		assignment = existing
	} else {
		assignment = &domain.WorkAssignment{
			AssignmentID:    uuid.NewString(),
			OrderRowID:      order.ID,
			OrganizationID:  order.OrganizationID,
			StitcherID:      req.StitcherID,
			TailorID:        caller.UserID,
			Status:          domain.AssignmentAssigned,
			EstimatedHours:  req.EstimatedHours,
			AssignmentNotes: req.Notes,
			AssignedAt:      now,
			AuditFields: domain.AuditFields{
				CreatedAt:     now,
				CreatedBy:     caller.UserID,
				LastUpdatedAt: now,
				LastUpdatedBy: caller.UserID,
			},
		}
		if err := s.assignmentRepo.SaveAssignment(ctx, *assignment); err != nil {
			s.LogError(ctx, err, "Failed to save assignment",
				slog.String("order_row_id", order.ID))
			return nil, err
		}
	}

	// Denormalize the working pair onto the order row for cheap listings.
	if err := s.orderRepo.SetOrderStitcher(ctx, order.ID, assignment.StitcherID, assignment.TailorID, caller.UserID); err != nil {
		s.LogError(ctx, err, "Failed to denormalize stitcher onto order",
			slog.String("order_row_id", order.ID))
		return nil, err
	}

	s.LogInfo(ctx, "Work assigned",
		slog.String("assignment_id", assignment.AssignmentID),
		slog.String("order_id", order.OrderID),
		slog.String("stitcher_id", assignment.StitcherID))
	return assignment, nil
}

// UpdateProgress logs stitcher progress on an assignment. Status and the
// started/completed timestamps are derived on the domain type from the
// previously stored value, so re-posting the same progress is harmless.
func (s *assignmentService) UpdateProgress(ctx context.Context, caller *domain.User, assignmentID string, req dto.UpdateProgressRequest) (*domain.WorkAssignment, error) {
	assignment, err := s.loadVisibleAssignment(ctx, caller, assignmentID)
	if err != nil {
		return nil, err
	}
	if caller.Role != domain.RoleStitcher || assignment.StitcherID != caller.UserID {
		return nil, apperrors.NewForbiddenError("only the assigned stitcher may log progress")
	}

	now := time.Now()
	if err := assignment.ApplyProgress(*req.Progress, req.Notes, now); err != nil {
		return nil, apperrors.NewValidationFailedError(err.Error())
	}
	assignment.LastUpdatedAt = now
	assignment.LastUpdatedBy = caller.UserID

	if err := s.assignmentRepo.UpdateAssignment(ctx, *assignment); err != nil {
		s.LogError(ctx, err, "Failed to persist progress update",
			slog.String("assignment_id", assignmentID))
		return nil, err
	}

	s.LogInfo(ctx, "Assignment progress logged",
		slog.String("assignment_id", assignmentID),
		slog.Int("progress", *req.Progress),
		slog.String("status", string(assignment.Status)))
	return assignment, nil
}

// CompleteAssignment is the tailor override: force-completes at 100% with
// actual hours and a quality review, regardless of the stitcher-reported
// progress.
func (s *assignmentService) CompleteAssignment(ctx context.Context, caller *domain.User, assignmentID string, req dto.CompleteAssignmentRequest) (*domain.WorkAssignment, error) {
	if err := requireTailorOrAdmin(caller); err != nil {
		return nil, err
	}
	assignment, err := s.loadVisibleAssignment(ctx, caller, assignmentID)
	if err != nil {
		return nil, err
	}

	now := time.Now()
	if err := assignment.ForceComplete(req.ActualHours, req.QualityRating, req.QualityNotes, now); err != nil {
		return nil, apperrors.NewValidationFailedError(err.Error())
	}
	assignment.LastUpdatedAt = now
	assignment.LastUpdatedBy = caller.UserID

	if err := s.assignmentRepo.UpdateAssignment(ctx, *assignment); err != nil {
		s.LogError(ctx, err, "Failed to persist assignment completion",
			slog.String("assignment_id", assignmentID))
		return nil, err
	}

	s.LogInfo(ctx, "Assignment completed by override",
		slog.String("assignment_id", assignmentID),
		slog.String("completed_by", caller.UserID))
	return assignment, nil
}

// ReassignWork restarts the cycle under a new stitcher. Review history from
// the previous cycle stays on the row.
func (s *assignmentService) ReassignWork(ctx context.Context, caller *domain.User, assignmentID string, newStitcherID string) (*domain.WorkAssignment, error) {
	if err := requireTailorOrAdmin(caller); err != nil {
		return nil, err
	}
	assignment, err := s.loadVisibleAssignment(ctx, caller, assignmentID)
	if err != nil {
		return nil, err
	}
	if err := s.verifyStitcher(ctx, newStitcherID, assignment.OrganizationID); err != nil {
		return nil, err
	}

	now := time.Now()
	previousStitcher := assignment.StitcherID
	assignment.Reassign(newStitcherID, caller.UserID, now)
	assignment.LastUpdatedAt = now
	assignment.LastUpdatedBy = caller.UserID

	if err := s.assignmentRepo.UpdateAssignment(ctx, *assignment); err != nil {
		s.LogError(ctx, err, "Failed to persist reassignment",
			slog.String("assignment_id", assignmentID))
		return nil, err
	}
	if err := s.orderRepo.SetOrderStitcher(ctx, assignment.OrderRowID, newStitcherID, caller.UserID, caller.UserID); err != nil {
		s.LogError(ctx, err, "Failed to denormalize stitcher onto order",
			slog.String("order_row_id", assignment.OrderRowID))
		return nil, err
	}

	s.LogInfo(ctx, "Work reassigned",
		slog.String("assignment_id", assignmentID),
		slog.String("from_stitcher", previousStitcher),
		slog.String("to_stitcher", newStitcherID))
	return assignment, nil
}

// GetAssignment retrieves an assignment, enforcing tenant visibility.
func (s *assignmentService) GetAssignment(ctx context.Context, caller *domain.User, assignmentID string) (*domain.WorkAssignment, error) {
	return s.loadVisibleAssignment(ctx, caller, assignmentID)
}

// ListMyAssignments retrieves the calling stitcher's assignments.
func (s *assignmentService) ListMyAssignments(ctx context.Context, caller *domain.User, params dto.ListAssignmentsParams) ([]domain.WorkAssignment, error) {
	if caller.Role != domain.RoleStitcher {
		return nil, apperrors.NewForbiddenError("only stitchers have an assignment inbox")
	}
	assignments, err := s.assignmentRepo.ListAssignmentsByStitcher(ctx, caller.UserID, params.Limit, params.Offset)
	if err != nil {
		s.LogError(ctx, err, "Failed to list assignments",
			slog.String("stitcher_id", caller.UserID))
		return nil, err
	}
	if assignments == nil {
		return []domain.WorkAssignment{}, nil
	}
	return assignments, nil
}

// GetStitcherStats aggregates one stitcher's assignment history.
func (s *assignmentService) GetStitcherStats(ctx context.Context, caller *domain.User, stitcherID string) (*domain.StitcherStats, error) {
	if err := requireTailorOrAdmin(caller); err != nil {
		return nil, err
	}
	if err := s.verifyStitcher(ctx, stitcherID, orgOrEmpty(caller)); err != nil {
		return nil, err
	}
	stats, err := s.assignmentRepo.GetStitcherStats(ctx, stitcherID)
	if err != nil {
		s.LogError(ctx, err, "Failed to aggregate stitcher stats",
			slog.String("stitcher_id", stitcherID))
		return nil, err
	}
	return stats, nil
}

// GetTailorStitcherStats aggregates per-stitcher stats for every stitcher the
// caller has assigned work to.
func (s *assignmentService) GetTailorStitcherStats(ctx context.Context, caller *domain.User) ([]domain.StitcherStats, error) {
	if err := requireTailorOrAdmin(caller); err != nil {
		return nil, err
	}
	stats, err := s.assignmentRepo.GetTailorStitcherStats(ctx, caller.UserID)
	if err != nil {
		s.LogError(ctx, err, "Failed to aggregate tailor stitcher stats",
			slog.String("tailor_id", caller.UserID))
		return nil, err
	}
	if stats == nil {
		return []domain.StitcherStats{}, nil
	}
	return stats, nil
}

// loadVisibleAssignment fetches the assignment and enforces tenant and role
// visibility. Stitchers see only their own rows.
func (s *assignmentService) loadVisibleAssignment(ctx context.Context, caller *domain.User, assignmentID string) (*domain.WorkAssignment, error) {
	assignment, err := s.assignmentRepo.FindAssignmentByID(ctx, assignmentID)
	if err != nil {
		return nil, err
	}
	if !caller.BelongsTo(assignment.OrganizationID) {
		return nil, apperrors.ErrNotFound
	}
	if caller.Role == domain.RoleStitcher && assignment.StitcherID != caller.UserID {
		return nil, apperrors.ErrNotFound
	}
	return assignment, nil
}

// verifyStitcher checks that the target is an active stitcher of the given
// organization.
func (s *assignmentService) verifyStitcher(ctx context.Context, stitcherID, organizationID string) error {
	stitcher, err := s.userRepo.FindUserByID(ctx, stitcherID)
	if err != nil {
		if errors.Is(err, apperrors.ErrNotFound) {
			return apperrors.NewValidationFailedError("unknown stitcher: " + stitcherID)
		}
		return err
	}
	if stitcher.Role != domain.RoleStitcher || !stitcher.BelongsTo(organizationID) {
		return apperrors.NewValidationFailedError("user " + stitcherID + " is not a stitcher of this organization")
	}
	if !stitcher.IsActive {
		return apperrors.NewValidationFailedError("stitcher " + stitcherID + " is deactivated")
	}
	return nil
}

func requireTailorOrAdmin(caller *domain.User) error {
	if caller.Role != domain.RoleTailor && caller.Role != domain.RoleAdmin {
		return apperrors.NewForbiddenError("only tailors and admins may manage assignments")
	}
	return nil
}

func orgOrEmpty(u *domain.User) string {
	if u.OrganizationID == nil {
		return ""
	}
	return *u.OrganizationID
}
