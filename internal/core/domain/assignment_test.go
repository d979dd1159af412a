package domain_test

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/stitchdesk/tailor_shop_app/internal/core/domain"
)

func newAssignment() domain.WorkAssignment {
	return domain.WorkAssignment{
		AssignmentID:       "wa-1",
		OrderRowID:         "order-1",
		OrganizationID:     "org-1",
		StitcherID:         "stitcher-1",
		TailorID:           "tailor-1",
		Status:             domain.AssignmentAssigned,
		ProgressPercentage: 0,
		AssignedAt:         time.Date(2025, 6, 1, 9, 0, 0, 0, time.UTC),
	}
}

func TestWorkAssignment_ApplyProgress_FirstProgressStartsWork(t *testing.T) {
	w := newAssignment()
	now := time.Date(2025, 6, 2, 10, 0, 0, 0, time.UTC)

	err := w.ApplyProgress(25, "cut and pinned", now)
	require.NoError(t, err)

	assert.Equal(t, domain.AssignmentInProgress, w.Status)
	assert.Equal(t, 25, w.ProgressPercentage)
	require.NotNil(t, w.StartedAt)
	assert.Equal(t, now, *w.StartedAt)
	assert.Nil(t, w.CompletedAt)
	assert.Equal(t, "cut and pinned", w.ProgressNotes)
}

func TestWorkAssignment_ApplyProgress_Idempotent(t *testing.T) {
	w := newAssignment()
	first := time.Date(2025, 6, 2, 10, 0, 0, 0, time.UTC)
	later := first.Add(3 * time.Hour)

	require.NoError(t, w.ApplyProgress(25, "", first))
	startedAt := *w.StartedAt

	// Re-applying the same value must not move started_at.
	require.NoError(t, w.ApplyProgress(25, "", later))
	assert.Equal(t, startedAt, *w.StartedAt)
	assert.Equal(t, domain.AssignmentInProgress, w.Status)
	assert.Equal(t, 25, w.ProgressPercentage)
}

func TestWorkAssignment_ApplyProgress_HundredCompletes(t *testing.T) {
	w := newAssignment()
	start := time.Date(2025, 6, 2, 10, 0, 0, 0, time.UTC)
	finish := start.Add(8 * time.Hour)

	require.NoError(t, w.ApplyProgress(50, "", start))
	require.NoError(t, w.ApplyProgress(100, "done", finish))

	assert.Equal(t, domain.AssignmentCompleted, w.Status)
	assert.Equal(t, 100, w.ProgressPercentage)
	require.NotNil(t, w.CompletedAt)
	assert.Equal(t, finish, *w.CompletedAt)
}

func TestWorkAssignment_ApplyProgress_TerminalRejected(t *testing.T) {
	w := newAssignment()
	now := time.Now()
	require.NoError(t, w.ApplyProgress(100, "", now))

	err := w.ApplyProgress(50, "", now)
	assert.Error(t, err)

	w2 := newAssignment()
	w2.Status = domain.AssignmentCancelled
	assert.Error(t, w2.ApplyProgress(10, "", now))
}

func TestWorkAssignment_ApplyProgress_RangeChecked(t *testing.T) {
	w := newAssignment()
	assert.Error(t, w.ApplyProgress(-1, "", time.Now()))
	assert.Error(t, w.ApplyProgress(101, "", time.Now()))
}

func TestWorkAssignment_ForceComplete_OverridesProgress(t *testing.T) {
	w := newAssignment()
	now := time.Date(2025, 6, 3, 17, 0, 0, 0, time.UTC)
	require.NoError(t, w.ApplyProgress(40, "", now.Add(-time.Hour)))

	hours := 7.5
	rating := 4
	err := w.ForceComplete(&hours, &rating, "minor seam rework", now)
	require.NoError(t, err)

	assert.Equal(t, domain.AssignmentCompleted, w.Status)
	assert.Equal(t, 100, w.ProgressPercentage)
	require.NotNil(t, w.CompletedAt)
	assert.Equal(t, now, *w.CompletedAt)
	assert.Equal(t, 7.5, *w.ActualHours)
	assert.Equal(t, 4, *w.QualityRating)
	assert.Equal(t, "minor seam rework", w.QualityNotes)
}

func TestWorkAssignment_ForceComplete_RatingRange(t *testing.T) {
	w := newAssignment()
	bad := 6
	assert.Error(t, w.ForceComplete(nil, &bad, "", time.Now()))
	zero := 0
	assert.Error(t, w.ForceComplete(nil, &zero, "", time.Now()))
}

func TestWorkAssignment_Reassign_ResetsCycle(t *testing.T) {
	w := newAssignment()
	start := time.Date(2025, 6, 2, 10, 0, 0, 0, time.UTC)
	require.NoError(t, w.ApplyProgress(100, "", start))
	require.NotNil(t, w.CompletedAt)
	priorCompletedAt := *w.CompletedAt

	reassignedAt := start.Add(24 * time.Hour)
	w.Reassign("stitcher-2", "tailor-1", reassignedAt)

	assert.Equal(t, "stitcher-2", w.StitcherID)
	assert.Equal(t, domain.AssignmentAssigned, w.Status)
	assert.Equal(t, 0, w.ProgressPercentage)
	assert.Nil(t, w.StartedAt)
	assert.Equal(t, reassignedAt, w.AssignedAt)
	// History from the prior cycle is kept.
	require.NotNil(t, w.CompletedAt)
	assert.Equal(t, priorCompletedAt, *w.CompletedAt)

	// The restarted cycle behaves like a fresh one.
	require.NoError(t, w.ApplyProgress(25, "", reassignedAt.Add(time.Hour)))
	assert.Equal(t, domain.AssignmentInProgress, w.Status)
	require.NotNil(t, w.StartedAt)
}
