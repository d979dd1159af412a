package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	portssvc "github.com/stitchdesk/tailor_shop_app/internal/core/ports/services"
	"github.com/stitchdesk/tailor_shop_app/internal/dto"
)

// AssignmentHandler holds dependencies for work assignment handlers.
type AssignmentHandler struct {
	assignmentService portssvc.AssignmentSvcFacade
}

// NewAssignmentHandler creates a new AssignmentHandler.
func NewAssignmentHandler(svc portssvc.AssignmentSvcFacade) *AssignmentHandler {
	return &AssignmentHandler{assignmentService: svc}
}

// registerAssignmentRoutes registers work assignment routes.
func registerAssignmentRoutes(rg *gin.RouterGroup, svc portssvc.AssignmentSvcFacade) {
	h := NewAssignmentHandler(svc)
	assignments := rg.Group("/assignments")
	{
		assignments.POST("", h.AssignWork)
		assignments.GET("/mine", h.ListMyAssignments)
		assignments.GET("/stats", h.GetTailorStitcherStats)
		assignments.GET("/stats/:stitcherID", h.GetStitcherStats)
		assignments.GET("/:assignmentID", h.GetAssignment)
		assignments.PUT("/:assignmentID/progress", h.UpdateProgress)
		assignments.PUT("/:assignmentID/complete", h.CompleteAssignment)
		assignments.PUT("/:assignmentID/reassign", h.ReassignWork)
	}
}

// AssignWork godoc
// @Summary Assign an order to a stitcher
// @Description Links an order to a stitcher under the calling tailor. An order that already has an assignment is reassigned in place rather than duplicated.
// @Tags assignments
// @Accept json
// @Produce json
// @Param assignment body dto.AssignWorkRequest true "Assignment details"
// @Success 201 {object} dto.AssignmentResponse
// @Failure 400 {object} ErrorResponse "Target is not an active stitcher, or the order is terminal"
// @Failure 403 {object} ErrorResponse
// @Failure 404 {object} ErrorResponse
// @Security BearerAuth
// @Router /assignments [post]
func (h *AssignmentHandler) AssignWork(c *gin.Context) {
	caller, ok := mustCurrentUser(c)
	if !ok {
		return
	}

	var req dto.AssignWorkRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, ErrorResponse{Error: "Invalid request body: " + err.Error()})
		return
	}

	assignment, err := h.assignmentService.AssignWork(c.Request.Context(), caller, req)
	if err != nil {
		respondWithError(c, err, "Failed to assign work")
		return
	}

	c.JSON(http.StatusCreated, dto.ToAssignmentResponse(assignment))
}

// ListMyAssignments godoc
// @Summary List own assignments
// @Description Lists the calling stitcher's assignments, newest first.
// @Tags assignments
// @Produce json
// @Param limit query int false "Page size" default(20)
// @Param offset query int false "Page offset" default(0)
// @Success 200 {object} dto.ListAssignmentsResponse
// @Failure 403 {object} ErrorResponse
// @Security BearerAuth
// @Router /assignments/mine [get]
func (h *AssignmentHandler) ListMyAssignments(c *gin.Context) {
	caller, ok := mustCurrentUser(c)
	if !ok {
		return
	}

	var params dto.ListAssignmentsParams
	if err := c.ShouldBindQuery(&params); err != nil {
		c.JSON(http.StatusBadRequest, ErrorResponse{Error: "Invalid query parameters: " + err.Error()})
		return
	}

	assignments, err := h.assignmentService.ListMyAssignments(c.Request.Context(), caller, params)
	if err != nil {
		respondWithError(c, err, "Failed to list assignments")
		return
	}

	c.JSON(http.StatusOK, dto.ToListAssignmentsResponse(assignments))
}

// GetAssignment godoc
// @Summary Get assignment by ID
// @Tags assignments
// @Produce json
// @Param assignmentID path string true "Assignment ID"
// @Success 200 {object} dto.AssignmentResponse
// @Failure 404 {object} ErrorResponse
// @Security BearerAuth
// @Router /assignments/{assignmentID} [get]
func (h *AssignmentHandler) GetAssignment(c *gin.Context) {
	caller, ok := mustCurrentUser(c)
	if !ok {
		return
	}

	assignment, err := h.assignmentService.GetAssignment(c.Request.Context(), caller, c.Param("assignmentID"))
	if err != nil {
		respondWithError(c, err, "Failed to get assignment")
		return
	}

	c.JSON(http.StatusOK, dto.ToAssignmentResponse(assignment))
}

// UpdateProgress godoc
// @Summary Log assignment progress
// @Description Records the stitcher's progress percentage. Crossing 0 starts the clock; reaching 100 completes the assignment.
// @Tags assignments
// @Accept json
// @Produce json
// @Param assignmentID path string true "Assignment ID"
// @Param progress body dto.UpdateProgressRequest true "Progress"
// @Success 200 {object} dto.AssignmentResponse
// @Failure 400 {object} ErrorResponse "Assignment already terminal"
// @Failure 403 {object} ErrorResponse "Caller is not the assigned stitcher"
// @Failure 404 {object} ErrorResponse
// @Security BearerAuth
// @Router /assignments/{assignmentID}/progress [put]
func (h *AssignmentHandler) UpdateProgress(c *gin.Context) {
	caller, ok := mustCurrentUser(c)
	if !ok {
		return
	}

	var req dto.UpdateProgressRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, ErrorResponse{Error: "Invalid request body: " + err.Error()})
		return
	}

	assignment, err := h.assignmentService.UpdateProgress(c.Request.Context(), caller, c.Param("assignmentID"), req)
	if err != nil {
		respondWithError(c, err, "Failed to update progress")
		return
	}

	c.JSON(http.StatusOK, dto.ToAssignmentResponse(assignment))
}

// CompleteAssignment godoc
// @Summary Force-complete an assignment
// @Description Tailor override: completes the assignment at 100% and records actual hours and the quality review.
// @Tags assignments
// @Accept json
// @Produce json
// @Param assignmentID path string true "Assignment ID"
// @Param completion body dto.CompleteAssignmentRequest true "Hours and review"
// @Success 200 {object} dto.AssignmentResponse
// @Failure 400 {object} ErrorResponse
// @Failure 403 {object} ErrorResponse
// @Failure 404 {object} ErrorResponse
// @Security BearerAuth
// @Router /assignments/{assignmentID}/complete [put]
func (h *AssignmentHandler) CompleteAssignment(c *gin.Context) {
	caller, ok := mustCurrentUser(c)
	if !ok {
		return
	}

	var req dto.CompleteAssignmentRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, ErrorResponse{Error: "Invalid request body: " + err.Error()})
		return
	}

	assignment, err := h.assignmentService.CompleteAssignment(c.Request.Context(), caller, c.Param("assignmentID"), req)
	if err != nil {
		respondWithError(c, err, "Failed to complete assignment")
		return
	}

	c.JSON(http.StatusOK, dto.ToAssignmentResponse(assignment))
}

// ReassignWork godoc
// @Summary Reassign to another stitcher
// @Description Moves the assignment to a new stitcher and restarts the progress cycle. The previous quality review stays on record.
// @Tags assignments
// @Accept json
// @Produce json
// @Param assignmentID path string true "Assignment ID"
// @Param reassignment body dto.ReassignWorkRequest true "New stitcher"
// @Success 200 {object} dto.AssignmentResponse
// @Failure 400 {object} ErrorResponse
// @Failure 403 {object} ErrorResponse
// @Failure 404 {object} ErrorResponse
// @Security BearerAuth
// @Router /assignments/{assignmentID}/reassign [put]
func (h *AssignmentHandler) ReassignWork(c *gin.Context) {
	caller, ok := mustCurrentUser(c)
	if !ok {
		return
	}

	var req dto.ReassignWorkRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, ErrorResponse{Error: "Invalid request body: " + err.Error()})
		return
	}

	assignment, err := h.assignmentService.ReassignWork(c.Request.Context(), caller, c.Param("assignmentID"), req.StitcherID)
	if err != nil {
		respondWithError(c, err, "Failed to reassign work")
		return
	}

	c.JSON(http.StatusOK, dto.ToAssignmentResponse(assignment))
}

// GetStitcherStats godoc
// @Summary Per-stitcher statistics
// @Description Aggregates one stitcher's assignment history: counts by state, average quality rating and total hours.
// @Tags assignments
// @Produce json
// @Param stitcherID path string true "Stitcher ID"
// @Success 200 {object} domain.StitcherStats
// @Failure 403 {object} ErrorResponse
// @Failure 404 {object} ErrorResponse
// @Security BearerAuth
// @Router /assignments/stats/{stitcherID} [get]
func (h *AssignmentHandler) GetStitcherStats(c *gin.Context) {
	caller, ok := mustCurrentUser(c)
	if !ok {
		return
	}

	stats, err := h.assignmentService.GetStitcherStats(c.Request.Context(), caller, c.Param("stitcherID"))
	if err != nil {
		respondWithError(c, err, "Failed to get stitcher stats")
		return
	}

	c.JSON(http.StatusOK, stats)
}

// GetTailorStitcherStats godoc
// @Summary Stitcher statistics for the calling tailor
// @Description Aggregates per-stitcher stats across every stitcher the caller has assigned work to.
// @Tags assignments
// @Produce json
// @Success 200 {object} dto.StitcherStatsResponse
// @Failure 403 {object} ErrorResponse
// @Security BearerAuth
// @Router /assignments/stats [get]
func (h *AssignmentHandler) GetTailorStitcherStats(c *gin.Context) {
	caller, ok := mustCurrentUser(c)
	if !ok {
		return
	}

	stats, err := h.assignmentService.GetTailorStitcherStats(c.Request.Context(), caller)
	if err != nil {
		respondWithError(c, err, "Failed to get stitcher stats")
		return
	}

	c.JSON(http.StatusOK, dto.StitcherStatsResponse{Stats: stats})
}
