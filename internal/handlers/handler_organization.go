package handlers

import (
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"

	portssvc "github.com/stitchdesk/tailor_shop_app/internal/core/ports/services"
	"github.com/stitchdesk/tailor_shop_app/internal/dto"
)

// OrganizationHandler holds dependencies for organization handlers.
type OrganizationHandler struct {
	organizationService portssvc.OrganizationSvcFacade
}

// NewOrganizationHandler creates a new OrganizationHandler.
func NewOrganizationHandler(svc portssvc.OrganizationSvcFacade) *OrganizationHandler {
	return &OrganizationHandler{organizationService: svc}
}

// registerOrganizationRoutes registers tenant lifecycle routes. The role gate
// restricts the whole /organizations prefix to superadmins.
func registerOrganizationRoutes(rg *gin.RouterGroup, svc portssvc.OrganizationSvcFacade) {
	h := NewOrganizationHandler(svc)
	orgs := rg.Group("/organizations")
	{
		orgs.POST("", h.CreateOrganization)
		orgs.GET("", h.ListOrganizations)
		orgs.GET("/:orgID", h.GetOrganizationByID)
		orgs.PUT("/:orgID", h.UpdateOrganization)
	}
}

// CreateOrganization godoc
// @Summary Create a new organization
// @Description Creates a new tenant. Superadmin only.
// @Tags organizations
// @Accept json
// @Produce json
// @Param organization body dto.CreateOrganizationRequest true "Organization details"
// @Success 201 {object} dto.OrganizationResponse
// @Failure 400 {object} ErrorResponse
// @Failure 403 {object} ErrorResponse
// @Failure 409 {object} ErrorResponse "Slug already taken"
// @Security BearerAuth
// @Router /organizations [post]
func (h *OrganizationHandler) CreateOrganization(c *gin.Context) {
	caller, ok := mustCurrentUser(c)
	if !ok {
		return
	}

	var req dto.CreateOrganizationRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, ErrorResponse{Error: "Invalid request body: " + err.Error()})
		return
	}

	org, err := h.organizationService.CreateOrganization(c.Request.Context(), caller, req)
	if err != nil {
		respondWithError(c, err, "Failed to create organization")
		return
	}

	c.JSON(http.StatusCreated, dto.ToOrganizationResponse(org))
}

// ListOrganizations godoc
// @Summary List organizations
// @Description Lists all tenants. Superadmin only.
// @Tags organizations
// @Produce json
// @Param limit query int false "Page size" default(20)
// @Param offset query int false "Page offset" default(0)
// @Success 200 {object} dto.ListOrganizationsResponse
// @Failure 403 {object} ErrorResponse
// @Security BearerAuth
// @Router /organizations [get]
func (h *OrganizationHandler) ListOrganizations(c *gin.Context) {
	caller, ok := mustCurrentUser(c)
	if !ok {
		return
	}

	limit, _ := strconv.Atoi(c.DefaultQuery("limit", "20"))
	offset, _ := strconv.Atoi(c.DefaultQuery("offset", "0"))

	orgs, err := h.organizationService.ListOrganizations(c.Request.Context(), caller, limit, offset)
	if err != nil {
		respondWithError(c, err, "Failed to list organizations")
		return
	}

	c.JSON(http.StatusOK, dto.ToListOrganizationsResponse(orgs))
}

// GetOrganizationByID godoc
// @Summary Get organization by ID
// @Tags organizations
// @Produce json
// @Param orgID path string true "Organization ID"
// @Success 200 {object} dto.OrganizationResponse
// @Failure 404 {object} ErrorResponse
// @Security BearerAuth
// @Router /organizations/{orgID} [get]
func (h *OrganizationHandler) GetOrganizationByID(c *gin.Context) {
	org, err := h.organizationService.GetOrganizationByID(c.Request.Context(), c.Param("orgID"))
	if err != nil {
		respondWithError(c, err, "Failed to get organization")
		return
	}

	c.JSON(http.StatusOK, dto.ToOrganizationResponse(org))
}

// UpdateOrganization godoc
// @Summary Update organization
// @Description Mutates name, plan or active flag. Superadmin only.
// @Tags organizations
// @Accept json
// @Produce json
// @Param orgID path string true "Organization ID"
// @Param organization body dto.UpdateOrganizationRequest true "Fields to update"
// @Success 200 {object} dto.OrganizationResponse
// @Failure 400 {object} ErrorResponse
// @Failure 403 {object} ErrorResponse
// @Failure 404 {object} ErrorResponse
// @Security BearerAuth
// @Router /organizations/{orgID} [put]
func (h *OrganizationHandler) UpdateOrganization(c *gin.Context) {
	caller, ok := mustCurrentUser(c)
	if !ok {
		return
	}

	var req dto.UpdateOrganizationRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, ErrorResponse{Error: "Invalid request body: " + err.Error()})
		return
	}

	org, err := h.organizationService.UpdateOrganization(c.Request.Context(), caller, c.Param("orgID"), req)
	if err != nil {
		respondWithError(c, err, "Failed to update organization")
		return
	}

	c.JSON(http.StatusOK, dto.ToOrganizationResponse(org))
}
