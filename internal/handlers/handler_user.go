package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/stitchdesk/tailor_shop_app/internal/core/domain"
	portssvc "github.com/stitchdesk/tailor_shop_app/internal/core/ports/services"
	"github.com/stitchdesk/tailor_shop_app/internal/dto"
)

// UserHandler holds dependencies for user account handlers.
type UserHandler struct {
	userService portssvc.UserSvcFacade
}

// NewUserHandler creates a new UserHandler.
func NewUserHandler(svc portssvc.UserSvcFacade) *UserHandler {
	return &UserHandler{userService: svc}
}

// registerUserRoutes registers account provisioning and management routes.
func registerUserRoutes(rg *gin.RouterGroup, svc portssvc.UserSvcFacade) {
	h := NewUserHandler(svc)
	users := rg.Group("/users")
	{
		users.POST("", h.CreateUser)
		users.GET("", h.ListUsers)
		users.GET("/me", h.GetMe)
		users.GET("/:userID", h.GetUserByID)
		users.PUT("/:userID", h.UpdateUser)
		users.PUT("/:userID/active", h.SetUserActive)
	}
}

// CreateUser godoc
// @Summary Provision an account
// @Description Creates an account of the requested role on behalf of the caller. Superadmins create admins and tailors anywhere; admins and tailors create stitchers and customers in their own organization.
// @Tags users
// @Accept json
// @Produce json
// @Param user body dto.CreateUserRequest true "Account details"
// @Success 201 {object} dto.UserResponse
// @Failure 400 {object} ErrorResponse
// @Failure 403 {object} ErrorResponse "Caller role lacks authority over the target role"
// @Failure 409 {object} ErrorResponse "Email or username already taken"
// @Security BearerAuth
// @Router /users [post]
func (h *UserHandler) CreateUser(c *gin.Context) {
	caller, ok := mustCurrentUser(c)
	if !ok {
		return
	}

	var req dto.CreateUserRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, ErrorResponse{Error: "Invalid request body: " + err.Error()})
		return
	}

	user, err := h.userService.CreateAccount(c.Request.Context(), caller, req)
	if err != nil {
		respondWithError(c, err, "Failed to create account")
		return
	}

	c.JSON(http.StatusCreated, dto.ToUserResponse(user))
}

// ListUsers godoc
// @Summary List users
// @Description Lists accounts in the caller's organization, optionally filtered by role.
// @Tags users
// @Produce json
// @Param role query string false "Filter by role" Enums(ADMIN, TAILOR, CUSTOMER, STITCHER)
// @Param limit query int false "Page size" default(20)
// @Param offset query int false "Page offset" default(0)
// @Success 200 {object} dto.ListUsersResponse
// @Failure 400 {object} ErrorResponse
// @Security BearerAuth
// @Router /users [get]
func (h *UserHandler) ListUsers(c *gin.Context) {
	caller, ok := mustCurrentUser(c)
	if !ok {
		return
	}

	var params dto.ListUsersParams
	if err := c.ShouldBindQuery(&params); err != nil {
		c.JSON(http.StatusBadRequest, ErrorResponse{Error: "Invalid query parameters: " + err.Error()})
		return
	}

	users, err := h.userService.ListUsers(c.Request.Context(), caller, params)
	if err != nil {
		respondWithError(c, err, "Failed to list users")
		return
	}

	c.JSON(http.StatusOK, dto.ToListUsersResponse(users))
}

// GetMe godoc
// @Summary Get own profile
// @Tags users
// @Produce json
// @Success 200 {object} dto.UserResponse
// @Failure 401 {object} ErrorResponse
// @Security BearerAuth
// @Router /users/me [get]
func (h *UserHandler) GetMe(c *gin.Context) {
	caller, ok := mustCurrentUser(c)
	if !ok {
		return
	}
	c.JSON(http.StatusOK, dto.ToUserResponse(caller))
}

// GetUserByID godoc
// @Summary Get user by ID
// @Tags users
// @Produce json
// @Param userID path string true "User ID"
// @Success 200 {object} dto.UserResponse
// @Failure 404 {object} ErrorResponse
// @Security BearerAuth
// @Router /users/{userID} [get]
func (h *UserHandler) GetUserByID(c *gin.Context) {
	caller, ok := mustCurrentUser(c)
	if !ok {
		return
	}

	user, err := h.userService.GetUserByID(c.Request.Context(), c.Param("userID"))
	if err != nil {
		respondWithError(c, err, "Failed to get user")
		return
	}
	// Tenant isolation: a foreign-organization profile looks missing.
	if caller.Role != domain.RoleSuperadmin && !sameOrganization(caller.OrganizationID, user.OrganizationID) {
		c.JSON(http.StatusNotFound, ErrorResponse{Error: "Failed to get user: not found"})
		return
	}

	c.JSON(http.StatusOK, dto.ToUserResponse(user))
}

// UpdateUser godoc
// @Summary Update a user profile
// @Description Applies a self-service or staff profile edit.
// @Tags users
// @Accept json
// @Produce json
// @Param userID path string true "User ID"
// @Param user body dto.UpdateUserRequest true "Fields to update"
// @Success 200 {object} dto.UserResponse
// @Failure 400 {object} ErrorResponse
// @Failure 403 {object} ErrorResponse
// @Failure 404 {object} ErrorResponse
// @Security BearerAuth
// @Router /users/{userID} [put]
func (h *UserHandler) UpdateUser(c *gin.Context) {
	caller, ok := mustCurrentUser(c)
	if !ok {
		return
	}

	var req dto.UpdateUserRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, ErrorResponse{Error: "Invalid request body: " + err.Error()})
		return
	}

	user, err := h.userService.UpdateUser(c.Request.Context(), caller, c.Param("userID"), req)
	if err != nil {
		respondWithError(c, err, "Failed to update user")
		return
	}

	c.JSON(http.StatusOK, dto.ToUserResponse(user))
}

// SetUserActive godoc
// @Summary Activate or deactivate a user
// @Description Toggles the soft-deactivation flag. Deactivated accounts cannot authenticate.
// @Tags users
// @Accept json
// @Produce json
// @Param userID path string true "User ID"
// @Param active body dto.SetUserActiveRequest true "Desired active state"
// @Success 204 "No Content"
// @Failure 400 {object} ErrorResponse
// @Failure 403 {object} ErrorResponse
// @Failure 404 {object} ErrorResponse
// @Security BearerAuth
// @Router /users/{userID}/active [put]
func (h *UserHandler) SetUserActive(c *gin.Context) {
	caller, ok := mustCurrentUser(c)
	if !ok {
		return
	}

	var req dto.SetUserActiveRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, ErrorResponse{Error: "Invalid request body: " + err.Error()})
		return
	}

	if err := h.userService.SetUserActive(c.Request.Context(), caller, c.Param("userID"), *req.IsActive); err != nil {
		respondWithError(c, err, "Failed to change account state")
		return
	}

	c.Status(http.StatusNoContent)
}

func sameOrganization(a, b *string) bool {
	return a != nil && b != nil && *a == *b
}
