package handlers

import (
	"log/slog"
	"net/http"

	portssvc "github.com/SscSPs/expense_management_app/internal/core/ports/services"
	"github.com/SscSPs/expense_management_app/internal/dto"
	"github.com/SscSPs/expense_management_app/internal/middleware"

	"github.com/gin-gonic/gin"
)

// userHandler handles the admin's user management requests.
type userHandler struct {
	userService portssvc.UserSvcFacade
}

// newUserHandler creates a new userHandler.
func newUserHandler(us portssvc.UserSvcFacade) *userHandler {
	return &userHandler{
		userService: us,
	}
}

// RegisterUserRoutes registers all user-related admin routes.
func RegisterUserRoutes(rg *gin.RouterGroup, userService portssvc.UserSvcFacade) {
	registerValidators()
	h := newUserHandler(userService)

	admin := rg.Group("/admin")
	{
		admin.GET("/users", h.listUsers)
		admin.GET("/users-dropdown", h.usersDropdown)
		admin.POST("/users", h.createUser)
		admin.PATCH("/users/:userId", h.updateUser)
		admin.DELETE("/users/:userId", h.deleteUser)
		admin.PATCH("/users/:userId/toggle-status", h.toggleUserStatus)
		admin.PATCH("/users/:userId/reset-password", h.resetPassword)
	}
}

// createUser godoc
// @Summary Create a new user
// @Description Adds a user to the admin's company
// @Tags users
// @Accept  json
// @Produce  json
// @Param   user body dto.CreateUserRequest true "User details"
// @Success 201 {object} dto.UserResponse
// @Failure 400 {object} map[string]string "Invalid input"
// @Failure 401 {object} map[string]string "Unauthorized"
// @Failure 403 {object} map[string]string "Admin role required"
// @Failure 409 {object} map[string]string "Email already in use"
// @Failure 500 {object} map[string]string "Failed to create user"
// @Security BearerAuth
// @Router /admin/users [post]
func (h *userHandler) createUser(c *gin.Context) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context())
	var req dto.CreateUserRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		logger.Error("Failed to bind JSON for create user request", slog.String("error", err.Error()))
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request format: " + err.Error()})
		return
	}

	creatorUserID, ok := actorID(c, logger)
	if !ok {
		return
	}

	logger = logger.With(slog.String("creator_user_id", creatorUserID))
	logger.Info("Received request to create user", slog.String("user_name", req.Name), slog.String("role", req.Role))

	createdUser, err := h.userService.CreateUser(c.Request.Context(), creatorUserID, req)
	if err != nil {
		respondError(c, logger, err, "Failed to create user")
		return
	}

	logger.Info("User created successfully", slog.String("new_user_id", createdUser.UserID))
	c.JSON(http.StatusCreated, dto.ToUserResponse(createdUser))
}

// listUsers godoc
// @Summary List users
// @Description Lists the users of the admin's company
// @Tags users
// @Produce  json
// @Param   role query string false "Admin, Manager or Employee"
// @Param   status query string false "active or inactive"
// @Param   limit query int false "Limit number of results" default(20)
// @Param   offset query int false "Offset for pagination" default(0)
// @Success 200 {object} dto.ListUsersResponse
// @Failure 400 {object} map[string]string "Invalid query"
// @Failure 401 {object} map[string]string "Unauthorized"
// @Failure 403 {object} map[string]string "Admin role required"
// @Failure 500 {object} map[string]string "Failed to list users"
// @Security BearerAuth
// @Router /admin/users [get]
func (h *userHandler) listUsers(c *gin.Context) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context())
	var params dto.ListUsersParams
	if err := c.ShouldBindQuery(&params); err != nil {
		logger.Warn("Failed to bind query params for ListUsers", slog.String("error", err.Error()))
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid query parameters: " + err.Error()})
		return
	}

	adminID, ok := actorID(c, logger)
	if !ok {
		return
	}

	users, err := h.userService.ListUsers(c.Request.Context(), adminID, params)
	if err != nil {
		respondError(c, logger, err, "Failed to list users")
		return
	}

	logger.Info("Users listed successfully", slog.Int("count", len(users)))
	c.JSON(http.StatusOK, dto.ToListUserResponse(users))
}

// usersDropdown godoc
// @Summary List active users for pickers
// @Tags users
// @Produce  json
// @Success 200 {array} dto.UserDropdownItem
// @Failure 401 {object} map[string]string "Unauthorized"
// @Failure 403 {object} map[string]string "Admin role required"
// @Security BearerAuth
// @Router /admin/users-dropdown [get]
func (h *userHandler) usersDropdown(c *gin.Context) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context())
	adminID, ok := actorID(c, logger)
	if !ok {
		return
	}

	users, err := h.userService.ListActiveUsers(c.Request.Context(), adminID)
	if err != nil {
		respondError(c, logger, err, "Failed to list users")
		return
	}
	c.JSON(http.StatusOK, dto.ToUserDropdown(users))
}

// updateUser godoc
// @Summary Update a user
// @Tags users
// @Accept  json
// @Produce  json
// @Param   userId path string true "User ID to update"
// @Param   user body dto.UpdateUserRequest true "User details to update"
// @Success 200 {object} dto.UserResponse
// @Failure 400 {object} map[string]string "Invalid input"
// @Failure 401 {object} map[string]string "Unauthorized"
// @Failure 403 {object} map[string]string "Admin role required"
// @Failure 404 {object} map[string]string "User not found"
// @Failure 409 {object} map[string]string "Email already in use"
// @Failure 500 {object} map[string]string "Failed to update user"
// @Security BearerAuth
// @Router /admin/users/{userId} [patch]
func (h *userHandler) updateUser(c *gin.Context) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context())
	userID := c.Param("userId")
	var req dto.UpdateUserRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		logger.Warn("Failed to bind JSON for UpdateUser", slog.String("error", err.Error()))
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request format: " + err.Error()})
		return
	}

	adminID, ok := actorID(c, logger)
	if !ok {
		return
	}

	logger = logger.With(slog.String("target_user_id", userID))
	updatedUser, err := h.userService.UpdateUser(c.Request.Context(), adminID, userID, req)
	if err != nil {
		respondError(c, logger, err, "Failed to update user")
		return
	}

	logger.Info("User updated successfully")
	c.JSON(http.StatusOK, dto.ToUserResponse(updatedUser))
}

// deleteUser godoc
// @Summary Delete a user
// @Description Marks a user as deleted (soft delete)
// @Tags users
// @Param   userId path string true "User ID to delete"
// @Success 204 "No Content"
// @Failure 400 {object} map[string]string "Cannot delete yourself"
// @Failure 401 {object} map[string]string "Unauthorized"
// @Failure 403 {object} map[string]string "Admin role required"
// @Failure 404 {object} map[string]string "User not found"
// @Failure 500 {object} map[string]string "Failed to delete user"
// @Security BearerAuth
// @Router /admin/users/{userId} [delete]
func (h *userHandler) deleteUser(c *gin.Context) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context())
	userID := c.Param("userId")

	adminID, ok := actorID(c, logger)
	if !ok {
		return
	}

	logger = logger.With(slog.String("target_user_id", userID))
	if err := h.userService.DeleteUser(c.Request.Context(), adminID, userID); err != nil {
		respondError(c, logger, err, "Failed to delete user")
		return
	}

	logger.Info("User deleted successfully")
	c.Status(http.StatusNoContent)
}

// toggleUserStatus godoc
// @Summary Activate or deactivate a user
// @Tags users
// @Produce  json
// @Param   userId path string true "User ID"
// @Success 200 {object} dto.UserResponse
// @Failure 400 {object} map[string]string "Cannot deactivate yourself"
// @Failure 401 {object} map[string]string "Unauthorized"
// @Failure 403 {object} map[string]string "Admin role required"
// @Failure 404 {object} map[string]string "User not found"
// @Security BearerAuth
// @Router /admin/users/{userId}/toggle-status [patch]
func (h *userHandler) toggleUserStatus(c *gin.Context) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context())
	userID := c.Param("userId")

	adminID, ok := actorID(c, logger)
	if !ok {
		return
	}

	user, err := h.userService.ToggleUserStatus(c.Request.Context(), adminID, userID)
	if err != nil {
		respondError(c, logger, err, "Failed to change user status")
		return
	}

	logger.Info("User status changed", slog.String("target_user_id", userID), slog.Bool("is_active", user.IsActive))
	c.JSON(http.StatusOK, dto.ToUserResponse(user))
}

// resetPassword godoc
// @Summary Reset a user's password
// @Description Sets the given password, or generates and returns a temporary one when none is given
// @Tags users
// @Accept  json
// @Produce  json
// @Param   userId path string true "User ID"
// @Param   body body dto.ResetPasswordRequest false "New password"
// @Success 200 {object} dto.ResetPasswordResponse
// @Failure 400 {object} map[string]string "Invalid input"
// @Failure 401 {object} map[string]string "Unauthorized"
// @Failure 403 {object} map[string]string "Admin role required"
// @Failure 404 {object} map[string]string "User not found"
// @Security BearerAuth
// @Router /admin/users/{userId}/reset-password [patch]
func (h *userHandler) resetPassword(c *gin.Context) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context())
	userID := c.Param("userId")

	var req dto.ResetPasswordRequest
	if c.Request.ContentLength != 0 {
		if err := c.ShouldBindJSON(&req); err != nil {
			logger.Warn("Failed to bind JSON for reset password", slog.String("error", err.Error()))
			c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request format: " + err.Error()})
			return
		}
	}

	adminID, ok := actorID(c, logger)
	if !ok {
		return
	}

	resp, err := h.userService.ResetUserPassword(c.Request.Context(), adminID, userID, req)
	if err != nil {
		respondError(c, logger, err, "Failed to reset password")
		return
	}

	logger.Info("User password reset", slog.String("target_user_id", userID))
	c.JSON(http.StatusOK, resp)
}
