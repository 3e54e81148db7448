package handlers

import (
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"

	"github.com/CampusHub-2025/accounts-service/internal/services"
	"github.com/CampusHub-2025/accounts-service/internal/utils"
)

type UserHandler struct {
	BaseHandler
	service services.AccountService
}

func NewUserHandler(service services.AccountService, logger utils.Logger) *UserHandler {
	return &UserHandler{
		BaseHandler: NewBaseHandler(logger),
		service:     service,
	}
}

// ListUsers returns all accounts with their role profile fields.
// Any authenticated user may call this; results are not scoped to the caller.
// @Summary List all users
// @Tags users
// @Produce json
// @Success 200 {array} services.UserResponse
// @Failure 401 {object} ErrorResponse "Unauthorized"
// @Router /users [get]
func (h *UserHandler) ListUsers(c *gin.Context) {
	users, err := h.service.List(c.Request.Context())
	if err != nil {
		h.handleServiceError(c, err)
		return
	}

	c.JSON(http.StatusOK, users)
}

// DeleteUser removes an officer account together with its profile and questions
// @Summary Delete an officer account
// @Tags users
// @Produce json
// @Param id path int true "User ID"
// @Success 200 {object} SuccessResponse
// @Failure 403 {object} ErrorResponse "Target is not an officer"
// @Failure 404 {object} ErrorResponse "Not found"
// @Router /user/{id} [delete]
func (h *UserHandler) DeleteUser(c *gin.Context) {
	id, err := strconv.ParseUint(c.Param("id"), 10, 32)
	if err != nil {
		c.JSON(http.StatusBadRequest, ErrorResponse{Message: "Invalid user ID"})
		return
	}

	actorID, ok := h.currentUserID(c)
	if !ok {
		return
	}

	if err := h.service.Delete(c.Request.Context(), uint(id), actorID); err != nil {
		h.handleServiceError(c, err)
		return
	}

	c.JSON(http.StatusOK, SuccessResponse{Message: "User deleted successfully"})
}
