package handlers

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/CampusHub-2025/accounts-service/internal/services"
	"github.com/CampusHub-2025/accounts-service/internal/utils"
	"github.com/CampusHub-2025/accounts-service/internal/validator"
)

// BaseHandler provides shared helpers for all HTTP handlers
type BaseHandler struct {
	logger utils.Logger
}

func NewBaseHandler(logger utils.Logger) BaseHandler {
	return BaseHandler{logger: logger}
}

// ErrorResponse is the JSON shape for all error replies
type ErrorResponse struct {
	Message string `json:"message"`
	Details string `json:"details,omitempty"`
}

// SuccessResponse is the JSON shape for message-only replies
type SuccessResponse struct {
	Message string `json:"message"`
}

// handleServiceError maps service errors to HTTP statuses. Duplicate
// usernames and malformed input both answer 400, credential failures 401,
// denied actions 403 and missing records 404.
func (h *BaseHandler) handleServiceError(c *gin.Context, err error) {
	var validationErrs validator.ValidationErrors
	var permErr *services.PermissionError

	switch {
	case errors.As(err, &validationErrs):
		c.JSON(http.StatusBadRequest, ErrorResponse{
			Message: "Validation failed",
			Details: validationErrs.Error(),
		})
	case errors.Is(err, services.ErrUsernameTaken),
		errors.Is(err, services.ErrInvalidIdentity),
		errors.Is(err, services.ErrInvalidScore),
		errors.Is(err, services.ErrInvalidImportFile):
		c.JSON(http.StatusBadRequest, ErrorResponse{Message: err.Error()})
	case errors.Is(err, services.ErrInvalidCredentials):
		c.JSON(http.StatusUnauthorized, ErrorResponse{Message: err.Error()})
	case errors.As(err, &permErr):
		c.JSON(http.StatusForbidden, ErrorResponse{Message: "Permission denied"})
	case errors.Is(err, services.ErrUserNotFound),
		errors.Is(err, services.ErrQuestionNotFound):
		c.JSON(http.StatusNotFound, ErrorResponse{Message: err.Error()})
	default:
		utils.FromContext(c.Request.Context()).Error("Unhandled service error", "error", err)
		c.JSON(http.StatusInternalServerError, ErrorResponse{Message: "Internal server error"})
	}
}

// currentUserID reads the authenticated user ID set by the auth middleware
func (h *BaseHandler) currentUserID(c *gin.Context) (uint, bool) {
	value, exists := c.Get("user_id")
	if !exists {
		c.JSON(http.StatusUnauthorized, ErrorResponse{Message: "User not authenticated"})
		return 0, false
	}

	userID, ok := value.(uint)
	if !ok {
		c.JSON(http.StatusUnauthorized, ErrorResponse{Message: "User not authenticated"})
		return 0, false
	}

	return userID, true
}
