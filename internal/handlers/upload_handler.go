package handlers

import (
	"fmt"
	"net/http"
	"os"
	"path/filepath"
	"strings"

	"github.com/gin-gonic/gin"

	"github.com/CampusHub-2025/accounts-service/internal/utils"
)

// allowedPhotoExtensions is the allow-list for profile photo uploads
var allowedPhotoExtensions = map[string]bool{
	".png":  true,
	".jpg":  true,
	".jpeg": true,
}

type UploadHandler struct {
	BaseHandler
	uploadDir string
}

func NewUploadHandler(uploadDir string, logger utils.Logger) *UploadHandler {
	return &UploadHandler{
		BaseHandler: NewBaseHandler(logger),
		uploadDir:   uploadDir,
	}
}

// UploadPhoto stores a profile photo for the calling user. Files are saved
// as <userID>_<filename> so re-uploads replace the previous photo.
// @Summary Upload a profile photo
// @Tags users
// @Accept multipart/form-data
// @Produce json
// @Param photo formData file true "png, jpg or jpeg image"
// @Success 200 {object} SuccessResponse
// @Failure 400 {object} ErrorResponse "Missing or unsupported file"
// @Router /upload-photo [post]
func (h *UploadHandler) UploadPhoto(c *gin.Context) {
	fileHeader, err := c.FormFile("photo")
	if err != nil {
		c.JSON(http.StatusBadRequest, ErrorResponse{
			Message: "Photo file is required",
			Details: err.Error(),
		})
		return
	}

	userID, ok := h.currentUserID(c)
	if !ok {
		return
	}

	// Base strips any path components a client might smuggle in
	name := filepath.Base(fileHeader.Filename)
	ext := strings.ToLower(filepath.Ext(name))
	if !allowedPhotoExtensions[ext] {
		c.JSON(http.StatusBadRequest, ErrorResponse{
			Message: "File type not allowed, expected png, jpg or jpeg",
		})
		return
	}

	if err := os.MkdirAll(h.uploadDir, 0o755); err != nil {
		h.logger.Error("Failed to create upload directory", "dir", h.uploadDir, "error", err)
		c.JSON(http.StatusInternalServerError, ErrorResponse{Message: "Internal server error"})
		return
	}

	filename := fmt.Sprintf("%d_%s", userID, name)
	dest := filepath.Join(h.uploadDir, filename)

	if err := c.SaveUploadedFile(fileHeader, dest); err != nil {
		h.logger.Error("Failed to save uploaded file", "dest", dest, "error", err)
		c.JSON(http.StatusInternalServerError, ErrorResponse{Message: "Internal server error"})
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"message":  "Photo uploaded successfully",
		"filename": filename,
	})
}
