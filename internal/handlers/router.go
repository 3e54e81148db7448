package handlers

import (
	"net/http"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/CampusHub-2025/accounts-service/internal/auth"
	"github.com/CampusHub-2025/accounts-service/internal/models"
	"github.com/CampusHub-2025/accounts-service/internal/services"
	"github.com/CampusHub-2025/accounts-service/internal/utils"
)

type HandlerManager struct {
	authHandler     *AuthHandler
	userHandler     *UserHandler
	questionHandler *QuestionHandler
	uploadHandler   *UploadHandler
	authMiddleware  *TokenAuthMiddleware
	serviceManager  services.ServiceManager
}

func NewHandlerManager(
	serviceManager services.ServiceManager,
	tokens *auth.TokenManager,
	logger utils.Logger,
	uploadDir string,
) *HandlerManager {
	return &HandlerManager{
		authHandler:     NewAuthHandler(serviceManager.Account(), logger),
		userHandler:     NewUserHandler(serviceManager.Account(), logger),
		questionHandler: NewQuestionHandler(serviceManager.Question(), serviceManager.ImportExport(), logger),
		uploadHandler:   NewUploadHandler(uploadDir, logger),
		authMiddleware:  NewTokenAuthMiddleware(tokens, serviceManager.Account()),
		serviceManager:  serviceManager,
	}
}

// SetupRoutes sets up all API routes
func (hm *HandlerManager) SetupRoutes(router *gin.Engine) {
	router.GET("/health", hm.HealthCheck)

	// Public routes
	router.POST("/register", hm.authHandler.Register)
	router.POST("/login", hm.authHandler.Login)

	// Authenticated routes
	authed := router.Group("/")
	authed.Use(hm.authMiddleware.AuthMiddleware())
	{
		// Open to any authenticated user
		authed.GET("/users", hm.userHandler.ListUsers)
		authed.DELETE("/user/:id", hm.userHandler.DeleteUser)
		authed.POST("/upload-photo", hm.uploadHandler.UploadPhoto)

		// Question bank - officers only
		questions := authed.Group("/questions")
		questions.Use(hm.authMiddleware.RequireRoleMiddleware(models.IdentityOfficer))
		{
			questions.POST("", hm.questionHandler.CreateQuestion)
			questions.GET("", hm.questionHandler.ListQuestions)
			questions.PUT("/:id", hm.questionHandler.UpdateQuestion)
			questions.DELETE("/:id", hm.questionHandler.DeleteQuestion)
			questions.POST("/import", hm.questionHandler.ImportQuestions)
		}
	}
}

// HealthCheck reports service and dependency health
func (hm *HandlerManager) HealthCheck(c *gin.Context) {
	status := http.StatusOK
	health := gin.H{
		"status":    "healthy",
		"service":   "accounts-service",
		"timestamp": time.Now().UTC().Format(time.RFC3339),
	}

	if err := hm.serviceManager.HealthCheck(c.Request.Context()); err != nil {
		status = http.StatusServiceUnavailable
		health["status"] = "unhealthy"
	}

	c.JSON(status, health)
}
