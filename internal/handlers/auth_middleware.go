package handlers

import (
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"

	"github.com/CampusHub-2025/accounts-service/internal/auth"
	"github.com/CampusHub-2025/accounts-service/internal/models"
	"github.com/CampusHub-2025/accounts-service/internal/services"
)

// TokenAuthMiddleware authenticates requests with bearer tokens issued by
// the accounts service itself. The token carries only the user ID; identity
// is loaded fresh on every request so role changes take effect immediately.
type TokenAuthMiddleware struct {
	tokens  *auth.TokenManager
	account services.AccountService
}

func NewTokenAuthMiddleware(tokens *auth.TokenManager, account services.AccountService) *TokenAuthMiddleware {
	return &TokenAuthMiddleware{
		tokens:  tokens,
		account: account,
	}
}

// AuthMiddleware validates the Authorization header and loads the user
func (m *TokenAuthMiddleware) AuthMiddleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		header := c.GetHeader("Authorization")
		if header == "" {
			c.AbortWithStatusJSON(http.StatusUnauthorized, ErrorResponse{
				Message: "Authorization header required",
			})
			return
		}

		tokenString, ok := strings.CutPrefix(header, "Bearer ")
		if !ok || tokenString == "" {
			c.AbortWithStatusJSON(http.StatusUnauthorized, ErrorResponse{
				Message: "Authorization header must be a bearer token",
			})
			return
		}

		userID, err := m.tokens.Verify(tokenString)
		if err != nil {
			c.AbortWithStatusJSON(http.StatusUnauthorized, ErrorResponse{
				Message: "Invalid or expired token",
			})
			return
		}

		user, err := m.account.GetUser(c.Request.Context(), userID)
		if err != nil {
			c.AbortWithStatusJSON(http.StatusUnauthorized, ErrorResponse{
				Message: "Invalid or expired token",
			})
			return
		}

		c.Set("user_id", user.ID)
		c.Set("user", user)
		if user.Identity != nil {
			c.Set("user_role", string(*user.Identity))
		}

		c.Next()
	}
}

// RequireRoleMiddleware rejects requests from users without one of the roles
func (m *TokenAuthMiddleware) RequireRoleMiddleware(identities ...models.Identity) gin.HandlerFunc {
	return func(c *gin.Context) {
		value, exists := c.Get("user")
		if !exists {
			c.AbortWithStatusJSON(http.StatusUnauthorized, ErrorResponse{
				Message: "User not authenticated",
			})
			return
		}

		user, ok := value.(*models.User)
		if !ok {
			c.AbortWithStatusJSON(http.StatusUnauthorized, ErrorResponse{
				Message: "User not authenticated",
			})
			return
		}

		for _, identity := range identities {
			if user.Is(identity) {
				c.Next()
				return
			}
		}

		c.AbortWithStatusJSON(http.StatusForbidden, ErrorResponse{
			Message: "Permission denied",
		})
	}
}
