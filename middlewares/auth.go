package middlewares

import (
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"

	"pos-api/models"
	"pos-api/utils"
)

// AuthMiddleware validates the bearer token and stores the operating user
// on the request context.
func AuthMiddleware(secret string) gin.HandlerFunc {
	return func(c *gin.Context) {
		header := c.GetHeader("Authorization")
		if !strings.HasPrefix(header, "Bearer ") {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": "missing bearer token"})
			return
		}

		claims, err := utils.ParseToken(secret, strings.TrimPrefix(header, "Bearer "))
		if err != nil {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": "invalid token"})
			return
		}

		c.Set("user_id", claims.UserID)
		c.Set("role", claims.Role)
		c.Set("user", models.User{
			ID:       claims.UserID,
			Username: claims.Subject,
			Name:     claims.Name,
			Role:     claims.Role,
		})
		c.Next()
	}
}

// RoleMiddleware allows only the listed roles through.
func RoleMiddleware(roles ...string) gin.HandlerFunc {
	return func(c *gin.Context) {
		role := c.GetString("role")
		for _, allowed := range roles {
			if role == allowed {
				c.Next()
				return
			}
		}
		c.AbortWithStatusJSON(http.StatusForbidden, gin.H{"error": "insufficient role"})
	}
}

// CurrentUser returns the operating user stored by AuthMiddleware.
func CurrentUser(c *gin.Context) models.User {
	user, _ := c.MustGet("user").(models.User)
	return user
}
