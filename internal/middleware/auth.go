package middleware

import (
	"net/http"
	"strings"

	"github.com/iwen-conf/DormDB/internal/models"
	"github.com/iwen-conf/DormDB/internal/services"

	"github.com/gin-gonic/gin"
)

// ContextClaims is the gin context key the validated admin claims are
// stored under.
const ContextClaims = "admin_claims"

// RequireAdmin rejects requests without a valid admin bearer token.
func RequireAdmin(auth *services.AuthService) gin.HandlerFunc {
	return func(c *gin.Context) {
		header := c.GetHeader("Authorization")
		if !strings.HasPrefix(header, "Bearer ") {
			c.AbortWithStatusJSON(http.StatusUnauthorized,
				models.Error(models.CodeBadAdminLogin, "Missing bearer token."))
			return
		}

		claims, err := auth.ValidateToken(strings.TrimPrefix(header, "Bearer "))
		if err != nil {
			c.AbortWithStatusJSON(http.StatusUnauthorized,
				models.Error(models.CodeBadAdminLogin, "Invalid or expired token."))
			return
		}

		c.Set(ContextClaims, claims)
		c.Next()
	}
}
