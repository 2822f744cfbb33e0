package middleware

import (
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"
	"gorm.io/gorm"

	"ecommerce-platform/auth"
	"ecommerce-platform/models"
)

// RequireAuth validates the bearer token against the token store and puts
// the resolved principal (user_id, role, token_id) on the context.
func RequireAuth(db *gorm.DB) gin.HandlerFunc {
	return func(c *gin.Context) {
		header := c.GetHeader("Authorization")
		if header == "" {
			c.JSON(http.StatusUnauthorized, gin.H{"error": "Authorization header is missing"})
			c.Abort()
			return
		}
		tokenString := strings.TrimPrefix(header, "Bearer ")

		record, err := auth.ValidateToken(db, tokenString)
		if err != nil {
			c.JSON(models.HTTPStatus(err), gin.H{"error": "Invalid or expired token"})
			c.Abort()
			return
		}

		c.Set("user_id", record.UserID)
		c.Set("role", record.Role)
		c.Set("token_id", record.ID)
		c.Next()
	}
}

// RequireAdmin gates a route group to admin principals. Must run after
// RequireAuth.
func RequireAdmin() gin.HandlerFunc {
	return func(c *gin.Context) {
		role, _ := c.Get("role")
		if role != models.RoleAdmin {
			c.JSON(http.StatusForbidden, gin.H{"error": "Admins only"})
			c.Abort()
			return
		}
		c.Next()
	}
}

// PrincipalID returns the authenticated user id set by RequireAuth.
func PrincipalID(c *gin.Context) uint {
	id, _ := c.Get("user_id")
	uid, _ := id.(uint)
	return uid
}

// IsAdmin reports whether the authenticated principal carries the admin role.
func IsAdmin(c *gin.Context) bool {
	role, _ := c.Get("role")
	return role == models.RoleAdmin
}
