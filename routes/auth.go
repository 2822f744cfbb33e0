package routes

import (
	"github.com/gin-gonic/gin"
	"gorm.io/gorm"

	userControllers "ecommerce-platform/controllers/user"
	"ecommerce-platform/middleware"
)

// SetupAuthRoutes registers all "/auth/*" endpoints.
func SetupAuthRoutes(r *gin.Engine, db *gorm.DB) {
	authGroup := r.Group("/auth")
	{
		authGroup.POST("/register", userControllers.RegisterHandler(db))
		authGroup.POST("/login", userControllers.LoginHandler(db))

		// Logout revokes the presented token, so it runs behind auth.
		authGroup.POST("/logout", middleware.RequireAuth(db), userControllers.LogoutHandler(db))
	}
}
