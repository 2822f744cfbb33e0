package routes

import (
	"github.com/gin-gonic/gin"
	"gorm.io/gorm"

	"ecommerce-platform/utils"
)

// SetupRoutes is the single entry-point that wires up the public, auth,
// user, and admin route groups.
func SetupRoutes(r *gin.Engine, db *gorm.DB, mailer *utils.EmailService) {
	// Public catalog and health routes (no middleware)
	SetupPublicRoutes(r, db)

	// Register / login / logout
	SetupAuthRoutes(r, db)

	// User routes (JWT-protected)
	SetupUserRoutes(r, db, mailer)

	// Admin routes (JWT-protected, admin role)
	SetupAdminRoutes(r, db, mailer)
}
