package routes

import (
	"github.com/gin-gonic/gin"
	"gorm.io/gorm"

	orderControllers "ecommerce-platform/controllers/order"
	productcontroller "ecommerce-platform/controllers/product"
	shippingControllers "ecommerce-platform/controllers/shipping"
	statsControllers "ecommerce-platform/controllers/stats"
	userControllers "ecommerce-platform/controllers/user"
	"ecommerce-platform/middleware"
	"ecommerce-platform/utils"
)

// SetupAdminRoutes registers all "/admin/*" endpoints. Requires a valid
// token bound to the admin role.
func SetupAdminRoutes(r *gin.Engine, db *gorm.DB, mailer *utils.EmailService) {
	adminGroup := r.Group("/admin")
	adminGroup.Use(middleware.RequireAuth(db), middleware.RequireAdmin())
	{
		// User management
		adminGroup.GET("/users", userControllers.GetAllUsers(db))
		adminGroup.DELETE("/users/:userID", userControllers.AdminDeactivateUser(db))

		// Product management
		productAdmin := adminGroup.Group("/products")
		{
			productAdmin.POST("", productcontroller.CreateProduct(db))
			productAdmin.PUT("/:id", productcontroller.UpdateProduct(db))
			productAdmin.DELETE("/:id", productcontroller.DeleteProduct(db))
			productAdmin.POST("/import-excel", productcontroller.ImportProductsFromExcel(db))
			productAdmin.GET("/export-excel", productcontroller.ExportProductsToExcel(db))
		}

		// Category management
		categoryAdmin := adminGroup.Group("/categories")
		{
			categoryAdmin.POST("", productcontroller.CreateCategory(db))
			categoryAdmin.PUT("/:id", productcontroller.UpdateCategory(db))
			categoryAdmin.DELETE("/:id", productcontroller.DeleteCategory(db))
		}

		// Order management
		orderAdmin := adminGroup.Group("/orders")
		{
			orderAdmin.GET("", orderControllers.ListAllOrdersHandler(db))
			orderAdmin.PUT("/:orderID/status", orderControllers.UpdateOrderStatusHandler(db))
			orderAdmin.POST("/:orderID/shipment", shippingControllers.CreateShipmentHandler(db, mailer))

			// Real-time order event feed
			orderAdmin.GET("/ws", orderControllers.OrderWebSocketHandler())
		}

		// Shipment management
		adminGroup.PUT("/shipments/:shipmentID/status", shippingControllers.UpdateShipmentStatusHandler(db))

		// Statistics
		statsAdmin := adminGroup.Group("/stats")
		{
			statsAdmin.GET("/products", statsControllers.ProductStats(db))
			statsAdmin.GET("/users", statsControllers.UserStats(db))
			statsAdmin.GET("/orders", statsControllers.OrderStats(db))
		}
	}
}
