package routes

import (
	"github.com/gin-gonic/gin"
	"gorm.io/gorm"

	cartControllers "ecommerce-platform/controllers/cart"
	orderControllers "ecommerce-platform/controllers/order"
	paymentControllers "ecommerce-platform/controllers/payment"
	reviewControllers "ecommerce-platform/controllers/review"
	shippingControllers "ecommerce-platform/controllers/shipping"
	userControllers "ecommerce-platform/controllers/user"
	"ecommerce-platform/middleware"
	"ecommerce-platform/utils"
)

// SetupUserRoutes registers all "/user/*" endpoints. Requires a valid token.
func SetupUserRoutes(r *gin.Engine, db *gorm.DB, mailer *utils.EmailService) {
	userGroup := r.Group("/user")
	userGroup.Use(middleware.RequireAuth(db))
	{
		// User profile
		userGroup.GET("", userControllers.GetUser(db))
		userGroup.PUT("", userControllers.UpdateUser(db))
		userGroup.DELETE("", userControllers.DeactivateSelf(db))

		// Shopping cart
		cartGroup := userGroup.Group("/cart")
		{
			cartGroup.GET("", cartControllers.GetCart(db))
			cartGroup.GET("/total", cartControllers.GetCartTotal(db))
			cartGroup.POST("/items", cartControllers.AddCartItem(db))
			cartGroup.PUT("/items/:product_id", cartControllers.UpdateCartItem(db))
			cartGroup.DELETE("/items/:product_id", cartControllers.DeleteCartItem(db))
			cartGroup.DELETE("", cartControllers.ClearUserCart(db))
		}

		// Checkout sits outside the orders group; a static sibling of the
		// :orderID routes would not register.
		userGroup.POST("/checkout", orderControllers.CheckoutHandler(db, mailer))

		// Orders
		orderGroup := userGroup.Group("/orders")
		{
			orderGroup.GET("", orderControllers.ListUserOrdersHandler(db))
			orderGroup.GET("/:orderID", orderControllers.GetOrderHandler(db))
			orderGroup.POST("/:orderID/cancel", orderControllers.CancelOrderHandler(db))

			orderGroup.POST("/:orderID/payment", paymentControllers.RecordPaymentHandler(db))
			orderGroup.GET("/:orderID/payment", paymentControllers.GetPaymentHandler(db))
			orderGroup.GET("/:orderID/shipment", shippingControllers.GetShipmentHandler(db))
		}

		// Reviews
		userGroup.POST("/reviews", reviewControllers.CreateReviewHandler(db))
	}
}
