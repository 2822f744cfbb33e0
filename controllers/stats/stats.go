package statsControllers

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"gorm.io/gorm"

	"ecommerce-platform/models"
)

const lowStockThreshold = 10

// GET /admin/stats/products
func ProductStats(db *gorm.DB) gin.HandlerFunc {
	return func(c *gin.Context) {
		var total, active, lowStock int64

		if err := db.Model(&models.Product{}).Count(&total).Error; err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to compute product stats"})
			return
		}
		if err := db.Model(&models.Product{}).Where("is_active = ?", true).Count(&active).Error; err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to compute product stats"})
			return
		}
		if err := db.Model(&models.Product{}).Where("stock_qty < ?", lowStockThreshold).Count(&lowStock).Error; err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to compute product stats"})
			return
		}

		c.JSON(http.StatusOK, gin.H{
			"total_products":     total,
			"active_products":    active,
			"low_stock_products": lowStock,
		})
	}
}

// GET /admin/stats/users
func UserStats(db *gorm.DB) gin.HandlerFunc {
	return func(c *gin.Context) {
		var total, active int64

		if err := db.Model(&models.User{}).Count(&total).Error; err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to compute user stats"})
			return
		}
		if err := db.Model(&models.User{}).Where("is_active = ?", true).Count(&active).Error; err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to compute user stats"})
			return
		}

		c.JSON(http.StatusOK, gin.H{
			"total_users":  total,
			"active_users": active,
		})
	}
}

// GET /admin/stats/orders
func OrderStats(db *gorm.DB) gin.HandlerFunc {
	return func(c *gin.Context) {
		var total, pending, delivered int64

		if err := db.Model(&models.Order{}).Count(&total).Error; err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to compute order stats"})
			return
		}
		if err := db.Model(&models.Order{}).Where("status = ?", models.OrderStatusPending).Count(&pending).Error; err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to compute order stats"})
			return
		}
		if err := db.Model(&models.Order{}).Where("status = ?", models.OrderStatusDelivered).Count(&delivered).Error; err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to compute order stats"})
			return
		}

		c.JSON(http.StatusOK, gin.H{
			"total_orders":     total,
			"pending_orders":   pending,
			"delivered_orders": delivered,
		})
	}
}
