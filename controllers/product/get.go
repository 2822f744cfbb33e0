package productcontroller

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"gorm.io/gorm"

	"ecommerce-platform/models"
)

// GetProductByID returns a single active product with its category.
func GetProductByID(db *gorm.DB) gin.HandlerFunc {
	return func(c *gin.Context) {
		id := c.Param("id")

		var product models.Product
		if err := db.Preload("Category").First(&product, "id = ?", id).Error; err != nil {
			c.JSON(http.StatusNotFound, gin.H{"error": models.ErrProductNotFound.Error()})
			return
		}
		if !product.IsActive {
			c.JSON(http.StatusNotFound, gin.H{"error": models.ErrProductNotFound.Error()})
			return
		}

		c.JSON(http.StatusOK, product)
	}
}
