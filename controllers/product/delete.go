package productcontroller

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"gorm.io/gorm"

	"ecommerce-platform/models"
)

// DeleteProduct removes a product from sale. A product referenced by past
// orders is deactivated rather than deleted so order history stays intact;
// an unreferenced product is removed outright together with its reviews.
// Cart lines pointing at the product are dropped either way.
func DeleteProduct(db *gorm.DB) gin.HandlerFunc {
	return func(c *gin.Context) {
		id := c.Param("id")
		if id == "" {
			c.JSON(http.StatusBadRequest, gin.H{"error": "Product ID is required"})
			return
		}

		var product models.Product
		if err := db.First(&product, "id = ?", id).Error; err != nil {
			c.JSON(http.StatusNotFound, gin.H{"error": models.ErrProductNotFound.Error()})
			return
		}

		var deactivated bool
		err := db.Transaction(func(tx *gorm.DB) error {
			if err := tx.Where("product_id = ?", product.ID).Delete(&models.CartItem{}).Error; err != nil {
				return err
			}

			var ordered int64
			if err := tx.Model(&models.OrderItem{}).Where("product_id = ?", product.ID).Count(&ordered).Error; err != nil {
				return err
			}
			if ordered > 0 {
				deactivated = true
				return tx.Model(&product).Update("is_active", false).Error
			}

			if err := tx.Where("product_id = ?", product.ID).Delete(&models.Review{}).Error; err != nil {
				return err
			}
			return tx.Delete(&product).Error
		})
		if err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to delete product"})
			return
		}

		if deactivated {
			c.JSON(http.StatusOK, gin.H{"message": "Product deactivated; referenced by existing orders"})
			return
		}
		c.JSON(http.StatusOK, gin.H{"message": "Product deleted successfully"})
	}
}
