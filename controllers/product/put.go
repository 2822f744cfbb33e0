package productcontroller

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"

	"ecommerce-platform/models"
)

type ProductUpdateInput struct {
	Name        *string          `json:"name"`
	Description *string          `json:"description"`
	Price       *decimal.Decimal `json:"price"`
	StockQty    *int             `json:"stock_qty"`
	Brand       *string          `json:"brand"`
	CategoryID  *uint            `json:"category_id"`
	IsActive    *bool            `json:"is_active"`
}

// UpdateProduct applies a sparse field update. Price changes affect future
// checkouts only; existing order items keep their frozen prices.
func UpdateProduct(db *gorm.DB) gin.HandlerFunc {
	return func(c *gin.Context) {
		id := c.Param("id")

		var product models.Product
		if err := db.First(&product, "id = ?", id).Error; err != nil {
			c.JSON(http.StatusNotFound, gin.H{"error": models.ErrProductNotFound.Error()})
			return
		}

		var input ProductUpdateInput
		if err := c.ShouldBindJSON(&input); err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
			return
		}

		updates := make(map[string]interface{})
		if input.Name != nil {
			updates["name"] = *input.Name
		}
		if input.Description != nil {
			updates["description"] = *input.Description
		}
		if input.Price != nil {
			if input.Price.IsNegative() {
				c.JSON(http.StatusBadRequest, gin.H{"error": "price must not be negative"})
				return
			}
			updates["price"] = *input.Price
		}
		if input.StockQty != nil {
			if *input.StockQty < 0 {
				c.JSON(http.StatusBadRequest, gin.H{"error": "stock_qty must not be negative"})
				return
			}
			updates["stock_qty"] = *input.StockQty
		}
		if input.Brand != nil {
			updates["brand"] = *input.Brand
		}
		if input.CategoryID != nil {
			var count int64
			if err := db.Model(&models.Category{}).Where("id = ?", *input.CategoryID).Count(&count).Error; err != nil {
				c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to check category"})
				return
			}
			if count == 0 {
				c.JSON(http.StatusNotFound, gin.H{"error": models.ErrCategoryNotFound.Error()})
				return
			}
			updates["category_id"] = *input.CategoryID
		}
		if input.IsActive != nil {
			updates["is_active"] = *input.IsActive
		}

		if len(updates) > 0 {
			if err := db.Model(&product).Updates(updates).Error; err != nil {
				c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to update product"})
				return
			}
		}

		c.JSON(http.StatusOK, product)
	}
}
