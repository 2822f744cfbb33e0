package productcontroller

import (
	"net/http"
	"strconv"
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/shopspring/decimal"
	"github.com/tealeg/xlsx"
	"gorm.io/gorm"

	"ecommerce-platform/models"
)

// Column layout matches the export: ID, Name, Description, Price, StockQty,
// Brand, CategoryID, IsActive.
func ImportProductsFromExcel(db *gorm.DB) gin.HandlerFunc {
	return func(c *gin.Context) {
		excelFileHeader, err := c.FormFile("file")
		if err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "Excel file is required"})
			return
		}

		file, err := excelFileHeader.Open()
		if err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to open Excel file"})
			return
		}
		defer file.Close()

		xlFile, err := xlsx.OpenReaderAt(file, excelFileHeader.Size)
		if err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to parse Excel file"})
			return
		}

		if len(xlFile.Sheets) == 0 || xlFile.Sheets[0].MaxRow < 2 {
			c.JSON(http.StatusBadRequest, gin.H{"error": "Excel file is empty or missing header row"})
			return
		}

		sheet := xlFile.Sheets[0]
		createdCount, updatedCount, skippedCount := 0, 0, 0

		for i := 1; i < sheet.MaxRow; i++ {
			row := sheet.Rows[i]

			get := func(index int) string {
				if index < len(row.Cells) {
					return strings.TrimSpace(row.Cells[index].String())
				}
				return ""
			}

			idStr := get(0)
			name := get(1)
			description := get(2)
			priceStr := get(3)
			stockStr := get(4)
			brand := get(5)
			categoryIDStr := get(6)
			activeStr := get(7)

			price, priceErr := decimal.NewFromString(priceStr)
			stock, stockErr := strconv.Atoi(stockStr)
			if name == "" || priceErr != nil || stockErr != nil || price.IsNegative() || stock < 0 {
				skippedCount++
				continue
			}

			// Unknown category ids are dropped, not treated as row errors.
			var categoryID *uint
			if categoryIDStr != "" {
				if cid, err := strconv.ParseUint(categoryIDStr, 10, 64); err == nil {
					var count int64
					db.Model(&models.Category{}).Where("id = ?", uint(cid)).Count(&count)
					if count > 0 {
						id := uint(cid)
						categoryID = &id
					}
				}
			}

			isActive := true
			if activeStr != "" {
				if parsed, err := strconv.ParseBool(activeStr); err == nil {
					isActive = parsed
				}
			}

			if idStr != "" {
				if id, err := strconv.Atoi(idStr); err == nil {
					var existing models.Product
					if err := db.First(&existing, "id = ?", id).Error; err == nil {
						existing.Name = name
						existing.Description = description
						existing.Price = price
						existing.StockQty = stock
						existing.Brand = brand
						existing.CategoryID = categoryID
						existing.IsActive = isActive

						if err := db.Save(&existing).Error; err == nil {
							updatedCount++
							continue
						}
						skippedCount++
						continue
					}
				}
			}

			product := models.Product{
				Name:        name,
				Description: description,
				Price:       price,
				StockQty:    stock,
				Brand:       brand,
				CategoryID:  categoryID,
				IsActive:    isActive,
			}
			if err := db.Create(&product).Error; err == nil {
				createdCount++
			} else {
				skippedCount++
			}
		}

		c.JSON(http.StatusOK, gin.H{
			"message":       "Import completed",
			"created_count": createdCount,
			"updated_count": updatedCount,
			"skipped_count": skippedCount,
		})
	}
}
