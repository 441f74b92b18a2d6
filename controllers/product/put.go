package productControllers

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/wildanhniif/toco-api/models"
	"gorm.io/gorm"
)

// UpdateProductInput uses pointers so only provided fields change.
type UpdateProductInput struct {
	Name        *string  `json:"name"`
	Description *string  `json:"description"`
	Category    *string  `json:"category"`
	Condition   *string  `json:"condition"`
	Price       *float64 `json:"price"`
	Weight      *float64 `json:"weight"`
	Stock       *int     `json:"stock"`
}

// PUT /api/sellers/products/:id
func UpdateProduct(db *gorm.DB) gin.HandlerFunc {
	return func(c *gin.Context) {
		store, ok := callerStore(db, c)
		if !ok {
			return
		}

		var product models.Product
		if err := db.Where("id = ? AND store_id = ?", c.Param("id"), store.ID).First(&product).Error; err != nil {
			c.JSON(http.StatusNotFound, gin.H{"message": "Product not found"})
			return
		}

		var input UpdateProductInput
		if err := c.ShouldBindJSON(&input); err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"message": "Invalid input: " + err.Error()})
			return
		}
		if input.Price != nil && *input.Price <= 0 {
			c.JSON(http.StatusBadRequest, gin.H{"message": "Price must be positive"})
			return
		}
		if input.Stock != nil && *input.Stock < 0 {
			c.JSON(http.StatusBadRequest, gin.H{"message": "Stock cannot be negative"})
			return
		}

		if input.Name != nil {
			product.Name = *input.Name
		}
		if input.Description != nil {
			product.Description = *input.Description
		}
		if input.Category != nil {
			product.Category = *input.Category
		}
		if input.Condition != nil {
			product.Condition = *input.Condition
		}
		if input.Price != nil {
			product.Price = *input.Price
		}
		if input.Weight != nil {
			product.Weight = *input.Weight
		}
		if input.Stock != nil {
			product.Stock = *input.Stock
		}

		if err := db.Save(&product).Error; err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"message": "Failed to update product"})
			return
		}
		c.JSON(http.StatusOK, product)
	}
}

// DELETE /api/sellers/products/:id — soft delete via gorm.DeletedAt.
func DeleteProduct(db *gorm.DB) gin.HandlerFunc {
	return func(c *gin.Context) {
		store, ok := callerStore(db, c)
		if !ok {
			return
		}
		result := db.Where("id = ? AND store_id = ?", c.Param("id"), store.ID).Delete(&models.Product{})
		if result.Error != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"message": "Failed to delete product"})
			return
		}
		if result.RowsAffected == 0 {
			c.JSON(http.StatusNotFound, gin.H{"message": "Product not found"})
			return
		}
		c.JSON(http.StatusOK, gin.H{"message": "Product deleted"})
	}
}
