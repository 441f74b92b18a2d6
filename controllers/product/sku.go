package productControllers

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/wildanhniif/toco-api/models"
	"gorm.io/gorm"
)

type UpdateSKUInput struct {
	Variant *string  `json:"variant"`
	Value   *string  `json:"value"`
	Price   *float64 `json:"price"`
	Stock   *int     `json:"stock"`
}

// POST /api/sellers/products/:id/skus
func AddSKU(db *gorm.DB) gin.HandlerFunc {
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
		var input SKUInput
		if err := c.ShouldBindJSON(&input); err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"message": "Invalid input: " + err.Error()})
			return
		}
		sku := models.ProductSKU{
			ProductID: product.ID,
			Variant:   input.Variant,
			Value:     input.Value,
			Price:     input.Price,
			Stock:     input.Stock,
		}
		if err := db.Create(&sku).Error; err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"message": "Failed to create SKU"})
			return
		}
		c.JSON(http.StatusCreated, sku)
	}
}

// PUT /api/sellers/skus/:sku_id
func UpdateSKU(db *gorm.DB) gin.HandlerFunc {
	return func(c *gin.Context) {
		store, ok := callerStore(db, c)
		if !ok {
			return
		}
		var sku models.ProductSKU
		err := db.Joins("JOIN products ON products.id = product_skus.product_id").
			Where("product_skus.id = ? AND products.store_id = ?", c.Param("sku_id"), store.ID).
			First(&sku).Error
		if err != nil {
			c.JSON(http.StatusNotFound, gin.H{"message": "SKU not found"})
			return
		}
		var input UpdateSKUInput
		if err := c.ShouldBindJSON(&input); err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"message": "Invalid input: " + err.Error()})
			return
		}
		if input.Variant != nil {
			sku.Variant = *input.Variant
		}
		if input.Value != nil {
			sku.Value = *input.Value
		}
		if input.Price != nil {
			sku.Price = *input.Price
		}
		if input.Stock != nil {
			sku.Stock = *input.Stock
		}
		if err := db.Save(&sku).Error; err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"message": "Failed to update SKU"})
			return
		}
		c.JSON(http.StatusOK, sku)
	}
}

// DELETE /api/sellers/skus/:sku_id
func DeleteSKU(db *gorm.DB) gin.HandlerFunc {
	return func(c *gin.Context) {
		store, ok := callerStore(db, c)
		if !ok {
			return
		}
		result := db.Where("id IN (?)",
			db.Model(&models.ProductSKU{}).Select("product_skus.id").
				Joins("JOIN products ON products.id = product_skus.product_id").
				Where("product_skus.id = ? AND products.store_id = ?", c.Param("sku_id"), store.ID),
		).Delete(&models.ProductSKU{})
		if result.Error != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"message": "Failed to delete SKU"})
			return
		}
		if result.RowsAffected == 0 {
			c.JSON(http.StatusNotFound, gin.H{"message": "SKU not found"})
			return
		}
		c.JSON(http.StatusOK, gin.H{"message": "SKU deleted"})
	}
}
