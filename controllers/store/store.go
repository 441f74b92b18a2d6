package storeControllers

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/wildanhniif/toco-api/models"
	"gorm.io/gorm"
)

type CourierInput struct {
	Code     string `json:"code" binding:"required"`
	Services string `json:"services"`
}

// GET /api/stores/:slug — public storefront.
func GetStorefront(db *gorm.DB) gin.HandlerFunc {
	return func(c *gin.Context) {
		var store models.Store
		err := db.Preload("Couriers").Where("slug = ?", c.Param("slug")).First(&store).Error
		if errors.Is(err, gorm.ErrRecordNotFound) {
			c.JSON(http.StatusNotFound, gin.H{"message": "Store not found"})
			return
		}
		if err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"message": "Server Error"})
			return
		}

		var products []models.Product
		db.Where("store_id = ?", store.ID).Preload("Images").
			Order("created_at DESC").Limit(24).Find(&products)

		c.JSON(http.StatusOK, gin.H{"store": store, "products": products})
	}
}

// GET /api/sellers/store
func GetMyStore(db *gorm.DB) gin.HandlerFunc {
	return func(c *gin.Context) {
		userIDVal, exists := c.Get("user_id")
		if !exists {
			c.JSON(http.StatusUnauthorized, gin.H{"message": "Unauthorized"})
			return
		}
		var store models.Store
		if err := db.Preload("Couriers").Where("user_id = ?", userIDVal.(string)).First(&store).Error; err != nil {
			c.JSON(http.StatusNotFound, gin.H{"message": "Store not found"})
			return
		}
		c.JSON(http.StatusOK, store)
	}
}

// PUT /api/sellers/store/couriers — replaces the store's courier config.
func SetCouriers(db *gorm.DB) gin.HandlerFunc {
	return func(c *gin.Context) {
		userIDVal, exists := c.Get("user_id")
		if !exists {
			c.JSON(http.StatusUnauthorized, gin.H{"message": "Unauthorized"})
			return
		}
		var store models.Store
		if err := db.Where("user_id = ?", userIDVal.(string)).First(&store).Error; err != nil {
			c.JSON(http.StatusNotFound, gin.H{"message": "Store not found"})
			return
		}

		var input []CourierInput
		if err := c.ShouldBindJSON(&input); err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"message": "Invalid input: " + err.Error()})
			return
		}
		if len(input) == 0 {
			c.JSON(http.StatusBadRequest, gin.H{"message": "At least one courier is required"})
			return
		}

		err := db.Transaction(func(tx *gorm.DB) error {
			if err := tx.Where("store_id = ?", store.ID).Delete(&models.StoreCourier{}).Error; err != nil {
				return err
			}
			for _, courier := range input {
				if err := tx.Create(&models.StoreCourier{
					StoreID:  store.ID,
					Code:     courier.Code,
					Services: courier.Services,
				}).Error; err != nil {
					return err
				}
			}
			return nil
		})
		if err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"message": "Failed to save couriers"})
			return
		}
		c.JSON(http.StatusOK, gin.H{"message": "Couriers updated"})
	}
}
