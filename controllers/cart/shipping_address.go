package cartControllers

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/wildanhniif/toco-api/models"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

type SetAddressInput struct {
	AddressID uint `json:"address_id" binding:"required"`
}

// Fee is a pointer so a free-shipping quote of 0 still binds.
type SetShippingInput struct {
	StoreID     uint     `json:"store_id" binding:"required"`
	CourierCode string   `json:"courier_code" binding:"required"`
	Service     string   `json:"service" binding:"required"`
	Fee         *float64 `json:"fee" binding:"required"`
	ETD         string   `json:"etd"`
}

// PUT /api/cart/address
func SetAddress(db *gorm.DB) gin.HandlerFunc {
	return func(c *gin.Context) {
		userID, ok := currentUserID(c)
		if !ok {
			return
		}
		var input SetAddressInput
		if err := c.ShouldBindJSON(&input); err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"message": "Invalid input: " + err.Error()})
			return
		}

		// The address must belong to the caller.
		var address models.Address
		if err := db.Where("id = ? AND user_id = ?", input.AddressID, userID).First(&address).Error; err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				c.JSON(http.StatusNotFound, gin.H{"message": "Address not found"})
				return
			}
			c.JSON(http.StatusInternalServerError, gin.H{"message": "Failed to validate address"})
			return
		}

		cart, err := GetOrCreateCart(db, userID)
		if err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"message": "Failed to fetch cart"})
			return
		}
		if err := db.Model(cart).Update("selected_address_id", address.ID).Error; err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"message": "Failed to set address"})
			return
		}
		c.JSON(http.StatusOK, gin.H{"message": "Delivery address set", "address": address})
	}
}

// PUT /api/cart/shipping
// Upserts the (cart, store) shipping selection; mutable until checkout.
func SetShipping(db *gorm.DB) gin.HandlerFunc {
	return func(c *gin.Context) {
		userID, ok := currentUserID(c)
		if !ok {
			return
		}
		var input SetShippingInput
		if err := c.ShouldBindJSON(&input); err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"message": "Invalid input: " + err.Error()})
			return
		}

		cart, err := GetOrCreateCart(db, userID)
		if err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"message": "Failed to fetch cart"})
			return
		}

		var count int64
		db.Model(&models.CartItem{}).Where("cart_id = ? AND store_id = ?", cart.ID, input.StoreID).Count(&count)
		if count == 0 {
			c.JSON(http.StatusBadRequest, gin.H{"message": "No cart items from this store"})
			return
		}

		selection := models.CartShippingSelection{
			CartID:      cart.ID,
			StoreID:     input.StoreID,
			CourierCode: input.CourierCode,
			Service:     input.Service,
			Fee:         *input.Fee,
			ETD:         input.ETD,
		}
		err = db.Clauses(clause.OnConflict{
			Columns:   []clause.Column{{Name: "cart_id"}, {Name: "store_id"}},
			DoUpdates: clause.AssignmentColumns([]string{"courier_code", "service", "fee", "etd"}),
		}).Create(&selection).Error
		if err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"message": "Failed to save shipping selection"})
			return
		}
		c.JSON(http.StatusOK, gin.H{"message": "Shipping selection saved", "selection": selection})
	}
}
