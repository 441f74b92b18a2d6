package cartControllers

import (
	"errors"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/wildanhniif/toco-api/models"
	"gorm.io/gorm"
)

type AttachVoucherInput struct {
	Code string `json:"code" binding:"required"`
}

// POST /api/cart/voucher
// Resolves the code against the selected subtotal of the voucher's store and
// stores the computed discount on the cart. The discount is not re-derived at
// checkout, only copied forward.
func AttachVoucher(db *gorm.DB) gin.HandlerFunc {
	return func(c *gin.Context) {
		userID, ok := currentUserID(c)
		if !ok {
			return
		}
		var input AttachVoucherInput
		if err := c.ShouldBindJSON(&input); err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"message": "Invalid input: " + err.Error()})
			return
		}

		var voucher models.Voucher
		if err := db.Where("code = ?", input.Code).First(&voucher).Error; err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				c.JSON(http.StatusNotFound, gin.H{"message": "Voucher not found"})
				return
			}
			c.JSON(http.StatusInternalServerError, gin.H{"message": "Failed to fetch voucher"})
			return
		}

		cart, err := GetOrCreateCart(db, userID)
		if err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"message": "Failed to fetch cart"})
			return
		}

		// Subtotal of selected items from the voucher's store only.
		var items []models.CartItem
		if err := db.Where("cart_id = ? AND store_id = ? AND selected = ?", cart.ID, voucher.StoreID, true).
			Find(&items).Error; err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"message": "Failed to fetch cart items"})
			return
		}
		var subtotal float64
		for _, item := range items {
			subtotal += item.UnitPrice * float64(item.Quantity)
		}
		if subtotal == 0 {
			c.JSON(http.StatusBadRequest, gin.H{"message": "No selected items from this voucher's store"})
			return
		}

		var usedByUser int64
		db.Model(&models.VoucherUsage{}).
			Where("voucher_id = ? AND user_id = ?", voucher.ID, userID).Count(&usedByUser)

		if err := voucher.Resolvable(subtotal, time.Now(), usedByUser); err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"message": err.Error()})
			return
		}

		discount := voucher.DiscountFor(subtotal)

		// At most one voucher per cart: replace whatever is attached.
		err = db.Transaction(func(tx *gorm.DB) error {
			if err := tx.Where("cart_id = ?", cart.ID).Delete(&models.CartVoucher{}).Error; err != nil {
				return err
			}
			return tx.Create(&models.CartVoucher{
				CartID:    cart.ID,
				VoucherID: voucher.ID,
				StoreID:   voucher.StoreID,
				Code:      voucher.Code,
				Discount:  discount,
			}).Error
		})
		if err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"message": "Failed to attach voucher"})
			return
		}
		c.JSON(http.StatusOK, gin.H{"message": "Voucher applied", "code": voucher.Code, "discount": discount})
	}
}

// DELETE /api/cart/voucher
func DetachVoucher(db *gorm.DB) gin.HandlerFunc {
	return func(c *gin.Context) {
		userID, ok := currentUserID(c)
		if !ok {
			return
		}
		var cart models.Cart
		if err := db.Where("user_id = ?", userID).First(&cart).Error; err != nil {
			c.JSON(http.StatusNotFound, gin.H{"message": "Cart not found"})
			return
		}
		if err := db.Where("cart_id = ?", cart.ID).Delete(&models.CartVoucher{}).Error; err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"message": "Failed to remove voucher"})
			return
		}
		c.JSON(http.StatusOK, gin.H{"message": "Voucher removed"})
	}
}
