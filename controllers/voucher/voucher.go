package voucherControllers

import (
	"errors"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/wildanhniif/toco-api/models"
	"gorm.io/gorm"
)

type CreateVoucherInput struct {
	Code           string             `json:"code" binding:"required"`
	Type           models.VoucherType `json:"type" binding:"required"`
	Value          float64            `json:"value" binding:"required,gt=0"`
	MaxDiscount    *float64           `json:"max_discount"`
	MinOrderAmount float64            `json:"min_order_amount"`
	Quota          int                `json:"quota"`
	PerUserLimit   int                `json:"per_user_limit"`
	StartAt        time.Time          `json:"start_at" binding:"required"`
	EndAt          time.Time          `json:"end_at" binding:"required"`
}

type UpdateVoucherInput struct {
	Value          *float64   `json:"value"`
	MaxDiscount    *float64   `json:"max_discount"`
	MinOrderAmount *float64   `json:"min_order_amount"`
	Quota          *int       `json:"quota"`
	PerUserLimit   *int       `json:"per_user_limit"`
	IsActive       *bool      `json:"is_active"`
	StartAt        *time.Time `json:"start_at"`
	EndAt          *time.Time `json:"end_at"`
}

func callerStore(db *gorm.DB, c *gin.Context) (*models.Store, bool) {
	userIDVal, exists := c.Get("user_id")
	if !exists {
		c.JSON(http.StatusUnauthorized, gin.H{"message": "Unauthorized"})
		return nil, false
	}
	var store models.Store
	if err := db.Where("user_id = ?", userIDVal.(string)).First(&store).Error; err != nil {
		c.JSON(http.StatusNotFound, gin.H{"message": "Store not found"})
		return nil, false
	}
	return &store, true
}

// GET /api/sellers/vouchers
func GetVouchers(db *gorm.DB) gin.HandlerFunc {
	return func(c *gin.Context) {
		store, ok := callerStore(db, c)
		if !ok {
			return
		}
		var vouchers []models.Voucher
		if err := db.Where("store_id = ?", store.ID).Order("created_at DESC").Find(&vouchers).Error; err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"message": "Server Error"})
			return
		}
		c.JSON(http.StatusOK, vouchers)
	}
}

// POST /api/sellers/vouchers
func CreateVoucher(db *gorm.DB) gin.HandlerFunc {
	return func(c *gin.Context) {
		store, ok := callerStore(db, c)
		if !ok {
			return
		}
		var input CreateVoucherInput
		if err := c.ShouldBindJSON(&input); err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"message": "Invalid input: " + err.Error()})
			return
		}
		if input.Type != models.VoucherPercent && input.Type != models.VoucherFixed {
			c.JSON(http.StatusBadRequest, gin.H{"message": "Voucher type must be percent or fixed"})
			return
		}
		if input.Type == models.VoucherPercent && input.Value > 100 {
			c.JSON(http.StatusBadRequest, gin.H{"message": "Percent value cannot exceed 100"})
			return
		}
		if !input.EndAt.After(input.StartAt) {
			c.JSON(http.StatusBadRequest, gin.H{"message": "end_at must be after start_at"})
			return
		}

		perUserLimit := input.PerUserLimit
		if perUserLimit == 0 {
			perUserLimit = 1
		}
		voucher := models.Voucher{
			StoreID:        store.ID,
			Code:           input.Code,
			Type:           input.Type,
			Value:          input.Value,
			MaxDiscount:    input.MaxDiscount,
			MinOrderAmount: input.MinOrderAmount,
			Quota:          input.Quota,
			PerUserLimit:   perUserLimit,
			IsActive:       true,
			StartAt:        input.StartAt,
			EndAt:          input.EndAt,
		}
		if err := db.Create(&voucher).Error; err != nil {
			if errors.Is(err, gorm.ErrDuplicatedKey) {
				c.JSON(http.StatusConflict, gin.H{"message": "Voucher code already exists"})
				return
			}
			c.JSON(http.StatusInternalServerError, gin.H{"message": "Failed to create voucher"})
			return
		}
		c.JSON(http.StatusCreated, voucher)
	}
}

// PUT /api/sellers/vouchers/:id
func UpdateVoucher(db *gorm.DB) gin.HandlerFunc {
	return func(c *gin.Context) {
		store, ok := callerStore(db, c)
		if !ok {
			return
		}
		var voucher models.Voucher
		if err := db.Where("id = ? AND store_id = ?", c.Param("id"), store.ID).First(&voucher).Error; err != nil {
			c.JSON(http.StatusNotFound, gin.H{"message": "Voucher not found"})
			return
		}
		var input UpdateVoucherInput
		if err := c.ShouldBindJSON(&input); err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"message": "Invalid input: " + err.Error()})
			return
		}

		if input.Value != nil {
			voucher.Value = *input.Value
		}
		if input.MaxDiscount != nil {
			voucher.MaxDiscount = input.MaxDiscount
		}
		if input.MinOrderAmount != nil {
			voucher.MinOrderAmount = *input.MinOrderAmount
		}
		if input.Quota != nil {
			voucher.Quota = *input.Quota
		}
		if input.PerUserLimit != nil {
			voucher.PerUserLimit = *input.PerUserLimit
		}
		if input.IsActive != nil {
			voucher.IsActive = *input.IsActive
		}
		if input.StartAt != nil {
			voucher.StartAt = *input.StartAt
		}
		if input.EndAt != nil {
			voucher.EndAt = *input.EndAt
		}
		if !voucher.EndAt.After(voucher.StartAt) {
			c.JSON(http.StatusBadRequest, gin.H{"message": "end_at must be after start_at"})
			return
		}

		if err := db.Save(&voucher).Error; err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"message": "Failed to update voucher"})
			return
		}
		c.JSON(http.StatusOK, voucher)
	}
}

// DELETE /api/sellers/vouchers/:id
func DeleteVoucher(db *gorm.DB) gin.HandlerFunc {
	return func(c *gin.Context) {
		store, ok := callerStore(db, c)
		if !ok {
			return
		}
		result := db.Where("id = ? AND store_id = ?", c.Param("id"), store.ID).Delete(&models.Voucher{})
		if result.Error != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"message": "Failed to delete voucher"})
			return
		}
		if result.RowsAffected == 0 {
			c.JSON(http.StatusNotFound, gin.H{"message": "Voucher not found"})
			return
		}
		c.JSON(http.StatusOK, gin.H{"message": "Voucher deleted"})
	}
}
