package addressControllers

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/wildanhniif/toco-api/models"
	"gorm.io/gorm"
)

var errLastAddress = errors.New("cannot delete the only address")

type AddressInput struct {
	Label      string `json:"label"`
	Recipient  string `json:"recipient" binding:"required"`
	Phone      string `json:"phone" binding:"required"`
	Province   string `json:"province"`
	City       string `json:"city"`
	CityID     string `json:"city_id"`
	District   string `json:"district"`
	PostalCode string `json:"postal_code"`
	Street     string `json:"street" binding:"required"`
	IsPrimary  bool   `json:"is_primary"`
}

func currentUserID(c *gin.Context) (string, bool) {
	userIDVal, exists := c.Get("user_id")
	if !exists {
		c.JSON(http.StatusUnauthorized, gin.H{"message": "Unauthorized"})
		return "", false
	}
	return userIDVal.(string), true
}

// GET /api/addresses
func GetAddresses(db *gorm.DB) gin.HandlerFunc {
	return func(c *gin.Context) {
		userID, ok := currentUserID(c)
		if !ok {
			return
		}
		var addresses []models.Address
		if err := db.Where("user_id = ?", userID).
			Order("is_primary DESC, created_at DESC").Find(&addresses).Error; err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"message": "Server Error"})
			return
		}
		c.JSON(http.StatusOK, addresses)
	}
}

// CreateAddress inserts an address; the user's first address always becomes
// primary, and marking a later one primary demotes the old primary in the
// same transaction.
func CreateAddress(db *gorm.DB, userID string, input AddressInput) (*models.Address, error) {
	address := models.Address{
		UserID:     userID,
		Label:      input.Label,
		Recipient:  input.Recipient,
		Phone:      input.Phone,
		Province:   input.Province,
		City:       input.City,
		CityID:     input.CityID,
		District:   input.District,
		PostalCode: input.PostalCode,
		Street:     input.Street,
		IsPrimary:  input.IsPrimary,
	}
	err := db.Transaction(func(tx *gorm.DB) error {
		var count int64
		if err := tx.Model(&models.Address{}).Where("user_id = ?", userID).Count(&count).Error; err != nil {
			return err
		}
		if count == 0 {
			address.IsPrimary = true
		} else if address.IsPrimary {
			if err := tx.Model(&models.Address{}).Where("user_id = ?", userID).
				Update("is_primary", false).Error; err != nil {
				return err
			}
		}
		return tx.Create(&address).Error
	})
	if err != nil {
		return nil, err
	}
	return &address, nil
}

// POST /api/addresses
func CreateAddressHandler(db *gorm.DB) gin.HandlerFunc {
	return func(c *gin.Context) {
		userID, ok := currentUserID(c)
		if !ok {
			return
		}
		var input AddressInput
		if err := c.ShouldBindJSON(&input); err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"message": "Invalid input: " + err.Error()})
			return
		}
		address, err := CreateAddress(db, userID, input)
		if err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"message": "Failed to create address"})
			return
		}
		c.JSON(http.StatusCreated, address)
	}
}

// PUT /api/addresses/:id
func UpdateAddress(db *gorm.DB) gin.HandlerFunc {
	return func(c *gin.Context) {
		userID, ok := currentUserID(c)
		if !ok {
			return
		}
		var address models.Address
		if err := db.Where("id = ? AND user_id = ?", c.Param("id"), userID).First(&address).Error; err != nil {
			c.JSON(http.StatusNotFound, gin.H{"message": "Address not found"})
			return
		}
		var input AddressInput
		if err := c.ShouldBindJSON(&input); err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"message": "Invalid input: " + err.Error()})
			return
		}

		wasPrimary := address.IsPrimary
		address.Label = input.Label
		address.Recipient = input.Recipient
		address.Phone = input.Phone
		address.Province = input.Province
		address.City = input.City
		address.CityID = input.CityID
		address.District = input.District
		address.PostalCode = input.PostalCode
		address.Street = input.Street

		err := db.Transaction(func(tx *gorm.DB) error {
			if input.IsPrimary && !wasPrimary {
				if err := tx.Model(&models.Address{}).Where("user_id = ?", userID).
					Update("is_primary", false).Error; err != nil {
					return err
				}
				address.IsPrimary = true
			}
			// Demoting the only primary directly is not allowed; the set
			// must keep one primary while any address exists.
			return tx.Save(&address).Error
		})
		if err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"message": "Failed to update address"})
			return
		}
		c.JSON(http.StatusOK, address)
	}
}

// DeleteAddress removes an address; deleting the primary promotes the most
// recently created remaining address so the set keeps a primary. The last
// remaining address cannot be deleted.
func DeleteAddress(db *gorm.DB, userID string, addressID string) (int, string) {
	var address models.Address
	if err := db.Where("id = ? AND user_id = ?", addressID, userID).First(&address).Error; err != nil {
		return http.StatusNotFound, "Address not found"
	}

	err := db.Transaction(func(tx *gorm.DB) error {
		var count int64
		if err := tx.Model(&models.Address{}).Where("user_id = ?", userID).Count(&count).Error; err != nil {
			return err
		}
		if count == 1 {
			return errLastAddress
		}
		if err := tx.Delete(&address).Error; err != nil {
			return err
		}
		if address.IsPrimary {
			var next models.Address
			err := tx.Where("user_id = ?", userID).Order("created_at DESC").First(&next).Error
			if err == nil {
				return tx.Model(&next).Update("is_primary", true).Error
			}
		}
		return nil
	})
	if errors.Is(err, errLastAddress) {
		return http.StatusBadRequest, "Cannot delete the only address"
	}
	if err != nil {
		return http.StatusInternalServerError, "Failed to delete address"
	}
	return http.StatusOK, ""
}

// DELETE /api/addresses/:id
func DeleteAddressHandler(db *gorm.DB) gin.HandlerFunc {
	return func(c *gin.Context) {
		userID, ok := currentUserID(c)
		if !ok {
			return
		}
		status, msg := DeleteAddress(db, userID, c.Param("id"))
		if msg != "" {
			c.JSON(status, gin.H{"message": msg})
			return
		}
		c.JSON(http.StatusOK, gin.H{"message": "Address deleted"})
	}
}
