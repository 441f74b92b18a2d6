package productControllers

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/wildanhniif/toco-api/models"
	"gorm.io/gorm"
)

type CreateProductInput struct {
	Name        string             `json:"name" binding:"required"`
	Description string             `json:"description"`
	Category    string             `json:"category"`
	Condition   string             `json:"condition"`
	Price       float64            `json:"price" binding:"required,gt=0"`
	Weight      float64            `json:"weight" binding:"required,gt=0"`
	Stock       int                `json:"stock"`
	ListingType models.ListingType `json:"listing_type"`
	Images      []string           `json:"images"`
	SKUs        []SKUInput         `json:"skus"`
}

type SKUInput struct {
	Variant string  `json:"variant" binding:"required"`
	Value   string  `json:"value" binding:"required"`
	Price   float64 `json:"price"`
	Stock   int     `json:"stock"`
}

// callerStore resolves the authenticated seller's store.
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

func validListingType(t models.ListingType) bool {
	switch t {
	case models.ListingNone, models.ListingMotor, models.ListingCar, models.ListingProperty:
		return true
	}
	return false
}

// POST /api/sellers/products
func CreateProduct(db *gorm.DB) gin.HandlerFunc {
	return func(c *gin.Context) {
		store, ok := callerStore(db, c)
		if !ok {
			return
		}
		var input CreateProductInput
		if err := c.ShouldBindJSON(&input); err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"message": "Invalid input: " + err.Error()})
			return
		}
		if !validListingType(input.ListingType) {
			c.JSON(http.StatusBadRequest, gin.H{"message": "Invalid listing type"})
			return
		}
		condition := input.Condition
		if condition == "" {
			condition = "new"
		}

		product := models.Product{
			StoreID:     store.ID,
			Name:        input.Name,
			Description: input.Description,
			Category:    input.Category,
			Condition:   condition,
			Price:       input.Price,
			Weight:      input.Weight,
			Stock:       input.Stock,
			ListingType: input.ListingType,
		}
		for i, url := range input.Images {
			product.Images = append(product.Images, models.ProductImage{URL: url, Position: i})
		}
		for _, sku := range input.SKUs {
			product.SKUs = append(product.SKUs, models.ProductSKU{
				Variant: sku.Variant,
				Value:   sku.Value,
				Price:   sku.Price,
				Stock:   sku.Stock,
			})
		}

		if err := db.Create(&product).Error; err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"message": "Failed to create product"})
			return
		}
		c.JSON(http.StatusCreated, product)
	}
}
