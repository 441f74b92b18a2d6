package productControllers

import (
	"errors"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"
	"github.com/wildanhniif/toco-api/models"
	"gorm.io/gorm"
)

// GET /api/products
// Optional filters: store_id, category, listing_type, q, min_price,
// max_price; paginated with page/limit.
func GetProducts(db *gorm.DB) gin.HandlerFunc {
	return func(c *gin.Context) {
		query := db.Model(&models.Product{}).Preload("Images")

		if storeID := c.Query("store_id"); storeID != "" {
			query = query.Where("store_id = ?", storeID)
		}
		if category := c.Query("category"); category != "" {
			query = query.Where("category = ?", category)
		}
		if listingType := c.Query("listing_type"); listingType != "" {
			query = query.Where("listing_type = ?", listingType)
		}
		if q := c.Query("q"); q != "" {
			query = query.Where("name LIKE ?", "%"+q+"%")
		}
		if minPrice := c.Query("min_price"); minPrice != "" {
			if v, err := strconv.ParseFloat(minPrice, 64); err == nil {
				query = query.Where("price >= ?", v)
			}
		}
		if maxPrice := c.Query("max_price"); maxPrice != "" {
			if v, err := strconv.ParseFloat(maxPrice, 64); err == nil {
				query = query.Where("price <= ?", v)
			}
		}

		page, _ := strconv.Atoi(c.DefaultQuery("page", "1"))
		if page < 1 {
			page = 1
		}
		limit, _ := strconv.Atoi(c.DefaultQuery("limit", "20"))
		if limit < 1 || limit > 100 {
			limit = 20
		}

		var total int64
		query.Count(&total)

		var products []models.Product
		if err := query.Limit(limit).Offset((page - 1) * limit).
			Order("created_at DESC").Find(&products).Error; err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"message": "Server Error"})
			return
		}

		c.JSON(http.StatusOK, gin.H{
			"products": products,
			"total":    total,
			"page":     page,
			"limit":    limit,
		})
	}
}

// GET /api/products/:id — includes SKUs, images, and the classified spec
// when the product is a listing.
func GetProductByID(db *gorm.DB) gin.HandlerFunc {
	return func(c *gin.Context) {
		var product models.Product
		err := db.Preload("SKUs").Preload("Images").Preload("Store").
			First(&product, c.Param("id")).Error
		if errors.Is(err, gorm.ErrRecordNotFound) {
			c.JSON(http.StatusNotFound, gin.H{"message": "Product not found"})
			return
		}
		if err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"message": "Server Error"})
			return
		}

		resp := gin.H{"product": product}
		switch product.ListingType {
		case models.ListingMotor:
			var spec models.MotorSpec
			if db.Where("product_id = ?", product.ID).First(&spec).Error == nil {
				resp["motor_spec"] = spec
			}
		case models.ListingCar:
			var spec models.CarSpec
			if db.Where("product_id = ?", product.ID).First(&spec).Error == nil {
				resp["car_spec"] = spec
			}
		case models.ListingProperty:
			var spec models.PropertySpec
			if db.Where("product_id = ?", product.ID).First(&spec).Error == nil {
				resp["property_spec"] = spec
			}
		}
		c.JSON(http.StatusOK, resp)
	}
}
