package productControllers

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/wildanhniif/toco-api/models"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

type MotorSpecInput struct {
	Brand    string `json:"brand" binding:"required"`
	Model    string `json:"model" binding:"required"`
	Year     int    `json:"year" binding:"required"`
	Mileage  int    `json:"mileage"`
	EngineCC int    `json:"engine_cc"`
}

type CarSpecInput struct {
	Brand        string `json:"brand" binding:"required"`
	Model        string `json:"model" binding:"required"`
	Year         int    `json:"year" binding:"required"`
	Mileage      int    `json:"mileage"`
	Transmission string `json:"transmission"`
	Fuel         string `json:"fuel"`
	Seats        int    `json:"seats"`
}

type PropertySpecInput struct {
	Certificate  string  `json:"certificate"`
	LandArea     float64 `json:"land_area"`
	BuildingArea float64 `json:"building_area"`
	Bedrooms     int     `json:"bedrooms"`
	Bathrooms    int     `json:"bathrooms"`
	Floors       int     `json:"floors"`
}

// listingProduct loads the seller's product and checks it carries the
// expected listing type.
func listingProduct(db *gorm.DB, c *gin.Context, want models.ListingType) (*models.Product, bool) {
	store, ok := callerStore(db, c)
	if !ok {
		return nil, false
	}
	var product models.Product
	if err := db.Where("id = ? AND store_id = ?", c.Param("id"), store.ID).First(&product).Error; err != nil {
		c.JSON(http.StatusNotFound, gin.H{"message": "Product not found"})
		return nil, false
	}
	if product.ListingType != want {
		c.JSON(http.StatusBadRequest, gin.H{"message": "Product is not a " + string(want) + " listing"})
		return nil, false
	}
	return &product, true
}

// PUT /api/sellers/products/:id/motor-spec
func UpsertMotorSpec(db *gorm.DB) gin.HandlerFunc {
	return func(c *gin.Context) {
		product, ok := listingProduct(db, c, models.ListingMotor)
		if !ok {
			return
		}
		var input MotorSpecInput
		if err := c.ShouldBindJSON(&input); err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"message": "Invalid input: " + err.Error()})
			return
		}
		spec := models.MotorSpec{
			ProductID: product.ID,
			Brand:     input.Brand,
			Model:     input.Model,
			Year:      input.Year,
			Mileage:   input.Mileage,
			EngineCC:  input.EngineCC,
		}
		err := db.Clauses(clause.OnConflict{
			Columns:   []clause.Column{{Name: "product_id"}},
			DoUpdates: clause.AssignmentColumns([]string{"brand", "model", "year", "mileage", "engine_cc"}),
		}).Create(&spec).Error
		if err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"message": "Failed to save spec"})
			return
		}
		c.JSON(http.StatusOK, spec)
	}
}

// PUT /api/sellers/products/:id/car-spec
func UpsertCarSpec(db *gorm.DB) gin.HandlerFunc {
	return func(c *gin.Context) {
		product, ok := listingProduct(db, c, models.ListingCar)
		if !ok {
			return
		}
		var input CarSpecInput
		if err := c.ShouldBindJSON(&input); err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"message": "Invalid input: " + err.Error()})
			return
		}
		spec := models.CarSpec{
			ProductID:    product.ID,
			Brand:        input.Brand,
			Model:        input.Model,
			Year:         input.Year,
			Mileage:      input.Mileage,
			Transmission: input.Transmission,
			Fuel:         input.Fuel,
			Seats:        input.Seats,
		}
		err := db.Clauses(clause.OnConflict{
			Columns:   []clause.Column{{Name: "product_id"}},
			DoUpdates: clause.AssignmentColumns([]string{"brand", "model", "year", "mileage", "transmission", "fuel", "seats"}),
		}).Create(&spec).Error
		if err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"message": "Failed to save spec"})
			return
		}
		c.JSON(http.StatusOK, spec)
	}
}

// PUT /api/sellers/products/:id/property-spec
func UpsertPropertySpec(db *gorm.DB) gin.HandlerFunc {
	return func(c *gin.Context) {
		product, ok := listingProduct(db, c, models.ListingProperty)
		if !ok {
			return
		}
		var input PropertySpecInput
		if err := c.ShouldBindJSON(&input); err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"message": "Invalid input: " + err.Error()})
			return
		}
		spec := models.PropertySpec{
			ProductID:    product.ID,
			Certificate:  input.Certificate,
			LandArea:     input.LandArea,
			BuildingArea: input.BuildingArea,
			Bedrooms:     input.Bedrooms,
			Bathrooms:    input.Bathrooms,
			Floors:       input.Floors,
		}
		err := db.Clauses(clause.OnConflict{
			Columns:   []clause.Column{{Name: "product_id"}},
			DoUpdates: clause.AssignmentColumns([]string{"certificate", "land_area", "building_area", "bedrooms", "bathrooms", "floors"}),
		}).Create(&spec).Error
		if err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"message": "Failed to save spec"})
			return
		}
		c.JSON(http.StatusOK, spec)
	}
}
