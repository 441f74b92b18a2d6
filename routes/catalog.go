package routes

import (
	"github.com/gin-gonic/gin"
	productControllers "github.com/wildanhniif/toco-api/controllers/product"
	storeControllers "github.com/wildanhniif/toco-api/controllers/store"
	"gorm.io/gorm"
)

// SetupCatalogRoutes registers the public browse endpoints.
func SetupCatalogRoutes(api *gin.RouterGroup, db *gorm.DB) {
	api.GET("/products", productControllers.GetProducts(db))
	api.GET("/products/:id", productControllers.GetProductByID(db))
	api.GET("/stores/:slug", storeControllers.GetStorefront(db))
}
