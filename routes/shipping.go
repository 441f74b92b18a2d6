package routes

import (
	"github.com/gin-gonic/gin"
	shippingControllers "github.com/wildanhniif/toco-api/controllers/shipping"
	"github.com/wildanhniif/toco-api/middleware"
	"gorm.io/gorm"
)

func SetupShippingRoutes(api *gin.RouterGroup, db *gorm.DB, deps Deps) {
	shipping := api.Group("/shipping")
	shipping.Use(middleware.ValidateToken)
	{
		shipping.GET("/couriers", shippingControllers.GetStoreCouriers(db))
		shipping.POST("/rates", shippingControllers.GetRates(db, deps.RateCache, deps.HTTPClient, deps.ShippingAPIURL))
	}
}
