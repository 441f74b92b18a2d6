package routes

import (
	"net/http"

	"github.com/gin-gonic/gin"
	orderControllers "github.com/wildanhniif/toco-api/controllers/order"
	paymentControllers "github.com/wildanhniif/toco-api/controllers/payment"
	shippingControllers "github.com/wildanhniif/toco-api/controllers/shipping"
	"github.com/wildanhniif/toco-api/middleware"
	"gorm.io/gorm"
)

// Deps carries the external collaborators handlers need besides the DB.
type Deps struct {
	Gateway        paymentControllers.SnapCreator
	RateCache      shippingControllers.RateCache
	HTTPClient     *http.Client
	ShippingAPIURL string
}

// SetupRoutes is the single entry point that wires every route group.
func SetupRoutes(r *gin.Engine, db *gorm.DB, deps Deps) {
	api := r.Group("/api")

	SetupCatalogRoutes(api, db)
	SetupUserRoutes(api, db)
	SetupSellerRoutes(api, db)
	SetupPaymentRoutes(api, db, deps)
	SetupShippingRoutes(api, db, deps)

	admin := api.Group("/admin")
	admin.Use(middleware.ValidateAPIKey)
	{
		admin.GET("/orders", orderControllers.GetAllOrders(db))
	}
}
