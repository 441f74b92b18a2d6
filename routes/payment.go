package routes

import (
	"github.com/gin-gonic/gin"
	paymentControllers "github.com/wildanhniif/toco-api/controllers/payment"
	"github.com/wildanhniif/toco-api/middleware"
	"gorm.io/gorm"
)

func SetupPaymentRoutes(api *gin.RouterGroup, db *gorm.DB, deps Deps) {
	payments := api.Group("/payments")
	{
		// Webhook is authenticated by its signature, not a JWT.
		payments.POST("/notification", paymentControllers.HandleNotification(db))

		authed := payments.Group("")
		authed.Use(middleware.ValidateToken)
		{
			authed.POST("/:order_id", paymentControllers.CreatePayment(db, deps.Gateway))
		}
	}
}
