package routes

import (
	"github.com/gin-gonic/gin"
	addressControllers "github.com/wildanhniif/toco-api/controllers/address"
	cartControllers "github.com/wildanhniif/toco-api/controllers/cart"
	checkoutControllers "github.com/wildanhniif/toco-api/controllers/checkout"
	orderControllers "github.com/wildanhniif/toco-api/controllers/order"
	"github.com/wildanhniif/toco-api/middleware"
	"gorm.io/gorm"
)

// SetupUserRoutes registers the JWT-protected buyer endpoints: cart,
// checkout, orders and the address book.
func SetupUserRoutes(api *gin.RouterGroup, db *gorm.DB) {
	cart := api.Group("/cart")
	cart.Use(middleware.ValidateToken)
	{
		cart.GET("", cartControllers.GetCart(db))
		cart.POST("/items", cartControllers.AddItem(db))
		cart.PATCH("/items/:id", cartControllers.UpdateItem(db))
		cart.DELETE("/items/:id", cartControllers.DeleteItem(db))
		cart.POST("/items/select", cartControllers.BulkSelect(db))
		cart.PUT("/address", cartControllers.SetAddress(db))
		cart.PUT("/shipping", cartControllers.SetShipping(db))
		cart.POST("/voucher", cartControllers.AttachVoucher(db))
		cart.DELETE("/voucher", cartControllers.DetachVoucher(db))
	}

	checkout := api.Group("/checkout")
	checkout.Use(middleware.ValidateToken)
	{
		checkout.POST("", checkoutControllers.CheckoutHandler(db))
	}

	orders := api.Group("/orders")
	{
		// websocket clients authenticate via query token on the frontend;
		// the upgrade endpoint itself stays open like the rest of the
		// read-only stream
		orders.GET("/ws", orderControllers.OrderWebSocketHandler)

		authed := orders.Group("")
		authed.Use(middleware.ValidateToken)
		{
			authed.GET("", orderControllers.GetUserOrders(db))
			authed.GET("/:code", orderControllers.GetOrder(db))
			authed.POST("/:code/cancel", orderControllers.CancelOrder(db))
		}
	}

	addresses := api.Group("/addresses")
	addresses.Use(middleware.ValidateToken)
	{
		addresses.GET("", addressControllers.GetAddresses(db))
		addresses.POST("", addressControllers.CreateAddressHandler(db))
		addresses.PUT("/:id", addressControllers.UpdateAddress(db))
		addresses.DELETE("/:id", addressControllers.DeleteAddressHandler(db))
	}
}
