package routes

import (
	"github.com/gin-gonic/gin"
	orderControllers "github.com/wildanhniif/toco-api/controllers/order"
	productControllers "github.com/wildanhniif/toco-api/controllers/product"
	storeControllers "github.com/wildanhniif/toco-api/controllers/store"
	voucherControllers "github.com/wildanhniif/toco-api/controllers/voucher"
	"github.com/wildanhniif/toco-api/middleware"
	"gorm.io/gorm"
)

// SetupSellerRoutes registers the seller console endpoints. All of them
// require a JWT with the seller role.
func SetupSellerRoutes(api *gin.RouterGroup, db *gorm.DB) {
	sellers := api.Group("/sellers")
	sellers.Use(middleware.ValidateToken, middleware.RequireSeller)
	{
		sellers.GET("/store", storeControllers.GetMyStore(db))
		sellers.PUT("/store/couriers", storeControllers.SetCouriers(db))

		sellers.POST("/products", productControllers.CreateProduct(db))
		sellers.PUT("/products/:id", productControllers.UpdateProduct(db))
		sellers.DELETE("/products/:id", productControllers.DeleteProduct(db))
		sellers.POST("/products/:id/skus", productControllers.AddSKU(db))
		sellers.PUT("/skus/:sku_id", productControllers.UpdateSKU(db))
		sellers.DELETE("/skus/:sku_id", productControllers.DeleteSKU(db))
		sellers.PUT("/products/:id/motor-spec", productControllers.UpsertMotorSpec(db))
		sellers.PUT("/products/:id/car-spec", productControllers.UpsertCarSpec(db))
		sellers.PUT("/products/:id/property-spec", productControllers.UpsertPropertySpec(db))

		sellers.GET("/vouchers", voucherControllers.GetVouchers(db))
		sellers.POST("/vouchers", voucherControllers.CreateVoucher(db))
		sellers.PUT("/vouchers/:id", voucherControllers.UpdateVoucher(db))
		sellers.DELETE("/vouchers/:id", voucherControllers.DeleteVoucher(db))

		sellers.GET("/orders", orderControllers.GetSellerOrders(db))
		sellers.GET("/orders/export", orderControllers.ExportSellerOrdersToExcel(db))
		sellers.PUT("/orders/:id/status", orderControllers.UpdateOrderStatus(db))
	}
}
