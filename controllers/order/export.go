package orderControllers

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/tealeg/xlsx"
	"github.com/wildanhniif/toco-api/models"
	"gorm.io/gorm"
)

// GET /api/sellers/orders/export
func ExportSellerOrdersToExcel(db *gorm.DB) gin.HandlerFunc {
	return func(c *gin.Context) {
		store, ok := sellerStore(db, c)
		if !ok {
			return
		}

		var orders []models.Order
		if err := db.Where("store_id = ?", store.ID).
			Preload("Items").Preload("Shipping").
			Order("created_at DESC").Find(&orders).Error; err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"message": "Failed to fetch orders"})
			return
		}

		file := xlsx.NewFile()
		sheet, err := file.AddSheet("Orders")
		if err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"message": "Failed to create Excel sheet"})
			return
		}

		headers := []string{
			"OrderCode", "Status", "PaymentStatus", "Recipient", "City",
			"Courier", "Items", "Subtotal", "ShippingFee", "Discount",
			"Total", "CreatedAt",
		}
		headerRow := sheet.AddRow()
		for _, h := range headers {
			headerRow.AddCell().SetValue(h)
		}

		for _, o := range orders {
			row := sheet.AddRow()
			row.AddCell().SetValue(o.OrderCode)
			row.AddCell().SetValue(string(o.Status))
			row.AddCell().SetValue(string(o.PaymentStatus))
			row.AddCell().SetValue(o.Shipping.Recipient)
			row.AddCell().SetValue(o.Shipping.City)
			row.AddCell().SetValue(o.Shipping.CourierCode + " " + o.Shipping.Service)
			row.AddCell().SetValue(len(o.Items))
			row.AddCell().SetValue(o.Subtotal)
			row.AddCell().SetValue(o.ShippingFee)
			row.AddCell().SetValue(o.VoucherDiscount)
			row.AddCell().SetValue(o.TotalAmount)
			row.AddCell().SetValue(o.CreatedAt.Format("2006-01-02 15:04:05"))
		}

		c.Header("Content-Disposition", "attachment; filename=orders.xlsx")
		c.Header("Content-Type", "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet")
		c.Header("Content-Transfer-Encoding", "binary")
		c.Header("Expires", "0")

		if err := file.Write(c.Writer); err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"message": "Failed to write Excel file"})
			return
		}
	}
}
