package paymentControllers

import (
	"crypto/sha512"
	"encoding/hex"
	"errors"
	"log"
	"net/http"
	"os"
	"time"

	"github.com/gin-gonic/gin"
	orderControllers "github.com/wildanhniif/toco-api/controllers/order"
	"github.com/wildanhniif/toco-api/models"
	"gorm.io/gorm"
)

// NotificationPayload is the gateway's webhook body. Amounts arrive as
// strings ("105000.00").
type NotificationPayload struct {
	OrderID           string `json:"order_id" binding:"required"`
	StatusCode        string `json:"status_code" binding:"required"`
	GrossAmount       string `json:"gross_amount" binding:"required"`
	SignatureKey      string `json:"signature_key" binding:"required"`
	TransactionStatus string `json:"transaction_status" binding:"required"`
	TransactionID     string `json:"transaction_id"`
	PaymentType       string `json:"payment_type"`
	FraudStatus       string `json:"fraud_status"`
}

// ValidSignature recomputes sha512(order_id + status_code + gross_amount +
// server_key) and compares it to the supplied signature. This is the
// documented Midtrans notification digest.
func ValidSignature(orderID, statusCode, grossAmount, serverKey, signature string) bool {
	sum := sha512.Sum512([]byte(orderID + statusCode + grossAmount + serverKey))
	return hex.EncodeToString(sum[:]) == signature
}

// MapGatewayStatus translates the gateway's (transaction_status,
// fraud_status) vocabulary into the internal order and payment enums.
func MapGatewayStatus(transactionStatus, fraudStatus string) (models.OrderStatus, models.PaymentStatus) {
	switch transactionStatus {
	case "capture":
		if fraudStatus == "accept" {
			return models.OrderStatusNew, models.PaymentStatusPaid
		}
		// challenge stays pending until the gateway settles it
		return models.OrderStatusPendingUnpaid, models.PaymentStatusUnpaid
	case "settlement":
		return models.OrderStatusNew, models.PaymentStatusPaid
	case "pending":
		return models.OrderStatusPendingUnpaid, models.PaymentStatusUnpaid
	case "deny":
		return models.OrderStatusPendingUnpaid, models.PaymentStatusFailed
	case "cancel", "expire":
		return models.OrderStatusCancelled, models.PaymentStatusFailed
	case "refund", "partial_refund":
		return models.OrderStatusCancelled, models.PaymentStatusRefunded
	}
	return models.OrderStatusPendingUnpaid, models.PaymentStatusUnpaid
}

// POST /api/payments/notification
func HandleNotification(db *gorm.DB) gin.HandlerFunc {
	return func(c *gin.Context) {
		var payload NotificationPayload
		if err := c.ShouldBindJSON(&payload); err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"message": "Invalid notification body"})
			return
		}

		serverKey := os.Getenv("MIDTRANS_SERVER_KEY")
		if !ValidSignature(payload.OrderID, payload.StatusCode, payload.GrossAmount, serverKey, payload.SignatureKey) {
			log.Printf("rejected payment notification with bad signature for %s", payload.OrderID)
			c.JSON(http.StatusForbidden, gin.H{"message": "Invalid signature"})
			return
		}

		var payment models.Payment
		if err := db.Where("gateway_order_id = ?", payload.OrderID).First(&payment).Error; err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				c.JSON(http.StatusNotFound, gin.H{"message": "Payment not found"})
				return
			}
			c.JSON(http.StatusInternalServerError, gin.H{"message": "Server Error"})
			return
		}

		var order models.Order
		if err := db.First(&order, payment.OrderID).Error; err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"message": "Server Error"})
			return
		}

		orderStatus, paymentStatus := MapGatewayStatus(payload.TransactionStatus, payload.FraudStatus)
		fromStatus := order.Status

		err := db.Transaction(func(tx *gorm.DB) error {
			if err := tx.Model(&payment).Updates(map[string]interface{}{
				"transaction_id": payload.TransactionID,
				"payment_type":   payload.PaymentType,
				"payment_status": payload.TransactionStatus,
			}).Error; err != nil {
				return err
			}
			if err := tx.Model(&order).Updates(map[string]interface{}{
				"status":         orderStatus,
				"payment_status": paymentStatus,
			}).Error; err != nil {
				return err
			}
			if fromStatus != orderStatus {
				return tx.Create(&models.OrderStatusLog{
					OrderID:   order.ID,
					From:      fromStatus,
					To:        orderStatus,
					Note:      "payment notification: " + payload.TransactionStatus,
					CreatedAt: time.Now(),
				}).Error
			}
			return nil
		})
		if err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"message": "Server Error"})
			return
		}

		order.Status = orderStatus
		order.PaymentStatus = paymentStatus
		orderControllers.BroadcastOrderUpdate(&order)

		log.Printf("payment notification %s -> order %s status=%s payment=%s",
			payload.TransactionStatus, order.OrderCode, orderStatus, paymentStatus)
		c.JSON(http.StatusOK, gin.H{"message": "OK"})
	}
}
