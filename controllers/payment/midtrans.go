package paymentControllers

import (
	"errors"
	"net/http"
	"os"
	"strconv"
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/midtrans/midtrans-go"
	"github.com/midtrans/midtrans-go/snap"
	"github.com/wildanhniif/toco-api/models"
	"gorm.io/gorm"
)

// SnapCreator creates a gateway transaction. The production implementation
// wraps the Midtrans Snap client; tests inject a fake.
type SnapCreator interface {
	CreateTransaction(req *snap.Request) (*snap.Response, error)
}

type midtransSnap struct {
	client snap.Client
}

func (m *midtransSnap) CreateTransaction(req *snap.Request) (*snap.Response, error) {
	resp, err := m.client.CreateTransaction(req)
	if err != nil {
		return nil, err
	}
	return resp, nil
}

// NewSnapClient builds the Snap client from MIDTRANS_SERVER_KEY and
// MIDTRANS_ENV ("production" selects the live endpoint).
func NewSnapClient() SnapCreator {
	env := midtrans.Sandbox
	if os.Getenv("MIDTRANS_ENV") == "production" {
		env = midtrans.Production
	}
	var client snap.Client
	client.New(os.Getenv("MIDTRANS_SERVER_KEY"), env)
	return &midtransSnap{client: client}
}

// retryable gateway statuses: a new transaction needs a fresh gateway
// order_id because Midtrans rejects reuse.
func paymentRetryable(status string) bool {
	switch status {
	case "deny", "cancel", "expire", "failure":
		return true
	}
	return false
}

// POST /api/payments/:order_id
func CreatePayment(db *gorm.DB, gateway SnapCreator) gin.HandlerFunc {
	return func(c *gin.Context) {
		userIDVal, exists := c.Get("user_id")
		if !exists {
			c.JSON(http.StatusUnauthorized, gin.H{"message": "Unauthorized"})
			return
		}
		userID := userIDVal.(string)

		var order models.Order
		if err := db.Preload("Items").Where("id = ? AND user_id = ?", c.Param("order_id"), userID).
			First(&order).Error; err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				c.JSON(http.StatusNotFound, gin.H{"message": "Order not found"})
				return
			}
			c.JSON(http.StatusInternalServerError, gin.H{"message": "Server Error"})
			return
		}
		if order.PaymentStatus != models.PaymentStatusUnpaid {
			c.JSON(http.StatusBadRequest, gin.H{"message": "Order is not awaiting payment"})
			return
		}

		var payment models.Payment
		err := db.Where("order_id = ?", order.ID).First(&payment).Error
		if err == nil && payment.SnapToken != "" && !paymentRetryable(payment.PaymentStatus) {
			// Existing pending transaction, hand the same token back.
			c.JSON(http.StatusOK, gin.H{"token": payment.SnapToken, "redirect_url": payment.RedirectURL})
			return
		}
		if err != nil && !errors.Is(err, gorm.ErrRecordNotFound) {
			c.JSON(http.StatusInternalServerError, gin.H{"message": "Server Error"})
			return
		}

		gatewayOrderID := order.OrderCode
		if payment.ID != 0 {
			// Midtrans refuses a reused order_id, so retries get a suffix.
			gatewayOrderID = order.OrderCode + "-" + strings.Split(uuid.NewString(), "-")[0]
		}

		var user models.User
		db.First(&user, "id = ?", userID)

		items := make([]midtrans.ItemDetails, 0, len(order.Items)+1)
		for _, item := range order.Items {
			items = append(items, midtrans.ItemDetails{
				ID:    toItemID(item),
				Name:  truncate(item.ProductName, 50),
				Price: int64(item.UnitPrice),
				Qty:   int32(item.Quantity),
			})
		}
		if order.ShippingFee > 0 {
			items = append(items, midtrans.ItemDetails{
				ID: "SHIPPING", Name: "Ongkos kirim", Price: int64(order.ShippingFee), Qty: 1,
			})
		}
		if order.VoucherDiscount > 0 {
			items = append(items, midtrans.ItemDetails{
				ID: "DISCOUNT", Name: "Voucher", Price: -int64(order.VoucherDiscount), Qty: 1,
			})
		}

		req := &snap.Request{
			TransactionDetails: midtrans.TransactionDetails{
				OrderID:  gatewayOrderID,
				GrossAmt: int64(order.TotalAmount),
			},
			CustomerDetail: &midtrans.CustomerDetails{
				FName: user.Name,
				Email: user.Email,
				Phone: user.Phone,
			},
			Items: &items,
		}

		resp, err := gateway.CreateTransaction(req)
		if err != nil {
			c.JSON(http.StatusBadGateway, gin.H{"message": "Payment gateway error: " + err.Error()})
			return
		}

		payment.OrderID = order.ID
		payment.GatewayOrderID = gatewayOrderID
		payment.GrossAmount = order.TotalAmount
		payment.PaymentStatus = "pending"
		payment.SnapToken = resp.Token
		payment.RedirectURL = resp.RedirectURL
		if err := db.Save(&payment).Error; err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"message": "Failed to store payment"})
			return
		}

		c.JSON(http.StatusCreated, gin.H{"token": resp.Token, "redirect_url": resp.RedirectURL})
	}
}

func toItemID(item models.OrderItem) string {
	if item.SKUID != nil {
		return "SKU-" + strconv.Itoa(int(*item.SKUID))
	}
	return "P-" + strconv.Itoa(int(item.ProductID))
}

func truncate(s string, n int) string {
	if len(s) <= n {
		return s
	}
	return s[:n]
}
