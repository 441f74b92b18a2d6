package paymentControllers

import (
	"bytes"
	"crypto/sha512"
	"encoding/hex"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strconv"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/midtrans/midtrans-go/snap"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/wildanhniif/toco-api/models"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

const testServerKey = "SB-Mid-server-test"

func openTestDB(t *testing.T) *gorm.DB {
	t.Helper()
	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{
		TranslateError: true,
		Logger:         logger.Default.LogMode(logger.Silent),
	})
	require.NoError(t, err)
	require.NoError(t, db.AutoMigrate(
		&models.User{}, &models.Store{},
		&models.Order{}, &models.OrderItem{}, &models.OrderStatusLog{},
		&models.Payment{},
	))
	return db
}

func sign(orderID, statusCode, grossAmount string) string {
	sum := sha512.Sum512([]byte(orderID + statusCode + grossAmount + testServerKey))
	return hex.EncodeToString(sum[:])
}

func TestValidSignature(t *testing.T) {
	sig := sign("TC260829-ab12", "200", "105000.00")
	assert.True(t, ValidSignature("TC260829-ab12", "200", "105000.00", testServerKey, sig))
	assert.False(t, ValidSignature("TC260829-ab12", "200", "105000.00", testServerKey, "tampered"))
	assert.False(t, ValidSignature("TC260829-ab12", "200", "999999.00", testServerKey, sig))
	assert.False(t, ValidSignature("TC260829-ab12", "200", "105000.00", "other-key", sig))
}

func TestMapGatewayStatus(t *testing.T) {
	tests := []struct {
		transaction string
		fraud       string
		wantOrder   models.OrderStatus
		wantPayment models.PaymentStatus
	}{
		{"capture", "accept", models.OrderStatusNew, models.PaymentStatusPaid},
		{"capture", "challenge", models.OrderStatusPendingUnpaid, models.PaymentStatusUnpaid},
		{"settlement", "", models.OrderStatusNew, models.PaymentStatusPaid},
		{"pending", "", models.OrderStatusPendingUnpaid, models.PaymentStatusUnpaid},
		{"deny", "", models.OrderStatusPendingUnpaid, models.PaymentStatusFailed},
		{"cancel", "", models.OrderStatusCancelled, models.PaymentStatusFailed},
		{"expire", "", models.OrderStatusCancelled, models.PaymentStatusFailed},
		{"refund", "", models.OrderStatusCancelled, models.PaymentStatusRefunded},
		{"partial_refund", "", models.OrderStatusCancelled, models.PaymentStatusRefunded},
		{"somethingelse", "", models.OrderStatusPendingUnpaid, models.PaymentStatusUnpaid},
	}
	for _, tt := range tests {
		t.Run(tt.transaction+"/"+tt.fraud, func(t *testing.T) {
			order, payment := MapGatewayStatus(tt.transaction, tt.fraud)
			assert.Equal(t, tt.wantOrder, order)
			assert.Equal(t, tt.wantPayment, payment)
		})
	}
}

func seedOrderWithPayment(t *testing.T, db *gorm.DB) (models.Order, models.Payment) {
	t.Helper()
	order := models.Order{
		OrderCode: "TC260829-ab12", UserID: "buyer-1", StoreID: 1,
		Subtotal: 100000, ShippingFee: 15000, VoucherDiscount: 10000, TotalAmount: 105000,
		Status: models.OrderStatusPendingUnpaid, PaymentStatus: models.PaymentStatusUnpaid,
	}
	require.NoError(t, db.Create(&order).Error)
	payment := models.Payment{
		OrderID: order.ID, GatewayOrderID: order.OrderCode,
		GrossAmount: order.TotalAmount, PaymentStatus: "pending", SnapToken: "tok-1",
	}
	require.NoError(t, db.Create(&payment).Error)
	return order, payment
}

func postNotification(t *testing.T, db *gorm.DB, body map[string]string) *httptest.ResponseRecorder {
	t.Helper()
	gin.SetMode(gin.TestMode)
	r := gin.New()
	r.POST("/api/payments/notification", HandleNotification(db))

	payload, err := json.Marshal(body)
	require.NoError(t, err)
	req := httptest.NewRequest(http.MethodPost, "/api/payments/notification", bytes.NewReader(payload))
	req.Header.Set("Content-Type", "application/json")
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)
	return w
}

func TestNotificationRejectsBadSignature(t *testing.T) {
	t.Setenv("MIDTRANS_SERVER_KEY", testServerKey)
	db := openTestDB(t)
	order, payment := seedOrderWithPayment(t, db)

	w := postNotification(t, db, map[string]string{
		"order_id":           payment.GatewayOrderID,
		"status_code":        "200",
		"gross_amount":       "105000.00",
		"signature_key":      "forged",
		"transaction_status": "settlement",
	})
	assert.Equal(t, http.StatusForbidden, w.Code)

	// no state mutated
	var reloadedOrder models.Order
	require.NoError(t, db.First(&reloadedOrder, order.ID).Error)
	assert.Equal(t, models.OrderStatusPendingUnpaid, reloadedOrder.Status)
	assert.Equal(t, models.PaymentStatusUnpaid, reloadedOrder.PaymentStatus)

	var reloadedPayment models.Payment
	require.NoError(t, db.First(&reloadedPayment, payment.ID).Error)
	assert.Equal(t, "pending", reloadedPayment.PaymentStatus)

	var logs int64
	db.Model(&models.OrderStatusLog{}).Count(&logs)
	assert.Zero(t, logs)
}

func TestNotificationSettlementMarksOrderPaid(t *testing.T) {
	t.Setenv("MIDTRANS_SERVER_KEY", testServerKey)
	db := openTestDB(t)
	order, payment := seedOrderWithPayment(t, db)

	w := postNotification(t, db, map[string]string{
		"order_id":           payment.GatewayOrderID,
		"status_code":        "200",
		"gross_amount":       "105000.00",
		"signature_key":      sign(payment.GatewayOrderID, "200", "105000.00"),
		"transaction_status": "settlement",
		"transaction_id":     "mid-tx-1",
		"payment_type":       "qris",
	})
	assert.Equal(t, http.StatusOK, w.Code)

	var reloadedOrder models.Order
	require.NoError(t, db.First(&reloadedOrder, order.ID).Error)
	assert.Equal(t, models.OrderStatusNew, reloadedOrder.Status)
	assert.Equal(t, models.PaymentStatusPaid, reloadedOrder.PaymentStatus)

	var reloadedPayment models.Payment
	require.NoError(t, db.First(&reloadedPayment, payment.ID).Error)
	assert.Equal(t, "settlement", reloadedPayment.PaymentStatus)
	assert.Equal(t, "mid-tx-1", reloadedPayment.TransactionID)
	assert.Equal(t, "qris", reloadedPayment.PaymentType)

	var statusLog models.OrderStatusLog
	require.NoError(t, db.Where("order_id = ?", order.ID).First(&statusLog).Error)
	assert.Equal(t, models.OrderStatusPendingUnpaid, statusLog.From)
	assert.Equal(t, models.OrderStatusNew, statusLog.To)
}

type fakeGateway struct {
	lastReq *snap.Request
	resp    *snap.Response
	err     error
}

func (f *fakeGateway) CreateTransaction(req *snap.Request) (*snap.Response, error) {
	f.lastReq = req
	return f.resp, f.err
}

func TestCreatePaymentReturnsSnapToken(t *testing.T) {
	db := openTestDB(t)
	require.NoError(t, db.Create(&models.User{ID: "buyer-1", Name: "Budi", Email: "budi@example.com"}).Error)
	order := models.Order{
		OrderCode: "TC260829-ab12", UserID: "buyer-1", StoreID: 1,
		Subtotal: 100000, ShippingFee: 15000, VoucherDiscount: 10000, TotalAmount: 105000,
		Status: models.OrderStatusPendingUnpaid, PaymentStatus: models.PaymentStatusUnpaid,
		Items: []models.OrderItem{{ProductID: 1, ProductName: "Kaos", UnitPrice: 50000, Quantity: 2, TotalPrice: 100000}},
	}
	require.NoError(t, db.Create(&order).Error)

	gateway := &fakeGateway{resp: &snap.Response{Token: "tok-xyz", RedirectURL: "https://app.sandbox.midtrans.com/snap/v3/tok-xyz"}}

	gin.SetMode(gin.TestMode)
	r := gin.New()
	r.Use(func(c *gin.Context) { c.Set("user_id", "buyer-1") })
	r.POST("/api/payments/:order_id", CreatePayment(db, gateway))

	req := httptest.NewRequest(http.MethodPost, "/api/payments/"+strconv.Itoa(int(order.ID)), nil)
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)
	require.Equal(t, http.StatusCreated, w.Code)

	require.NotNil(t, gateway.lastReq)
	assert.Equal(t, order.OrderCode, gateway.lastReq.TransactionDetails.OrderID)
	assert.EqualValues(t, 105000, gateway.lastReq.TransactionDetails.GrossAmt)
	// line items + shipping + discount rows
	require.NotNil(t, gateway.lastReq.Items)
	assert.Len(t, *gateway.lastReq.Items, 3)

	var payment models.Payment
	require.NoError(t, db.Where("order_id = ?", order.ID).First(&payment).Error)
	assert.Equal(t, "tok-xyz", payment.SnapToken)
	assert.Equal(t, order.OrderCode, payment.GatewayOrderID)
	assert.Equal(t, "pending", payment.PaymentStatus)
}

func TestCreatePaymentReusesPendingToken(t *testing.T) {
	db := openTestDB(t)
	require.NoError(t, db.Create(&models.User{ID: "buyer-1", Name: "Budi"}).Error)
	order, payment := seedOrderWithPayment(t, db)

	gateway := &fakeGateway{}
	gin.SetMode(gin.TestMode)
	r := gin.New()
	r.Use(func(c *gin.Context) { c.Set("user_id", "buyer-1") })
	r.POST("/api/payments/:order_id", CreatePayment(db, gateway))

	req := httptest.NewRequest(http.MethodPost, "/api/payments/"+strconv.Itoa(int(order.ID)), nil)
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)
	require.Equal(t, http.StatusOK, w.Code)

	// no new gateway transaction for a still-pending payment
	assert.Nil(t, gateway.lastReq)
	assert.Contains(t, w.Body.String(), payment.SnapToken)
}

func TestNotificationUnknownGatewayOrder(t *testing.T) {
	t.Setenv("MIDTRANS_SERVER_KEY", testServerKey)
	db := openTestDB(t)

	w := postNotification(t, db, map[string]string{
		"order_id":           "TC000000-none",
		"status_code":        "200",
		"gross_amount":       "1.00",
		"signature_key":      sign("TC000000-none", "200", "1.00"),
		"transaction_status": "settlement",
	})
	assert.Equal(t, http.StatusNotFound, w.Code)
}
