package orderControllers

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/wildanhniif/toco-api/models"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

func openTestDB(t *testing.T) *gorm.DB {
	t.Helper()
	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{
		TranslateError: true,
		Logger:         logger.Default.LogMode(logger.Silent),
	})
	require.NoError(t, err)
	require.NoError(t, db.AutoMigrate(
		&models.Store{}, &models.Product{}, &models.ProductSKU{},
		&models.Order{}, &models.OrderItem{}, &models.OrderShipping{}, &models.OrderStatusLog{},
	))
	return db
}

func TestCanTransition(t *testing.T) {
	assert.True(t, canTransition(models.OrderStatusNew, models.OrderStatusProcessing))
	assert.True(t, canTransition(models.OrderStatusProcessing, models.OrderStatusShipped))
	assert.True(t, canTransition(models.OrderStatusShipped, models.OrderStatusDelivered))
	assert.True(t, canTransition(models.OrderStatusDelivered, models.OrderStatusDone))

	// sellers can't skip ahead or touch payment-driven states
	assert.False(t, canTransition(models.OrderStatusNew, models.OrderStatusDelivered))
	assert.False(t, canTransition(models.OrderStatusPendingUnpaid, models.OrderStatusNew))
	assert.False(t, canTransition(models.OrderStatusShipped, models.OrderStatusCancelled))
	assert.False(t, canTransition(models.OrderStatusDone, models.OrderStatusNew))
}

func TestChangeStatusAppendsLog(t *testing.T) {
	db := openTestDB(t)
	order := models.Order{
		OrderCode: "TC260829-ab12", UserID: "buyer-1", StoreID: 1,
		Status: models.OrderStatusNew, PaymentStatus: models.PaymentStatusPaid,
	}
	require.NoError(t, db.Create(&order).Error)

	require.NoError(t, ChangeStatus(db, &order, models.OrderStatusProcessing, "packing"))
	assert.Equal(t, models.OrderStatusProcessing, order.Status)

	var logs []models.OrderStatusLog
	require.NoError(t, db.Where("order_id = ?", order.ID).Find(&logs).Error)
	require.Len(t, logs, 1)
	assert.Equal(t, models.OrderStatusNew, logs[0].From)
	assert.Equal(t, models.OrderStatusProcessing, logs[0].To)
	assert.Equal(t, "packing", logs[0].Note)

	// log is append-only: a second transition adds a row
	require.NoError(t, ChangeStatus(db, &order, models.OrderStatusShipped, ""))
	require.NoError(t, db.Where("order_id = ?", order.ID).Find(&logs).Error)
	assert.Len(t, logs, 2)
}

func TestCancelOrderRestoresStock(t *testing.T) {
	db := openTestDB(t)
	product := models.Product{StoreID: 1, Name: "Kaos", Price: 50000, Weight: 300, Stock: 8}
	require.NoError(t, db.Create(&product).Error)

	order := models.Order{
		OrderCode: "TC260829-ab12", UserID: "buyer-1", StoreID: 1,
		Status: models.OrderStatusPendingUnpaid, PaymentStatus: models.PaymentStatusUnpaid,
		Items: []models.OrderItem{{ProductID: product.ID, ProductName: "Kaos", UnitPrice: 50000, Quantity: 2, TotalPrice: 100000}},
	}
	require.NoError(t, db.Create(&order).Error)

	gin.SetMode(gin.TestMode)
	r := gin.New()
	r.Use(func(c *gin.Context) { c.Set("user_id", "buyer-1") })
	r.POST("/api/orders/:code/cancel", CancelOrder(db))

	req := httptest.NewRequest(http.MethodPost, "/api/orders/TC260829-ab12/cancel", nil)
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)
	require.Equal(t, http.StatusOK, w.Code)

	var reloaded models.Order
	require.NoError(t, db.First(&reloaded, order.ID).Error)
	assert.Equal(t, models.OrderStatusCancelled, reloaded.Status)

	var stocked models.Product
	require.NoError(t, db.First(&stocked, product.ID).Error)
	assert.Equal(t, 10, stocked.Stock)

	// cancelling twice is rejected
	w = httptest.NewRecorder()
	r.ServeHTTP(w, httptest.NewRequest(http.MethodPost, "/api/orders/TC260829-ab12/cancel", nil))
	assert.Equal(t, http.StatusBadRequest, w.Code)
}
