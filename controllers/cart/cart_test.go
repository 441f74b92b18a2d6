package cartControllers

import (
	"bytes"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

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
		&models.User{}, &models.Store{}, &models.Address{},
		&models.Product{}, &models.ProductSKU{}, &models.ProductImage{},
		&models.Cart{}, &models.CartItem{}, &models.CartShippingSelection{}, &models.CartVoucher{},
		&models.Voucher{}, &models.VoucherUsage{},
	))
	return db
}

// router with a stubbed auth middleware injecting the user id.
func testRouter(db *gorm.DB, userID string) *gin.Engine {
	gin.SetMode(gin.TestMode)
	r := gin.New()
	r.Use(func(c *gin.Context) { c.Set("user_id", userID) })
	r.GET("/api/cart", GetCart(db))
	r.POST("/api/cart/items", AddItem(db))
	r.POST("/api/cart/voucher", AttachVoucher(db))
	return r
}

func TestGetOrCreateCartIsIdempotent(t *testing.T) {
	db := openTestDB(t)
	first, err := GetOrCreateCart(db, "buyer-1")
	require.NoError(t, err)
	second, err := GetOrCreateCart(db, "buyer-1")
	require.NoError(t, err)
	assert.Equal(t, first.ID, second.ID)

	var count int64
	db.Model(&models.Cart{}).Where("user_id = ?", "buyer-1").Count(&count)
	assert.EqualValues(t, 1, count)
}

func TestAddItemSnapshotsProductFields(t *testing.T) {
	db := openTestDB(t)
	store := models.Store{UserID: "seller-1", Name: "Toko A", Slug: "toko-a"}
	require.NoError(t, db.Create(&store).Error)
	product := models.Product{StoreID: store.ID, Name: "Kaos Polos", Price: 50000, Weight: 300, Stock: 10}
	require.NoError(t, db.Create(&product).Error)
	require.NoError(t, db.Create(&models.ProductImage{ProductID: product.ID, URL: "https://cdn/p1.jpg"}).Error)

	r := testRouter(db, "buyer-1")
	body, _ := json.Marshal(map[string]interface{}{"product_id": product.ID, "quantity": 2})
	req := httptest.NewRequest(http.MethodPost, "/api/cart/items", bytes.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)
	require.Equal(t, http.StatusCreated, w.Code)

	var item models.CartItem
	require.NoError(t, db.First(&item).Error)
	assert.Equal(t, "Kaos Polos", item.ProductName)
	assert.Equal(t, 50000.0, item.UnitPrice)
	assert.Equal(t, 300.0, item.Weight)
	assert.Equal(t, "https://cdn/p1.jpg", item.ProductImage)
	assert.True(t, item.Selected)

	// Later product edits must not touch the snapshot.
	require.NoError(t, db.Model(&product).Update("price", 99000).Error)
	require.NoError(t, db.First(&item, item.ID).Error)
	assert.Equal(t, 50000.0, item.UnitPrice)
}

func TestAddItemTwiceBumpsQuantity(t *testing.T) {
	db := openTestDB(t)
	store := models.Store{UserID: "seller-1", Name: "Toko A", Slug: "toko-a"}
	require.NoError(t, db.Create(&store).Error)
	product := models.Product{StoreID: store.ID, Name: "Kaos", Price: 50000, Weight: 300, Stock: 10}
	require.NoError(t, db.Create(&product).Error)

	r := testRouter(db, "buyer-1")
	for i := 0; i < 2; i++ {
		body, _ := json.Marshal(map[string]interface{}{"product_id": product.ID, "quantity": 2})
		req := httptest.NewRequest(http.MethodPost, "/api/cart/items", bytes.NewReader(body))
		req.Header.Set("Content-Type", "application/json")
		w := httptest.NewRecorder()
		r.ServeHTTP(w, req)
		require.Contains(t, []int{http.StatusCreated, http.StatusOK}, w.Code)
	}

	var items []models.CartItem
	require.NoError(t, db.Find(&items).Error)
	require.Len(t, items, 1)
	assert.Equal(t, 4, items[0].Quantity)
}

func TestAddItemUnknownProduct(t *testing.T) {
	db := openTestDB(t)
	r := testRouter(db, "buyer-1")
	body, _ := json.Marshal(map[string]interface{}{"product_id": 999, "quantity": 1})
	req := httptest.NewRequest(http.MethodPost, "/api/cart/items", bytes.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)
	assert.Equal(t, http.StatusNotFound, w.Code)
}

func TestBuildCartResponseTotals(t *testing.T) {
	db := openTestDB(t)
	storeA := models.Store{UserID: "seller-a", Name: "Toko A", Slug: "toko-a"}
	storeB := models.Store{UserID: "seller-b", Name: "Toko B", Slug: "toko-b"}
	require.NoError(t, db.Create(&storeA).Error)
	require.NoError(t, db.Create(&storeB).Error)

	cart, err := GetOrCreateCart(db, "buyer-1")
	require.NoError(t, err)

	items := []models.CartItem{
		{CartID: cart.ID, StoreID: storeA.ID, ProductID: 1, ProductName: "Kaos", UnitPrice: 50000, Quantity: 2, Selected: true, AddedAt: time.Now()},
		{CartID: cart.ID, StoreID: storeA.ID, ProductID: 2, ProductName: "Topi", UnitPrice: 30000, Quantity: 1, Selected: false, AddedAt: time.Now()},
		{CartID: cart.ID, StoreID: storeB.ID, ProductID: 3, ProductName: "Sepatu", UnitPrice: 200000, Quantity: 1, Selected: true, AddedAt: time.Now()},
	}
	for i := range items {
		require.NoError(t, db.Create(&items[i]).Error)
	}
	require.NoError(t, db.Create(&models.CartShippingSelection{CartID: cart.ID, StoreID: storeA.ID, CourierCode: "jne", Service: "REG", Fee: 15000}).Error)
	require.NoError(t, db.Create(&models.CartVoucher{CartID: cart.ID, VoucherID: 1, StoreID: storeA.ID, Code: "HEMAT", Discount: 10000}).Error)

	resp, err := BuildCartResponse(db, cart)
	require.NoError(t, err)
	require.Len(t, resp.Groups, 2)

	// unselected Topi is excluded from the subtotal
	assert.Equal(t, 100000.0+200000, resp.Subtotal)
	assert.Equal(t, 15000.0, resp.ShippingTotal)
	assert.Equal(t, 10000.0, resp.Discount)
	assert.Equal(t, 100000.0+200000+15000-10000, resp.Total)

	byStore := map[uint]StoreGroup{}
	for _, g := range resp.Groups {
		byStore[g.StoreID] = g
	}
	assert.Equal(t, 100000.0, byStore[storeA.ID].Subtotal)
	assert.Equal(t, "Toko A", byStore[storeA.ID].StoreName)
	assert.Len(t, byStore[storeA.ID].Items, 2)
	assert.Equal(t, 200000.0, byStore[storeB.ID].Subtotal)
	assert.Zero(t, byStore[storeB.ID].ShippingFee)
}

func TestSetShippingAcceptsZeroFee(t *testing.T) {
	db := openTestDB(t)
	store := models.Store{UserID: "seller-1", Name: "Toko A", Slug: "toko-a"}
	require.NoError(t, db.Create(&store).Error)

	cart, err := GetOrCreateCart(db, "buyer-1")
	require.NoError(t, err)
	require.NoError(t, db.Create(&models.CartItem{
		CartID: cart.ID, StoreID: store.ID, ProductID: 1, ProductName: "Kaos",
		UnitPrice: 50000, Quantity: 1, Selected: true, AddedAt: time.Now(),
	}).Error)

	gin.SetMode(gin.TestMode)
	r := gin.New()
	r.Use(func(c *gin.Context) { c.Set("user_id", "buyer-1") })
	r.PUT("/api/cart/shipping", SetShipping(db))

	body, _ := json.Marshal(map[string]interface{}{
		"store_id": store.ID, "courier_code": "jne", "service": "FREE", "fee": 0,
	})
	req := httptest.NewRequest(http.MethodPut, "/api/cart/shipping", bytes.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)
	require.Equal(t, http.StatusOK, w.Code)

	var selection models.CartShippingSelection
	require.NoError(t, db.Where("cart_id = ? AND store_id = ?", cart.ID, store.ID).First(&selection).Error)
	assert.Zero(t, selection.Fee)
	assert.Equal(t, "FREE", selection.Service)
}

func TestAttachVoucherValidatesStoreSubtotal(t *testing.T) {
	db := openTestDB(t)
	store := models.Store{UserID: "seller-1", Name: "Toko A", Slug: "toko-a"}
	require.NoError(t, db.Create(&store).Error)

	cart, err := GetOrCreateCart(db, "buyer-1")
	require.NoError(t, err)
	require.NoError(t, db.Create(&models.CartItem{
		CartID: cart.ID, StoreID: store.ID, ProductID: 1, ProductName: "Kaos",
		UnitPrice: 40000, Quantity: 1, Selected: true, AddedAt: time.Now(),
	}).Error)

	voucher := models.Voucher{
		StoreID: store.ID, Code: "HEMAT", Type: models.VoucherFixed, Value: 5000,
		MinOrderAmount: 50000, IsActive: true, PerUserLimit: 1,
		StartAt: time.Now().Add(-time.Hour), EndAt: time.Now().Add(time.Hour),
	}
	require.NoError(t, db.Create(&voucher).Error)

	r := testRouter(db, "buyer-1")
	body, _ := json.Marshal(map[string]string{"code": "HEMAT"})
	req := httptest.NewRequest(http.MethodPost, "/api/cart/voucher", bytes.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)

	// subtotal 40000 < min order 50000
	assert.Equal(t, http.StatusBadRequest, w.Code)
	var attached int64
	db.Model(&models.CartVoucher{}).Count(&attached)
	assert.Zero(t, attached)
}
