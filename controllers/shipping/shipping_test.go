package shippingControllers

import (
	"bytes"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"sync/atomic"
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

const fakeRateBody = `{
	"rajaongkir": {
		"results": [{
			"code": "jne",
			"name": "Jalur Nugraha Ekakurir (JNE)",
			"costs": [
				{"service": "REG", "description": "Layanan Reguler", "cost": [{"value": 15000, "etd": "2-3"}]},
				{"service": "YES", "description": "Yakin Esok Sampai", "cost": [{"value": 28000, "etd": "1-1"}]},
				{"service": "OKE", "description": "Ongkos Kirim Ekonomis", "cost": [{"value": 12000, "etd": "3-4"}]}
			]
		}]
	}
}`

func openTestDB(t *testing.T) *gorm.DB {
	t.Helper()
	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{
		Logger: logger.Default.LogMode(logger.Silent),
	})
	require.NoError(t, err)
	require.NoError(t, db.AutoMigrate(&models.Store{}, &models.StoreCourier{}))
	return db
}

func TestMemoryRateCacheExpiry(t *testing.T) {
	cache := NewMemoryRateCache()
	rates := []Rate{{CourierCode: "jne", Service: "REG", Fee: 15000}}

	cache.Set("k", rates, time.Minute)
	got, ok := cache.Get("k")
	require.True(t, ok)
	assert.Equal(t, rates, got)

	// already expired entry is evicted on read
	cache.Set("expired", rates, -time.Millisecond)
	_, ok = cache.Get("expired")
	assert.False(t, ok)

	_, ok = cache.Get("missing")
	assert.False(t, ok)
}

func TestFilterByServices(t *testing.T) {
	rates := []Rate{
		{CourierCode: "jne", Service: "REG"},
		{CourierCode: "jne", Service: "YES"},
		{CourierCode: "jne", Service: "OKE"},
	}

	filtered := filterByServices(rates, "REG, yes")
	require.Len(t, filtered, 2)
	assert.Equal(t, "REG", filtered[0].Service)
	assert.Equal(t, "YES", filtered[1].Service)

	// empty config allows everything
	assert.Len(t, filterByServices(rates, ""), 3)
}

func TestFetchRatesParsesAPIResponse(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/cost", r.URL.Path)
		assert.Equal(t, http.MethodPost, r.Method)
		w.Write([]byte(fakeRateBody))
	}))
	defer server.Close()

	rates, err := FetchRates(server.Client(), server.URL, "501", "23", 1000, "jne")
	require.NoError(t, err)
	require.Len(t, rates, 3)
	assert.Equal(t, "jne", rates[0].CourierCode)
	assert.Equal(t, "REG", rates[0].Service)
	assert.Equal(t, 15000.0, rates[0].Fee)
	assert.Equal(t, "2-3", rates[0].ETD)
}

func TestGetRatesFiltersAndCaches(t *testing.T) {
	var hits atomic.Int32
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		hits.Add(1)
		w.Write([]byte(fakeRateBody))
	}))
	defer server.Close()

	db := openTestDB(t)
	store := models.Store{UserID: "seller-1", Name: "Toko A", Slug: "toko-a", OriginCityID: "501"}
	require.NoError(t, db.Create(&store).Error)
	require.NoError(t, db.Create(&models.StoreCourier{StoreID: store.ID, Code: "jne", Services: "REG,YES"}).Error)

	gin.SetMode(gin.TestMode)
	r := gin.New()
	cache := NewMemoryRateCache()
	r.POST("/api/shipping/rates", GetRates(db, cache, server.Client(), server.URL))

	do := func() *httptest.ResponseRecorder {
		body, _ := json.Marshal(map[string]interface{}{
			"store_id": store.ID, "destination_city_id": "23", "weight": 1000,
		})
		req := httptest.NewRequest(http.MethodPost, "/api/shipping/rates", bytes.NewReader(body))
		req.Header.Set("Content-Type", "application/json")
		w := httptest.NewRecorder()
		r.ServeHTTP(w, req)
		return w
	}

	w := do()
	require.Equal(t, http.StatusOK, w.Code)

	var resp struct {
		Rates []Rate `json:"rates"`
	}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	// OKE is not in the store's enabled services
	require.Len(t, resp.Rates, 2)
	assert.Equal(t, "REG", resp.Rates[0].Service)
	assert.Equal(t, "YES", resp.Rates[1].Service)

	// second identical request is served from cache
	w = do()
	require.Equal(t, http.StatusOK, w.Code)
	assert.EqualValues(t, 1, hits.Load())
}
