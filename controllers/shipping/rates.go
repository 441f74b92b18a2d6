package shippingControllers

import (
	"encoding/json"
	"fmt"
	"log"
	"net/http"
	"net/url"
	"os"
	"strings"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/wildanhniif/toco-api/models"
	"gorm.io/gorm"
)

const rateCacheTTL = 5 * time.Minute

// Rate is one courier service quote.
type Rate struct {
	CourierCode string  `json:"courier_code"`
	CourierName string  `json:"courier_name"`
	Service     string  `json:"service"`
	Description string  `json:"description"`
	Fee         float64 `json:"fee"`
	ETD         string  `json:"etd"`
}

type RatesInput struct {
	StoreID           uint   `json:"store_id" binding:"required"`
	DestinationCityID string `json:"destination_city_id" binding:"required"`
	Weight            int    `json:"weight" binding:"required,min=1"` // grams
}

// rate-API wire format (RajaOngkir-style cost endpoint)
type rateAPIResponse struct {
	Rajaongkir struct {
		Results []struct {
			Code  string `json:"code"`
			Name  string `json:"name"`
			Costs []struct {
				Service     string `json:"service"`
				Description string `json:"description"`
				Cost        []struct {
					Value float64 `json:"value"`
					ETD   string  `json:"etd"`
				} `json:"cost"`
			} `json:"costs"`
		} `json:"results"`
	} `json:"rajaongkir"`
}

// FetchRates calls the external cost API for one courier. The API key and
// base URL come from the environment; the HTTP client is injectable for
// tests via baseURL.
func FetchRates(client *http.Client, baseURL, origin, destination string, weight int, courier string) ([]Rate, error) {
	form := url.Values{}
	form.Set("origin", origin)
	form.Set("destination", destination)
	form.Set("weight", fmt.Sprintf("%d", weight))
	form.Set("courier", courier)

	req, err := http.NewRequest("POST", baseURL+"/cost", strings.NewReader(form.Encode()))
	if err != nil {
		return nil, err
	}
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")
	req.Header.Set("key", os.Getenv("SHIPPING_API_KEY"))

	resp, err := client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("failed to reach rate API: %v", err)
	}
	defer resp.Body.Close()
	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("rate API error (%d)", resp.StatusCode)
	}

	var apiResp rateAPIResponse
	if err := json.NewDecoder(resp.Body).Decode(&apiResp); err != nil {
		return nil, fmt.Errorf("failed to parse rate API response: %v", err)
	}

	var rates []Rate
	for _, result := range apiResp.Rajaongkir.Results {
		for _, cost := range result.Costs {
			if len(cost.Cost) == 0 {
				continue
			}
			rates = append(rates, Rate{
				CourierCode: result.Code,
				CourierName: result.Name,
				Service:     cost.Service,
				Description: cost.Description,
				Fee:         cost.Cost[0].Value,
				ETD:         cost.Cost[0].ETD,
			})
		}
	}
	return rates, nil
}

// filterByServices keeps only the services the store enabled for a courier.
// An empty service list means all services are allowed.
func filterByServices(rates []Rate, services string) []Rate {
	if services == "" {
		return rates
	}
	allowed := make(map[string]bool)
	for _, s := range strings.Split(services, ",") {
		allowed[strings.TrimSpace(strings.ToUpper(s))] = true
	}
	var out []Rate
	for _, r := range rates {
		if allowed[strings.ToUpper(r.Service)] {
			out = append(out, r)
		}
	}
	return out
}

// GET /api/shipping/couriers?store_id=
func GetStoreCouriers(db *gorm.DB) gin.HandlerFunc {
	return func(c *gin.Context) {
		storeID := c.Query("store_id")
		if storeID == "" {
			c.JSON(http.StatusBadRequest, gin.H{"message": "store_id is required"})
			return
		}
		var couriers []models.StoreCourier
		if err := db.Where("store_id = ?", storeID).Find(&couriers).Error; err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"message": "Server Error"})
			return
		}
		c.JSON(http.StatusOK, couriers)
	}
}

// GetRates builds the handler for POST /api/shipping/rates. Quotes originate
// from the store's origin city and are filtered down to the couriers and
// services that store enabled. Responses are cached per (origin,
// destination, weight, courier) for a few minutes.
func GetRates(db *gorm.DB, cache RateCache, client *http.Client, baseURL string) gin.HandlerFunc {
	return func(c *gin.Context) {
		var input RatesInput
		if err := c.ShouldBindJSON(&input); err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"message": "Invalid input: " + err.Error()})
			return
		}

		var store models.Store
		if err := db.Preload("Couriers").First(&store, input.StoreID).Error; err != nil {
			c.JSON(http.StatusNotFound, gin.H{"message": "Store not found"})
			return
		}
		if len(store.Couriers) == 0 {
			c.JSON(http.StatusBadRequest, gin.H{"message": "Store has no couriers configured"})
			return
		}

		var all []Rate
		for _, courier := range store.Couriers {
			key := fmt.Sprintf("%s:%s:%d:%s", store.OriginCityID, input.DestinationCityID, input.Weight, courier.Code)
			rates, ok := cache.Get(key)
			if !ok {
				var err error
				rates, err = FetchRates(client, baseURL, store.OriginCityID, input.DestinationCityID, input.Weight, courier.Code)
				if err != nil {
					log.Printf("rate lookup failed for %s: %v", courier.Code, err)
					continue
				}
				cache.Set(key, rates, rateCacheTTL)
			}
			all = append(all, filterByServices(rates, courier.Services)...)
		}

		if len(all) == 0 {
			c.JSON(http.StatusBadGateway, gin.H{"message": "No shipping rates available"})
			return
		}
		c.JSON(http.StatusOK, gin.H{"rates": all})
	}
}
