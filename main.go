package main

import (
	"fmt"
	"log"
	"net/http"
	"os"
	"time"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	"github.com/joho/godotenv"
	paymentControllers "github.com/wildanhniif/toco-api/controllers/payment"
	shippingControllers "github.com/wildanhniif/toco-api/controllers/shipping"
	"github.com/wildanhniif/toco-api/models"
	"github.com/wildanhniif/toco-api/routes"
	"gorm.io/driver/postgres"
	"gorm.io/gorm"
)

func main() {
	log.Println("✅ Starting application...")

	// Load environment variables
	_ = godotenv.Load()

	// Init DB
	db := initDatabase()

	// Auto-migrate all tables
	if err := db.AutoMigrate(
		&models.User{},
		&models.Store{},
		&models.StoreCourier{},
		&models.Address{},
		&models.Product{},
		&models.ProductSKU{},
		&models.ProductImage{},
		&models.MotorSpec{},
		&models.CarSpec{},
		&models.PropertySpec{},
		&models.Cart{},
		&models.CartItem{},
		&models.CartShippingSelection{},
		&models.CartVoucher{},
		&models.Voucher{},
		&models.VoucherUsage{},
		&models.Order{},
		&models.OrderItem{},
		&models.OrderShipping{},
		&models.OrderStatusLog{},
		&models.Payment{},
	); err != nil {
		log.Fatalf("❌ AutoMigrate failed: %v", err)
	}

	// Gin setup
	r := gin.Default()

	// CORS settings
	r.Use(cors.New(cors.Config{
		AllowOrigins:     []string{"*"},
		AllowMethods:     []string{"GET", "POST", "PUT", "PATCH", "DELETE", "OPTIONS"},
		AllowHeaders:     []string{"Origin", "Content-Type", "Accept", "Authorization", "X-API-KEY"},
		ExposeHeaders:    []string{"Content-Length", "Content-Disposition"},
		AllowCredentials: true,
		MaxAge:           12 * time.Hour,
	}))

	// External collaborators
	deps := routes.Deps{
		Gateway:        paymentControllers.NewSnapClient(),
		RateCache:      shippingControllers.NewMemoryRateCache(),
		HTTPClient:     &http.Client{Timeout: 15 * time.Second},
		ShippingAPIURL: os.Getenv("SHIPPING_API_URL"),
	}

	// Setup routes
	routes.SetupRoutes(r, db, deps)

	// Start server
	port := os.Getenv("PORT")
	if port == "" {
		port = "8080"
	}
	log.Printf("🚀 Server running on port %s...", port)
	if err := r.Run(":" + port); err != nil {
		log.Fatalf("❌ Failed to start server: %v", err)
	}
}

// initDatabase sets up the GORM DB connection
func initDatabase() *gorm.DB {
	config := &gorm.Config{TranslateError: true}

	if databaseURL := os.Getenv("DATABASE_URL"); databaseURL != "" {
		db, err := gorm.Open(postgres.Open(databaseURL), config)
		if err != nil {
			log.Fatalf("❌ DB connection failed: %v", err)
		}
		return db
	}

	host := os.Getenv("DB_HOST")
	port := os.Getenv("DB_PORT")
	user := os.Getenv("DB_USER")
	password := os.Getenv("DB_PASSWORD")
	dbname := os.Getenv("DB_NAME")

	dsn := fmt.Sprintf(
		"host=%s user=%s password=%s dbname=%s port=%s sslmode=disable",
		host, user, password, dbname, port,
	)

	db, err := gorm.Open(postgres.Open(dsn), config)
	if err != nil {
		log.Fatalf("❌ Failed to connect DB: %v", err)
	}
	return db
}
