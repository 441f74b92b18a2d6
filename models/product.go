package models

import (
	"time"

	"gorm.io/gorm"
)

type ListingType string

const (
	ListingNone     ListingType = "" // regular marketplace inventory
	ListingMotor    ListingType = "motor"
	ListingCar      ListingType = "car"
	ListingProperty ListingType = "property"
)

type Product struct {
	ID          uint           `gorm:"primaryKey;autoIncrement" json:"id"`
	StoreID     uint           `gorm:"index;not null" json:"store_id"`
	Store       Store          `gorm:"foreignKey:StoreID" json:"store"`
	Name        string         `gorm:"not null" json:"name"`
	Description string         `json:"description"`
	Category    string         `gorm:"index" json:"category"`
	Condition   string         `gorm:"type:VARCHAR(10);default:'new'" json:"condition"` // "new" or "used"
	Price       float64        `gorm:"not null" json:"price"`
	Weight      float64        `gorm:"not null" json:"weight"` // grams, drives shipping quotes
	Stock       int            `json:"stock"`
	ListingType ListingType    `gorm:"type:VARCHAR(20);default:''" json:"listing_type"`
	SKUs        []ProductSKU   `gorm:"foreignKey:ProductID;constraint:OnDelete:CASCADE" json:"skus"`
	Images      []ProductImage `gorm:"foreignKey:ProductID;constraint:OnDelete:CASCADE" json:"images"`
	CreatedAt   time.Time      `json:"created_at"`
	UpdatedAt   time.Time      `json:"updated_at"`
	DeletedAt   gorm.DeletedAt `gorm:"index" json:"-"`
}

// ProductSKU is a sellable variant. Price and Stock override the parent
// product's when the buyer picks this variant.
type ProductSKU struct {
	ID        uint    `gorm:"primaryKey" json:"id"`
	ProductID uint    `gorm:"index" json:"product_id"`
	Variant   string  `gorm:"not null" json:"variant"` // e.g. "Warna"
	Value     string  `gorm:"not null" json:"value"`   // e.g. "Hitam"
	Price     float64 `json:"price"`
	Stock     int     `json:"stock"`
}

type ProductImage struct {
	ID        uint   `gorm:"primaryKey" json:"id"`
	ProductID uint   `gorm:"index" json:"product_id"`
	URL       string `gorm:"not null" json:"url"`
	Position  int    `json:"position"`
}

// Classified-listing specializations, one-to-one with a Product whose
// ListingType matches.

type MotorSpec struct {
	ID        uint   `gorm:"primaryKey" json:"id"`
	ProductID uint   `gorm:"uniqueIndex" json:"product_id"`
	Brand     string `json:"brand"`
	Model     string `json:"model"`
	Year      int    `json:"year"`
	Mileage   int    `json:"mileage"`
	EngineCC  int    `json:"engine_cc"`
}

type CarSpec struct {
	ID           uint   `gorm:"primaryKey" json:"id"`
	ProductID    uint   `gorm:"uniqueIndex" json:"product_id"`
	Brand        string `json:"brand"`
	Model        string `json:"model"`
	Year         int    `json:"year"`
	Mileage      int    `json:"mileage"`
	Transmission string `json:"transmission"` // "manual" or "automatic"
	Fuel         string `json:"fuel"`
	Seats        int    `json:"seats"`
}

type PropertySpec struct {
	ID           uint    `gorm:"primaryKey" json:"id"`
	ProductID    uint    `gorm:"uniqueIndex" json:"product_id"`
	Certificate  string  `json:"certificate"` // SHM, HGB, ...
	LandArea     float64 `json:"land_area"`
	BuildingArea float64 `json:"building_area"`
	Bedrooms     int     `json:"bedrooms"`
	Bathrooms    int     `json:"bathrooms"`
	Floors       int     `json:"floors"`
}
