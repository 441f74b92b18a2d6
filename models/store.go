package models

import "time"

type Store struct {
	ID           uint           `gorm:"primaryKey" json:"id"`
	UserID       string         `gorm:"uniqueIndex" json:"user_id"` // one store per seller
	Name         string         `gorm:"not null" json:"name"`
	Slug         string         `gorm:"uniqueIndex;not null" json:"slug"`
	Description  string         `json:"description"`
	Image        string         `json:"image"`
	OriginCityID string         `json:"origin_city_id"` // rate-API city code shipments originate from
	Couriers     []StoreCourier `gorm:"foreignKey:StoreID;constraint:OnDelete:CASCADE" json:"couriers"`
	CreatedAt    time.Time      `json:"created_at"`
	UpdatedAt    time.Time      `json:"updated_at"`
}

// StoreCourier is one courier a store ships with. Services holds the
// comma-separated service codes the seller enabled, e.g. "REG,YES".
type StoreCourier struct {
	ID       uint   `gorm:"primaryKey" json:"id"`
	StoreID  uint   `gorm:"index" json:"store_id"`
	Code     string `gorm:"not null" json:"code"` // courier code understood by the rate API
	Services string `json:"services"`
}
