package models

import "time"

type Address struct {
	ID         uint      `gorm:"primaryKey" json:"id"`
	UserID     string    `gorm:"index;not null" json:"user_id"`
	Label      string    `json:"label"` // e.g. "Rumah", "Kantor"
	Recipient  string    `gorm:"not null" json:"recipient"`
	Phone      string    `gorm:"not null" json:"phone"`
	Province   string    `json:"province"`
	City       string    `json:"city"`
	CityID     string    `json:"city_id"` // rate-API city code, used for shipping quotes
	District   string    `json:"district"`
	PostalCode string    `json:"postal_code"`
	Street     string    `gorm:"not null" json:"street"`
	IsPrimary  bool      `json:"is_primary"`
	CreatedAt  time.Time `json:"created_at"`
	UpdatedAt  time.Time `json:"updated_at"`
}
