package models

import "time"

type User struct {
	ID        string    `gorm:"primaryKey" json:"id"` // subject claim issued by the auth provider
	Name      string    `json:"name"`
	Email     string    `gorm:"uniqueIndex" json:"email"`
	Phone     string    `json:"phone"`
	Role      string    `gorm:"type:VARCHAR(20);default:'buyer'" json:"role"` // "buyer" or "seller"
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}
