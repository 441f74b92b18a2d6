package models

import "time"

type Cart struct {
	ID                uint       `gorm:"primaryKey" json:"id"`
	UserID            string     `gorm:"uniqueIndex" json:"user_id"` // one cart per user
	SelectedAddressID *uint      `json:"selected_address_id"`
	Items             []CartItem `gorm:"foreignKey:CartID;constraint:OnDelete:CASCADE" json:"items"`
	CreatedAt         time.Time  `json:"created_at"`
	UpdatedAt         time.Time  `json:"updated_at"`
}

// CartItem snapshots the product fields at add-time so later catalog edits
// don't retroactively change what the buyer put in the cart.
type CartItem struct {
	ID           uint      `gorm:"primaryKey" json:"id"`
	CartID       uint      `gorm:"index" json:"cart_id"`
	StoreID      uint      `gorm:"index" json:"store_id"`
	ProductID    uint      `json:"product_id"`
	SKUID        *uint     `json:"sku_id"`
	ProductName  string    `json:"product_name"`
	VariantName  string    `json:"variant_name"`
	ProductImage string    `json:"product_image"`
	UnitPrice    float64   `json:"unit_price"` // price at add-time
	Weight       float64   `json:"weight"`     // grams per unit at add-time
	Quantity     int       `json:"quantity"`
	Selected     bool      `gorm:"default:true" json:"selected"`
	AddedAt      time.Time `json:"added_at"`
}

// CartShippingSelection holds the courier the buyer picked for one store's
// shipment, with the fee quoted at selection time. Mutable until checkout.
type CartShippingSelection struct {
	ID          uint    `gorm:"primaryKey" json:"id"`
	CartID      uint    `gorm:"index:idx_cart_store,unique" json:"cart_id"`
	StoreID     uint    `gorm:"index:idx_cart_store,unique" json:"store_id"`
	CourierCode string  `json:"courier_code"`
	Service     string  `json:"service"`
	Fee         float64 `json:"fee"`
	ETD         string  `json:"etd"`
}

// CartVoucher pins a resolved voucher to the cart. Discount is computed at
// attach-time and copied forward to the order as-is.
type CartVoucher struct {
	ID        uint    `gorm:"primaryKey" json:"id"`
	CartID    uint    `gorm:"uniqueIndex" json:"cart_id"` // at most one per cart
	VoucherID uint    `json:"voucher_id"`
	StoreID   uint    `json:"store_id"` // scope of the voucher, denormalized
	Code      string  `json:"code"`
	Discount  float64 `json:"discount"`
}
