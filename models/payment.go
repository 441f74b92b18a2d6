package models

import "time"

// Payment tracks the gateway-side transaction for one order. PaymentStatus
// stores the gateway's own vocabulary verbatim (settlement, expire, ...);
// the mapped internal enums live on the order.
type Payment struct {
	ID             uint      `gorm:"primaryKey" json:"id"`
	OrderID        uint      `gorm:"uniqueIndex" json:"order_id"`
	GatewayOrderID string    `gorm:"uniqueIndex;not null" json:"gateway_order_id"` // order_id sent to the gateway
	TransactionID  string    `json:"transaction_id"`                               // gateway-assigned
	GrossAmount    float64   `json:"gross_amount"`
	PaymentType    string    `json:"payment_type"`
	PaymentStatus  string    `gorm:"type:VARCHAR(20);default:'pending'" json:"payment_status"`
	SnapToken      string    `json:"snap_token"`
	RedirectURL    string    `json:"redirect_url"`
	CreatedAt      time.Time `json:"created_at"`
	UpdatedAt      time.Time `json:"updated_at"`
}
