package models

import "time"

type OrderStatus string
type PaymentStatus string

const (
	// Order statuses
	OrderStatusPendingUnpaid OrderStatus = "pending_unpaid" // created, awaiting payment
	OrderStatusNew           OrderStatus = "new"            // paid, awaiting seller confirmation
	OrderStatusProcessing    OrderStatus = "processing"     // seller preparing shipment
	OrderStatusShipped       OrderStatus = "shipped"
	OrderStatusDelivered     OrderStatus = "delivered"
	OrderStatusDone          OrderStatus = "done"
	OrderStatusCancelled     OrderStatus = "cancelled"

	// Payment statuses on the order
	PaymentStatusUnpaid   PaymentStatus = "unpaid"
	PaymentStatusPaid     PaymentStatus = "paid"
	PaymentStatusFailed   PaymentStatus = "failed"
	PaymentStatusRefunded PaymentStatus = "refunded"
)

type Order struct {
	ID              uint          `gorm:"primaryKey" json:"id"`
	OrderCode       string        `gorm:"uniqueIndex;not null" json:"order_code"`
	UserID          string        `gorm:"index;not null" json:"user_id"`
	StoreID         uint          `gorm:"index;not null" json:"store_id"`
	Store           Store         `gorm:"foreignKey:StoreID" json:"store"`
	Items           []OrderItem   `gorm:"foreignKey:OrderID;constraint:OnDelete:CASCADE" json:"items"`
	Shipping        OrderShipping `gorm:"foreignKey:OrderID;constraint:OnDelete:CASCADE" json:"shipping"`
	Subtotal        float64       `json:"subtotal"`
	ShippingFee     float64       `json:"shipping_fee"`
	VoucherDiscount float64       `json:"voucher_discount"`
	TotalAmount     float64       `json:"total_amount"`
	Status          OrderStatus   `gorm:"type:VARCHAR(20);default:'pending_unpaid'" json:"status"`
	PaymentStatus   PaymentStatus `gorm:"type:VARCHAR(20);default:'unpaid'" json:"payment_status"`
	CreatedAt       time.Time     `json:"created_at"`
	UpdatedAt       time.Time     `json:"updated_at"`
}

// OrderItem freezes the cart line at order-creation time.
type OrderItem struct {
	ID           uint    `gorm:"primaryKey" json:"id"`
	OrderID      uint    `gorm:"index" json:"order_id"`
	ProductID    uint    `json:"product_id"`
	SKUID        *uint   `json:"sku_id"`
	ProductName  string  `json:"product_name"`
	VariantName  string  `json:"variant_name"`
	ProductImage string  `json:"product_image"`
	UnitPrice    float64 `json:"unit_price"`
	Weight       float64 `json:"weight"`
	Quantity     int     `json:"quantity"`
	TotalPrice   float64 `json:"total_price"`
}

// OrderShipping snapshots the destination so later address-book edits don't
// change where a placed order ships.
type OrderShipping struct {
	ID          uint    `gorm:"primaryKey" json:"id"`
	OrderID     uint    `gorm:"uniqueIndex" json:"order_id"`
	Recipient   string  `json:"recipient"`
	Phone       string  `json:"phone"`
	Province    string  `json:"province"`
	City        string  `json:"city"`
	District    string  `json:"district"`
	PostalCode  string  `json:"postal_code"`
	Street      string  `json:"street"`
	CourierCode string  `json:"courier_code"`
	Service     string  `json:"service"`
	Fee         float64 `json:"fee"`
	ETD         string  `json:"etd"`
}

// OrderStatusLog is the append-only audit trail of status transitions.
type OrderStatusLog struct {
	ID        uint        `gorm:"primaryKey" json:"id"`
	OrderID   uint        `gorm:"index" json:"order_id"`
	From      OrderStatus `gorm:"column:from_status;type:VARCHAR(20)" json:"from"`
	To        OrderStatus `gorm:"column:to_status;type:VARCHAR(20)" json:"to"`
	Note      string      `json:"note"`
	CreatedAt time.Time   `json:"created_at"`
}
