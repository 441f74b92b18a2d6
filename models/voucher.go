package models

import (
	"errors"
	"time"

	"github.com/shopspring/decimal"
)

type VoucherType string

const (
	VoucherPercent VoucherType = "percent"
	VoucherFixed   VoucherType = "fixed"
)

var (
	ErrVoucherInactive  = errors.New("voucher is not active")
	ErrVoucherWindow    = errors.New("voucher is outside its validity window")
	ErrVoucherMinOrder  = errors.New("order subtotal below voucher minimum")
	ErrVoucherQuota     = errors.New("voucher quota exhausted")
	ErrVoucherUserLimit = errors.New("voucher usage limit reached for this user")
)

type Voucher struct {
	ID             uint        `gorm:"primaryKey" json:"id"`
	StoreID        uint        `gorm:"index" json:"store_id"`
	Code           string      `gorm:"uniqueIndex;not null" json:"code"`
	Type           VoucherType `gorm:"type:VARCHAR(10);not null" json:"type"`
	Value          float64     `gorm:"not null" json:"value"` // percent points or fixed amount
	MaxDiscount    *float64    `json:"max_discount"`
	MinOrderAmount float64     `json:"min_order_amount"`
	Quota          int         `json:"quota"`
	UsedCount      int         `json:"used_count"`
	PerUserLimit   int         `gorm:"default:1" json:"per_user_limit"`
	IsActive       bool        `gorm:"default:true" json:"is_active"`
	StartAt        time.Time   `json:"start_at"`
	EndAt          time.Time   `json:"end_at"`
	CreatedAt      time.Time   `json:"created_at"`
	UpdatedAt      time.Time   `json:"updated_at"`
}

// VoucherUsage records one redemption. The unique index makes a duplicate
// insert for the same order a no-op at the call site.
type VoucherUsage struct {
	ID        uint      `gorm:"primaryKey" json:"id"`
	VoucherID uint      `gorm:"index:idx_voucher_order,unique" json:"voucher_id"`
	OrderID   uint      `gorm:"index:idx_voucher_order,unique" json:"order_id"`
	UserID    string    `gorm:"index" json:"user_id"`
	UsedAt    time.Time `json:"used_at"`
}

// Resolvable reports whether the voucher can be applied to an order of the
// given subtotal at time now. usedByUser is this user's prior redemption count.
func (v *Voucher) Resolvable(subtotal float64, now time.Time, usedByUser int64) error {
	if !v.IsActive {
		return ErrVoucherInactive
	}
	if now.Before(v.StartAt) || now.After(v.EndAt) {
		return ErrVoucherWindow
	}
	if subtotal < v.MinOrderAmount {
		return ErrVoucherMinOrder
	}
	if v.Quota > 0 && v.UsedCount >= v.Quota {
		return ErrVoucherQuota
	}
	if v.PerUserLimit > 0 && usedByUser >= int64(v.PerUserLimit) {
		return ErrVoucherUserLimit
	}
	return nil
}

// DiscountFor computes the discount for a subtotal: the raw value (fixed
// amount, or percent of subtotal), capped by MaxDiscount when set, clamped
// to [0, subtotal]. Percent math runs through decimal so fractional rates
// don't pick up float error.
func (v *Voucher) DiscountFor(subtotal float64) float64 {
	sub := decimal.NewFromFloat(subtotal)
	var raw decimal.Decimal
	switch v.Type {
	case VoucherPercent:
		raw = sub.Mul(decimal.NewFromFloat(v.Value)).Div(decimal.NewFromInt(100))
	default:
		raw = decimal.NewFromFloat(v.Value)
	}
	if v.MaxDiscount != nil {
		if cap := decimal.NewFromFloat(*v.MaxDiscount); raw.GreaterThan(cap) {
			raw = cap
		}
	}
	if raw.GreaterThan(sub) {
		raw = sub
	}
	if raw.IsNegative() {
		return 0
	}
	f, _ := raw.Round(2).Float64()
	return f
}
