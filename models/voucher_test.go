package models

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func floatPtr(v float64) *float64 { return &v }

func TestDiscountFor(t *testing.T) {
	tests := []struct {
		name     string
		voucher  Voucher
		subtotal float64
		want     float64
	}{
		{
			name:     "fixed discount",
			voucher:  Voucher{Type: VoucherFixed, Value: 10000},
			subtotal: 100000,
			want:     10000,
		},
		{
			name:     "fixed discount clamped to subtotal",
			voucher:  Voucher{Type: VoucherFixed, Value: 50000},
			subtotal: 30000,
			want:     30000,
		},
		{
			name:     "percent discount",
			voucher:  Voucher{Type: VoucherPercent, Value: 10},
			subtotal: 250000,
			want:     25000,
		},
		{
			name:     "percent discount capped by max_discount",
			voucher:  Voucher{Type: VoucherPercent, Value: 50, MaxDiscount: floatPtr(20000)},
			subtotal: 100000,
			want:     20000,
		},
		{
			name:     "fractional percent has no float drift",
			voucher:  Voucher{Type: VoucherPercent, Value: 2.5},
			subtotal: 99999,
			want:     2499.98,
		},
		{
			name:     "zero subtotal yields zero",
			voucher:  Voucher{Type: VoucherPercent, Value: 10},
			subtotal: 0,
			want:     0,
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := tt.voucher.DiscountFor(tt.subtotal)
			assert.Equal(t, tt.want, got)
			// invariant: 0 <= discount <= min(subtotal, max_discount)
			assert.GreaterOrEqual(t, got, 0.0)
			assert.LessOrEqual(t, got, tt.subtotal)
			if tt.voucher.MaxDiscount != nil {
				assert.LessOrEqual(t, got, *tt.voucher.MaxDiscount)
			}
		})
	}
}

func TestResolvable(t *testing.T) {
	now := time.Date(2026, 3, 15, 12, 0, 0, 0, time.UTC)
	base := Voucher{
		Type:           VoucherFixed,
		Value:          5000,
		MinOrderAmount: 50000,
		Quota:          10,
		PerUserLimit:   1,
		IsActive:       true,
		StartAt:        now.Add(-time.Hour),
		EndAt:          now.Add(time.Hour),
	}

	t.Run("valid voucher resolves", func(t *testing.T) {
		v := base
		require.NoError(t, v.Resolvable(60000, now, 0))
	})

	t.Run("inactive", func(t *testing.T) {
		v := base
		v.IsActive = false
		assert.ErrorIs(t, v.Resolvable(60000, now, 0), ErrVoucherInactive)
	})

	t.Run("before window", func(t *testing.T) {
		v := base
		assert.ErrorIs(t, v.Resolvable(60000, now.Add(-2*time.Hour), 0), ErrVoucherWindow)
	})

	t.Run("after window", func(t *testing.T) {
		v := base
		assert.ErrorIs(t, v.Resolvable(60000, now.Add(2*time.Hour), 0), ErrVoucherWindow)
	})

	t.Run("below min order", func(t *testing.T) {
		v := base
		assert.ErrorIs(t, v.Resolvable(49999, now, 0), ErrVoucherMinOrder)
	})

	t.Run("quota exhausted", func(t *testing.T) {
		v := base
		v.UsedCount = 10
		assert.ErrorIs(t, v.Resolvable(60000, now, 0), ErrVoucherQuota)
	})

	t.Run("per-user limit reached", func(t *testing.T) {
		v := base
		assert.ErrorIs(t, v.Resolvable(60000, now, 1), ErrVoucherUserLimit)
	})

	t.Run("zero quota means unlimited", func(t *testing.T) {
		v := base
		v.Quota = 0
		v.UsedCount = 100000
		require.NoError(t, v.Resolvable(60000, now, 0))
	})
}
