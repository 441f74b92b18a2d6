package checkoutControllers

import (
	"crypto/rand"
	"errors"
	"fmt"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/wildanhniif/toco-api/models"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

var (
	ErrNoSelectedItems   = errors.New("no items selected for checkout")
	ErrNoAddress         = errors.New("no delivery address selected")
	ErrNoShipping        = errors.New("shipping not selected for every store")
	ErrInsufficientStock = errors.New("insufficient stock")
)

// CreatedOrder is the per-store summary returned after checkout.
type CreatedOrder struct {
	ID          uint    `json:"id"`
	OrderCode   string  `json:"order_code"`
	StoreID     uint    `json:"store_id"`
	StoreName   string  `json:"store_name"`
	TotalAmount float64 `json:"total_amount"`
}

const base36 = "0123456789abcdefghijklmnopqrstuvwxyz"

// generateOrderCode produces TC{YY}{MM}{DD}-{4 random base36 chars}. The
// random tail is short, so order_code carries a unique index and callers
// regenerate on a duplicate-key insert.
func generateOrderCode(now time.Time) string {
	buf := make([]byte, 4)
	if _, err := rand.Read(buf); err != nil {
		// crypto/rand only fails when the OS entropy source is broken
		buf = []byte{byte(now.UnixNano()), byte(now.UnixNano() >> 8), byte(now.UnixNano() >> 16), byte(now.UnixNano() >> 24)}
	}
	tail := make([]byte, 4)
	for i, b := range buf {
		tail[i] = base36[int(b)%len(base36)]
	}
	return fmt.Sprintf("TC%s-%s", now.Format("060102"), tail)
}

// swappable in tests to force code collisions
var newOrderCode = generateOrderCode

// lockForUpdate adds a row lock on dialects that support it. SQLite (used by
// the test suite) has no FOR UPDATE and a single-writer model.
func lockForUpdate(tx *gorm.DB) *gorm.DB {
	if tx.Dialector.Name() == "postgres" {
		return tx.Clauses(clause.Locking{Strength: "UPDATE"})
	}
	return tx
}

// Checkout turns the cart's selected items into one order per store, all
// inside a single transaction. Stock is re-checked under a row lock; any
// shortfall aborts the whole multi-store checkout.
func Checkout(db *gorm.DB, userID string) ([]CreatedOrder, error) {
	var created []CreatedOrder

	err := db.Transaction(func(tx *gorm.DB) error {
		var cart models.Cart
		if err := tx.Where("user_id = ?", userID).First(&cart).Error; err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return ErrNoSelectedItems
			}
			return err
		}

		var items []models.CartItem
		if err := tx.Where("cart_id = ? AND selected = ?", cart.ID, true).
			Order("added_at").Find(&items).Error; err != nil {
			return err
		}
		if len(items) == 0 {
			return ErrNoSelectedItems
		}
		if cart.SelectedAddressID == nil {
			return ErrNoAddress
		}

		var address models.Address
		if err := tx.Where("id = ? AND user_id = ?", *cart.SelectedAddressID, userID).First(&address).Error; err != nil {
			return ErrNoAddress
		}

		// Partition by store, preserving add order.
		groups := make(map[uint][]models.CartItem)
		var storeOrder []uint
		for _, item := range items {
			if _, ok := groups[item.StoreID]; !ok {
				storeOrder = append(storeOrder, item.StoreID)
			}
			groups[item.StoreID] = append(groups[item.StoreID], item)
		}

		var selections []models.CartShippingSelection
		if err := tx.Where("cart_id = ?", cart.ID).Find(&selections).Error; err != nil {
			return err
		}
		shippingByStore := make(map[uint]models.CartShippingSelection, len(selections))
		for _, s := range selections {
			shippingByStore[s.StoreID] = s
		}
		for _, storeID := range storeOrder {
			if _, ok := shippingByStore[storeID]; !ok {
				return ErrNoShipping
			}
		}

		var cartVoucher models.CartVoucher
		hasVoucher := tx.Where("cart_id = ?", cart.ID).First(&cartVoucher).Error == nil

		now := time.Now()
		for _, storeID := range storeOrder {
			group := groups[storeID]

			var subtotal float64
			var orderItems []models.OrderItem
			for _, item := range group {
				// Re-check live stock under lock; add-time checks don't count.
				if item.SKUID != nil {
					var sku models.ProductSKU
					if err := lockForUpdate(tx).First(&sku, *item.SKUID).Error; err != nil {
						if errors.Is(err, gorm.ErrRecordNotFound) {
							return fmt.Errorf("%w for %s", ErrInsufficientStock, item.ProductName)
						}
						return err
					}
					if sku.Stock < item.Quantity {
						return fmt.Errorf("%w for %s", ErrInsufficientStock, item.ProductName)
					}
					sku.Stock -= item.Quantity
					if err := tx.Save(&sku).Error; err != nil {
						return err
					}
				} else {
					var product models.Product
					if err := lockForUpdate(tx).First(&product, item.ProductID).Error; err != nil {
						if errors.Is(err, gorm.ErrRecordNotFound) {
							return fmt.Errorf("%w for %s", ErrInsufficientStock, item.ProductName)
						}
						return err
					}
					if product.Stock < item.Quantity {
						return fmt.Errorf("%w for %s", ErrInsufficientStock, item.ProductName)
					}
					product.Stock -= item.Quantity
					if err := tx.Save(&product).Error; err != nil {
						return err
					}
				}

				lineTotal := item.UnitPrice * float64(item.Quantity)
				subtotal += lineTotal
				orderItems = append(orderItems, models.OrderItem{
					ProductID:    item.ProductID,
					SKUID:        item.SKUID,
					ProductName:  item.ProductName,
					VariantName:  item.VariantName,
					ProductImage: item.ProductImage,
					UnitPrice:    item.UnitPrice,
					Weight:       item.Weight,
					Quantity:     item.Quantity,
					TotalPrice:   lineTotal,
				})
			}

			shipping := shippingByStore[storeID]

			// Store-scoped vouchers discount only their own store's order.
			var discount float64
			if hasVoucher && cartVoucher.StoreID == storeID {
				discount = cartVoucher.Discount
				if discount > subtotal {
					discount = subtotal
				}
			}

			total := subtotal + shipping.Fee - discount
			if total < 0 {
				total = 0
			}

			order := models.Order{
				UserID:          userID,
				StoreID:         storeID,
				Items:           orderItems,
				Subtotal:        subtotal,
				ShippingFee:     shipping.Fee,
				VoucherDiscount: discount,
				TotalAmount:     total,
				Status:          models.OrderStatusPendingUnpaid,
				PaymentStatus:   models.PaymentStatusUnpaid,
				CreatedAt:       now,
			}
			if err := createWithFreshCode(tx, &order, now); err != nil {
				return err
			}

			orderShipping := models.OrderShipping{
				OrderID:     order.ID,
				Recipient:   address.Recipient,
				Phone:       address.Phone,
				Province:    address.Province,
				City:        address.City,
				District:    address.District,
				PostalCode:  address.PostalCode,
				Street:      address.Street,
				CourierCode: shipping.CourierCode,
				Service:     shipping.Service,
				Fee:         shipping.Fee,
				ETD:         shipping.ETD,
			}
			if err := tx.Create(&orderShipping).Error; err != nil {
				return err
			}

			if discount > 0 {
				usage := models.VoucherUsage{
					VoucherID: cartVoucher.VoucherID,
					OrderID:   order.ID,
					UserID:    userID,
					UsedAt:    now,
				}
				// A duplicate usage row means this redemption is already
				// recorded; ignore it.
				if err := tx.Create(&usage).Error; err == nil {
					tx.Model(&models.Voucher{}).Where("id = ?", cartVoucher.VoucherID).
						UpdateColumn("used_count", gorm.Expr("used_count + 1"))
				}
			}

			statusLog := models.OrderStatusLog{
				OrderID:   order.ID,
				To:        models.OrderStatusPendingUnpaid,
				Note:      "order created",
				CreatedAt: now,
			}
			if err := tx.Create(&statusLog).Error; err != nil {
				return err
			}

			var store models.Store
			if err := tx.Select("id", "name").First(&store, storeID).Error; err != nil {
				return err
			}
			created = append(created, CreatedOrder{
				ID:          order.ID,
				OrderCode:   order.OrderCode,
				StoreID:     storeID,
				StoreName:   store.Name,
				TotalAmount: total,
			})
		}

		// Clear the checked-out slice of the cart.
		if err := tx.Where("cart_id = ? AND selected = ?", cart.ID, true).Delete(&models.CartItem{}).Error; err != nil {
			return err
		}
		if err := tx.Where("cart_id = ?", cart.ID).Delete(&models.CartShippingSelection{}).Error; err != nil {
			return err
		}
		if err := tx.Where("cart_id = ?", cart.ID).Delete(&models.CartVoucher{}).Error; err != nil {
			return err
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	return created, nil
}

// createWithFreshCode inserts the order, regenerating the code when the
// unique index rejects it. Five collisions in a row means something is very
// wrong with the entropy source, not the odds.
func createWithFreshCode(tx *gorm.DB, order *models.Order, now time.Time) error {
	for attempt := 0; attempt < 5; attempt++ {
		order.OrderCode = newOrderCode(now)
		// Savepoint so a duplicate-key insert doesn't poison the
		// surrounding transaction on postgres.
		if err := tx.SavePoint("order_code").Error; err != nil {
			return err
		}
		err := tx.Create(order).Error
		if err == nil {
			return nil
		}
		if !errors.Is(err, gorm.ErrDuplicatedKey) {
			return err
		}
		if err := tx.RollbackTo("order_code").Error; err != nil {
			return err
		}
		order.ID = 0
	}
	return errors.New("could not generate a unique order code")
}

// POST /api/checkout
func CheckoutHandler(db *gorm.DB) gin.HandlerFunc {
	return func(c *gin.Context) {
		userIDVal, exists := c.Get("user_id")
		if !exists {
			c.JSON(http.StatusUnauthorized, gin.H{"message": "Unauthorized"})
			return
		}
		userID := userIDVal.(string)

		orders, err := Checkout(db, userID)
		if err != nil {
			switch {
			case errors.Is(err, ErrNoSelectedItems), errors.Is(err, ErrNoAddress),
				errors.Is(err, ErrNoShipping), errors.Is(err, ErrInsufficientStock):
				c.JSON(http.StatusBadRequest, gin.H{"message": err.Error()})
			default:
				c.JSON(http.StatusInternalServerError, gin.H{"message": "Server Error"})
			}
			return
		}
		c.JSON(http.StatusCreated, gin.H{"message": "Checkout successful", "orders": orders})
	}
}
