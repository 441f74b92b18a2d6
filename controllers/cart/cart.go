package cartControllers

import (
	"errors"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/wildanhniif/toco-api/models"
	"gorm.io/gorm"
)

type AddItemInput struct {
	ProductID uint  `json:"product_id" binding:"required"`
	SKUID     *uint `json:"sku_id"`
	Quantity  int   `json:"quantity" binding:"required,min=1"`
}

type UpdateItemInput struct {
	Quantity *int  `json:"quantity"`
	Selected *bool `json:"selected"`
}

type BulkSelectInput struct {
	ItemIDs  []uint `json:"item_ids" binding:"required"`
	Selected bool   `json:"selected"`
}

func currentUserID(c *gin.Context) (string, bool) {
	userIDVal, exists := c.Get("user_id")
	if !exists {
		c.JSON(http.StatusUnauthorized, gin.H{"message": "Unauthorized"})
		return "", false
	}
	userID, ok := userIDVal.(string)
	if !ok || userID == "" {
		c.JSON(http.StatusUnauthorized, gin.H{"message": "Unauthorized"})
		return "", false
	}
	return userID, true
}

// GetOrCreateCart returns the user's cart, creating it on first access. The
// select-then-insert runs inside a transaction so two concurrent first
// requests can't produce duplicate carts.
func GetOrCreateCart(db *gorm.DB, userID string) (*models.Cart, error) {
	var cart models.Cart
	err := db.Transaction(func(tx *gorm.DB) error {
		err := tx.Where("user_id = ?", userID).First(&cart).Error
		if errors.Is(err, gorm.ErrRecordNotFound) {
			cart = models.Cart{UserID: userID}
			return tx.Create(&cart).Error
		}
		return err
	})
	if err != nil {
		return nil, err
	}
	return &cart, nil
}

// StoreGroup is one store's slice of the cart as returned to the client.
type StoreGroup struct {
	StoreID     uint              `json:"store_id"`
	StoreName   string            `json:"store_name"`
	Items       []models.CartItem `json:"items"`
	Subtotal    float64           `json:"subtotal"`
	ShippingFee float64           `json:"shipping_fee"`
}

type CartResponse struct {
	CartID            uint                `json:"cart_id"`
	SelectedAddressID *uint               `json:"selected_address_id"`
	Groups            []StoreGroup        `json:"groups"`
	Voucher           *models.CartVoucher `json:"voucher"`
	Subtotal          float64             `json:"subtotal"`
	ShippingTotal     float64             `json:"shipping_total"`
	Discount          float64             `json:"discount"`
	Total             float64             `json:"total"`
}

// BuildCartResponse sums unit_price * quantity over selected items, grouped
// by store, plus each store's stored shipping fee and the attached voucher.
func BuildCartResponse(db *gorm.DB, cart *models.Cart) (*CartResponse, error) {
	var items []models.CartItem
	if err := db.Where("cart_id = ?", cart.ID).Order("added_at").Find(&items).Error; err != nil {
		return nil, err
	}

	var selections []models.CartShippingSelection
	if err := db.Where("cart_id = ?", cart.ID).Find(&selections).Error; err != nil {
		return nil, err
	}
	feeByStore := make(map[uint]float64, len(selections))
	for _, s := range selections {
		feeByStore[s.StoreID] = s.Fee
	}

	grouped := make(map[uint]*StoreGroup)
	var order []uint
	for _, item := range items {
		g, ok := grouped[item.StoreID]
		if !ok {
			g = &StoreGroup{StoreID: item.StoreID}
			grouped[item.StoreID] = g
			order = append(order, item.StoreID)
		}
		g.Items = append(g.Items, item)
		if item.Selected {
			g.Subtotal += item.UnitPrice * float64(item.Quantity)
		}
	}

	resp := &CartResponse{CartID: cart.ID, SelectedAddressID: cart.SelectedAddressID}
	for _, storeID := range order {
		g := grouped[storeID]
		var store models.Store
		if err := db.Select("id", "name").First(&store, storeID).Error; err == nil {
			g.StoreName = store.Name
		}
		if g.Subtotal > 0 {
			g.ShippingFee = feeByStore[storeID]
		}
		resp.Subtotal += g.Subtotal
		resp.ShippingTotal += g.ShippingFee
		resp.Groups = append(resp.Groups, *g)
	}

	var voucher models.CartVoucher
	if err := db.Where("cart_id = ?", cart.ID).First(&voucher).Error; err == nil {
		resp.Voucher = &voucher
		resp.Discount = voucher.Discount
	}

	resp.Total = resp.Subtotal + resp.ShippingTotal - resp.Discount
	if resp.Total < 0 {
		resp.Total = 0
	}
	return resp, nil
}

// GET /api/cart
func GetCart(db *gorm.DB) gin.HandlerFunc {
	return func(c *gin.Context) {
		userID, ok := currentUserID(c)
		if !ok {
			return
		}
		cart, err := GetOrCreateCart(db, userID)
		if err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"message": "Failed to fetch cart"})
			return
		}
		resp, err := BuildCartResponse(db, cart)
		if err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"message": "Failed to fetch cart"})
			return
		}
		c.JSON(http.StatusOK, resp)
	}
}

// POST /api/cart/items
func AddItem(db *gorm.DB) gin.HandlerFunc {
	return func(c *gin.Context) {
		userID, ok := currentUserID(c)
		if !ok {
			return
		}
		var input AddItemInput
		if err := c.ShouldBindJSON(&input); err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"message": "Invalid input: " + err.Error()})
			return
		}

		var product models.Product
		if err := db.First(&product, input.ProductID).Error; err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				c.JSON(http.StatusNotFound, gin.H{"message": "Product not found"})
				return
			}
			c.JSON(http.StatusInternalServerError, gin.H{"message": "Failed to validate product"})
			return
		}

		// Snapshot fields come from the SKU when one is chosen.
		price := product.Price
		weight := product.Weight
		variant := ""
		if input.SKUID != nil {
			var sku models.ProductSKU
			if err := db.Where("id = ? AND product_id = ?", *input.SKUID, product.ID).First(&sku).Error; err != nil {
				c.JSON(http.StatusNotFound, gin.H{"message": "SKU not found"})
				return
			}
			if sku.Price > 0 {
				price = sku.Price
			}
			variant = sku.Variant + ": " + sku.Value
		}
		image := ""
		var firstImage models.ProductImage
		if err := db.Where("product_id = ?", product.ID).Order("position").First(&firstImage).Error; err == nil {
			image = firstImage.URL
		}

		cart, err := GetOrCreateCart(db, userID)
		if err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"message": "Failed to fetch cart"})
			return
		}

		// Same product+SKU already in the cart bumps the quantity.
		var item models.CartItem
		query := db.Where("cart_id = ? AND product_id = ?", cart.ID, product.ID)
		if input.SKUID != nil {
			query = query.Where("sku_id = ?", *input.SKUID)
		} else {
			query = query.Where("sku_id IS NULL")
		}
		err = query.First(&item).Error
		if errors.Is(err, gorm.ErrRecordNotFound) {
			item = models.CartItem{
				CartID:       cart.ID,
				StoreID:      product.StoreID,
				ProductID:    product.ID,
				SKUID:        input.SKUID,
				ProductName:  product.Name,
				VariantName:  variant,
				ProductImage: image,
				UnitPrice:    price,
				Weight:       weight,
				Quantity:     input.Quantity,
				Selected:     true,
				AddedAt:      time.Now(),
			}
			if err := db.Create(&item).Error; err != nil {
				c.JSON(http.StatusInternalServerError, gin.H{"message": "Failed to add item to cart"})
				return
			}
			c.JSON(http.StatusCreated, item)
			return
		}
		if err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"message": "Failed to fetch cart item"})
			return
		}

		item.Quantity += input.Quantity
		item.AddedAt = time.Now()
		if err := db.Save(&item).Error; err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"message": "Failed to update cart item"})
			return
		}
		c.JSON(http.StatusOK, item)
	}
}

// PATCH /api/cart/items/:id
func UpdateItem(db *gorm.DB) gin.HandlerFunc {
	return func(c *gin.Context) {
		userID, ok := currentUserID(c)
		if !ok {
			return
		}
		var input UpdateItemInput
		if err := c.ShouldBindJSON(&input); err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"message": "Invalid input: " + err.Error()})
			return
		}
		if input.Quantity != nil && *input.Quantity < 1 {
			c.JSON(http.StatusBadRequest, gin.H{"message": "Quantity must be at least 1"})
			return
		}

		var cart models.Cart
		if err := db.Where("user_id = ?", userID).First(&cart).Error; err != nil {
			c.JSON(http.StatusNotFound, gin.H{"message": "Cart not found"})
			return
		}

		var item models.CartItem
		if err := db.Where("id = ? AND cart_id = ?", c.Param("id"), cart.ID).First(&item).Error; err != nil {
			c.JSON(http.StatusNotFound, gin.H{"message": "Cart item not found"})
			return
		}

		if input.Quantity != nil {
			item.Quantity = *input.Quantity
		}
		if input.Selected != nil {
			item.Selected = *input.Selected
		}
		if err := db.Save(&item).Error; err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"message": "Failed to update cart item"})
			return
		}
		c.JSON(http.StatusOK, item)
	}
}

// DELETE /api/cart/items/:id
func DeleteItem(db *gorm.DB) gin.HandlerFunc {
	return func(c *gin.Context) {
		userID, ok := currentUserID(c)
		if !ok {
			return
		}
		var cart models.Cart
		if err := db.Where("user_id = ?", userID).First(&cart).Error; err != nil {
			c.JSON(http.StatusNotFound, gin.H{"message": "Cart not found"})
			return
		}
		result := db.Where("id = ? AND cart_id = ?", c.Param("id"), cart.ID).Delete(&models.CartItem{})
		if result.Error != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"message": "Failed to delete item"})
			return
		}
		if result.RowsAffected == 0 {
			c.JSON(http.StatusNotFound, gin.H{"message": "Cart item not found"})
			return
		}
		c.JSON(http.StatusOK, gin.H{"message": "Cart item deleted"})
	}
}

// POST /api/cart/items/select
func BulkSelect(db *gorm.DB) gin.HandlerFunc {
	return func(c *gin.Context) {
		userID, ok := currentUserID(c)
		if !ok {
			return
		}
		var input BulkSelectInput
		if err := c.ShouldBindJSON(&input); err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"message": "Invalid input: " + err.Error()})
			return
		}
		var cart models.Cart
		if err := db.Where("user_id = ?", userID).First(&cart).Error; err != nil {
			c.JSON(http.StatusNotFound, gin.H{"message": "Cart not found"})
			return
		}
		if err := db.Model(&models.CartItem{}).
			Where("cart_id = ? AND id IN ?", cart.ID, input.ItemIDs).
			Update("selected", input.Selected).Error; err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"message": "Failed to update selection"})
			return
		}
		c.JSON(http.StatusOK, gin.H{"message": "Selection updated"})
	}
}
