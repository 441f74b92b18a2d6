package orderControllers

import (
	"errors"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/wildanhniif/toco-api/models"
	"gorm.io/gorm"
)

type UpdateStatusInput struct {
	Status string `json:"status" binding:"required"`
	Note   string `json:"note"`
}

// allowedTransitions is the seller-driven part of the order lifecycle.
// Payment-driven transitions (pending_unpaid -> new / cancelled) come from
// the gateway webhook, not from here.
var allowedTransitions = map[models.OrderStatus][]models.OrderStatus{
	models.OrderStatusNew:        {models.OrderStatusProcessing, models.OrderStatusCancelled},
	models.OrderStatusProcessing: {models.OrderStatusShipped, models.OrderStatusCancelled},
	models.OrderStatusShipped:    {models.OrderStatusDelivered},
	models.OrderStatusDelivered:  {models.OrderStatusDone},
}

func canTransition(from, to models.OrderStatus) bool {
	for _, next := range allowedTransitions[from] {
		if next == to {
			return true
		}
	}
	return false
}

// ChangeStatus applies a validated transition, appends the audit log entry
// and notifies websocket subscribers. Runs inside its own transaction.
func ChangeStatus(db *gorm.DB, order *models.Order, to models.OrderStatus, note string) error {
	from := order.Status
	err := db.Transaction(func(tx *gorm.DB) error {
		if err := tx.Model(order).Updates(map[string]interface{}{"status": to}).Error; err != nil {
			return err
		}
		return tx.Create(&models.OrderStatusLog{
			OrderID:   order.ID,
			From:      from,
			To:        to,
			Note:      note,
			CreatedAt: time.Now(),
		}).Error
	})
	if err != nil {
		return err
	}
	order.Status = to
	BroadcastOrderUpdate(order)
	return nil
}

// GET /api/orders
func GetUserOrders(db *gorm.DB) gin.HandlerFunc {
	return func(c *gin.Context) {
		userIDVal, exists := c.Get("user_id")
		if !exists {
			c.JSON(http.StatusUnauthorized, gin.H{"message": "Unauthorized"})
			return
		}
		var orders []models.Order
		if err := db.Where("user_id = ?", userIDVal.(string)).
			Preload("Items").Preload("Shipping").Preload("Store").
			Order("created_at DESC").Find(&orders).Error; err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"message": "Server Error"})
			return
		}
		c.JSON(http.StatusOK, orders)
	}
}

// GET /api/orders/:code — accepts numeric id or order code.
func GetOrder(db *gorm.DB) gin.HandlerFunc {
	return func(c *gin.Context) {
		userIDVal, exists := c.Get("user_id")
		if !exists {
			c.JSON(http.StatusUnauthorized, gin.H{"message": "Unauthorized"})
			return
		}
		code := c.Param("code")

		var order models.Order
		err := db.Preload("Items").Preload("Shipping").Preload("Store").
			Where("(CAST(id AS TEXT) = ? OR order_code = ?) AND user_id = ?", code, code, userIDVal.(string)).
			First(&order).Error
		if errors.Is(err, gorm.ErrRecordNotFound) {
			c.JSON(http.StatusNotFound, gin.H{"message": "Order not found"})
			return
		}
		if err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"message": "Server Error"})
			return
		}

		var logs []models.OrderStatusLog
		db.Where("order_id = ?", order.ID).Order("created_at").Find(&logs)
		c.JSON(http.StatusOK, gin.H{"order": order, "status_logs": logs})
	}
}

// POST /api/orders/:code/cancel — buyer can cancel only while unpaid; stock
// goes back. Accepts numeric id or order code like GetOrder.
func CancelOrder(db *gorm.DB) gin.HandlerFunc {
	return func(c *gin.Context) {
		userIDVal, exists := c.Get("user_id")
		if !exists {
			c.JSON(http.StatusUnauthorized, gin.H{"message": "Unauthorized"})
			return
		}
		code := c.Param("code")

		var order models.Order
		if err := db.Preload("Items").
			Where("(CAST(id AS TEXT) = ? OR order_code = ?) AND user_id = ?", code, code, userIDVal.(string)).
			First(&order).Error; err != nil {
			c.JSON(http.StatusNotFound, gin.H{"message": "Order not found"})
			return
		}
		if order.Status != models.OrderStatusPendingUnpaid {
			c.JSON(http.StatusBadRequest, gin.H{"message": "Only unpaid orders can be cancelled"})
			return
		}

		err := db.Transaction(func(tx *gorm.DB) error {
			for _, item := range order.Items {
				if item.SKUID != nil {
					if err := tx.Model(&models.ProductSKU{}).Where("id = ?", *item.SKUID).
						UpdateColumn("stock", gorm.Expr("stock + ?", item.Quantity)).Error; err != nil {
						return err
					}
				} else {
					if err := tx.Model(&models.Product{}).Where("id = ?", item.ProductID).
						UpdateColumn("stock", gorm.Expr("stock + ?", item.Quantity)).Error; err != nil {
						return err
					}
				}
			}
			if err := tx.Model(&order).Update("status", models.OrderStatusCancelled).Error; err != nil {
				return err
			}
			return tx.Create(&models.OrderStatusLog{
				OrderID:   order.ID,
				From:      models.OrderStatusPendingUnpaid,
				To:        models.OrderStatusCancelled,
				Note:      "cancelled by buyer",
				CreatedAt: time.Now(),
			}).Error
		})
		if err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"message": "Server Error"})
			return
		}
		order.Status = models.OrderStatusCancelled
		BroadcastOrderUpdate(&order)
		c.JSON(http.StatusOK, gin.H{"message": "Order cancelled"})
	}
}

// sellerStore resolves the caller's store; seller routes only.
func sellerStore(db *gorm.DB, c *gin.Context) (*models.Store, bool) {
	userIDVal, exists := c.Get("user_id")
	if !exists {
		c.JSON(http.StatusUnauthorized, gin.H{"message": "Unauthorized"})
		return nil, false
	}
	var store models.Store
	if err := db.Where("user_id = ?", userIDVal.(string)).First(&store).Error; err != nil {
		c.JSON(http.StatusNotFound, gin.H{"message": "Store not found"})
		return nil, false
	}
	return &store, true
}

// GET /api/admin/orders — back-office view across all stores, protected by
// the admin API key rather than a JWT.
func GetAllOrders(db *gorm.DB) gin.HandlerFunc {
	return func(c *gin.Context) {
		query := db.Model(&models.Order{})
		if status := c.Query("status"); status != "" {
			query = query.Where("status = ?", status)
		}
		if storeID := c.Query("store_id"); storeID != "" {
			query = query.Where("store_id = ?", storeID)
		}
		var orders []models.Order
		if err := query.Preload("Items").Preload("Shipping").Preload("Store").
			Order("created_at DESC").Find(&orders).Error; err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"message": "Server Error"})
			return
		}
		c.JSON(http.StatusOK, orders)
	}
}

// GET /api/sellers/orders
func GetSellerOrders(db *gorm.DB) gin.HandlerFunc {
	return func(c *gin.Context) {
		store, ok := sellerStore(db, c)
		if !ok {
			return
		}
		query := db.Where("store_id = ?", store.ID)
		if status := c.Query("status"); status != "" {
			query = query.Where("status = ?", status)
		}
		var orders []models.Order
		if err := query.Preload("Items").Preload("Shipping").
			Order("created_at DESC").Find(&orders).Error; err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"message": "Server Error"})
			return
		}
		c.JSON(http.StatusOK, orders)
	}
}

// PUT /api/sellers/orders/:id/status
func UpdateOrderStatus(db *gorm.DB) gin.HandlerFunc {
	return func(c *gin.Context) {
		store, ok := sellerStore(db, c)
		if !ok {
			return
		}
		var input UpdateStatusInput
		if err := c.ShouldBindJSON(&input); err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"message": "Invalid input: " + err.Error()})
			return
		}

		var order models.Order
		if err := db.Where("id = ? AND store_id = ?", c.Param("id"), store.ID).First(&order).Error; err != nil {
			c.JSON(http.StatusNotFound, gin.H{"message": "Order not found"})
			return
		}

		to := models.OrderStatus(input.Status)
		if !canTransition(order.Status, to) {
			c.JSON(http.StatusBadRequest, gin.H{"message": "Invalid status transition"})
			return
		}
		if err := ChangeStatus(db, &order, to, input.Note); err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"message": "Failed to update order status"})
			return
		}
		c.JSON(http.StatusOK, gin.H{"message": "Order status updated", "status": to})
	}
}
