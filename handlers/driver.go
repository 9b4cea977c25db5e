package handlers

import (
	"net/http"

	"dosakart-api/config"
	"dosakart-api/middleware"
	"dosakart-api/models"
	"dosakart-api/statemachine"

	"github.com/gin-gonic/gin"
	"golang.org/x/crypto/bcrypt"
)

// GetAvailableOrders shows PACKED orders that have no driver assigned
func GetAvailableOrders(c *gin.Context) {
	var orders []models.Order
	config.DB.Preload("Customer").
		Where("status = ? AND driver_id IS NULL", models.StatusPacked).
		Order("created_at asc").
		Find(&orders)
	c.JSON(http.StatusOK, gin.H{
		"count":  len(orders),
		"orders": orders,
	})
}

// GetMyDeliveries returns all orders assigned to the logged-in driver
func GetMyDeliveries(c *gin.Context) {
	driverID := middleware.GetUserID(c)
	var orders []models.Order
	config.DB.Preload("Items.Product").Preload("Customer").
		Where("driver_id = ?", driverID).
		Order("updated_at desc").
		Find(&orders)
	c.JSON(http.StatusOK, gin.H{"count": len(orders), "orders": orders})
}

// PickupOrder assigns the order to the driver and transitions
// PACKED → OUT_FOR_DELIVERY
func PickupOrder(c *gin.Context) {
	driverID := middleware.GetUserID(c)

	var order models.Order
	if err := config.DB.First(&order, c.Param("id")).Error; err != nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "Order not found"})
		return
	}

	// Prevent two drivers taking the same order
	if order.DriverID != nil {
		c.JSON(http.StatusConflict, gin.H{"error": "Order has already been taken by another driver"})
		return
	}

	if err := statemachine.CanTransition(order.Status, models.StatusOutForDelivery, "driver"); err != nil {
		c.JSON(http.StatusUnprocessableEntity, gin.H{
			"error":             "Invalid state transition",
			"current_status":    order.Status,
			"reason":            err.Error(),
			"valid_next_states": statemachine.ValidTransitionsFrom(order.Status),
		})
		return
	}

	prevStatus := order.Status
	config.DB.Model(&order).Updates(map[string]interface{}{
		"status":    models.StatusOutForDelivery,
		"driver_id": driverID,
	})

	history := models.OrderStatusHistory{
		OrderID:    order.ID,
		FromStatus: prevStatus,
		ToStatus:   models.StatusOutForDelivery,
		ChangedBy:  driverID,
		Note:       "Driver took the order out for delivery",
	}
	config.DB.Create(&history)

	c.JSON(http.StatusOK, gin.H{
		"message":  "Order is out for delivery",
		"order_id": order.ID,
		"status":   models.StatusOutForDelivery,
	})
}

type DeliverRequest struct {
	PIN string `json:"pin" binding:"required"`
}

// DeliverOrder transitions OUT_FOR_DELIVERY → DELIVERED. The driver must
// present the handover PIN the customer received at checkout.
func DeliverOrder(c *gin.Context) {
	driverID := middleware.GetUserID(c)

	var req DeliverRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Delivery PIN is required"})
		return
	}

	var order models.Order
	if err := config.DB.First(&order, c.Param("id")).Error; err != nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "Order not found"})
		return
	}

	if order.DriverID == nil || *order.DriverID != driverID {
		c.JSON(http.StatusForbidden, gin.H{"error": "You are not the assigned driver for this order"})
		return
	}

	if err := statemachine.CanTransition(order.Status, models.StatusDelivered, "driver"); err != nil {
		c.JSON(http.StatusUnprocessableEntity, gin.H{
			"error":          "Invalid state transition",
			"current_status": order.Status,
			"reason":         err.Error(),
		})
		return
	}

	if err := bcrypt.CompareHashAndPassword([]byte(order.DeliveryPINHash), []byte(req.PIN)); err != nil {
		middleware.Logger(c).Warn("delivery PIN mismatch", "order_id", order.ID, "driver_id", driverID)
		c.JSON(http.StatusForbidden, gin.H{"error": "Incorrect delivery PIN"})
		return
	}

	prevStatus := order.Status
	config.DB.Model(&order).Update("status", models.StatusDelivered)

	history := models.OrderStatusHistory{
		OrderID:    order.ID,
		FromStatus: prevStatus,
		ToStatus:   models.StatusDelivered,
		ChangedBy:  driverID,
		Note:       "Order delivered to customer",
	}
	config.DB.Create(&history)

	c.JSON(http.StatusOK, gin.H{
		"message":  "Order delivered successfully",
		"order_id": order.ID,
		"status":   models.StatusDelivered,
	})
}
