package handlers

import (
	"errors"
	"fmt"
	"math/rand/v2"
	"net/http"
	"time"

	"dosakart-api/config"
	"dosakart-api/middleware"
	"dosakart-api/models"
	"dosakart-api/statemachine"

	"github.com/gin-gonic/gin"
	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"
)

type cartItem struct {
	ProductID uint
	Quantity  int
}

// buildCart resolves products, snapshots names and prices, and sums the
// subtotal. Unavailable or unknown products reject the whole cart.
func buildCart(items []cartItem) ([]models.OrderItem, float64, error) {
	var orderItems []models.OrderItem
	var subtotal float64

	for _, it := range items {
		var product models.Product
		if err := config.DB.First(&product, it.ProductID).Error; err != nil {
			return nil, 0, fmt.Errorf("product %d not found", it.ProductID)
		}
		if !product.IsAvailable {
			return nil, 0, errors.New("product '" + product.Name + "' is not available")
		}
		if product.StockQty < it.Quantity {
			return nil, 0, errors.New("product '" + product.Name + "' has insufficient stock")
		}
		subtotal += product.Price * float64(it.Quantity)
		orderItems = append(orderItems, models.OrderItem{
			ProductID: product.ID,
			Quantity:  it.Quantity,
			Price:     product.Price,
			Name:      product.Name,
		})
	}
	return orderItems, subtotal, nil
}

type PlaceOrderRequest struct {
	Items []struct {
		ProductID uint `json:"product_id" binding:"required"`
		Quantity  int  `json:"quantity" binding:"required,min=1"`
	} `json:"items" binding:"required,min=1"`
	AddressID   *uint  `json:"address_id"`
	DeliveryDay string `json:"delivery_day"`
	PromoCode   string `json:"promo_code"`
	Notes       string `json:"notes"`
}

// PlaceOrder creates a new order (customer only). The delivery PIN in the
// response is quoted to the driver at handover.
func PlaceOrder(c *gin.Context) {
	user := middleware.GetUser(c)

	var req PlaceOrderRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	// Resolve the delivery address: explicit id, else the default address
	var addr *models.Address
	if req.AddressID != nil {
		var a models.Address
		if err := config.DB.Where("id = ? AND user_id = ?", *req.AddressID, user.ID).
			First(&a).Error; err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "Address not found"})
			return
		}
		addr = &a
	} else if user.DefaultAddress != nil {
		addr = user.DefaultAddress
	}
	if addr == nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "No delivery address on file; add one first"})
		return
	}

	items := make([]cartItem, 0, len(req.Items))
	for _, it := range req.Items {
		items = append(items, cartItem{ProductID: it.ProductID, Quantity: it.Quantity})
	}
	orderItems, subtotal, err := buildCart(items)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	day := req.DeliveryDay
	if day == "" {
		day = time.Now().Weekday().String()
	}

	quote, err := priceCart(subtotal, addr.City, day, req.PromoCode)
	if err != nil {
		middleware.Logger(c).Error("pricing config load failed", "error", err.Error())
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Pricing configuration unavailable"})
		return
	}
	if quote.Promo != nil && !quote.Promo.Valid {
		c.JSON(http.StatusBadRequest, gin.H{"error": quote.Promo.Error})
		return
	}

	// 4-digit handover PIN, stored hashed
	pin := fmt.Sprintf("%04d", rand.IntN(10000))
	pinHash, err := bcrypt.GenerateFromPassword([]byte(pin), bcrypt.DefaultCost)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to create order"})
		return
	}

	order := models.Order{
		CustomerID:        user.ID,
		Status:            models.StatusPlaced,
		Subtotal:          quote.Subtotal,
		Tax:               quote.Tax,
		ConvenienceCharge: quote.ConvenienceCharge,
		DeliveryCharge:    quote.DeliveryCharge,
		Discount:          quote.Discount,
		Total:             quote.Total,
		DeliveryAddress:   formatAddress(addr),
		DeliveryCity:      addr.City,
		DeliveryDay:       day,
		Notes:             req.Notes,
		DeliveryPINHash:   string(pinHash),
		Items:             orderItems,
	}
	if req.PromoCode != "" {
		var promo models.PromoCode
		if err := config.DB.Where("code = ?", req.PromoCode).First(&promo).Error; err == nil {
			order.PromoCodeID = &promo.ID
		}
	}

	if err := config.DB.Create(&order).Error; err != nil {
		middleware.Logger(c).Error("order create failed", "error", err.Error())
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to place order"})
		return
	}

	// Reserve stock
	for _, item := range orderItems {
		config.DB.Model(&models.Product{}).Where("id = ?", item.ProductID).
			Update("stock_qty", gorm.Expr("stock_qty - ?", item.Quantity))
	}

	history := models.OrderStatusHistory{
		OrderID:   order.ID,
		ToStatus:  models.StatusPlaced,
		ChangedBy: user.ID,
		Note:      "Order placed by customer",
	}
	config.DB.Create(&history)

	config.DB.Preload("Items.Product").First(&order, order.ID)

	c.JSON(http.StatusCreated, gin.H{
		"message":      "Order placed successfully",
		"order":        order,
		"quote":        quote,
		"delivery_pin": pin,
	})
}

func formatAddress(a *models.Address) string {
	s := a.Line1
	if a.Line2 != "" {
		s += ", " + a.Line2
	}
	s += ", " + a.City
	if a.State != "" {
		s += ", " + a.State
	}
	if a.PostalCode != "" {
		s += " " + a.PostalCode
	}
	return s
}

// GetMyOrders returns all orders for the logged-in customer
func GetMyOrders(c *gin.Context) {
	customerID := middleware.GetUserID(c)
	var orders []models.Order
	config.DB.Preload("Items.Product").
		Where("customer_id = ?", customerID).
		Order("created_at desc").
		Find(&orders)
	c.JSON(http.StatusOK, gin.H{"count": len(orders), "orders": orders})
}

// GetOrderDetail returns a single order's full detail with history
func GetOrderDetail(c *gin.Context) {
	customerID := middleware.GetUserID(c)

	var order models.Order
	if err := config.DB.
		Preload("Items.Product").
		Preload("StatusHistory").
		Preload("Driver").
		First(&order, c.Param("id")).Error; err != nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "Order not found"})
		return
	}
	if order.CustomerID != customerID {
		c.JSON(http.StatusForbidden, gin.H{"error": "This order does not belong to you"})
		return
	}
	c.JSON(http.StatusOK, gin.H{"order": order})
}

// CancelOrder cancels an order (customer can cancel PLACED or CONFIRMED)
func CancelOrder(c *gin.Context) {
	customerID := middleware.GetUserID(c)

	var order models.Order
	if err := config.DB.First(&order, c.Param("id")).Error; err != nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "Order not found"})
		return
	}
	if order.CustomerID != customerID {
		c.JSON(http.StatusForbidden, gin.H{"error": "This order does not belong to you"})
		return
	}

	if err := statemachine.CanTransition(order.Status, models.StatusCancelled, "customer"); err != nil {
		c.JSON(http.StatusUnprocessableEntity, gin.H{
			"error":         "Cannot cancel order",
			"reason":        err.Error(),
			"current_state": order.Status,
		})
		return
	}

	prevStatus := order.Status
	config.DB.Model(&order).Update("status", models.StatusCancelled)

	history := models.OrderStatusHistory{
		OrderID:    order.ID,
		FromStatus: prevStatus,
		ToStatus:   models.StatusCancelled,
		ChangedBy:  customerID,
		Note:       "Order cancelled by customer",
	}
	config.DB.Create(&history)

	c.JSON(http.StatusOK, gin.H{"message": "Order cancelled successfully", "order_id": order.ID})
}

type AddressRequest struct {
	Line1      string `json:"line1" binding:"required"`
	Line2      string `json:"line2"`
	City       string `json:"city" binding:"required"`
	State      string `json:"state"`
	PostalCode string `json:"postal_code"`
	Phone      string `json:"phone"`
	IsDefault  bool   `json:"is_default"`
}

// ListAddresses returns the caller's saved addresses
func ListAddresses(c *gin.Context) {
	userID := middleware.GetUserID(c)
	var addresses []models.Address
	config.DB.Where("user_id = ?", userID).Find(&addresses)
	c.JSON(http.StatusOK, gin.H{"count": len(addresses), "addresses": addresses})
}

// AddAddress saves a new address; the first one becomes the default
func AddAddress(c *gin.Context) {
	user := middleware.GetUser(c)

	var req AddressRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	addr := models.Address{
		UserID:     user.ID,
		Line1:      req.Line1,
		Line2:      req.Line2,
		City:       req.City,
		State:      req.State,
		PostalCode: req.PostalCode,
		Phone:      req.Phone,
		IsDefault:  req.IsDefault,
	}
	if err := config.DB.Create(&addr).Error; err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to save address"})
		return
	}

	if req.IsDefault || user.DefaultAddressID == nil {
		config.DB.Model(&models.User{}).Where("id = ?", user.ID).
			Update("default_address_id", addr.ID)
	}

	c.JSON(http.StatusCreated, gin.H{"address": addr})
}

// SetDefaultAddress marks one of the caller's addresses as default
func SetDefaultAddress(c *gin.Context) {
	userID := middleware.GetUserID(c)

	var addr models.Address
	if err := config.DB.Where("id = ? AND user_id = ?", c.Param("id"), userID).
		First(&addr).Error; err != nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "Address not found"})
		return
	}

	config.DB.Model(&models.User{}).Where("id = ?", userID).
		Update("default_address_id", addr.ID)

	c.JSON(http.StatusOK, gin.H{"message": "Default address updated", "address_id": addr.ID})
}
