package handlers

import (
	"net/http"
	"time"

	"dosakart-api/config"
	"dosakart-api/middleware"
	"dosakart-api/models"
	"dosakart-api/statemachine"

	"github.com/gin-gonic/gin"
)

type UpdateRoleRequest struct {
	UserID uint            `json:"user_id" binding:"required"`
	Role   models.UserRole `json:"role" binding:"required"`
}

// UpdateUserRole changes an account's role — admin only
func UpdateUserRole(c *gin.Context) {
	var req UpdateRoleRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "user_id and role are required"})
		return
	}

	validRoles := map[models.UserRole]bool{
		models.RoleCustomer: true,
		models.RoleDriver:   true,
		models.RoleAdmin:    true,
	}
	if !validRoles[req.Role] {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid role. Must be: customer, driver, or admin"})
		return
	}

	var user models.User
	if err := config.DB.Scopes(models.ActiveUsers).First(&user, req.UserID).Error; err != nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "User not found"})
		return
	}

	if err := config.DB.Model(&user).Update("role", req.Role).Error; err != nil {
		middleware.Logger(c).Error("role update failed", "error", err.Error(), "user_id", req.UserID)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to update role"})
		return
	}

	c.JSON(http.StatusOK, gin.H{"user": user})
}

// ListUsers returns all active users — admin only
func ListUsers(c *gin.Context) {
	var users []models.User
	query := config.DB.Scopes(models.ActiveUsers).Preload("Addresses")
	if role := c.Query("role"); role != "" {
		query = query.Where("role = ?", role)
	}
	query.Find(&users)
	c.JSON(http.StatusOK, gin.H{"count": len(users), "users": users})
}

// DeleteUser soft-deletes an account; it disappears from every directory
// read and can no longer authenticate
func DeleteUser(c *gin.Context) {
	var user models.User
	if err := config.DB.Scopes(models.ActiveUsers).First(&user, c.Param("id")).Error; err != nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "User not found"})
		return
	}
	config.DB.Model(&user).Update("is_delete", true)
	c.JSON(http.StatusOK, gin.H{"message": "User deleted", "user_id": user.ID})
}

// ListFeatureFlags returns every flag — admin only
func ListFeatureFlags(c *gin.Context) {
	var flags []models.FeatureFlag
	if err := config.DB.Order("key asc").Find(&flags).Error; err != nil {
		middleware.Logger(c).Error("feature flag list failed", "error", err.Error())
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to load feature flags"})
		return
	}
	c.JSON(http.StatusOK, flags)
}

type FlagRequest struct {
	Enabled     *bool  `json:"enabled" binding:"required"`
	Description string `json:"description"`
}

// SetFeatureFlag creates or toggles a flag by key
func SetFeatureFlag(c *gin.Context) {
	var req FlagRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "enabled is required"})
		return
	}

	key := c.Param("key")
	var flag models.FeatureFlag
	if err := config.DB.Where("key = ?", key).First(&flag).Error; err != nil {
		flag = models.FeatureFlag{Key: key, Enabled: *req.Enabled, Description: req.Description}
		if err := config.DB.Create(&flag).Error; err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to save flag"})
			return
		}
	} else {
		updates := map[string]interface{}{"enabled": *req.Enabled}
		if req.Description != "" {
			updates["description"] = req.Description
		}
		config.DB.Model(&flag).Updates(updates)
	}
	c.JSON(http.StatusOK, gin.H{"flag": flag})
}

type CategoryRequest struct {
	Name        string `json:"name" binding:"required"`
	Slug        string `json:"slug" binding:"required"`
	Description string `json:"description"`
	IsActive    *bool  `json:"is_active"`
}

// CreateCategory adds a catalogue category
func CreateCategory(c *gin.Context) {
	var req CategoryRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	category := models.Category{Name: req.Name, Slug: req.Slug, Description: req.Description, IsActive: true}
	if req.IsActive != nil {
		category.IsActive = *req.IsActive
	}
	if err := config.DB.Create(&category).Error; err != nil {
		c.JSON(http.StatusConflict, gin.H{"error": "Category slug already exists"})
		return
	}
	c.JSON(http.StatusCreated, gin.H{"category": category})
}

// UpdateCategory edits a category
func UpdateCategory(c *gin.Context) {
	var category models.Category
	if err := config.DB.First(&category, c.Param("id")).Error; err != nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "Category not found"})
		return
	}
	var req CategoryRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	updates := map[string]interface{}{"name": req.Name, "slug": req.Slug, "description": req.Description}
	if req.IsActive != nil {
		updates["is_active"] = *req.IsActive
	}
	config.DB.Model(&category).Updates(updates)
	c.JSON(http.StatusOK, gin.H{"category": category})
}

type ProductRequest struct {
	CategoryID  uint    `json:"category_id" binding:"required"`
	Name        string  `json:"name" binding:"required"`
	Slug        string  `json:"slug" binding:"required"`
	Description string  `json:"description"`
	Price       float64 `json:"price" binding:"required,gt=0"`
	WeightGrams int     `json:"weight_grams"`
	ImageURL    string  `json:"image_url"`
	IsAvailable *bool   `json:"is_available"`
	StockQty    int     `json:"stock_qty"`
}

// CreateProduct adds a product to the catalogue
func CreateProduct(c *gin.Context) {
	var req ProductRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	var category models.Category
	if err := config.DB.First(&category, req.CategoryID).Error; err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Category not found"})
		return
	}
	product := models.Product{
		CategoryID:  req.CategoryID,
		Name:        req.Name,
		Slug:        req.Slug,
		Description: req.Description,
		Price:       req.Price,
		WeightGrams: req.WeightGrams,
		ImageURL:    req.ImageURL,
		IsAvailable: true,
		StockQty:    req.StockQty,
	}
	if req.IsAvailable != nil {
		product.IsAvailable = *req.IsAvailable
	}
	if err := config.DB.Create(&product).Error; err != nil {
		c.JSON(http.StatusConflict, gin.H{"error": "Product slug already exists"})
		return
	}
	c.JSON(http.StatusCreated, gin.H{"product": product})
}

// UpdateProduct edits a product
func UpdateProduct(c *gin.Context) {
	var product models.Product
	if err := config.DB.First(&product, c.Param("id")).Error; err != nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "Product not found"})
		return
	}
	var req ProductRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	updates := map[string]interface{}{
		"category_id":  req.CategoryID,
		"name":         req.Name,
		"slug":         req.Slug,
		"description":  req.Description,
		"price":        req.Price,
		"weight_grams": req.WeightGrams,
		"image_url":    req.ImageURL,
		"stock_qty":    req.StockQty,
	}
	if req.IsAvailable != nil {
		updates["is_available"] = *req.IsAvailable
	}
	config.DB.Model(&product).Updates(updates)
	c.JSON(http.StatusOK, gin.H{"product": product})
}

// DeleteProduct removes a product from the catalogue
func DeleteProduct(c *gin.Context) {
	var product models.Product
	if err := config.DB.First(&product, c.Param("id")).Error; err != nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "Product not found"})
		return
	}
	config.DB.Delete(&product)
	c.JSON(http.StatusOK, gin.H{"message": "Product deleted", "product_id": product.ID})
}

// ListPromos returns all promo codes — admin only
func ListPromos(c *gin.Context) {
	var promos []models.PromoCode
	config.DB.Order("created_at desc").Find(&promos)
	c.JSON(http.StatusOK, gin.H{"count": len(promos), "promos": promos})
}

type PromoRequest struct {
	Code          string              `json:"code" binding:"required"`
	Active        *bool               `json:"active"`
	Discount      float64             `json:"discount" binding:"required,gt=0"`
	DiscountType  models.DiscountType `json:"discount_type" binding:"required"`
	MaxDiscount   *float64            `json:"max_discount"`
	MinOrderValue float64             `json:"min_order_value"`
	ExpiresAt     *string             `json:"expires_at"` // RFC3339
}

// CreatePromo adds a promo code
func CreatePromo(c *gin.Context) {
	var req PromoRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	if req.DiscountType != models.DiscountPercent && req.DiscountType != models.DiscountFixed {
		c.JSON(http.StatusBadRequest, gin.H{"error": "discount_type must be PERCENT or FIXED"})
		return
	}
	promo := models.PromoCode{
		Code:          req.Code,
		Active:        true,
		Discount:      req.Discount,
		DiscountType:  req.DiscountType,
		MaxDiscount:   req.MaxDiscount,
		MinOrderValue: req.MinOrderValue,
	}
	if req.Active != nil {
		promo.Active = *req.Active
	}
	if req.ExpiresAt != nil {
		t, err := parseRFC3339(*req.ExpiresAt)
		if err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "expires_at must be RFC3339"})
			return
		}
		promo.ExpiresAt = &t
	}
	if err := config.DB.Create(&promo).Error; err != nil {
		c.JSON(http.StatusConflict, gin.H{"error": "Promo code already exists"})
		return
	}
	c.JSON(http.StatusCreated, gin.H{"promo": promo})
}

func parseRFC3339(s string) (time.Time, error) {
	return time.Parse(time.RFC3339, s)
}

// UpdatePromo toggles or edits a promo code
func UpdatePromo(c *gin.Context) {
	var promo models.PromoCode
	if err := config.DB.First(&promo, c.Param("id")).Error; err != nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "Promo not found"})
		return
	}
	var req PromoRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	updates := map[string]interface{}{
		"code":            req.Code,
		"discount":        req.Discount,
		"discount_type":   req.DiscountType,
		"max_discount":    req.MaxDiscount,
		"min_order_value": req.MinOrderValue,
	}
	if req.Active != nil {
		updates["active"] = *req.Active
	}
	config.DB.Model(&promo).Updates(updates)
	c.JSON(http.StatusOK, gin.H{"promo": promo})
}

// DeletePromo removes a promo code
func DeletePromo(c *gin.Context) {
	var promo models.PromoCode
	if err := config.DB.First(&promo, c.Param("id")).Error; err != nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "Promo not found"})
		return
	}
	config.DB.Delete(&promo)
	c.JSON(http.StatusOK, gin.H{"message": "Promo deleted", "promo_id": promo.ID})
}

// AdminGetAllOrders returns all orders with full detail — admin only
func AdminGetAllOrders(c *gin.Context) {
	var orders []models.Order
	query := config.DB.Preload("Items.Product").
		Preload("Customer").Preload("Driver").Preload("StatusHistory")

	if status := c.Query("status"); status != "" {
		query = query.Where("status = ?", status)
	}
	if customerID := c.Query("customer_id"); customerID != "" {
		query = query.Where("customer_id = ?", customerID)
	}

	query.Order("created_at desc").Find(&orders)

	// Back-office dashboard: aggregate by status
	summary := map[string]int{}
	var totalRevenue float64
	for _, o := range orders {
		summary[string(o.Status)]++
		if o.Status == models.StatusDelivered {
			totalRevenue += o.Total
		}
	}

	c.JSON(http.StatusOK, gin.H{
		"order_summary": summary,
		"total_revenue": totalRevenue,
		"count":         len(orders),
		"orders":        orders,
	})
}

type OrderStatusRequest struct {
	Status models.OrderStatus `json:"status" binding:"required"`
	Note   string             `json:"note"`
}

// AdminUpdateOrderStatus moves an order through the state machine as the
// back-office actor
func AdminUpdateOrderStatus(c *gin.Context) {
	var req OrderStatusRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	var order models.Order
	if err := config.DB.First(&order, c.Param("id")).Error; err != nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "Order not found"})
		return
	}

	if err := statemachine.CanTransition(order.Status, req.Status, "admin"); err != nil {
		c.JSON(http.StatusUnprocessableEntity, gin.H{
			"error":             "Invalid state transition",
			"current_status":    order.Status,
			"reason":            err.Error(),
			"valid_next_states": statemachine.ValidTransitionsFrom(order.Status),
		})
		return
	}

	prevStatus := order.Status
	config.DB.Model(&order).Update("status", req.Status)

	history := models.OrderStatusHistory{
		OrderID:    order.ID,
		FromStatus: prevStatus,
		ToStatus:   req.Status,
		ChangedBy:  middleware.GetUserID(c),
		Note:       req.Note,
	}
	config.DB.Create(&history)

	c.JSON(http.StatusOK, gin.H{
		"message":         "Order status updated",
		"order_id":        order.ID,
		"previous_status": prevStatus,
		"new_status":      req.Status,
	})
}

// AdminForceOrderStatus lets admin override any order state (emergency use)
func AdminForceOrderStatus(c *gin.Context) {
	var req struct {
		Status models.OrderStatus `json:"status" binding:"required"`
		Reason string             `json:"reason"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	var order models.Order
	if err := config.DB.First(&order, c.Param("id")).Error; err != nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "Order not found"})
		return
	}
	prevStatus := order.Status
	config.DB.Model(&order).Update("status", req.Status)

	history := models.OrderStatusHistory{
		OrderID:    order.ID,
		FromStatus: prevStatus,
		ToStatus:   req.Status,
		ChangedBy:  middleware.GetUserID(c),
		Note:       "[ADMIN OVERRIDE] " + req.Reason,
	}
	config.DB.Create(&history)

	c.JSON(http.StatusOK, gin.H{
		"message":         "Order status force-updated by admin",
		"order_id":        order.ID,
		"previous_status": prevStatus,
		"new_status":      req.Status,
	})
}

type ConfigEntryRequest struct {
	Value string `json:"value" binding:"required"`
}

// SetConfigEntry writes a configuration entry (JSON value) and drops the
// pricing cache so the next evaluation sees it
func SetConfigEntry(c *gin.Context) {
	var req ConfigEntryRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "value is required"})
		return
	}

	key := c.Param("key")
	var entry models.ConfigEntry
	if err := config.DB.Where("key = ?", key).First(&entry).Error; err != nil {
		entry = models.ConfigEntry{Key: key, Value: req.Value}
		if err := config.DB.Create(&entry).Error; err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to save config"})
			return
		}
	} else {
		config.DB.Model(&entry).Update("value", req.Value)
	}

	Pricing.Reload()
	c.JSON(http.StatusOK, gin.H{"entry": entry})
}

// ReloadConfig drops the cached pricing configuration
func ReloadConfig(c *gin.Context) {
	Pricing.Reload()
	middleware.Logger(c).Info("pricing configuration cache reloaded")
	c.JSON(http.StatusOK, gin.H{"message": "Configuration cache reloaded"})
}
