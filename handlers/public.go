package handlers

import (
	"net/http"
	"time"

	"dosakart-api/config"
	"dosakart-api/middleware"
	"dosakart-api/models"
	"dosakart-api/pricing"
	"dosakart-api/statemachine"

	"github.com/gin-gonic/gin"
)

// Pricing is the process-wide pricing configuration store, wired in by
// routes.SetupRoutes after the database is open.
var Pricing *pricing.Store

func InitPricing() {
	Pricing = pricing.NewStore(config.DB)
}

// ListProducts returns the catalogue (public)
func ListProducts(c *gin.Context) {
	var products []models.Product
	query := config.DB.Preload("Category")

	if category := c.Query("category"); category != "" {
		query = query.Joins("JOIN categories ON categories.id = products.category_id").
			Where("categories.slug = ?", category)
	}
	if search := c.Query("search"); search != "" {
		query = query.Where("products.name LIKE ?", "%"+search+"%")
	}
	if available := c.Query("available"); available == "true" {
		query = query.Where("products.is_available = ?", true)
	}

	query.Find(&products)
	c.JSON(http.StatusOK, gin.H{
		"count":    len(products),
		"products": products,
	})
}

// GetProduct returns a single product by slug
func GetProduct(c *gin.Context) {
	var product models.Product
	if err := config.DB.Preload("Category").
		Where("slug = ?", c.Param("slug")).First(&product).Error; err != nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "Product not found"})
		return
	}
	c.JSON(http.StatusOK, gin.H{"product": product})
}

// ListCategories returns active categories (public)
func ListCategories(c *gin.Context) {
	var categories []models.Category
	config.DB.Where("is_active = ?", true).Find(&categories)
	c.JSON(http.StatusOK, gin.H{
		"count":      len(categories),
		"categories": categories,
	})
}

type QuoteRequest struct {
	Items []struct {
		ProductID uint `json:"product_id" binding:"required"`
		Quantity  int  `json:"quantity" binding:"required,min=1"`
	} `json:"items" binding:"required,min=1"`
	City        string `json:"city" binding:"required"`
	DeliveryDay string `json:"delivery_day"`
	PromoCode   string `json:"promo_code"`
}

// QuoteCheckout prices a cart without creating an order
func QuoteCheckout(c *gin.Context) {
	var req QuoteRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	items := make([]cartItem, 0, len(req.Items))
	for _, it := range req.Items {
		items = append(items, cartItem{ProductID: it.ProductID, Quantity: it.Quantity})
	}
	_, subtotal, err := buildCart(items)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	day := req.DeliveryDay
	if day == "" {
		day = time.Now().Weekday().String()
	}

	quote, err := priceCart(subtotal, req.City, day, req.PromoCode)
	if err != nil {
		middleware.Logger(c).Error("pricing config load failed", "error", err.Error())
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Pricing configuration unavailable"})
		return
	}
	c.JSON(http.StatusOK, gin.H{"quote": quote})
}

// priceCart loads the configuration snapshot, looks up the promo record
// and evaluates the pricing policy.
func priceCart(subtotal float64, city, day, promoCode string) (pricing.Quote, error) {
	cfg, err := Pricing.Charges()
	if err != nil {
		return pricing.Quote{}, err
	}
	free, err := Pricing.FreeDelivery()
	if err != nil {
		return pricing.Quote{}, err
	}

	in := pricing.Input{
		Subtotal: subtotal,
		City:     city,
		Day:      day,
		Now:      time.Now(),
	}
	if promoCode != "" {
		in.PromoSent = true
		var promo models.PromoCode
		if err := config.DB.Where("code = ?", promoCode).First(&promo).Error; err == nil {
			in.Promo = &promo
		}
	}
	return pricing.Evaluate(in, cfg, free), nil
}

// GetStateMachineInfo returns the order lifecycle for informational purposes
func GetStateMachineInfo(c *gin.Context) {
	var info []gin.H
	for _, t := range statemachine.GetAllTransitions() {
		info = append(info, gin.H{"from": t.From, "to": t.To, "actor": t.Actor})
	}
	c.JSON(http.StatusOK, gin.H{
		"state_machine":   info,
		"terminal_states": []string{string(models.StatusDelivered), string(models.StatusCancelled)},
		"description":     "Dosa batter order lifecycle state machine",
	})
}
