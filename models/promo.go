package models

import "time"

// DiscountType selects how a promo's Discount field is interpreted
type DiscountType string

const (
	DiscountPercent DiscountType = "PERCENT"
	DiscountFixed   DiscountType = "FIXED"
)

type PromoCode struct {
	ID            uint         `json:"id" gorm:"primaryKey"`
	Code          string       `json:"code" gorm:"uniqueIndex;not null"`
	Active        bool         `json:"active" gorm:"default:true"`
	Discount      float64      `json:"discount" gorm:"not null"`
	DiscountType  DiscountType `json:"discount_type" gorm:"not null;default:'PERCENT'"`
	MaxDiscount   *float64     `json:"max_discount"`
	MinOrderValue float64      `json:"min_order_value" gorm:"default:0"`
	ExpiresAt     *time.Time   `json:"expires_at"`
	CreatedAt     time.Time    `json:"created_at"`
	UpdatedAt     time.Time    `json:"updated_at"`
}

type FeatureFlag struct {
	ID          uint      `json:"id" gorm:"primaryKey"`
	Key         string    `json:"key" gorm:"uniqueIndex;not null"`
	Enabled     bool      `json:"enabled" gorm:"default:false"`
	Description string    `json:"description"`
	CreatedAt   time.Time `json:"created_at"`
	UpdatedAt   time.Time `json:"updated_at"`
}

// ConfigEntry is a key → JSON value row backing runtime configuration
// (additional charges, free-delivery schedule).
type ConfigEntry struct {
	ID        uint      `json:"id" gorm:"primaryKey"`
	Key       string    `json:"key" gorm:"uniqueIndex;not null"`
	Value     string    `json:"value" gorm:"not null"`
	UpdatedAt time.Time `json:"updated_at"`
}
