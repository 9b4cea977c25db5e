package models

import "time"

// OrderStatus represents all possible states of a batter delivery order
type OrderStatus string

const (
	StatusPlaced         OrderStatus = "PLACED"
	StatusConfirmed      OrderStatus = "CONFIRMED"
	StatusPacked         OrderStatus = "PACKED"
	StatusOutForDelivery OrderStatus = "OUT_FOR_DELIVERY"
	StatusDelivered      OrderStatus = "DELIVERED"
	StatusCancelled      OrderStatus = "CANCELLED"
)

type Order struct {
	ID                uint                 `json:"id" gorm:"primaryKey"`
	CustomerID        uint                 `json:"customer_id" gorm:"not null"`
	Customer          User                 `json:"customer,omitempty" gorm:"foreignKey:CustomerID"`
	DriverID          *uint                `json:"driver_id"`
	Driver            *User                `json:"driver,omitempty" gorm:"foreignKey:DriverID"`
	Status            OrderStatus          `json:"status" gorm:"not null;default:'PLACED'"`
	Subtotal          float64              `json:"subtotal"`
	Tax               float64              `json:"tax"`
	ConvenienceCharge float64              `json:"convenience_charge"`
	DeliveryCharge    float64              `json:"delivery_charge"`
	Discount          float64              `json:"discount"`
	Total             float64              `json:"total"`
	PromoCodeID       *uint                `json:"promo_code_id"`
	PromoCode         *PromoCode           `json:"promo_code,omitempty" gorm:"foreignKey:PromoCodeID"`
	DeliveryAddress   string               `json:"delivery_address" gorm:"not null"` // snapshot, one line
	DeliveryCity      string               `json:"delivery_city"`
	DeliveryDay       string               `json:"delivery_day"` // weekday name, e.g. "Monday"
	Notes             string               `json:"notes"`
	DeliveryPINHash   string               `json:"-"` // bcrypt, quoted by customer at handover
	Items             []OrderItem          `json:"items,omitempty" gorm:"foreignKey:OrderID"`
	StatusHistory     []OrderStatusHistory `json:"status_history,omitempty" gorm:"foreignKey:OrderID"`
	CreatedAt         time.Time            `json:"created_at"`
	UpdatedAt         time.Time            `json:"updated_at"`
}

type OrderItem struct {
	ID        uint    `json:"id" gorm:"primaryKey"`
	OrderID   uint    `json:"order_id" gorm:"not null"`
	ProductID uint    `json:"product_id" gorm:"not null"`
	Product   Product `json:"product,omitempty" gorm:"foreignKey:ProductID"`
	Quantity  int     `json:"quantity" gorm:"not null"`
	Price     float64 `json:"price" gorm:"not null"` // snapshot price at time of order
	Name      string  `json:"name"`                  // snapshot name
}

// OrderStatusHistory tracks every status change for the audit trail
type OrderStatusHistory struct {
	ID         uint        `json:"id" gorm:"primaryKey"`
	OrderID    uint        `json:"order_id" gorm:"not null"`
	FromStatus OrderStatus `json:"from_status"`
	ToStatus   OrderStatus `json:"to_status" gorm:"not null"`
	ChangedBy  uint        `json:"changed_by"` // user ID who triggered the transition
	Note       string      `json:"note"`
	CreatedAt  time.Time   `json:"created_at"`
}
