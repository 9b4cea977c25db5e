package models

import (
	"time"

	"gorm.io/gorm"
)

// UserRole defines allowed roles in the system
type UserRole string

const (
	RoleCustomer UserRole = "customer"
	RoleDriver   UserRole = "driver"
	RoleAdmin    UserRole = "admin"
)

type User struct {
	ID               uint      `json:"id" gorm:"primaryKey"`
	Phone            string    `json:"phone" gorm:"uniqueIndex;not null"`
	FullName         string    `json:"full_name"`
	Email            string    `json:"email"`
	PasswordHash     string    `json:"-"` // set only for admin fallback login
	Role             UserRole  `json:"role" gorm:"not null;default:'customer'"`
	IsDelete         bool      `json:"is_delete" gorm:"not null;default:false"`
	DefaultAddressID *uint     `json:"default_address_id"`
	DefaultAddress   *Address  `json:"default_address,omitempty" gorm:"foreignKey:DefaultAddressID"`
	Addresses        []Address `json:"addresses,omitempty" gorm:"foreignKey:UserID"`
	CreatedAt        time.Time `json:"created_at"`
	UpdatedAt        time.Time `json:"updated_at"`
}

type Address struct {
	ID         uint      `json:"id" gorm:"primaryKey"`
	UserID     uint      `json:"user_id" gorm:"not null"`
	Line1      string    `json:"line1" gorm:"not null"`
	Line2      string    `json:"line2"`
	City       string    `json:"city" gorm:"not null"`
	State      string    `json:"state"`
	PostalCode string    `json:"postal_code"`
	Phone      string    `json:"phone"`
	IsDefault  bool      `json:"is_default" gorm:"default:false"`
	CreatedAt  time.Time `json:"created_at"`
	UpdatedAt  time.Time `json:"updated_at"`
}

// ActiveUsers filters out soft-deleted accounts. Every directory read goes
// through this scope so a deleted user can never authenticate.
func ActiveUsers(db *gorm.DB) *gorm.DB {
	return db.Where("is_delete = ?", false)
}
