package models

import (
	"time"

	"gorm.io/gorm"
)

// Role of a staff member; also the name of the realtime room they join
type Role string

const (
	RoleAdmin   Role = "admin"
	RoleManager Role = "manager"
	RoleCashier Role = "cashier"
	RoleWaiter  Role = "waiter"
	RoleKitchen Role = "kitchen"
)

// Valid reports whether r is a known role
func (r Role) Valid() bool {
	switch r {
	case RoleAdmin, RoleManager, RoleCashier, RoleWaiter, RoleKitchen:
		return true
	}
	return false
}

// Employee represents a staff member
type Employee struct {
	ID        uint           `gorm:"primaryKey" json:"id"`
	Name      string         `gorm:"not null" json:"name"`
	Role      Role           `gorm:"index" json:"role"`
	PIN       string         `json:"-"` // bcrypt hash
	IsActive  bool           `gorm:"default:true" json:"is_active"`
	CreatedAt time.Time      `json:"created_at"`
	UpdatedAt time.Time      `json:"updated_at"`
	DeletedAt gorm.DeletedAt `gorm:"index" json:"deleted_at,omitempty"`
}

// CanAuthorizeDiscounts reports whether the role may approve discounts
func (e *Employee) CanAuthorizeDiscounts() bool {
	return e.Role == RoleAdmin || e.Role == RoleManager
}
