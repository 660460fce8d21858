package models

import (
	"time"

	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

// Category classifies a menu item
type Category string

const (
	CategoryStarter  Category = "starter"
	CategoryMain     Category = "main"
	CategoryDessert  Category = "dessert"
	CategoryBeverage Category = "beverage"
	CategorySide     Category = "side"
)

// Valid reports whether c is one of the known categories
func (c Category) Valid() bool {
	switch c {
	case CategoryStarter, CategoryMain, CategoryDessert, CategoryBeverage, CategorySide:
		return true
	}
	return false
}

// MenuItem represents a dish or drink offered by the restaurant
type MenuItem struct {
	ID          uint            `gorm:"primaryKey" json:"id"`
	Name        string          `gorm:"not null" json:"name"`
	Description string          `json:"description"`
	BasePrice   decimal.Decimal `gorm:"type:decimal(12,2);not null" json:"base_price"`
	Category    Category        `gorm:"index" json:"category"`
	Variations  []MenuVariation `gorm:"foreignKey:MenuItemID;constraint:OnDelete:CASCADE" json:"variations"`
	AddOns      []MenuAddOn     `gorm:"foreignKey:MenuItemID;constraint:OnDelete:CASCADE" json:"add_ons"`
	IsActive    bool            `gorm:"default:true" json:"is_active"`
	CreatedAt   time.Time       `json:"created_at"`
	UpdatedAt   time.Time       `json:"updated_at"`
	DeletedAt   gorm.DeletedAt  `gorm:"index" json:"deleted_at,omitempty"`
}

// MenuVariation is a priced alternative to the base price (e.g. size)
type MenuVariation struct {
	ID         uint            `gorm:"primaryKey" json:"id"`
	MenuItemID uint            `gorm:"index" json:"menu_item_id"`
	Name       string          `gorm:"not null" json:"name"`
	Price      decimal.Decimal `gorm:"type:decimal(12,2);not null" json:"price"`
	Position   int             `json:"position"` // Display order on the menu
}

// MenuAddOn is an optional priced extra for a menu item
type MenuAddOn struct {
	ID         uint            `gorm:"primaryKey" json:"id"`
	MenuItemID uint            `gorm:"index" json:"menu_item_id"`
	Name       string          `gorm:"not null" json:"name"`
	Price      decimal.Decimal `gorm:"type:decimal(12,2);not null" json:"price"`
	Position   int             `json:"position"`
}
