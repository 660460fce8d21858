package models

import (
	"database/sql/driver"
	"fmt"
	"time"

	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

// OrderStatus represents the kitchen status of an order
type OrderStatus string

const (
	OrderStatusPending OrderStatus = "pending"
	OrderStatusCooking OrderStatus = "cooking"
	OrderStatusReady   OrderStatus = "ready"
	OrderStatusServed  OrderStatus = "served"
)

var orderStatusRank = map[OrderStatus]int{
	OrderStatusPending: 0,
	OrderStatusCooking: 1,
	OrderStatusReady:   2,
	OrderStatusServed:  3,
}

func (s OrderStatus) String() string {
	return string(s)
}

// Valid reports whether s is a known status
func (s OrderStatus) Valid() bool {
	_, ok := orderStatusRank[s]
	return ok
}

// CanAdvanceTo reports whether next is a forward move from s
func (s OrderStatus) CanAdvanceTo(next OrderStatus) bool {
	from, ok := orderStatusRank[s]
	if !ok {
		return false
	}
	to, ok := orderStatusRank[next]
	if !ok {
		return false
	}
	return to > from
}

func (s *OrderStatus) Scan(value interface{}) error {
	switch v := value.(type) {
	case string:
		*s = OrderStatus(v)
	case []byte:
		*s = OrderStatus(v)
	default:
		return fmt.Errorf("cannot scan %T into OrderStatus", value)
	}
	return nil
}

func (s OrderStatus) Value() (driver.Value, error) {
	return string(s), nil
}

// TableStatus values
const (
	TableStatusAvailable = "available"
	TableStatusOccupied  = "occupied"
	TableStatusReserved  = "reserved"
)

// Table represents a restaurant table
type Table struct {
	ID        uint           `gorm:"primaryKey" json:"id"`
	Number    string         `gorm:"not null;uniqueIndex" json:"number"`
	Capacity  int            `json:"capacity"`
	Status    string         `gorm:"default:available" json:"status"` // "available", "occupied", "reserved"
	CreatedAt time.Time      `json:"created_at"`
	UpdatedAt time.Time      `json:"updated_at"`
	DeletedAt gorm.DeletedAt `gorm:"index" json:"deleted_at,omitempty"`
}

// Order represents a set of items submitted for a table
type Order struct {
	ID          uint        `gorm:"primaryKey" json:"id"`
	OrderNumber string      `gorm:"uniqueIndex;not null" json:"order_number"`
	TableID     uint        `gorm:"index" json:"table_id"`
	Table       *Table      `gorm:"foreignKey:TableID" json:"table,omitempty"`
	Lines       []OrderLine `gorm:"foreignKey:OrderID;constraint:OnDelete:CASCADE" json:"lines"`
	Status      OrderStatus `gorm:"index" json:"status"`
	Notes       string      `json:"notes"`
	IsBilled    bool        `gorm:"default:false;index" json:"is_billed"`
	BillID      *uint       `gorm:"index" json:"bill_id,omitempty"`
	WaiterID    *uint       `json:"waiter_id,omitempty"`
	CreatedAt   time.Time   `json:"created_at"`
	UpdatedAt   time.Time   `json:"updated_at"`
}

// TableNumber returns the printable table number
func (o *Order) TableNumber() string {
	if o.Table == nil {
		return ""
	}
	return o.Table.Number
}

// Subtotal sums the line totals
func (o *Order) Subtotal() decimal.Decimal {
	sum := decimal.Zero
	for _, line := range o.Lines {
		sum = sum.Add(line.TotalPrice)
	}
	return sum
}

// OrderLine represents one menu item in an order. Name and prices are
// snapshotted so later menu edits do not change existing orders.
type OrderLine struct {
	ID         uint             `gorm:"primaryKey" json:"id"`
	OrderID    uint             `gorm:"index" json:"order_id"`
	MenuItemID uint             `gorm:"index" json:"menu_item_id"`
	ItemName   string           `gorm:"not null" json:"item_name"`
	Quantity   int              `json:"quantity"`
	Variation  string           `json:"variation,omitempty"`
	AddOns     []OrderLineAddOn `gorm:"foreignKey:OrderLineID;constraint:OnDelete:CASCADE" json:"add_ons"`
	Notes      string           `json:"notes,omitempty"`
	ItemPrice  decimal.Decimal  `gorm:"type:decimal(12,2)" json:"item_price"`
	AddOnPrice decimal.Decimal  `gorm:"type:decimal(12,2)" json:"add_on_price"`
	TotalPrice decimal.Decimal  `gorm:"type:decimal(12,2)" json:"total_price"`
	CreatedAt  time.Time        `json:"created_at"`
}

// AddOnNames returns the selected add-on names in stored order
func (l *OrderLine) AddOnNames() []string {
	names := make([]string, 0, len(l.AddOns))
	for _, a := range l.AddOns {
		names = append(names, a.Name)
	}
	return names
}

// OrderLineAddOn is an add-on selected on an order line
type OrderLineAddOn struct {
	ID          uint            `gorm:"primaryKey" json:"id"`
	OrderLineID uint            `gorm:"index" json:"order_line_id"`
	Name        string          `json:"name"`
	Price       decimal.Decimal `gorm:"type:decimal(12,2)" json:"price"`
}
