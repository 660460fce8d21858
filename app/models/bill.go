package models

import (
	"time"

	"github.com/shopspring/decimal"
)

// PaymentMethod identifies how a bill was paid
type PaymentMethod string

const (
	PaymentCash     PaymentMethod = "cash"
	PaymentCard     PaymentMethod = "card"
	PaymentTransfer PaymentMethod = "transfer"
	PaymentCredit   PaymentMethod = "credit" // Charged to the customer's account
)

// Valid reports whether m is a known payment method
func (m PaymentMethod) Valid() bool {
	switch m {
	case PaymentCash, PaymentCard, PaymentTransfer, PaymentCredit:
		return true
	}
	return false
}

// Label returns the printable name of the method
func (m PaymentMethod) Label() string {
	switch m {
	case PaymentCash:
		return "Cash"
	case PaymentCard:
		return "Card"
	case PaymentTransfer:
		return "Transfer"
	case PaymentCredit:
		return "Credit"
	}
	return string(m)
}

// Bill closes one or more orders of a table
type Bill struct {
	ID         uint            `gorm:"primaryKey" json:"id"`
	BillNumber string          `gorm:"uniqueIndex;not null" json:"bill_number"`
	TableID    uint            `gorm:"index" json:"table_id"`
	Table      *Table          `gorm:"foreignKey:TableID" json:"table,omitempty"`
	Orders     []Order         `gorm:"foreignKey:BillID" json:"orders"`
	Subtotal   decimal.Decimal `gorm:"type:decimal(12,2)" json:"subtotal"`
	TaxRate    decimal.Decimal `gorm:"type:decimal(6,4)" json:"tax_rate"`
	Tax        decimal.Decimal `gorm:"type:decimal(12,2)" json:"tax"`
	Discount   decimal.Decimal `gorm:"type:decimal(12,2)" json:"discount"`
	Total      decimal.Decimal `gorm:"type:decimal(12,2)" json:"total"`
	Payments   []Payment       `gorm:"foreignKey:BillID;constraint:OnDelete:CASCADE" json:"payments"`
	CustomerID *uint           `gorm:"index" json:"customer_id,omitempty"`
	Customer   *Customer       `gorm:"foreignKey:CustomerID" json:"customer,omitempty"`
	CreatedAt  time.Time       `gorm:"index" json:"created_at"`
	UpdatedAt  time.Time       `json:"updated_at"`
}

// TableNumber returns the printable table number
func (b *Bill) TableNumber() string {
	if b.Table == nil {
		return ""
	}
	return b.Table.Number
}

// Paid sums all recorded payments
func (b *Bill) Paid() decimal.Decimal {
	sum := decimal.Zero
	for _, p := range b.Payments {
		sum = sum.Add(p.Amount)
	}
	return sum
}

// Balance is the amount still owed on the bill
func (b *Bill) Balance() decimal.Decimal {
	return b.Total.Sub(b.Paid())
}

// Payment records an amount paid with one method
type Payment struct {
	ID        uint            `gorm:"primaryKey" json:"id"`
	BillID    uint            `gorm:"index" json:"bill_id"`
	Method    PaymentMethod   `gorm:"not null" json:"method"`
	Amount    decimal.Decimal `gorm:"type:decimal(12,2)" json:"amount"`
	Reference string          `json:"reference,omitempty"` // Card voucher, transfer id
	CreatedAt time.Time       `json:"created_at"`
}
