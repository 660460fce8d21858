package models

import (
	"time"

	"github.com/shopspring/decimal"
)

// DailySummary is the closing report of one business day. It is computed on
// demand and never persisted.
type DailySummary struct {
	Date      time.Time       `json:"date"`
	BillCount int             `json:"bill_count"`
	Subtotal  decimal.Decimal `json:"subtotal"`
	Tax       decimal.Decimal `json:"tax"`
	Discount  decimal.Decimal `json:"discount"`
	Total     decimal.Decimal `json:"total"`
	Payments  []MethodTotal   `json:"payments"`
	Expenses  decimal.Decimal `json:"expenses"`
	Net       decimal.Decimal `json:"net"` // Total minus expenses
	TopItems  []ItemSales     `json:"top_items"`
}

// MethodTotal is the amount collected with one payment method
type MethodTotal struct {
	Method PaymentMethod   `json:"method"`
	Amount decimal.Decimal `json:"amount"`
}

// ItemSales aggregates the quantity and revenue of one menu item
type ItemSales struct {
	Name     string          `json:"name"`
	Quantity int             `json:"quantity"`
	Revenue  decimal.Decimal `json:"revenue"`
}
