package models

import (
	"time"

	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

// Customer represents a regular customer who may buy on credit
type Customer struct {
	ID            uint            `gorm:"primaryKey" json:"id"`
	Name          string          `gorm:"not null" json:"name"`
	Phone         string          `gorm:"index" json:"phone"`
	Email         string          `json:"email"`
	CreditBalance decimal.Decimal `gorm:"type:decimal(12,2);default:0" json:"credit_balance"` // Amount owed on account
	CreatedAt     time.Time       `json:"created_at"`
	UpdatedAt     time.Time       `json:"updated_at"`
	DeletedAt     gorm.DeletedAt  `gorm:"index" json:"deleted_at,omitempty"`
}

// Expense records money spent by the restaurant
type Expense struct {
	ID          uint            `gorm:"primaryKey" json:"id"`
	Description string          `gorm:"not null" json:"description"`
	Category    string          `json:"category"` // "supplies", "utilities", "salaries", ...
	Amount      decimal.Decimal `gorm:"type:decimal(12,2);not null" json:"amount"`
	SpentAt     time.Time       `gorm:"index" json:"spent_at"`
	CreatedAt   time.Time       `json:"created_at"`
}
