package models

import "time"

// Print stations
const (
	StationKitchen = "kitchen"
	StationCashier = "cashier"
)

// RestaurantConfig holds the business details printed on receipts. When no
// row exists the values from the config file are used.
type RestaurantConfig struct {
	ID        uint      `gorm:"primaryKey" json:"id"`
	Name      string    `json:"name"`
	Address   string    `json:"address"`
	Phone     string    `json:"phone"`
	Website   string    `json:"website"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

// PrinterConfig represents a thermal printer assigned to a station
type PrinterConfig struct {
	ID         uint      `gorm:"primaryKey" json:"id"`
	Name       string    `gorm:"not null" json:"name"`
	Station    string    `gorm:"index" json:"station"` // "kitchen", "cashier"
	Type       string    `json:"type"`                 // "network", "serial", "usb", "file"
	Address    string    `json:"address"`              // IP address, device path or file path
	Port       int       `json:"port"`                 // For network printers
	PaperWidth int       `json:"paper_width"`          // 58mm, 80mm
	AutoCut    bool      `json:"auto_cut"`
	IsActive   bool      `gorm:"default:true" json:"is_active"`
	CreatedAt  time.Time `json:"created_at"`
	UpdatedAt  time.Time `json:"updated_at"`
}
