package config

import (
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"time"

	"RestaurantPos/app/security"

	"github.com/shopspring/decimal"
)

// AppConfig holds all application configuration
type AppConfig struct {
	Database DatabaseConfig `json:"database"`
	Server   ServerConfig   `json:"server"`
	Printers PrintersConfig `json:"printers"`
	Billing  BillingConfig  `json:"billing"`
	Reports  ReportsConfig  `json:"reports"`
	Logging  LoggingConfig  `json:"logging"`
}

// DatabaseConfig holds database connection settings
type DatabaseConfig struct {
	Driver   string `json:"driver"` // "postgres" or "sqlite"
	URL      string `json:"url,omitempty"`
	Host     string `json:"host"`
	Port     int    `json:"port"`
	Database string `json:"database"`
	Username string `json:"username"`
	Password string `json:"password"`
	SSLMode  string `json:"ssl_mode"`
	Path     string `json:"path,omitempty"` // SQLite file
}

// ServerConfig holds the HTTP listener and LAN discovery settings
type ServerConfig struct {
	Port         int      `json:"port"`
	AnnounceMDNS bool     `json:"announce_mdns"`
	ServiceName  string   `json:"service_name"`
	AllowOrigins []string `json:"allow_origins"`
}

// PrintersConfig holds the fallback station addresses used when no printer
// is configured in the database
type PrintersConfig struct {
	Kitchen        string `json:"kitchen"`
	Cashier        string `json:"cashier"`
	TimeoutSeconds int    `json:"timeout_seconds"`
	PaperWidth     int    `json:"paper_width"`
	FooterQRURL    string `json:"footer_qr_url,omitempty"` // e.g. https://example.com/bills/%s
}

// BillingConfig holds checkout settings
type BillingConfig struct {
	TaxRate        decimal.Decimal `json:"tax_rate"`
	RestaurantName string          `json:"restaurant_name"`
	Address        string          `json:"address"`
	Phone          string          `json:"phone"`
}

// ReportsConfig holds the closing report schedule
type ReportsConfig struct {
	ClosingSchedule string `json:"closing_schedule"` // cron expression, empty disables
	PrintClosing    bool   `json:"print_closing"`
}

// LoggingConfig holds log file settings
type LoggingConfig struct {
	Dir           string `json:"dir"`
	RetentionDays int    `json:"retention_days"`
}

// PrintTimeout returns the printer timeout as a duration
func (c *AppConfig) PrintTimeout() time.Duration {
	if c.Printers.TimeoutSeconds <= 0 {
		return 5 * time.Second
	}
	return time.Duration(c.Printers.TimeoutSeconds) * time.Second
}

// GetConfigPath returns the path to the config file
func GetConfigPath() string {
	if path := os.Getenv("POS_CONFIG"); path != "" {
		return path
	}
	return "config.json"
}

// Default returns the configuration used on first start
func Default() *AppConfig {
	return &AppConfig{
		Database: DatabaseConfig{
			Driver:   "postgres",
			Host:     "localhost",
			Port:     5432,
			Database: "restaurant_pos",
			Username: "postgres",
			SSLMode:  "disable",
			Path:     "restaurant.db",
		},
		Server: ServerConfig{
			Port:         8080,
			AnnounceMDNS: true,
			ServiceName:  "Restaurant POS",
			AllowOrigins: []string{"*"},
		},
		Printers: PrintersConfig{
			TimeoutSeconds: 5,
			PaperWidth:     58,
		},
		Billing: BillingConfig{
			TaxRate:        decimal.RequireFromString("0.10"),
			RestaurantName: "Restaurant",
		},
		Reports: ReportsConfig{
			ClosingSchedule: "0 23 * * *",
			PrintClosing:    true,
		},
		Logging: LoggingConfig{
			Dir:           "logs",
			RetentionDays: 30,
		},
	}
}

// LoadConfig loads the configuration at path and decrypts sensitive fields.
// A missing file is created with defaults. Environment variables override
// the file in both cases.
func LoadConfig(path string) (*AppConfig, error) {
	vault := security.NewVault(filepath.Dir(path))

	data, err := os.ReadFile(path)
	switch {
	case errors.Is(err, os.ErrNotExist):
		cfg := Default()
		if err := SaveConfig(path, cfg); err != nil {
			return nil, err
		}
		if err := cfg.ApplyEnv(); err != nil {
			return nil, err
		}
		return cfg, nil
	case err != nil:
		return nil, fmt.Errorf("could not read config file: %w", err)
	}

	cfg := Default()
	if err := json.Unmarshal(data, cfg); err != nil {
		return nil, fmt.Errorf("could not parse config file: %w", err)
	}

	// Plain text is accepted so the file can be edited by hand
	cfg.Database.Password = vault.DecryptOrPlain(cfg.Database.Password)

	if err := cfg.ApplyEnv(); err != nil {
		return nil, err
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// Validate reports settings that would fail later at print time
func (c *AppConfig) Validate() error {
	if err := ValidateFooterQRURL(c.Printers.FooterQRURL); err != nil {
		return fmt.Errorf("invalid printers.footer_qr_url: %w", err)
	}
	return nil
}

// ValidateFooterQRURL checks that pattern is empty or holds exactly one %s
// for the bill number. A literal percent sign is written %%.
func ValidateFooterQRURL(pattern string) error {
	if pattern == "" {
		return nil
	}
	rest := strings.ReplaceAll(pattern, "%%", "")
	if strings.Count(rest, "%") != 1 || strings.Count(rest, "%s") != 1 {
		return fmt.Errorf("pattern %q must contain exactly one %%s and no other verbs", pattern)
	}
	return nil
}

// SaveConfig writes cfg to path with sensitive fields encrypted
func SaveConfig(path string, cfg *AppConfig) error {
	vault := security.NewVault(filepath.Dir(path))

	// Encrypt a copy so the caller keeps plain values
	cfgCopy := *cfg
	if cfgCopy.Database.Password != "" {
		enc, err := vault.Encrypt(cfgCopy.Database.Password)
		if err != nil {
			return fmt.Errorf("could not encrypt database password: %w", err)
		}
		cfgCopy.Database.Password = enc
	}

	data, err := json.MarshalIndent(&cfgCopy, "", "  ")
	if err != nil {
		return fmt.Errorf("could not marshal config: %w", err)
	}

	if dir := filepath.Dir(path); dir != "." {
		if err := os.MkdirAll(dir, 0755); err != nil {
			return fmt.Errorf("could not create config directory: %w", err)
		}
	}
	if err := os.WriteFile(path, data, 0600); err != nil {
		return fmt.Errorf("could not write config file: %w", err)
	}
	return nil
}

// ApplyEnv overrides configuration values from the environment
func (c *AppConfig) ApplyEnv() error {
	setString := func(key string, dst *string) {
		if v, ok := os.LookupEnv(key); ok {
			*dst = v
		}
	}
	setInt := func(key string, dst *int) error {
		v, ok := os.LookupEnv(key)
		if !ok || v == "" {
			return nil
		}
		n, err := strconv.Atoi(v)
		if err != nil {
			return fmt.Errorf("invalid %s: %w", key, err)
		}
		*dst = n
		return nil
	}

	setString("DB_DRIVER", &c.Database.Driver)
	setString("DATABASE_URL", &c.Database.URL)
	setString("DB_HOST", &c.Database.Host)
	setString("DB_USER", &c.Database.Username)
	setString("DB_PASSWORD", &c.Database.Password)
	setString("DB_NAME", &c.Database.Database)
	setString("DB_SSLMODE", &c.Database.SSLMode)
	setString("DB_PATH", &c.Database.Path)
	setString("KITCHEN_PRINTER", &c.Printers.Kitchen)
	setString("CASHIER_PRINTER", &c.Printers.Cashier)
	setString("LOG_DIR", &c.Logging.Dir)

	if err := setInt("DB_PORT", &c.Database.Port); err != nil {
		return err
	}
	if err := setInt("HTTP_PORT", &c.Server.Port); err != nil {
		return err
	}
	if err := setInt("PRINT_TIMEOUT", &c.Printers.TimeoutSeconds); err != nil {
		return err
	}

	if v := os.Getenv("TAX_RATE"); v != "" {
		rate, err := decimal.NewFromString(v)
		if err != nil {
			return fmt.Errorf("invalid TAX_RATE: %w", err)
		}
		c.Billing.TaxRate = rate
	}
	return nil
}
