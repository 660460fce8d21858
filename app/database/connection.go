package database

import (
	"fmt"
	"log"
	"strings"
	"time"

	"RestaurantPos/app/config"
	"RestaurantPos/app/models"

	"github.com/glebarez/sqlite"
	"gorm.io/driver/postgres"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

// Supported drivers
const (
	DriverPostgres = "postgres"
	DriverSQLite   = "sqlite"
)

// buildDSN constructs the postgres connection string.
// Priority: URL > individual fields
func buildDSN(cfg config.DatabaseConfig) string {
	if cfg.URL != "" {
		log.Printf("Using DATABASE_URL for database connection")
		return cfg.URL
	}

	log.Printf("Built database connection: host=%s port=%d dbname=%s sslmode=%s",
		cfg.Host, cfg.Port, cfg.Database, cfg.SSLMode)

	return fmt.Sprintf("host=%s port=%d user=%s password=%s dbname=%s sslmode=%s",
		cfg.Host, cfg.Port, cfg.Username, cfg.Password, cfg.Database, cfg.SSLMode)
}

func dialector(cfg config.DatabaseConfig) (gorm.Dialector, error) {
	switch strings.ToLower(cfg.Driver) {
	case "", DriverPostgres:
		return postgres.Open(buildDSN(cfg)), nil
	case DriverSQLite:
		path := cfg.Path
		if path == "" {
			path = "restaurant.db"
		}
		return sqlite.Open(path), nil
	}
	return nil, fmt.Errorf("unsupported database driver: %q", cfg.Driver)
}

// Open connects to the configured database, runs migrations and seeds the
// initial data
func Open(cfg config.DatabaseConfig) (*gorm.DB, error) {
	dial, err := dialector(cfg)
	if err != nil {
		return nil, err
	}

	db, err := gorm.Open(dial, &gorm.Config{
		Logger: logger.Default.LogMode(logger.Silent),
		NowFunc: func() time.Time {
			return time.Now().UTC()
		},
		PrepareStmt: true,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to connect to database: %w", err)
	}

	sqlDB, err := db.DB()
	if err != nil {
		return nil, fmt.Errorf("failed to get database instance: %w", err)
	}

	if strings.ToLower(cfg.Driver) == DriverSQLite {
		// SQLite allows a single writer
		sqlDB.SetMaxOpenConns(1)
	} else {
		sqlDB.SetMaxIdleConns(10)
		sqlDB.SetMaxOpenConns(100)
		sqlDB.SetConnMaxLifetime(time.Hour)
	}

	if err := RunMigrations(db); err != nil {
		return nil, fmt.Errorf("failed to run migrations: %w", err)
	}

	if err := SeedInitialData(db); err != nil {
		log.Printf("Warning: failed to seed initial data: %v", err)
	}

	return db, nil
}

// OpenInMemory opens a private in-memory SQLite database named name. Used by
// tests and demo runs.
func OpenInMemory(name string) (*gorm.DB, error) {
	return Open(config.DatabaseConfig{
		Driver: DriverSQLite,
		Path:   fmt.Sprintf("file:%s?mode=memory&cache=shared", sanitize(name)),
	})
}

func sanitize(name string) string {
	return strings.Map(func(r rune) rune {
		switch {
		case r >= 'a' && r <= 'z', r >= 'A' && r <= 'Z', r >= '0' && r <= '9':
			return r
		}
		return '_'
	}, name)
}

// RunMigrations creates or updates every table
func RunMigrations(db *gorm.DB) error {
	err := db.AutoMigrate(
		// Menu
		&models.MenuItem{},
		&models.MenuVariation{},
		&models.MenuAddOn{},

		// Floor and orders
		&models.Table{},
		&models.Order{},
		&models.OrderLine{},
		&models.OrderLineAddOn{},

		// Billing
		&models.Customer{},
		&models.Bill{},
		&models.Payment{},
		&models.Expense{},

		// Staff and config
		&models.Employee{},
		&models.RestaurantConfig{},
		&models.PrinterConfig{},
	)
	if err != nil {
		return fmt.Errorf("migration failed: %w", err)
	}
	return nil
}

// SeedInitialData creates the default floor plan when the database is new
func SeedInitialData(db *gorm.DB) error {
	// Only when no tables ever existed, so deleted tables are not recreated
	var tableCount int64
	if err := db.Unscoped().Model(&models.Table{}).Count(&tableCount).Error; err != nil {
		return fmt.Errorf("failed to count tables: %w", err)
	}
	if tableCount == 0 {
		for i := 1; i <= 8; i++ {
			table := models.Table{
				Number:   fmt.Sprintf("%d", i),
				Capacity: 4,
				Status:   models.TableStatusAvailable,
			}
			if err := db.Create(&table).Error; err != nil {
				return fmt.Errorf("failed to seed table %d: %w", i, err)
			}
		}
	}

	return nil
}

// Close closes the database connection
func Close(db *gorm.DB) error {
	if db == nil {
		return nil
	}
	sqlDB, err := db.DB()
	if err != nil {
		return err
	}
	return sqlDB.Close()
}
