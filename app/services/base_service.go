package services

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"RestaurantPos/app/models"
	"RestaurantPos/app/printer"
	"RestaurantPos/app/receipt"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

var (
	ErrNotFound                = errors.New("not found")
	ErrInvalidInput            = errors.New("invalid input")
	ErrOrderBilled             = errors.New("order already billed")
	ErrInvalidStatusTransition = errors.New("invalid status transition")
	ErrNothingToBill           = errors.New("no unbilled orders for table")
	ErrDiscountNotAuthorized   = errors.New("discount not authorized")
	ErrCustomerRequired        = errors.New("credit payment requires a customer")
)

// Notifier pushes realtime events to staff devices
type Notifier interface {
	Emit(event string, payload interface{}, rooms ...string)
}

// Dispatcher delivers print instructions to a printer
type Dispatcher interface {
	Dispatch(ctx context.Context, instrs []receipt.Instruction, target printer.Target) bool
	Send(ctx context.Context, instrs []receipt.Instruction, target printer.Target) error
}

// KitchenPrinter prints kitchen tickets
type KitchenPrinter interface {
	PrintKitchenTicket(ctx context.Context, order *models.Order) bool
}

// BillPrinter prints customer receipts
type BillPrinter interface {
	PrintBill(ctx context.Context, bill *models.Bill) bool
}

type nopNotifier struct{}

func (nopNotifier) Emit(string, interface{}, ...string) {}

// BaseService provides common functionality for all services
type BaseService struct {
	db *gorm.DB
}

// NewBaseService creates a new base service instance
func NewBaseService(db *gorm.DB) BaseService {
	return BaseService{db: db}
}

// GetDB returns the database connection
func (b *BaseService) GetDB() *gorm.DB {
	return b.db
}

// EnsureDB checks if database is initialized and returns an error if not
func (b *BaseService) EnsureDB() error {
	if b.db == nil {
		return fmt.Errorf("database not initialized")
	}
	return nil
}

// WithTransaction executes a function within a database transaction
func (b *BaseService) WithTransaction(ctx context.Context, fn func(tx *gorm.DB) error) error {
	if err := b.EnsureDB(); err != nil {
		return err
	}
	return b.db.WithContext(ctx).Transaction(fn)
}

// first loads one record by id, mapping a missing row to ErrNotFound
func first(db *gorm.DB, dest interface{}, id uint, what string) error {
	if err := db.First(dest, id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return fmt.Errorf("%s %d: %w", what, id, ErrNotFound)
		}
		return fmt.Errorf("failed to load %s %d: %w", what, id, err)
	}
	return nil
}

// generateNumber returns a human readable, unique document number such as
// ORD-20260314-193000-3FA2C1
func generateNumber(prefix string, now time.Time) string {
	suffix := strings.ToUpper(strings.ReplaceAll(uuid.NewString(), "-", "")[:6])
	return fmt.Sprintf("%s-%s-%s", prefix, now.Format("20060102-150405"), suffix)
}

func invalid(format string, args ...interface{}) error {
	return fmt.Errorf("%w: %s", ErrInvalidInput, fmt.Sprintf(format, args...))
}
