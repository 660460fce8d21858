package services

import (
	"context"
	"fmt"
	"time"

	"RestaurantPos/app/models"
	"RestaurantPos/app/pricing"
	"RestaurantPos/app/websocket"

	"github.com/shopspring/decimal"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// PaymentInput is one payment tendered at checkout
type PaymentInput struct {
	Method    models.PaymentMethod `json:"method"`
	Amount    decimal.Decimal      `json:"amount"`
	Reference string               `json:"reference,omitempty"`
}

// CheckoutInput closes every unbilled order of a table
type CheckoutInput struct {
	TableID          uint            `json:"table_id"`
	Discount         decimal.Decimal `json:"discount"`
	Payments         []PaymentInput  `json:"payments"`
	CustomerID       *uint           `json:"customer_id,omitempty"`
	AuthorizationPIN string          `json:"authorization_pin,omitempty"`
}

// BillService turns a table's orders into bills and records their payments
type BillService struct {
	BaseService
	taxRate   decimal.Decimal
	employees *EmployeeService
	notifier  Notifier
	printer   BillPrinter
	logger    *LoggerService
	now       func() time.Time
}

// NewBillService creates a new bill service. notifier and printer may be nil.
func NewBillService(db *gorm.DB, taxRate decimal.Decimal, employees *EmployeeService, notifier Notifier, printer BillPrinter, logger *LoggerService) *BillService {
	if notifier == nil {
		notifier = nopNotifier{}
	}
	return &BillService{
		BaseService: NewBaseService(db),
		taxRate:     taxRate,
		employees:   employees,
		notifier:    notifier,
		printer:     printer,
		logger:      logger,
		now:         time.Now,
	}
}

// withBillDetails preloads everything printed on a receipt
func withBillDetails(db *gorm.DB) *gorm.DB {
	return db.Preload("Table").
		Preload("Customer").
		Preload("Payments", func(db *gorm.DB) *gorm.DB { return db.Order("id") }).
		Preload("Orders", func(db *gorm.DB) *gorm.DB { return db.Order("created_at, id") }).
		Preload("Orders.Lines", func(db *gorm.DB) *gorm.DB { return db.Order("id") }).
		Preload("Orders.Lines.AddOns", func(db *gorm.DB) *gorm.DB { return db.Order("id") })
}

func validatePayments(payments []PaymentInput, customerID *uint) error {
	for i, p := range payments {
		if !p.Method.Valid() {
			return invalid("payment %d: unknown method %q", i+1, p.Method)
		}
		if !p.Amount.IsPositive() {
			return invalid("payment %d: amount must be positive", i+1)
		}
		if p.Method == models.PaymentCredit && customerID == nil {
			return ErrCustomerRequired
		}
	}
	return nil
}

// authorizeDiscount checks the approving PIN when a discount is requested
// and at least one manager or admin exists
func (s *BillService) authorizeDiscount(ctx context.Context, discount decimal.Decimal, pin string) error {
	if !discount.IsPositive() || s.employees == nil {
		return nil
	}
	required, err := s.employees.HasDiscountApprovers(ctx)
	if err != nil {
		return err
	}
	if !required {
		return nil
	}
	approver, err := s.employees.AuthorizeDiscount(ctx, pin)
	if err != nil {
		return err
	}
	s.logger.LogInfo("Discount authorized", fmt.Sprintf("by=%s amount=%s", approver.Name, discount.StringFixed(2)))
	return nil
}

// Checkout bills all unbilled orders of a table, frees the table, charges
// credit payments to the customer, notifies the cashier and prints the
// receipt. A failed print does not fail the checkout.
func (s *BillService) Checkout(ctx context.Context, in CheckoutInput) (*models.Bill, error) {
	if in.Discount.IsNegative() {
		return nil, invalid("discount cannot be negative")
	}
	if err := validatePayments(in.Payments, in.CustomerID); err != nil {
		return nil, err
	}
	if err := s.authorizeDiscount(ctx, in.Discount, in.AuthorizationPIN); err != nil {
		return nil, err
	}

	var billID uint
	var table models.Table

	err := s.WithTransaction(ctx, func(tx *gorm.DB) error {
		// The table row lock serializes concurrent checkouts of one table
		if err := first(tx.Clauses(clause.Locking{Strength: "UPDATE"}), &table, in.TableID, "table"); err != nil {
			return err
		}
		if in.CustomerID != nil {
			var customer models.Customer
			if err := first(tx, &customer, *in.CustomerID, "customer"); err != nil {
				return err
			}
		}

		var orders []models.Order
		err := tx.Clauses(clause.Locking{Strength: "UPDATE"}).
			Preload("Lines").
			Where("table_id = ? AND is_billed = ?", in.TableID, false).
			Order("created_at, id").
			Find(&orders).Error
		if err != nil {
			return fmt.Errorf("failed to load orders: %w", err)
		}
		if len(orders) == 0 {
			return fmt.Errorf("table %s: %w", table.Number, ErrNothingToBill)
		}

		totals := pricing.ComputeBillTotals(orders, s.taxRate, in.Discount)
		bill := models.Bill{
			BillNumber: generateNumber("BILL", s.now()),
			TableID:    table.ID,
			Subtotal:   totals.Subtotal,
			TaxRate:    s.taxRate,
			Tax:        totals.Tax,
			Discount:   in.Discount,
			Total:      totals.Total,
			CustomerID: in.CustomerID,
		}
		credit := decimal.Zero
		for _, p := range in.Payments {
			bill.Payments = append(bill.Payments, models.Payment{Method: p.Method, Amount: p.Amount, Reference: p.Reference})
			if p.Method == models.PaymentCredit {
				credit = credit.Add(p.Amount)
			}
		}
		if len(bill.Payments) > 0 && bill.Paid().GreaterThan(bill.Total) {
			return invalid("payments %s exceed bill total %s", bill.Paid().StringFixed(2), bill.Total.StringFixed(2))
		}

		if err := tx.Create(&bill).Error; err != nil {
			return fmt.Errorf("failed to save bill: %w", err)
		}
		billID = bill.ID

		if err := attachOrders(tx, bill.ID, orders); err != nil {
			return err
		}

		if err := tx.Model(&table).Update("status", models.TableStatusAvailable).Error; err != nil {
			return fmt.Errorf("failed to free table: %w", err)
		}
		table.Status = models.TableStatusAvailable

		if credit.IsPositive() {
			if err := chargeCredit(tx, *in.CustomerID, credit); err != nil {
				return err
			}
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	bill, err := s.GetBill(ctx, billID)
	if err != nil {
		return nil, err
	}
	s.logger.LogInfo("Bill created", fmt.Sprintf("bill=%s table=%s orders=%d total=%s", bill.BillNumber, bill.TableNumber(), len(bill.Orders), bill.Total.StringFixed(2)))

	s.notifier.Emit(websocket.EventBillCreated, bill, websocket.RoomCashier, websocket.RoomAdmin)
	s.notifier.Emit(websocket.EventTableUpdated, table, websocket.RoomWaiter, websocket.RoomCashier)
	if len(bill.Payments) > 0 && !bill.Balance().IsPositive() {
		s.emitPaid(bill)
	}

	if s.printer != nil {
		s.printer.PrintBill(ctx, bill)
	}
	return bill, nil
}

// attachOrders marks orders billed on billID. Every order must still be
// unbilled; an order claimed by another bill fails the whole checkout.
func attachOrders(tx *gorm.DB, billID uint, orders []models.Order) error {
	ids := make([]uint, len(orders))
	for i := range orders {
		ids[i] = orders[i].ID
	}
	res := tx.Model(&models.Order{}).
		Where("id IN ? AND is_billed = ?", ids, false).
		Updates(map[string]interface{}{
			"is_billed": true,
			"bill_id":   billID,
		})
	if res.Error != nil {
		return fmt.Errorf("failed to mark orders billed: %w", res.Error)
	}
	if res.RowsAffected != int64(len(ids)) {
		return fmt.Errorf("%d of %d orders: %w", int64(len(ids))-res.RowsAffected, len(ids), ErrOrderBilled)
	}
	return nil
}

// AddPayment records a further payment on an existing bill. It is the only
// change allowed once a bill is created.
func (s *BillService) AddPayment(ctx context.Context, billID uint, in PaymentInput) (*models.Bill, error) {
	var customerID *uint

	err := s.WithTransaction(ctx, func(tx *gorm.DB) error {
		var bill models.Bill
		// Locked so concurrent payments see each other before the balance check
		if err := first(tx.Clauses(clause.Locking{Strength: "UPDATE"}).Preload("Payments"), &bill, billID, "bill"); err != nil {
			return err
		}
		customerID = bill.CustomerID
		if err := validatePayments([]PaymentInput{in}, customerID); err != nil {
			return err
		}
		if in.Amount.GreaterThan(bill.Balance()) {
			return invalid("payment %s exceeds balance %s", in.Amount.StringFixed(2), bill.Balance().StringFixed(2))
		}

		payment := models.Payment{BillID: bill.ID, Method: in.Method, Amount: in.Amount, Reference: in.Reference}
		if err := tx.Create(&payment).Error; err != nil {
			return fmt.Errorf("failed to save payment: %w", err)
		}
		if in.Method == models.PaymentCredit {
			return chargeCredit(tx, *customerID, in.Amount)
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	bill, err := s.GetBill(ctx, billID)
	if err != nil {
		return nil, err
	}
	s.logger.LogInfo("Payment recorded", fmt.Sprintf("bill=%s method=%s amount=%s", bill.BillNumber, in.Method, in.Amount.StringFixed(2)))

	if !bill.Balance().IsPositive() {
		s.emitPaid(bill)
	}
	return bill, nil
}

func (s *BillService) emitPaid(bill *models.Bill) {
	s.notifier.Emit(websocket.EventBillPaid, map[string]interface{}{
		"bill_id":      bill.ID,
		"bill_number":  bill.BillNumber,
		"table_number": bill.TableNumber(),
		"total":        bill.Total,
	}, websocket.RoomCashier, websocket.RoomAdmin)
}

// GetBill returns a bill with its table, orders, payments and customer
func (s *BillService) GetBill(ctx context.Context, id uint) (*models.Bill, error) {
	var bill models.Bill
	if err := first(withBillDetails(s.db.WithContext(ctx)), &bill, id, "bill"); err != nil {
		return nil, err
	}
	return &bill, nil
}

// ReprintBill prints the receipt of an existing bill again
func (s *BillService) ReprintBill(ctx context.Context, id uint) (bool, error) {
	bill, err := s.GetBill(ctx, id)
	if err != nil {
		return false, err
	}
	if s.printer == nil {
		return false, nil
	}
	return s.printer.PrintBill(ctx, bill), nil
}

// ListBills returns bills created in [from, to), newest first
func (s *BillService) ListBills(ctx context.Context, from, to time.Time) ([]models.Bill, error) {
	if !to.After(from) {
		return nil, invalid("empty date range")
	}
	var bills []models.Bill
	err := s.db.WithContext(ctx).
		Preload("Table").
		Preload("Payments", func(db *gorm.DB) *gorm.DB { return db.Order("id") }).
		Where("created_at >= ? AND created_at < ?", from.UTC(), to.UTC()).
		Order("created_at DESC, id DESC").
		Find(&bills).Error
	if err != nil {
		return nil, fmt.Errorf("failed to list bills: %w", err)
	}
	return bills, nil
}
