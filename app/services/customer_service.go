package services

import (
	"context"
	"fmt"
	"time"

	"RestaurantPos/app/models"

	"github.com/shopspring/decimal"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// CustomerService handles customers and their credit accounts
type CustomerService struct {
	BaseService
	logger *LoggerService
}

// NewCustomerService creates a new customer service
func NewCustomerService(db *gorm.DB, logger *LoggerService) *CustomerService {
	return &CustomerService{
		BaseService: NewBaseService(db),
		logger:      logger,
	}
}

// CreateCustomer stores a new customer with no balance
func (s *CustomerService) CreateCustomer(ctx context.Context, customer *models.Customer) error {
	if customer.Name == "" {
		return invalid("customer name is required")
	}
	customer.ID = 0
	customer.CreditBalance = decimal.Zero
	if err := s.db.WithContext(ctx).Create(customer).Error; err != nil {
		return fmt.Errorf("failed to create customer: %w", err)
	}
	return nil
}

// UpdateCustomer changes contact details. The credit balance only changes
// through bills and SettleCredit.
func (s *CustomerService) UpdateCustomer(ctx context.Context, id uint, in *models.Customer) (*models.Customer, error) {
	if in.Name == "" {
		return nil, invalid("customer name is required")
	}
	var customer models.Customer
	if err := first(s.db.WithContext(ctx), &customer, id, "customer"); err != nil {
		return nil, err
	}
	err := s.db.WithContext(ctx).Model(&customer).Updates(map[string]interface{}{
		"name":  in.Name,
		"phone": in.Phone,
		"email": in.Email,
	}).Error
	if err != nil {
		return nil, fmt.Errorf("failed to update customer: %w", err)
	}
	return s.GetCustomer(ctx, id)
}

// GetCustomer returns one customer
func (s *CustomerService) GetCustomer(ctx context.Context, id uint) (*models.Customer, error) {
	var customer models.Customer
	if err := first(s.db.WithContext(ctx), &customer, id, "customer"); err != nil {
		return nil, err
	}
	return &customer, nil
}

// ListCustomers returns customers matching search by name or phone
func (s *CustomerService) ListCustomers(ctx context.Context, search string) ([]models.Customer, error) {
	query := s.db.WithContext(ctx).Order("name")
	if search != "" {
		like := "%" + search + "%"
		query = query.Where("name LIKE ? OR phone LIKE ?", like, like)
	}

	var customers []models.Customer
	if err := query.Find(&customers).Error; err != nil {
		return nil, fmt.Errorf("failed to list customers: %w", err)
	}
	return customers, nil
}

// DeleteCustomer removes a customer with no outstanding balance
func (s *CustomerService) DeleteCustomer(ctx context.Context, id uint) error {
	customer, err := s.GetCustomer(ctx, id)
	if err != nil {
		return err
	}
	if !customer.CreditBalance.IsZero() {
		return invalid("customer %s still owes %s", customer.Name, customer.CreditBalance.StringFixed(2))
	}
	if err := s.db.WithContext(ctx).Delete(customer).Error; err != nil {
		return fmt.Errorf("failed to delete customer: %w", err)
	}
	return nil
}

// SettleCredit records a payment against the customer's credit balance
func (s *CustomerService) SettleCredit(ctx context.Context, id uint, amount decimal.Decimal) (*models.Customer, error) {
	if !amount.IsPositive() {
		return nil, invalid("settlement amount must be positive")
	}

	err := s.WithTransaction(ctx, func(tx *gorm.DB) error {
		var customer models.Customer
		if err := first(tx.Clauses(clause.Locking{Strength: "UPDATE"}), &customer, id, "customer"); err != nil {
			return err
		}
		if amount.GreaterThan(customer.CreditBalance) {
			return invalid("amount %s exceeds balance %s", amount.StringFixed(2), customer.CreditBalance.StringFixed(2))
		}
		return tx.Model(&customer).Update("credit_balance", customer.CreditBalance.Sub(amount)).Error
	})
	if err != nil {
		return nil, err
	}

	s.logger.LogInfo("Credit settled", fmt.Sprintf("customer=%d amount=%s", id, amount.StringFixed(2)))
	return s.GetCustomer(ctx, id)
}

// chargeCredit adds amount to the customer's balance inside tx
func chargeCredit(tx *gorm.DB, customerID uint, amount decimal.Decimal) error {
	var customer models.Customer
	if err := first(tx.Clauses(clause.Locking{Strength: "UPDATE"}), &customer, customerID, "customer"); err != nil {
		return err
	}
	return tx.Model(&customer).Update("credit_balance", customer.CreditBalance.Add(amount)).Error
}

// ExpenseService records restaurant expenses
type ExpenseService struct {
	BaseService
	logger *LoggerService
	now    func() time.Time
}

// NewExpenseService creates a new expense service
func NewExpenseService(db *gorm.DB, logger *LoggerService) *ExpenseService {
	return &ExpenseService{
		BaseService: NewBaseService(db),
		logger:      logger,
		now:         time.Now,
	}
}

// CreateExpense stores an expense; SpentAt defaults to now
func (s *ExpenseService) CreateExpense(ctx context.Context, expense *models.Expense) error {
	if expense.Description == "" {
		return invalid("expense description is required")
	}
	if !expense.Amount.IsPositive() {
		return invalid("expense amount must be positive")
	}
	if expense.SpentAt.IsZero() {
		expense.SpentAt = s.now()
	}
	expense.SpentAt = expense.SpentAt.UTC()
	expense.ID = 0
	if err := s.db.WithContext(ctx).Create(expense).Error; err != nil {
		return fmt.Errorf("failed to create expense: %w", err)
	}
	return nil
}

// ListExpenses returns expenses spent in [from, to)
func (s *ExpenseService) ListExpenses(ctx context.Context, from, to time.Time) ([]models.Expense, error) {
	var expenses []models.Expense
	err := s.db.WithContext(ctx).
		Where("spent_at >= ? AND spent_at < ?", from.UTC(), to.UTC()).
		Order("spent_at").
		Find(&expenses).Error
	if err != nil {
		return nil, fmt.Errorf("failed to list expenses: %w", err)
	}
	return expenses, nil
}

// DeleteExpense removes an expense
func (s *ExpenseService) DeleteExpense(ctx context.Context, id uint) error {
	res := s.db.WithContext(ctx).Delete(&models.Expense{}, id)
	if res.Error != nil {
		return fmt.Errorf("failed to delete expense: %w", res.Error)
	}
	if res.RowsAffected == 0 {
		return fmt.Errorf("expense %d: %w", id, ErrNotFound)
	}
	return nil
}
