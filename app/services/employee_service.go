package services

import (
	"context"
	"fmt"

	"RestaurantPos/app/models"
	"RestaurantPos/app/security"

	"gorm.io/gorm"
)

// EmployeeService handles staff members and PIN checks
type EmployeeService struct {
	BaseService
	logger *LoggerService
}

// NewEmployeeService creates a new employee service
func NewEmployeeService(db *gorm.DB, logger *LoggerService) *EmployeeService {
	return &EmployeeService{
		BaseService: NewBaseService(db),
		logger:      logger,
	}
}

// CreateEmployee stores a staff member with a hashed PIN
func (s *EmployeeService) CreateEmployee(ctx context.Context, employee *models.Employee, pin string) error {
	if employee.Name == "" {
		return invalid("employee name is required")
	}
	if !employee.Role.Valid() {
		return invalid("unknown role %q", employee.Role)
	}

	hash, err := security.HashPIN(pin)
	if err != nil {
		return invalid("%v", err)
	}
	employee.ID = 0
	employee.PIN = hash
	employee.IsActive = true

	if err := s.db.WithContext(ctx).Create(employee).Error; err != nil {
		return fmt.Errorf("failed to create employee: %w", err)
	}
	s.logger.LogInfo("Employee created", fmt.Sprintf("id=%d role=%s", employee.ID, employee.Role))
	return nil
}

// ListEmployees returns every staff member
func (s *EmployeeService) ListEmployees(ctx context.Context) ([]models.Employee, error) {
	var employees []models.Employee
	if err := s.db.WithContext(ctx).Order("name").Find(&employees).Error; err != nil {
		return nil, fmt.Errorf("failed to list employees: %w", err)
	}
	return employees, nil
}

// DeactivateEmployee disables a staff member's PIN
func (s *EmployeeService) DeactivateEmployee(ctx context.Context, id uint) error {
	res := s.db.WithContext(ctx).Model(&models.Employee{}).Where("id = ?", id).Update("is_active", false)
	if res.Error != nil {
		return fmt.Errorf("failed to deactivate employee: %w", res.Error)
	}
	if res.RowsAffected == 0 {
		return fmt.Errorf("employee %d: %w", id, ErrNotFound)
	}
	return nil
}

// AuthenticateByPIN returns the active employee whose PIN matches
func (s *EmployeeService) AuthenticateByPIN(ctx context.Context, pin string) (*models.Employee, error) {
	if pin == "" {
		return nil, fmt.Errorf("invalid PIN: %w", ErrNotFound)
	}

	var employees []models.Employee
	if err := s.db.WithContext(ctx).Where("is_active = ?", true).Find(&employees).Error; err != nil {
		return nil, fmt.Errorf("failed to load employees: %w", err)
	}

	for i := range employees {
		if security.CheckPIN(employees[i].PIN, pin) {
			return &employees[i], nil
		}
	}
	return nil, fmt.Errorf("invalid PIN: %w", ErrNotFound)
}

// AuthorizeDiscount returns the manager or admin approving a discount with pin
func (s *EmployeeService) AuthorizeDiscount(ctx context.Context, pin string) (*models.Employee, error) {
	employee, err := s.AuthenticateByPIN(ctx, pin)
	if err != nil || !employee.CanAuthorizeDiscounts() {
		s.logger.LogWarning("Discount authorization rejected")
		return nil, ErrDiscountNotAuthorized
	}
	return employee, nil
}

// HasDiscountApprovers reports whether any active admin or manager exists.
// Without one, discounts need no PIN.
func (s *EmployeeService) HasDiscountApprovers(ctx context.Context) (bool, error) {
	var count int64
	err := s.db.WithContext(ctx).Model(&models.Employee{}).
		Where("is_active = ? AND role IN ?", true, []models.Role{models.RoleAdmin, models.RoleManager}).
		Count(&count).Error
	if err != nil {
		return false, fmt.Errorf("failed to count approvers: %w", err)
	}
	return count > 0, nil
}
