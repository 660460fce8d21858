package services

import (
	"context"
	"errors"
	"fmt"
	"time"

	"RestaurantPos/app/models"
	"RestaurantPos/app/pricing"
	"RestaurantPos/app/websocket"

	"gorm.io/gorm"
)

// OrderLineInput is one item requested by a waiter
type OrderLineInput struct {
	MenuItemID uint     `json:"menu_item_id"`
	Quantity   int      `json:"quantity"`
	Variation  string   `json:"variation,omitempty"`
	AddOns     []string `json:"add_ons,omitempty"`
	Notes      string   `json:"notes,omitempty"`
}

// CreateOrderInput is a new order for a table
type CreateOrderInput struct {
	TableID  uint             `json:"table_id"`
	WaiterID *uint            `json:"waiter_id,omitempty"`
	Notes    string           `json:"notes,omitempty"`
	Lines    []OrderLineInput `json:"lines"`
}

// OrderService handles orders and the tables they are placed on
type OrderService struct {
	BaseService
	notifier Notifier
	printer  KitchenPrinter
	logger   *LoggerService
	now      func() time.Time
}

// NewOrderService creates a new order service. notifier and printer may be nil.
func NewOrderService(db *gorm.DB, notifier Notifier, printer KitchenPrinter, logger *LoggerService) *OrderService {
	if notifier == nil {
		notifier = nopNotifier{}
	}
	return &OrderService{
		BaseService: NewBaseService(db),
		notifier:    notifier,
		printer:     printer,
		logger:      logger,
		now:         time.Now,
	}
}

// withLines preloads the table and the lines with their add-ons
func withLines(db *gorm.DB) *gorm.DB {
	return db.Preload("Table").
		Preload("Lines", func(db *gorm.DB) *gorm.DB { return db.Order("id") }).
		Preload("Lines.AddOns", func(db *gorm.DB) *gorm.DB { return db.Order("id") })
}

// CreateOrder prices and saves an order, marks its table occupied, notifies
// staff and prints the kitchen ticket. A failed print does not fail the order.
func (s *OrderService) CreateOrder(ctx context.Context, in CreateOrderInput) (*models.Order, error) {
	if len(in.Lines) == 0 {
		return nil, invalid("order has no items")
	}

	order := models.Order{
		OrderNumber: generateNumber("ORD", s.now()),
		TableID:     in.TableID,
		Status:      models.OrderStatusPending,
		Notes:       in.Notes,
		WaiterID:    in.WaiterID,
	}
	var tableChanged bool

	err := s.WithTransaction(ctx, func(tx *gorm.DB) error {
		var table models.Table
		if err := first(tx, &table, in.TableID, "table"); err != nil {
			return err
		}

		for i, li := range in.Lines {
			line, err := s.priceLine(tx, li)
			if err != nil {
				return fmt.Errorf("line %d: %w", i+1, err)
			}
			order.Lines = append(order.Lines, line)
		}

		if err := tx.Create(&order).Error; err != nil {
			return fmt.Errorf("failed to save order: %w", err)
		}

		if table.Status != models.TableStatusOccupied {
			tableChanged = true
			if err := tx.Model(&table).Update("status", models.TableStatusOccupied).Error; err != nil {
				return fmt.Errorf("failed to update table status: %w", err)
			}
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	saved, err := s.GetOrder(ctx, order.ID)
	if err != nil {
		return nil, err
	}
	s.logger.LogInfo("Order created", fmt.Sprintf("order=%s table=%s lines=%d", saved.OrderNumber, saved.TableNumber(), len(saved.Lines)))

	s.notifier.Emit(websocket.EventNewOrder, saved, websocket.RoomKitchen, websocket.RoomWaiter, websocket.RoomCashier)
	if tableChanged {
		s.notifier.Emit(websocket.EventTableUpdated, saved.Table, websocket.RoomWaiter, websocket.RoomCashier)
	}

	if s.printer != nil {
		s.printer.PrintKitchenTicket(ctx, saved)
	}
	return saved, nil
}

// priceLine resolves the menu item of li and snapshots its name and prices
func (s *OrderService) priceLine(tx *gorm.DB, li OrderLineInput) (models.OrderLine, error) {
	var item models.MenuItem
	if err := first(withOptions(tx), &item, li.MenuItemID, "menu item"); err != nil {
		return models.OrderLine{}, err
	}
	if !item.IsActive {
		return models.OrderLine{}, invalid("menu item %q is not available", item.Name)
	}

	total, err := pricing.ComputeLineTotal(item, li.Quantity, li.Variation, li.AddOns)
	if err != nil {
		return models.OrderLine{}, err
	}

	line := models.OrderLine{
		MenuItemID: item.ID,
		ItemName:   item.Name,
		Quantity:   li.Quantity,
		Variation:  li.Variation,
		Notes:      li.Notes,
		ItemPrice:  total.ItemPrice,
		AddOnPrice: total.AddOnPrice,
		TotalPrice: total.TotalPrice,
	}
	for _, a := range pricing.ResolveAddOns(item, li.AddOns) {
		line.AddOns = append(line.AddOns, models.OrderLineAddOn{Name: a.Name, Price: a.Price})
	}
	return line, nil
}

// UpdateOrderStatus moves an unbilled order forward through the kitchen flow
func (s *OrderService) UpdateOrderStatus(ctx context.Context, id uint, status models.OrderStatus) (*models.Order, error) {
	if !status.Valid() {
		return nil, invalid("unknown order status %q", status)
	}

	err := s.WithTransaction(ctx, func(tx *gorm.DB) error {
		var order models.Order
		if err := first(tx, &order, id, "order"); err != nil {
			return err
		}
		if order.IsBilled {
			return fmt.Errorf("order %s: %w", order.OrderNumber, ErrOrderBilled)
		}
		if !order.Status.CanAdvanceTo(status) {
			return fmt.Errorf("%w: %s to %s", ErrInvalidStatusTransition, order.Status, status)
		}
		return tx.Model(&order).Update("status", status).Error
	})
	if err != nil {
		return nil, err
	}

	order, err := s.GetOrder(ctx, id)
	if err != nil {
		return nil, err
	}

	s.notifier.Emit(websocket.EventOrderStatusUpdated, map[string]interface{}{
		"order_id":     order.ID,
		"order_number": order.OrderNumber,
		"table_number": order.TableNumber(),
		"status":       order.Status,
	}, websocket.RoomKitchen, websocket.RoomWaiter, websocket.RoomCashier)

	return order, nil
}

// GetOrder returns an order with its table, lines and add-ons
func (s *OrderService) GetOrder(ctx context.Context, id uint) (*models.Order, error) {
	var order models.Order
	if err := first(withLines(s.db.WithContext(ctx)), &order, id, "order"); err != nil {
		return nil, err
	}
	return &order, nil
}

// ListOrdersByTable returns the orders of a table, oldest first
func (s *OrderService) ListOrdersByTable(ctx context.Context, tableID uint, unbilledOnly bool) ([]models.Order, error) {
	query := withLines(s.db.WithContext(ctx)).Where("table_id = ?", tableID).Order("created_at, id")
	if unbilledOnly {
		query = query.Where("is_billed = ?", false)
	}

	var orders []models.Order
	if err := query.Find(&orders).Error; err != nil {
		return nil, fmt.Errorf("failed to list orders: %w", err)
	}
	return orders, nil
}

// ListOrdersByStatus returns unbilled orders in the given statuses, oldest
// first. With no statuses every unbilled order is returned.
func (s *OrderService) ListOrdersByStatus(ctx context.Context, statuses ...models.OrderStatus) ([]models.Order, error) {
	query := withLines(s.db.WithContext(ctx)).Where("is_billed = ?", false).Order("created_at, id")
	if len(statuses) > 0 {
		query = query.Where("status IN ?", statuses)
	}

	var orders []models.Order
	if err := query.Find(&orders).Error; err != nil {
		return nil, fmt.Errorf("failed to list orders: %w", err)
	}
	return orders, nil
}

// ReprintKitchenTicket prints the kitchen ticket of an existing order again
func (s *OrderService) ReprintKitchenTicket(ctx context.Context, id uint) (bool, error) {
	order, err := s.GetOrder(ctx, id)
	if err != nil {
		return false, err
	}
	if s.printer == nil {
		return false, nil
	}
	return s.printer.PrintKitchenTicket(ctx, order), nil
}

// CreateTable adds a table to the floor plan
func (s *OrderService) CreateTable(ctx context.Context, table *models.Table) error {
	if table.Number == "" {
		return invalid("table number is required")
	}
	if table.Capacity < 0 {
		return invalid("capacity cannot be negative")
	}
	table.ID = 0
	table.Status = models.TableStatusAvailable

	var count int64
	if err := s.db.WithContext(ctx).Model(&models.Table{}).Where("number = ?", table.Number).Count(&count).Error; err != nil {
		return fmt.Errorf("failed to check table number: %w", err)
	}
	if count > 0 {
		return invalid("table %s already exists", table.Number)
	}

	if err := s.db.WithContext(ctx).Create(table).Error; err != nil {
		return fmt.Errorf("failed to create table: %w", err)
	}
	return nil
}

// ListTables returns every table ordered by number
func (s *OrderService) ListTables(ctx context.Context) ([]models.Table, error) {
	var tables []models.Table
	if err := s.db.WithContext(ctx).Order("number").Find(&tables).Error; err != nil {
		return nil, fmt.Errorf("failed to list tables: %w", err)
	}
	return tables, nil
}

// UpdateTableStatus sets a table available, occupied or reserved
func (s *OrderService) UpdateTableStatus(ctx context.Context, id uint, status string) (*models.Table, error) {
	switch status {
	case models.TableStatusAvailable, models.TableStatusOccupied, models.TableStatusReserved:
	default:
		return nil, invalid("unknown table status %q", status)
	}

	var table models.Table
	if err := first(s.db.WithContext(ctx), &table, id, "table"); err != nil {
		return nil, err
	}
	if err := s.db.WithContext(ctx).Model(&table).Update("status", status).Error; err != nil {
		return nil, fmt.Errorf("failed to update table: %w", err)
	}
	table.Status = status

	s.notifier.Emit(websocket.EventTableUpdated, table, websocket.RoomWaiter, websocket.RoomCashier)
	return &table, nil
}

// IsValidationError reports whether err was caused by bad client input
func IsValidationError(err error) bool {
	return errors.Is(err, ErrInvalidInput) ||
		errors.Is(err, pricing.ErrInvalidSelection) ||
		errors.Is(err, pricing.ErrInvalidQuantity)
}
