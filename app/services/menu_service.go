package services

import (
	"context"
	"fmt"

	"RestaurantPos/app/models"

	"gorm.io/gorm"
)

// MenuService handles menu item operations
type MenuService struct {
	BaseService
	logger *LoggerService
}

// NewMenuService creates a new menu service
func NewMenuService(db *gorm.DB, logger *LoggerService) *MenuService {
	return &MenuService{
		BaseService: NewBaseService(db),
		logger:      logger,
	}
}

func byPosition(db *gorm.DB) *gorm.DB {
	return db.Order("position, id")
}

// withOptions preloads variations and add-ons in menu order
func withOptions(db *gorm.DB) *gorm.DB {
	return db.Preload("Variations", byPosition).Preload("AddOns", byPosition)
}

func validateMenuItem(item *models.MenuItem) error {
	if item.Name == "" {
		return invalid("menu item name is required")
	}
	if item.BasePrice.IsNegative() {
		return invalid("base price cannot be negative")
	}
	if !item.Category.Valid() {
		return invalid("unknown category %q", item.Category)
	}

	seen := make(map[string]bool)
	for i := range item.Variations {
		v := &item.Variations[i]
		if v.Name == "" || seen[v.Name] {
			return invalid("variation names must be unique and non-empty")
		}
		if v.Price.IsNegative() {
			return invalid("variation %q has a negative price", v.Name)
		}
		seen[v.Name] = true
		v.Position = i
	}

	seen = make(map[string]bool)
	for i := range item.AddOns {
		a := &item.AddOns[i]
		if a.Name == "" || seen[a.Name] {
			return invalid("add-on names must be unique and non-empty")
		}
		if a.Price.IsNegative() {
			return invalid("add-on %q has a negative price", a.Name)
		}
		seen[a.Name] = true
		a.Position = i
	}
	return nil
}

// CreateMenuItem creates a menu item with its variations and add-ons
func (s *MenuService) CreateMenuItem(ctx context.Context, item *models.MenuItem) error {
	if err := validateMenuItem(item); err != nil {
		return err
	}
	item.ID = 0
	item.IsActive = true
	if err := s.db.WithContext(ctx).Create(item).Error; err != nil {
		return fmt.Errorf("failed to create menu item: %w", err)
	}
	s.logger.LogInfo("Menu item created", fmt.Sprintf("id=%d name=%s", item.ID, item.Name))
	return nil
}

// UpdateMenuItem replaces the fields, variations and add-ons of a menu item.
// Existing order lines keep the names and prices they were created with.
func (s *MenuService) UpdateMenuItem(ctx context.Context, id uint, item *models.MenuItem) (*models.MenuItem, error) {
	if err := validateMenuItem(item); err != nil {
		return nil, err
	}

	err := s.WithTransaction(ctx, func(tx *gorm.DB) error {
		var existing models.MenuItem
		if err := first(tx, &existing, id, "menu item"); err != nil {
			return err
		}

		if err := tx.Model(&existing).Updates(map[string]interface{}{
			"name":        item.Name,
			"description": item.Description,
			"base_price":  item.BasePrice,
			"category":    item.Category,
			"is_active":   item.IsActive,
		}).Error; err != nil {
			return err
		}

		if err := tx.Where("menu_item_id = ?", id).Delete(&models.MenuVariation{}).Error; err != nil {
			return err
		}
		if err := tx.Where("menu_item_id = ?", id).Delete(&models.MenuAddOn{}).Error; err != nil {
			return err
		}

		for i := range item.Variations {
			item.Variations[i].ID = 0
			item.Variations[i].MenuItemID = id
		}
		for i := range item.AddOns {
			item.AddOns[i].ID = 0
			item.AddOns[i].MenuItemID = id
		}
		if len(item.Variations) > 0 {
			if err := tx.Create(&item.Variations).Error; err != nil {
				return err
			}
		}
		if len(item.AddOns) > 0 {
			if err := tx.Create(&item.AddOns).Error; err != nil {
				return err
			}
		}
		return nil
	})
	if err != nil {
		return nil, fmt.Errorf("failed to update menu item: %w", err)
	}

	return s.GetMenuItem(ctx, id)
}

// GetMenuItem returns a menu item with its options in menu order
func (s *MenuService) GetMenuItem(ctx context.Context, id uint) (*models.MenuItem, error) {
	var item models.MenuItem
	if err := first(withOptions(s.db.WithContext(ctx)), &item, id, "menu item"); err != nil {
		return nil, err
	}
	return &item, nil
}

// ListMenuItems returns the menu, optionally only active items of one category
func (s *MenuService) ListMenuItems(ctx context.Context, activeOnly bool, category models.Category) ([]models.MenuItem, error) {
	query := withOptions(s.db.WithContext(ctx)).Order("category, name")
	if activeOnly {
		query = query.Where("is_active = ?", true)
	}
	if category != "" {
		query = query.Where("category = ?", category)
	}

	var items []models.MenuItem
	if err := query.Find(&items).Error; err != nil {
		return nil, fmt.Errorf("failed to list menu items: %w", err)
	}
	return items, nil
}

// DeactivateMenuItem hides an item from the menu without touching past orders
func (s *MenuService) DeactivateMenuItem(ctx context.Context, id uint) error {
	res := s.db.WithContext(ctx).Model(&models.MenuItem{}).Where("id = ?", id).Update("is_active", false)
	if res.Error != nil {
		return fmt.Errorf("failed to deactivate menu item: %w", res.Error)
	}
	if res.RowsAffected == 0 {
		return fmt.Errorf("menu item %d: %w", id, ErrNotFound)
	}
	return nil
}
