// Package pricing computes order line and bill totals.
package pricing

import (
	"errors"
	"fmt"

	"RestaurantPos/app/models"

	"github.com/shopspring/decimal"
)

var (
	// ErrInvalidSelection is returned when a variation name does not exist on the item
	ErrInvalidSelection = errors.New("invalid selection")
	// ErrInvalidQuantity is returned for quantities below one
	ErrInvalidQuantity = errors.New("invalid quantity")
)

// DefaultTaxRate is applied to bill subtotals when no rate is configured
var DefaultTaxRate = decimal.RequireFromString("0.10")

// LineTotal holds the derived prices of one order line
type LineTotal struct {
	ItemPrice  decimal.Decimal `json:"item_price"`
	AddOnPrice decimal.Decimal `json:"add_on_price"`
	TotalPrice decimal.Decimal `json:"total_price"`
}

// BillTotals holds the derived amounts of a bill
type BillTotals struct {
	Subtotal decimal.Decimal `json:"subtotal"`
	Tax      decimal.Decimal `json:"tax"`
	Total    decimal.Decimal `json:"total"`
}

// ComputeLineTotal prices quantity units of item with the selected variation
// and add-ons. Unknown add-on names are ignored.
func ComputeLineTotal(item models.MenuItem, quantity int, variation string, addOns []string) (LineTotal, error) {
	if quantity < 1 {
		return LineTotal{}, fmt.Errorf("%w: %d", ErrInvalidQuantity, quantity)
	}

	itemPrice, err := resolveItemPrice(item, variation)
	if err != nil {
		return LineTotal{}, err
	}

	addOnPrice := decimal.Zero
	for _, a := range ResolveAddOns(item, addOns) {
		addOnPrice = addOnPrice.Add(a.Price)
	}

	total := itemPrice.Add(addOnPrice).Mul(decimal.NewFromInt(int64(quantity)))
	return LineTotal{
		ItemPrice:  itemPrice,
		AddOnPrice: addOnPrice,
		TotalPrice: total,
	}, nil
}

func resolveItemPrice(item models.MenuItem, variation string) (decimal.Decimal, error) {
	if variation == "" {
		return item.BasePrice, nil
	}
	for _, v := range item.Variations {
		if v.Name == variation {
			return v.Price, nil
		}
	}
	return decimal.Zero, fmt.Errorf("%w: %q is not a variation of %s", ErrInvalidSelection, variation, item.Name)
}

// ResolveAddOns returns the add-ons of item named in selected, in menu order.
// Each add-on is returned at most once.
func ResolveAddOns(item models.MenuItem, selected []string) []models.MenuAddOn {
	if len(selected) == 0 {
		return nil
	}
	wanted := make(map[string]bool, len(selected))
	for _, name := range selected {
		wanted[name] = true
	}

	var matched []models.MenuAddOn
	for _, a := range item.AddOns {
		if wanted[a.Name] {
			matched = append(matched, a)
			delete(wanted, a.Name)
		}
	}
	return matched
}

// ComputeBillTotals sums every line of orders and applies tax and discount.
// The total is not clamped at zero.
func ComputeBillTotals(orders []models.Order, taxRate, discount decimal.Decimal) BillTotals {
	subtotal := decimal.Zero
	for i := range orders {
		subtotal = subtotal.Add(orders[i].Subtotal())
	}
	tax := subtotal.Mul(taxRate).Round(2)
	return BillTotals{
		Subtotal: subtotal,
		Tax:      tax,
		Total:    subtotal.Add(tax).Sub(discount),
	}
}
