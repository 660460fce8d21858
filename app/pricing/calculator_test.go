package pricing

import (
	"errors"
	"testing"

	"RestaurantPos/app/models"

	"github.com/shopspring/decimal"
)

func d(s string) decimal.Decimal {
	return decimal.RequireFromString(s)
}

func burger() models.MenuItem {
	return models.MenuItem{
		Name:      "Burger",
		BasePrice: d("8.50"),
		Category:  models.CategoryMain,
		Variations: []models.MenuVariation{
			{Name: "Single", Price: d("8.50"), Position: 0},
			{Name: "Double", Price: d("11.00"), Position: 1},
		},
		AddOns: []models.MenuAddOn{
			{Name: "Cheese", Price: d("1.00"), Position: 0},
			{Name: "Bacon", Price: d("1.75"), Position: 1},
			{Name: "Egg", Price: d("0.80"), Position: 2},
		},
		IsActive: true,
	}
}

func TestComputeLineTotalInvariant(t *testing.T) {
	item := burger()
	cases := []struct {
		name      string
		variation string
		addOns    []string
	}{
		{"base price", "", nil},
		{"variation", "Double", nil},
		{"variation and add-ons", "Double", []string{"Cheese", "Bacon"}},
		{"add-ons only", "", []string{"Egg"}},
	}

	for _, tc := range cases {
		for n := 1; n <= 5; n++ {
			got, err := ComputeLineTotal(item, n, tc.variation, tc.addOns)
			if err != nil {
				t.Fatalf("%s (n=%d): unexpected error: %v", tc.name, n, err)
			}
			want := got.ItemPrice.Add(got.AddOnPrice).Mul(decimal.NewFromInt(int64(n)))
			if !got.TotalPrice.Equal(want) {
				t.Errorf("%s (n=%d): total %s, want %s", tc.name, n, got.TotalPrice, want)
			}
		}
	}
}

func TestComputeLineTotalVariationPrice(t *testing.T) {
	item := burger()

	got, err := ComputeLineTotal(item, 1, "Double", nil)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if !got.ItemPrice.Equal(d("11.00")) {
		t.Errorf("item price %s, want 11.00", got.ItemPrice)
	}

	got, err = ComputeLineTotal(item, 1, "", nil)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if !got.ItemPrice.Equal(item.BasePrice) {
		t.Errorf("item price %s, want base price %s", got.ItemPrice, item.BasePrice)
	}
}

func TestComputeLineTotalUnknownVariation(t *testing.T) {
	_, err := ComputeLineTotal(burger(), 1, "Triple", nil)
	if !errors.Is(err, ErrInvalidSelection) {
		t.Fatalf("expected ErrInvalidSelection, got %v", err)
	}
}

func TestComputeLineTotalQuantity(t *testing.T) {
	for _, q := range []int{0, -1, -10} {
		_, err := ComputeLineTotal(burger(), q, "", nil)
		if !errors.Is(err, ErrInvalidQuantity) {
			t.Errorf("quantity %d: expected ErrInvalidQuantity, got %v", q, err)
		}
	}
}

func TestComputeLineTotalAddOns(t *testing.T) {
	item := burger()

	a, err := ComputeLineTotal(item, 2, "", []string{"Cheese", "Bacon", "Truffle"})
	if err != nil {
		t.Fatalf("unknown add-on should be ignored, got %v", err)
	}
	b, err := ComputeLineTotal(item, 2, "", []string{"Bacon", "Cheese"})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if !a.AddOnPrice.Equal(d("2.75")) {
		t.Errorf("add-on price %s, want 2.75", a.AddOnPrice)
	}
	if !a.AddOnPrice.Equal(b.AddOnPrice) {
		t.Errorf("add-on sum depends on order: %s vs %s", a.AddOnPrice, b.AddOnPrice)
	}
	if !a.TotalPrice.Equal(d("22.50")) {
		t.Errorf("total %s, want 22.50", a.TotalPrice)
	}
}

func TestResolveAddOnsMenuOrder(t *testing.T) {
	got := ResolveAddOns(burger(), []string{"Egg", "Cheese", "Egg", "Nope"})
	if len(got) != 2 {
		t.Fatalf("expected 2 add-ons, got %d", len(got))
	}
	if got[0].Name != "Cheese" || got[1].Name != "Egg" {
		t.Errorf("unexpected order: %s, %s", got[0].Name, got[1].Name)
	}
}

func TestComputeBillTotals(t *testing.T) {
	orders := []models.Order{
		{Lines: []models.OrderLine{{Quantity: 1, TotalPrice: d("10.00")}}},
	}

	got := ComputeBillTotals(orders, DefaultTaxRate, decimal.Zero)
	if !got.Subtotal.Equal(d("10.00")) {
		t.Errorf("subtotal %s, want 10.00", got.Subtotal)
	}
	if !got.Tax.Equal(d("1.00")) {
		t.Errorf("tax %s, want 1.00", got.Tax)
	}
	if !got.Total.Equal(d("11.00")) {
		t.Errorf("total %s, want 11.00", got.Total)
	}
}

func TestComputeBillTotalsAcrossOrders(t *testing.T) {
	orders := []models.Order{
		{Lines: []models.OrderLine{{TotalPrice: d("12.50")}, {TotalPrice: d("3.25")}}},
		{Lines: []models.OrderLine{{TotalPrice: d("4.25")}}},
	}

	got := ComputeBillTotals(orders, DefaultTaxRate, d("2.00"))
	if !got.Subtotal.Equal(d("20.00")) {
		t.Errorf("subtotal %s, want 20.00", got.Subtotal)
	}
	if !got.Total.Equal(d("20.00")) {
		t.Errorf("total %s, want 20.00", got.Total)
	}
}

func TestComputeBillTotalsNotClamped(t *testing.T) {
	orders := []models.Order{
		{Lines: []models.OrderLine{{TotalPrice: d("5.00")}}},
	}
	got := ComputeBillTotals(orders, DefaultTaxRate, d("10.00"))
	if !got.Total.Equal(d("-4.50")) {
		t.Errorf("total %s, want -4.50", got.Total)
	}
}
