package receipt

import (
	"strings"
	"testing"
	"time"
	"unicode/utf8"

	"RestaurantPos/app/models"

	"github.com/shopspring/decimal"
)

func d(s string) decimal.Decimal {
	return decimal.RequireFromString(s)
}

func fixedFormatter() *Formatter {
	f := New()
	f.Now = func() time.Time { return time.Date(2026, 3, 14, 19, 30, 0, 0, time.UTC) }
	f.Location = time.UTC
	return f
}

func indexOf(lines []string, want string) int {
	for i, l := range lines {
		if l == want {
			return i
		}
	}
	return -1
}

func TestPadRow(t *testing.T) {
	cases := []struct {
		label string
		value string
		want  string
	}{
		{"Subtotal", "$10.00", "Subtotal" + strings.Repeat(" ", 18) + "$10.00"},
		{"A", "B", "A" + strings.Repeat(" ", 30) + "B"},
		{strings.Repeat("x", 26), "$10.00", strings.Repeat("x", 26) + " $10.00"},
		{strings.Repeat("x", 40), "$123.45", strings.Repeat("x", 40) + " $123.45"},
	}

	for _, tc := range cases {
		got := PadRow(tc.label, tc.value, 32)
		if got != tc.want {
			t.Errorf("PadRow(%q, %q) = %q, want %q", tc.label, tc.value, got, tc.want)
		}
	}
}

func TestPadRowFitsWidth(t *testing.T) {
	got := PadRow("2x Burger", "$22.00", 32)
	if len(got) != 32 {
		t.Errorf("expected 32 columns, got %d", len(got))
	}
	if !strings.HasSuffix(got, "$22.00") {
		t.Errorf("value not right-justified: %q", got)
	}
}

func TestPadRowCountsRunes(t *testing.T) {
	got := PadRow("1x Café", "$4.50", 32)
	if n := utf8.RuneCountInString(got); n != 32 {
		t.Errorf("expected 32 columns, got %d in %q", n, got)
	}
	if want := "1x Café" + strings.Repeat(" ", 20) + "$4.50"; got != want {
		t.Errorf("PadRow = %q, want %q", got, want)
	}
}

func TestFormatBillDateUsesLocation(t *testing.T) {
	f := fixedFormatter()
	f.Location = time.FixedZone("EST", -5*60*60)

	lines := Lines(f.FormatBill(sampleBill()))
	if indexOf(lines, "Date: 2026-03-14 15:00:00") < 0 {
		t.Errorf("bill date not converted to the receipt zone: %q", lines)
	}
	lines = Lines(f.FormatKitchenTicket(&models.Order{OrderNumber: "A-1"}))
	if indexOf(lines, "Time: 2026-03-14 14:30:00") < 0 {
		t.Errorf("ticket time not converted to the receipt zone: %q", lines)
	}
}

func TestMoney(t *testing.T) {
	cases := map[string]string{
		"10":    "$10.00",
		"1.5":   "$1.50",
		"0":     "$0.00",
		"-2.25": "-$2.25",
	}
	for in, want := range cases {
		if got := Money(d(in)); got != want {
			t.Errorf("Money(%s) = %q, want %q", in, got, want)
		}
	}
}

func TestFormatKitchenTicket(t *testing.T) {
	order := &models.Order{
		OrderNumber: "A-102",
		Table:       &models.Table{Number: "5"},
		Lines: []models.OrderLine{
			{
				Quantity: 2,
				ItemName: "Burger",
				AddOns:   []models.OrderLineAddOn{{Name: "Cheese", Price: d("1.00")}},
				Notes:    "no onions",
			},
		},
	}

	instrs := fixedFormatter().FormatKitchenTicket(order)
	lines := Lines(instrs)

	for _, want := range []string{"KITCHEN ORDER", "Table: 5", "Order: A-102", "Time: 2026-03-14 19:30:00", "2x Burger", "End of Order"} {
		if indexOf(lines, want) < 0 {
			t.Errorf("missing line %q in %q", want, lines)
		}
	}

	var addOns, notes string
	for _, l := range lines {
		if strings.HasPrefix(l, "  Add-ons:") {
			addOns = l
		}
		if strings.HasPrefix(l, "  Notes:") {
			notes = l
		}
	}
	if !strings.Contains(addOns, "Cheese") {
		t.Errorf("expected indented add-on line with Cheese, got %q", addOns)
	}
	if !strings.Contains(notes, "no onions") {
		t.Errorf("expected indented notes line with no onions, got %q", notes)
	}
	if indexOf(lines, "2x Burger") > indexOf(lines, addOns) {
		t.Error("add-ons printed before the item line")
	}

	if instrs[0].Kind != KindAlign || instrs[0].Align != AlignCenter {
		t.Errorf("ticket should start centered, got %+v", instrs[0])
	}
	if last := instrs[len(instrs)-1]; last.Kind != KindCut {
		t.Errorf("ticket should end with a cut, got %s", last.Kind)
	}
}

func TestFormatKitchenTicketOmitsEmptyDetails(t *testing.T) {
	order := &models.Order{
		OrderNumber: "A-1",
		Table:       &models.Table{Number: "1"},
		Lines:       []models.OrderLine{{Quantity: 1, ItemName: "Soup"}},
	}

	for _, l := range Lines(fixedFormatter().FormatKitchenTicket(order)) {
		if strings.HasPrefix(l, "  ") {
			t.Errorf("unexpected detail line %q", l)
		}
	}
}

func sampleBill() *models.Bill {
	return &models.Bill{
		BillNumber: "B-1",
		Table:      &models.Table{Number: "5"},
		CreatedAt:  time.Date(2026, 3, 14, 20, 0, 0, 0, time.UTC),
		Orders: []models.Order{
			{Lines: []models.OrderLine{{Quantity: 1, ItemName: "Steak", ItemPrice: d("10.00"), AddOnPrice: decimal.Zero, TotalPrice: d("10.00")}}},
		},
		Subtotal: d("10.00"),
		TaxRate:  d("0.10"),
		Tax:      d("1.00"),
		Discount: decimal.Zero,
		Total:    d("11.00"),
	}
}

func TestFormatBillTotals(t *testing.T) {
	instrs := fixedFormatter().FormatBill(sampleBill())
	lines := Lines(instrs)

	want := []string{
		PadRow("1x Steak", "$10.00", 32),
		PadRow("Subtotal", "$10.00", 32),
		PadRow("Tax (10%)", "$1.00", 32),
		PadRow("TOTAL", "$11.00", 32),
		"Payment: Pending",
		"Thank you for dining with us!",
	}
	for _, w := range want {
		if indexOf(lines, w) < 0 {
			t.Errorf("missing line %q in %q", w, lines)
		}
	}

	for _, l := range lines {
		if strings.HasPrefix(l, "Discount") {
			t.Errorf("discount row printed for zero discount: %q", l)
		}
	}

	var total string
	for _, l := range lines {
		if strings.HasPrefix(l, "TOTAL") {
			total = l
		}
	}
	if fields := strings.Fields(total); len(fields) != 2 || fields[1] != "$11.00" {
		t.Errorf("TOTAL row value = %q, want $11.00", total)
	}
}

func TestFormatBillTotalRowIsBoldAndLarge(t *testing.T) {
	instrs := fixedFormatter().FormatBill(sampleBill())

	at := -1
	for i, in := range instrs {
		if in.Kind == KindText && strings.HasPrefix(in.Text, "TOTAL") {
			at = i
		}
	}
	if at < 2 {
		t.Fatalf("TOTAL row not found")
	}
	if in := instrs[at-2]; in.Kind != KindBold || !in.Bold {
		t.Errorf("expected bold on before TOTAL, got %+v", in)
	}
	if in := instrs[at-1]; in.Kind != KindTextSize || in.Height != 2 {
		t.Errorf("expected double height before TOTAL, got %+v", in)
	}
	if in := instrs[at+1]; in.Kind != KindTextSize || in.Height != 1 {
		t.Errorf("expected size reset after TOTAL, got %+v", in)
	}
}

func TestFormatBillDiscountAndPayments(t *testing.T) {
	bill := sampleBill()
	bill.Discount = d("2.50")
	bill.Total = d("8.50")
	bill.Payments = []models.Payment{
		{Method: models.PaymentCash, Amount: d("5.00")},
		{Method: models.PaymentCard, Amount: d("2.00")},
		{Method: models.PaymentCash, Amount: d("1.50")},
	}
	bill.Orders[0].Lines[0].Variation = "Large"
	bill.Orders[0].Lines[0].AddOns = []models.OrderLineAddOn{{Name: "Fries"}, {Name: "Salad"}}

	lines := Lines(fixedFormatter().FormatBill(bill))

	for _, w := range []string{
		PadRow("Discount", "-$2.50", 32),
		PadRow("TOTAL", "$8.50", 32),
		"Payment: Cash, Card",
		"  Variation: Large",
		"  Add-ons: Fries, Salad",
	} {
		if indexOf(lines, w) < 0 {
			t.Errorf("missing line %q in %q", w, lines)
		}
	}
}

func TestFormatBillFooterQR(t *testing.T) {
	f := fixedFormatter()
	f.Header = []string{"Casa Test"}

	var sawQR bool
	for _, in := range f.FormatBill(sampleBill()) {
		if in.Kind == KindQRCode {
			sawQR = true
		}
	}
	if sawQR {
		t.Error("QR emitted without FooterQR")
	}

	f.FooterQR = func(b *models.Bill) string { return "https://example.test/b/" + b.BillNumber }
	instrs := f.FormatBill(sampleBill())
	for _, in := range instrs {
		if in.Kind == KindQRCode {
			sawQR = true
			if in.Text != "https://example.test/b/B-1" {
				t.Errorf("unexpected QR payload %q", in.Text)
			}
		}
	}
	if !sawQR {
		t.Error("expected QR instruction")
	}
	if Lines(instrs)[0] != "Casa Test" {
		t.Errorf("header not printed first: %q", Lines(instrs)[0])
	}
}

func TestFormatDailyReport(t *testing.T) {
	s := &models.DailySummary{
		Date:      time.Date(2026, 3, 14, 0, 0, 0, 0, time.UTC),
		BillCount: 3,
		Subtotal:  d("100.00"),
		Tax:       d("10.00"),
		Discount:  d("5.00"),
		Total:     d("105.00"),
		Payments:  []models.MethodTotal{{Method: models.PaymentCash, Amount: d("105.00")}},
		Expenses:  d("20.00"),
		Net:       d("85.00"),
		TopItems:  []models.ItemSales{{Name: "Burger", Quantity: 4, Revenue: d("44.00")}},
	}

	lines := Lines(fixedFormatter().FormatDailyReport(s))
	for _, w := range []string{
		"DAILY CLOSING",
		"Date: 2026-03-14",
		PadRow("Bills", "3", 32),
		PadRow("Discounts", "-$5.00", 32),
		PadRow("Cash", "$105.00", 32),
		PadRow("Net", "$85.00", 32),
		PadRow("4x Burger", "$44.00", 32),
	} {
		if indexOf(lines, w) < 0 {
			t.Errorf("missing line %q in %q", w, lines)
		}
	}
}
