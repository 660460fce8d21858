package receipt

import (
	"fmt"
	"strings"
	"time"
	"unicode/utf8"

	"RestaurantPos/app/models"

	"github.com/shopspring/decimal"
)

// DefaultWidth is the column count of a 58mm thermal receipt
const DefaultWidth = 32

// TimeLayout is used for every timestamp printed on a receipt
const TimeLayout = "2006-01-02 15:04:05"

// Formatter builds instruction sequences for one paper width
type Formatter struct {
	Width    int
	Now      func() time.Time
	Location *time.Location // Zone of printed timestamps; nil means local time
	Header   []string                 // Optional centered lines above the bill title (restaurant name, address)
	FooterQR func(*models.Bill) string // Optional; an empty result prints no QR
}

// New returns a 32-column formatter using the wall clock
func New() *Formatter {
	return &Formatter{
		Width: DefaultWidth,
		Now:   time.Now,
	}
}

func (f *Formatter) width() int {
	if f.Width <= 0 {
		return DefaultWidth
	}
	return f.Width
}

func (f *Formatter) now() time.Time {
	if f.Now == nil {
		return time.Now()
	}
	return f.Now()
}

// stamp renders t as wall-clock time in the formatter's zone
func (f *Formatter) stamp(t time.Time) string {
	loc := f.Location
	if loc == nil {
		loc = time.Local
	}
	return t.In(loc).Format(TimeLayout)
}

func (f *Formatter) rule() Instruction {
	return Instruction{Kind: KindRule, Text: strings.Repeat("=", f.width())}
}

func (f *Formatter) row(label, value string) Instruction {
	return Text(PadRow(label, value, f.width()))
}

// PadRow left-justifies label and right-justifies value within width,
// counting one column per rune. At least one space always separates them, so
// overflowing rows grow past width.
func PadRow(label, value string, width int) string {
	spaces := width - utf8.RuneCountInString(label) - utf8.RuneCountInString(value)
	if spaces < 1 {
		spaces = 1
	}
	return label + strings.Repeat(" ", spaces) + value
}

// Money renders an amount as $x.xx, with a leading minus for negatives
func Money(amount decimal.Decimal) string {
	if amount.IsNegative() {
		return "-$" + amount.Neg().StringFixed(2)
	}
	return "$" + amount.StringFixed(2)
}

// FormatKitchenTicket lays out the ticket sent to the kitchen station
func (f *Formatter) FormatKitchenTicket(order *models.Order) []Instruction {
	out := []Instruction{
		Align(AlignCenter),
		Bold(true),
		Text("KITCHEN ORDER"),
		Bold(false),
		Align(AlignLeft),
		Text("Table: " + order.TableNumber()),
		Text("Order: " + order.OrderNumber),
		Text("Time: " + f.stamp(f.now())),
		f.rule(),
	}

	for i := range order.Lines {
		line := &order.Lines[i]
		out = append(out,
			Bold(true),
			Text(fmt.Sprintf("%dx %s", line.Quantity, line.ItemName)),
			Bold(false),
		)
		out = append(out, lineDetails(line, true)...)
		out = append(out, Newline())
	}

	return append(out,
		f.rule(),
		Align(AlignCenter),
		Text("End of Order"),
		Cut(),
	)
}

func lineDetails(line *models.OrderLine, withNotes bool) []Instruction {
	var out []Instruction
	if line.Variation != "" {
		out = append(out, Text("  Variation: "+line.Variation))
	}
	if len(line.AddOns) > 0 {
		out = append(out, Text("  Add-ons: "+strings.Join(line.AddOnNames(), ", ")))
	}
	if withNotes && line.Notes != "" {
		out = append(out, Text("  Notes: "+line.Notes))
	}
	return out
}

// FormatBill lays out the customer receipt for a bill
func (f *Formatter) FormatBill(bill *models.Bill) []Instruction {
	out := []Instruction{Align(AlignCenter)}
	for _, h := range f.Header {
		out = append(out, Text(h))
	}
	out = append(out,
		Bold(true),
		Text("RESTAURANT BILL"),
		Bold(false),
		Align(AlignLeft),
		Text("Bill: "+bill.BillNumber),
		Text("Table: "+bill.TableNumber()),
		Text("Date: "+f.stamp(bill.CreatedAt)),
		f.rule(),
	)

	for i := range bill.Orders {
		for j := range bill.Orders[i].Lines {
			line := &bill.Orders[i].Lines[j]
			out = append(out, f.row(fmt.Sprintf("%dx %s", line.Quantity, line.ItemName), Money(line.TotalPrice)))
			out = append(out, lineDetails(line, false)...)
		}
	}

	out = append(out,
		f.rule(),
		f.row("Subtotal", Money(bill.Subtotal)),
		f.row(fmt.Sprintf("Tax (%s%%)", bill.TaxRate.Mul(decimal.NewFromInt(100)).String()), Money(bill.Tax)),
	)
	if bill.Discount.IsPositive() {
		out = append(out, f.row("Discount", Money(bill.Discount.Neg())))
	}
	out = append(out,
		f.rule(),
		Bold(true),
		TextSize(1, 2),
		f.row("TOTAL", Money(bill.Total)),
		TextSize(1, 1),
		Bold(false),
		Text("Payment: "+paymentSummary(bill.Payments)),
		f.rule(),
		Align(AlignCenter),
	)

	if f.FooterQR != nil {
		if data := f.FooterQR(bill); data != "" {
			out = append(out, QRCode(data))
		}
	}

	return append(out,
		Text("Thank you for dining with us!"),
		Cut(),
	)
}

// paymentSummary lists the distinct methods in the order they were recorded
func paymentSummary(payments []models.Payment) string {
	if len(payments) == 0 {
		return "Pending"
	}
	seen := make(map[models.PaymentMethod]bool, len(payments))
	var labels []string
	for _, p := range payments {
		if seen[p.Method] {
			continue
		}
		seen[p.Method] = true
		labels = append(labels, p.Method.Label())
	}
	return strings.Join(labels, ", ")
}

// FormatDailyReport lays out the end of day closing report
func (f *Formatter) FormatDailyReport(s *models.DailySummary) []Instruction {
	out := []Instruction{
		Align(AlignCenter),
		Bold(true),
		TextSize(2, 2),
		Text("DAILY CLOSING"),
		TextSize(1, 1),
		Bold(false),
		Text("Date: " + s.Date.Format("2006-01-02")),
		Align(AlignLeft),
		f.rule(),
		f.row("Bills", fmt.Sprintf("%d", s.BillCount)),
		f.row("Subtotal", Money(s.Subtotal)),
		f.row("Tax", Money(s.Tax)),
		f.row("Discounts", Money(s.Discount.Neg())),
		Bold(true),
		f.row("Total", Money(s.Total)),
		Bold(false),
		f.rule(),
	}

	if len(s.Payments) > 0 {
		out = append(out, Bold(true), Text("PAYMENTS"), Bold(false))
		for _, p := range s.Payments {
			out = append(out, f.row(p.Method.Label(), Money(p.Amount)))
		}
		out = append(out, f.rule())
	}

	out = append(out,
		f.row("Expenses", Money(s.Expenses.Neg())),
		Bold(true),
		f.row("Net", Money(s.Net)),
		Bold(false),
	)

	if len(s.TopItems) > 0 {
		out = append(out, f.rule(), Bold(true), Text("TOP ITEMS"), Bold(false))
		for _, item := range s.TopItems {
			out = append(out, f.row(fmt.Sprintf("%dx %s", item.Quantity, item.Name), Money(item.Revenue)))
		}
	}

	return append(out,
		f.rule(),
		Align(AlignCenter),
		Text("Printed: "+f.stamp(f.now())),
		Cut(),
	)
}
