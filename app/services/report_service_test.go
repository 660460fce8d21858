package services

import (
	"context"
	"errors"
	"strings"
	"testing"
	"time"

	"RestaurantPos/app/models"
	"RestaurantPos/app/receipt"
)

func TestDailySummary(t *testing.T) {
	env := newTestEnv(t)
	burger := env.burger(t)
	fries := env.fries(t)
	ctx := context.Background()

	env.order(t, 1,
		OrderLineInput{MenuItemID: burger.ID, Quantity: 2},
		OrderLineInput{MenuItemID: fries.ID, Quantity: 1, Variation: "Small"},
	)
	if _, err := env.bills.Checkout(ctx, CheckoutInput{
		TableID:  1,
		Payments: []PaymentInput{{Method: models.PaymentCard, Amount: dec("25.30")}},
	}); err != nil {
		t.Fatal(err)
	}

	env.order(t, 2, OrderLineInput{MenuItemID: fries.ID, Quantity: 3, Variation: "Large"})
	if _, err := env.bills.Checkout(ctx, CheckoutInput{
		TableID:  2,
		Payments: []PaymentInput{{Method: models.PaymentCash, Amount: dec("14.85")}},
	}); err != nil {
		t.Fatal(err)
	}

	if err := env.expenses.CreateExpense(ctx, &models.Expense{Description: "Ice", Amount: dec("5.00")}); err != nil {
		t.Fatal(err)
	}
	yesterday := time.Now().AddDate(0, 0, -1)
	if err := env.expenses.CreateExpense(ctx, &models.Expense{Description: "Gas", Amount: dec("40.00"), SpentAt: yesterday}); err != nil {
		t.Fatal(err)
	}

	summary, err := env.reports.DailySummary(ctx, time.Now())
	if err != nil {
		t.Fatal(err)
	}

	if summary.BillCount != 2 {
		t.Errorf("bill count = %d, want 2", summary.BillCount)
	}
	// 23.00 + 13.50 before tax
	checks := []struct {
		name      string
		got, want string
	}{
		{"subtotal", summary.Subtotal.StringFixed(2), "36.50"},
		{"tax", summary.Tax.StringFixed(2), "3.65"},
		{"total", summary.Total.StringFixed(2), "40.15"},
		{"expenses", summary.Expenses.StringFixed(2), "5.00"},
		{"net", summary.Net.StringFixed(2), "35.15"},
	}
	for _, c := range checks {
		if c.got != c.want {
			t.Errorf("%s = %s, want %s", c.name, c.got, c.want)
		}
	}

	if len(summary.Payments) != 2 || summary.Payments[0].Method != models.PaymentCash || summary.Payments[1].Method != models.PaymentCard {
		t.Errorf("payments = %+v, want cash then card", summary.Payments)
	}

	if len(summary.TopItems) != 2 {
		t.Fatalf("top items = %+v", summary.TopItems)
	}
	if summary.TopItems[0].Name != "Burger" || summary.TopItems[0].Quantity != 2 {
		t.Errorf("top item = %+v, want 2x Burger", summary.TopItems[0])
	}
	if summary.TopItems[1].Name != "Fries" || summary.TopItems[1].Quantity != 4 || !summary.TopItems[1].Revenue.Equal(dec("16.50")) {
		t.Errorf("second item = %+v, want 4x Fries for 16.50", summary.TopItems[1])
	}

	past, err := env.reports.DailySummary(ctx, yesterday)
	if err != nil {
		t.Fatal(err)
	}
	if past.BillCount != 0 || !past.Expenses.Equal(dec("40.00")) || !past.Net.Equal(dec("-40.00")) {
		t.Errorf("yesterday = %+v", past)
	}
}

func TestPrintClosingReport(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()

	summary, printed, err := env.reports.PrintClosingReport(ctx, time.Now())
	if err != nil {
		t.Fatal(err)
	}
	if !printed {
		t.Error("closing report not printed")
	}
	if summary.BillCount != 0 {
		t.Errorf("bill count = %d", summary.BillCount)
	}

	lines := receipt.Lines(env.dispatcher.lastJob(t).instrs)
	if !containsLine(lines, "DAILY CLOSING") {
		t.Errorf("unexpected report:\n%s", strings.Join(lines, "\n"))
	}
}

func TestClosingSchedule(t *testing.T) {
	env := newTestEnv(t)

	if err := env.reports.StartClosingSchedule("not a schedule"); !errors.Is(err, ErrInvalidInput) {
		t.Fatalf("bad schedule: err = %v", err)
	}
	if env.reports.Running() {
		t.Fatal("running after a failed start")
	}

	if err := env.reports.StartClosingSchedule("0 23 * * *"); err != nil {
		t.Fatal(err)
	}
	if !env.reports.Running() {
		t.Error("not running after start")
	}
	if err := env.reports.StartClosingSchedule("0 23 * * *"); err == nil {
		t.Error("second start succeeded")
	}

	env.reports.Stop()
	if env.reports.Running() {
		t.Error("still running after stop")
	}
	env.reports.Stop()
}

func TestRunClosingPrintsSummary(t *testing.T) {
	env := newTestEnv(t)
	env.reports.runClosing()

	if len(env.dispatcher.jobs) != 1 {
		t.Fatalf("jobs = %d, want 1", len(env.dispatcher.jobs))
	}
}
