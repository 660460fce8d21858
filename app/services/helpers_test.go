package services

import (
	"context"
	"errors"
	"io"
	"sync"
	"testing"

	"RestaurantPos/app/config"
	"RestaurantPos/app/database"
	"RestaurantPos/app/models"
	"RestaurantPos/app/printer"
	"RestaurantPos/app/receipt"

	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

type emitted struct {
	event   string
	payload interface{}
	rooms   []string
}

type fakeNotifier struct {
	mu     sync.Mutex
	events []emitted
}

func (n *fakeNotifier) Emit(event string, payload interface{}, rooms ...string) {
	n.mu.Lock()
	defer n.mu.Unlock()
	n.events = append(n.events, emitted{event: event, payload: payload, rooms: rooms})
}

func (n *fakeNotifier) find(event string) (emitted, bool) {
	n.mu.Lock()
	defer n.mu.Unlock()
	for _, e := range n.events {
		if e.event == event {
			return e, true
		}
	}
	return emitted{}, false
}

type printJob struct {
	instrs []receipt.Instruction
	target printer.Target
}

type fakeDispatcher struct {
	mu   sync.Mutex
	fail bool
	jobs []printJob
}

func (d *fakeDispatcher) Dispatch(ctx context.Context, instrs []receipt.Instruction, target printer.Target) bool {
	return d.Send(ctx, instrs, target) == nil
}

func (d *fakeDispatcher) Send(_ context.Context, instrs []receipt.Instruction, target printer.Target) error {
	d.mu.Lock()
	defer d.mu.Unlock()
	d.jobs = append(d.jobs, printJob{instrs: instrs, target: target})
	if d.fail {
		return errors.New("printer offline")
	}
	return nil
}

func (d *fakeDispatcher) lastJob(t *testing.T) printJob {
	t.Helper()
	d.mu.Lock()
	defer d.mu.Unlock()
	if len(d.jobs) == 0 {
		t.Fatal("expected a print job")
	}
	return d.jobs[len(d.jobs)-1]
}

func newTestDB(t *testing.T) *gorm.DB {
	t.Helper()
	db, err := database.OpenInMemory(t.Name())
	if err != nil {
		t.Fatalf("failed to open database: %v", err)
	}
	t.Cleanup(func() { database.Close(db) })
	return db
}

func testLogger() *LoggerService {
	return NewLoggerServiceWithWriter(io.Discard)
}

func dec(s string) decimal.Decimal {
	return decimal.RequireFromString(s)
}

func testConfig() *config.AppConfig {
	cfg := config.Default()
	cfg.Printers.Kitchen = "192.0.2.10"
	cfg.Printers.Cashier = "192.0.2.11"
	cfg.Billing.RestaurantName = "La Mesa"
	return cfg
}

// testEnv wires the services the way main does, with fakes at the edges
type testEnv struct {
	db         *gorm.DB
	notifier   *fakeNotifier
	dispatcher *fakeDispatcher
	printers   *PrinterService
	menu       *MenuService
	orders     *OrderService
	bills      *BillService
	employees  *EmployeeService
	customers  *CustomerService
	expenses   *ExpenseService
	reports    *ReportService
}

func newTestEnv(t *testing.T) *testEnv {
	t.Helper()
	db := newTestDB(t)
	cfg := testConfig()
	logger := testLogger()

	env := &testEnv{
		db:         db,
		notifier:   &fakeNotifier{},
		dispatcher: &fakeDispatcher{},
	}
	env.printers = NewPrinterService(db, cfg, env.dispatcher, logger)
	env.menu = NewMenuService(db, logger)
	env.employees = NewEmployeeService(db, logger)
	env.customers = NewCustomerService(db, logger)
	env.expenses = NewExpenseService(db, logger)
	env.orders = NewOrderService(db, env.notifier, env.printers, logger)
	env.bills = NewBillService(db, cfg.Billing.TaxRate, env.employees, env.notifier, env.printers, logger)
	env.reports = NewReportService(db, env.printers, logger)
	return env
}

// burger is $10.00 with Cheese ($1.50) and Bacon ($2.00) add-ons
func (env *testEnv) burger(t *testing.T) models.MenuItem {
	t.Helper()
	item := models.MenuItem{
		Name:      "Burger",
		BasePrice: dec("10.00"),
		Category:  models.CategoryMain,
		AddOns: []models.MenuAddOn{
			{Name: "Cheese", Price: dec("1.50")},
			{Name: "Bacon", Price: dec("2.00")},
		},
	}
	if err := env.menu.CreateMenuItem(context.Background(), &item); err != nil {
		t.Fatalf("failed to create burger: %v", err)
	}
	return item
}

// fries come Small ($3.00) or Large ($4.50)
func (env *testEnv) fries(t *testing.T) models.MenuItem {
	t.Helper()
	item := models.MenuItem{
		Name:      "Fries",
		BasePrice: dec("3.00"),
		Category:  models.CategorySide,
		Variations: []models.MenuVariation{
			{Name: "Small", Price: dec("3.00")},
			{Name: "Large", Price: dec("4.50")},
		},
	}
	if err := env.menu.CreateMenuItem(context.Background(), &item); err != nil {
		t.Fatalf("failed to create fries: %v", err)
	}
	return item
}

func (env *testEnv) order(t *testing.T, tableID uint, lines ...OrderLineInput) *models.Order {
	t.Helper()
	order, err := env.orders.CreateOrder(context.Background(), CreateOrderInput{TableID: tableID, Lines: lines})
	if err != nil {
		t.Fatalf("CreateOrder: %v", err)
	}
	return order
}

func containsLine(lines []string, want string) bool {
	for _, l := range lines {
		if l == want {
			return true
		}
	}
	return false
}
