package services

import (
	"context"
	"fmt"
	"sort"
	"sync"
	"time"

	"RestaurantPos/app/models"

	"github.com/robfig/cron/v3"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

const topItemsLimit = 5

// ReportPrinter prints closing reports
type ReportPrinter interface {
	PrintDailyReport(ctx context.Context, summary *models.DailySummary) bool
}

// ReportService builds the daily closing report and prints it on schedule
type ReportService struct {
	BaseService
	printer ReportPrinter
	logger  *LoggerService
	now     func() time.Time

	mu      sync.Mutex
	cron    *cron.Cron
	running bool
}

// NewReportService creates a new report service. printer may be nil.
func NewReportService(db *gorm.DB, printer ReportPrinter, logger *LoggerService) *ReportService {
	return &ReportService{
		BaseService: NewBaseService(db),
		printer:     printer,
		logger:      logger,
		now:         time.Now,
	}
}

// dayBounds returns the start of day and of the following day in day's location
func dayBounds(day time.Time) (time.Time, time.Time) {
	start := time.Date(day.Year(), day.Month(), day.Day(), 0, 0, 0, 0, day.Location())
	return start, start.AddDate(0, 0, 1)
}

// DailySummary totals the bills, payments and expenses of one day
func (s *ReportService) DailySummary(ctx context.Context, day time.Time) (*models.DailySummary, error) {
	if err := s.EnsureDB(); err != nil {
		return nil, err
	}
	from, to := dayBounds(day)

	var bills []models.Bill
	err := s.db.WithContext(ctx).
		Preload("Payments").
		Preload("Orders.Lines").
		Where("created_at >= ? AND created_at < ?", from.UTC(), to.UTC()).
		Find(&bills).Error
	if err != nil {
		return nil, fmt.Errorf("failed to load bills: %w", err)
	}

	var expenses []models.Expense
	err = s.db.WithContext(ctx).
		Where("spent_at >= ? AND spent_at < ?", from.UTC(), to.UTC()).
		Find(&expenses).Error
	if err != nil {
		return nil, fmt.Errorf("failed to load expenses: %w", err)
	}

	summary := &models.DailySummary{
		Date:      from,
		BillCount: len(bills),
		Subtotal:  decimal.Zero,
		Tax:       decimal.Zero,
		Discount:  decimal.Zero,
		Total:     decimal.Zero,
		Expenses:  decimal.Zero,
	}

	byMethod := make(map[models.PaymentMethod]decimal.Decimal)
	items := make(map[string]*models.ItemSales)
	for _, bill := range bills {
		summary.Subtotal = summary.Subtotal.Add(bill.Subtotal)
		summary.Tax = summary.Tax.Add(bill.Tax)
		summary.Discount = summary.Discount.Add(bill.Discount)
		summary.Total = summary.Total.Add(bill.Total)

		for _, p := range bill.Payments {
			byMethod[p.Method] = byMethod[p.Method].Add(p.Amount)
		}
		for _, order := range bill.Orders {
			for _, line := range order.Lines {
				item, ok := items[line.ItemName]
				if !ok {
					item = &models.ItemSales{Name: line.ItemName, Revenue: decimal.Zero}
					items[line.ItemName] = item
				}
				item.Quantity += line.Quantity
				item.Revenue = item.Revenue.Add(line.TotalPrice)
			}
		}
	}

	for _, m := range []models.PaymentMethod{models.PaymentCash, models.PaymentCard, models.PaymentTransfer, models.PaymentCredit} {
		if amount, ok := byMethod[m]; ok {
			summary.Payments = append(summary.Payments, models.MethodTotal{Method: m, Amount: amount})
		}
	}

	for _, e := range expenses {
		summary.Expenses = summary.Expenses.Add(e.Amount)
	}
	summary.Net = summary.Total.Sub(summary.Expenses)

	summary.TopItems = topItems(items, topItemsLimit)
	return summary, nil
}

// topItems ranks items by revenue, then quantity, then name
func topItems(items map[string]*models.ItemSales, limit int) []models.ItemSales {
	ranked := make([]models.ItemSales, 0, len(items))
	for _, item := range items {
		ranked = append(ranked, *item)
	}
	sort.Slice(ranked, func(i, j int) bool {
		if c := ranked[i].Revenue.Cmp(ranked[j].Revenue); c != 0 {
			return c > 0
		}
		if ranked[i].Quantity != ranked[j].Quantity {
			return ranked[i].Quantity > ranked[j].Quantity
		}
		return ranked[i].Name < ranked[j].Name
	})
	if len(ranked) > limit {
		ranked = ranked[:limit]
	}
	return ranked
}

// PrintClosingReport prints the summary of day on the cashier printer
func (s *ReportService) PrintClosingReport(ctx context.Context, day time.Time) (*models.DailySummary, bool, error) {
	summary, err := s.DailySummary(ctx, day)
	if err != nil {
		return nil, false, err
	}
	if s.printer == nil {
		return summary, false, nil
	}
	return summary, s.printer.PrintDailyReport(ctx, summary), nil
}

// StartClosingSchedule prints the closing report of the current day at the
// times given by the five-field cron expression spec
func (s *ReportService) StartClosingSchedule(spec string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.running {
		return fmt.Errorf("closing schedule is already running")
	}

	c := cron.New()
	if _, err := c.AddFunc(spec, s.runClosing); err != nil {
		return fmt.Errorf("%w: closing schedule %q: %v", ErrInvalidInput, spec, err)
	}
	c.Start()

	s.cron = c
	s.running = true
	s.logger.LogInfo("Closing report scheduler started", "schedule="+spec)
	return nil
}

// Stop halts the schedule and waits for a running report to finish
func (s *ReportService) Stop() {
	s.mu.Lock()
	c := s.cron
	s.cron = nil
	s.running = false
	s.mu.Unlock()

	if c == nil {
		return
	}
	<-c.Stop().Done()
	s.logger.LogInfo("Closing report scheduler stopped")
}

// Running reports whether the closing schedule is active
func (s *ReportService) Running() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.running
}

func (s *ReportService) runClosing() {
	defer s.logger.RecoverPanic()

	summary, printed, err := s.PrintClosingReport(context.Background(), s.now())
	if err != nil {
		s.logger.LogError("Closing report failed", err)
		return
	}
	s.logger.LogInfo("Closing report generated",
		fmt.Sprintf("date=%s bills=%d total=%s", summary.Date.Format("2006-01-02"), summary.BillCount, summary.Total.StringFixed(2)),
		fmt.Sprintf("printed=%t", printed))
}
