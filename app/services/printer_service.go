package services

import (
	"context"
	"errors"
	"fmt"
	"time"

	"RestaurantPos/app/config"
	"RestaurantPos/app/models"
	"RestaurantPos/app/printer"
	"RestaurantPos/app/receipt"

	"gorm.io/gorm"
)

// PrinterService resolves station printers and prints tickets, bills and
// reports on them. Printing is best effort: the Print methods report
// success as a bool and never fail the calling workflow.
type PrinterService struct {
	BaseService
	cfg        config.PrintersConfig
	billing    config.BillingConfig
	dispatcher Dispatcher
	logger     *LoggerService
	now        func() time.Time
	loc        *time.Location
}

// NewPrinterService creates a new printer service
func NewPrinterService(db *gorm.DB, cfg *config.AppConfig, dispatcher Dispatcher, logger *LoggerService) *PrinterService {
	return &PrinterService{
		BaseService: NewBaseService(db),
		cfg:         cfg.Printers,
		billing:     cfg.Billing,
		dispatcher:  dispatcher,
		logger:      logger,
		now:         time.Now,
		loc:         time.Local,
	}
}

func validStation(station string) bool {
	return station == models.StationKitchen || station == models.StationCashier
}

// ResolveTarget returns the printer for station: the active database
// configuration when present, else the address from the config file. The
// result may be unconfigured.
func (s *PrinterService) ResolveTarget(ctx context.Context, station string) printer.Target {
	var pc models.PrinterConfig
	err := s.db.WithContext(ctx).
		Where("station = ? AND is_active = ?", station, true).
		Order("id").
		First(&pc).Error
	if err == nil {
		return targetFromConfig(&pc)
	}
	if !errors.Is(err, gorm.ErrRecordNotFound) {
		s.logger.LogError("Failed to load printer configuration", err, "station="+station)
	}

	address := s.cfg.Kitchen
	if station == models.StationCashier {
		address = s.cfg.Cashier
	}
	target := printer.ParseTarget(station, address)
	if s.cfg.PaperWidth > 0 {
		target.PaperWidth = s.cfg.PaperWidth
	}
	return target
}

func targetFromConfig(pc *models.PrinterConfig) printer.Target {
	var target printer.Target
	if pc.Type == "" {
		target = printer.ParseTarget(pc.Station, pc.Address)
	} else {
		target = printer.Target{
			Station: pc.Station,
			Type:    pc.Type,
			Address: pc.Address,
			Port:    pc.Port,
		}
	}
	target.AutoCut = pc.AutoCut
	if pc.PaperWidth > 0 {
		target.PaperWidth = pc.PaperWidth
	}
	return target
}

// GetRestaurant returns the business details printed on receipts
func (s *PrinterService) GetRestaurant(ctx context.Context) models.RestaurantConfig {
	var rc models.RestaurantConfig
	if err := s.db.WithContext(ctx).Order("id").First(&rc).Error; err != nil {
		return models.RestaurantConfig{
			Name:    s.billing.RestaurantName,
			Address: s.billing.Address,
			Phone:   s.billing.Phone,
		}
	}
	return rc
}

// SaveRestaurant stores the business details printed on receipts
func (s *PrinterService) SaveRestaurant(ctx context.Context, rc *models.RestaurantConfig) error {
	if rc.Name == "" {
		return invalid("restaurant name is required")
	}
	var existing models.RestaurantConfig
	if err := s.db.WithContext(ctx).Order("id").First(&existing).Error; err == nil {
		rc.ID = existing.ID
		rc.CreatedAt = existing.CreatedAt
	}
	if err := s.db.WithContext(ctx).Save(rc).Error; err != nil {
		return fmt.Errorf("failed to save restaurant: %w", err)
	}
	return nil
}

// formatter returns a receipt formatter sized for the target's paper
func (s *PrinterService) formatter(ctx context.Context, target printer.Target) *receipt.Formatter {
	f := receipt.New()
	f.Now = s.now
	f.Location = s.loc
	if target.PaperWidth == 80 {
		f.Width = 48
	}

	rc := s.GetRestaurant(ctx)
	for _, line := range []string{rc.Name, rc.Address, rc.Phone, rc.Website} {
		if line != "" {
			f.Header = append(f.Header, line)
		}
	}

	if pattern := s.cfg.FooterQRURL; pattern != "" {
		if err := config.ValidateFooterQRURL(pattern); err != nil {
			s.logger.LogWarning("Footer QR disabled", err.Error())
		} else {
			f.FooterQR = func(b *models.Bill) string {
				return fmt.Sprintf(pattern, b.BillNumber)
			}
		}
	}
	return f
}

// PrintKitchenTicket prints order on the kitchen station
func (s *PrinterService) PrintKitchenTicket(ctx context.Context, order *models.Order) bool {
	target := s.ResolveTarget(ctx, models.StationKitchen)
	ok := s.dispatcher.Dispatch(ctx, s.formatter(ctx, target).FormatKitchenTicket(order), target)
	if !ok {
		s.logger.LogWarning("Kitchen ticket not printed", "order="+order.OrderNumber)
	}
	return ok
}

// PrintBill prints the customer receipt on the cashier station
func (s *PrinterService) PrintBill(ctx context.Context, bill *models.Bill) bool {
	target := s.ResolveTarget(ctx, models.StationCashier)
	ok := s.dispatcher.Dispatch(ctx, s.formatter(ctx, target).FormatBill(bill), target)
	if !ok {
		s.logger.LogWarning("Bill not printed", "bill="+bill.BillNumber)
	}
	return ok
}

// PrintDailyReport prints the closing report on the cashier station
func (s *PrinterService) PrintDailyReport(ctx context.Context, summary *models.DailySummary) bool {
	target := s.ResolveTarget(ctx, models.StationCashier)
	return s.dispatcher.Dispatch(ctx, s.formatter(ctx, target).FormatDailyReport(summary), target)
}

// TestPrint prints a short test page on station and returns the failure, if any
func (s *PrinterService) TestPrint(ctx context.Context, station string) error {
	if !validStation(station) {
		return invalid("unknown station %q", station)
	}
	target := s.ResolveTarget(ctx, station)
	f := s.formatter(ctx, target)

	instrs := []receipt.Instruction{
		receipt.Align(receipt.AlignCenter),
		receipt.Bold(true),
		receipt.TextSize(2, 2),
		receipt.Text("PRINTER TEST"),
		receipt.TextSize(1, 1),
		receipt.Bold(false),
		receipt.Align(receipt.AlignLeft),
		receipt.Text(receipt.PadRow("Station", station, f.Width)),
		receipt.Text(receipt.PadRow("Target", target.String(), f.Width)),
		receipt.Text(receipt.PadRow("Paper", fmt.Sprintf("%dmm", target.PaperWidth), f.Width)),
		receipt.Text("Time: " + s.now().Format(receipt.TimeLayout)),
		receipt.Cut(),
	}
	return s.dispatcher.Send(ctx, instrs, target)
}

// ListPrinters returns every configured printer
func (s *PrinterService) ListPrinters(ctx context.Context) ([]models.PrinterConfig, error) {
	var printers []models.PrinterConfig
	if err := s.db.WithContext(ctx).Order("station, id").Find(&printers).Error; err != nil {
		return nil, fmt.Errorf("failed to list printers: %w", err)
	}
	return printers, nil
}

// SavePrinter creates or updates a printer configuration
func (s *PrinterService) SavePrinter(ctx context.Context, pc *models.PrinterConfig) error {
	if !validStation(pc.Station) {
		return invalid("unknown station %q", pc.Station)
	}
	switch pc.Type {
	case "", printer.TypeNetwork, printer.TypeSerial, printer.TypeUSB, printer.TypeFile:
	default:
		return invalid("unknown printer type %q", pc.Type)
	}
	if pc.Address == "" {
		return invalid("printer address is required")
	}
	if pc.PaperWidth == 0 {
		pc.PaperWidth = 58
	}
	if pc.PaperWidth != 58 && pc.PaperWidth != 80 {
		return invalid("paper width must be 58 or 80")
	}

	if err := s.db.WithContext(ctx).Save(pc).Error; err != nil {
		return fmt.Errorf("failed to save printer: %w", err)
	}
	s.logger.LogInfo("Printer saved", fmt.Sprintf("station=%s address=%s", pc.Station, pc.Address))
	return nil
}

// DeletePrinter removes a printer configuration
func (s *PrinterService) DeletePrinter(ctx context.Context, id uint) error {
	res := s.db.WithContext(ctx).Delete(&models.PrinterConfig{}, id)
	if res.Error != nil {
		return fmt.Errorf("failed to delete printer: %w", res.Error)
	}
	if res.RowsAffected == 0 {
		return fmt.Errorf("printer %d: %w", id, ErrNotFound)
	}
	return nil
}
