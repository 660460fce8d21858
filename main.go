package main

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"RestaurantPos/app/api"
	"RestaurantPos/app/config"
	"RestaurantPos/app/database"
	"RestaurantPos/app/printer"
	"RestaurantPos/app/services"
	"RestaurantPos/app/websocket"

	"github.com/gin-gonic/gin"
	"github.com/grandcat/zeroconf"
	"github.com/joho/godotenv"
	"gorm.io/gorm"
)

const shutdownTimeout = 10 * time.Second

// App holds the long-lived parts of the server
type App struct {
	cfg     *config.AppConfig
	logger  *services.LoggerService
	db      *gorm.DB
	hub     *websocket.Hub
	reports *services.ReportService
	server  *http.Server
	mdns    *zeroconf.Server
}

// NewApp connects the database and wires every service
func NewApp(cfg *config.AppConfig, logger *services.LoggerService) (*App, error) {
	logger.LogInfo("Connecting to database", "driver="+cfg.Database.Driver)
	db, err := database.Open(cfg.Database)
	if err != nil {
		return nil, err
	}

	hub := websocket.NewHub(logger)

	dispatcher := printer.NewDispatcher(logger)
	dispatcher.Timeout = cfg.PrintTimeout()

	printers := services.NewPrinterService(db, cfg, dispatcher, logger)
	employees := services.NewEmployeeService(db, logger)
	reports := services.NewReportService(db, printers, logger)

	router := api.NewRouter(api.Services{
		Hub:       hub,
		Menu:      services.NewMenuService(db, logger),
		Orders:    services.NewOrderService(db, hub, printers, logger),
		Bills:     services.NewBillService(db, cfg.Billing.TaxRate, employees, hub, printers, logger),
		Customers: services.NewCustomerService(db, logger),
		Expenses:  services.NewExpenseService(db, logger),
		Employees: employees,
		Printers:  printers,
		Reports:   reports,
		Logger:    logger,
	}, cfg.Server.AllowOrigins)

	return &App{
		cfg:     cfg,
		logger:  logger,
		db:      db,
		hub:     hub,
		reports: reports,
		server: &http.Server{
			Addr:              fmt.Sprintf(":%d", cfg.Server.Port),
			Handler:           router,
			ReadHeaderTimeout: 10 * time.Second,
		},
	}, nil
}

// startup starts the background workers and the HTTP listener
func (a *App) startup() <-chan error {
	if a.cfg.Reports.PrintClosing && a.cfg.Reports.ClosingSchedule != "" {
		if err := a.reports.StartClosingSchedule(a.cfg.Reports.ClosingSchedule); err != nil {
			a.logger.LogWarning("Closing report scheduler not started", err.Error())
		}
	}

	if a.cfg.Server.AnnounceMDNS {
		mdns, err := websocket.Announce(a.cfg.Server.ServiceName, a.cfg.Server.Port)
		if err != nil {
			a.logger.LogWarning("LAN discovery disabled", err.Error())
		} else {
			a.mdns = mdns
			a.logger.LogInfo("Announcing on the local network", "service="+websocket.ServiceType)
		}
	}

	errc := make(chan error, 1)
	go func() {
		defer a.logger.RecoverPanic()
		a.logger.LogInfo("HTTP server listening", "addr="+a.server.Addr)
		if err := a.server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errc <- err
		}
		close(errc)
	}()
	return errc
}

// shutdown stops accepting requests and releases every resource
func (a *App) shutdown() {
	a.logger.LogInfo("Application closing")

	if a.mdns != nil {
		a.mdns.Shutdown()
	}

	ctx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()
	if err := a.server.Shutdown(ctx); err != nil {
		a.logger.LogError("Error stopping HTTP server", err)
	}

	a.reports.Stop()
	a.hub.Close()

	if err := database.Close(a.db); err != nil {
		a.logger.LogError("Error closing database", err)
	} else {
		a.logger.LogInfo("Database connection closed successfully")
	}

	a.logger.LogInfo("Application shutdown complete")
}

func main() {
	// Load environment variables from .env file in project root (for development)
	envErr := godotenv.Load(".env")

	cfgPath := config.GetConfigPath()
	cfg, cfgErr := config.LoadConfig(cfgPath)
	if cfg == nil {
		cfg = config.Default()
	}

	loggerService := services.NewLoggerService(cfg.Logging.Dir)
	defer loggerService.Close()

	// Recover from any panic and log it
	defer func() {
		if r := recover(); r != nil {
			loggerService.LogPanic(r)
			os.Exit(1)
		}
	}()

	loggerService.LogInfo("Application starting", "Restaurant POS Server")
	if envErr != nil {
		loggerService.LogWarning(".env file not found, using config file and environment")
	}
	if cfgErr != nil {
		loggerService.LogError("Failed to load configuration, using defaults", cfgErr, "path="+cfgPath)
	}
	if cfg.Logging.RetentionDays > 0 {
		if err := loggerService.CleanOldLogs(cfg.Logging.RetentionDays); err != nil {
			loggerService.LogWarning("Failed to clean old logs", err.Error())
		}
	}

	gin.SetMode(gin.ReleaseMode)

	app, err := NewApp(cfg, loggerService)
	if err != nil {
		loggerService.LogError("Failed to initialize application", err)
		loggerService.Close()
		os.Exit(1)
	}

	errc := app.startup()

	stop := make(chan os.Signal, 1)
	signal.Notify(stop, syscall.SIGINT, syscall.SIGTERM)

	select {
	case sig := <-stop:
		loggerService.LogInfo("Shutdown signal received", sig.String())
	case err := <-errc:
		if err != nil {
			loggerService.LogError("HTTP server error", err)
		}
	}

	app.shutdown()
}
