// Package api exposes the POS services over HTTP for the waiter, kitchen and
// cashier terminals.
package api

import (
	"fmt"
	"net/http"
	"time"

	"RestaurantPos/app/services"
	"RestaurantPos/app/websocket"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
)

const slowRequest = 200 * time.Millisecond

// Services groups everything the handlers call into
type Services struct {
	Hub       *websocket.Hub
	Menu      *services.MenuService
	Orders    *services.OrderService
	Bills     *services.BillService
	Customers *services.CustomerService
	Expenses  *services.ExpenseService
	Employees *services.EmployeeService
	Printers  *services.PrinterService
	Reports   *services.ReportService
	Logger    *services.LoggerService
}

// NewRouter builds the gin engine with every route registered
func NewRouter(s Services, allowOrigins []string) *gin.Engine {
	r := gin.New()
	r.Use(gin.CustomRecovery(func(c *gin.Context, recovered interface{}) {
		s.Logger.LogPanic(recovered)
		c.AbortWithStatusJSON(http.StatusInternalServerError, gin.H{"error": "internal error"})
	}))
	r.Use(requestLogger(s.Logger))
	r.Use(cors.New(corsConfig(allowOrigins)))

	r.GET("/health", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"status": "ok", "realtime": s.Hub.Status()})
	})
	r.GET("/ws", gin.WrapF(s.Hub.ServeWS))

	h := &handler{Services: s}
	api := r.Group("/api")
	{
		menu := api.Group("/menu")
		menu.GET("", h.listMenu)
		menu.POST("", h.createMenuItem)
		menu.GET("/:id", h.getMenuItem)
		menu.PUT("/:id", h.updateMenuItem)
		menu.DELETE("/:id", h.deactivateMenuItem)

		tables := api.Group("/tables")
		tables.GET("", h.listTables)
		tables.POST("", h.createTable)
		tables.GET("/:id/orders", h.listTableOrders)
		tables.PUT("/:id/status", h.updateTableStatus)

		orders := api.Group("/orders")
		orders.GET("", h.listOrders)
		orders.POST("", h.createOrder)
		orders.GET("/:id", h.getOrder)
		orders.PUT("/:id/status", h.updateOrderStatus)
		orders.POST("/:id/print", h.printOrder)

		bills := api.Group("/bills")
		bills.GET("", h.listBills)
		bills.POST("", h.checkout)
		bills.GET("/:id", h.getBill)
		bills.POST("/:id/payments", h.addPayment)
		bills.POST("/:id/print", h.printBill)

		customers := api.Group("/customers")
		customers.GET("", h.listCustomers)
		customers.POST("", h.createCustomer)
		customers.GET("/:id", h.getCustomer)
		customers.PUT("/:id", h.updateCustomer)
		customers.DELETE("/:id", h.deleteCustomer)
		customers.POST("/:id/settle", h.settleCredit)

		expenses := api.Group("/expenses")
		expenses.GET("", h.listExpenses)
		expenses.POST("", h.createExpense)
		expenses.DELETE("/:id", h.deleteExpense)

		employees := api.Group("/employees")
		employees.GET("", h.listEmployees)
		employees.POST("", h.createEmployee)
		employees.DELETE("/:id", h.deactivateEmployee)

		// The segment after /printers is a record id, or a station name for /test
		printers := api.Group("/printers")
		printers.GET("", h.listPrinters)
		printers.POST("", h.savePrinter)
		printers.DELETE("/:id", h.deletePrinter)
		printers.POST("/:id/test", h.testPrinter)

		api.GET("/restaurant", h.getRestaurant)
		api.PUT("/restaurant", h.saveRestaurant)

		api.GET("/reports/daily", h.dailyReport)
	}

	return r
}

func corsConfig(origins []string) cors.Config {
	cfg := cors.DefaultConfig()
	cfg.AllowHeaders = append(cfg.AllowHeaders, "Authorization")
	for _, o := range origins {
		if o == "*" {
			cfg.AllowAllOrigins = true
			return cfg
		}
	}
	if len(origins) == 0 {
		cfg.AllowAllOrigins = true
		return cfg
	}
	cfg.AllowOrigins = origins
	return cfg
}

// requestLogger logs every request with its latency and flags slow ones
func requestLogger(logger *services.LoggerService) gin.HandlerFunc {
	return func(c *gin.Context) {
		start := time.Now()
		c.Next()
		latency := time.Since(start)

		line := fmt.Sprintf("%s %s | Status: %d | Time: %v", c.Request.Method, c.Request.URL.Path, c.Writer.Status(), latency)
		if latency > slowRequest {
			logger.LogWarning("Slow request", line)
			return
		}
		logger.LogInfo("Request", line)
	}
}
