package api

import (
	"net/http"

	"RestaurantPos/app/models"

	"github.com/gin-gonic/gin"
	"github.com/shopspring/decimal"
)

func (h *handler) listCustomers(c *gin.Context) {
	customers, err := h.Customers.ListCustomers(c.Request.Context(), c.Query("search"))
	if err != nil {
		h.fail(c, err)
		return
	}
	c.JSON(http.StatusOK, customers)
}

func (h *handler) createCustomer(c *gin.Context) {
	var customer models.Customer
	if err := c.ShouldBindJSON(&customer); err != nil {
		badRequest(c, "invalid request body")
		return
	}
	if err := h.Customers.CreateCustomer(c.Request.Context(), &customer); err != nil {
		h.fail(c, err)
		return
	}
	c.JSON(http.StatusCreated, customer)
}

func (h *handler) getCustomer(c *gin.Context) {
	customerID, ok := id(c)
	if !ok {
		return
	}
	customer, err := h.Customers.GetCustomer(c.Request.Context(), customerID)
	if err != nil {
		h.fail(c, err)
		return
	}
	c.JSON(http.StatusOK, customer)
}

func (h *handler) updateCustomer(c *gin.Context) {
	customerID, ok := id(c)
	if !ok {
		return
	}
	var in models.Customer
	if err := c.ShouldBindJSON(&in); err != nil {
		badRequest(c, "invalid request body")
		return
	}
	customer, err := h.Customers.UpdateCustomer(c.Request.Context(), customerID, &in)
	if err != nil {
		h.fail(c, err)
		return
	}
	c.JSON(http.StatusOK, customer)
}

func (h *handler) deleteCustomer(c *gin.Context) {
	customerID, ok := id(c)
	if !ok {
		return
	}
	if err := h.Customers.DeleteCustomer(c.Request.Context(), customerID); err != nil {
		h.fail(c, err)
		return
	}
	c.Status(http.StatusNoContent)
}

func (h *handler) settleCredit(c *gin.Context) {
	customerID, ok := id(c)
	if !ok {
		return
	}
	var req struct {
		Amount decimal.Decimal `json:"amount"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		badRequest(c, "invalid request body")
		return
	}
	customer, err := h.Customers.SettleCredit(c.Request.Context(), customerID, req.Amount)
	if err != nil {
		h.fail(c, err)
		return
	}
	c.JSON(http.StatusOK, customer)
}

func (h *handler) listExpenses(c *gin.Context) {
	from, ok := day(c, "from", today())
	if !ok {
		return
	}
	to, ok := day(c, "to", from)
	if !ok {
		return
	}
	expenses, err := h.Expenses.ListExpenses(c.Request.Context(), from, to.AddDate(0, 0, 1))
	if err != nil {
		h.fail(c, err)
		return
	}
	c.JSON(http.StatusOK, expenses)
}

func (h *handler) createExpense(c *gin.Context) {
	var expense models.Expense
	if err := c.ShouldBindJSON(&expense); err != nil {
		badRequest(c, "invalid request body")
		return
	}
	if err := h.Expenses.CreateExpense(c.Request.Context(), &expense); err != nil {
		h.fail(c, err)
		return
	}
	c.JSON(http.StatusCreated, expense)
}

func (h *handler) deleteExpense(c *gin.Context) {
	expenseID, ok := id(c)
	if !ok {
		return
	}
	if err := h.Expenses.DeleteExpense(c.Request.Context(), expenseID); err != nil {
		h.fail(c, err)
		return
	}
	c.Status(http.StatusNoContent)
}

func (h *handler) listEmployees(c *gin.Context) {
	employees, err := h.Employees.ListEmployees(c.Request.Context())
	if err != nil {
		h.fail(c, err)
		return
	}
	c.JSON(http.StatusOK, employees)
}

func (h *handler) createEmployee(c *gin.Context) {
	var req struct {
		Name string      `json:"name" binding:"required"`
		Role models.Role `json:"role" binding:"required"`
		PIN  string      `json:"pin" binding:"required"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		badRequest(c, "name, role and pin are required")
		return
	}
	employee := models.Employee{Name: req.Name, Role: req.Role}
	if err := h.Employees.CreateEmployee(c.Request.Context(), &employee, req.PIN); err != nil {
		h.fail(c, err)
		return
	}
	c.JSON(http.StatusCreated, employee)
}

func (h *handler) deactivateEmployee(c *gin.Context) {
	employeeID, ok := id(c)
	if !ok {
		return
	}
	if err := h.Employees.DeactivateEmployee(c.Request.Context(), employeeID); err != nil {
		h.fail(c, err)
		return
	}
	c.Status(http.StatusNoContent)
}
