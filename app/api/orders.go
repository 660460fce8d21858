package api

import (
	"net/http"
	"strings"

	"RestaurantPos/app/models"
	"RestaurantPos/app/services"

	"github.com/gin-gonic/gin"
)

type statusRequest struct {
	Status string `json:"status" binding:"required"`
}

func (h *handler) listMenu(c *gin.Context) {
	activeOnly := c.Query("active") == "true"
	items, err := h.Menu.ListMenuItems(c.Request.Context(), activeOnly, models.Category(c.Query("category")))
	if err != nil {
		h.fail(c, err)
		return
	}
	c.JSON(http.StatusOK, items)
}

func (h *handler) createMenuItem(c *gin.Context) {
	var item models.MenuItem
	if err := c.ShouldBindJSON(&item); err != nil {
		badRequest(c, "invalid request body")
		return
	}
	if err := h.Menu.CreateMenuItem(c.Request.Context(), &item); err != nil {
		h.fail(c, err)
		return
	}
	c.JSON(http.StatusCreated, item)
}

func (h *handler) getMenuItem(c *gin.Context) {
	itemID, ok := id(c)
	if !ok {
		return
	}
	item, err := h.Menu.GetMenuItem(c.Request.Context(), itemID)
	if err != nil {
		h.fail(c, err)
		return
	}
	c.JSON(http.StatusOK, item)
}

func (h *handler) updateMenuItem(c *gin.Context) {
	itemID, ok := id(c)
	if !ok {
		return
	}
	var item models.MenuItem
	if err := c.ShouldBindJSON(&item); err != nil {
		badRequest(c, "invalid request body")
		return
	}
	updated, err := h.Menu.UpdateMenuItem(c.Request.Context(), itemID, &item)
	if err != nil {
		h.fail(c, err)
		return
	}
	c.JSON(http.StatusOK, updated)
}

func (h *handler) deactivateMenuItem(c *gin.Context) {
	itemID, ok := id(c)
	if !ok {
		return
	}
	if err := h.Menu.DeactivateMenuItem(c.Request.Context(), itemID); err != nil {
		h.fail(c, err)
		return
	}
	c.Status(http.StatusNoContent)
}

func (h *handler) listTables(c *gin.Context) {
	tables, err := h.Orders.ListTables(c.Request.Context())
	if err != nil {
		h.fail(c, err)
		return
	}
	c.JSON(http.StatusOK, tables)
}

func (h *handler) createTable(c *gin.Context) {
	var table models.Table
	if err := c.ShouldBindJSON(&table); err != nil {
		badRequest(c, "invalid request body")
		return
	}
	if err := h.Orders.CreateTable(c.Request.Context(), &table); err != nil {
		h.fail(c, err)
		return
	}
	c.JSON(http.StatusCreated, table)
}

func (h *handler) listTableOrders(c *gin.Context) {
	tableID, ok := id(c)
	if !ok {
		return
	}
	orders, err := h.Orders.ListOrdersByTable(c.Request.Context(), tableID, c.Query("unbilled") == "true")
	if err != nil {
		h.fail(c, err)
		return
	}
	c.JSON(http.StatusOK, orders)
}

func (h *handler) updateTableStatus(c *gin.Context) {
	tableID, ok := id(c)
	if !ok {
		return
	}
	var req statusRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		badRequest(c, "status is required")
		return
	}
	table, err := h.Orders.UpdateTableStatus(c.Request.Context(), tableID, req.Status)
	if err != nil {
		h.fail(c, err)
		return
	}
	c.JSON(http.StatusOK, table)
}

// listOrders returns unbilled orders, filtered by ?status=pending,cooking
func (h *handler) listOrders(c *gin.Context) {
	var statuses []models.OrderStatus
	if raw := c.Query("status"); raw != "" {
		for _, s := range strings.Split(raw, ",") {
			statuses = append(statuses, models.OrderStatus(strings.TrimSpace(s)))
		}
	}
	orders, err := h.Orders.ListOrdersByStatus(c.Request.Context(), statuses...)
	if err != nil {
		h.fail(c, err)
		return
	}
	c.JSON(http.StatusOK, orders)
}

func (h *handler) createOrder(c *gin.Context) {
	var in services.CreateOrderInput
	if err := c.ShouldBindJSON(&in); err != nil {
		badRequest(c, "invalid request body")
		return
	}
	order, err := h.Orders.CreateOrder(c.Request.Context(), in)
	if err != nil {
		h.fail(c, err)
		return
	}
	c.JSON(http.StatusCreated, order)
}

func (h *handler) getOrder(c *gin.Context) {
	orderID, ok := id(c)
	if !ok {
		return
	}
	order, err := h.Orders.GetOrder(c.Request.Context(), orderID)
	if err != nil {
		h.fail(c, err)
		return
	}
	c.JSON(http.StatusOK, order)
}

func (h *handler) updateOrderStatus(c *gin.Context) {
	orderID, ok := id(c)
	if !ok {
		return
	}
	var req statusRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		badRequest(c, "status is required")
		return
	}
	order, err := h.Orders.UpdateOrderStatus(c.Request.Context(), orderID, models.OrderStatus(req.Status))
	if err != nil {
		h.fail(c, err)
		return
	}
	c.JSON(http.StatusOK, order)
}

func (h *handler) printOrder(c *gin.Context) {
	orderID, ok := id(c)
	if !ok {
		return
	}
	printed, err := h.Orders.ReprintKitchenTicket(c.Request.Context(), orderID)
	if err != nil {
		h.fail(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"printed": printed})
}
