package api

import (
	"net/http"

	"RestaurantPos/app/services"

	"github.com/gin-gonic/gin"
)

func (h *handler) checkout(c *gin.Context) {
	var in services.CheckoutInput
	if err := c.ShouldBindJSON(&in); err != nil {
		badRequest(c, "invalid request body")
		return
	}
	bill, err := h.Bills.Checkout(c.Request.Context(), in)
	if err != nil {
		h.fail(c, err)
		return
	}
	c.JSON(http.StatusCreated, bill)
}

// listBills returns bills from ?from to ?to inclusive, both YYYY-MM-DD and
// defaulting to today
func (h *handler) listBills(c *gin.Context) {
	from, ok := day(c, "from", today())
	if !ok {
		return
	}
	to, ok := day(c, "to", from)
	if !ok {
		return
	}
	bills, err := h.Bills.ListBills(c.Request.Context(), from, to.AddDate(0, 0, 1))
	if err != nil {
		h.fail(c, err)
		return
	}
	c.JSON(http.StatusOK, bills)
}

func (h *handler) getBill(c *gin.Context) {
	billID, ok := id(c)
	if !ok {
		return
	}
	bill, err := h.Bills.GetBill(c.Request.Context(), billID)
	if err != nil {
		h.fail(c, err)
		return
	}
	c.JSON(http.StatusOK, bill)
}

func (h *handler) addPayment(c *gin.Context) {
	billID, ok := id(c)
	if !ok {
		return
	}
	var in services.PaymentInput
	if err := c.ShouldBindJSON(&in); err != nil {
		badRequest(c, "invalid request body")
		return
	}
	bill, err := h.Bills.AddPayment(c.Request.Context(), billID, in)
	if err != nil {
		h.fail(c, err)
		return
	}
	c.JSON(http.StatusOK, bill)
}

func (h *handler) printBill(c *gin.Context) {
	billID, ok := id(c)
	if !ok {
		return
	}
	printed, err := h.Bills.ReprintBill(c.Request.Context(), billID)
	if err != nil {
		h.fail(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"printed": printed})
}

// dailyReport returns the closing summary of ?date; ?print=true also prints it
func (h *handler) dailyReport(c *gin.Context) {
	date, ok := day(c, "date", today())
	if !ok {
		return
	}

	if c.Query("print") == "true" {
		summary, printed, err := h.Reports.PrintClosingReport(c.Request.Context(), date)
		if err != nil {
			h.fail(c, err)
			return
		}
		c.JSON(http.StatusOK, gin.H{"summary": summary, "printed": printed})
		return
	}

	summary, err := h.Reports.DailySummary(c.Request.Context(), date)
	if err != nil {
		h.fail(c, err)
		return
	}
	c.JSON(http.StatusOK, summary)
}
