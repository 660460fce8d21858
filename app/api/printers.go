package api

import (
	"net/http"

	"RestaurantPos/app/models"

	"github.com/gin-gonic/gin"
)

func (h *handler) listPrinters(c *gin.Context) {
	printers, err := h.Printers.ListPrinters(c.Request.Context())
	if err != nil {
		h.fail(c, err)
		return
	}
	c.JSON(http.StatusOK, printers)
}

func (h *handler) savePrinter(c *gin.Context) {
	var pc models.PrinterConfig
	if err := c.ShouldBindJSON(&pc); err != nil {
		badRequest(c, "invalid request body")
		return
	}
	if err := h.Printers.SavePrinter(c.Request.Context(), &pc); err != nil {
		h.fail(c, err)
		return
	}
	c.JSON(http.StatusOK, pc)
}

func (h *handler) deletePrinter(c *gin.Context) {
	printerID, ok := id(c)
	if !ok {
		return
	}
	if err := h.Printers.DeletePrinter(c.Request.Context(), printerID); err != nil {
		h.fail(c, err)
		return
	}
	c.Status(http.StatusNoContent)
}

// testPrinter prints a test page on the station named in the path. Transport
// failures are reported in the body rather than as an HTTP error.
func (h *handler) testPrinter(c *gin.Context) {
	station := c.Param("id")
	err := h.Printers.TestPrint(c.Request.Context(), station)
	if err != nil && statusFor(err) != http.StatusInternalServerError {
		h.fail(c, err)
		return
	}

	target := h.Printers.ResolveTarget(c.Request.Context(), station)
	resp := gin.H{"station": station, "target": target.String(), "printed": err == nil}
	if err != nil {
		resp["error"] = err.Error()
	}
	c.JSON(http.StatusOK, resp)
}

func (h *handler) getRestaurant(c *gin.Context) {
	c.JSON(http.StatusOK, h.Printers.GetRestaurant(c.Request.Context()))
}

func (h *handler) saveRestaurant(c *gin.Context) {
	var rc models.RestaurantConfig
	if err := c.ShouldBindJSON(&rc); err != nil {
		badRequest(c, "invalid request body")
		return
	}
	if err := h.Printers.SaveRestaurant(c.Request.Context(), &rc); err != nil {
		h.fail(c, err)
		return
	}
	c.JSON(http.StatusOK, rc)
}
