package api

import (
	"errors"
	"net/http"
	"strconv"
	"time"

	"RestaurantPos/app/services"

	"github.com/gin-gonic/gin"
)

const dateLayout = "2006-01-02"

type handler struct {
	Services
}

// statusFor maps service errors to HTTP status codes
func statusFor(err error) int {
	switch {
	case services.IsValidationError(err), errors.Is(err, services.ErrCustomerRequired):
		return http.StatusBadRequest
	case errors.Is(err, services.ErrDiscountNotAuthorized):
		return http.StatusForbidden
	case errors.Is(err, services.ErrNotFound):
		return http.StatusNotFound
	case errors.Is(err, services.ErrOrderBilled),
		errors.Is(err, services.ErrInvalidStatusTransition),
		errors.Is(err, services.ErrNothingToBill):
		return http.StatusConflict
	}
	return http.StatusInternalServerError
}

func (h *handler) fail(c *gin.Context, err error) {
	status := statusFor(err)
	if status == http.StatusInternalServerError {
		h.Logger.LogError("Request failed", err, c.Request.Method+" "+c.Request.URL.Path)
		c.JSON(status, gin.H{"error": "internal error"})
		return
	}
	c.JSON(status, gin.H{"error": err.Error()})
}

func badRequest(c *gin.Context, msg string) {
	c.JSON(http.StatusBadRequest, gin.H{"error": msg})
}

// id parses the :id path parameter, answering 400 when it is not a number
func id(c *gin.Context) (uint, bool) {
	n, err := strconv.ParseUint(c.Param("id"), 10, 64)
	if err != nil || n == 0 {
		badRequest(c, "invalid id")
		return 0, false
	}
	return uint(n), true
}

// day parses a YYYY-MM-DD query parameter in local time, defaulting to today
func day(c *gin.Context, name string, fallback time.Time) (time.Time, bool) {
	raw := c.Query(name)
	if raw == "" {
		return fallback, true
	}
	t, err := time.ParseInLocation(dateLayout, raw, time.Local)
	if err != nil {
		badRequest(c, "invalid "+name+": use "+dateLayout)
		return time.Time{}, false
	}
	return t, true
}

func today() time.Time {
	now := time.Now()
	return time.Date(now.Year(), now.Month(), now.Day(), 0, 0, 0, 0, now.Location())
}
