package api

import (
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
)

// getStatistics returns the order counts of a driver for one day, today by default
func (h *Handler) getStatistics(c *gin.Context) {
	driverID, err := driverIDQuery(c)
	if err != nil {
		WriteError(c, err)
		return
	}
	date, err := queryDate(c, "date", h.loc)
	if err != nil {
		WriteError(c, err)
		return
	}

	day := time.Now().In(h.loc)
	if date != nil {
		day = *date
	}

	stats, err := h.services.Statistics.GetOrderStatistics(c.Request.Context(), driverID, day)
	if err != nil {
		WriteError(c, err)
		return
	}
	c.JSON(http.StatusOK, stats)
}
