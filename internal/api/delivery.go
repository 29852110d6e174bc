package api

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"example.com/backstage/services/routedelivery/internal/service"
)

// startDelivery moves a pending order to in_progress
func (h *Handler) startDelivery(c *gin.Context) {
	var req service.StartDeliveryRequest
	if !bindJSON(c, &req) {
		return
	}

	order, err := h.services.Delivery.Start(c.Request.Context(), &req)
	if err != nil {
		WriteError(c, err)
		return
	}
	c.JSON(http.StatusOK, order)
}

// completeDelivery records delivered quantities and marks the order delivered
func (h *Handler) completeDelivery(c *gin.Context) {
	var req service.CompleteDeliveryRequest
	if !bindJSON(c, &req) {
		return
	}

	order, err := h.services.Delivery.Complete(c.Request.Context(), &req)
	if err != nil {
		WriteError(c, err)
		return
	}
	c.JSON(http.StatusOK, order)
}

func (h *Handler) markNotDelivered(c *gin.Context) {
	var req service.NotDeliveredRequest
	if !bindJSON(c, &req) {
		return
	}

	order, err := h.services.Delivery.MarkNotDelivered(c.Request.Context(), &req)
	if err != nil {
		WriteError(c, err)
		return
	}
	c.JSON(http.StatusOK, order)
}

func (h *Handler) captureGPS(c *gin.Context) {
	var req service.CaptureGPSRequest
	if !bindJSON(c, &req) {
		return
	}

	order, err := h.services.Delivery.CaptureGPS(c.Request.Context(), &req)
	if err != nil {
		WriteError(c, err)
		return
	}
	c.JSON(http.StatusOK, order)
}
