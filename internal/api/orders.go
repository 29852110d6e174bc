package api

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"example.com/backstage/services/routedelivery/internal/model"
	"example.com/backstage/services/routedelivery/internal/repository"
	"example.com/backstage/services/routedelivery/internal/service"
)

// listOrders lists orders filtered by driver and status
func (h *Handler) listOrders(c *gin.Context) {
	driverID, err := queryID(c, "driverId")
	if err != nil {
		WriteError(c, err)
		return
	}

	orders, err := h.services.Orders.List(c.Request.Context(), repository.OrderFilter{
		DriverID: driverID,
		Status:   model.OrderStatus(c.Query("status")),
	})
	if err != nil {
		WriteError(c, err)
		return
	}

	c.JSON(http.StatusOK, orders)
}

func (h *Handler) getOrder(c *gin.Context) {
	id, err := pathID(c, "id")
	if err != nil {
		WriteError(c, err)
		return
	}

	order, err := h.services.Orders.GetByID(c.Request.Context(), id)
	if err != nil {
		WriteError(c, err)
		return
	}

	c.JSON(http.StatusOK, order)
}

func (h *Handler) createOrder(c *gin.Context) {
	var req service.CreateOrderRequest
	if !bindJSON(c, &req) {
		return
	}

	order, err := h.services.Orders.Create(c.Request.Context(), &req)
	if err != nil {
		WriteError(c, err)
		return
	}

	c.JSON(http.StatusCreated, order)
}

func (h *Handler) updateOrder(c *gin.Context) {
	id, err := pathID(c, "id")
	if err != nil {
		WriteError(c, err)
		return
	}

	var req service.UpdateOrderRequest
	if !bindJSON(c, &req) {
		return
	}

	order, err := h.services.Orders.Update(c.Request.Context(), id, &req)
	if err != nil {
		WriteError(c, err)
		return
	}

	c.JSON(http.StatusOK, order)
}

func (h *Handler) createOrderItem(c *gin.Context) {
	var req service.CreateOrderItemRequest
	if !bindJSON(c, &req) {
		return
	}

	item, err := h.services.Orders.CreateItem(c.Request.Context(), &req)
	if err != nil {
		WriteError(c, err)
		return
	}

	c.JSON(http.StatusCreated, item)
}

func (h *Handler) updateOrderItem(c *gin.Context) {
	id, err := pathID(c, "id")
	if err != nil {
		WriteError(c, err)
		return
	}

	var req service.UpdateOrderItemRequest
	if !bindJSON(c, &req) {
		return
	}

	item, err := h.services.Orders.UpdateItem(c.Request.Context(), id, &req)
	if err != nil {
		WriteError(c, err)
		return
	}

	c.JSON(http.StatusOK, item)
}
