package api

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"example.com/backstage/services/routedelivery/internal/service"
)

func (h *Handler) listInventory(c *gin.Context) {
	driverID, err := requiredQueryID(c, "driverId")
	if err != nil {
		WriteError(c, err)
		return
	}

	inventory, err := h.services.Inventory.List(c.Request.Context(), driverID)
	if err != nil {
		WriteError(c, err)
		return
	}
	c.JSON(http.StatusOK, inventory)
}

// setInventory overwrites the quantity a driver carries of a product
func (h *Handler) setInventory(c *gin.Context) {
	var req service.SetInventoryRequest
	if !bindJSON(c, &req) {
		return
	}

	inventory, err := h.services.Inventory.Set(c.Request.Context(), &req)
	if err != nil {
		WriteError(c, err)
		return
	}
	c.JSON(http.StatusOK, inventory)
}
