package api

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"example.com/backstage/services/routedelivery/internal/service"
)

func (h *Handler) listCustomers(c *gin.Context) {
	customers, err := h.services.Catalog.ListCustomers(c.Request.Context())
	if err != nil {
		WriteError(c, err)
		return
	}
	c.JSON(http.StatusOK, customers)
}

func (h *Handler) getCustomer(c *gin.Context) {
	id, err := pathID(c, "id")
	if err != nil {
		WriteError(c, err)
		return
	}

	customer, err := h.services.Catalog.GetCustomer(c.Request.Context(), id)
	if err != nil {
		WriteError(c, err)
		return
	}
	c.JSON(http.StatusOK, customer)
}

func (h *Handler) createCustomer(c *gin.Context) {
	var req service.CreateCustomerRequest
	if !bindJSON(c, &req) {
		return
	}

	customer, err := h.services.Catalog.CreateCustomer(c.Request.Context(), &req)
	if err != nil {
		WriteError(c, err)
		return
	}
	c.JSON(http.StatusCreated, customer)
}

func (h *Handler) listProducts(c *gin.Context) {
	products, err := h.services.Catalog.ListProducts(c.Request.Context())
	if err != nil {
		WriteError(c, err)
		return
	}
	c.JSON(http.StatusOK, products)
}

func (h *Handler) getProduct(c *gin.Context) {
	id, err := pathID(c, "id")
	if err != nil {
		WriteError(c, err)
		return
	}

	product, err := h.services.Catalog.GetProduct(c.Request.Context(), id)
	if err != nil {
		WriteError(c, err)
		return
	}
	c.JSON(http.StatusOK, product)
}

// createProduct creates a product; a duplicate code is a conflict
func (h *Handler) createProduct(c *gin.Context) {
	var req service.CreateProductRequest
	if !bindJSON(c, &req) {
		return
	}

	product, err := h.services.Catalog.CreateProduct(c.Request.Context(), &req)
	if err != nil {
		WriteError(c, err)
		return
	}
	c.JSON(http.StatusCreated, product)
}
