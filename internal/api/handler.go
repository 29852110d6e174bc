package api

import (
	"context"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"

	"example.com/backstage/services/routedelivery/config"
	"example.com/backstage/services/routedelivery/internal/metrics"
	"example.com/backstage/services/routedelivery/internal/service"
)

// HealthCheck reports whether a dependency is reachable
type HealthCheck func(ctx context.Context) error

// Handler defines the API handler
type Handler struct {
	services *service.Services
	session  config.SessionConfig
	loc      *time.Location
	health   HealthCheck
}

// NewHandler creates a new API handler
func NewHandler(services *service.Services, session config.SessionConfig, loc *time.Location, health HealthCheck) *Handler {
	if loc == nil {
		loc = time.Local
	}
	return &Handler{
		services: services,
		session:  session,
		loc:      loc,
		health:   health,
	}
}

// RegisterRoutes registers API routes
func (h *Handler) RegisterRoutes(r *gin.Engine) {
	r.GET("/health", h.healthCheck)
	r.GET("/metrics", gin.WrapH(metrics.GetMetricsCollector().Handler()))

	api := r.Group("/api")
	api.POST("/auth/login", h.login)
	api.POST("/auth/logout", h.logout)

	protected := api.Group("", SessionAuth(h.services.Auth, h.session.CookieName))
	protected.GET("/auth/me", h.me)

	// Catalog
	protected.GET("/customers", h.listCustomers)
	protected.GET("/customers/:id", h.getCustomer)
	protected.POST("/customers", h.createCustomer)
	protected.GET("/products", h.listProducts)
	protected.GET("/products/:id", h.getProduct)
	protected.POST("/products", h.createProduct)

	// Orders
	protected.GET("/orders", h.listOrders)
	protected.GET("/orders/:id", h.getOrder)
	protected.POST("/orders", h.createOrder)
	protected.PATCH("/orders/:id", h.updateOrder)
	protected.POST("/order-items", h.createOrderItem)
	protected.PATCH("/order-items/:id", h.updateOrderItem)

	// Delivery lifecycle
	protected.POST("/delivery/start", h.startDelivery)
	protected.POST("/delivery/complete", h.completeDelivery)
	protected.POST("/delivery/not-delivered", h.markNotDelivered)
	protected.POST("/delivery/capture-gps", h.captureGPS)

	// Inventory
	protected.GET("/inventory", h.listInventory)
	protected.PATCH("/inventory", h.setInventory)

	// Routes and sessions
	protected.GET("/routes", h.listRoutes)
	protected.GET("/routes/:id", h.getRoute)
	protected.POST("/routes", h.createRoute)
	protected.GET("/route-sessions", h.listRouteSessions)
	protected.POST("/route-sessions/start", h.startRouteSession)
	protected.POST("/route-sessions/end", h.endRouteSession)
	protected.GET("/daily-reports", h.listDailyReports)

	protected.GET("/statistics", h.getStatistics)
}

// healthCheck reports the service status
func (h *Handler) healthCheck(c *gin.Context) {
	if h.health != nil {
		ctx, cancel := context.WithTimeout(c.Request.Context(), 2*time.Second)
		defer cancel()

		if err := h.health(ctx); err != nil {
			c.JSON(http.StatusServiceUnavailable, gin.H{
				"status": "unavailable",
				"error":  err.Error(),
			})
			return
		}
	}

	c.JSON(http.StatusOK, gin.H{
		"status": "ok",
		"time":   time.Now().UTC().Format(time.RFC3339),
	})
}
