package api

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"example.com/backstage/services/routedelivery/internal/service"
)

func (h *Handler) listRoutes(c *gin.Context) {
	driverID, err := driverIDQuery(c)
	if err != nil {
		WriteError(c, err)
		return
	}

	routes, err := h.services.Routes.List(c.Request.Context(), driverID)
	if err != nil {
		WriteError(c, err)
		return
	}
	c.JSON(http.StatusOK, routes)
}

func (h *Handler) getRoute(c *gin.Context) {
	id, err := pathID(c, "id")
	if err != nil {
		WriteError(c, err)
		return
	}

	route, err := h.services.Routes.GetByID(c.Request.Context(), id)
	if err != nil {
		WriteError(c, err)
		return
	}
	c.JSON(http.StatusOK, route)
}

func (h *Handler) createRoute(c *gin.Context) {
	var req service.CreateRouteRequest
	if !bindJSON(c, &req) {
		return
	}

	route, err := h.services.Routes.Create(c.Request.Context(), &req)
	if err != nil {
		WriteError(c, err)
		return
	}
	c.JSON(http.StatusCreated, route)
}

func (h *Handler) listRouteSessions(c *gin.Context) {
	driverID, err := driverIDQuery(c)
	if err != nil {
		WriteError(c, err)
		return
	}

	sessions, err := h.services.RouteSessions.List(c.Request.Context(), driverID)
	if err != nil {
		WriteError(c, err)
		return
	}
	c.JSON(http.StatusOK, sessions)
}

func (h *Handler) startRouteSession(c *gin.Context) {
	var req service.StartSessionRequest
	if !bindJSON(c, &req) {
		return
	}

	session, err := h.services.RouteSessions.Start(c.Request.Context(), &req)
	if err != nil {
		WriteError(c, err)
		return
	}
	c.JSON(http.StatusCreated, session)
}

// endRouteSession closes the working day and returns the session with its report
func (h *Handler) endRouteSession(c *gin.Context) {
	var req service.EndSessionRequest
	if !bindJSON(c, &req) {
		return
	}

	// Fall back to the logged-in driver when the body names neither session nor driver
	if req.SessionID == 0 && req.DriverID == 0 {
		if user, ok := currentUser(c); ok {
			req.DriverID = user.ID
		}
	}

	result, err := h.services.RouteSessions.End(c.Request.Context(), &req)
	if err != nil {
		WriteError(c, err)
		return
	}
	c.JSON(http.StatusOK, result)
}

func (h *Handler) listDailyReports(c *gin.Context) {
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

	reports, err := h.services.RouteSessions.ListReports(c.Request.Context(), driverID, date)
	if err != nil {
		WriteError(c, err)
		return
	}
	c.JSON(http.StatusOK, reports)
}
