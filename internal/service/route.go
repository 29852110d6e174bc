package service

import (
	"context"
	"strings"
	"time"

	"github.com/pkg/errors"
	"github.com/shopspring/decimal"
	"github.com/sirupsen/logrus"

	"example.com/backstage/services/routedelivery/internal/model"
	"example.com/backstage/services/routedelivery/internal/repository"
)

// CreateRouteRequest holds the fields of a new route
type CreateRouteRequest struct {
	DriverID      uint             `json:"driverId" binding:"required"`
	Name          string           `json:"name" binding:"required,max=100"`
	Date          time.Time        `json:"date" binding:"required"`
	TotalDistance *decimal.Decimal `json:"totalDistance"`
	EstimatedTime *int             `json:"estimatedTime" binding:"omitempty,min=0"`
	Waypoints     []model.Waypoint `json:"waypoints"`
}

// RouteService manages routes
type RouteService interface {
	List(ctx context.Context, driverID uint) ([]*model.Route, error)
	GetByID(ctx context.Context, id uint) (*model.Route, error)
	Create(ctx context.Context, req *CreateRouteRequest) (*model.Route, error)
}

type routeService struct {
	routes repository.RouteRepository
	log    *logrus.Logger
}

// NewRouteService creates a new route service
func NewRouteService(routes repository.RouteRepository, log *logrus.Logger) RouteService {
	return &routeService{routes: routes, log: log}
}

func (s *routeService) List(ctx context.Context, driverID uint) ([]*model.Route, error) {
	if driverID == 0 {
		return nil, NewValidationError("driverId is required")
	}
	routes, err := s.routes.ListByDriver(ctx, driverID)
	if err != nil {
		return nil, errors.Wrapf(err, "failed to list routes of driver %d", driverID)
	}
	return routes, nil
}

func (s *routeService) GetByID(ctx context.Context, id uint) (*model.Route, error) {
	route, err := s.routes.GetByID(ctx, id)
	if err != nil {
		return nil, errors.Wrapf(err, "failed to get route %d", id)
	}
	return route, nil
}

func (s *routeService) Create(ctx context.Context, req *CreateRouteRequest) (*model.Route, error) {
	if strings.TrimSpace(req.Name) == "" {
		return nil, NewValidationError("name is required")
	}
	for i, wp := range req.Waypoints {
		if wp.Lat < -90 || wp.Lat > 90 || wp.Lng < -180 || wp.Lng > 180 {
			return nil, NewValidationError("waypoint %d is out of range", i)
		}
	}

	route := &model.Route{
		DriverID:      req.DriverID,
		Name:          req.Name,
		Date:          req.Date,
		Status:        model.ActiveRouteStatus,
		TotalDistance: req.TotalDistance,
		EstimatedTime: req.EstimatedTime,
		Waypoints:     req.Waypoints,
	}

	route, err := s.routes.Create(ctx, route)
	if err != nil {
		return nil, errors.Wrap(err, "failed to create route")
	}

	s.log.WithFields(logrus.Fields{
		"route_id":  route.ID,
		"driver_id": route.DriverID,
	}).Info("Route created")
	return route, nil
}
