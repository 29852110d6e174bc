package repository

import (
	"context"

	"gorm.io/gorm"

	"example.com/backstage/services/routedelivery/internal/model"
)

// RouteRepository defines the interface for route repository
type RouteRepository interface {
	ListByDriver(ctx context.Context, driverID uint) ([]*model.Route, error)
	GetByID(ctx context.Context, id uint) (*model.Route, error)
	Create(ctx context.Context, route *model.Route) (*model.Route, error)
}

type routeRepository struct {
	db *gorm.DB
}

// NewRouteRepository creates a new route repository
func NewRouteRepository(db *gorm.DB) RouteRepository {
	return &routeRepository{db: db}
}

func (r *routeRepository) ListByDriver(ctx context.Context, driverID uint) ([]*model.Route, error) {
	var routes []*model.Route
	if err := r.db.WithContext(ctx).Where("driver_id = ?", driverID).Order("date DESC").Find(&routes).Error; err != nil {
		return nil, err
	}
	return routes, nil
}

func (r *routeRepository) GetByID(ctx context.Context, id uint) (*model.Route, error) {
	var route model.Route
	if err := r.db.WithContext(ctx).First(&route, id).Error; err != nil {
		return nil, translate(err)
	}
	return &route, nil
}

func (r *routeRepository) Create(ctx context.Context, route *model.Route) (*model.Route, error) {
	if err := r.db.WithContext(ctx).Create(route).Error; err != nil {
		return nil, translate(err)
	}
	return route, nil
}
