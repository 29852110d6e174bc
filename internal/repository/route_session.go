package repository

import (
	"context"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"example.com/backstage/services/routedelivery/internal/model"
)

// RouteSessionRepository defines the interface for route session repository
type RouteSessionRepository interface {
	ListByDriver(ctx context.Context, driverID uint) ([]*model.RouteSession, error)
	GetByID(ctx context.Context, id uint) (*model.RouteSession, error)
	GetForUpdate(ctx context.Context, id uint) (*model.RouteSession, error)
	GetActiveByDriver(ctx context.Context, driverID uint) (*model.RouteSession, error)
	Create(ctx context.Context, session *model.RouteSession) (*model.RouteSession, error)
	Update(ctx context.Context, session *model.RouteSession) (*model.RouteSession, error)
}

// routeSessionRepository implements RouteSessionRepository
type routeSessionRepository struct {
	db *gorm.DB
}

// NewRouteSessionRepository creates a new route session repository
func NewRouteSessionRepository(db *gorm.DB) RouteSessionRepository {
	return &routeSessionRepository{db: db}
}

// ListByDriver lists a driver's sessions, newest first
func (r *routeSessionRepository) ListByDriver(ctx context.Context, driverID uint) ([]*model.RouteSession, error) {
	var sessions []*model.RouteSession
	err := r.db.WithContext(ctx).
		Where("driver_id = ?", driverID).
		Order("created_at DESC").
		Find(&sessions).Error
	if err != nil {
		return nil, err
	}
	return sessions, nil
}

// GetByID gets a session by ID
func (r *routeSessionRepository) GetByID(ctx context.Context, id uint) (*model.RouteSession, error) {
	var session model.RouteSession
	if err := r.db.WithContext(ctx).First(&session, id).Error; err != nil {
		return nil, translate(err)
	}
	return &session, nil
}

// GetForUpdate gets a session and locks its row
func (r *routeSessionRepository) GetForUpdate(ctx context.Context, id uint) (*model.RouteSession, error) {
	var session model.RouteSession
	err := r.db.WithContext(ctx).
		Clauses(clause.Locking{Strength: "UPDATE"}).
		First(&session, id).Error
	if err != nil {
		return nil, translate(err)
	}
	return &session, nil
}

// GetActiveByDriver gets the most recent active session of a driver
func (r *routeSessionRepository) GetActiveByDriver(ctx context.Context, driverID uint) (*model.RouteSession, error) {
	var session model.RouteSession
	err := r.db.WithContext(ctx).
		Where("driver_id = ? AND status = ?", driverID, model.ActiveRouteStatus).
		Order("started_at DESC").
		First(&session).Error
	if err != nil {
		return nil, translate(err)
	}
	return &session, nil
}

// Create creates a new session
func (r *routeSessionRepository) Create(ctx context.Context, session *model.RouteSession) (*model.RouteSession, error) {
	if err := r.db.WithContext(ctx).Create(session).Error; err != nil {
		return nil, translate(err)
	}
	return session, nil
}

// Update saves every column of the session
func (r *routeSessionRepository) Update(ctx context.Context, session *model.RouteSession) (*model.RouteSession, error) {
	if err := r.db.WithContext(ctx).Save(session).Error; err != nil {
		return nil, translate(err)
	}
	return session, nil
}
