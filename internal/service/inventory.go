package service

import (
	"context"
	"time"

	"github.com/pkg/errors"
	"github.com/sirupsen/logrus"

	"example.com/backstage/services/routedelivery/internal/cache"
	"example.com/backstage/services/routedelivery/internal/metrics"
	"example.com/backstage/services/routedelivery/internal/model"
	"example.com/backstage/services/routedelivery/internal/repository"
)

// SetInventoryRequest sets the on-hand quantity of a product on a driver's vehicle.
// Negative quantities are accepted.
type SetInventoryRequest struct {
	ProductID uint `json:"productId" binding:"required"`
	DriverID  uint `json:"driverId" binding:"required"`
	Quantity  *int `json:"quantity" binding:"required"`
}

// InventoryService manages per-vehicle inventory
type InventoryService interface {
	List(ctx context.Context, driverID uint) ([]*model.Inventory, error)
	Set(ctx context.Context, req *SetInventoryRequest) (*model.Inventory, error)
}

type inventoryService struct {
	store repository.Store
	cache cache.CacheClient
	log   *logrus.Logger
	now   func() time.Time
}

// NewInventoryService creates a new inventory service
func NewInventoryService(store repository.Store, cacheClient cache.CacheClient, log *logrus.Logger) InventoryService {
	return &inventoryService{
		store: store,
		cache: cacheClient,
		log:   log,
		now:   time.Now,
	}
}

func (s *inventoryService) List(ctx context.Context, driverID uint) ([]*model.Inventory, error) {
	if driverID == 0 {
		return nil, NewValidationError("driverId is required")
	}

	rows, err := s.store.Inventory().ListByDriver(ctx, driverID)
	if err != nil {
		return nil, errors.Wrapf(err, "failed to list inventory of driver %d", driverID)
	}
	return rows, nil
}

func (s *inventoryService) Set(ctx context.Context, req *SetInventoryRequest) (*model.Inventory, error) {
	startTime := time.Now()
	if req.ProductID == 0 || req.DriverID == 0 || req.Quantity == nil {
		return nil, NewValidationError("productId, driverId and quantity are required")
	}

	row, err := s.set(ctx, req)
	metrics.GetMetricsCollector().RecordOperation(metrics.OperationTypeInventorySet, err == nil, time.Since(startTime))
	if err != nil {
		return nil, err
	}

	invalidateStatistics(ctx, s.cache, s.log, &req.DriverID)

	s.log.WithFields(logrus.Fields{
		"product_id": req.ProductID,
		"driver_id":  req.DriverID,
		"quantity":   *req.Quantity,
	}).Info("Inventory updated")

	return row, nil
}

func (s *inventoryService) set(ctx context.Context, req *SetInventoryRequest) (*model.Inventory, error) {
	if _, err := s.store.Products().GetByID(ctx, req.ProductID); err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, NewValidationError("product %d does not exist", req.ProductID)
		}
		return nil, errors.Wrap(err, "failed to get product")
	}
	if _, err := s.store.Users().GetByID(ctx, req.DriverID); err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, NewValidationError("driver %d does not exist", req.DriverID)
		}
		return nil, errors.Wrap(err, "failed to get driver")
	}

	row, err := s.store.Inventory().SetQuantity(ctx, req.ProductID, req.DriverID, *req.Quantity, s.now())
	if err != nil {
		return nil, errors.Wrap(err, "failed to set inventory")
	}
	return row, nil
}
