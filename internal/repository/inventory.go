package repository

import (
	"context"
	"time"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"example.com/backstage/services/routedelivery/internal/model"
)

// InventoryRepository defines the interface for inventory repository
type InventoryRepository interface {
	ListByDriver(ctx context.Context, driverID uint) ([]*model.Inventory, error)
	SetQuantity(ctx context.Context, productID, driverID uint, quantity int, at time.Time) (*model.Inventory, error)
	SumQuantity(ctx context.Context, driverID uint) (int64, error)
}

type inventoryRepository struct {
	db *gorm.DB
}

// NewInventoryRepository creates a new inventory repository
func NewInventoryRepository(db *gorm.DB) InventoryRepository {
	return &inventoryRepository{db: db}
}

// ListByDriver lists a driver's inventory with product metadata
func (r *inventoryRepository) ListByDriver(ctx context.Context, driverID uint) ([]*model.Inventory, error) {
	var rows []*model.Inventory
	err := r.db.WithContext(ctx).
		Preload("Product").
		Where("driver_id = ?", driverID).
		Order("product_id ASC").
		Find(&rows).Error
	if err != nil {
		return nil, err
	}
	return rows, nil
}

// SetQuantity overwrites the on-hand quantity, creating the row if needed
func (r *inventoryRepository) SetQuantity(ctx context.Context, productID, driverID uint, quantity int, at time.Time) (*model.Inventory, error) {
	row := &model.Inventory{
		ProductID:   productID,
		DriverID:    driverID,
		Quantity:    quantity,
		LastUpdated: at,
	}
	err := r.db.WithContext(ctx).
		Clauses(clause.OnConflict{
			Columns:   []clause.Column{{Name: "product_id"}, {Name: "driver_id"}},
			DoUpdates: clause.AssignmentColumns([]string{"quantity", "last_updated"}),
		}).
		Omit(clause.Associations).
		Create(row).Error
	if err != nil {
		return nil, translate(err)
	}

	var saved model.Inventory
	err = r.db.WithContext(ctx).
		Preload("Product").
		Where("product_id = ? AND driver_id = ?", productID, driverID).
		First(&saved).Error
	if err != nil {
		return nil, translate(err)
	}
	return &saved, nil
}

// SumQuantity sums every inventory quantity of a driver
func (r *inventoryRepository) SumQuantity(ctx context.Context, driverID uint) (int64, error) {
	var total int64
	row := r.db.WithContext(ctx).
		Model(&model.Inventory{}).
		Select("COALESCE(SUM(quantity), 0)").
		Where("driver_id = ?", driverID).
		Row()
	if err := row.Scan(&total); err != nil {
		return 0, err
	}
	return total, nil
}
