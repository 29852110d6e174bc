package repository

import (
	"context"

	"github.com/shopspring/decimal"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"example.com/backstage/services/routedelivery/internal/model"
)

// OrderItemRepository defines the interface for order item repository
type OrderItemRepository interface {
	GetByID(ctx context.Context, id uint) (*model.OrderItem, error)
	Create(ctx context.Context, item *model.OrderItem) (*model.OrderItem, error)
	UpdateDelivery(ctx context.Context, item *model.OrderItem) error
	SumTotals(ctx context.Context, orderID uint) (decimal.Decimal, error)
}

type orderItemRepository struct {
	db *gorm.DB
}

// NewOrderItemRepository creates a new order item repository
func NewOrderItemRepository(db *gorm.DB) OrderItemRepository {
	return &orderItemRepository{db: db}
}

func (r *orderItemRepository) GetByID(ctx context.Context, id uint) (*model.OrderItem, error) {
	var item model.OrderItem
	if err := r.db.WithContext(ctx).Preload("Product").First(&item, id).Error; err != nil {
		return nil, translate(err)
	}
	return &item, nil
}

func (r *orderItemRepository) Create(ctx context.Context, item *model.OrderItem) (*model.OrderItem, error) {
	if err := r.db.WithContext(ctx).Omit(clause.Associations).Create(item).Error; err != nil {
		return nil, translate(err)
	}
	return item, nil
}

// UpdateDelivery writes the delivered quantity and partial reason of an item.
// Zero quantities and empty reasons are written too.
func (r *orderItemRepository) UpdateDelivery(ctx context.Context, item *model.OrderItem) error {
	res := r.db.WithContext(ctx).
		Model(&model.OrderItem{}).
		Where("id = ?", item.ID).
		Updates(map[string]interface{}{
			"delivered_quantity": item.DeliveredQuantity,
			"partial_reason":     item.PartialReason,
		})
	if res.Error != nil {
		return translate(res.Error)
	}
	if res.RowsAffected == 0 {
		return ErrNotFound
	}
	return nil
}

// SumTotals sums the line totals of an order
func (r *orderItemRepository) SumTotals(ctx context.Context, orderID uint) (decimal.Decimal, error) {
	var sum decimal.Decimal
	row := r.db.WithContext(ctx).
		Model(&model.OrderItem{}).
		Select("COALESCE(SUM(total_amount), 0)").
		Where("order_id = ?", orderID).
		Row()
	if err := row.Scan(&sum); err != nil {
		return decimal.Zero, err
	}
	return sum, nil
}
