package repository

import (
	"context"
	"time"

	"github.com/shopspring/decimal"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"example.com/backstage/services/routedelivery/internal/model"
)

// OrderFilter narrows an order listing
type OrderFilter struct {
	DriverID *uint
	Status   model.OrderStatus
}

// StatusCounts holds order counts keyed by status
type StatusCounts map[model.OrderStatus]int64

// OrderRepository defines the interface for order repository
type OrderRepository interface {
	List(ctx context.Context, filter OrderFilter) ([]*model.Order, error)
	GetByID(ctx context.Context, id uint) (*model.Order, error)
	GetForUpdate(ctx context.Context, id uint) (*model.Order, error)
	Create(ctx context.Context, order *model.Order) (*model.Order, error)
	Update(ctx context.Context, order *model.Order) (*model.Order, error)
	CountByStatus(ctx context.Context, driverID uint, from, to time.Time) (StatusCounts, error)
	SumDeliveredAmount(ctx context.Context, driverID uint, from, to time.Time) (decimal.Decimal, error)
}

// orderRepository implements OrderRepository
type orderRepository struct {
	db *gorm.DB
}

// NewOrderRepository creates a new order repository
func NewOrderRepository(db *gorm.DB) OrderRepository {
	return &orderRepository{db: db}
}

// withDetails eager-loads the customer and the items with their products
func withDetails(tx *gorm.DB) *gorm.DB {
	return tx.
		Preload("Customer").
		Preload("Items", func(db *gorm.DB) *gorm.DB { return db.Order("order_items.id ASC") }).
		Preload("Items.Product")
}

// List lists orders with their customer and items, newest first
func (r *orderRepository) List(ctx context.Context, filter OrderFilter) ([]*model.Order, error) {
	query := withDetails(r.db.WithContext(ctx))
	if filter.DriverID != nil {
		query = query.Where("driver_id = ?", *filter.DriverID)
	}
	if filter.Status != "" {
		query = query.Where("status = ?", filter.Status)
	}

	var orders []*model.Order
	if err := query.Order("created_at DESC").Order("id DESC").Find(&orders).Error; err != nil {
		return nil, err
	}
	return orders, nil
}

// GetByID gets an order with its customer and items
func (r *orderRepository) GetByID(ctx context.Context, id uint) (*model.Order, error) {
	var order model.Order
	if err := withDetails(r.db.WithContext(ctx)).First(&order, id).Error; err != nil {
		return nil, translate(err)
	}
	return &order, nil
}

// GetForUpdate gets an order and locks its row until the surrounding transaction ends
func (r *orderRepository) GetForUpdate(ctx context.Context, id uint) (*model.Order, error) {
	var order model.Order
	err := r.db.WithContext(ctx).
		Clauses(clause.Locking{Strength: "UPDATE"}).
		Preload("Items", func(db *gorm.DB) *gorm.DB { return db.Order("order_items.id ASC") }).
		First(&order, id).Error
	if err != nil {
		return nil, translate(err)
	}
	return &order, nil
}

// Create creates an order together with its items
func (r *orderRepository) Create(ctx context.Context, order *model.Order) (*model.Order, error) {
	if err := r.db.WithContext(ctx).Create(order).Error; err != nil {
		return nil, translate(err)
	}
	return order, nil
}

// Update saves every column of the order row, leaving associations untouched
func (r *orderRepository) Update(ctx context.Context, order *model.Order) (*model.Order, error) {
	if err := r.db.WithContext(ctx).Omit(clause.Associations).Save(order).Error; err != nil {
		return nil, translate(err)
	}
	return order, nil
}

// CountByStatus counts a driver's orders scheduled in [from, to) by status
func (r *orderRepository) CountByStatus(ctx context.Context, driverID uint, from, to time.Time) (StatusCounts, error) {
	var rows []struct {
		Status model.OrderStatus
		Count  int64
	}
	err := r.db.WithContext(ctx).
		Model(&model.Order{}).
		Select("status, COUNT(*) AS count").
		Where("driver_id = ? AND scheduled_date >= ? AND scheduled_date < ?", driverID, from, to).
		Group("status").
		Scan(&rows).Error
	if err != nil {
		return nil, err
	}

	counts := StatusCounts{}
	for _, row := range rows {
		counts[row.Status] = row.Count
	}
	return counts, nil
}

// SumDeliveredAmount sums the delivered amount of a driver's delivered orders scheduled in [from, to)
func (r *orderRepository) SumDeliveredAmount(ctx context.Context, driverID uint, from, to time.Time) (decimal.Decimal, error) {
	var sum decimal.Decimal
	row := r.db.WithContext(ctx).
		Model(&model.Order{}).
		Select("COALESCE(SUM(delivered_amount), 0)").
		Where("driver_id = ? AND status = ? AND scheduled_date >= ? AND scheduled_date < ?",
			driverID, model.DeliveredOrderStatus, from, to).
		Row()
	if err := row.Scan(&sum); err != nil {
		return decimal.Zero, err
	}
	return sum, nil
}
