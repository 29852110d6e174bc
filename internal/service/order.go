package service

import (
	"context"
	"strings"
	"time"

	"github.com/pkg/errors"
	"github.com/shopspring/decimal"
	"github.com/sirupsen/logrus"

	"example.com/backstage/services/routedelivery/internal/cache"
	"example.com/backstage/services/routedelivery/internal/model"
	"example.com/backstage/services/routedelivery/internal/repository"
)

// CreateOrderItemLine is an item created together with its order
type CreateOrderItemLine struct {
	ProductID   uint             `json:"productId" binding:"required"`
	Quantity    int              `json:"quantity" binding:"required,min=1"`
	Price       *decimal.Decimal `json:"price"`
	TotalAmount *decimal.Decimal `json:"totalAmount"`
}

// CreateOrderRequest holds the fields of a new order
type CreateOrderRequest struct {
	OrderNumber   string                `json:"orderNumber" binding:"required,max=50"`
	WMSOrderCode  string                `json:"wmsOrderCode" binding:"max=50"`
	CustomerID    uint                  `json:"customerId" binding:"required"`
	DriverID      *uint                 `json:"driverId"`
	ScheduledDate time.Time             `json:"scheduledDate" binding:"required"`
	TotalAmount   *decimal.Decimal      `json:"totalAmount"`
	Notes         string                `json:"notes"`
	Items         []CreateOrderItemLine `json:"items" binding:"dive"`
}

// UpdateOrderRequest is a partial order update.
// Status is accepted only to be rejected.
type UpdateOrderRequest struct {
	Notes         *string    `json:"notes"`
	ScheduledDate *time.Time `json:"scheduledDate"`
	DriverID      *uint      `json:"driverId"`
	WMSOrderCode  *string    `json:"wmsOrderCode" binding:"omitempty,max=50"`
	Status        *string    `json:"status"`
}

// CreateOrderItemRequest adds an item to an existing order
type CreateOrderItemRequest struct {
	OrderID           uint             `json:"orderId" binding:"required"`
	ProductID         uint             `json:"productId" binding:"required"`
	Quantity          int              `json:"quantity" binding:"required,min=1"`
	Price             *decimal.Decimal `json:"price"`
	DeliveredQuantity *int             `json:"deliveredQuantity" binding:"omitempty,min=0"`
	TotalAmount       *decimal.Decimal `json:"totalAmount"`
	PartialReason     string           `json:"partialReason" binding:"max=200"`
}

// UpdateOrderItemRequest is a partial item update
type UpdateOrderItemRequest struct {
	DeliveredQuantity *int    `json:"deliveredQuantity" binding:"omitempty,min=0"`
	PartialReason     *string `json:"partialReason" binding:"omitempty,max=200"`
}

// OrderService manages orders and their items
type OrderService interface {
	List(ctx context.Context, filter repository.OrderFilter) ([]*model.Order, error)
	GetByID(ctx context.Context, id uint) (*model.Order, error)
	Create(ctx context.Context, req *CreateOrderRequest) (*model.Order, error)
	Update(ctx context.Context, id uint, req *UpdateOrderRequest) (*model.Order, error)

	CreateItem(ctx context.Context, req *CreateOrderItemRequest) (*model.OrderItem, error)
	UpdateItem(ctx context.Context, id uint, req *UpdateOrderItemRequest) (*model.OrderItem, error)
}

type orderService struct {
	store repository.Store
	cache cache.CacheClient
	log   *logrus.Logger
}

// NewOrderService creates a new order service
func NewOrderService(store repository.Store, cacheClient cache.CacheClient, log *logrus.Logger) OrderService {
	return &orderService{
		store: store,
		cache: cacheClient,
		log:   log,
	}
}

func (s *orderService) List(ctx context.Context, filter repository.OrderFilter) ([]*model.Order, error) {
	if filter.Status != "" {
		if _, ok := model.OrderStatusFromString(string(filter.Status)); !ok {
			return nil, NewValidationError("unknown order status %q", filter.Status)
		}
	}

	orders, err := s.store.Orders().List(ctx, filter)
	if err != nil {
		return nil, errors.Wrap(err, "failed to list orders")
	}
	return orders, nil
}

func (s *orderService) GetByID(ctx context.Context, id uint) (*model.Order, error) {
	order, err := s.store.Orders().GetByID(ctx, id)
	if err != nil {
		return nil, errors.Wrapf(err, "failed to get order %d", id)
	}
	return order, nil
}

func (s *orderService) Create(ctx context.Context, req *CreateOrderRequest) (*model.Order, error) {
	if strings.TrimSpace(req.OrderNumber) == "" {
		return nil, NewValidationError("orderNumber is required")
	}
	if req.ScheduledDate.IsZero() {
		return nil, NewValidationError("scheduledDate is required")
	}

	order := &model.Order{
		OrderNumber:     req.OrderNumber,
		WMSOrderCode:    req.WMSOrderCode,
		CustomerID:      req.CustomerID,
		DriverID:        req.DriverID,
		Status:          model.PendingOrderStatus,
		DeliveredAmount: decimal.Zero,
		ScheduledDate:   req.ScheduledDate,
		Notes:           req.Notes,
	}

	err := s.store.Transaction(ctx, func(tx repository.Store) error {
		if _, err := tx.Customers().GetByID(ctx, req.CustomerID); err != nil {
			if errors.Is(err, repository.ErrNotFound) {
				return NewValidationError("customer %d does not exist", req.CustomerID)
			}
			return errors.Wrap(err, "failed to get customer")
		}

		total := decimal.Zero
		for _, line := range req.Items {
			item, err := newOrderItem(ctx, tx, line.ProductID, line.Quantity, line.Price, nil, line.TotalAmount, "")
			if err != nil {
				return err
			}
			total = total.Add(item.TotalAmount)
			order.Items = append(order.Items, *item)
		}

		order.TotalAmount = total
		if req.TotalAmount != nil {
			order.TotalAmount = *req.TotalAmount
		}

		if _, err := tx.Orders().Create(ctx, order); err != nil {
			return errors.Wrapf(err, "failed to create order %s", req.OrderNumber)
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	invalidateStatistics(ctx, s.cache, s.log, order.DriverID)

	s.log.WithFields(logrus.Fields{
		"order_id":     order.ID,
		"order_number": order.OrderNumber,
	}).Info("Order created")

	return s.GetByID(ctx, order.ID)
}

func (s *orderService) Update(ctx context.Context, id uint, req *UpdateOrderRequest) (*model.Order, error) {
	if req.Status != nil {
		return nil, NewValidationError("status can only change through delivery operations")
	}

	var previousDriver *uint
	var order *model.Order
	err := s.store.Transaction(ctx, func(tx repository.Store) error {
		var err error
		order, err = tx.Orders().GetForUpdate(ctx, id)
		if err != nil {
			return errors.Wrapf(err, "failed to get order %d", id)
		}
		previousDriver = order.DriverID

		if req.Notes != nil {
			order.Notes = *req.Notes
		}
		if req.ScheduledDate != nil {
			order.ScheduledDate = *req.ScheduledDate
		}
		if req.DriverID != nil {
			order.DriverID = req.DriverID
		}
		if req.WMSOrderCode != nil {
			order.WMSOrderCode = *req.WMSOrderCode
		}

		if _, err := tx.Orders().Update(ctx, order); err != nil {
			return errors.Wrapf(err, "failed to update order %d", id)
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	invalidateStatistics(ctx, s.cache, s.log, previousDriver)
	invalidateStatistics(ctx, s.cache, s.log, order.DriverID)

	return s.GetByID(ctx, id)
}

func (s *orderService) CreateItem(ctx context.Context, req *CreateOrderItemRequest) (*model.OrderItem, error) {
	var item *model.OrderItem
	err := s.store.Transaction(ctx, func(tx repository.Store) error {
		order, err := tx.Orders().GetForUpdate(ctx, req.OrderID)
		if err != nil {
			return errors.Wrapf(err, "failed to get order %d", req.OrderID)
		}

		item, err = newOrderItem(ctx, tx, req.ProductID, req.Quantity, req.Price, req.DeliveredQuantity, req.TotalAmount, req.PartialReason)
		if err != nil {
			return err
		}
		item.OrderID = order.ID

		if _, err := tx.OrderItems().Create(ctx, item); err != nil {
			return errors.Wrap(err, "failed to create order item")
		}

		total, err := tx.OrderItems().SumTotals(ctx, order.ID)
		if err != nil {
			return errors.Wrap(err, "failed to sum order items")
		}
		order.TotalAmount = total
		if _, err := tx.Orders().Update(ctx, order); err != nil {
			return errors.Wrap(err, "failed to update order total")
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	return s.store.OrderItems().GetByID(ctx, item.ID)
}

func (s *orderService) UpdateItem(ctx context.Context, id uint, req *UpdateOrderItemRequest) (*model.OrderItem, error) {
	var (
		item     *model.OrderItem
		driverID *uint
	)
	err := s.store.Transaction(ctx, func(tx repository.Store) error {
		var err error
		item, err = tx.OrderItems().GetByID(ctx, id)
		if err != nil {
			return errors.Wrapf(err, "failed to get order item %d", id)
		}

		order, err := tx.Orders().GetForUpdate(ctx, item.OrderID)
		if err != nil {
			return errors.Wrapf(err, "failed to get order %d", item.OrderID)
		}
		if order.Status.IsTerminal() {
			return errors.Wrapf(ErrInvalidTransition, "cannot change items of order %d in status %s", order.ID, order.Status)
		}
		driverID = order.DriverID

		if req.DeliveredQuantity != nil {
			if err := checkDeliveredQuantity(item, *req.DeliveredQuantity); err != nil {
				return err
			}
			item.DeliveredQuantity = *req.DeliveredQuantity
		}
		if req.PartialReason != nil {
			item.PartialReason = *req.PartialReason
		}

		if err := tx.OrderItems().UpdateDelivery(ctx, item); err != nil {
			return errors.Wrapf(err, "failed to update order item %d", id)
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	invalidateStatistics(ctx, s.cache, s.log, driverID)
	return item, nil
}

// newOrderItem builds an item, filling price from the product and the defaults
// for delivered quantity and line total
func newOrderItem(
	ctx context.Context,
	tx repository.Store,
	productID uint,
	quantity int,
	price *decimal.Decimal,
	deliveredQuantity *int,
	totalAmount *decimal.Decimal,
	partialReason string,
) (*model.OrderItem, error) {
	if quantity < 1 {
		return nil, NewValidationError("quantity must be at least 1")
	}

	product, err := tx.Products().GetByID(ctx, productID)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, NewValidationError("product %d does not exist", productID)
		}
		return nil, errors.Wrap(err, "failed to get product")
	}

	item := &model.OrderItem{
		ProductID:         product.ID,
		Quantity:          quantity,
		DeliveredQuantity: quantity,
		Price:             product.Price,
		PartialReason:     partialReason,
	}
	if price != nil {
		item.Price = *price
	}
	if deliveredQuantity != nil {
		if err := checkDeliveredQuantity(item, *deliveredQuantity); err != nil {
			return nil, err
		}
		item.DeliveredQuantity = *deliveredQuantity
	}
	item.TotalAmount = item.LineTotal()
	if totalAmount != nil {
		item.TotalAmount = *totalAmount
	}
	return item, nil
}

func checkDeliveredQuantity(item *model.OrderItem, delivered int) error {
	if delivered < 0 || delivered > item.Quantity {
		return NewValidationError("deliveredQuantity %d of item %d must be between 0 and %d",
			delivered, item.ID, item.Quantity)
	}
	return nil
}

// invalidateStatistics drops the cached statistics of a driver, logging failures
func invalidateStatistics(ctx context.Context, c cache.CacheClient, log *logrus.Logger, driverID *uint) {
	if driverID == nil {
		return
	}
	if err := c.InvalidateStatistics(ctx, *driverID); err != nil {
		log.WithError(err).WithField("driver_id", *driverID).Warn("Failed to invalidate cached statistics")
	}
}
