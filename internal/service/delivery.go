package service

import (
	"context"
	"time"

	"github.com/pkg/errors"
	"github.com/shopspring/decimal"
	"github.com/sirupsen/logrus"

	"example.com/backstage/services/routedelivery/internal/cache"
	"example.com/backstage/services/routedelivery/internal/metrics"
	"example.com/backstage/services/routedelivery/internal/model"
	"example.com/backstage/services/routedelivery/internal/repository"
)

// StartDeliveryRequest starts the delivery of an order
type StartDeliveryRequest struct {
	OrderID uint `json:"orderId" binding:"required"`
}

// DeliveredItem records the delivered quantity of one item
type DeliveredItem struct {
	ID                uint   `json:"id" binding:"required"`
	DeliveredQuantity *int   `json:"deliveredQuantity" binding:"required"`
	PartialReason     string `json:"partialReason" binding:"max=200"`
}

// CompleteDeliveryRequest completes the delivery of an order
type CompleteDeliveryRequest struct {
	OrderID         uint             `json:"orderId" binding:"required"`
	DeliveredAmount *decimal.Decimal `json:"deliveredAmount"`
	SignatureData   string           `json:"signatureData"`
	PhotoURL        string           `json:"photoUrl" binding:"max=500"`
	Items           []DeliveredItem  `json:"items" binding:"dive"`
}

// NotDeliveredRequest records a failed delivery
type NotDeliveredRequest struct {
	OrderID   uint             `json:"orderId" binding:"required"`
	Reason    string           `json:"reason" binding:"required,max=200"`
	Latitude  *decimal.Decimal `json:"latitude"`
	Longitude *decimal.Decimal `json:"longitude"`
}

// CaptureGPSRequest records the position of a delivery
type CaptureGPSRequest struct {
	OrderID   uint             `json:"orderId" binding:"required"`
	Latitude  *decimal.Decimal `json:"latitude" binding:"required"`
	Longitude *decimal.Decimal `json:"longitude" binding:"required"`
}

// DeliveryService drives orders through pending, in_progress and their terminal statuses
type DeliveryService interface {
	// Start moves a pending order to in_progress. Starting an order in progress is a no-op.
	Start(ctx context.Context, req *StartDeliveryRequest) (*model.Order, error)
	// Complete records a delivery and its item quantities in one transaction
	Complete(ctx context.Context, req *CompleteDeliveryRequest) (*model.Order, error)
	// MarkNotDelivered records that a pending or in-progress order could not be delivered
	MarkNotDelivered(ctx context.Context, req *NotDeliveredRequest) (*model.Order, error)
	// CaptureGPS overwrites the position of an order
	CaptureGPS(ctx context.Context, req *CaptureGPSRequest) (*model.Order, error)
}

type deliveryService struct {
	store     repository.Store
	cache     cache.CacheClient
	publisher Publisher
	log       *logrus.Logger
	now       func() time.Time
}

// NewDeliveryService creates a new delivery service
func NewDeliveryService(
	store repository.Store,
	cacheClient cache.CacheClient,
	publisher Publisher,
	log *logrus.Logger,
) DeliveryService {
	return &deliveryService{
		store:     store,
		cache:     cacheClient,
		publisher: publisher,
		log:       log,
		now:       time.Now,
	}
}

func (s *deliveryService) Start(ctx context.Context, req *StartDeliveryRequest) (*model.Order, error) {
	startTime := time.Now()
	changed := false
	var driverID *uint

	err := s.store.Transaction(ctx, func(tx repository.Store) error {
		order, err := tx.Orders().GetForUpdate(ctx, req.OrderID)
		if err != nil {
			return errors.Wrapf(err, "failed to get order %d", req.OrderID)
		}
		driverID = order.DriverID

		switch order.Status {
		case model.InProgressOrderStatus:
			return nil
		case model.PendingOrderStatus:
		default:
			return errors.Wrapf(ErrInvalidTransition, "cannot start order in status %s", order.Status)
		}

		order.Status = model.InProgressOrderStatus
		if _, err := tx.Orders().Update(ctx, order); err != nil {
			return errors.Wrapf(err, "failed to start order %d", order.ID)
		}
		changed = true
		return nil
	})
	metrics.GetMetricsCollector().RecordOperation(metrics.OperationTypeDeliveryStart, err == nil, time.Since(startTime))
	if err != nil {
		return nil, err
	}

	if changed {
		invalidateStatistics(ctx, s.cache, s.log, driverID)
		s.log.WithField("order_id", req.OrderID).Info("Delivery started")
	}

	return s.reload(ctx, req.OrderID)
}

func (s *deliveryService) Complete(ctx context.Context, req *CompleteDeliveryRequest) (*model.Order, error) {
	startTime := time.Now()
	for _, line := range req.Items {
		if line.DeliveredQuantity == nil {
			return nil, NewValidationError("deliveredQuantity is required for item %d", line.ID)
		}
	}
	if req.DeliveredAmount != nil && req.DeliveredAmount.IsNegative() {
		return nil, NewValidationError("deliveredAmount must not be negative")
	}

	var driverID *uint
	err := s.store.Transaction(ctx, func(tx repository.Store) error {
		order, err := tx.Orders().GetForUpdate(ctx, req.OrderID)
		if err != nil {
			return errors.Wrapf(err, "failed to get order %d", req.OrderID)
		}
		if order.Status != model.InProgressOrderStatus {
			return errors.Wrapf(ErrInvalidTransition, "cannot complete order in status %s", order.Status)
		}
		driverID = order.DriverID

		index := make(map[uint]int, len(order.Items))
		for i := range order.Items {
			index[order.Items[i].ID] = i
		}

		updated := make([]*model.OrderItem, 0, len(req.Items))
		for _, line := range req.Items {
			i, ok := index[line.ID]
			if !ok {
				return errors.Wrapf(ErrItemNotInOrder, "item %d, order %d", line.ID, order.ID)
			}
			item := &order.Items[i]
			if err := checkDeliveredQuantity(item, *line.DeliveredQuantity); err != nil {
				return err
			}
			item.DeliveredQuantity = *line.DeliveredQuantity
			item.PartialReason = line.PartialReason
			updated = append(updated, item)
		}

		deliveredAt := s.now()
		order.Status = model.DeliveredOrderStatus
		order.DeliveredAt = &deliveredAt
		order.SignatureData = req.SignatureData
		order.PhotoURL = req.PhotoURL
		if req.DeliveredAmount != nil {
			order.DeliveredAmount = *req.DeliveredAmount
		} else {
			amount := decimal.Zero
			for _, item := range order.Items {
				amount = amount.Add(item.DeliveredTotal())
			}
			order.DeliveredAmount = amount
		}

		if _, err := tx.Orders().Update(ctx, order); err != nil {
			return errors.Wrapf(err, "failed to complete order %d", order.ID)
		}
		for _, item := range updated {
			if err := tx.OrderItems().UpdateDelivery(ctx, item); err != nil {
				return errors.Wrapf(err, "failed to update order item %d", item.ID)
			}
		}
		return nil
	})
	metrics.GetMetricsCollector().RecordOperation(metrics.OperationTypeDeliveryComplete, err == nil, time.Since(startTime))
	if err != nil {
		return nil, err
	}

	invalidateStatistics(ctx, s.cache, s.log, driverID)

	order, err := s.reload(ctx, req.OrderID)
	if err != nil {
		return nil, err
	}
	s.publisher.DeliveryRecorded(ctx, order)

	s.log.WithFields(logrus.Fields{
		"order_id":         order.ID,
		"delivered_amount": order.DeliveredAmount.String(),
	}).Info("Delivery completed")

	return order, nil
}

func (s *deliveryService) MarkNotDelivered(ctx context.Context, req *NotDeliveredRequest) (*model.Order, error) {
	startTime := time.Now()
	if req.Reason == "" {
		return nil, NewValidationError("reason is required")
	}
	if err := validateCoordinates(req.Latitude, req.Longitude); err != nil {
		return nil, err
	}

	var driverID *uint
	err := s.store.Transaction(ctx, func(tx repository.Store) error {
		order, err := tx.Orders().GetForUpdate(ctx, req.OrderID)
		if err != nil {
			return errors.Wrapf(err, "failed to get order %d", req.OrderID)
		}
		if order.Status.IsTerminal() {
			return errors.Wrapf(ErrInvalidTransition, "cannot mark order in status %s as not delivered", order.Status)
		}
		driverID = order.DriverID

		order.Status = model.NotDeliveredOrderStatus
		order.NonDeliveryReason = req.Reason
		if req.Latitude != nil {
			order.GPSLatitude = req.Latitude
			order.GPSLongitude = req.Longitude
		}

		if _, err := tx.Orders().Update(ctx, order); err != nil {
			return errors.Wrapf(err, "failed to update order %d", order.ID)
		}
		return nil
	})
	metrics.GetMetricsCollector().RecordOperation(metrics.OperationTypeNotDelivered, err == nil, time.Since(startTime))
	if err != nil {
		return nil, err
	}

	invalidateStatistics(ctx, s.cache, s.log, driverID)

	order, err := s.reload(ctx, req.OrderID)
	if err != nil {
		return nil, err
	}
	s.publisher.DeliveryRecorded(ctx, order)

	s.log.WithFields(logrus.Fields{
		"order_id": order.ID,
		"reason":   order.NonDeliveryReason,
	}).Info("Order marked as not delivered")

	return order, nil
}

func (s *deliveryService) CaptureGPS(ctx context.Context, req *CaptureGPSRequest) (*model.Order, error) {
	startTime := time.Now()
	if req.Latitude == nil || req.Longitude == nil {
		return nil, NewValidationError("latitude and longitude are required")
	}
	if err := validateCoordinates(req.Latitude, req.Longitude); err != nil {
		return nil, err
	}

	err := s.store.Transaction(ctx, func(tx repository.Store) error {
		order, err := tx.Orders().GetForUpdate(ctx, req.OrderID)
		if err != nil {
			return errors.Wrapf(err, "failed to get order %d", req.OrderID)
		}

		order.GPSLatitude = req.Latitude
		order.GPSLongitude = req.Longitude
		if _, err := tx.Orders().Update(ctx, order); err != nil {
			return errors.Wrapf(err, "failed to update order %d", order.ID)
		}
		return nil
	})
	metrics.GetMetricsCollector().RecordOperation(metrics.OperationTypeCaptureGPS, err == nil, time.Since(startTime))
	if err != nil {
		return nil, err
	}

	return s.reload(ctx, req.OrderID)
}

func (s *deliveryService) reload(ctx context.Context, id uint) (*model.Order, error) {
	order, err := s.store.Orders().GetByID(ctx, id)
	if err != nil {
		return nil, errors.Wrapf(err, "failed to reload order %d", id)
	}
	return order, nil
}
