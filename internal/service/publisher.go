package service

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/pkg/errors"
	"github.com/shopspring/decimal"
	"github.com/sirupsen/logrus"

	"example.com/backstage/services/routedelivery/internal/messagebus"
	"example.com/backstage/services/routedelivery/internal/metrics"
	"example.com/backstage/services/routedelivery/internal/model"
	"example.com/backstage/services/routedelivery/internal/repository"
	"example.com/backstage/services/routedelivery/internal/search"
)

// Event types published to the WMS queue
const (
	EventDeliveryCompleted    = "delivery.completed"
	EventDeliveryNotDelivered = "delivery.not_delivered"
	EventDailyReportClosed    = "daily_report.closed"
)

// DeliveryEventItem is one item line of a delivery event
type DeliveryEventItem struct {
	OrderItemID       uint   `json:"orderItemId"`
	ProductID         uint   `json:"productId"`
	Quantity          int    `json:"quantity"`
	DeliveredQuantity int    `json:"deliveredQuantity"`
	PartialReason     string `json:"partialReason,omitempty"`
}

// DeliveryEvent reports the outcome of a delivery
type DeliveryEvent struct {
	ID              string              `json:"id"`
	Type            string              `json:"type"`
	OccurredAt      time.Time           `json:"occurredAt"`
	OrderID         uint                `json:"orderId"`
	OrderNumber     string              `json:"orderNumber"`
	WMSOrderCode    string              `json:"wmsOrderCode,omitempty"`
	DriverID        *uint               `json:"driverId,omitempty"`
	Status          model.OrderStatus   `json:"status"`
	DeliveredAmount decimal.Decimal     `json:"deliveredAmount"`
	Reason          string              `json:"reason,omitempty"`
	GPSLatitude     *decimal.Decimal    `json:"gpsLatitude,omitempty"`
	GPSLongitude    *decimal.Decimal    `json:"gpsLongitude,omitempty"`
	Items           []DeliveryEventItem `json:"items,omitempty"`
}

// DailyReportEvent carries a Z-closeout to the WMS
type DailyReportEvent struct {
	ID         string             `json:"id"`
	Type       string             `json:"type"`
	OccurredAt time.Time          `json:"occurredAt"`
	Report     *model.DailyReport `json:"report"`
}

// NewDeliveryEvent builds the event for an order in a terminal status
func NewDeliveryEvent(order *model.Order, at time.Time) *DeliveryEvent {
	eventType := EventDeliveryCompleted
	if order.Status == model.NotDeliveredOrderStatus {
		eventType = EventDeliveryNotDelivered
	}

	event := &DeliveryEvent{
		ID:              uuid.New().String(),
		Type:            eventType,
		OccurredAt:      at,
		OrderID:         order.ID,
		OrderNumber:     order.OrderNumber,
		WMSOrderCode:    order.WMSOrderCode,
		DriverID:        order.DriverID,
		Status:          order.Status,
		DeliveredAmount: order.DeliveredAmount,
		Reason:          order.NonDeliveryReason,
		GPSLatitude:     order.GPSLatitude,
		GPSLongitude:    order.GPSLongitude,
	}
	for _, item := range order.Items {
		event.Items = append(event.Items, DeliveryEventItem{
			OrderItemID:       item.ID,
			ProductID:         item.ProductID,
			Quantity:          item.Quantity,
			DeliveredQuantity: item.DeliveredQuantity,
			PartialReason:     item.PartialReason,
		})
	}
	return event
}

// Publisher forwards delivery outcomes and daily reports to the WMS and the search index
type Publisher interface {
	// DeliveryRecorded publishes a delivery outcome in the background
	DeliveryRecorded(ctx context.Context, order *model.Order)
	// ReportClosed publishes a daily report in the background
	ReportClosed(ctx context.Context, report *model.DailyReport)
	// PublishDailyReport publishes a daily report and stamps its publication time
	PublishDailyReport(ctx context.Context, report *model.DailyReport) error
}

// WMSPublisher implements Publisher over the message bus and Elasticsearch
type WMSPublisher struct {
	messageBus messagebus.Client
	search     search.Client
	reports    repository.DailyReportRepository
	queue      string
	maxRetries int
	log        *logrus.Logger
	now        func() time.Time
	wg         sync.WaitGroup
}

// NewWMSPublisher creates a new publisher
func NewWMSPublisher(
	messageBus messagebus.Client,
	searchClient search.Client,
	reports repository.DailyReportRepository,
	queue string,
	maxRetries int,
	log *logrus.Logger,
) *WMSPublisher {
	if maxRetries < 1 {
		maxRetries = 1
	}
	return &WMSPublisher{
		messageBus: messageBus,
		search:     searchClient,
		reports:    reports,
		queue:      queue,
		maxRetries: maxRetries,
		log:        log,
		now:        time.Now,
	}
}

// DeliveryRecorded publishes and indexes a delivery event without blocking the caller
func (p *WMSPublisher) DeliveryRecorded(ctx context.Context, order *model.Order) {
	event := NewDeliveryEvent(order, p.now())
	ctx = context.WithoutCancel(ctx)

	p.wg.Add(1)
	go func() {
		defer p.wg.Done()

		log := p.log.WithFields(logrus.Fields{
			"order_id":   event.OrderID,
			"event_type": event.Type,
			"event_id":   event.ID,
		})

		err := messagebus.RetryWithBackoff(ctx, func() error {
			return p.messageBus.PublishMessage(ctx, event, p.queue)
		}, p.maxRetries)
		if err != nil {
			log.WithError(err).Error("Failed to publish delivery event")
		}

		if err := p.search.IndexDocument(ctx, search.DeliveriesIndex, event.ID, event); err != nil {
			log.WithError(err).Warn("Failed to index delivery event")
		}
	}()
}

// ReportClosed publishes a daily report without blocking the caller.
// Reports that fail here are picked up by the worker.
func (p *WMSPublisher) ReportClosed(ctx context.Context, report *model.DailyReport) {
	ctx = context.WithoutCancel(ctx)

	p.wg.Add(1)
	go func() {
		defer p.wg.Done()
		if err := p.PublishDailyReport(ctx, report); err != nil {
			p.log.WithError(err).WithField("report_id", report.ID).Error("Failed to publish daily report")
		}
	}()
}

// PublishDailyReport publishes a daily report and marks it published
func (p *WMSPublisher) PublishDailyReport(ctx context.Context, report *model.DailyReport) error {
	startTime := time.Now()
	collector := metrics.GetMetricsCollector()

	event := &DailyReportEvent{
		ID:         fmt.Sprintf("daily-report-%d", report.ID),
		Type:       EventDailyReportClosed,
		OccurredAt: p.now(),
		Report:     report,
	}

	err := messagebus.RetryWithBackoff(ctx, func() error {
		return p.messageBus.PublishMessage(ctx, event, p.queue)
	}, p.maxRetries)
	if err != nil {
		collector.RecordOperation(metrics.OperationTypeReportPublish, false, time.Since(startTime))
		return errors.Wrap(err, "failed to publish daily report")
	}

	publishedAt := p.now()
	if err := p.reports.MarkPublished(ctx, report.ID, publishedAt); err != nil {
		collector.RecordOperation(metrics.OperationTypeReportPublish, false, time.Since(startTime))
		return errors.Wrap(err, "failed to mark daily report as published")
	}
	report.PublishedAt = &publishedAt

	if err := p.search.IndexDocument(ctx, search.DailyReportsIndex, fmt.Sprintf("%d", report.ID), report); err != nil {
		p.log.WithError(err).WithField("report_id", report.ID).Warn("Failed to index daily report")
	}

	collector.RecordOperation(metrics.OperationTypeReportPublish, true, time.Since(startTime))
	return nil
}

// Wait blocks until background publications finish
func (p *WMSPublisher) Wait() {
	p.wg.Wait()
}
