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

const republishBatchSize = 100

// StartSessionRequest opens a working day on a route
type StartSessionRequest struct {
	RouteID       uint             `json:"routeId" binding:"required"`
	DriverID      uint             `json:"driverId" binding:"required"`
	AssistantName string           `json:"assistantName" binding:"max=100"`
	StartMileage  *decimal.Decimal `json:"startMileage" binding:"required"`
}

// ReturnItemRequest is one line of returned inventory
type ReturnItemRequest struct {
	ProductID uint                `json:"productId" binding:"required"`
	Quantity  int                 `json:"quantity" binding:"min=0"`
	Reason    string              `json:"reason"`
	WMSCode   string              `json:"wmsCode"`
	Channel   model.ReturnChannel `json:"channel" binding:"omitempty,return_channel"`
}

// EndSessionRequest closes a working day. The session is taken from SessionID,
// or from the active session of DriverID when SessionID is not set.
type EndSessionRequest struct {
	SessionID         uint                `json:"sessionId"`
	DriverID          uint                `json:"driverId"`
	EndMileage        *decimal.Decimal    `json:"endMileage" binding:"required"`
	Observations      string              `json:"observations"`
	InventoryReturned []ReturnItemRequest `json:"inventoryReturned" binding:"dive"`
	ReturnItems       []ReturnItemRequest `json:"returnItems" binding:"dive"`
}

// EndSessionResult is the closed session together with its report
type EndSessionResult struct {
	Session *model.RouteSession `json:"session"`
	Report  *model.DailyReport  `json:"report"`
}

// RouteSessionService manages working days and the Z-closeout
type RouteSessionService interface {
	List(ctx context.Context, driverID uint) ([]*model.RouteSession, error)
	Start(ctx context.Context, req *StartSessionRequest) (*model.RouteSession, error)
	End(ctx context.Context, req *EndSessionRequest) (*EndSessionResult, error)
	ListReports(ctx context.Context, driverID uint, date *time.Time) ([]*model.DailyReport, error)
	// RepublishPending publishes the reports created after since that have not reached the WMS
	RepublishPending(ctx context.Context, since time.Time) (int, error)
}

type routeSessionService struct {
	store     repository.Store
	cache     cache.CacheClient
	publisher Publisher
	loc       *time.Location
	log       *logrus.Logger
	now       func() time.Time
}

// NewRouteSessionService creates a new route session service
func NewRouteSessionService(
	store repository.Store,
	cacheClient cache.CacheClient,
	publisher Publisher,
	loc *time.Location,
	log *logrus.Logger,
) RouteSessionService {
	return &routeSessionService{
		store:     store,
		cache:     cacheClient,
		publisher: publisher,
		loc:       loc,
		log:       log,
		now:       time.Now,
	}
}

func (s *routeSessionService) List(ctx context.Context, driverID uint) ([]*model.RouteSession, error) {
	if driverID == 0 {
		return nil, NewValidationError("driverId is required")
	}
	sessions, err := s.store.RouteSessions().ListByDriver(ctx, driverID)
	if err != nil {
		return nil, errors.Wrapf(err, "failed to list sessions of driver %d", driverID)
	}
	return sessions, nil
}

func (s *routeSessionService) Start(ctx context.Context, req *StartSessionRequest) (*model.RouteSession, error) {
	startTime := time.Now()
	session, err := s.start(ctx, req)
	metrics.GetMetricsCollector().RecordOperation(metrics.OperationTypeSessionStart, err == nil, time.Since(startTime))
	if err != nil {
		return nil, err
	}

	metrics.GetMetricsCollector().SessionStarted()
	s.log.WithFields(logrus.Fields{
		"session_id": session.ID,
		"route_id":   session.RouteID,
		"driver_id":  session.DriverID,
	}).Info("Route session started")

	return session, nil
}

func (s *routeSessionService) start(ctx context.Context, req *StartSessionRequest) (*model.RouteSession, error) {
	if req.StartMileage == nil {
		return nil, NewValidationError("startMileage is required")
	}
	if req.StartMileage.IsNegative() {
		return nil, NewValidationError("startMileage must not be negative")
	}

	if _, err := s.store.Routes().GetByID(ctx, req.RouteID); err != nil {
		return nil, errors.Wrapf(err, "failed to get route %d", req.RouteID)
	}

	_, err := s.store.RouteSessions().GetActiveByDriver(ctx, req.DriverID)
	switch {
	case err == nil:
		return nil, ErrSessionAlreadyActive
	case !errors.Is(err, repository.ErrNotFound):
		return nil, errors.Wrap(err, "failed to get active session")
	}

	session := &model.RouteSession{
		RouteID:       req.RouteID,
		DriverID:      req.DriverID,
		AssistantName: req.AssistantName,
		StartMileage:  *req.StartMileage,
		StartedAt:     s.now(),
		Status:        model.ActiveRouteStatus,
	}
	session, err = s.store.RouteSessions().Create(ctx, session)
	if err != nil {
		if errors.Is(err, repository.ErrDuplicateKey) {
			return nil, ErrSessionAlreadyActive
		}
		return nil, errors.Wrap(err, "failed to create session")
	}
	return session, nil
}

func (s *routeSessionService) End(ctx context.Context, req *EndSessionRequest) (*EndSessionResult, error) {
	startTime := time.Now()
	result, err := s.end(ctx, req)
	metrics.GetMetricsCollector().RecordOperation(metrics.OperationTypeSessionEnd, err == nil, time.Since(startTime))
	if err != nil {
		return nil, err
	}

	metrics.GetMetricsCollector().SessionEnded()
	invalidateStatistics(ctx, s.cache, s.log, &result.Session.DriverID)
	s.publisher.ReportClosed(ctx, result.Report)

	s.log.WithFields(logrus.Fields{
		"session_id":      result.Session.ID,
		"report_id":       result.Report.ID,
		"total_delivered": result.Report.TotalDelivered,
		"total_collected": result.Report.TotalCollected.String(),
	}).Info("Route session ended")

	return result, nil
}

func (s *routeSessionService) end(ctx context.Context, req *EndSessionRequest) (*EndSessionResult, error) {
	if req.SessionID == 0 && req.DriverID == 0 {
		return nil, NewValidationError("sessionId or driverId is required")
	}
	if req.EndMileage == nil {
		return nil, NewValidationError("endMileage is required")
	}

	lines := make([]ReturnItemRequest, 0, len(req.InventoryReturned)+len(req.ReturnItems))
	lines = append(lines, req.InventoryReturned...)
	lines = append(lines, req.ReturnItems...)
	returned, err := returnedItems(lines)
	if err != nil {
		return nil, err
	}

	result := &EndSessionResult{}
	err = s.store.Transaction(ctx, func(tx repository.Store) error {
		session, err := lockActiveSession(ctx, tx, req.SessionID, req.DriverID)
		if err != nil {
			return err
		}
		if req.EndMileage.LessThan(session.StartMileage) {
			return NewValidationError("endMileage %s is below startMileage %s",
				req.EndMileage.String(), session.StartMileage.String())
		}

		for _, item := range returned {
			if _, err := tx.Products().GetByID(ctx, item.ProductID); err != nil {
				if errors.Is(err, repository.ErrNotFound) {
					return NewValidationError("returned product %d does not exist", item.ProductID)
				}
				return errors.Wrap(err, "failed to get returned product")
			}
		}

		completedAt := s.now()
		endMileage := *req.EndMileage
		session.Status = model.CompletedRouteStatus
		session.EndMileage = &endMileage
		session.CompletedAt = &completedAt
		if _, err := tx.RouteSessions().Update(ctx, session); err != nil {
			return errors.Wrapf(err, "failed to close session %d", session.ID)
		}

		from, to := DayWindow(session.StartedAt, s.loc)
		counts, err := tx.Orders().CountByStatus(ctx, session.DriverID, from, to)
		if err != nil {
			return errors.Wrap(err, "failed to count orders")
		}
		collected, err := tx.Orders().SumDeliveredAmount(ctx, session.DriverID, from, to)
		if err != nil {
			return errors.Wrap(err, "failed to sum collected amount")
		}

		report := &model.DailyReport{
			SessionID:         session.ID,
			DriverID:          session.DriverID,
			Date:              from,
			Observations:      req.Observations,
			TotalDelivered:    int(counts[model.DeliveredOrderStatus]),
			TotalNotDelivered: int(counts[model.NotDeliveredOrderStatus]),
			TotalCollected:    collected,
			InventoryReturned: returned,
		}
		if _, err := tx.DailyReports().Create(ctx, report); err != nil {
			return errors.Wrapf(err, "failed to create report for session %d", session.ID)
		}

		result.Session = session
		result.Report = report
		return nil
	})
	if err != nil {
		return nil, err
	}
	return result, nil
}

// lockActiveSession locks the session being closed and checks that it is still active
func lockActiveSession(ctx context.Context, tx repository.Store, sessionID, driverID uint) (*model.RouteSession, error) {
	if sessionID == 0 {
		active, err := tx.RouteSessions().GetActiveByDriver(ctx, driverID)
		if err != nil {
			if errors.Is(err, repository.ErrNotFound) {
				return nil, errors.Wrapf(ErrSessionNotActive, "driver %d has no active session", driverID)
			}
			return nil, errors.Wrap(err, "failed to get active session")
		}
		sessionID = active.ID
	}

	session, err := tx.RouteSessions().GetForUpdate(ctx, sessionID)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, errors.Wrapf(ErrSessionNotActive, "session %d does not exist", sessionID)
		}
		return nil, errors.Wrapf(err, "failed to get session %d", sessionID)
	}
	if session.Status != model.ActiveRouteStatus {
		return nil, errors.Wrapf(ErrSessionNotActive, "session %d is %s", session.ID, session.Status)
	}
	if driverID != 0 && session.DriverID != driverID {
		return nil, NewValidationError("session %d does not belong to driver %d", session.ID, driverID)
	}
	return session, nil
}

// returnedItems validates returned inventory lines and fills their channel
func returnedItems(lines []ReturnItemRequest) ([]model.ReturnedItem, error) {
	items := make([]model.ReturnedItem, 0, len(lines))
	for _, line := range lines {
		if line.ProductID == 0 {
			return nil, NewValidationError("returned item without productId")
		}
		if line.Quantity < 0 {
			return nil, NewValidationError("returned quantity of product %d must not be negative", line.ProductID)
		}

		channel := line.Channel
		switch channel {
		case "":
			channel = model.WarehouseReturnChannel
			if line.WMSCode != "" {
				channel = model.WMSReturnChannel
			}
		case model.WarehouseReturnChannel, model.WMSReturnChannel:
		default:
			return nil, NewValidationError("unknown return channel %q", channel)
		}

		items = append(items, model.ReturnedItem{
			ProductID: line.ProductID,
			Quantity:  line.Quantity,
			Reason:    line.Reason,
			WMSCode:   line.WMSCode,
			Channel:   channel,
		})
	}
	return items, nil
}

func (s *routeSessionService) ListReports(ctx context.Context, driverID uint, date *time.Time) ([]*model.DailyReport, error) {
	if driverID == 0 {
		return nil, NewValidationError("driverId is required")
	}

	var from, to *time.Time
	if date != nil {
		start, end := DayWindow(*date, s.loc)
		from, to = &start, &end
	}

	reports, err := s.store.DailyReports().ListByDriver(ctx, driverID, from, to)
	if err != nil {
		return nil, errors.Wrapf(err, "failed to list reports of driver %d", driverID)
	}
	return reports, nil
}

func (s *routeSessionService) RepublishPending(ctx context.Context, since time.Time) (int, error) {
	var (
		afterID   uint
		pending   int
		published int
	)
	for {
		reports, err := s.store.DailyReports().ListUnpublished(ctx, since, afterID, republishBatchSize)
		if err != nil {
			return published, errors.Wrap(err, "failed to list unpublished reports")
		}

		for _, report := range reports {
			if err := ctx.Err(); err != nil {
				return published, err
			}
			afterID = report.ID
			pending++
			if err := s.publisher.PublishDailyReport(ctx, report); err != nil {
				s.log.WithError(err).WithField("report_id", report.ID).Warn("Failed to republish daily report")
				continue
			}
			published++
		}

		if len(reports) < republishBatchSize {
			break
		}
	}

	if pending > 0 {
		s.log.WithFields(logrus.Fields{
			"pending":   pending,
			"published": published,
		}).Info("Republished daily reports")
	}
	return published, nil
}
