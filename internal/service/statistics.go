package service

import (
	"context"
	"time"

	"github.com/go-redis/redis/v8"
	"github.com/pkg/errors"
	"github.com/sirupsen/logrus"

	"example.com/backstage/services/routedelivery/internal/cache"
	"example.com/backstage/services/routedelivery/internal/model"
	"example.com/backstage/services/routedelivery/internal/repository"
)

// OrderStatistics counts a driver's orders of one day by status
type OrderStatistics struct {
	Date           string `json:"date"`
	Pending        int64  `json:"pending"`
	InProgress     int64  `json:"inProgress"`
	Delivered      int64  `json:"delivered"`
	NotDelivered   int64  `json:"notDelivered"`
	Total          int64  `json:"total"`
	TotalInventory int64  `json:"totalInventory"`
}

// StatisticsService computes dashboard statistics
type StatisticsService interface {
	// GetOrderStatistics returns the statistics of the day containing date.
	// TotalInventory is the current inventory of the driver, whatever the day.
	GetOrderStatistics(ctx context.Context, driverID uint, date time.Time) (*OrderStatistics, error)
}

type statisticsService struct {
	store repository.Store
	cache cache.CacheClient
	loc   *time.Location
	log   *logrus.Logger
}

// NewStatisticsService creates a new statistics service
func NewStatisticsService(store repository.Store, cacheClient cache.CacheClient, loc *time.Location, log *logrus.Logger) StatisticsService {
	return &statisticsService{
		store: store,
		cache: cacheClient,
		loc:   loc,
		log:   log,
	}
}

func (s *statisticsService) GetOrderStatistics(ctx context.Context, driverID uint, date time.Time) (*OrderStatistics, error) {
	if driverID == 0 {
		return nil, NewValidationError("driverId is required")
	}

	day := DayKey(date, s.loc)

	var cached OrderStatistics
	err := s.cache.GetStatistics(ctx, driverID, day, &cached)
	switch {
	case err == nil:
		return &cached, nil
	case !errors.Is(err, redis.Nil):
		s.log.WithError(err).WithField("driver_id", driverID).Warn("Failed to read cached statistics")
	}

	// An invalidation after this read leaves the result uncached
	version, versionErr := s.cache.StatisticsVersion(ctx, driverID)
	if versionErr != nil {
		s.log.WithError(versionErr).WithField("driver_id", driverID).Warn("Failed to read statistics version")
	}

	from, to := DayWindow(date, s.loc)
	counts, err := s.store.Orders().CountByStatus(ctx, driverID, from, to)
	if err != nil {
		return nil, errors.Wrap(err, "failed to count orders")
	}
	inventory, err := s.store.Inventory().SumQuantity(ctx, driverID)
	if err != nil {
		return nil, errors.Wrap(err, "failed to sum inventory")
	}

	stats := &OrderStatistics{
		Date:           day,
		Pending:        counts[model.PendingOrderStatus],
		InProgress:     counts[model.InProgressOrderStatus],
		Delivered:      counts[model.DeliveredOrderStatus],
		NotDelivered:   counts[model.NotDeliveredOrderStatus],
		TotalInventory: inventory,
	}
	stats.Total = stats.Pending + stats.InProgress + stats.Delivered + stats.NotDelivered

	if versionErr == nil {
		if err := s.cache.SetStatistics(ctx, driverID, version, day, stats); err != nil {
			s.log.WithError(err).WithField("driver_id", driverID).Warn("Failed to cache statistics")
		}
	}
	return stats, nil
}
