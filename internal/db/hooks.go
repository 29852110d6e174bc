package db

import (
	"time"

	"gorm.io/gorm"

	"example.com/backstage/services/routedelivery/internal/metrics"
)

const startTimeKey = "metrics:start_time"

// RegisterMetricsHooks registers GORM callbacks recording query metrics
func RegisterMetricsHooks(db *gorm.DB) error {
	record := func(queryType string) func(*gorm.DB) {
		return func(tx *gorm.DB) {
			metrics.GetMetricsCollector().RecordDatabaseQuery(queryType, tx.Error == nil || IsRecordNotFoundError(tx.Error), getDuration(tx))
		}
	}

	if err := db.Callback().Create().After("gorm:create").Register("metrics:create", record(metrics.DBQueryTypeInsert)); err != nil {
		return err
	}
	if err := db.Callback().Query().After("gorm:query").Register("metrics:query", record(metrics.DBQueryTypeSelect)); err != nil {
		return err
	}
	if err := db.Callback().Update().After("gorm:update").Register("metrics:update", record(metrics.DBQueryTypeUpdate)); err != nil {
		return err
	}
	return db.Callback().Delete().After("gorm:delete").Register("metrics:delete", record(metrics.DBQueryTypeDelete))
}

// RegisterDurationHooks stamps the start time before each operation
func RegisterDurationHooks(db *gorm.DB) error {
	if err := db.Callback().Create().Before("gorm:create").Register("duration:create", logStart); err != nil {
		return err
	}
	if err := db.Callback().Query().Before("gorm:query").Register("duration:query", logStart); err != nil {
		return err
	}
	if err := db.Callback().Update().Before("gorm:update").Register("duration:update", logStart); err != nil {
		return err
	}
	return db.Callback().Delete().Before("gorm:delete").Register("duration:delete", logStart)
}

func logStart(tx *gorm.DB) {
	tx.InstanceSet(startTimeKey, time.Now())
}

func getDuration(tx *gorm.DB) time.Duration {
	if start, ok := tx.InstanceGet(startTimeKey); ok {
		if t, ok := start.(time.Time); ok {
			return time.Since(t)
		}
	}
	return 0
}
