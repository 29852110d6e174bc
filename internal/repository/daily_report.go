package repository

import (
	"context"
	"time"

	"gorm.io/gorm"

	"example.com/backstage/services/routedelivery/internal/model"
)

// DailyReportRepository defines the interface for daily report repository
type DailyReportRepository interface {
	Create(ctx context.Context, report *model.DailyReport) (*model.DailyReport, error)
	ListByDriver(ctx context.Context, driverID uint, from, to *time.Time) ([]*model.DailyReport, error)
	ListUnpublished(ctx context.Context, since time.Time, afterID uint, limit int) ([]*model.DailyReport, error)
	MarkPublished(ctx context.Context, id uint, at time.Time) error
}

type dailyReportRepository struct {
	db *gorm.DB
}

// NewDailyReportRepository creates a new daily report repository
func NewDailyReportRepository(db *gorm.DB) DailyReportRepository {
	return &dailyReportRepository{db: db}
}

// Create creates a report. A second report for the same session returns ErrDuplicateKey.
func (r *dailyReportRepository) Create(ctx context.Context, report *model.DailyReport) (*model.DailyReport, error) {
	if err := r.db.WithContext(ctx).Create(report).Error; err != nil {
		return nil, translate(err)
	}
	return report, nil
}

// ListByDriver lists a driver's reports, optionally restricted to [from, to)
func (r *dailyReportRepository) ListByDriver(ctx context.Context, driverID uint, from, to *time.Time) ([]*model.DailyReport, error) {
	query := r.db.WithContext(ctx).Where("driver_id = ?", driverID)
	if from != nil {
		query = query.Where("date >= ?", *from)
	}
	if to != nil {
		query = query.Where("date < ?", *to)
	}

	var reports []*model.DailyReport
	if err := query.Order("created_at DESC").Find(&reports).Error; err != nil {
		return nil, err
	}
	return reports, nil
}

// ListUnpublished lists reports created since the given time that were never published,
// in id order starting after afterID
func (r *dailyReportRepository) ListUnpublished(ctx context.Context, since time.Time, afterID uint, limit int) ([]*model.DailyReport, error) {
	var reports []*model.DailyReport
	err := r.db.WithContext(ctx).
		Where("published_at IS NULL AND created_at >= ? AND id > ?", since, afterID).
		Order("id ASC").
		Limit(limit).
		Find(&reports).Error
	if err != nil {
		return nil, err
	}
	return reports, nil
}

// MarkPublished stamps the publication time of a report
func (r *dailyReportRepository) MarkPublished(ctx context.Context, id uint, at time.Time) error {
	res := r.db.WithContext(ctx).
		Model(&model.DailyReport{}).
		Where("id = ?", id).
		Update("published_at", at)
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return ErrNotFound
	}
	return nil
}
