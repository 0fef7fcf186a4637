package persistence

import (
	"context"

	"github.com/google/uuid"
	"github.com/nordvest/backend/internal/domain/analytics"
	"github.com/nordvest/backend/internal/domain/shared"
	"github.com/nordvest/backend/internal/infrastructure/persistence/models"
	"gorm.io/gorm"
)

// GormAnalyticsRepository implements analytics.Repository using GORM
type GormAnalyticsRepository struct {
	db       *gorm.DB
	maxLimit int
}

// NewGormAnalyticsRepository creates a repository capping queries at maxLimit rows
func NewGormAnalyticsRepository(db *gorm.DB, maxLimit int) *GormAnalyticsRepository {
	if maxLimit <= 0 {
		maxLimit = 1000
	}
	return &GormAnalyticsRepository{db: db, maxLimit: maxLimit}
}

// Create appends an event
func (r *GormAnalyticsRepository) Create(ctx context.Context, e *analytics.Event) error {
	return r.db.WithContext(ctx).Create(models.AnalyticsEventModelFromDomain(e)).Error
}

// Find lists matching events, newest first
func (r *GormAnalyticsRepository) Find(ctx context.Context, q analytics.Query) ([]analytics.Event, error) {
	if err := q.Validate(); err != nil {
		return nil, err
	}
	limit := q.Limit
	if limit <= 0 {
		limit = shared.DefaultLimit
	}
	limit = min(limit, r.maxLimit)

	query := r.db.WithContext(ctx).Model(&models.AnalyticsEventModel{})
	if q.ProjectID != nil {
		query = query.Where("project_id = ?", *q.ProjectID)
	}
	if q.EventType != "" {
		query = query.Where("event_type = ?", q.EventType)
	}

	var rows []models.AnalyticsEventModel
	if err := query.Order("created_at DESC").Limit(limit).Find(&rows).Error; err != nil {
		return nil, err
	}

	out := make([]analytics.Event, 0, len(rows))
	for i := range rows {
		out = append(out, *rows[i].ToDomain())
	}
	return out, nil
}

// CountByType counts events per type, optionally for one project
func (r *GormAnalyticsRepository) CountByType(ctx context.Context, projectID *uuid.UUID) (map[string]int64, error) {
	query := r.db.WithContext(ctx).Model(&models.AnalyticsEventModel{})
	if projectID != nil {
		query = query.Where("project_id = ?", *projectID)
	}

	var rows []struct {
		EventType string
		Count     int64
	}
	if err := query.
		Select("event_type, COUNT(*) AS count").
		Group("event_type").
		Scan(&rows).Error; err != nil {
		return nil, err
	}

	counts := make(map[string]int64, len(rows))
	for _, row := range rows {
		counts[row.EventType] = row.Count
	}
	return counts, nil
}
