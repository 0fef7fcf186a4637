package persistence

import (
	"context"
	"errors"
	"time"

	"github.com/google/uuid"
	"github.com/nordvest/backend/internal/domain/project"
	"github.com/nordvest/backend/internal/domain/shared"
	"github.com/nordvest/backend/internal/infrastructure/persistence/models"
	"gorm.io/gorm"
)

// GormProjectRepository implements project.Repository using GORM
type GormProjectRepository struct {
	db *gorm.DB
}

// NewGormProjectRepository creates a new GormProjectRepository
func NewGormProjectRepository(db *gorm.DB) *GormProjectRepository {
	return &GormProjectRepository{db: db}
}

// Create inserts a new project
func (r *GormProjectRepository) Create(ctx context.Context, p *project.Project) error {
	return r.db.WithContext(ctx).Create(models.ProjectModelFromDomain(p)).Error
}

// FindByID finds a project by its ID
func (r *GormProjectRepository) FindByID(ctx context.Context, id uuid.UUID) (*project.Project, error) {
	var m models.ProjectModel
	if err := r.db.WithContext(ctx).First(&m, "id = ?", id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, shared.ErrNotFound
		}
		return nil, err
	}
	return m.ToDomain(), nil
}

// FindAll lists projects, newest first unless the filter says otherwise.
// Ties are broken by id so pages never overlap.
func (r *GormProjectRepository) FindAll(ctx context.Context, filter project.ListFilter) ([]project.Project, error) {
	f := filter.Filter.Normalized()

	query := r.db.WithContext(ctx).Model(&models.ProjectModel{})
	if filter.Status != "" {
		query = query.Where("status = ?", filter.Status)
	}

	var rows []models.ProjectModel
	if err := query.
		Order(projectSort.orderBy(f.OrderBy, f.OrderDir)).
		Limit(f.Limit).
		Offset(f.Offset).
		Find(&rows).Error; err != nil {
		return nil, err
	}

	projects := make([]project.Project, 0, len(rows))
	for i := range rows {
		projects = append(projects, *rows[i].ToDomain())
	}
	return projects, nil
}

// Update applies the non-nil fields of patch and returns the stored result
func (r *GormProjectRepository) Update(ctx context.Context, id uuid.UUID, patch project.Patch) (*project.Project, error) {
	cols := models.PatchColumns(patch)
	cols["updated_at"] = time.Now().UTC()

	result := r.db.WithContext(ctx).
		Model(&models.ProjectModel{}).
		Where("id = ?", id).
		Updates(cols)
	if result.Error != nil {
		return nil, result.Error
	}
	if result.RowsAffected == 0 {
		return nil, shared.ErrNotFound
	}
	return r.FindByID(ctx, id)
}

// Delete removes a project. Dependent rows are removed by the schema's cascades.
func (r *GormProjectRepository) Delete(ctx context.Context, id uuid.UUID) error {
	result := r.db.WithContext(ctx).Delete(&models.ProjectModel{}, "id = ?", id)
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return shared.ErrNotFound
	}
	return nil
}

// Stats aggregates portfolio statistics in a single query
func (r *GormProjectRepository) Stats(ctx context.Context) (*project.Stats, error) {
	var row struct {
		Total     int64
		Active    int64
		Completed int64
		AvgScore  float64
	}
	err := r.db.WithContext(ctx).
		Model(&models.ProjectModel{}).
		Select(`COUNT(*) AS total,
			COALESCE(SUM(CASE WHEN status IN ? THEN 1 ELSE 0 END), 0) AS active,
			COALESCE(SUM(CASE WHEN status = ? THEN 1 ELSE 0 END), 0) AS completed,
			COALESCE(AVG(sustainability_score), 0) AS avg_score`,
			project.OpenStatuses, project.StatusCompleted).
		Scan(&row).Error
	if err != nil {
		return nil, err
	}
	return &project.Stats{
		Total:                      row.Total,
		Active:                     row.Active,
		Completed:                  row.Completed,
		AverageSustainabilityScore: row.AvgScore,
	}, nil
}
