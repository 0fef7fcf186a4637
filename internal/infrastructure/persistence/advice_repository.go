package persistence

import (
	"context"

	"github.com/google/uuid"
	"github.com/nordvest/backend/internal/domain/financing"
	"github.com/nordvest/backend/internal/domain/sustainability"
	"github.com/nordvest/backend/internal/infrastructure/persistence/models"
	"gorm.io/gorm"
)

// GormRecommendationRepository implements sustainability.Repository using GORM
type GormRecommendationRepository struct {
	db *gorm.DB
}

// NewGormRecommendationRepository creates a new GormRecommendationRepository
func NewGormRecommendationRepository(db *gorm.DB) *GormRecommendationRepository {
	return &GormRecommendationRepository{db: db}
}

// FindByProject lists recommendations, most urgent first and then by impact
func (r *GormRecommendationRepository) FindByProject(ctx context.Context, projectID uuid.UUID) ([]sustainability.Recommendation, error) {
	var rows []models.RecommendationModel
	if err := r.db.WithContext(ctx).
		Where("project_id = ?", projectID).
		Order("priority ASC").
		Order("impact_score DESC").
		Order("created_at ASC").
		Find(&rows).Error; err != nil {
		return nil, err
	}

	out := make([]sustainability.Recommendation, 0, len(rows))
	for i := range rows {
		out = append(out, *rows[i].ToDomain())
	}
	return out, nil
}

// ReplacePending swaps the project's pending recommendations for recs in one transaction
func (r *GormRecommendationRepository) ReplacePending(ctx context.Context, projectID uuid.UUID, recs []*sustainability.Recommendation) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.
			Where("project_id = ? AND status = ?", projectID, sustainability.StatusPending).
			Delete(&models.RecommendationModel{}).Error; err != nil {
			return err
		}
		if len(recs) == 0 {
			return nil
		}
		rows := make([]*models.RecommendationModel, 0, len(recs))
		for _, rec := range recs {
			rows = append(rows, models.RecommendationModelFromDomain(rec))
		}
		return tx.Create(rows).Error
	})
}

// GormFinancingRepository implements financing.Repository using GORM
type GormFinancingRepository struct {
	db *gorm.DB
}

// NewGormFinancingRepository creates a new GormFinancingRepository
func NewGormFinancingRepository(db *gorm.DB) *GormFinancingRepository {
	return &GormFinancingRepository{db: db}
}

// FindByProject lists financing options, most eligible first
func (r *GormFinancingRepository) FindByProject(ctx context.Context, projectID uuid.UUID) ([]financing.Option, error) {
	var rows []models.FinancingOptionModel
	if err := r.db.WithContext(ctx).
		Where("project_id = ?", projectID).
		Order("eligibility_score DESC").
		Order("created_at ASC").
		Find(&rows).Error; err != nil {
		return nil, err
	}

	out := make([]financing.Option, 0, len(rows))
	for i := range rows {
		out = append(out, *rows[i].ToDomain())
	}
	return out, nil
}

// ReplaceAvailable swaps the project's available options for opts in one transaction
func (r *GormFinancingRepository) ReplaceAvailable(ctx context.Context, projectID uuid.UUID, opts []*financing.Option) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.
			Where("project_id = ? AND status = ?", projectID, financing.StatusAvailable).
			Delete(&models.FinancingOptionModel{}).Error; err != nil {
			return err
		}
		if len(opts) == 0 {
			return nil
		}
		rows := make([]*models.FinancingOptionModel, 0, len(opts))
		for _, o := range opts {
			rows = append(rows, models.FinancingOptionModelFromDomain(o))
		}
		return tx.Create(rows).Error
	})
}
