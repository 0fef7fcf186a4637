package advisory

import (
	"context"

	"github.com/google/uuid"
	"github.com/nordvest/backend/internal/application/readthrough"
	"github.com/nordvest/backend/internal/domain/analytics"
	"github.com/nordvest/backend/internal/domain/project"
	"github.com/nordvest/backend/internal/domain/sustainability"
	"github.com/nordvest/backend/internal/infrastructure/telemetry"
	"go.uber.org/zap"
)

// SustainabilityReport is the outcome of analysing a stored project
type SustainabilityReport struct {
	Analysis        *sustainability.Analysis        `json:"analysis"`
	Recommendations []sustainability.Recommendation `json:"recommendations"`
}

// ListRecommendations returns the stored recommendations of a project
func (s *Service) ListRecommendations(ctx context.Context, projectID uuid.UUID) ([]sustainability.Recommendation, error) {
	if _, err := s.projects.Get(ctx, projectID); err != nil {
		return nil, err
	}
	return readthrough.Get(ctx, s.loader, readthrough.SustainabilityKey(projectID), s.ttls.Advice,
		func(ctx context.Context) ([]sustainability.Recommendation, error) {
			recs, err := s.recommendations.FindByProject(ctx, projectID)
			if err != nil {
				return nil, err
			}
			if recs == nil {
				recs = []sustainability.Recommendation{}
			}
			return recs, nil
		})
}

// AnalyzeSustainability asks the advisor for a fresh analysis, replaces the
// project's pending recommendations and stores the new score on the project.
func (s *Service) AnalyzeSustainability(ctx context.Context, projectID uuid.UUID) (*SustainabilityReport, error) {
	ctx, span := telemetry.StartServiceSpan(ctx, "advisory", "analyze_sustainability",
		telemetry.SpanAttrProjectID, projectID.String())
	defer span.End()

	p, err := s.projects.Get(ctx, projectID)
	if err != nil {
		return nil, err
	}

	s.recorder.Record(ctx, projectID, analytics.EventSustainabilityAnalysisRequested, map[string]any{
		"project_type":  p.ProjectType,
		"square_meters": p.SquareMeters,
	})

	analysis, err := s.advisor.AnalyzeSustainability(ctx, p.Snapshot())
	if err != nil {
		telemetry.RecordError(span, err)
		return nil, err
	}

	recs := make([]*sustainability.Recommendation, 0, len(analysis.Recommendations))
	for _, suggestion := range analysis.Recommendations {
		recs = append(recs, sustainability.NewRecommendation(projectID, suggestion))
	}
	if err := s.recommendations.ReplacePending(ctx, projectID, recs); err != nil {
		s.logger.Error("Failed to store sustainability recommendations",
			zap.String("project_id", projectID.String()),
			zap.Error(err),
		)
		telemetry.RecordError(span, err)
		return nil, err
	}
	s.loader.Invalidate(ctx, []string{readthrough.SustainabilityKey(projectID)})

	score := analysis.OverallScore
	s.writeBack(ctx, projectID, "sustainability_score", func() error {
		_, err := s.projects.Update(ctx, projectID, project.Patch{SustainabilityScore: &score})
		return err
	})

	s.recorder.Record(ctx, projectID, analytics.EventSustainabilityAnalysisCompleted, map[string]any{
		"overall_score":         analysis.OverallScore,
		"recommendations_count": len(recs),
		"structured":            analysis.Structured,
	})

	saved := make([]sustainability.Recommendation, len(recs))
	for i, r := range recs {
		saved[i] = *r
	}
	return &SustainabilityReport{Analysis: analysis, Recommendations: saved}, nil
}
