package advisory

import (
	"context"

	"github.com/google/uuid"
	"github.com/nordvest/backend/internal/application/readthrough"
	"github.com/nordvest/backend/internal/domain/financing"
	"github.com/nordvest/backend/internal/domain/project"
	"github.com/nordvest/backend/internal/domain/shared"
	"github.com/nordvest/backend/internal/domain/sustainability"
	"go.uber.org/zap"
)

// Cache key kinds for analyses of client-supplied data
const (
	adHocSustainability = "sustainability"
	adHocFinancing      = "financing"
)

// ProjectDataRequest carries project data that may not be stored yet.
// When ProjectID names a stored project the result is also written back to it.
type ProjectDataRequest struct {
	ProjectID   string            `json:"projectId" binding:"omitempty,uuid"`
	ProjectData *project.Snapshot `json:"projectData"`
}

func (r ProjectDataRequest) snapshot() (project.Snapshot, *uuid.UUID, error) {
	if r.ProjectData == nil {
		return project.Snapshot{}, nil, shared.NewValidationError("Prosjektdata er påkrevd")
	}
	snap := *r.ProjectData
	if r.ProjectID == "" {
		return snap, nil, nil
	}
	id, err := uuid.Parse(r.ProjectID)
	if err != nil {
		return project.Snapshot{}, nil, shared.NewValidationError("invalid projectId")
	}
	snap.ID = id.String()
	return snap, &id, nil
}

// AnalyzeProjectData analyses client-supplied project data. Results are
// cached per input, and a cached result is returned without calling the advisor.
func (s *Service) AnalyzeProjectData(ctx context.Context, req ProjectDataRequest) (*sustainability.Analysis, error) {
	snap, projectID, err := req.snapshot()
	if err != nil {
		return nil, err
	}

	key := readthrough.AdHocKey(adHocSustainability, snap)
	if cached, ok := readthrough.Peek[*sustainability.Analysis](ctx, s.loader, key); ok {
		return cached, nil
	}

	analysis, err := s.advisor.AnalyzeSustainability(ctx, snap)
	if err != nil {
		return nil, err
	}

	if projectID != nil {
		score := analysis.OverallScore
		s.writeBack(ctx, *projectID, "sustainability_score", func() error {
			_, err := s.projects.Update(ctx, *projectID, project.Patch{SustainabilityScore: &score})
			return err
		})
	}

	readthrough.Put(ctx, s.loader, key, analysis, s.ttls.AdHocAnalysis)
	s.logger.Debug("Analysed ad hoc project data", zap.Int("overall_score", analysis.OverallScore))
	return analysis, nil
}

// SuggestForProjectData suggests financing for client-supplied project data,
// cached per input like AnalyzeProjectData.
func (s *Service) SuggestForProjectData(ctx context.Context, req ProjectDataRequest) (*financing.Result, error) {
	snap, projectID, err := req.snapshot()
	if err != nil {
		return nil, err
	}

	key := readthrough.AdHocKey(adHocFinancing, snap)
	if cached, ok := readthrough.Peek[*financing.Result](ctx, s.loader, key); ok {
		return cached, nil
	}

	result, err := s.advisor.SuggestFinancing(ctx, snap)
	if err != nil {
		return nil, err
	}

	if projectID != nil {
		s.writeBack(ctx, *projectID, "financing_generated", func() error {
			_, err := s.projects.MergeMetadata(ctx, *projectID, s.financingSummary(result))
			return err
		})
	}

	readthrough.Put(ctx, s.loader, key, result, s.ttls.AdHocFinance)
	return result, nil
}
