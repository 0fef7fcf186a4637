package advisory

import (
	"context"

	"github.com/google/uuid"
	"github.com/nordvest/backend/internal/application/readthrough"
	"github.com/nordvest/backend/internal/domain/analytics"
	"github.com/nordvest/backend/internal/domain/plan"
	"github.com/nordvest/backend/internal/infrastructure/telemetry"
)

// NoPlanMessage accompanies an empty plan lookup
const NoPlanMessage = "No plan generated yet. Use POST to generate a new plan."

// GetPlan returns the most recently generated plan of a project, or nil when
// none is cached.
func (s *Service) GetPlan(ctx context.Context, projectID uuid.UUID) (*plan.Plan, error) {
	if _, err := s.projects.Get(ctx, projectID); err != nil {
		return nil, err
	}
	p, ok := readthrough.Peek[*plan.Plan](ctx, s.loader, readthrough.PlanKey(projectID))
	if !ok {
		return nil, nil
	}
	return p, nil
}

// GeneratePlan asks the advisor for a new plan, caches it and records a
// summary of it in the project's metadata.
func (s *Service) GeneratePlan(ctx context.Context, projectID uuid.UUID) (*plan.Plan, error) {
	ctx, span := telemetry.StartServiceSpan(ctx, "advisory", "generate_plan",
		telemetry.SpanAttrProjectID, projectID.String())
	defer span.End()

	p, err := s.projects.Get(ctx, projectID)
	if err != nil {
		return nil, err
	}

	s.recorder.Record(ctx, projectID, analytics.EventProjectPlanRequested, map[string]any{
		"project_type":  p.ProjectType,
		"square_meters": p.SquareMeters,
		"budget_range":  p.BudgetRange,
	})

	generated, err := s.advisor.GenerateProjectPlan(ctx, p.Snapshot())
	if err != nil {
		telemetry.RecordError(span, err)
		return nil, err
	}

	readthrough.Put(ctx, s.loader, readthrough.PlanKey(projectID), generated, s.ttls.Plan)

	s.writeBack(ctx, projectID, "plan_summary", func() error {
		_, err := s.projects.MergeMetadata(ctx, projectID, generated.MetadataSummary())
		return err
	})

	s.recorder.Record(ctx, projectID, analytics.EventProjectPlanCompleted, map[string]any{
		"phases_count":         len(generated.Phases),
		"total_duration_weeks": generated.Timeline.TotalDurationWeeks,
		"total_cost":           generated.TotalCost().String(),
	})
	return generated, nil
}
