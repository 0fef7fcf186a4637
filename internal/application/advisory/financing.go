package advisory

import (
	"context"
	"time"

	"github.com/google/uuid"
	"github.com/nordvest/backend/internal/application/readthrough"
	"github.com/nordvest/backend/internal/domain/analytics"
	"github.com/nordvest/backend/internal/domain/financing"
	"github.com/nordvest/backend/internal/infrastructure/telemetry"
	"go.uber.org/zap"
)

// FinancingReport is the outcome of a financing suggestion for a stored project
type FinancingReport struct {
	Result  *financing.Result  `json:"result"`
	Options []financing.Option `json:"options"`
}

// ListFinancingOptions returns the stored options of a project, optionally
// narrowed to one type.
func (s *Service) ListFinancingOptions(ctx context.Context, projectID uuid.UUID, typ financing.Type) ([]financing.Option, error) {
	if _, err := s.projects.Get(ctx, projectID); err != nil {
		return nil, err
	}
	options, err := readthrough.Get(ctx, s.loader, readthrough.FinancingKey(projectID), s.ttls.Advice,
		func(ctx context.Context) ([]financing.Option, error) {
			opts, err := s.options.FindByProject(ctx, projectID)
			if err != nil {
				return nil, err
			}
			if opts == nil {
				opts = []financing.Option{}
			}
			return opts, nil
		})
	if err != nil || typ == "" {
		return options, err
	}

	filtered := make([]financing.Option, 0, len(options))
	for _, o := range options {
		if o.Type == typ {
			filtered = append(filtered, o)
		}
	}
	return filtered, nil
}

// SuggestFinancing asks the advisor for financing options, replaces the
// project's untouched options and flags the project as having financing advice.
func (s *Service) SuggestFinancing(ctx context.Context, projectID uuid.UUID) (*FinancingReport, error) {
	ctx, span := telemetry.StartServiceSpan(ctx, "advisory", "suggest_financing",
		telemetry.SpanAttrProjectID, projectID.String())
	defer span.End()

	p, err := s.projects.Get(ctx, projectID)
	if err != nil {
		return nil, err
	}

	s.recorder.Record(ctx, projectID, analytics.EventFinancingSuggestionRequested, map[string]any{
		"budget_range":   p.BudgetRange,
		"estimated_cost": p.EstimatedCost,
	})

	result, err := s.advisor.SuggestFinancing(ctx, p.Snapshot())
	if err != nil {
		telemetry.RecordError(span, err)
		return nil, err
	}

	opts := make([]*financing.Option, 0, len(result.Suggestions))
	for _, suggestion := range result.Suggestions {
		opts = append(opts, financing.NewOption(projectID, suggestion))
	}
	if err := s.options.ReplaceAvailable(ctx, projectID, opts); err != nil {
		s.logger.Error("Failed to store financing options",
			zap.String("project_id", projectID.String()),
			zap.Error(err),
		)
		telemetry.RecordError(span, err)
		return nil, err
	}
	s.loader.Invalidate(ctx, []string{readthrough.FinancingKey(projectID)})

	s.writeBack(ctx, projectID, "financing_generated", func() error {
		_, err := s.projects.MergeMetadata(ctx, projectID, s.financingSummary(result))
		return err
	})

	s.recorder.Record(ctx, projectID, analytics.EventFinancingSuggestionCompleted, map[string]any{
		"options_count":           len(opts),
		"total_potential_savings": result.TotalPotentialSavings.String(),
		"structured":              result.Structured,
	})

	saved := make([]financing.Option, len(opts))
	for i, o := range opts {
		saved[i] = *o
	}
	return &FinancingReport{Result: result, Options: saved}, nil
}

// financingSummary is merged into the project's metadata after a suggestion
func (s *Service) financingSummary(result *financing.Result) map[string]any {
	return map[string]any{
		"financing_generated":     true,
		"total_potential_savings": result.TotalPotentialSavings.String(),
		"last_financing_update":   s.now().Format(time.RFC3339),
	}
}
