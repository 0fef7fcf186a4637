// Package advisory runs AI-backed sustainability, financing and planning
// analyses for projects and keeps their results.
package advisory

import (
	"context"
	"time"

	"github.com/google/uuid"
	"github.com/nordvest/backend/internal/application/readthrough"
	"github.com/nordvest/backend/internal/domain/analytics"
	"github.com/nordvest/backend/internal/domain/financing"
	"github.com/nordvest/backend/internal/domain/plan"
	"github.com/nordvest/backend/internal/domain/project"
	"github.com/nordvest/backend/internal/domain/sustainability"
	"go.uber.org/zap"
)

// Advisor produces advice for a project
type Advisor interface {
	AnalyzeSustainability(ctx context.Context, snap project.Snapshot) (*sustainability.Analysis, error)
	SuggestFinancing(ctx context.Context, snap project.Snapshot) (*financing.Result, error)
	GenerateProjectPlan(ctx context.Context, snap project.Snapshot) (*plan.Plan, error)
}

// Projects reads projects and writes analysis results back onto them
type Projects interface {
	Get(ctx context.Context, id uuid.UUID) (*project.Project, error)
	Update(ctx context.Context, id uuid.UUID, patch project.Patch) (*project.Project, error)
	MergeMetadata(ctx context.Context, id uuid.UUID, values map[string]any) (*project.Project, error)
}

// CacheTTLs sets how long advice stays cached
type CacheTTLs struct {
	Advice        time.Duration
	Plan          time.Duration
	AdHocAnalysis time.Duration
	AdHocFinance  time.Duration
}

// DefaultCacheTTLs returns the standard advice cache lifetimes
func DefaultCacheTTLs() CacheTTLs {
	return CacheTTLs{
		Advice:        time.Hour,
		Plan:          2 * time.Hour,
		AdHocAnalysis: 2 * time.Hour,
		AdHocFinance:  time.Hour,
	}
}

// Service coordinates the advisor with the store, the cache and analytics
type Service struct {
	projects        Projects
	recommendations sustainability.Repository
	options         financing.Repository
	advisor         Advisor
	loader          *readthrough.Loader
	recorder        analytics.Recorder
	ttls            CacheTTLs
	logger          *zap.Logger
	now             func() time.Time
}

// Option configures a Service
type Option func(*Service)

// WithCacheTTLs overrides the cache lifetimes. Zero values keep the defaults.
func WithCacheTTLs(ttls CacheTTLs) Option {
	return func(s *Service) {
		if ttls.Advice > 0 {
			s.ttls.Advice = ttls.Advice
		}
		if ttls.Plan > 0 {
			s.ttls.Plan = ttls.Plan
		}
		if ttls.AdHocAnalysis > 0 {
			s.ttls.AdHocAnalysis = ttls.AdHocAnalysis
		}
		if ttls.AdHocFinance > 0 {
			s.ttls.AdHocFinance = ttls.AdHocFinance
		}
	}
}

// WithClock sets the time source used for metadata timestamps
func WithClock(now func() time.Time) Option {
	return func(s *Service) {
		s.now = now
	}
}

// NewService creates a new advisory service
func NewService(
	projects Projects,
	recommendations sustainability.Repository,
	options financing.Repository,
	advisor Advisor,
	loader *readthrough.Loader,
	recorder analytics.Recorder,
	logger *zap.Logger,
	opts ...Option,
) *Service {
	s := &Service{
		projects:        projects,
		recommendations: recommendations,
		options:         options,
		advisor:         advisor,
		loader:          loader,
		recorder:        recorder,
		ttls:            DefaultCacheTTLs(),
		logger:          logger,
		now:             func() time.Time { return time.Now().UTC() },
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// writeBack applies a best-effort update to the analysed project. The
// analysis result has already been produced, so failures are only logged.
func (s *Service) writeBack(ctx context.Context, id uuid.UUID, what string, update func() error) {
	if err := update(); err != nil {
		s.logger.Warn("Failed to write analysis result back to project",
			zap.String("project_id", id.String()),
			zap.String("result", what),
			zap.Error(err),
		)
	}
}
