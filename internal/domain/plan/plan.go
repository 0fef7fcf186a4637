// Package plan describes AI-generated project plans. Plans are derived data:
// they live in the cache and their summary is written back to the project's
// metadata, but they are not stored relationally.
package plan

import (
	"strings"
	"time"

	"github.com/nordvest/backend/internal/domain/shared"
	"github.com/shopspring/decimal"
)

// Plan is a phased execution plan for a building project
type Plan struct {
	Phases                []Phase      `json:"phases"`
	Timeline              Timeline     `json:"timeline"`
	RiskAssessment        []Risk       `json:"risk_assessment"`
	ComplianceCheckpoints []Checkpoint `json:"compliance_checkpoints"`
	GeneratedAt           time.Time    `json:"generated_at"`
}

// Phase is one stage of the work
type Phase struct {
	Name          string          `json:"name"`
	Description   string          `json:"description"`
	DurationWeeks int             `json:"duration_weeks"`
	EstimatedCost decimal.Decimal `json:"estimated_cost"`
	Dependencies  []string        `json:"dependencies"`
	Tasks         []string        `json:"tasks"`
}

// Timeline summarises the schedule
type Timeline struct {
	TotalDurationWeeks int         `json:"total_duration_weeks"`
	Milestones         []Milestone `json:"milestones"`
}

// Milestone marks a point in the schedule
type Milestone struct {
	Name        string `json:"name"`
	Week        int    `json:"week"`
	Description string `json:"description"`
}

// Risk is an identified project risk
type Risk struct {
	Risk        string `json:"risk"`
	Probability string `json:"probability"`
	Impact      string `json:"impact"`
	Mitigation  string `json:"mitigation"`
}

// Checkpoint is a regulatory or quality gate
type Checkpoint struct {
	Name        string `json:"name"`
	Phase       string `json:"phase"`
	Requirement string `json:"requirement"`
	Regulation  string `json:"regulation"`
}

// Normalize validates a freshly parsed plan and fills derivable fields.
// A plan without phases is rejected.
func (p *Plan) Normalize(now time.Time) error {
	phases := p.Phases[:0]
	for _, ph := range p.Phases {
		ph.Name = strings.TrimSpace(ph.Name)
		if ph.Name == "" {
			continue
		}
		ph.DurationWeeks = max(ph.DurationWeeks, 0)
		if ph.EstimatedCost.IsNegative() {
			ph.EstimatedCost = decimal.Zero
		}
		phases = append(phases, ph)
	}
	if len(phases) == 0 {
		return shared.NewValidationError("plan contains no phases")
	}
	p.Phases = phases

	if p.Timeline.TotalDurationWeeks <= 0 {
		total := 0
		for _, ph := range p.Phases {
			total += ph.DurationWeeks
		}
		p.Timeline.TotalDurationWeeks = total
	}
	if p.Timeline.Milestones == nil {
		p.Timeline.Milestones = []Milestone{}
	}
	if p.RiskAssessment == nil {
		p.RiskAssessment = []Risk{}
	}
	if p.ComplianceCheckpoints == nil {
		p.ComplianceCheckpoints = []Checkpoint{}
	}
	if p.GeneratedAt.IsZero() {
		p.GeneratedAt = now.UTC()
	}
	return nil
}

// TotalCost sums the phase estimates
func (p *Plan) TotalCost() decimal.Decimal {
	total := decimal.Zero
	for _, ph := range p.Phases {
		total = total.Add(ph.EstimatedCost)
	}
	return total
}

// MetadataSummary is written back into the project's metadata bag
func (p *Plan) MetadataSummary() map[string]any {
	return map[string]any{
		"plan_generated":       true,
		"total_duration_weeks": p.Timeline.TotalDurationWeeks,
		"phases_count":         len(p.Phases),
		"last_plan_update":     p.GeneratedAt.Format(time.RFC3339),
	}
}
