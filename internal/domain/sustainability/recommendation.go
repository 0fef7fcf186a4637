// Package sustainability models AI-generated sustainability advice for projects.
//
// Priority convention: 1 is the most urgent and 5 the least urgent.
// Listings are ordered by priority ascending, then by impact score descending.
package sustainability

import (
	"context"
	"strings"

	"github.com/google/uuid"
	"github.com/nordvest/backend/internal/domain/shared"
	"github.com/shopspring/decimal"
)

// Status tracks whether a recommendation has been acted upon
type Status string

const (
	StatusPending     Status = "pending"
	StatusInProgress  Status = "in_progress"
	StatusImplemented Status = "implemented"
	StatusRejected    Status = "rejected"
)

// Priority bounds
const (
	PriorityHighest = 1
	PriorityLowest  = 5
	defaultPriority = 3
)

// Score bounds
const (
	MinScore     = 1
	MaxScore     = 100
	DefaultScore = 75
	MaxImpact    = 10.0
)

// Categories the model is asked to use
const (
	CategoryEnergy      = "energy"
	CategoryMaterials   = "materials"
	CategoryWaste       = "waste"
	CategoryWater       = "water"
	CategoryLocalSupply = "local_supply"
	CategoryDurability  = "durability"
	CategoryGeneral     = "general"
)

// Recommendation is a persisted sustainability improvement for a project
type Recommendation struct {
	shared.BaseEntity
	ProjectID             uuid.UUID       `json:"project_id"`
	Category              string          `json:"category"`
	Title                 string          `json:"title"`
	Description           string          `json:"description"`
	ImpactScore           float64         `json:"impact_score"`
	CostEstimate          decimal.Decimal `json:"cost_estimate"`
	SavingsEstimate       decimal.Decimal `json:"savings_estimate"`
	ImplementationTime    string          `json:"implementation_time"`
	Priority              int             `json:"priority"`
	Status                Status          `json:"status"`
	EnvironmentalImpact   string          `json:"environmental_impact"`
	ROIMonths             int             `json:"roi_months"`
	CertificationEligible bool            `json:"certification_eligible"`
}

// Suggestion is an unpersisted recommendation as produced by the advice generator
type Suggestion struct {
	Category              string          `json:"category"`
	Title                 string          `json:"title"`
	Description           string          `json:"description"`
	ImpactScore           float64         `json:"impact_score"`
	CostEstimate          decimal.Decimal `json:"cost_estimate"`
	SavingsEstimate       decimal.Decimal `json:"savings_estimate"`
	ImplementationTime    string          `json:"implementation_time"`
	Priority              int             `json:"priority"`
	EnvironmentalImpact   string          `json:"environmental_impact"`
	ROIMonths             int             `json:"roi_months"`
	CertificationEligible bool            `json:"certification_eligible"`
}

// Analysis is the outcome of a sustainability analysis
type Analysis struct {
	OverallScore    int          `json:"overall_score"`
	Analysis        string       `json:"analysis"`
	Recommendations []Suggestion `json:"recommendations"`
	// Structured is false when the values were recovered heuristically from free text
	Structured bool `json:"structured"`
}

// NewRecommendation turns a suggestion into a pending recommendation, clamping
// every numeric field into its declared range.
func NewRecommendation(projectID uuid.UUID, s Suggestion) *Recommendation {
	category := strings.ToLower(strings.TrimSpace(s.Category))
	if category == "" {
		category = CategoryGeneral
	}
	title := strings.TrimSpace(s.Title)
	if title == "" {
		title = firstWords(s.Description, 8)
	}
	return &Recommendation{
		BaseEntity:            shared.NewBaseEntity(),
		ProjectID:             projectID,
		Category:              category,
		Title:                 title,
		Description:           strings.TrimSpace(s.Description),
		ImpactScore:           ClampImpact(s.ImpactScore),
		CostEstimate:          nonNegative(s.CostEstimate),
		SavingsEstimate:       nonNegative(s.SavingsEstimate),
		ImplementationTime:    s.ImplementationTime,
		Priority:              ClampPriority(s.Priority),
		Status:                StatusPending,
		EnvironmentalImpact:   s.EnvironmentalImpact,
		ROIMonths:             max(s.ROIMonths, 0),
		CertificationEligible: s.CertificationEligible,
	}
}

// ClampScore forces a score into [1,100]
func ClampScore(score int) int {
	return min(max(score, MinScore), MaxScore)
}

// ClampImpact forces an impact score into [0,10]
func ClampImpact(v float64) float64 {
	if v != v { // NaN
		return 0
	}
	return min(max(v, 0), MaxImpact)
}

// ClampPriority forces a priority into [1,5]; zero means unspecified.
func ClampPriority(p int) int {
	if p == 0 {
		return defaultPriority
	}
	return min(max(p, PriorityHighest), PriorityLowest)
}

func nonNegative(d decimal.Decimal) decimal.Decimal {
	if d.IsNegative() {
		return decimal.Zero
	}
	return d
}

func firstWords(s string, n int) string {
	words := strings.Fields(s)
	if len(words) > n {
		words = words[:n]
	}
	return strings.Join(words, " ")
}

// Repository persists recommendations
type Repository interface {
	// FindByProject lists recommendations ordered by priority then impact
	FindByProject(ctx context.Context, projectID uuid.UUID) ([]Recommendation, error)
	// ReplacePending atomically drops the project's pending recommendations and
	// inserts recs. Recommendations already acted upon are kept.
	ReplacePending(ctx context.Context, projectID uuid.UUID, recs []*Recommendation) error
}
