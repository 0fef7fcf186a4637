package financing

import (
	"context"
	"strings"

	"github.com/google/uuid"
	"github.com/nordvest/backend/internal/domain/shared"
	"github.com/shopspring/decimal"
)

// Type classifies a financing option
type Type string

const (
	TypeGreenLoan           Type = "green_loan"
	TypeEnergyEfficiency    Type = "energy_efficiency"
	TypeSustainabilityGrant Type = "sustainability_grant"
	TypeTaxIncentive        Type = "tax_incentive"
	TypeBusinessLoan        Type = "business_loan"
)

// Types lists every valid financing type
var Types = []Type{
	TypeGreenLoan, TypeEnergyEfficiency, TypeSustainabilityGrant, TypeTaxIncentive, TypeBusinessLoan,
}

// IsValid reports whether t is a known type
func (t Type) IsValid() bool {
	for _, v := range Types {
		if t == v {
			return true
		}
	}
	return false
}

// Status tracks an application for an option
type Status string

const (
	StatusAvailable Status = "available"
	StatusApplied   Status = "applied"
	StatusApproved  Status = "approved"
	StatusRejected  Status = "rejected"
)

// Savings bounds used when estimating from free text
var (
	MaxPotentialSavings     = decimal.NewFromInt(500_000)
	DefaultPotentialSavings = decimal.NewFromInt(75_000)
)

// Option is a persisted financing opportunity for a project
type Option struct {
	shared.BaseEntity
	ProjectID          uuid.UUID        `json:"project_id"`
	Type               Type             `json:"type"`
	Title              string           `json:"title"`
	Description        string           `json:"description"`
	Amount             decimal.Decimal  `json:"amount"`
	InterestRate       *decimal.Decimal `json:"interest_rate"`
	TermMonths         int              `json:"term_months"`
	Requirements       []string         `json:"requirements"`
	Benefits           []string         `json:"benefits"`
	Provider           string           `json:"provider"`
	ApplicationURL     string           `json:"application_url"`
	Status             Status           `json:"status"`
	EligibilityScore   int              `json:"eligibility_score"`
	ProcessingTimeDays int              `json:"processing_time_days"`
}

// Suggestion is an unpersisted option as produced by the advice generator
type Suggestion struct {
	Type               Type             `json:"type"`
	Title              string           `json:"title"`
	Description        string           `json:"description"`
	Amount             decimal.Decimal  `json:"amount"`
	InterestRate       *decimal.Decimal `json:"interest_rate,omitempty"`
	TermMonths         int              `json:"term_months"`
	Requirements       []string         `json:"requirements"`
	Benefits           []string         `json:"benefits"`
	Provider           string           `json:"provider"`
	ApplicationURL     string           `json:"application_url"`
	EligibilityScore   int              `json:"eligibility_score"`
	ProcessingTimeDays int              `json:"processing_time_days"`
}

// Result is the outcome of a financing suggestion request
type Result struct {
	Analysis              string          `json:"analysis"`
	Suggestions           []Suggestion    `json:"suggestions"`
	TotalPotentialSavings decimal.Decimal `json:"total_potential_savings"`
	// Structured is false when the values were recovered heuristically from free text
	Structured bool `json:"structured"`
}

// NewOption turns a suggestion into an available option. Unknown types fall
// back to green_loan and numeric fields are clamped to their ranges.
func NewOption(projectID uuid.UUID, s Suggestion) *Option {
	t := Type(strings.ToLower(strings.TrimSpace(string(s.Type))))
	if !t.IsValid() {
		t = TypeGreenLoan
	}
	amount := s.Amount
	if amount.IsNegative() {
		amount = decimal.Zero
	}
	rate := s.InterestRate
	if rate != nil && rate.IsNegative() {
		rate = nil
	}
	return &Option{
		BaseEntity:         shared.NewBaseEntity(),
		ProjectID:          projectID,
		Type:               t,
		Title:              strings.TrimSpace(s.Title),
		Description:        strings.TrimSpace(s.Description),
		Amount:             amount,
		InterestRate:       rate,
		TermMonths:         max(s.TermMonths, 0),
		Requirements:       nonNil(s.Requirements),
		Benefits:           nonNil(s.Benefits),
		Provider:           s.Provider,
		ApplicationURL:     s.ApplicationURL,
		Status:             StatusAvailable,
		EligibilityScore:   ClampEligibility(s.EligibilityScore),
		ProcessingTimeDays: max(s.ProcessingTimeDays, 0),
	}
}

// ClampEligibility forces an eligibility score into [0,100]
func ClampEligibility(v int) int {
	return min(max(v, 0), 100)
}

// ClampSavings caps an estimate at MaxPotentialSavings and floors it at zero
func ClampSavings(d decimal.Decimal) decimal.Decimal {
	if d.IsNegative() {
		return decimal.Zero
	}
	if d.GreaterThan(MaxPotentialSavings) {
		return MaxPotentialSavings
	}
	return d
}

func nonNil(s []string) []string {
	if s == nil {
		return []string{}
	}
	return s
}

// Repository persists financing options
type Repository interface {
	// FindByProject lists options, most eligible first
	FindByProject(ctx context.Context, projectID uuid.UUID) ([]Option, error)
	// ReplaceAvailable atomically drops the project's untouched options and
	// inserts opts. Options already applied for are kept.
	ReplaceAvailable(ctx context.Context, projectID uuid.UUID, opts []*Option) error
}
