package project

import (
	"strings"
	"time"
	"unicode/utf8"

	"github.com/google/uuid"
	"github.com/nordvest/backend/internal/domain/shared"
	"github.com/shopspring/decimal"
)

// Status represents the lifecycle stage of a project
type Status string

const (
	StatusDraft      Status = "draft"
	StatusPlanning   Status = "planning"
	StatusActive     Status = "active"
	StatusInProgress Status = "in_progress"
	StatusCompleted  Status = "completed"
	StatusOnHold     Status = "on_hold"
	StatusCancelled  Status = "cancelled"
)

// Statuses lists every valid project status
var Statuses = []Status{
	StatusDraft, StatusPlanning, StatusActive, StatusInProgress,
	StatusCompleted, StatusOnHold, StatusCancelled,
}

// OpenStatuses are the statuses counted as active work in statistics
var OpenStatuses = []Status{StatusDraft, StatusPlanning, StatusActive, StatusInProgress}

// IsValid reports whether s is a known status
func (s Status) IsValid() bool {
	for _, v := range Statuses {
		if s == v {
			return true
		}
	}
	return false
}

const maxNameLength = 200

// Project is a customer building project
type Project struct {
	shared.BaseEntity
	Name                 string           `json:"name"`
	Description          string           `json:"description"`
	Status               Status           `json:"status"`
	EstimatedCost        *decimal.Decimal `json:"estimated_cost"`
	SustainabilityScore  *int             `json:"sustainability_score"`
	Location             string           `json:"location"`
	ProjectType          string           `json:"project_type"`
	SquareMeters         *float64         `json:"square_meters"`
	BudgetRange          string           `json:"budget_range"`
	TargetCompletionDate *time.Time       `json:"target_completion_date"`
	SpecialRequirements  []string         `json:"special_requirements"`
	Metadata             map[string]any   `json:"metadata"`
}

// NewProject creates a project in the given status; an empty status means draft.
func NewProject(name, description string, status Status) (*Project, error) {
	name = strings.TrimSpace(name)
	if err := validateName(name); err != nil {
		return nil, err
	}
	if status == "" {
		status = StatusDraft
	}
	if !status.IsValid() {
		return nil, invalidStatus(status)
	}

	return &Project{
		BaseEntity:          shared.NewBaseEntity(),
		Name:                name,
		Description:         description,
		Status:              status,
		SpecialRequirements: []string{},
		Metadata:            map[string]any{},
	}, nil
}

// Validate checks the optional numeric fields against their ranges
func (p *Project) Validate() error {
	if err := validateName(p.Name); err != nil {
		return err
	}
	if !p.Status.IsValid() {
		return invalidStatus(p.Status)
	}
	return validateNumbers(p.EstimatedCost, p.SustainabilityScore, p.SquareMeters)
}

// Snapshot returns the subset of the project handed to the language model
func (p *Project) Snapshot() Snapshot {
	return Snapshot{
		ID:                  p.ID.String(),
		Name:                p.Name,
		Description:         p.Description,
		Location:            p.Location,
		ProjectType:         p.ProjectType,
		SquareMeters:        p.SquareMeters,
		BudgetRange:         p.BudgetRange,
		SustainabilityScore: p.SustainabilityScore,
		EstimatedCost:       p.EstimatedCost,
		SpecialRequirements: p.SpecialRequirements,
	}
}

// Snapshot describes a project as context for AI generation. It is also
// accepted directly from clients for analyses of projects not yet saved.
type Snapshot struct {
	ID                  string           `json:"id,omitempty"`
	Name                string           `json:"name,omitempty"`
	Description         string           `json:"description,omitempty"`
	Location            string           `json:"location,omitempty"`
	ProjectType         string           `json:"project_type,omitempty"`
	SquareMeters        *float64         `json:"square_meters,omitempty"`
	BudgetRange         string           `json:"budget_range,omitempty"`
	SustainabilityScore *int             `json:"sustainability_score,omitempty"`
	EstimatedCost       *decimal.Decimal `json:"estimated_cost,omitempty"`
	SpecialRequirements []string         `json:"special_requirements,omitempty"`
}

// Patch carries a partial update. Nil fields are left untouched.
type Patch struct {
	Name                 *string
	Description          *string
	Status               *Status
	EstimatedCost        *decimal.Decimal
	SustainabilityScore  *int
	Location             *string
	ProjectType          *string
	SquareMeters         *float64
	BudgetRange          *string
	TargetCompletionDate *time.Time
	SpecialRequirements  *[]string
	Metadata             map[string]any
}

// IsEmpty reports whether the patch changes nothing
func (p Patch) IsEmpty() bool {
	return p.Name == nil && p.Description == nil && p.Status == nil &&
		p.EstimatedCost == nil && p.SustainabilityScore == nil && p.Location == nil &&
		p.ProjectType == nil && p.SquareMeters == nil && p.BudgetRange == nil &&
		p.TargetCompletionDate == nil && p.SpecialRequirements == nil && p.Metadata == nil
}

// Validate checks every provided field
func (p Patch) Validate() error {
	if p.Name != nil {
		if err := validateName(strings.TrimSpace(*p.Name)); err != nil {
			return err
		}
	}
	if p.Status != nil && !p.Status.IsValid() {
		return invalidStatus(*p.Status)
	}
	return validateNumbers(p.EstimatedCost, p.SustainabilityScore, p.SquareMeters)
}

// Apply copies the provided fields onto proj and refreshes its update timestamp
func (p Patch) Apply(proj *Project) {
	if p.Name != nil {
		proj.Name = strings.TrimSpace(*p.Name)
	}
	if p.Description != nil {
		proj.Description = *p.Description
	}
	if p.Status != nil {
		proj.Status = *p.Status
	}
	if p.EstimatedCost != nil {
		proj.EstimatedCost = p.EstimatedCost
	}
	if p.SustainabilityScore != nil {
		proj.SustainabilityScore = p.SustainabilityScore
	}
	if p.Location != nil {
		proj.Location = *p.Location
	}
	if p.ProjectType != nil {
		proj.ProjectType = *p.ProjectType
	}
	if p.SquareMeters != nil {
		proj.SquareMeters = p.SquareMeters
	}
	if p.BudgetRange != nil {
		proj.BudgetRange = *p.BudgetRange
	}
	if p.TargetCompletionDate != nil {
		proj.TargetCompletionDate = p.TargetCompletionDate
	}
	if p.SpecialRequirements != nil {
		proj.SpecialRequirements = *p.SpecialRequirements
	}
	if p.Metadata != nil {
		proj.Metadata = p.Metadata
	}
	proj.Touch()
}

// ListFilter narrows a project listing
type ListFilter struct {
	shared.Filter
	Status Status
}

// Stats summarises the project portfolio
type Stats struct {
	Total                      int64   `json:"total"`
	Active                     int64   `json:"active"`
	Completed                  int64   `json:"completed"`
	AverageSustainabilityScore float64 `json:"avg_sustainability_score"`
}

func validateName(name string) error {
	if name == "" {
		return shared.NewValidationError("name is required")
	}
	if utf8.RuneCountInString(name) > maxNameLength {
		return shared.NewValidationError("name cannot exceed 200 characters")
	}
	return nil
}

func validateNumbers(cost *decimal.Decimal, score *int, area *float64) error {
	if cost != nil && cost.IsNegative() {
		return shared.NewValidationError("estimated_cost cannot be negative")
	}
	if score != nil && (*score < 0 || *score > 100) {
		return shared.NewValidationError("sustainability_score must be between 0 and 100")
	}
	if area != nil && *area < 0 {
		return shared.NewValidationError("square_meters cannot be negative")
	}
	return nil
}

func invalidStatus(s Status) error {
	return shared.NewValidationError("invalid project status: " + string(s))
}

// ParseID parses a project identifier, reporting INVALID_INPUT on malformed input
func ParseID(raw string) (uuid.UUID, error) {
	id, err := uuid.Parse(raw)
	if err != nil {
		return uuid.Nil, shared.NewValidationError("invalid project id")
	}
	return id, nil
}
