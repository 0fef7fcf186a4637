package dto

import (
	"time"

	"github.com/nordvest/backend/internal/domain/project"
	"github.com/nordvest/backend/internal/domain/shared"
	"github.com/shopspring/decimal"
)

// CreateProjectRequest represents a request to create a project
type CreateProjectRequest struct {
	Name                 string           `json:"name" binding:"required,max=200"`
	Description          string           `json:"description"`
	Status               string           `json:"status" binding:"omitempty,project_status"`
	EstimatedCost        *decimal.Decimal `json:"estimated_cost"`
	SustainabilityScore  *int             `json:"sustainability_score" binding:"omitempty,min=0,max=100"`
	Location             string           `json:"location" binding:"max=255"`
	ProjectType          string           `json:"project_type" binding:"max=100"`
	SquareMeters         *float64         `json:"square_meters" binding:"omitempty,min=0"`
	BudgetRange          string           `json:"budget_range" binding:"max=100"`
	TargetCompletionDate *time.Time       `json:"target_completion_date"`
	SpecialRequirements  []string         `json:"special_requirements"`
	Metadata             map[string]any   `json:"metadata"`
}

// ToDomain builds a validated project from the request
func (r CreateProjectRequest) ToDomain() (*project.Project, error) {
	p, err := project.NewProject(r.Name, r.Description, project.Status(r.Status))
	if err != nil {
		return nil, err
	}
	p.EstimatedCost = r.EstimatedCost
	p.SustainabilityScore = r.SustainabilityScore
	p.Location = r.Location
	p.ProjectType = r.ProjectType
	p.SquareMeters = r.SquareMeters
	p.BudgetRange = r.BudgetRange
	p.TargetCompletionDate = r.TargetCompletionDate
	if r.SpecialRequirements != nil {
		p.SpecialRequirements = r.SpecialRequirements
	}
	if r.Metadata != nil {
		p.Metadata = r.Metadata
	}
	if err := p.Validate(); err != nil {
		return nil, err
	}
	return p, nil
}

// UpdateProjectRequest represents a partial update. Omitted fields are left unchanged.
type UpdateProjectRequest struct {
	Name                 *string          `json:"name" binding:"omitempty,min=1,max=200"`
	Description          *string          `json:"description"`
	Status               *string          `json:"status" binding:"omitempty,project_status"`
	EstimatedCost        *decimal.Decimal `json:"estimated_cost"`
	SustainabilityScore  *int             `json:"sustainability_score" binding:"omitempty,min=0,max=100"`
	Location             *string          `json:"location" binding:"omitempty,max=255"`
	ProjectType          *string          `json:"project_type" binding:"omitempty,max=100"`
	SquareMeters         *float64         `json:"square_meters" binding:"omitempty,min=0"`
	BudgetRange          *string          `json:"budget_range" binding:"omitempty,max=100"`
	TargetCompletionDate *time.Time       `json:"target_completion_date"`
	SpecialRequirements  *[]string        `json:"special_requirements"`
	Metadata             map[string]any   `json:"metadata"`
}

// ToPatch converts the request into a domain patch
func (r UpdateProjectRequest) ToPatch() project.Patch {
	patch := project.Patch{
		Name:                 r.Name,
		Description:          r.Description,
		EstimatedCost:        r.EstimatedCost,
		SustainabilityScore:  r.SustainabilityScore,
		Location:             r.Location,
		ProjectType:          r.ProjectType,
		SquareMeters:         r.SquareMeters,
		BudgetRange:          r.BudgetRange,
		TargetCompletionDate: r.TargetCompletionDate,
		SpecialRequirements:  r.SpecialRequirements,
		Metadata:             r.Metadata,
	}
	if r.Status != nil {
		s := project.Status(*r.Status)
		patch.Status = &s
	}
	return patch
}

// ProjectListQuery holds the listing query parameters
type ProjectListQuery struct {
	Status string `form:"status" binding:"omitempty,project_status"`
	Limit  int    `form:"limit" binding:"omitempty,min=1,max=500"`
	Offset int    `form:"offset" binding:"omitempty,min=0"`
}

// ToFilter converts the query into a list filter
func (q ProjectListQuery) ToFilter() project.ListFilter {
	return project.ListFilter{
		Filter: shared.Filter{Limit: q.Limit, Offset: q.Offset}.Normalized(),
		Status: project.Status(q.Status),
	}
}
