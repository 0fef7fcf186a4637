package models

import (
	"strings"
	"time"

	"github.com/nordvest/backend/internal/domain/project"
	"github.com/shopspring/decimal"
)

// ProjectModel is the persistence model for the Project domain entity.
type ProjectModel struct {
	BaseModel
	Name                 string           `gorm:"type:varchar(200);not null"`
	Description          string           `gorm:"type:text;not null;default:''"`
	Status               project.Status   `gorm:"type:varchar(20);not null;default:'draft';index"`
	EstimatedCost        *decimal.Decimal `gorm:"type:decimal(14,2)"`
	SustainabilityScore  *int             `gorm:"type:integer"`
	Location             string           `gorm:"type:varchar(255);not null;default:''"`
	ProjectType          string           `gorm:"type:varchar(100);not null;default:''"`
	SquareMeters         *float64         `gorm:"type:numeric(10,2)"`
	BudgetRange          string           `gorm:"type:varchar(100);not null;default:''"`
	TargetCompletionDate *time.Time       `gorm:"type:date"`
	SpecialRequirements  string           `gorm:"type:jsonb;not null;default:'[]'"`
	Metadata             string           `gorm:"type:jsonb;not null;default:'{}'"`
}

// TableName returns the table name for GORM
func (ProjectModel) TableName() string {
	return "projects"
}

// ToDomain converts the persistence model to a domain Project entity.
func (m *ProjectModel) ToDomain() *project.Project {
	return &project.Project{
		BaseEntity:           m.BaseModel.ToDomain(),
		Name:                 m.Name,
		Description:          m.Description,
		Status:               m.Status,
		EstimatedCost:        m.EstimatedCost,
		SustainabilityScore:  m.SustainabilityScore,
		Location:             m.Location,
		ProjectType:          m.ProjectType,
		SquareMeters:         m.SquareMeters,
		BudgetRange:          m.BudgetRange,
		TargetCompletionDate: m.TargetCompletionDate,
		SpecialRequirements:  decodeStrings(m.SpecialRequirements),
		Metadata:             decodeMap(m.Metadata),
	}
}

// FromDomain populates the persistence model from a domain Project entity.
func (m *ProjectModel) FromDomain(p *project.Project) {
	m.FromDomainBaseEntity(p.BaseEntity)
	m.Name = p.Name
	m.Description = p.Description
	m.Status = p.Status
	m.EstimatedCost = p.EstimatedCost
	m.SustainabilityScore = p.SustainabilityScore
	m.Location = p.Location
	m.ProjectType = p.ProjectType
	m.SquareMeters = p.SquareMeters
	m.BudgetRange = p.BudgetRange
	m.TargetCompletionDate = p.TargetCompletionDate
	m.SpecialRequirements = EncodeJSON(p.SpecialRequirements, "[]")
	m.Metadata = EncodeJSON(p.Metadata, "{}")
}

// ProjectModelFromDomain creates a new persistence model from a domain Project entity.
func ProjectModelFromDomain(p *project.Project) *ProjectModel {
	m := &ProjectModel{}
	m.FromDomain(p)
	return m
}

// PatchColumns maps the non-nil fields of a patch to column updates
func PatchColumns(patch project.Patch) map[string]any {
	cols := map[string]any{}
	if patch.Name != nil {
		cols["name"] = strings.TrimSpace(*patch.Name)
	}
	if patch.Description != nil {
		cols["description"] = *patch.Description
	}
	if patch.Status != nil {
		cols["status"] = *patch.Status
	}
	if patch.EstimatedCost != nil {
		cols["estimated_cost"] = *patch.EstimatedCost
	}
	if patch.SustainabilityScore != nil {
		cols["sustainability_score"] = *patch.SustainabilityScore
	}
	if patch.Location != nil {
		cols["location"] = *patch.Location
	}
	if patch.ProjectType != nil {
		cols["project_type"] = *patch.ProjectType
	}
	if patch.SquareMeters != nil {
		cols["square_meters"] = *patch.SquareMeters
	}
	if patch.BudgetRange != nil {
		cols["budget_range"] = *patch.BudgetRange
	}
	if patch.TargetCompletionDate != nil {
		cols["target_completion_date"] = *patch.TargetCompletionDate
	}
	if patch.SpecialRequirements != nil {
		cols["special_requirements"] = EncodeJSON(*patch.SpecialRequirements, "[]")
	}
	if patch.Metadata != nil {
		cols["metadata"] = EncodeJSON(patch.Metadata, "{}")
	}
	return cols
}
