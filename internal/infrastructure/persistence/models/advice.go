package models

import (
	"github.com/google/uuid"
	"github.com/nordvest/backend/internal/domain/financing"
	"github.com/nordvest/backend/internal/domain/sustainability"
	"github.com/shopspring/decimal"
)

// RecommendationModel is the persistence model for sustainability recommendations.
type RecommendationModel struct {
	BaseModel
	ProjectID             uuid.UUID             `gorm:"type:uuid;not null;index"`
	Category              string                `gorm:"type:varchar(50);not null"`
	Title                 string                `gorm:"type:varchar(255);not null"`
	Description           string                `gorm:"type:text;not null;default:''"`
	ImpactScore           float64               `gorm:"type:numeric(4,2);not null;default:0"`
	CostEstimate          decimal.Decimal       `gorm:"type:decimal(14,2);not null;default:0"`
	SavingsEstimate       decimal.Decimal       `gorm:"type:decimal(14,2);not null;default:0"`
	ImplementationTime    string                `gorm:"type:varchar(100);not null;default:''"`
	Priority              int                   `gorm:"type:smallint;not null;default:3"`
	Status                sustainability.Status `gorm:"type:varchar(20);not null;default:'pending'"`
	EnvironmentalImpact   string                `gorm:"type:text;not null;default:''"`
	ROIMonths             int                   `gorm:"column:roi_months;type:integer;not null;default:0"`
	CertificationEligible bool                  `gorm:"not null;default:false"`
}

// TableName returns the table name for GORM
func (RecommendationModel) TableName() string {
	return "sustainability_recommendations"
}

// ToDomain converts the persistence model to a domain Recommendation.
func (m *RecommendationModel) ToDomain() *sustainability.Recommendation {
	return &sustainability.Recommendation{
		BaseEntity:            m.BaseModel.ToDomain(),
		ProjectID:             m.ProjectID,
		Category:              m.Category,
		Title:                 m.Title,
		Description:           m.Description,
		ImpactScore:           m.ImpactScore,
		CostEstimate:          m.CostEstimate,
		SavingsEstimate:       m.SavingsEstimate,
		ImplementationTime:    m.ImplementationTime,
		Priority:              m.Priority,
		Status:                m.Status,
		EnvironmentalImpact:   m.EnvironmentalImpact,
		ROIMonths:             m.ROIMonths,
		CertificationEligible: m.CertificationEligible,
	}
}

// RecommendationModelFromDomain creates a persistence model from a domain Recommendation.
func RecommendationModelFromDomain(r *sustainability.Recommendation) *RecommendationModel {
	m := &RecommendationModel{
		ProjectID:             r.ProjectID,
		Category:              r.Category,
		Title:                 r.Title,
		Description:           r.Description,
		ImpactScore:           r.ImpactScore,
		CostEstimate:          r.CostEstimate,
		SavingsEstimate:       r.SavingsEstimate,
		ImplementationTime:    r.ImplementationTime,
		Priority:              r.Priority,
		Status:                r.Status,
		EnvironmentalImpact:   r.EnvironmentalImpact,
		ROIMonths:             r.ROIMonths,
		CertificationEligible: r.CertificationEligible,
	}
	m.FromDomainBaseEntity(r.BaseEntity)
	return m
}

// FinancingOptionModel is the persistence model for financing options.
type FinancingOptionModel struct {
	BaseModel
	ProjectID          uuid.UUID        `gorm:"type:uuid;not null;index"`
	Type               financing.Type   `gorm:"type:varchar(50);not null"`
	Title              string           `gorm:"type:varchar(255);not null"`
	Description        string           `gorm:"type:text;not null;default:''"`
	Amount             decimal.Decimal  `gorm:"type:decimal(14,2);not null;default:0"`
	InterestRate       *decimal.Decimal `gorm:"type:decimal(6,3)"`
	TermMonths         int              `gorm:"type:integer;not null;default:0"`
	Requirements       string           `gorm:"type:jsonb;not null;default:'[]'"`
	Benefits           string           `gorm:"type:jsonb;not null;default:'[]'"`
	Provider           string           `gorm:"type:varchar(255);not null;default:''"`
	ApplicationURL     string           `gorm:"column:application_url;type:varchar(500);not null;default:''"`
	Status             financing.Status `gorm:"type:varchar(20);not null;default:'available'"`
	EligibilityScore   int              `gorm:"type:integer;not null;default:0"`
	ProcessingTimeDays int              `gorm:"type:integer;not null;default:0"`
}

// TableName returns the table name for GORM
func (FinancingOptionModel) TableName() string {
	return "financing_options"
}

// ToDomain converts the persistence model to a domain Option.
func (m *FinancingOptionModel) ToDomain() *financing.Option {
	return &financing.Option{
		BaseEntity:         m.BaseModel.ToDomain(),
		ProjectID:          m.ProjectID,
		Type:               m.Type,
		Title:              m.Title,
		Description:        m.Description,
		Amount:             m.Amount,
		InterestRate:       m.InterestRate,
		TermMonths:         m.TermMonths,
		Requirements:       decodeStrings(m.Requirements),
		Benefits:           decodeStrings(m.Benefits),
		Provider:           m.Provider,
		ApplicationURL:     m.ApplicationURL,
		Status:             m.Status,
		EligibilityScore:   m.EligibilityScore,
		ProcessingTimeDays: m.ProcessingTimeDays,
	}
}

// FinancingOptionModelFromDomain creates a persistence model from a domain Option.
func FinancingOptionModelFromDomain(o *financing.Option) *FinancingOptionModel {
	m := &FinancingOptionModel{
		ProjectID:          o.ProjectID,
		Type:               o.Type,
		Title:              o.Title,
		Description:        o.Description,
		Amount:             o.Amount,
		InterestRate:       o.InterestRate,
		TermMonths:         o.TermMonths,
		Requirements:       EncodeJSON(o.Requirements, "[]"),
		Benefits:           EncodeJSON(o.Benefits, "[]"),
		Provider:           o.Provider,
		ApplicationURL:     o.ApplicationURL,
		Status:             o.Status,
		EligibilityScore:   o.EligibilityScore,
		ProcessingTimeDays: o.ProcessingTimeDays,
	}
	m.FromDomainBaseEntity(o.BaseEntity)
	return m
}
