package models

import (
	"time"

	"github.com/google/uuid"
	"github.com/nordvest/backend/internal/domain/analytics"
)

// AnalyticsEventModel is the persistence model for analytics events.
type AnalyticsEventModel struct {
	ID        uuid.UUID `gorm:"type:uuid;primary_key"`
	ProjectID uuid.UUID `gorm:"type:uuid;not null;index"`
	EventType string    `gorm:"type:varchar(100);not null;index"`
	EventData string    `gorm:"type:jsonb;not null;default:'{}'"`
	UserAgent string    `gorm:"type:text;not null;default:''"`
	IPAddress string    `gorm:"column:ip_address;type:varchar(64);not null;default:''"`
	CreatedAt time.Time `gorm:"not null;index"`
}

// TableName returns the table name for GORM
func (AnalyticsEventModel) TableName() string {
	return "analytics_events"
}

// ToDomain converts the persistence model to a domain Event.
func (m *AnalyticsEventModel) ToDomain() *analytics.Event {
	return &analytics.Event{
		ID:        m.ID,
		ProjectID: m.ProjectID,
		EventType: m.EventType,
		EventData: decodeMap(m.EventData),
		UserAgent: m.UserAgent,
		IPAddress: m.IPAddress,
		CreatedAt: m.CreatedAt.UTC(),
	}
}

// AnalyticsEventModelFromDomain creates a persistence model from a domain Event.
func AnalyticsEventModelFromDomain(e *analytics.Event) *AnalyticsEventModel {
	return &AnalyticsEventModel{
		ID:        e.ID,
		ProjectID: e.ProjectID,
		EventType: e.EventType,
		EventData: EncodeJSON(e.EventData, "{}"),
		UserAgent: e.UserAgent,
		IPAddress: e.IPAddress,
		CreatedAt: e.CreatedAt,
	}
}
