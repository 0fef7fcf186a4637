package analytics

import (
	"context"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/nordvest/backend/internal/domain/shared"
)

// Event types emitted by the application
const (
	EventProjectCreated                  = "project_created"
	EventProjectDeleted                  = "project_deleted"
	EventSustainabilityAnalysisRequested = "sustainability_analysis_requested"
	EventSustainabilityAnalysisCompleted = "sustainability_analysis_completed"
	EventFinancingSuggestionRequested    = "financing_suggestion_requested"
	EventFinancingSuggestionCompleted    = "financing_suggestion_completed"
	EventProjectPlanRequested            = "project_plan_requested"
	EventProjectPlanCompleted            = "project_plan_completed"
	EventChatMessage                     = "chat_message"
)

const maxEventTypeLength = 100

// Event is an append-only usage record
type Event struct {
	ID        uuid.UUID      `json:"id"`
	ProjectID uuid.UUID      `json:"project_id"`
	EventType string         `json:"event_type"`
	EventData map[string]any `json:"event_data"`
	UserAgent string         `json:"user_agent,omitempty"`
	IPAddress string         `json:"ip_address,omitempty"`
	CreatedAt time.Time      `json:"created_at"`
}

// NewEvent validates and creates an event
func NewEvent(projectID uuid.UUID, eventType string, data map[string]any) (*Event, error) {
	if projectID == uuid.Nil {
		return nil, shared.NewValidationError("projectId is required")
	}
	eventType = strings.TrimSpace(eventType)
	if eventType == "" {
		return nil, shared.NewValidationError("eventType is required")
	}
	if len(eventType) > maxEventTypeLength {
		return nil, shared.NewValidationError("eventType cannot exceed 100 characters")
	}
	if data == nil {
		data = map[string]any{}
	}
	return &Event{
		ID:        uuid.New(),
		ProjectID: projectID,
		EventType: eventType,
		EventData: data,
		CreatedAt: time.Now().UTC(),
	}, nil
}

// Query selects events by project or by type; at least one must be set.
type Query struct {
	ProjectID *uuid.UUID
	EventType string
	Limit     int
}

// Validate enforces that the query is scoped
func (q Query) Validate() error {
	if q.ProjectID == nil && q.EventType == "" {
		return shared.NewValidationError("projectId or eventType parameter required")
	}
	return nil
}

// Repository persists analytics events
type Repository interface {
	Create(ctx context.Context, e *Event) error
	// Find lists matching events, newest first
	Find(ctx context.Context, q Query) ([]Event, error)
	// CountByType counts events per type, optionally for one project
	CountByType(ctx context.Context, projectID *uuid.UUID) (map[string]int64, error)
}

// Recorder emits events as a best-effort side channel. Implementations
// must not block the caller or report failures.
type Recorder interface {
	Record(ctx context.Context, projectID uuid.UUID, eventType string, data map[string]any)
}

type clientKey struct{}

// ClientInfo identifies the caller that triggered an event
type ClientInfo struct {
	UserAgent string
	IPAddress string
}

// WithClientInfo attaches caller details to ctx for events recorded later
func WithClientInfo(ctx context.Context, info ClientInfo) context.Context {
	return context.WithValue(ctx, clientKey{}, info)
}

// ClientInfoFromContext returns the caller details stored in ctx, if any
func ClientInfoFromContext(ctx context.Context) ClientInfo {
	info, _ := ctx.Value(clientKey{}).(ClientInfo)
	return info
}
