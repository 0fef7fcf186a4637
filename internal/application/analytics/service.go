// Package analytics records and queries coarse usage events.
package analytics

import (
	"context"

	"github.com/google/uuid"
	"github.com/nordvest/backend/internal/domain/analytics"
	"github.com/nordvest/backend/internal/domain/shared"
	"go.uber.org/zap"
)

// QueryRequest selects events by project or type
type QueryRequest struct {
	ProjectID string `form:"projectId" binding:"omitempty,uuid"`
	EventType string `form:"eventType" binding:"omitempty,max=100"`
	Limit     int    `form:"limit" binding:"omitempty,min=1"`
}

// AppendRequest is an event submitted by a client
type AppendRequest struct {
	ProjectID string         `json:"projectId" binding:"required,uuid"`
	EventType string         `json:"eventType" binding:"required,max=100"`
	EventData map[string]any `json:"eventData"`
}

// Summary counts events per type
type Summary struct {
	ProjectID *uuid.UUID       `json:"project_id,omitempty"`
	Total     int64            `json:"total"`
	ByType    map[string]int64 `json:"by_type"`
}

// Service answers analytics queries
type Service struct {
	repo         analytics.Repository
	defaultLimit int
	logger       *zap.Logger
}

// NewService creates a Service. A non-positive defaultLimit falls back to
// the shared default page size.
func NewService(repo analytics.Repository, defaultLimit int, logger *zap.Logger) *Service {
	if defaultLimit <= 0 {
		defaultLimit = shared.DefaultLimit
	}
	return &Service{
		repo:         repo,
		defaultLimit: defaultLimit,
		logger:       logger,
	}
}

// Query lists events newest first
func (s *Service) Query(ctx context.Context, req QueryRequest) ([]analytics.Event, error) {
	q := analytics.Query{EventType: req.EventType, Limit: req.Limit}
	if req.ProjectID != "" {
		id, err := uuid.Parse(req.ProjectID)
		if err != nil {
			return nil, shared.NewValidationError("invalid projectId")
		}
		q.ProjectID = &id
	}
	if err := q.Validate(); err != nil {
		return nil, err
	}
	if q.Limit <= 0 {
		q.Limit = s.defaultLimit
	}

	events, err := s.repo.Find(ctx, q)
	if err != nil {
		s.logger.Error("Failed to query analytics events", zap.Error(err))
		return nil, err
	}
	return events, nil
}

// Append stores a client-submitted event synchronously
func (s *Service) Append(ctx context.Context, req AppendRequest) (*analytics.Event, error) {
	id, err := uuid.Parse(req.ProjectID)
	if err != nil {
		return nil, shared.NewValidationError("invalid projectId")
	}
	event, err := analytics.NewEvent(id, req.EventType, req.EventData)
	if err != nil {
		return nil, err
	}
	client := analytics.ClientInfoFromContext(ctx)
	event.UserAgent = client.UserAgent
	event.IPAddress = client.IPAddress

	if err := s.repo.Create(ctx, event); err != nil {
		s.logger.Error("Failed to append analytics event",
			zap.String("event_type", event.EventType),
			zap.Error(err),
		)
		return nil, err
	}
	return event, nil
}

// Summary counts events per type, optionally for a single project
func (s *Service) Summary(ctx context.Context, projectID *uuid.UUID) (*Summary, error) {
	counts, err := s.repo.CountByType(ctx, projectID)
	if err != nil {
		s.logger.Error("Failed to summarise analytics events", zap.Error(err))
		return nil, err
	}

	summary := &Summary{ProjectID: projectID, ByType: counts}
	if summary.ByType == nil {
		summary.ByType = map[string]int64{}
	}
	for _, n := range summary.ByType {
		summary.Total += n
	}
	return summary, nil
}
