package handler

import (
	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	analyticsapp "github.com/nordvest/backend/internal/application/analytics"
)

// AnalyticsHandler handles usage event endpoints
type AnalyticsHandler struct {
	BaseHandler
	analyticsService *analyticsapp.Service
}

// NewAnalyticsHandler creates a new AnalyticsHandler
func NewAnalyticsHandler(analyticsService *analyticsapp.Service) *AnalyticsHandler {
	return &AnalyticsHandler{
		analyticsService: analyticsService,
	}
}

// SummaryQuery optionally restricts the summary to one project
type SummaryQuery struct {
	ProjectID string `form:"projectId" binding:"omitempty,uuid"`
}

// Query handles GET /api/analytics?projectId=&eventType=&limit=
func (h *AnalyticsHandler) Query(c *gin.Context) {
	var req analyticsapp.QueryRequest
	if err := c.ShouldBindQuery(&req); err != nil {
		h.BindError(c, err)
		return
	}

	events, err := h.analyticsService.Query(c.Request.Context(), req)
	if err != nil {
		h.HandleError(c, err)
		return
	}

	h.Success(c, events)
}

// Append handles POST /api/analytics
func (h *AnalyticsHandler) Append(c *gin.Context) {
	var req analyticsapp.AppendRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.BindError(c, err)
		return
	}

	event, err := h.analyticsService.Append(c.Request.Context(), req)
	if err != nil {
		h.HandleError(c, err)
		return
	}

	h.Created(c, event)
}

// Summary handles GET /api/analytics/summary?projectId=
func (h *AnalyticsHandler) Summary(c *gin.Context) {
	var query SummaryQuery
	if err := c.ShouldBindQuery(&query); err != nil {
		h.BindError(c, err)
		return
	}

	var projectID *uuid.UUID
	if query.ProjectID != "" {
		id := uuid.MustParse(query.ProjectID)
		projectID = &id
	}

	summary, err := h.analyticsService.Summary(c.Request.Context(), projectID)
	if err != nil {
		h.HandleError(c, err)
		return
	}

	h.Success(c, summary)
}
