package handler

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/nordvest/backend/internal/application/advisory"
	"github.com/nordvest/backend/internal/domain/financing"
	"github.com/nordvest/backend/internal/interfaces/http/dto"
)

// AdvisoryHandler handles the AI advice endpoints: sustainability,
// financing and project plans
type AdvisoryHandler struct {
	BaseHandler
	advisoryService *advisory.Service
}

// NewAdvisoryHandler creates a new AdvisoryHandler
func NewAdvisoryHandler(advisoryService *advisory.Service) *AdvisoryHandler {
	return &AdvisoryHandler{
		advisoryService: advisoryService,
	}
}

// FinancingListQuery narrows the stored financing options
type FinancingListQuery struct {
	Type string `form:"type" binding:"omitempty,financing_type"`
}

// ListSustainability handles GET /api/projects/:id/sustainability
func (h *AdvisoryHandler) ListSustainability(c *gin.Context) {
	id, ok := h.projectID(c)
	if !ok {
		return
	}

	recommendations, err := h.advisoryService.ListRecommendations(c.Request.Context(), id)
	if err != nil {
		h.HandleError(c, err)
		return
	}

	h.Success(c, recommendations)
}

// AnalyzeSustainability handles POST /api/projects/:id/sustainability
func (h *AdvisoryHandler) AnalyzeSustainability(c *gin.Context) {
	id, ok := h.projectID(c)
	if !ok {
		return
	}

	report, err := h.advisoryService.AnalyzeSustainability(c.Request.Context(), id)
	if err != nil {
		h.HandleError(c, err)
		return
	}

	h.Success(c, report)
}

// ListFinancing handles GET /api/projects/:id/financing?type=
func (h *AdvisoryHandler) ListFinancing(c *gin.Context) {
	id, ok := h.projectID(c)
	if !ok {
		return
	}

	var query FinancingListQuery
	if err := c.ShouldBindQuery(&query); err != nil {
		h.BindError(c, err)
		return
	}

	options, err := h.advisoryService.ListFinancingOptions(c.Request.Context(), id, financing.Type(query.Type))
	if err != nil {
		h.HandleError(c, err)
		return
	}

	h.Success(c, options)
}

// SuggestFinancing handles POST /api/projects/:id/financing
func (h *AdvisoryHandler) SuggestFinancing(c *gin.Context) {
	id, ok := h.projectID(c)
	if !ok {
		return
	}

	report, err := h.advisoryService.SuggestFinancing(c.Request.Context(), id)
	if err != nil {
		h.HandleError(c, err)
		return
	}

	h.Success(c, report)
}

// GetPlan handles GET /api/projects/:id/plan. Without a generated plan the
// response carries no data and a hint to POST instead.
func (h *AdvisoryHandler) GetPlan(c *gin.Context) {
	id, ok := h.projectID(c)
	if !ok {
		return
	}

	p, err := h.advisoryService.GetPlan(c.Request.Context(), id)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	if p == nil {
		c.JSON(http.StatusOK, dto.NewMessageResponse(advisory.NoPlanMessage))
		return
	}

	h.Success(c, p)
}

// GeneratePlan handles POST /api/projects/:id/plan
func (h *AdvisoryHandler) GeneratePlan(c *gin.Context) {
	id, ok := h.projectID(c)
	if !ok {
		return
	}

	p, err := h.advisoryService.GeneratePlan(c.Request.Context(), id)
	if err != nil {
		h.HandleError(c, err)
		return
	}

	h.Success(c, p)
}

// AnalyzeProjectData handles POST /api/sustainability/analyze
func (h *AdvisoryHandler) AnalyzeProjectData(c *gin.Context) {
	var req advisory.ProjectDataRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.BindError(c, err)
		return
	}

	analysis, err := h.advisoryService.AnalyzeProjectData(c.Request.Context(), req)
	if err != nil {
		h.HandleError(c, err)
		return
	}

	h.Success(c, analysis)
}

// SuggestForProjectData handles POST /api/financing/suggest
func (h *AdvisoryHandler) SuggestForProjectData(c *gin.Context) {
	var req advisory.ProjectDataRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.BindError(c, err)
		return
	}

	result, err := h.advisoryService.SuggestForProjectData(c.Request.Context(), req)
	if err != nil {
		h.HandleError(c, err)
		return
	}

	h.Success(c, result)
}
