package ai

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"math"
	"strings"
	"time"

	"github.com/nordvest/backend/internal/domain/financing"
	"github.com/nordvest/backend/internal/domain/plan"
	"github.com/nordvest/backend/internal/domain/project"
	"github.com/nordvest/backend/internal/domain/shared"
	"github.com/nordvest/backend/internal/domain/sustainability"
	"github.com/nordvest/backend/internal/infrastructure/telemetry"
	"github.com/shopspring/decimal"
	"github.com/tmc/langchaingo/llms"
	"go.uber.org/zap"
)

// Operation names used in logs, spans and metrics
const (
	OpGenerate       = "generate"
	OpStream         = "stream"
	OpSustainability = "sustainability"
	OpFinancing      = "financing"
	OpPlan           = "plan"
)

// Generator produces advice from a language model
type Generator struct {
	model       llms.Model
	provider    string
	modelName   string
	temperature float64
	maxTokens   int
	timeout     time.Duration
	jsonMode    bool
	logger      *zap.Logger
	instruments *telemetry.Instruments
	now         func() time.Time
}

// Option configures a Generator
type Option func(*Generator)

// WithLogger sets the logger
func WithLogger(logger *zap.Logger) Option {
	return func(g *Generator) {
		g.logger = logger
	}
}

// WithInstruments records call latency and outcomes
func WithInstruments(i *telemetry.Instruments) Option {
	return func(g *Generator) {
		g.instruments = i
	}
}

// WithTemperature sets the sampling temperature
func WithTemperature(t float64) Option {
	return func(g *Generator) {
		g.temperature = t
	}
}

// WithMaxTokens caps the length of each reply
func WithMaxTokens(n int) Option {
	return func(g *Generator) {
		g.maxTokens = n
	}
}

// WithTimeout bounds every model call
func WithTimeout(d time.Duration) Option {
	return func(g *Generator) {
		g.timeout = d
	}
}

// WithJSONMode toggles provider-side JSON mode for structured operations
func WithJSONMode(enabled bool) Option {
	return func(g *Generator) {
		g.jsonMode = enabled
	}
}

// WithClock overrides the time source used to stamp plans
func WithClock(now func() time.Time) Option {
	return func(g *Generator) {
		g.now = now
	}
}

// NewGenerator creates a Generator over model. provider and modelName are
// only used for telemetry.
func NewGenerator(model llms.Model, provider, modelName string, opts ...Option) *Generator {
	g := &Generator{
		model:       model,
		provider:    provider,
		modelName:   modelName,
		temperature: 0.7,
		maxTokens:   2000,
		timeout:     90 * time.Second,
		jsonMode:    true,
		logger:      zap.NewNop(),
		instruments: telemetry.NewNopInstruments(),
		now:         time.Now,
	}
	for _, opt := range opts {
		opt(g)
	}
	return g
}

// Generate answers prompt in a single call. projectCtx, when non-nil, is
// appended to the system prompt as JSON.
func (g *Generator) Generate(ctx context.Context, prompt string, projectCtx any) (string, error) {
	return g.call(ctx, OpGenerate, buildSystemPrompt(projectCtx), prompt, false, nil)
}

// Stream answers prompt incrementally, passing each chunk to onChunk as it
// arrives, and returns the complete text once the model has finished. An
// error from onChunk aborts the stream.
func (g *Generator) Stream(ctx context.Context, prompt string, projectCtx any, onChunk func(chunk string) error) (string, error) {
	var buf strings.Builder
	streamFn := func(_ context.Context, chunk []byte) error {
		buf.Write(chunk)
		if onChunk == nil {
			return nil
		}
		return onChunk(string(chunk))
	}

	text, err := g.call(ctx, OpStream, buildSystemPrompt(projectCtx), prompt, false, streamFn)
	if err != nil {
		return buf.String(), err
	}
	if buf.Len() > 0 {
		return buf.String(), nil
	}
	if strings.TrimSpace(text) == "" {
		g.logger.Error("AI stream produced no text")
		return "", fmt.Errorf("%w: empty stream", shared.ErrAIGeneration)
	}
	return text, nil
}

// AnalyzeSustainability scores a project and proposes improvements. Replies
// that are not valid JSON are mined for a score and advisory lines instead.
func (g *Generator) AnalyzeSustainability(ctx context.Context, snap project.Snapshot) (*sustainability.Analysis, error) {
	text, err := g.call(ctx, OpSustainability, systemPrompt, fmt.Sprintf(sustainabilityPrompt, encodeSnapshot(snap)), g.jsonMode, nil)
	if err != nil {
		return nil, err
	}

	analysis, perr := parseSustainability(text)
	if perr == nil {
		return analysis, nil
	}
	g.logger.Warn("Sustainability reply was not valid JSON, extracting heuristically",
		zap.String("project_id", snap.ID),
		zap.Error(perr),
	)
	g.instruments.RecordAIFallback(ctx, OpSustainability)
	return sustainabilityFromText(text), nil
}

// SuggestFinancing proposes financing options for a project. Replies that are
// not valid JSON are scanned for known schemes and NOK amounts instead.
func (g *Generator) SuggestFinancing(ctx context.Context, snap project.Snapshot) (*financing.Result, error) {
	text, err := g.call(ctx, OpFinancing, systemPrompt, fmt.Sprintf(financingPrompt, encodeSnapshot(snap)), g.jsonMode, nil)
	if err != nil {
		return nil, err
	}

	result, perr := parseFinancing(text)
	if perr == nil {
		return result, nil
	}
	g.logger.Warn("Financing reply was not valid JSON, extracting heuristically",
		zap.String("project_id", snap.ID),
		zap.Error(perr),
	)
	g.instruments.RecordAIFallback(ctx, OpFinancing)
	return financingFromText(text), nil
}

// GenerateProjectPlan produces a phased plan. Unlike the other structured
// operations a reply that does not parse is an error.
func (g *Generator) GenerateProjectPlan(ctx context.Context, snap project.Snapshot) (*plan.Plan, error) {
	text, err := g.call(ctx, OpPlan, systemPrompt, fmt.Sprintf(planPrompt, encodeSnapshot(snap)), g.jsonMode, nil)
	if err != nil {
		return nil, err
	}

	var reply planReply
	if err := json.Unmarshal([]byte(stripCodeFence(text)), &reply); err != nil {
		g.logger.Error("Project plan reply was not valid JSON",
			zap.String("project_id", snap.ID),
			zap.Int("reply_length", len(text)),
			zap.Error(err),
		)
		return nil, fmt.Errorf("%w: unparseable plan: %w", shared.ErrAIGeneration, err)
	}
	p := reply.toPlan()
	if err := p.Normalize(g.now()); err != nil {
		g.logger.Error("Project plan was incomplete", zap.String("project_id", snap.ID), zap.Error(err))
		return nil, fmt.Errorf("%w: %w", shared.ErrAIGeneration, err)
	}
	return p, nil
}

type planReply struct {
	plan.Plan
	Phases   []phaseReply  `json:"phases"`
	Timeline timelineReply `json:"timeline"`
}

type phaseReply struct {
	plan.Phase
	DurationWeeks json.Number `json:"duration_weeks"`
}

type timelineReply struct {
	TotalDurationWeeks json.Number      `json:"total_duration_weeks"`
	Milestones         []milestoneReply `json:"milestones"`
}

type milestoneReply struct {
	plan.Milestone
	Week json.Number `json:"week"`
}

func (r planReply) toPlan() *plan.Plan {
	p := r.Plan
	p.Phases = make([]plan.Phase, 0, len(r.Phases))
	for _, ph := range r.Phases {
		phase := ph.Phase
		phase.DurationWeeks, _ = wholeNumber(ph.DurationWeeks)
		p.Phases = append(p.Phases, phase)
	}
	p.Timeline.TotalDurationWeeks, _ = wholeNumber(r.Timeline.TotalDurationWeeks)
	if r.Timeline.Milestones != nil {
		p.Timeline.Milestones = make([]plan.Milestone, 0, len(r.Timeline.Milestones))
		for _, m := range r.Timeline.Milestones {
			milestone := m.Milestone
			milestone.Week, _ = wholeNumber(m.Week)
			p.Timeline.Milestones = append(p.Timeline.Milestones, milestone)
		}
	}
	return &p
}

func (g *Generator) call(
	ctx context.Context,
	op, system, prompt string,
	jsonMode bool,
	streamFn func(context.Context, []byte) error,
) (string, error) {
	ctx, cancel := context.WithTimeout(ctx, g.timeout)
	defer cancel()

	ctx, span := telemetry.StartServiceSpan(ctx, "ai", op,
		telemetry.SpanAttrAIOperation, op,
		telemetry.SpanAttrAIProvider, g.provider,
		telemetry.SpanAttrAIModel, g.modelName,
	)
	defer span.End()

	opts := []llms.CallOption{
		llms.WithTemperature(g.temperature),
		llms.WithMaxTokens(g.maxTokens),
	}
	if jsonMode {
		opts = append(opts, llms.WithJSONMode())
	}
	if streamFn != nil {
		opts = append(opts, llms.WithStreamingFunc(streamFn))
	}

	messages := []llms.MessageContent{
		llms.TextParts(llms.ChatMessageTypeSystem, system),
		llms.TextParts(llms.ChatMessageTypeHuman, prompt),
	}

	start := time.Now()
	resp, err := g.model.GenerateContent(ctx, messages, opts...)
	if err == nil && (resp == nil || len(resp.Choices) == 0) {
		err = errors.New("no response choices")
	}
	g.instruments.RecordAICall(ctx, op, time.Since(start), err)

	if err != nil {
		telemetry.RecordError(span, err)
		g.logger.Error("AI generation failed",
			zap.String("operation", op),
			zap.String("provider", g.provider),
			zap.String("model", g.modelName),
			zap.Duration("elapsed", time.Since(start)),
			zap.Error(err),
		)
		return "", fmt.Errorf("%w: %w", shared.ErrAIGeneration, err)
	}

	text := resp.Choices[0].Content
	if strings.TrimSpace(text) == "" && streamFn == nil {
		err := errors.New("empty response")
		telemetry.RecordError(span, err)
		g.logger.Error("AI generation returned empty text", zap.String("operation", op))
		return "", fmt.Errorf("%w: %w", shared.ErrAIGeneration, err)
	}
	return text, nil
}

func encodeSnapshot(snap project.Snapshot) string {
	b, err := json.Marshal(snap)
	if err != nil {
		return "{}"
	}
	return string(b)
}

type sustainabilityReply struct {
	OverallScore    json.Number       `json:"overall_score"`
	Analysis        string            `json:"analysis"`
	Recommendations []suggestionReply `json:"recommendations"`
}

// suggestionReply accepts fractional or quoted numbers where the domain
// type holds whole ones.
type suggestionReply struct {
	sustainability.Suggestion
	Priority  json.Number `json:"priority"`
	ROIMonths json.Number `json:"roi_months"`
}

func parseSustainability(text string) (*sustainability.Analysis, error) {
	var reply sustainabilityReply
	if err := json.Unmarshal([]byte(stripCodeFence(text)), &reply); err != nil {
		return nil, err
	}
	score, hasScore := wholeNumber(reply.OverallScore)
	if !hasScore && len(reply.Recommendations) == 0 {
		return nil, errors.New("reply has neither score nor recommendations")
	}
	if !hasScore {
		score = sustainability.DefaultScore
	}

	recs := make([]sustainability.Suggestion, 0, len(reply.Recommendations))
	for _, r := range reply.Recommendations {
		s := r.Suggestion
		priority, _ := wholeNumber(r.Priority)
		roi, _ := wholeNumber(r.ROIMonths)
		s.Priority = sustainability.ClampPriority(priority)
		s.ROIMonths = max(roi, 0)
		s.ImpactScore = sustainability.ClampImpact(s.ImpactScore)
		recs = append(recs, s)
	}
	return &sustainability.Analysis{
		OverallScore:    sustainability.ClampScore(score),
		Analysis:        reply.Analysis,
		Recommendations: recs,
		Structured:      true,
	}, nil
}

// wholeNumber rounds n to the nearest int. ok is false when n is absent or
// not finite.
func wholeNumber(n json.Number) (v int, ok bool) {
	if n == "" {
		return 0, false
	}
	f, err := n.Float64()
	if err != nil || math.IsNaN(f) || math.IsInf(f, 0) {
		return 0, false
	}
	return int(min(max(math.Round(f), math.MinInt32), math.MaxInt32)), true
}

func sustainabilityFromText(text string) *sustainability.Analysis {
	lines := extractRecommendations(text)
	recs := make([]sustainability.Suggestion, 0, len(lines))
	for i, line := range lines {
		recs = append(recs, sustainability.Suggestion{
			Category:    sustainability.CategoryGeneral,
			Description: line,
			Priority:    sustainability.ClampPriority(i + 1),
		})
	}
	return &sustainability.Analysis{
		OverallScore:    extractScore(text),
		Analysis:        text,
		Recommendations: recs,
	}
}

type financingReply struct {
	Analysis              string                     `json:"analysis"`
	TotalPotentialSavings *decimal.Decimal           `json:"total_potential_savings"`
	Suggestions           []financingSuggestionReply `json:"suggestions"`
}

type financingSuggestionReply struct {
	financing.Suggestion
	TermMonths         json.Number `json:"term_months"`
	EligibilityScore   json.Number `json:"eligibility_score"`
	ProcessingTimeDays json.Number `json:"processing_time_days"`
}

func parseFinancing(text string) (*financing.Result, error) {
	var reply financingReply
	if err := json.Unmarshal([]byte(stripCodeFence(text)), &reply); err != nil {
		return nil, err
	}
	if len(reply.Suggestions) == 0 && reply.Analysis == "" {
		return nil, errors.New("reply has no suggestions")
	}

	savings := financing.DefaultPotentialSavings
	if reply.TotalPotentialSavings != nil && reply.TotalPotentialSavings.IsPositive() {
		savings = financing.ClampSavings(*reply.TotalPotentialSavings)
	}
	suggestions := make([]financing.Suggestion, 0, len(reply.Suggestions))
	for _, r := range reply.Suggestions {
		s := r.Suggestion
		term, _ := wholeNumber(r.TermMonths)
		eligibility, _ := wholeNumber(r.EligibilityScore)
		days, _ := wholeNumber(r.ProcessingTimeDays)
		s.TermMonths = max(term, 0)
		s.EligibilityScore = financing.ClampEligibility(eligibility)
		s.ProcessingTimeDays = max(days, 0)
		suggestions = append(suggestions, s)
	}
	return &financing.Result{
		Analysis:              reply.Analysis,
		Suggestions:           suggestions,
		TotalPotentialSavings: savings,
		Structured:            true,
	}, nil
}

func financingFromText(text string) *financing.Result {
	types := detectFinancingTypes(text)
	suggestions := make([]financing.Suggestion, 0, len(types))
	for _, t := range types {
		suggestions = append(suggestions, fallbackSuggestion(t))
	}
	return &financing.Result{
		Analysis:              text,
		Suggestions:           suggestions,
		TotalPotentialSavings: estimateSavings(text),
	}
}

// fallbackSuggestion describes a well-known Norwegian scheme of type t
func fallbackSuggestion(t financing.Type) financing.Suggestion {
	s := financing.Suggestion{Type: t, Requirements: []string{}, Benefits: []string{}}
	switch t {
	case financing.TypeEnergyEfficiency:
		s.Title = "Enova-støtte"
		s.Description = "Støtte til energieffektivisering"
		s.Provider = "Enova SF"
		s.ApplicationURL = "https://www.enova.no"
		s.Amount = decimal.NewFromInt(50_000)
		s.EligibilityScore = 70
	case financing.TypeGreenLoan:
		s.Title = "Grønt lån"
		s.Description = "Redusert rente for miljøvennlige prosjekter"
		s.Provider = "Norske banker"
		s.EligibilityScore = 60
	case financing.TypeSustainabilityGrant:
		s.Title = "Kommunalt tilskudd"
		s.Description = "Tilskudd til klimatiltak fra kommunen"
		s.Provider = "Kommunen"
		s.EligibilityScore = 50
	case financing.TypeTaxIncentive:
		s.Title = "Skattefradrag"
		s.Description = "Fradrag for energitiltak og miljøinvesteringer"
		s.Provider = "Skatteetaten"
		s.EligibilityScore = 50
	case financing.TypeBusinessLoan:
		s.Title = "Leasing og bedriftslån"
		s.Description = "Alternativ finansiering av utstyr og installasjoner"
		s.Provider = "Finansieringsselskaper"
		s.EligibilityScore = 40
	}
	return s
}
