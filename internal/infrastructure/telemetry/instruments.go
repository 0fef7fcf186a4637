package telemetry

import (
	"context"
	"fmt"
	"time"

	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/metric"
	"go.opentelemetry.io/otel/metric/noop"
)

// Metric attribute keys
var (
	AttrResource  = attribute.Key("cache.resource")
	AttrResult    = attribute.Key("result")
	AttrOperation = attribute.Key("ai.operation")
	AttrOutcome   = attribute.Key("outcome")
	AttrEventType = attribute.Key("event_type")
)

// DurationBuckets are histogram boundaries in seconds for slow upstream
// calls such as language model requests.
var DurationBuckets = []float64{0.05, 0.1, 0.25, 0.5, 1, 2.5, 5, 10, 20, 30, 60}

// AI call outcomes
const (
	OutcomeSuccess  = "success"
	OutcomeError    = "error"
	OutcomeFallback = "fallback"
)

// Instruments holds the application's metric instruments. It satisfies the
// read-through cache recorder interface.
type Instruments struct {
	cacheLookups    metric.Int64Counter
	aiRequests      metric.Int64Counter
	aiDuration      metric.Float64Histogram
	analyticsEvents metric.Int64Counter
}

// NewInstruments creates every instrument on meter.
func NewInstruments(meter metric.Meter) (*Instruments, error) {
	cacheLookups, err := meter.Int64Counter("cache.lookups",
		metric.WithDescription("Read-through cache lookups by result"),
		metric.WithUnit("{lookup}"),
	)
	if err != nil {
		return nil, fmt.Errorf("failed to create counter cache.lookups: %w", err)
	}

	aiRequests, err := meter.Int64Counter("ai.requests",
		metric.WithDescription("Language model requests by operation and outcome"),
		metric.WithUnit("{request}"),
	)
	if err != nil {
		return nil, fmt.Errorf("failed to create counter ai.requests: %w", err)
	}

	aiDuration, err := meter.Float64Histogram("ai.request.duration",
		metric.WithDescription("Language model request latency"),
		metric.WithUnit("s"),
		metric.WithExplicitBucketBoundaries(DurationBuckets...),
	)
	if err != nil {
		return nil, fmt.Errorf("failed to create histogram ai.request.duration: %w", err)
	}

	analyticsEvents, err := meter.Int64Counter("analytics.events",
		metric.WithDescription("Analytics events by type and outcome"),
		metric.WithUnit("{event}"),
	)
	if err != nil {
		return nil, fmt.Errorf("failed to create counter analytics.events: %w", err)
	}

	return &Instruments{
		cacheLookups:    cacheLookups,
		aiRequests:      aiRequests,
		aiDuration:      aiDuration,
		analyticsEvents: analyticsEvents,
	}, nil
}

// NewNopInstruments returns instruments that record nothing.
func NewNopInstruments() *Instruments {
	i, _ := NewInstruments(noop.NewMeterProvider().Meter(TracerName))
	return i
}

// CacheHit counts a cache hit for resource.
func (i *Instruments) CacheHit(ctx context.Context, resource string) {
	i.cacheLookups.Add(ctx, 1, metric.WithAttributes(AttrResource.String(resource), AttrResult.String("hit")))
}

// CacheMiss counts a cache miss for resource.
func (i *Instruments) CacheMiss(ctx context.Context, resource string) {
	i.cacheLookups.Add(ctx, 1, metric.WithAttributes(AttrResource.String(resource), AttrResult.String("miss")))
}

// RecordAICall records the latency and outcome of one language model call.
func (i *Instruments) RecordAICall(ctx context.Context, operation string, elapsed time.Duration, err error) {
	outcome := OutcomeSuccess
	if err != nil {
		outcome = OutcomeError
	}
	attrs := metric.WithAttributes(AttrOperation.String(operation), AttrOutcome.String(outcome))
	i.aiRequests.Add(ctx, 1, attrs)
	i.aiDuration.Record(ctx, elapsed.Seconds(), attrs)
}

// RecordAIFallback counts a response that had to be recovered heuristically
// or replaced by a canned answer.
func (i *Instruments) RecordAIFallback(ctx context.Context, operation string) {
	i.aiRequests.Add(ctx, 1, metric.WithAttributes(AttrOperation.String(operation), AttrOutcome.String(OutcomeFallback)))
}

// RecordAnalyticsEvent counts an analytics write; failed writes are "dropped".
func (i *Instruments) RecordAnalyticsEvent(ctx context.Context, eventType string, err error) {
	outcome := "recorded"
	if err != nil {
		outcome = "dropped"
	}
	i.analyticsEvents.Add(ctx, 1, metric.WithAttributes(AttrEventType.String(eventType), AttrOutcome.String(outcome)))
}
