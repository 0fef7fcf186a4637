package analytics

import (
	"context"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/nordvest/backend/internal/domain/analytics"
	"github.com/nordvest/backend/internal/infrastructure/telemetry"
	"go.uber.org/zap"
)

const defaultWriteTimeout = 5 * time.Second

// Recorder appends analytics events in the background. Recording never
// blocks or fails the request that triggered it.
type Recorder struct {
	repo        analytics.Repository
	logger      *zap.Logger
	instruments *telemetry.Instruments
	timeout     time.Duration
	enabled     bool
	wg          sync.WaitGroup
}

// RecorderOption configures a Recorder
type RecorderOption func(*Recorder)

// WithWriteTimeout bounds each background append
func WithWriteTimeout(d time.Duration) RecorderOption {
	return func(r *Recorder) {
		if d > 0 {
			r.timeout = d
		}
	}
}

// WithInstruments records event outcomes as metrics
func WithInstruments(i *telemetry.Instruments) RecorderOption {
	return func(r *Recorder) {
		if i != nil {
			r.instruments = i
		}
	}
}

// WithEnabled turns recording on or off
func WithEnabled(enabled bool) RecorderOption {
	return func(r *Recorder) {
		r.enabled = enabled
	}
}

// NewRecorder creates a Recorder writing to repo
func NewRecorder(repo analytics.Repository, logger *zap.Logger, opts ...RecorderOption) *Recorder {
	r := &Recorder{
		repo:        repo,
		logger:      logger,
		instruments: telemetry.NewNopInstruments(),
		timeout:     defaultWriteTimeout,
		enabled:     true,
	}
	for _, opt := range opts {
		opt(r)
	}
	return r
}

// Record implements analytics.Recorder. The write runs on a context detached
// from ctx so it survives the end of the request.
func (r *Recorder) Record(ctx context.Context, projectID uuid.UUID, eventType string, data map[string]any) {
	if !r.enabled {
		return
	}

	event, err := analytics.NewEvent(projectID, eventType, data)
	if err != nil {
		r.logger.Warn("Dropping invalid analytics event",
			zap.String("event_type", eventType),
			zap.Error(err),
		)
		return
	}
	client := analytics.ClientInfoFromContext(ctx)
	event.UserAgent = client.UserAgent
	event.IPAddress = client.IPAddress

	detached := context.WithoutCancel(ctx)
	r.wg.Add(1)
	go func() {
		defer r.wg.Done()
		writeCtx, cancel := context.WithTimeout(detached, r.timeout)
		defer cancel()

		err := r.repo.Create(writeCtx, event)
		r.instruments.RecordAnalyticsEvent(writeCtx, event.EventType, err)
		if err != nil {
			r.logger.Warn("Failed to record analytics event",
				zap.String("event_type", event.EventType),
				zap.String("project_id", event.ProjectID.String()),
				zap.Error(err),
			)
		}
	}()
}

// Drain waits for pending writes until ctx is done
func (r *Recorder) Drain(ctx context.Context) error {
	done := make(chan struct{})
	go func() {
		r.wg.Wait()
		close(done)
	}()

	select {
	case <-done:
		return nil
	case <-ctx.Done():
		return ctx.Err()
	}
}

var _ analytics.Recorder = (*Recorder)(nil)
