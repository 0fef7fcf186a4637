package handler

import (
	"context"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/nordvest/backend/internal/infrastructure/logger"
	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"
)

// Health statuses
const (
	StatusHealthy   = "healthy"
	StatusUnhealthy = "unhealthy"
)

// Pinger is a dependency that can report its reachability
type Pinger interface {
	Ping(ctx context.Context) error
}

// HealthHandler reports the health of the service and its dependencies
type HealthHandler struct {
	BaseHandler
	database    Pinger
	cache       Pinger
	version     string
	environment string
	timeout     time.Duration
	now         func() time.Time
}

// NewHealthHandler creates a new HealthHandler. Each dependency probe is
// bounded by timeout.
func NewHealthHandler(database, cache Pinger, version, environment string, timeout time.Duration) *HealthHandler {
	if timeout <= 0 {
		timeout = 3 * time.Second
	}
	return &HealthHandler{
		database:    database,
		cache:       cache,
		version:     version,
		environment: environment,
		timeout:     timeout,
		now:         time.Now,
	}
}

// ServiceHealth is the status of one dependency
type ServiceHealth struct {
	Status    string `json:"status"`
	LatencyMS int64  `json:"latency_ms"`
	Error     string `json:"error,omitempty"`
}

// HealthResponse is the body of GET /api/health
type HealthResponse struct {
	Status      string                   `json:"status"`
	Timestamp   string                   `json:"timestamp"`
	Services    map[string]ServiceHealth `json:"services"`
	Version     string                   `json:"version"`
	Environment string                   `json:"environment"`
}

// Health handles GET /api/health. Database and cache are probed
// concurrently; the answer is 200 when both are healthy and 503 otherwise.
func (h *HealthHandler) Health(c *gin.Context) {
	ctx, cancel := context.WithTimeout(c.Request.Context(), h.timeout)
	defer cancel()

	var database, cache ServiceHealth
	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		database = probe(gctx, h.database)
		return nil
	})
	g.Go(func() error {
		cache = probe(gctx, h.cache)
		return nil
	})
	_ = g.Wait()

	resp := HealthResponse{
		Status:    StatusHealthy,
		Timestamp: h.now().UTC().Format(time.RFC3339),
		Services: map[string]ServiceHealth{
			"database": database,
			"redis":    cache,
		},
		Version:     h.version,
		Environment: h.environment,
	}

	status := http.StatusOK
	if database.Status != StatusHealthy || cache.Status != StatusHealthy {
		resp.Status = StatusUnhealthy
		status = http.StatusServiceUnavailable
		logger.GetGinLogger(c).Warn("Health check failed",
			zap.String("database", database.Status),
			zap.String("redis", cache.Status),
		)
	}

	c.JSON(status, resp)
}

// Ping handles GET /api/ping, a liveness probe that touches no dependency
func (h *HealthHandler) Ping(c *gin.Context) {
	h.Success(c, gin.H{
		"message":   "pong",
		"timestamp": h.now().UTC().Format(time.RFC3339),
	})
}

func probe(ctx context.Context, p Pinger) ServiceHealth {
	if p == nil {
		return ServiceHealth{Status: StatusUnhealthy, Error: "not configured"}
	}
	start := time.Now()
	err := p.Ping(ctx)
	health := ServiceHealth{Status: StatusHealthy, LatencyMS: time.Since(start).Milliseconds()}
	if err != nil {
		health.Status = StatusUnhealthy
		health.Error = "unreachable"
	}
	return health
}
