// Package router assembles the HTTP engine: the middleware chain and the
// route table of the public API.
package router

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/nordvest/backend/internal/infrastructure/logger"
	"github.com/nordvest/backend/internal/interfaces/http/dto"
	"github.com/nordvest/backend/internal/interfaces/http/handler"
	"github.com/nordvest/backend/internal/interfaces/http/middleware"
	"go.opentelemetry.io/otel/metric"
	"go.uber.org/zap"
)

// multipartOverhead is the allowance for multipart framing on top of the
// largest accepted file
const multipartOverhead = 1 << 20

// probePaths are polled by load balancers; they are neither traced nor
// logged above debug level when healthy
var probePaths = []string{"/api/health", "/api/ping"}

// RouteRegistrar defines the interface for registering routes
type RouteRegistrar interface {
	RegisterRoutes(rg *gin.RouterGroup)
}

// Router manages HTTP route registration
type Router struct {
	engine     *gin.Engine
	basePath   string
	registrars []RouteRegistrar
}

// RouterOption is a functional option for Router configuration
type RouterOption func(*Router)

// WithBasePath sets the path every registered group is mounted under
func WithBasePath(path string) RouterOption {
	return func(r *Router) {
		r.basePath = path
	}
}

// NewRouter creates a new Router instance
func NewRouter(engine *gin.Engine, opts ...RouterOption) *Router {
	r := &Router{
		engine:     engine,
		basePath:   "/api",
		registrars: make([]RouteRegistrar, 0),
	}

	for _, opt := range opts {
		opt(r)
	}

	return r
}

// Register adds a RouteRegistrar to be registered later
func (r *Router) Register(registrar RouteRegistrar) *Router {
	r.registrars = append(r.registrars, registrar)
	return r
}

// Setup registers all routes with the engine
func (r *Router) Setup() {
	api := r.engine.Group(r.basePath)
	for _, registrar := range r.registrars {
		registrar.RegisterRoutes(api)
	}
}

// DomainGroup creates a route group for a specific domain
type DomainGroup struct {
	name       string
	prefix     string
	routes     []routeDefinition
	subgroups  []*DomainGroup
	middleware []gin.HandlerFunc
}

type routeDefinition struct {
	method   string
	path     string
	handlers []gin.HandlerFunc
}

// NewDomainGroup creates a new domain-specific route group
func NewDomainGroup(name, prefix string) *DomainGroup {
	return &DomainGroup{
		name:   name,
		prefix: prefix,
	}
}

// Use adds middleware to this group
func (dg *DomainGroup) Use(middleware ...gin.HandlerFunc) *DomainGroup {
	dg.middleware = append(dg.middleware, middleware...)
	return dg
}

func (dg *DomainGroup) handle(method, path string, handlers []gin.HandlerFunc) *DomainGroup {
	dg.routes = append(dg.routes, routeDefinition{
		method:   method,
		path:     path,
		handlers: handlers,
	})
	return dg
}

// GET registers a GET route
func (dg *DomainGroup) GET(path string, handlers ...gin.HandlerFunc) *DomainGroup {
	return dg.handle(http.MethodGet, path, handlers)
}

// POST registers a POST route
func (dg *DomainGroup) POST(path string, handlers ...gin.HandlerFunc) *DomainGroup {
	return dg.handle(http.MethodPost, path, handlers)
}

// PUT registers a PUT route
func (dg *DomainGroup) PUT(path string, handlers ...gin.HandlerFunc) *DomainGroup {
	return dg.handle(http.MethodPut, path, handlers)
}

// PATCH registers a PATCH route
func (dg *DomainGroup) PATCH(path string, handlers ...gin.HandlerFunc) *DomainGroup {
	return dg.handle(http.MethodPatch, path, handlers)
}

// DELETE registers a DELETE route
func (dg *DomainGroup) DELETE(path string, handlers ...gin.HandlerFunc) *DomainGroup {
	return dg.handle(http.MethodDelete, path, handlers)
}

// Group creates a sub-group within this domain
func (dg *DomainGroup) Group(name, prefix string) *DomainGroup {
	subgroup := NewDomainGroup(name, prefix)
	dg.subgroups = append(dg.subgroups, subgroup)
	return subgroup
}

// RegisterRoutes implements RouteRegistrar interface
func (dg *DomainGroup) RegisterRoutes(rg *gin.RouterGroup) {
	group := rg.Group(dg.prefix)
	if len(dg.middleware) > 0 {
		group.Use(dg.middleware...)
	}

	for _, route := range dg.routes {
		group.Handle(route.method, route.path, route.handlers...)
	}

	for _, subgroup := range dg.subgroups {
		subgroup.RegisterRoutes(group)
	}
}

// Name returns the group name
func (dg *DomainGroup) Name() string {
	return dg.name
}

// Prefix returns the group prefix
func (dg *DomainGroup) Prefix() string {
	return dg.prefix
}

// Config holds the HTTP-level settings of the engine
type Config struct {
	ServiceName    string
	TracingEnabled bool
	// Meter receives request metrics; nil disables them
	Meter         metric.Meter
	CORS          middleware.CORSConfig
	MaxBodySize   int64
	MaxUploadSize int64
	// AIRateLimiter throttles the endpoints that call the model; nil disables it
	AIRateLimiter  *middleware.RateLimiter
	TrustedProxies []string
}

// Default body limits used when Config leaves them unset
const (
	DefaultMaxBodySize   = 1 << 20
	DefaultMaxUploadSize = 10 << 20
)

// Handlers are the endpoint handlers mounted by New
type Handlers struct {
	Project   *handler.ProjectHandler
	Advisory  *handler.AdvisoryHandler
	Chat      *handler.ChatHandler
	Analytics *handler.AnalyticsHandler
	Health    *handler.HealthHandler
	Files     *handler.FileHandler
}

// New builds the engine with the full middleware chain and every API route
func New(cfg Config, h Handlers, zl *zap.Logger) (*gin.Engine, error) {
	middleware.SetupValidator()
	if cfg.MaxBodySize <= 0 {
		cfg.MaxBodySize = DefaultMaxBodySize
	}
	if cfg.MaxUploadSize <= 0 {
		cfg.MaxUploadSize = DefaultMaxUploadSize
	}

	engine := gin.New()
	if err := engine.SetTrustedProxies(cfg.TrustedProxies); err != nil {
		return nil, err
	}

	metrics, err := middleware.HTTPMetrics(cfg.Meter)
	if err != nil {
		return nil, err
	}

	engine.Use(
		middleware.Recovery(zl),
		middleware.RequestID(),
		middleware.Tracing(middleware.TracingConfig{
			ServiceName:   cfg.ServiceName,
			Enabled:       cfg.TracingEnabled,
			UntracedPaths: probePaths,
		}),
		middleware.SpanEnricher(),
		logger.GinMiddleware(zl, probePaths...),
		metrics,
		middleware.Secure(),
		middleware.CORS(cfg.CORS),
		middleware.ClientInfo(),
	)

	engine.NoRoute(func(c *gin.Context) {
		c.JSON(http.StatusNotFound, dto.NewErrorResponseWithRequestID(
			dto.ErrCodeNotFound, "Route not found", middleware.GetRequestID(c)))
	})

	r := NewRouter(engine)
	for _, group := range routes(cfg, h) {
		r.Register(group)
	}
	r.Setup()

	return engine, nil
}

func routes(cfg Config, h Handlers) []RouteRegistrar {
	ai := func(handlers ...gin.HandlerFunc) []gin.HandlerFunc {
		if cfg.AIRateLimiter == nil {
			return handlers
		}
		return append([]gin.HandlerFunc{middleware.RateLimit(cfg.AIRateLimiter)}, handlers...)
	}

	projects := NewDomainGroup("projects", "/projects").Use(middleware.BodyLimit(cfg.MaxBodySize))
	projects.GET("", h.Project.List).
		POST("", h.Project.Create).
		GET("/stats", h.Project.Stats).
		GET("/:id", h.Project.Get).
		PUT("/:id", h.Project.Update).
		DELETE("/:id", h.Project.Delete).
		GET("/:id/sustainability", h.Advisory.ListSustainability).
		POST("/:id/sustainability", ai(h.Advisory.AnalyzeSustainability)...).
		GET("/:id/financing", h.Advisory.ListFinancing).
		POST("/:id/financing", ai(h.Advisory.SuggestFinancing)...).
		GET("/:id/plan", h.Advisory.GetPlan).
		POST("/:id/plan", ai(h.Advisory.GeneratePlan)...)

	// Uploads get their own group so the JSON body limit does not apply
	files := NewDomainGroup("files", "/projects/:id/files").Use(middleware.BodyLimit(cfg.MaxUploadSize + multipartOverhead))
	files.GET("", h.Files.List).
		POST("", h.Files.Upload).
		DELETE("/*key", h.Files.Delete)

	advice := NewDomainGroup("advice", "").Use(middleware.BodyLimit(cfg.MaxBodySize))
	advice.POST("/sustainability/analyze", ai(h.Advisory.AnalyzeProjectData)...).
		POST("/financing/suggest", ai(h.Advisory.SuggestForProjectData)...)

	chat := NewDomainGroup("chat", "/chat").Use(middleware.BodyLimit(cfg.MaxBodySize))
	chat.GET("", h.Chat.List).
		POST("", ai(h.Chat.Send)...)

	analytics := NewDomainGroup("analytics", "/analytics").Use(middleware.BodyLimit(cfg.MaxBodySize))
	analytics.GET("", h.Analytics.Query).
		POST("", h.Analytics.Append).
		GET("/summary", h.Analytics.Summary)

	system := NewDomainGroup("system", "")
	system.GET("/health", h.Health.Health).
		GET("/ping", h.Health.Ping)

	return []RouteRegistrar{projects, files, advice, chat, analytics, system}
}
