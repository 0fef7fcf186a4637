package router

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"mime/multipart"
	"net/http"
	"net/http/httptest"
	"net/textproto"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/nordvest/backend/internal/application/advisory"
	analyticsapp "github.com/nordvest/backend/internal/application/analytics"
	chatapp "github.com/nordvest/backend/internal/application/chat"
	filesapp "github.com/nordvest/backend/internal/application/files"
	projectapp "github.com/nordvest/backend/internal/application/project"
	"github.com/nordvest/backend/internal/application/readthrough"
	"github.com/nordvest/backend/internal/domain/project"
	"github.com/nordvest/backend/internal/infrastructure/ai"
	"github.com/nordvest/backend/internal/infrastructure/cache"
	"github.com/nordvest/backend/internal/infrastructure/persistence"
	"github.com/nordvest/backend/internal/infrastructure/persistence/models"
	"github.com/nordvest/backend/internal/infrastructure/storage"
	"github.com/nordvest/backend/internal/interfaces/http/handler"
	"github.com/nordvest/backend/internal/interfaces/http/middleware"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/tmc/langchaingo/llms"
	"go.uber.org/zap"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
)

// scriptedModel answers every call with reply, or streams chunks when the
// caller asks for streaming. streamErr ends a stream after its chunks.
type scriptedModel struct {
	mu        sync.Mutex
	reply     string
	chunks    []string
	err       error
	streamErr error
	calls     int
}

func (m *scriptedModel) GenerateContent(ctx context.Context, _ []llms.MessageContent, options ...llms.CallOption) (*llms.ContentResponse, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	m.calls++
	var opts llms.CallOptions
	for _, o := range options {
		o(&opts)
	}
	if m.err != nil {
		return nil, m.err
	}
	if opts.StreamingFunc != nil {
		for _, c := range m.chunks {
			if err := opts.StreamingFunc(ctx, []byte(c)); err != nil {
				return nil, err
			}
		}
		if m.streamErr != nil {
			return nil, m.streamErr
		}
		return &llms.ContentResponse{Choices: []*llms.ContentChoice{{Content: strings.Join(m.chunks, "")}}}, nil
	}
	return &llms.ContentResponse{Choices: []*llms.ContentChoice{{Content: m.reply}}}, nil
}

func (m *scriptedModel) Call(ctx context.Context, prompt string, options ...llms.CallOption) (string, error) {
	return llms.GenerateFromSinglePrompt(ctx, m, prompt, options...)
}

type testServer struct {
	engine   *gin.Engine
	db       *gorm.DB
	cache    *cache.InMemoryCache
	recorder *analyticsapp.Recorder
}

type serverOption func(*Config)

func withAILimiter(l *middleware.RateLimiter) serverOption {
	return func(c *Config) { c.AIRateLimiter = l }
}

func newTestServer(t *testing.T, model *scriptedModel, opts ...serverOption) *testServer {
	t.Helper()

	database, err := persistence.Open(sqlite.Open(":memory:"))
	require.NoError(t, err)
	sqlDB, err := database.DB.DB()
	require.NoError(t, err)
	sqlDB.SetMaxOpenConns(1)
	require.NoError(t, database.DB.AutoMigrate(models.All()...))
	t.Cleanup(func() { _ = database.Close() })

	mem := cache.NewInMemoryCache()
	t.Cleanup(func() { _ = mem.Close() })

	zl := zap.NewNop()
	db := database.DB
	analyticsRepo := persistence.NewGormAnalyticsRepository(db, 500)
	recorder := analyticsapp.NewRecorder(analyticsRepo, zl)
	// Runs before the database is closed
	t.Cleanup(func() { _ = recorder.Drain(context.Background()) })

	loader := readthrough.New(mem, readthrough.WithLogger(zl))
	generator := ai.NewGenerator(model, "test", "test-model", ai.WithLogger(zl))

	projects := projectapp.NewService(persistence.NewGormProjectRepository(db), loader, recorder, projectapp.CacheTTLs{}, zl)
	advice := advisory.NewService(projects,
		persistence.NewGormRecommendationRepository(db),
		persistence.NewGormFinancingRepository(db),
		generator, loader, recorder, zl)
	chat := chatapp.NewService(persistence.NewGormConversationRepository(db),
		persistence.NewGormMessageRepository(db), projects, generator, recorder, zl)
	files := filesapp.NewService(storage.NewMemoryStorage("http://files.test"), projects, 1<<20, zl)

	cfg := Config{ServiceName: "test", CORS: middleware.DefaultCORSConfig()}
	for _, opt := range opts {
		opt(&cfg)
	}

	engine, err := New(cfg, Handlers{
		Project:   handler.NewProjectHandler(projects),
		Advisory:  handler.NewAdvisoryHandler(advice),
		Chat:      handler.NewChatHandler(chat),
		Analytics: handler.NewAnalyticsHandler(analyticsapp.NewService(analyticsRepo, 100, zl)),
		Health:    handler.NewHealthHandler(database, mem, "1.0.0", "test", time.Second),
		Files:     handler.NewFileHandler(files),
	}, zl)
	require.NoError(t, err)

	return &testServer{engine: engine, db: db, cache: mem, recorder: recorder}
}

func (s *testServer) do(t *testing.T, method, path string, body any) *httptest.ResponseRecorder {
	t.Helper()
	var reader *bytes.Reader
	if body != nil {
		data, err := json.Marshal(body)
		require.NoError(t, err)
		reader = bytes.NewReader(data)
	} else {
		reader = bytes.NewReader(nil)
	}
	req := httptest.NewRequest(method, path, reader)
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	w := httptest.NewRecorder()
	s.engine.ServeHTTP(w, req)
	return w
}

type envelope struct {
	Success bool            `json:"success"`
	Data    json.RawMessage `json:"data"`
	Message string          `json:"message"`
	Error   *struct {
		Code      string `json:"code"`
		Message   string `json:"message"`
		RequestID string `json:"request_id"`
	} `json:"error"`
	Meta *struct {
		Count  int `json:"count"`
		Limit  int `json:"limit"`
		Offset int `json:"offset"`
	} `json:"meta"`
}

func decode(t *testing.T, w *httptest.ResponseRecorder) envelope {
	t.Helper()
	var env envelope
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &env), w.Body.String())
	return env
}

type projectBody struct {
	ID                  uuid.UUID `json:"id"`
	Name                string    `json:"name"`
	Status              string    `json:"status"`
	SustainabilityScore *int      `json:"sustainability_score"`
}

func (s *testServer) createProject(t *testing.T, name string) projectBody {
	t.Helper()
	w := s.do(t, http.MethodPost, "/api/projects", map[string]any{"name": name, "status": "draft"})
	require.Equal(t, http.StatusCreated, w.Code, w.Body.String())
	var p projectBody
	require.NoError(t, json.Unmarshal(decode(t, w).Data, &p))
	return p
}

func TestAPI_ProjectRoundTrip(t *testing.T) {
	s := newTestServer(t, &scriptedModel{})

	created := s.createProject(t, "Test")
	assert.NotEqual(t, uuid.Nil, created.ID)
	path := "/api/projects/" + created.ID.String()

	w := s.do(t, http.MethodGet, path, nil)
	require.Equal(t, http.StatusOK, w.Code)
	var got projectBody
	require.NoError(t, json.Unmarshal(decode(t, w).Data, &got))
	assert.Equal(t, "Test", got.Name)
	assert.Equal(t, "draft", got.Status)

	w = s.do(t, http.MethodPut, path, map[string]any{"status": "active"})
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())
	var updated projectBody
	require.NoError(t, json.Unmarshal(decode(t, w).Data, &updated))
	assert.Equal(t, "active", updated.Status)

	w = s.do(t, http.MethodGet, path, nil)
	require.Equal(t, http.StatusOK, w.Code)
	require.NoError(t, json.Unmarshal(decode(t, w).Data, &got))
	assert.Equal(t, "active", got.Status)
}

func TestAPI_ProjectReadsAreCached(t *testing.T) {
	s := newTestServer(t, &scriptedModel{})
	created := s.createProject(t, "Bad og kjøkken")
	path := "/api/projects/" + created.ID.String()

	require.Equal(t, http.StatusOK, s.do(t, http.MethodGet, path, nil).Code)

	// A change behind the service's back stays invisible while cached
	require.NoError(t, s.db.Model(&models.ProjectModel{}).
		Where("id = ?", created.ID).Update("name", "Endret").Error)

	var got projectBody
	require.NoError(t, json.Unmarshal(decode(t, s.do(t, http.MethodGet, path, nil)).Data, &got))
	assert.Equal(t, "Bad og kjøkken", got.Name)

	w := s.do(t, http.MethodPut, path, map[string]any{"description": "Nytt bad"})
	require.Equal(t, http.StatusOK, w.Code)

	require.NoError(t, json.Unmarshal(decode(t, s.do(t, http.MethodGet, path, nil)).Data, &got))
	assert.Equal(t, "Endret", got.Name)
}

func TestAPI_ProjectPagination(t *testing.T) {
	s := newTestServer(t, &scriptedModel{})
	repo := persistence.NewGormProjectRepository(s.db)
	ctx := context.Background()

	base := time.Date(2025, 6, 1, 8, 0, 0, 0, time.UTC)
	for i := 1; i <= 10; i++ {
		p, err := project.NewProject(fmt.Sprintf("Prosjekt %d", i), "", project.StatusDraft)
		require.NoError(t, err)
		p.CreatedAt = base.Add(time.Duration(i) * time.Minute)
		p.UpdatedAt = p.CreatedAt
		require.NoError(t, repo.Create(ctx, p))
	}

	w := s.do(t, http.MethodGet, "/api/projects?limit=3&offset=3", nil)
	require.Equal(t, http.StatusOK, w.Code)
	env := decode(t, w)

	var page []projectBody
	require.NoError(t, json.Unmarshal(env.Data, &page))
	require.Len(t, page, 3)
	// Newest first: items 4 to 6 are projects 7, 6 and 5
	assert.Equal(t, "Prosjekt 7", page[0].Name)
	assert.Equal(t, "Prosjekt 6", page[1].Name)
	assert.Equal(t, "Prosjekt 5", page[2].Name)
	require.NotNil(t, env.Meta)
	assert.Equal(t, 3, env.Meta.Limit)
	assert.Equal(t, 3, env.Meta.Offset)
}

func TestAPI_MissingProject(t *testing.T) {
	s := newTestServer(t, &scriptedModel{})
	id := uuid.New()
	path := "/api/projects/" + id.String()

	for i := 0; i < 2; i++ {
		w := s.do(t, http.MethodGet, path, nil)
		require.Equal(t, http.StatusNotFound, w.Code)
		env := decode(t, w)
		assert.False(t, env.Success)
		assert.Equal(t, "ERR_NOT_FOUND", env.Error.Code)
	}

	_, cached := s.cache.Get(context.Background(), readthrough.ProjectKey(id))
	assert.False(t, cached)

	assert.Equal(t, http.StatusNotFound, s.do(t, http.MethodPut, path, map[string]any{"name": "x"}).Code)
	assert.Equal(t, http.StatusNotFound, s.do(t, http.MethodDelete, path, nil).Code)
}

func TestAPI_ProjectValidation(t *testing.T) {
	s := newTestServer(t, &scriptedModel{})

	t.Run("name is required", func(t *testing.T) {
		w := s.do(t, http.MethodPost, "/api/projects", map[string]any{"status": "draft"})
		assert.Equal(t, http.StatusBadRequest, w.Code)
		assert.Equal(t, "ERR_VALIDATION", decode(t, w).Error.Code)
	})

	t.Run("unknown status", func(t *testing.T) {
		w := s.do(t, http.MethodPost, "/api/projects", map[string]any{"name": "x", "status": "paused"})
		assert.Equal(t, http.StatusBadRequest, w.Code)
	})

	t.Run("malformed id", func(t *testing.T) {
		w := s.do(t, http.MethodGet, "/api/projects/not-a-uuid", nil)
		assert.Equal(t, http.StatusBadRequest, w.Code)
	})

	t.Run("malformed body", func(t *testing.T) {
		req := httptest.NewRequest(http.MethodPost, "/api/projects", strings.NewReader("{"))
		req.Header.Set("Content-Type", "application/json")
		w := httptest.NewRecorder()
		s.engine.ServeHTTP(w, req)
		assert.Equal(t, http.StatusBadRequest, w.Code)
	})
}

func TestAPI_DeleteProject(t *testing.T) {
	s := newTestServer(t, &scriptedModel{})
	created := s.createProject(t, "Riving")
	path := "/api/projects/" + created.ID.String()

	w := s.do(t, http.MethodDelete, path, nil)
	require.Equal(t, http.StatusOK, w.Code)
	assert.JSONEq(t, `{"success":true}`, w.Body.String())

	assert.Equal(t, http.StatusNotFound, s.do(t, http.MethodGet, path, nil).Code)
}

func TestAPI_ProjectStats(t *testing.T) {
	s := newTestServer(t, &scriptedModel{})
	s.createProject(t, "En")
	s.createProject(t, "To")

	w := s.do(t, http.MethodGet, "/api/projects/stats", nil)
	require.Equal(t, http.StatusOK, w.Code)
	var stats project.Stats
	require.NoError(t, json.Unmarshal(decode(t, w).Data, &stats))
	assert.Equal(t, int64(2), stats.Total)
}

func TestAPI_Sustainability(t *testing.T) {
	model := &scriptedModel{reply: `{
		"overall_score": 72,
		"analysis": "Godt utgangspunkt",
		"recommendations": [
			{"category": "energy", "title": "Varmepumpe", "description": "Installer luft-vann varmepumpe",
			 "impact_score": 8, "cost_estimate": 120000, "savings_estimate": 15000, "priority": 1}
		]
	}`}
	s := newTestServer(t, model)
	created := s.createProject(t, "Enebolig")
	path := "/api/projects/" + created.ID.String()

	w := s.do(t, http.MethodPost, path+"/sustainability", nil)
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())

	w = s.do(t, http.MethodGet, path+"/sustainability", nil)
	require.Equal(t, http.StatusOK, w.Code)
	var recs []map[string]any
	require.NoError(t, json.Unmarshal(decode(t, w).Data, &recs))
	require.Len(t, recs, 1)
	assert.Equal(t, "Varmepumpe", recs[0]["title"])

	var got projectBody
	require.NoError(t, json.Unmarshal(decode(t, s.do(t, http.MethodGet, path, nil)).Data, &got))
	require.NotNil(t, got.SustainabilityScore)
	assert.Equal(t, 72, *got.SustainabilityScore)
}

func TestAPI_AIFailureIsGeneric(t *testing.T) {
	s := newTestServer(t, &scriptedModel{err: fmt.Errorf("upstream: api key sk-secret rejected")})
	created := s.createProject(t, "Loft")

	w := s.do(t, http.MethodPost, "/api/projects/"+created.ID.String()+"/plan", nil)
	require.Equal(t, http.StatusInternalServerError, w.Code)
	env := decode(t, w)
	assert.Equal(t, "ERR_AI_GENERATION", env.Error.Code)
	assert.NotContains(t, w.Body.String(), "sk-secret")
	assert.NotEmpty(t, env.Error.RequestID)
}

func TestAPI_PlanWithoutGeneration(t *testing.T) {
	s := newTestServer(t, &scriptedModel{})
	created := s.createProject(t, "Kjeller")

	w := s.do(t, http.MethodGet, "/api/projects/"+created.ID.String()+"/plan", nil)
	require.Equal(t, http.StatusOK, w.Code)
	env := decode(t, w)
	assert.True(t, env.Success)
	assert.Equal(t, advisory.NoPlanMessage, env.Message)
}

func TestAPI_ChatStream(t *testing.T) {
	s := newTestServer(t, &scriptedModel{chunks: []string{"Hei", ", ", "velkommen!"}})

	w := s.do(t, http.MethodPost, "/api/chat", map[string]any{"message": "Hva koster et nytt bad?"})
	require.Equal(t, http.StatusOK, w.Code)
	body := w.Body.String()
	assert.Equal(t, 3, strings.Count(body, "event:message"))
	assert.Contains(t, body, "event:done")
	assert.Contains(t, body, "velkommen!")
	assert.Equal(t, "no-cache", w.Header().Get("Cache-Control"))
}

func TestAPI_ChatStreamFailures(t *testing.T) {
	t.Run("failure before any output is a JSON error", func(t *testing.T) {
		s := newTestServer(t, &scriptedModel{err: errors.New("connection refused")})

		w := s.do(t, http.MethodPost, "/api/chat", map[string]any{"message": "Hei"})
		require.Equal(t, http.StatusInternalServerError, w.Code)
		assert.Equal(t, "ERR_AI_GENERATION", decode(t, w).Error.Code)
		assert.NotContains(t, w.Body.String(), "connection refused")
	})

	t.Run("failure mid-stream ends with an error event", func(t *testing.T) {
		s := newTestServer(t, &scriptedModel{
			chunks:    []string{"Et nytt bad"},
			streamErr: errors.New("stream reset"),
		})

		w := s.do(t, http.MethodPost, "/api/chat", map[string]any{"message": "Hva koster et bad?"})
		require.Equal(t, http.StatusOK, w.Code)
		body := w.Body.String()
		assert.Contains(t, body, "event:message")
		assert.Contains(t, body, "event:error")
		assert.Contains(t, body, "ERR_AI_GENERATION")
		assert.Contains(t, body, "event:done")
		assert.Contains(t, body, `"interrupted":true`)
		assert.NotContains(t, body, "stream reset")
	})

	t.Run("empty message is rejected", func(t *testing.T) {
		s := newTestServer(t, &scriptedModel{})
		w := s.do(t, http.MethodPost, "/api/chat", map[string]any{"message": "   "})
		assert.Equal(t, http.StatusBadRequest, w.Code)
	})
}

func TestAPI_ChatJSON(t *testing.T) {
	s := newTestServer(t, &scriptedModel{reply: "Et nytt bad koster ofte 250 000 kr."})
	created := s.createProject(t, "Bad")

	w := s.do(t, http.MethodPost, "/api/chat", map[string]any{
		"message":   "Hva koster et nytt bad?",
		"projectId": created.ID.String(),
		"stream":    false,
	})
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())
	var reply chatapp.Reply
	require.NoError(t, json.Unmarshal(decode(t, w).Data, &reply))
	assert.Equal(t, "Et nytt bad koster ofte 250 000 kr.", reply.Message.Content)

	w = s.do(t, http.MethodGet, "/api/chat?conversationId="+reply.ConversationID.String(), nil)
	require.Equal(t, http.StatusOK, w.Code)
	env := decode(t, w)
	require.NotNil(t, env.Meta)
	assert.Equal(t, 2, env.Meta.Count)

	w = s.do(t, http.MethodGet, "/api/chat?projectId="+created.ID.String(), nil)
	require.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, 1, decode(t, w).Meta.Count)

	assert.Equal(t, http.StatusBadRequest, s.do(t, http.MethodGet, "/api/chat", nil).Code)
}

func TestAPI_Analytics(t *testing.T) {
	s := newTestServer(t, &scriptedModel{})
	created := s.createProject(t, "Garasje")

	w := s.do(t, http.MethodPost, "/api/analytics", map[string]any{
		"projectId": created.ID.String(),
		"eventType": "page_view",
		"eventData": map[string]any{"page": "plan"},
	})
	require.Equal(t, http.StatusCreated, w.Code, w.Body.String())
	require.NoError(t, s.recorder.Drain(context.Background()))

	w = s.do(t, http.MethodGet, "/api/analytics?projectId="+created.ID.String(), nil)
	require.Equal(t, http.StatusOK, w.Code)
	var events []map[string]any
	require.NoError(t, json.Unmarshal(decode(t, w).Data, &events))
	// project_created from the recorder plus the appended page_view
	assert.Len(t, events, 2)

	assert.Equal(t, http.StatusBadRequest, s.do(t, http.MethodGet, "/api/analytics", nil).Code)

	w = s.do(t, http.MethodGet, "/api/analytics/summary?projectId="+created.ID.String(), nil)
	assert.Equal(t, http.StatusOK, w.Code)
}

func TestAPI_Files(t *testing.T) {
	s := newTestServer(t, &scriptedModel{})
	created := s.createProject(t, "Tilbygg")
	base := "/api/projects/" + created.ID.String() + "/files"

	var buf bytes.Buffer
	mw := multipart.NewWriter(&buf)
	header := textproto.MIMEHeader{}
	header.Set("Content-Disposition", `form-data; name="file"; filename="tilbud.txt"`)
	header.Set("Content-Type", "text/plain")
	part, err := mw.CreatePart(header)
	require.NoError(t, err)
	_, err = part.Write([]byte("Tilbud på tilbygg"))
	require.NoError(t, err)
	require.NoError(t, mw.Close())

	req := httptest.NewRequest(http.MethodPost, base, &buf)
	req.Header.Set("Content-Type", mw.FormDataContentType())
	w := httptest.NewRecorder()
	s.engine.ServeHTTP(w, req)
	require.Equal(t, http.StatusCreated, w.Code, w.Body.String())

	var stored struct {
		Key string `json:"key"`
	}
	require.NoError(t, json.Unmarshal(decode(t, w).Data, &stored))
	assert.True(t, strings.HasPrefix(stored.Key, "projects/"+created.ID.String()+"/documents/"))

	w = s.do(t, http.MethodGet, base+"?kind=documents", nil)
	require.Equal(t, http.StatusOK, w.Code)
	var listed []map[string]any
	require.NoError(t, json.Unmarshal(decode(t, w).Data, &listed))
	assert.Len(t, listed, 1)

	w = s.do(t, http.MethodDelete, base+"/"+stored.Key, nil)
	assert.Equal(t, http.StatusOK, w.Code, w.Body.String())

	w = s.do(t, http.MethodPost, base, nil)
	assert.Equal(t, http.StatusBadRequest, w.Code)
}

func TestAPI_AIRateLimit(t *testing.T) {
	limiter := middleware.NewRateLimiter(0.001, 1)
	s := newTestServer(t, &scriptedModel{}, withAILimiter(limiter))
	path := "/api/projects/" + uuid.NewString() + "/sustainability"

	assert.Equal(t, http.StatusNotFound, s.do(t, http.MethodPost, path, nil).Code)
	w := s.do(t, http.MethodPost, path, nil)
	assert.Equal(t, http.StatusTooManyRequests, w.Code)
	assert.NotEmpty(t, w.Header().Get("Retry-After"))

	// Reads are not throttled
	assert.Equal(t, http.StatusNotFound, s.do(t, http.MethodGet, path, nil).Code)
}

func TestAPI_HealthAndPing(t *testing.T) {
	s := newTestServer(t, &scriptedModel{})

	w := s.do(t, http.MethodGet, "/api/health", nil)
	require.Equal(t, http.StatusOK, w.Code)
	var health handler.HealthResponse
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &health))
	assert.Equal(t, handler.StatusHealthy, health.Status)
	assert.Equal(t, handler.StatusHealthy, health.Services["database"].Status)
	assert.Equal(t, handler.StatusHealthy, health.Services["redis"].Status)
	assert.Equal(t, "1.0.0", health.Version)

	assert.Equal(t, http.StatusOK, s.do(t, http.MethodGet, "/api/ping", nil).Code)
}

func TestAPI_CommonHeaders(t *testing.T) {
	s := newTestServer(t, &scriptedModel{})

	w := s.do(t, http.MethodGet, "/api/nowhere", nil)
	assert.Equal(t, http.StatusNotFound, w.Code)
	assert.NotEmpty(t, w.Header().Get(middleware.RequestIDKey))
	assert.Equal(t, "nosniff", w.Header().Get("X-Content-Type-Options"))

	req := httptest.NewRequest(http.MethodOptions, "/api/projects", nil)
	req.Header.Set("Origin", "http://localhost:3000")
	w = httptest.NewRecorder()
	s.engine.ServeHTTP(w, req)
	assert.Equal(t, http.StatusNoContent, w.Code)
	assert.NotEmpty(t, w.Header().Get("Access-Control-Allow-Origin"))
}

func TestAPI_BodyLimit(t *testing.T) {
	s := newTestServer(t, &scriptedModel{})
	big := strings.Repeat("a", DefaultMaxBodySize+1)

	w := s.do(t, http.MethodPost, "/api/projects", map[string]any{"name": "x", "description": big})
	assert.Equal(t, http.StatusRequestEntityTooLarge, w.Code)
}
