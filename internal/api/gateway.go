package api

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/gorilla/mux"
	"github.com/rs/cors"
	"go.uber.org/zap"

	"github.com/dealpulse/internal/events"
	"github.com/dealpulse/pkg/models"
)

// Gateway represents the API gateway
type Gateway struct {
	server     *http.Server
	router     *mux.Router
	analyzer   HealthAnalyzer
	history    HistoryStore
	eventBus   EventBus
	cache      AnalysisCache
	benchmarks BenchmarkProvider
	meter      UsageMeter
	hub        *Hub
	config     GatewayConfig
	metrics    *GatewayMetrics
	logger     *zap.Logger
}

// HealthAnalyzer interface for scoring operations
type HealthAnalyzer interface {
	AnalyzeDealHealth(ctx context.Context, dealID string, deal *models.Deal, benchmarks *models.BenchmarkData, prefs *models.AnalysisPreferences) (*models.DealHealthAnalysis, error)
}

// HistoryStore interface for snapshot persistence
type HistoryStore interface {
	SaveSnapshot(ctx context.Context, snapshot models.HealthSnapshot) error
	ListSnapshots(ctx context.Context, dealID string, limit int) ([]models.HealthSnapshot, error)
	PortfolioSummary(ctx context.Context) (*models.PortfolioSummary, error)
}

// EventBus interface for event operations
type EventBus interface {
	PublishEvent(ctx context.Context, topic string, event models.AnalysisEvent) error
	PublishBatch(ctx context.Context, topic string, evts []models.AnalysisEvent) error
	Ping(ctx context.Context) error
}

// AnalysisCache interface for cached analyses keyed by input fingerprint
type AnalysisCache interface {
	GetAnalysis(ctx context.Context, dealID, fingerprint string) (*models.DealHealthAnalysis, bool)
	SetAnalysis(ctx context.Context, dealID, fingerprint string, analysis *models.DealHealthAnalysis)
	InvalidateDeal(ctx context.Context, dealID string)
}

// BenchmarkProvider supplies benchmark data when a request carries none
type BenchmarkProvider interface {
	ForDeal(deal *models.Deal) *models.BenchmarkData
}

// UsageMeter records metered feature usage
type UsageMeter interface {
	Record(ctx context.Context, feature string, quantity int64)
}

// GatewayConfig represents gateway configuration
type GatewayConfig struct {
	Host            string        `json:"host"`
	Port            int           `json:"port"`
	ReadTimeout     time.Duration `json:"read_timeout"`
	WriteTimeout    time.Duration `json:"write_timeout"`
	IdleTimeout     time.Duration `json:"idle_timeout"`
	EnableCORS      bool          `json:"enable_cors"`
	AllowedOrigins  []string      `json:"allowed_origins"`
	AllowedMethods  []string      `json:"allowed_methods"`
	AllowedHeaders  []string      `json:"allowed_headers"`
	RequestTimeout  time.Duration `json:"request_timeout"`
	MaxRequestSize  int64         `json:"max_request_size"`
	EnableWebsocket bool          `json:"enable_websocket"`
}

// DefaultGatewayConfig returns default gateway configuration
func DefaultGatewayConfig() GatewayConfig {
	return GatewayConfig{
		Host:            "0.0.0.0",
		Port:            8080,
		ReadTimeout:     15 * time.Second,
		WriteTimeout:    15 * time.Second,
		IdleTimeout:     60 * time.Second,
		EnableCORS:      true,
		AllowedOrigins:  []string{"*"},
		AllowedMethods:  []string{"GET", "POST", "PUT", "DELETE", "OPTIONS"},
		AllowedHeaders:  []string{"Authorization", "Content-Type"},
		RequestTimeout:  30 * time.Second,
		MaxRequestSize:  1 << 20,
		EnableWebsocket: true,
	}
}

// Dependencies bundles the optional collaborators of the gateway. Any
// field may be nil; the matching feature is disabled.
type Dependencies struct {
	History    HistoryStore
	EventBus   EventBus
	Cache      AnalysisCache
	Benchmarks BenchmarkProvider
	Meter      UsageMeter
}

// GatewayMetrics represents gateway metrics
type GatewayMetrics struct {
	mu               sync.Mutex
	RequestsTotal    int64            `json:"requests_total"`
	RequestsFailed   int64            `json:"requests_failed"`
	AverageLatency   time.Duration    `json:"average_latency"`
	RequestsByPath   map[string]int64 `json:"requests_by_path"`
	RequestsByMethod map[string]int64 `json:"requests_by_method"`
	RequestsByStatus map[int]int64    `json:"requests_by_status"`
	LastRequest      time.Time        `json:"last_request"`
}

// NewGateway creates a new API gateway
func NewGateway(config GatewayConfig, analyzer HealthAnalyzer, deps Dependencies, logger *zap.Logger) *Gateway {
	router := mux.NewRouter()

	gateway := &Gateway{
		router:     router,
		analyzer:   analyzer,
		history:    deps.History,
		eventBus:   deps.EventBus,
		cache:      deps.Cache,
		benchmarks: deps.Benchmarks,
		meter:      deps.Meter,
		config:     config,
		logger:     logger,
		metrics: &GatewayMetrics{
			RequestsByPath:   make(map[string]int64),
			RequestsByMethod: make(map[string]int64),
			RequestsByStatus: make(map[int]int64),
		},
	}

	if config.EnableWebsocket {
		gateway.hub = NewHub(logger)
	}

	gateway.setupRoutes()
	gateway.setupMiddleware()

	gateway.server = &http.Server{
		Addr:         fmt.Sprintf("%s:%d", config.Host, config.Port),
		Handler:      router,
		ReadTimeout:  config.ReadTimeout,
		WriteTimeout: config.WriteTimeout,
		IdleTimeout:  config.IdleTimeout,
	}

	return gateway
}

// setupRoutes configures all API routes
func (g *Gateway) setupRoutes() {
	api := g.router.PathPrefix("/api/v1").Subrouter()

	// Deal routes
	deals := api.PathPrefix("/deals").Subrouter()
	deals.HandleFunc("/{id}/health", g.handleAnalyzeDeal).Methods("POST")
	deals.HandleFunc("/{id}/health/history", g.handleDealHistory).Methods("GET")
	deals.HandleFunc("/{id}/health/cache", g.handleInvalidateCache).Methods("DELETE")

	// Portfolio routes
	api.HandleFunc("/portfolio/summary", g.handlePortfolioSummary).Methods("GET")

	// Health and metrics
	api.HandleFunc("/health", g.handleHealth).Methods("GET")
	api.HandleFunc("/metrics", g.handleMetrics).Methods("GET")

	// Live analysis feed
	if g.hub != nil {
		api.HandleFunc("/ws", g.hub.HandleConnection).Methods("GET")
	}
}

// setupMiddleware configures HTTP middleware
func (g *Gateway) setupMiddleware() {
	if g.config.EnableCORS {
		c := cors.New(cors.Options{
			AllowedOrigins:   g.config.AllowedOrigins,
			AllowedMethods:   g.config.AllowedMethods,
			AllowedHeaders:   g.config.AllowedHeaders,
			AllowCredentials: true,
		})
		g.router.Use(c.Handler)
	}

	g.router.Use(g.metricsMiddleware)
}

// Start starts the API gateway
func (g *Gateway) Start() error {
	g.logger.Info("starting API gateway", zap.String("addr", g.server.Addr))
	return g.server.ListenAndServe()
}

// Stop stops the API gateway
func (g *Gateway) Stop(ctx context.Context) error {
	g.logger.Info("stopping API gateway")
	if g.hub != nil {
		g.hub.Close()
	}
	return g.server.Shutdown(ctx)
}

// Handler exposes the router for tests
func (g *Gateway) Handler() http.Handler {
	return g.router
}

// Request types

type AnalyzeDealRequest struct {
	Deal        *models.Deal                `json:"deal"`
	Benchmarks  *models.BenchmarkData       `json:"benchmarks,omitempty"`
	Preferences *models.AnalysisPreferences `json:"preferences,omitempty"`
}

// Response types

type APIResponse struct {
	Success bool        `json:"success"`
	Data    interface{} `json:"data,omitempty"`
	Error   *APIError   `json:"error,omitempty"`
	Meta    *APIMeta    `json:"meta,omitempty"`
}

type APIError struct {
	Code    string `json:"code"`
	Message string `json:"message"`
	Details string `json:"details,omitempty"`
}

type APIMeta struct {
	Total  int  `json:"total,omitempty"`
	Limit  int  `json:"limit,omitempty"`
	Cached bool `json:"cached,omitempty"`
}

// Helper functions

func (g *Gateway) writeJSONResponse(w http.ResponseWriter, status int, response APIResponse) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)

	if err := json.NewEncoder(w).Encode(response); err != nil {
		g.logger.Error("failed to encode response", zap.Error(err))
	}
}

func (g *Gateway) writeErrorResponse(w http.ResponseWriter, status int, code, message, details string) {
	response := APIResponse{
		Success: false,
		Error: &APIError{
			Code:    code,
			Message: message,
			Details: details,
		},
	}
	g.writeJSONResponse(w, status, response)
}

func (g *Gateway) writeSuccessResponse(w http.ResponseWriter, data interface{}, meta *APIMeta) {
	response := APIResponse{
		Success: true,
		Data:    data,
		Meta:    meta,
	}
	g.writeJSONResponse(w, http.StatusOK, response)
}

func (g *Gateway) parseRequestBody(r *http.Request, target interface{}) error {
	defer r.Body.Close()
	if g.config.MaxRequestSize > 0 {
		r.Body = http.MaxBytesReader(nil, r.Body, g.config.MaxRequestSize)
	}
	return json.NewDecoder(r.Body).Decode(target)
}

// Middleware implementations

func (g *Gateway) metricsMiddleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()

		wrapped := &responseWriter{ResponseWriter: w, statusCode: http.StatusOK}
		next.ServeHTTP(wrapped, r)

		g.updateMetrics(r, wrapped.statusCode, time.Since(start))
	})
}

func (g *Gateway) updateMetrics(r *http.Request, statusCode int, duration time.Duration) {
	g.metrics.mu.Lock()
	defer g.metrics.mu.Unlock()

	g.metrics.RequestsTotal++
	g.metrics.RequestsByPath[r.URL.Path]++
	g.metrics.RequestsByMethod[r.Method]++
	g.metrics.RequestsByStatus[statusCode]++
	g.metrics.LastRequest = time.Now()

	if statusCode >= http.StatusInternalServerError {
		g.metrics.RequestsFailed++
	}

	if g.metrics.AverageLatency == 0 {
		g.metrics.AverageLatency = duration
	} else {
		g.metrics.AverageLatency = (g.metrics.AverageLatency + duration) / 2
	}
}

// responseWriter wraps http.ResponseWriter to capture status code
type responseWriter struct {
	http.ResponseWriter
	statusCode int
}

func (rw *responseWriter) WriteHeader(code int) {
	rw.statusCode = code
	rw.ResponseWriter.WriteHeader(code)
}

// publishAnalysisEvents fans an analysis out to Kafka; failures are
// logged and never fail the request
func (g *Gateway) publishAnalysisEvents(ctx context.Context, analysis *models.DealHealthAnalysis) {
	if g.eventBus == nil {
		return
	}

	event := models.AnalysisEvent{
		ID:         uuid.New().String(),
		Type:       models.EventAnalysisCompleted,
		DealID:     analysis.DealID,
		AnalysisID: analysis.AnalysisID,
		Score:      analysis.Overall.CurrentScore,
		Grade:      analysis.Overall.Grade,
		RiskLevel:  analysis.Overall.RiskLevel,
		Trend:      analysis.Overall.Trend,
		Timestamp:  analysis.GeneratedAt,
	}
	if err := g.eventBus.PublishEvent(ctx, events.TopicAnalyses, event); err != nil {
		g.logger.Warn("failed to publish analysis event", zap.String("deal_id", analysis.DealID), zap.Error(err))
	}

	if analysis.Predictive == nil || len(analysis.Predictive.WarningSignals) == 0 {
		return
	}

	warnings := make([]models.AnalysisEvent, 0, len(analysis.Predictive.WarningSignals))
	for _, signal := range analysis.Predictive.WarningSignals {
		warnings = append(warnings, models.AnalysisEvent{
			ID:         uuid.New().String(),
			Type:       models.EventWarningRaised,
			DealID:     analysis.DealID,
			AnalysisID: analysis.AnalysisID,
			Score:      analysis.Overall.CurrentScore,
			Grade:      analysis.Overall.Grade,
			RiskLevel:  analysis.Overall.RiskLevel,
			Trend:      analysis.Overall.Trend,
			Signal:     signal.Signal,
			Severity:   signal.Severity,
			Timestamp:  analysis.GeneratedAt,
		})
	}
	if err := g.eventBus.PublishBatch(ctx, events.TopicWarnings, warnings); err != nil {
		g.logger.Warn("failed to publish warning events", zap.String("deal_id", analysis.DealID), zap.Error(err))
	}
}
