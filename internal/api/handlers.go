package api

import (
	"context"
	"net/http"
	"strconv"
	"time"

	"github.com/google/uuid"
	"github.com/gorilla/mux"
	"go.uber.org/zap"

	"github.com/dealpulse/internal/events"
	"github.com/dealpulse/internal/health"
	"github.com/dealpulse/pkg/models"
)

// handleAnalyzeDeal scores a deal and returns the full analysis
func (g *Gateway) handleAnalyzeDeal(w http.ResponseWriter, r *http.Request) {
	vars := mux.Vars(r)
	dealID := vars["id"]

	var req AnalyzeDealRequest
	if err := g.parseRequestBody(r, &req); err != nil {
		g.writeErrorResponse(w, http.StatusBadRequest, "INVALID_REQUEST", "Invalid request body", err.Error())
		return
	}

	if req.Deal == nil {
		g.writeErrorResponse(w, http.StatusBadRequest, "INVALID_REQUEST", "deal is required", "")
		return
	}

	ctx := r.Context()
	if g.config.RequestTimeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, g.config.RequestTimeout)
		defer cancel()
	}

	prefs := req.Preferences
	if prefs == nil {
		defaults := models.DefaultAnalysisPreferences()
		prefs = &defaults
	}

	benchmarks := req.Benchmarks
	if benchmarks == nil && g.benchmarks != nil {
		benchmarks = g.benchmarks.ForDeal(req.Deal)
	}

	fingerprint := ""
	if g.cache != nil {
		fingerprint = health.Fingerprint(dealID, req.Deal, benchmarks, prefs)
		if cached, found := g.cache.GetAnalysis(ctx, dealID, fingerprint); found {
			g.writeSuccessResponse(w, cached, &APIMeta{Cached: true})
			return
		}
	}

	analysis, err := g.analyzer.AnalyzeDealHealth(ctx, dealID, req.Deal, benchmarks, prefs)
	if err != nil {
		g.writeErrorResponse(w, http.StatusUnprocessableEntity, "ANALYSIS_FAILED", "Failed to analyze deal", err.Error())
		return
	}

	if g.cache != nil {
		g.cache.SetAnalysis(ctx, dealID, fingerprint, analysis)
	}

	g.persistSnapshot(ctx, analysis)
	g.publishAnalysisEvents(ctx, analysis)

	if g.hub != nil {
		g.hub.BroadcastAnalysis(analysis)
	}

	if g.meter != nil {
		g.meter.Record(ctx, "deal_analyses", 1)
	}

	g.writeSuccessResponse(w, analysis, nil)
}

// handleDealHistory returns a deal's stored snapshots newest first
func (g *Gateway) handleDealHistory(w http.ResponseWriter, r *http.Request) {
	if g.history == nil {
		g.writeErrorResponse(w, http.StatusNotImplemented, "HISTORY_DISABLED", "History store is not configured", "")
		return
	}

	vars := mux.Vars(r)
	dealID := vars["id"]

	limit := 50
	if raw := r.URL.Query().Get("limit"); raw != "" {
		parsed, err := strconv.Atoi(raw)
		if err != nil || parsed <= 0 {
			g.writeErrorResponse(w, http.StatusBadRequest, "INVALID_REQUEST", "limit must be a positive integer", "")
			return
		}
		limit = parsed
	}

	snapshots, err := g.history.ListSnapshots(r.Context(), dealID, limit)
	if err != nil {
		g.writeErrorResponse(w, http.StatusInternalServerError, "HISTORY_FAILED", "Failed to load deal history", err.Error())
		return
	}

	g.writeSuccessResponse(w, snapshots, &APIMeta{Total: len(snapshots), Limit: limit})
}

// handleInvalidateCache drops cached analyses for a deal
func (g *Gateway) handleInvalidateCache(w http.ResponseWriter, r *http.Request) {
	if g.cache == nil {
		g.writeErrorResponse(w, http.StatusNotImplemented, "CACHE_DISABLED", "Analysis cache is not configured", "")
		return
	}

	vars := mux.Vars(r)
	g.cache.InvalidateDeal(r.Context(), vars["id"])

	g.writeSuccessResponse(w, map[string]string{"status": "invalidated"}, nil)
}

// handlePortfolioSummary aggregates the latest snapshot of every deal
func (g *Gateway) handlePortfolioSummary(w http.ResponseWriter, r *http.Request) {
	if g.history == nil {
		g.writeErrorResponse(w, http.StatusNotImplemented, "HISTORY_DISABLED", "History store is not configured", "")
		return
	}

	summary, err := g.history.PortfolioSummary(r.Context())
	if err != nil {
		g.writeErrorResponse(w, http.StatusInternalServerError, "SUMMARY_FAILED", "Failed to build portfolio summary", err.Error())
		return
	}

	g.writeSuccessResponse(w, summary, &APIMeta{Total: summary.TotalDeals})
}

// handleHealth reports service liveness and dependency status
func (g *Gateway) handleHealth(w http.ResponseWriter, r *http.Request) {
	status := map[string]interface{}{
		"status":    "healthy",
		"timestamp": time.Now().UTC(),
	}

	if g.eventBus != nil {
		ctx, cancel := context.WithTimeout(r.Context(), 2*time.Second)
		defer cancel()
		if err := g.eventBus.Ping(ctx); err != nil {
			status["events"] = "unreachable"
		} else {
			status["events"] = "connected"
		}
	}

	g.writeSuccessResponse(w, status, nil)
}

// handleMetrics returns gateway request metrics
func (g *Gateway) handleMetrics(w http.ResponseWriter, r *http.Request) {
	g.metrics.mu.Lock()
	snapshot := map[string]interface{}{
		"requests_total":     g.metrics.RequestsTotal,
		"requests_failed":    g.metrics.RequestsFailed,
		"average_latency_ms": g.metrics.AverageLatency.Milliseconds(),
		"requests_by_path":   g.metrics.RequestsByPath,
		"requests_by_method": g.metrics.RequestsByMethod,
		"requests_by_status": g.metrics.RequestsByStatus,
		"last_request":       g.metrics.LastRequest,
	}
	g.metrics.mu.Unlock()

	g.writeSuccessResponse(w, snapshot, nil)
}

func (g *Gateway) persistSnapshot(ctx context.Context, analysis *models.DealHealthAnalysis) {
	if g.history == nil {
		return
	}

	snapshot := models.HealthSnapshot{
		AnalysisID: analysis.AnalysisID,
		DealID:     analysis.DealID,
		Score:      analysis.Overall.CurrentScore,
		Grade:      analysis.Overall.Grade,
		RiskLevel:  analysis.Overall.RiskLevel,
		Trend:      analysis.Overall.Trend,
		AnalyzedAt: analysis.GeneratedAt,
	}
	if err := g.history.SaveSnapshot(ctx, snapshot); err != nil {
		g.logger.Warn("failed to save snapshot", zap.String("deal_id", analysis.DealID), zap.Error(err))
		return
	}

	if g.eventBus != nil {
		event := models.AnalysisEvent{
			ID:         uuid.New().String(),
			Type:       models.EventSnapshotSaved,
			DealID:     analysis.DealID,
			AnalysisID: analysis.AnalysisID,
			Score:      analysis.Overall.CurrentScore,
			Grade:      analysis.Overall.Grade,
			RiskLevel:  analysis.Overall.RiskLevel,
			Trend:      analysis.Overall.Trend,
			Timestamp:  analysis.GeneratedAt,
		}
		if err := g.eventBus.PublishEvent(ctx, events.TopicSnapshots, event); err != nil {
			g.logger.Warn("failed to publish snapshot event", zap.String("deal_id", analysis.DealID), zap.Error(err))
		}
	}

	if g.meter != nil {
		g.meter.Record(ctx, "history_snapshots", 1)
	}
}
