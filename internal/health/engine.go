package health

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"

	"github.com/dealpulse/pkg/models"
)

// Input validation errors, reported before any scoring runs
var (
	ErrMissingDealID = errors.New("deal id is required")
	ErrMissingDeal   = errors.New("deal data is required")
)

// HistorySource supplies persisted snapshots of prior analyses. The engine
// holds no state between invocations; anything historical comes from here.
type HistorySource interface {
	LatestSnapshot(ctx context.Context, dealID string) (*models.HealthSnapshot, error)
}

// Engine converts raw deal records into deal health analyses. It is a pure
// transformation: no I/O, no locks, no unseeded randomness. A single Engine
// is safe for concurrent use across goroutines.
type Engine struct {
	config  ScoringConfig
	history HistorySource // optional
	now     func() time.Time
}

// NewEngine creates a scoring engine. history may be nil; previous scores
// are then omitted from results.
func NewEngine(config ScoringConfig, history HistorySource) *Engine {
	return &Engine{
		config:  config,
		history: history,
		now:     time.Now,
	}
}

// AnalyzeDealHealth computes the full health analysis for one deal.
// benchmarks and prefs may be nil; nil prefs enables every optional section.
// The returned analysis is immutable; callers persist snapshots themselves.
func (e *Engine) AnalyzeDealHealth(ctx context.Context, dealID string, deal *models.Deal, benchmarks *models.BenchmarkData, prefs *models.AnalysisPreferences) (*models.DealHealthAnalysis, error) {
	if dealID == "" {
		return nil, ErrMissingDealID
	}
	if deal == nil {
		return nil, ErrMissingDeal
	}

	preferences := models.DefaultAnalysisPreferences()
	if prefs != nil {
		preferences = *prefs
	}

	now := e.now()

	dimensions := map[models.Dimension]models.DimensionScore{
		models.DimensionEngagement:    e.scoreEngagement(deal, now),
		models.DimensionMomentum:      e.scoreMomentum(deal),
		models.DimensionCompetition:   e.scoreCompetition(deal),
		models.DimensionStakeholder:   e.scoreStakeholder(deal),
		models.DimensionQualification: e.scoreQualification(deal),
		models.DimensionRisk:          e.scoreRisk(deal),
	}

	overall := e.aggregate(dimensions)

	if e.history != nil {
		snapshot, err := e.history.LatestSnapshot(ctx, dealID)
		if err != nil {
			return nil, fmt.Errorf("failed to load previous snapshot for deal %s: %w", dealID, err)
		}
		if snapshot != nil {
			previous := snapshot.Score
			overall.PreviousScore = &previous
		}
	}

	analysis := &models.DealHealthAnalysis{
		AnalysisID:  uuid.NewString(),
		DealID:      dealID,
		GeneratedAt: now,
		Overall:     overall,
		Dimensions:  dimensions,
		ActionPlan:  e.planActions(dimensions, overall),
		Monitoring:  e.buildMonitoring(deal, overall, now),
	}

	if preferences.IncludeTrendAnalysis {
		predictive := e.predict(dealID, deal, overall, now)
		analysis.Predictive = &predictive
	}

	if preferences.IncludeCompetitiveAnalysis && !benchmarks.IsEmpty() {
		comparative := e.compareBenchmarks(deal, overall, benchmarks, preferences.BenchmarkAgainst)
		analysis.Comparative = &comparative
	}

	if preferences.IncludeStakeholderAnalysis {
		analysis.Stakeholders = e.stakeholderInsights(deal, now)
	}

	return analysis, nil
}

// Config returns a copy of the engine's scoring policy
func (e *Engine) Config() ScoringConfig {
	return e.config
}

// daysBetween returns whole days from earlier to later, never negative.
// A zero timestamp is treated as unknown and reported as a very stale value
// so recency scoring degrades instead of failing.
func daysBetween(earlier, later time.Time) float64 {
	if earlier.IsZero() {
		return 1e6
	}
	days := later.Sub(earlier).Hours() / 24
	if days < 0 {
		return 0
	}
	return days
}
