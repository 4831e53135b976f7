package health

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/dealpulse/pkg/models"
)

var testNow = time.Date(2025, 6, 2, 12, 0, 0, 0, time.UTC)

func newTestEngine(history HistorySource) *Engine {
	engine := NewEngine(DefaultScoringConfig(), history)
	engine.now = func() time.Time { return testNow }
	return engine
}

func healthyDeal() *models.Deal {
	engagements := make([]models.Engagement, 0, 12)
	for i := 0; i < 12; i++ {
		engagements = append(engagements, models.Engagement{
			Type:            "meeting",
			Timestamp:       testNow.AddDate(0, 0, -2*i),
			DurationMinutes: 60,
			Sentiment:       "positive",
		})
	}
	return &models.Deal{
		Value:        150000,
		Stage:        models.StageNegotiation,
		Probability:  0.75,
		AgeDays:      45,
		LastActivity: testNow.AddDate(0, 0, -1),
		Industry:     "technology",
		CompanySize:  300,
		NextSteps:    []string{"contract redlines", "security review", "executive signoff"},
		Engagements:  engagements,
		Stakeholders: []models.Stakeholder{
			{Name: "Ana", Role: "Economic Buyer", Influence: models.InfluenceHigh, Sentiment: models.SentimentChampion, LastInteraction: testNow.AddDate(0, 0, -2)},
			{Name: "Ben", Role: "Influencer", Influence: models.InfluenceMedium, Sentiment: models.SentimentSupporter, LastInteraction: testNow.AddDate(0, 0, -5)},
			{Name: "Cleo", Role: "End User", Influence: models.InfluenceLow, Sentiment: models.SentimentNeutral, LastInteraction: testNow.AddDate(0, 0, -9)},
		},
	}
}

type stubHistory struct {
	snapshot *models.HealthSnapshot
	err      error
}

func (s *stubHistory) LatestSnapshot(ctx context.Context, dealID string) (*models.HealthSnapshot, error) {
	return s.snapshot, s.err
}

func TestAnalyzeDealHealthValidation(t *testing.T) {
	engine := newTestEngine(nil)

	_, err := engine.AnalyzeDealHealth(context.Background(), "", healthyDeal(), nil, nil)
	assert.ErrorIs(t, err, ErrMissingDealID)

	_, err = engine.AnalyzeDealHealth(context.Background(), "deal-1", nil, nil, nil)
	assert.ErrorIs(t, err, ErrMissingDeal)
}

func TestAnalyzeDealHealthCoversAllDimensions(t *testing.T) {
	engine := newTestEngine(nil)

	analysis, err := engine.AnalyzeDealHealth(context.Background(), "deal-1", healthyDeal(), nil, nil)
	require.NoError(t, err)

	require.Len(t, analysis.Dimensions, 6)
	for _, dim := range models.AllDimensions() {
		score, ok := analysis.Dimensions[dim]
		require.True(t, ok, "missing dimension %s", dim)
		assert.GreaterOrEqual(t, score.Score, 0.0)
		assert.LessOrEqual(t, score.Score, 100.0)
		assert.NotEmpty(t, score.Metrics)
		assert.NotEmpty(t, score.Trend)
	}

	assert.GreaterOrEqual(t, analysis.Overall.CurrentScore, 0.0)
	assert.LessOrEqual(t, analysis.Overall.CurrentScore, 100.0)
	assert.Equal(t, 0.85, analysis.Overall.Confidence)
	assert.Equal(t, "deal-1", analysis.DealID)
	assert.NotEmpty(t, analysis.AnalysisID)
	assert.Equal(t, testNow, analysis.GeneratedAt)
}

func TestAnalyzeDealHealthIsDeterministic(t *testing.T) {
	engine := newTestEngine(nil)
	deal := healthyDeal()

	first, err := engine.AnalyzeDealHealth(context.Background(), "deal-1", deal, nil, nil)
	require.NoError(t, err)
	second, err := engine.AnalyzeDealHealth(context.Background(), "deal-1", deal, nil, nil)
	require.NoError(t, err)

	assert.Equal(t, first.Overall, second.Overall)
	assert.Equal(t, first.Dimensions, second.Dimensions)
	assert.Equal(t, first.Predictive, second.Predictive)
	assert.Equal(t, first.ActionPlan, second.ActionPlan)
}

func TestAnalyzeDealHealthPreferencesGateSections(t *testing.T) {
	engine := newTestEngine(nil)
	benchmarks := &models.BenchmarkData{
		Industry: map[string]float64{"deal_value": 120000},
	}

	analysis, err := engine.AnalyzeDealHealth(context.Background(), "deal-1", healthyDeal(), benchmarks, nil)
	require.NoError(t, err)
	assert.NotNil(t, analysis.Predictive)
	assert.NotNil(t, analysis.Comparative)
	assert.NotEmpty(t, analysis.Stakeholders)

	prefs := &models.AnalysisPreferences{}
	analysis, err = engine.AnalyzeDealHealth(context.Background(), "deal-1", healthyDeal(), benchmarks, prefs)
	require.NoError(t, err)
	assert.Nil(t, analysis.Predictive)
	assert.Nil(t, analysis.Comparative)
	assert.Empty(t, analysis.Stakeholders)
}

func TestAnalyzeDealHealthEmptyBenchmarksOmitComparative(t *testing.T) {
	engine := newTestEngine(nil)

	analysis, err := engine.AnalyzeDealHealth(context.Background(), "deal-1", healthyDeal(), &models.BenchmarkData{}, nil)
	require.NoError(t, err)
	assert.Nil(t, analysis.Comparative)

	analysis, err = engine.AnalyzeDealHealth(context.Background(), "deal-1", healthyDeal(), nil, nil)
	require.NoError(t, err)
	assert.Nil(t, analysis.Comparative)
}

func TestAnalyzeDealHealthPreviousScore(t *testing.T) {
	history := &stubHistory{snapshot: &models.HealthSnapshot{DealID: "deal-1", Score: 71.5}}
	engine := newTestEngine(history)

	analysis, err := engine.AnalyzeDealHealth(context.Background(), "deal-1", healthyDeal(), nil, nil)
	require.NoError(t, err)
	require.NotNil(t, analysis.Overall.PreviousScore)
	assert.Equal(t, 71.5, *analysis.Overall.PreviousScore)
}

func TestAnalyzeDealHealthNoHistoryLeavesPreviousNil(t *testing.T) {
	engine := newTestEngine(&stubHistory{})

	analysis, err := engine.AnalyzeDealHealth(context.Background(), "deal-1", healthyDeal(), nil, nil)
	require.NoError(t, err)
	assert.Nil(t, analysis.Overall.PreviousScore)
}

func TestAnalyzeDealHealthHistoryError(t *testing.T) {
	engine := newTestEngine(&stubHistory{err: errors.New("connection refused")})

	_, err := engine.AnalyzeDealHealth(context.Background(), "deal-1", healthyDeal(), nil, nil)
	assert.Error(t, err)
}

func TestDaysBetween(t *testing.T) {
	assert.Equal(t, 1e6, daysBetween(time.Time{}, testNow))
	assert.Equal(t, 0.0, daysBetween(testNow.Add(time.Hour), testNow))
	assert.InDelta(t, 3.0, daysBetween(testNow.AddDate(0, 0, -3), testNow), 0.01)
}
