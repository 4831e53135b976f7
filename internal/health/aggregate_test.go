package health

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/dealpulse/pkg/models"
)

func dims(scores map[models.Dimension]float64) map[models.Dimension]models.DimensionScore {
	out := make(map[models.Dimension]models.DimensionScore, len(scores))
	for dim, score := range scores {
		out[dim] = models.DimensionScore{Score: score}
	}
	return out
}

func TestAggregateWeightedComposite(t *testing.T) {
	engine := newTestEngine(nil)

	overall := engine.aggregate(dims(map[models.Dimension]float64{
		models.DimensionEngagement:    85,
		models.DimensionMomentum:      80,
		models.DimensionCompetition:   75,
		models.DimensionStakeholder:   85,
		models.DimensionQualification: 80,
		models.DimensionRisk:          90,
	}))

	// .20*85 + .25*80 + .15*75 + .20*85 + .10*80 + .10*90
	assert.InDelta(t, 82.25, overall.CurrentScore, 0.001)
	assert.Equal(t, models.GradeB, overall.Grade)
	assert.Equal(t, models.RiskLevelLow, overall.RiskLevel)
	assert.Equal(t, models.TrendImproving, overall.Trend)
	assert.Equal(t, 0.85, overall.Confidence)
	assert.Nil(t, overall.PreviousScore)
}

func TestAggregateMissingDimensionNormalizes(t *testing.T) {
	engine := newTestEngine(nil)

	overall := engine.aggregate(dims(map[models.Dimension]float64{
		models.DimensionEngagement: 80,
		models.DimensionMomentum:   80,
	}))

	// Missing dimensions are excluded from the denominator, not scored as zero
	assert.InDelta(t, 80.0, overall.CurrentScore, 0.001)
}

func TestAggregateEmptyDimensions(t *testing.T) {
	engine := newTestEngine(nil)

	overall := engine.aggregate(nil)
	assert.Equal(t, 0.0, overall.CurrentScore)
	assert.Equal(t, models.GradeF, overall.Grade)
	assert.Equal(t, models.RiskLevelCritical, overall.RiskLevel)
}

func TestGradeBands(t *testing.T) {
	engine := newTestEngine(nil)
	bands := engine.Config().GradeBands

	cases := []struct {
		score float64
		want  models.Grade
	}{
		{100, models.GradeAPlus},
		{95, models.GradeAPlus},
		{94.9, models.GradeA},
		{90, models.GradeA},
		{85, models.GradeBPlus},
		{80, models.GradeB},
		{75, models.GradeCPlus},
		{70, models.GradeC},
		{60, models.GradeD},
		{59.9, models.GradeF},
		{0, models.GradeF},
	}
	for _, tc := range cases {
		assert.Equal(t, tc.want, models.GradeForScore(tc.score, bands), "score %.1f", tc.score)
	}
}

func TestRiskBands(t *testing.T) {
	engine := newTestEngine(nil)
	bands := engine.Config().RiskBands

	cases := []struct {
		score float64
		want  models.RiskLevel
	}{
		{95, models.RiskLevelLow},
		{80, models.RiskLevelLow},
		{79.9, models.RiskLevelMedium},
		{70, models.RiskLevelMedium},
		{69.9, models.RiskLevelHigh},
		{60, models.RiskLevelHigh},
		{59.9, models.RiskLevelCritical},
		{0, models.RiskLevelCritical},
	}
	for _, tc := range cases {
		assert.Equal(t, tc.want, models.RiskLevelForScore(tc.score, bands), "score %.1f", tc.score)
	}
}

func TestTrendForScore(t *testing.T) {
	engine := newTestEngine(nil)

	assert.Equal(t, models.TrendImproving, engine.trendForScore(80))
	assert.Equal(t, models.TrendStable, engine.trendForScore(79.9))
	assert.Equal(t, models.TrendStable, engine.trendForScore(60))
	assert.Equal(t, models.TrendDeclining, engine.trendForScore(59.9))
}
