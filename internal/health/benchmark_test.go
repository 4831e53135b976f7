package health

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/dealpulse/pkg/models"
)

func TestCompareMetricPercentileBands(t *testing.T) {
	engine := newTestEngine(nil)
	overall := models.OverallHealth{CurrentScore: 80}

	cases := []struct {
		value          float64
		wantPercentile float64
		wantStatus     models.BenchmarkStatus
	}{
		{120000, 90, models.StatusAboveAverage}, // 1.2x benchmark
		{100000, 60, models.StatusAverage},      // at benchmark
		{80000, 40, models.StatusAverage},       // 0.8x benchmark
		{79999, 10, models.StatusBelowAverage},  // below the lag band
	}
	for _, tc := range cases {
		deal := &models.Deal{Value: tc.value}
		cmp := engine.compareMetric("deal_value", 100000, deal, overall)
		assert.Equal(t, tc.wantPercentile, cmp.Percentile, "value %.0f", tc.value)
		assert.Equal(t, tc.wantStatus, cmp.Status, "value %.0f", tc.value)
		assert.False(t, cmp.Unmapped)
	}
}

func TestCompareMetricUnmapped(t *testing.T) {
	engine := newTestEngine(nil)

	cmp := engine.compareMetric("churn_rate", 0.05, &models.Deal{}, models.OverallHealth{})

	assert.True(t, cmp.Unmapped)
	assert.Equal(t, 0.0, cmp.Percentile)
	assert.Equal(t, models.StatusBelowAverage, cmp.Status)
	assert.Equal(t, 0.0, cmp.CurrentValue)
}

func TestCompareMetricHealthScoreSource(t *testing.T) {
	engine := newTestEngine(nil)

	cmp := engine.compareMetric("health_score", 70, &models.Deal{}, models.OverallHealth{CurrentScore: 84})
	assert.Equal(t, 84.0, cmp.CurrentValue)
	assert.Equal(t, 90.0, cmp.Percentile) // 84 >= 1.2*70
}

func TestCompareBenchmarksScopeFilter(t *testing.T) {
	engine := newTestEngine(nil)
	deal := &models.Deal{Value: 100000}
	benchmarks := &models.BenchmarkData{
		Industry:    map[string]float64{"deal_value": 90000},
		CompanySize: map[string]float64{"deal_value": 110000},
		Historical:  map[string]float64{"deal_value": 95000},
	}

	all := engine.compareBenchmarks(deal, models.OverallHealth{}, benchmarks, models.BenchmarkAll)
	assert.Len(t, all.Industry, 1)
	assert.Len(t, all.CompanySize, 1)
	assert.Len(t, all.Historical, 1)

	industryOnly := engine.compareBenchmarks(deal, models.OverallHealth{}, benchmarks, models.BenchmarkIndustry)
	assert.Len(t, industryOnly.Industry, 1)
	assert.Nil(t, industryOnly.CompanySize)
	assert.Nil(t, industryOnly.Historical)

	// Empty scope defaults to all
	defaulted := engine.compareBenchmarks(deal, models.OverallHealth{}, benchmarks, "")
	assert.Len(t, defaulted.Historical, 1)
}

func TestCompareSetDeterministicOrder(t *testing.T) {
	engine := newTestEngine(nil)
	deal := &models.Deal{Value: 100000, AgeDays: 40}
	set := map[string]float64{
		"sales_cycle_days": 60,
		"deal_value":       90000,
		"engagement_count": 10,
	}

	comparisons := engine.compareSet(deal, models.OverallHealth{}, set)
	require.Len(t, comparisons, 3)
	assert.Equal(t, "deal_value", comparisons[0].Metric)
	assert.Equal(t, "engagement_count", comparisons[1].Metric)
	assert.Equal(t, "sales_cycle_days", comparisons[2].Metric)
}

func TestCompareSetEmpty(t *testing.T) {
	engine := newTestEngine(nil)
	assert.Nil(t, engine.compareSet(&models.Deal{}, models.OverallHealth{}, nil))
}
