package health

import (
	"sort"

	"github.com/dealpulse/pkg/models"
)

// Metric source keys the benchmarker can extract from a deal
const (
	MetricSourceValue        = "value"
	MetricSourceProbability  = "probability"
	MetricSourceAge          = "age"
	MetricSourceEngagements  = "engagement_count"
	MetricSourceStakeholders = "stakeholder_count"
	MetricSourceCompetitors  = "competitor_count"
	MetricSourceNextSteps    = "next_step_count"
	MetricSourceHealthScore  = "health_score"
)

// compareBenchmarks classifies deal metrics against each caller-supplied
// benchmark set. Sets outside the requested scope are skipped; when no set
// was supplied the comparative section stays empty, never fabricated.
func (e *Engine) compareBenchmarks(deal *models.Deal, overall models.OverallHealth, benchmarks *models.BenchmarkData, scope models.BenchmarkScope) models.ComparativeAnalysis {
	if scope == "" {
		scope = models.BenchmarkAll
	}

	comparative := models.ComparativeAnalysis{}
	if scope == models.BenchmarkAll || scope == models.BenchmarkIndustry {
		comparative.Industry = e.compareSet(deal, overall, benchmarks.Industry)
	}
	if scope == models.BenchmarkAll || scope == models.BenchmarkCompanySize {
		comparative.CompanySize = e.compareSet(deal, overall, benchmarks.CompanySize)
	}
	if scope == models.BenchmarkAll || scope == models.BenchmarkHistorical {
		comparative.Historical = e.compareSet(deal, overall, benchmarks.Historical)
	}
	return comparative
}

func (e *Engine) compareSet(deal *models.Deal, overall models.OverallHealth, set map[string]float64) []models.BenchmarkComparison {
	if len(set) == 0 {
		return nil
	}

	metrics := make([]string, 0, len(set))
	for metric := range set {
		metrics = append(metrics, metric)
	}
	sort.Strings(metrics) // deterministic output order

	comparisons := make([]models.BenchmarkComparison, 0, len(metrics))
	for _, metric := range metrics {
		comparisons = append(comparisons, e.compareMetric(metric, set[metric], deal, overall))
	}
	return comparisons
}

func (e *Engine) compareMetric(metric string, benchmark float64, deal *models.Deal, overall models.OverallHealth) models.BenchmarkComparison {
	cfg := e.config.Benchmark

	current, mapped := e.extractMetric(metric, deal, overall)
	if !mapped {
		// Unknown metric names keep the historical default-to-zero behavior
		// but are flagged so consumers can tell them from real zeros
		return models.BenchmarkComparison{
			Metric:         metric,
			BenchmarkValue: benchmark,
			Percentile:     0,
			Status:         models.StatusBelowAverage,
			Unmapped:       true,
		}
	}

	var percentile float64
	switch {
	case current >= cfg.StrongMultiplier*benchmark:
		percentile = cfg.StrongPercentile
	case current >= benchmark:
		percentile = cfg.ParPercentile
	case current >= cfg.LagMultiplier*benchmark:
		percentile = cfg.LagPercentile
	default:
		percentile = cfg.FloorPercentile
	}

	status := models.StatusBelowAverage
	switch {
	case percentile >= cfg.AboveAverageMin:
		status = models.StatusAboveAverage
	case percentile >= cfg.AverageMin:
		status = models.StatusAverage
	}

	return models.BenchmarkComparison{
		Metric:         metric,
		CurrentValue:   current,
		BenchmarkValue: benchmark,
		Percentile:     percentile,
		Status:         status,
	}
}

// extractMetric resolves a benchmark metric name to a current deal value via
// the configured source map. Unknown names return (0, false).
func (e *Engine) extractMetric(metric string, deal *models.Deal, overall models.OverallHealth) (float64, bool) {
	source, ok := e.config.Benchmark.MetricSources[metric]
	if !ok {
		return 0, false
	}
	switch source {
	case MetricSourceValue:
		return deal.Value, true
	case MetricSourceProbability:
		return deal.Probability, true
	case MetricSourceAge:
		return float64(deal.AgeDays), true
	case MetricSourceEngagements:
		return float64(len(deal.Engagements)), true
	case MetricSourceStakeholders:
		return float64(len(deal.Stakeholders)), true
	case MetricSourceCompetitors:
		return float64(len(deal.Competitors)), true
	case MetricSourceNextSteps:
		return float64(len(deal.NextSteps)), true
	case MetricSourceHealthScore:
		return overall.CurrentScore, true
	default:
		return 0, false
	}
}
