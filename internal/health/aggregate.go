package health

import "github.com/dealpulse/pkg/models"

// aggregate combines the six dimension scores into the overall health.
// The weighted sum is normalized by the weight actually used so a missing
// dimension degrades gracefully instead of dragging the composite to zero.
func (e *Engine) aggregate(dimensions map[models.Dimension]models.DimensionScore) models.OverallHealth {
	var weightedSum, totalWeight float64
	for _, dim := range models.AllDimensions() {
		score, ok := dimensions[dim]
		if !ok {
			continue
		}
		weight := e.config.Weights.For(dim)
		weightedSum += score.Score * weight
		totalWeight += weight
	}

	composite := 0.0
	if totalWeight > 0 {
		composite = clampScore(weightedSum / totalWeight)
	}

	return models.OverallHealth{
		CurrentScore: composite,
		Grade:        models.GradeForScore(composite, e.config.GradeBands),
		RiskLevel:    models.RiskLevelForScore(composite, e.config.RiskBands),
		Trend:        e.trendForScore(composite),
		Confidence:   e.config.Confidence,
	}
}

// trendForScore derives the overall trend from absolute composite thresholds.
// Note: per-dimension trends compare recent-activity ratios while this uses
// score bands, so the two can disagree; flagged for product review rather
// than reconciled here.
func (e *Engine) trendForScore(score float64) models.Trend {
	switch {
	case score >= e.config.Trend.ImprovingMin:
		return models.TrendImproving
	case score >= e.config.Trend.StableMin:
		return models.TrendStable
	default:
		return models.TrendDeclining
	}
}
