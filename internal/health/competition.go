package health

import "github.com/dealpulse/pkg/models"

// scoreCompetition scores the competitive landscape. Differentiation and
// market position are static policy baselines until richer competitive data
// is captured on the deal record.
func (e *Engine) scoreCompetition(deal *models.Deal) models.DimensionScore {
	cfg := e.config.Competition

	count := len(deal.Competitors)
	competitorCount := bucketScore(float64(count), cfg.CompetitorBuckets, cfg.CompetitorFloor)

	// Larger deals are assumed to be more heavily contested
	position := cfg.BasePosition
	switch {
	case deal.Value > cfg.LargeDealValue:
		position = cfg.LargeDealPosition
	case deal.Value > cfg.MidDealValue:
		position = cfg.MidDealPosition
	}

	score := clampScore(competitorCount*cfg.CountWeight +
		position*cfg.PositionWeight +
		cfg.Differentiation*cfg.DifferentiationWeight +
		cfg.MarketPosition*cfg.MarketWeight)

	trend := "uncontested"
	switch {
	case count > 2:
		trend = "crowded"
	case count > 0:
		trend = "contested"
	}

	var recs []string
	if count >= 3 {
		recs = append(recs, "Crowded field: narrow the evaluation to criteria where you win")
	}
	if count >= 1 {
		recs = append(recs, "Refresh competitive positioning with the champion before the next evaluation round")
	}

	return models.DimensionScore{
		Score: score,
		Metrics: map[string]float64{
			"competitor_count":     competitorCount,
			"competitive_position": position,
			"differentiation":      cfg.Differentiation,
			"market_position":      cfg.MarketPosition,
		},
		Trend:           trend,
		Recommendations: recs,
	}
}
