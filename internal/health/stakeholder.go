package health

import (
	"strings"
	"time"

	"github.com/dealpulse/pkg/models"
)

// scoreStakeholder scores buying-committee coverage and advocacy. A deal
// with no mapped stakeholders gets a flat defensive score rather than an error.
func (e *Engine) scoreStakeholder(deal *models.Deal) models.DimensionScore {
	cfg := e.config.Stakeholder

	if len(deal.Stakeholders) == 0 {
		return models.DimensionScore{
			Score: cfg.NoStakeholderScore,
			Metrics: map[string]float64{
				"champion_strength":    0,
				"stakeholder_coverage": 0,
				"influence_balance":    0,
				"sentiment":            0,
			},
			Trend:           "unmapped",
			Recommendations: []string{"Map the buying committee: no stakeholders are recorded on this deal"},
		}
	}

	champion := cfg.NoChampionScore
	for _, s := range deal.Stakeholders {
		if s.Sentiment != models.SentimentChampion {
			continue
		}
		strength, ok := cfg.ChampionInfluence[s.Influence]
		if !ok {
			strength = cfg.ChampionInfluence[models.InfluenceLow]
		}
		if strength > champion {
			champion = strength
		}
	}

	coverage := 0.0
	if hasRole(deal.Stakeholders, "decision") || hasRole(deal.Stakeholders, "economic buyer") {
		coverage += cfg.CoverageDecisionMaker
	}
	if hasRole(deal.Stakeholders, "influencer") {
		coverage += cfg.CoverageInfluencer
	}
	if hasRole(deal.Stakeholders, "user") {
		coverage += cfg.CoverageEndUser
	}
	coverage = clampScore(coverage)

	total := float64(len(deal.Stakeholders))
	highInfluence := 0.0
	favorable := 0.0
	for _, s := range deal.Stakeholders {
		if s.Influence == models.InfluenceHigh {
			highInfluence++
		}
		if s.Sentiment == models.SentimentChampion || s.Sentiment == models.SentimentSupporter {
			favorable++
		}
	}
	balance := clampScore(highInfluence / total * 100)
	sentiment := clampScore(favorable / total * 100)

	score := clampScore(champion*cfg.ChampionWeight +
		coverage*cfg.CoverageWeight +
		balance*cfg.BalanceWeight +
		sentiment*cfg.SentimentWeight)

	trend := "weak_support"
	switch {
	case sentiment >= 60:
		trend = "strong_support"
	case sentiment >= 30:
		trend = "mixed_support"
	}

	var recs []string
	if champion <= cfg.NoChampionScore {
		recs = append(recs, "No champion identified; develop one among the favorable stakeholders")
	}
	if coverage < cfg.CoverageDecisionMaker {
		recs = append(recs, "Gain access to the economic decision maker")
	}
	if sentiment < 50 {
		recs = append(recs, "Address skeptics and blockers directly; favorable sentiment is below half the committee")
	}

	return models.DimensionScore{
		Score: score,
		Metrics: map[string]float64{
			"champion_strength":    champion,
			"stakeholder_coverage": coverage,
			"influence_balance":    balance,
			"sentiment":            sentiment,
		},
		Trend:           trend,
		Recommendations: recs,
	}
}

// stakeholderInsights builds the optional per-stakeholder detail section
func (e *Engine) stakeholderInsights(deal *models.Deal, now time.Time) []models.StakeholderInsight {
	if len(deal.Stakeholders) == 0 {
		return nil
	}
	insights := make([]models.StakeholderInsight, 0, len(deal.Stakeholders))
	for _, s := range deal.Stakeholders {
		insights = append(insights, models.StakeholderInsight{
			Name:                 s.Name,
			Role:                 s.Role,
			Influence:            s.Influence,
			Sentiment:            s.Sentiment,
			DaysSinceInteraction: int(daysBetween(s.LastInteraction, now)),
		})
	}
	return insights
}

func hasRole(stakeholders []models.Stakeholder, fragment string) bool {
	for _, s := range stakeholders {
		if strings.Contains(strings.ToLower(s.Role), fragment) {
			return true
		}
	}
	return false
}
