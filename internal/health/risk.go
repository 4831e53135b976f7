package health

import "github.com/dealpulse/pkg/models"

// scoreRisk scores exposure: pipeline age, stage depth, outstanding
// objections, and recorded external risk factors. Higher scores mean lower risk.
func (e *Engine) scoreRisk(deal *models.Deal) models.DimensionScore {
	cfg := e.config.Risk

	ageRisk := bucketScore(float64(deal.AgeDays), cfg.AgeBuckets, cfg.AgeFloor)

	stageRisk, ok := e.config.Momentum.StageProgress[deal.Stage]
	if !ok {
		stageRisk = e.config.Momentum.StageFallback
	}

	outstanding := deal.OutstandingObjections()
	objectionRisk := clampScore(100 - float64(outstanding)*cfg.ObjectionPenalty)

	externalRisk := clampScore(100 - float64(len(deal.RiskFactors))*cfg.ExternalPenalty)

	score := clampScore(ageRisk*cfg.AgeWeight +
		stageRisk*cfg.StageWeight +
		objectionRisk*cfg.ObjectionWeight +
		externalRisk*cfg.ExternalWeight)

	trend := "high_risk"
	switch {
	case score >= 70:
		trend = "low_risk"
	case score >= 50:
		trend = "elevated"
	}

	var recs []string
	if ageRisk <= 40 {
		recs = append(recs, "Deal has been in pipeline too long; set a close-or-disqualify deadline")
	}
	if outstanding > 0 {
		recs = append(recs, "Resolve outstanding objections; each one left open erodes the close")
	}
	if externalRisk <= 70 {
		recs = append(recs, "Build mitigation plans for the recorded risk factors")
	}

	return models.DimensionScore{
		Score: score,
		Metrics: map[string]float64{
			"age_risk":       ageRisk,
			"stage_risk":     stageRisk,
			"objection_risk": objectionRisk,
			"external_risk":  externalRisk,
		},
		Trend:           trend,
		Recommendations: recs,
	}
}
