package health

import "github.com/dealpulse/pkg/models"

// scoreQualification scores deal-to-account fit. The budget ratio is deal
// value per employee; when company size is unknown the ratio is undefined
// and budget fit falls back to a neutral default instead of dividing by zero.
func (e *Engine) scoreQualification(deal *models.Deal) models.DimensionScore {
	cfg := e.config.Qualification

	budgetFit := cfg.UnknownCompanySizeScore
	if deal.CompanySize > 0 {
		ratio := deal.Value / float64(deal.CompanySize)
		budgetFit = bucketScore(ratio, cfg.BudgetRatioBands, cfg.BudgetFloor)
	}

	companyFit := thresholdScore(float64(deal.CompanySize), cfg.CompanySizeBands, cfg.CompanyFloor)

	riskLevel := clampScore(100 - float64(len(deal.RiskFactors))*cfg.RiskFactorPenalty)

	score := clampScore(budgetFit*cfg.BudgetWeight +
		companyFit*cfg.CompanyWeight +
		cfg.NeedFit*cfg.NeedWeight +
		riskLevel*cfg.RiskWeight)

	trend := "unqualified"
	switch {
	case score >= 70:
		trend = "well_qualified"
	case score >= 50:
		trend = "partially_qualified"
	}

	var recs []string
	if deal.CompanySize <= 0 {
		recs = append(recs, "Capture company size to qualify budget fit; it is currently defaulted")
	}
	if budgetFit <= 50 {
		recs = append(recs, "Validate budget: deal size looks out of proportion for this account")
	}
	if riskLevel <= 60 {
		recs = append(recs, "Work down the recorded risk factors before advancing the deal")
	}

	return models.DimensionScore{
		Score: score,
		Metrics: map[string]float64{
			"budget_fit":  budgetFit,
			"company_fit": companyFit,
			"need_fit":    cfg.NeedFit,
			"risk_level":  riskLevel,
		},
		Trend:           trend,
		Recommendations: recs,
	}
}
