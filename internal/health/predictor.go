package health

import (
	"fmt"
	"hash/fnv"
	"math/rand"
	"time"

	"github.com/dealpulse/pkg/models"
)

// predict projects the composite score across the configured horizon and
// derives early-warning signals and milestone due dates. The variance band
// comes from a PRNG seeded by the deal ID, so identical input always
// produces an identical trajectory.
func (e *Engine) predict(dealID string, deal *models.Deal, overall models.OverallHealth, now time.Time) models.PredictiveInsights {
	cfg := e.config.Predictor

	drift := 0.0
	switch overall.Trend {
	case models.TrendImproving:
		drift = cfg.ImprovingDrift
	case models.TrendDeclining, models.TrendCritical:
		drift = cfg.DecliningDrift
	}

	rng := rand.New(rand.NewSource(seedFromDealID(dealID)))

	trajectory := make([]models.TrajectoryPoint, 0, cfg.HorizonWeeks)
	for week := 1; week <= cfg.HorizonWeeks; week++ {
		variance := (rng.Float64()*2 - 1) * cfg.VarianceRange
		projected := clampScore(overall.CurrentScore + drift*float64(week) + variance)

		confidence := cfg.BaseConfidence - cfg.ConfidenceDecay*float64(week)
		if confidence < 0 {
			confidence = 0
		}

		factors := []string{"engagement cadence", "stakeholder alignment"}
		if week > cfg.HorizonWeeks/2 {
			factors = []string{"competitive pressure", "market conditions"}
		}

		trajectory = append(trajectory, models.TrajectoryPoint{
			Week:           week,
			Date:           now.AddDate(0, 0, 7*week),
			ProjectedScore: projected,
			Confidence:     confidence,
			KeyFactors:     factors,
		})
	}

	return models.PredictiveInsights{
		Trajectory:     trajectory,
		WarningSignals: e.warningSignals(deal, overall, now),
		Milestones:     e.milestones(deal, now),
	}
}

// warningSignals derives early warnings from the composite score and
// activity staleness
func (e *Engine) warningSignals(deal *models.Deal, overall models.OverallHealth, now time.Time) []models.WarningSignal {
	cfg := e.config.Predictor
	var signals []models.WarningSignal

	if overall.CurrentScore < cfg.WarningScore {
		severity := models.SeverityHigh
		if overall.CurrentScore < cfg.CriticalScore {
			severity = models.SeverityCritical
		}
		signals = append(signals, models.WarningSignal{
			Signal:   "deal_health_below_target",
			Severity: severity,
			Detail:   fmt.Sprintf("composite score %.0f is below the %.0f target", overall.CurrentScore, cfg.WarningScore),
		})
	}

	if stale := daysBetween(deal.LastActivity, now); stale > cfg.StaleActivityDays {
		signals = append(signals, models.WarningSignal{
			Signal:   "no_recent_activity",
			Severity: models.SeverityMedium,
			Detail:   fmt.Sprintf("no recorded activity for more than %.0f days", cfg.StaleActivityDays),
		})
	}

	return signals
}

// milestones assigns sequential weekly due dates to the deal's declared
// next steps; the first step carries high importance, the rest medium
func (e *Engine) milestones(deal *models.Deal, now time.Time) []models.Milestone {
	if len(deal.NextSteps) == 0 {
		return nil
	}
	milestones := make([]models.Milestone, 0, len(deal.NextSteps))
	for i, step := range deal.NextSteps {
		importance := "medium"
		if i == 0 {
			importance = "high"
		}
		milestones = append(milestones, models.Milestone{
			Description: step,
			DueDate:     now.AddDate(0, 0, 7*(i+1)),
			Importance:  importance,
		})
	}
	return milestones
}

// seedFromDealID derives a stable PRNG seed from the deal identifier
func seedFromDealID(dealID string) int64 {
	h := fnv.New64a()
	h.Write([]byte(dealID))
	return int64(h.Sum64())
}
