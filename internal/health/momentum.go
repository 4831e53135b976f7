package health

import "github.com/dealpulse/pkg/models"

// scoreMomentum scores pipeline progression: stage depth, stated win
// probability, stage velocity against expected cycle time, and planned next steps
func (e *Engine) scoreMomentum(deal *models.Deal) models.DimensionScore {
	cfg := e.config.Momentum

	stageProgress, ok := cfg.StageProgress[deal.Stage]
	if !ok {
		stageProgress = cfg.StageFallback
	}

	probability := clampScore(deal.Probability * 100)

	expectedAge, ok := cfg.ExpectedStageAge[deal.Stage]
	if !ok || expectedAge <= 0 {
		expectedAge = cfg.ExpectedAgeFallback
	}
	velocityRatio := float64(deal.AgeDays) / expectedAge
	velocity := bucketScore(velocityRatio, cfg.VelocityBands, cfg.VelocityFloor)

	nextSteps := cfg.NoNextStepsScore
	if len(deal.NextSteps) > 0 {
		nextSteps = float64(len(deal.NextSteps)) * cfg.NextStepPoints
		if nextSteps > cfg.NextStepMax {
			nextSteps = cfg.NextStepMax
		}
	}

	score := clampScore(stageProgress*cfg.StageWeight +
		probability*cfg.ProbabilityWeight +
		velocity*cfg.VelocityWeight +
		nextSteps*cfg.NextStepsWeight)

	trend := "on_pace"
	switch {
	case velocityRatio > 1.5:
		trend = "stalled"
	case velocityRatio > 1.0:
		trend = "slipping"
	}

	var recs []string
	if velocity <= 40 {
		recs = append(recs, "Deal is aging past the expected cycle for its stage; drive to a decision point")
	}
	if nextSteps <= 20 {
		recs = append(recs, "Agree concrete next steps with the buyer before the current thread goes cold")
	}
	if probability <= 40 {
		recs = append(recs, "Requalify the opportunity; the stated win probability is low for this stage")
	}

	return models.DimensionScore{
		Score: score,
		Metrics: map[string]float64{
			"stage_progress": stageProgress,
			"probability":    probability,
			"velocity":       velocity,
			"next_steps":     nextSteps,
		},
		Trend:           trend,
		Recommendations: recs,
	}
}
