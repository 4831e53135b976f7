package health

import (
	"fmt"
	"time"

	"github.com/dealpulse/pkg/models"
)

// planActions turns weak dimensions and the overall risk level into a
// prioritized remediation plan
func (e *Engine) planActions(dimensions map[models.Dimension]models.DimensionScore, overall models.OverallHealth) models.ActionPlan {
	cfg := e.config.Actions

	var immediate []models.ImmediateAction

	if overall.RiskLevel == models.RiskLevelCritical || overall.CurrentScore < cfg.CriticalScore {
		immediate = append(immediate, models.ImmediateAction{
			Action:    "Schedule an immediate deal review with sales leadership",
			Priority:  models.PriorityHigh,
			Timeframe: cfg.ImmediateReviewWindow,
		})
	}

	var weak []models.Dimension
	for _, dim := range models.AllDimensions() {
		score, ok := dimensions[dim]
		if !ok || score.Score >= cfg.WeakDimensionScore {
			continue
		}
		weak = append(weak, dim)

		priority := models.PriorityMedium
		if score.Score < cfg.HighPriorityScore {
			priority = models.PriorityHigh
		}
		promoted := score.Recommendations
		if len(promoted) > cfg.MaxPromotedActions {
			promoted = promoted[:cfg.MaxPromotedActions]
		}
		for _, rec := range promoted {
			immediate = append(immediate, models.ImmediateAction{
				Action:    rec,
				Priority:  priority,
				Timeframe: "this week",
				Dimension: dim,
			})
		}
	}

	return models.ActionPlan{
		ImmediateActions: immediate,
		Phases:           e.planPhases(weak),
		ResourceNotes:    resourceNotes(weak),
	}
}

// planPhases lays out a three-phase plan focused on the weakest dimensions
func (e *Engine) planPhases(weak []models.Dimension) []models.PlanPhase {
	stabilize := "hold current engagement cadence"
	if len(weak) > 0 {
		stabilize = fmt.Sprintf("recover the %s dimension", weak[0])
	}
	advance := "broaden stakeholder coverage and confirm next steps"
	if len(weak) > 1 {
		advance = fmt.Sprintf("recover the %s dimension", weak[1])
	}
	return []models.PlanPhase{
		{Phase: "stabilize", Duration: "weeks 1-2", Focus: stabilize},
		{Phase: "advance", Duration: "weeks 3-4", Focus: advance},
		{Phase: "close", Duration: "week 5 onward", Focus: "drive to verbal commitment and paper process"},
	}
}

func resourceNotes(weak []models.Dimension) []string {
	var notes []string
	for _, dim := range weak {
		switch dim {
		case models.DimensionStakeholder:
			notes = append(notes, "Executive sponsor time for stakeholder access")
		case models.DimensionCompetition:
			notes = append(notes, "Competitive intelligence support for battle cards")
		case models.DimensionQualification:
			notes = append(notes, "Sales engineering time for a scoping workshop")
		}
	}
	return notes
}

// buildMonitoring produces the lightweight monitoring setup for a deal:
// the metrics worth watching, a review cadence, and escalation rules
func (e *Engine) buildMonitoring(deal *models.Deal, overall models.OverallHealth, now time.Time) models.MonitoringConfig {
	cfg := e.config.Actions

	return models.MonitoringConfig{
		KeyMetrics: []models.MonitoredMetric{
			{
				Name:    "engagement_recency_days",
				Current: daysBetween(deal.LastActivity, now),
				Target:  cfg.RecencyTargetDays,
			},
			{
				Name:    "overall_health_score",
				Current: overall.CurrentScore,
				Target:  cfg.ScoreTarget,
			},
		},
		Checkpoints: []models.Checkpoint{
			{Frequency: "weekly", Focus: "deal health review against the action plan"},
		},
		EscalationTriggers: []models.EscalationTrigger{
			{
				Condition: "overall_health_score_below",
				Threshold: cfg.EscalationScore,
				Action:    "management_review",
			},
		},
	}
}
