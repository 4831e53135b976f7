package health

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/dealpulse/pkg/models"
)

func TestScoreRiskAgeBuckets(t *testing.T) {
	engine := newTestEngine(nil)

	cases := []struct {
		ageDays int
		want    float64
	}{
		{0, 100},
		{29, 100},
		{30, 80},
		{59, 80},
		{60, 60},
		{89, 60},
		{90, 40},
		{119, 40},
		{120, 20},
	}
	for _, tc := range cases {
		score := engine.scoreRisk(&models.Deal{AgeDays: tc.ageDays, Stage: models.StageProposal})
		assert.Equal(t, tc.want, score.Metrics["age_risk"], "age %d", tc.ageDays)
	}
}

func TestScoreRiskObjections(t *testing.T) {
	engine := newTestEngine(nil)

	deal := &models.Deal{
		Stage: models.StageProposal,
		Objections: []models.Objection{
			{Objection: "price", Status: models.ObjectionOutstanding},
			{Objection: "timeline", Status: models.ObjectionResolved},
			{Objection: "integration", Status: models.ObjectionAddressed},
		},
	}
	score := engine.scoreRisk(deal)

	// Only the outstanding objection counts against the score
	assert.Equal(t, 75.0, score.Metrics["objection_risk"])

	threeOpen := &models.Deal{
		Stage: models.StageProposal,
		Objections: []models.Objection{
			{Status: models.ObjectionOutstanding},
			{Status: models.ObjectionOutstanding},
			{Status: models.ObjectionOutstanding},
		},
	}
	assert.Equal(t, 25.0, engine.scoreRisk(threeOpen).Metrics["objection_risk"])
}

func TestScoreRiskExternalFactors(t *testing.T) {
	engine := newTestEngine(nil)

	none := engine.scoreRisk(&models.Deal{Stage: models.StageProposal})
	assert.Equal(t, 100.0, none.Metrics["external_risk"])

	two := engine.scoreRisk(&models.Deal{
		Stage:       models.StageProposal,
		RiskFactors: []string{"budget freeze", "competitor incumbency"},
	})
	assert.Equal(t, 70.0, two.Metrics["external_risk"])
}

func TestScoreRiskStageReusesProgress(t *testing.T) {
	engine := newTestEngine(nil)

	score := engine.scoreRisk(&models.Deal{Stage: models.StageClosing})
	assert.Equal(t, 95.0, score.Metrics["stage_risk"])

	unknown := engine.scoreRisk(&models.Deal{Stage: models.DealStage("renewal")})
	assert.Equal(t, 50.0, unknown.Metrics["stage_risk"])
}

func TestScoreRiskTrendLabels(t *testing.T) {
	engine := newTestEngine(nil)

	fresh := engine.scoreRisk(&models.Deal{AgeDays: 10, Stage: models.StageClosing})
	assert.Equal(t, "low_risk", fresh.Trend)

	stale := engine.scoreRisk(&models.Deal{
		AgeDays: 150,
		Stage:   models.StageProspecting,
		Objections: []models.Objection{
			{Status: models.ObjectionOutstanding},
			{Status: models.ObjectionOutstanding},
		},
		RiskFactors: []string{"a", "b", "c"},
	})
	assert.Equal(t, "high_risk", stale.Trend)
}
