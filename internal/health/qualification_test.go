package health

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/dealpulse/pkg/models"
)

func TestScoreQualificationUnknownCompanySize(t *testing.T) {
	engine := newTestEngine(nil)

	score := engine.scoreQualification(&models.Deal{Value: 200000})

	// Unknown size must default budget fit, never divide by zero
	assert.Equal(t, 50.0, score.Metrics["budget_fit"])
	assert.Equal(t, 40.0, score.Metrics["company_fit"])
	assert.Contains(t, score.Recommendations[0], "Capture company size")
}

func TestScoreQualificationBudgetRatio(t *testing.T) {
	engine := newTestEngine(nil)

	cases := []struct {
		value float64
		size  int
		want  float64
	}{
		{50000, 1000, 90},    // ratio 50
		{150000, 300, 100},   // ratio 500
		{900000, 300, 80},    // ratio 3000
		{3000000, 300, 60},   // ratio 10000
		{10000000, 300, 40},  // ratio above every band
	}
	for _, tc := range cases {
		deal := &models.Deal{Value: tc.value, CompanySize: tc.size}
		score := engine.scoreQualification(deal)
		assert.Equal(t, tc.want, score.Metrics["budget_fit"], "value %.0f size %d", tc.value, tc.size)
	}
}

func TestScoreQualificationCompanySizeBands(t *testing.T) {
	engine := newTestEngine(nil)

	cases := []struct {
		size int
		want float64
	}{
		{2000, 90},
		{500, 100},
		{100, 80},
		{20, 60},
		{5, 40},
	}
	for _, tc := range cases {
		score := engine.scoreQualification(&models.Deal{Value: 1, CompanySize: tc.size})
		assert.Equal(t, tc.want, score.Metrics["company_fit"], "size %d", tc.size)
	}
}

func TestScoreQualificationRiskFactors(t *testing.T) {
	engine := newTestEngine(nil)

	clean := engine.scoreQualification(&models.Deal{CompanySize: 300})
	assert.Equal(t, 100.0, clean.Metrics["risk_level"])

	risky := engine.scoreQualification(&models.Deal{
		CompanySize: 300,
		RiskFactors: []string{"budget freeze", "reorg", "sponsor exit"},
	})
	assert.Equal(t, 40.0, risky.Metrics["risk_level"])

	// Six factors would go negative without the clamp
	flooded := engine.scoreQualification(&models.Deal{
		CompanySize: 300,
		RiskFactors: []string{"a", "b", "c", "d", "e", "f"},
	})
	assert.Equal(t, 0.0, flooded.Metrics["risk_level"])
}

func TestScoreQualificationNeedFitBaseline(t *testing.T) {
	engine := newTestEngine(nil)

	score := engine.scoreQualification(&models.Deal{CompanySize: 300})
	assert.Equal(t, 75.0, score.Metrics["need_fit"])
}
