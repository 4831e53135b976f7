package health

import (
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/dealpulse/pkg/models"
)

func TestScoreCompetitionUncontested(t *testing.T) {
	engine := newTestEngine(nil)

	result := engine.scoreCompetition(&models.Deal{Value: 50000})

	assert.Equal(t, 100.0, result.Metrics["competitor_count"])
	assert.Equal(t, 90.0, result.Metrics["competitive_position"])
	assert.Equal(t, 75.0, result.Metrics["differentiation"])
	assert.Equal(t, 70.0, result.Metrics["market_position"])
	assert.InDelta(t, 89.0, result.Score, 0.001)
	assert.Equal(t, "uncontested", result.Trend)
	assert.Empty(t, result.Recommendations)
}

func TestScoreCompetitionCompetitorBuckets(t *testing.T) {
	engine := newTestEngine(nil)

	cases := []struct {
		competitors int
		expected    float64
		trend       string
	}{
		{0, 100, "uncontested"},
		{1, 80, "contested"},
		{2, 60, "contested"},
		{3, 40, "crowded"},
		{4, 20, "crowded"},
		{7, 20, "crowded"},
	}
	for _, tc := range cases {
		t.Run(fmt.Sprintf("%d competitors", tc.competitors), func(t *testing.T) {
			deal := &models.Deal{Value: 50000}
			for i := 0; i < tc.competitors; i++ {
				deal.Competitors = append(deal.Competitors, fmt.Sprintf("rival-%d", i))
			}

			result := engine.scoreCompetition(deal)
			assert.Equal(t, tc.expected, result.Metrics["competitor_count"])
			assert.Equal(t, tc.trend, result.Trend)
		})
	}
}

func TestScoreCompetitionDealSizePosition(t *testing.T) {
	engine := newTestEngine(nil)

	small := engine.scoreCompetition(&models.Deal{Value: 50000})
	mid := engine.scoreCompetition(&models.Deal{Value: 200000})
	large := engine.scoreCompetition(&models.Deal{Value: 600000})

	assert.Equal(t, 90.0, small.Metrics["competitive_position"])
	assert.Equal(t, 80.0, mid.Metrics["competitive_position"])
	assert.Equal(t, 70.0, large.Metrics["competitive_position"])

	// Boundary values stay in the lower band
	atMid := engine.scoreCompetition(&models.Deal{Value: 100000})
	atLarge := engine.scoreCompetition(&models.Deal{Value: 500000})
	assert.Equal(t, 90.0, atMid.Metrics["competitive_position"])
	assert.Equal(t, 80.0, atLarge.Metrics["competitive_position"])
}

func TestScoreCompetitionRecommendations(t *testing.T) {
	engine := newTestEngine(nil)

	one := engine.scoreCompetition(&models.Deal{Competitors: []string{"a"}})
	assert.Len(t, one.Recommendations, 1)

	crowded := engine.scoreCompetition(&models.Deal{
		Competitors: []string{"a", "b", "c"},
	})
	assert.Len(t, crowded.Recommendations, 2)
	assert.Contains(t, crowded.Recommendations[0], "Crowded field")
}

func TestScoreCompetitionWeightedComposite(t *testing.T) {
	engine := newTestEngine(nil)

	// 2 competitors on a mid-size deal: 60*0.4 + 80*0.3 + 75*0.2 + 70*0.1
	result := engine.scoreCompetition(&models.Deal{
		Value:       200000,
		Competitors: []string{"a", "b"},
	})
	assert.InDelta(t, 70.0, result.Score, 0.001)
}
