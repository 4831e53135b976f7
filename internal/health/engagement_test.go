package health

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"

	"github.com/dealpulse/pkg/models"
)

func TestScoreEngagementDailyMeetings(t *testing.T) {
	engine := newTestEngine(nil)

	engagements := make([]models.Engagement, 0, 10)
	for i := 0; i < 10; i++ {
		engagements = append(engagements, models.Engagement{
			Type:            "meeting",
			Timestamp:       testNow.AddDate(0, 0, -i),
			DurationMinutes: 60,
			Sentiment:       "positive",
		})
	}
	deal := &models.Deal{
		LastActivity: testNow,
		Engagements:  engagements,
	}

	score := engine.scoreEngagement(deal, testNow)

	assert.Equal(t, 100.0, score.Metrics["recency"])
	assert.Equal(t, 100.0, score.Metrics["frequency"])
	assert.Equal(t, 100.0, score.Metrics["quality"])
	assert.Equal(t, 100.0, score.Metrics["duration"])
	assert.Equal(t, 100.0, score.Score)
	assert.Equal(t, "improving", score.Trend)
	assert.Empty(t, score.Recommendations)
}

func TestScoreEngagementRecencyBuckets(t *testing.T) {
	engine := newTestEngine(nil)

	cases := []struct {
		daysAgo int
		want    float64
	}{
		{0, 100},
		{1, 100},
		{3, 80},
		{7, 60},
		{14, 40},
		{30, 20},
		{31, 10},
	}
	for _, tc := range cases {
		deal := &models.Deal{LastActivity: testNow.AddDate(0, 0, -tc.daysAgo)}
		score := engine.scoreEngagement(deal, testNow)
		assert.Equal(t, tc.want, score.Metrics["recency"], "days ago %d", tc.daysAgo)
	}
}

func TestScoreEngagementNoActivity(t *testing.T) {
	engine := newTestEngine(nil)

	score := engine.scoreEngagement(&models.Deal{}, testNow)

	assert.Equal(t, 10.0, score.Metrics["recency"])
	assert.Equal(t, 10.0, score.Metrics["frequency"])
	// No recent engagements leave quality at its neutral baseline
	assert.Equal(t, 50.0, score.Metrics["quality"])
	assert.Equal(t, 20.0, score.Metrics["duration"])
	assert.Equal(t, "stable", score.Trend)
	assert.NotEmpty(t, score.Recommendations)
}

func TestScoreEngagementQualityRatio(t *testing.T) {
	engine := newTestEngine(nil)

	// Two high-value meetings and two short neutral emails
	deal := &models.Deal{
		LastActivity: testNow,
		Engagements: []models.Engagement{
			{Type: "meeting", Timestamp: testNow.AddDate(0, 0, -1), DurationMinutes: 45},
			{Type: "demo", Timestamp: testNow.AddDate(0, 0, -3), DurationMinutes: 50},
			{Type: "email", Timestamp: testNow.AddDate(0, 0, -5), DurationMinutes: 5, Sentiment: "neutral"},
			{Type: "email", Timestamp: testNow.AddDate(0, 0, -6), DurationMinutes: 5, Sentiment: "neutral"},
		},
	}

	score := engine.scoreEngagement(deal, testNow)
	assert.Equal(t, 50.0, score.Metrics["quality"])
}

func TestEngagementTrend(t *testing.T) {
	engine := newTestEngine(nil)

	current := []models.Engagement{
		{Timestamp: testNow.AddDate(0, 0, -2)},
		{Timestamp: testNow.AddDate(0, 0, -5)},
		{Timestamp: testNow.AddDate(0, 0, -9)},
	}
	previous := []models.Engagement{
		{Timestamp: testNow.AddDate(0, 0, -16)},
		{Timestamp: testNow.AddDate(0, 0, -20)},
	}

	assert.Equal(t, "stable", engine.engagementTrend(append(current[:2:2], previous...), testNow))
	assert.Equal(t, "improving", engine.engagementTrend(append(current, previous[:1]...), testNow))
	assert.Equal(t, "declining", engine.engagementTrend(append(current[:1:1], previous...), testNow))
	assert.Equal(t, "stable", engine.engagementTrend(nil, testNow))
	assert.Equal(t, "improving", engine.engagementTrend(current[:1], testNow))
}

func TestRecentEngagementsWindow(t *testing.T) {
	engagements := []models.Engagement{
		{Timestamp: testNow.AddDate(0, 0, -5)},
		{Timestamp: testNow.AddDate(0, 0, -29)},
		{Timestamp: testNow.AddDate(0, 0, -31)},
		{Timestamp: testNow.Add(24 * time.Hour)}, // future entries are ignored
	}

	recent := recentEngagements(engagements, testNow, 30)
	assert.Len(t, recent, 2)
}
