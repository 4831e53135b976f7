package health

import (
	"time"

	"github.com/dealpulse/pkg/models"
)

// scoreEngagement scores buyer interaction recency, frequency, quality, and
// depth over the trailing activity window
func (e *Engine) scoreEngagement(deal *models.Deal, now time.Time) models.DimensionScore {
	cfg := e.config.Engagement

	recency := bucketScore(daysBetween(deal.LastActivity, now), cfg.RecencyBuckets, cfg.RecencyFloor)

	recent := recentEngagements(deal.Engagements, now, cfg.RecentWindowDays)
	frequency := thresholdScore(float64(len(recent)), cfg.FrequencyBuckets, cfg.FrequencyFloor)

	quality := cfg.NeutralQuality
	if len(recent) > 0 {
		highValue := 0
		for _, eng := range recent {
			if isHighValue(eng, cfg) {
				highValue++
			}
		}
		quality = clampScore(float64(highValue) / float64(len(recent)) * 100)
	}

	duration := cfg.DurationFloor
	if len(recent) > 0 {
		total := 0.0
		for _, eng := range recent {
			total += eng.DurationMinutes
		}
		duration = thresholdScore(total/float64(len(recent)), cfg.DurationBuckets, cfg.DurationFloor)
	}

	score := clampScore(recency*cfg.RecencyWeight +
		frequency*cfg.FrequencyWeight +
		quality*cfg.QualityWeight +
		duration*cfg.DurationWeight)

	return models.DimensionScore{
		Score: score,
		Metrics: map[string]float64{
			"recency":   recency,
			"frequency": frequency,
			"quality":   quality,
			"duration":  duration,
		},
		Trend:           e.engagementTrend(deal.Engagements, now),
		Recommendations: e.engagementRecommendations(recency, frequency, quality, duration),
	}
}

// engagementTrend compares activity in the last trend window against the
// preceding window of the same length
func (e *Engine) engagementTrend(engagements []models.Engagement, now time.Time) string {
	cfg := e.config.Engagement
	window := time.Duration(cfg.TrendWindowDays) * 24 * time.Hour

	var current, previous int
	for _, eng := range engagements {
		age := now.Sub(eng.Timestamp)
		switch {
		case age < 0:
			continue
		case age <= window:
			current++
		case age <= 2*window:
			previous++
		}
	}

	if previous == 0 {
		if current > 0 {
			return "improving"
		}
		return "stable"
	}

	ratio := float64(current) / float64(previous)
	switch {
	case ratio > cfg.ImprovingRatio:
		return "improving"
	case ratio < cfg.DecliningRatio:
		return "declining"
	default:
		return "stable"
	}
}

func (e *Engine) engagementRecommendations(recency, frequency, quality, duration float64) []string {
	var recs []string
	if recency <= 40 {
		recs = append(recs, "Re-engage the buyer: no meaningful activity in over a week")
	}
	if frequency <= 40 {
		recs = append(recs, "Increase touchpoint cadence to at least weekly contact")
	}
	if quality <= 50 {
		recs = append(recs, "Shift from email threads to meetings or demos to deepen engagement")
	}
	if duration <= 40 {
		recs = append(recs, "Book longer working sessions; short calls are not advancing the deal")
	}
	return recs
}

func recentEngagements(engagements []models.Engagement, now time.Time, windowDays int) []models.Engagement {
	cutoff := now.AddDate(0, 0, -windowDays)
	var recent []models.Engagement
	for _, eng := range engagements {
		if !eng.Timestamp.Before(cutoff) && !eng.Timestamp.After(now) {
			recent = append(recent, eng)
		}
	}
	return recent
}

// isHighValue reports whether an engagement counts toward quality: a
// high-value type, a positive sentiment, or a long interaction
func isHighValue(eng models.Engagement, cfg EngagementConfig) bool {
	for _, t := range cfg.HighValueTypes {
		if eng.Type == t {
			return true
		}
	}
	if eng.Sentiment == "positive" {
		return true
	}
	return eng.DurationMinutes > cfg.HighValueDurationMin
}
