package events

import (
	"encoding/json"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/dealpulse/pkg/models"
)

func TestNewKafkaEventBusRequiresBrokers(t *testing.T) {
	_, err := NewKafkaEventBus(KafkaConfig{}, zap.NewNop())
	assert.Error(t, err)
}

func TestBuildMessage(t *testing.T) {
	event := models.AnalysisEvent{
		ID:         "evt-1",
		Type:       models.EventAnalysisCompleted,
		DealID:     "deal-1",
		AnalysisID: "a-1",
		Score:      82.5,
		Grade:      models.GradeB,
		RiskLevel:  models.RiskLevelLow,
		Trend:      models.TrendImproving,
		Timestamp:  time.Date(2025, 6, 2, 12, 0, 0, 0, time.UTC),
	}

	message, err := buildMessage(TopicAnalyses, event)
	require.NoError(t, err)

	assert.Equal(t, TopicAnalyses, message.Topic)
	assert.Equal(t, []byte("deal-1"), message.Key)

	var decoded models.AnalysisEvent
	require.NoError(t, json.Unmarshal(message.Value, &decoded))
	assert.Equal(t, event, decoded)

	headers := make(map[string]string, len(message.Headers))
	for _, h := range message.Headers {
		headers[h.Key] = string(h.Value)
	}
	assert.Equal(t, "analysis.completed", headers["event_type"])
	assert.Equal(t, "low", headers["risk_level"])
	assert.Equal(t, "B", headers["grade"])
	assert.Equal(t, "2025-06-02T12:00:00Z", headers["timestamp"])
}
