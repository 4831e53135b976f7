package health

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDefaultScoringConfigIsValid(t *testing.T) {
	config := DefaultScoringConfig()
	require.NoError(t, config.Validate())
}

func TestValidateRejectsBadWeights(t *testing.T) {
	config := DefaultScoringConfig()
	config.Weights.Engagement = 0.5

	err := config.Validate()
	require.Error(t, err)
	assert.Contains(t, err.Error(), "dimension weights")
}

func TestValidateRejectsBadSubWeights(t *testing.T) {
	config := DefaultScoringConfig()
	config.Momentum.StageWeight = 0.9

	err := config.Validate()
	require.Error(t, err)
	assert.Contains(t, err.Error(), "momentum")
}

func TestValidateRejectsUnorderedBands(t *testing.T) {
	config := DefaultScoringConfig()
	config.GradeBands[0].MinScore = 10

	assert.Error(t, config.Validate())
}

func TestValidateRejectsBadConfidence(t *testing.T) {
	config := DefaultScoringConfig()
	config.Confidence = 1.5

	assert.Error(t, config.Validate())
}

func TestBucketScore(t *testing.T) {
	buckets := []ScoreBucket{
		{Max: 1, Score: 100},
		{Max: 7, Score: 60},
	}
	assert.Equal(t, 100.0, bucketScore(0, buckets, 10))
	assert.Equal(t, 100.0, bucketScore(1, buckets, 10))
	assert.Equal(t, 60.0, bucketScore(1.5, buckets, 10))
	assert.Equal(t, 60.0, bucketScore(7, buckets, 10))
	assert.Equal(t, 10.0, bucketScore(7.1, buckets, 10))
}

func TestThresholdScore(t *testing.T) {
	buckets := []ThresholdBucket{
		{Min: 10, Score: 100},
		{Min: 5, Score: 60},
	}
	assert.Equal(t, 100.0, thresholdScore(12, buckets, 10))
	assert.Equal(t, 100.0, thresholdScore(10, buckets, 10))
	assert.Equal(t, 60.0, thresholdScore(5, buckets, 10))
	assert.Equal(t, 10.0, thresholdScore(4, buckets, 10))
}

func TestClampScore(t *testing.T) {
	assert.Equal(t, 0.0, clampScore(-5))
	assert.Equal(t, 100.0, clampScore(120))
	assert.Equal(t, 55.5, clampScore(55.5))
}
