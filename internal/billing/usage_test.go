package billing

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"go.uber.org/zap"
)

func TestUsageMeterTracksLocally(t *testing.T) {
	meter := NewUsageMeter(Config{}, zap.NewNop())

	meter.Record(context.Background(), FeatureAnalyses, 1)
	meter.Record(context.Background(), FeatureAnalyses, 2)
	meter.Record(context.Background(), FeatureSnapshots, 1)

	assert.Equal(t, int64(3), meter.Usage(FeatureAnalyses))
	assert.Equal(t, int64(1), meter.Usage(FeatureSnapshots))
	assert.Equal(t, int64(0), meter.Usage("unknown"))
}

func TestUsageMeterIgnoresNonPositiveQuantities(t *testing.T) {
	meter := NewUsageMeter(Config{}, zap.NewNop())

	meter.Record(context.Background(), FeatureAnalyses, 0)
	meter.Record(context.Background(), FeatureAnalyses, -5)

	assert.Equal(t, int64(0), meter.Usage(FeatureAnalyses))
}

func TestUsageMeterSnapshot(t *testing.T) {
	meter := NewUsageMeter(Config{}, zap.NewNop())
	meter.Record(context.Background(), FeatureAnalyses, 4)

	snapshot := meter.Snapshot()
	assert.Equal(t, int64(4), snapshot[FeatureAnalyses])

	// The snapshot is a copy, not a live view
	snapshot[FeatureAnalyses] = 99
	assert.Equal(t, int64(4), meter.Usage(FeatureAnalyses))
}

func TestConfigValidate(t *testing.T) {
	assert.NoError(t, Config{}.Validate())
	assert.NoError(t, Config{Enabled: true, StripeKey: "sk_test_x"}.Validate())
	assert.Error(t, Config{Enabled: true}.Validate())
}
