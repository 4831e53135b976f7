package billing

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/stripe/stripe-go/v74"
	"github.com/stripe/stripe-go/v74/usagerecord"
	"go.uber.org/zap"
)

// Metered features
const (
	FeatureAnalyses  = "deal_analyses"
	FeatureSnapshots = "history_snapshots"
)

// Config represents billing configuration
type Config struct {
	Enabled   bool              `yaml:"enabled" json:"enabled"`
	StripeKey string            `yaml:"stripe_key" json:"stripe_key"`
	// Maps metered feature name to the Stripe subscription item it bills to
	SubscriptionItems map[string]string `yaml:"subscription_items" json:"subscription_items"`
}

// UsageMeter tracks metered feature usage and reports it to Stripe.
// Reporting failures are logged; they never fail the request that
// produced the usage.
type UsageMeter struct {
	config Config
	logger *zap.Logger

	mu     sync.Mutex
	counts map[string]int64
}

// NewUsageMeter creates a usage meter
func NewUsageMeter(config Config, logger *zap.Logger) *UsageMeter {
	if config.Enabled && config.StripeKey != "" {
		stripe.Key = config.StripeKey
	}
	return &UsageMeter{
		config: config,
		logger: logger,
		counts: make(map[string]int64),
	}
}

// Record counts one unit of a metered feature and reports it to Stripe
// when billing is enabled and the feature has a subscription item.
func (um *UsageMeter) Record(ctx context.Context, feature string, quantity int64) {
	if quantity <= 0 {
		return
	}

	um.mu.Lock()
	um.counts[feature] += quantity
	um.mu.Unlock()

	if !um.config.Enabled {
		return
	}

	subItemID, ok := um.config.SubscriptionItems[feature]
	if !ok || subItemID == "" {
		// Feature is not metered, included in plan
		return
	}

	params := &stripe.UsageRecordParams{
		SubscriptionItem: stripe.String(subItemID),
		Quantity:         stripe.Int64(quantity),
		Timestamp:        stripe.Int64(time.Now().Unix()),
		Action:           stripe.String(stripe.UsageRecordActionIncrement),
	}
	params.Context = ctx

	if _, err := usagerecord.New(params); err != nil {
		um.logger.Warn("failed to record usage in Stripe",
			zap.String("feature", feature),
			zap.Int64("quantity", quantity),
			zap.Error(err))
	}
}

// Usage returns the locally tracked count for a feature
func (um *UsageMeter) Usage(feature string) int64 {
	um.mu.Lock()
	defer um.mu.Unlock()
	return um.counts[feature]
}

// Snapshot returns a copy of all locally tracked counts
func (um *UsageMeter) Snapshot() map[string]int64 {
	um.mu.Lock()
	defer um.mu.Unlock()

	out := make(map[string]int64, len(um.counts))
	for feature, count := range um.counts {
		out[feature] = count
	}
	return out
}

// Validate checks billing configuration
func (c Config) Validate() error {
	if !c.Enabled {
		return nil
	}
	if c.StripeKey == "" {
		return fmt.Errorf("billing is enabled but stripe_key is empty")
	}
	return nil
}
