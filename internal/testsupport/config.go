package testsupport

import (
	"path/filepath"
	"testing"

	"brigade/internal/config"
)

// ConfigOption allows callers to customize the generated test configuration.
type ConfigOption func(*configBuilder)

type configBuilder struct {
	t       testing.TB
	baseDir string
	cfg     *config.Config
}

// NewConfig produces a config with a per-test state directory, a fixed seed,
// and millisecond-scale timings so runs finish quickly. Options apply last.
func NewConfig(t testing.TB, opts ...ConfigOption) *config.Config {
	t.Helper()

	base := t.TempDir()
	cfgVal := config.Default()
	cfgVal.Seed = 1
	cfgVal.Paths.StateDir = filepath.Join(base, "state")
	cfgVal.Timing = config.Timing{
		PushTimeoutMS:          20,
		PopTimeoutMS:           10,
		BackpressurePauseMS:    2,
		BackpressureMaxPauseMS: 10,
		ArrivalMinMS:           0,
		ArrivalMaxMS:           2,
		CookTimeScale:          0.001,
	}

	builder := &configBuilder{
		t:       t,
		baseDir: base,
		cfg:     &cfgVal,
	}

	for _, opt := range opts {
		opt(builder)
	}

	return builder.cfg
}

// WithKitchen overrides customer and cook counts.
func WithKitchen(customers, cooks int) ConfigOption {
	return func(b *configBuilder) {
		b.cfg.Kitchen.Customers = customers
		b.cfg.Kitchen.Cooks = cooks
	}
}

// WithCapacity overrides the queue capacity.
func WithCapacity(capacity int) ConfigOption {
	return func(b *configBuilder) {
		b.cfg.Kitchen.QueueCapacity = capacity
	}
}

// WithOrderLimits overrides the per-customer order and per-order item caps.
func WithOrderLimits(orders, items int) ConfigOption {
	return func(b *configBuilder) {
		b.cfg.Kitchen.MaxOrdersPerCustomer = orders
		b.cfg.Kitchen.MaxItemsPerOrder = items
	}
}

// WithTiming replaces the timing section.
func WithTiming(timing config.Timing) ConfigOption {
	return func(b *configBuilder) {
		b.cfg.Timing = timing
	}
}

// WithoutJournal disables the run history database.
func WithoutJournal() ConfigOption {
	return func(b *configBuilder) {
		b.cfg.Journal.Enabled = false
	}
}
