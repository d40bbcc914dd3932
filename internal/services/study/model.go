package study

import "EventPulse/internal/domain/models"

// ModelKind selects the expected-return model.
type ModelKind string

const (
	// KindMeanAdjusted models the expected return as the estimation-window
	// mean of the target's own returns.
	KindMeanAdjusted ModelKind = "mean_adjusted"
	// KindMarketModel models the expected return as alpha + beta times the
	// benchmark's return.
	KindMarketModel ModelKind = "market_model"
)

// Model is a tagged variant over the two estimation algorithms, dispatched
// on explicitly rather than via a nil-benchmark sentinel.
type Model struct {
	Kind      ModelKind
	Benchmark models.Series // return series, set only for KindMarketModel
}

// MeanAdjusted returns the benchmark-free model.
func MeanAdjusted() Model {
	return Model{Kind: KindMeanAdjusted}
}

// MarketModel returns the benchmark-relative model over the given benchmark
// return series.
func MarketModel(bench models.Series) Model {
	return Model{Kind: KindMarketModel, Benchmark: bench}
}

// Config holds the per-run study configuration. Immutable per run.
type Config struct {
	Benchmark     string // benchmark symbol; empty selects mean-adjustment
	UseBootstrap  bool
	BootstrapIter int
	Seed          int64
}

// DefaultConfig mirrors the standard analyst setup: benchmark against
// BTC-USD with 1000 bootstrap draws.
func DefaultConfig() Config {
	return Config{
		Benchmark:     "BTC-USD",
		UseBootstrap:  true,
		BootstrapIter: 1000,
		Seed:          42,
	}
}
