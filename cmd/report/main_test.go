package main

import (
	"math"
	"testing"
	"time"

	"EventPulse/internal/domain/models"
	"EventPulse/internal/services/study"
)

// The report command feeds the whole price table as the benchmark source, the
// same way it feeds the target. A benchmark symbol present in that table must
// activate the market model.
func TestReportBenchmarkActivatesMarketModel(t *testing.T) {
	base := time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)

	var bars []models.Bar
	for i := 0; i < 400; i++ {
		ts := base.Add(time.Duration(i) * time.Hour)
		drift := 1 + 0.0001*float64(i%7)
		bench := 100 * math.Pow(drift, float64(i%5+1))
		bars = append(bars,
			models.Bar{TS: ts, Symbol: "ETH-USD", Close: bench * 1.5, Volume: 1},
			models.Bar{TS: ts, Symbol: "BTC-USD", Close: bench, Volume: 1},
		)
	}
	events := []models.Event{{EventID: "e1", TS: base.Add(280 * time.Hour), Symbol: "ETH-USD"}}

	cfg := study.Config{Benchmark: "BTC-USD"}
	res, err := study.Run(bars, events, "ETH-USD", bars, cfg, models.DefaultWindows())
	if err != nil {
		t.Fatalf("Run: %v", err)
	}
	if len(res.PerEvent) != 1 {
		t.Fatalf("got %d per-event results, want 1", len(res.PerEvent))
	}

	// ETH returns here are exactly the BTC returns, so the fitted slope is 1.
	beta := res.PerEvent[0].Beta
	if math.Abs(beta-1.0) > 1e-9 {
		t.Fatalf("beta = %v, want 1 when target mirrors the benchmark", beta)
	}
}
