package study

import (
	"math"
	"testing"
	"time"

	"EventPulse/internal/domain/models"
)

func syntheticBars(symbol string, base time.Time, rets []float64) []models.Bar {
	bars := make([]models.Bar, len(rets))
	price := 100.0
	for i, r := range rets {
		price *= math.Exp(r)
		bars[i] = models.Bar{
			TS:     base.Add(time.Duration(i) * time.Hour),
			Symbol: symbol,
			Open:   price,
			High:   price,
			Low:    price,
			Close:  price,
			Volume: 1,
		}
	}
	return bars
}

func defaultTestWindows() models.Windows {
	return models.Windows{
		Estimation: models.Window{Start: -240, End: -24},
		Event:      models.Window{Start: -24, End: 24},
	}
}

func TestMeanAdjustedZeroVarianceGivesZeroAR(t *testing.T) {
	base := time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)
	rets := make([]float64, 400)
	for i := range rets {
		rets[i] = 0.001
	}
	bars := syntheticBars("ALT-USD", base, rets)
	target := LogReturns(CloseSeries(bars))

	t0 := base.Add(300 * time.Hour)
	cfg := Config{UseBootstrap: false}
	res := EvaluateEvent("ev1", "ALT-USD", target, MeanAdjusted(), t0, defaultTestWindows(), cfg)

	if math.Abs(res.Alpha-0.001) > 1e-9 {
		t.Fatalf("alpha = %v, want estimation-window mean 0.001", res.Alpha)
	}
	if res.Beta != 0 {
		t.Fatalf("mean-adjusted beta must be 0, got %v", res.Beta)
	}
	for i, v := range res.AR.Values {
		if math.IsNaN(v) {
			continue
		}
		if math.Abs(v) > 1e-9 {
			t.Fatalf("AR[%d] = %v, want 0 under zero estimation variance", res.AR.StartHour+i, v)
		}
	}
}

func TestMeanAdjustedEmptyEstimationWindow(t *testing.T) {
	base := time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)
	rets := make([]float64, 60)
	for i := range rets {
		rets[i] = 0.002
	}
	bars := syntheticBars("ALT-USD", base, rets)
	target := LogReturns(CloseSeries(bars))

	// anchor far past the data, so the estimation window is empty
	t0 := base.Add(2000 * time.Hour)
	res := EvaluateEvent("ev1", "ALT-USD", target, MeanAdjusted(), t0, defaultTestWindows(), Config{})

	if res.Alpha != 0 {
		t.Fatalf("empty estimation window should mean-adjust by 0, got %v", res.Alpha)
	}
	for _, v := range res.AR.Values {
		if !math.IsNaN(v) {
			t.Fatalf("no data in the event window, AR should be all NaN: %v", res.AR.Values)
		}
	}
}

func TestMarketModelRemovesBenchmarkComponent(t *testing.T) {
	base := time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)
	benchRets := make([]float64, 400)
	targRets := make([]float64, 400)
	for i := range benchRets {
		// deterministic oscillation; target follows the benchmark exactly
		benchRets[i] = 0.003 * math.Sin(float64(i)*0.7)
		targRets[i] = 0.0005 + 1.2*benchRets[i]
	}
	bench := LogReturns(CloseSeries(syntheticBars("BTC-USD", base, benchRets)))
	target := LogReturns(CloseSeries(syntheticBars("ALT-USD", base, targRets)))

	t0 := base.Add(300 * time.Hour)
	res := EvaluateEvent("ev1", "ALT-USD", target, MarketModel(bench), t0, defaultTestWindows(), Config{})

	if math.Abs(res.Alpha-0.0005) > 1e-9 || math.Abs(res.Beta-1.2) > 1e-9 {
		t.Fatalf("fit (%v, %v), want (0.0005, 1.2)", res.Alpha, res.Beta)
	}
	for i, v := range res.AR.Values {
		if math.IsNaN(v) {
			continue
		}
		if math.Abs(v) > 1e-9 {
			t.Fatalf("AR[%d] = %v, want 0 when the model explains the target exactly", res.AR.StartHour+i, v)
		}
	}
}

func TestEventCARAccumulates(t *testing.T) {
	base := time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)
	rets := make([]float64, 400)
	bars := syntheticBars("ALT-USD", base, rets) // flat path, all returns 0
	target := LogReturns(CloseSeries(bars))

	t0 := base.Add(300 * time.Hour)
	res := EvaluateEvent("ev1", "ALT-USD", target, MeanAdjusted(), t0, defaultTestWindows(), Config{})

	if res.CAR.Len() != res.AR.Len() || res.CAR.StartHour != res.AR.StartHour {
		t.Fatalf("CAR must share the AR grid: %+v vs %+v", res.CAR, res.AR)
	}
	if v, ok := res.CAR.LastDefined(); !ok || math.Abs(v) > 1e-12 {
		t.Fatalf("flat path should accumulate to 0, got %v", v)
	}
}

func TestEventCIGating(t *testing.T) {
	base := time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)
	rets := make([]float64, 400)
	for i := range rets {
		rets[i] = 0.001 * math.Sin(float64(i))
	}
	bars := syntheticBars("ALT-USD", base, rets)
	target := LogReturns(CloseSeries(bars))
	t0 := base.Add(300 * time.Hour)

	off := EvaluateEvent("ev1", "ALT-USD", target, MeanAdjusted(), t0, defaultTestWindows(), Config{UseBootstrap: false})
	if off.CARCI.Valid {
		t.Fatalf("bootstrap disabled, interval must be invalid: %+v", off.CARCI)
	}

	on := EvaluateEvent("ev1", "ALT-USD", target, MeanAdjusted(), t0, defaultTestWindows(), Config{UseBootstrap: true, BootstrapIter: 200, Seed: 42})
	if !on.CARCI.Valid {
		t.Fatalf("ample history with bootstrap on, interval must be valid")
	}
	if on.CARCI.Low > on.CARCI.High {
		t.Fatalf("interval out of order: %+v", on.CARCI)
	}
}
