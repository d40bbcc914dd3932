package study

import (
	"errors"
	"math"
	"math/rand"
	"testing"
	"time"

	"EventPulse/internal/domain/models"
)

func testEvent(id, symbol string, ts time.Time) models.Event {
	return models.Event{
		EventID:   id,
		TS:        ts,
		Symbol:    symbol,
		Category:  "Test",
		Headline:  "synthetic",
		Source:    "unit",
		Direction: models.DirectionNeutral,
	}
}

func TestRunNoMatchingEvents(t *testing.T) {
	base := time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)
	bars := syntheticBars("ALT-USD", base, make([]float64, 400))

	_, err := Run(bars, nil, "ALT-USD", nil, Config{}, defaultTestWindows())
	if !errors.Is(err, ErrNoEvents) {
		t.Fatalf("expected ErrNoEvents, got %v", err)
	}

	other := []models.Event{testEvent("e1", "ETH-USD", base.Add(300*time.Hour))}
	_, err = Run(bars, other, "ALT-USD", nil, Config{}, defaultTestWindows())
	if !errors.Is(err, ErrNoEvents) {
		t.Fatalf("events for another symbol must not count, got %v", err)
	}
}

func TestRunCurveShape(t *testing.T) {
	base := time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)
	bars := syntheticBars("ALT-USD", base, make([]float64, 400))
	events := []models.Event{testEvent("e1", "ALT-USD", base.Add(300*time.Hour))}

	agg, err := Run(bars, events, "ALT-USD", nil, Config{}, defaultTestWindows())
	if err != nil {
		t.Fatalf("run: %v", err)
	}
	if agg.MeanAR.Len() != 49 || agg.MeanCAR.Len() != 49 {
		t.Fatalf("event window (-24, 24) must give 49 points, got %d/%d", agg.MeanAR.Len(), agg.MeanCAR.Len())
	}
	if agg.MeanAR.StartHour != -24 || agg.MeanAR.EndHour() != 24 {
		t.Fatalf("curve indexed %d..%d, want -24..24", agg.MeanAR.StartHour, agg.MeanAR.EndHour())
	}
}

func TestRunAggregateCIRequiresFiveEvents(t *testing.T) {
	base := time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)
	rng := rand.New(rand.NewSource(3))
	rets := make([]float64, 500)
	for i := range rets {
		rets[i] = rng.NormFloat64() * 0.001
	}
	bars := syntheticBars("ALT-USD", base, rets)

	two := []models.Event{
		testEvent("e1", "ALT-USD", base.Add(300*time.Hour)),
		testEvent("e2", "ALT-USD", base.Add(340*time.Hour)),
	}
	agg, err := Run(bars, two, "ALT-USD", nil, Config{}, defaultTestWindows())
	if err != nil {
		t.Fatalf("run: %v", err)
	}
	if agg.CARCI.Valid {
		t.Fatalf("two events cannot support an aggregate interval: %+v", agg.CARCI)
	}

	five := make([]models.Event, 0, 5)
	for i := 0; i < 5; i++ {
		five = append(five, testEvent("e"+string(rune('1'+i)), "ALT-USD", base.Add(time.Duration(280+20*i)*time.Hour)))
	}
	agg, err = Run(bars, five, "ALT-USD", nil, Config{}, defaultTestWindows())
	if err != nil {
		t.Fatalf("run: %v", err)
	}
	if !agg.CARCI.Valid {
		t.Fatalf("five defined terminal CARs must yield an aggregate interval")
	}
	if agg.CARCI.Low > agg.CARCI.High {
		t.Fatalf("interval out of order: %+v", agg.CARCI)
	}
}

func TestRunDetectsInjectedJump(t *testing.T) {
	base := time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)
	rng := rand.New(rand.NewSource(42))
	rets := make([]float64, 400)
	for i := range rets {
		rets[i] = rng.NormFloat64() * 0.0005
	}
	rets[300] += 0.05
	bars := syntheticBars("ALT-USD", base, rets)
	events := []models.Event{testEvent("jump", "ALT-USD", base.Add(300*time.Hour))}

	agg, err := Run(bars, events, "ALT-USD", nil, Config{}, defaultTestWindows())
	if err != nil {
		t.Fatalf("run: %v", err)
	}
	if len(agg.PerEvent) != 1 {
		t.Fatalf("got %d per-event results, want 1", len(agg.PerEvent))
	}
	last, ok := agg.MeanCAR.LastDefined()
	if !ok {
		t.Fatalf("mean CAR has no defined terminal value")
	}
	if last <= 0.02 {
		t.Fatalf("mean CAR at +24h = %v, the +5%% shock must be visible above noise", last)
	}
}

func TestRunAveragesTwoDisjointEvents(t *testing.T) {
	base := time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)
	rng := rand.New(rand.NewSource(9))
	rets := make([]float64, 600)
	for i := range rets {
		rets[i] = rng.NormFloat64() * 0.001
	}
	bars := syntheticBars("ALT-USD", base, rets)

	// anchors far enough apart that estimation and event windows are disjoint
	events := []models.Event{
		testEvent("e1", "ALT-USD", base.Add(280*time.Hour)),
		testEvent("e2", "ALT-USD", base.Add(560*time.Hour)),
	}
	agg, err := Run(bars, events, "ALT-USD", nil, Config{}, defaultTestWindows())
	if err != nil {
		t.Fatalf("run: %v", err)
	}
	if len(agg.PerEvent) != 2 {
		t.Fatalf("got %d per-event results, want 2", len(agg.PerEvent))
	}
	for i := range agg.MeanAR.Values {
		a := agg.PerEvent[0].AR.Values[i]
		b := agg.PerEvent[1].AR.Values[i]
		want := (a + b) / 2
		got := agg.MeanAR.Values[i]
		switch {
		case math.IsNaN(a) && math.IsNaN(b):
			if !math.IsNaN(got) {
				t.Fatalf("hour %d: mean of two NaNs must be NaN, got %v", agg.MeanAR.StartHour+i, got)
			}
		case math.IsNaN(a):
			if got != b {
				t.Fatalf("hour %d: mean with one NaN must equal the defined value", agg.MeanAR.StartHour+i)
			}
		case math.IsNaN(b):
			if got != a {
				t.Fatalf("hour %d: mean with one NaN must equal the defined value", agg.MeanAR.StartHour+i)
			}
		default:
			if math.Abs(got-want) > 1e-12 {
				t.Fatalf("hour %d: got %v, want %v", agg.MeanAR.StartHour+i, got, want)
			}
		}
	}
}

func TestRunMarketModelUsesBenchmark(t *testing.T) {
	base := time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)
	benchRets := make([]float64, 400)
	targRets := make([]float64, 400)
	for i := range benchRets {
		benchRets[i] = 0.002 * math.Sin(float64(i)*0.9)
		targRets[i] = 0.0003 + 0.8*benchRets[i]
	}
	bars := syntheticBars("ALT-USD", base, targRets)
	benchBars := syntheticBars("BTC-USD", base, benchRets)
	events := []models.Event{testEvent("e1", "ALT-USD", base.Add(300*time.Hour))}

	cfg := Config{Benchmark: "BTC-USD"}
	agg, err := Run(bars, events, "ALT-USD", benchBars, cfg, defaultTestWindows())
	if err != nil {
		t.Fatalf("run: %v", err)
	}
	res := agg.PerEvent[0]
	if math.Abs(res.Beta-0.8) > 1e-9 {
		t.Fatalf("beta = %v, want 0.8", res.Beta)
	}
	if last, ok := agg.MeanCAR.LastDefined(); !ok || math.Abs(last) > 1e-6 {
		t.Fatalf("fully explained target should leave mean CAR near 0, got %v", last)
	}
}

func TestRunBenchmarkSameAsTargetFallsBack(t *testing.T) {
	base := time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)
	bars := syntheticBars("BTC-USD", base, make([]float64, 400))
	events := []models.Event{testEvent("e1", "BTC-USD", base.Add(300*time.Hour))}

	cfg := Config{Benchmark: "BTC-USD"}
	agg, err := Run(bars, events, "BTC-USD", bars, cfg, defaultTestWindows())
	if err != nil {
		t.Fatalf("run: %v", err)
	}
	if agg.PerEvent[0].Beta != 0 {
		t.Fatalf("benchmarking a symbol against itself must mean-adjust, beta = %v", agg.PerEvent[0].Beta)
	}
}
