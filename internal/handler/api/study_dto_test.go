package api

import (
	"encoding/json"
	"math"
	"testing"
	"time"

	"EventPulse/internal/domain/models"
)

func TestToStudyResponseMapsNaNToNil(t *testing.T) {
	t0 := time.Date(2024, 3, 1, 6, 0, 0, 0, time.UTC)
	res := &models.AggregateResult{
		Symbol: "BTC-USD",
		Window: models.Window{Start: -1, End: 1},
		MeanAR: models.HourSeries{
			StartHour: -1,
			Values:    []float64{math.NaN(), 0.01, -0.02},
		},
		MeanCAR: models.HourSeries{
			StartHour: -1,
			Values:    []float64{math.NaN(), 0.01, -0.01},
		},
		CARCI: models.ConfidenceInterval{Low: -0.05, High: 0.03, Valid: true},
		PerEvent: []models.EventResult{{
			EventID: "e1",
			T0:      t0,
			Alpha:   0.001,
			Beta:    0.9,
			CAR:     models.HourSeries{StartHour: -1, Values: []float64{0.005, math.NaN(), math.NaN()}},
			CARCI:   models.ConfidenceInterval{},
		}},
	}

	resp := ToStudyResponse(res, "ETH-USD")

	if len(resp.Curve) != 3 {
		t.Fatalf("got %d curve points, want 3", len(resp.Curve))
	}
	if resp.Curve[0].Hour != -1 || resp.Curve[2].Hour != 1 {
		t.Fatalf("curve hours = %d..%d", resp.Curve[0].Hour, resp.Curve[2].Hour)
	}
	if resp.Curve[0].AR != nil || resp.Curve[0].CAR != nil {
		t.Fatal("NaN values must map to nil")
	}
	if resp.Curve[1].AR == nil || *resp.Curve[1].AR != 0.01 {
		t.Fatalf("curve[1].AR = %v", resp.Curve[1].AR)
	}

	if resp.CARCI.Low == nil || resp.CARCI.High == nil {
		t.Fatal("valid interval must carry bounds")
	}
	if *resp.CARCI.Low != -0.05 || *resp.CARCI.High != 0.03 {
		t.Fatalf("interval = [%v, %v]", *resp.CARCI.Low, *resp.CARCI.High)
	}

	if len(resp.PerEvent) != 1 {
		t.Fatalf("got %d per-event entries", len(resp.PerEvent))
	}
	e := resp.PerEvent[0]
	if e.CARCI.Low != nil || e.CARCI.High != nil {
		t.Fatal("invalid per-event interval must have nil bounds")
	}
	if e.TerminalCAR == nil || *e.TerminalCAR != 0.005 {
		t.Fatalf("terminal CAR = %v, want 0.005 from last defined entry", e.TerminalCAR)
	}

	// The whole point of the pointer mapping is JSON encodability.
	if _, err := json.Marshal(resp); err != nil {
		t.Fatalf("marshal: %v", err)
	}
}
