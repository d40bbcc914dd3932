package study

import (
	"math"
	"testing"
	"time"

	"EventPulse/internal/domain/models"
)

func TestLogReturnsValues(t *testing.T) {
	base := time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)
	prices := hourlySeries(base, []float64{100, 110, 99})

	rets := LogReturns(prices)
	if rets.Len() != 2 {
		t.Fatalf("got %d returns, want 2", rets.Len())
	}
	if !rets.Times[0].Equal(base.Add(time.Hour)) {
		t.Fatalf("first return indexed at %v, want later timestamp of the pair", rets.Times[0])
	}
	want0 := math.Log(110.0 / 100.0)
	if math.Abs(rets.Values[0]-want0) > 1e-15 {
		t.Fatalf("got %v, want %v", rets.Values[0], want0)
	}
}

func TestLogReturnsNonPositivePrice(t *testing.T) {
	base := time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)
	prices := hourlySeries(base, []float64{100, 0, 110, 120})

	rets := LogReturns(prices)
	if !math.IsNaN(rets.Values[0]) || !math.IsNaN(rets.Values[1]) {
		t.Fatalf("returns adjacent to a non-positive price must be NaN: %v", rets.Values)
	}
	if math.IsNaN(rets.Values[2]) {
		t.Fatalf("return away from the bad price should survive: %v", rets.Values)
	}
}

func TestLogReturnsShortInput(t *testing.T) {
	var empty models.Series
	if got := LogReturns(empty); got.Len() != 0 {
		t.Fatalf("empty input: got %d returns", got.Len())
	}
	base := time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)
	one := hourlySeries(base, []float64{100})
	if got := LogReturns(one); got.Len() != 0 {
		t.Fatalf("single price: got %d returns", got.Len())
	}
}
