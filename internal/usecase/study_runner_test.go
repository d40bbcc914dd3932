package usecase

import (
	"context"
	"encoding/json"
	"math"
	"testing"
	"time"

	"EventPulse/internal/domain/models"
	applogger "EventPulse/pkg/logger"
)

type fakeEventStore struct {
	events []models.Event
	stored []models.Event
}

func (s *fakeEventStore) Init(ctx context.Context) error { return nil }

func (s *fakeEventStore) StoreEvents(ctx context.Context, events []models.Event) error {
	s.stored = append(s.stored, events...)
	return nil
}

func (s *fakeEventStore) ListEvents(ctx context.Context, symbol string, from, to time.Time, limit int) ([]models.Event, error) {
	var out []models.Event
	for _, e := range s.events {
		if symbol != "" && e.Symbol != symbol {
			continue
		}
		out = append(out, e)
	}
	return out, nil
}

func (s *fakeEventStore) Close() error { return nil }

type fakePublisher struct {
	published []*models.StudySummary
}

func (p *fakePublisher) Publish(ctx context.Context, s *models.StudySummary) error {
	p.published = append(p.published, s)
	return nil
}

func (p *fakePublisher) Close() error { return nil }

func flatBars(symbol string, base time.Time, n int, price float64) []models.Bar {
	bars := make([]models.Bar, n)
	for i := range bars {
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

func TestStudyRunnerEndToEnd(t *testing.T) {
	base := time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)
	store := &fakeBarStore{byQuery: map[string][]models.Bar{
		"BTC-USD": flatBars("BTC-USD", base, 400, 100),
	}}
	events := &fakeEventStore{events: []models.Event{{
		EventID: "e1",
		TS:      base.Add(280 * time.Hour),
		Symbol:  "BTC-USD",
	}}}
	pub := &fakePublisher{}

	runner := NewStudyRunner(store, events, pub, newFakeMetrics(), applogger.Nop())

	res, err := runner.Run(context.Background(), StudyParams{
		Symbol:  "BTC-USD",
		From:    base,
		To:      base.Add(400 * time.Hour),
		Windows: models.DefaultWindows(),
	})
	if err != nil {
		t.Fatalf("Run: %v", err)
	}
	if res.Symbol != "BTC-USD" {
		t.Fatalf("symbol = %s", res.Symbol)
	}
	if len(res.PerEvent) != 1 {
		t.Fatalf("got %d per-event results, want 1", len(res.PerEvent))
	}
	for i, v := range res.MeanCAR.Values {
		if !math.IsNaN(v) && math.Abs(v) > 1e-12 {
			t.Fatalf("flat price path should give zero CAR, got %v at %d", v, i)
		}
	}

	if len(pub.published) != 1 {
		t.Fatalf("got %d summaries, want 1", len(pub.published))
	}
	s := pub.published[0]
	if s.Symbol != "BTC-USD" || s.Events != 1 {
		t.Fatalf("unexpected summary %+v", s)
	}
	if s.TerminalCAR == nil || math.Abs(*s.TerminalCAR) > 1e-12 {
		t.Fatalf("terminal CAR = %v, want 0", s.TerminalCAR)
	}
	if s.CARLow != nil || s.CARHigh != nil {
		t.Fatal("one event cannot yield an aggregate interval")
	}
}

func TestStudyRunnerNoEvents(t *testing.T) {
	base := time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)
	store := &fakeBarStore{byQuery: map[string][]models.Bar{
		"BTC-USD": flatBars("BTC-USD", base, 100, 100),
	}}
	runner := NewStudyRunner(store, &fakeEventStore{}, nil, newFakeMetrics(), applogger.Nop())

	_, err := runner.Run(context.Background(), StudyParams{
		Symbol:  "BTC-USD",
		From:    base,
		To:      base.Add(100 * time.Hour),
		Windows: models.DefaultWindows(),
	})
	if err == nil {
		t.Fatal("expected error when no events match")
	}
}

func TestSummarizeInvalidIntervalOmitted(t *testing.T) {
	res := &models.AggregateResult{
		Symbol:  "ETH-USD",
		MeanCAR: models.HourSeries{StartHour: -1, Values: []float64{math.NaN(), math.NaN()}},
		CARCI:   models.ConfidenceInterval{Low: math.NaN(), High: math.NaN()},
	}
	s := Summarize(res, "BTC-USD")
	if s.TerminalCAR != nil {
		t.Fatal("all-NaN CAR curve must not produce a terminal value")
	}
	if s.CARLow != nil || s.CARHigh != nil {
		t.Fatal("invalid interval must map to nil bounds")
	}
	if s.Benchmark != "BTC-USD" {
		t.Fatalf("benchmark = %s", s.Benchmark)
	}
}

func TestStudyJobHandle(t *testing.T) {
	base := time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)
	store := &fakeBarStore{byQuery: map[string][]models.Bar{
		"BTC-USD": flatBars("BTC-USD", base, 400, 100),
	}}
	events := &fakeEventStore{events: []models.Event{{
		EventID: "e1",
		TS:      base.Add(280 * time.Hour),
		Symbol:  "BTC-USD",
	}}}
	pub := &fakePublisher{}
	job := NewStudyJob(NewStudyRunner(store, events, pub, newFakeMetrics(), applogger.Nop()))

	payload, err := json.Marshal(StudyParams{
		Symbol:  "BTC-USD",
		From:    base,
		To:      base.Add(400 * time.Hour),
		Windows: models.DefaultWindows(),
	})
	if err != nil {
		t.Fatalf("marshal params: %v", err)
	}
	if err := job.Handle(context.Background(), payload); err != nil {
		t.Fatalf("Handle: %v", err)
	}
	if len(pub.published) != 1 {
		t.Fatalf("got %d summaries, want 1", len(pub.published))
	}

	if err := job.Handle(context.Background(), json.RawMessage(`not json`)); err == nil {
		t.Fatal("expected error for malformed payload")
	}
}

func TestEventIngestHandler(t *testing.T) {
	store := &fakeEventStore{}
	h := NewEventIngestHandler("events", store, newFakeMetrics())

	msg := []byte(`{"event_id":"e1","ts_utc":"2024-03-01T06:00:00Z","symbol":"BTC-USD","category":"macro","headline":"CPI","source":"wire","direction":"Positive"}`)
	if err := h.Handle(context.Background(), msg); err != nil {
		t.Fatalf("Handle: %v", err)
	}
	if len(store.stored) != 1 {
		t.Fatalf("got %d stored events, want 1", len(store.stored))
	}
	e := store.stored[0]
	if e.Direction != models.DirectionPos {
		t.Fatalf("direction = %s, want pos", e.Direction)
	}
	if !e.TS.Equal(time.Date(2024, 3, 1, 6, 0, 0, 0, time.UTC)) {
		t.Fatalf("ts = %v", e.TS)
	}

	if err := h.Handle(context.Background(), []byte(`{"event_id":"e2","symbol":"BTC-USD","ts_utc":"garbage"}`)); err == nil {
		t.Fatal("expected error for bad timestamp")
	}
	if err := h.Handle(context.Background(), []byte(`not json`)); err == nil {
		t.Fatal("expected error for invalid json")
	}
}
