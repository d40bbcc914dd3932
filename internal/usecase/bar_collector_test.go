package usecase

import (
	"context"
	"testing"
	"time"

	"EventPulse/internal/domain/models"
	drepo "EventPulse/internal/domain/repository"
	applogger "EventPulse/pkg/logger"
)

type fakeBarStore struct {
	bars    []models.Bar
	queries [][2]time.Time
	byQuery map[string][]models.Bar
	failN   int
}

func (s *fakeBarStore) Init(ctx context.Context) error { return nil }

func (s *fakeBarStore) StoreBars(ctx context.Context, bars []models.Bar) error {
	if s.failN > 0 {
		s.failN--
		return context.DeadlineExceeded
	}
	s.bars = append(s.bars, bars...)
	return nil
}

func (s *fakeBarStore) GetBars(ctx context.Context, symbol string, from, to time.Time, iv drepo.Interval) ([]models.Bar, error) {
	s.queries = append(s.queries, [2]time.Time{from, to})
	if s.byQuery != nil {
		return s.byQuery[symbol], nil
	}
	var out []models.Bar
	for _, b := range s.bars {
		if b.Symbol == symbol {
			out = append(out, b)
		}
	}
	return out, nil
}

func (s *fakeBarStore) Health(ctx context.Context) error { return nil }
func (s *fakeBarStore) Close() error                     { return nil }

type fakeStream struct {
	closed bool
}

func (f *fakeStream) Connect(ctx context.Context) error   { return nil }
func (f *fakeStream) Subscribe(ctx context.Context) error { return nil }
func (f *fakeStream) Read(ctx context.Context) (<-chan *models.Trade, <-chan error) {
	return nil, nil
}
func (f *fakeStream) Reconnect(ctx context.Context) error { return nil }
func (f *fakeStream) Close() error                        { f.closed = true; return nil }
func (f *fakeStream) IsConnected() bool                   { return !f.closed }

type fakeMetrics struct {
	errors map[string]int
}

func newFakeMetrics() *fakeMetrics { return &fakeMetrics{errors: make(map[string]int)} }

func (m *fakeMetrics) RecordStudyRun(string)               {}
func (m *fakeMetrics) RecordEventsStudied(string, int)     {}
func (m *fakeMetrics) RecordError(kind string)             { m.errors[kind]++ }
func (m *fakeMetrics) RecordLatency(string, float64)       {}
func (m *fakeMetrics) RecordTerminalCAR(string, float64)   {}
func (m *fakeMetrics) RecordLastPrice(string, float64)     {}

func TestBarCollectorBuildsHourlyBars(t *testing.T) {
	store := &fakeBarStore{}
	col := NewBarCollector(&fakeStream{}, store, newFakeMetrics(), applogger.Nop())

	h0 := time.Date(2024, 3, 1, 10, 0, 0, 0, time.UTC).Unix()
	col.Ingest(&models.Trade{Symbol: "BTC-USD", Timestamp: h0 + 10, Price: 100, Volume: 1})
	col.Ingest(&models.Trade{Symbol: "BTC-USD", Timestamp: h0 + 60, Price: 105, Volume: 2})
	col.Ingest(&models.Trade{Symbol: "BTC-USD", Timestamp: h0 + 120, Price: 98, Volume: 1})
	col.Ingest(&models.Trade{Symbol: "BTC-USD", Timestamp: h0 + 180, Price: 101, Volume: 3})

	// trade in the next hour seals the first bar
	col.Ingest(&models.Trade{Symbol: "BTC-USD", Timestamp: h0 + 3700, Price: 102, Volume: 1})

	if err := col.Flush(context.Background()); err != nil {
		t.Fatalf("Flush: %v", err)
	}
	if len(store.bars) != 1 {
		t.Fatalf("got %d stored bars, want 1", len(store.bars))
	}

	b := store.bars[0]
	if !b.TS.Equal(time.Date(2024, 3, 1, 10, 0, 0, 0, time.UTC)) {
		t.Fatalf("bar ts = %v, want hour boundary", b.TS)
	}
	if b.Open != 100 || b.High != 105 || b.Low != 98 || b.Close != 101 || b.Volume != 7 {
		t.Fatalf("unexpected OHLCV: %+v", b)
	}
}

func TestBarCollectorShutdownFlushesPartialBar(t *testing.T) {
	store := &fakeBarStore{}
	stream := &fakeStream{}
	col := NewBarCollector(stream, store, newFakeMetrics(), applogger.Nop())

	h0 := time.Date(2024, 3, 1, 10, 0, 0, 0, time.UTC).Unix()
	col.Ingest(&models.Trade{Symbol: "ETH-USD", Timestamp: h0 + 5, Price: 50, Volume: 1})

	if err := col.Shutdown(context.Background()); err != nil {
		t.Fatalf("Shutdown: %v", err)
	}
	if len(store.bars) != 1 {
		t.Fatalf("got %d stored bars, want 1 partial bar", len(store.bars))
	}
	if !stream.closed {
		t.Fatal("stream not closed on shutdown")
	}
}

func TestBarCollectorRetainsBarsOnStoreFailure(t *testing.T) {
	store := &fakeBarStore{failN: 1}
	col := NewBarCollector(&fakeStream{}, store, newFakeMetrics(), applogger.Nop())

	h0 := time.Date(2024, 3, 1, 10, 0, 0, 0, time.UTC).Unix()
	col.Ingest(&models.Trade{Symbol: "BTC-USD", Timestamp: h0, Price: 100, Volume: 1})
	col.Ingest(&models.Trade{Symbol: "BTC-USD", Timestamp: h0 + 3600, Price: 101, Volume: 1})

	if err := col.Flush(context.Background()); err == nil {
		t.Fatal("expected flush error")
	}
	if err := col.Flush(context.Background()); err != nil {
		t.Fatalf("retry flush: %v", err)
	}
	if len(store.bars) != 1 {
		t.Fatalf("bar lost after failed flush: got %d", len(store.bars))
	}
}

func TestBarCollectorIgnoresEmptyTrades(t *testing.T) {
	store := &fakeBarStore{}
	col := NewBarCollector(&fakeStream{}, store, newFakeMetrics(), applogger.Nop())

	col.Ingest(&models.Trade{Symbol: "", Timestamp: 100, Price: 1})
	col.Ingest(&models.Trade{Symbol: "BTC-USD", Timestamp: 0, Price: 1})

	if err := col.Shutdown(context.Background()); err != nil {
		t.Fatalf("Shutdown: %v", err)
	}
	if len(store.bars) != 0 {
		t.Fatalf("got %d bars from invalid trades, want 0", len(store.bars))
	}
}
