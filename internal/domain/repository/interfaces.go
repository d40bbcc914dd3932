package repository

import (
	"context"
	"time"

	"EventPulse/internal/domain/models"
)

// MarketStream is a live trade feed used to build hourly bars.
type MarketStream interface {
	Connect(ctx context.Context) error
	Subscribe(ctx context.Context) error
	Read(ctx context.Context) (<-chan *models.Trade, <-chan error)
	Reconnect(ctx context.Context) error
	Close() error
	IsConnected() bool
}

// BarStore provides OHLCV bars, ascending per symbol, (symbol, ts) unique.
type BarStore interface {
	Init(ctx context.Context) error // ensure tables, health checks
	StoreBars(ctx context.Context, bars []models.Bar) error
	GetBars(ctx context.Context, symbol string, from, to time.Time, iv Interval) ([]models.Bar, error)
	Health(ctx context.Context) error
	Close() error
}

// EventStore provides event annotations for the study engine.
type EventStore interface {
	Init(ctx context.Context) error
	StoreEvents(ctx context.Context, events []models.Event) error
	ListEvents(ctx context.Context, symbol string, from, to time.Time, limit int) ([]models.Event, error)
	Close() error
}

// EventSource is a pull-based feed of calendar events, used for backfills.
type EventSource interface {
	FetchEvents(ctx context.Context, symbol string, from, to time.Time) ([]models.Event, error)
}

// SummaryPublisher pushes completed study summaries downstream.
type SummaryPublisher interface {
	Publish(ctx context.Context, s *models.StudySummary) error
	Close() error
}

// Metrics records operational counters for the service.
type Metrics interface {
	RecordStudyRun(symbol string)
	RecordEventsStudied(symbol string, n int)
	RecordError(kind string)
	RecordLatency(op string, seconds float64)
	RecordTerminalCAR(symbol string, car float64)
	RecordLastPrice(symbol string, price float64)
}
