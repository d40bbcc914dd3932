package repository

import (
	"context"
	"fmt"
	"strings"
	"time"

	"EventPulse/internal/domain/models"
	"EventPulse/internal/domain/repository"
	pkgch "EventPulse/pkg/clickhouse"
)

const eventsTable = "events"

var eventSchema = []string{
	`CREATE TABLE IF NOT EXISTS events (
		event_id String,
		ts DateTime('UTC'),
		symbol LowCardinality(String),
		category LowCardinality(String),
		headline String,
		source LowCardinality(String),
		direction LowCardinality(String)
	) ENGINE = ReplacingMergeTree()
	ORDER BY (symbol, ts, event_id)`,
}

// ClickHouseEventStore implements EventStore on ClickHouse.
type ClickHouseEventStore struct {
	client *pkgch.Client
}

// NewClickHouseEventStore creates a ClickHouse-backed event store.
func NewClickHouseEventStore(client *pkgch.Client) repository.EventStore {
	return &ClickHouseEventStore{client: client}
}

func (s *ClickHouseEventStore) Init(ctx context.Context) error {
	return s.client.InitSchema(ctx, eventSchema)
}

func (s *ClickHouseEventStore) StoreEvents(ctx context.Context, events []models.Event) error {
	if len(events) == 0 {
		return nil
	}

	values := make([]string, 0, len(events))
	args := make([]interface{}, 0, len(events)*7)
	for _, e := range events {
		if e.EventID == "" || e.TS.IsZero() {
			continue
		}
		values = append(values, "(?, ?, ?, ?, ?, ?, ?)")
		args = append(args, e.EventID, e.TS.UTC(), e.Symbol, e.Category, e.Headline, e.Source, string(e.Direction))
	}
	if len(values) == 0 {
		return nil
	}

	q := fmt.Sprintf("INSERT INTO %s (event_id, ts, symbol, category, headline, source, direction) VALUES %s",
		eventsTable, strings.Join(values, ","))
	if _, err := s.client.DB().ExecContext(ctx, q, args...); err != nil {
		return fmt.Errorf("store events: %w", err)
	}
	return nil
}

func (s *ClickHouseEventStore) ListEvents(ctx context.Context, symbol string, from, to time.Time, limit int) ([]models.Event, error) {
	q := fmt.Sprintf(`SELECT event_id, ts, symbol, category, headline, source, direction
		FROM %s FINAL
		WHERE ts >= ? AND ts <= ?`, eventsTable)
	args := []interface{}{from.UTC(), to.UTC()}
	if symbol != "" {
		q += " AND symbol = ?"
		args = append(args, symbol)
	}
	q += " ORDER BY ts ASC"
	if limit > 0 {
		q += " LIMIT ?"
		args = append(args, limit)
	}

	rows, err := s.client.DB().QueryContext(ctx, q, args...)
	if err != nil {
		return nil, fmt.Errorf("query events: %w", err)
	}
	defer rows.Close()

	var events []models.Event
	for rows.Next() {
		var e models.Event
		var ts time.Time
		var direction string
		if err := rows.Scan(&e.EventID, &ts, &e.Symbol, &e.Category, &e.Headline, &e.Source, &direction); err != nil {
			return nil, fmt.Errorf("scan event: %w", err)
		}
		e.TS = ts.UTC()
		e.Direction = models.NormalizeDirection(direction)
		events = append(events, e)
	}
	return events, rows.Err()
}

func (s *ClickHouseEventStore) Close() error {
	return nil // connection owned by pkg client
}
