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

const barsTable = "bars_1h"

var barSchema = []string{
	`CREATE TABLE IF NOT EXISTS bars_1h (
		ts DateTime('UTC'),
		symbol LowCardinality(String),
		open Float64,
		high Float64,
		low Float64,
		close Float64,
		volume Float64
	) ENGINE = ReplacingMergeTree()
	ORDER BY (symbol, ts)`,
}

// ClickHouseBarStore implements BarStore on ClickHouse. Bars are stored at
// hourly resolution; coarser intervals are aggregated at query time.
type ClickHouseBarStore struct {
	client *pkgch.Client
}

// NewClickHouseBarStore creates a ClickHouse-backed bar store.
func NewClickHouseBarStore(client *pkgch.Client) repository.BarStore {
	return &ClickHouseBarStore{client: client}
}

func (s *ClickHouseBarStore) Init(ctx context.Context) error {
	return s.client.InitSchema(ctx, barSchema)
}

func (s *ClickHouseBarStore) StoreBars(ctx context.Context, bars []models.Bar) error {
	if len(bars) == 0 {
		return nil
	}

	const chunkSize = 2000
	for start := 0; start < len(bars); start += chunkSize {
		end := start + chunkSize
		if end > len(bars) {
			end = len(bars)
		}

		values := make([]string, 0, end-start)
		args := make([]interface{}, 0, (end-start)*7)
		for _, b := range bars[start:end] {
			if b.Symbol == "" || b.TS.IsZero() {
				continue
			}
			values = append(values, "(?, ?, ?, ?, ?, ?, ?)")
			args = append(args, b.TS.UTC(), b.Symbol, b.Open, b.High, b.Low, b.Close, b.Volume)
		}
		if len(values) == 0 {
			continue
		}
		q := fmt.Sprintf("INSERT INTO %s (ts, symbol, open, high, low, close, volume) VALUES %s",
			barsTable, strings.Join(values, ","))
		if _, err := s.client.DB().ExecContext(ctx, q, args...); err != nil {
			return fmt.Errorf("store bars: %w", err)
		}
	}
	return nil
}

// barsQuery builds the SELECT for the given interval. Hourly rows are read
// as stored; coarser intervals are resampled in the query.
func barsQuery(iv repository.Interval) string {
	if iv == repository.IV1h {
		return fmt.Sprintf(`SELECT ts, symbol, open, high, low, close, volume
			FROM %s FINAL
			WHERE symbol = ? AND ts >= ? AND ts <= ?
			ORDER BY ts ASC`, barsTable)
	}
	secs := int(iv.Duration().Seconds())
	return fmt.Sprintf(`SELECT
			toStartOfInterval(ts, INTERVAL %d SECOND) AS bucket,
			symbol,
			argMin(open, ts) AS open,
			max(high) AS high,
			min(low) AS low,
			argMax(close, ts) AS close,
			sum(volume) AS volume
		FROM %s FINAL
		WHERE symbol = ? AND ts >= ? AND ts <= ?
		GROUP BY bucket, symbol
		ORDER BY bucket ASC`, secs, barsTable)
}

func (s *ClickHouseBarStore) GetBars(ctx context.Context, symbol string, from, to time.Time, iv repository.Interval) ([]models.Bar, error) {
	if !repository.IsValidInterval(iv) {
		return nil, fmt.Errorf("invalid interval: %s", iv)
	}

	rows, err := s.client.DB().QueryContext(ctx, barsQuery(iv), symbol, from.UTC(), to.UTC())
	if err != nil {
		return nil, fmt.Errorf("query bars: %w", err)
	}
	defer rows.Close()

	var bars []models.Bar
	for rows.Next() {
		var b models.Bar
		var ts time.Time
		if err := rows.Scan(&ts, &b.Symbol, &b.Open, &b.High, &b.Low, &b.Close, &b.Volume); err != nil {
			return nil, fmt.Errorf("scan bar: %w", err)
		}
		b.TS = ts.UTC()
		bars = append(bars, b)
	}
	return bars, rows.Err()
}

func (s *ClickHouseBarStore) Health(ctx context.Context) error {
	return s.client.Health(ctx)
}

func (s *ClickHouseBarStore) Close() error {
	return nil // connection owned by pkg client
}
