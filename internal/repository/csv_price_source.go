package repository

import (
	"encoding/csv"
	"fmt"
	"io"
	"os"
	"sort"
	"strconv"
	"strings"

	"EventPulse/internal/domain/models"
	"EventPulse/pkg/util"
)

var requiredBarCols = []string{"symbol", "datetime", "close"}

// LoadBarsCSV reads tidy OHLCV rows from a CSV file: one row per
// (symbol, datetime), sorted output, rows without a close price dropped.
func LoadBarsCSV(path string) ([]models.Bar, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("open bars csv: %w", err)
	}
	defer f.Close()

	return ReadBars(f)
}

// ReadBars parses bar rows from CSV data.
func ReadBars(r io.Reader) ([]models.Bar, error) {
	cr := csv.NewReader(r)
	cr.TrimLeadingSpace = true

	header, err := cr.Read()
	if err != nil {
		return nil, fmt.Errorf("read bars header: %w", err)
	}

	idx := make(map[string]int, len(header))
	for i, col := range header {
		idx[strings.ToLower(strings.TrimSpace(col))] = i
	}

	var missing []string
	for _, col := range requiredBarCols {
		if _, ok := idx[col]; !ok {
			missing = append(missing, col)
		}
	}
	if len(missing) > 0 {
		return nil, fmt.Errorf("bars csv missing columns: %s", strings.Join(missing, ", "))
	}

	optional := func(rec []string, col string) float64 {
		i, ok := idx[col]
		if !ok || i >= len(rec) {
			return 0
		}
		v, err := strconv.ParseFloat(strings.TrimSpace(rec[i]), 64)
		if err != nil {
			return 0
		}
		return v
	}

	var bars []models.Bar
	line := 1
	for {
		rec, err := cr.Read()
		if err == io.EOF {
			break
		}
		line++
		if err != nil {
			return nil, fmt.Errorf("read bars row %d: %w", line, err)
		}

		ts, ok := util.ParseTime(rec[idx["datetime"]])
		if !ok {
			return nil, fmt.Errorf("bars row %d: invalid datetime %q", line, rec[idx["datetime"]])
		}

		closeStr := strings.TrimSpace(rec[idx["close"]])
		if closeStr == "" {
			continue // no close, no observation
		}
		closePx, err := strconv.ParseFloat(closeStr, 64)
		if err != nil {
			return nil, fmt.Errorf("bars row %d: invalid close %q", line, closeStr)
		}

		bars = append(bars, models.Bar{
			TS:     ts,
			Symbol: strings.TrimSpace(rec[idx["symbol"]]),
			Open:   optional(rec, "open"),
			High:   optional(rec, "high"),
			Low:    optional(rec, "low"),
			Close:  closePx,
			Volume: optional(rec, "volume"),
		})
	}

	sort.SliceStable(bars, func(i, j int) bool {
		if bars[i].Symbol != bars[j].Symbol {
			return bars[i].Symbol < bars[j].Symbol
		}
		return bars[i].TS.Before(bars[j].TS)
	})

	return bars, nil
}
