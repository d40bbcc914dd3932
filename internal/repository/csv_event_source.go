package repository

import (
	"encoding/csv"
	"fmt"
	"io"
	"os"
	"sort"
	"strings"

	"EventPulse/internal/domain/models"
	"EventPulse/pkg/util"
)

var requiredEventCols = []string{
	"event_id", "ts_utc", "symbol", "category", "headline", "source", "direction",
}

// LoadEventsCSV reads an annotated event calendar from a CSV file. The header
// must carry all required columns; rows are returned sorted by timestamp with
// directions normalized.
func LoadEventsCSV(path string) ([]models.Event, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("open events csv: %w", err)
	}
	defer f.Close()

	return ReadEvents(f)
}

// ReadEvents parses event rows from CSV data.
func ReadEvents(r io.Reader) ([]models.Event, error) {
	cr := csv.NewReader(r)
	cr.TrimLeadingSpace = true

	header, err := cr.Read()
	if err != nil {
		return nil, fmt.Errorf("read events header: %w", err)
	}

	idx := make(map[string]int, len(header))
	for i, col := range header {
		idx[strings.ToLower(strings.TrimSpace(col))] = i
	}

	var missing []string
	for _, col := range requiredEventCols {
		if _, ok := idx[col]; !ok {
			missing = append(missing, col)
		}
	}
	if len(missing) > 0 {
		return nil, fmt.Errorf("events csv missing columns: %s", strings.Join(missing, ", "))
	}

	var events []models.Event
	line := 1
	for {
		rec, err := cr.Read()
		if err == io.EOF {
			break
		}
		line++
		if err != nil {
			return nil, fmt.Errorf("read events row %d: %w", line, err)
		}

		ts, ok := util.ParseTime(rec[idx["ts_utc"]])
		if !ok {
			return nil, fmt.Errorf("events row %d: invalid ts_utc %q", line, rec[idx["ts_utc"]])
		}

		events = append(events, models.Event{
			EventID:   strings.TrimSpace(rec[idx["event_id"]]),
			TS:        ts,
			Symbol:    strings.TrimSpace(rec[idx["symbol"]]),
			Category:  strings.TrimSpace(rec[idx["category"]]),
			Headline:  rec[idx["headline"]],
			Source:    strings.TrimSpace(rec[idx["source"]]),
			Direction: models.NormalizeDirection(rec[idx["direction"]]),
		})
	}

	sort.SliceStable(events, func(i, j int) bool {
		return events[i].TS.Before(events[j].TS)
	})

	return events, nil
}
