package repository

import (
	"strings"
	"testing"
	"time"

	"EventPulse/internal/domain/models"
)

func TestReadEventsMissingColumns(t *testing.T) {
	csvData := "event_id,ts_utc,symbol\n" +
		"e1,2024-01-01T00:00:00Z,BTC-USD\n"

	_, err := ReadEvents(strings.NewReader(csvData))
	if err == nil {
		t.Fatal("expected error for missing columns")
	}
	for _, col := range []string{"category", "headline", "source", "direction"} {
		if !strings.Contains(err.Error(), col) {
			t.Fatalf("error %q does not name missing column %s", err, col)
		}
	}
}

func TestReadEventsNormalizesAndSorts(t *testing.T) {
	csvData := "event_id,ts_utc,symbol,category,headline,source,direction\n" +
		"e2,2024-03-02 12:00:00,ETH-USD,listing,Listing news,wire,POSITIVE\n" +
		"e1,2024-03-01T06:00:00Z,BTC-USD,macro,CPI print,wire,neg\n" +
		"e3,2024-03-03T00:00:00Z,BTC-USD,other,Unlabeled,wire,whatever\n"

	events, err := ReadEvents(strings.NewReader(csvData))
	if err != nil {
		t.Fatalf("ReadEvents: %v", err)
	}
	if len(events) != 3 {
		t.Fatalf("got %d events, want 3", len(events))
	}

	if events[0].EventID != "e1" || events[1].EventID != "e2" || events[2].EventID != "e3" {
		t.Fatalf("events not sorted by timestamp: %v %v %v",
			events[0].EventID, events[1].EventID, events[2].EventID)
	}

	if events[0].Direction != models.DirectionNeg {
		t.Fatalf("e1 direction = %s, want neg", events[0].Direction)
	}
	if events[1].Direction != models.DirectionPos {
		t.Fatalf("e2 direction = %s, want pos", events[1].Direction)
	}
	if events[2].Direction != models.DirectionNeutral {
		t.Fatalf("e3 direction = %s, want neutral", events[2].Direction)
	}

	want := time.Date(2024, 3, 1, 6, 0, 0, 0, time.UTC)
	if !events[0].TS.Equal(want) {
		t.Fatalf("e1 ts = %v, want %v", events[0].TS, want)
	}
	if events[0].TS.Location() != time.UTC {
		t.Fatalf("timestamps must be UTC, got %v", events[0].TS.Location())
	}
}

func TestReadEventsBadTimestamp(t *testing.T) {
	csvData := "event_id,ts_utc,symbol,category,headline,source,direction\n" +
		"e1,not-a-time,BTC-USD,macro,CPI,wire,pos\n"

	if _, err := ReadEvents(strings.NewReader(csvData)); err == nil {
		t.Fatal("expected error for unparseable ts_utc")
	}
}

func TestReadBarsDropsMissingCloseAndSorts(t *testing.T) {
	csvData := "symbol,datetime,open,high,low,close,volume\n" +
		"BTC-USD,2024-03-01T02:00:00Z,101,102,100,101.5,9\n" +
		"BTC-USD,2024-03-01T01:00:00Z,100,101,99,,5\n" +
		"BTC-USD,2024-03-01T00:00:00Z,99,100,98,99.5,7\n" +
		"ETH-USD,2024-03-01T00:00:00Z,50,51,49,50.5,3\n"

	bars, err := ReadBars(strings.NewReader(csvData))
	if err != nil {
		t.Fatalf("ReadBars: %v", err)
	}
	if len(bars) != 3 {
		t.Fatalf("got %d bars, want 3 (row with empty close dropped)", len(bars))
	}

	if bars[0].Symbol != "BTC-USD" || !bars[0].TS.Equal(time.Date(2024, 3, 1, 0, 0, 0, 0, time.UTC)) {
		t.Fatalf("unexpected first bar %+v", bars[0])
	}
	if bars[1].Symbol != "BTC-USD" || bars[1].Close != 101.5 {
		t.Fatalf("unexpected second bar %+v", bars[1])
	}
	if bars[2].Symbol != "ETH-USD" {
		t.Fatalf("unexpected third bar %+v", bars[2])
	}
}

func TestReadBarsMissingColumns(t *testing.T) {
	csvData := "symbol,open\nBTC-USD,1\n"

	_, err := ReadBars(strings.NewReader(csvData))
	if err == nil {
		t.Fatal("expected error for missing columns")
	}
	if !strings.Contains(err.Error(), "datetime") || !strings.Contains(err.Error(), "close") {
		t.Fatalf("error %q does not name missing columns", err)
	}
}
