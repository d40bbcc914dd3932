package repository

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"EventPulse/internal/domain/models"
)

func TestHTTPEventSourceFetchEvents(t *testing.T) {
	var gotQuery map[string]string
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/events" {
			t.Errorf("path = %s", r.URL.Path)
		}
		if auth := r.Header.Get("Authorization"); auth != "Bearer test-key" {
			t.Errorf("authorization = %q", auth)
		}
		gotQuery = map[string]string{
			"symbol": r.URL.Query().Get("symbol"),
			"from":   r.URL.Query().Get("from"),
			"to":     r.URL.Query().Get("to"),
		}
		w.Header().Set("Content-Type", "application/json")
		w.Write([]byte(`{"events":[
			{"event_id":"e2","ts_utc":"2024-03-02T12:00:00Z","symbol":"BTC-USD","direction":"NEGATIVE"},
			{"event_id":"e1","ts_utc":"2024-03-01 06:00:00","symbol":"BTC-USD","category":"macro","direction":"pos"},
			{"event_id":"","ts_utc":"2024-03-03T00:00:00Z","symbol":"BTC-USD"}
		]}`))
	}))
	defer srv.Close()

	src := NewHTTPEventSource(srv.URL, "test-key", 5*time.Second)
	from := time.Date(2024, 3, 1, 0, 0, 0, 0, time.UTC)
	to := time.Date(2024, 3, 5, 0, 0, 0, 0, time.UTC)

	events, err := src.FetchEvents(context.Background(), "BTC-USD", from, to)
	if err != nil {
		t.Fatalf("FetchEvents: %v", err)
	}

	if gotQuery["symbol"] != "BTC-USD" {
		t.Fatalf("symbol query = %q", gotQuery["symbol"])
	}
	if gotQuery["from"] != "2024-03-01T00:00:00Z" {
		t.Fatalf("from query = %q", gotQuery["from"])
	}

	if len(events) != 2 {
		t.Fatalf("got %d events, want 2 (row without id skipped)", len(events))
	}
	if events[0].EventID != "e1" || events[1].EventID != "e2" {
		t.Fatalf("events not sorted by time: %s, %s", events[0].EventID, events[1].EventID)
	}
	if events[0].Direction != models.DirectionPos {
		t.Fatalf("direction = %s, want pos", events[0].Direction)
	}
	if events[1].Direction != models.DirectionNeg {
		t.Fatalf("direction = %s, want neg", events[1].Direction)
	}
	if !events[0].TS.Equal(time.Date(2024, 3, 1, 6, 0, 0, 0, time.UTC)) {
		t.Fatalf("ts = %v", events[0].TS)
	}
}

func TestHTTPEventSourceBadTimestamp(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(`{"events":[{"event_id":"e1","ts_utc":"garbage","symbol":"BTC-USD"}]}`))
	}))
	defer srv.Close()

	src := NewHTTPEventSource(srv.URL, "", 5*time.Second)
	if _, err := src.FetchEvents(context.Background(), "BTC-USD", time.Now().Add(-time.Hour), time.Now()); err == nil {
		t.Fatal("expected error for invalid timestamp")
	}
}

func TestHTTPEventSourceServerError(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, "boom", http.StatusInternalServerError)
	}))
	defer srv.Close()

	src := NewHTTPEventSource(srv.URL, "", 5*time.Second)
	if _, err := src.FetchEvents(context.Background(), "BTC-USD", time.Now().Add(-time.Hour), time.Now()); err == nil {
		t.Fatal("expected error for 500 response")
	}
}
