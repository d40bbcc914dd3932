package repository

import (
	"context"
	"fmt"
	"net/http"
	"net/url"
	"sort"
	"strings"
	"time"

	"EventPulse/internal/domain/models"
	"EventPulse/internal/domain/repository"
	xhttp "EventPulse/pkg/http"
	"EventPulse/pkg/util"
)

// HTTPEventSource pulls calendar events from a REST feed. It backfills the
// event store for ranges that predate the Kafka pipeline.
type HTTPEventSource struct {
	client  *xhttp.Client
	baseURL string
	apiKey  string
}

func NewHTTPEventSource(baseURL, apiKey string, timeout time.Duration) repository.EventSource {
	return &HTTPEventSource{
		client:  xhttp.NewClient(xhttp.WithTimeout(timeout)),
		baseURL: strings.TrimRight(baseURL, "/"),
		apiKey:  apiKey,
	}
}

type feedEvent struct {
	EventID   string `json:"event_id"`
	TSUTC     string `json:"ts_utc"`
	Symbol    string `json:"symbol"`
	Category  string `json:"category"`
	Headline  string `json:"headline"`
	Source    string `json:"source"`
	Direction string `json:"direction"`
}

// FetchEvents queries the feed for one symbol and time range. Results are
// normalized and sorted chronologically; rows without an id or symbol are
// skipped.
func (s *HTTPEventSource) FetchEvents(ctx context.Context, symbol string, from, to time.Time) ([]models.Event, error) {
	var payload struct {
		Events []feedEvent `json:"events"`
	}

	headers := map[string]string{}
	if s.apiKey != "" {
		headers["Authorization"] = "Bearer " + s.apiKey
	}

	err := s.client.SendAndParse(ctx, &xhttp.RequestOptions{
		Method:  http.MethodGet,
		URL:     s.baseURL + "/events",
		Headers: headers,
		Query: url.Values{
			"symbol": {symbol},
			"from":   {from.UTC().Format(time.RFC3339)},
			"to":     {to.UTC().Format(time.RFC3339)},
		},
	}, &payload)
	if err != nil {
		return nil, fmt.Errorf("event feed: %w", err)
	}

	events := make([]models.Event, 0, len(payload.Events))
	for _, fe := range payload.Events {
		if fe.EventID == "" || fe.Symbol == "" {
			continue
		}
		ts, ok := util.ParseTime(fe.TSUTC)
		if !ok {
			return nil, fmt.Errorf("event feed: event %s: invalid ts_utc %q", fe.EventID, fe.TSUTC)
		}
		events = append(events, models.Event{
			EventID:   fe.EventID,
			TS:        ts,
			Symbol:    fe.Symbol,
			Category:  fe.Category,
			Headline:  fe.Headline,
			Source:    fe.Source,
			Direction: models.NormalizeDirection(fe.Direction),
		})
	}

	sort.SliceStable(events, func(i, j int) bool { return events[i].TS.Before(events[j].TS) })
	return events, nil
}
