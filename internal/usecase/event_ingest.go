package usecase

import (
	"context"
	"encoding/json"
	"fmt"

	"EventPulse/internal/domain/models"
	drepo "EventPulse/internal/domain/repository"
	pkgkafka "EventPulse/pkg/kafka"
	"EventPulse/pkg/util"
)

// EventIngestHandler consumes annotated calendar events from Kafka and writes
// them to the event store.
type EventIngestHandler struct {
	topic   string
	store   drepo.EventStore
	metrics drepo.Metrics
}

func NewEventIngestHandler(topic string, store drepo.EventStore, metrics drepo.Metrics) *EventIngestHandler {
	return &EventIngestHandler{topic: topic, store: store, metrics: metrics}
}

func (h *EventIngestHandler) Topic() string { return h.topic }

// incoming message schema: {event_id, ts_utc, symbol, category, headline, source, direction}
func (h *EventIngestHandler) Handle(ctx context.Context, b []byte) error {
	var m struct {
		EventID   string `json:"event_id"`
		TSUTC     string `json:"ts_utc"`
		Symbol    string `json:"symbol"`
		Category  string `json:"category"`
		Headline  string `json:"headline"`
		Source    string `json:"source"`
		Direction string `json:"direction"`
	}
	if err := json.Unmarshal(b, &m); err != nil {
		h.metrics.RecordError("event_unmarshal")
		return err
	}
	if m.EventID == "" || m.Symbol == "" {
		h.metrics.RecordError("event_invalid")
		return fmt.Errorf("event missing id or symbol")
	}
	ts, ok := util.ParseTime(m.TSUTC)
	if !ok {
		h.metrics.RecordError("event_invalid")
		return fmt.Errorf("event %s: invalid ts_utc %q", m.EventID, m.TSUTC)
	}

	ev := models.Event{
		EventID:   m.EventID,
		TS:        ts,
		Symbol:    m.Symbol,
		Category:  m.Category,
		Headline:  m.Headline,
		Source:    m.Source,
		Direction: models.NormalizeDirection(m.Direction),
	}
	if err := h.store.StoreEvents(ctx, []models.Event{ev}); err != nil {
		h.metrics.RecordError("event_store")
		return err
	}
	return nil
}

var _ pkgkafka.MessageHandler = (*EventIngestHandler)(nil)
