package queue

import (
	"context"
	"encoding/json"
	"time"
)

// QueueService enqueues typed job payloads for asynchronous execution.
type QueueService interface {
	PublishMessage(ctx context.Context, jobType string, payload interface{}) error
}

// Config sizes the worker pool and the retry policy.
type Config struct {
	Workers    int
	RetryLimit int
	RetryDelay time.Duration
}

// envelope is the wire form of one queued job. The payload stays raw JSON so
// workers hand each job its bytes without an intermediate map decode.
type envelope struct {
	ID         string          `json:"id"`
	Type       string          `json:"type"`
	Payload    json.RawMessage `json:"payload"`
	Attempts   int             `json:"attempts"`
	EnqueuedAt time.Time       `json:"enqueued_at"`
}
