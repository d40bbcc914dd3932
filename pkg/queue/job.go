package queue

import (
	"context"
	"encoding/json"
)

// Job executes one kind of queued work. Type is the routing key carried in
// the envelope; Handle receives the payload bytes exactly as they were
// enqueued and unmarshals them into the job's own parameter type.
type Job interface {
	Name() string
	Type() string
	Handle(ctx context.Context, payload json.RawMessage) error
}
