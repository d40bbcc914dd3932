package repository

import (
	"context"

	"EventPulse/internal/domain/models"
	"EventPulse/internal/domain/repository"
	pkgkafka "EventPulse/pkg/kafka"
)

// KafkaSummaryPublisher implements SummaryPublisher on a Kafka topic, keyed
// by symbol so per-symbol ordering survives partitioning.
type KafkaSummaryPublisher struct {
	producer *pkgkafka.Producer
	topic    string
}

// NewKafkaSummaryPublisher creates a Kafka-backed summary publisher.
func NewKafkaSummaryPublisher(producer *pkgkafka.Producer, topic string) repository.SummaryPublisher {
	return &KafkaSummaryPublisher{producer: producer, topic: topic}
}

func (p *KafkaSummaryPublisher) Publish(ctx context.Context, s *models.StudySummary) error {
	return p.producer.Publish(ctx, p.topic, []byte(s.Symbol), s)
}

func (p *KafkaSummaryPublisher) Close() error {
	if p.producer != nil {
		return p.producer.Close()
	}
	return nil
}
