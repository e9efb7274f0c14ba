package repository

import (
	"context"
	"fmt"

	"MacroPull/internal/domain/models"
	drepo "MacroPull/internal/domain/repository"
	pkgkafka "MacroPull/pkg/kafka"
)

// KafkaRunPublisher announces finished runs on a Kafka topic, keyed by
// environment so consumers can partition by deployment.
type KafkaRunPublisher struct {
	producer *pkgkafka.Producer
	topic    string
}

// NewKafkaRunPublisher wraps a Kafka producer as a RunPublisher.
func NewKafkaRunPublisher(producer *pkgkafka.Producer, topic string) drepo.RunPublisher {
	return &KafkaRunPublisher{producer: producer, topic: topic}
}

func (p *KafkaRunPublisher) PublishRun(ctx context.Context, summary *models.RunSummary) error {
	if err := p.producer.Publish(ctx, p.topic, []byte(summary.Environment), summary); err != nil {
		return fmt.Errorf("kafka: publish run: %w", err)
	}
	return nil
}

func (p *KafkaRunPublisher) Close() error {
	return p.producer.Close()
}
