package repository

import (
	"context"
	"fmt"

	"BaseballMVP/internal/domain/models"
	"BaseballMVP/internal/domain/repository"
	pkgkafka "BaseballMVP/pkg/kafka"
)

// eventProducer is the part of *pkgkafka.Producer the publishers need.
type eventProducer interface {
	Publish(ctx context.Context, topic string, key []byte, value interface{}) error
	Close() error
}

// KafkaPredictionPublisher implements PredictionPublisher for Kafka.
type KafkaPredictionPublisher struct {
	producer eventProducer
	topic    string
}

// NewKafkaPredictionPublisher creates a publisher keyed by game id.
func NewKafkaPredictionPublisher(producer *pkgkafka.Producer, topic string) *KafkaPredictionPublisher {
	return &KafkaPredictionPublisher{producer: producer, topic: topic}
}

func (p *KafkaPredictionPublisher) Publish(ctx context.Context, ev *models.PredictionEvent) error {
	if ev == nil {
		return nil
	}
	key := ev.GameID
	if key == "" {
		key = ev.BatterID + ":" + ev.PitcherID
	}
	if err := p.producer.Publish(ctx, p.topic, []byte(key), ev); err != nil {
		return fmt.Errorf("publish prediction event: %w", err)
	}
	return nil
}

func (p *KafkaPredictionPublisher) Close() error {
	if p.producer != nil {
		return p.producer.Close()
	}
	return nil
}

// KafkaLogPublisher ships aggregated error logs; it satisfies logger.Publisher.
type KafkaLogPublisher struct {
	producer eventProducer
}

func NewKafkaLogPublisher(producer *pkgkafka.Producer) *KafkaLogPublisher {
	return &KafkaLogPublisher{producer: producer}
}

func (p *KafkaLogPublisher) PublishMessage(ctx context.Context, topic string, payload interface{}) error {
	return p.producer.Publish(ctx, topic, nil, payload)
}

var _ repository.PredictionPublisher = (*KafkaPredictionPublisher)(nil)
