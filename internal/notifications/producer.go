package notifications

import (
	"context"
	"fmt"
	"log"
	"time"

	"evently/internal/shared/config"

	"github.com/IBM/sarama"
)

// Producer publishes booking lifecycle events to the notification topic.
type Producer interface {
	PublishBookingEvent(ctx context.Context, event *BookingEvent) error
	Close() error
}

type kafkaProducer struct {
	producer sarama.SyncProducer
	topic    string
}

// NewProducer builds a Kafka producer from config. When Kafka is disabled
// it returns a no-op producer so callers never branch on availability.
func NewProducer(cfg config.KafkaConfig) (Producer, error) {
	if !cfg.Enabled {
		return &noopProducer{}, nil
	}

	saramaConfig := sarama.NewConfig()
	saramaConfig.Producer.Return.Successes = true
	saramaConfig.Producer.Return.Errors = true
	saramaConfig.Producer.RequiredAcks = sarama.WaitForAll
	saramaConfig.Producer.Compression = sarama.CompressionSnappy
	saramaConfig.Producer.Retry.Max = 3
	saramaConfig.Producer.Timeout = 10 * time.Second

	// Exactly-once per partition needs idempotence and a single in-flight
	// request.
	saramaConfig.Producer.Idempotent = true
	saramaConfig.Net.MaxOpenRequests = 1

	// Keyed by event so all transitions of one event land on one partition.
	saramaConfig.Producer.Partitioner = sarama.NewHashPartitioner

	producer, err := sarama.NewSyncProducer(cfg.Brokers, saramaConfig)
	if err != nil {
		return nil, fmt.Errorf("failed to create Kafka producer: %w", err)
	}

	log.Println("📤 Kafka notification producer created successfully")

	return &kafkaProducer{
		producer: producer,
		topic:    cfg.Topic,
	}, nil
}

func (p *kafkaProducer) PublishBookingEvent(ctx context.Context, event *BookingEvent) error {
	payload, err := event.ToJSON()
	if err != nil {
		return fmt.Errorf("failed to serialize booking event: %w", err)
	}

	msg := &sarama.ProducerMessage{
		Topic: p.topic,
		Key:   sarama.StringEncoder(event.PartitionKey()),
		Value: sarama.ByteEncoder(payload),
		Headers: []sarama.RecordHeader{
			{Key: []byte("event_type"), Value: []byte(event.Type)},
		},
	}

	partition, offset, err := p.producer.SendMessage(msg)
	if err != nil {
		return fmt.Errorf("failed to publish booking event: %w", err)
	}

	log.Printf("📨 Published %s for event %s (partition=%d, offset=%d)",
		event.Type, event.EventID, partition, offset)
	return nil
}

func (p *kafkaProducer) Close() error {
	return p.producer.Close()
}

type noopProducer struct{}

func (n *noopProducer) PublishBookingEvent(ctx context.Context, event *BookingEvent) error {
	return nil
}

func (n *noopProducer) Close() error { return nil }
