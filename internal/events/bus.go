package events

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/segmentio/kafka-go"
	"go.uber.org/zap"

	"github.com/dealpulse/pkg/models"
)

// Event topics
const (
	TopicAnalyses  = "deal.analyses"
	TopicWarnings  = "deal.warnings"
	TopicSnapshots = "deal.snapshots"
)

// Publisher publishes analysis events to downstream consumers
type Publisher interface {
	PublishEvent(ctx context.Context, topic string, event models.AnalysisEvent) error
	PublishBatch(ctx context.Context, topic string, events []models.AnalysisEvent) error
	Ping(ctx context.Context) error
	Close() error
}

// KafkaConfig represents Kafka event bus configuration
type KafkaConfig struct {
	Brokers      []string      `yaml:"brokers" json:"brokers"`
	ClientID     string        `yaml:"client_id" json:"client_id"`
	BatchSize    int           `yaml:"batch_size" json:"batch_size"`
	BatchTimeout time.Duration `yaml:"batch_timeout" json:"batch_timeout"`
	Compression  string        `yaml:"compression" json:"compression"`
}

// DefaultKafkaConfig returns default Kafka configuration
func DefaultKafkaConfig() KafkaConfig {
	return KafkaConfig{
		Brokers:      []string{"localhost:9092"},
		ClientID:     "dealpulse-events",
		BatchSize:    100,
		BatchTimeout: 10 * time.Millisecond,
		Compression:  "gzip",
	}
}

// KafkaEventBus implements Publisher using Kafka
type KafkaEventBus struct {
	config   KafkaConfig
	producer *kafka.Writer
	logger   *zap.Logger
}

// NewKafkaEventBus creates a Kafka-backed event bus
func NewKafkaEventBus(config KafkaConfig, logger *zap.Logger) (*KafkaEventBus, error) {
	if len(config.Brokers) == 0 {
		return nil, fmt.Errorf("at least one Kafka broker is required")
	}

	producer := kafka.NewWriter(kafka.WriterConfig{
		Brokers:      config.Brokers,
		Balancer:     &kafka.LeastBytes{},
		BatchSize:    config.BatchSize,
		BatchTimeout: config.BatchTimeout,
	})

	return &KafkaEventBus{
		config:   config,
		producer: producer,
		logger:   logger,
	}, nil
}

// PublishEvent publishes a single analysis event
func (bus *KafkaEventBus) PublishEvent(ctx context.Context, topic string, event models.AnalysisEvent) error {
	message, err := buildMessage(topic, event)
	if err != nil {
		return err
	}
	return bus.producer.WriteMessages(ctx, message)
}

// PublishBatch publishes a batch of analysis events
func (bus *KafkaEventBus) PublishBatch(ctx context.Context, topic string, events []models.AnalysisEvent) error {
	messages := make([]kafka.Message, 0, len(events))
	for _, event := range events {
		message, err := buildMessage(topic, event)
		if err != nil {
			return err
		}
		messages = append(messages, message)
	}
	return bus.producer.WriteMessages(ctx, messages...)
}

func buildMessage(topic string, event models.AnalysisEvent) (kafka.Message, error) {
	data, err := json.Marshal(event)
	if err != nil {
		return kafka.Message{}, fmt.Errorf("failed to marshal event %s: %w", event.ID, err)
	}

	return kafka.Message{
		Topic: topic,
		Key:   []byte(event.DealID),
		Value: data,
		Headers: []kafka.Header{
			{Key: "event_type", Value: []byte(string(event.Type))},
			{Key: "risk_level", Value: []byte(string(event.RiskLevel))},
			{Key: "grade", Value: []byte(string(event.Grade))},
			{Key: "timestamp", Value: []byte(event.Timestamp.Format(time.RFC3339))},
		},
		Time: time.Now(),
	}, nil
}

// Ping checks Kafka connectivity
func (bus *KafkaEventBus) Ping(ctx context.Context) error {
	conn, err := kafka.DialContext(ctx, "tcp", bus.config.Brokers[0])
	if err != nil {
		return fmt.Errorf("failed to connect to Kafka: %w", err)
	}
	defer conn.Close()

	_, err = conn.Controller()
	return err
}

// Close closes the event bus
func (bus *KafkaEventBus) Close() error {
	if err := bus.producer.Close(); err != nil {
		return fmt.Errorf("failed to close producer: %w", err)
	}
	return nil
}
