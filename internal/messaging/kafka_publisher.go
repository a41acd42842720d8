// Package messaging implements the catalog event sink and event source on top of Kafka
// using segmentio/kafka-go.
package messaging

import (
	"context"
	"encoding/json"
	"strings"
	"time"

	"github.com/segmentio/kafka-go"

	catalogDomain "github.com/allisson/catalog/internal/catalog/domain"
	apperrors "github.com/allisson/catalog/internal/errors"
)

// messageWriter is the subset of *kafka.Writer used by KafkaPublisher.
type messageWriter interface {
	WriteMessages(ctx context.Context, msgs ...kafka.Message) error
	Close() error
}

// PublisherConfig configures the Kafka writer.
type PublisherConfig struct {
	Brokers      []string
	Topic        string
	WriteTimeout time.Duration
}

// KafkaPublisher appends catalog events to a single topic. Writes are synchronous and
// acknowledged by all in-sync replicas.
type KafkaPublisher struct {
	writer messageWriter
	topic  string
}

// NewKafkaWriter builds the writer used by NewKafkaPublisher.
func NewKafkaWriter(config PublisherConfig) *kafka.Writer {
	return &kafka.Writer{
		Addr:         kafka.TCP(config.Brokers...),
		Topic:        config.Topic,
		Balancer:     &kafka.Hash{},
		RequiredAcks: kafka.RequireAll,
		WriteTimeout: config.WriteTimeout,
		Async:        false,
	}
}

// NewKafkaPublisher creates a publisher writing to topic.
func NewKafkaPublisher(writer messageWriter, topic string) *KafkaPublisher {
	return &KafkaPublisher{writer: writer, topic: topic}
}

// PublishCatalogItemCreated writes one CatalogItemCreated record keyed by the item id.
func (p *KafkaPublisher) PublishCatalogItemCreated(ctx context.Context, item *catalogDomain.CatalogItem) error {
	if item == nil {
		return apperrors.Wrap(apperrors.ErrInvalidInput, "nil catalog item")
	}

	value, err := json.Marshal(catalogDomain.NewCatalogItemCreated(item))
	if err != nil {
		return apperrors.Wrap(err, "failed to marshal catalog item created event")
	}

	msg := kafka.Message{
		Key:   []byte(item.ID.String()),
		Value: value,
		Headers: []kafka.Header{
			{Key: catalogDomain.EventTypeHeader, Value: []byte(catalogDomain.EventTypeCatalogItemCreated)},
		},
		Time: time.Now().UTC(),
	}
	if err := p.writer.WriteMessages(ctx, msg); err != nil {
		return apperrors.Wrapf(err, "failed to publish to topic %q", p.topic)
	}
	return nil
}

// Close flushes and closes the underlying writer.
func (p *KafkaPublisher) Close() error {
	return p.writer.Close()
}

// SplitBrokers parses a comma separated broker list, dropping blank entries.
func SplitBrokers(raw string) []string {
	brokers := make([]string, 0)
	for _, broker := range strings.Split(raw, ",") {
		if broker = strings.TrimSpace(broker); broker != "" {
			brokers = append(brokers, broker)
		}
	}
	return brokers
}
