package messaging

import (
	"context"
	"errors"
	"strings"
	"sync"
	"time"

	"github.com/segmentio/kafka-go"

	catalogDomain "github.com/allisson/catalog/internal/catalog/domain"
	apperrors "github.com/allisson/catalog/internal/errors"
)

// MessageReader is the subset of *kafka.Reader used by KafkaSource.
type MessageReader interface {
	ReadMessage(ctx context.Context) (kafka.Message, error)
	Close() error
}

// ReaderFactory builds a reader for the given configuration.
type ReaderFactory func(config kafka.ReaderConfig) MessageReader

// SourceConfig configures the consumer group reader.
type SourceConfig struct {
	Brokers        []string
	GroupID        string
	CommitInterval time.Duration
}

// KafkaSource is a pull-based consumer group subscription to a single topic.
type KafkaSource struct {
	config    SourceConfig
	newReader ReaderFactory

	mu     sync.Mutex
	reader MessageReader
}

// NewKafkaSource creates a source. A nil factory uses kafka.NewReader.
func NewKafkaSource(config SourceConfig, factory ReaderFactory) *KafkaSource {
	if config.CommitInterval == 0 {
		config.CommitInterval = time.Second
	}
	if factory == nil {
		factory = func(rc kafka.ReaderConfig) MessageReader {
			return kafka.NewReader(rc)
		}
	}
	return &KafkaSource{config: config, newReader: factory}
}

// Subscribe joins the consumer group for topic, starting at the earliest offset when the
// group has no committed position.
func (s *KafkaSource) Subscribe(ctx context.Context, topic string) error {
	if err := ctx.Err(); err != nil {
		return err
	}

	brokers := make([]string, 0, len(s.config.Brokers))
	for _, broker := range s.config.Brokers {
		if broker = strings.TrimSpace(broker); broker != "" {
			brokers = append(brokers, broker)
		}
	}
	if len(brokers) == 0 {
		return apperrors.Wrap(catalogDomain.ErrSourceUnavailable, "no kafka brokers configured")
	}
	if strings.TrimSpace(topic) == "" {
		return apperrors.Wrap(catalogDomain.ErrSourceUnavailable, "no kafka topic configured")
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	if s.reader != nil {
		return apperrors.Wrap(apperrors.ErrConflict, "kafka source already subscribed")
	}

	s.reader = s.newReader(kafka.ReaderConfig{
		Brokers:        brokers,
		GroupID:        s.config.GroupID,
		Topic:          topic,
		StartOffset:    kafka.FirstOffset,
		CommitInterval: s.config.CommitInterval,
	})
	return nil
}

// Poll waits up to timeout for the next message. It returns (nil, nil) when the timeout
// elapses and ctx.Err() once ctx is cancelled. A non-positive timeout blocks until a
// message arrives or ctx is done.
func (s *KafkaSource) Poll(ctx context.Context, timeout time.Duration) (*catalogDomain.EventMessage, error) {
	s.mu.Lock()
	reader := s.reader
	s.mu.Unlock()
	if reader == nil {
		return nil, apperrors.Wrap(catalogDomain.ErrSourceUnavailable, "kafka source not subscribed")
	}

	readCtx := ctx
	if timeout > 0 {
		var cancel context.CancelFunc
		readCtx, cancel = context.WithTimeout(ctx, timeout)
		defer cancel()
	}

	msg, err := reader.ReadMessage(readCtx)
	if err != nil {
		if ctx.Err() != nil {
			return nil, ctx.Err()
		}
		if errors.Is(err, context.DeadlineExceeded) {
			return nil, nil
		}
		return nil, apperrors.Wrap(err, "failed to read kafka message")
	}
	return toEventMessage(msg), nil
}

// Close leaves the consumer group. Closing an unsubscribed source is a no-op.
func (s *KafkaSource) Close() error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.reader == nil {
		return nil
	}
	err := s.reader.Close()
	s.reader = nil
	return err
}

func toEventMessage(msg kafka.Message) *catalogDomain.EventMessage {
	headers := make(map[string]string, len(msg.Headers))
	for _, h := range msg.Headers {
		headers[h.Key] = string(h.Value)
	}
	return &catalogDomain.EventMessage{
		Topic:     msg.Topic,
		Partition: msg.Partition,
		Offset:    msg.Offset,
		Key:       msg.Key,
		Value:     msg.Value,
		Headers:   headers,
		Timestamp: msg.Time,
	}
}
