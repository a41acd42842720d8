package usecase

import (
	"context"
	"log/slog"
	"strings"
	"sync/atomic"
	"time"

	catalogDomain "github.com/allisson/catalog/internal/catalog/domain"
	apperrors "github.com/allisson/catalog/internal/errors"
	"github.com/allisson/catalog/internal/metrics"
)

const eventsMetricsDomain = "events"

// ConsumerConfig holds event consumer configuration.
type ConsumerConfig struct {
	Topic        string
	PollTimeout  time.Duration
	ErrorBackoff time.Duration
}

// EventConsumer pulls messages from an EventSource until its context is cancelled.
// It moves through idle, subscribed, polling, draining and closed.
type EventConsumer struct {
	config  ConsumerConfig
	source  EventSource
	handler EventHandler
	metrics metrics.BusinessMetrics
	logger  *slog.Logger
	state   atomic.Int32
}

// NewEventConsumer creates a new EventConsumer in the idle state.
func NewEventConsumer(
	config ConsumerConfig,
	source EventSource,
	handler EventHandler,
	m metrics.BusinessMetrics,
	logger *slog.Logger,
) *EventConsumer {
	if m == nil {
		m = metrics.NewNoOpBusinessMetrics()
	}
	if logger == nil {
		logger = slog.New(slog.DiscardHandler)
	}
	return &EventConsumer{
		config:  config,
		source:  source,
		handler: handler,
		metrics: m,
		logger:  logger,
	}
}

// State returns the current lifecycle state. Safe for concurrent use.
func (c *EventConsumer) State() catalogDomain.ConsumerState {
	return catalogDomain.ConsumerState(c.state.Load())
}

func (c *EventConsumer) setState(s catalogDomain.ConsumerState) {
	c.state.Store(int32(s))
}

// Start subscribes and polls until ctx is done, then returns nil. It returns an error
// wrapping ErrSourceUnavailable without polling when the source cannot be subscribed.
// The source is always closed before Start returns once a subscription was attempted.
func (c *EventConsumer) Start(ctx context.Context) error {
	topic := strings.TrimSpace(c.config.Topic)
	if topic == "" {
		c.setState(catalogDomain.ConsumerStateClosed)
		return apperrors.Wrap(catalogDomain.ErrSourceUnavailable, "event topic is not configured")
	}

	defer c.close()

	if err := c.source.Subscribe(ctx, topic); err != nil {
		if apperrors.Is(err, catalogDomain.ErrSourceUnavailable) {
			return err
		}
		return apperrors.Join(catalogDomain.ErrSourceUnavailable, err)
	}
	c.setState(catalogDomain.ConsumerStateSubscribed)

	c.logger.Info("starting event consumer",
		slog.String("topic", topic),
		slog.Duration("poll_timeout", c.config.PollTimeout),
	)

	for {
		if ctx.Err() != nil {
			c.drain()
			return nil
		}

		c.setState(catalogDomain.ConsumerStatePolling)
		msg, err := c.source.Poll(ctx, c.config.PollTimeout)
		if err != nil {
			if ctx.Err() != nil {
				c.drain()
				return nil
			}
			c.logger.Error("failed to poll events", slog.String("topic", topic), slog.Any("error", err))
			c.metrics.RecordOperation(ctx, eventsMetricsDomain, "event_poll", metrics.StatusError)
			c.backoff(ctx)
			continue
		}
		if msg == nil {
			continue
		}

		// The receive already happened; finish handling it even if ctx is cancelled now.
		c.handle(context.WithoutCancel(ctx), msg)
	}
}

func (c *EventConsumer) handle(ctx context.Context, msg *catalogDomain.EventMessage) {
	start := time.Now()
	err := c.handler.Handle(ctx, msg)
	if err != nil {
		c.logger.Error("failed to handle event",
			slog.String("topic", msg.Topic),
			slog.Int("partition", msg.Partition),
			slog.Int64("offset", msg.Offset),
			slog.Any("error", err),
		)
		metrics.Observe(ctx, c.metrics, eventsMetricsDomain, "event_handle", start, metrics.StatusError)
		return
	}
	metrics.Observe(ctx, c.metrics, eventsMetricsDomain, "event_handle", start, metrics.StatusSuccess)
}

func (c *EventConsumer) backoff(ctx context.Context) {
	if c.config.ErrorBackoff <= 0 {
		return
	}
	timer := time.NewTimer(c.config.ErrorBackoff)
	defer timer.Stop()

	select {
	case <-ctx.Done():
	case <-timer.C:
	}
}

func (c *EventConsumer) drain() {
	c.setState(catalogDomain.ConsumerStateDraining)
	c.logger.Info("stopping event consumer")
}

func (c *EventConsumer) close() {
	if err := c.source.Close(); err != nil {
		c.logger.Warn("failed to close event source", slog.Any("error", err))
	}
	c.setState(catalogDomain.ConsumerStateClosed)
}
