package usecase

import (
	"context"
	"encoding/json"
	"log/slog"

	catalogDomain "github.com/allisson/catalog/internal/catalog/domain"
	apperrors "github.com/allisson/catalog/internal/errors"
)

// LoggingEventHandler records consumed catalog events in the log. It has no other side effect.
type LoggingEventHandler struct {
	logger *slog.Logger
}

// NewLoggingEventHandler creates a new LoggingEventHandler.
func NewLoggingEventHandler(logger *slog.Logger) *LoggingEventHandler {
	return &LoggingEventHandler{logger: logger}
}

// Handle decodes the message and logs it. Unknown event types are logged as warnings
// and are not errors.
func (h *LoggingEventHandler) Handle(ctx context.Context, msg *catalogDomain.EventMessage) error {
	eventType := msg.Headers[catalogDomain.EventTypeHeader]
	if eventType == "" {
		var envelope struct {
			EventType string `json:"EventType"`
		}
		if err := json.Unmarshal(msg.Value, &envelope); err != nil {
			return apperrors.Wrap(apperrors.ErrInvalidInput, "malformed event payload")
		}
		eventType = envelope.EventType
	}

	switch eventType {
	case catalogDomain.EventTypeCatalogItemCreated:
		var event catalogDomain.CatalogItemCreated
		if err := json.Unmarshal(msg.Value, &event); err != nil {
			return apperrors.Wrap(apperrors.ErrInvalidInput, "malformed CatalogItemCreated payload")
		}
		h.logger.InfoContext(ctx, "catalog item created event received",
			slog.String("topic", msg.Topic),
			slog.Int("partition", msg.Partition),
			slog.Int64("offset", msg.Offset),
			slog.String("item_id", event.Item.ID.String()),
			slog.String("name", event.Item.Name),
			slog.String("category", event.Item.Category),
		)
	default:
		h.logger.WarnContext(ctx, "unknown event type",
			slog.String("event_type", eventType),
			slog.String("topic", msg.Topic),
			slog.Int64("offset", msg.Offset),
		)
	}

	return nil
}
