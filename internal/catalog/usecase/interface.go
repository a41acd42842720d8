// Package usecase defines the interfaces and implementations of the catalog use cases:
// the cache-aside list, the store lookup, the gated create and the background event consumer.
package usecase

import (
	"context"
	"time"

	"github.com/google/uuid"

	catalogDomain "github.com/allisson/catalog/internal/catalog/domain"
)

// CatalogItemRepository defines the interface for CatalogItem persistence operations.
type CatalogItemRepository interface {
	Create(ctx context.Context, item *catalogDomain.CatalogItem) error
	// GetByID returns errors.ErrNotFound when no item exists with the given id.
	GetByID(ctx context.Context, id uuid.UUID) (*catalogDomain.CatalogItem, error)
	// List returns every item ordered by name ascending.
	List(ctx context.Context) ([]*catalogDomain.CatalogItem, error)
	Count(ctx context.Context) (int, error)
}

// Cache is a key/value store with per-entry TTL. Get reports a miss with found=false and a
// nil error; Delete of an absent key is not an error.
type Cache interface {
	Get(ctx context.Context, key string) (value []byte, found bool, err error)
	Set(ctx context.Context, key string, value []byte, ttl time.Duration) error
	Delete(ctx context.Context, key string) error
}

// FeatureGate answers whether a named flag is enabled. It is consulted on every call.
type FeatureGate interface {
	IsEnabled(ctx context.Context, flag string) bool
}

// EventPublisher appends domain events to the broker.
type EventPublisher interface {
	PublishCatalogItemCreated(ctx context.Context, item *catalogDomain.CatalogItem) error
}

// EventSource is a pull-based subscription. Poll returns (nil, nil) when the timeout elapses
// without a message and ctx.Err() when ctx is cancelled.
type EventSource interface {
	Subscribe(ctx context.Context, topic string) error
	Poll(ctx context.Context, timeout time.Duration) (*catalogDomain.EventMessage, error)
	Close() error
}

// EventHandler processes one consumed message.
type EventHandler interface {
	Handle(ctx context.Context, msg *catalogDomain.EventMessage) error
}

// CatalogItemUseCase defines the catalog business operations.
type CatalogItemUseCase interface {
	// List returns all items ordered by name, from the cache when caching is enabled.
	List(ctx context.Context) ([]catalogDomain.CatalogItemView, error)
	// GetByID always reads the repository. Returns ErrCatalogItemNotFound if absent.
	GetByID(ctx context.Context, id uuid.UUID) (*catalogDomain.CatalogItemView, error)
	// Create persists the item, then invalidates the list cache, then publishes the event.
	// If publication fails the created view is returned together with an error wrapping
	// ErrPublishFailed.
	Create(ctx context.Context, input *catalogDomain.CreateCatalogItemInput) (*catalogDomain.CatalogItemView, error)
}
