package domain

import (
	"github.com/allisson/catalog/internal/errors"
)

// Catalog-specific error definitions.
var (
	// ErrCatalogItemNotFound indicates no catalog item exists with the requested id.
	ErrCatalogItemNotFound = errors.Wrap(errors.ErrNotFound, "catalog item not found")

	// ErrPublishFailed indicates the item was persisted but its event was not delivered.
	ErrPublishFailed = errors.New("catalog item created but event publication failed")

	// ErrSourceUnavailable indicates the event source is not configured or cannot subscribe.
	ErrSourceUnavailable = errors.Wrap(errors.ErrUnavailable, "event source unavailable")
)
