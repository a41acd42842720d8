package domain

import "time"

// Feature flag names.
const (
	FlagEnableRedisCaching    = "EnableRedisCaching"
	FlagEnableKafkaPublishing = "EnableKafkaPublishing"
)

const (
	// CatalogItemsCacheKey holds the serialized list of all catalog items.
	CatalogItemsCacheKey = "catalog:items:all"

	// CatalogItemsCacheTTL bounds how long a cached list may be served.
	CatalogItemsCacheTTL = 5 * time.Minute
)

// EventTypeCatalogItemCreated tags events emitted after a successful Create.
const EventTypeCatalogItemCreated = "CatalogItemCreated"

// EventTypeHeader is the message header carrying the event type.
const EventTypeHeader = "event-type"
