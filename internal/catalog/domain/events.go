package domain

import (
	"encoding/json"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// CatalogItemCreated is published once per successful Create. Field names follow the
// wire format already consumed downstream.
type CatalogItemCreated struct {
	EventType string           `json:"EventType"`
	Item      CatalogItemEvent `json:"Item"`
}

// CatalogItemEvent is the item payload of CatalogItemCreated.
type CatalogItemEvent struct {
	ID              uuid.UUID   `json:"Id"`
	Name            string      `json:"Name"`
	Description     string      `json:"Description"`
	Category        string      `json:"Category"`
	Price           json.Number `json:"Price"`
	QuantityInStock int         `json:"QuantityInStock"`
	CreatedAt       time.Time   `json:"CreatedUtc"`
}

// NewCatalogItemCreated builds the event for a persisted item.
func NewCatalogItemCreated(item *CatalogItem) CatalogItemCreated {
	return CatalogItemCreated{
		EventType: EventTypeCatalogItemCreated,
		Item: CatalogItemEvent{
			ID:              item.ID,
			Name:            item.Name,
			Description:     item.Description,
			Category:        item.Category,
			Price:           json.Number(item.Price.String()),
			QuantityInStock: item.QuantityInStock,
			CreatedAt:       item.CreatedAt,
		},
	}
}

// PriceDecimal parses the wire price.
func (e CatalogItemEvent) PriceDecimal() (decimal.Decimal, error) {
	return decimal.NewFromString(e.Price.String())
}

// EventMessage is one record received from the event source.
type EventMessage struct {
	Topic     string
	Partition int
	Offset    int64
	Key       []byte
	Value     []byte
	Headers   map[string]string
	Timestamp time.Time
}

// ConsumerState is the lifecycle state of the event consumer.
type ConsumerState int32

const (
	ConsumerStateIdle ConsumerState = iota
	ConsumerStateSubscribed
	ConsumerStatePolling
	ConsumerStateDraining
	ConsumerStateClosed
)

func (s ConsumerState) String() string {
	switch s {
	case ConsumerStateIdle:
		return "idle"
	case ConsumerStateSubscribed:
		return "subscribed"
	case ConsumerStatePolling:
		return "polling"
	case ConsumerStateDraining:
		return "draining"
	case ConsumerStateClosed:
		return "closed"
	default:
		return "unknown"
	}
}
