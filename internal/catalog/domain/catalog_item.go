// Package domain defines the catalog item model, its read projection, the
// CatalogItemCreated event and the states of the event consumer.
package domain

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// CatalogItem is a persisted catalog entry. ID and CreatedAt are assigned once at
// creation and never change.
type CatalogItem struct {
	ID              uuid.UUID
	Name            string
	Description     string
	Category        string
	Price           decimal.Decimal
	QuantityInStock int
	CreatedAt       time.Time
}

// CatalogItemView is the read-only projection returned to callers and stored in the cache.
type CatalogItemView struct {
	ID              uuid.UUID       `json:"id"`
	Name            string          `json:"name"`
	Description     string          `json:"description"`
	Category        string          `json:"category"`
	Price           decimal.Decimal `json:"price"`
	QuantityInStock int             `json:"quantity_in_stock"`
	CreatedAt       time.Time       `json:"created_at"`
}

// NewCatalogItemView maps an item to its view.
func NewCatalogItemView(item *CatalogItem) CatalogItemView {
	return CatalogItemView{
		ID:              item.ID,
		Name:            item.Name,
		Description:     item.Description,
		Category:        item.Category,
		Price:           item.Price,
		QuantityInStock: item.QuantityInStock,
		CreatedAt:       item.CreatedAt,
	}
}

// NewCatalogItemViews maps items to views. The result is never nil.
func NewCatalogItemViews(items []*CatalogItem) []CatalogItemView {
	views := make([]CatalogItemView, 0, len(items))
	for _, item := range items {
		views = append(views, NewCatalogItemView(item))
	}
	return views
}

// CreateCatalogItemInput carries the fields of a new catalog item. Price and quantity are
// copied verbatim; range validation belongs to the caller.
type CreateCatalogItemInput struct {
	Name            string
	Description     string
	Category        string
	Price           decimal.Decimal
	QuantityInStock int
}
