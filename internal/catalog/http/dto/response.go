package dto

import (
	"time"

	"github.com/shopspring/decimal"

	catalogDomain "github.com/allisson/catalog/internal/catalog/domain"
)

// CatalogItemResponse represents a catalog item in API responses.
type CatalogItemResponse struct {
	ID              string          `json:"id"`
	Name            string          `json:"name"`
	Description     string          `json:"description"`
	Category        string          `json:"category"`
	Price           decimal.Decimal `json:"price"`
	QuantityInStock int             `json:"quantity_in_stock"`
	CreatedAt       time.Time       `json:"created_at"`
}

// MapCatalogItemToResponse converts a catalog item view to an API response.
func MapCatalogItemToResponse(view *catalogDomain.CatalogItemView) CatalogItemResponse {
	return CatalogItemResponse{
		ID:              view.ID.String(),
		Name:            view.Name,
		Description:     view.Description,
		Category:        view.Category,
		Price:           view.Price,
		QuantityInStock: view.QuantityInStock,
		CreatedAt:       view.CreatedAt,
	}
}

// MapCatalogItemsToResponse converts views to API responses. The result is never nil so an
// empty catalog encodes as [].
func MapCatalogItemsToResponse(views []catalogDomain.CatalogItemView) []CatalogItemResponse {
	responses := make([]CatalogItemResponse, 0, len(views))
	for i := range views {
		responses = append(responses, MapCatalogItemToResponse(&views[i]))
	}
	return responses
}
