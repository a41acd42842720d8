// Package dto provides data transfer objects for catalog HTTP request and response handling.
package dto

import (
	validation "github.com/jellydator/validation"
	"github.com/shopspring/decimal"

	catalogDomain "github.com/allisson/catalog/internal/catalog/domain"
	customValidation "github.com/allisson/catalog/internal/validation"
)

// CreateCatalogItemRequest contains the parameters for creating a catalog item.
// Price accepts both JSON numbers and numeric strings.
type CreateCatalogItemRequest struct {
	Name            string           `json:"name"`
	Description     string           `json:"description"`
	Category        string           `json:"category"`
	Price           *decimal.Decimal `json:"price"`
	QuantityInStock *int             `json:"quantity_in_stock"`
}

// Validate checks if the create request is valid.
func (r *CreateCatalogItemRequest) Validate() error {
	return validation.ValidateStruct(r,
		validation.Field(&r.Name,
			validation.Required,
			customValidation.NotBlank,
			validation.Length(1, 200),
		),
		validation.Field(&r.Description,
			validation.Length(0, 2000),
		),
		validation.Field(&r.Category,
			validation.Required,
			customValidation.NotBlank,
			validation.Length(1, 100),
		),
		validation.Field(&r.Price,
			validation.NotNil,
			customValidation.NonNegativeDecimal,
			customValidation.MaxDecimalPlaces(2),
		),
		validation.Field(&r.QuantityInStock,
			validation.NotNil,
			validation.Min(0),
		),
	)
}

// ToInput maps a validated request to the use case input.
func (r *CreateCatalogItemRequest) ToInput() *catalogDomain.CreateCatalogItemInput {
	input := &catalogDomain.CreateCatalogItemInput{
		Name:        r.Name,
		Description: r.Description,
		Category:    r.Category,
	}
	if r.Price != nil {
		input.Price = *r.Price
	}
	if r.QuantityInStock != nil {
		input.QuantityInStock = *r.QuantityInStock
	}
	return input
}
