// Package mocks provides mock implementations for testing HTTP handlers.
package mocks

import (
	"context"

	"github.com/google/uuid"
	"github.com/stretchr/testify/mock"

	catalogDomain "github.com/allisson/catalog/internal/catalog/domain"
)

// MockCatalogItemUseCase is a mock implementation of CatalogItemUseCase for testing.
type MockCatalogItemUseCase struct {
	mock.Mock
}

// List mocks the List method of CatalogItemUseCase.
func (m *MockCatalogItemUseCase) List(ctx context.Context) ([]catalogDomain.CatalogItemView, error) {
	args := m.Called(ctx)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]catalogDomain.CatalogItemView), args.Error(1)
}

// GetByID mocks the GetByID method of CatalogItemUseCase.
func (m *MockCatalogItemUseCase) GetByID(
	ctx context.Context,
	id uuid.UUID,
) (*catalogDomain.CatalogItemView, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*catalogDomain.CatalogItemView), args.Error(1)
}

// Create mocks the Create method of CatalogItemUseCase.
func (m *MockCatalogItemUseCase) Create(
	ctx context.Context,
	input *catalogDomain.CreateCatalogItemInput,
) (*catalogDomain.CatalogItemView, error) {
	args := m.Called(ctx, input)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*catalogDomain.CatalogItemView), args.Error(1)
}
