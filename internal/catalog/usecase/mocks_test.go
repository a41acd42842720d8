package usecase

import (
	"context"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/mock"

	catalogDomain "github.com/allisson/catalog/internal/catalog/domain"
)

// MockCatalogItemRepository is a mock implementation of CatalogItemRepository
type MockCatalogItemRepository struct {
	mock.Mock
}

func (m *MockCatalogItemRepository) Create(ctx context.Context, item *catalogDomain.CatalogItem) error {
	args := m.Called(ctx, item)
	return args.Error(0)
}

func (m *MockCatalogItemRepository) GetByID(ctx context.Context, id uuid.UUID) (*catalogDomain.CatalogItem, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*catalogDomain.CatalogItem), args.Error(1)
}

func (m *MockCatalogItemRepository) List(ctx context.Context) ([]*catalogDomain.CatalogItem, error) {
	args := m.Called(ctx)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*catalogDomain.CatalogItem), args.Error(1)
}

func (m *MockCatalogItemRepository) Count(ctx context.Context) (int, error) {
	args := m.Called(ctx)
	return args.Int(0), args.Error(1)
}

// MockCache is a mock implementation of Cache
type MockCache struct {
	mock.Mock
}

func (m *MockCache) Get(ctx context.Context, key string) ([]byte, bool, error) {
	args := m.Called(ctx, key)
	if args.Get(0) == nil {
		return nil, args.Bool(1), args.Error(2)
	}
	return args.Get(0).([]byte), args.Bool(1), args.Error(2)
}

func (m *MockCache) Set(ctx context.Context, key string, value []byte, ttl time.Duration) error {
	args := m.Called(ctx, key, value, ttl)
	return args.Error(0)
}

func (m *MockCache) Delete(ctx context.Context, key string) error {
	args := m.Called(ctx, key)
	return args.Error(0)
}

// MockFeatureGate is a mock implementation of FeatureGate
type MockFeatureGate struct {
	mock.Mock
}

func (m *MockFeatureGate) IsEnabled(ctx context.Context, flag string) bool {
	args := m.Called(ctx, flag)
	return args.Bool(0)
}

// MockEventPublisher is a mock implementation of EventPublisher
type MockEventPublisher struct {
	mock.Mock
}

func (m *MockEventPublisher) PublishCatalogItemCreated(ctx context.Context, item *catalogDomain.CatalogItem) error {
	args := m.Called(ctx, item)
	return args.Error(0)
}

// MockEventSource is a mock implementation of EventSource
type MockEventSource struct {
	mock.Mock
}

func (m *MockEventSource) Subscribe(ctx context.Context, topic string) error {
	args := m.Called(ctx, topic)
	return args.Error(0)
}

func (m *MockEventSource) Poll(ctx context.Context, timeout time.Duration) (*catalogDomain.EventMessage, error) {
	args := m.Called(ctx, timeout)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*catalogDomain.EventMessage), args.Error(1)
}

func (m *MockEventSource) Close() error {
	args := m.Called()
	return args.Error(0)
}

// MockEventHandler is a mock implementation of EventHandler
type MockEventHandler struct {
	mock.Mock
}

func (m *MockEventHandler) Handle(ctx context.Context, msg *catalogDomain.EventMessage) error {
	args := m.Called(ctx, msg)
	return args.Error(0)
}

// MockCatalogItemUseCase is a mock implementation of CatalogItemUseCase
type MockCatalogItemUseCase struct {
	mock.Mock
}

func (m *MockCatalogItemUseCase) List(ctx context.Context) ([]catalogDomain.CatalogItemView, error) {
	args := m.Called(ctx)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]catalogDomain.CatalogItemView), args.Error(1)
}

func (m *MockCatalogItemUseCase) GetByID(ctx context.Context, id uuid.UUID) (*catalogDomain.CatalogItemView, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*catalogDomain.CatalogItemView), args.Error(1)
}

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

// MockBusinessMetrics is a mock implementation of metrics.BusinessMetrics
type MockBusinessMetrics struct {
	mock.Mock
}

func (m *MockBusinessMetrics) RecordOperation(ctx context.Context, domain, operation, status string) {
	m.Called(ctx, domain, operation, status)
}

func (m *MockBusinessMetrics) RecordDuration(
	ctx context.Context,
	domain, operation string,
	duration time.Duration,
	status string,
) {
	m.Called(ctx, domain, operation, duration, status)
}
