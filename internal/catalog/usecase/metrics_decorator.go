package usecase

import (
	"context"
	"time"

	"github.com/google/uuid"

	catalogDomain "github.com/allisson/catalog/internal/catalog/domain"
	apperrors "github.com/allisson/catalog/internal/errors"
	"github.com/allisson/catalog/internal/metrics"
)

const metricsDomain = "catalog"

// catalogItemUseCaseWithMetrics decorates CatalogItemUseCase with metrics instrumentation.
type catalogItemUseCaseWithMetrics struct {
	next    CatalogItemUseCase
	metrics metrics.BusinessMetrics
}

// NewCatalogItemUseCaseWithMetrics wraps a CatalogItemUseCase with metrics recording.
func NewCatalogItemUseCaseWithMetrics(useCase CatalogItemUseCase, m metrics.BusinessMetrics) CatalogItemUseCase {
	return &catalogItemUseCaseWithMetrics{
		next:    useCase,
		metrics: m,
	}
}

func (c *catalogItemUseCaseWithMetrics) List(ctx context.Context) ([]catalogDomain.CatalogItemView, error) {
	start := time.Now()
	views, err := c.next.List(ctx)

	metrics.Observe(ctx, c.metrics, metricsDomain, "catalog_list", start, statusOf(err))
	return views, err
}

func (c *catalogItemUseCaseWithMetrics) GetByID(
	ctx context.Context,
	id uuid.UUID,
) (*catalogDomain.CatalogItemView, error) {
	start := time.Now()
	view, err := c.next.GetByID(ctx, id)

	metrics.Observe(ctx, c.metrics, metricsDomain, "catalog_get", start, statusOf(err))
	return view, err
}

func (c *catalogItemUseCaseWithMetrics) Create(
	ctx context.Context,
	input *catalogDomain.CreateCatalogItemInput,
) (*catalogDomain.CatalogItemView, error) {
	start := time.Now()
	view, err := c.next.Create(ctx, input)

	metrics.Observe(ctx, c.metrics, metricsDomain, "catalog_create", start, statusOf(err))
	return view, err
}

func statusOf(err error) string {
	switch {
	case err == nil:
		return metrics.StatusSuccess
	case apperrors.Is(err, apperrors.ErrNotFound):
		return metrics.StatusNotFound
	case apperrors.Is(err, catalogDomain.ErrPublishFailed):
		return metrics.StatusPartial
	default:
		return metrics.StatusError
	}
}
