package usecase

import (
	"context"
	"encoding/json"
	"log/slog"
	"strings"
	"time"

	"github.com/google/uuid"

	catalogDomain "github.com/allisson/catalog/internal/catalog/domain"
	apperrors "github.com/allisson/catalog/internal/errors"
)

// cacheInvalidationTimeout bounds the cache delete that follows a committed create.
const cacheInvalidationTimeout = 2 * time.Second

// catalogItemUseCase implements CatalogItemUseCase. It holds no mutable state.
type catalogItemUseCase struct {
	repo      CatalogItemRepository
	cache     Cache
	gate      FeatureGate
	publisher EventPublisher
	logger    *slog.Logger
}

// List returns all catalog items ordered by name.
func (c *catalogItemUseCase) List(ctx context.Context) ([]catalogDomain.CatalogItemView, error) {
	caching := c.gate.IsEnabled(ctx, catalogDomain.FlagEnableRedisCaching)

	if caching {
		if views, ok := c.cachedList(ctx); ok {
			return views, nil
		}
	}

	items, err := c.repo.List(ctx)
	if err != nil {
		return nil, apperrors.Wrap(err, "failed to list catalog items")
	}
	views := catalogDomain.NewCatalogItemViews(items)

	if caching {
		c.populateList(ctx, views)
	}

	return views, nil
}

// cachedList reads the list entry. Read and decode failures count as a miss.
func (c *catalogItemUseCase) cachedList(ctx context.Context) ([]catalogDomain.CatalogItemView, bool) {
	data, found, err := c.cache.Get(ctx, catalogDomain.CatalogItemsCacheKey)
	if err != nil {
		c.logger.Warn("catalog cache read failed",
			slog.String("key", catalogDomain.CatalogItemsCacheKey),
			slog.Any("error", err),
		)
		return nil, false
	}
	if !found {
		return nil, false
	}

	var views []catalogDomain.CatalogItemView
	if err := json.Unmarshal(data, &views); err != nil || views == nil {
		c.logger.Warn("discarding undecodable catalog cache entry",
			slog.String("key", catalogDomain.CatalogItemsCacheKey),
			slog.Any("error", err),
		)
		return nil, false
	}
	return views, true
}

func (c *catalogItemUseCase) populateList(ctx context.Context, views []catalogDomain.CatalogItemView) {
	data, err := json.Marshal(views)
	if err != nil {
		c.logger.Warn("failed to encode catalog list for cache", slog.Any("error", err))
		return
	}

	err = c.cache.Set(ctx, catalogDomain.CatalogItemsCacheKey, data, catalogDomain.CatalogItemsCacheTTL)
	if err != nil {
		c.logger.Warn("catalog cache write failed",
			slog.String("key", catalogDomain.CatalogItemsCacheKey),
			slog.Any("error", err),
		)
	}
}

// GetByID reads one item from the repository.
func (c *catalogItemUseCase) GetByID(ctx context.Context, id uuid.UUID) (*catalogDomain.CatalogItemView, error) {
	item, err := c.repo.GetByID(ctx, id)
	if err != nil {
		if apperrors.Is(err, apperrors.ErrNotFound) {
			return nil, catalogDomain.ErrCatalogItemNotFound
		}
		return nil, apperrors.Wrap(err, "failed to get catalog item")
	}

	view := catalogDomain.NewCatalogItemView(item)
	return &view, nil
}

// Create persists a new item, invalidates the list cache and publishes CatalogItemCreated.
// Steps after persistence are best-effort except publication, whose failure is returned
// alongside the created view.
func (c *catalogItemUseCase) Create(
	ctx context.Context,
	input *catalogDomain.CreateCatalogItemInput,
) (*catalogDomain.CatalogItemView, error) {
	id, err := uuid.NewV7()
	if err != nil {
		return nil, apperrors.Wrap(err, "failed to generate catalog item id")
	}

	item := &catalogDomain.CatalogItem{
		ID:              id,
		Name:            strings.TrimSpace(input.Name),
		Description:     strings.TrimSpace(input.Description),
		Category:        strings.TrimSpace(input.Category),
		Price:           input.Price,
		QuantityInStock: input.QuantityInStock,
		CreatedAt:       time.Now().UTC(),
	}

	if err := c.repo.Create(ctx, item); err != nil {
		return nil, apperrors.Wrap(err, "failed to create catalog item")
	}

	// The item is committed from here on.
	view := catalogDomain.NewCatalogItemView(item)

	if c.gate.IsEnabled(ctx, catalogDomain.FlagEnableRedisCaching) {
		c.invalidateList(ctx)
	}

	if c.gate.IsEnabled(ctx, catalogDomain.FlagEnableKafkaPublishing) {
		if err := c.publisher.PublishCatalogItemCreated(ctx, item); err != nil {
			c.logger.Error("catalog item created but event was not published",
				slog.String("item_id", item.ID.String()),
				slog.Any("error", err),
			)
			return &view, apperrors.Join(catalogDomain.ErrPublishFailed, err)
		}
	}

	return &view, nil
}

func (c *catalogItemUseCase) invalidateList(ctx context.Context) {
	ctx, cancel := context.WithTimeout(context.WithoutCancel(ctx), cacheInvalidationTimeout)
	defer cancel()

	if err := c.cache.Delete(ctx, catalogDomain.CatalogItemsCacheKey); err != nil {
		c.logger.Warn("catalog cache invalidation failed, list may be stale until expiry",
			slog.String("key", catalogDomain.CatalogItemsCacheKey),
			slog.Duration("ttl", catalogDomain.CatalogItemsCacheTTL),
			slog.Any("error", err),
		)
	}
}

// NewCatalogItemUseCase creates a new CatalogItemUseCase.
func NewCatalogItemUseCase(
	repo CatalogItemRepository,
	cache Cache,
	gate FeatureGate,
	publisher EventPublisher,
	logger *slog.Logger,
) CatalogItemUseCase {
	if logger == nil {
		logger = slog.New(slog.DiscardHandler)
	}
	return &catalogItemUseCase{
		repo:      repo,
		cache:     cache,
		gate:      gate,
		publisher: publisher,
		logger:    logger,
	}
}
