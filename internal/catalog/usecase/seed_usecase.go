package usecase

import (
	"context"
	"log/slog"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	catalogDomain "github.com/allisson/catalog/internal/catalog/domain"
	"github.com/allisson/catalog/internal/database"
	apperrors "github.com/allisson/catalog/internal/errors"
)

// SampleCatalogItems are inserted by Seed into an empty catalog.
var SampleCatalogItems = []catalogDomain.CreateCatalogItemInput{
	{
		Name:            "Noise Cancelling Headphones",
		Description:     "Wireless over-ear headphones with ANC",
		Category:        "Electronics",
		Price:           decimal.RequireFromString("199.99"),
		QuantityInStock: 25,
	},
	{
		Name:            "Ergonomic Desk Chair",
		Description:     "Lumbar support office chair",
		Category:        "Furniture",
		Price:           decimal.RequireFromString("349.00"),
		QuantityInStock: 10,
	},
	{
		Name:            "Premium Notebook Set",
		Description:     "Pack of 5 ruled notebooks",
		Category:        "Office Supplies",
		Price:           decimal.RequireFromString("24.95"),
		QuantityInStock: 100,
	},
}

// SeedUseCase populates an empty catalog with sample items.
type SeedUseCase struct {
	txManager database.TxManager
	repo      CatalogItemRepository
	logger    *slog.Logger
}

// Seed inserts SampleCatalogItems in one transaction when the catalog is empty and
// returns how many items were inserted. It bypasses cache and events.
func (s *SeedUseCase) Seed(ctx context.Context) (int, error) {
	inserted := 0
	err := s.txManager.WithTx(ctx, func(txCtx context.Context) error {
		count, err := s.repo.Count(txCtx)
		if err != nil {
			return err
		}
		if count > 0 {
			s.logger.Info("catalog already populated, skipping seed", slog.Int("count", count))
			return nil
		}

		now := time.Now().UTC()
		for _, sample := range SampleCatalogItems {
			id, err := uuid.NewV7()
			if err != nil {
				return err
			}
			item := &catalogDomain.CatalogItem{
				ID:              id,
				Name:            sample.Name,
				Description:     sample.Description,
				Category:        sample.Category,
				Price:           sample.Price,
				QuantityInStock: sample.QuantityInStock,
				CreatedAt:       now,
			}
			if err := s.repo.Create(txCtx, item); err != nil {
				return err
			}
			inserted++
		}
		return nil
	})
	if err != nil {
		return 0, apperrors.Wrap(err, "failed to seed catalog")
	}

	return inserted, nil
}

// NewSeedUseCase creates a new SeedUseCase.
func NewSeedUseCase(txManager database.TxManager, repo CatalogItemRepository, logger *slog.Logger) *SeedUseCase {
	return &SeedUseCase{txManager: txManager, repo: repo, logger: logger}
}
