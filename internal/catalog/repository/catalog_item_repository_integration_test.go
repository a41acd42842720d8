package repository

import (
	"context"
	"database/sql"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	catalogDomain "github.com/allisson/catalog/internal/catalog/domain"
	"github.com/allisson/catalog/internal/catalog/usecase"
	"github.com/allisson/catalog/internal/database"
	apperrors "github.com/allisson/catalog/internal/errors"
	"github.com/allisson/catalog/internal/testutil"
)

func TestCatalogItemRepository_Integration(t *testing.T) {
	tests := []struct {
		name    string
		setup   func(t *testing.T) *sql.DB
		newRepo func(db *sql.DB) usecase.CatalogItemRepository
	}{
		{
			name:    "postgres",
			setup:   testutil.SetupPostgresDB,
			newRepo: func(db *sql.DB) usecase.CatalogItemRepository { return NewPostgreSQLCatalogItemRepository(db) },
		},
		{
			name:    "mysql",
			setup:   testutil.SetupMySQLDB,
			newRepo: func(db *sql.DB) usecase.CatalogItemRepository { return NewMySQLCatalogItemRepository(db) },
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			db := tt.setup(t)
			defer testutil.TeardownDB(t, db)

			repo := tt.newRepo(db)
			ctx := context.Background()

			items, err := repo.List(ctx)
			require.NoError(t, err)
			assert.NotNil(t, items)
			assert.Empty(t, items)

			lamp := &catalogDomain.CatalogItem{
				ID:              uuid.Must(uuid.NewV7()),
				Name:            "Desk Lamp",
				Description:     "LED",
				Category:        "Home",
				Price:           decimal.RequireFromString("49.90"),
				QuantityInStock: 7,
				CreatedAt:       time.Now().UTC().Truncate(time.Microsecond),
			}
			chair := &catalogDomain.CatalogItem{
				ID:              uuid.Must(uuid.NewV7()),
				Name:            "Chair",
				Category:        "Office",
				Price:           decimal.RequireFromString("349.00"),
				QuantityInStock: 10,
				CreatedAt:       time.Now().UTC().Truncate(time.Microsecond),
			}

			txManager := database.NewTxManager(db)
			require.NoError(t, txManager.WithTx(ctx, func(ctx context.Context) error {
				if err := repo.Create(ctx, lamp); err != nil {
					return err
				}
				return repo.Create(ctx, chair)
			}))

			got, err := repo.GetByID(ctx, lamp.ID)
			require.NoError(t, err)
			assert.Equal(t, lamp.Name, got.Name)
			assert.True(t, lamp.Price.Equal(got.Price))
			assert.Equal(t, lamp.QuantityInStock, got.QuantityInStock)
			assert.True(t, lamp.CreatedAt.Equal(got.CreatedAt))

			items, err = repo.List(ctx)
			require.NoError(t, err)
			require.Len(t, items, 2)
			assert.Equal(t, "Chair", items[0].Name)
			assert.Equal(t, "Desk Lamp", items[1].Name)

			count, err := repo.Count(ctx)
			require.NoError(t, err)
			assert.Equal(t, 2, count)

			_, err = repo.GetByID(ctx, uuid.Must(uuid.NewV7()))
			assert.ErrorIs(t, err, apperrors.ErrNotFound)
		})
	}
}
