// Package repository implements catalog item persistence for PostgreSQL and MySQL.
package repository

import (
	"context"
	"database/sql"
	"errors"

	"github.com/google/uuid"

	catalogDomain "github.com/allisson/catalog/internal/catalog/domain"
	"github.com/allisson/catalog/internal/database"
	apperrors "github.com/allisson/catalog/internal/errors"
)

// PostgreSQLCatalogItemRepository implements CatalogItem persistence for PostgreSQL databases.
type PostgreSQLCatalogItemRepository struct {
	db *sql.DB
}

// Create inserts a new catalog item.
func (p *PostgreSQLCatalogItemRepository) Create(ctx context.Context, item *catalogDomain.CatalogItem) error {
	querier := database.GetTx(ctx, p.db)

	query := `INSERT INTO catalog_items (id, name, description, category, price, quantity_in_stock, created_at)
			  VALUES ($1, $2, $3, $4, $5, $6, $7)`

	_, err := querier.ExecContext(
		ctx,
		query,
		item.ID,
		item.Name,
		item.Description,
		item.Category,
		item.Price,
		item.QuantityInStock,
		item.CreatedAt,
	)
	if err != nil {
		return apperrors.Wrap(err, "failed to create catalog item")
	}
	return nil
}

// GetByID retrieves a catalog item by id.
func (p *PostgreSQLCatalogItemRepository) GetByID(
	ctx context.Context,
	id uuid.UUID,
) (*catalogDomain.CatalogItem, error) {
	querier := database.GetTx(ctx, p.db)

	query := `SELECT id, name, description, category, price, quantity_in_stock, created_at
			  FROM catalog_items
			  WHERE id = $1`

	var item catalogDomain.CatalogItem
	err := querier.QueryRowContext(ctx, query, id).Scan(
		&item.ID,
		&item.Name,
		&item.Description,
		&item.Category,
		&item.Price,
		&item.QuantityInStock,
		&item.CreatedAt,
	)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, apperrors.ErrNotFound
		}
		return nil, apperrors.Wrap(err, "failed to get catalog item by id")
	}

	item.CreatedAt = item.CreatedAt.UTC()
	return &item, nil
}

// List retrieves all catalog items ordered by name.
func (p *PostgreSQLCatalogItemRepository) List(ctx context.Context) ([]*catalogDomain.CatalogItem, error) {
	querier := database.GetTx(ctx, p.db)

	query := `SELECT id, name, description, category, price, quantity_in_stock, created_at
			  FROM catalog_items
			  ORDER BY name ASC, id ASC`

	rows, err := querier.QueryContext(ctx, query)
	if err != nil {
		return nil, apperrors.Wrap(err, "failed to list catalog items")
	}
	defer func() {
		_ = rows.Close()
	}()

	items := make([]*catalogDomain.CatalogItem, 0)
	for rows.Next() {
		var item catalogDomain.CatalogItem
		if err := rows.Scan(
			&item.ID,
			&item.Name,
			&item.Description,
			&item.Category,
			&item.Price,
			&item.QuantityInStock,
			&item.CreatedAt,
		); err != nil {
			return nil, apperrors.Wrap(err, "failed to scan catalog item")
		}
		item.CreatedAt = item.CreatedAt.UTC()
		items = append(items, &item)
	}

	if err := rows.Err(); err != nil {
		return nil, apperrors.Wrap(err, "failed to iterate catalog items")
	}

	return items, nil
}

// Count returns the number of stored catalog items.
func (p *PostgreSQLCatalogItemRepository) Count(ctx context.Context) (int, error) {
	querier := database.GetTx(ctx, p.db)

	var count int
	if err := querier.QueryRowContext(ctx, `SELECT COUNT(*) FROM catalog_items`).Scan(&count); err != nil {
		return 0, apperrors.Wrap(err, "failed to count catalog items")
	}
	return count, nil
}

// NewPostgreSQLCatalogItemRepository creates a new PostgreSQL CatalogItem repository instance.
func NewPostgreSQLCatalogItemRepository(db *sql.DB) *PostgreSQLCatalogItemRepository {
	return &PostgreSQLCatalogItemRepository{db: db}
}
