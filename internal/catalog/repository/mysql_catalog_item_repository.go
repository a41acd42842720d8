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

// MySQLCatalogItemRepository implements CatalogItem persistence for MySQL databases.
// Ids are stored as BINARY(16).
type MySQLCatalogItemRepository struct {
	db *sql.DB
}

// Create inserts a new catalog item.
func (m *MySQLCatalogItemRepository) Create(ctx context.Context, item *catalogDomain.CatalogItem) error {
	querier := database.GetTx(ctx, m.db)

	query := `INSERT INTO catalog_items (id, name, description, category, price, quantity_in_stock, created_at)
			  VALUES (?, ?, ?, ?, ?, ?, ?)`

	id, err := item.ID.MarshalBinary()
	if err != nil {
		return apperrors.Wrap(err, "failed to marshal catalog item id")
	}

	_, err = querier.ExecContext(
		ctx,
		query,
		id,
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
func (m *MySQLCatalogItemRepository) GetByID(
	ctx context.Context,
	id uuid.UUID,
) (*catalogDomain.CatalogItem, error) {
	querier := database.GetTx(ctx, m.db)

	query := `SELECT id, name, description, category, price, quantity_in_stock, created_at
			  FROM catalog_items
			  WHERE id = ?`

	binID, err := id.MarshalBinary()
	if err != nil {
		return nil, apperrors.Wrap(err, "failed to marshal catalog item id")
	}

	item, err := scanMySQLItem(querier.QueryRowContext(ctx, query, binID))
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, apperrors.ErrNotFound
		}
		return nil, apperrors.Wrap(err, "failed to get catalog item by id")
	}

	return item, nil
}

// List retrieves all catalog items ordered by name.
func (m *MySQLCatalogItemRepository) List(ctx context.Context) ([]*catalogDomain.CatalogItem, error) {
	querier := database.GetTx(ctx, m.db)

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
		item, err := scanMySQLItem(rows)
		if err != nil {
			return nil, apperrors.Wrap(err, "failed to scan catalog item")
		}
		items = append(items, item)
	}

	if err := rows.Err(); err != nil {
		return nil, apperrors.Wrap(err, "failed to iterate catalog items")
	}

	return items, nil
}

// Count returns the number of stored catalog items.
func (m *MySQLCatalogItemRepository) Count(ctx context.Context) (int, error) {
	querier := database.GetTx(ctx, m.db)

	var count int
	if err := querier.QueryRowContext(ctx, `SELECT COUNT(*) FROM catalog_items`).Scan(&count); err != nil {
		return 0, apperrors.Wrap(err, "failed to count catalog items")
	}
	return count, nil
}

type rowScanner interface {
	Scan(dest ...any) error
}

func scanMySQLItem(row rowScanner) (*catalogDomain.CatalogItem, error) {
	var item catalogDomain.CatalogItem
	var id []byte

	if err := row.Scan(
		&id,
		&item.Name,
		&item.Description,
		&item.Category,
		&item.Price,
		&item.QuantityInStock,
		&item.CreatedAt,
	); err != nil {
		return nil, err
	}

	if err := item.ID.UnmarshalBinary(id); err != nil {
		return nil, apperrors.Wrap(err, "failed to unmarshal catalog item id")
	}
	item.CreatedAt = item.CreatedAt.UTC()

	return &item, nil
}

// NewMySQLCatalogItemRepository creates a new MySQL CatalogItem repository instance.
func NewMySQLCatalogItemRepository(db *sql.DB) *MySQLCatalogItemRepository {
	return &MySQLCatalogItemRepository{db: db}
}
