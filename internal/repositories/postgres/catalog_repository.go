package postgres

import (
	"context"

	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/paykiosk/paykiosk/internal/models"
)

type CatalogRepository struct {
	pool *pgxpool.Pool
}

func NewCatalogRepository(pool *pgxpool.Pool) *CatalogRepository {
	return &CatalogRepository{pool: pool}
}

func (r *CatalogRepository) BulkCreate(ctx context.Context, items []*models.CatalogItem) error {
	tx, err := r.pool.Begin(ctx)
	if err != nil {
		return err
	}
	defer tx.Rollback(ctx)

	stmt := `
        INSERT INTO catalog_items (
            id, name, description, price, category, tags, approved, attributes
        ) VALUES (
            $1, $2, $3, $4, $5, $6, $7, $8
        )`

	for _, item := range items {
		_, err = tx.Exec(ctx, stmt,
			item.ID,
			item.Name,
			item.Description,
			item.Price,
			item.Category,
			item.Tags,
			item.Approved,
			item.Attributes,
		)
		if err != nil {
			return err
		}
	}

	return tx.Commit(ctx)
}

func (r *CatalogRepository) Create(ctx context.Context, item *models.CatalogItem) error {
	query := `
        INSERT INTO catalog_items (
            id, name, description, price, category, tags, approved, attributes
        ) VALUES (
            $1, $2, $3, $4, $5, $6, $7, $8
        )
    `
	_, err := r.pool.Exec(ctx, query,
		item.ID,
		item.Name,
		item.Description,
		item.Price,
		item.Category,
		item.Tags,
		item.Approved,
		item.Attributes,
	)
	return err
}

func (r *CatalogRepository) GetAll(ctx context.Context) ([]*models.CatalogItem, error) {
	query := `
        SELECT id, name, description, price, category, tags, approved, attributes
        FROM catalog_items`

	rows, err := r.pool.Query(ctx, query)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var items []*models.CatalogItem
	for rows.Next() {
		item := &models.CatalogItem{}
		err := rows.Scan(
			&item.ID,
			&item.Name,
			&item.Description,
			&item.Price,
			&item.Category,
			&item.Tags,
			&item.Approved,
			&item.Attributes,
		)
		if err != nil {
			return nil, err
		}
		item.ResolveAttributes()
		items = append(items, item)
	}
	return items, rows.Err()
}

func (r *CatalogRepository) Count(ctx context.Context) (int, error) {
	var count int
	err := r.pool.QueryRow(ctx, "SELECT COUNT(*) FROM catalog_items").Scan(&count)
	return count, err
}

func (r *CatalogRepository) DeleteAll(ctx context.Context) error {
	_, err := r.pool.Exec(ctx, "TRUNCATE TABLE catalog_items CASCADE")
	return err
}
