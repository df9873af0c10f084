package store

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/safar/go-storefront/internal/database"
	"github.com/safar/go-storefront/internal/models"
)

const productColumns = `id, name, short_description, description, price, image, category, rating, featured`

type rowScanner interface {
	Scan(dest ...any) error
}

func scanProduct(row rowScanner, product *models.Product) error {
	return row.Scan(
		&product.ID,
		&product.Name,
		&product.ShortDescription,
		&product.Description,
		&product.Price,
		&product.Image,
		&product.Category,
		&product.Rating,
		&product.Featured,
	)
}

// LoadCatalog reads the whole product table in id order. The result feeds
// catalog.New at start-up; the table is not consulted afterwards.
func LoadCatalog(ctx context.Context, db *sql.DB) ([]models.Product, error) {
	rows, err := db.QueryContext(ctx, `SELECT `+productColumns+` FROM products ORDER BY id`)
	if err != nil {
		return nil, fmt.Errorf("load catalog: %w", err)
	}
	defer rows.Close()

	products := []models.Product{}
	for rows.Next() {
		var product models.Product
		if err := scanProduct(rows, &product); err != nil {
			return nil, fmt.Errorf("scan product: %w", err)
		}
		products = append(products, product)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("rows error: %w", err)
	}

	return products, nil
}

func GetProduct(ctx context.Context, db *sql.DB, id int64) (*models.Product, error) {
	product := &models.Product{}

	err := scanProduct(db.QueryRowContext(ctx, `SELECT `+productColumns+` FROM products WHERE id = $1`, id), product)
	if err != nil {
		if err == sql.ErrNoRows {
			return nil, database.ErrProductNotFound
		}
		return nil, fmt.Errorf("get product: %w", err)
	}

	return product, nil
}

// SeedCatalog upserts products by id in a single transaction, so reseeding
// with an edited product set replaces the previous values.
func SeedCatalog(ctx context.Context, db *sql.DB, products []models.Product) error {
	return database.WithTransaction(ctx, db, database.DefaultTxOptions(), func(tx *sql.Tx) error {
		for _, p := range products {
			_, err := tx.ExecContext(ctx,
				`INSERT INTO products (`+productColumns+`)
				 VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9)
				 ON CONFLICT (id) DO UPDATE
				 SET name = EXCLUDED.name,
				     short_description = EXCLUDED.short_description,
				     description = EXCLUDED.description,
				     price = EXCLUDED.price,
				     image = EXCLUDED.image,
				     category = EXCLUDED.category,
				     rating = EXCLUDED.rating,
				     featured = EXCLUDED.featured`,
				p.ID, p.Name, p.ShortDescription, p.Description, p.Price, p.Image, p.Category, p.Rating, p.Featured)
			if err != nil {
				return fmt.Errorf("seed product %d: %w", p.ID, err)
			}
		}
		return nil
	})
}
