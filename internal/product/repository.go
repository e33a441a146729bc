package product

import (
	"context"
	"database/sql"
	"errors"

	"digistore-be/internal/logger"

	"go.uber.org/zap"
)

var ErrProductNotFound = errors.New("product not found")

type Repository interface {
	ListActive(ctx context.Context) ([]Product, error)
	GetByID(ctx context.Context, id string) (*Product, error)
}

type repository struct {
	db *sql.DB
}

func NewRepository(db *sql.DB) Repository {
	return &repository{db: db}
}

// ListActive returns the catalog with per-product counts of still
// deliverable codes.
func (r *repository) ListActive(ctx context.Context) ([]Product, error) {
	log := logger.FromCtx(ctx).With(
		zap.String("layer", "repository"),
		zap.String("method", "ListActive"),
	)

	rows, err := r.db.QueryContext(ctx, `
		SELECT
			p.id, p.name, p.name_ar, p.description, p.description_ar,
			p.category, p.price, p.image_url, p.is_active,
			COUNT(pc.id) FILTER (WHERE pc.is_used = FALSE) AS stock_count,
			p.created_at, p.updated_at
		FROM products p
		LEFT JOIN product_codes pc ON pc.product_id = p.id
		WHERE p.is_active = TRUE
		GROUP BY p.id
		ORDER BY p.created_at DESC
	`)
	if err != nil {
		log.Error("failed to query products", zap.Error(err))
		return nil, err
	}
	defer rows.Close()

	var products []Product
	for rows.Next() {
		var p Product
		if err := rows.Scan(
			&p.ID, &p.Name, &p.NameAr, &p.Description, &p.DescriptionAr,
			&p.Category, &p.Price, &p.ImageURL, &p.IsActive,
			&p.StockCount, &p.CreatedAt, &p.UpdatedAt,
		); err != nil {
			log.Error("failed to scan product row", zap.Error(err))
			return nil, err
		}
		products = append(products, p)
	}

	return products, rows.Err()
}

func (r *repository) GetByID(ctx context.Context, id string) (*Product, error) {
	var p Product
	err := r.db.QueryRowContext(ctx, `
		SELECT id, name, name_ar, description, description_ar,
		       category, price, image_url, is_active, created_at, updated_at
		FROM products
		WHERE id = $1
	`, id).Scan(
		&p.ID, &p.Name, &p.NameAr, &p.Description, &p.DescriptionAr,
		&p.Category, &p.Price, &p.ImageURL, &p.IsActive, &p.CreatedAt, &p.UpdatedAt,
	)

	if errors.Is(err, sql.ErrNoRows) {
		return nil, ErrProductNotFound
	}
	if err != nil {
		return nil, err
	}

	return &p, nil
}
