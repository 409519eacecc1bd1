package repositories

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"courier-dispatch-service/internal/domain"

	"github.com/shopspring/decimal"
)

// Postgres-backed implementation of the ProductRepository port.
type PostgresProductRepository struct {
	DB *sql.DB
}

func NewPostgresProductRepository(db *sql.DB) *PostgresProductRepository {
	return &PostgresProductRepository{DB: db}
}

// GetByIDs resolves products in one query. Unknown ids are absent from the
// returned map.
func (r *PostgresProductRepository) GetByIDs(ctx context.Context, ids []int64) (map[int64]domain.Product, error) {
	if r.DB == nil {
		return nil, errors.New("product repository: DB is nil")
	}

	if len(ids) == 0 {
		return map[int64]domain.Product{}, nil
	}

	seen := make(map[int64]struct{}, len(ids))
	uniq := make([]int64, 0, len(ids))
	for _, id := range ids {
		if _, ok := seen[id]; ok {
			continue
		}
		seen[id] = struct{}{}
		uniq = append(uniq, id)
	}

	q := `
	SELECT product_id, name, weight_kg, length_cm, width_cm, height_cm
	FROM products
	WHERE product_id = ANY($1::bigint[]);
	`

	rows, err := r.DB.QueryContext(ctx, q, uniq)
	if err != nil {
		return nil, fmt.Errorf("get products: query products table: %w", err)
	}
	defer rows.Close()

	out := make(map[int64]domain.Product, len(uniq))
	for rows.Next() {
		var (
			p                                 domain.Product
			weight, length, width, height string
		)
		if err := rows.Scan(&p.ID, &p.Name, &weight, &length, &width, &height); err != nil {
			return nil, fmt.Errorf("get products: scan row: %w", err)
		}

		if p.WeightKg, err = decimal.NewFromString(weight); err != nil {
			return nil, fmt.Errorf("get products: product %d weight: %w", p.ID, err)
		}
		if p.LengthCm, err = decimal.NewFromString(length); err != nil {
			return nil, fmt.Errorf("get products: product %d length: %w", p.ID, err)
		}
		if p.WidthCm, err = decimal.NewFromString(width); err != nil {
			return nil, fmt.Errorf("get products: product %d width: %w", p.ID, err)
		}
		if p.HeightCm, err = decimal.NewFromString(height); err != nil {
			return nil, fmt.Errorf("get products: product %d height: %w", p.ID, err)
		}

		out[p.ID] = p
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("get products: row iteration: %w", err)
	}

	return out, nil
}
