package menu

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"canteen-ordering/internal/domain"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/shopspring/decimal"
	"go.uber.org/zap"
)

const selectColumns = `
SELECT id, category, name, COALESCE(description, ''), price::text, available, rating::text, review_count, created_at
FROM menu_items
`

type postgresRepo struct {
	pool   *pgxpool.Pool
	logger *zap.Logger
}

// NewPostgres returns a Repository backed by Postgres.
func NewPostgres(pool *pgxpool.Pool, logger *zap.Logger) Repository {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &postgresRepo{pool: pool, logger: logger}
}

func (r *postgresRepo) List(ctx context.Context, filter ListFilter) ([]domain.MenuItem, error) {
	q := selectColumns + `
WHERE ($1::text = '' OR lower(category) = lower($1::text))
  AND ($2::text = '' OR name ILIKE '%' || $2::text || '%' OR description ILIKE '%' || $2::text || '%')
ORDER BY category, name
`
	rows, err := r.pool.Query(ctx, q, strings.TrimSpace(filter.Category), escapeLike(strings.TrimSpace(filter.Query)))
	if err != nil {
		r.logger.Error("menu repo: list", zap.String("category", filter.Category), zap.Error(err))
		return nil, err
	}
	defer rows.Close()

	var result []domain.MenuItem
	for rows.Next() {
		item, err := scanItem(rows)
		if err != nil {
			return nil, err
		}
		result = append(result, *item)
	}
	if err := rows.Err(); err != nil {
		r.logger.Error("menu repo: list rows", zap.Error(err))
		return nil, err
	}
	r.logger.Debug("menu repo: list", zap.String("category", filter.Category), zap.Int("count", len(result)))
	return result, nil
}

func (r *postgresRepo) Get(ctx context.Context, id string) (*domain.MenuItem, error) {
	item, err := scanItem(r.pool.QueryRow(ctx, selectColumns+`WHERE id = $1`, id))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, domain.ErrNotFound
		}
		r.logger.Error("menu repo: get", zap.String("id", id), zap.Error(err))
		return nil, err
	}
	return item, nil
}

func (r *postgresRepo) Categories(ctx context.Context) ([]string, error) {
	rows, err := r.pool.Query(ctx, `SELECT DISTINCT category FROM menu_items ORDER BY category`)
	if err != nil {
		r.logger.Error("menu repo: categories", zap.Error(err))
		return nil, err
	}
	defer rows.Close()

	var out []string
	for rows.Next() {
		var c string
		if err := rows.Scan(&c); err != nil {
			return nil, err
		}
		out = append(out, c)
	}
	return out, rows.Err()
}

func (r *postgresRepo) Upsert(ctx context.Context, item domain.MenuItem) (*domain.MenuItem, error) {
	if item.Price.IsNegative() {
		return nil, fmt.Errorf("menu repo: item %s has negative price", item.ID)
	}
	var rating *string
	if item.Rating != nil {
		s := item.Rating.String()
		rating = &s
	}
	const q = `
INSERT INTO menu_items (id, category, name, description, price, available, rating, review_count)
VALUES ($1, $2, $3, NULLIF($4, ''), $5::numeric, $6, $7::numeric, $8)
ON CONFLICT (id) DO UPDATE SET
    category = EXCLUDED.category,
    name = EXCLUDED.name,
    description = EXCLUDED.description,
    price = EXCLUDED.price,
    available = EXCLUDED.available,
    rating = EXCLUDED.rating,
    review_count = EXCLUDED.review_count
RETURNING created_at
`
	res := item
	err := r.pool.QueryRow(ctx, q,
		item.ID,
		item.Category,
		item.Name,
		item.Description,
		item.Price.String(),
		item.Available,
		rating,
		item.ReviewCount,
	).Scan(&res.CreatedAt)
	if err != nil {
		r.logger.Error("menu repo: upsert", zap.String("id", item.ID), zap.Error(err))
		return nil, err
	}
	r.logger.Debug("menu repo: upserted", zap.String("id", res.ID), zap.String("category", res.Category))
	return &res, nil
}

func scanItem(row pgx.Row) (*domain.MenuItem, error) {
	var (
		item   domain.MenuItem
		price  string
		rating *string
	)
	if err := row.Scan(&item.ID, &item.Category, &item.Name, &item.Description, &price, &item.Available, &rating, &item.ReviewCount, &item.CreatedAt); err != nil {
		return nil, err
	}
	p, err := decimal.NewFromString(price)
	if err != nil {
		return nil, fmt.Errorf("menu repo: price for %s: %w", item.ID, err)
	}
	item.Price = p
	if rating != nil {
		rv, err := decimal.NewFromString(*rating)
		if err != nil {
			return nil, fmt.Errorf("menu repo: rating for %s: %w", item.ID, err)
		}
		item.Rating = &rv
	}
	return &item, nil
}

func escapeLike(s string) string {
	return strings.NewReplacer(`\`, `\\`, `%`, `\%`, `_`, `\_`).Replace(s)
}
