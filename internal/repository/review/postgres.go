package review

import (
	"context"
	"errors"

	"canteen-ordering/internal/domain"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/shopspring/decimal"
	"go.uber.org/zap"
)

type postgresRepo struct {
	pool   *pgxpool.Pool
	logger *zap.Logger
}

func NewPostgres(pool *pgxpool.Pool, logger *zap.Logger) Repository {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &postgresRepo{pool: pool, logger: logger}
}

func (r *postgresRepo) Create(ctx context.Context, rv domain.Review) (*domain.Review, error) {
	const q = `
INSERT INTO reviews (item_id, user_name, rating, comment)
VALUES ($1, $2, $3, $4)
RETURNING id::text, created_at
`
	res := rv
	if err := r.pool.QueryRow(ctx, q, rv.ItemID, rv.UserName, rv.Rating, rv.Comment).Scan(&res.ID, &res.CreatedAt); err != nil {
		var pgErr *pgconn.PgError
		if errors.As(err, &pgErr) && pgErr.Code == "23503" {
			return nil, domain.ErrNotFound
		}
		r.logger.Error("review repo: create", zap.String("item_id", rv.ItemID), zap.Error(err))
		return nil, err
	}
	r.logger.Debug("review repo: created", zap.String("id", res.ID), zap.String("item_id", res.ItemID))
	return &res, nil
}

func (r *postgresRepo) ListByItem(ctx context.Context, itemID string) ([]domain.Review, error) {
	const q = `
SELECT id::text, item_id, user_name, rating, comment, created_at
FROM reviews
WHERE item_id = $1
ORDER BY created_at DESC, id
`
	rows, err := r.pool.Query(ctx, q, itemID)
	if err != nil {
		r.logger.Error("review repo: list", zap.String("item_id", itemID), zap.Error(err))
		return nil, err
	}
	defer rows.Close()

	var out []domain.Review
	for rows.Next() {
		var rv domain.Review
		if err := rows.Scan(&rv.ID, &rv.ItemID, &rv.UserName, &rv.Rating, &rv.Comment, &rv.CreatedAt); err != nil {
			return nil, err
		}
		out = append(out, rv)
	}
	return out, rows.Err()
}

func (r *postgresRepo) Stats(ctx context.Context, itemID string) (Stats, error) {
	const q = `SELECT COALESCE(AVG(rating), 0)::numeric(3,2)::text, COUNT(*) FROM reviews WHERE item_id = $1`
	var (
		avg   string
		count int
	)
	if err := r.pool.QueryRow(ctx, q, itemID).Scan(&avg, &count); err != nil {
		r.logger.Error("review repo: stats", zap.String("item_id", itemID), zap.Error(err))
		return Stats{}, err
	}
	d, err := decimal.NewFromString(avg)
	if err != nil {
		return Stats{}, err
	}
	return Stats{Average: d, Count: count}, nil
}
