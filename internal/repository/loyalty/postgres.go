package loyalty

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"canteen-ordering/internal/db"
	"canteen-ordering/internal/domain"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/shopspring/decimal"
	"go.uber.org/zap"
)

const selectProfile = `
SELECT email, name, phone, points::text, total_orders, version, updated_at
FROM loyalty_profiles
WHERE email = $1
`

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

func (r *postgresRepo) Get(ctx context.Context, email string) (*domain.LoyaltyProfile, error) {
	p, err := scanProfile(r.pool.QueryRow(ctx, selectProfile, normalize(email)))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, domain.ErrNotFound
		}
		r.logger.Error("loyalty repo: get", zap.String("email", email), zap.Error(err))
		return nil, err
	}
	return p, nil
}

// GetForUpdate locks the profile row for the rest of tx. A missing row yields a zero
// profile with Version 0.
func GetForUpdate(ctx context.Context, tx pgx.Tx, email string) (domain.LoyaltyProfile, error) {
	key := normalize(email)
	p, err := scanProfile(tx.QueryRow(ctx, selectProfile+"FOR UPDATE", key))
	if errors.Is(err, pgx.ErrNoRows) {
		return domain.LoyaltyProfile{Email: key, Points: decimal.Zero}, nil
	}
	if err != nil {
		return domain.LoyaltyProfile{}, err
	}
	return *p, nil
}

// Save writes p if the stored version still equals p.Version and returns the new version.
// A concurrent writer makes it fail with domain.ErrConflict.
func Save(ctx context.Context, q db.Querier, p domain.LoyaltyProfile) (int64, error) {
	if p.Points.IsNegative() {
		return 0, fmt.Errorf("loyalty repo: negative balance for %s", p.Email)
	}
	const stmt = `
INSERT INTO loyalty_profiles (email, name, phone, points, total_orders, version, updated_at)
VALUES ($1, $2, $3, $4::numeric, $5, $6::bigint + 1, $7)
ON CONFLICT (email) DO UPDATE SET
    name = EXCLUDED.name,
    phone = EXCLUDED.phone,
    points = EXCLUDED.points,
    total_orders = EXCLUDED.total_orders,
    version = EXCLUDED.version,
    updated_at = EXCLUDED.updated_at
WHERE loyalty_profiles.version = $6::bigint
`
	tag, err := q.Exec(ctx, stmt, normalize(p.Email), p.Name, p.Phone, p.Points.String(), p.TotalOrders, p.Version, p.UpdatedAt)
	if err != nil {
		return 0, err
	}
	if tag.RowsAffected() == 0 {
		return 0, fmt.Errorf("%w: loyalty profile %s changed since version %d", domain.ErrConflict, p.Email, p.Version)
	}
	return p.Version + 1, nil
}

func scanProfile(row pgx.Row) (*domain.LoyaltyProfile, error) {
	var (
		p      domain.LoyaltyProfile
		points string
	)
	if err := row.Scan(&p.Email, &p.Name, &p.Phone, &points, &p.TotalOrders, &p.Version, &p.UpdatedAt); err != nil {
		return nil, err
	}
	d, err := decimal.NewFromString(points)
	if err != nil {
		return nil, fmt.Errorf("loyalty repo: points for %s: %w", p.Email, err)
	}
	p.Points = d
	return &p, nil
}

func normalize(email string) string {
	return strings.ToLower(strings.TrimSpace(email))
}
