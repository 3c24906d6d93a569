package checkout

import (
	"context"
	"fmt"

	"canteen-ordering/internal/domain"
	"canteen-ordering/internal/repository/loyalty"
	"canteen-ordering/internal/repository/order"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
	"go.uber.org/zap"
)

type postgresUoW struct {
	pool   *pgxpool.Pool
	logger *zap.Logger
}

func NewPostgres(pool *pgxpool.Pool, logger *zap.Logger) UnitOfWork {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &postgresUoW{pool: pool, logger: logger}
}

func (u *postgresUoW) Commit(ctx context.Context, email string, fn PlaceFunc) (*domain.Order, *domain.LoyaltyProfile, error) {
	tx, err := u.pool.BeginTx(ctx, pgx.TxOptions{})
	if err != nil {
		return nil, nil, err
	}
	defer tx.Rollback(ctx)

	current, err := loyalty.GetForUpdate(ctx, tx, email)
	if err != nil {
		return nil, nil, fmt.Errorf("lock loyalty profile: %w", err)
	}

	o, next, err := fn(current)
	if err != nil {
		return nil, nil, err
	}
	next.Email = current.Email
	next.Version = current.Version

	if err := order.Insert(ctx, tx, o); err != nil {
		u.logger.Error("checkout: insert order", zap.String("order_id", o.ID), zap.Error(err))
		return nil, nil, err
	}
	version, err := loyalty.Save(ctx, tx, next)
	if err != nil {
		u.logger.Warn("checkout: save loyalty profile", zap.String("email", next.Email), zap.Error(err))
		return nil, nil, err
	}
	next.Version = version

	if err := tx.Commit(ctx); err != nil {
		return nil, nil, err
	}
	u.logger.Info("checkout: committed",
		zap.String("order_id", o.ID),
		zap.String("email", next.Email),
		zap.String("total", o.Total.String()),
		zap.String("points", next.Points.String()))
	return o, &next, nil
}
