package feedback

import (
	"context"
	"errors"

	"canteen-ordering/internal/domain"
	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
	"go.uber.org/zap"
)

const columns = `id::text, name, email, kind, message, status, created_at`

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

func (r *postgresRepo) Create(ctx context.Context, f domain.Feedback) (*domain.Feedback, error) {
	const q = `
INSERT INTO feedback (name, email, kind, message, status)
VALUES ($1, $2, $3, $4, $5)
RETURNING id::text, created_at
`
	if f.Status == "" {
		f.Status = domain.FeedbackNew
	}
	res := f
	if err := r.pool.QueryRow(ctx, q, f.Name, f.Email, string(f.Kind), f.Message, string(f.Status)).Scan(&res.ID, &res.CreatedAt); err != nil {
		r.logger.Error("feedback repo: create", zap.String("kind", string(f.Kind)), zap.Error(err))
		return nil, err
	}
	r.logger.Debug("feedback repo: created", zap.String("id", res.ID))
	return &res, nil
}

func (r *postgresRepo) List(ctx context.Context, status domain.FeedbackStatus) ([]domain.Feedback, error) {
	q := `SELECT ` + columns + ` FROM feedback`
	var args []any
	if status != "" {
		q += ` WHERE status = $1`
		args = append(args, string(status))
	}
	q += ` ORDER BY created_at DESC, id`

	rows, err := r.pool.Query(ctx, q, args...)
	if err != nil {
		r.logger.Error("feedback repo: list", zap.String("status", string(status)), zap.Error(err))
		return nil, err
	}
	defer rows.Close()

	var out []domain.Feedback
	for rows.Next() {
		f, err := scan(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, *f)
	}
	return out, rows.Err()
}

func (r *postgresRepo) SetStatus(ctx context.Context, id string, status domain.FeedbackStatus) (*domain.Feedback, error) {
	if _, err := uuid.Parse(id); err != nil {
		return nil, domain.ErrNotFound
	}
	q := `UPDATE feedback SET status = $2 WHERE id = $1 RETURNING ` + columns
	f, err := scan(r.pool.QueryRow(ctx, q, id, string(status)))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, domain.ErrNotFound
		}
		r.logger.Error("feedback repo: set status", zap.String("id", id), zap.Error(err))
		return nil, err
	}
	return f, nil
}

func scan(row pgx.Row) (*domain.Feedback, error) {
	var (
		f            domain.Feedback
		kind, status string
	)
	if err := row.Scan(&f.ID, &f.Name, &f.Email, &kind, &f.Message, &status, &f.CreatedAt); err != nil {
		return nil, err
	}
	f.Kind = domain.FeedbackKind(kind)
	f.Status = domain.FeedbackStatus(status)
	return &f, nil
}
