package order

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"

	"canteen-ordering/internal/db"
	"canteen-ordering/internal/domain"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/shopspring/decimal"
	"go.uber.org/zap"
)

// DocumentSchemaVersion tags the JSONB order document layout.
const DocumentSchemaVersion = 1

type document struct {
	SchemaVersion int `json:"schemaVersion"`
	domain.Order
}

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

// Insert stores a new order through q, which may be a pool or an open transaction.
func Insert(ctx context.Context, q db.Querier, o *domain.Order) error {
	doc, err := json.Marshal(document{SchemaVersion: DocumentSchemaVersion, Order: *o})
	if err != nil {
		return fmt.Errorf("encode order %s: %w", o.ID, err)
	}
	const stmt = `
INSERT INTO orders (id, email, status, total, version, placed_at, document)
VALUES ($1, $2, $3, $4::numeric, $5, $6, $7)
`
	if _, err := q.Exec(ctx, stmt, o.ID, o.Email, string(o.Status), o.Total.String(), o.Version, o.PlacedAt, doc); err != nil {
		var pgErr *pgconn.PgError
		if errors.As(err, &pgErr) && pgErr.Code == "23505" {
			return domain.ErrAlreadyExists
		}
		return err
	}
	return nil
}

func (r *postgresRepo) Get(ctx context.Context, id string) (*domain.Order, error) {
	const q = `SELECT document, status, version FROM orders WHERE id = $1`
	o, err := scanOrder(r.pool.QueryRow(ctx, q, id))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, domain.ErrNotFound
		}
		r.logger.Error("order repo: get", zap.String("id", id), zap.Error(err))
		return nil, err
	}
	return o, nil
}

func (r *postgresRepo) ListByEmail(ctx context.Context, email string) ([]domain.Order, error) {
	const q = `
SELECT document, status, version FROM orders
WHERE email = lower($1)
ORDER BY placed_at DESC, id DESC
`
	return r.list(ctx, "list by email", q, email)
}

func (r *postgresRepo) ListByStatus(ctx context.Context, statuses ...domain.Status) ([]domain.Order, error) {
	if len(statuses) == 0 {
		return nil, nil
	}
	names := make([]string, len(statuses))
	for i, s := range statuses {
		names[i] = string(s)
	}
	const q = `
SELECT document, status, version FROM orders
WHERE status = ANY($1)
ORDER BY placed_at, id
`
	return r.list(ctx, "list by status", q, names)
}

func (r *postgresRepo) ListRecent(ctx context.Context, limit int) ([]domain.Order, error) {
	if limit <= 0 {
		return nil, nil
	}
	const q = `SELECT document, status, version FROM orders ORDER BY placed_at DESC, id DESC LIMIT $1`
	return r.list(ctx, "list recent", q, limit)
}

func (r *postgresRepo) Summary(ctx context.Context) (Summary, error) {
	const totalsQ = `SELECT COALESCE(SUM(total), 0)::text, COUNT(*), COUNT(DISTINCT email) FROM orders`
	var (
		revenue string
		sum     = Summary{StatusCounts: make(map[domain.Status]int)}
	)
	if err := r.pool.QueryRow(ctx, totalsQ).Scan(&revenue, &sum.Orders, &sum.Customers); err != nil {
		r.logger.Error("order repo: summary", zap.Error(err))
		return Summary{}, err
	}
	d, err := decimal.NewFromString(revenue)
	if err != nil {
		return Summary{}, err
	}
	sum.Revenue = d

	for _, st := range domain.Statuses() {
		sum.StatusCounts[st] = 0
	}
	rows, err := r.pool.Query(ctx, `SELECT status, COUNT(*) FROM orders GROUP BY status`)
	if err != nil {
		r.logger.Error("order repo: status counts", zap.Error(err))
		return Summary{}, err
	}
	defer rows.Close()
	for rows.Next() {
		var (
			status string
			n      int
		)
		if err := rows.Scan(&status, &n); err != nil {
			return Summary{}, err
		}
		sum.StatusCounts[domain.Status(status)] = n
	}
	return sum, rows.Err()
}

func (r *postgresRepo) TopItems(ctx context.Context, limit int) ([]ItemSales, error) {
	if limit <= 0 {
		return nil, nil
	}
	const q = `
SELECT line->'item'->>'id' AS item_id,
       (array_agg(line->'item'->>'name' ORDER BY o.placed_at DESC))[1],
       SUM((line->>'qty')::int) AS quantity,
       SUM((line->'item'->>'price')::numeric * (line->>'qty')::int)::text
FROM orders o, jsonb_array_elements(o.document->'items') AS line
GROUP BY item_id
ORDER BY quantity DESC, item_id
LIMIT $1
`
	rows, err := r.pool.Query(ctx, q, limit)
	if err != nil {
		r.logger.Error("order repo: top items", zap.Error(err))
		return nil, err
	}
	defer rows.Close()

	var out []ItemSales
	for rows.Next() {
		var (
			s       ItemSales
			qty     int64
			revenue string
		)
		if err := rows.Scan(&s.ItemID, &s.Name, &qty, &revenue); err != nil {
			return nil, err
		}
		d, err := decimal.NewFromString(revenue)
		if err != nil {
			return nil, fmt.Errorf("item %s revenue: %w", s.ItemID, err)
		}
		s.Quantity = int(qty)
		s.Revenue = d
		out = append(out, s)
	}
	return out, rows.Err()
}

func (r *postgresRepo) UpdateStatus(ctx context.Context, id string, from, to domain.Status) (*domain.Order, error) {
	const q = `
UPDATE orders
SET status = $3,
    version = version + 1,
    document = jsonb_set(jsonb_set(document, '{status}', to_jsonb($3::text)), '{version}', to_jsonb(version + 1))
WHERE id = $1 AND status = $2
RETURNING document, status, version
`
	o, err := scanOrder(r.pool.QueryRow(ctx, q, id, string(from), string(to)))
	if err == nil {
		r.logger.Info("order repo: status updated", zap.String("id", id), zap.String("from", string(from)), zap.String("to", string(to)))
		return o, nil
	}
	if !errors.Is(err, pgx.ErrNoRows) {
		r.logger.Error("order repo: update status", zap.String("id", id), zap.Error(err))
		return nil, err
	}

	var exists bool
	if err := r.pool.QueryRow(ctx, `SELECT EXISTS (SELECT 1 FROM orders WHERE id = $1)`, id).Scan(&exists); err != nil {
		return nil, err
	}
	if !exists {
		return nil, domain.ErrNotFound
	}
	r.logger.Warn("order repo: status changed concurrently", zap.String("id", id), zap.String("expected", string(from)))
	return nil, fmt.Errorf("%w: order %s is no longer %s", domain.ErrConflict, id, from)
}

func (r *postgresRepo) list(ctx context.Context, op, q string, args ...any) ([]domain.Order, error) {
	rows, err := r.pool.Query(ctx, q, args...)
	if err != nil {
		r.logger.Error("order repo: "+op, zap.Error(err))
		return nil, err
	}
	defer rows.Close()

	var out []domain.Order
	for rows.Next() {
		o, err := scanOrder(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, *o)
	}
	if err := rows.Err(); err != nil {
		r.logger.Error("order repo: "+op+" rows", zap.Error(err))
		return nil, err
	}
	return out, nil
}

func scanOrder(row pgx.Row) (*domain.Order, error) {
	var (
		raw     []byte
		status  string
		version int64
	)
	if err := row.Scan(&raw, &status, &version); err != nil {
		return nil, err
	}
	var doc document
	if err := json.Unmarshal(raw, &doc); err != nil {
		return nil, fmt.Errorf("decode order document: %w", err)
	}
	if doc.SchemaVersion != DocumentSchemaVersion {
		return nil, fmt.Errorf("order %s: unsupported document schema version %d", doc.ID, doc.SchemaVersion)
	}
	o := doc.Order
	o.Status = domain.Status(status)
	o.Version = version
	return &o, nil
}
