// Package dbtest opens a migrated Postgres pool for integration tests.
package dbtest

import (
	"context"
	"os"
	"testing"
	"time"

	"canteen-ordering/internal/migrate"
	"github.com/jackc/pgx/v5/pgxpool"
)

// Pool connects to TEST_DB_DSN and applies migrations. The test is skipped when the
// variable is unset or the database is unreachable.
func Pool(t *testing.T) *pgxpool.Pool {
	t.Helper()
	dsn := os.Getenv("TEST_DB_DSN")
	if dsn == "" {
		t.Skip("TEST_DB_DSN not set")
	}
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	pool, err := pgxpool.New(ctx, dsn)
	if err != nil {
		t.Fatalf("connect db: %v", err)
	}
	if err := pool.Ping(ctx); err != nil {
		pool.Close()
		t.Skipf("db not reachable: %v", err)
	}
	if err := migrate.Apply(ctx, pool); err != nil {
		pool.Close()
		t.Fatalf("apply migrations: %v", err)
	}
	t.Cleanup(pool.Close)
	Reset(t, pool)
	return pool
}

// Reset empties every table.
func Reset(t *testing.T, pool *pgxpool.Pool) {
	t.Helper()
	if _, err := pool.Exec(context.Background(), `TRUNCATE feedback, reviews, orders, loyalty_profiles, menu_items RESTART IDENTITY CASCADE`); err != nil {
		t.Fatalf("truncate tables: %v", err)
	}
}
