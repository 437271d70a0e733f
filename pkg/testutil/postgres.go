package testutil

import (
	"context"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/testcontainers/testcontainers-go"
	"github.com/testcontainers/testcontainers-go/modules/postgres"
	"github.com/testcontainers/testcontainers-go/wait"

	pkgpg "github.com/sanjanarawald/CreditApprovalSystem/pkg/postgres"
)

// PostgresDB is a disposable database backed by a container. The container
// and pool are released when the test ends.
type PostgresDB struct {
	DSN  string
	Pool *pgxpool.Pool
}

// StartPostgres runs PostgreSQL 16 and connects a pool to it.
func StartPostgres(ctx context.Context, t testing.TB) *PostgresDB {
	t.Helper()

	c, err := postgres.Run(ctx,
		"postgres:16-alpine",
		postgres.WithDatabase("creditdb"),
		postgres.WithUsername("credit"),
		postgres.WithPassword("credit"),
		testcontainers.WithWaitStrategy(
			wait.ForLog("database system is ready to accept connections").
				WithOccurrence(2).
				WithStartupTimeout(30*time.Second),
		),
	)
	if err != nil {
		t.Fatalf("start postgres: %v", err)
	}
	terminateOnCleanup(t, "postgres", c)

	dsn, err := c.ConnectionString(ctx, "sslmode=disable")
	if err != nil {
		t.Fatalf("postgres dsn: %v", err)
	}
	pool, err := pkgpg.NewPoolFromDSN(ctx, dsn, 8, 0)
	if err != nil {
		t.Fatalf("postgres pool: %v", err)
	}
	t.Cleanup(pool.Close)

	return &PostgresDB{DSN: dsn, Pool: pool}
}

// Migrate applies every up migration in dir.
func (db *PostgresDB) Migrate(t testing.TB, dir string) {
	t.Helper()

	abs, err := filepath.Abs(dir)
	if err != nil {
		t.Fatalf("resolve migrations %s: %v", dir, err)
	}
	if err := pkgpg.RunMigrations(db.DSN, "file://"+filepath.ToSlash(abs)); err != nil {
		t.Fatalf("migrate: %v", err)
	}
}

// Truncate empties tables, cascading to dependants and restarting IDs.
func (db *PostgresDB) Truncate(t testing.TB, tables ...string) {
	t.Helper()

	stmt := "TRUNCATE TABLE " + strings.Join(tables, ", ") + " RESTART IDENTITY CASCADE"
	if _, err := db.Pool.Exec(context.Background(), stmt); err != nil {
		t.Fatalf("truncate %v: %v", tables, err)
	}
}
