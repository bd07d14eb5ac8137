// Package testutil provides shared helpers for integration tests.
// Helpers skip the calling test when TEST_DATABASE_URL is not set, so unit
// tests run without a database.
package testutil

import (
	"context"
	"database/sql"
	"os"
	"strings"
	"testing"

	"github.com/google/uuid"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/jackc/pgx/v5/stdlib" // also registers the "pgx" driver for database/sql

	"github.com/pkordes/places-api/migrations"
)

// EnvDatabaseURL names the environment variable holding the test database DSN.
const EnvDatabaseURL = "TEST_DATABASE_URL"

// NewPool opens a *pgxpool.Pool against TEST_DATABASE_URL.
// The pool is closed when the test and its subtests finish.
func NewPool(t *testing.T) *pgxpool.Pool {
	t.Helper()

	pool, err := pgxpool.New(context.Background(), requireDSN(t))
	if err != nil {
		t.Fatalf("testutil.NewPool: open pool: %v", err)
	}
	if err := pool.Ping(context.Background()); err != nil {
		pool.Close()
		t.Fatalf("testutil.NewPool: ping: %v", err)
	}

	t.Cleanup(pool.Close)
	return pool
}

// NewTx begins a transaction on a fresh pool and rolls it back when the test
// finishes, so every write the test makes is discarded.
func NewTx(t *testing.T) pgx.Tx {
	t.Helper()
	pool := NewPool(t)

	tx, err := pool.Begin(context.Background())
	if err != nil {
		t.Fatalf("testutil.NewTx: begin: %v", err)
	}
	t.Cleanup(func() {
		_ = tx.Rollback(context.Background())
	})
	return tx
}

// NewSQLDB opens a *sql.DB against TEST_DATABASE_URL using the pgx
// database/sql driver, for goose. Closed when the test finishes.
func NewSQLDB(t *testing.T) *sql.DB {
	t.Helper()

	db, err := sql.Open("pgx", requireDSN(t))
	if err != nil {
		t.Fatalf("testutil.NewSQLDB: open: %v", err)
	}
	if err := db.PingContext(context.Background()); err != nil {
		db.Close()
		t.Fatalf("testutil.NewSQLDB: ping: %v", err)
	}

	t.Cleanup(func() { db.Close() })
	return db
}

// NewIsolatedSQLDB creates a throwaway schema and returns a *sql.DB whose
// connections resolve unqualified names there first (then public, where the
// PostGIS functions live). Tests that drop tables use it so they cannot race
// other packages sharing the database. The schema is dropped on cleanup.
func NewIsolatedSQLDB(t *testing.T) (*sql.DB, string) {
	t.Helper()
	dsn := requireDSN(t)

	schema := "test_" + strings.ReplaceAll(uuid.NewString(), "-", "")
	admin := NewSQLDB(t)
	// PostGIS must stay in public; otherwise the first migration would install
	// it into the throwaway schema and the cascade drop would take it along.
	for _, stmt := range []string{
		"CREATE EXTENSION IF NOT EXISTS postgis SCHEMA public",
		"CREATE SCHEMA " + schema,
	} {
		if _, err := admin.ExecContext(context.Background(), stmt); err != nil {
			t.Fatalf("testutil.NewIsolatedSQLDB: %s: %v", stmt, err)
		}
	}

	connCfg, err := pgx.ParseConfig(dsn)
	if err != nil {
		t.Fatalf("testutil.NewIsolatedSQLDB: parse dsn: %v", err)
	}
	connCfg.RuntimeParams["search_path"] = schema + ",public"
	db := stdlib.OpenDB(*connCfg)

	// Registered after admin's Close, so this runs first.
	t.Cleanup(func() {
		db.Close()
		_, _ = admin.ExecContext(context.Background(), "DROP SCHEMA "+schema+" CASCADE")
	})
	return db, schema
}

// MustMigrate applies all migrations to dsn and panics on any error.
// Use it from TestMain, where no *testing.T is available.
func MustMigrate(dsn string) {
	db, err := sql.Open("pgx", dsn)
	if err != nil {
		panic("testutil.MustMigrate: open: " + err.Error())
	}
	defer db.Close()

	if _, err := migrations.Up(context.Background(), db); err != nil {
		panic("testutil.MustMigrate: " + err.Error())
	}
}

// requireDSN returns TEST_DATABASE_URL, skipping the test if it is not set.
func requireDSN(t *testing.T) string {
	t.Helper()
	dsn := os.Getenv(EnvDatabaseURL)
	if dsn == "" {
		t.Skip(EnvDatabaseURL + " not set; skipping integration test")
	}
	return dsn
}
