// Package crafttest verifies generated DDL against a live database.
//
// The harness is meant for extension test suites: point it at a
// throwaway database, apply the generated script and let the engine be
// the judge of the emitted SQL. Apply commits, Check rolls the
// transaction back so repeated runs start clean.
package crafttest

import (
	"context"
	"database/sql"
	"fmt"
	"log/slog"
	"strings"
	"testing"

	_ "github.com/lib/pq"
)

// Open connects to the database named by dsn with the postgres driver
// and verifies the connection before returning it.
func Open(ctx context.Context, dsn string) (*sql.DB, error) {
	db, err := sql.Open("postgres", dsn)
	if err != nil {
		return nil, fmt.Errorf("crafttest: open: %w", err)
	}
	if err := db.PingContext(ctx); err != nil {
		db.Close()
		return nil, fmt.Errorf("crafttest: ping: %w", err)
	}
	return db, nil
}

// Apply executes the script statements inside one transaction and
// commits. Pure comment blocks (the script header) are skipped.
func Apply(ctx context.Context, db *sql.DB, statements []string) error {
	return run(ctx, db, statements, true)
}

// Check executes the statements like Apply but rolls the transaction
// back, leaving the database untouched.
func Check(ctx context.Context, db *sql.DB, statements []string) error {
	return run(ctx, db, statements, false)
}

func run(ctx context.Context, db *sql.DB, statements []string, commit bool) error {
	tx, err := db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("crafttest: begin: %w", err)
	}
	for i, stmt := range statements {
		if strings.HasPrefix(strings.TrimSpace(stmt), "/*") {
			continue
		}
		if _, err := tx.ExecContext(ctx, stmt); err != nil {
			_ = tx.Rollback()
			return fmt.Errorf("crafttest: statement %d: %w", i, err)
		}
	}
	if !commit {
		return tx.Rollback()
	}
	return tx.Commit()
}

// NewTestLogger returns a logger that writes to t.Log().
// Logs only appear on test failure or when running with -v.
func NewTestLogger(t testing.TB) *slog.Logger {
	t.Helper()
	return slog.New(slog.NewTextHandler(testWriter{t}, &slog.HandlerOptions{
		Level: slog.LevelDebug,
	}))
}

type testWriter struct {
	t testing.TB
}

func (w testWriter) Write(p []byte) (n int, err error) {
	w.t.Helper()
	w.t.Log(string(p))
	return len(p), nil
}
