// Package testdb provides helpers for tests that run against a real
// PostgreSQL database. Tests skip when no database is configured, except in
// CI where a missing database is a failure.
package testdb

import (
	"database/sql"
	"log/slog"
	"os"
	"testing"

	"github.com/phrazzld/scry-review/internal/redact"
)

// Database URL environment variables, checked in order.
const (
	EnvScryTestDatabaseURL = "SCRY_TEST_DATABASE_URL"
	EnvDatabaseURL         = "DATABASE_URL"
)

var ciVariables = []string{"CI", "GITHUB_ACTIONS", "GITLAB_CI", "JENKINS_URL", "CIRCLECI"}

// IsCI reports whether the tests run in a CI environment.
func IsCI() bool {
	for _, name := range ciVariables {
		if os.Getenv(name) != "" {
			return true
		}
	}
	return false
}

// LookupDatabaseURL returns the first configured test database URL.
func LookupDatabaseURL() (string, bool) {
	for _, name := range []string{EnvScryTestDatabaseURL, EnvDatabaseURL} {
		if url := os.Getenv(name); url != "" {
			return url, true
		}
	}
	return "", false
}

// DatabaseURL returns the test database URL, skipping t when none is set.
// In CI a missing URL fails the test instead.
func DatabaseURL(t testing.TB) string {
	t.Helper()

	url, ok := LookupDatabaseURL()
	if !ok {
		if IsCI() {
			t.Fatalf("no test database configured; set %s", EnvScryTestDatabaseURL)
		}
		t.Skipf("%s not set, skipping database test", EnvScryTestDatabaseURL)
	}

	slog.Debug("using test database", slog.String("url", redact.String(url)))
	return url
}

// WithTx runs fn inside a transaction that is always rolled back, so tests
// leave no data behind and can run in parallel.
func WithTx(t testing.TB, db *sql.DB, fn func(tx *sql.Tx)) {
	t.Helper()

	tx, err := db.Begin()
	if err != nil {
		t.Fatalf("failed to begin transaction: %v", err)
	}
	defer func() {
		if err := tx.Rollback(); err != nil && err != sql.ErrTxDone {
			t.Errorf("failed to roll back transaction: %v", err)
		}
	}()

	fn(tx)
}
