// Package sqlite_test contains integration tests for SQLite repositories.
//
// Every test database is built from db.GetSchemaSQL() so tests run against
// the same schema as production.
package sqlite_test

import (
	"database/sql"
	"fmt"
	"testing"

	_ "github.com/mattn/go-sqlite3"
	"github.com/stretchr/testify/require"

	"github.com/example/wardnotes/internal/db"
)

// setupTestDB creates an in-memory database with the authoritative schema.
func setupTestDB(t *testing.T) *sql.DB {
	t.Helper()

	testDB, err := sql.Open("sqlite3", ":memory:")
	require.NoError(t, err)
	// Each pooled connection would otherwise see its own empty database.
	testDB.SetMaxOpenConns(1)

	_, err = testDB.Exec(db.GetSchemaSQL())
	require.NoError(t, err)

	t.Cleanup(func() {
		testDB.Close()
	})

	return testDB
}

// backdate moves an event's timestamp into the past.
func backdate(t *testing.T, testDB *sql.DB, id string, days int) {
	t.Helper()
	_, err := testDB.Exec("UPDATE patient_events SET timestamp = datetime('now', ?) WHERE id = ?", fmt.Sprintf("-%d days", days), id)
	require.NoError(t, err)
}

