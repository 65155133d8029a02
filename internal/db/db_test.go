package db

import (
	"database/sql"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/require"
)

func TestOpen_FreshDatabase(t *testing.T) {
	path := filepath.Join(t.TempDir(), "state", "wardnotes.db")

	conn, err := Open(path)
	require.NoError(t, err)
	defer conn.Close()

	v, err := CurrentVersion(conn)
	require.NoError(t, err)
	require.Equal(t, len(migrations), v)

	_, err = conn.Exec("INSERT INTO patient_events (id, patient_id, list_date, action) VALUES ('PE-0001', '123', '2024-03-15', 'create')")
	require.NoError(t, err)
}

func TestOpen_Reopen(t *testing.T) {
	path := filepath.Join(t.TempDir(), "wardnotes.db")

	conn, err := Open(path)
	require.NoError(t, err)
	require.NoError(t, conn.Close())

	conn, err = Open(path)
	require.NoError(t, err)
	defer conn.Close()

	var rows int
	require.NoError(t, conn.QueryRow("SELECT COUNT(*) FROM schema_version").Scan(&rows))
	require.Equal(t, len(migrations), rows)
}

func TestRunMigrations_UpgradesV1Database(t *testing.T) {
	conn, err := sql.Open("sqlite3", ":memory:")
	require.NoError(t, err)
	conn.SetMaxOpenConns(1)
	defer conn.Close()

	// Simulate a database that only ever saw the first migration.
	_, err = conn.Exec(schemaVersionSQL)
	require.NoError(t, err)
	tx, err := conn.Begin()
	require.NoError(t, err)
	require.NoError(t, migrationV1(tx))
	require.NoError(t, tx.Commit())
	_, err = conn.Exec("INSERT INTO schema_version (version) VALUES (1)")
	require.NoError(t, err)
	_, err = conn.Exec("INSERT INTO patient_events (id, patient_id, action) VALUES ('PE-0001', '123', 'create')")
	require.NoError(t, err)

	require.NoError(t, InitSchema(conn))

	v, err := CurrentVersion(conn)
	require.NoError(t, err)
	require.Equal(t, 2, v)

	var listDate sql.NullString
	require.NoError(t, conn.QueryRow("SELECT list_date FROM patient_events WHERE id = 'PE-0001'").Scan(&listDate))
	require.False(t, listDate.Valid)
}

func TestGetDBPath_HonoursHomeEnv(t *testing.T) {
	dir := t.TempDir()
	t.Setenv(HomeEnv, dir)

	path, err := GetDBPath()
	require.NoError(t, err)
	require.Equal(t, filepath.Join(dir, "wardnotes.db"), path)
}

func TestSchemaRejectsUnknownAction(t *testing.T) {
	conn, err := sql.Open("sqlite3", ":memory:")
	require.NoError(t, err)
	defer conn.Close()

	_, err = conn.Exec(GetSchemaSQL())
	require.NoError(t, err)

	_, err = conn.Exec("INSERT INTO patient_events (id, patient_id, action) VALUES ('PE-0001', '123', 'delete')")
	require.Error(t, err)
}
