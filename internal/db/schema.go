package db

import (
	"database/sql"
	"fmt"
)

// SchemaSQL is the complete, current schema. Fresh databases are created from
// it directly; existing ones reach it through migrations.
const SchemaSQL = `
-- Patient events (audit trail of list changes)
CREATE TABLE IF NOT EXISTS patient_events (
	id TEXT PRIMARY KEY,
	timestamp DATETIME DEFAULT CURRENT_TIMESTAMP,
	actor_id TEXT,
	patient_id TEXT NOT NULL,
	list_date TEXT,
	action TEXT NOT NULL CHECK(action IN ('create', 'update', 'remove', 'merge', 'import')),
	field_name TEXT,
	old_value TEXT,
	new_value TEXT,
	created_at DATETIME DEFAULT CURRENT_TIMESTAMP
);

CREATE INDEX IF NOT EXISTS idx_patient_events_patient ON patient_events(patient_id);
CREATE INDEX IF NOT EXISTS idx_patient_events_timestamp ON patient_events(timestamp);
CREATE INDEX IF NOT EXISTS idx_patient_events_list_date ON patient_events(list_date);
`

const schemaVersionSQL = `
CREATE TABLE IF NOT EXISTS schema_version (
	version INTEGER PRIMARY KEY,
	applied_at DATETIME DEFAULT CURRENT_TIMESTAMP
)`

// InitSchema brings conn up to the current schema.
func InitSchema(conn *sql.DB) error {
	var tableCount int
	err := conn.QueryRow("SELECT COUNT(*) FROM sqlite_master WHERE type='table' AND name='schema_version'").Scan(&tableCount)
	if err != nil {
		return err
	}

	if tableCount > 0 {
		return RunMigrations(conn)
	}

	// Fresh install: create the modern schema and mark every migration applied.
	if _, err := conn.Exec(SchemaSQL); err != nil {
		return fmt.Errorf("failed to create schema: %w", err)
	}
	if _, err := conn.Exec(schemaVersionSQL); err != nil {
		return fmt.Errorf("failed to create schema_version table: %w", err)
	}
	for _, m := range migrations {
		if _, err := conn.Exec("INSERT INTO schema_version (version) VALUES (?)", m.Version); err != nil {
			return fmt.Errorf("failed to record migration %d: %w", m.Version, err)
		}
	}
	return nil
}

// GetSchemaSQL returns the authoritative schema SQL for use by tests.
// Tests should use this instead of hardcoding their own schema to prevent drift.
func GetSchemaSQL() string {
	return SchemaSQL
}
