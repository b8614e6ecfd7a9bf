package database

import "database/sql"

// Migration represents a single schema migration step.
type Migration struct {
	Version     int
	Description string
	Up          func(tx *sql.Tx) error
}

// migrations is the ordered list of all schema migrations.
// Append new migrations to the end with incrementing Version numbers.
var migrations = []Migration{
	{
		Version:     1,
		Description: "synced users",
		Up: func(tx *sql.Tx) error {
			_, err := tx.Exec(`
CREATE TABLE IF NOT EXISTS synced_users (
    clerk_id TEXT PRIMARY KEY,
    email TEXT NOT NULL,
    full_name TEXT,
    role TEXT NOT NULL DEFAULT 'founder' CHECK(role IN ('founder', 'buyer', 'admin')),
    company_name TEXT,
    backend_id TEXT,
    synced_at TEXT DEFAULT (datetime('now'))
);
`)
			return err
		},
	},
	{
		Version:     2,
		Description: "avatar url and backend id index",
		Up: func(tx *sql.Tx) error {
			_, err := tx.Exec(`
ALTER TABLE synced_users ADD COLUMN avatar_url TEXT;
CREATE INDEX IF NOT EXISTS idx_synced_users_backend ON synced_users(backend_id);
`)
			return err
		},
	},
}

// latestVersion returns the highest migration version number.
func latestVersion() int {
	if len(migrations) == 0 {
		return 0
	}
	return migrations[len(migrations)-1].Version
}
