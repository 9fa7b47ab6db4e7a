// ABOUTME: Database schema definitions and migrations
// ABOUTME: Handles SQLite table creation and initialization
package db

import (
	"database/sql"
)

const schema = `
CREATE TABLE IF NOT EXISTS contacts (
	id TEXT PRIMARY KEY,
	external_id TEXT,
	first_name TEXT,
	last_name TEXT,
	email TEXT,
	phone TEXT,
	birth_date DATE,
	mailing_street TEXT,
	mailing_city TEXT,
	mailing_state TEXT,
	mailing_postal_code TEXT,
	mailing_country TEXT,
	last_synced_at DATETIME,
	created_at DATETIME NOT NULL,
	updated_at DATETIME NOT NULL
);

CREATE INDEX IF NOT EXISTS idx_contacts_external_id ON contacts(external_id);
CREATE INDEX IF NOT EXISTS idx_contacts_email ON contacts(email);

CREATE TABLE IF NOT EXISTS sync_state (
	service TEXT PRIMARY KEY,
	last_sync_time DATETIME,
	status TEXT CHECK(status IN ('idle', 'syncing', 'error')),
	error_message TEXT,
	created_at DATETIME NOT NULL DEFAULT CURRENT_TIMESTAMP,
	updated_at DATETIME NOT NULL DEFAULT CURRENT_TIMESTAMP
);

CREATE TABLE IF NOT EXISTS sync_log (
	id TEXT PRIMARY KEY,
	operation TEXT NOT NULL CHECK(operation IN ('pull', 'push')),
	external_id TEXT,
	contact_id TEXT NOT NULL,
	synced_at DATETIME NOT NULL DEFAULT CURRENT_TIMESTAMP,
	metadata TEXT
);

CREATE INDEX IF NOT EXISTS idx_sync_log_contact ON sync_log(contact_id);
CREATE INDEX IF NOT EXISTS idx_sync_log_synced_at ON sync_log(synced_at DESC);
`

func InitSchema(db *sql.DB) error {
	_, err := db.Exec(schema)
	return err
}
