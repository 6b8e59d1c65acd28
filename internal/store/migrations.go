package store

import "fmt"

// currentSchemaVersion is the latest schema version.
const currentSchemaVersion = 1

// Migrate runs forward migrations to bring the database schema up to date.
func (db *DB) Migrate() error {
	if _, err := db.conn.Exec(`
		CREATE TABLE IF NOT EXISTS schema_version (
			version INTEGER NOT NULL
		)
	`); err != nil {
		return fmt.Errorf("creating schema_version table: %w", err)
	}

	version := 0
	row := db.conn.QueryRow("SELECT version FROM schema_version LIMIT 1")
	if err := row.Scan(&version); err != nil {
		// No rows means version 0 (fresh database).
		version = 0
	}

	if version < 1 {
		if err := db.migrateV1(); err != nil {
			return fmt.Errorf("migration v1: %w", err)
		}
	}

	return nil
}

// migrateV1 creates all initial tables and indexes.
func (db *DB) migrateV1() error {
	statements := []string{
		`CREATE TABLE IF NOT EXISTS subjects (
			id             TEXT PRIMARY KEY,
			company_id     TEXT NOT NULL DEFAULT '',
			department     TEXT NOT NULL DEFAULT '',
			country        TEXT NOT NULL DEFAULT '',
			ethnicity      TEXT NOT NULL DEFAULT '',
			gender         TEXT NOT NULL DEFAULT '',
			date_of_birth  TEXT NOT NULL DEFAULT '',
			account_status TEXT NOT NULL DEFAULT 'active'
		)`,

		`CREATE TABLE IF NOT EXISTS org_members (
			company_id TEXT NOT NULL,
			subject_id TEXT NOT NULL REFERENCES subjects(id),
			PRIMARY KEY (company_id, subject_id)
		)`,

		`CREATE TABLE IF NOT EXISTS mood_records (
			id          TEXT PRIMARY KEY,
			subject_id  TEXT NOT NULL REFERENCES subjects(id),
			taxonomy_id TEXT NOT NULL,
			recorded_at INTEGER NOT NULL,
			scores      TEXT NOT NULL,
			deleted     BOOLEAN NOT NULL DEFAULT false
		)`,

		`CREATE INDEX IF NOT EXISTS idx_mood_records_window
			ON mood_records(taxonomy_id, recorded_at)`,

		`CREATE TABLE IF NOT EXISTS sentiment_tallies (
			id          TEXT PRIMARY KEY,
			subject_id  TEXT NOT NULL REFERENCES subjects(id),
			source      TEXT NOT NULL,
			recorded_at INTEGER NOT NULL,
			positive    TEXT NOT NULL,
			negative    TEXT NOT NULL
		)`,

		`CREATE INDEX IF NOT EXISTS idx_sentiment_tallies_window
			ON sentiment_tallies(source, recorded_at)`,
	}

	for _, stmt := range statements {
		if _, err := db.conn.Exec(stmt); err != nil {
			return err
		}
	}

	if _, err := db.conn.Exec("DELETE FROM schema_version"); err != nil {
		return err
	}
	_, err := db.conn.Exec("INSERT INTO schema_version (version) VALUES (?)", currentSchemaVersion)
	return err
}
