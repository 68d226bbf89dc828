package store

// migration is a single schema version step.
type migration struct {
	version int
	sql     string
}

// migrations are applied in order; each runs at most once per database.
var migrations = []migration{
	{
		version: 1,
		sql: `
			CREATE TABLE IF NOT EXISTS schema_version (
				version INTEGER PRIMARY KEY
			);

			CREATE TABLE IF NOT EXISTS postings (
				id            TEXT PRIMARY KEY,
				kind          TEXT NOT NULL,
				owner_id      TEXT NOT NULL DEFAULT '',
				owner_name    TEXT NOT NULL DEFAULT '',
				title         TEXT NOT NULL DEFAULT '',
				description   TEXT NOT NULL DEFAULT '',
				location      TEXT NOT NULL DEFAULT '',
				salary_range  TEXT NOT NULL DEFAULT '',
				job_type      TEXT NOT NULL DEFAULT '',
				requirements  TEXT NOT NULL DEFAULT '[]',
				faculty       TEXT NOT NULL DEFAULT '',
				duration      TEXT NOT NULL DEFAULT '',
				study_level   TEXT NOT NULL DEFAULT '',
				deadline      TIMESTAMP,
				status        TEXT NOT NULL DEFAULT 'active',
				created_at    TIMESTAMP
			);
			CREATE INDEX IF NOT EXISTS idx_postings_kind ON postings(kind);

			CREATE TABLE IF NOT EXISTS applications (
				id             TEXT PRIMARY KEY,
				posting_id     TEXT NOT NULL DEFAULT '',
				applicant_id   TEXT NOT NULL DEFAULT '',
				applicant_name TEXT NOT NULL DEFAULT '',
				status         TEXT NOT NULL DEFAULT 'pending',
				applied_at     TIMESTAMP,
				cover_letter   TEXT NOT NULL DEFAULT '',
				posting_title  TEXT NOT NULL DEFAULT '',
				owner_name     TEXT NOT NULL DEFAULT ''
			);

			CREATE TABLE IF NOT EXISTS notifications (
				id         TEXT PRIMARY KEY,
				title      TEXT NOT NULL DEFAULT '',
				message    TEXT NOT NULL DEFAULT '',
				read       INTEGER NOT NULL DEFAULT 0,
				created_at TIMESTAMP
			);

			INSERT INTO schema_version (version) VALUES (1);
		`,
	},
}
