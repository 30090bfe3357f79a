package storage

// Schema defines the archive table; it is valid for both SQLite and PostgreSQL
const Schema = `
CREATE TABLE IF NOT EXISTS archives (
	archive_id TEXT PRIMARY KEY,
	created_at TIMESTAMP NOT NULL,
	saved_at TIMESTAMP NOT NULL,
	step_count INTEGER NOT NULL DEFAULT 0,
	color_to_move TEXT NOT NULL CHECK(color_to_move IN ('w', 'b')),
	fen TEXT NOT NULL,
	document TEXT NOT NULL
);

CREATE INDEX IF NOT EXISTS idx_archives_saved_at ON archives(saved_at);
`
