package store

// migration holds a single schema migration with its target version and SQL.
type migration struct {
	version int
	sql     string
}

// migrations is the ordered list of schema migrations.
// Each migration's version must be sequential starting from 1.
var migrations = []migration{
	{
		version: 1,
		sql: `
CREATE TABLE IF NOT EXISTS schema_version (
	version INTEGER NOT NULL
);

CREATE TABLE IF NOT EXISTS trains (
	id          TEXT PRIMARY KEY,
	name        TEXT NOT NULL,
	number      TEXT NOT NULL DEFAULT '',
	origin      TEXT NOT NULL DEFAULT '',
	destination TEXT NOT NULL DEFAULT '',
	departure   TEXT NOT NULL DEFAULT '',
	arrival     TEXT NOT NULL DEFAULT '',
	position    INTEGER NOT NULL DEFAULT 0,
	fetched_at  DATETIME NOT NULL DEFAULT CURRENT_TIMESTAMP
);

CREATE INDEX IF NOT EXISTS idx_trains_position ON trains(position);

INSERT INTO schema_version (version) VALUES (1);
`,
	},
	{
		version: 2,
		sql: `
CREATE TABLE IF NOT EXISTS notifications (
	id         TEXT PRIMARY KEY,
	train_id   TEXT NOT NULL DEFAULT '',
	level      TEXT NOT NULL DEFAULT 'info' CHECK(level IN ('success', 'error', 'info')),
	message    TEXT NOT NULL,
	read       INTEGER NOT NULL DEFAULT 0 CHECK(read IN (0, 1)),
	created_at DATETIME NOT NULL DEFAULT CURRENT_TIMESTAMP
);

CREATE INDEX IF NOT EXISTS idx_notifications_read ON notifications(read);
CREATE INDEX IF NOT EXISTS idx_notifications_created ON notifications(created_at);

INSERT INTO schema_version (version) VALUES (2);
`,
	},
}
