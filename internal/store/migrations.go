package store

// migration holds a single schema migration with its target version and SQL.
type migration struct {
	version int
	sql     string
}

// migrations is the ordered list of schema migrations.
// Each migration's version must be sequential starting from 1.
//
// Ownership foreign keys carry no ON DELETE action: descendants are removed
// explicitly by the cascade, and the constraint rejects deleting a parent
// that still has children.
var migrations = []migration{
	{
		version: 1,
		sql: `
CREATE TABLE IF NOT EXISTS schema_version (
	version INTEGER NOT NULL
);

CREATE TABLE IF NOT EXISTS agents (
	id         TEXT PRIMARY KEY,
	name       TEXT NOT NULL,
	email      TEXT NOT NULL UNIQUE,
	password   TEXT NOT NULL,
	spaces     TEXT NOT NULL DEFAULT '[]',
	created_at DATETIME NOT NULL,
	updated_at DATETIME NOT NULL
);

CREATE TABLE IF NOT EXISTS spaces (
	id          TEXT PRIMARY KEY,
	space_title TEXT NOT NULL,
	agent_id    TEXT NOT NULL REFERENCES agents(id),
	checklists  TEXT NOT NULL DEFAULT '[]',
	created_at  DATETIME NOT NULL,
	updated_at  DATETIME NOT NULL
);

CREATE TABLE IF NOT EXISTS checklists (
	id              TEXT PRIMARY KEY,
	checklist_title TEXT NOT NULL,
	space_id        TEXT NOT NULL REFERENCES spaces(id),
	space_title     TEXT NOT NULL DEFAULT '',
	items           TEXT NOT NULL DEFAULT '[]',
	created_at      DATETIME NOT NULL,
	updated_at      DATETIME NOT NULL
);

CREATE TABLE IF NOT EXISTS categories (
	id            TEXT PRIMARY KEY,
	category_name TEXT NOT NULL UNIQUE COLLATE NOCASE,
	items         TEXT NOT NULL DEFAULT '[]',
	created_at    DATETIME NOT NULL,
	updated_at    DATETIME NOT NULL
);

CREATE TABLE IF NOT EXISTS items (
	id           TEXT PRIMARY KEY,
	name         TEXT NOT NULL,
	description  TEXT NOT NULL DEFAULT '',
	priority     TEXT NOT NULL DEFAULT 'Medium'
		CHECK(priority IN ('Low', 'Medium', 'High', 'Urgent')),
	status       TEXT NOT NULL DEFAULT 'Pending'
		CHECK(status IN ('Pending', 'In Progress', 'Completed', 'Cancelled')),
	progress     INTEGER NOT NULL DEFAULT 0 CHECK(progress BETWEEN 0 AND 100),
	deadline     DATETIME,
	checklist_id TEXT NOT NULL REFERENCES checklists(id),
	category_id  TEXT REFERENCES categories(id),
	steps        TEXT NOT NULL DEFAULT '[]',
	created_at   DATETIME NOT NULL,
	updated_at   DATETIME NOT NULL
);

CREATE TABLE IF NOT EXISTS steps (
	id         TEXT PRIMARY KEY,
	step_name  TEXT NOT NULL,
	status     TEXT NOT NULL DEFAULT 'Pending'
		CHECK(status IN ('Pending', 'In Progress', 'Completed', 'Urgent')),
	item_id    TEXT NOT NULL REFERENCES items(id),
	created_at DATETIME NOT NULL,
	updated_at DATETIME NOT NULL
);

INSERT INTO schema_version (version) VALUES (1);
`,
	},
	{
		version: 2,
		sql: `
CREATE INDEX IF NOT EXISTS idx_agents_name ON agents(name);
CREATE INDEX IF NOT EXISTS idx_spaces_agent_id ON spaces(agent_id);
CREATE INDEX IF NOT EXISTS idx_spaces_title ON spaces(space_title);
CREATE INDEX IF NOT EXISTS idx_checklists_space_id ON checklists(space_id);
CREATE INDEX IF NOT EXISTS idx_checklists_title ON checklists(checklist_title);
CREATE INDEX IF NOT EXISTS idx_items_checklist_id ON items(checklist_id);
CREATE INDEX IF NOT EXISTS idx_items_category_id ON items(category_id);
CREATE INDEX IF NOT EXISTS idx_items_name ON items(name);
CREATE INDEX IF NOT EXISTS idx_items_deadline ON items(deadline);
CREATE INDEX IF NOT EXISTS idx_steps_item_id ON steps(item_id);
CREATE INDEX IF NOT EXISTS idx_steps_name ON steps(step_name);

INSERT INTO schema_version (version) VALUES (2);
`,
	},
}
