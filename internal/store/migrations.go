package store

// migration holds a single schema migration with its target version and SQL.
type migration struct {
	version int
	sql     string
}

// migrations is the ordered list of schema migrations. Each migration's
// version must be sequential starting from 1. The SQL is kept to the subset
// shared by SQLite and PostgreSQL.
//
// Card dependents reference cards without ON DELETE CASCADE: removal order is
// owned by deleteCardsCascade so a missed table fails loudly.
var migrations = []migration{
	{
		version: 1,
		sql: `
CREATE TABLE IF NOT EXISTS boards (
	id              TEXT PRIMARY KEY,
	organization_id TEXT NOT NULL,
	title           TEXT NOT NULL,
	created_at      TIMESTAMP NOT NULL,
	updated_at      TIMESTAMP NOT NULL
);

CREATE TABLE IF NOT EXISTS lists (
	id         TEXT PRIMARY KEY,
	board_id   TEXT NOT NULL REFERENCES boards(id),
	title      TEXT NOT NULL,
	"order"    INTEGER NOT NULL DEFAULT 0,
	created_at TIMESTAMP NOT NULL,
	updated_at TIMESTAMP NOT NULL
);

CREATE TABLE IF NOT EXISTS cards (
	id          TEXT PRIMARY KEY,
	list_id     TEXT NOT NULL REFERENCES lists(id),
	title       TEXT NOT NULL,
	description TEXT,
	status      TEXT,
	due_date    TIMESTAMP,
	priority    TEXT NOT NULL DEFAULT 'medium'
		CHECK(priority IN ('low', 'medium', 'high', 'critical')),
	"order"     INTEGER NOT NULL DEFAULT 0,
	created_at  TIMESTAMP NOT NULL,
	updated_at  TIMESTAMP NOT NULL
);

CREATE TABLE IF NOT EXISTS labels (
	id         TEXT PRIMARY KEY,
	board_id   TEXT NOT NULL REFERENCES boards(id),
	name       TEXT NOT NULL,
	color      TEXT NOT NULL DEFAULT '',
	created_at TIMESTAMP NOT NULL,
	UNIQUE(board_id, name)
);

CREATE TABLE IF NOT EXISTS card_assignees (
	card_id     TEXT NOT NULL REFERENCES cards(id),
	user_id     TEXT NOT NULL,
	assigned_at TIMESTAMP NOT NULL,
	PRIMARY KEY (card_id, user_id)
);

CREATE TABLE IF NOT EXISTS card_labels (
	card_id  TEXT NOT NULL REFERENCES cards(id),
	label_id TEXT NOT NULL REFERENCES labels(id),
	added_at TIMESTAMP NOT NULL,
	PRIMARY KEY (card_id, label_id)
);

CREATE TABLE IF NOT EXISTS checklist_items (
	id         TEXT PRIMARY KEY,
	card_id    TEXT NOT NULL REFERENCES cards(id),
	text       TEXT NOT NULL,
	checked    INTEGER NOT NULL DEFAULT 0 CHECK(checked IN (0, 1)),
	"order"    INTEGER NOT NULL DEFAULT 0,
	created_at TIMESTAMP NOT NULL
);

CREATE TABLE IF NOT EXISTS comments (
	id         TEXT PRIMARY KEY,
	card_id    TEXT NOT NULL REFERENCES cards(id),
	user_id    TEXT NOT NULL,
	body       TEXT NOT NULL,
	created_at TIMESTAMP NOT NULL
);

CREATE TABLE IF NOT EXISTS attachments (
	id         TEXT PRIMARY KEY,
	card_id    TEXT NOT NULL REFERENCES cards(id),
	file_name  TEXT NOT NULL,
	file_url   TEXT NOT NULL,
	mime_type  TEXT NOT NULL DEFAULT '',
	size       BIGINT NOT NULL DEFAULT 0,
	created_at TIMESTAMP NOT NULL
);

CREATE TABLE IF NOT EXISTS card_activities (
	id         TEXT PRIMARY KEY,
	card_id    TEXT NOT NULL REFERENCES cards(id),
	action     TEXT NOT NULL,
	details    TEXT NOT NULL DEFAULT '',
	created_at TIMESTAMP NOT NULL
);

CREATE INDEX IF NOT EXISTS idx_boards_organization_id ON boards(organization_id);
CREATE INDEX IF NOT EXISTS idx_lists_board_order ON lists(board_id, "order");
CREATE INDEX IF NOT EXISTS idx_cards_list_order ON cards(list_id, "order");
CREATE INDEX IF NOT EXISTS idx_labels_board_id ON labels(board_id);
CREATE INDEX IF NOT EXISTS idx_card_labels_label_id ON card_labels(label_id);
CREATE INDEX IF NOT EXISTS idx_checklist_items_card_id ON checklist_items(card_id);
CREATE INDEX IF NOT EXISTS idx_comments_card_id ON comments(card_id);
CREATE INDEX IF NOT EXISTS idx_attachments_card_id ON attachments(card_id);
CREATE INDEX IF NOT EXISTS idx_card_activities_card_id ON card_activities(card_id, created_at);

INSERT INTO schema_version (version) VALUES (1);
`,
	},
}
