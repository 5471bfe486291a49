package db

import (
	"database/sql"
	"fmt"
)

// schema is the full database schema.
const schema = `
CREATE TABLE IF NOT EXISTS users (
    id           TEXT PRIMARY KEY,
    username     TEXT NOT NULL,
    email        TEXT,
    fine_balance INTEGER NOT NULL DEFAULT 0 CHECK (fine_balance >= 0),
    is_admin     INTEGER NOT NULL DEFAULT 0,
    created_at   DATETIME NOT NULL DEFAULT CURRENT_TIMESTAMP
);

CREATE UNIQUE INDEX IF NOT EXISTS idx_users_username ON users(username);

CREATE TABLE IF NOT EXISTS items (
    id         INTEGER PRIMARY KEY,
    title      TEXT NOT NULL,
    author     TEXT,
    isbn       TEXT,
    media      TEXT NOT NULL DEFAULT 'book' CHECK (media IN ('book', 'cd')),
    borrowed   INTEGER NOT NULL DEFAULT 0,
    created_at DATETIME NOT NULL DEFAULT CURRENT_TIMESTAMP
);

CREATE UNIQUE INDEX IF NOT EXISTS idx_items_isbn
    ON items(isbn) WHERE isbn IS NOT NULL AND isbn != '';

CREATE TABLE IF NOT EXISTS loans (
    id            TEXT PRIMARY KEY,
    user_id       TEXT NOT NULL REFERENCES users(id),
    item_id       INTEGER NOT NULL REFERENCES items(id),
    media         TEXT NOT NULL DEFAULT 'book',
    borrow_date   DATETIME NOT NULL,
    due_date      DATETIME NOT NULL,
    returned_date DATETIME,
    fine_applied  INTEGER NOT NULL DEFAULT 0,
    fine_paid     INTEGER NOT NULL DEFAULT 0
);

CREATE INDEX IF NOT EXISTS idx_loans_user ON loans(user_id);
`

// EnsureSchema creates all tables and indexes if they don't already exist.
func EnsureSchema(db *sql.DB) error {
	_, err := db.Exec(schema)
	if err != nil {
		return fmt.Errorf("creating schema: %w", err)
	}
	return nil
}

// migrations is a list of SQL statements applied in order after schema
// creation. Each migration must be idempotent. Append new migrations at the
// end.
var migrations = []string{
	// Migration 1: loans recorded before media types existed carry an empty
	// media tag; the lending engine classifies them by re-reading the item.
	// Relax the default so such rows survive a re-import.
	`UPDATE loans SET media = 'book'
	     WHERE media NOT IN ('book', 'cd', '')`,
}

// Migrate runs the database schema migrations.
func Migrate(db *sql.DB) error {
	if err := EnsureSchema(db); err != nil {
		return err
	}

	for i, m := range migrations {
		if _, err := db.Exec(m); err != nil {
			return fmt.Errorf("running migration %d: %w", i+1, err)
		}
	}

	return nil
}
