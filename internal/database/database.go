package database

import (
	"database/sql"
	"fmt"

	_ "modernc.org/sqlite"
)

// DB wraps the database connection
type DB struct {
	conn *sql.DB
}

// New creates a new database connection and initializes the schema
func New(dbPath string) (*DB, error) {
	conn, err := sql.Open("sqlite", dbPath)
	if err != nil {
		return nil, fmt.Errorf("failed to open database: %w", err)
	}

	if err := conn.Ping(); err != nil {
		return nil, fmt.Errorf("failed to ping database: %w", err)
	}

	db := &DB{conn: conn}
	if err := db.initSchema(); err != nil {
		return nil, fmt.Errorf("failed to initialize schema: %w", err)
	}

	return db, nil
}

// NewMemory creates an in-memory database, used by tests.
func NewMemory() (*DB, error) {
	return New(":memory:")
}

// initSchema creates the database schema
func (db *DB) initSchema() error {
	schema := `
	CREATE TABLE IF NOT EXISTS clients (
		id INTEGER PRIMARY KEY AUTOINCREMENT,
		name TEXT NOT NULL UNIQUE COLLATE NOCASE,
		category TEXT NOT NULL DEFAULT 'external',
		active BOOLEAN NOT NULL DEFAULT 1,
		created_at TIMESTAMP NOT NULL DEFAULT CURRENT_TIMESTAMP
	);

	CREATE TABLE IF NOT EXISTS moves (
		id INTEGER PRIMARY KEY AUTOINCREMENT,
		title TEXT NOT NULL,
		description TEXT NOT NULL DEFAULT '',
		client_id INTEGER REFERENCES clients(id),
		stage TEXT NOT NULL DEFAULT 'backlog',
		effort_estimate INTEGER NOT NULL DEFAULT 2,
		effort_actual INTEGER,
		drain_type TEXT,
		sort_order INTEGER NOT NULL DEFAULT 0,
		task_ref TEXT,
		created_at TIMESTAMP NOT NULL DEFAULT CURRENT_TIMESTAMP,
		updated_at TIMESTAMP NOT NULL DEFAULT CURRENT_TIMESTAMP,
		completed_at TIMESTAMP
	);

	CREATE INDEX IF NOT EXISTS idx_moves_stage ON moves(stage);
	CREATE INDEX IF NOT EXISTS idx_moves_client ON moves(client_id);

	CREATE TABLE IF NOT EXISTS backlog_entries (
		id INTEGER PRIMARY KEY AUTOINCREMENT,
		move_id INTEGER NOT NULL REFERENCES moves(id),
		task_id TEXT NOT NULL,
		client_name TEXT NOT NULL DEFAULT '',
		entered_at TIMESTAMP NOT NULL,
		promoted_at TIMESTAMP,
		auto_promoted BOOLEAN NOT NULL DEFAULT 0
	);

	CREATE INDEX IF NOT EXISTS idx_backlog_open ON backlog_entries(move_id) WHERE promoted_at IS NULL;

	CREATE TABLE IF NOT EXISTS daily_logs (
		date TEXT PRIMARY KEY,
		clients_touched TEXT NOT NULL DEFAULT '[]',
		clients_skipped TEXT NOT NULL DEFAULT '[]',
		backlog_done INTEGER NOT NULL DEFAULT 0,
		other_done INTEGER NOT NULL DEFAULT 0,
		notified_milestones TEXT NOT NULL DEFAULT '[]'
	);

	CREATE TABLE IF NOT EXISTS daily_completions (
		date TEXT NOT NULL,
		move_id INTEGER NOT NULL,
		description TEXT NOT NULL DEFAULT '',
		client_name TEXT NOT NULL DEFAULT '',
		completed_at TIMESTAMP NOT NULL,
		source TEXT NOT NULL DEFAULT 'pipeline',
		earned_minutes INTEGER NOT NULL DEFAULT 0,
		UNIQUE(date, move_id)
	);

	CREATE INDEX IF NOT EXISTS idx_daily_completions_date ON daily_completions(date);
	`

	_, err := db.conn.Exec(schema)
	return err
}

// Close closes the database connection
func (db *DB) Close() error {
	return db.conn.Close()
}
