package database

import (
	"database/sql"
	"fmt"
	"time"

	"github.com/m.wallace/momentum-engine/internal/models"
)

const backlogColumns = "id, move_id, task_id, client_name, entered_at, promoted_at, auto_promoted"

func scanBacklogEntry(row interface{ Scan(...any) error }) (*models.BacklogEntry, error) {
	var e models.BacklogEntry
	err := row.Scan(&e.ID, &e.MoveID, &e.TaskID, &e.ClientName, &e.EnteredAt, &e.PromotedAt, &e.AutoPromoted)
	if err != nil {
		return nil, err
	}
	return &e, nil
}

// OpenBacklogEntry records a move entering the backlog. If the move already
// has an open entry it is returned unchanged, so re-recording is harmless.
func (db *DB) OpenBacklogEntry(moveID int, taskID, clientName string, at time.Time) (*models.BacklogEntry, error) {
	existing, err := db.OpenEntryForMove(moveID)
	if err != nil {
		return nil, err
	}
	if existing != nil {
		return existing, nil
	}

	result, err := db.conn.Exec(
		"INSERT INTO backlog_entries (move_id, task_id, client_name, entered_at) VALUES (?, ?, ?, ?)",
		moveID, taskID, clientName, at,
	)
	if err != nil {
		return nil, fmt.Errorf("failed to open backlog entry: %w", err)
	}

	id, err := result.LastInsertId()
	if err != nil {
		return nil, fmt.Errorf("failed to get last insert id: %w", err)
	}

	row := db.conn.QueryRow("SELECT "+backlogColumns+" FROM backlog_entries WHERE id = ?", id)
	return scanBacklogEntry(row)
}

// CloseBacklogEntry stamps the move's open entry as promoted. Returns false
// when the move had no open entry.
func (db *DB) CloseBacklogEntry(moveID int, at time.Time, auto bool) (bool, error) {
	result, err := db.conn.Exec(
		"UPDATE backlog_entries SET promoted_at = ?, auto_promoted = ? WHERE move_id = ? AND promoted_at IS NULL",
		at, auto, moveID,
	)
	if err != nil {
		return false, fmt.Errorf("failed to close backlog entry: %w", err)
	}

	rows, err := result.RowsAffected()
	if err != nil {
		return false, fmt.Errorf("failed to get rows affected: %w", err)
	}
	return rows > 0, nil
}

// OpenEntryForMove returns the move's open backlog entry, or nil.
func (db *DB) OpenEntryForMove(moveID int) (*models.BacklogEntry, error) {
	row := db.conn.QueryRow(
		"SELECT "+backlogColumns+" FROM backlog_entries WHERE move_id = ? AND promoted_at IS NULL",
		moveID,
	)
	e, err := scanBacklogEntry(row)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get backlog entry: %w", err)
	}
	return e, nil
}

// OpenBacklogEntries returns every entry still resident in the backlog,
// oldest first.
func (db *DB) OpenBacklogEntries() ([]models.BacklogEntry, error) {
	rows, err := db.conn.Query(
		"SELECT " + backlogColumns + " FROM backlog_entries WHERE promoted_at IS NULL ORDER BY entered_at",
	)
	if err != nil {
		return nil, fmt.Errorf("failed to list backlog entries: %w", err)
	}
	defer rows.Close()

	var entries []models.BacklogEntry
	for rows.Next() {
		e, err := scanBacklogEntry(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan backlog entry: %w", err)
		}
		entries = append(entries, *e)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating backlog entries: %w", err)
	}

	return entries, nil
}

// DeleteEntriesForMove removes a move's entire ledger history. Used only
// when the move itself is hard-deleted.
func (db *DB) DeleteEntriesForMove(moveID int) error {
	_, err := db.conn.Exec("DELETE FROM backlog_entries WHERE move_id = ?", moveID)
	if err != nil {
		return fmt.Errorf("failed to delete move entries: %w", err)
	}
	return nil
}

// EntriesForMove returns a move's full ledger history, newest first.
func (db *DB) EntriesForMove(moveID int) ([]models.BacklogEntry, error) {
	rows, err := db.conn.Query(
		"SELECT "+backlogColumns+" FROM backlog_entries WHERE move_id = ? ORDER BY entered_at DESC",
		moveID,
	)
	if err != nil {
		return nil, fmt.Errorf("failed to list move entries: %w", err)
	}
	defer rows.Close()

	var entries []models.BacklogEntry
	for rows.Next() {
		e, err := scanBacklogEntry(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan backlog entry: %w", err)
		}
		entries = append(entries, *e)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating backlog entries: %w", err)
	}

	return entries, nil
}
