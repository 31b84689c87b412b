package database

import (
	"fmt"
	"time"

	"github.com/m.wallace/momentum-engine/internal/models"
)

// CompletedMovesSince returns moves completed at or after the cutoff.
func (db *DB) CompletedMovesSince(cutoff time.Time) ([]models.Move, error) {
	rows, err := db.conn.Query(
		"SELECT "+moveColumns+" FROM moves WHERE stage = ? AND completed_at >= ? ORDER BY completed_at",
		string(models.StageDone), cutoff,
	)
	if err != nil {
		return nil, fmt.Errorf("failed to query completed moves: %w", err)
	}
	defer rows.Close()

	var moves []models.Move
	for rows.Next() {
		m, err := scanMove(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan move: %w", err)
		}
		moves = append(moves, *m)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating moves: %w", err)
	}

	return moves, nil
}

// CountMovesByClientStage returns how many moves a client has in a stage.
func (db *DB) CountMovesByClientStage(clientID int, stage models.Stage) (int, error) {
	var count int
	err := db.conn.QueryRow(
		"SELECT COUNT(*) FROM moves WHERE client_id = ? AND stage = ?",
		clientID, string(stage),
	).Scan(&count)
	if err != nil {
		return 0, fmt.Errorf("failed to count moves: %w", err)
	}
	return count, nil
}

// CompletionCountsByClient returns per-client completion counts for date
// keys in [from, to], inclusive.
func (db *DB) CompletionCountsByClient(from, to string) (map[string]int, error) {
	rows, err := db.conn.Query(
		"SELECT client_name, COUNT(*) FROM daily_completions WHERE date >= ? AND date <= ? AND client_name != '' GROUP BY client_name",
		from, to,
	)
	if err != nil {
		return nil, fmt.Errorf("failed to count completions: %w", err)
	}
	defer rows.Close()

	counts := make(map[string]int)
	for rows.Next() {
		var name string
		var n int
		if err := rows.Scan(&name, &n); err != nil {
			return nil, fmt.Errorf("failed to scan completion count: %w", err)
		}
		counts[name] = n
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating completion counts: %w", err)
	}

	return counts, nil
}

// LastCompletionByClient returns each client's most recent completion time.
func (db *DB) LastCompletionByClient() (map[string]time.Time, error) {
	rows, err := db.conn.Query(
		"SELECT client_name, MAX(completed_at) FROM daily_completions WHERE client_name != '' GROUP BY client_name",
	)
	if err != nil {
		return nil, fmt.Errorf("failed to query last completions: %w", err)
	}
	defer rows.Close()

	last := make(map[string]time.Time)
	for rows.Next() {
		var name string
		var at time.Time
		if err := rows.Scan(&name, &at); err != nil {
			return nil, fmt.Errorf("failed to scan last completion: %w", err)
		}
		last[name] = at
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating last completions: %w", err)
	}

	return last, nil
}
