package database

import (
	"database/sql"
	"fmt"
	"time"

	"github.com/m.wallace/momentum-engine/internal/models"
)

const moveColumns = "id, title, description, client_id, stage, effort_estimate, effort_actual, drain_type, sort_order, task_ref, created_at, updated_at, completed_at"

func scanMove(row interface{ Scan(...any) error }) (*models.Move, error) {
	var m models.Move
	var stage string
	err := row.Scan(
		&m.ID, &m.Title, &m.Description, &m.ClientID, &stage,
		&m.EffortEstimate, &m.EffortActual, &m.DrainType, &m.SortOrder,
		&m.TaskRef, &m.CreatedAt, &m.UpdatedAt, &m.CompletedAt,
	)
	if err != nil {
		return nil, err
	}
	m.Stage = models.Stage(stage)
	return &m, nil
}

// CreateMove inserts a new move and returns the stored row.
func (db *DB) CreateMove(m *models.Move, now time.Time) (*models.Move, error) {
	result, err := db.conn.Exec(
		`INSERT INTO moves (title, description, client_id, stage, effort_estimate, drain_type, sort_order, task_ref, created_at, updated_at)
		 VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		m.Title, m.Description, m.ClientID, string(m.Stage), m.EffortEstimate,
		m.DrainType, m.SortOrder, m.TaskRef, now, now,
	)
	if err != nil {
		return nil, fmt.Errorf("failed to create move: %w", err)
	}

	id, err := result.LastInsertId()
	if err != nil {
		return nil, fmt.Errorf("failed to get last insert id: %w", err)
	}

	return db.GetMove(int(id))
}

// GetMove retrieves a move by ID
func (db *DB) GetMove(id int) (*models.Move, error) {
	row := db.conn.QueryRow("SELECT "+moveColumns+" FROM moves WHERE id = ?", id)
	m, err := scanMove(row)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get move: %w", err)
	}
	return m, nil
}

// ListMoves retrieves moves matching the filter. Completed moves are
// excluded unless the filter asks for them or selects the done stage.
func (db *DB) ListMoves(filter models.MoveFilter) ([]models.Move, error) {
	query := "SELECT " + moveColumns + " FROM moves"
	args := []interface{}{}
	where := []string{}

	if filter.Stage != nil {
		where = append(where, "stage = ?")
		args = append(args, string(*filter.Stage))
	} else if !filter.IncludeCompleted {
		where = append(where, "stage != ?")
		args = append(args, string(models.StageDone))
	}
	if filter.ClientID != nil {
		where = append(where, "client_id = ?")
		args = append(args, *filter.ClientID)
	}

	if len(where) > 0 {
		query += " WHERE " + where[0]
		for i := 1; i < len(where); i++ {
			query += " AND " + where[i]
		}
	}
	query += " ORDER BY sort_order, created_at DESC, id DESC"

	rows, err := db.conn.Query(query, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to list moves: %w", err)
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

// MovesByClientStage returns a client's moves in one stage, newest first.
// The rebalancer depends on this ordering for its tie-break.
func (db *DB) MovesByClientStage(clientID int, stage models.Stage) ([]models.Move, error) {
	rows, err := db.conn.Query(
		"SELECT "+moveColumns+" FROM moves WHERE client_id = ? AND stage = ? ORDER BY created_at DESC, id DESC",
		clientID, string(stage),
	)
	if err != nil {
		return nil, fmt.Errorf("failed to query client moves: %w", err)
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

// StaleActiveMoves returns active moves last touched before the cutoff.
func (db *DB) StaleActiveMoves(cutoff time.Time) ([]models.Move, error) {
	rows, err := db.conn.Query(
		"SELECT "+moveColumns+" FROM moves WHERE stage = ? AND updated_at < ?",
		string(models.StageActive), cutoff,
	)
	if err != nil {
		return nil, fmt.Errorf("failed to query stale moves: %w", err)
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

// MoveUpdate describes a partial update to a stored move. Nil pointer
// fields are left untouched; the Clear flags null out completion fields.
type MoveUpdate struct {
	Title             *string
	Description       *string
	ClientID          *int
	Stage             *models.Stage
	EffortEstimate    *int
	EffortActual      *int
	ClearEffortActual bool
	DrainType         *string
	SortOrder         *int
	CompletedAt       *time.Time
	ClearCompletedAt  bool
}

// UpdateMove applies a partial update and stamps updated_at.
func (db *DB) UpdateMove(id int, upd MoveUpdate, now time.Time) (*models.Move, error) {
	existing, err := db.GetMove(id)
	if err != nil {
		return nil, err
	}
	if existing == nil {
		return nil, nil
	}

	// Build dynamic update query
	query := "UPDATE moves SET "
	args := []interface{}{}
	updates := []string{}

	if upd.Title != nil {
		updates = append(updates, "title = ?")
		args = append(args, *upd.Title)
	}
	if upd.Description != nil {
		updates = append(updates, "description = ?")
		args = append(args, *upd.Description)
	}
	if upd.ClientID != nil {
		updates = append(updates, "client_id = ?")
		args = append(args, *upd.ClientID)
	}
	if upd.Stage != nil {
		updates = append(updates, "stage = ?")
		args = append(args, string(*upd.Stage))
	}
	if upd.EffortEstimate != nil {
		updates = append(updates, "effort_estimate = ?")
		args = append(args, *upd.EffortEstimate)
	}
	if upd.EffortActual != nil {
		updates = append(updates, "effort_actual = ?")
		args = append(args, *upd.EffortActual)
	} else if upd.ClearEffortActual {
		updates = append(updates, "effort_actual = NULL")
	}
	if upd.DrainType != nil {
		updates = append(updates, "drain_type = ?")
		args = append(args, *upd.DrainType)
	}
	if upd.SortOrder != nil {
		updates = append(updates, "sort_order = ?")
		args = append(args, *upd.SortOrder)
	}
	if upd.CompletedAt != nil {
		updates = append(updates, "completed_at = ?")
		args = append(args, *upd.CompletedAt)
	} else if upd.ClearCompletedAt {
		updates = append(updates, "completed_at = NULL")
	}

	if len(updates) == 0 {
		return existing, nil
	}

	updates = append(updates, "updated_at = ?")
	args = append(args, now)

	query += updates[0]
	for i := 1; i < len(updates); i++ {
		query += ", " + updates[i]
	}
	query += " WHERE id = ?"
	args = append(args, id)

	_, err = db.conn.Exec(query, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to update move: %w", err)
	}

	return db.GetMove(id)
}

// DeleteMove deletes a move by ID
func (db *DB) DeleteMove(id int) error {
	result, err := db.conn.Exec("DELETE FROM moves WHERE id = ?", id)
	if err != nil {
		return fmt.Errorf("failed to delete move: %w", err)
	}

	rows, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to get rows affected: %w", err)
	}

	if rows == 0 {
		return sql.ErrNoRows
	}

	return nil
}
