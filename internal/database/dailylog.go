package database

import (
	"database/sql"
	"encoding/json"
	"fmt"
	"sort"

	"github.com/m.wallace/momentum-engine/internal/models"
)

// AppendCompletion records a completed move in a date's log. Returns false
// when the move is already logged for that date (retried syncs are safe).
func (db *DB) AppendCompletion(date string, rec models.CompletionRecord) (bool, error) {
	if err := db.ensureDailyLog(date); err != nil {
		return false, err
	}

	result, err := db.conn.Exec(
		`INSERT OR IGNORE INTO daily_completions (date, move_id, description, client_name, completed_at, source, earned_minutes)
		 VALUES (?, ?, ?, ?, ?, ?, ?)`,
		date, rec.MoveID, rec.Description, rec.ClientName, rec.CompletedAt, rec.Source, rec.EarnedMinutes,
	)
	if err != nil {
		return false, fmt.Errorf("failed to append completion: %w", err)
	}

	rows, err := result.RowsAffected()
	if err != nil {
		return false, fmt.Errorf("failed to get rows affected: %w", err)
	}
	if rows == 0 {
		// Already logged for this date.
		return false, nil
	}

	counter := "other_done"
	if rec.Source == models.SourceBacklog {
		counter = "backlog_done"
	}
	_, err = db.conn.Exec("UPDATE daily_logs SET "+counter+" = "+counter+" + 1 WHERE date = ?", date)
	if err != nil {
		return false, fmt.Errorf("failed to bump completion counter: %w", err)
	}

	if rec.ClientName != "" {
		if err := db.addToDailySet(date, "clients_touched", rec.ClientName); err != nil {
			return false, err
		}
	}

	return true, nil
}

// RemoveCompletion amends a date's log when a completion is undone.
// Returns false when the move was not logged for that date.
func (db *DB) RemoveCompletion(date string, moveID int) (bool, error) {
	var source string
	err := db.conn.QueryRow(
		"SELECT source FROM daily_completions WHERE date = ? AND move_id = ?",
		date, moveID,
	).Scan(&source)
	if err == sql.ErrNoRows {
		return false, nil
	}
	if err != nil {
		return false, fmt.Errorf("failed to look up completion: %w", err)
	}

	_, err = db.conn.Exec("DELETE FROM daily_completions WHERE date = ? AND move_id = ?", date, moveID)
	if err != nil {
		return false, fmt.Errorf("failed to remove completion: %w", err)
	}

	counter := "other_done"
	if source == models.SourceBacklog {
		counter = "backlog_done"
	}
	_, err = db.conn.Exec(
		"UPDATE daily_logs SET "+counter+" = MAX("+counter+" - 1, 0) WHERE date = ?", date,
	)
	if err != nil {
		return false, fmt.Errorf("failed to decrement completion counter: %w", err)
	}

	return true, nil
}

// CompletionsForDate returns a date's completion records in log order.
func (db *DB) CompletionsForDate(date string) ([]models.CompletionRecord, error) {
	return db.queryCompletions(
		"SELECT move_id, description, client_name, completed_at, source, earned_minutes FROM daily_completions WHERE date = ? ORDER BY completed_at",
		date,
	)
}

// CompletionsBetween returns completion records for date keys in
// [from, to], inclusive.
func (db *DB) CompletionsBetween(from, to string) ([]models.CompletionRecord, error) {
	return db.queryCompletions(
		"SELECT move_id, description, client_name, completed_at, source, earned_minutes FROM daily_completions WHERE date >= ? AND date <= ? ORDER BY completed_at",
		from, to,
	)
}

func (db *DB) queryCompletions(query string, args ...interface{}) ([]models.CompletionRecord, error) {
	rows, err := db.conn.Query(query, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to query completions: %w", err)
	}
	defer rows.Close()

	var recs []models.CompletionRecord
	for rows.Next() {
		var r models.CompletionRecord
		if err := rows.Scan(&r.MoveID, &r.Description, &r.ClientName, &r.CompletedAt, &r.Source, &r.EarnedMinutes); err != nil {
			return nil, fmt.Errorf("failed to scan completion: %w", err)
		}
		recs = append(recs, r)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating completions: %w", err)
	}

	return recs, nil
}

// GetDailyLog assembles a date's full log. Returns nil when the date has no
// log row yet.
func (db *DB) GetDailyLog(date string) (*models.DailyLog, error) {
	var touched, skipped, milestones string
	log := models.DailyLog{Date: date}
	err := db.conn.QueryRow(
		"SELECT clients_touched, clients_skipped, backlog_done, other_done, notified_milestones FROM daily_logs WHERE date = ?",
		date,
	).Scan(&touched, &skipped, &log.BacklogDone, &log.OtherDone, &milestones)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get daily log: %w", err)
	}

	if err := json.Unmarshal([]byte(touched), &log.ClientsTouched); err != nil {
		return nil, fmt.Errorf("failed to decode clients_touched: %w", err)
	}
	if err := json.Unmarshal([]byte(skipped), &log.ClientsSkipped); err != nil {
		return nil, fmt.Errorf("failed to decode clients_skipped: %w", err)
	}
	if err := json.Unmarshal([]byte(milestones), &log.NotifiedMilestones); err != nil {
		return nil, fmt.Errorf("failed to decode notified_milestones: %w", err)
	}

	log.Completions, err = db.CompletionsForDate(date)
	if err != nil {
		return nil, err
	}

	return &log, nil
}

// MarkClientSkipped adds a client to a date's skipped set.
func (db *DB) MarkClientSkipped(date, clientName string) error {
	if err := db.ensureDailyLog(date); err != nil {
		return err
	}
	return db.addToDailySet(date, "clients_skipped", clientName)
}

// NotifiedMilestones returns the milestones already dispatched for a date.
func (db *DB) NotifiedMilestones(date string) ([]int, error) {
	var raw string
	err := db.conn.QueryRow("SELECT notified_milestones FROM daily_logs WHERE date = ?", date).Scan(&raw)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get notified milestones: %w", err)
	}

	var milestones []int
	if err := json.Unmarshal([]byte(raw), &milestones); err != nil {
		return nil, fmt.Errorf("failed to decode notified_milestones: %w", err)
	}
	return milestones, nil
}

// MarkMilestoneNotified records a dispatched milestone. The set only grows.
func (db *DB) MarkMilestoneNotified(date string, milestone int) error {
	if err := db.ensureDailyLog(date); err != nil {
		return err
	}

	milestones, err := db.NotifiedMilestones(date)
	if err != nil {
		return err
	}
	for _, m := range milestones {
		if m == milestone {
			return nil
		}
	}
	milestones = append(milestones, milestone)
	sort.Ints(milestones)

	raw, err := json.Marshal(milestones)
	if err != nil {
		return fmt.Errorf("failed to encode milestones: %w", err)
	}
	_, err = db.conn.Exec("UPDATE daily_logs SET notified_milestones = ? WHERE date = ?", string(raw), date)
	if err != nil {
		return fmt.Errorf("failed to mark milestone: %w", err)
	}
	return nil
}

func (db *DB) ensureDailyLog(date string) error {
	_, err := db.conn.Exec("INSERT OR IGNORE INTO daily_logs (date) VALUES (?)", date)
	if err != nil {
		return fmt.Errorf("failed to ensure daily log: %w", err)
	}
	return nil
}

func (db *DB) addToDailySet(date, column, value string) error {
	var raw string
	err := db.conn.QueryRow("SELECT "+column+" FROM daily_logs WHERE date = ?", date).Scan(&raw)
	if err != nil {
		return fmt.Errorf("failed to read %s: %w", column, err)
	}

	var set []string
	if err := json.Unmarshal([]byte(raw), &set); err != nil {
		return fmt.Errorf("failed to decode %s: %w", column, err)
	}
	for _, v := range set {
		if v == value {
			return nil
		}
	}
	set = append(set, value)

	encoded, err := json.Marshal(set)
	if err != nil {
		return fmt.Errorf("failed to encode %s: %w", column, err)
	}
	_, err = db.conn.Exec("UPDATE daily_logs SET "+column+" = ? WHERE date = ?", string(encoded), date)
	if err != nil {
		return fmt.Errorf("failed to update %s: %w", column, err)
	}
	return nil
}
