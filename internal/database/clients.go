package database

import (
	"database/sql"
	"fmt"
	"time"

	"github.com/m.wallace/momentum-engine/internal/models"
)

const clientColumns = "id, name, category, active, created_at"

func scanClient(row interface{ Scan(...any) error }) (*models.Client, error) {
	var c models.Client
	err := row.Scan(&c.ID, &c.Name, &c.Category, &c.Active, &c.CreatedAt)
	if err != nil {
		return nil, err
	}
	return &c, nil
}

// CreateClient creates a new client
func (db *DB) CreateClient(name, category string) (*models.Client, error) {
	if category == "" {
		category = models.CategoryExternal
	}
	result, err := db.conn.Exec(
		"INSERT INTO clients (name, category, active, created_at) VALUES (?, ?, ?, ?)",
		name, category, true, time.Now(),
	)
	if err != nil {
		return nil, fmt.Errorf("failed to create client: %w", err)
	}

	id, err := result.LastInsertId()
	if err != nil {
		return nil, fmt.Errorf("failed to get last insert id: %w", err)
	}

	return db.GetClient(int(id))
}

// GetClient retrieves a client by ID
func (db *DB) GetClient(id int) (*models.Client, error) {
	row := db.conn.QueryRow("SELECT "+clientColumns+" FROM clients WHERE id = ?", id)
	c, err := scanClient(row)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get client: %w", err)
	}
	return c, nil
}

// GetClientByName retrieves a client by display name, case-insensitively.
func (db *DB) GetClientByName(name string) (*models.Client, error) {
	row := db.conn.QueryRow("SELECT "+clientColumns+" FROM clients WHERE name = ? COLLATE NOCASE", name)
	c, err := scanClient(row)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get client by name: %w", err)
	}
	return c, nil
}

// ListClients retrieves all clients, optionally only active ones
func (db *DB) ListClients(activeOnly bool) ([]models.Client, error) {
	query := "SELECT " + clientColumns + " FROM clients"
	if activeOnly {
		query += " WHERE active = 1"
	}
	query += " ORDER BY name COLLATE NOCASE"

	rows, err := db.conn.Query(query)
	if err != nil {
		return nil, fmt.Errorf("failed to list clients: %w", err)
	}
	defer rows.Close()

	var clients []models.Client
	for rows.Next() {
		c, err := scanClient(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan client: %w", err)
		}
		clients = append(clients, *c)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating clients: %w", err)
	}

	return clients, nil
}

// UpdateClient updates a client
func (db *DB) UpdateClient(id int, input models.UpdateClientInput) (*models.Client, error) {
	existing, err := db.GetClient(id)
	if err != nil {
		return nil, err
	}
	if existing == nil {
		return nil, nil
	}

	// Build dynamic update query
	query := "UPDATE clients SET "
	args := []interface{}{}
	updates := []string{}

	if input.Name != nil {
		updates = append(updates, "name = ?")
		args = append(args, *input.Name)
	}
	if input.Category != nil {
		updates = append(updates, "category = ?")
		args = append(args, *input.Category)
	}
	if input.Active != nil {
		updates = append(updates, "active = ?")
		args = append(args, *input.Active)
	}

	if len(updates) == 0 {
		return existing, nil
	}

	query += updates[0]
	for i := 1; i < len(updates); i++ {
		query += ", " + updates[i]
	}
	query += " WHERE id = ?"
	args = append(args, id)

	_, err = db.conn.Exec(query, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to update client: %w", err)
	}

	return db.GetClient(id)
}
