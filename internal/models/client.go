package models

import "time"

// Client categories
const (
	CategoryInternal = "internal"
	CategoryExternal = "external"
)

// Client represents an owner of moves
type Client struct {
	ID        int       `json:"id" db:"id"`
	Name      string    `json:"name" db:"name"`
	Category  string    `json:"category" db:"category"`
	Active    bool      `json:"active" db:"active"`
	CreatedAt time.Time `json:"created_at" db:"created_at"`
}

// CreateClientInput represents the input for creating a new client
type CreateClientInput struct {
	Name     string `json:"name" minLength:"1" maxLength:"120" doc:"Display name, case-insensitive unique"`
	Category string `json:"category,omitempty" enum:"internal,external" doc:"Client category (default external)"`
}

// UpdateClientInput represents the input for updating a client
type UpdateClientInput struct {
	Name     *string `json:"name,omitempty" minLength:"1" maxLength:"120" doc:"Display name"`
	Category *string `json:"category,omitempty" enum:"internal,external" doc:"Client category"`
	Active   *bool   `json:"active,omitempty" doc:"Whether the client is active"`
}
