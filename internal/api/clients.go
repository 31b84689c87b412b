package api

import (
	"context"
	"strings"

	"github.com/danielgtaylor/huma/v2"
	"github.com/m.wallace/momentum-engine/internal/models"
)

type CreateClientRequest struct {
	Body models.CreateClientInput
}

type ClientResponse struct {
	Body models.Client
}

type ListClientsRequest struct {
	ActiveOnly bool `query:"activeOnly" required:"false" doc:"Only return active clients"`
}

type ListClientsResponse struct {
	Body []models.Client
}

type UpdateClientRequest struct {
	ID   int `path:"id" minimum:"1" doc:"Client ID"`
	Body models.UpdateClientInput
}

func (s *Server) createClient(ctx context.Context, input *CreateClientRequest) (*ClientResponse, error) {
	client, err := s.db.CreateClient(input.Body.Name, input.Body.Category)
	if err != nil {
		// Display names are case-insensitive unique.
		if strings.Contains(err.Error(), "UNIQUE") {
			return nil, huma.Error409Conflict("A client with that name already exists")
		}
		return nil, huma.Error500InternalServerError("Failed to create client", err)
	}
	return &ClientResponse{Body: *client}, nil
}

func (s *Server) listClients(ctx context.Context, input *ListClientsRequest) (*ListClientsResponse, error) {
	clients, err := s.db.ListClients(input.ActiveOnly)
	if err != nil {
		return nil, huma.Error500InternalServerError("Failed to list clients", err)
	}
	if clients == nil {
		clients = []models.Client{}
	}
	return &ListClientsResponse{Body: clients}, nil
}

func (s *Server) updateClient(ctx context.Context, input *UpdateClientRequest) (*ClientResponse, error) {
	client, err := s.db.UpdateClient(input.ID, input.Body)
	if err != nil {
		return nil, huma.Error500InternalServerError("Failed to update client", err)
	}
	if client == nil {
		return nil, huma.Error404NotFound("Client not found")
	}
	return &ClientResponse{Body: *client}, nil
}
