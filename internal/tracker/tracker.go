// Package tracker is the boundary to the external task tracker. The engine
// only ever reads "all tasks for a client" and writes "set task stage";
// everything tracker-specific stays behind this interface.
package tracker

import "context"

// Task is the tracker's view of a work item. ID is opaque and is what the
// backlog ledger stores as its task reference.
type Task struct {
	ID         string `json:"id"`
	Name       string `json:"name"`
	Stage      string `json:"stage"`
	ClientName string `json:"client_name"`
}

// Client reads and writes tasks in the external tracker.
type Client interface {
	TasksForClient(ctx context.Context, clientName string) ([]Task, error)
	SetTaskStage(ctx context.Context, taskID, stage string) error
}

// Nop is used when no tracker is configured; reads are empty, writes are
// swallowed.
type Nop struct{}

func (Nop) TasksForClient(ctx context.Context, clientName string) ([]Task, error) {
	return nil, nil
}

func (Nop) SetTaskStage(ctx context.Context, taskID, stage string) error {
	return nil
}
