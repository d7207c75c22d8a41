package api

import (
	"context"
	"fmt"
)

// CreateTask creates a new task.
func (c *Client) CreateTask(ctx context.Context, req CreateTaskRequest) (*Task, error) {
	if req.Status == "" {
		req.Status = StatusTodo
	}
	var task Task
	if err := c.Post(ctx, "/tasks", req, &task); err != nil {
		return nil, fmt.Errorf("failed to create task: %w", err)
	}
	return &task, nil
}

// UpdateTask applies a partial update to a task.
func (c *Client) UpdateTask(ctx context.Context, id ID, req UpdateTaskRequest) error {
	if req.Empty() {
		return fmt.Errorf("failed to update task %s: no fields to update", id)
	}
	if err := c.Patch(ctx, "/tasks/"+string(id), req, nil); err != nil {
		return fmt.Errorf("failed to update task %s: %w", id, err)
	}
	return nil
}

// MoveTask re-assigns a task to another group.
func (c *Client) MoveTask(ctx context.Context, id, groupID ID) error {
	return c.UpdateTask(ctx, id, UpdateTaskRequest{GroupID: &groupID})
}

// DeleteTask deletes a task.
func (c *Client) DeleteTask(ctx context.Context, id ID) error {
	if err := c.Delete(ctx, "/tasks/"+string(id)); err != nil {
		return fmt.Errorf("failed to delete task %s: %w", id, err)
	}
	return nil
}
