package api

import (
	"context"
	"fmt"
)

// GetGroups returns every group with its tasks embedded.
func (c *Client) GetGroups(ctx context.Context) ([]Group, error) {
	var groups []Group
	if err := c.Get(ctx, "/groups", &groups); err != nil {
		return nil, fmt.Errorf("failed to get groups: %w", err)
	}
	for i := range groups {
		if groups[i].Tasks == nil {
			groups[i].Tasks = []Task{}
		}
	}
	return groups, nil
}

// CreateGroup creates a new, empty group.
func (c *Client) CreateGroup(ctx context.Context, req CreateGroupRequest) (*Group, error) {
	var group Group
	if err := c.Post(ctx, "/groups", req, &group); err != nil {
		return nil, fmt.Errorf("failed to create group: %w", err)
	}
	if group.Tasks == nil {
		group.Tasks = []Task{}
	}
	return &group, nil
}

// RenameGroup renames a group.
func (c *Client) RenameGroup(ctx context.Context, id ID, name string) error {
	if err := c.Patch(ctx, "/groups/"+string(id), RenameGroupRequest{Name: name}, nil); err != nil {
		return fmt.Errorf("failed to rename group %s: %w", id, err)
	}
	return nil
}

// DeleteGroup deletes a group and, server side, all of its tasks.
func (c *Client) DeleteGroup(ctx context.Context, id ID) error {
	if err := c.Delete(ctx, "/groups/"+string(id)); err != nil {
		return fmt.Errorf("failed to delete group %s: %w", id, err)
	}
	return nil
}
