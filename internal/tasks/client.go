package tasks

import (
	"context"
	"fmt"
	"time"

	"google.golang.org/api/option"
	tasks "google.golang.org/api/tasks/v1"
)

// DefaultMaxResults bounds task listings when the caller sets no limit.
const DefaultMaxResults = 100

// Client wraps the Google Tasks service
type Client struct {
	svc *tasks.Service
	now func() time.Time
}

// NewClient creates a Tasks client. Authentication is supplied through
// opts, typically option.WithHTTPClient with an OAuth2 client.
func NewClient(ctx context.Context, opts ...option.ClientOption) (*Client, error) {
	svc, err := tasks.NewService(ctx, opts...)
	if err != nil {
		return nil, fmt.Errorf("failed to create Tasks service: %w", err)
	}
	return &Client{svc: svc, now: time.Now}, nil
}

// SetClock replaces the clock used for completion timestamps.
func (c *Client) SetClock(now func() time.Time) {
	c.now = now
}

// Now returns the client's current time.
func (c *Client) Now() time.Time {
	return c.now()
}

// ListTaskLists lists all task lists for the authenticated user
func (c *Client) ListTaskLists(ctx context.Context) ([]TaskList, error) {
	result, err := c.svc.Tasklists.List().Context(ctx).Do()
	if err != nil {
		return nil, fmt.Errorf("failed to list task lists: %w", err)
	}

	taskLists := make([]TaskList, 0, len(result.Items))
	for _, tl := range result.Items {
		taskLists = append(taskLists, toTaskList(tl))
	}
	return taskLists, nil
}

// ListTasks lists tasks in a task list
func (c *Client) ListTasks(ctx context.Context, taskListID string, showCompleted bool, maxResults int64) ([]Task, error) {
	if maxResults <= 0 {
		maxResults = DefaultMaxResults
	}

	result, err := c.svc.Tasks.List(taskListID).
		ShowCompleted(showCompleted).
		MaxResults(maxResults).
		Context(ctx).
		Do()
	if err != nil {
		return nil, fmt.Errorf("failed to list tasks: %w", err)
	}

	taskList := make([]Task, 0, len(result.Items))
	for _, t := range result.Items {
		taskList = append(taskList, toTask(t))
	}
	return taskList, nil
}

// CreateTask inserts a task built by BuildTask
func (c *Client) CreateTask(ctx context.Context, taskListID string, task *tasks.Task) (*CreatedTask, error) {
	created, err := c.svc.Tasks.Insert(taskListID, task).Context(ctx).Do()
	if err != nil {
		return nil, fmt.Errorf("failed to create task: %w", err)
	}

	result := toCreatedTask(created)
	return &result, nil
}

// UpdateTask applies a sparse patch built by BuildTaskPatch
func (c *Client) UpdateTask(ctx context.Context, taskListID, taskID string, patch *tasks.Task) (*UpdatedTask, error) {
	updated, err := c.svc.Tasks.Patch(taskListID, taskID, patch).Context(ctx).Do()
	if err != nil {
		return nil, fmt.Errorf("failed to update task: %w", err)
	}

	result := toUpdatedTask(updated)
	return &result, nil
}

// DeleteTask deletes a task
func (c *Client) DeleteTask(ctx context.Context, taskListID, taskID string) error {
	if err := c.svc.Tasks.Delete(taskListID, taskID).Context(ctx).Do(); err != nil {
		return fmt.Errorf("failed to delete task: %w", err)
	}
	return nil
}

// CompleteTask marks a task as completed. The stored task is read first so
// the full resource is written back unchanged apart from its status.
func (c *Client) CompleteTask(ctx context.Context, taskListID, taskID string) (*UpdatedTask, error) {
	existing, err := c.svc.Tasks.Get(taskListID, taskID).Context(ctx).Do()
	if err != nil {
		return nil, fmt.Errorf("failed to get task: %w", err)
	}

	markCompleted(existing, c.now())

	updated, err := c.svc.Tasks.Update(taskListID, taskID, existing).Context(ctx).Do()
	if err != nil {
		return nil, fmt.Errorf("failed to complete task: %w", err)
	}

	result := toUpdatedTask(updated)
	return &result, nil
}
