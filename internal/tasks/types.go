package tasks

import (
	tasks "google.golang.org/api/tasks/v1"

	"github.com/teemow/calendar-mcp/internal/optional"
)

// Task status values accepted by the Tasks API.
const (
	StatusNeedsAction = "needsAction"
	StatusCompleted   = "completed"
)

// TaskList represents a Google Tasks task list
type TaskList struct {
	ID      string `json:"id"`
	Title   string `json:"title,omitempty"`
	Updated string `json:"updated,omitempty"`
}

// Task is the projection returned by task listings
type Task struct {
	ID        string `json:"id"`
	Title     string `json:"title,omitempty"`
	Notes     string `json:"notes,omitempty"`
	Status    string `json:"status,omitempty"` // "needsAction" or "completed"
	Due       string `json:"due,omitempty"`
	Completed string `json:"completed,omitempty"`
	Updated   string `json:"updated,omitempty"`
	Parent    string `json:"parent,omitempty"` // Parent task ID for subtasks
}

// CreatedTask is the projection returned after inserting a task.
type CreatedTask struct {
	ID      string `json:"id"`
	Title   string `json:"title,omitempty"`
	Notes   string `json:"notes,omitempty"`
	Status  string `json:"status,omitempty"`
	Due     string `json:"due,omitempty"`
	Created string `json:"created,omitempty"`
}

// UpdatedTask is the projection returned after modifying a task.
type UpdatedTask struct {
	ID        string `json:"id"`
	Title     string `json:"title,omitempty"`
	Notes     string `json:"notes,omitempty"`
	Status    string `json:"status,omitempty"`
	Due       string `json:"due,omitempty"`
	Completed string `json:"completed,omitempty"`
	Updated   string `json:"updated,omitempty"`
}

// TaskInput represents the input for creating a task
type TaskInput struct {
	Title string
	Notes string
	Due   string // ISO-8601, normalized to Zulu form
}

// TaskPatch is a sparse task update; unset fields are not sent.
type TaskPatch struct {
	Title  optional.Value[string]
	Notes  optional.Value[string]
	Due    optional.Value[string]
	Status optional.Value[string]
}

// toTaskList converts a Google Tasks TaskList to our TaskList type
func toTaskList(tl *tasks.TaskList) TaskList {
	if tl == nil {
		return TaskList{}
	}
	return TaskList{
		ID:      tl.Id,
		Title:   tl.Title,
		Updated: tl.Updated,
	}
}

// toTask converts a Google Tasks Task to our Task type
func toTask(t *tasks.Task) Task {
	if t == nil {
		return Task{}
	}
	return Task{
		ID:        t.Id,
		Title:     t.Title,
		Notes:     t.Notes,
		Status:    t.Status,
		Due:       t.Due,
		Completed: completedOf(t),
		Updated:   t.Updated,
		Parent:    t.Parent,
	}
}

// The Tasks API has no creation timestamp; the first update time stands in for it.
func toCreatedTask(t *tasks.Task) CreatedTask {
	if t == nil {
		return CreatedTask{}
	}
	return CreatedTask{
		ID:      t.Id,
		Title:   t.Title,
		Notes:   t.Notes,
		Status:  t.Status,
		Due:     t.Due,
		Created: t.Updated,
	}
}

func toUpdatedTask(t *tasks.Task) UpdatedTask {
	if t == nil {
		return UpdatedTask{}
	}
	return UpdatedTask{
		ID:        t.Id,
		Title:     t.Title,
		Notes:     t.Notes,
		Status:    t.Status,
		Due:       t.Due,
		Completed: completedOf(t),
		Updated:   t.Updated,
	}
}

func completedOf(t *tasks.Task) string {
	if t.Completed == nil {
		return ""
	}
	return *t.Completed
}
