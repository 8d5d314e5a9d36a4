package tasks

import (
	"errors"
	"fmt"
	"strings"
	"time"

	tasks "google.golang.org/api/tasks/v1"

	"github.com/teemow/calendar-mcp/internal/datetime"
)

var (
	// ErrMissingRequiredField is returned when a task has no title.
	ErrMissingRequiredField = errors.New("missing required field")

	// ErrInvalidStatus is returned for status values other than needsAction and completed.
	ErrInvalidStatus = errors.New("invalid task status")
)

// BuildTask creates the payload for a task insert. New tasks always start
// as needsAction.
func BuildTask(input TaskInput) (*tasks.Task, error) {
	if strings.TrimSpace(input.Title) == "" {
		return nil, fmt.Errorf("%w: title", ErrMissingRequiredField)
	}

	t := &tasks.Task{
		Title:  input.Title,
		Notes:  input.Notes,
		Status: StatusNeedsAction,
	}

	if input.Due != "" {
		due, err := datetime.ValidateAndNormalize(input.Due)
		if err != nil {
			return nil, fmt.Errorf("due: %w", err)
		}
		t.Due = due
	}

	return t, nil
}

// BuildTaskPatch creates the payload for a sparse task update. Moving a task
// to completed stamps the completion time with now.
func BuildTaskPatch(patch TaskPatch, now time.Time) (*tasks.Task, error) {
	t := &tasks.Task{}

	if v, ok := patch.Title.Get(); ok {
		t.Title = v
		forceIfEmpty(t, "Title", v)
	}
	if v, ok := patch.Notes.Get(); ok {
		t.Notes = v
		forceIfEmpty(t, "Notes", v)
	}
	if v, ok := patch.Due.Get(); ok {
		if v == "" {
			t.ForceSendFields = append(t.ForceSendFields, "Due")
		} else {
			due, err := datetime.ValidateAndNormalize(v)
			if err != nil {
				return nil, fmt.Errorf("due: %w", err)
			}
			t.Due = due
		}
	}
	if v, ok := patch.Status.Get(); ok {
		if err := ValidateStatus(v); err != nil {
			return nil, err
		}
		t.Status = v
		if v == StatusCompleted {
			markCompleted(t, now)
		}
	}

	return t, nil
}

// ValidateStatus accepts the two states a task can be in.
func ValidateStatus(status string) error {
	switch status {
	case StatusNeedsAction, StatusCompleted:
		return nil
	default:
		return fmt.Errorf("%w %q: must be %q or %q", ErrInvalidStatus, status, StatusNeedsAction, StatusCompleted)
	}
}

func markCompleted(t *tasks.Task, now time.Time) {
	completed := now.UTC().Format(datetime.ZuluLayout)
	t.Status = StatusCompleted
	t.Completed = &completed
}

func forceIfEmpty(t *tasks.Task, field, value string) {
	if value == "" {
		t.ForceSendFields = append(t.ForceSendFields, field)
	}
}
