package tasks

import (
	"encoding/json"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/teemow/calendar-mcp/internal/datetime"
	"github.com/teemow/calendar-mcp/internal/optional"
)

func wireKeys(t *testing.T, v any) map[string]json.RawMessage {
	t.Helper()
	data, err := json.Marshal(v)
	require.NoError(t, err)
	var keys map[string]json.RawMessage
	require.NoError(t, json.Unmarshal(data, &keys))
	return keys
}

func TestBuildTask(t *testing.T) {
	task, err := BuildTask(TaskInput{
		Title: "Write report",
		Notes: "Q4",
		Due:   "2024-12-31T23:59:59+01:00",
	})
	require.NoError(t, err)

	assert.Equal(t, "Write report", task.Title)
	assert.Equal(t, "Q4", task.Notes)
	assert.Equal(t, StatusNeedsAction, task.Status)
	assert.Equal(t, "2024-12-31T22:59:59.000Z", task.Due)
}

func TestBuildTask_NoDue(t *testing.T) {
	task, err := BuildTask(TaskInput{Title: "Call mom"})
	require.NoError(t, err)
	assert.NotContains(t, wireKeys(t, task), "due")
}

func TestBuildTask_Errors(t *testing.T) {
	_, err := BuildTask(TaskInput{Title: " "})
	assert.ErrorIs(t, err, ErrMissingRequiredField)

	_, err = BuildTask(TaskInput{Title: "x", Due: "next week"})
	assert.ErrorIs(t, err, datetime.ErrInvalidTimestamp)
}

func TestBuildTaskPatch(t *testing.T) {
	now := time.Date(2024, 5, 1, 12, 0, 0, 0, time.UTC)

	tests := []struct {
		name     string
		patch    TaskPatch
		wantKeys []string
		check    func(t *testing.T, keys map[string]json.RawMessage)
	}{
		{
			name:     "title only",
			patch:    TaskPatch{Title: optional.Of("Renamed")},
			wantKeys: []string{"title"},
		},
		{
			name:     "clear notes",
			patch:    TaskPatch{Notes: optional.Of("")},
			wantKeys: []string{"notes"},
			check: func(t *testing.T, keys map[string]json.RawMessage) {
				assert.JSONEq(t, `""`, string(keys["notes"]))
			},
		},
		{
			name:     "clear due",
			patch:    TaskPatch{Due: optional.Of("")},
			wantKeys: []string{"due"},
		},
		{
			name:     "completed stamps completion time",
			patch:    TaskPatch{Status: optional.Of(StatusCompleted)},
			wantKeys: []string{"completed", "status"},
			check: func(t *testing.T, keys map[string]json.RawMessage) {
				assert.JSONEq(t, `"2024-05-01T12:00:00.000Z"`, string(keys["completed"]))
			},
		},
		{
			name:     "reopen",
			patch:    TaskPatch{Status: optional.Of(StatusNeedsAction)},
			wantKeys: []string{"status"},
		},
		{
			name:     "nothing",
			patch:    TaskPatch{},
			wantKeys: []string{},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			task, err := BuildTaskPatch(tt.patch, now)
			require.NoError(t, err)

			keys := wireKeys(t, task)
			got := make([]string, 0, len(keys))
			for k := range keys {
				got = append(got, k)
			}
			assert.ElementsMatch(t, tt.wantKeys, got)
			if tt.check != nil {
				tt.check(t, keys)
			}
		})
	}
}

func TestBuildTaskPatch_Errors(t *testing.T) {
	_, err := BuildTaskPatch(TaskPatch{Status: optional.Of("done")}, time.Now())
	assert.ErrorIs(t, err, ErrInvalidStatus)

	_, err = BuildTaskPatch(TaskPatch{Due: optional.Of("someday")}, time.Now())
	assert.ErrorIs(t, err, datetime.ErrInvalidTimestamp)
}
