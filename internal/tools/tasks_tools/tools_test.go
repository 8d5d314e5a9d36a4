package tasks_tools

import (
	"context"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/mark3labs/mcp-go/mcp"
	mcpserver "github.com/mark3labs/mcp-go/server"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"google.golang.org/api/option"

	"github.com/teemow/calendar-mcp/internal/calendar"
	"github.com/teemow/calendar-mcp/internal/server"
	"github.com/teemow/calendar-mcp/internal/tasks"
	"github.com/teemow/calendar-mcp/internal/tools/common"
)

var fixedNow = time.Date(2024, 5, 1, 12, 0, 0, 0, time.UTC)

func newTestServerContext(t *testing.T, mux *http.ServeMux) *server.ServerContext {
	t.Helper()
	srv := httptest.NewServer(mux)
	t.Cleanup(srv.Close)

	ctx := context.Background()
	opts := []option.ClientOption{
		option.WithEndpoint(srv.URL + "/"),
		option.WithHTTPClient(srv.Client()),
	}
	cal, err := calendar.NewClient(ctx, opts...)
	require.NoError(t, err)
	tsk, err := tasks.NewClient(ctx, opts...)
	require.NoError(t, err)
	tsk.SetClock(func() time.Time { return fixedNow })

	sc, err := server.NewServerContext(ctx, cal, tsk, nil)
	require.NoError(t, err)
	return sc
}

func writeJSON(t *testing.T, w http.ResponseWriter, v any) {
	t.Helper()
	w.Header().Set("Content-Type", "application/json")
	require.NoError(t, json.NewEncoder(w).Encode(v))
}

func readBody(t *testing.T, r *http.Request) map[string]any {
	t.Helper()
	data, err := io.ReadAll(r.Body)
	require.NoError(t, err)
	var body map[string]any
	require.NoError(t, json.Unmarshal(data, &body))
	return body
}

func callRequest(args map[string]any) mcp.CallToolRequest {
	req := mcp.CallToolRequest{}
	req.Params.Arguments = args
	return req
}

func decode(t *testing.T, result *mcp.CallToolResult, v any) {
	t.Helper()
	require.False(t, result.IsError, common.ResultText(result))
	require.NoError(t, json.Unmarshal([]byte(common.ResultText(result)), v))
}

func TestRegisterTasksTools(t *testing.T) {
	sc := newTestServerContext(t, http.NewServeMux())
	s := mcpserver.NewMCPServer("test", "0.0.0")

	require.NoError(t, RegisterTasksTools(s, sc))

	tools := s.ListTools()
	for _, name := range []string{
		"tasks_list_task_lists",
		"tasks_list_tasks",
		"tasks_create_task",
		"tasks_update_task",
		"tasks_delete_task",
		"tasks_complete_task",
	} {
		assert.Contains(t, tools, name)
	}
	assert.Len(t, tools, 6)

	status := tools["tasks_update_task"].Tool.InputSchema.Properties["status"].(map[string]any)
	assert.Equal(t, []string{"needsAction", "completed"}, status["enum"])

	complete := tools["tasks_complete_task"].Tool
	assert.Contains(t, complete.Description, "Shorthand for tasks_update_task")
	assert.ElementsMatch(t, []string{"taskListId", "taskId"}, complete.InputSchema.Required)
}

func TestHandleListTasks(t *testing.T) {
	tests := []struct {
		name              string
		args              map[string]any
		wantShowCompleted string
		wantMaxResults    string
	}{
		{
			name:              "defaults",
			args:              map[string]any{"taskListId": "list1"},
			wantShowCompleted: "true",
			wantMaxResults:    "100",
		},
		{
			name:              "explicit",
			args:              map[string]any{"taskListId": "list1", "showCompleted": false, "maxResults": 20.0},
			wantShowCompleted: "false",
			wantMaxResults:    "20",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var query map[string][]string
			mux := http.NewServeMux()
			mux.HandleFunc("GET /tasks/v1/lists/{list}/tasks", func(w http.ResponseWriter, r *http.Request) {
				assert.Equal(t, "list1", r.PathValue("list"))
				query = r.URL.Query()
				writeJSON(t, w, map[string]any{"items": []map[string]any{
					{"id": "t1", "title": "Buy milk", "status": "needsAction", "etag": "x"},
				}})
			})
			sc := newTestServerContext(t, mux)

			result, err := handleListTasks(context.Background(), callRequest(tt.args), sc)
			require.NoError(t, err)

			var got []map[string]any
			decode(t, result, &got)
			assert.Equal(t, []map[string]any{{"id": "t1", "title": "Buy milk", "status": "needsAction"}}, got)
			assert.Equal(t, []string{tt.wantShowCompleted}, query["showCompleted"])
			assert.Equal(t, []string{tt.wantMaxResults}, query["maxResults"])
		})
	}
}

func TestHandleListTasks_RequiresTaskList(t *testing.T) {
	sc := newTestServerContext(t, http.NewServeMux())

	result, err := handleListTasks(context.Background(), callRequest(map[string]any{}), sc)
	require.NoError(t, err)
	assert.True(t, result.IsError)
	assert.Equal(t, "taskListId is required", common.ResultText(result))
}

func TestHandleCreateTask(t *testing.T) {
	var body map[string]any
	mux := http.NewServeMux()
	mux.HandleFunc("POST /tasks/v1/lists/{list}/tasks", func(w http.ResponseWriter, r *http.Request) {
		body = readBody(t, r)
		writeJSON(t, w, map[string]any{
			"id":      "t9",
			"title":   body["title"],
			"status":  body["status"],
			"due":     body["due"],
			"updated": "2024-05-01T12:00:00.000Z",
		})
	})
	sc := newTestServerContext(t, mux)

	result, err := handleCreateTask(context.Background(), callRequest(map[string]any{
		"taskListId": "list1",
		"title":      "File taxes",
		"due":        "2024-06-30",
	}), sc)
	require.NoError(t, err)

	var got map[string]any
	decode(t, result, &got)
	assert.Equal(t, map[string]any{
		"id":      "t9",
		"title":   "File taxes",
		"status":  "needsAction",
		"due":     "2024-06-30T00:00:00.000Z",
		"created": "2024-05-01T12:00:00.000Z",
	}, got)
	assert.Equal(t, "needsAction", body["status"])
}

func TestHandleCreateTask_ArgumentFaults(t *testing.T) {
	sc := newTestServerContext(t, http.NewServeMux())

	result, err := handleCreateTask(context.Background(), callRequest(map[string]any{"taskListId": "list1"}), sc)
	require.NoError(t, err)
	assert.True(t, result.IsError)
	assert.Equal(t, "Invalid task: missing required field: title", common.ResultText(result))

	result, err = handleCreateTask(context.Background(), callRequest(map[string]any{"taskListId": "list1", "title": "x", "due": "soon"}), sc)
	require.NoError(t, err)
	assert.True(t, result.IsError)
	assert.Contains(t, common.ResultText(result), "due: invalid timestamp")
}

func TestHandleUpdateTask(t *testing.T) {
	var body map[string]any
	mux := http.NewServeMux()
	mux.HandleFunc("PATCH /tasks/v1/lists/{list}/tasks/{task}", func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "t1", r.PathValue("task"))
		body = readBody(t, r)
		writeJSON(t, w, map[string]any{
			"id":        "t1",
			"title":     "Buy milk",
			"status":    body["status"],
			"completed": body["completed"],
			"updated":   "2024-05-01T12:00:01.000Z",
		})
	})
	sc := newTestServerContext(t, mux)

	result, err := handleUpdateTask(context.Background(), callRequest(map[string]any{
		"taskListId": "list1",
		"taskId":     "t1",
		"status":     "completed",
	}), sc)
	require.NoError(t, err)

	assert.Equal(t, map[string]any{"status": "completed", "completed": "2024-05-01T12:00:00.000Z"}, body)

	var got map[string]any
	decode(t, result, &got)
	assert.Equal(t, "completed", got["status"])
	assert.Equal(t, "2024-05-01T12:00:00.000Z", got["completed"])
}

func TestHandleUpdateTask_ArgumentFaults(t *testing.T) {
	sc := newTestServerContext(t, http.NewServeMux())

	tests := []struct {
		name string
		args map[string]any
		want string
	}{
		{name: "missing task", args: map[string]any{"taskListId": "list1"}, want: "taskId is required"},
		{name: "missing list", args: map[string]any{"taskId": "t1"}, want: "taskListId is required"},
		{name: "bad status", args: map[string]any{"taskListId": "list1", "taskId": "t1", "status": "done"}, want: "invalid task status"},
		{name: "bad title type", args: map[string]any{"taskListId": "list1", "taskId": "t1", "title": 3.0}, want: "title must be a string"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			result, err := handleUpdateTask(context.Background(), callRequest(tt.args), sc)
			require.NoError(t, err)
			assert.True(t, result.IsError)
			assert.Contains(t, common.ResultText(result), tt.want)
		})
	}
}

func TestHandleDeleteTask(t *testing.T) {
	mux := http.NewServeMux()
	mux.HandleFunc("DELETE /tasks/v1/lists/{list}/tasks/{task}", func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusNoContent)
	})
	sc := newTestServerContext(t, mux)

	result, err := handleDeleteTask(context.Background(), callRequest(map[string]any{"taskListId": "list1", "taskId": "t1"}), sc)
	require.NoError(t, err)
	assert.Equal(t, "Task t1 deleted successfully from list list1", common.ResultText(result))
}

func TestHandleCompleteTask(t *testing.T) {
	var put map[string]any
	mux := http.NewServeMux()
	mux.HandleFunc("GET /tasks/v1/lists/{list}/tasks/{task}", func(w http.ResponseWriter, r *http.Request) {
		writeJSON(t, w, map[string]any{"id": "t1", "title": "Buy milk", "notes": "2 litres", "status": "needsAction"})
	})
	mux.HandleFunc("PUT /tasks/v1/lists/{list}/tasks/{task}", func(w http.ResponseWriter, r *http.Request) {
		put = readBody(t, r)
		writeJSON(t, w, put)
	})
	sc := newTestServerContext(t, mux)

	result, err := handleCompleteTask(context.Background(), callRequest(map[string]any{"taskListId": "list1", "taskId": "t1"}), sc)
	require.NoError(t, err)

	assert.Equal(t, "2 litres", put["notes"], "the stored task is written back whole")
	assert.Equal(t, "completed", put["status"])

	var got map[string]any
	decode(t, result, &got)
	assert.Equal(t, "2024-05-01T12:00:00.000Z", got["completed"])
}

func TestHandleListTaskLists_UpstreamError(t *testing.T) {
	mux := http.NewServeMux()
	mux.HandleFunc("GET /tasks/v1/users/@me/lists", func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusForbidden)
		_, _ = io.WriteString(w, `{"error":{"code":403,"message":"Tasks API has not been used"}}`)
	})
	sc := newTestServerContext(t, mux)
	s := mcpserver.NewMCPServer("test", "0.0.0")
	require.NoError(t, RegisterTasksTools(s, sc))

	tool, ok := s.ListTools()["tasks_list_task_lists"]
	require.True(t, ok)

	result, err := tool.Handler(context.Background(), callRequest(nil))
	require.NoError(t, err)
	assert.True(t, result.IsError)
	assert.Equal(t, "Failed to list task lists: Tasks API has not been used", common.ResultText(result))
}
