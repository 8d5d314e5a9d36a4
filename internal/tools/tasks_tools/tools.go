package tasks_tools

import (
	"context"
	"fmt"

	"github.com/mark3labs/mcp-go/mcp"
	mcpserver "github.com/mark3labs/mcp-go/server"

	"github.com/teemow/calendar-mcp/internal/instrumentation"
	"github.com/teemow/calendar-mcp/internal/server"
	"github.com/teemow/calendar-mcp/internal/tasks"
	"github.com/teemow/calendar-mcp/internal/tools/common"
)

const (
	toolListTaskLists = "tasks_list_task_lists"
	toolListTasks     = "tasks_list_tasks"
	toolCreateTask    = "tasks_create_task"
	toolUpdateTask    = "tasks_update_task"
	toolDeleteTask    = "tasks_delete_task"
	toolCompleteTask  = "tasks_complete_task"
)

// RegisterTasksTools registers all Tasks-related tools with the MCP server
func RegisterTasksTools(s *mcpserver.MCPServer, sc *server.ServerContext) error {
	if err := registerTaskListTools(s, sc); err != nil {
		return fmt.Errorf("failed to register task list tools: %w", err)
	}

	if err := registerTaskTools(s, sc); err != nil {
		return fmt.Errorf("failed to register task tools: %w", err)
	}

	return nil
}

// registerTaskListTools registers task list tools
func registerTaskListTools(s *mcpserver.MCPServer, sc *server.ServerContext) error {
	listTaskListsTool := mcp.NewTool(toolListTaskLists,
		mcp.WithDescription("List all task lists for the authenticated user"),
	)

	s.AddTool(listTaskListsTool, common.InstrumentedToolHandlerWithService(
		toolListTaskLists, instrumentation.ServiceTasks, instrumentation.OperationList, sc,
		func(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
			lists, err := sc.TasksClient().ListTaskLists(ctx)
			if err != nil {
				return common.UpstreamErrorResult(toolListTaskLists, "list task lists", err), nil
			}
			return common.JSONResult(lists)
		}))

	return nil
}

// registerTaskTools registers task management tools
func registerTaskTools(s *mcpserver.MCPServer, sc *server.ServerContext) error {
	listTasksTool := mcp.NewTool(toolListTasks,
		mcp.WithDescription("List tasks in a task list"),
		mcp.WithString("taskListId",
			mcp.Required(),
			mcp.Description("The ID of the task list"),
		),
		mcp.WithBoolean("showCompleted",
			mcp.Description("Include completed tasks (default: true)"),
		),
		mcp.WithNumber("maxResults",
			mcp.Description("Maximum number of tasks to return (default: 100)"),
		),
	)

	s.AddTool(listTasksTool, common.InstrumentedToolHandlerWithService(
		toolListTasks, instrumentation.ServiceTasks, instrumentation.OperationList, sc,
		func(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
			return handleListTasks(ctx, request, sc)
		}))

	createTaskTool := mcp.NewTool(toolCreateTask,
		mcp.WithDescription("Create a new task in a task list"),
		mcp.WithString("taskListId",
			mcp.Required(),
			mcp.Description("The ID of the task list"),
		),
		mcp.WithString("title",
			mcp.Required(),
			mcp.Description("Task title"),
		),
		mcp.WithString("notes",
			mcp.Description("Notes or description for the task"),
		),
		mcp.WithString("due",
			mcp.Description("Due date in ISO 8601 format, e.g. 2024-12-01T00:00:00Z"),
		),
	)

	s.AddTool(createTaskTool, common.InstrumentedToolHandlerWithService(
		toolCreateTask, instrumentation.ServiceTasks, instrumentation.OperationCreate, sc,
		func(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
			return handleCreateTask(ctx, request, sc)
		}))

	updateTaskTool := mcp.NewTool(toolUpdateTask,
		mcp.WithDescription("Update a task. Only the fields provided are changed."),
		mcp.WithString("taskListId",
			mcp.Required(),
			mcp.Description("The ID of the task list"),
		),
		mcp.WithString("taskId",
			mcp.Required(),
			mcp.Description("The ID of the task to update"),
		),
		mcp.WithString("title",
			mcp.Description("New task title"),
		),
		mcp.WithString("notes",
			mcp.Description("New notes for the task"),
		),
		mcp.WithString("due",
			mcp.Description("New due date in ISO 8601 format; an empty string clears it"),
		),
		mcp.WithString("status",
			mcp.Description("New task status"),
			mcp.Enum(tasks.StatusNeedsAction, tasks.StatusCompleted),
		),
	)

	s.AddTool(updateTaskTool, common.InstrumentedToolHandlerWithService(
		toolUpdateTask, instrumentation.ServiceTasks, instrumentation.OperationUpdate, sc,
		func(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
			return handleUpdateTask(ctx, request, sc)
		}))

	deleteTaskTool := mcp.NewTool(toolDeleteTask,
		mcp.WithDescription("Delete a task"),
		mcp.WithString("taskListId",
			mcp.Required(),
			mcp.Description("The ID of the task list"),
		),
		mcp.WithString("taskId",
			mcp.Required(),
			mcp.Description("The ID of the task to delete"),
		),
	)

	s.AddTool(deleteTaskTool, common.InstrumentedToolHandlerWithService(
		toolDeleteTask, instrumentation.ServiceTasks, instrumentation.OperationDelete, sc,
		func(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
			return handleDeleteTask(ctx, request, sc)
		}))

	completeTaskTool := mcp.NewTool(toolCompleteTask,
		mcp.WithDescription("Mark a task as completed. Shorthand for tasks_update_task with status \"completed\": the task is read and written back with the completed status"),
		mcp.WithString("taskListId",
			mcp.Required(),
			mcp.Description("The ID of the task list"),
		),
		mcp.WithString("taskId",
			mcp.Required(),
			mcp.Description("The ID of the task to complete"),
		),
	)

	s.AddTool(completeTaskTool, common.InstrumentedToolHandlerWithService(
		toolCompleteTask, instrumentation.ServiceTasks, instrumentation.OperationComplete, sc,
		func(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
			return handleCompleteTask(ctx, request, sc)
		}))

	return nil
}

func handleListTasks(ctx context.Context, request mcp.CallToolRequest, sc *server.ServerContext) (*mcp.CallToolResult, error) {
	args := request.GetArguments()

	taskListID, err := common.RequiredString(args, common.ArgTaskListID)
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}

	showCompleted, err := common.BoolArg(args, "showCompleted", true)
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}

	maxResults, err := common.PositiveIntArg(args, "maxResults", tasks.DefaultMaxResults)
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}

	list, err := sc.TasksClient().ListTasks(ctx, taskListID, showCompleted, maxResults)
	if err != nil {
		return common.UpstreamErrorResult(toolListTasks, "list tasks", err), nil
	}

	return common.JSONResult(list)
}

func handleCreateTask(ctx context.Context, request mcp.CallToolRequest, sc *server.ServerContext) (*mcp.CallToolResult, error) {
	args := request.GetArguments()

	taskListID, err := common.RequiredString(args, common.ArgTaskListID)
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}

	task, err := tasks.BuildTask(tasks.TaskInput{
		Title: common.StringArg(args, "title"),
		Notes: common.StringArg(args, "notes"),
		Due:   common.StringArg(args, "due"),
	})
	if err != nil {
		return mcp.NewToolResultError(fmt.Sprintf("Invalid task: %v", err)), nil
	}

	created, err := sc.TasksClient().CreateTask(ctx, taskListID, task)
	if err != nil {
		return common.UpstreamErrorResult(toolCreateTask, "create task", err), nil
	}

	return common.JSONResult(created)
}

func handleUpdateTask(ctx context.Context, request mcp.CallToolRequest, sc *server.ServerContext) (*mcp.CallToolResult, error) {
	args := request.GetArguments()

	taskListID, taskID, err := taskRef(args)
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}

	var patch tasks.TaskPatch
	if patch.Title, err = common.OptionalString(args, "title"); err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}
	if patch.Notes, err = common.OptionalString(args, "notes"); err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}
	if patch.Due, err = common.OptionalString(args, "due"); err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}
	if patch.Status, err = common.OptionalString(args, "status"); err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}

	client := sc.TasksClient()
	task, err := tasks.BuildTaskPatch(patch, client.Now())
	if err != nil {
		return mcp.NewToolResultError(fmt.Sprintf("Invalid task update: %v", err)), nil
	}

	updated, err := client.UpdateTask(ctx, taskListID, taskID, task)
	if err != nil {
		return common.UpstreamErrorResult(toolUpdateTask, "update task", err), nil
	}

	return common.JSONResult(updated)
}

func handleDeleteTask(ctx context.Context, request mcp.CallToolRequest, sc *server.ServerContext) (*mcp.CallToolResult, error) {
	taskListID, taskID, err := taskRef(request.GetArguments())
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}

	if err := sc.TasksClient().DeleteTask(ctx, taskListID, taskID); err != nil {
		return common.UpstreamErrorResult(toolDeleteTask, "delete task", err), nil
	}

	return mcp.NewToolResultText(fmt.Sprintf("Task %s deleted successfully from list %s", taskID, taskListID)), nil
}

func handleCompleteTask(ctx context.Context, request mcp.CallToolRequest, sc *server.ServerContext) (*mcp.CallToolResult, error) {
	taskListID, taskID, err := taskRef(request.GetArguments())
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}

	completed, err := sc.TasksClient().CompleteTask(ctx, taskListID, taskID)
	if err != nil {
		return common.UpstreamErrorResult(toolCompleteTask, "complete task", err), nil
	}

	return common.JSONResult(completed)
}

// taskRef reads the required taskListId and taskId pair.
func taskRef(args map[string]any) (string, string, error) {
	taskListID, err := common.RequiredString(args, common.ArgTaskListID)
	if err != nil {
		return "", "", err
	}
	taskID, err := common.RequiredString(args, "taskId")
	if err != nil {
		return "", "", err
	}
	return taskListID, taskID, nil
}
