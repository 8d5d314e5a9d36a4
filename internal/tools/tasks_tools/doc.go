// Package tasks_tools provides MCP tools for managing Google Tasks.
//
// # Available Tools
//
//   - tasks_list_task_lists: List all task lists
//   - tasks_list_tasks: List tasks in a task list
//   - tasks_create_task: Create a new task
//   - tasks_update_task: Update the fields of a task that are provided
//   - tasks_delete_task: Delete a task
//   - tasks_complete_task: Mark a task as completed
//
// tasks_complete_task is an addition to the list, create, update and delete
// tools. It is shorthand for tasks_update_task with status "completed" and
// costs a read plus a write.
//
// Due dates are accepted in any ISO-8601 form and sent upstream in Zulu form.
package tasks_tools
