// Package tasks provides a client for managing Google Tasks.
//
// This package wraps the Google Tasks API (tasks/v1) and provides functionality for:
//   - Listing task lists
//   - Listing, creating, updating, completing and deleting tasks
//   - Building sparse update payloads from optional tool arguments
//
// Due dates are normalized to Zulu form before they are sent, and a task
// moved to completed gets its completion time stamped locally.
//
// # Example Usage
//
//	client, err := tasks.NewClient(ctx, option.WithHTTPClient(httpClient))
//	if err != nil {
//	    return err
//	}
//
//	lists, err := client.ListTaskLists(ctx)
//	if err != nil {
//	    return err
//	}
//
//	payload, err := tasks.BuildTask(tasks.TaskInput{
//	    Title: "Complete project",
//	    Due:   "2024-12-31T23:59:59Z",
//	})
//	if err != nil {
//	    return err
//	}
//	task, err := client.CreateTask(ctx, lists[0].ID, payload)
//
//	// Later
//	completed, err := client.CompleteTask(ctx, lists[0].ID, task.ID)
package tasks
