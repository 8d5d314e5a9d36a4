package google

import (
	calendar "google.golang.org/api/calendar/v3"
	tasks "google.golang.org/api/tasks/v1"
)

// DefaultOAuthScopes are the scopes requested during the consent flow and
// expected on the refresh token.
//
//   - Google Calendar: calendars and events, read and write
//   - Google Tasks: task lists and tasks, read and write
var DefaultOAuthScopes = []string{
	calendar.CalendarScope,
	calendar.CalendarEventsScope,
	tasks.TasksScope,
}
