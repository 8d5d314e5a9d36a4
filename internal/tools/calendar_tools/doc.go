// Package calendar_tools provides MCP (Model Context Protocol) tools for Google Calendar operations.
//
// The tools list, search, create, update and delete events and list the
// user's calendars. Every tool accepts an optional calendarId that defaults
// to the primary calendar. Timestamps are accepted in any ISO-8601 form and
// sent upstream in Zulu form; start and end carry the event time zone, which
// is the timeZone argument, then the configured default, then Atlantic/Canary.
package calendar_tools
