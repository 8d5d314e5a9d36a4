package calendar_tools

import (
	"context"
	"fmt"
	"strings"

	"github.com/mark3labs/mcp-go/mcp"
	mcpserver "github.com/mark3labs/mcp-go/server"

	"github.com/teemow/calendar-mcp/internal/calendar"
	"github.com/teemow/calendar-mcp/internal/datetime"
	"github.com/teemow/calendar-mcp/internal/instrumentation"
	"github.com/teemow/calendar-mcp/internal/optional"
	"github.com/teemow/calendar-mcp/internal/server"
	"github.com/teemow/calendar-mcp/internal/tools/common"
)

const (
	toolListEvents   = "calendar_list_events"
	toolCreateEvent  = "calendar_create_event"
	toolUpdateEvent  = "calendar_update_event"
	toolDeleteEvent  = "calendar_delete_event"
	toolSearchEvents = "calendar_search_events"
)

const (
	calendarIDDescription = "Calendar ID (default: 'primary')"
	timeZoneDescription   = "IANA time zone for the event, e.g. America/New_York or Atlantic/Canary (default: DEFAULT_TIMEZONE, then Atlantic/Canary)"
)

var attendeeItems = mcp.Items(map[string]any{"type": "string", "format": "email"})

// RegisterEventTools registers event-related tools with the MCP server
func RegisterEventTools(s *mcpserver.MCPServer, sc *server.ServerContext) error {
	listEventsTool := mcp.NewTool(toolListEvents,
		mcp.WithDescription("List upcoming calendar events ordered by start time. Recurring events are expanded into single occurrences."),
		mcp.WithString("calendarId",
			mcp.Description(calendarIDDescription),
		),
		mcp.WithString("timeMin",
			mcp.Description("Lower bound for event end time in ISO 8601 format, e.g. 2024-01-01T00:00:00Z (default: now)"),
		),
		mcp.WithString("timeMax",
			mcp.Description("Upper bound for event start time in ISO 8601 format, e.g. 2024-01-31T23:59:59Z"),
		),
		mcp.WithNumber("maxResults",
			mcp.Description("Maximum number of events to return (default: 10)"),
		),
	)

	s.AddTool(listEventsTool, common.InstrumentedToolHandlerWithService(
		toolListEvents, instrumentation.ServiceCalendar, instrumentation.OperationList, sc,
		func(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
			return handleListEvents(ctx, request, sc)
		}))

	createEventTool := mcp.NewTool(toolCreateEvent,
		mcp.WithDescription("Create a new calendar event"),
		mcp.WithString("calendarId",
			mcp.Description(calendarIDDescription),
		),
		mcp.WithString("title",
			mcp.Required(),
			mcp.Description("Event title"),
		),
		mcp.WithString("start",
			mcp.Required(),
			mcp.Description("Start time in ISO 8601 Zulu format, e.g. 2024-12-01T10:00:00Z"),
		),
		mcp.WithString("end",
			mcp.Required(),
			mcp.Description("End time in ISO 8601 Zulu format, e.g. 2024-12-01T11:00:00Z"),
		),
		mcp.WithString("description",
			mcp.Description("Event description"),
		),
		mcp.WithString("location",
			mcp.Description("Event location"),
		),
		mcp.WithArray("attendees",
			mcp.Description("Email addresses of the attendees to invite"),
			attendeeItems,
		),
		mcp.WithString("timeZone",
			mcp.Description(timeZoneDescription),
		),
	)

	s.AddTool(createEventTool, common.InstrumentedToolHandlerWithService(
		toolCreateEvent, instrumentation.ServiceCalendar, instrumentation.OperationCreate, sc,
		func(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
			return handleCreateEvent(ctx, request, sc)
		}))

	updateEventTool := mcp.NewTool(toolUpdateEvent,
		mcp.WithDescription("Update an existing calendar event. Only the fields provided are changed; an empty string clears a text field and an empty attendees list removes all attendees."),
		mcp.WithString("calendarId",
			mcp.Description(calendarIDDescription),
		),
		mcp.WithString("eventId",
			mcp.Required(),
			mcp.Description("The ID of the event to update"),
		),
		mcp.WithString("title",
			mcp.Description("New event title"),
		),
		mcp.WithString("start",
			mcp.Description("New start time in ISO 8601 format, e.g. 2024-12-01T10:00:00Z"),
		),
		mcp.WithString("end",
			mcp.Description("New end time in ISO 8601 format"),
		),
		mcp.WithString("description",
			mcp.Description("New event description"),
		),
		mcp.WithString("location",
			mcp.Description("New event location"),
		),
		mcp.WithArray("attendees",
			mcp.Description("Replacement list of attendee email addresses"),
			attendeeItems,
		),
		mcp.WithString("timeZone",
			mcp.Description(timeZoneDescription),
		),
	)

	s.AddTool(updateEventTool, common.InstrumentedToolHandlerWithService(
		toolUpdateEvent, instrumentation.ServiceCalendar, instrumentation.OperationUpdate, sc,
		func(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
			return handleUpdateEvent(ctx, request, sc)
		}))

	deleteEventTool := mcp.NewTool(toolDeleteEvent,
		mcp.WithDescription("Delete a calendar event"),
		mcp.WithString("calendarId",
			mcp.Description(calendarIDDescription),
		),
		mcp.WithString("eventId",
			mcp.Required(),
			mcp.Description("The ID of the event to delete"),
		),
	)

	s.AddTool(deleteEventTool, common.InstrumentedToolHandlerWithService(
		toolDeleteEvent, instrumentation.ServiceCalendar, instrumentation.OperationDelete, sc,
		func(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
			return handleDeleteEvent(ctx, request, sc)
		}))

	searchEventsTool := mcp.NewTool(toolSearchEvents,
		mcp.WithDescription("Search calendar events by free text in title, description, location and attendees"),
		mcp.WithString("calendarId",
			mcp.Description(calendarIDDescription),
		),
		mcp.WithString("query",
			mcp.Required(),
			mcp.Description("Free text to search for"),
		),
		mcp.WithNumber("maxResults",
			mcp.Description("Maximum number of events to return (default: 10)"),
		),
	)

	s.AddTool(searchEventsTool, common.InstrumentedToolHandlerWithService(
		toolSearchEvents, instrumentation.ServiceCalendar, instrumentation.OperationSearch, sc,
		func(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
			return handleSearchEvents(ctx, request, sc)
		}))

	return nil
}

func handleListEvents(ctx context.Context, request mcp.CallToolRequest, sc *server.ServerContext) (*mcp.CallToolResult, error) {
	args := request.GetArguments()

	opts := calendar.ListEventsOptions{CalendarID: calendarIDFromArgs(args)}

	var err error
	if opts.TimeMin, err = optionalTimestamp(args, "timeMin"); err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}
	if opts.TimeMax, err = optionalTimestamp(args, "timeMax"); err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}
	if opts.MaxResults, err = common.PositiveIntArg(args, "maxResults", calendar.DefaultMaxResults); err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}

	events, err := sc.CalendarClient().ListEvents(ctx, opts)
	if err != nil {
		return common.UpstreamErrorResult(toolListEvents, "list events", err), nil
	}

	return common.JSONResult(events)
}

func handleCreateEvent(ctx context.Context, request mcp.CallToolRequest, sc *server.ServerContext) (*mcp.CallToolResult, error) {
	args := request.GetArguments()

	attendees, err := common.OptionalStringSlice(args, "attendees")
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}

	input := calendar.EventInput{
		Title:       common.StringArg(args, "title"),
		Start:       common.StringArg(args, "start"),
		End:         common.StringArg(args, "end"),
		Description: common.StringArg(args, "description"),
		Location:    common.StringArg(args, "location"),
		Attendees:   attendees.OrElse(nil),
		TimeZone:    common.StringArg(args, "timeZone"),
	}

	event, err := sc.PayloadBuilder().BuildEvent(input)
	if err != nil {
		return mcp.NewToolResultError(fmt.Sprintf("Invalid event: %v", err)), nil
	}

	created, err := sc.CalendarClient().CreateEvent(ctx, calendarIDFromArgs(args), event)
	if err != nil {
		return common.UpstreamErrorResult(toolCreateEvent, "create event", err), nil
	}

	return mcp.NewToolResultText(formatEventResult("Event created successfully:", created, input.Attendees)), nil
}

func handleUpdateEvent(ctx context.Context, request mcp.CallToolRequest, sc *server.ServerContext) (*mcp.CallToolResult, error) {
	args := request.GetArguments()

	eventID, err := common.RequiredString(args, "eventId")
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}

	patch := calendar.EventPatch{TimeZone: common.StringArg(args, "timeZone")}
	fields := []struct {
		name string
		dst  *optional.Value[string]
	}{
		{"title", &patch.Title},
		{"description", &patch.Description},
		{"location", &patch.Location},
		{"start", &patch.Start},
		{"end", &patch.End},
	}
	for _, f := range fields {
		v, err := common.OptionalString(args, f.name)
		if err != nil {
			return mcp.NewToolResultError(err.Error()), nil
		}
		*f.dst = v
	}
	if patch.Attendees, err = common.OptionalStringSlice(args, "attendees"); err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}

	event, err := sc.PayloadBuilder().BuildPatch(patch)
	if err != nil {
		return mcp.NewToolResultError(fmt.Sprintf("Invalid event update: %v", err)), nil
	}

	updated, err := sc.CalendarClient().UpdateEvent(ctx, calendarIDFromArgs(args), eventID, event)
	if err != nil {
		return common.UpstreamErrorResult(toolUpdateEvent, "update event", err), nil
	}

	return mcp.NewToolResultText(formatEventResult("Event updated successfully:", updated, patch.Attendees.OrElse(nil))), nil
}

func handleDeleteEvent(ctx context.Context, request mcp.CallToolRequest, sc *server.ServerContext) (*mcp.CallToolResult, error) {
	args := request.GetArguments()

	eventID, err := common.RequiredString(args, "eventId")
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}

	if err := sc.CalendarClient().DeleteEvent(ctx, calendarIDFromArgs(args), eventID); err != nil {
		return common.UpstreamErrorResult(toolDeleteEvent, "delete event", err), nil
	}

	return mcp.NewToolResultText(fmt.Sprintf("Event %s deleted successfully", eventID)), nil
}

func handleSearchEvents(ctx context.Context, request mcp.CallToolRequest, sc *server.ServerContext) (*mcp.CallToolResult, error) {
	args := request.GetArguments()

	query, err := common.RequiredString(args, "query")
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}

	maxResults, err := common.PositiveIntArg(args, "maxResults", calendar.DefaultMaxResults)
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}

	events, err := sc.CalendarClient().SearchEvents(ctx, calendarIDFromArgs(args), query, maxResults)
	if err != nil {
		return common.UpstreamErrorResult(toolSearchEvents, "search events", err), nil
	}

	return common.JSONResult(events)
}

// optionalTimestamp normalizes an optional timestamp argument; an absent or
// empty argument yields "".
func optionalTimestamp(args map[string]any, name string) (string, error) {
	raw := common.StringArg(args, name)
	if raw == "" {
		return "", nil
	}
	zulu, err := datetime.ValidateAndNormalize(raw)
	if err != nil {
		return "", fmt.Errorf("invalid %s: %w", name, err)
	}
	return zulu, nil
}

// formatEventResult renders the confirmation shown after a create or update.
func formatEventResult(header string, event *calendar.EventSummary, attendees []string) string {
	var b strings.Builder
	b.WriteString(header)
	fmt.Fprintf(&b, "\nID: %s", event.ID)
	fmt.Fprintf(&b, "\nTitle: %s", event.Summary)
	fmt.Fprintf(&b, "\nStart: %s", eventTimeString(event.Start))
	fmt.Fprintf(&b, "\nEnd: %s", eventTimeString(event.End))

	if len(attendees) > 0 {
		trimmed := make([]string, len(attendees))
		for i, a := range attendees {
			trimmed[i] = strings.TrimSpace(a)
		}
		fmt.Fprintf(&b, "\nAttendees: %s", strings.Join(trimmed, ", "))
	}
	return b.String()
}

// eventTimeString prefers the timed value and falls back to the all-day date.
func eventTimeString(t *calendar.EventTime) string {
	if t == nil {
		return ""
	}
	if t.DateTime != "" {
		return t.DateTime
	}
	return t.Date
}
