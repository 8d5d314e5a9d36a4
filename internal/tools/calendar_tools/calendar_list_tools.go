package calendar_tools

import (
	"context"

	"github.com/mark3labs/mcp-go/mcp"
	mcpserver "github.com/mark3labs/mcp-go/server"

	"github.com/teemow/calendar-mcp/internal/instrumentation"
	"github.com/teemow/calendar-mcp/internal/server"
	"github.com/teemow/calendar-mcp/internal/tools/common"
)

const toolListCalendars = "calendar_list_calendars"

// RegisterCalendarListTools registers calendar list tools with the MCP server
func RegisterCalendarListTools(s *mcpserver.MCPServer, sc *server.ServerContext) error {
	listCalendarsTool := mcp.NewTool(toolListCalendars,
		mcp.WithDescription("List all calendars accessible to the user, with their IDs, time zones and access roles"),
	)

	s.AddTool(listCalendarsTool, common.InstrumentedToolHandlerWithService(
		toolListCalendars, instrumentation.ServiceCalendar, instrumentation.OperationList, sc,
		func(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
			return handleListCalendars(ctx, request, sc)
		}))

	return nil
}

func handleListCalendars(ctx context.Context, _ mcp.CallToolRequest, sc *server.ServerContext) (*mcp.CallToolResult, error) {
	calendars, err := sc.CalendarClient().ListCalendars(ctx)
	if err != nil {
		return common.UpstreamErrorResult(toolListCalendars, "list calendars", err), nil
	}

	return common.JSONResult(calendars)
}
