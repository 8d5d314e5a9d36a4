package google_tools

import (
	"context"
	"time"

	"github.com/mark3labs/mcp-go/mcp"
	mcpserver "github.com/mark3labs/mcp-go/server"

	"github.com/teemow/calendar-mcp/internal/datetime"
	"github.com/teemow/calendar-mcp/internal/server"
	"github.com/teemow/calendar-mcp/internal/tools/common"
)

const toolGetCurrentDatetime = "google_get_current_datetime"

// RegisterGoogleTools registers the tools that need no Google API call
func RegisterGoogleTools(s *mcpserver.MCPServer, sc *server.ServerContext) error {
	getCurrentDatetimeTool := mcp.NewTool(toolGetCurrentDatetime,
		mcp.WithDescription("Get the current date and time in ISO 8601 format. Use it as the reference point before creating or searching events relative to today."),
		mcp.WithString("timezone",
			mcp.Description("IANA time zone for the local representations, e.g. America/New_York or Europe/Madrid (default: Atlantic/Canary)"),
		),
	)

	s.AddTool(getCurrentDatetimeTool, common.InstrumentedToolHandler(
		toolGetCurrentDatetime, sc,
		func(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
			return handleGetCurrentDatetime(ctx, request, time.Now)
		}))

	return nil
}

func handleGetCurrentDatetime(_ context.Context, request mcp.CallToolRequest, now func() time.Time) (*mcp.CallToolResult, error) {
	zone := common.StringArg(request.GetArguments(), "timezone")

	snapshot, err := datetime.NewSnapshot(now(), zone)
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}

	return common.JSONResult(snapshot)
}
