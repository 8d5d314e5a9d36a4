package common

import (
	"context"
	"errors"
	"log/slog"
	"time"

	"github.com/mark3labs/mcp-go/mcp"
	mcpserver "github.com/mark3labs/mcp-go/server"
	"go.opentelemetry.io/otel/attribute"

	"github.com/teemow/calendar-mcp/internal/instrumentation"
	"github.com/teemow/calendar-mcp/internal/logging"
	"github.com/teemow/calendar-mcp/internal/server"
)

// InstrumentedToolHandler wraps a tool handler that does not call Google with
// a span, tool metrics and audit logging.
//
// Usage:
//
//	s.AddTool(myTool, common.InstrumentedToolHandler("my_tool", sc, handler))
func InstrumentedToolHandler(
	toolName string,
	sc *server.ServerContext,
	handler mcpserver.ToolHandlerFunc,
) mcpserver.ToolHandlerFunc {
	return InstrumentedToolHandlerWithService(toolName, "", "", sc, handler)
}

// InstrumentedToolHandlerWithService is like InstrumentedToolHandler but also
// records the Google service and operation the tool performs.
//
// This handler records both:
//   - MCP tool invocation metrics (mcp_tool_invocations_total, mcp_tool_duration_seconds)
//   - Google API operation metrics (google_api_operations_total, google_api_operation_duration_seconds)
//
// A result flagged with IsError counts as a failure even though the handler
// returned a nil error.
//
// Usage:
//
//	s.AddTool(myTool, common.InstrumentedToolHandlerWithService("calendar_list_events", instrumentation.ServiceCalendar, instrumentation.OperationList, sc, handler))
func InstrumentedToolHandlerWithService(
	toolName string,
	serviceName string,
	operation string,
	sc *server.ServerContext,
	handler mcpserver.ToolHandlerFunc,
) mcpserver.ToolHandlerFunc {
	return func(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
		metrics := sc.Metrics()
		auditLogger := sc.AuditLogger()

		target := TargetFromArgs(request.GetArguments())

		ctx, span := instrumentation.StartToolSpan(ctx, toolName)
		defer span.End()
		if target != "" {
			span.SetAttributes(attribute.String(instrumentation.SpanAttrTarget, instrumentation.TargetLabel(target)))
		}

		start := time.Now()
		invocation := instrumentation.NewToolInvocation(toolName).
			WithSpanContext(ctx).
			WithService(serviceName, operation)
		if target != "" {
			invocation.WithTarget(target)
		}

		result, err := callGoogle(ctx, serviceName, operation, request, handler)
		duration := time.Since(start)

		status := instrumentation.StatusSuccess
		failure := resultError(result, err)
		if failure != nil {
			status = instrumentation.StatusError
			instrumentation.SetSpanError(span, failure)
			invocation.Complete(false, failure)
		} else {
			instrumentation.SetSpanSuccess(span)
			invocation.Complete(true, nil)
		}

		metrics.RecordToolInvocationWithTarget(ctx, toolName, status, target, duration)
		if serviceName != "" {
			metrics.RecordGoogleAPIOperation(ctx, serviceName, operation, status, duration)
		}

		auditLogger.LogToolInvocation(invocation)
		logInvocation(ctx, toolName, serviceName, operation, status, request.GetArguments(), duration)

		return result, err
	}
}

// logInvocation writes a debug line per call. Unlike the audit log it names
// the calendar or task list verbatim, so it is only emitted at debug level.
func logInvocation(ctx context.Context, toolName, serviceName, operation, status string, args map[string]any, duration time.Duration) {
	logger := logging.WithTool(slog.Default(), toolName)
	if !logger.Enabled(ctx, slog.LevelDebug) {
		return
	}

	attrs := []any{logging.Status(status), slog.Duration("duration", duration)}
	if serviceName != "" {
		attrs = append(attrs, logging.Service(serviceName), logging.Operation(operation))
	}
	if id := StringArg(args, ArgCalendarID); id != "" {
		attrs = append(attrs, logging.CalendarID(id))
	}
	if id := StringArg(args, ArgTaskListID); id != "" {
		attrs = append(attrs, logging.TaskListID(id))
	}
	logger.DebugContext(ctx, "tool invoked", attrs...)
}

// callGoogle runs handler inside a client span when the tool talks to a
// Google service.
func callGoogle(
	ctx context.Context,
	serviceName, operation string,
	request mcp.CallToolRequest,
	handler mcpserver.ToolHandlerFunc,
) (*mcp.CallToolResult, error) {
	if serviceName == "" {
		return handler(ctx, request)
	}

	ctx, span := instrumentation.StartGoogleAPISpan(ctx, serviceName, operation)
	defer span.End()

	result, err := handler(ctx, request)
	if failure := resultError(result, err); failure != nil {
		instrumentation.SetSpanError(span, failure)
	} else {
		instrumentation.SetSpanSuccess(span)
	}
	return result, err
}

// resultError returns err, or the text of a flagged result as an error, or nil.
func resultError(result *mcp.CallToolResult, err error) error {
	if err != nil {
		return err
	}
	if result == nil || !result.IsError {
		return nil
	}
	if text := ResultText(result); text != "" {
		return errors.New(text)
	}
	return errors.New("tool returned an error result")
}
