package common

import (
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"math"
	"strconv"
	"strings"

	"github.com/mark3labs/mcp-go/mcp"
	"google.golang.org/api/googleapi"

	"github.com/teemow/calendar-mcp/internal/logging"
	"github.com/teemow/calendar-mcp/internal/optional"
)

// ErrInvalidArgument is returned for tool arguments of the wrong type or range.
var ErrInvalidArgument = errors.New("invalid argument")

// Argument names that identify the resource a tool acts on.
const (
	ArgCalendarID = "calendarId"
	ArgTaskListID = "taskListId"
)

// StringArg returns the string argument name, or "" when it is absent or not a string.
func StringArg(args map[string]any, name string) string {
	s, _ := args[name].(string)
	return s
}

// RequiredString returns the string argument name. Blank values count as missing.
func RequiredString(args map[string]any, name string) (string, error) {
	s, ok := args[name].(string)
	if !ok || strings.TrimSpace(s) == "" {
		return "", fmt.Errorf("%s is required", name)
	}
	return s, nil
}

// OptionalString returns the argument as a set value when the caller sent a
// string, including the empty string. A JSON null is treated as absent.
func OptionalString(args map[string]any, name string) (optional.Value[string], error) {
	raw, ok := args[name]
	if !ok || raw == nil {
		return optional.None[string](), nil
	}
	s, ok := raw.(string)
	if !ok {
		return optional.None[string](), fmt.Errorf("%w: %s must be a string, got %T", ErrInvalidArgument, name, raw)
	}
	return optional.Of(s), nil
}

// OptionalStringSlice reads an array of strings. An empty array is a set value.
func OptionalStringSlice(args map[string]any, name string) (optional.Value[[]string], error) {
	raw, ok := args[name]
	if !ok || raw == nil {
		return optional.None[[]string](), nil
	}

	switch v := raw.(type) {
	case []string:
		return optional.Of(v), nil
	case []any:
		out := make([]string, 0, len(v))
		for i, item := range v {
			s, ok := item.(string)
			if !ok {
				return optional.None[[]string](), fmt.Errorf("%w: %s[%d] must be a string, got %T", ErrInvalidArgument, name, i, item)
			}
			out = append(out, s)
		}
		return optional.Of(out), nil
	default:
		return optional.None[[]string](), fmt.Errorf("%w: %s must be an array of strings, got %T", ErrInvalidArgument, name, raw)
	}
}

// PositiveIntArg reads a whole number argument, returning fallback when it is absent.
func PositiveIntArg(args map[string]any, name string, fallback int64) (int64, error) {
	raw, ok := args[name]
	if !ok || raw == nil {
		return fallback, nil
	}

	var n float64
	switch v := raw.(type) {
	case float64:
		n = v
	case int:
		n = float64(v)
	case int64:
		n = float64(v)
	case json.Number:
		f, err := v.Float64()
		if err != nil {
			return 0, fmt.Errorf("%w: %s must be a number", ErrInvalidArgument, name)
		}
		n = f
	case string:
		f, err := strconv.ParseFloat(strings.TrimSpace(v), 64)
		if err != nil {
			return 0, fmt.Errorf("%w: %s must be a number", ErrInvalidArgument, name)
		}
		n = f
	default:
		return 0, fmt.Errorf("%w: %s must be a number, got %T", ErrInvalidArgument, name, raw)
	}

	if n != math.Trunc(n) || n < 1 || n > math.MaxInt32 {
		return 0, fmt.Errorf("%w: %s must be a positive integer", ErrInvalidArgument, name)
	}
	return int64(n), nil
}

// BoolArg reads a boolean argument, returning fallback when it is absent.
func BoolArg(args map[string]any, name string, fallback bool) (bool, error) {
	raw, ok := args[name]
	if !ok || raw == nil {
		return fallback, nil
	}
	switch v := raw.(type) {
	case bool:
		return v, nil
	case string:
		b, err := strconv.ParseBool(strings.TrimSpace(v))
		if err != nil {
			return false, fmt.Errorf("%w: %s must be a boolean", ErrInvalidArgument, name)
		}
		return b, nil
	default:
		return false, fmt.Errorf("%w: %s must be a boolean, got %T", ErrInvalidArgument, name, raw)
	}
}

// TargetFromArgs returns the calendar or task list id a call addresses.
func TargetFromArgs(args map[string]any) string {
	if id := StringArg(args, ArgCalendarID); id != "" {
		return id
	}
	return StringArg(args, ArgTaskListID)
}

// UpstreamMessage extracts the human readable message of a Google API error.
// Other errors are reduced to their innermost cause, which drops the
// "failed to <verb>" prefix the clients add.
func UpstreamMessage(err error) string {
	var gerr *googleapi.Error
	if errors.As(err, &gerr) && gerr.Message != "" {
		return gerr.Message
	}
	for next := errors.Unwrap(err); next != nil; next = errors.Unwrap(err) {
		err = next
	}
	return err.Error()
}

// UpstreamErrorResult logs an upstream failure and turns it into a flagged
// result of the form "Failed to <verb>: <message>".
func UpstreamErrorResult(toolName, verb string, err error) *mcp.CallToolResult {
	slog.Error("google api call failed", logging.Tool(toolName), logging.Err(err))
	return mcp.NewToolResultError(fmt.Sprintf("Failed to %s: %s", verb, UpstreamMessage(err)))
}

// JSONResult renders v as indented JSON text.
func JSONResult(v any) (*mcp.CallToolResult, error) {
	data, err := json.MarshalIndent(v, "", "  ")
	if err != nil {
		return nil, fmt.Errorf("failed to encode result: %w", err)
	}
	return mcp.NewToolResultText(string(data)), nil
}

// ResultText joins the text contents of a tool result.
func ResultText(result *mcp.CallToolResult) string {
	if result == nil {
		return ""
	}
	var parts []string
	for _, c := range result.Content {
		if tc, ok := mcp.AsTextContent(c); ok {
			parts = append(parts, tc.Text)
		}
	}
	return strings.Join(parts, "\n")
}
