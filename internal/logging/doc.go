// Package logging provides structured logging helpers for calendar-mcp.
//
// Everything logs through log/slog. New builds the process logger, and the
// attribute helpers keep key names identical across packages.
//
// # Usage Patterns
//
//	logger := logging.New(os.Stderr, debug)
//	logger.Error("tool call failed",
//	    logging.Tool("calendar_create_event"),
//	    logging.CalendarID(calendarID),
//	    logging.Err(err))
//
// OAuth secrets never reach the log in clear text:
//
//	logger.Debug("refreshed token", slog.String("access_token", logging.SanitizeToken(tok)))
package logging
