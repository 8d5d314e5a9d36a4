// Package google_tools provides the google_get_current_datetime tool.
//
// Agents have no reliable clock of their own. The tool reports the current
// instant as ISO-8601, epoch values, UTC date and time parts, and two
// renderings in a chosen time zone, so relative requests such as "tomorrow
// at 10" can be turned into absolute timestamps before calling the calendar
// tools.
package google_tools
