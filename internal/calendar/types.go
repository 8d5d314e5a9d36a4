package calendar

import (
	calendar "google.golang.org/api/calendar/v3"

	"github.com/teemow/calendar-mcp/internal/optional"
)

// EventInput is the input for creating a calendar event. Start and End are
// ISO-8601 timestamps; they are normalized to Zulu form before sending.
type EventInput struct {
	Title       string
	Start       string
	End         string
	Description string
	Location    string
	Attendees   []string

	// TimeZone overrides the configured default zone for this event only.
	TimeZone string
}

// EventPatch is a sparse update. Fields left as optional.None are not sent,
// fields set to an empty value overwrite the stored value.
type EventPatch struct {
	Title       optional.Value[string]
	Description optional.Value[string]
	Location    optional.Value[string]
	Start       optional.Value[string]
	End         optional.Value[string]
	Attendees   optional.Value[[]string]

	// TimeZone overrides the configured default zone for Start and End.
	TimeZone string
}

// ListEventsOptions controls ListEvents.
type ListEventsOptions struct {
	CalendarID string
	// TimeMin and TimeMax are Zulu timestamps. An empty TimeMin means now.
	TimeMin    string
	TimeMax    string
	MaxResults int64
}

// EventTime mirrors the start/end object of an event.
type EventTime struct {
	DateTime string `json:"dateTime,omitempty"`
	Date     string `json:"date,omitempty"`
	TimeZone string `json:"timeZone,omitempty"`
}

// EventSummary is the stable projection of an event returned by listings.
type EventSummary struct {
	ID          string     `json:"id"`
	Summary     string     `json:"summary,omitempty"`
	Description string     `json:"description,omitempty"`
	Location    string     `json:"location,omitempty"`
	Start       *EventTime `json:"start,omitempty"`
	End         *EventTime `json:"end,omitempty"`
	Status      string     `json:"status,omitempty"`
}

// EventMatch is the projection of an event returned by a text search.
type EventMatch struct {
	ID          string     `json:"id"`
	Summary     string     `json:"summary,omitempty"`
	Description string     `json:"description,omitempty"`
	Location    string     `json:"location,omitempty"`
	Start       *EventTime `json:"start,omitempty"`
	End         *EventTime `json:"end,omitempty"`
}

// CalendarInfo represents a calendar of the authenticated user
type CalendarInfo struct {
	ID          string `json:"id"`
	Summary     string `json:"summary,omitempty"`
	Description string `json:"description,omitempty"`
	TimeZone    string `json:"timeZone,omitempty"`
	AccessRole  string `json:"accessRole,omitempty"` // "owner", "writer", "reader", "freeBusyReader"
}

func toEventTime(dt *calendar.EventDateTime) *EventTime {
	if dt == nil {
		return nil
	}
	return &EventTime{
		DateTime: dt.DateTime,
		Date:     dt.Date,
		TimeZone: dt.TimeZone,
	}
}

// toEventSummary converts a Google Calendar event to an EventSummary
func toEventSummary(event *calendar.Event) EventSummary {
	if event == nil {
		return EventSummary{}
	}
	return EventSummary{
		ID:          event.Id,
		Summary:     event.Summary,
		Description: event.Description,
		Location:    event.Location,
		Start:       toEventTime(event.Start),
		End:         toEventTime(event.End),
		Status:      event.Status,
	}
}

func toEventMatch(event *calendar.Event) EventMatch {
	if event == nil {
		return EventMatch{}
	}
	return EventMatch{
		ID:          event.Id,
		Summary:     event.Summary,
		Description: event.Description,
		Location:    event.Location,
		Start:       toEventTime(event.Start),
		End:         toEventTime(event.End),
	}
}

// toCalendarInfo converts a Google Calendar list entry to CalendarInfo
func toCalendarInfo(entry *calendar.CalendarListEntry) CalendarInfo {
	if entry == nil {
		return CalendarInfo{}
	}
	return CalendarInfo{
		ID:          entry.Id,
		Summary:     entry.Summary,
		Description: entry.Description,
		TimeZone:    entry.TimeZone,
		AccessRole:  entry.AccessRole,
	}
}
