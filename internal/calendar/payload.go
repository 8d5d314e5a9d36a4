package calendar

import (
	"errors"
	"fmt"
	"net/mail"
	"strings"

	calendar "google.golang.org/api/calendar/v3"

	"github.com/teemow/calendar-mcp/internal/datetime"
)

// ResponseStatusNeedsAction is the response status given to new attendees.
const ResponseStatusNeedsAction = "needsAction"

var (
	// ErrMissingRequiredField is returned when a create request lacks title, start or end.
	ErrMissingRequiredField = errors.New("missing required field")

	// ErrInvalidAttendee is returned for attendee entries that are not email addresses.
	ErrInvalidAttendee = errors.New("invalid attendee email")
)

// PayloadBuilder turns tool input into Calendar API event objects.
type PayloadBuilder struct {
	defaultTimeZone string
}

// NewPayloadBuilder returns a builder that falls back to defaultTimeZone when
// a request carries no zone of its own. An empty defaultTimeZone falls back
// to datetime.FallbackTimeZone.
func NewPayloadBuilder(defaultTimeZone string) *PayloadBuilder {
	return &PayloadBuilder{defaultTimeZone: strings.TrimSpace(defaultTimeZone)}
}

// DefaultTimeZone returns the zone used when a request names none.
func (b *PayloadBuilder) DefaultTimeZone() string {
	return datetime.ResolveZone("", b.defaultTimeZone)
}

// ResolveTimeZone picks override, then the configured default, then the
// fallback zone, and checks that the result is a known IANA zone.
func (b *PayloadBuilder) ResolveTimeZone(override string) (string, error) {
	zone := datetime.ResolveZone(override, b.defaultTimeZone)
	if _, err := datetime.LoadZone(zone); err != nil {
		return "", err
	}
	return zone, nil
}

// BuildEvent creates the payload for an event insert.
func (b *PayloadBuilder) BuildEvent(input EventInput) (*calendar.Event, error) {
	var missing []string
	if strings.TrimSpace(input.Title) == "" {
		missing = append(missing, "title")
	}
	if strings.TrimSpace(input.Start) == "" {
		missing = append(missing, "start")
	}
	if strings.TrimSpace(input.End) == "" {
		missing = append(missing, "end")
	}
	if len(missing) > 0 {
		return nil, fmt.Errorf("%w: %s", ErrMissingRequiredField, strings.Join(missing, ", "))
	}

	zone, err := b.ResolveTimeZone(input.TimeZone)
	if err != nil {
		return nil, err
	}

	start, err := eventDateTime(input.Start, zone)
	if err != nil {
		return nil, fmt.Errorf("start: %w", err)
	}
	end, err := eventDateTime(input.End, zone)
	if err != nil {
		return nil, fmt.Errorf("end: %w", err)
	}

	event := &calendar.Event{
		Summary:     input.Title,
		Description: input.Description,
		Location:    input.Location,
		Start:       start,
		End:         end,
	}

	if len(input.Attendees) > 0 {
		attendees, err := buildAttendees(input.Attendees)
		if err != nil {
			return nil, err
		}
		event.Attendees = attendees
	}

	return event, nil
}

// BuildPatch creates the payload for a sparse event update. Only fields set
// in patch appear in the result; empty strings are forced onto the wire so
// they clear the stored value.
func (b *PayloadBuilder) BuildPatch(patch EventPatch) (*calendar.Event, error) {
	event := &calendar.Event{}

	if v, ok := patch.Title.Get(); ok {
		event.Summary = v
		forceIfEmpty(event, "Summary", v)
	}
	if v, ok := patch.Description.Get(); ok {
		event.Description = v
		forceIfEmpty(event, "Description", v)
	}
	if v, ok := patch.Location.Get(); ok {
		event.Location = v
		forceIfEmpty(event, "Location", v)
	}

	if patch.Start.IsSet() || patch.End.IsSet() {
		zone, err := b.ResolveTimeZone(patch.TimeZone)
		if err != nil {
			return nil, err
		}
		if v, ok := patch.Start.Get(); ok {
			start, err := eventDateTime(v, zone)
			if err != nil {
				return nil, fmt.Errorf("start: %w", err)
			}
			event.Start = start
		}
		if v, ok := patch.End.Get(); ok {
			end, err := eventDateTime(v, zone)
			if err != nil {
				return nil, fmt.Errorf("end: %w", err)
			}
			event.End = end
		}
	}

	if emails, ok := patch.Attendees.Get(); ok {
		attendees, err := buildAttendees(emails)
		if err != nil {
			return nil, err
		}
		event.Attendees = attendees
		if len(attendees) == 0 {
			event.ForceSendFields = append(event.ForceSendFields, "Attendees")
		}
	}

	return event, nil
}

func eventDateTime(value, zone string) (*calendar.EventDateTime, error) {
	normalized, err := datetime.ValidateAndNormalize(value)
	if err != nil {
		return nil, err
	}
	return &calendar.EventDateTime{
		DateTime: normalized,
		TimeZone: zone,
	}, nil
}

// buildAttendees trims each address and marks it as awaiting a response.
func buildAttendees(emails []string) ([]*calendar.EventAttendee, error) {
	attendees := make([]*calendar.EventAttendee, 0, len(emails))
	for _, raw := range emails {
		email := strings.TrimSpace(raw)
		addr, err := mail.ParseAddress(email)
		if err != nil || addr.Address != email {
			return nil, fmt.Errorf("%w: %q", ErrInvalidAttendee, raw)
		}
		attendees = append(attendees, &calendar.EventAttendee{
			Email:          email,
			ResponseStatus: ResponseStatusNeedsAction,
		})
	}
	return attendees, nil
}

func forceIfEmpty(event *calendar.Event, field, value string) {
	if value == "" {
		event.ForceSendFields = append(event.ForceSendFields, field)
	}
}
