package calendar

import (
	"context"
	"fmt"
	"time"

	calendar "google.golang.org/api/calendar/v3"
	"google.golang.org/api/option"

	"github.com/teemow/calendar-mcp/internal/datetime"
)

const (
	// PrimaryCalendarID addresses the authenticated user's main calendar.
	PrimaryCalendarID = "primary"

	// DefaultMaxResults bounds listings and searches when the caller sets no limit.
	DefaultMaxResults = 10
)

// Client wraps the Google Calendar service
type Client struct {
	svc *calendar.Service
	now func() time.Time
}

// NewClient creates a Calendar client. Authentication is supplied through
// opts, typically option.WithHTTPClient with an OAuth2 client.
func NewClient(ctx context.Context, opts ...option.ClientOption) (*Client, error) {
	svc, err := calendar.NewService(ctx, opts...)
	if err != nil {
		return nil, fmt.Errorf("failed to create Calendar service: %w", err)
	}
	return &Client{svc: svc, now: time.Now}, nil
}

// SetClock replaces the clock used for the default timeMin of ListEvents.
func (c *Client) SetClock(now func() time.Time) {
	c.now = now
}

// ListEvents lists single (expanded) events ordered by start time.
func (c *Client) ListEvents(ctx context.Context, opts ListEventsOptions) ([]EventSummary, error) {
	timeMin := opts.TimeMin
	if timeMin == "" {
		timeMin = c.now().UTC().Format(datetime.ZuluLayout)
	}

	call := c.svc.Events.List(calendarIDOrPrimary(opts.CalendarID)).
		TimeMin(timeMin).
		MaxResults(maxResultsOrDefault(opts.MaxResults)).
		SingleEvents(true).
		OrderBy("startTime")

	if opts.TimeMax != "" {
		call = call.TimeMax(opts.TimeMax)
	}

	events, err := call.Context(ctx).Do()
	if err != nil {
		return nil, fmt.Errorf("failed to list events: %w", err)
	}

	summaries := make([]EventSummary, 0, len(events.Items))
	for _, event := range events.Items {
		summaries = append(summaries, toEventSummary(event))
	}
	return summaries, nil
}

// SearchEvents runs a free-text search over a calendar's events.
func (c *Client) SearchEvents(ctx context.Context, calendarID, query string, maxResults int64) ([]EventMatch, error) {
	events, err := c.svc.Events.List(calendarIDOrPrimary(calendarID)).
		Q(query).
		MaxResults(maxResultsOrDefault(maxResults)).
		SingleEvents(true).
		OrderBy("startTime").
		Context(ctx).
		Do()
	if err != nil {
		return nil, fmt.Errorf("failed to search events: %w", err)
	}

	matches := make([]EventMatch, 0, len(events.Items))
	for _, event := range events.Items {
		matches = append(matches, toEventMatch(event))
	}
	return matches, nil
}

// CreateEvent inserts a new event built by a PayloadBuilder
func (c *Client) CreateEvent(ctx context.Context, calendarID string, event *calendar.Event) (*EventSummary, error) {
	created, err := c.svc.Events.Insert(calendarIDOrPrimary(calendarID), event).Context(ctx).Do()
	if err != nil {
		return nil, fmt.Errorf("failed to create event: %w", err)
	}

	summary := toEventSummary(created)
	return &summary, nil
}

// UpdateEvent applies a sparse patch to an existing event. Fields absent from
// the patch keep their stored values.
func (c *Client) UpdateEvent(ctx context.Context, calendarID, eventID string, patch *calendar.Event) (*EventSummary, error) {
	updated, err := c.svc.Events.Patch(calendarIDOrPrimary(calendarID), eventID, patch).Context(ctx).Do()
	if err != nil {
		return nil, fmt.Errorf("failed to update event: %w", err)
	}

	summary := toEventSummary(updated)
	return &summary, nil
}

// DeleteEvent deletes a calendar event
func (c *Client) DeleteEvent(ctx context.Context, calendarID, eventID string) error {
	if err := c.svc.Events.Delete(calendarIDOrPrimary(calendarID), eventID).Context(ctx).Do(); err != nil {
		return fmt.Errorf("failed to delete event: %w", err)
	}
	return nil
}

// ListCalendars lists all calendars the user has access to
func (c *Client) ListCalendars(ctx context.Context) ([]CalendarInfo, error) {
	list, err := c.svc.CalendarList.List().Context(ctx).Do()
	if err != nil {
		return nil, fmt.Errorf("failed to list calendars: %w", err)
	}

	calendars := make([]CalendarInfo, 0, len(list.Items))
	for _, entry := range list.Items {
		calendars = append(calendars, toCalendarInfo(entry))
	}
	return calendars, nil
}

func calendarIDOrPrimary(id string) string {
	if id == "" {
		return PrimaryCalendarID
	}
	return id
}

func maxResultsOrDefault(n int64) int64 {
	if n <= 0 {
		return DefaultMaxResults
	}
	return n
}
