package calendar

import (
	"context"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	calendar "google.golang.org/api/calendar/v3"
	"google.golang.org/api/option"

	"github.com/teemow/calendar-mcp/internal/optional"
)

func newTestClient(t *testing.T, mux *http.ServeMux) *Client {
	t.Helper()
	srv := httptest.NewServer(mux)
	t.Cleanup(srv.Close)

	client, err := NewClient(context.Background(),
		option.WithEndpoint(srv.URL+"/"),
		option.WithHTTPClient(srv.Client()),
	)
	require.NoError(t, err)
	return client
}

func writeJSON(t *testing.T, w http.ResponseWriter, v any) {
	t.Helper()
	w.Header().Set("Content-Type", "application/json")
	require.NoError(t, json.NewEncoder(w).Encode(v))
}

func TestClient_ListEvents_Defaults(t *testing.T) {
	var query map[string][]string
	mux := http.NewServeMux()
	mux.HandleFunc("GET /calendars/{calendarId}/events", func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "primary", r.PathValue("calendarId"))
		query = r.URL.Query()
		writeJSON(t, w, map[string]any{
			"items": []map[string]any{
				{
					"id":          "evt1",
					"summary":     "Standup",
					"status":      "confirmed",
					"htmlLink":    "https://calendar.google.com/evt1",
					"start":       map[string]any{"dateTime": "2024-01-01T10:00:00Z"},
					"end":         map[string]any{"dateTime": "2024-01-01T10:15:00Z"},
					"description": "daily",
				},
			},
		})
	})

	client := newTestClient(t, mux)
	fixed := time.Date(2024, 1, 1, 8, 0, 0, 0, time.UTC)
	client.SetClock(func() time.Time { return fixed })

	events, err := client.ListEvents(context.Background(), ListEventsOptions{})
	require.NoError(t, err)

	assert.Equal(t, []string{"2024-01-01T08:00:00.000Z"}, query["timeMin"])
	assert.Equal(t, []string{"10"}, query["maxResults"])
	assert.Equal(t, []string{"true"}, query["singleEvents"])
	assert.Equal(t, []string{"startTime"}, query["orderBy"])
	assert.NotContains(t, query, "timeMax")

	require.Len(t, events, 1)
	assert.Equal(t, EventSummary{
		ID:          "evt1",
		Summary:     "Standup",
		Description: "daily",
		Status:      "confirmed",
		Start:       &EventTime{DateTime: "2024-01-01T10:00:00Z"},
		End:         &EventTime{DateTime: "2024-01-01T10:15:00Z"},
	}, events[0])
}

func TestClient_ListEvents_Explicit(t *testing.T) {
	var query map[string][]string
	mux := http.NewServeMux()
	mux.HandleFunc("GET /calendars/{calendarId}/events", func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "team@group.calendar.google.com", r.PathValue("calendarId"))
		query = r.URL.Query()
		writeJSON(t, w, map[string]any{"items": []any{}})
	})

	client := newTestClient(t, mux)
	events, err := client.ListEvents(context.Background(), ListEventsOptions{
		CalendarID: "team@group.calendar.google.com",
		TimeMin:    "2024-01-01T00:00:00Z",
		TimeMax:    "2024-01-31T23:59:59Z",
		MaxResults: 5,
	})
	require.NoError(t, err)
	assert.Empty(t, events)
	assert.NotNil(t, events)

	assert.Equal(t, []string{"2024-01-01T00:00:00Z"}, query["timeMin"])
	assert.Equal(t, []string{"2024-01-31T23:59:59Z"}, query["timeMax"])
	assert.Equal(t, []string{"5"}, query["maxResults"])
}

func TestClient_SearchEvents(t *testing.T) {
	mux := http.NewServeMux()
	mux.HandleFunc("GET /calendars/{calendarId}/events", func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "dentist", r.URL.Query().Get("q"))
		assert.Equal(t, "10", r.URL.Query().Get("maxResults"))
		writeJSON(t, w, map[string]any{
			"items": []map[string]any{{"id": "d1", "summary": "Dentist", "status": "confirmed"}},
		})
	})

	matches, err := newTestClient(t, mux).SearchEvents(context.Background(), "", "dentist", 0)
	require.NoError(t, err)
	require.Len(t, matches, 1)
	assert.Equal(t, EventMatch{ID: "d1", Summary: "Dentist"}, matches[0])
}

func TestClient_CreateEvent(t *testing.T) {
	mux := http.NewServeMux()
	mux.HandleFunc("POST /calendars/{calendarId}/events", func(w http.ResponseWriter, r *http.Request) {
		var body calendar.Event
		require.NoError(t, json.NewDecoder(r.Body).Decode(&body))
		assert.Equal(t, "Sync", body.Summary)
		assert.Equal(t, "Atlantic/Canary", body.Start.TimeZone)

		body.Id = "created-1"
		writeJSON(t, w, body)
	})

	event, err := NewPayloadBuilder("").BuildEvent(EventInput{
		Title: "Sync",
		Start: "2024-01-01T10:00:00Z",
		End:   "2024-01-01T11:00:00Z",
	})
	require.NoError(t, err)

	created, err := newTestClient(t, mux).CreateEvent(context.Background(), "", event)
	require.NoError(t, err)
	assert.Equal(t, "created-1", created.ID)
	assert.Equal(t, "2024-01-01T10:00:00Z", created.Start.DateTime)
}

func TestClient_UpdateEvent_SendsSparsePatch(t *testing.T) {
	var raw map[string]json.RawMessage
	mux := http.NewServeMux()
	mux.HandleFunc("PATCH /calendars/{calendarId}/events/{eventId}", func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "evt9", r.PathValue("eventId"))
		data, err := io.ReadAll(r.Body)
		require.NoError(t, err)
		require.NoError(t, json.Unmarshal(data, &raw))

		writeJSON(t, w, map[string]any{
			"id":      "evt9",
			"summary": "Renamed",
			"start":   map[string]any{"dateTime": "2024-01-01T10:00:00Z"},
			"end":     map[string]any{"dateTime": "2024-01-01T11:00:00Z"},
		})
	})

	patch, err := NewPayloadBuilder("").BuildPatch(EventPatch{Title: optional.Of("Renamed")})
	require.NoError(t, err)

	updated, err := newTestClient(t, mux).UpdateEvent(context.Background(), "primary", "evt9", patch)
	require.NoError(t, err)
	assert.Equal(t, "Renamed", updated.Summary)

	assert.Len(t, raw, 1)
	assert.JSONEq(t, `"Renamed"`, string(raw["summary"]))
}

func TestClient_DeleteEvent(t *testing.T) {
	deleted := false
	mux := http.NewServeMux()
	mux.HandleFunc("DELETE /calendars/{calendarId}/events/{eventId}", func(w http.ResponseWriter, r *http.Request) {
		deleted = r.PathValue("eventId") == "gone"
		w.WriteHeader(http.StatusNoContent)
	})

	require.NoError(t, newTestClient(t, mux).DeleteEvent(context.Background(), "", "gone"))
	assert.True(t, deleted)
}

func TestClient_UpstreamError(t *testing.T) {
	mux := http.NewServeMux()
	mux.HandleFunc("DELETE /calendars/{calendarId}/events/{eventId}", func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusNotFound)
		_, _ = io.WriteString(w, `{"error":{"code":404,"message":"Not Found","errors":[{"reason":"notFound","message":"Not Found"}]}}`)
	})

	err := newTestClient(t, mux).DeleteEvent(context.Background(), "", "missing")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "failed to delete event")
	assert.Contains(t, err.Error(), "Not Found")
}

func TestClient_ListCalendars(t *testing.T) {
	mux := http.NewServeMux()
	mux.HandleFunc("GET /users/me/calendarList", func(w http.ResponseWriter, r *http.Request) {
		writeJSON(t, w, map[string]any{
			"items": []map[string]any{
				{"id": "primary@example.com", "summary": "Me", "timeZone": "Europe/Madrid", "accessRole": "owner", "primary": true},
				{"id": "holidays", "summary": "Holidays", "description": "Public holidays", "accessRole": "reader"},
			},
		})
	})

	calendars, err := newTestClient(t, mux).ListCalendars(context.Background())
	require.NoError(t, err)
	assert.Equal(t, []CalendarInfo{
		{ID: "primary@example.com", Summary: "Me", TimeZone: "Europe/Madrid", AccessRole: "owner"},
		{ID: "holidays", Summary: "Holidays", Description: "Public holidays", AccessRole: "reader"},
	}, calendars)
}

func TestProjectionsHandleNil(t *testing.T) {
	assert.Equal(t, EventSummary{}, toEventSummary(nil))
	assert.Equal(t, EventMatch{}, toEventMatch(nil))
	assert.Equal(t, CalendarInfo{}, toCalendarInfo(nil))
	assert.Nil(t, toEventTime(nil))
}

func TestEventSummaryJSON(t *testing.T) {
	data, err := json.Marshal(EventSummary{ID: "a", Start: &EventTime{Date: "2024-01-01"}})
	require.NoError(t, err)
	assert.JSONEq(t, `{"id":"a","start":{"date":"2024-01-01"}}`, string(data))
}
