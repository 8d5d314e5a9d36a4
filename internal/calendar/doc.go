// Package calendar provides a thin wrapper around the Google Calendar v3 API
// and the payload builder that shapes tool arguments into event objects.
//
// The wrapper projects API responses onto small stable structs
// (EventSummary, EventMatch, CalendarInfo) so tool output keeps a
// predictable shape no matter how much the upstream resource carries.
//
// # Time zones
//
// PayloadBuilder attaches exactly one IANA zone to both start and end. The
// zone is the per-request override if given, otherwise the default the
// builder was constructed with, otherwise Atlantic/Canary:
//
//	b := calendar.NewPayloadBuilder("Europe/Madrid")
//	event, err := b.BuildEvent(calendar.EventInput{
//	    Title:     "Sync",
//	    Start:     "2024-01-01T10:00:00Z",
//	    End:       "2024-01-01T11:00:00Z",
//	    Attendees: []string{"a@example.com"},
//	})
//
// # Sparse updates
//
// BuildPatch only copies fields that are set on the EventPatch, and
// UpdateEvent sends the result with events.patch, so any field the caller did
// not mention is left as stored.
package calendar
