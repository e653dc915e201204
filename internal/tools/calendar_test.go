package tools

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/require"
	"golang.org/x/oauth2"
	"google.golang.org/api/calendar/v3"
	"google.golang.org/api/option"
)

var calendarTestNow = time.Date(2026, time.January, 5, 8, 0, 0, 0, time.UTC)

func testCalendarService(t *testing.T, handler http.HandlerFunc) *calendar.Service {
	t.Helper()
	server := httptest.NewServer(handler)
	t.Cleanup(server.Close)
	service, err := calendar.NewService(context.Background(),
		option.WithEndpoint(server.URL),
		option.WithTokenSource(oauth2.StaticTokenSource(&oauth2.Token{AccessToken: "test-token"})))
	require.NoError(t, err)
	return service
}

func TestNewCalendarClient_Unauthenticated(t *testing.T) {
	client, err := NewCalendarClient(context.Background(), "")
	require.NoError(t, err)
	require.False(t, client.Authenticated())
	require.Empty(t, client.UpcomingEvents(context.Background(), 10, time.Time{}))
	require.True(t, client.Available(context.Background(), calendarTestNow, calendarTestNow.Add(time.Hour)))
}

func TestNewCalendarClient_BareToken(t *testing.T) {
	client, err := NewCalendarClient(context.Background(), "ya29.access-token")
	require.NoError(t, err)
	require.True(t, client.Authenticated())
}

func TestNewCalendarClient_JSONToken(t *testing.T) {
	client, err := NewCalendarClient(context.Background(), `{"access_token": "abc", "refresh_token": "def"}`)
	require.NoError(t, err)
	require.True(t, client.Authenticated())
}

func TestNewCalendarClient_BadJSONToken(t *testing.T) {
	_, err := NewCalendarClient(context.Background(), "{not json")
	require.Error(t, err)
	require.Contains(t, err.Error(), "parsing calendar token")
}

func TestCalendarClient_UpcomingEvents(t *testing.T) {
	service := testCalendarService(t, func(w http.ResponseWriter, r *http.Request) {
		require.Equal(t, "/calendars/primary/events", r.URL.Path)
		require.Equal(t, "5", r.URL.Query().Get("maxResults"))
		require.Equal(t, "true", r.URL.Query().Get("singleEvents"))
		require.Equal(t, "startTime", r.URL.Query().Get("orderBy"))
		require.Equal(t, "2026-01-05T08:00:00Z", r.URL.Query().Get("timeMin"))
		w.Header().Set("Content-Type", "application/json")
		json.NewEncoder(w).Encode(map[string]any{
			"items": []map[string]any{
				{
					"id":       "evt-1",
					"summary":  "Standup",
					"start":    map[string]string{"dateTime": "2026-01-05T09:00:00Z"},
					"end":      map[string]string{"dateTime": "2026-01-05T09:15:00Z"},
					"location": "Meet",
				},
				{
					"id":    "evt-2",
					"start": map[string]string{"date": "2026-01-06"},
					"end":   map[string]string{"date": "2026-01-07"},
				},
			},
		})
	})
	client := &CalendarClient{service: service, now: func() time.Time { return calendarTestNow }}

	events := client.UpcomingEvents(context.Background(), 5, time.Time{})
	require.Len(t, events, 2)
	require.Equal(t, "evt-1", events[0].ID)
	require.Equal(t, "Standup", events[0].Summary)
	require.Equal(t, "2026-01-05T09:00:00Z", events[0].Start)
	require.Equal(t, "Meet", events[0].Location)
	require.Equal(t, "No title", events[1].Summary)
	require.Equal(t, "2026-01-06", events[1].Start)
}

func TestCalendarClient_UpcomingEventsAPIError(t *testing.T) {
	service := testCalendarService(t, func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusInternalServerError)
	})
	client := &CalendarClient{service: service, now: func() time.Time { return calendarTestNow }}
	require.Empty(t, client.UpcomingEvents(context.Background(), 5, time.Time{}))
}

func TestCalendarClient_Available(t *testing.T) {
	service := testCalendarService(t, func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		json.NewEncoder(w).Encode(map[string]any{
			"items": []map[string]any{
				{
					"id":    "evt-1",
					"start": map[string]string{"dateTime": "2026-01-05T09:00:00Z"},
					"end":   map[string]string{"dateTime": "2026-01-05T10:00:00Z"},
				},
			},
		})
	})
	client := &CalendarClient{service: service, now: func() time.Time { return calendarTestNow }}

	overlapStart := time.Date(2026, time.January, 5, 9, 30, 0, 0, time.UTC)
	require.False(t, client.Available(context.Background(), overlapStart, overlapStart.Add(time.Hour)))

	freeStart := time.Date(2026, time.January, 5, 11, 0, 0, 0, time.UTC)
	require.True(t, client.Available(context.Background(), freeStart, freeStart.Add(time.Hour)))
}

func TestCalendarClient_AvailableOnError(t *testing.T) {
	service := testCalendarService(t, func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusInternalServerError)
	})
	client := &CalendarClient{service: service, now: func() time.Time { return calendarTestNow }}
	start := time.Date(2026, time.January, 5, 9, 0, 0, 0, time.UTC)
	require.True(t, client.Available(context.Background(), start, start.Add(time.Hour)))
}

func TestCalendarClient_SuggestMeetingTimesUnauthenticated(t *testing.T) {
	client := &CalendarClient{now: func() time.Time { return calendarTestNow }}

	slots := client.SuggestMeetingTimes(context.Background(), 0, 0)
	require.Len(t, slots, 10)
	require.Equal(t, "2026-01-05T09:00:00", slots[0].Start)
	require.Equal(t, "2026-01-05T09:30:00", slots[0].End)
	require.Equal(t, "2026-01-05T14:00:00", slots[1].Start)
	require.Equal(t, "2026-01-05T16:00:00", slots[2].Start)
	require.Equal(t, "2026-01-06T09:00:00", slots[3].Start)
	require.Equal(t, "2026-01-08T09:00:00", slots[9].Start)
	require.True(t, slots[0].Available)
}

func TestCalendarClient_SuggestMeetingTimesDuration(t *testing.T) {
	client := &CalendarClient{now: func() time.Time { return calendarTestNow }}

	slots := client.SuggestMeetingTimes(context.Background(), 45, 1)
	require.Len(t, slots, 3)
	require.Equal(t, "2026-01-05T09:45:00", slots[0].End)
}

func TestCalendarClient_SuggestMeetingTimesSkipsBusySlots(t *testing.T) {
	service := testCalendarService(t, func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		json.NewEncoder(w).Encode(map[string]any{
			"items": []map[string]any{
				{
					"id":    "evt-1",
					"start": map[string]string{"dateTime": "2026-01-05T10:00:00Z"},
					"end":   map[string]string{"dateTime": "2026-01-05T11:00:00Z"},
				},
			},
		})
	})
	client := &CalendarClient{service: service, now: func() time.Time { return calendarTestNow }}

	slots := client.SuggestMeetingTimes(context.Background(), 60, 1)
	require.Len(t, slots, 5)
	require.Equal(t, "2026-01-05T09:00:00", slots[0].Start)
	require.Equal(t, "2026-01-05T11:00:00", slots[1].Start)
}

func TestCalendarTools(t *testing.T) {
	client, err := NewCalendarClient(context.Background(), "")
	require.NoError(t, err)
	client.now = func() time.Time { return calendarTestNow }

	registry := NewRegistry()
	for _, tool := range CalendarTools(client) {
		require.NoError(t, registry.Register(tool))
	}

	var names []string
	for _, spec := range registry.Specs() {
		names = append(names, spec.Name)
	}
	require.Equal(t, []string{"get_upcoming_events", "check_availability", "suggest_meeting_times"}, names)

	out := registry.Execute(context.Background(), "get_upcoming_events", map[string]any{"max_results": float64(3)})
	result, ok := out["result"].(map[string]any)
	require.True(t, ok)
	require.Equal(t, 0, result["count"])

	out = registry.Execute(context.Background(), "check_availability", map[string]any{
		"start_time": "2026-01-05T14:00:00",
		"end_time":   "2026-01-05T15:00:00",
	})
	result, ok = out["result"].(map[string]any)
	require.True(t, ok)
	require.Equal(t, true, result["available"])
	require.Equal(t, "2026-01-05T14:00:00", result["start_time"])

	out = registry.Execute(context.Background(), "suggest_meeting_times", map[string]any{"days_ahead": float64(2)})
	result, ok = out["result"].(map[string]any)
	require.True(t, ok)
	require.Equal(t, 6, result["count"])
}

func TestCalendarTools_BadTimeArgument(t *testing.T) {
	client, err := NewCalendarClient(context.Background(), "")
	require.NoError(t, err)

	registry := NewRegistry()
	for _, tool := range CalendarTools(client) {
		require.NoError(t, registry.Register(tool))
	}

	out := registry.Execute(context.Background(), "check_availability", map[string]any{
		"start_time": "not-a-time",
		"end_time":   "2026-01-05T15:00:00",
	})
	require.Contains(t, out["error"], "unrecognized time")
}
