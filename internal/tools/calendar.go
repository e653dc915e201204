package tools

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"
	"time"

	"golang.org/x/oauth2"
	"google.golang.org/api/calendar/v3"
	"google.golang.org/api/option"

	"github.com/focusforge/focusforge/internal/llm"
)

const (
	slotTimeLayout = "2006-01-02T15:04:05"
	maxSuggestions = 10
)

// CalendarClient wraps the Google Calendar API. A client built without a
// token is still usable: every operation degrades to a safe default.
type CalendarClient struct {
	service *calendar.Service
	now     func() time.Time
}

// NewCalendarClient builds a client from an OAuth token. The token may be a
// JSON-encoded oauth2.Token or a bare access token; empty means
// unauthenticated.
func NewCalendarClient(ctx context.Context, token string) (*CalendarClient, error) {
	client := &CalendarClient{now: time.Now}
	if token == "" {
		return client, nil
	}
	source, err := tokenSource(token)
	if err != nil {
		return nil, fmt.Errorf("parsing calendar token: %w", err)
	}
	service, err := calendar.NewService(ctx, option.WithTokenSource(source))
	if err != nil {
		return nil, fmt.Errorf("creating calendar service: %w", err)
	}
	client.service = service
	return client, nil
}

func tokenSource(token string) (oauth2.TokenSource, error) {
	tok := &oauth2.Token{}
	if strings.HasPrefix(strings.TrimSpace(token), "{") {
		if err := json.Unmarshal([]byte(token), tok); err != nil {
			return nil, err
		}
	} else {
		tok.AccessToken = token
	}
	return oauth2.StaticTokenSource(tok), nil
}

func (c *CalendarClient) Authenticated() bool {
	return c.service != nil
}

// CalendarEvent is the reduced event shape handed to the model.
type CalendarEvent struct {
	ID          string `json:"id"`
	Summary     string `json:"summary"`
	Start       string `json:"start"`
	End         string `json:"end"`
	Location    string `json:"location"`
	Description string `json:"description"`
}

// UpcomingEvents lists events from the primary calendar starting at timeMin
// (zero value means now). Unauthenticated clients and API failures yield an
// empty list.
func (c *CalendarClient) UpcomingEvents(ctx context.Context, maxResults int, timeMin time.Time) []CalendarEvent {
	if c.service == nil {
		return []CalendarEvent{}
	}
	if timeMin.IsZero() {
		timeMin = c.now().UTC()
	}
	result, err := c.service.Events.List("primary").
		TimeMin(timeMin.Format(time.RFC3339)).
		MaxResults(int64(maxResults)).
		SingleEvents(true).
		OrderBy("startTime").
		Context(ctx).
		Do()
	if err != nil {
		return []CalendarEvent{}
	}
	events := make([]CalendarEvent, 0, len(result.Items))
	for _, item := range result.Items {
		summary := item.Summary
		if summary == "" {
			summary = "No title"
		}
		events = append(events, CalendarEvent{
			ID:          item.Id,
			Summary:     summary,
			Start:       eventTime(item.Start),
			End:         eventTime(item.End),
			Location:    item.Location,
			Description: item.Description,
		})
	}
	return events
}

func eventTime(dt *calendar.EventDateTime) string {
	if dt == nil {
		return ""
	}
	if dt.DateTime != "" {
		return dt.DateTime
	}
	return dt.Date
}

// Available reports whether the window is free of conflicting events.
// Unauthenticated clients and API failures assume availability.
func (c *CalendarClient) Available(ctx context.Context, start, end time.Time) bool {
	if c.service == nil {
		return true
	}
	for _, event := range c.UpcomingEvents(ctx, 50, start) {
		eventStart, err := parseEventTime(event.Start)
		if err != nil {
			continue
		}
		eventEnd, err := parseEventTime(event.End)
		if err != nil {
			continue
		}
		if eventStart.Before(end) && eventEnd.After(start) {
			return false
		}
	}
	return true
}

func parseEventTime(value string) (time.Time, error) {
	for _, layout := range []string{time.RFC3339, slotTimeLayout, "2006-01-02"} {
		if t, err := time.Parse(layout, value); err == nil {
			return t, nil
		}
	}
	return time.Time{}, fmt.Errorf("unrecognized time %q", value)
}

// MeetingSlot is a proposed meeting window.
type MeetingSlot struct {
	Start     string `json:"start"`
	End       string `json:"end"`
	Available bool   `json:"available"`
}

// SuggestMeetingTimes proposes up to ten slots over the coming days.
// Unauthenticated clients suggest fixed business-hour slots; authenticated
// clients probe common meeting hours against the calendar.
func (c *CalendarClient) SuggestMeetingTimes(ctx context.Context, durationMinutes, daysAhead int) []MeetingSlot {
	if durationMinutes <= 0 {
		durationMinutes = 30
	}
	if daysAhead <= 0 {
		daysAhead = 7
	}
	duration := time.Duration(durationMinutes) * time.Minute

	hours := []int{9, 10, 11, 14, 15, 16}
	if c.service == nil {
		hours = []int{9, 14, 16}
	}

	now := c.now()
	slots := make([]MeetingSlot, 0, maxSuggestions)
	for day := 0; day < daysAhead; day++ {
		date := now.AddDate(0, 0, day)
		for _, hour := range hours {
			start := time.Date(date.Year(), date.Month(), date.Day(), hour, 0, 0, 0, date.Location())
			end := start.Add(duration)
			if c.service != nil && !c.Available(ctx, start, end) {
				continue
			}
			slots = append(slots, MeetingSlot{
				Start:     start.Format(slotTimeLayout),
				End:       end.Format(slotTimeLayout),
				Available: true,
			})
			if len(slots) >= maxSuggestions {
				return slots
			}
		}
	}
	return slots
}

// CalendarTools exposes the calendar client as planner tools.
func CalendarTools(client *CalendarClient) []Tool {
	return []Tool{
		{
			Name:        "get_upcoming_events",
			Description: "Get upcoming calendar events. Useful for understanding user's schedule and upcoming commitments.",
			Parameters: llm.ParamSchema{
				Properties: map[string]llm.Param{
					"max_results": {Type: "integer", Description: "Maximum number of events to return (default: 10)"},
				},
			},
			Handler: func(ctx context.Context, args map[string]any) (map[string]any, error) {
				events := client.UpcomingEvents(ctx, intArg(args, "max_results", 10), time.Time{})
				return map[string]any{"events": events, "count": len(events)}, nil
			},
		},
		{
			Name:        "check_availability",
			Description: "Check if user is available during a specific time period. Use this before suggesting meeting times.",
			Parameters: llm.ParamSchema{
				Properties: map[string]llm.Param{
					"start_time": {Type: "string", Description: "Start time in ISO format (e.g., '2024-01-15T14:00:00')"},
					"end_time":   {Type: "string", Description: "End time in ISO format (e.g., '2024-01-15T15:00:00')"},
				},
				Required: []string{"start_time", "end_time"},
			},
			Handler: func(ctx context.Context, args map[string]any) (map[string]any, error) {
				start, err := parseEventTime(stringArg(args, "start_time"))
				if err != nil {
					return nil, err
				}
				end, err := parseEventTime(stringArg(args, "end_time"))
				if err != nil {
					return nil, err
				}
				return map[string]any{
					"available":  client.Available(ctx, start, end),
					"start_time": stringArg(args, "start_time"),
					"end_time":   stringArg(args, "end_time"),
				}, nil
			},
		},
		{
			Name:        "suggest_meeting_times",
			Description: "Suggest available meeting times for the user. Useful when user needs to schedule something based on their session activity.",
			Parameters: llm.ParamSchema{
				Properties: map[string]llm.Param{
					"duration_minutes": {Type: "integer", Description: "Duration of meeting in minutes (default: 30)"},
					"days_ahead":       {Type: "integer", Description: "How many days ahead to look (default: 7)"},
				},
			},
			Handler: func(ctx context.Context, args map[string]any) (map[string]any, error) {
				slots := client.SuggestMeetingTimes(ctx, intArg(args, "duration_minutes", 30), intArg(args, "days_ahead", 7))
				return map[string]any{"suggestions": slots, "count": len(slots)}, nil
			},
		},
	}
}
