package engine

import (
	"encoding/json"
	"time"

	"github.com/focusforge/focusforge/internal/session"
)

type eventDigest struct {
	URL         string `json:"url"`
	Title       string `json:"title"`
	DurationSec int    `json:"durationSec"`
	Domain      string `json:"domain"`
	Service     string `json:"service"`
}

type workspaceDigest struct {
	session.Workspace
	Services []string `json:"services"`
}

// analysisContext renders the JSON context object appended to the analyzer
// prompt: raw events enriched with domain and service names, plus the
// precomputed workspaces and last stop.
func analysisContext(goal string, events []session.Event, workspaces []session.Workspace, lastStop session.LastStop) (string, error) {
	digests := make([]eventDigest, 0, len(events))
	for _, ev := range events {
		digests = append(digests, eventDigest{
			URL:         ev.URL,
			Title:       ev.Title,
			DurationSec: ev.DurationSec,
			Domain:      session.ExtractDomain(ev.URL),
			Service:     session.ServiceName(ev.URL),
		})
	}

	enhanced := make([]workspaceDigest, 0, len(workspaces))
	for _, ws := range workspaces {
		enhanced = append(enhanced, workspaceDigest{
			Workspace: ws,
			Services:  workspaceServices(ws),
		})
	}

	payload := map[string]any{
		"goal":       goal,
		"events":     digests,
		"workspaces": enhanced,
		"lastStop":   lastStop,
	}
	data, err := json.MarshalIndent(payload, "", "  ")
	if err != nil {
		return "", err
	}
	return string(data), nil
}

// workspaceServices maps a workspace's top URLs to service names, first
// occurrence wins.
func workspaceServices(ws session.Workspace) []string {
	seen := make(map[string]bool, len(ws.TopURLs))
	services := make([]string, 0, len(ws.TopURLs))
	for _, u := range ws.TopURLs {
		name := session.ServiceName(u)
		if name == "" || seen[name] {
			continue
		}
		seen[name] = true
		services = append(services, name)
	}
	return services
}

// plannerContext renders the JSON context object appended to the planner
// prompt. The caller goal wins over the inferred one.
func plannerContext(summary session.Summary, userGoal string, now time.Time) (string, error) {
	goal := userGoal
	if goal == "" {
		goal = summary.GoalInferred
	}
	payload := map[string]any{
		"userGoal":         goal,
		"sessionSummary":   summary.ResumeSummary,
		"workspaces":       summary.Workspaces,
		"lastStop":         summary.LastStop,
		"nextActions":      summary.NextActions,
		"pendingDecisions": summary.PendingDecisions,
		"timestamp":        now.Format(time.RFC3339),
	}
	data, err := json.MarshalIndent(payload, "", "  ")
	if err != nil {
		return "", err
	}
	return string(data), nil
}
