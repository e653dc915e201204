package plan

import (
	"fmt"
	"strings"

	"github.com/focusforge/focusforge/internal/session"
)

// BasicPlan builds a deterministic task plan from a session summary's
// next actions and pending decisions. It is the fallback used whenever
// the external planner is unavailable or returns garbage.
func BasicPlan(summary session.Summary) TaskPlan {
	tasks := []Task{}
	order := []string{}

	actions := summary.NextActions
	if len(actions) > 5 {
		actions = actions[:5]
	}
	for i, action := range actions {
		id := fmt.Sprintf("task_%d", i+1)
		tasks = append(tasks, Task{
			ID:            id,
			Title:         action,
			Priority:      "medium",
			Urgency:       "soon",
			EstimatedTime: "30 minutes",
			Dependencies:  []string{},
			Description:   describeTask(action),
			Reason:        "Suggested from session analysis",
			Context:       "",
		})
		order = append(order, id)
	}

	decisions := summary.PendingDecisions
	if len(decisions) > 3 {
		decisions = decisions[:3]
	}
	for i, decision := range decisions {
		id := fmt.Sprintf("decision_%d", i+1)
		title := fmt.Sprintf("Decide: %s", decision)
		tasks = append(tasks, Task{
			ID:            id,
			Title:         title,
			Priority:      "high",
			Urgency:       "soon",
			EstimatedTime: "15 minutes",
			Dependencies:  []string{},
			Description:   describeTask(title),
			Reason:        "Pending decision from session",
			Context:       "",
		})
		order = append(order, id)
	}

	return TaskPlan{
		PrioritizedTasks: tasks,
		TaskOrder:        order,
		Suggestions: []string{
			"Review your session summary to understand what you accomplished",
			"Prioritize tasks based on deadlines and importance",
		},
		Insights: []string{
			"Tasks generated from session analysis",
			"Consider using calendar to schedule time for these tasks",
		},
	}
}

// describeTask picks a canned description by keyword matching on the
// lowercased title. First match wins.
func describeTask(title string) string {
	t := strings.ToLower(title)
	switch {
	case strings.Contains(t, "resume") || strings.Contains(t, "open last stop"):
		return `Press the "Resume Session" button to reopen the tab or workspace where you left off and continue your work seamlessly.`
	case strings.Contains(t, "continue in") || strings.Contains(t, "workspace"):
		return `Press the "Resume Session" button or use "Continue where you left off" to return to the workspace you were actively using.`
	case strings.Contains(t, "review") && strings.Contains(t, "pages"):
		return "Review the most visited pages from your session to identify key resources and information you were working with."
	case strings.Contains(t, "review") && strings.Contains(t, "tabs"):
		return "Go through your recent tabs to see what you were working on and identify any unfinished tasks."
	case strings.Contains(t, "decide:"):
		return "Make a decision on this item based on the context from your session and your current priorities."
	case strings.Contains(t, "complete") || strings.Contains(t, "finish"):
		return "Complete this task that was started during your session to maintain momentum and avoid losing context."
	default:
		return "Work on this task based on your session activity and current priorities."
	}
}
