package plan

import (
	"strings"
	"testing"

	"github.com/google/go-cmp/cmp"

	"github.com/focusforge/focusforge/internal/session"
)

func TestBasicPlanFromSummary(t *testing.T) {
	summary := session.Summary{
		NextActions:      []string{"Continue work on docs.google.com", "Review progress and plan next steps"},
		PendingDecisions: []string{"Which companies to apply to next"},
	}

	got := BasicPlan(summary)
	if len(got.PrioritizedTasks) != 3 {
		t.Fatalf("len(prioritizedTasks) = %d, want 3", len(got.PrioritizedTasks))
	}
	if diff := cmp.Diff([]string{"task_1", "task_2", "decision_1"}, got.TaskOrder); diff != "" {
		t.Fatalf("taskOrder mismatch (-want +got):\n%s", diff)
	}

	first := got.PrioritizedTasks[0]
	if first.Title != "Continue work on docs.google.com" || first.Priority != "medium" ||
		first.Urgency != "soon" || first.EstimatedTime != "30 minutes" {
		t.Fatalf("task_1 = %+v, want medium/soon/30 minutes", first)
	}
	if first.Reason != "Suggested from session analysis" {
		t.Fatalf("task_1.reason = %q, want %q", first.Reason, "Suggested from session analysis")
	}

	decision := got.PrioritizedTasks[2]
	if decision.Title != "Decide: Which companies to apply to next" {
		t.Fatalf("decision title = %q", decision.Title)
	}
	if decision.Priority != "high" || decision.EstimatedTime != "15 minutes" {
		t.Fatalf("decision = %+v, want high priority and 15 minutes", decision)
	}
	if decision.Reason != "Pending decision from session" {
		t.Fatalf("decision.reason = %q, want %q", decision.Reason, "Pending decision from session")
	}
	if !strings.Contains(decision.Description, "Make a decision on this item") {
		t.Fatalf("decision.description = %q, want decision template", decision.Description)
	}

	wantSuggestions := []string{
		"Review your session summary to understand what you accomplished",
		"Prioritize tasks based on deadlines and importance",
	}
	if diff := cmp.Diff(wantSuggestions, got.Suggestions); diff != "" {
		t.Fatalf("suggestions mismatch (-want +got):\n%s", diff)
	}
	wantInsights := []string{
		"Tasks generated from session analysis",
		"Consider using calendar to schedule time for these tasks",
	}
	if diff := cmp.Diff(wantInsights, got.Insights); diff != "" {
		t.Fatalf("insights mismatch (-want +got):\n%s", diff)
	}
}

func TestBasicPlanCapsInputs(t *testing.T) {
	summary := session.Summary{
		NextActions:      []string{"a", "b", "c", "d", "e", "f", "g"},
		PendingDecisions: []string{"d1", "d2", "d3", "d4"},
	}

	got := BasicPlan(summary)
	if len(got.PrioritizedTasks) != 8 {
		t.Fatalf("len(prioritizedTasks) = %d, want 5 actions + 3 decisions", len(got.PrioritizedTasks))
	}
	if got.TaskOrder[4] != "task_5" || got.TaskOrder[7] != "decision_3" {
		t.Fatalf("taskOrder = %v", got.TaskOrder)
	}
}

func TestBasicPlanEmptySummary(t *testing.T) {
	got := BasicPlan(session.Summary{})
	if len(got.PrioritizedTasks) != 0 || len(got.TaskOrder) != 0 {
		t.Fatalf("plan = %+v, want no tasks", got)
	}
	if len(got.Suggestions) != 2 || len(got.Insights) != 2 {
		t.Fatalf("fixed suggestions/insights missing: %+v", got)
	}
}

func TestDescribeTask(t *testing.T) {
	cases := []struct {
		name  string
		title string
		want  string
	}{
		{"resume keyword", "Resume the session", `Press the "Resume Session" button to reopen the tab or workspace where you left off and continue your work seamlessly.`},
		{"open last stop", "Open last stop", `Press the "Resume Session" button to reopen the tab or workspace where you left off and continue your work seamlessly.`},
		{"workspace keyword", "Continue in the coding workspace", `Press the "Resume Session" button or use "Continue where you left off" to return to the workspace you were actively using.`},
		{"review pages", "Review the top pages", "Review the most visited pages from your session to identify key resources and information you were working with."},
		{"review tabs", "Review open tabs", "Go through your recent tabs to see what you were working on and identify any unfinished tasks."},
		{"decide prefix", "Decide: pick a framework", "Make a decision on this item based on the context from your session and your current priorities."},
		{"finish keyword", "Finish the blog post", "Complete this task that was started during your session to maintain momentum and avoid losing context."},
		{"default", "Practice coding problems", "Work on this task based on your session activity and current priorities."},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			if got := describeTask(tc.title); got != tc.want {
				t.Fatalf("describeTask(%q) = %q, want %q", tc.title, got, tc.want)
			}
		})
	}
}
